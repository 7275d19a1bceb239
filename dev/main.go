package main

import (
	"flag"
	"log/slog"
	"os"
	devenv "toolbox-backend/dev/env"
	"toolbox-backend/dev/setup"

	_ "modernc.org/sqlite"
)

type step struct {
	name string
	run  func() error
}

func steps(interactive bool) []step {
	out := []step{
		{"create service databases", CreateEmptyServiceDBs},
		{"write local config", WriteLocalConfig},
	}
	if interactive {
		out = append(out,
			step{"ask secrets", func() error { return setup.AskSecrets(".env") }},
			step{"ask mongo test config", setup.AskMongoTestConfig},
		)
	}
	return out
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	interactive := flag.Bool("i", false, "prompt for upstream credentials and test config")
	flag.Parse()

	root, err := devenv.WorkspaceRoot()
	if err != nil {
		slog.Error("run this from inside the toolbox-backend checkout", "err", err)
		os.Exit(1)
	}
	err = os.Chdir(root)
	if err != nil {
		slog.Error("change to workspace root", "err", err)
		os.Exit(1)
	}

	if *recreate {
		err = os.RemoveAll("dev/.state")
		if err != nil {
			slog.Error("remove dev state", "err", err)
			os.Exit(1)
		}
	}

	for _, s := range steps(*interactive) {
		err = s.run()
		if err != nil {
			slog.Error("dev setup failed", "step", s.name, "err", err)
			os.Exit(1)
		}
	}
	PrintConfigLocations()

	slog.Info("dev environment ready", "root", root)
}
