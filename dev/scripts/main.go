package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	devenv "toolbox-backend/dev/env"
)

type script struct {
	about string
	run   func() error
}

var scripts = map[string]script{
	"dev:sqlc": {
		about: "regenerate the sqlc query packages",
		run:   generateQueries,
	},
	"dev:apply_db_schema": {
		about: "migrate the dev databases to the current schema.sql files",
		run:   migrateDbs,
	},
}

// sqlc package -> dev database it backs
var servicesDbs = map[string]string{
	"services/bindb/db":     "dev/.state/bindb.db",
	"services/shortener/db": "dev/.state/shortener.db",
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: go run ./dev/scripts <script>")
	names := make([]string, 0, len(scripts))
	for name := range scripts {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-22s %s\n", name, scripts[name].about)
	}
}

func main() {
	flag.Usage = usage
	flag.Parse()

	s, ok := scripts[flag.Arg(0)]
	if !ok {
		usage()
		os.Exit(2)
	}

	root, err := devenv.WorkspaceRoot()
	if err == nil {
		err = os.Chdir(root)
	}
	if err == nil {
		err = s.run()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(name string, args ...string) error {
	fmt.Printf("$ %s %s\n", name, strings.Join(args, " "))
	c := exec.Command(name, args...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

func generateQueries() error {
	for pkg := range servicesDbs {
		err := run("sqlc", "generate", "-f", pkg+"/sqlc.yaml")
		if err != nil {
			return err
		}
	}
	return nil
}

func migrateDbs() error {
	for pkg, db := range servicesDbs {
		err := run(
			"atlas", "schema", "apply",
			"-u", "sqlite://"+db,
			"--to", "file://"+pkg+"/schema.sql",
			"--dev-url", "sqlite://dev?mode=memory",
		)
		if err != nil {
			return err
		}
	}
	return nil
}
