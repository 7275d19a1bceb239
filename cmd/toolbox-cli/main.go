package main

import (
	"toolbox-backend/cmd/toolbox-cli/cmd"
	"toolbox-backend/lib/configutil"
)

func main() {
	configutil.LoadDotenv()
	cmd.Execute()
}
