package main

import (
	"os"

	"github.com/matthewsawatzky/whitelabel/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	root := cli.NewRootCmd(cli.VersionInfo{Version: version, Commit: commit, Date: date})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
