package main

import "github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/cli"

// Version information set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	cli.Execute()
}
