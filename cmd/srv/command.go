package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Name = "TangoHub"
	s.app.Action = cli.ShowAppHelp
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path of the TOML configuration file",
			Value: "config.toml",
		},
	}
	s.app.Commands = []*cli.Command{
		{
			Action:      server.startEngine,
			Name:        "engine",
			Usage:       "Start the gamification engine",
			Category:    "Engine",
			Description: `Consumes the stat feed, runs the challenge expiry cron, and publishes gamification events.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate database tables",
			Category:    "Database",
			Description: `Creates or updates the database schema and exits.`,
		},
	}
}
