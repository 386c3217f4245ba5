package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"papertrading/cmd/report"
	"papertrading/src/database"
	"papertrading/src/logging"
	"papertrading/src/server"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "Paper Trading CMD"
	app.Usage = "The paper trading persistence and reporting command line interface"
	app.Version = Version

	app.Before = func(_ *cli.Context) error {
		config := database.GetConfig()
		logging.Setup(config.LogLevel, config.LogFormat)
		return nil
	}

	app.Commands = []cli.Command{
		serveCMD,
		migrateCMD,
		analyticsCMD,
		exportCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	serveCMD = cli.Command{
		Name:        "serve",
		Usage:       "run the HTTP API",
		Action:      serveAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Open the store, migrate it and serve the /api routes until SIGINT or SIGTERM`,
	}
	migrateCMD = cli.Command{
		Name:        "migrate",
		Usage:       "run migrations",
		Action:      migrateAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Create or upgrade the schema and exit`,
	}
	analyticsCMD = cli.Command{
		Name:        "analytics",
		Usage:       "print session analytics",
		Action:      analyticsAction,
		ArgsUsage:   "<session_id>",
		Flags:       []cli.Flag{},
		Description: `Query a running API and print the analytics of a session as JSON`,
	}
	exportCMD = cli.Command{
		Name:      "export",
		Usage:     "export a session",
		Action:    exportAction,
		ArgsUsage: "<session_id>",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "dir",
				Value: ".",
				Usage: "directory the export file is written to",
			},
		},
		Description: `Query a running API and save the full export of a session`,
	}
)

func serveAction(_ *cli.Context) error {
	logrus.Info("Starting serve CMD")

	db, err := database.InitMainDB(database.GetConfig())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	server.StartServer(db, server.GetConfig())
	return nil
}

func migrateAction(_ *cli.Context) error {
	logrus.Info("Starting migrate CMD")

	db, err := database.InitMainDB(database.GetConfig())
	if err != nil {
		logrus.WithError(err).Error("Migration failed")
		return err
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

func sessionArg(c *cli.Context) (string, error) {
	sessionID := c.Args().First()
	if sessionID == "" {
		return "", errors.New("missing <session_id> argument")
	}
	return sessionID, nil
}

func analyticsAction(c *cli.Context) error {
	sessionID, err := sessionArg(c)
	if err != nil {
		return err
	}

	r := report.New(logrus.WithField("cmd", "analytics"), report.GetConfig(), sessionID)
	if err := r.Analytics(context.Background(), os.Stdout); err != nil {
		logrus.WithError(err).Error("Analytics CMD failed")
		return err
	}
	return nil
}

func exportAction(c *cli.Context) error {
	sessionID, err := sessionArg(c)
	if err != nil {
		return err
	}

	r := report.New(logrus.WithField("cmd", "export"), report.GetConfig(), sessionID)
	path, err := r.Export(context.Background(), c.String("dir"))
	if err != nil {
		logrus.WithError(err).Error("Export CMD failed")
		return err
	}

	_, _ = fmt.Fprintln(os.Stdout, path)
	return nil
}
