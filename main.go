package main

import (
	"fmt"
	"os"
	"time"

	logger "github.com/sirupsen/logrus"

	"papertrading/src/database"
	"papertrading/src/logging"
	"papertrading/src/server"
)

var APP_NAME = os.Getenv("APP_NAME")

func main() {
	dbConfig := database.GetConfig()
	logging.Setup(dbConfig.LogLevel, dbConfig.LogFormat)
	defer handlePanic()

	// One handle for the whole process, shared by every repository.
	db, err := database.InitMainDB(dbConfig)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	server.StartServer(db, server.GetConfig())
}

func handlePanic() {
	if r := recover(); r != nil {
		logger.WithError(fmt.Errorf("%+v", r)).Error(fmt.Sprintf("Application %s panic", APP_NAME))
		//nolint
		time.Sleep(time.Second * 5)
	}
}
