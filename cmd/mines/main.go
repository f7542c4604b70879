package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minesweeper/internal/app"
	"github.com/vancomm/minesweeper/internal/config"
)

var log = logrus.New()

func setupLogging() {
	logLevel := logrus.InfoLevel
	if config.Development() {
		logLevel = logrus.DebugLevel
	}
	if lvl := config.LogLevel(); lvl != "" {
		parsed, err := logrus.ParseLevel(lvl)
		if err != nil {
			log.Fatal("invalid LOG_LEVEL: ", err)
		}
		logLevel = parsed
	}
	log.SetLevel(logLevel)

	if config.Development() {
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	if path := config.LogFile(); path != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   path,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Level:      logLevel,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			log.Fatal("unable to open log file: ", err)
		}
		log.AddHook(hook)
	}
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	setupLogging()

	log.WithFields(logrus.Fields{
		"addr":        config.Addr(),
		"base_path":   config.BasePath(),
		"development": config.Development(),
	}).Info("starting up")

	jwt, err := config.NewJWT()
	if err != nil {
		log.Fatal("unable to load JWT secret: ", err)
	}

	if err := app.New(log, jwt).Start(mainCtx, config.Addr()); err != nil {
		log.Errorf("exit reason: %s", err)
		os.Exit(1)
	}
	log.Info("shut down")
}
