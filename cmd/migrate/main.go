package main

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"vendor-backend/internal/cli"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Errorf("Unexpected failure\n%s", debug.Stack())
			os.Exit(2)
		}
	}()

	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(cli.Options{}).ExecuteContext(ctx); err != nil {
		log.WithError(err).Errorf("Migration failed\n%s", debug.Stack())
		stop()
		os.Exit(1)
	}
}
