package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/Laieb786/tutorial-spring-boot/cashcard"
	"golang.org/x/exp/slog"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr))

	app := cashcard.NewApp(logger, cashcard.FromEnv())
	if err := app.Start(); err != nil {
		logger.Error("starting app", "err", err)
		os.Exit(1)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	app.Shutdown()
}
