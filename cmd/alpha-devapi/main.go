package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog/log"
	"github.com/samber/oops"

	"github.com/jrsteele09/alpha-client/internal/config"
	"github.com/jrsteele09/alpha-client/internal/fakeapi"
	"github.com/jrsteele09/alpha-client/internal/logging"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("Error running server")
		os.Exit(1)
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	if err := config.LoadDotEnv(); err != nil {
		return oops.In("main").Wrapf(err, "loading .env")
	}
	c := config.New()
	logging.Setup(c.GetLogLevel(), os.Stderr)
	displayAppname(c.GetAppName() + " dev")

	api := fakeapi.New(
		fakeapi.WithEnv(c.GetEnv()),
		fakeapi.WithSecret(c.GetDevAPISecret()),
		fakeapi.WithAccessTokenTTL(c.GetDevAPITokenTTL()),
	)
	server := &http.Server{
		Addr:              c.GetPort(),
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- listenAndServe(server) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case err := <-errc:
		if err != nil {
			return oops.In("HTTP Server").Wrapf(err, "serving %s", server.Addr)
		}
		return nil
	case <-ctx.Done():
	}
	return shutdown(server)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return oops.In("HTTP Server").Wrapf(err, "server.Shutdown")
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
