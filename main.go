package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/glovebox-api/api/handlers"
	"github.com/linesmerrill/glovebox-api/config"
)

const shutdownGrace = 10 * time.Second

func main() {
	conf, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := conf.ValidateGateway(); err != nil {
		zap.S().With("error", err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := handlers.App{Config: *conf}
	if err := a.Initialize(ctx); err != nil { //initialize database and router
		zap.S().With("error", err).Fatal("failed to initialize")
	}

	srv := &http.Server{Handler: a.Router}
	ln, err := net.Listen("tcp", fmt.Sprintf(":%v", conf.Port))
	if err != nil {
		zap.S().With("error", err).Fatal("failed to listen")
	}

	zap.S().Infow("glovebox-api is up and running",
		"port", conf.Port,
		"url", conf.BaseURL,
		"devBypassAuth", conf.DevBypassAuth,
	)
	if err := serve(ctx, srv, ln); err != nil {
		zap.S().With("error", err).Error("server stopped")
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := a.Close(closeCtx); err != nil {
		zap.S().With("error", err).Error("failed to disconnect from database")
	}
}

// serve runs srv on ln until ctx is done, then waits for in-flight requests
// to finish (up to shutdownGrace) before returning
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.S().With("error", err).Warn("in-flight requests did not finish before shutdown")
		}
	}()

	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	cancel()
	<-drained
	return err
}
