// notifier scans documents expiring in 30, 15 or 7 days and pushes a
// reminder to their owners' devices.
//
// By default it does one pass and exits, non-zero if the scan could not run.
// With --schedule it stays resident and scans on the given cron expression.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/linesmerrill/glovebox-api/api"
	"github.com/linesmerrill/glovebox-api/api/scheduler"
	"github.com/linesmerrill/glovebox-api/config"
	"github.com/linesmerrill/glovebox-api/databases"
	"github.com/linesmerrill/glovebox-api/push"
)

type options struct {
	schedule    string
	dryRun      bool
	envFile     string
	metricsAddr string
	help        bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (*options, *pflag.FlagSet, error) {
	opts := &options{}
	flagSet := pflag.NewFlagSet("notifier", pflag.ContinueOnError)
	flagSet.StringVar(&opts.schedule, "schedule", "", "cron expression to stay resident and scan on (default: scan once and exit)")
	flagSet.BoolVar(&opts.dryRun, "dry-run", false, "validate notifications with FCM without delivering them")
	flagSet.StringVar(&opts.envFile, "env-file", "", "load environment variables from this file before reading the config")
	flagSet.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while scheduled")
	flagSet.BoolVarP(&opts.help, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		return nil, flagSet, err
	}
	if len(flagSet.Args()) > 0 {
		return nil, flagSet, fmt.Errorf("unexpected arguments: %v", flagSet.Args())
	}
	if opts.metricsAddr != "" && opts.schedule == "" {
		return nil, flagSet, errors.New("--metrics-addr requires --schedule")
	}
	return opts, flagSet, nil
}

func run(args []string) error {
	opts, flagSet, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if opts.help {
		fmt.Fprintf(os.Stdout, "Usage: notifier [flags]\n\n%s", flagSet.FlagUsages())
		return nil
	}

	var envFiles []string
	if opts.envFile != "" {
		envFiles = append(envFiles, opts.envFile)
	}
	conf, err := config.New(envFiles...)
	if err != nil {
		return err
	}
	if err := conf.ValidateNotifier(); err != nil {
		return err
	}
	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		return fmt.Errorf("invalid NOTIFIER_TIMEZONE %q: %w", conf.Timezone, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := databases.NewClient(conf)
	if err != nil {
		return err
	}
	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer client.Disconnect(context.Background())
	db := databases.NewDatabase(conf, client)

	sender, err := push.NewFCM(ctx, conf.ServiceAccount, opts.dryRun)
	if err != nil {
		return err
	}

	notifier := scheduler.NewExpirationNotifier(
		databases.NewDocumentDatabase(db),
		databases.NewVehicleDatabase(db),
		databases.NewDeviceDatabase(db),
		sender,
		loc,
	)
	zap.S().Infow("expiration notifier starting",
		"dryRun", opts.dryRun,
		"timezone", loc.String(),
		"schedule", opts.schedule)

	if opts.schedule == "" {
		summary, err := notifier.Run(ctx)
		if err != nil {
			return err
		}
		return json.NewEncoder(os.Stdout).Encode(summary)
	}

	s := scheduler.NewScheduler(notifier, loc)
	if err := s.Start(opts.schedule); err != nil {
		return err
	}
	defer s.Stop()

	if opts.metricsAddr != "" {
		srv := &http.Server{Addr: opts.metricsAddr, Handler: api.MetricsHandler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zap.S().Errorw("metrics server stopped", "error", err)
			}
		}()
		defer srv.Close()
	}

	<-ctx.Done()
	zap.S().Info("expiration notifier shutting down")
	return nil
}
