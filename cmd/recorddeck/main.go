package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"recorddeck/internal/api"
	"recorddeck/internal/config"
	"recorddeck/internal/crud"
	"recorddeck/internal/logging"
	"recorddeck/internal/mockapi"
	"recorddeck/internal/telemetry"
	"recorddeck/internal/ui"
)

// flags holds the parsed command line.
type flags struct {
	configPath string
	demo       bool
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "path to a YAML config file (default $"+config.EnvConfig+")")
	flag.BoolVar(&f.demo, "demo", false, "serve an in-memory API with sample records and use it")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: recorddeck [flags]\n\n")
		fmt.Fprintf(os.Stderr, "recorddeck browses and edits the records of a REST collection.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	return f
}

func main() {
	if err := run(parseFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}

	logger, logFile, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := telemetry.New(ctx, telemetry.ConfigFromEnv())
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("telemetry shutdown")
		}
	}()

	if f.demo {
		base, err := startDemo(ctx, cfg.Resource, logger)
		if err != nil {
			return err
		}
		cfg.BaseURL = base
	}

	client, err := api.New(api.Options{
		BaseURL:  cfg.BaseURL,
		Resource: cfg.Resource,
		Headers:  cfg.Headers,
		Timeout:  cfg.Timeout,
		Gender: api.GenderCodec{
			Set:    cfg.Genders,
			AsBool: cfg.GenderEncoding == config.EncodingBool,
		},
		Tracer: tp.Tracer(),
		Logger: logger,
	})
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"collection": client.CollectionURL(),
		"variant":    cfg.Variant,
		"demo":       f.demo,
		"exporting":  tp.Exporting(),
	}).Info("starting")

	session := crud.NewSession(client, crud.SessionOptions{Timeout: cfg.Timeout, Logger: logger})
	app := ui.NewAppModel(ctx, session, cfg, logger)
	defer app.Close()

	p := tea.NewProgram(app.AsTeaModel(), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// startDemo serves the mock API on a loopback port until ctx ends.
func startDemo(ctx context.Context, resource string, logger logrus.FieldLogger) (string, error) {
	srv := mockapi.New(resource, mockapi.WithLogger(logger))
	srv.Seed(mockapi.SampleRecords()...)
	base, err := srv.Listen(ctx, "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("start demo api: %w", err)
	}
	logger.WithField("url", base+srv.Resource()).Info("demo api listening")
	return base, nil
}
