package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"auto_article_pipeline/config"
	"auto_article_pipeline/generator"
	"auto_article_pipeline/pipeline"
	"auto_article_pipeline/server"
	"auto_article_pipeline/store"
)

func main() {
	app := &cli.Command{
		Name:  "auto_article_pipeline",
		Usage: "Research, write, optimize and publish an article to WordPress",
		Commands: []*cli.Command{
			runCmd(),
			serveCmd(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if generator.IsConfigurationError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{Name: "config", Usage: "path to a JSON or YAML config file"}
}

func verboseFlag() cli.Flag {
	return &cli.BoolFlag{Name: "v", Usage: "enable info logs"}
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run the pipeline once for a topic",
		ArgsUsage: "<topic>",
		Flags: []cli.Flag{
			configFlag(),
			verboseFlag(),
			&cli.BoolFlag{Name: "simulate", Usage: "skip the language model and use simulated content"},
			&cli.StringFlag{Name: "job-id", Usage: "job id to record progress under (default: random)"},
			&cli.StringFlag{Name: "db", Usage: "SQLite file to record job progress in"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			topic := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
			if topic == "" {
				return fmt.Errorf("topic argument is required")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.Bool("v"))

			jobID := cmd.String("job-id")
			if jobID == "" {
				jobID = uuid.NewString()
			}

			var sink pipeline.StatusSink
			var jobs *store.JobStore
			if db := cmd.String("db"); db != "" {
				jobs, err = store.NewJobStore(db)
				if err != nil {
					return fmt.Errorf("opening job store: %w", err)
				}
				defer jobs.Close()
				if err := jobs.CreateJob(ctx, jobID, topic); err != nil {
					return err
				}
				sink = jobs
			}

			rc := pipeline.NewRunContext(jobID, pipeline.CredentialsFrom(cfg), sink, logger)
			orch, err := pipeline.Build(cfg, rc, logger)
			if err != nil {
				return err
			}
			out, runErr := orch.Run(ctx, topic)
			if jobs != nil {
				result := out.Output.Text
				if runErr != nil {
					result = runErr.Error()
				}
				if err := jobs.Finish(context.WithoutCancel(ctx), jobID, pipeline.JobStatus(out, runErr), rc.LogText(), result, pipeline.PublishedURL(out.Output.Text)); err != nil {
					logger.Error("finish job failed", slog.Any("error", err))
				}
			}
			if runErr != nil {
				return runErr
			}

			fmt.Println(out.Output.Text)
			if cmd.Bool("v") {
				fmt.Println()
				fmt.Println(strings.Join(out.Log, "\n"))
			}
			return nil
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server",
		Flags: []cli.Flag{
			configFlag(),
			verboseFlag(),
			&cli.StringFlag{Name: "addr", Usage: "listen address (overrides server_addr)"},
			&cli.StringFlag{Name: "db", Usage: "SQLite file for job status (overrides database)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr := cmd.String("addr"); addr != "" {
				cfg.ServerAddr = addr
			}
			if db := cmd.String("db"); db != "" {
				cfg.Database = db
			}
			logger := newLogger(cmd.Bool("v"))

			jobs, err := store.NewJobStore(cfg.Database)
			if err != nil {
				return fmt.Errorf("opening job store: %w", err)
			}
			defer jobs.Close()

			srv, err := server.New(cfg, jobs, nil, logger)
			if err != nil {
				return err
			}
			httpSrv := &http.Server{Addr: cfg.ServerAddr, Handler: srv.Routes()}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = httpSrv.Shutdown(shutdownCtx)
			}()

			logger.Warn("starting web server", slog.String("addr", cfg.ServerAddr))
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyEnv(os.Getenv)
	if cmd.Bool("simulate") {
		cfg.Simulate = true
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger logs warnings and errors by default; -v adds info.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
