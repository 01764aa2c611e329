package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hcnaf/Logging-MentoringProgram/internal/config"
	"github.com/hcnaf/Logging-MentoringProgram/internal/repository"
	"github.com/hcnaf/Logging-MentoringProgram/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web app",
	Long: `Run the brainstorming web app with the full logging pipeline.

Configuration is read from config.yaml and BRAINSTORM_* environment
variables, e.g.:
  BRAINSTORM_MODE=debug brainstorm serve
  brainstorm serve --addr :8080`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().Bool("debug", false, "debug mode: Debug minimum level and gin debug output")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Mode = config.ModeDebug
	}

	// --- Set up context with graceful shutdown ---
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Logging pipeline ---
	st, err := buildPipeline(cfg, defaultSinkFactory(cmd.OutOrStdout()))
	if err != nil {
		return err
	}
	defer func() {
		if err := st.pipeline.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "closing log sinks: %v\n", err)
		}
	}()
	for _, w := range st.warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	if st.digest != nil {
		st.digest.Start(ctx)
	}
	go st.stats.Start(ctx)

	logger := st.pipeline.Logger("brainstorm")
	logger.Info("starting", "mode", cfg.Mode, "addr", cfg.Server.Addr, "log_dir", cfg.Logging.Dir)

	// --- Repository ---
	repoOpts := []repository.Option{}
	if cfg.Repository.File != "" {
		repoOpts = append(repoOpts, repository.WithStore(repository.NewStore(cfg.Repository.File)))
	}
	if cfg.Repository.Seed {
		repoOpts = append(repoOpts, repository.WithSeed(st.clock.Now()))
	}
	repo, err := repository.NewMemory(repoOpts...)
	if err != nil {
		logger.Fatal("cannot open session store", "error", err)
		return err
	}

	// --- HTTP server ---
	srv := server.New(server.Options{
		Addr:            cfg.Server.Addr,
		Debug:           cfg.IsDebug(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Repository:      repo,
		Pipeline:        st.pipeline,
		Hub:             st.hub,
		Aggregator:      st.stats,
		Clock:           st.clock,
	})
	if err := srv.Start(ctx); err != nil {
		logger.Fatal("server stopped unexpectedly", "error", err)
		return err
	}

	logger.Info("shutting down")
	return nil
}
