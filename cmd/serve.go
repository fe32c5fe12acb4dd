package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/tailplay/internal/config"
	"github.com/conneroisu/tailplay/internal/errors"
	"github.com/conneroisu/tailplay/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the playground server",
	Long: `Start the playground server: the index, examples and playground pages,
the JSON conversion API and the /ws live channel.

Snippet directories given with --catalog are loaded next to the built-in
examples; with --watch they are reloaded whenever a snippet file changes.

Examples:
  tailplay serve                              # Serve on localhost:8080
  tailplay serve -p 3000 --open               # Custom port, open a browser
  tailplay serve --catalog ./snippets --watch # Hot reload custom snippets`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", config.DefaultPort, "Port to serve on")
	serveCmd.Flags().String("host", config.DefaultHost, "Host to bind to")
	serveCmd.Flags().Bool("open", false, "Open the playground in a browser")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload catalog files when they change")
	serveCmd.Flags().String("strip-policy", config.DefaultStripPolicy, "Class attribute handling (remove, placeholder)")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.open", serveCmd.Flags().Lookup("open"))
	viper.BindPFlag("catalog.watch", serveCmd.Flags().Lookup("watch"))
	viper.BindPFlag("converter.strip_policy", serveCmd.Flags().Lookup("strip-policy"))

	AddFlagValidation(serveCmd, "port", ValidatePort)
	AddFlagValidation(serveCmd, "strip-policy", func(policy string) error {
		return ValidateFormatWithSuggestion(policy, []string{"remove", "placeholder"})
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Error(shutdownCtx, shutdownErr, "Error during server shutdown")
		}
		cancel()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Starting tailplay at http://%s\n", cfg.Server.Addr())

	if err := srv.Start(ctx); err != nil {
		if strings.Contains(err.Error(), "address already in use") || strings.Contains(err.Error(), "bind") ||
			strings.Contains(err.Error(), "permission denied") {
			return errors.NewEnhancedError(
				fmt.Sprintf("Failed to start server on port %d", cfg.Server.Port),
				err,
				errors.ServerStartError(err, cfg.Server.Port),
			)
		}
		return err
	}

	return nil
}
