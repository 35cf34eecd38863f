package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"facetag/config"
	"facetag/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	log *logrus.Logger

	debugMode bool
)

var rootCmd = &cobra.Command{
	Use:           "facetag",
	Short:         "Register known faces and label the faces found in photos",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if debugMode {
			cfg.DebugMode = true
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		log = logger.New(cfg)
		return nil
	},
}

func Execute() {
	// Cancelled on Ctrl+C (SIGINT) or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Debug logging (overrides DEBUG_MODE)")
}
