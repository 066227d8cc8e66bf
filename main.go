package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"herald/cmd"
	"herald/internal/config"
	"herald/internal/notification"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "herald",
		Short: "Herald - Send notifications to multiple channels through one command",
		Long: `Herald dispatches messages, error notices, and success notices to the
configured notification channels (Slack, Microsoft Teams, email, LINE Notify,
generic webhooks) and reports the per-channel outcome.

Channels are enabled via the NOTIFICATION_TYPE environment variable or a
config.yaml file; each channel reads its credentials from its documented
environment variables (SLACK_WEBHOOK_URL, SMTP_SERVER, ...).`,
	}

	rootCmd.AddCommand(newSendCmd())
	rootCmd.AddCommand(newErrorCmd())
	rootCmd.AddCommand(newSuccessCmd())
	rootCmd.AddCommand(newChannelsCmd())
	rootCmd.AddCommand(cmd.NewConfigureCmd())

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("herald version %s (commit: %s)\n", version, commit)
		},
	})

	// Add flags
	rootCmd.PersistentFlags().StringSlice("channels", nil, "Channels to notify (comma-separated: slack, teams, email, line, webhook)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Bind flags to viper
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		logrus.WithError(err).Fatal("Failed to bind flags")
	}

	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

// newSendCmd creates the send subcommand for freeform messages
func newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <message>",
		Short: "Send a freeform message to every configured channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(func(ctx context.Context, m *notification.MultiNotifier) notification.Breakdown {
				return m.BroadcastMessage(ctx, args[0])
			})
		},
	}
}

// newErrorCmd creates the error subcommand for error notices
func newErrorCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "error <title>",
		Short: "Send an error notice to every configured channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := cmd.Flags().GetString("details")
			if err != nil {
				return err
			}
			return dispatch(func(ctx context.Context, m *notification.MultiNotifier) notification.Breakdown {
				return m.BroadcastErrorMessage(ctx, args[0], details)
			})
		},
	}
	c.Flags().StringP("details", "d", "", "Additional error details")
	return c
}

// newSuccessCmd creates the success subcommand for success notices
func newSuccessCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "success <title>",
		Short: "Send a success notice to every configured channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := cmd.Flags().GetString("details")
			if err != nil {
				return err
			}
			return dispatch(func(ctx context.Context, m *notification.MultiNotifier) notification.Breakdown {
				return m.BroadcastSuccessMessage(ctx, args[0], details)
			})
		},
	}
	c.Flags().StringP("details", "d", "", "Additional information")
	return c
}

// newChannelsCmd creates the channels subcommand listing the assembled group
func newChannelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List the channels that would receive notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger := setupLogging(cfg.Verbose)

			notifier := buildNotifier(cfg, logger)
			if notifier.Len() == 0 {
				fmt.Println("No channels configured")
				return nil
			}
			for _, name := range notifier.Names() {
				fmt.Println(name)
			}
			return nil
		},
	}
}

// dispatch loads the configuration, assembles the fan-out group, runs the
// given broadcast, and reports the per-channel outcome. The returned error
// is non-nil only when no channel accepted the delivery.
func dispatch(broadcast func(context.Context, *notification.MultiNotifier) notification.Breakdown) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := setupLogging(cfg.Verbose)

	logger.WithFields(logrus.Fields{
		"channels": cfg.Channels,
		"version":  version,
	}).Debug("Starting herald")

	notifier := buildNotifier(cfg, logger)

	breakdown := broadcast(context.Background(), notifier)
	outputBreakdown(os.Stdout, breakdown)

	return breakdown.Err()
}

// buildNotifier assembles the fan-out group from the loaded configuration
func buildNotifier(cfg *config.Config, logger *logrus.Entry) *notification.MultiNotifier {
	return notification.NewMulti(cfg.Channels, cfg.ChannelConfig(), logger.WithField("component", "notifier"))
}

// outputBreakdown prints the per-channel dispatch outcome
func outputBreakdown(w io.Writer, breakdown notification.Breakdown) {
	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := breakdown[name]; err != nil {
			fmt.Fprintf(w, "%s: failed: %v\n", name, err)
		} else {
			fmt.Fprintf(w, "%s: ok\n", name)
		}
	}
}

// setupLogging configures the logging system
func setupLogging(verbose bool) *logrus.Entry {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	// Use JSON logging format
	logrus.SetFormatter(&logrus.JSONFormatter{})

	// Return a base logger entry
	return logrus.WithField("service", "herald")
}
