package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"herald/internal/config"
	"herald/internal/notification"

	"github.com/AlecAivazis/survey/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// NewConfigureCmd creates the configure subcommand
func NewConfigureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactively configure Herald notification channels",
		Long: `Configure Herald in interactive mode.

This command will guide you through setting up:
- The notification channels to enable
- Per-channel credentials and endpoints

The configuration will be saved to config.yaml and the selected channels
can be tested with a live notification.`,
		RunE: runConfigure,
	}
}

func runConfigure(cmd *cobra.Command, args []string) error {
	fmt.Println("\nHerald Configuration Wizard")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	cfg := &config.Config{}

	// Step 1: Channel selection
	if err := configureChannels(cfg); err != nil {
		return err
	}

	// Step 2: Per-channel settings
	for _, channel := range cfg.Channels {
		var err error
		switch channel {
		case notification.KindSlack:
			err = configureSlack(cfg)
		case notification.KindTeams:
			err = configureTeams(cfg)
		case notification.KindEmail:
			err = configureEmail(cfg)
		case notification.KindLine:
			err = configureLine(cfg)
		case notification.KindWebhook:
			err = configureWebhook(cfg)
		}
		if err != nil {
			return err
		}
	}

	// Step 3: Test Notification
	if len(cfg.Channels) > 0 {
		var runTest bool
		prompt := &survey.Confirm{
			Message: "Send a test notification to the selected channels?",
			Default: true,
		}
		if err := survey.AskOne(prompt, &runTest); err != nil {
			return err
		}

		if runTest {
			if err := testNotification(cfg); err != nil {
				fmt.Printf("\nWarning: Notification test failed: %v\n", err)
				fmt.Println("You can still save the configuration and fix it later.")

				var proceed bool
				prompt := &survey.Confirm{
					Message: "Do you want to save the configuration anyway?",
					Default: true,
				}
				if err := survey.AskOne(prompt, &proceed); err != nil {
					return err
				}
				if !proceed {
					return fmt.Errorf("configuration cancelled")
				}
			} else {
				fmt.Println("\nNotification test successful!")
			}
		}
	}

	// Step 4: Save Configuration
	if err := saveConfiguration(cfg); err != nil {
		return err
	}

	fmt.Println("\nConfiguration saved successfully!")
	fmt.Println("\nYou can now run: herald send \"hello\"")
	fmt.Println()

	return nil
}

func configureChannels(cfg *config.Config) error {
	fmt.Println("📬 Notification Channels")
	fmt.Println(strings.Repeat("-", 60))

	var channelOptions = []string{
		"Slack",
		"Microsoft Teams",
		"Email",
		"LINE Notify",
		"Generic Webhook",
	}

	var selected []string
	prompt := &survey.MultiSelect{
		Message: "Select the channels to enable:",
		Options: channelOptions,
		Help:    "A notification is fanned out to every selected channel",
	}
	if err := survey.AskOne(prompt, &selected, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	for _, option := range selected {
		switch option {
		case "Slack":
			cfg.Channels = append(cfg.Channels, notification.KindSlack)
		case "Microsoft Teams":
			cfg.Channels = append(cfg.Channels, notification.KindTeams)
		case "Email":
			cfg.Channels = append(cfg.Channels, notification.KindEmail)
		case "LINE Notify":
			cfg.Channels = append(cfg.Channels, notification.KindLine)
		case "Generic Webhook":
			cfg.Channels = append(cfg.Channels, notification.KindWebhook)
		}
	}

	return nil
}

func configureSlack(cfg *config.Config) error {
	fmt.Println("\nSlack Settings")
	fmt.Println(strings.Repeat("-", 60))

	if err := survey.AskOne(&survey.Input{
		Message: "Slack Webhook URL:",
		Help:    "Format: https://hooks.slack.com/services/YOUR/WEBHOOK/URL",
	}, &cfg.SlackWebhookURL, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	if err := survey.AskOne(&survey.Input{
		Message: "Bot display name (optional):",
		Default: "herald",
	}, &cfg.SlackUsername); err != nil {
		return err
	}

	return survey.AskOne(&survey.Input{
		Message: "Channel override (optional, e.g. #alerts):",
	}, &cfg.SlackChannel)
}

func configureTeams(cfg *config.Config) error {
	fmt.Println("\nMicrosoft Teams Settings")
	fmt.Println(strings.Repeat("-", 60))

	if err := survey.AskOne(&survey.Input{
		Message: "Microsoft Teams Webhook URL:",
		Help:    "Format: https://outlook.office.com/webhook/YOUR/WEBHOOK/URL",
	}, &cfg.TeamsWebhookURL, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	return survey.AskOne(&survey.Input{
		Message: "Card title (optional):",
	}, &cfg.TeamsTitle)
}

func configureEmail(cfg *config.Config) error {
	fmt.Println("\nEmail Settings")
	fmt.Println(strings.Repeat("-", 60))

	answers := struct {
		SMTPServer   string
		SMTPPort     string
		SMTPUsername string
		SMTPPassword string
		SenderEmail  string
	}{}

	questions := []*survey.Question{
		{
			Name: "smtpServer",
			Prompt: &survey.Input{
				Message: "SMTP Server Host:",
				Help:    "e.g., smtp.gmail.com",
			},
			Validate: survey.Required,
		},
		{
			Name: "smtpPort",
			Prompt: &survey.Input{
				Message: "SMTP Server Port:",
				Default: "587",
			},
			Validate: survey.Required,
		},
		{
			Name: "smtpUsername",
			Prompt: &survey.Input{
				Message: "SMTP Username (usually your email):",
			},
			Validate: survey.Required,
		},
		{
			Name: "smtpPassword",
			Prompt: &survey.Password{
				Message: "SMTP Password:",
			},
			Validate: survey.Required,
		},
		{
			Name: "senderEmail",
			Prompt: &survey.Input{
				Message: "From Email Address (defaults to the SMTP username):",
			},
		},
	}

	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	port, err := strconv.Atoi(strings.TrimSpace(answers.SMTPPort))
	if err != nil {
		return fmt.Errorf("invalid SMTP port %q: %w", answers.SMTPPort, err)
	}

	cfg.SMTPServer = answers.SMTPServer
	cfg.SMTPPort = port
	cfg.SMTPUsername = answers.SMTPUsername
	cfg.SMTPPassword = answers.SMTPPassword
	cfg.SenderEmail = answers.SenderEmail

	if err := survey.AskOne(&survey.Confirm{
		Message: "Use implicit TLS (SMTPS, usually port 465)?",
		Help:    "Leave off for STARTTLS servers such as port 587",
		Default: port == 465,
	}, &cfg.SMTPTLS); err != nil {
		return err
	}

	// Ask for recipient emails
	var recipientsInput string
	prompt := &survey.Input{
		Message: "Recipient Email Addresses (comma-separated):",
		Help:    "Example: devops@example.com,admin@example.com",
	}
	if err := survey.AskOne(prompt, &recipientsInput, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	cfg.EmailRecipients = strings.Split(recipientsInput, ",")
	for i := range cfg.EmailRecipients {
		cfg.EmailRecipients[i] = strings.TrimSpace(cfg.EmailRecipients[i])
	}

	return nil
}

func configureLine(cfg *config.Config) error {
	fmt.Println("\nLINE Notify Settings")
	fmt.Println(strings.Repeat("-", 60))

	return survey.AskOne(&survey.Input{
		Message: "LINE Notify Access Token:",
		Help:    "Issued at https://notify-bot.line.me/my/",
	}, &cfg.LineNotifyToken, survey.WithValidator(survey.Required))
}

func configureWebhook(cfg *config.Config) error {
	fmt.Println("\nGeneric Webhook Settings")
	fmt.Println(strings.Repeat("-", 60))

	if err := survey.AskOne(&survey.Input{
		Message: "Webhook URL:",
		Help:    "Your custom webhook endpoint",
	}, &cfg.WebhookURL, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	var headersInput string
	if err := survey.AskOne(&survey.Input{
		Message: "Custom headers (optional, comma-separated key=value):",
		Help:    "Example: X-Token=abc123,X-Env=prod",
	}, &headersInput); err != nil {
		return err
	}

	if headersInput != "" {
		cfg.WebhookHeaders = make(map[string]string)
		for _, pair := range strings.Split(headersInput, ",") {
			parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
			if len(parts) == 2 && parts[0] != "" {
				cfg.WebhookHeaders[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
			}
		}
	}

	return nil
}

func testNotification(cfg *config.Config) error {
	fmt.Println("\nTesting notification channels...")

	logger := logrus.NewEntry(logrus.New())
	logger.Logger.SetOutput(os.Stderr)        // Send logs to stderr to keep output clean
	logger.Logger.SetLevel(logrus.ErrorLevel) // Only show errors

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	notifier := notification.NewMulti(cfg.Channels, cfg.ChannelConfig(), logger)
	if notifier.Len() == 0 {
		return fmt.Errorf("no channels could be constructed from the given settings")
	}

	testMessage := "Herald configuration test\n\nThis is a test message from the configure command.\nIf you see this, your notification channels are working correctly!"

	breakdown := notifier.BroadcastMessage(ctx, testMessage)
	for _, name := range breakdown.Failed() {
		fmt.Printf("  %s: failed: %v\n", name, breakdown[name])
	}
	for _, name := range breakdown.Succeeded() {
		fmt.Printf("  %s: ok\n", name)
	}

	if err := breakdown.Err(); err != nil {
		return fmt.Errorf("failed to send test notification: %w", err)
	}

	return nil
}

func saveConfiguration(cfg *config.Config) error {
	fmt.Println("\nSaving Configuration")
	fmt.Println(strings.Repeat("-", 60))

	// Determine config file path
	var configPath string
	prompt := &survey.Input{
		Message: "Config file path:",
		Default: "config.yaml",
		Help:    "Where to save the configuration file",
	}
	if err := survey.AskOne(prompt, &configPath); err != nil {
		return err
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Marshal to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("\nConfiguration saved to: %s\n", configPath)

	return nil
}
