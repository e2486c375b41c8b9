package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/siba2623/portfolio-assistant/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show assistant status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			printError("config error: %v", err)
			return nil
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/health")
		if err != nil {
			printStatus("Server", "stopped")
		} else {
			resp.Body.Close()
			if resp.StatusCode == 200 {
				printStatus("Server", "running on port %d", cfg.Server.Port)
			} else {
				printStatus("Server", "error (HTTP %d)", resp.StatusCode)
			}

			themeResp, err := client.get(cmd.Context(), "/prefs/theme")
			if err == nil {
				var theme map[string]string
				if decodeJSON(themeResp, &theme) == nil {
					printStatus("Theme", "%s", theme["theme"])
				}
			}
		}

		if cfg.Contact.FormEndpoint != "" {
			printStatus("Contact forward", "%s", cfg.Contact.FormEndpoint)
		} else {
			printStatus("Contact forward", "disabled")
		}
		if cfg.Site.ResumePath != "" {
			printStatus("Resume", "%s", cfg.Site.ResumePath)
		}
		printStatus("Typing delay", "%s", cfg.Widget.TypingDelay)
		printStatus("Session TTL", "%s", cfg.Widget.SessionTTL)
		printStatus("Data dir", "%s", cfg.Storage.DataDir)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, kv := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, kv.Key), kv.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
