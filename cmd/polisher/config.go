package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cyilin36/chat-polisher/polish"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective polish configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := polish.ConfigFromViper()
			out := map[string]any{
				"polish": map[string]any{
					"provider":                    cfg.Provider,
					"prompt":                      cfg.Prompt,
					"timeout_seconds":             cfg.Timeout.Seconds(),
					"failure_mode":                string(cfg.FailureMode),
					"failure_message":             cfg.FailureMessage,
					"mark_retention_seconds":      cfg.MarkRetention.Seconds(),
					"mark_check_interval_seconds": cfg.MarkCheckInterval.Seconds(),
				},
			}
			data, err := yaml.Marshal(out)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
