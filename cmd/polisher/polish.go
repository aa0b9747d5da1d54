package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cyilin36/chat-polisher/chain"
	"github.com/cyilin36/chat-polisher/internal/llmutil"
	"github.com/cyilin36/chat-polisher/internal/logutil"
	"github.com/cyilin36/chat-polisher/pipeline"
	"github.com/cyilin36/chat-polisher/polish"
	"github.com/cyilin36/chat-polisher/providers"
)

func newPolishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "polish [text]",
		Short: "Run one reply through the polish pipeline and print the result",
		Long: "Reads text from the argument (or stdin when absent), sends it through\n" +
			"the configured provider exactly like the pre-send hook would, and prints\n" +
			"the polished text.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("no input text")
			}

			client, err := llmutil.ClientFromViper()
			if err != nil {
				return err
			}
			registry := providers.NewRegistry()
			registry.Register(llmutil.ProviderFromViper(), client)
			registry.SetDefault(client)

			svc := polish.NewService(registry, polish.ConfigFromViper, logger)
			svc.Start()
			defer svc.Close()

			ev := pipeline.NewEvent("cli", "stdin")
			ev.SetResult(&pipeline.Result{Chain: chain.Chain{chain.Text{Content: text}}})

			hooks := svc.Hooks()
			hooks.OnGenerationStart(cmd.Context(), ev)
			if err := hooks.OnBeforeSend(cmd.Context(), ev); err != nil {
				return err
			}

			for _, seg := range ev.Result().Chain {
				if t, ok := seg.(chain.Text); ok {
					fmt.Fprintln(cmd.OutOrStdout(), t.Content)
				}
			}
			return nil
		},
	}
	return cmd
}

func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
