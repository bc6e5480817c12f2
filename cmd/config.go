package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Secrets never reach stdout.
		redacted := *cfg
		redacted.Jina.Key = redact(redacted.Jina.Key)
		redacted.Firecrawl.Key = redact(redacted.Firecrawl.Key)
		redacted.Perplexity.Key = redact(redacted.Perplexity.Key)
		redacted.Anthropic.Key = redact(redacted.Anthropic.Key)
		redacted.Store.DatabaseURL = redact(redacted.Store.DatabaseURL)

		return yaml.NewEncoder(os.Stdout).Encode(redacted)
	},
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "<set>"
}

func init() {
	rootCmd.AddCommand(configCmd)
}
