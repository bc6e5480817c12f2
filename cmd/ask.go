package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var askUserID string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Run one advisory request and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		question := args[0]

		env, err := initAdvisor(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		advisory := env.Pipeline.HandleQuestion(ctx, question)

		// All three terminal states are results, not failures.
		record, err := env.Store.CreateQuestion(ctx, askUserID, question, advisory.Domain)
		if err != nil {
			zap.L().Warn("ask: failed to store question", zap.Error(err))
		} else if advisory.Poll != nil {
			dueAt := time.Now().UTC().Add(time.Duration(cfg.Scheduler.PollDelayHrs) * time.Hour)
			if _, err := env.Store.CreatePoll(ctx, record.ID, *advisory.Poll, dueAt); err != nil {
				zap.L().Warn("ask: failed to store poll", zap.Error(err))
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(advisory)
	},
}

func init() {
	askCmd.Flags().StringVar(&askUserID, "user", "", "user ID to record with the question")
	rootCmd.AddCommand(askCmd)
}
