package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cargomate/internal/history"
)

var historyCount int

func init() {
	historyCmd.Flags().IntVarP(&historyCount, "count", "n", 10, "number of sessions to show")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent build sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open()
		if err != nil {
			return err
		}
		sessions, err := store.Recent(historyCount)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("no build sessions recorded yet")
			return nil
		}
		for _, s := range sessions {
			status := successColor.Sprint("ok")
			if !s.Success {
				status = failureColor.Sprint("failed")
			}
			fmt.Printf("%s  %-6s %s (%d errors, %d warnings, %.1fs)\n",
				s.Timestamp.Format("2006-01-02 15:04:05"),
				status,
				s.Command,
				len(s.Errors), len(s.Warnings), s.Duration.Seconds())
		}
		return nil
	},
}
