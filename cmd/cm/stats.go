package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cargomate/internal/history"
	"cargomate/internal/metrics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate build statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := history.Dir()
		if err != nil {
			return err
		}
		store, err := metrics.Open(dir)
		if err != nil {
			return err
		}
		defer store.Close()
		sum, err := store.Summarize()
		if err != nil {
			return err
		}
		if sum.TotalBuilds == 0 {
			fmt.Println("no builds recorded yet")
			return nil
		}
		headerColor.Println("build statistics")
		fmt.Printf("  builds:       %d\n", sum.TotalBuilds)
		fmt.Printf("  successful:   %s\n", successColor.Sprintf("%d", sum.SuccessfulBuilds))
		fmt.Printf("  failed:       %s\n", failureColor.Sprintf("%d", sum.TotalBuilds-sum.SuccessfulBuilds))
		fmt.Printf("  success rate: %.1f%%\n", sum.SuccessRate)
		fmt.Printf("  avg duration: %.1fs\n", sum.AvgDuration.Seconds())
		fmt.Printf("  errors seen:  %d\n", sum.TotalErrors)
		fmt.Printf("  warnings:     %d\n", sum.TotalWarnings)
		if len(sum.SlowestCommands) > 0 {
			fmt.Println("\nslowest commands:")
			for _, cd := range sum.SlowestCommands {
				fmt.Printf("  %-40s %.1fs avg over %d run(s)\n",
					cd.Command, cd.AvgDuration.Seconds(), cd.Runs)
			}
		}
		return nil
	},
}
