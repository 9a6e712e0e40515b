package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cargomate/internal/checklist"
	"cargomate/internal/history"
)

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Show the generated fix checklist",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := history.Dir()
		if err != nil {
			return err
		}
		content, err := checklist.Load(dir)
		if err != nil {
			return err
		}
		if content == "" {
			fmt.Println("no checklist yet - run a build with errors or warnings first")
			return nil
		}
		fmt.Print(content)
		return nil
	},
}
