package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cargomate/internal/history"
)

var viewCmd = &cobra.Command{
	Use:       "view <errors|warnings|artifacts|scripts>",
	Short:     "Show the latest build results",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"errors", "warnings", "artifacts", "scripts"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := args[0]
		switch kind {
		case "errors", "warnings", "artifacts", "scripts":
		default:
			return fmt.Errorf("unknown view %q (expected errors|warnings|artifacts|scripts)", kind)
		}
		store, err := history.Open()
		if err != nil {
			return err
		}
		content, err := store.Latest(kind)
		if err != nil {
			return err
		}
		if content == "" {
			fmt.Printf("no %s recorded yet - run a build first\n", kind)
			return nil
		}
		fmt.Print(content)
		return nil
	},
}
