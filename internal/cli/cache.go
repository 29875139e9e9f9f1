package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the result cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop all cached lookup results",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cfg, rootDir)
		if err != nil {
			return err
		}
		defer app.Close()

		app.lookup.ClearCache()
		fmt.Println("Cache cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
