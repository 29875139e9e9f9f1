package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index, cache, and source status",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	app, err := newApp(cfg, rootDir)
	if err != nil {
		return err
	}
	defer app.Close()

	stats := app.lookup.Stats()

	if statsJSON {
		output, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Indexed entries: %d\n", stats.IndexedEntries)
	fmt.Printf("Cached results:  %d\n", stats.CachedResults)
	fmt.Println("Sources:")
	names := make([]string, 0, len(stats.Sources))
	for name := range stats.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		state := "not configured"
		if stats.Sources[name] {
			state = "configured"
		}
		fmt.Printf("  %-8s %s\n", name, state)
	}

	return nil
}
