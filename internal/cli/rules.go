package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var rulesJSON bool

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List disambiguation rules",
	Long: `List the curated disambiguation rules. A rule decides which of several
valid translations is shown first for an ambiguous headword.`,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().BoolVar(&rulesJSON, "json", false, "output as JSON")
}

func runRules(cmd *cobra.Command, args []string) error {
	app, err := newApp(cfg, rootDir)
	if err != nil {
		return err
	}
	defer app.Close()

	rules, err := app.store.ListRules()
	if err != nil {
		return fmt.Errorf("failed to list rules: %w", err)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Word < rules[j].Word })

	if rulesJSON {
		output, _ := json.MarshalIndent(rules, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(rules) == 0 {
		fmt.Println("No disambiguation rules stored.")
		return nil
	}

	for _, r := range rules {
		fmt.Printf("%s → %s", r.Word, r.PrimaryTranslation)
		if r.Context != "" {
			fmt.Printf("  (%s)", r.Context)
		}
		fmt.Println()
		for _, alt := range r.Alternatives {
			fmt.Printf("  alt %d: %s", alt.Priority, alt.Translation)
			if alt.Context != "" {
				fmt.Printf("  (%s)", alt.Context)
			}
			fmt.Println()
		}
	}

	return nil
}
