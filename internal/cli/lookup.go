package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"usem/internal/usecase"
)

var (
	lookupJSON        bool
	lookupForceOnline bool
	lookupLimit       int
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <word>",
	Short: "Translate an English word to Ibibio",
	Long: `Look up a word in the local dictionary with fuzzy matching; fall back to
online and AI sources when the local answer is not confident.

Examples:
  usem lookup stop
  usem lookup water --json
  usem lookup greeting --force-online`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "output as JSON")
	lookupCmd.Flags().BoolVar(&lookupForceOnline, "force-online", false, "consult external sources even on a confident local hit")
	lookupCmd.Flags().IntVarP(&lookupLimit, "limit", "n", 0, "number of alternatives to show (default from config)")
}

func runLookup(cmd *cobra.Command, args []string) error {
	app, err := newApp(cfg, rootDir)
	if err != nil {
		return err
	}
	defer app.Close()

	query := strings.Join(args, " ")
	result := app.lookup.Lookup(context.Background(), query, usecase.Options{ForceOnline: lookupForceOnline})

	if lookupJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if result.Result == nil {
		fmt.Printf("No translation found for %q.\n", query)
		for _, note := range result.ValidationNotes {
			fmt.Println("  " + note)
		}
		return nil
	}

	entry := result.Result
	fmt.Printf("%s → %s  (%.0f%% via %s)\n", entry.SourceText, entry.TargetText, result.Confidence*100, result.Source)
	if entry.Meaning != "" {
		fmt.Printf("  meaning: %s\n", entry.Meaning)
	}
	if entry.Pronunciation != "" {
		fmt.Printf("  pronunciation: %s\n", entry.Pronunciation)
	}
	for _, ex := range entry.Examples {
		fmt.Printf("  example: %s = %s\n", ex.TargetText, ex.SourceText)
	}
	if entry.CulturalNote != "" {
		fmt.Printf("  note: %s\n", entry.CulturalNote)
	}

	limit := lookupLimit
	if limit <= 0 {
		limit = cfg.Search.Limit
	}
	alternatives := result.Alternatives
	if len(alternatives) > limit {
		alternatives = alternatives[:limit]
	}
	if len(alternatives) > 0 {
		fmt.Println("\nAlternatives:")
		for _, alt := range alternatives {
			fmt.Printf("  %s → %s  (%.0f%%)\n", alt.Entry.SourceText, alt.Entry.TargetText, alt.Confidence*100)
		}
	}

	if result.ConflictingResults {
		fmt.Println("\nSources disagree:")
		for _, note := range result.ValidationNotes {
			fmt.Println("  " + note)
		}
		fmt.Printf("  consensus: %.1f%%\n", result.ConsensusScore)
	}

	return nil
}
