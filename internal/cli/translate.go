package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var translateJSON bool

var translateCmd = &cobra.Command{
	Use:   "translate <text>",
	Short: "Translate an English phrase or sentence",
	Long: `Translate multi-word text. Exact phrase entries win over word-by-word
reconstruction; unknown words appear bracketed, e.g. "[greetings]".

Examples:
  usem translate "thank you"
  usem translate "good morning my friend" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().BoolVar(&translateJSON, "json", false, "output as JSON")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	app, err := newApp(cfg, rootDir)
	if err != nil {
		return err
	}
	defer app.Close()

	text := strings.Join(args, " ")
	result := app.lookup.Translate(context.Background(), text)

	if translateJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if result.Translation == "" {
		fmt.Printf("No translation found for %q.\n", text)
		return nil
	}

	fmt.Printf("%s → %s  (%.0f%% via %s)\n", text, result.Translation, result.Confidence*100, result.Source)
	if result.Partial {
		fmt.Println("  partial: bracketed words have no known translation")
	}
	if len(result.Breakdown) > 1 {
		fmt.Println("\nWord by word:")
		for _, w := range result.Breakdown {
			if w.Found {
				fmt.Printf("  %s → %s  (%.0f%%)\n", w.SourceWord, w.TargetWord, w.Confidence*100)
			} else {
				fmt.Printf("  %s → ?\n", w.SourceWord)
			}
		}
	}

	return nil
}
