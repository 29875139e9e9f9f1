package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"usem/internal/adapter/ingest"
)

var importReplace bool

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import dictionary files",
	Long: `Import dictionary entries from JSON and CSV files under a directory.
Field names are matched tolerantly (english/English/english_word, ibibio/
target/translation, ...); records missing either side of the translation
are skipped and reported.

Examples:
  usem import ./data
  usem import ./data --replace`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "drop existing entries before importing")
}

func runImport(cmd *cobra.Command, args []string) error {
	app, err := newApp(cfg, rootDir)
	if err != nil {
		return err
	}
	defer app.Close()

	var bar *progressbar.ProgressBar
	progress := func(processed, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Importing[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(processed)
	}

	importer := ingest.NewImporter(cfg.Dictionary.Includes, cfg.Dictionary.Excludes)
	entries, report, err := importer.ImportDir(args[0], progress)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if importReplace {
		if err := app.store.DeleteEntries(); err != nil {
			return fmt.Errorf("failed to drop existing entries: %w", err)
		}
	}
	if err := app.store.PutEntries(entries); err != nil {
		return fmt.Errorf("failed to store entries: %w", err)
	}

	// Replace the working set wholesale and rebuild.
	stored, err := app.store.ListEntries()
	if err != nil {
		return fmt.Errorf("failed to reload entries: %w", err)
	}
	app.index.Build(stored)

	fmt.Printf("Imported %d entries from %d files (%d records skipped).\n",
		report.Loaded, report.Files, len(report.Skipped))
	for _, s := range report.Skipped {
		fmt.Printf("  record %d: %s\n", s.Index, s.Reason)
	}
	fmt.Printf("Index now holds %d entries.\n", app.index.Size())

	return nil
}
