package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"usem/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "usem",
	Short: "usem - English to Ibibio dictionary lookup",
	Long: `usem is a dictionary CLI that searches a local English→Ibibio dictionary
with fuzzy matching and semantic ranking, falling back to online and AI
translation sources when the local dictionary is not confident.

Example usage:
  usem import ./data            # Import dictionary files
  usem lookup stop              # Translate a word
  usem translate "thank you"    # Translate a phrase or sentence`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./usem.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}
