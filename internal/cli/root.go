package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docsearch/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "docsearch",
	Short: "Document search service - embed, index, and retrieve text documents",
	Long: `docsearch is a minimal document search service. Writers submit text
documents over HTTP; the service embeds them and stores the vectors in a
vector index. Readers search by similarity.

Example usage:
  docsearch serve                          # Run the HTTP service
  docsearch reindex --seeds 'seeds/*.json' # Bulk feed seed documents`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			wd, werr := os.Getwd()
			if werr != nil {
				return fmt.Errorf("failed to get working directory: %w", werr)
			}
			cfg, err = config.LoadFromDir(wd)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./docsearch.yaml)")
}

func GetConfig() *config.Config {
	return cfg
}
