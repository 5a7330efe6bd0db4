// Package cmd provides the CLI commands for shopquote.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shopquote/internal/config"
	"shopquote/internal/logging"
)

var (
	cfgFile    string
	catalogDir string
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shopquote",
	Short: "Price, schedule and analyze manufactured parts",
	Long: `shopquote is the quoting core for CNC, injection-molding and casting work.

It prices quote items against a machine catalog, checks machine
feasibility, searches production capacity, and analyzes geometry for
manufacturability.

Examples:
  shopquote quote --catalog ./catalog --request item.json
  shopquote quote --catalog ./catalog --request item.json --tiers 1,10,100
  shopquote dfm --catalog ./catalog --request part.json
  shopquote capacity find --machine vf2 --minutes 120`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.shopquote.json)")
	rootCmd.PersistentFlags().StringVar(&catalogDir, "catalog", "", "machine catalog directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(dfmCmd)
	rootCmd.AddCommand(capacityCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
}

// resolveCatalogDir prefers the flag over the config file
func resolveCatalogDir() string {
	if catalogDir != "" {
		return catalogDir
	}
	return config.Get().Catalog.Dir
}

const cliVersion = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the shopquote version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(cliVersion)
	},
}
