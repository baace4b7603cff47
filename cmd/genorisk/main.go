// Package main provides the genorisk command-line tool.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var verbose bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "genorisk",
		Short:   "Genomic variant risk analysis",
		Long:    "genorisk annotates variants with clinical, regulatory and protein-level evidence\nand scores cohort risk with a polygenic panel and a pathogenicity model.",
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newLoadCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig loads ~/.genorisk.yaml and applies defaults.
func initConfig() error {
	viper.SetDefault("server.addr", ":5000")
	viper.SetDefault("server.upload_dir", "uploads")
	viper.SetDefault("data.clinvar_db", "data/clinvar.duckdb")
	viper.SetDefault("data.regulome_db", "data/regulome.duckdb")
	viper.SetDefault("vep.binary", "vep")
	viper.SetDefault("vep.assembly", "GRCh38")

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot determine home directory: %w", err)
	}
	viper.SetConfigFile(filepath.Join(home, ".genorisk.yaml"))
	if err := viper.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// newLogger builds the process logger honoring the verbose flag.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
