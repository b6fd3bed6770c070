// Package main provides the hpsim command-line tool: host–pathogen gene
// similarity scoring over the Gene Ontology.
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
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:     "hpsim",
		Short:   "Host-pathogen GO semantic similarity",
		Long:    "hpsim scores host gene / pathogen gene pairs by the semantic similarity of their Gene Ontology annotations.",
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cfgFile)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.hpsim.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(newDownloadCmd())
	cmd.AddCommand(newScoreCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig wires viper: explicit file, or ~/.hpsim.yaml, plus HPSIM_*
// environment variables.
func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".hpsim")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("HPSIM")
	viper.AutomaticEnv()

	viper.SetDefault("ontology.url", "")
	viper.SetDefault("ontology.autofetch", true)

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine; a malformed one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// newLogger builds the CLI-edge zap logger. Libraries default to a nop
// logger until one is injected.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// defaultDataDir returns ~/.hpsim, the default home for the ontology cache
// and the DuckDB store.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hpsim"
	}
	return filepath.Join(home, ".hpsim")
}

// defaultOntologyPath is where the GO OBO release is cached.
func defaultOntologyPath() string {
	if p := viper.GetString("ontology.path"); p != "" {
		return p
	}
	return filepath.Join(defaultDataDir(), "go.obo")
}
