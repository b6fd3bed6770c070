package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hpnet/hpsim/internal/genemap"
	"github.com/hpnet/hpsim/internal/store"
)

func newImportCmd() *cobra.Command {
	var (
		dbPath  string
		species string
		role    string
	)

	cmd := &cobra.Command{
		Use:   "import <mapping-file>",
		Short: "Import gene annotations into the store",
		Long: `Import a gene-to-term mapping file into the DuckDB annotation store so
'hpsim score --from-db' can look terms up by species and role.`,
		Example: `  hpsim import --db hpsim.duckdb --species human --role host human_go.tsv
  hpsim import --db hpsim.duckdb --species salmonella --role pathogen stm_go.tsv.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != "host" && role != "pathogen" {
				return fmt.Errorf("role must be host or pathogen, got %q", role)
			}

			if dbPath == "" {
				dbPath = viper.GetString("db.path")
			}
			if dbPath == "" {
				return fmt.Errorf("a store path is required (--db or db.path in config)")
			}

			genes, err := genemap.ReadFile(args[0])
			if err != nil {
				return err
			}

			db, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.SaveAnnotations(species, role, genes); err != nil {
				return err
			}

			fmt.Printf("Imported %d genes for %s/%s into %s\n", len(genes), species, role, dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB store path (default: config db.path)")
	cmd.Flags().StringVar(&species, "species", "", "species name the annotations belong to")
	cmd.Flags().StringVar(&role, "role", "", "role of the species: host or pathogen")
	cmd.MarkFlagRequired("species")
	cmd.MarkFlagRequired("role")

	return cmd
}
