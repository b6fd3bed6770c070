package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hpnet/hpsim/internal/genemap"
	"github.com/hpnet/hpsim/internal/obo"
	"github.com/hpnet/hpsim/internal/ontology"
	"github.com/hpnet/hpsim/internal/output"
	"github.com/hpnet/hpsim/internal/semsim"
	"github.com/hpnet/hpsim/internal/store"
)

func newScoreCmd() *cobra.Command {
	var (
		method       string
		aggregation  string
		threshold    float64
		outputFile   string
		ontologyPath string
		ontologyURL  string
		noFetch      bool
		dbPath       string
		fromDB       bool
		save         bool
	)

	cmd := &cobra.Command{
		Use:   "score <host> <pathogen>",
		Short: "Score host gene / pathogen gene pairs",
		Long: `Score every host gene x pathogen gene pair by the semantic similarity of
their GO annotations. By default the two arguments are gene-to-term mapping
files (gene, tab, pipe-delimited GO ids). With --from-db they are species
names whose annotations were loaded with 'hpsim import'.`,
		Example: `  hpsim score host_genes.tsv pathogen_genes.tsv
  hpsim score --method wang --aggregation bma --threshold 0.4 host.tsv pathogen.tsv
  hpsim score --from-db --db hpsim.duckdb --save human salmonella`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			// Validate names before touching the ontology or any input.
			if _, err := semsim.MetricByName(method); err != nil {
				return err
			}
			if _, err := semsim.AggregatorByName(aggregation); err != nil {
				return err
			}

			if dbPath == "" {
				dbPath = viper.GetString("db.path")
			}
			var db *store.Store
			if dbPath != "" && (save || fromDB) {
				db, err = store.Open(dbPath)
				if err != nil {
					return err
				}
				defer db.Close()
			}

			host, pathogen, err := loadGeneTerms(args[0], args[1], fromDB, db)
			if err != nil {
				return err
			}

			oboPath := ontologyPath
			if oboPath == "" {
				oboPath = defaultOntologyPath()
			}
			srcURL := ontologyURL
			if srcURL == "" {
				srcURL = viper.GetString("ontology.url")
			}
			autoFetch := viper.GetBool("ontology.autofetch") && !noFetch

			provider := ontology.NewProvider(func(ctx context.Context) (*ontology.Graph, error) {
				fetcher := obo.NewFetcher(srcURL, autoFetch)
				terms, err := fetcher.Load(ctx, oboPath)
				if err != nil {
					return nil, err
				}
				return ontology.Build(terms)
			})

			scorer := semsim.NewScorer(provider)
			scorer.SetLogger(logger)

			pairs, err := scorer.ComputeSimilarity(cmd.Context(), host, pathogen, method, aggregation, threshold)
			if err != nil {
				return err
			}

			if save {
				if db == nil {
					return fmt.Errorf("--save requires --db")
				}
				id, err := db.SaveResults(store.ResultMeta{
					Method:      method,
					Aggregation: aggregation,
					Threshold:   threshold,
				}, pairs)
				if err != nil {
					return fmt.Errorf("save results: %w", err)
				}
				fmt.Fprintf(os.Stderr, "Saved result set %s (%d pairs)\n", id, len(pairs))
			}

			out := os.Stdout
			if outputFile != "" {
				out, err = os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer out.Close()
			}

			writer := output.NewTabWriter(out)
			if err := writer.WriteHeader(); err != nil {
				return err
			}
			for _, p := range pairs {
				if err := writer.Write(p); err != nil {
					return err
				}
			}
			return writer.Flush()
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", "resnik", "similarity metric: resnik, lin, wang, pekar")
	cmd.Flags().StringVarP(&aggregation, "aggregation", "a", "bma", "set aggregation: max, avg, bma")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "minimum aggregate score to keep a pair")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&ontologyPath, "ontology", "", "ontology OBO file (default: ~/.hpsim/go.obo)")
	cmd.Flags().StringVar(&ontologyURL, "ontology-url", "", "ontology source URL for auto-fetch")
	cmd.Flags().BoolVar(&noFetch, "no-fetch", false, "fail instead of downloading a missing ontology")
	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB store path (default: config db.path)")
	cmd.Flags().BoolVar(&fromDB, "from-db", false, "treat arguments as species names and read annotations from the store")
	cmd.Flags().BoolVar(&save, "save", false, "persist the scored pairs to the store and print the result-set id")

	return cmd
}

// loadGeneTerms resolves the two positional arguments into gene→term maps,
// either from mapping files or from the annotation store.
func loadGeneTerms(hostArg, pathogenArg string, fromDB bool, db *store.Store) (semsim.GeneTerms, semsim.GeneTerms, error) {
	if fromDB {
		if db == nil {
			return nil, nil, fmt.Errorf("--from-db requires --db")
		}
		host, err := db.TermsFor(hostArg, "host", nil)
		if err != nil {
			return nil, nil, fmt.Errorf("load host annotations: %w", err)
		}
		pathogen, err := db.TermsFor(pathogenArg, "pathogen", nil)
		if err != nil {
			return nil, nil, fmt.Errorf("load pathogen annotations: %w", err)
		}
		return host, pathogen, nil
	}

	host, err := genemap.ReadFile(hostArg)
	if err != nil {
		return nil, nil, fmt.Errorf("load host gene map: %w", err)
	}
	pathogen, err := genemap.ReadFile(pathogenArg)
	if err != nil {
		return nil, nil, fmt.Errorf("load pathogen gene map: %w", err)
	}
	return host, pathogen, nil
}
