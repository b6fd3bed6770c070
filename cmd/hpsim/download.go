package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hpnet/hpsim/internal/obo"
)

func newDownloadCmd() *cobra.Command {
	var (
		url    string
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the Gene Ontology OBO release",
		Long:  "Download the GO ontology in OBO format to the local cache (one-time setup).",
		Example: `  # Download the current GO release to ~/.hpsim/go.obo
  hpsim download

  # Download a specific release to a custom location
  hpsim download --url http://purl.obolibrary.org/obo/go/releases/2024-01-17/go.obo --output /data/go.obo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := output
			if dest == "" {
				dest = defaultOntologyPath()
			}

			srcURL := url
			if srcURL == "" {
				srcURL = viper.GetString("ontology.url")
			}

			if force {
				if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("remove existing ontology: %w", err)
				}
			}

			if info, err := os.Stat(dest); err == nil {
				fmt.Printf("%s already exists (%s), skipping (use --force to redownload)\n",
					dest, formatSize(info.Size()))
				return nil
			}

			fetcher := obo.NewFetcher(srcURL, true)
			fmt.Printf("Downloading %s...\n", fetcher.URL)

			if err := fetcher.Download(cmd.Context(), dest); err != nil {
				return err
			}

			info, err := os.Stat(dest)
			if err != nil {
				return err
			}
			fmt.Printf("Done: %s (%s)\n", dest, formatSize(info.Size()))
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "ontology source URL (default: current GO OBO release)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination path (default: ~/.hpsim/go.obo)")
	cmd.Flags().BoolVar(&force, "force", false, "redownload even if the file exists")

	return cmd
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
