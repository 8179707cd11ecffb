package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Dateyes-glitch/sanctions-watch/internal/sources"
)

// newSourcesCmd creates the 'sources' subcommand.
func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the registered sanctions sources",
		RunE: func(_ *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SOURCE\tBASE URL\tRATE LIMIT\tTIMEOUT")
			for _, name := range sources.Names() {
				cfg, err := appCfg.SourceCrawlerConfig(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%.1fs\t%.0fs\n",
					name, cfg.BaseURL, cfg.RateLimit.Seconds(), cfg.Timeout.Seconds())
			}
			return w.Flush()
		},
	}
}
