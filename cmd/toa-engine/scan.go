package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/toa-engine/internal/pincite"
	"github.com/pdiddy/toa-engine/internal/scan"
	"github.com/pdiddy/toa-engine/internal/store"
	"github.com/pdiddy/toa-engine/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan <file|url>...",
	Short: "Find citations in one or more documents",
	Long: `Scan extracts citations from each document, deduplicates them, resolves
short forms to their full citations, and prints them grouped by category
with their table forms and pages. Short forms are marked with "~".

With --save each scan is stored in the history database so it can be
searched, toggled and rendered again later.`,
	RunE: runScan,
}

// scanReport is the structured output for one document.
type scanReport struct {
	Source     string              `json:"source" yaml:"source"`
	ScanID     string              `json:"scan_id,omitempty" yaml:"scan_id,omitempty"`
	TotalPages int                 `json:"total_pages" yaml:"total_pages"`
	Citations  []pincite.Annotated `json:"citations" yaml:"citations"`
	Stats      types.Stats         `json:"stats" yaml:"stats"`
}

func init() {
	scanCmd.Flags().Bool("json", false, "output results as JSON")
	scanCmd.Flags().Bool("yaml", false, "output results as YAML")
	scanCmd.Flags().Bool("save", false, "save each scan to the history database")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more document paths or URLs")
	}
	jsonOut, _ := cmd.Flags().GetBool("json")
	yamlOut, _ := cmd.Flags().GetBool("yaml")
	if jsonOut && yamlOut {
		return fmt.Errorf("--json and --yaml are mutually exclusive")
	}
	save, _ := cmd.Flags().GetBool("save")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var st *store.Store
	if save {
		st, err = store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	ctx := cmd.Context()
	loader := newLoader(cfg.Source)
	var (
		reports []scanReport
		failed  int
	)
	for _, location := range args {
		doc, err := scanLocation(ctx, cfg, loader, location)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", location, err)
			failed++
			continue
		}

		report := scanReport{
			Source:     location,
			TotalPages: doc.TotalPages,
			Citations:  pincite.Annotate(doc.Citations),
			Stats:      scan.Stats(doc.Citations),
		}
		if st != nil {
			rec, err := st.Save(ctx, location, doc)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", location, err)
				failed++
				continue
			}
			report.ScanID = rec.ID
		}

		if jsonOut || yamlOut {
			reports = append(reports, report)
			continue
		}
		fmt.Fprintf(os.Stdout, "== %s (%d pages)\n", location, doc.TotalPages)
		printCitations(os.Stdout, doc.Citations)
		fmt.Fprintf(os.Stdout, "\n%s", scan.Summary(report.Stats))
		if report.ScanID != "" {
			fmt.Fprintf(os.Stdout, "saved scan %s\n", report.ScanID)
		}
		fmt.Fprintln(os.Stdout)
	}

	switch {
	case jsonOut:
		if err := writeJSON(os.Stdout, reports); err != nil {
			return err
		}
	case yamlOut:
		if err := writeYAML(os.Stdout, reports); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d document(s) failed", failed)
	}
	return nil
}
