package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/toa-engine/internal/artifact"
	"github.com/pdiddy/toa-engine/internal/toa"
)

var toaCmd = &cobra.Command{
	Use:   "toa [file|url]",
	Short: "Render the Table of Authorities for a document",
	Long: `Toa scans a document, or loads a saved scan with --scan, and renders its
Table of Authorities: one section per category in table order, entries
sorted alphabetically, page lists collapsed to "passim" at the threshold,
and dot leaders filling each line.

Case names are delimited with "_" for italics in plain text. With --ooxml
the table is emitted as a WordprocessingML fragment instead. --publish
stores the rendered table in the configured artifact storage.`,
	RunE: runTOA,
}

func init() {
	toaCmd.Flags().String("scan", "", "render a saved scan instead of a document")
	toaCmd.Flags().Bool("ooxml", false, "emit a WordprocessingML fragment")
	toaCmd.Flags().Int("passim-threshold", 0, "distinct pages at which \"passim\" replaces the page list (default 6)")
	toaCmd.Flags().Int("max-line-length", 0, "line width filled by dot leaders (default 80)")
	toaCmd.Flags().Bool("no-dot-leaders", false, "separate citation and pages with a single space")
	toaCmd.Flags().Bool("page-counts", false, "add a Page(s) header to each section")
	toaCmd.Flags().Bool("all", false, "include citations excluded in the history database")
	toaCmd.Flags().Bool("preview", false, "plain-text preview of included citations")
	toaCmd.Flags().Bool("publish", false, "store the rendered table in artifact storage")
	toaCmd.Flags().StringP("output", "o", "", "write the table to a file instead of stdout")

	_ = viper.BindPFlag("format.passim_threshold", toaCmd.Flags().Lookup("passim-threshold"))
	_ = viper.BindPFlag("format.max_line_length", toaCmd.Flags().Lookup("max-line-length"))
	_ = viper.BindPFlag("format.include_page_counts", toaCmd.Flags().Lookup("page-counts"))
	_ = viper.BindPFlag("format.as_ooxml", toaCmd.Flags().Lookup("ooxml"))

	rootCmd.AddCommand(toaCmd)
}

func runTOA(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noLeaders, _ := cmd.Flags().GetBool("no-dot-leaders"); noLeaders {
		cfg.Format.UseDotLeaders = false
	}
	if all, _ := cmd.Flags().GetBool("all"); all {
		cfg.Format.OnlyIncluded = false
	}

	doc, location, err := documentFromArgs(cmd, cfg, args)
	if err != nil {
		return err
	}

	var rendered string
	if preview, _ := cmd.Flags().GetBool("preview"); preview {
		cfg.Format.AsOOXML = false
		rendered = toa.Preview(doc.Citations, cfg.Format)
	} else {
		rendered = toa.Generate(doc.Citations, cfg.Format)
	}

	var w io.Writer = os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if _, err := io.WriteString(w, rendered+"\n"); err != nil {
		return err
	}

	if publish, _ := cmd.Flags().GetBool("publish"); publish {
		st, err := artifact.New(cmd.Context(), cfg.Artifact)
		if err != nil {
			return err
		}
		key, err := artifact.Publish(cmd.Context(), st, location, rendered, cfg.Format.AsOOXML)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "published %s (%s)\n", key, cfg.Artifact.Type)
	}
	return nil
}
