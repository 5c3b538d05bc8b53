package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/toa-engine/internal/convert"
	"github.com/pdiddy/toa-engine/internal/pincite"
	"github.com/pdiddy/toa-engine/internal/scan"
	"github.com/pdiddy/toa-engine/internal/source"
	"github.com/pdiddy/toa-engine/internal/store"
	"github.com/pdiddy/toa-engine/pkg/types"
)

// newLoader returns a source loader. PDF conversion is optional: without
// pdftotext or a container runtime, PDF locations fail when loaded.
func newLoader(cfg types.SourceConfig) *source.Loader {
	var conv convert.Converter
	p, err := convert.NewPdftotext(cfg.PdftotextImage)
	if err != nil {
		logrus.Debugf("PDF conversion unavailable: %v", err)
	} else {
		logrus.Debugf("PDF conversion via %s", p.Backend())
		conv = p
	}
	return source.NewLoader(cfg, conv)
}

// scanLocation loads and scans one document.
func scanLocation(ctx context.Context, cfg types.Config, loader *source.Loader, location string) (*types.ParsedDocument, error) {
	opts, err := scan.OptionsFrom(cfg.Parser)
	if err != nil {
		return nil, err
	}
	opts.CharsPerPage = cfg.Source.CharsPerPage

	src, err := loader.Load(ctx, location)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("loaded %s (%d pages)", location, len(src.Pages))
	return scan.Document(src.Pages, opts)
}

// documentFromArgs resolves the document a command works on: a saved scan
// named by --scan, or the single location argument.
func documentFromArgs(cmd *cobra.Command, cfg types.Config, args []string) (*types.ParsedDocument, string, error) {
	ctx := cmd.Context()
	scanID, _ := cmd.Flags().GetString("scan")
	if scanID != "" {
		if len(args) > 0 {
			return nil, "", fmt.Errorf("give either a document or --scan, not both")
		}
		st, err := store.Open(cfg.Store)
		if err != nil {
			return nil, "", err
		}
		defer st.Close()
		rec, err := st.Record(ctx, scanID)
		if err != nil {
			return nil, "", err
		}
		doc, err := st.Scan(ctx, scanID)
		return doc, rec.Source, err
	}

	if len(args) != 1 {
		return nil, "", fmt.Errorf("provide one document path or URL, or --scan <id>")
	}
	doc, err := scanLocation(ctx, cfg, newLoader(cfg.Source), args[0])
	return doc, args[0], err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// printCitations writes citations grouped by category in table order.
func printCitations(w io.Writer, citations []types.Citation) {
	groups := scan.ByCategory(citations)
	for _, cat := range types.CategoryOrder {
		list := groups[cat]
		if len(list) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", cat.DisplayName())
		for _, a := range pincite.Annotate(list) {
			mark := " "
			switch {
			case a.IsShortForm:
				mark = "~"
			case !a.IsIncluded:
				mark = "-"
			}
			fmt.Fprintf(w, "%s %s\n", mark, a.LongCite)
			fmt.Fprintf(w, "    short: %s  pages: %s  id: %s\n", a.ShortCite, joinPages(a.Pages), a.ID)
		}
	}
}

func joinPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ", ")
}
