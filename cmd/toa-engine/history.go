// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/toa-engine/internal/scan"
	"github.com/pdiddy/toa-engine/internal/store"
	"github.com/pdiddy/toa-engine/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and edit saved scans",
	Long: `History manages the local SQLite database of saved scans. Use
subcommands to list scans, show one, search citations across scans with
full-text search, toggle a citation's inclusion, or export a scan.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scans, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	recs, err := st.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		if recs == nil {
			recs = []store.ScanRecord{}
		}
		return writeJSON(os.Stdout, recs)
	}
	if len(recs) == 0 {
		fmt.Println("No saved scans.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %5s  %9s  %s\n", "ID", "Created", "Pages", "Citations", "Source")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, r := range recs {
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %5d  %9d  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.TotalPages, r.Citations, r.Source)
	}
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <scan-id>",
	Short: "Show the citations of a saved scan",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.Record(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	doc, err := st.Scan(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "== %s (%d pages, saved %s)\n", rec.Source, rec.TotalPages,
		rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	printCitations(os.Stdout, doc.Citations)
	fmt.Fprintf(os.Stdout, "\n%s", scan.Summary(scan.Stats(doc.Citations)))
	return nil
}

// --- search subcommand ---

var historySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search citations across saved scans",
	Long: `Search matches citation text with FTS5 full-text search, optionally
filtered by category or scan. Every query word must appear; punctuation
is ignored. Short forms are omitted unless --short-forms is given.`,
	RunE: runHistorySearch,
}

func runHistorySearch(cmd *cobra.Command, args []string) error {
	opts := store.QueryOptions{Query: strings.Join(args, " ")}
	if name, _ := cmd.Flags().GetString("category"); name != "" {
		cat, err := types.ParseCategory(name)
		if err != nil {
			return err
		}
		opts.Category = cat
	}
	opts.ScanID, _ = cmd.Flags().GetString("scan")
	opts.ShortForms, _ = cmd.Flags().GetBool("short-forms")
	opts.MaxResults, _ = cmd.Flags().GetInt("limit")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	results, err := st.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		if results == nil {
			results = []store.Result{}
		}
		return writeJSON(os.Stdout, results)
	}
	return formatSearchOutput(os.Stdout, results)
}

func formatSearchOutput(w io.Writer, results []store.Result) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-12s  %-50s  %-20s  %s\n", "Rank", "Category", "Citation", "Source", "Pages")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for i, r := range results {
		cite := r.LongCite
		if len([]rune(cite)) > 50 {
			cite = string([]rune(cite)[:47]) + "..."
		}
		src := r.Source
		if len([]rune(src)) > 20 {
			src = "..." + string([]rune(src)[len([]rune(src))-17:])
		}
		cat := string(r.Category)
		if len(cat) > 12 {
			cat = cat[:12]
		}
		fmt.Fprintf(w, "%-4d  %-12s  %-50s  %-20s  %s\n", i+1, cat, cite, src, joinPages(r.Pages))
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// --- include subcommand ---

var historyIncludeCmd = &cobra.Command{
	Use:   "include <scan-id> <citation-id>",
	Short: "Include or exclude a citation from a saved scan's table",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryInclude,
}

func runHistoryInclude(cmd *cobra.Command, args []string) error {
	exclude, _ := cmd.Flags().GetBool("exclude")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SetIncluded(cmd.Context(), args[0], args[1], !exclude); err != nil {
		return err
	}
	verb := "included"
	if exclude {
		verb = "excluded"
	}
	fmt.Fprintf(os.Stdout, "%s %s\n", verb, args[1])
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export <scan-id>",
	Short: "Export a saved scan to YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var w io.Writer = os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "yaml", "":
		return st.ExportYAML(cmd.Context(), args[0], w)
	case "json":
		return st.ExportJSON(cmd.Context(), args[0], w)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}

// --- shared helpers ---

func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Store)
}

func init() {
	historyListCmd.Flags().Int("limit", 0, "maximum scans to list (0 = use default)")
	historyListCmd.Flags().Bool("json", false, "output scans as JSON")

	historySearchCmd.Flags().String("category", "", "filter by category (name or code)")
	historySearchCmd.Flags().String("scan", "", "filter by scan ID")
	historySearchCmd.Flags().Bool("short-forms", false, "include short-form citations")
	historySearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	historySearchCmd.Flags().Bool("json", false, "output results as JSON")

	historyIncludeCmd.Flags().Bool("exclude", false, "exclude the citation instead of including it")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().StringP("output", "o", "", "write the export to a file instead of stdout")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyIncludeCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
