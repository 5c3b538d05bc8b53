package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/toa-engine/internal/pincite"
	"github.com/pdiddy/toa-engine/internal/session"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields [file|url]",
	Short: "Print the TA marks and TOA directives for a document",
	Long: `Fields plans the word processor annotations for a document: one TA mark
per included full citation in first-appearance order, back-reference marks
for resolved short forms, and one TOA directive per category present.`,
	RunE: runFields,
}

func init() {
	fieldsCmd.Flags().String("scan", "", "plan a saved scan instead of a document")
	fieldsCmd.Flags().String("leader", "", "leader character passed to each TOA directive")
	fieldsCmd.Flags().Bool("no-passim", false, "omit the passim switch from TOA directives")
	fieldsCmd.Flags().Bool("json", false, "output marks and directives as JSON")

	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	doc, _, err := documentFromArgs(cmd, cfg, args)
	if err != nil {
		return err
	}

	leader, _ := cmd.Flags().GetString("leader")
	noPassim, _ := cmd.Flags().GetBool("no-passim")

	var ss session.Session
	marks := ss.Plan(doc.Citations)
	directives := pincite.Directives(doc.Citations, !noPassim, leader)

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return writeJSON(os.Stdout, map[string]any{
			"marks":        marks,
			"directives":   directives,
			"marked_count": ss.MarkedCount,
		})
	}

	for _, m := range marks {
		fmt.Fprintf(os.Stdout, "%-18s { %s }\n", m.CitationID, m.FieldCode)
	}
	if len(directives) > 0 {
		fmt.Fprintln(os.Stdout)
		for _, d := range directives {
			fmt.Fprintf(os.Stdout, "{ %s }\n", d)
		}
	}
	fmt.Fprintf(os.Stdout, "\n%d mark(s)\n", ss.MarkedCount)
	return nil
}
