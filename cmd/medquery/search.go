package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ksato/medquery/internal/httputil"
	"github.com/ksato/medquery/internal/pipeline"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one natural-language PubMed search",
	Long: `Search translates a Japanese research question into an English PubMed
boolean query, retrieves matching citations, and prints each record with a
Japanese summary of its abstract.

Pass --query to supply your own PubMed expression instead of the derived one
(for example after editing a previously printed query).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		override, _ := cmd.Flags().GetString("query")
		maxResults, _ := cmd.Flags().GetInt("max-results")
		asJSON, _ := cmd.Flags().GetBool("json")

		if strings.TrimSpace(text) == "" && strings.TrimSpace(override) == "" {
			return fmt.Errorf("provide --text (natural language) or --query (PubMed expression)")
		}
		if maxResults < 1 {
			maxResults = 1
		}
		if maxResults > 20 {
			maxResults = 20
		}

		if err := requireSecrets(); err != nil {
			return err
		}

		p := newPipeline(loadConfig())

		out, err := p.RunSearch(cmd.Context(), text, override, maxResults)
		if err != nil {
			if httputil.IsTimeout(err) {
				return fmt.Errorf("request timed out, try again: %w", err)
			}
			return err
		}

		if asJSON {
			return writeOutcomeJSON(out, cmd.OutOrStdout())
		}
		writeOutcome(out, cmd.OutOrStdout())
		return nil
	},
}

// writeOutcome prints the query, then one block per record: title, venue and
// year, the PubMed link, the original abstract, and the Japanese summary.
func writeOutcome(out pipeline.SearchOutcome, w io.Writer) {
	fmt.Fprintf(w, "検索式: %s\n\n", out.Query)

	if out.Empty() {
		fmt.Fprintln(w, pipeline.EmptyResultNotice)
		return
	}

	for i, e := range out.Entries {
		fmt.Fprintf(w, "[%d] %s\n", i+1, e.Record.Title)
		fmt.Fprintf(w, "    %s（%s） %s\n", e.Record.Journal, e.Record.Year, e.Record.URL())
		fmt.Fprintf(w, "    原文抄録:\n%s\n", indent(e.Record.Abstract, "      "))
		fmt.Fprintf(w, "    要約:\n%s\n\n", indent(e.Summary, "      "))
	}
	fmt.Fprintf(w, "%d件\n", len(out.Entries))
}

// writeOutcomeJSON emits the outcome as indented JSON for scripting.
func writeOutcomeJSON(out pipeline.SearchOutcome, w io.Writer) error {
	type entry struct {
		PMID    string `json:"pmid"`
		Title   string `json:"title"`
		Journal string `json:"journal"`
		Year    string `json:"year"`
		URL     string `json:"url"`
		Summary string `json:"summary"`
		Failed  bool   `json:"summary_failed,omitempty"`
	}
	payload := struct {
		Query   string  `json:"query"`
		Entries []entry `json:"entries"`
	}{Query: out.Query, Entries: []entry{}}

	for _, e := range out.Entries {
		payload.Entries = append(payload.Entries, entry{
			PMID:    e.Record.PMID,
			Title:   e.Record.Title,
			Journal: e.Record.Journal,
			Year:    e.Record.Year,
			URL:     e.Record.URL(),
			Summary: e.Summary,
			Failed:  e.SummaryErr != nil,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// indent prefixes every line of s.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func init() {
	searchCmd.Flags().String("text", "", "research question in Japanese (e.g. 『2型糖尿病でSGLT2阻害薬の腎アウトカム 2021年以降』)")
	searchCmd.Flags().String("query", "", "PubMed expression to use instead of the derived one")
	searchCmd.Flags().Int("max-results", 5, "maximum number of results (1-20)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
