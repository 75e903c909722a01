// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ksato/medquery/pkg/types"
)

// PubMed efetch XML structures. Only the elements the pipeline needs are
// mapped; everything else in the document is skipped by the decoder.
type articleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID    string       `xml:"PMID"`
	Article articleEntry `xml:"Article"`
}

type articleEntry struct {
	Title    string        `xml:"ArticleTitle"`
	Abstract abstractEntry `xml:"Abstract"`
	Journal  journalEntry  `xml:"Journal"`
}

type abstractEntry struct {
	Sections []abstractSection `xml:"AbstractText"`
}

type abstractSection struct {
	Label string `xml:"Label,attr"`
	Text  string `xml:",chardata"`
}

type journalEntry struct {
	Title string       `xml:"Title"`
	Issue journalIssue `xml:"JournalIssue"`
}

type journalIssue struct {
	PubDate pubDate `xml:"PubDate"`
}

type pubDate struct {
	Year string `xml:"Year"`
}

// ParseArticles decodes an efetch response body into normalized Records, in
// document order. A structurally invalid document is an error; a missing
// field within an entry is not — title, journal, and year fall back to ""
// and the abstract to the no-abstract placeholder, so one sparse entry never
// sinks the batch.
func ParseArticles(r io.Reader) ([]types.Record, error) {
	var set articleSet
	if err := xml.NewDecoder(r).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}

	records := make([]types.Record, 0, len(set.Articles))
	for _, art := range set.Articles {
		records = append(records, types.Record{
			PMID:     strings.TrimSpace(art.Citation.PMID),
			Title:    strings.TrimSpace(art.Citation.Article.Title),
			Abstract: buildAbstract(art.Citation.Article.Abstract.Sections),
			Journal:  strings.TrimSpace(art.Citation.Article.Journal.Title),
			Year:     strings.TrimSpace(art.Citation.Article.Journal.Issue.PubDate.Year),
		})
	}
	return records, nil
}

// buildAbstract joins abstract sections with their labels prefixed, one line
// per section in document order. Zero sections yield the placeholder, never
// the empty string.
func buildAbstract(sections []abstractSection) string {
	if len(sections) == 0 {
		return types.NoAbstract
	}

	parts := make([]string, 0, len(sections))
	for _, sec := range sections {
		text := strings.TrimSpace(sec.Text)
		if label := strings.TrimSpace(sec.Label); label != "" {
			text = label + ": " + text
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n")
}
