// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the medquery pipeline.
package types

// NoAbstract is the abstract-of-record for citations whose efetch entry
// carried no AbstractText elements. It is summarizable text, never the
// empty string, so downstream stages need no special case.
const NoAbstract = "（要約なし）"

// Record is the normalized representation of one retrieved PubMed citation.
// Immutable once constructed by the parser.
type Record struct {
	// PMID is the PubMed identifier of the citation.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title, or "" when the entry carried none.
	Title string `json:"title" yaml:"title"`

	// Abstract is the labeled abstract sections joined by newlines in
	// document order, or NoAbstract when the entry carried none.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Journal is the source-venue title, or "" when absent.
	Journal string `json:"journal" yaml:"journal"`

	// Year is the publication year as it appears in the entry, or "".
	Year string `json:"year" yaml:"year"`
}

// URL returns the public PubMed page for the record.
func (r Record) URL() string {
	return "https://pubmed.ncbi.nlm.nih.gov/" + r.PMID + "/"
}

// HasAbstract reports whether the record carries a real abstract rather
// than the no-abstract placeholder.
func (r Record) HasAbstract() bool {
	return r.Abstract != "" && r.Abstract != NoAbstract
}

// Role tags one side of a chat exchange.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage is a single turn in a conversation log or an LLM request.
type ChatMessage struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}
