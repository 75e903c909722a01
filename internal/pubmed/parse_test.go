// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"strings"
	"testing"

	"github.com/ksato/medquery/pkg/types"
)

const sampleEfetchXML = `<?xml version="1.0" ?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>34567890</PMID>
      <Article>
        <Journal>
          <Title>The New England Journal of Medicine</Title>
          <JournalIssue>
            <PubDate><Year>2021</Year></PubDate>
          </JournalIssue>
        </Journal>
        <ArticleTitle>Empagliflozin and renal outcomes in type 2 diabetes</ArticleTitle>
        <Abstract>
          <AbstractText Label="BACKGROUND">SGLT2 inhibitors reduce cardiovascular risk.</AbstractText>
          <AbstractText Label="METHODS">We randomized 7020 patients.</AbstractText>
          <AbstractText Label="RESULTS">Renal composite outcome was reduced.</AbstractText>
        </Abstract>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>11111111</PMID>
      <Article>
        <Journal>
          <Title>Diabetes Care</Title>
          <JournalIssue>
            <PubDate><Year>2022</Year></PubDate>
          </JournalIssue>
        </Journal>
        <ArticleTitle>Unstructured abstract example</ArticleTitle>
        <Abstract>
          <AbstractText>A single unlabeled paragraph.</AbstractText>
        </Abstract>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>22222222</PMID>
      <Article>
        <ArticleTitle>No abstract, no journal</ArticleTitle>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
</PubmedArticleSet>`

func TestParseArticles(t *testing.T) {
	records, err := ParseArticles(strings.NewReader(sampleEfetchXML))
	if err != nil {
		t.Fatalf("ParseArticles() error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}

	r := records[0]
	if r.PMID != "34567890" {
		t.Errorf("PMID = %q, want 34567890", r.PMID)
	}
	if r.Title != "Empagliflozin and renal outcomes in type 2 diabetes" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.Journal != "The New England Journal of Medicine" {
		t.Errorf("Journal = %q", r.Journal)
	}
	if r.Year != "2021" {
		t.Errorf("Year = %q, want 2021", r.Year)
	}
	wantAbstract := "BACKGROUND: SGLT2 inhibitors reduce cardiovascular risk.\n" +
		"METHODS: We randomized 7020 patients.\n" +
		"RESULTS: Renal composite outcome was reduced."
	if r.Abstract != wantAbstract {
		t.Errorf("Abstract = %q, want %q", r.Abstract, wantAbstract)
	}
	if !r.HasAbstract() {
		t.Error("HasAbstract() = false for a labeled abstract")
	}
}

func TestParseArticlesUnlabeledSection(t *testing.T) {
	records, err := ParseArticles(strings.NewReader(sampleEfetchXML))
	if err != nil {
		t.Fatalf("ParseArticles() error: %v", err)
	}
	if got := records[1].Abstract; got != "A single unlabeled paragraph." {
		t.Errorf("Abstract = %q, want unlabeled paragraph without prefix", got)
	}
}

func TestParseArticlesMissingFieldsFallBack(t *testing.T) {
	records, err := ParseArticles(strings.NewReader(sampleEfetchXML))
	if err != nil {
		t.Fatalf("ParseArticles() error: %v", err)
	}

	r := records[2]
	if r.Abstract != types.NoAbstract {
		t.Errorf("Abstract = %q, want placeholder %q", r.Abstract, types.NoAbstract)
	}
	if r.Abstract == "" {
		t.Error("missing abstract must never be the empty string")
	}
	if r.Journal != "" || r.Year != "" {
		t.Errorf("missing journal/year should be empty strings, got %q / %q", r.Journal, r.Year)
	}
	if r.HasAbstract() {
		t.Error("HasAbstract() = true for placeholder abstract")
	}
}

func TestParseArticlesEmptySet(t *testing.T) {
	records, err := ParseArticles(strings.NewReader(`<PubmedArticleSet></PubmedArticleSet>`))
	if err != nil {
		t.Fatalf("ParseArticles() error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
}

func TestParseArticlesInvalidXML(t *testing.T) {
	_, err := ParseArticles(strings.NewReader(`{"this": "is json"}`))
	if err == nil {
		t.Fatal("ParseArticles() should fail on a non-XML document")
	}
}

func TestBuildAbstractLabeledAndEmpty(t *testing.T) {
	tests := []struct {
		name     string
		sections []abstractSection
		want     string
	}{
		{"none", nil, types.NoAbstract},
		{
			"label with empty text keeps the label line",
			[]abstractSection{{Label: "METHODS"}},
			"METHODS: ",
		},
		{
			"mixed labeled and unlabeled",
			[]abstractSection{{Label: "AIM", Text: "To test."}, {Text: "Done."}},
			"AIM: To test.\nDone.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildAbstract(tt.sections); got != tt.want {
				t.Errorf("buildAbstract() = %q, want %q", got, tt.want)
			}
		})
	}
}
