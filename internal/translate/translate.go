// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package translate turns a free-text request in the user's language into a
// single-line English PubMed search expression.
package translate

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/ksato/medquery/internal/cache"
	"github.com/ksato/medquery/internal/llm"
	"github.com/ksato/medquery/pkg/types"
)

// queryPromptTmpl is the prompt sent to the model for each translation. It
// pins the output to a bare one-line boolean expression so no prose has to be
// scraped off afterwards.
var queryPromptTmpl = template.Must(template.New("query").Parse(`あなたはPubMedの検索式を作る専門家です。
次の日本語要望から、英語のPubMed検索式を1行で作ってください。
- できれば MeSH Terms と tiab を併用
- AND/OR/() を適切に
- 範囲指示（年など）があれば pubdate フィルタも付与（例：("2021"[Date - Publication] : "3000"[Date - Publication])）
- 出力は式のみ、余計な説明は書かない

日本語要望:
{{.Text}}
`))

// Translator derives a formal PubMed query from natural-language text.
type Translator struct {
	// Backend performs the model call.
	Backend llm.Completer

	// Temperature for the call. Kept near zero so identical inputs yield
	// materially identical queries.
	Temperature float64

	// Cache memoizes successful translations by exact input text. Nil
	// disables memoization.
	Cache *cache.TTL[string]
}

// Translate returns a sanitized single-line PubMed query for naturalText.
// A model failure or an output that sanitizes to nothing is an error; no
// fallback query is fabricated.
func (t *Translator) Translate(ctx context.Context, naturalText string) (string, error) {
	if strings.TrimSpace(naturalText) == "" {
		return "", fmt.Errorf("empty input text")
	}

	if q, ok := t.Cache.Get(naturalText); ok {
		return q, nil
	}

	var buf bytes.Buffer
	if err := queryPromptTmpl.Execute(&buf, struct{ Text string }{Text: naturalText}); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	raw, err := t.Backend.Complete(ctx, []types.ChatMessage{
		{Role: types.RoleUser, Content: buf.String()},
	}, t.Temperature)
	if err != nil {
		return "", fmt.Errorf("translating query: %w", err)
	}

	query := Sanitize(raw)
	if query == "" {
		return "", fmt.Errorf("model returned unusable query %q", raw)
	}

	t.Cache.Set(naturalText, query)
	return query, nil
}

// Sanitize normalizes model output (or a user-edited query) into the
// single-line form downstream consumers require: backticks removed, newlines
// and runs of whitespace collapsed, wrapping quotes stripped.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "`", "")
	s = strings.Join(strings.Fields(s), " ")

	// Strip one pair of wrapping quotes. Quotes inside the expression, as in
	// pubdate clauses, stay untouched.
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first != last || (first != '"' && first != '\'') {
			break
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
