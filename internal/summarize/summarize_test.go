// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksato/medquery/pkg/types"
)

type mockCompleter struct {
	output       string
	err          error
	lastMessages []types.ChatMessage
	lastTemp     float64
}

func (m *mockCompleter) Complete(_ context.Context, messages []types.ChatMessage, temperature float64) (string, error) {
	m.lastMessages = messages
	m.lastTemp = temperature
	return m.output, m.err
}

func TestSummarizeSendsSystemAndUserMessages(t *testing.T) {
	m := &mockCompleter{output: "SGLT2阻害薬は腎アウトカムを改善した。"}
	s := &Summarizer{Backend: m, Temperature: 0.3}

	got, err := s.Summarize(context.Background(), "BACKGROUND: SGLT2 inhibitors reduce renal risk.")
	require.NoError(t, err)
	assert.NotEmpty(t, got)

	require.Len(t, m.lastMessages, 2)
	assert.Equal(t, types.RoleSystem, m.lastMessages[0].Role)
	assert.Equal(t, types.RoleUser, m.lastMessages[1].Role)
	assert.Contains(t, m.lastMessages[1].Content, "SGLT2 inhibitors reduce renal risk.")
	assert.Equal(t, 0.3, m.lastTemp)
}

func TestSummarizePlaceholderAbstractIsSafe(t *testing.T) {
	// The no-abstract placeholder is non-empty text, so it flows through
	// like any other abstract.
	m := &mockCompleter{output: "抄録はありません。"}
	s := &Summarizer{Backend: m}

	got, err := s.Summarize(context.Background(), types.NoAbstract)
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestSummarizeEmptyText(t *testing.T) {
	s := &Summarizer{Backend: &mockCompleter{output: "x"}}
	_, err := s.Summarize(context.Background(), "  \n ")
	assert.Error(t, err)
}

func TestSummarizeBackendFailurePropagates(t *testing.T) {
	m := &mockCompleter{err: errors.New("model unavailable")}
	s := &Summarizer{Backend: m}
	_, err := s.Summarize(context.Background(), "some abstract")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestRecordContext(t *testing.T) {
	r := types.Record{
		PMID:     "34567890",
		Title:    "Empagliflozin and renal outcomes",
		Journal:  "NEJM",
		Year:     "2021",
		Abstract: "BACKGROUND: ...",
	}
	got := RecordContext(r)
	assert.Equal(t, "Empagliflozin and renal outcomes (NEJM 2021)\nBACKGROUND: ...", got)
}
