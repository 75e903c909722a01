// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksato/medquery/internal/cache"
	"github.com/ksato/medquery/pkg/types"
)

// mockCompleter returns canned output and counts calls.
type mockCompleter struct {
	output       string
	err          error
	calls        int
	lastMessages []types.ChatMessage
	lastTemp     float64
}

func (m *mockCompleter) Complete(_ context.Context, messages []types.ChatMessage, temperature float64) (string, error) {
	m.calls++
	m.lastMessages = messages
	m.lastTemp = temperature
	return m.output, m.err
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "diabetes[tiab] AND SGLT2[tiab]", "diabetes[tiab] AND SGLT2[tiab]"},
		{"backticks", "`diabetes[tiab]`", "diabetes[tiab]"},
		{"fenced block", "```\ndiabetes[tiab] AND renal[tiab]\n```", "diabetes[tiab] AND renal[tiab]"},
		{"embedded newlines", "diabetes[tiab]\nAND\nSGLT2[tiab]", "diabetes[tiab] AND SGLT2[tiab]"},
		{"wrapping quotes", `"diabetes[tiab] AND SGLT2[tiab]"`, "diabetes[tiab] AND SGLT2[tiab]"},
		{
			"inner pubdate quotes survive",
			`diabetes[tiab] AND ("2021"[Date - Publication] : "3000"[Date - Publication])`,
			`diabetes[tiab] AND ("2021"[Date - Publication] : "3000"[Date - Publication])`,
		},
		{"whitespace only", " \n\t ", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTranslateSingleLineOutput(t *testing.T) {
	m := &mockCompleter{output: "```\n(diabetes mellitus[MeSH Terms] OR diabetes[tiab])\nAND (SGLT2 inhibitors[MeSH Terms] OR SGLT2[tiab])\n```"}
	tr := &Translator{Backend: m, Temperature: 0.1}

	got, err := tr.Translate(context.Background(), "2型糖尿病でSGLT2阻害薬の腎アウトカム 2021年以降")
	require.NoError(t, err)
	assert.NotEmpty(t, got)
	assert.NotContains(t, got, "\n")
	assert.NotContains(t, got, "`")
	assert.Equal(t, 0.1, m.lastTemp)
	require.Len(t, m.lastMessages, 1)
	assert.Equal(t, types.RoleUser, m.lastMessages[0].Role)
	assert.Contains(t, m.lastMessages[0].Content, "2型糖尿病")
}

func TestTranslateEmptyInput(t *testing.T) {
	tr := &Translator{Backend: &mockCompleter{output: "x"}}
	_, err := tr.Translate(context.Background(), "   ")
	assert.Error(t, err)
}

func TestTranslateBackendFailurePropagates(t *testing.T) {
	m := &mockCompleter{err: errors.New("quota exceeded")}
	tr := &Translator{Backend: m}
	_, err := tr.Translate(context.Background(), "心不全")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestTranslateUnusableOutput(t *testing.T) {
	m := &mockCompleter{output: "``` \n ```"}
	tr := &Translator{Backend: m}
	_, err := tr.Translate(context.Background(), "心不全")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unusable")
}

func TestTranslateMemoizesSuccessOnly(t *testing.T) {
	m := &mockCompleter{output: "heart failure[tiab]"}
	tr := &Translator{Backend: m, Cache: cache.New[string](time.Hour)}

	first, err := tr.Translate(context.Background(), "心不全")
	require.NoError(t, err)
	second, err := tr.Translate(context.Background(), "心不全")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, m.calls, "second call should hit the cache")

	// Failures are never cached.
	failing := &mockCompleter{err: errors.New("down")}
	trFail := &Translator{Backend: failing, Cache: cache.New[string](time.Hour)}
	_, err = trFail.Translate(context.Background(), "脳卒中")
	require.Error(t, err)
	assert.Equal(t, 0, trFail.Cache.Len())
}

func TestTranslateNilCacheCallsEveryTime(t *testing.T) {
	m := &mockCompleter{output: "stroke[tiab]"}
	tr := &Translator{Backend: m}

	for i := 0; i < 3; i++ {
		out, err := tr.Translate(context.Background(), "脳卒中")
		require.NoError(t, err)
		assert.False(t, strings.Contains(out, "\n"))
	}
	assert.Equal(t, 3, m.calls)
}
