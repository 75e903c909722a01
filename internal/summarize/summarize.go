// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize produces short clinician-oriented Japanese digests of
// English PubMed abstracts.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/ksato/medquery/internal/llm"
	"github.com/ksato/medquery/pkg/types"
)

// systemPrompt establishes the domain register for every summarization call.
const systemPrompt = "あなたは医学に詳しく、簡潔で正確な日本語要約が得意です。"

// userPromptPrefix asks for a 3-5 line digest aimed at clinicians.
const userPromptPrefix = "次のPubMed抄録を日本語で、臨床家向けに3～5行で要約してください。\n\n"

// Summarizer digests one abstract per call. Records are independent; the
// orchestrator decides how failures are isolated.
type Summarizer struct {
	// Backend performs the model call.
	Backend llm.Completer

	// Temperature for the call (mild variability, default 0.3 via config).
	Temperature float64
}

// Summarize returns a Japanese digest of text. The text is usually an
// abstract, optionally prefixed with title/venue/year context via
// RecordContext. No retries; the error for one record is the caller's to
// isolate.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty text")
	}

	out, err := s.Backend.Complete(ctx, []types.ChatMessage{
		{Role: types.RoleSystem, Content: systemPrompt},
		{Role: types.RoleUser, Content: userPromptPrefix + text},
	}, s.Temperature)
	if err != nil {
		return "", fmt.Errorf("summarizing abstract: %w", err)
	}
	return out, nil
}

// RecordContext prefixes a record's abstract with its title, venue, and year
// so the digest can anchor the study. Used by the chat flow.
func RecordContext(r types.Record) string {
	return fmt.Sprintf("%s (%s %s)\n%s", r.Title, r.Journal, r.Year, r.Abstract)
}
