// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/ksato/medquery/internal/summarize"
	"github.com/ksato/medquery/pkg/types"
)

// Session owns one conversation log and runs the full pipeline per turn.
// The log is append-only for the session's lifetime; a failed turn still
// appends its user and assistant entries. One session serves one user, so
// there is no internal locking.
type Session struct {
	// ID identifies the session, e.g. in saved transcripts.
	ID string

	pipeline *Pipeline
	messages []types.ChatMessage
}

// NewSession returns an empty session backed by p.
func NewSession(p *Pipeline) *Session {
	return &Session{ID: uuid.NewString(), pipeline: p}
}

// Messages returns a copy of the conversation log in append order.
func (s *Session) Messages() []types.ChatMessage {
	out := make([]types.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Send runs one chat turn: the user turn is appended, the pipeline runs with
// the chat result cap, and the assistant reply is appended and returned.
// When a stage aborts, the reply is the stage-appropriate notice — already in
// the log — and the returned error carries the cause; the log never loses the
// turn.
func (s *Session) Send(ctx context.Context, userText string) (string, error) {
	s.messages = append(s.messages, types.ChatMessage{Role: types.RoleUser, Content: userText})
	reply, err := s.runTurn(ctx, userText)
	s.messages = append(s.messages, types.ChatMessage{Role: types.RoleAssistant, Content: reply})
	return reply, err
}

// runTurn produces the assistant reply for one user turn.
func (s *Session) runTurn(ctx context.Context, userText string) (string, error) {
	p := s.pipeline

	query, err := p.Translator.Translate(ctx, userText)
	if err != nil {
		return TranslateFailedReply, fmt.Errorf("%w: %w", ErrTranslate, err)
	}

	maxResults := p.Config.ChatMaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	ids, err := p.PubMed.Search(ctx, query, maxResults)
	if err != nil {
		return SearchFailedReply, fmt.Errorf("%w: %w", ErrSearch, err)
	}
	if len(ids) == 0 {
		return NotFoundReply, nil
	}

	records, err := p.PubMed.Fetch(ctx, ids)
	if err != nil {
		// An unusable batch surfaces as "not found" in chat; the error still
		// reaches the caller for display outside the transcript.
		return NotFoundReply, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	entries := p.summarizeAll(ctx, records, summarize.RecordContext)
	return formatChatReply(entries), nil
}

// formatChatReply renders one assistant turn: a block per record with title,
// venue, year, PMID, and digest, blocks separated by blank lines.
func formatChatReply(entries []ResultEntry) string {
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, fmt.Sprintf("- **%s**（%s %s）PMID:%s\n  %s",
			e.Record.Title, e.Record.Journal, e.Record.Year, e.Record.PMID, e.Summary))
	}
	return strings.Join(blocks, "\n\n")
}

// transcript is the YAML shape of a saved conversation log.
type transcript struct {
	SessionID string              `yaml:"session_id"`
	Messages  []types.ChatMessage `yaml:"messages"`
}

// SaveTranscript writes the conversation log to path as YAML.
func (s *Session) SaveTranscript(path string) error {
	data, err := yaml.Marshal(transcript{SessionID: s.ID, Messages: s.messages})
	if err != nil {
		return fmt.Errorf("marshaling transcript: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing transcript: %w", err)
	}
	return nil
}

// LoadSession restores a session from a transcript written by SaveTranscript.
func LoadSession(p *Pipeline, path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}
	var t transcript
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing transcript: %w", err)
	}
	if t.SessionID == "" {
		t.SessionID = uuid.NewString()
	}
	return &Session{ID: t.SessionID, pipeline: p, messages: t.Messages}, nil
}
