// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences translate → search → fetch → summarize for the
// two user-facing flows: one-shot search and chat turns.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/ksato/medquery/internal/translate"
	"github.com/ksato/medquery/pkg/types"
)

// Translator derives a formal PubMed query from natural-language text.
type Translator interface {
	Translate(ctx context.Context, naturalText string) (string, error)
}

// SearchFetcher looks up PMIDs for a query and retrieves their records.
type SearchFetcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]string, error)
	Fetch(ctx context.Context, ids []string) ([]types.Record, error)
}

// Summarizer digests one record's abstract text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Pipeline composes the three stages. It holds no cross-request state;
// chat-session state lives in Session.
type Pipeline struct {
	Translator Translator
	PubMed     SearchFetcher
	Summarizer Summarizer
	Config     types.PipelineConfig
}

// ResultEntry pairs one record with its digest. When the record's
// summarization call failed, Summary is SummaryFailureNotice and SummaryErr
// carries the cause; sibling entries are unaffected.
type ResultEntry struct {
	Record     types.Record
	Summary    string
	SummaryErr error
}

// SearchOutcome is the product of one one-shot run.
type SearchOutcome struct {
	// Query is the formal query the search actually used, derived or
	// user-supplied.
	Query string

	// IDs is the ordered PMID list from search, capped by the request.
	IDs []string

	// Entries holds one element per fetched record, in IDs order.
	Entries []ResultEntry
}

// Empty reports whether the search matched nothing.
func (o SearchOutcome) Empty() bool { return len(o.IDs) == 0 }

// RunSearch executes the one-shot flow. A non-empty queryOverride supersedes
// translation for this run; depending on config it is trusted as-is or
// re-sanitized and rejected when it reduces to nothing. Zero identifiers
// yield an empty outcome without calling fetch. Stage failures abort the run
// wrapped in their kind; per-record summarization failures do not.
func (p *Pipeline) RunSearch(ctx context.Context, naturalText, queryOverride string, maxResults int) (SearchOutcome, error) {
	query, err := p.resolveQuery(ctx, naturalText, queryOverride)
	if err != nil {
		return SearchOutcome{}, err
	}

	ids, err := p.PubMed.Search(ctx, query, maxResults)
	if err != nil {
		return SearchOutcome{}, fmt.Errorf("%w: %w", ErrSearch, err)
	}
	outcome := SearchOutcome{Query: query, IDs: ids}
	if len(ids) == 0 {
		return outcome, nil
	}

	records, err := p.PubMed.Fetch(ctx, ids)
	if err != nil {
		return SearchOutcome{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	outcome.Entries = p.summarizeAll(ctx, records, func(r types.Record) string { return r.Abstract })
	return outcome, nil
}

// resolveQuery picks the formal query for one run: the override when given,
// otherwise a fresh translation.
func (p *Pipeline) resolveQuery(ctx context.Context, naturalText, queryOverride string) (string, error) {
	if queryOverride != "" {
		if p.Config.TrustEditedQuery {
			return queryOverride, nil
		}
		sanitized := translate.Sanitize(queryOverride)
		if sanitized == "" {
			return "", fmt.Errorf("%w: edited query is empty after sanitization", ErrTranslate)
		}
		return sanitized, nil
	}

	query, err := p.Translator.Translate(ctx, naturalText)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranslate, err)
	}
	return query, nil
}

// summarizeAll digests every record through a bounded worker pool. Output
// order matches input order regardless of completion order. A failed call
// degrades only its own entry.
func (p *Pipeline) summarizeAll(ctx context.Context, records []types.Record, contextFn func(types.Record) string) []ResultEntry {
	workers := p.Config.SummaryWorkers
	if workers <= 0 {
		workers = 3
	}
	if workers > len(records) {
		workers = len(records)
	}

	entries := make([]ResultEntry, len(records))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, r := range records {
		wg.Add(1)
		go func(i int, r types.Record) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			summary, err := p.Summarizer.Summarize(ctx, contextFn(r))
			if err != nil {
				entries[i] = ResultEntry{Record: r, Summary: SummaryFailureNotice, SummaryErr: err}
				return
			}
			entries[i] = ResultEntry{Record: r, Summary: summary}
		}(i, r)
	}

	wg.Wait()
	return entries
}
