// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import "errors"

// Stage-level error kinds. Each aborting failure wraps exactly one of these
// so surfaces can pick a message appropriate to the stage with errors.Is.
// Per-record summarization failures never abort and carry no kind; they
// degrade the affected record to SummaryFailureNotice.
var (
	// ErrTranslate covers model failures and unusable output while deriving
	// the formal query, and a user-edited query rejected by validation.
	ErrTranslate = errors.New("query translation failed")

	// ErrSearch covers network and HTTP failures from esearch.
	ErrSearch = errors.New("pubmed search failed")

	// ErrFetch covers network, HTTP, and parse failures from efetch.
	ErrFetch = errors.New("record fetch failed")
)

// User-visible notices. Zero results is a first-class outcome with its own
// wording, distinct from any failure message.
const (
	// EmptyResultNotice is shown by the one-shot flow when search returns
	// no identifiers.
	EmptyResultNotice = "該当なしでした。検索式を少し簡単にして再実行してみてください。"

	// NotFoundReply is the assistant turn appended when a chat turn finds
	// no records.
	NotFoundReply = "文献が見つかりませんでした。検索式を少し緩めてみてください。"

	// SummaryFailureNotice replaces the digest of a record whose
	// summarization call failed; sibling records are unaffected.
	SummaryFailureNotice = "（要約の生成に失敗しました）"

	// TranslateFailedReply and SearchFailedReply close out a chat turn
	// whose pipeline aborted at the corresponding stage.
	TranslateFailedReply = "検索式の生成に失敗しました。もう一度お試しください。"
	SearchFailedReply    = "PubMed検索に失敗しました。もう一度お試しください。"
)
