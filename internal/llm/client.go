// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm calls the chat-completions API shared by the translation and
// summarization stages.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ksato/medquery/pkg/types"
)

// Completer abstracts the chat-completions API so tests can supply a mock.
// Implementations return the text of the first completion choice.
type Completer interface {
	Complete(ctx context.Context, messages []types.ChatMessage, temperature float64) (string, error)
}

// chatCompletionsURL is the chat-completions endpoint. Package-level var for
// test substitution.
var chatCompletionsURL = "https://api.openai.com/v1/chat/completions"

// defaultHTTPClient bounds requests when the caller supplies no client. A
// hung completion must not block a pipeline run indefinitely.
var defaultHTTPClient = &http.Client{Timeout: 60 * time.Second}

// Client calls the chat-completions API over HTTP.
type Client struct {
	APIKey string
	Model  string
	HTTP   *http.Client
}

// chatRequest is the request body for the chat-completions API.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// chatMessage is a single role-tagged message in the request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response body from the chat-completions API.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// chatChoice is one completion alternative in the response.
type chatChoice struct {
	Message chatMessage `json:"message"`
}

// Complete sends the messages and returns the first choice's content.
// Non-2xx status, an empty choice list, and empty content are all errors;
// the caller decides what failure kind they amount to.
func (c *Client) Complete(ctx context.Context, messages []types.ChatMessage, temperature float64) (string, error) {
	reqBody := chatRequest{
		Model:       c.Model,
		Temperature: temperature,
	}
	for _, m := range messages {
		reqBody.Messages = append(reqBody.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatCompletionsURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	client := c.HTTP
	if client == nil {
		client = defaultHTTPClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling chat-completions API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat-completions API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding chat-completions response: %w", err)
	}

	if len(cResp.Choices) == 0 {
		return "", fmt.Errorf("chat-completions API returned no choices")
	}
	content := cResp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("chat-completions API returned empty content")
	}
	return content, nil
}
