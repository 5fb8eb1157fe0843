package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Summarizer produces short factual lyric summaries via the chat endpoint.
type Summarizer struct {
	client *Client
}

func NewSummarizer(client *Client) *Summarizer {
	return &Summarizer{client: client}
}

// Summarize returns a ~4 sentence factual summary of the lyrics.
func (s *Summarizer) Summarize(ctx context.Context, lyrics string) (string, error) {
	var out struct {
		Summary string `json:"summary"`
	}
	user := fmt.Sprintf("Lyrics:\n\n%s", lyrics)
	if err := s.client.chatJSON(ctx, summarizeSystemPrompt, user, &out); err != nil {
		return "", err
	}
	summary := strings.TrimSpace(out.Summary)
	if summary == "" {
		return "", errors.New("collaborator returned a blank summary")
	}
	return summary, nil
}
