package llm

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// TopicNamer proposes topic labels for a cluster from its representative
// summaries.
type TopicNamer struct {
	client *Client
}

func NewTopicNamer(client *Client) *TopicNamer {
	return &TopicNamer{client: client}
}

// ProposeTopics sends the summaries (most central first) and returns the
// proposed labels. Zero labels is a valid answer; blank entries are
// filtered at this boundary.
func (n *TopicNamer) ProposeTopics(ctx context.Context, summaries []string) ([]string, error) {
	if len(summaries) == 0 {
		return nil, nil
	}
	var b strings.Builder
	b.WriteString("Song summaries, most central first:\n")
	for i, s := range summaries {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, s)
	}

	var out struct {
		Topics []string `json:"topics"`
	}
	if err := n.client.chatJSON(ctx, proposeTopicsSystemPrompt, b.String(), &out); err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(out.Topics))
	for _, t := range out.Topics {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		labels = append(labels, t)
	}
	return labels, nil
}

// TopicScorer scores a song summary against the frozen taxonomy.
type TopicScorer struct {
	client *Client
}

func NewTopicScorer(client *Client) *TopicScorer {
	return &TopicScorer{client: client}
}

// ScoreSong returns a {0,1,2} strength per topic. Values outside {0,1,2}
// or non-integer scores are rejected here, before they reach the numeric
// core. Topics the model omitted are absent from the map and count as 0.
func (s *TopicScorer) ScoreSong(ctx context.Context, summary string, topics []string) (map[string]int, error) {
	if len(topics) == 0 {
		return map[string]int{}, nil
	}
	var b strings.Builder
	b.WriteString("Topics:\n")
	for _, t := range topics {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	fmt.Fprintf(&b, "\nSong summary:\n\n%s", summary)

	var out struct {
		Scores map[string]float64 `json:"scores"`
	}
	if err := s.client.chatJSON(ctx, scoreSystemPrompt, b.String(), &out); err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		known[t] = struct{}{}
	}
	scores := make(map[string]int, len(out.Scores))
	for topic, raw := range out.Scores {
		topic = strings.TrimSpace(topic)
		if _, ok := known[topic]; !ok {
			continue
		}
		if raw != math.Trunc(raw) || raw < 0 || raw > 2 {
			return nil, fmt.Errorf("score %v for topic %q outside {0,1,2}", raw, topic)
		}
		scores[topic] = int(raw)
	}
	return scores, nil
}
