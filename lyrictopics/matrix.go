package lyrictopics

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// ScoreMatrix holds one {0,1,2} score per (song, topic) pair. Every cell is
// always present; a taxonomy with zero topics is a valid, zero-column
// shape. The matrix is written once by the orchestrator and read-only
// afterwards.
type ScoreMatrix struct {
	SongIDs []string
	Topics  []string

	cells map[string][]int
}

// NewScoreMatrix allocates a zero-filled matrix over the given songs and
// topics.
func NewScoreMatrix(songIDs, topics []string) *ScoreMatrix {
	m := &ScoreMatrix{
		SongIDs: append([]string(nil), songIDs...),
		Topics:  append([]string(nil), topics...),
		cells:   make(map[string][]int, len(songIDs)),
	}
	for _, id := range m.SongIDs {
		m.cells[id] = make([]int, len(m.Topics))
	}
	return m
}

// SetRow stores a song's scores keyed by canonical topic label. Topics
// absent from scores keep 0. Unknown songs, unknown topics and values
// outside {0,1,2} are rejected.
func (m *ScoreMatrix) SetRow(songID string, scores map[string]int) error {
	row, ok := m.cells[songID]
	if !ok {
		return fmt.Errorf("score matrix: unknown song %q", songID)
	}
	for i, topic := range m.Topics {
		v, ok := scores[topic]
		if !ok {
			continue
		}
		if v < 0 || v > 2 {
			return fmt.Errorf("score matrix: score %d for (%s, %s) outside {0,1,2}", v, songID, topic)
		}
		row[i] = v
	}
	for topic := range scores {
		if m.topicIndex(topic) < 0 {
			return fmt.Errorf("score matrix: unknown topic %q for song %q", topic, songID)
		}
	}
	return nil
}

// Get returns the score for a (song, topic) pair.
func (m *ScoreMatrix) Get(songID, topic string) (int, bool) {
	row, ok := m.cells[songID]
	if !ok {
		return 0, false
	}
	i := m.topicIndex(topic)
	if i < 0 {
		return 0, false
	}
	return row[i], true
}

// Row returns a copy of a song's scores in taxonomy order.
func (m *ScoreMatrix) Row(songID string) ([]int, bool) {
	row, ok := m.cells[songID]
	if !ok {
		return nil, false
	}
	return append([]int(nil), row...), true
}

func (m *ScoreMatrix) topicIndex(topic string) int {
	for i, t := range m.Topics {
		if t == topic {
			return i
		}
	}
	return -1
}

// WriteCSV writes the matrix as one header row of topics and one row per
// song.
func (m *ScoreMatrix) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	header := append([]string{"song_id"}, m.Topics...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, id := range m.SongIDs {
		row := make([]string, 0, len(m.Topics)+1)
		row = append(row, id)
		for _, v := range m.cells[id] {
			row = append(row, strconv.Itoa(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
