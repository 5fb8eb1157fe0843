package lyrictopics

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// InputParseOptions lets callers pin which columns hold the song id and the
// lyrics. A value of the form "#N" addresses a column by zero-based index.
// Empty values fall back to header auto-detection.
type InputParseOptions struct {
	IDColumn     string
	LyricsColumn string
}

var (
	idColumnCandidates     = []string{"id", "song_id", "genius_song_id", "track_id", "index", "no"}
	lyricsColumnCandidates = []string{"lyrics", "lyric", "text", "body", "content"}
)

// ParseSongFile reads (id, lyrics) pairs from a CSV, TSV or JSON file,
// chosen by extension.
func ParseSongFile(path string) ([]SongInput, error) {
	return ParseSongFileWithOptions(path, InputParseOptions{})
}

// ParseSongFileWithOptions is ParseSongFile with explicit column mappings
// for delimited files.
func ParseSongFileWithOptions(path string, opts InputParseOptions) ([]SongInput, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseDelimitedSongs(path, ',', opts)
	case ".tsv":
		return parseDelimitedSongs(path, '\t', opts)
	case ".json":
		return parseJSONSongs(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q (want .csv, .tsv or .json)", filepath.Ext(path))
	}
}

func parseJSONSongs(path string) ([]SongInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	var songs []SongInput
	if err := json.Unmarshal(data, &songs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return songs, nil
}

func parseDelimitedSongs(path string, comma rune, opts InputParseOptions) ([]SongInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, errors.New("empty input file")
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
	}

	idCol, err := resolveColumn(header, opts.IDColumn, idColumnCandidates)
	if err != nil {
		return nil, fmt.Errorf("id column: %w", err)
	}
	lyricsCol, err := resolveColumn(header, opts.LyricsColumn, lyricsColumnCandidates)
	if err != nil {
		return nil, fmt.Errorf("lyrics column: %w", err)
	}

	songs := make([]SongInput, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if idCol >= len(row) || lyricsCol >= len(row) {
			continue
		}
		id := strings.TrimSpace(row[idCol])
		if id == "" {
			// Fall back to the row number so files without ids still work.
			id = strconv.Itoa(i + 1)
		}
		songs = append(songs, SongInput{ID: id, Lyrics: row[lyricsCol]})
	}
	return songs, nil
}

// resolveColumn maps a user selection or a candidate list onto a header
// index. Selections of the form "#N" address columns positionally.
func resolveColumn(header []string, selection string, candidates []string) (int, error) {
	selection = strings.TrimSpace(selection)
	if strings.HasPrefix(selection, "#") {
		idx, err := strconv.Atoi(selection[1:])
		if err != nil || idx < 0 || idx >= len(header) {
			return 0, fmt.Errorf("invalid column selector %q", selection)
		}
		return idx, nil
	}
	if selection != "" {
		for i, h := range header {
			if strings.EqualFold(h, selection) {
				return i, nil
			}
		}
		return 0, fmt.Errorf("column %q not found", selection)
	}
	for _, cand := range candidates {
		for i, h := range header {
			if strings.EqualFold(h, cand) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("no matching column among %v", candidates)
}
