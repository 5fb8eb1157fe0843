package lyrictopics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseSongFileCSVAutoDetect(t *testing.T) {
	path := writeTempFile(t, "songs.csv",
		"genius_song_id,title,lyrics\n123,Song A,first lyrics\n456,Song B,second lyrics\n")

	songs, err := ParseSongFile(path)
	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, SongInput{ID: "123", Lyrics: "first lyrics"}, songs[0])
	assert.Equal(t, SongInput{ID: "456", Lyrics: "second lyrics"}, songs[1])
}

func TestParseSongFileTSV(t *testing.T) {
	path := writeTempFile(t, "songs.tsv", "id\tlyrics\n1\thello world\n")

	songs, err := ParseSongFile(path)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "hello world", songs[0].Lyrics)
}

func TestParseSongFileExplicitColumns(t *testing.T) {
	path := writeTempFile(t, "songs.csv", "foo,bar\nx1,some words\n")

	songs, err := ParseSongFileWithOptions(path, InputParseOptions{
		IDColumn:     "#0",
		LyricsColumn: "bar",
	})
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, SongInput{ID: "x1", Lyrics: "some words"}, songs[0])
}

func TestParseSongFileMissingColumn(t *testing.T) {
	path := writeTempFile(t, "songs.csv", "foo,bar\nx,y\n")

	_, err := ParseSongFile(path)
	require.Error(t, err)
}

func TestParseSongFileJSON(t *testing.T) {
	path := writeTempFile(t, "songs.json",
		`[{"id":"a","lyrics":"one"},{"id":"b","lyrics":"two"}]`)

	songs, err := ParseSongFile(path)
	require.NoError(t, err)
	assert.Equal(t, []SongInput{{ID: "a", Lyrics: "one"}, {ID: "b", Lyrics: "two"}}, songs)
}

func TestParseSongFileRowNumberFallbackID(t *testing.T) {
	path := writeTempFile(t, "songs.csv", "id,lyrics\n,first\n,second\n")

	songs, err := ParseSongFile(path)
	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, "1", songs[0].ID)
	assert.Equal(t, "2", songs[1].ID)
}

func TestParseSongFileUnsupportedExtension(t *testing.T) {
	path := writeTempFile(t, "songs.parquet", "binary")
	_, err := ParseSongFile(path)
	require.Error(t, err)
}
