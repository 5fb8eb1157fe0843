package lyrictopics

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	var want Config
	want.ApplyDefaults()
	assert.Equal(t, want, cfg)
	assert.Equal(t, 15, cfg.ReducedDim)
	assert.Equal(t, 5, cfg.MinClusterSize)
	assert.Equal(t, float32(0.85), cfg.MergeThreshold)
}

func TestSaveLoadConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.json")
	var cfg Config
	cfg.ApplyDefaults()
	cfg.ReducedDim = 8
	cfg.Reducer = ReducerTSNE
	cfg.LLM.Model = "another-model"

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, loaded.ReducedDim)
	assert.Equal(t, ReducerTSNE, loaded.Reducer)
	assert.Equal(t, "another-model", loaded.LLM.Model)
}

func TestConfigCloneIsIndependent(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	clone := cfg.Clone()
	clone.ReducedDim = 99
	clone.LLM.Model = "changed"

	assert.Equal(t, 15, cfg.ReducedDim)
	assert.NotEqual(t, "changed", cfg.LLM.Model)
}

func TestNormalizeTextCollapsesWhitespaceAndWidth(t *testing.T) {
	assert.Equal(t, "hello world", NormalizeText("  hello\n\tworld  "))
	// NFKC folds full-width forms to ASCII.
	assert.Equal(t, "ABC 123", NormalizeText("ＡＢＣ　１２３"))
	assert.Equal(t, "", NormalizeText(" \n\t "))
}

func TestUniqueNormalizedDedupes(t *testing.T) {
	got := uniqueNormalized([]string{"Heartbreak ", "heartbreak", "Heartbreak", "", "  ", "rebellion"})
	assert.Equal(t, []string{"Heartbreak", "heartbreak", "rebellion"}, got)
}
