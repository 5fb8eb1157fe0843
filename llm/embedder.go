package llm

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Embedder calls the embeddings endpoint with a two-level cache: an
// in-memory TTL cache and an optional binary disk cache keyed by
// sha1(model|text), so repeated runs over the same catalog do not re-embed
// unchanged summaries. Vectors are cloned on the way out; cached entries
// are never aliased.
type Embedder struct {
	client *Client
	mem    *gocache.Cache
	dir    string
}

// NewEmbedder wraps the client. cacheDir may be empty to disable the disk
// layer.
func NewEmbedder(client *Client, cacheDir string) (*Embedder, error) {
	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	return &Embedder{
		client: client,
		mem:    gocache.New(24*time.Hour, time.Hour),
		dir:    cacheDir,
	}, nil
}

// ModelID returns the embedding model identifier used for cache keys and
// carried on run results.
func (e *Embedder) ModelID() string { return e.client.EmbedModelID() }

// EmbedTexts embeds a batch of texts, serving cached entries and sending
// only the misses to the API in a single request.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	for i, t := range texts {
		key := cacheKey(t, e.ModelID())
		if vec, ok := e.lookup(key); ok {
			out[i] = vec
			continue
		}
		missing = append(missing, t)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	vecs, err := e.client.embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missing) {
		return nil, fmt.Errorf("embed: got %d vectors for %d texts", len(vecs), len(missing))
	}
	for j, vec := range vecs {
		i := missingIdx[j]
		out[i] = vec
		e.store(cacheKey(texts[i], e.ModelID()), vec)
	}
	return out, nil
}

func (e *Embedder) lookup(key string) ([]float32, bool) {
	if v, ok := e.mem.Get(key); ok {
		return cloneVec(v.([]float32)), true
	}
	if vec, ok, err := e.loadFromDisk(key); err == nil && ok {
		e.mem.SetDefault(key, cloneVec(vec))
		return vec, true
	}
	return nil, false
}

func (e *Embedder) store(key string, vec []float32) {
	e.mem.SetDefault(key, cloneVec(vec))
	_ = e.saveToDisk(key, vec)
}

func (e *Embedder) loadFromDisk(key string) ([]float32, bool, error) {
	if e.dir == "" {
		return nil, false, nil
	}
	path := filepath.Join(e.dir, key+".bin")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(data) < 4 {
		return nil, false, fmt.Errorf("cache file broken: %s", path)
	}
	length := binary.LittleEndian.Uint32(data[:4])
	need := int(length) * 4
	if len(data) < 4+need {
		return nil, false, fmt.Errorf("cache truncated: %s", path)
	}
	vec := make([]float32, int(length))
	if err := binary.Read(bytes.NewReader(data[4:4+need]), binary.LittleEndian, vec); err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

func (e *Embedder) saveToDisk(key string, vec []float32) error {
	if e.dir == "" {
		return nil
	}
	path := filepath.Join(e.dir, key+".bin")
	buf := &bytes.Buffer{}
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(vec)))
	if err := binary.Write(buf, binary.LittleEndian, vec); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func cacheKey(text, model string) string {
	h := sha1.Sum([]byte(model + "|" + text))
	return hex.EncodeToString(h[:])
}

func cloneVec(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}

func l2Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return v
	}
	scale := float32(1 / norm)
	for i := range v {
		v[i] *= scale
	}
	return v
}
