package lyrictopics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"musiclab/lyrictopics/internal/logger"
)

// Summarizer turns raw lyrics into a short factual summary.
type Summarizer interface {
	Summarize(ctx context.Context, lyrics string) (string, error)
}

// Embedder maps texts to fixed-length vectors. One model serves all songs
// and all topic labels within a run; mixing embedding spaces corrupts every
// distance downstream.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	ModelID() string
}

// TopicNamer proposes topic labels for a cluster given its representative
// summaries, closest to the centroid first. May return zero labels.
type TopicNamer interface {
	ProposeTopics(ctx context.Context, summaries []string) ([]string, error)
}

// TopicScorer scores one song summary against the frozen taxonomy,
// returning a {0,1,2} strength per canonical topic.
type TopicScorer interface {
	ScoreSong(ctx context.Context, summary string, topics []string) (map[string]int, error)
}

// SongInput is one (id, lyrics) pair handed to the pipeline.
type SongInput struct {
	ID     string `json:"id"`
	Lyrics string `json:"lyrics"`
}

// Result bundles the final matrix with the intermediate structures for
// inspection.
type Result struct {
	RunID             string         `json:"runId"`
	EmbedModel        string         `json:"embedModel"`
	Songs             []Song         `json:"songs"`
	Skipped           []string       `json:"skipped,omitempty"`
	Clusters          []Cluster      `json:"clusters"`
	Topics            []Topic        `json:"topics"`
	UncoveredClusters []ClusterLabel `json:"uncoveredClusters,omitempty"`
	Matrix            *ScoreMatrix   `json:"-"`
}

// Service orchestrates the pipeline: per-song summarize+embed fan-out, the
// whole-batch reduce and cluster steps, per-cluster representative
// selection and topic naming, one global consolidation pass, then per-song
// scoring against the frozen taxonomy.
type Service struct {
	summarizer Summarizer
	embedder   Embedder
	namer      TopicNamer
	scorer     TopicScorer

	cfgMu sync.RWMutex
	cfg   Config

	log *logger.Logger
}

// NewService constructs a pipeline service with the given collaborators.
func NewService(summarizer Summarizer, embedder Embedder, namer TopicNamer, scorer TopicScorer, cfg Config, log *logger.Logger) (*Service, error) {
	if summarizer == nil || embedder == nil || namer == nil || scorer == nil {
		return nil, errors.New("all four collaborators are required")
	}
	if log == nil {
		log = logger.Nop()
	}
	cfg.ApplyDefaults()
	return &Service{
		summarizer: summarizer,
		embedder:   embedder,
		namer:      namer,
		scorer:     scorer,
		cfg:        cfg,
		log:        log,
	}, nil
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.Clone()
}

// UpdateConfig replaces the configuration for subsequent runs.
func (s *Service) UpdateConfig(cfg Config) {
	cfg.ApplyDefaults()
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
}

// Lyrics markers that carry no summarizable content. Songs matching one are
// skipped up front rather than fed to the collaborators.
var unusableLyrics = map[string]struct{}{
	"instrumental":         {},
	"lyrics not available": {},
}

// Run executes the full pipeline. It either returns a completely populated
// ScoreMatrix or an error naming the failed stage and entity; it never
// returns a partial matrix silently. The one exception is the degenerate
// all-noise / no-label outcome: Run then returns the valid zero-column
// result together with an EmptyTaxonomyError so callers can detect it.
func (s *Service) Run(ctx context.Context, inputs []SongInput) (*Result, error) {
	cfg := s.Config()
	res := &Result{
		RunID:      uuid.NewString(),
		EmbedModel: s.embedder.ModelID(),
	}
	log := s.log.With("run_id", res.RunID)

	songs, skipped, err := prepareSongs(inputs)
	if err != nil {
		return nil, err
	}
	res.Skipped = skipped
	if len(skipped) > 0 {
		log.Info("skipped songs without usable lyrics", "count", len(skipped))
	}

	// Stage 1: summarize + embed, parallel across songs.
	if err := s.summarizeAndEmbed(ctx, songs, cfg.Concurrency); err != nil {
		return nil, err
	}
	log.Info("summaries and embeddings complete", "songs", len(songs))

	// Stage 2: whole-batch reduction and clustering.
	embeddings := make([][]float32, len(songs))
	for i := range songs {
		embeddings[i] = songs[i].Embedding
	}
	reduced, err := ReduceVectors(embeddings, cfg.ReducedDim, cfg.Reducer, cfg.TSNE)
	if err != nil {
		return nil, fmt.Errorf("reduce embeddings: %w", err)
	}
	labels, err := DensityCluster(reduced, cfg.MinClusterSize, cfg.Epsilon)
	if err != nil {
		return nil, fmt.Errorf("cluster reduced vectors: %w", err)
	}
	for i := range songs {
		songs[i].Reduced = reduced[i]
		songs[i].Label = labels[i]
	}
	res.Songs = songs

	clusters := BuildClusters(songs)
	log.Info("clustering complete", "clusters", len(clusters), "noise", countNoise(labels))

	// Stage 3: representatives and topic naming per cluster.
	reducedByID := make(map[string][]float32, len(songs))
	summaryByID := make(map[string]string, len(songs))
	for i := range songs {
		reducedByID[songs[i].ID] = songs[i].Reduced
		summaryByID[songs[i].ID] = songs[i].Summary
	}
	for i := range clusters {
		SelectRepresentatives(&clusters[i], reducedByID, cfg.RepresentativesPerCluster)
	}
	if err := s.nameClusters(ctx, clusters, summaryByID, cfg.Concurrency); err != nil {
		return nil, err
	}
	res.Clusters = clusters

	songIDs := make([]string, len(songs))
	for i := range songs {
		songIDs[i] = songs[i].ID
	}

	if len(clusters) == 0 {
		res.Matrix = NewScoreMatrix(songIDs, nil)
		log.Warn("every point labeled noise; returning empty taxonomy")
		return res, &EmptyTaxonomyError{Reason: "no clusters survived density clustering"}
	}

	// Stage 4: one global consolidation pass over all proposed labels.
	topics, uncovered, err := ConsolidateTaxonomy(ctx, clusters, s.embedder, cfg.MergeThreshold)
	if err != nil {
		return nil, err
	}
	res.Topics = topics
	res.UncoveredClusters = uncovered
	if len(uncovered) > 0 {
		log.Warn("clusters without topic coverage", "clusters", len(uncovered))
	}
	if len(topics) == 0 {
		res.Matrix = NewScoreMatrix(songIDs, nil)
		log.Warn("no labels proposed by any cluster; returning empty taxonomy")
		return res, &EmptyTaxonomyError{Reason: "no labels proposed by any cluster"}
	}
	log.Info("taxonomy frozen", "topics", len(topics))

	// Stage 5: score every song against the frozen taxonomy.
	matrix, err := s.scoreSongs(ctx, songs, topics, songIDs, cfg.Concurrency)
	if err != nil {
		return nil, err
	}
	res.Matrix = matrix
	for i := range songs {
		row, _ := matrix.Row(songs[i].ID)
		songs[i].Scores = row
	}
	log.Info("run complete", "songs", len(songs), "topics", len(topics))
	return res, nil
}

func prepareSongs(inputs []SongInput) ([]Song, []string, error) {
	if len(inputs) == 0 {
		return nil, nil, errors.New("no songs to process")
	}
	seen := make(map[string]struct{}, len(inputs))
	songs := make([]Song, 0, len(inputs))
	var skipped []string
	for _, in := range inputs {
		id := strings.TrimSpace(in.ID)
		if id == "" {
			return nil, nil, errors.New("song with empty id")
		}
		if _, ok := seen[id]; ok {
			return nil, nil, fmt.Errorf("duplicate song id %q", id)
		}
		seen[id] = struct{}{}
		lyrics := strings.TrimSpace(in.Lyrics)
		if _, unusable := unusableLyrics[strings.ToLower(lyrics)]; unusable || lyrics == "" {
			skipped = append(skipped, id)
			continue
		}
		songs = append(songs, Song{ID: id, Lyrics: lyrics, Label: Noise})
	}
	if len(songs) == 0 {
		return nil, nil, errors.New("no songs with usable lyrics")
	}
	return songs, skipped, nil
}

func (s *Service) summarizeAndEmbed(ctx context.Context, songs []Song, concurrency int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range songs {
		i := i
		g.Go(func() error {
			song := &songs[i]
			summary, err := s.summarizer.Summarize(gctx, song.Lyrics)
			if err != nil {
				return &GenerationError{Stage: "summarize", Entity: song.ID, Err: err}
			}
			summary = NormalizeText(summary)
			if summary == "" {
				return &GenerationError{Stage: "summarize", Entity: song.ID, Err: errors.New("blank summary")}
			}
			song.Summary = summary
			vecs, err := s.embedder.EmbedTexts(gctx, []string{summary})
			if err != nil {
				return &GenerationError{Stage: "embed", Entity: song.ID, Err: err}
			}
			if len(vecs) != 1 || len(vecs[0]) == 0 {
				return &GenerationError{Stage: "embed", Entity: song.ID, Err: errors.New("empty embedding")}
			}
			song.Embedding = vecs[0]
			return nil
		})
	}
	return g.Wait()
}

func (s *Service) nameClusters(ctx context.Context, clusters []Cluster, summaryByID map[string]string, concurrency int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range clusters {
		i := i
		g.Go(func() error {
			c := &clusters[i]
			summaries := make([]string, 0, len(c.Representatives))
			for _, id := range c.Representatives {
				summaries = append(summaries, summaryByID[id])
			}
			labels, err := s.namer.ProposeTopics(gctx, summaries)
			if err != nil {
				return &GenerationError{Stage: "name topics", Entity: fmt.Sprintf("cluster %d", c.Label), Err: err}
			}
			c.RawLabels = uniqueNormalized(labels)
			return nil
		})
	}
	return g.Wait()
}

func (s *Service) scoreSongs(ctx context.Context, songs []Song, topics []Topic, songIDs []string, concurrency int) (*ScoreMatrix, error) {
	canonical := make([]string, len(topics))
	for i, t := range topics {
		canonical[i] = t.Canonical
	}
	matrix := NewScoreMatrix(songIDs, canonical)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range songs {
		i := i
		g.Go(func() error {
			song := &songs[i]
			scores, err := s.scorer.ScoreSong(gctx, song.Summary, canonical)
			if err != nil {
				return &GenerationError{Stage: "score", Entity: song.ID, Err: err}
			}
			mu.Lock()
			defer mu.Unlock()
			if err := matrix.SetRow(song.ID, scores); err != nil {
				return &GenerationError{Stage: "score", Entity: song.ID, Err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return matrix, nil
}

func countNoise(labels []ClusterLabel) int {
	n := 0
	for _, l := range labels {
		if l.IsNoise() {
			n++
		}
	}
	return n
}
