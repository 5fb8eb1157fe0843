package lyrictopics

import "encoding/json"

// ClusterLabel identifies the cluster a song belongs to. Real clusters are
// numbered from zero; Noise marks points that could not be density-connected
// to any cluster.
type ClusterLabel int

// Noise is the sentinel label for unclustered points.
const Noise ClusterLabel = -1

// IsNoise reports whether the label is the noise sentinel.
func (l ClusterLabel) IsNoise() bool { return l == Noise }

// Song accumulates per-song state as pipeline stages complete. Each field is
// written by exactly one stage and read-only afterwards.
type Song struct {
	ID        string       `json:"id"`
	Lyrics    string       `json:"lyrics"`
	Summary   string       `json:"summary,omitempty"`
	Embedding []float32    `json:"-"`
	Reduced   []float32    `json:"-"`
	Label     ClusterLabel `json:"cluster"`
	Scores    []int        `json:"scores,omitempty"`
}

// Cluster is one density cluster over the reduced vectors. Members keep the
// original input order of the songs. Representatives are sorted by ascending
// distance to the centroid.
type Cluster struct {
	Label           ClusterLabel `json:"label"`
	Members         []string     `json:"members"`
	Centroid        []float32    `json:"centroid"`
	Representatives []string     `json:"representatives"`
	RawLabels       []string     `json:"rawLabels,omitempty"`
}

// Topic is one canonical entry of the consolidated taxonomy.
type Topic struct {
	Canonical string         `json:"canonical"`
	Variants  []string       `json:"variants"`
	Clusters  []ClusterLabel `json:"clusters"`
}

// ReducerKind selects the dimensionality-reduction algorithm.
type ReducerKind string

const (
	// ReducerPCA projects onto the top principal components.
	ReducerPCA ReducerKind = "pca"
	// ReducerTSNE runs t-SNE on the embedding batch.
	ReducerTSNE ReducerKind = "tsne"
)

// TSNEConfig tunes the t-SNE reducer. Perplexity is clamped to the batch
// size at run time.
type TSNEConfig struct {
	Perplexity    float64 `json:"perplexity"`
	LearningRate  float64 `json:"learningRate"`
	MaxIterations int     `json:"maxIterations"`
}

// LLMConfig configures the external collaborators. EmbedModel identifies the
// single embedding space shared by songs and topic labels within one run.
type LLMConfig struct {
	BaseURL     string  `json:"baseURL"`
	Model       string  `json:"model"`
	EmbedModel  string  `json:"embedModel"`
	Temperature float64 `json:"temperature"`
	Seed        int     `json:"seed"`
	MaxRetries  int     `json:"maxRetries"`
	CacheDir    string  `json:"cacheDir"`
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	ReducedDim                int         `json:"reducedDim"`
	Reducer                   ReducerKind `json:"reducer"`
	TSNE                      TSNEConfig  `json:"tsne"`
	MinClusterSize            int         `json:"minClusterSize"`
	Epsilon                   float64     `json:"epsilon"`
	RepresentativesPerCluster int         `json:"representativesPerCluster"`
	MergeThreshold            float32     `json:"mergeThreshold"`
	Concurrency               int         `json:"concurrency"`
	LLM                       LLMConfig   `json:"llm"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.ReducedDim <= 0 {
		c.ReducedDim = 15
	}
	if c.Reducer == "" {
		c.Reducer = ReducerPCA
	}
	if c.TSNE.Perplexity <= 0 {
		c.TSNE.Perplexity = 30
	}
	if c.TSNE.LearningRate <= 0 {
		c.TSNE.LearningRate = 200
	}
	if c.TSNE.MaxIterations <= 0 {
		c.TSNE.MaxIterations = 300
	}
	if c.MinClusterSize <= 0 {
		c.MinClusterSize = 5
	}
	if c.RepresentativesPerCluster <= 0 {
		c.RepresentativesPerCluster = 5
	}
	if c.MergeThreshold == 0 {
		c.MergeThreshold = 0.85
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.openai.com"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.EmbedModel == "" {
		c.LLM.EmbedModel = "text-embedding-3-small"
	}
	if c.LLM.MaxRetries <= 0 {
		c.LLM.MaxRetries = 3
	}
}
