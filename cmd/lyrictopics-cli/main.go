package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"musiclab/lyrictopics/internal/logger"
	"musiclab/lyrictopics/llm"
	"musiclab/lyrictopics/lyrictopics"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lyrictopics-cli: %v\n", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "lyrictopics-cli --input FILE [flags]",
		Short:        "Score song lyrics against a discovered topic taxonomy",
		Long:         "Reads (id, lyrics) pairs, summarizes and embeds them through the configured\nlanguage-model collaborators, clusters the embedding space, consolidates the\nproposed topics into one taxonomy and writes a songs × topics score matrix.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd)
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "path to config.json (default: ./config.json)")
	flags.String("input", "", "CSV/TSV/JSON file with song ids and lyrics (required)")
	flags.String("output", "", "CSV file for the score matrix (default: matrix_<timestamp>.csv)")
	flags.String("dump", "", "optional JSON file for clusters, taxonomy and summaries")
	flags.String("id-column", "", "column name or #index holding the song id")
	flags.String("lyrics-column", "", "column name or #index holding the lyrics")
	flags.Int("reduced-dim", 0, "override: target dimensionality of the reduced vectors")
	flags.String("reducer", "", "override: reduction algorithm (pca or tsne)")
	flags.Int("min-cluster-size", 0, "override: minimum cluster size")
	flags.Int("representatives", 0, "override: representatives per cluster")
	flags.Float32("merge-threshold", 0, "override: cosine threshold for taxonomy merging")
	flags.Int("concurrency", 0, "override: concurrent collaborator calls")
	flags.String("log", "dev", "log mode: dev or prod")
	_ = cmd.MarkFlagRequired("input")

	viper.SetEnvPrefix("LYRICTOPICS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(flags)

	return cmd
}

func run(cmd *cobra.Command) error {
	// .env is optional; real environments set the key directly.
	_ = godotenv.Load()

	log, err := logger.New(viper.GetString("log"))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	cfg, err := lyrictopics.LoadConfig(viper.GetString("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg)

	apiKey := os.Getenv("OPENAI_API_KEY")
	client, err := llm.NewClient(cfg.LLM, apiKey, log)
	if err != nil {
		return fmt.Errorf("init llm client: %w", err)
	}
	embedder, err := llm.NewEmbedder(client, cfg.LLM.CacheDir)
	if err != nil {
		return fmt.Errorf("init embedder: %w", err)
	}

	service, err := lyrictopics.NewService(
		llm.NewSummarizer(client),
		embedder,
		llm.NewTopicNamer(client),
		llm.NewTopicScorer(client),
		cfg,
		log,
	)
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}

	songs, err := lyrictopics.ParseSongFileWithOptions(viper.GetString("input"), lyrictopics.InputParseOptions{
		IDColumn:     viper.GetString("id-column"),
		LyricsColumn: viper.GetString("lyrics-column"),
	})
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if len(songs) == 0 {
		return errors.New("input file does not contain any songs")
	}
	log.Info("input loaded", "songs", len(songs))

	result, err := service.Run(cmd.Context(), songs)
	var emptyErr *lyrictopics.EmptyTaxonomyError
	if err != nil && !errors.As(err, &emptyErr) {
		return err
	}
	if emptyErr != nil {
		log.Warn("degenerate run", "reason", emptyErr.Error())
	}

	outputPath := viper.GetString("output")
	if outputPath == "" {
		outputPath = fmt.Sprintf("matrix_%s.csv", time.Now().Format("20060102_150405"))
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := result.Matrix.WriteCSV(outputPath); err != nil {
		return fmt.Errorf("write matrix: %w", err)
	}
	log.Info("matrix written", "path", outputPath, "songs", len(result.Matrix.SongIDs), "topics", len(result.Matrix.Topics))

	if dumpPath := viper.GetString("dump"); dumpPath != "" {
		if err := writeDump(dumpPath, result); err != nil {
			return fmt.Errorf("write dump: %w", err)
		}
		log.Info("inspection dump written", "path", dumpPath)
	}
	return nil
}

func applyOverrides(cfg *lyrictopics.Config) {
	if v := viper.GetInt("reduced-dim"); v > 0 {
		cfg.ReducedDim = v
	}
	if v := viper.GetString("reducer"); v != "" {
		cfg.Reducer = lyrictopics.ReducerKind(v)
	}
	if v := viper.GetInt("min-cluster-size"); v > 0 {
		cfg.MinClusterSize = v
	}
	if v := viper.GetInt("representatives"); v > 0 {
		cfg.RepresentativesPerCluster = v
	}
	if v := viper.GetFloat64("merge-threshold"); v > 0 {
		cfg.MergeThreshold = float32(v)
	}
	if v := viper.GetInt("concurrency"); v > 0 {
		cfg.Concurrency = v
	}
}

func writeDump(path string, result *lyrictopics.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
