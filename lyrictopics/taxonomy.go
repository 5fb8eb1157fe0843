package lyrictopics

import (
	"context"
	"fmt"
	"sort"
)

// labelGroup accumulates near-duplicate labels behind the founding label's
// vector. Matching against the founder (not the running best) keeps the
// merge independent of member arrival details beyond first-seen order.
type labelGroup struct {
	founder  []float32
	variants []string
	clusters map[ClusterLabel]struct{}
}

// ConsolidateTaxonomy merges the raw topic labels proposed across all
// clusters into one canonical global taxonomy. It runs exactly once per
// pipeline run over the complete label set: merge decisions need global
// visibility, a label proposed late can duplicate one proposed early.
//
// Labels are normalized, embedded in the run's shared embedding space and
// greedily merged: a label joins the first group whose founding vector has
// cosine similarity >= threshold, otherwise it founds a new group. The
// canonical label of a group is its shortest variant, ties broken
// lexicographically. Given the same labels and threshold the result is
// identical across runs.
//
// Clusters that proposed no labels are returned as uncovered; that is not
// an error, but callers are told.
func ConsolidateTaxonomy(ctx context.Context, clusters []Cluster, embedder Embedder, threshold float32) ([]Topic, []ClusterLabel, error) {
	type rawLabel struct {
		text    string
		cluster ClusterLabel
	}

	var uncovered []ClusterLabel
	var raw []rawLabel
	for _, c := range clusters {
		cleaned := uniqueNormalized(c.RawLabels)
		if len(cleaned) == 0 {
			uncovered = append(uncovered, c.Label)
			continue
		}
		for _, lab := range cleaned {
			raw = append(raw, rawLabel{text: lab, cluster: c.Label})
		}
	}
	if len(raw) == 0 {
		return nil, uncovered, nil
	}

	// Embed each distinct label once; songs and labels share one space.
	distinct := make([]string, 0, len(raw))
	seen := make(map[string]int)
	for _, r := range raw {
		if _, ok := seen[r.text]; ok {
			continue
		}
		seen[r.text] = len(distinct)
		distinct = append(distinct, r.text)
	}
	vecs, err := embedder.EmbedTexts(ctx, distinct)
	if err != nil {
		return nil, nil, &GenerationError{Stage: "embed labels", Entity: fmt.Sprintf("%d labels", len(distinct)), Err: err}
	}
	if len(vecs) != len(distinct) {
		return nil, nil, &GenerationError{Stage: "embed labels", Entity: fmt.Sprintf("%d labels", len(distinct)),
			Err: fmt.Errorf("got %d vectors for %d labels", len(vecs), len(distinct))}
	}

	var groups []*labelGroup
	assigned := make(map[string]*labelGroup)
	for _, r := range raw {
		if g, ok := assigned[r.text]; ok {
			g.clusters[r.cluster] = struct{}{}
			continue
		}
		vec := vecs[seen[r.text]]
		var target *labelGroup
		for _, g := range groups {
			if cosineSimilarity(vec, g.founder) >= threshold {
				target = g
				break
			}
		}
		if target == nil {
			target = &labelGroup{founder: cloneVector(vec), clusters: make(map[ClusterLabel]struct{})}
			groups = append(groups, target)
		}
		target.variants = append(target.variants, r.text)
		target.clusters[r.cluster] = struct{}{}
		assigned[r.text] = target
	}

	topics := make([]Topic, 0, len(groups))
	for _, g := range groups {
		provenance := make([]ClusterLabel, 0, len(g.clusters))
		for label := range g.clusters {
			provenance = append(provenance, label)
		}
		sort.Slice(provenance, func(i, j int) bool { return provenance[i] < provenance[j] })
		topics = append(topics, Topic{
			Canonical: canonicalLabel(g.variants),
			Variants:  append([]string(nil), g.variants...),
			Clusters:  provenance,
		})
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Canonical < topics[j].Canonical })
	return topics, uncovered, nil
}

// canonicalLabel picks the shortest variant, preferring the
// lexicographically smaller on equal length.
func canonicalLabel(variants []string) string {
	best := variants[0]
	for _, v := range variants[1:] {
		if len(v) < len(best) || (len(v) == len(best) && v < best) {
			best = v
		}
	}
	return best
}
