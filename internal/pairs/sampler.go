package pairs

import (
	"math/rand"

	"termxref/internal/merge"
	"termxref/internal/umls"
)

// Pair is one unordered pair of distinct surface forms sharing a concept.
// Ephemeral: only the representation-learning output consumes it.
type Pair struct {
	CUI   string
	Name1 string
	Name2 string
}

// ConceptNames is the extended, deduplicated name pool for one concept.
type ConceptNames struct {
	CUI   string
	Names []string
}

// BuildPool extends the merged table's per-concept names with every
// general-terminology surface form in an allowed language that shares the
// CUI, deduplicating in insertion order. Only concepts present in the merged
// table get a pool.
func BuildPool(merged []merge.Row, terminology []umls.ConceptRow, languages map[string]bool) []ConceptNames {
	order := make([]string, 0)
	pools := make(map[string]*ConceptNames)
	seen := make(map[string]map[string]bool)

	add := func(cui, name string) {
		if name == "" {
			return
		}
		pool, ok := pools[cui]
		if !ok {
			pool = &ConceptNames{CUI: cui}
			pools[cui] = pool
			seen[cui] = make(map[string]bool)
			order = append(order, cui)
		}
		if seen[cui][name] {
			return
		}
		seen[cui][name] = true
		pool.Names = append(pool.Names, name)
	}

	for _, row := range merged {
		add(row.CUI, row.Name)
	}

	for _, row := range terminology {
		if !languages[row.LAT] {
			continue
		}
		if _, ok := pools[row.CUI]; !ok {
			continue
		}
		add(row.CUI, row.STR)
	}

	out := make([]ConceptNames, 0, len(order))
	for _, cui := range order {
		out = append(out, *pools[cui])
	}
	return out
}

// Sampler enumerates unordered name pairs per concept and caps the count.
// The random source is injected so runs are reproducible.
type Sampler struct {
	cap int
	rng *rand.Rand
}

func NewSampler(cap int, seed int64) *Sampler {
	return &Sampler{cap: cap, rng: rand.New(rand.NewSource(seed))}
}

// Sample emits every unordered 2-combination of each concept's name list, in
// list order. When a concept's combination count exceeds the cap, it
// uniformly samples cap pairs without replacement instead. Concepts with
// fewer than two names yield nothing.
func (s *Sampler) Sample(pool []ConceptNames) []Pair {
	var out []Pair
	for _, concept := range pool {
		out = append(out, s.sampleConcept(concept)...)
	}
	return out
}

func (s *Sampler) sampleConcept(concept ConceptNames) []Pair {
	n := len(concept.Names)
	if n < 2 {
		return nil
	}

	total := n * (n - 1) / 2
	if total <= s.cap {
		pairs := make([]Pair, 0, total)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				pairs = append(pairs, Pair{CUI: concept.CUI, Name1: concept.Names[i], Name2: concept.Names[j]})
			}
		}
		return pairs
	}

	// Sample distinct combination indices instead of materializing the full
	// quadratic pair list.
	chosen := make(map[int]bool, s.cap)
	pairs := make([]Pair, 0, s.cap)
	for len(pairs) < s.cap {
		k := s.rng.Intn(total)
		if chosen[k] {
			continue
		}
		chosen[k] = true
		i, j := unrank(k, n)
		pairs = append(pairs, Pair{CUI: concept.CUI, Name1: concept.Names[i], Name2: concept.Names[j]})
	}
	return pairs
}

// unrank converts a combination index in [0, C(n,2)) to the (i, j) pair it
// denotes, walking pairs in the same order the exhaustive enumeration uses.
func unrank(k, n int) (int, int) {
	for i := 0; i < n-1; i++ {
		rowLen := n - 1 - i
		if k < rowLen {
			return i, i + 1 + k
		}
		k -= rowLen
	}
	// Unreachable for k within range.
	return n - 2, n - 1
}
