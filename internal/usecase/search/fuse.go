package search

import (
	"sort"

	"github.com/kailas-cloud/fusegate/internal/domain/search/fused"
	"github.com/kailas-cloud/fusegate/internal/domain/search/hit"
)

// Fuse merges two normalized result sets into one ranking.
//
// Every id returned by either mode takes part; an id missing from one mode
// scores 0 on that side. hybrid = alpha*lexical + (1-alpha)*vector, with alpha
// used as given (values outside [0,1] extrapolate). The lexical payload wins
// when both modes return the id. Ties on hybrid score are broken by id
// ascending so repeated requests produce the same order.
func Fuse(
	lexHits, vecHits []hit.Hit,
	lexNorm, vecNorm map[string]float64,
	alpha float64, k int,
) []fused.Result {
	type entry struct {
		doc    hit.Document
		source fused.Source
	}

	merged := make(map[string]*entry, len(lexHits)+len(vecHits))
	order := make([]string, 0, len(lexHits)+len(vecHits))

	for _, h := range lexHits {
		if _, ok := merged[h.ID]; ok {
			continue
		}
		merged[h.ID] = &entry{doc: h.Document, source: fused.SourceLexical}
		order = append(order, h.ID)
	}
	for _, h := range vecHits {
		if e, ok := merged[h.ID]; ok {
			if e.source == fused.SourceLexical {
				e.source = fused.SourceBoth
			}
			continue
		}
		merged[h.ID] = &entry{doc: h.Document, source: fused.SourceVector}
		order = append(order, h.ID)
	}

	results := make([]fused.Result, 0, len(order))
	for _, id := range order {
		e := merged[id]
		lex, vec := lexNorm[id], vecNorm[id]
		results = append(results, fused.Result{
			ID:           id,
			HybridScore:  alpha*lex + (1-alpha)*vec,
			LexicalScore: lex,
			VectorScore:  vec,
			Document:     e.doc,
			Source:       e.source,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].HybridScore != results[j].HybridScore {
			return results[i].HybridScore > results[j].HybridScore
		}
		return results[i].ID < results[j].ID
	})

	if k >= 0 && len(results) > k {
		results = results[:k]
	}
	return results
}
