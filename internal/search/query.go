package search

import "sort"

// Result is one search hit.
type Result struct {
	ID    string `json:"id"`
	Route string `json:"route"`
	Title string `json:"title"`
	Score int    `json:"score"`
}

// Search returns the documents containing every query term, best first.
// Scores are summed term frequencies; ties break on id. limit <= 0 means no
// limit.
func (idx *Index) Search(query string, tok Tokenizer, limit int) []Result {
	terms := unique(tok.Tokens(query))
	if len(terms) == 0 {
		return nil
	}

	// Bloom filters rule out most documents before postings are consulted.
	candidate := make([]bool, len(idx.Docs))
	for i, d := range idx.Docs {
		candidate[i] = d.mayContain(terms)
	}
	scores := map[int]int{}
	matched := map[int]int{}
	for _, term := range terms {
		for _, p := range idx.Terms[term] {
			if !candidate[p.Doc] {
				continue
			}
			scores[p.Doc] += p.Freq
			matched[p.Doc]++
		}
	}

	out := make([]Result, 0, len(scores))
	for doc, s := range scores {
		if matched[doc] != len(terms) {
			continue
		}
		d := idx.Docs[doc]
		out = append(out, Result{ID: d.ID, Route: d.Route, Title: d.Title, Score: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (e *Entry) mayContain(terms []string) bool {
	if e.Bloom == nil {
		return true
	}
	for _, t := range terms {
		if !e.Bloom.TestString(t) {
			return false
		}
	}
	return true
}

func unique(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := terms[:0]
	for _, t := range terms {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
