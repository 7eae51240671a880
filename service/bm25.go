package service

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"nyayguru-backend/models"
)

// BM25 parameters.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

var stopWords = map[string]struct{}{
	"what": {}, "is": {}, "the": {}, "a": {}, "an": {}, "and": {}, "or": {},
	"for": {}, "with": {}, "about": {}, "to": {}, "at": {}, "by": {},
	"from": {}, "on": {}, "in": {}, "of": {}, "as": {}, "how": {},
	"can": {}, "their": {}, "them": {}, "they": {}, "who": {}, "which": {},
	"where": {}, "when": {}, "why": {},
	"क्या": {}, "है": {}, "का": {}, "की": {}, "के": {}, "में": {},
	"और": {}, "या": {}, "एक": {}, "से": {}, "पर": {}, "को": {},
	"भी": {}, "ही": {}, "था": {}, "थी": {}, "थे": {},
}

var nonWordRe = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s]`)

// tokenize lowercases, strips punctuation, splits on whitespace, and drops
// stop words.
func tokenize(text string) []string {
	cleaned := nonWordRe.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

type bm25Doc struct {
	chunk  models.LegalChunk
	freqs  map[string]int
	length int
}

// BM25Index is an in-memory sparse index over the chunk corpus. It is built
// once at startup and read-only afterwards, so lookups need no locking.
type BM25Index struct {
	docs      []bm25Doc
	docFreqs  map[string]int
	avgLength float64
}

// NewBM25Index builds an index over the given chunks.
func NewBM25Index(chunks []models.LegalChunk) *BM25Index {
	idx := &BM25Index{
		docFreqs: make(map[string]int),
	}
	totalLength := 0
	for _, c := range chunks {
		tokens := tokenize(c.Content)
		freqs := make(map[string]int, len(tokens))
		for _, t := range tokens {
			freqs[t]++
		}
		for t := range freqs {
			idx.docFreqs[t]++
		}
		idx.docs = append(idx.docs, bm25Doc{chunk: c, freqs: freqs, length: len(tokens)})
		totalLength += len(tokens)
	}
	if len(idx.docs) > 0 {
		idx.avgLength = float64(totalLength) / float64(len(idx.docs))
	}
	return idx
}

// Size returns the number of indexed chunks.
func (idx *BM25Index) Size() int {
	return len(idx.docs)
}

// BM25Hit is one scored chunk from a sparse search.
type BM25Hit struct {
	Chunk models.LegalChunk
	Score float64
}

// Search scores all documents against the query and returns up to limit hits
// with positive scores, best first. A nil filter admits every chunk.
func (idx *BM25Index) Search(query string, filter func(models.ChunkMetadata) bool, limit int) []BM25Hit {
	tokens := tokenize(query)
	if len(tokens) == 0 || len(idx.docs) == 0 {
		return nil
	}

	hits := make([]BM25Hit, 0, limit)
	for _, doc := range idx.docs {
		if filter != nil && !filter(doc.chunk.Metadata) {
			continue
		}
		score := idx.scoreDoc(tokens, doc)
		if score > 0 {
			hits = append(hits, BM25Hit{Chunk: doc.chunk, Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func (idx *BM25Index) scoreDoc(tokens []string, doc bm25Doc) float64 {
	score := 0.0
	n := float64(len(idx.docs))
	for _, t := range tokens {
		tf := float64(doc.freqs[t])
		if tf == 0 {
			continue
		}
		df := float64(idx.docFreqs[t])
		idf := logIDF(n, df)
		denom := tf + bm25K1*(1-bm25B+bm25B*float64(doc.length)/idx.avgLength)
		score += idf * tf * (bm25K1 + 1) / denom
	}
	return score
}

// logIDF is the standard BM25 inverse document frequency with the +1 shift
// that keeps it non-negative.
func logIDF(n, df float64) float64 {
	return math.Log((n-df+0.5)/(df+0.5) + 1)
}

// scoreTexts applies BM25 scoring across a tiny ad-hoc corpus. Used by the
// domain classifier, which scores a query against per-domain pseudo-documents
// rather than the chunk index.
func scoreTexts(query string, corpus []string) []float64 {
	queryTokens := tokenize(query)
	scores := make([]float64, len(corpus))
	if len(queryTokens) == 0 {
		return scores
	}

	docs := make([]map[string]int, len(corpus))
	lengths := make([]int, len(corpus))
	docFreqs := make(map[string]int)
	total := 0
	for i, text := range corpus {
		tokens := tokenize(text)
		freqs := make(map[string]int, len(tokens))
		for _, t := range tokens {
			freqs[t]++
		}
		for t := range freqs {
			docFreqs[t]++
		}
		docs[i] = freqs
		lengths[i] = len(tokens)
		total += len(tokens)
	}
	if total == 0 {
		return scores
	}
	avgLength := float64(total) / float64(len(corpus))

	n := float64(len(corpus))
	for i := range corpus {
		for _, t := range queryTokens {
			tf := float64(docs[i][t])
			if tf == 0 {
				continue
			}
			idf := logIDF(n, float64(docFreqs[t]))
			denom := tf + bm25K1*(1-bm25B+bm25B*float64(lengths[i])/avgLength)
			scores[i] += idf * tf * (bm25K1 + 1) / denom
		}
	}
	return scores
}
