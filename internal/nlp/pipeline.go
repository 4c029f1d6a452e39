package nlp

import (
	"sort"
	"strings"

	"trendradar/pkg/logger"

	"github.com/yanyiwu/gojieba"
)

// Pipeline wraps gojieba with the spec's cleaning, tokenization, and
// fusion contract. It owns the underlying CGO segmenter and must be
// closed via Close when no longer needed.
type Pipeline struct {
	jieba *gojieba.Jieba
	log   *logger.Logger
}

// New constructs a Pipeline, initializing gojieba's default dictionary
// and registering the custom domain lexicon.
func New() *Pipeline {
	p := &Pipeline{
		jieba: gojieba.NewJieba(),
		log:   logger.Get().WithField("component", "nlp"),
	}
	p.RegisterLexicon()
	return p
}

// Close releases the underlying CGO segmenter resources.
func (p *Pipeline) Close() {
	p.jieba.Free()
}

// Tokenize segments text in precise mode, dropping tokens shorter than
// minLen, stopwords, and purely numeric tokens.
func (p *Pipeline) Tokenize(text string, minLen int) []string {
	words := p.jieba.Cut(text, true)

	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if len([]rune(w)) < minLen {
			continue
		}
		if IsStopword(w) {
			continue
		}
		if isNumeric(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// IsStopword satisfies the heat.Tokenizer contract.
func (p *Pipeline) IsStopword(word string) bool {
	return IsStopword(word)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			if !(r == '.' || r == '%') {
				return false
			}
		}
	}
	return true
}

// WeightedWord is a (word, weight) pair returned by TF-IDF/TextRank
// extraction.
type WeightedWord struct {
	Word   string
	Weight float64
}

// ExtractTFIDF returns the top-k words by TF-IDF weight, filtered
// against the stopword set and a minimum length of 2.
func (p *Pipeline) ExtractTFIDF(text string, k int) []WeightedWord {
	return p.filterWeighted(p.jieba.ExtractWithWeight(text, k*3), k)
}

// ExtractTextRank returns the top-k words by TextRank weight, filtered
// the same way as ExtractTFIDF.
func (p *Pipeline) ExtractTextRank(text string, k int) []WeightedWord {
	return p.filterWeighted(p.jieba.TextRankWithWeight(text, k*3), k)
}

func (p *Pipeline) filterWeighted(raw []gojieba.WordWeight, k int) []WeightedWord {
	out := make([]WeightedWord, 0, k)
	for _, ww := range raw {
		w := strings.TrimSpace(ww.Word)
		if len([]rune(w)) < 2 || IsStopword(w) {
			continue
		}
		out = append(out, WeightedWord{Word: w, Weight: ww.Weight})
		if len(out) == k {
			break
		}
	}
	return out
}

// BatchExtract concatenates cleaned texts, computes TF-IDF and
// TextRank each at 2k, fuses score(w) = tfidf(w) + textrank(w)
// (x1.5 when w appears in both), and returns the top-k by fused score.
func (p *Pipeline) BatchExtract(texts []string, k int) []WeightedWord {
	cleaned := make([]string, len(texts))
	for i, t := range texts {
		cleaned[i] = Clean(t)
	}
	joined := strings.Join(cleaned, " ")

	tfidf := p.ExtractTFIDF(joined, 2*k)
	textrank := p.ExtractTextRank(joined, 2*k)

	tfidfScore := make(map[string]float64, len(tfidf))
	for _, ww := range tfidf {
		tfidfScore[ww.Word] = ww.Weight
	}
	trScore := make(map[string]float64, len(textrank))
	for _, ww := range textrank {
		trScore[ww.Word] = ww.Weight
	}

	seen := make(map[string]bool)
	fused := make([]WeightedWord, 0, len(tfidfScore)+len(trScore))
	addFused := func(word string) {
		if seen[word] {
			return
		}
		seen[word] = true
		t, inTFIDF := tfidfScore[word]
		r, inTextRank := trScore[word]
		score := t + r
		if inTFIDF && inTextRank {
			score *= 1.5
		}
		fused = append(fused, WeightedWord{Word: word, Weight: score})
	}

	for _, ww := range tfidf {
		addFused(ww.Word)
	}
	for _, ww := range textrank {
		addFused(ww.Word)
	}

	sort.Slice(fused, func(i, j int) bool { return fused[i].Weight > fused[j].Weight })
	if len(fused) > k {
		fused = fused[:k]
	}
	return fused
}
