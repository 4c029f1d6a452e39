package nlp

import (
	"math"
	"sort"
)

// NewWordCandidate is a discovered multi-character word with its
// observed frequency and PMI score.
type NewWordCandidate struct {
	Word      string
	Frequency int
	PMI       float64
}

// DiscoverNewWords counts character n-grams of length 2..maxLen over
// the CJK-only character streams of texts, keeps grams with count >=
// minFreq that the segmenter does not already treat as a single word,
// scores by PMI, keeps those with PMI > 2.0, and returns the top 50 by
// frequency descending.
func (p *Pipeline) DiscoverNewWords(texts []string, minFreq int, maxLen int) []NewWordCandidate {
	charFreq := make(map[rune]int)
	ngramFreq := make(map[string]int)
	totalChars := 0

	for _, text := range texts {
		runes := hanOnlyRunes(text)
		totalChars += len(runes)
		for _, r := range runes {
			charFreq[r]++
		}
		for n := 2; n <= maxLen; n++ {
			for i := 0; i+n <= len(runes); i++ {
				ngramFreq[string(runes[i:i+n])]++
			}
		}
	}

	if totalChars == 0 {
		return nil
	}

	segmentedWords := make(map[string]bool)
	for _, text := range texts {
		for _, w := range p.jieba.Cut(text, true) {
			segmentedWords[w] = true
		}
	}

	var candidates []NewWordCandidate
	for gram, freq := range ngramFreq {
		if freq < minFreq {
			continue
		}
		if segmentedWords[gram] {
			continue
		}

		pmi := pmiOf(gram, freq, charFreq, totalChars)
		if pmi > 2.0 {
			candidates = append(candidates, NewWordCandidate{Word: gram, Frequency: freq, PMI: pmi})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Frequency != candidates[j].Frequency {
			return candidates[i].Frequency > candidates[j].Frequency
		}
		return candidates[i].Word < candidates[j].Word
	})

	if len(candidates) > 50 {
		candidates = candidates[:50]
	}
	return candidates
}

// pmiOf scores gram by log(p_joint / prod(p_char)) + epsilon.
func pmiOf(gram string, freq int, charFreq map[rune]int, totalChars int) float64 {
	const epsilon = 1e-9

	pJoint := float64(freq) / float64(totalChars)

	prodPChar := 1.0
	for _, r := range gram {
		pChar := float64(charFreq[r]) / float64(totalChars)
		if pChar == 0 {
			pChar = epsilon
		}
		prodPChar *= pChar
	}
	if prodPChar == 0 {
		prodPChar = epsilon
	}

	return math.Log(pJoint/prodPChar) + epsilon
}

func hanOnlyRunes(text string) []rune {
	var out []rune
	for _, r := range text {
		if r >= 0x4E00 && r <= 0x9FFF {
			out = append(out, r)
		}
	}
	return out
}
