// Package answer grades free-text responses against the canonical correct
// response for a question. It is pure and stateless: the same pair of
// strings always grades the same way.
package answer

import (
	"regexp"
	"strings"
	"unicode"
)

// Tunable acceptance thresholds. These are heuristics, not contracts; hosts
// can override any individual verdict.
const (
	// SubstringMinRatio gates containment matches so that very short
	// strings cannot match by accident ("a" inside "antarctica").
	SubstringMinRatio = 0.5
	// SubstringConfidence is reported for containment matches.
	SubstringConfidence = 0.8
	// SimilarityThreshold is the minimum edit-distance similarity that
	// counts as correct.
	SimilarityThreshold = 0.85
	// KeywordMinLen is the shortest token considered significant for
	// key-word matching ("abe lincoln" vs "abraham lincoln").
	KeywordMinLen = 4
	// KeywordConfidence is reported for key-word matches.
	KeywordConfidence = 0.8
)

// Result is the verdict for one graded submission. Confidence is populated
// even for incorrect verdicts so hosts can see near-misses.
type Result struct {
	Correct    bool    `json:"correct"`
	Confidence float64 `json:"confidence"`
}

var interrogative = regexp.MustCompile(`^(what|who|where|when|why|how)\s+(is|are|was|were)\s+`)

var leadingArticle = regexp.MustCompile(`^(a|an|the)\s+`)

// Normalize lowercases, strips a leading interrogative clause and article,
// drops every non-alphanumeric rune, and collapses whitespace.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = interrogative.ReplaceAllString(s, "")
	s = leadingArticle.ReplaceAllString(s, "")

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Check grades a player's free-text answer against the correct response.
// Match rules, in order: exact normalized equality, substring containment
// in either direction (length-gated), edit-distance similarity, and finally
// significant-token overlap for partial names.
func Check(given, correct string) Result {
	g := Normalize(given)
	c := Normalize(correct)

	if g == "" || c == "" {
		return Result{}
	}

	if g == c {
		return Result{Correct: true, Confidence: 1.0}
	}

	shorter, longer := g, c
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		if float64(len(shorter))/float64(len(longer)) >= SubstringMinRatio {
			return Result{Correct: true, Confidence: SubstringConfidence}
		}
	}

	sim := similarity(g, c)
	if sim >= SimilarityThreshold {
		return Result{Correct: true, Confidence: sim}
	}

	if keywordMatch(g, c) {
		return Result{Correct: true, Confidence: KeywordConfidence}
	}

	return Result{Correct: false, Confidence: sim}
}

// keywordMatch reports whether any significant token of the correct answer
// appears in the guess, exactly or within the similarity threshold.
func keywordMatch(given, correct string) bool {
	guessTokens := strings.Fields(given)
	for _, ct := range strings.Fields(correct) {
		if len(ct) < KeywordMinLen {
			continue
		}
		for _, gt := range guessTokens {
			if len(gt) < KeywordMinLen {
				continue
			}
			if gt == ct || similarity(gt, ct) >= SimilarityThreshold {
				return true
			}
		}
	}
	return false
}

// similarity is 1 - levenshtein(a,b)/max(len(a),len(b)).
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein computes edit distance with the standard two-row dynamic
// programming recurrence.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
