package classifier

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Process normalizes text before scoring: NFC, case folded, every rune that is
// not a letter, mark or number replaced by a space, whitespace collapsed.
func Process(s string) string {
	s = folder.String(norm.NFC.String(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// Ratio is the edit-distance similarity of two strings on a 0-100 scale.
func Ratio(a, b string) int {
	return int(math.Round(ratio(a, b)))
}

func ratio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	longest := max(la, lb)
	dist := levenshtein.ComputeDistance(a, b)
	return 100 * float64(longest-dist) / float64(longest)
}

// PartialRatio scores the shorter string against every window of the same
// length in the longer one and keeps the best.
func PartialRatio(a, b string) int {
	return int(math.Round(partialRatio(a, b)))
}

func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		r := ratio(s, string(long[i:i+len(short)]))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSort(a, b string, partial bool) float64 {
	sa, sb := sortedTokens(a), sortedTokens(b)
	if partial {
		return partialRatio(sa, sb)
	}
	return ratio(sa, sb)
}

func tokenSet(a, b string, partial bool) float64 {
	setA := tokenSetOf(a)
	setB := tokenSetOf(b)

	var inter, onlyA, onlyB []string
	for t := range setA {
		if setB[t] {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if !setA[t] {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(inter)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(inter, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	score := ratio
	if partial {
		score = partialRatio
	}

	return max(score(sect, combinedA), score(sect, combinedB), score(combinedA, combinedB))
}

func tokenSetOf(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(s) {
		set[t] = true
	}
	return set
}

// WeightedRatio combines the plain, partial and token based ratios the way
// fuzzywuzzy's WRatio does. Inputs are processed first; empty input scores 0.
func WeightedRatio(a, b string) int {
	pa, pb := Process(a), Process(b)
	if pa == "" || pb == "" {
		return 0
	}

	const unbaseScale = 0.95

	base := ratio(pa, pb)

	la, lb := float64(len([]rune(pa))), float64(len([]rune(pb)))
	lenRatio := max(la, lb) / min(la, lb)

	if lenRatio < 1.5 {
		tsor := tokenSort(pa, pb, false) * unbaseScale
		tser := tokenSet(pa, pb, false) * unbaseScale
		return int(math.Round(max(base, tsor, tser)))
	}

	partialScale := 0.9
	if lenRatio > 8 {
		partialScale = 0.6
	}

	partial := partialRatio(pa, pb) * partialScale
	ptsor := tokenSort(pa, pb, true) * unbaseScale * partialScale
	ptser := tokenSet(pa, pb, true) * unbaseScale * partialScale
	return int(math.Round(max(base, partial, ptsor, ptser)))
}
