package dedup

import (
	"sort"
	"strings"
)

// TokenSortRatio computes a [0,100] similarity score between two
// strings that is resilient to token reordering: tokens are sorted
// before comparison, so "doe john" and "john doe" score 100. The score
// is the normalized indel similarity (edit distance with insertions
// and deletions only) of the token-sorted forms. Symmetric; a string
// compared with itself scores 100.
func TokenSortRatio(a, b string) float64 {
	sa := sortTokens(a)
	sb := sortTokens(b)

	if sa == sb {
		return 100
	}

	total := len(sa) + len(sb)
	if total == 0 {
		return 100
	}

	distance := indelDistance(sa, sb)
	return 100 * (1 - float64(distance)/float64(total))
}

func sortTokens(s string) string {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// indelDistance is the edit distance allowing only insertions and
// deletions (a substitution costs 2). Equivalent to
// len(a)+len(b) - 2*LCS(a,b), computed with two rolling rows.
func indelDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1]
			} else {
				deletion := prev[j] + 1
				insertion := curr[j-1] + 1
				if deletion < insertion {
					curr[j] = deletion
				} else {
					curr[j] = insertion
				}
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
