package fuzzy

// substringDistance returns the minimum edit distance between pattern and any substring of text.
// Matches may start and end anywhere in text.
func substringDistance(pattern, text []rune) int {
	m := len(pattern)
	if m == 0 {
		return 0
	}

	col := make([]int, m+1)
	for i := range col {
		col[i] = i
	}
	best := col[m]

	for j := 1; j <= len(text); j++ {
		diag := col[0]
		col[0] = 0
		for i := 1; i <= m; i++ {
			left := col[i]
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			col[i] = min(left+1, col[i-1]+1, diag+cost)
			diag = left
		}
		best = min(best, col[m])
	}

	return best
}
