package sorter

// Rand is the randomness used for shuffling and offers. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Shuffle permutes items in place with a uniform Fisher-Yates shuffle.
func Shuffle[T any](items []T, rng Rand) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// pickPair draws two distinct labels uniformly without replacement.
// labels must hold at least two entries.
func pickPair(labels []string, rng Rand) (string, string) {
	i := rng.IntN(len(labels))
	j := rng.IntN(len(labels) - 1)
	if j >= i {
		j++
	}
	return labels[i], labels[j]
}
