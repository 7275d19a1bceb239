package textutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "unitedstates", NormalizeName("  United States "))
	require.Equal(t, "côtedivoire", NormalizeName("Côte d’Ivoire"))
}

func TestBestMatch(t *testing.T) {
	candidates := []string{"Germany", "Ghana", "United Kingdom", "United States"}

	idx, score := BestMatch("united states", candidates, 0.85)
	require.Equal(t, 3, idx)
	require.Equal(t, 1.0, score)

	idx, _ = BestMatch("Germny", candidates, 0.85)
	require.Equal(t, 0, idx)

	idx, _ = BestMatch("xyzzy", candidates, 0.85)
	require.Equal(t, -1, idx)

	idx, _ = BestMatch("", candidates, 0.85)
	require.Equal(t, -1, idx)
}

func TestTitle(t *testing.T) {
	require.Equal(t, "Visa Credit", Title("VISA CREDIT"))
}

func TestTitleConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = Title("new york city")
		}()
	}
	wg.Wait()
	for _, r := range results {
		require.Equal(t, "New York City", r)
	}
}
