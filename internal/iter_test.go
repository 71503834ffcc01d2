package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	base := map[string]string{"A": "1", "B": "2"}
	over := map[string]string{"B": "3", "C": "4"}

	merged := maps.Collect(IterSeq2Concat(maps.All(base), maps.All(over)))
	assert.Equal(map[string]string{"A": "1", "B": "3", "C": "4"}, merged)

	assert.Empty(maps.Collect(IterSeq2Concat[string, string]()))
}

func TestIterSeq2Concat_EarlyStop(t *testing.T) {
	assert := assert.New(t)

	seq := func(yield func(int, int) bool) {
		for n := range 10 {
			if !yield(n, n*n) {
				return
			}
		}
	}

	count := 0
	for key := range IterSeq2Concat(seq, seq) {
		count++
		if key == 4 {
			break
		}
	}
	assert.Equal(5, count)
}
