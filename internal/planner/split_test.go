package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitURI(t *testing.T) {
	tests := []struct {
		name     string
		uris     []string
		numSplit int
		maxIter  int
		want     []string
	}{
		{"enough sources", []string{"a", "b", "c"}, 2, 1, []string{"a", "b", "c"}},
		{"exactly split", []string{"a", "b"}, 2, 5, []string{"a", "b"}},
		{"remainder on first", []string{"a", "b"}, 5, 3, []string{"a", "b", "a", "b", "a"}},
		{"capped by server", []string{"a", "b"}, 5, 2, []string{"a", "b", "a", "b"}},
		{"single capped", []string{"a"}, 5, 1, []string{"a"}},
		{"single uncapped", []string{"a"}, 3, 10, []string{"a", "a", "a"}},
		{"three over seven", []string{"a", "b", "c"}, 7, 5, []string{"a", "b", "c", "a", "b", "c", "a"}},
		{"empty", nil, 5, 3, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitURI(tt.uris, tt.numSplit, tt.maxIter))
		})
	}
}

func TestSplitURIDoesNotAlias(t *testing.T) {
	in := []string{"a", "b", "c"}
	out := SplitURI(in, 2, 1)
	out[0] = "z"
	assert.Equal(t, "a", in[0])
}

func TestRequestOptions(t *testing.T) {
	keys := RequestOptions()
	assert.Contains(t, keys, "split")
	assert.Contains(t, keys, "out")
	assert.NotContains(t, keys, "input-file")
	assert.NotContains(t, keys, "force-sequential")
	assert.True(t, IsRequestOption("metalink-base-uri"))
	assert.False(t, IsRequestOption("torrent-file"))
}
