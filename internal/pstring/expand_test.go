package pstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errpkg "download_planner/internal/errors"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     []string
	}{
		{
			name:     "plain URI expands to itself",
			template: "http://example.com/file.iso",
			want:     []string{"http://example.com/file.iso"},
		},
		{
			name:     "alternation",
			template: "http://{a,b,c}.example.com/f",
			want:     []string{"http://a.example.com/f", "http://b.example.com/f", "http://c.example.com/f"},
		},
		{
			name:     "numeric loop keeps width of start",
			template: "http://h/img[08-11].png",
			want:     []string{"http://h/img08.png", "http://h/img09.png", "http://h/img10.png", "http://h/img11.png"},
		},
		{
			name:     "numeric loop without padding",
			template: "f[9-10]",
			want:     []string{"f9", "f10"},
		},
		{
			name:     "loop with step",
			template: "f[0-10:5]",
			want:     []string{"f0", "f5", "f10"},
		},
		{
			name:     "lowercase alpha loop",
			template: "[a-c]",
			want:     []string{"a", "b", "c"},
		},
		{
			name:     "two letter alpha loop carries",
			template: "[ay-bb]",
			want:     []string{"ay", "az", "ba", "bb"},
		},
		{
			name:     "uppercase alpha loop",
			template: "x[Y-Z]",
			want:     []string{"xY", "xZ"},
		},
		{
			name:     "leftmost segment varies slowest",
			template: "{a,b}[1-2]",
			want:     []string{"a1", "a2", "b1", "b2"},
		},
		{
			name:     "range ending at the largest int",
			template: "f[9223372036854775806-9223372036854775807]",
			want:     []string{"f9223372036854775806", "f9223372036854775807"},
		},
		{
			name:     "step past the largest int",
			template: "f[9223372036854775800-9223372036854775807:5]",
			want:     []string{"f9223372036854775800", "f9223372036854775805"},
		},
		{
			name:     "empty range yields nothing",
			template: "f[5-1]",
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.template)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpand_Malformed(t *testing.T) {
	for _, template := range []string{
		"http://{a,b/",
		"http://h/[1-3",
		"[1-]",
		"[-3]",
		"[1-3:x]",
		"[1-3:0]",
		"[a-3]",
		"[1]",
		"[0-2000000]",
		"[1-2000][1-2000]",
		"[aaaaaaaaaaaaaa-zzzzzzzzzzzzzz]",
	} {
		t.Run(template, func(t *testing.T) {
			_, err := Expand(template)
			assert.ErrorIs(t, err, errpkg.ErrMalformedPattern)
		})
	}
}

func TestExpandAll(t *testing.T) {
	got, err := ExpandAll([]string{"a{1,2}", "plain"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2", "plain"}, got)

	_, err = ExpandAll([]string{"ok", "bad{"})
	assert.ErrorIs(t, err, errpkg.ErrMalformedPattern)
}
