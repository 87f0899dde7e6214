package option

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errpkg "download_planner/internal/errors"
)

func TestOptionCopyIsIndependent(t *testing.T) {
	o := New()
	o.Put(Dir, "/tmp")
	c := o.Copy()
	c.Put(Dir, "/var")
	c.Put(Out, "x")

	assert.Equal(t, "/tmp", o.Get(Dir))
	assert.False(t, o.Defined(Out))
	assert.Equal(t, "/var", c.Get(Dir))
}

func TestOptionAccessors(t *testing.T) {
	o := New()
	o.Put(Split, "4")
	o.Put(PieceLength, "1M")
	o.Put(Pause, True)
	o.Put(Out, "")

	assert.Equal(t, 4, o.GetInt(Split))
	assert.Equal(t, int64(1<<20), o.GetInt64(PieceLength))
	assert.True(t, o.GetBool(Pause))
	assert.True(t, o.Defined(Out))
	assert.True(t, o.Blank(Out))
	assert.True(t, o.Blank(Dir))
	assert.Equal(t, 0, o.GetInt(Dir))
	assert.Equal(t, []string{Out, Pause, PieceLength, Split}, o.Keys())

	o.Remove(Pause)
	assert.False(t, o.GetBool(Pause))
	assert.Equal(t, 3, o.Len())
}

func TestNewDefault(t *testing.T) {
	o := NewDefault()
	assert.Equal(t, 5, o.GetInt(Split))
	assert.Equal(t, 1, o.GetInt(MaxConnectionPerServer))
	assert.Equal(t, int64(1<<20), o.GetInt64(PieceLength))
	assert.Equal(t, ".", o.Get(Dir))
	assert.False(t, o.Defined(Out))
	assert.True(t, IsKnown(MetalinkServers))
	assert.False(t, IsKnown("no-such-option"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		key, value string
		ok         bool
	}{
		{Split, "3", true},
		{Split, "0", false},
		{Split, "abc", false},
		{Pause, "true", true},
		{Pause, "yes", false},
		{FollowTorrent, "mem", true},
		{PieceLength, "2M", true},
		{PieceLength, "big", false},
		{SelectFile, "1-3,7", true},
		{SelectFile, "3-1", false},
		{BtExternalIP, "10.0.0.1", true},
		{BtExternalIP, "nope", false},
		{Dir, "anything goes", true},
		{"unknown-key", "x", true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := Validate(tt.key, tt.value)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, errpkg.ErrMalformedOption))
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	n, err := ParseSize("16K")
	require.NoError(t, err)
	assert.Equal(t, int64(16384), n)

	n, err = ParseSize("1024")
	require.NoError(t, err)
	assert.Equal(t, int64(1024), n)

	_, err = ParseSize("")
	assert.Error(t, err)
}

func TestParseIntRange(t *testing.T) {
	got, err := ParseIntRange("5,1-3, 2")
	require.NoError(t, err)
	assert.Equal(t, IntSequence{{Lo: 5, Hi: 5}, {Lo: 1, Hi: 3}, {Lo: 2, Hi: 2}}, got)
	for n, want := range map[int]bool{0: false, 1: true, 3: true, 4: false, 5: true} {
		assert.Equal(t, want, got.Contains(n), "index %d", n)
	}

	empty, err := ParseIntRange("")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.False(t, empty.Contains(1))

	_, err = ParseIntRange("a-b")
	assert.ErrorIs(t, err, errpkg.ErrMalformedOption)
}

func TestParseIntRange_WideRangeStaysLazy(t *testing.T) {
	got, err := ParseIntRange("1-2000000000")
	require.NoError(t, err)
	assert.Equal(t, IntSequence{{Lo: 1, Hi: 2000000000}}, got)
	assert.True(t, got.Contains(1999999999))
	assert.False(t, got.Contains(2000000001))

	require.NoError(t, Validate(SelectFile, "1-2000000000"))
}

func TestParseIndexPathMap(t *testing.T) {
	m, err := ParseIndexPathMap("1=a.bin\n\n3=sub/c.bin\n")
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "a.bin", 3: "sub/c.bin"}, m)

	_, err = ParseIndexPathMap("0=a")
	assert.ErrorIs(t, err, errpkg.ErrMalformedOption)
	_, err = ParseIndexPathMap("nonsense")
	assert.ErrorIs(t, err, errpkg.ErrMalformedOption)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b,"))
	assert.Nil(t, SplitList(""))
}
