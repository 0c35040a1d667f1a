package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewSourceID(t *testing.T) {
	id, err := NewSourceID("Windows.Terminal.Wsl")
	require.NoError(t, err)
	assert.Equal(t, "Windows.Terminal.Wsl", id.String())

	padded, err := NewSourceID(" Windows.Terminal.Wsl")
	require.NoError(t, err)
	assert.Equal(t, " Windows.Terminal.Wsl", padded.String())
	assert.False(t, padded.Equals(id))

	_, err = NewSourceID("   ")
	assert.Error(t, err)
}

func Test_NewSchemeName_PreservesCase(t *testing.T) {
	a := MustNewSchemeName("Campbell")
	b := MustNewSchemeName("campbell")
	assert.False(t, a.Equals(b))

	_, err := NewSchemeName("")
	assert.Error(t, err)
}

func Test_SourceSet_Dedup(t *testing.T) {
	set := NewSourceSet(MustNewSourceID("a"), MustNewSourceID("b"), MustNewSourceID("a"))

	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"a", "b"}, set.Strings())
}

func Test_SourceSet_CopyOnWrite(t *testing.T) {
	a := MustNewSourceID("a")
	b := MustNewSourceID("b")

	original := NewSourceSet(a)
	grown := original.With(b)

	assert.Equal(t, []string{"a"}, original.Strings())
	assert.Equal(t, []string{"a", "b"}, grown.Strings())

	shrunk := grown.WithoutAt(grown.IndexOf(a))
	assert.Equal(t, []string{"b"}, shrunk.Strings())
	assert.Equal(t, []string{"a", "b"}, grown.Strings())
}

func Test_SourceSet_WithoutAt_OutOfRange(t *testing.T) {
	set := NewSourceSet(MustNewSourceID("a"))

	assert.Equal(t, []string{"a"}, set.WithoutAt(-1).Strings())
	assert.Equal(t, []string{"a"}, set.WithoutAt(5).Strings())
}

func Test_SourceSet_EmptyStringsNotNil(t *testing.T) {
	empty := NewSourceSet()

	assert.True(t, empty.IsEmpty())
	assert.NotNil(t, empty.Strings())
	assert.Equal(t, -1, empty.IndexOf(MustNewSourceID("x")))
}

func Test_ParseSourceSet(t *testing.T) {
	set, err := ParseSourceSet([]string{"Git", "Windows.Terminal.Azure"})
	require.NoError(t, err)
	assert.True(t, set.Contains(MustNewSourceID("Git")))

	spaced, err := ParseSourceSet([]string{" Git", "Git"})
	require.NoError(t, err)
	assert.Equal(t, []string{" Git", "Git"}, spaced.Strings())

	_, err = ParseSourceSet([]string{"Git", ""})
	assert.Error(t, err)
}
