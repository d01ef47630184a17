package pathtrans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	tr := New('Z')
	paths := []string{
		"/home/user/Mods/Foo",
		"/a/b/c.lsf.lsx",
		"/",
		"/single",
	}
	for _, p := range paths {
		emulated, err := tr.ToEmulated(p)
		require.NoError(t, err)
		back, err := tr.FromEmulated(emulated)
		require.NoError(t, err)
		assert.Equal(t, p, back)
	}
}

func TestToEmulated_Form(t *testing.T) {
	tr := New('Z')
	got, err := tr.ToEmulated("/home/user/Mods")
	require.NoError(t, err)
	assert.Equal(t, `Z:\home\user\Mods`, got)
}

func TestToEmulated_RejectsRelative(t *testing.T) {
	tr := New('Z')
	_, err := tr.ToEmulated("relative/path")
	assert.Error(t, err)
}

func TestFromEmulated_RejectsWrongDrive(t *testing.T) {
	tr := New('Z')
	_, err := tr.FromEmulated(`Y:\home\user`)
	assert.Error(t, err)
}

func TestNew_NormalizesLetter(t *testing.T) {
	tr := New('z')
	assert.Equal(t, byte('Z'), tr.drive)

	tr2 := New('1')
	assert.Equal(t, byte('Z'), tr2.drive)
}
