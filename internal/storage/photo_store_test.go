package storage

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 最小的 PNG 头，足够让类型探测识别
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func TestPhotoStore_SaveAndOpen(t *testing.T) {
	s, err := NewPhotoStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	ref, err := s.Save(bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".png"), ref)
	assert.Len(t, ref, 64+len(".png"))

	f, err := s.Open(ref)
	require.NoError(t, err)
	defer f.Close()
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, got)
}

func TestPhotoStore_SameContentSameRef(t *testing.T) {
	s, err := NewPhotoStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	a, err := s.Save(bytes.NewReader(pngBytes))
	require.NoError(t, err)
	b, err := s.Save(bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPhotoStore_Rejects(t *testing.T) {
	s, err := NewPhotoStore(t.TempDir(), 256)
	require.NoError(t, err)

	_, err = s.Save(strings.NewReader("just some text, not a picture"))
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = s.Save(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`))
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = s.Save(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrEmpty)

	big := append(append([]byte{}, pngBytes...), make([]byte, 256)...)
	_, err = s.Save(bytes.NewReader(big))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestPhotoStore_PathValidation(t *testing.T) {
	s, err := NewPhotoStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	_, err = s.Path("../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidRef)

	_, err = s.Path(strings.Repeat("a", 64) + ".png")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
