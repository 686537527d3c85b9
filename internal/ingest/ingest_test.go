package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "ledger.bin")
	require.NoError(t, os.WriteFile(p, []byte("DTCB"), 0o644))

	src := File(p)
	assert.Equal(t, p, src.Name())
	b, err := src.Read()
	require.NoError(t, err)
	assert.Equal(t, []byte("DTCB"), b)
}

func TestFileSource_Errors(t *testing.T) {
	_, err := File("").Read()
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = File(t.TempDir()).Read()
	assert.ErrorIs(t, err, ErrNotRegular)

	_, err = File(filepath.Join(t.TempDir(), "missing")).Read()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestBytesAndReaderSources(t *testing.T) {
	b, err := Bytes("mem", []byte{1, 2}).Read()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, b)

	src := Reader("stdin", strings.NewReader("BANK"))
	assert.Equal(t, "stdin", src.Name())
	b, err = src.Read()
	require.NoError(t, err)
	assert.Equal(t, []byte("BANK"), b)

	_, err = Reader("nil", nil).Read()
	assert.Error(t, err)
}
