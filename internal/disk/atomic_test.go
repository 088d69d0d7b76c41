package disk

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	fs := afero.NewMemMapFs()
	b := New(fs)

	require.NoError(t, b.WriteFileAtomic("/out/paths.json", []byte(`{"a":1}`), 0o640))
	require.NoError(t, b.WriteFileAtomic("/out/paths.json", []byte(`{"a":2}`), 0o640))

	got, err := afero.ReadFile(fs, "/out/paths.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(got))

	entries, err := afero.ReadDir(fs, "/out")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteFileAtomicRealFs(t *testing.T) {
	dir := t.TempDir()
	b := OS()

	p := dir + "/nested/file.txt"
	require.NoError(t, b.WriteFileAtomic(p, []byte("x"), 0o600))
	got, err := afero.ReadFile(b.Fs(), p)
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
}
