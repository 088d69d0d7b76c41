package mount

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/instancestore/internal/disk"
)

func TestDriverFactoryLocalIsRootedAtPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	f := DriverFactory{Disk: disk.New(fs)}

	h, closer, err := f.Open(Config{Driver: DriverLocal, Path: "/data/tenant"})
	require.NoError(t, err)
	assert.Nil(t, closer)

	require.NoError(t, afero.WriteFile(h, "/notes.txt", []byte("hi"), 0o644))
	b, err := afero.ReadFile(fs, "/data/tenant/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "hi", string(b))
}

func TestDriverFactoryReadOnlyLocal(t *testing.T) {
	fs := afero.NewMemMapFs()
	f := DriverFactory{Disk: disk.New(fs)}

	_, _, err := f.Open(Config{Driver: DriverReadOnlyLocal, Path: "/missing"})
	assert.ErrorIs(t, err, disk.ErrNotDirectory)

	require.NoError(t, fs.MkdirAll("/ro", 0o755))
	h, _, err := f.Open(Config{Driver: DriverReadOnlyLocal, Path: "/ro"})
	require.NoError(t, err)
	assert.Error(t, afero.WriteFile(h, "/x", []byte("x"), 0o644))
}

func TestDriverFactoryZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("dir/readme.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("zipped"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/archives/a.zip", buf.Bytes(), 0o644))

	h, closer, err := DriverFactory{Disk: disk.New(fs)}.Open(Config{Driver: DriverZip, Path: "/archives/a.zip"})
	require.NoError(t, err)
	require.NotNil(t, closer)
	defer closer.Close()

	b, err := afero.ReadFile(h, "/dir/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, "zipped", string(b))
}

func TestDriverFactoryZipNotAnArchive(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a.zip", []byte("plain"), 0o644))

	_, _, err := DriverFactory{Disk: disk.New(fs)}.Open(Config{Driver: DriverZip, Path: "/a.zip"})
	require.ErrorIs(t, err, ErrOpenArchive)
	assert.True(t, IsMount(err))
	assert.NotErrorIs(t, err, ErrUnknownDriver)
}

func TestDriverFactoryZipMissingArchive(t *testing.T) {
	_, _, err := DriverFactory{Disk: disk.New(afero.NewMemMapFs())}.Open(Config{Driver: DriverZip, Path: "/missing.zip"})
	require.ErrorIs(t, err, ErrOpenArchive)
	assert.False(t, IsArgument(err))
	assert.NotErrorIs(t, err, ErrNoPath)
}

func TestDriverFactoryUnknownDriver(t *testing.T) {
	_, _, err := DriverFactory{Disk: disk.New(afero.NewMemMapFs())}.Open(Config{Driver: "s3", Path: "/x"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
	assert.True(t, IsMount(err))
}
