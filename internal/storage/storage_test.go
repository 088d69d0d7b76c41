package storage

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/instancestore/internal/disk"
	"github.com/dropDatabas3/instancestore/internal/managed"
)

// fakeQuerier es una instancia managed con paths fijos.
type fakeQuerier struct {
	managed.Querier
	paths managed.PathSet
}

func (f fakeQuerier) IsManagedInstance() bool { return true }
func (f fakeQuerier) StorageRoot() string     { return f.paths[managed.KeyStorageRoot] }
func (f fakeQuerier) StoragePath(a string) string {
	p, _ := disk.Segment([]string{f.paths[managed.KeyStoragePath], a}, true)
	return p
}
func (f fakeQuerier) PrivatePath(a string) string {
	p, _ := disk.Segment([]string{f.paths[managed.KeyPrivatePath], a}, true)
	return p
}
func (f fakeQuerier) OwnerPrivatePath(a string) string {
	p, _ := disk.Segment([]string{f.paths[managed.KeyOwnerPrivatePath], a}, true)
	return p
}

func TestManagedPaths(t *testing.T) {
	q := fakeQuerier{paths: managed.PathSet{
		managed.KeyStorageRoot:      "/data",
		managed.KeyStoragePath:      "/data/acme/storage",
		managed.KeyPrivatePath:      "/data/acme/.private",
		managed.KeyOwnerPrivatePath: "/data/owner/.private",
	}}
	s := New(q, disk.New(afero.NewMemMapFs()), Config{LocalPath: "/ignored"})

	assert.Equal(t, "/data", s.RootStoragePath())
	assert.Equal(t, "/data/acme/storage/app", s.StoragePath("app"))
	assert.Equal(t, "/data/acme/.private", s.PrivatePath(""))
	assert.Equal(t, "/data/owner/.private/snapshots", s.SnapshotPath())
}

func TestStandaloneFallsBackToLocal(t *testing.T) {
	s := New(nil, disk.New(afero.NewMemMapFs()), Config{
		LocalPath:        "/srv/app/storage/",
		PrivatePathName:  "/.secret/",
		SnapshotPathName: "snaps",
	})

	assert.Equal(t, "/srv/app/storage", s.RootStoragePath())
	assert.Equal(t, "/srv/app/storage/uploads", s.StoragePath("uploads"))
	assert.Equal(t, ".secret", s.PrivatePathName())
	assert.Equal(t, "/srv/app/storage/.secret/keys", s.PrivatePath("keys"))
	assert.Equal(t, "/srv/app/storage/.secret/snaps", s.SnapshotPath())
}

func TestDefaultNames(t *testing.T) {
	s := New(nil, disk.New(afero.NewMemMapFs()), Config{LocalPath: "/x"})
	assert.Equal(t, DefaultPrivatePathName, s.PrivatePathName())
	assert.Equal(t, "/x/.private/snapshots", s.SnapshotPath())
}

func TestWorkPathIsCreated(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(nil, disk.New(fs), Config{TempDir: "/tmp"})

	p, err := s.WorkPath("acme-snapshots")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/dfe/acme-snapshots", p)

	ok, _ := afero.DirExists(fs, p)
	assert.True(t, ok)
}

func TestInMaintenance(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(nil, disk.New(fs), Config{MaintenanceMarker: "/var/www/.maintenance"})
	assert.False(t, s.InMaintenance())

	require.NoError(t, afero.WriteFile(fs, "/var/www/.maintenance", nil, 0o644))
	assert.True(t, s.InMaintenance())
}
