package managed

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateManifestWalksUpward(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/srv/tenant/app/public", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/srv/"+ManifestFile, []byte("{}"), 0o600))

	path, ok := LocateManifest(fs, "/srv/tenant/app/public", ManifestFile)
	assert.True(t, ok)
	assert.Equal(t, "/srv/"+ManifestFile, path)
}

func TestLocateManifestChecksFilesystemRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/a/b", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/"+ManifestFile, []byte("{}"), 0o600))

	path, ok := LocateManifest(fs, "/a/b", ManifestFile)
	assert.True(t, ok)
	assert.Equal(t, "/"+ManifestFile, path)
}

func TestLocateManifestNotFound(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/a/b/c", 0o755))

	_, ok := LocateManifest(fs, "/a/b/c", ManifestFile)
	assert.False(t, ok)
}

func TestLocateManifestIgnoresDirectoryWithManifestName(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/a/"+ManifestFile, 0o755))

	_, ok := LocateManifest(fs, "/a", ManifestFile)
	assert.False(t, ok)
}

func TestValidateEnvironment(t *testing.T) {
	m := &Manifest{
		ClientID:      "id",
		ClientSecret:  "secret",
		ConsoleAPIURL: "https://console.example.com/api/v1/ops//",
		DefaultDomain: "cloud.example.com",
		StorageRoot:   "/data/storage",
	}

	env, err := validateEnvironment(m, "Acme.cloud.example.com:8443")
	require.NoError(t, err)
	assert.Equal(t, "https://console.example.com/api/v1/ops/", env.ConsoleAPIURL)
	assert.Equal(t, ".cloud.example.com", env.DefaultDomain)
	assert.Equal(t, "acme", env.InstanceName)
	assert.Equal(t, "/data/storage/", env.StorageRoot)

	_, err = validateEnvironment(m, "acme.elsewhere.io")
	assert.ErrorIs(t, err, ErrDomainMismatch)
	assert.True(t, IsValidation(err))

	noDomain := *m
	noDomain.DefaultDomain = ""
	env, err = validateEnvironment(&noDomain, "standalone.host")
	require.NoError(t, err)
	assert.Equal(t, "standalone.host", env.InstanceName)

	atRoot := *m
	atRoot.StorageRoot = "/"
	env, err = validateEnvironment(&atRoot, "acme.cloud.example.com")
	require.NoError(t, err)
	assert.Equal(t, "/", env.StorageRoot)

	blank := *m
	blank.StorageRoot = "  "
	_, err = validateEnvironment(&blank, "acme.cloud.example.com")
	assert.ErrorIs(t, err, ErrNoStorageRoot)
}

func TestAccessToken(t *testing.T) {
	a, err := AccessToken("", "client", "secret")
	require.NoError(t, err)
	b, err := AccessToken("SHA256", "client", "secret")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	s3, err := AccessToken("sha3-512", "client", "secret")
	require.NoError(t, err)
	assert.Len(t, s3, 128)

	_, err = AccessToken("crc32", "client", "secret")
	assert.ErrorIs(t, err, ErrSignatureMethod)
}
