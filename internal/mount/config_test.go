package mount

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPrefixPresentIsSubstringMatch(t *testing.T) {
	assert.True(t, prefixPresent("/data/tenantA", "tenantA"))
	// no es un chequeo de segmento
	assert.True(t, prefixPresent("/data/tenantAB", "tenantA"))
	assert.False(t, prefixPresent("/data", "tenantA"))

	assert.Equal(t, "/data/tenantAB", applyPrefix("/data/tenantAB", "tenantA/"))
	assert.Equal(t, "/data/x", applyPrefix("/data/", "x/"))
	assert.Equal(t, "/data", applyPrefix("/data", ""))
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "tenantA/", normalizePrefix("tenantA"))
	assert.Equal(t, "tenantA/", normalizePrefix("tenantA// "))
	assert.Equal(t, "", normalizePrefix(" / "))
}

func TestNormalize(t *testing.T) {
	c := Config{Root: " /data ", Driver: " MEMORY "}
	require.NoError(t, c.Normalize(DriverLocal))
	assert.Equal(t, Config{Path: "/data", Driver: DriverMemory}, c)

	c = Config{Path: "/data"}
	require.NoError(t, c.Normalize(DriverZip))
	assert.Equal(t, DriverZip, c.Driver)

	c = Config{}
	assert.ErrorIs(t, c.Normalize(DriverLocal), ErrNoPath)
}

func TestDecodeConnectionsRejectsUnknownKeys(t *testing.T) {
	doc := `
snapshots:
  driver: local
  root: /data/snapshots
archive:
  driver: zip
  path: /data/archive.zip
  settings:
    visibility: private
`
	conns, err := DecodeConnections(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "/data/snapshots", conns["snapshots"].Root)
	assert.Equal(t, "private", conns["archive"].Settings["visibility"])

	_, err = DecodeConnections(strings.NewReader("bad:\n  path: /x\n  bucket: y\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKey)

	conns, err = DecodeConnections(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, conns)
}

func TestConfigUnmarshalInsideLargerDocument(t *testing.T) {
	var doc struct {
		Connections map[string]Config `yaml:"connections"`
	}
	err := yaml.Unmarshal([]byte("connections:\n  x:\n    path: /x\n    typo: 1\n"), &doc)
	assert.ErrorIs(t, err, ErrUnknownKey)
}
