package modrinth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const versionJSON = `{
	"id": "AABBCCDD",
	"project_id": "P7dR8mSH",
	"version_number": "1.2.3",
	"downloads": 42,
	"files": [
		{"url": "https://cdn.example/a.jar", "filename": "a.jar", "primary": false, "size": 10, "hashes": {"sha1": "a1", "sha512": "a512"}},
		{"url": "https://cdn.example/b.jar", "filename": "b.jar", "primary": true, "size": 20, "hashes": {"sha1": "b1", "sha512": "b512"}}
	]
}`

func TestVersionUnmarshal(t *testing.T) {
	var version Version
	require.NoError(t, json.Unmarshal([]byte(versionJSON), &version))

	assert.Equal(t, "AABBCCDD", version.ID)
	assert.Equal(t, "1.2.3", version.VersionNumber)
	assert.Len(t, version.Files, 2)
	assert.JSONEq(t, versionJSON, string(version.Raw))
}

func TestPrimaryFile(t *testing.T) {
	t.Run("flagged primary", func(t *testing.T) {
		var version Version
		require.NoError(t, json.Unmarshal([]byte(versionJSON), &version))

		file, ok := version.PrimaryFile()

		assert.True(t, ok)
		assert.Equal(t, "b.jar", file.Filename)
		assert.Equal(t, "b512", file.Hashes.Sha512)
	})
	t.Run("falls back to first", func(t *testing.T) {
		version := Version{Files: []File{{Filename: "first.jar"}, {Filename: "second.jar"}}}

		file, ok := version.PrimaryFile()

		assert.True(t, ok)
		assert.Equal(t, "first.jar", file.Filename)
	})
	t.Run("no files", func(t *testing.T) {
		_, ok := Version{}.PrimaryFile()

		assert.False(t, ok)
	})
}

func TestLatestQueryFingerprint(t *testing.T) {
	featured := true
	notFeatured := false

	fingerprint := func(q LatestQuery) string {
		fp, err := q.Fingerprint()
		require.NoError(t, err)
		return fp
	}

	base := LatestQuery{Project: "sodium", Loaders: []string{"fabric"}, Featured: &featured}
	same := LatestQuery{Featured: &featured, Loaders: []string{"fabric"}, Project: "sodium"}

	assert.Equal(t, "project=sodium;loaders=[\"fabric\"];game_versions=-;featured=true", fingerprint(base))
	assert.Equal(t, fingerprint(base), fingerprint(same))
	assert.NotEqual(t, fingerprint(base), fingerprint(LatestQuery{Project: "sodium", Loaders: []string{"fabric"}, Featured: &notFeatured}))
	assert.NotEqual(t, fingerprint(base), fingerprint(LatestQuery{Project: "sodium", Loaders: []string{"fabric"}}))
	assert.NotEqual(t,
		fingerprint(LatestQuery{Project: "sodium"}),
		fingerprint(LatestQuery{Project: "sodium", GameVersions: []string{}}))
}
