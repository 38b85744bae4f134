package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/gnoswap-labs/fitch/internal/types"
)

func TestCache(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	cacheDir := filepath.Join(tmpDir, "cache")

	issues := []tt.Issue{{
		Rule:     "verify-line",
		Category: "rule-mismatch",
		Filename: "p.aprf",
		Line:     2,
		Message:  "∧ Elim: the cited line must be a conjunction",
		Snippet:  " 2 | P  [and-elim 1]",
		Severity: tt.SeverityWarning,
	}}
	source := []byte("<aris/>")

	t.Run("SaveAndLoad", func(t *testing.T) {
		cache, err := NewCache(cacheDir)
		require.NoError(t, err)
		require.NoError(t, cache.Set("p.aprf", source, issues))

		reloaded, err := NewCache(cacheDir)
		require.NoError(t, err)
		got, found := reloaded.Get("p.aprf", source)
		assert.True(t, found)
		assert.Equal(t, issues, got)
	})

	t.Run("NotFound", func(t *testing.T) {
		cache, err := NewCache(cacheDir)
		require.NoError(t, err)
		_, found := cache.Get("missing.aprf", source)
		assert.False(t, found)
	})

	t.Run("ContentChanged", func(t *testing.T) {
		cache, err := NewCache(cacheDir)
		require.NoError(t, err)
		require.NoError(t, cache.Set("p.aprf", source, issues))

		_, found := cache.Get("p.aprf", []byte("<aris></aris>"))
		assert.False(t, found)
		_, found = cache.Get("p.aprf", source)
		assert.False(t, found, "invalid entries are dropped")
	})

	t.Run("Expired", func(t *testing.T) {
		cache, err := NewCache(cacheDir)
		require.NoError(t, err)
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		cache.now = func() time.Time { return now }
		cache.SetMaxAge(time.Hour)
		require.NoError(t, cache.Set("p.aprf", source, issues))

		now = now.Add(30 * time.Minute)
		_, found := cache.Get("p.aprf", source)
		assert.True(t, found)

		now = now.Add(time.Hour)
		_, found = cache.Get("p.aprf", source)
		assert.False(t, found)
	})

	t.Run("DependencyChanged", func(t *testing.T) {
		cache, err := NewCache(cacheDir)
		require.NoError(t, err)
		config := filepath.Join(tmpDir, ".fitch.yaml")
		require.NoError(t, os.WriteFile(config, []byte("name: a\n"), 0o644))
		require.NoError(t, cache.AddDependency(config))
		require.NoError(t, cache.Set("p.aprf", source, issues))

		_, found := cache.Get("p.aprf", source)
		require.True(t, found)

		require.NoError(t, os.WriteFile(config, []byte("name: b\n"), 0o644))
		_, found = cache.Get("p.aprf", source)
		assert.False(t, found)
	})

	t.Run("InvalidateAll", func(t *testing.T) {
		cache, err := NewCache(cacheDir)
		require.NoError(t, err)
		require.NoError(t, cache.Set("p.aprf", source, issues))
		cache.InvalidateAll()

		_, found := cache.Get("p.aprf", source)
		assert.False(t, found)
	})
}
