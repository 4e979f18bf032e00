package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/runconfig/internal/testutil"
)

func TestSpecInput_ResolveFile(t *testing.T) {
	specCache.reset()
	input := specInput{File: testutil.WriteTempSpec(t, "system.yaml", testutil.SystemSpecYAML)}
	doc, err := input.resolve()
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "3.0.3", doc.Version)
	assert.Len(t, doc.Paths, 2)
}

func TestSpecInput_ResolveContent(t *testing.T) {
	specCache.reset()
	doc, err := specInput{Content: testutil.ServiceSpecYAML}.resolve()
	require.NoError(t, err)
	assert.Equal(t, "3.0.3", doc.Version)
	assert.Equal(t, "content", doc.SourcePath)
}

func TestSpecInput_ResolveNoneProvided(t *testing.T) {
	_, err := specInput{}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file or content must be provided")
}

func TestSpecInput_ResolveMultipleProvided(t *testing.T) {
	_, err := specInput{File: "foo.yaml", Content: "bar"}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file or content must be provided")
}

func TestSpecInput_ResolveFileNotFound(t *testing.T) {
	specCache.reset()
	_, err := specInput{File: "/nonexistent/path.yaml"}.resolve()
	assert.Error(t, err)
}

func TestSpecInput_ResolveInvalidContent(t *testing.T) {
	specCache.reset()
	_, err := specInput{Content: "info: {title: x}\n"}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing openapi or swagger version field")
	assert.Equal(t, 0, specCache.size(), "failed loads must not be cached")
}

func TestSpecInput_InlineSizeLimit(t *testing.T) {
	specCache.reset()
	orig := cfg.MaxInlineSize
	cfg.MaxInlineSize = 16
	t.Cleanup(func() { cfg.MaxInlineSize = orig })

	_, err := specInput{Content: strings.Repeat("x", 17)}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum 16 bytes")
}

func TestResolveAll(t *testing.T) {
	specCache.reset()

	docs, err := resolveAll([]specInput{
		{Content: testutil.SystemSpecYAML},
		{Content: testutil.ServiceSpecYAML},
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "/system", docs[0].Paths[0].Path)
	assert.Equal(t, "/services", docs[1].Paths[0].Path)

	_, err = resolveAll(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one spec")

	_, err = resolveAll([]specInput{{Content: testutil.SystemSpecYAML}, {}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "specs[1]")
}

func TestResolveAll_MaxSpecs(t *testing.T) {
	orig := cfg.MaxSpecs
	cfg.MaxSpecs = 1
	t.Cleanup(func() { cfg.MaxSpecs = orig })

	_, err := resolveAll([]specInput{{Content: "a"}, {Content: "b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceed the maximum of 1")
}

func TestSpecCache_HitOnSameFile(t *testing.T) {
	specCache.reset()
	input := specInput{File: testutil.WriteTempSpec(t, "system.yaml", testutil.SystemSpecYAML)}

	// First call populates cache.
	doc1, err := input.resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, specCache.size())

	// Second call should return the same pointer (cache hit).
	doc2, err := input.resolve()
	require.NoError(t, err)
	assert.Same(t, doc1, doc2, "expected same pointer from cache hit")
}

func TestSpecCache_MissOnModifiedFile(t *testing.T) {
	specCache.reset()

	path := filepath.Join(t.TempDir(), "spec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testutil.SystemSpecYAML), 0600))

	input := specInput{File: path}
	doc1, err := input.resolve()
	require.NoError(t, err)
	assert.Len(t, doc1.Paths, 2)

	require.NoError(t, os.WriteFile(path, []byte(testutil.ServiceSpecYAML), 0600))

	// Ensure mtime differs from the first write on coarse-grained filesystems.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	doc2, err := input.resolve()
	require.NoError(t, err)
	assert.NotSame(t, doc1, doc2)
	assert.Equal(t, "/services", doc2.Paths[0].Path)
}

func TestSpecCache_ContentHash(t *testing.T) {
	specCache.reset()
	input := specInput{Content: testutil.SystemSpecYAML}

	doc1, err := input.resolve()
	require.NoError(t, err)

	// Same content should hit cache.
	doc2, err := input.resolve()
	require.NoError(t, err)
	assert.Same(t, doc1, doc2)
}

func TestSpecCache_Disabled(t *testing.T) {
	specCache.reset()
	orig := cfg.CacheEnabled
	cfg.CacheEnabled = false
	t.Cleanup(func() { cfg.CacheEnabled = orig })

	input := specInput{Content: testutil.SystemSpecYAML}
	doc1, err := input.resolve()
	require.NoError(t, err)
	doc2, err := input.resolve()
	require.NoError(t, err)
	assert.NotSame(t, doc1, doc2)
	assert.Equal(t, 0, specCache.size())
}

func TestSpecCache_LRUEviction(t *testing.T) {
	specCache.reset()

	// Insert 11 specs into a cache of size 10.
	// Track the first content's cache key to verify it is evicted.
	var firstKey string
	for i := range 11 {
		content := `openapi: "3.0.0"
info:
  title: "Spec ` + string(rune('A'+i)) + `"
  version: "1.0"
paths: {}
`
		input := specInput{Content: content}
		if i == 0 {
			firstKey = input.cacheKey()
		}
		_, err := input.resolve()
		require.NoError(t, err)
	}

	// Cache should not exceed max size.
	assert.Equal(t, 10, specCache.size())

	// The first entry (oldest) should have been evicted.
	assert.Nil(t, specCache.get(firstKey), "expected oldest entry to be evicted")
}

func TestSpecCache_TTLExpiry(t *testing.T) {
	specCache.reset()
	doc, err := specInput{Content: testutil.SystemSpecYAML}.resolve()
	require.NoError(t, err)

	specCache.putWithTTL("expired", doc, -time.Second)
	assert.Nil(t, specCache.get("expired"))

	specCache.putWithTTL("swept", doc, -time.Second)
	specCache.sweep()
	assert.Equal(t, 1, specCache.size())
}

func TestSpecCache_Sweeper(t *testing.T) {
	specCache.reset()
	doc, err := specInput{Content: testutil.SystemSpecYAML}.resolve()
	require.NoError(t, err)
	specCache.putWithTTL("stale", doc, -time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	specCache.startSweeper(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return specCache.size() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestCacheKey(t *testing.T) {
	assert.Empty(t, specInput{}.cacheKey())
	assert.Empty(t, specInput{File: "/nonexistent/spec.yaml"}.cacheKey())
	assert.True(t, strings.HasPrefix(specInput{Content: "x"}.cacheKey(), "content:"))

	path := testutil.WriteTempSpec(t, "k.yaml", testutil.SystemSpecYAML)
	assert.True(t, strings.HasPrefix(specInput{File: path}.cacheKey(), "file:"))
}
