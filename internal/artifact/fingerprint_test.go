package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectSources(t *testing.T) {
	root := newWorkspace(t)

	files, err := CollectSources(root, DefaultConfig().Sources)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"cmd/rational_impl/main.go",
		"go.mod",
		"go.sum",
		"internal/arith/arith.go",
		"internal/boundary/boundary.go",
		"internal/ratio/doc.go",
		"internal/ratio/rational.go",
	}, files)
}

func TestCollectSourcesMissing(t *testing.T) {
	_, err := CollectSources(t.TempDir(), []string{"nope"})
	assert.Error(t, err)
}

func TestCollectSourcesDeduplicates(t *testing.T) {
	root := newWorkspace(t)

	files, err := CollectSources(root, []string{"internal/ratio", "internal/ratio/doc.go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"internal/ratio/doc.go", "internal/ratio/rational.go"}, files)
}

func TestComputeFingerprint(t *testing.T) {
	root := newWorkspace(t)
	ctx := context.Background()
	files, err := CollectSources(root, DefaultConfig().Sources)
	require.NoError(t, err)

	a, err := ComputeFingerprint(ctx, root, files, "dynamic")
	require.NoError(t, err)
	assert.Len(t, a.Sum, 64)
	assert.Equal(t, files, a.Files)

	t.Run("stable", func(t *testing.T) {
		b, err := ComputeFingerprint(ctx, root, files, "dynamic")
		require.NoError(t, err)
		assert.Equal(t, a.Sum, b.Sum)
	})

	t.Run("params", func(t *testing.T) {
		b, err := ComputeFingerprint(ctx, root, files, "static")
		require.NoError(t, err)
		assert.NotEqual(t, a.Sum, b.Sum)
	})

	t.Run("content", func(t *testing.T) {
		p := filepath.Join(root, "internal", "arith", "arith.go")
		require.NoError(t, os.WriteFile(p, []byte("package arith\n\nconst x = 1\n"), 0o644))
		b, err := ComputeFingerprint(ctx, root, files, "dynamic")
		require.NoError(t, err)
		assert.NotEqual(t, a.Sum, b.Sum)
	})
}

func TestComputeFingerprintMissingFile(t *testing.T) {
	_, err := ComputeFingerprint(context.Background(), t.TempDir(), []string{"gone.go"})
	assert.Error(t, err)
}

func TestComputeFingerprintCancelled(t *testing.T) {
	root := newWorkspace(t)
	files, err := CollectSources(root, DefaultConfig().Sources)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ComputeFingerprint(ctx, root, files)
	assert.ErrorIs(t, err, context.Canceled)
}
