package artifact

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"
)

// Fingerprint identifies a companion source tree together with the
// parameters it is built with.
type Fingerprint struct {
	Sum   string
	Files []string // workspace-relative, slash-separated, sorted
}

// sourceExts are the file types that affect the built artifact.
var sourceExts = map[string]bool{
	".go": true,
	".c":  true,
	".h":  true,
	".s":  true,
	".S":  true,
}

// CollectSources expands sources (files or directories, relative to root)
// into the sorted list of files that feed the build. Test files and
// testdata directories are excluded.
func CollectSources(root string, sources []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(abs string) error {
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !seen[rel] {
			seen[rel] = true
			files = append(files, rel)
		}
		return nil
	}

	for _, src := range sources {
		abs := filepath.Join(root, filepath.FromSlash(src))
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src, err)
		}
		if !info.IsDir() {
			if err := add(abs); err != nil {
				return nil, err
			}
			continue
		}

		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != abs && (d.Name() == "testdata" || strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_")) {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(d.Name(), "_test.go") || !sourceExts[filepath.Ext(d.Name())] {
				return nil
			}
			return add(path)
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", src, err)
		}
	}

	slices.Sort(files)
	return files, nil
}

// ComputeFingerprint hashes params and every file in files (relative to
// root) with BLAKE3. Files are hashed concurrently; the combined sum is
// independent of scheduling.
func ComputeFingerprint(ctx context.Context, root string, files []string, params ...string) (Fingerprint, error) {
	digests := make([][32]byte, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, rel := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sum, err := hashFile(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				return fmt.Errorf("hash %s: %w", rel, err)
			}
			digests[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Fingerprint{}, err
	}

	h := blake3.New()
	for _, p := range params {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	for i, rel := range files {
		h.Write([]byte(rel))
		h.Write([]byte{0})
		h.Write(digests[i][:])
	}

	return Fingerprint{
		Sum:   hex.EncodeToString(h.Sum(nil)),
		Files: files,
	}, nil
}

func hashFile(path string) ([32]byte, error) {
	var sum [32]byte
	f, err := os.Open(path)
	if err != nil {
		return sum, err
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return sum, err
	}
	copy(sum[:], h.Sum(nil))
	return sum, nil
}
