package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/zerr"
)

// Hasher computes stable content states for resources. States are XXHash
// digests of content, used by the state store to detect changes that leave
// timestamps intact.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ResourceState returns the content state of a resource. File states hash
// the file bytes; directory states hash each contained file's relative path
// and bytes in sorted order; external states are the prober's token.
func (h *Hasher) ResourceState(res domain.Resource) (string, error) {
	switch r := res.(type) {
	case *File:
		digest := xxhash.New()
		if err := hashFile(digest, r.path); err != nil {
			return "", err
		}
		return fmt.Sprintf("%016x", digest.Sum64()), nil
	case *Dir:
		return h.dirState(r.path)
	case *External:
		fp := r.Fingerprint()
		if !fp.Known() {
			return "", zerr.With(zerr.New("external resource has no token"), "resource", r.id.String())
		}
		return domain.ExternalKey(r.id) + "=" + fp.Token(), nil
	default:
		return "", zerr.With(zerr.New("unhashable resource kind"), "resource", res.ID().String())
	}
}

func (h *Hasher) dirState(root string) (string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to walk directory"), "path", root)
	}
	sort.Strings(files)

	digest := xxhash.New()
	for _, path := range files {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return "", zerr.Wrap(err, "failed to relativize path")
		}
		_, _ = digest.WriteString(rel)
		_, _ = digest.Write([]byte{0}) // separator
		if err := hashFile(digest, path); err != nil {
			return "", err
		}
		_, _ = digest.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", digest.Sum64()), nil
}

func hashFile(digest *xxhash.Digest, path string) error {
	f, err := os.Open(path) //nolint:gosec // path is controlled by caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // best effort close in defer

	if _, err := io.Copy(digest, f); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return nil
}
