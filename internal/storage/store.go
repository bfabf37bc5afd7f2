package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	CategoryUploads  = "uploads"
	CategoryVariants = "variants"

	tempPrefix = "tmp_"
)

// Store owns the on-disk media tree and performs crash-safe writes: output
// is always produced under a temp name in the destination directory and made
// visible with a single rename, so a reader of a committed path never
// observes a partially written file.
type Store struct {
	mediaRoot   string
	assetsDir   string
	uploadsDir  string
	variantsDir string
}

func NewStore(cfg *config.Config) (*Store, error) {
	mediaRoot, err := filepath.Abs(cfg.Media.MediaRoot)
	if err != nil {
		return nil, errors.Wrap(err, "storage.NewStore.mediaRoot")
	}
	assetsDir, err := filepath.Abs(cfg.Media.AssetsDir)
	if err != nil {
		return nil, errors.Wrap(err, "storage.NewStore.assetsDir")
	}
	uploadsDir := cfg.Media.UploadsDir
	if uploadsDir == "" {
		uploadsDir = filepath.Join(mediaRoot, "uploads")
	}
	variantsDir := cfg.Media.VariantsDir
	if variantsDir == "" {
		variantsDir = filepath.Join(mediaRoot, "variants")
	}
	return &Store{
		mediaRoot:   mediaRoot,
		assetsDir:   assetsDir,
		uploadsDir:  uploadsDir,
		variantsDir: variantsDir,
	}, nil
}

// EnsureDirs creates the media directories if missing.
func (s *Store) EnsureDirs() error {
	for _, dir := range []string{s.uploadsDir, s.variantsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "storage.EnsureDirs %s", dir)
		}
	}
	return nil
}

// TempAndFinal returns a fresh temp path and its final path in the given
// category directory. Both share the directory so Commit is a same-device
// rename.
func (s *Store) TempAndFinal(category, ext string) (string, string, error) {
	var dir string
	switch category {
	case CategoryUploads:
		dir = s.uploadsDir
	case CategoryVariants:
		dir = s.variantsDir
	default:
		return "", "", errors.Errorf("storage: unknown category %q", category)
	}
	name := uuid.New().String()
	tempPath := filepath.Join(dir, tempPrefix+name+ext)
	finalPath := filepath.Join(dir, name+ext)
	return tempPath, finalPath, nil
}

// Commit atomically renames a fully written temp file to its final path.
func (s *Store) Commit(tempPath, finalPath string) error {
	if err := os.Rename(tempPath, finalPath); err != nil {
		return errors.Wrap(err, "storage.Commit")
	}
	return nil
}

// Discard removes a temp file left behind by a failed run.
func (s *Store) Discard(tempPath string) {
	_ = os.Remove(tempPath)
}

// SaveUpload writes an uploaded stream through the temp-then-rename protocol
// and returns the final path and byte size.
func (s *Store) SaveUpload(r io.Reader, ext string) (string, int64, error) {
	if err := s.EnsureDirs(); err != nil {
		return "", 0, err
	}
	tempPath, finalPath, err := s.TempAndFinal(CategoryUploads, ext)
	if err != nil {
		return "", 0, err
	}
	out, err := os.Create(tempPath)
	if err != nil {
		return "", 0, errors.Wrap(err, "storage.SaveUpload.create")
	}
	size, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.Discard(tempPath)
		return "", 0, errors.Wrap(err, "storage.SaveUpload.write")
	}
	if err := s.Commit(tempPath, finalPath); err != nil {
		s.Discard(tempPath)
		return "", 0, err
	}
	return finalPath, size, nil
}

// FileSize stats a committed file.
func (s *Store) FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.Wrap(err, "storage.FileSize")
	}
	return info.Size(), nil
}

// VariantFileName derives the S3 object key component from a committed
// variant path.
func VariantFileName(path string) string {
	return filepath.Base(path)
}

// trim helper for extension handling on uploads
func SafeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || len(ext) > 8 {
		return ".bin"
	}
	return ext
}
