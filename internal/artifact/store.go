package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yuzeguitarist/qrgen/internal/app"
)

var ErrNotFound = errors.New("artifact not found")

type Artifact struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// Store is a flat directory of generated images shared by every request.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("artifact dir is empty")
	}
	if err := app.EnsureDir(dir, 0755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save writes data under name, replacing any existing file of that name.
func (s *Store) Save(name string, data []byte) (Artifact, error) {
	if !filepath.IsLocal(name) || strings.ContainsRune(name, filepath.Separator) {
		return Artifact{}, fmt.Errorf("invalid artifact name %q", name)
	}
	path := filepath.Join(s.dir, name)
	if err := app.AtomicWriteFile(path, 0644, data); err != nil {
		return Artifact{}, fmt.Errorf("write %s: %w", name, err)
	}
	return Artifact{Name: name, Path: path, Size: int64(len(data)), ModTime: time.Now()}, nil
}

// Open resolves rel inside the store. Paths escaping the store, directories and
// missing files all report ErrNotFound.
func (s *Store) Open(rel string) (*os.File, fs.FileInfo, error) {
	if rel == "" || !filepath.IsLocal(rel) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	f, err := os.Open(filepath.Join(s.dir, rel))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	return f, info, nil
}

// List returns stored images, newest first.
func (s *Store) List() ([]Artifact, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []Artifact
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), ".png") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Artifact{
			Name:    e.Name(),
			Path:    filepath.Join(s.dir, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ModTime.Equal(out[j].ModTime) {
			return out[i].Name < out[j].Name
		}
		return out[i].ModTime.After(out[j].ModTime)
	})
	return out, nil
}
