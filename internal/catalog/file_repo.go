package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hasura/data-generator-sub003/internal/domain"
)

type Repository interface {
	List() ([]*domain.Catalog, error)
	Get(id string) (*domain.Catalog, error)
	GetByPath(path string) (*domain.Catalog, error)
}

type FileRepository struct {
	baseDir string
}

func NewFileRepository(baseDir string) *FileRepository {
	return &FileRepository{baseDir: baseDir}
}

func (r *FileRepository) List() ([]*domain.Catalog, error) {
	if _, err := os.Stat(r.baseDir); os.IsNotExist(err) {
		return []*domain.Catalog{}, nil
	}

	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, err
	}

	catalogs := make([]*domain.Catalog, 0)
	for _, entry := range entries {
		if entry.IsDir() || !isCatalogFile(entry.Name()) {
			continue
		}
		c, err := r.load(filepath.Join(r.baseDir, entry.Name()))
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, c)
	}

	return catalogs, nil
}

func (r *FileRepository) Get(id string) (*domain.Catalog, error) {
	catalogs, err := r.List()
	if err != nil {
		return nil, err
	}

	for _, c := range catalogs {
		if c.ID == id || c.Name == id {
			return c, nil
		}
	}

	return nil, fmt.Errorf("catalog not found: %s", id)
}

// GetByPath loads a catalog file. Relative paths resolve against the base
// directory and the result must stay inside it.
func (r *FileRepository) GetByPath(path string) (*domain.Catalog, error) {
	resolved, err := r.resolve(path)
	if err != nil {
		return nil, err
	}
	return r.load(resolved)
}

func (r *FileRepository) resolve(path string) (string, error) {
	base, err := filepath.Abs(r.baseDir)
	if err != nil {
		return "", err
	}
	candidate := path
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(base, candidate)
	}
	candidate = filepath.Clean(candidate)
	rel, err := filepath.Rel(base, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("catalog path %q is outside %s", path, r.baseDir)
	}
	return candidate, nil
}

func (r *FileRepository) load(path string) (*domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(path, data)
}

func isCatalogFile(name string) bool {
	switch filepath.Ext(name) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
