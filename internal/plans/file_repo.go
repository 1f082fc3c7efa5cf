package plans

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hasura/data-generator-sub003/internal/domain"
	"gopkg.in/yaml.v3"
)

type Repository interface {
	List() ([]*domain.Plan, error)
	Get(id string) (*domain.Plan, error)
	GetByPath(path string) (*domain.Plan, error)
}

type FileRepository struct {
	baseDir string
}

func NewFileRepository(baseDir string) *FileRepository {
	return &FileRepository{baseDir: baseDir}
}

func (r *FileRepository) List() ([]*domain.Plan, error) {
	if _, err := os.Stat(r.baseDir); os.IsNotExist(err) {
		return []*domain.Plan{}, nil
	}

	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, err
	}

	plans := make([]*domain.Plan, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}

		plan, err := loadPlan(filepath.Join(r.baseDir, entry.Name()))
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	return plans, nil
}

func (r *FileRepository) Get(id string) (*domain.Plan, error) {
	plans, err := r.List()
	if err != nil {
		return nil, err
	}

	for _, p := range plans {
		if p.ID == id || p.Name == id {
			return p, nil
		}
	}

	return nil, fmt.Errorf("plan not found: %s", id)
}

// GetByPath loads a plan file inside the base directory.
func (r *FileRepository) GetByPath(path string) (*domain.Plan, error) {
	base, err := filepath.Abs(r.baseDir)
	if err != nil {
		return nil, err
	}
	candidate := path
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(base, candidate)
	}
	candidate = filepath.Clean(candidate)
	rel, err := filepath.Rel(base, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("plan path %q is outside %s", path, r.baseDir)
	}
	return loadPlan(candidate)
}

// Load reads a plan file from any location, for explicit --plan-path use.
func Load(path string) (*domain.Plan, error) {
	return loadPlan(path)
}

func loadPlan(path string) (*domain.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var plan domain.Plan
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(data, &plan)
	} else {
		err = yaml.Unmarshal(data, &plan)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if plan.ID == "" {
		base := filepath.Base(path)
		plan.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return &plan, nil
}

// ApplyRowOverrides returns a copy of plan with row counts replaced for the
// named tables. Unknown tables are an error.
func ApplyRowOverrides(plan *domain.Plan, overrides map[string]int64) (*domain.Plan, error) {
	out := *plan
	out.Tables = append([]domain.TablePlan(nil), plan.Tables...)
	used := make(map[string]bool, len(overrides))
	for i := range out.Tables {
		if n, ok := overrides[out.Tables[i].Table]; ok {
			if n <= 0 {
				return nil, fmt.Errorf("rows for %s must be > 0, got %d", out.Tables[i].Table, n)
			}
			out.Tables[i].Rows = n
			used[out.Tables[i].Table] = true
		}
	}
	for table := range overrides {
		if !used[table] {
			return nil, fmt.Errorf("row override for unknown table: %s", table)
		}
	}
	return &out, nil
}
