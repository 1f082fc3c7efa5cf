package catalog

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/hasura/data-generator-sub003/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var builtinFS embed.FS

// Builtin returns the embedded catalogs in filename order.
func Builtin() ([]domain.Catalog, error) {
	entries, err := fs.ReadDir(builtinFS, "data")
	if err != nil {
		return nil, err
	}
	out := make([]domain.Catalog, 0, len(entries))
	for _, entry := range entries {
		name := path.Join("data", entry.Name())
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		c, err := decode(name, data)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

// Load assembles the catalogs for a run: those in dir first, then the
// embedded ones. A catalog in dir replaces the embedded catalog with the
// same id. An empty dir yields only the embedded catalogs.
func Load(dir string) ([]domain.Catalog, error) {
	var user []domain.Catalog
	if dir != "" {
		list, err := NewFileRepository(dir).List()
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool, len(list))
		for _, c := range list {
			if seen[c.ID] {
				return nil, fmt.Errorf("duplicate catalog id %q in %s", c.ID, dir)
			}
			seen[c.ID] = true
			user = append(user, *c)
		}
	}

	builtin, err := Builtin()
	if err != nil {
		return nil, fmt.Errorf("failed to load builtin catalogs: %w", err)
	}

	out := make([]domain.Catalog, 0, len(user)+len(builtin))
	out = append(out, user...)
	overridden := make(map[string]bool, len(user))
	for _, c := range user {
		overridden[c.ID] = true
	}
	for _, c := range builtin {
		if !overridden[c.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func decode(name string, data []byte) (*domain.Catalog, error) {
	var c domain.Catalog
	if filepath.Ext(name) == ".json" {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.ID == "" {
		base := filepath.Base(name)
		c.ID = base[:len(base)-len(filepath.Ext(base))]
	}
	return &c, nil
}
