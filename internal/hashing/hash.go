package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/hasura/data-generator-sub003/internal/domain"
)

// HashCatalogs fingerprints an assembled catalog list. Catalog and rule
// order is significant because dispatch is first-match-wins.
func HashCatalogs(catalogs []domain.Catalog) (string, error) {
	canonical := make([]map[string]interface{}, len(catalogs))
	for i := range catalogs {
		canonical[i] = canonicalizeCatalog(&catalogs[i])
	}
	data, err := json.Marshal(canonical)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

func canonicalizeCatalog(c *domain.Catalog) map[string]interface{} {
	rules := make([]map[string]interface{}, len(c.Rules))
	for i, r := range c.Rules {
		rules[i] = map[string]interface{}{
			"table":     r.Table,
			"column":    r.Column,
			"default":   r.Default,
			"generator": canonicalizeGeneratorSpec(r.Generator),
		}
	}

	// Name and description are presentation only.
	return map[string]interface{}{
		"id":    c.ID,
		"rules": rules,
	}
}

func canonicalizeGeneratorSpec(spec domain.GeneratorSpec) map[string]interface{} {
	result := map[string]interface{}{
		"type": spec.Type,
	}
	if len(spec.Params) > 0 {
		result["params"] = canonicalizeValue(spec.Params)
	}
	return result
}

// canonicalizeValue rewrites YAML-decoded maps into string-keyed maps so
// json.Marshal can encode them with sorted keys.
func canonicalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, e := range val {
			out[k] = canonicalizeValue(e)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, e := range val {
			out[fmt.Sprint(k)] = canonicalizeValue(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = canonicalizeValue(e)
		}
		return out
	default:
		return val
	}
}
