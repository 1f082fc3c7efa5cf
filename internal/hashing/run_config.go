package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/hasura/data-generator-sub003/internal/domain"
)

type runConfigHashPayload struct {
	CatalogHash    string           `json:"catalog_hash"`
	PlanID         string           `json:"plan_id"`
	Tables         []string         `json:"tables"`
	Columns        [][]string       `json:"columns"`
	ResolvedCounts map[string]int64 `json:"resolved_counts"`
	KeysKind       string           `json:"keys_kind"`
	Seed           int64            `json:"seed"`
}

// HashRunConfig fingerprints everything that determines a run's output:
// the catalogs, the plan's table and column order, the resolved row counts,
// the upstream key source kind and the seed.
func HashRunConfig(catalogHash string, plan *domain.Plan, resolvedCounts map[string]int64, keysKind string, seed int64) (string, error) {
	p := runConfigHashPayload{
		CatalogHash:    catalogHash,
		PlanID:         plan.ID,
		Tables:         make([]string, len(plan.Tables)),
		Columns:        make([][]string, len(plan.Tables)),
		ResolvedCounts: make(map[string]int64, len(resolvedCounts)),
		KeysKind:       keysKind,
		Seed:           seed,
	}
	for i, t := range plan.Tables {
		p.Tables[i] = t.Table
		p.Columns[i] = t.Columns
	}
	for k, v := range resolvedCounts {
		p.ResolvedCounts[k] = v
	}

	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
