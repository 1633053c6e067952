package migration

import (
	"sort"
	"strings"

	"vendor-backend/internal/models"
	"vendor-backend/internal/sku"
)

// IDMap maps a legacy vendor product id to the id assigned by the catalog service
type IDMap map[int64]int64

// Lookup returns the external id mapped to legacyID
func (m IDMap) Lookup(legacyID int64) (int64, bool) {
	id, ok := m[legacyID]
	return id, ok
}

// LegacyIDs returns the mapped legacy ids in ascending order
func (m IDMap) LegacyIDs() []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// BuildIDMap derives the legacy to external mapping from catalog entries.
// Entries outside prefix or whose SKU carries no legacy id are ignored.
// When two entries resolve to the same legacy id the later one wins.
func BuildIDMap(prefix string, refs []models.ExternalProductRef) IDMap {
	m := make(IDMap, len(refs))
	for _, ref := range refs {
		if !strings.HasPrefix(ref.SKU, prefix) {
			continue
		}
		legacyID, ok := sku.LegacyID(ref.SKU)
		if !ok || ref.ID <= 0 {
			continue
		}
		m[legacyID] = ref.ID
	}
	return m
}
