package tally

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tally/internal/kv"
	"github.com/mesh-intelligence/tally/pkg/planner"
	"github.com/mesh-intelligence/tally/pkg/types"
)

func TestPersistWritesFullState(t *testing.T) {
	store := kv.NewMemory()
	s := newStore(t, store)
	require.NoError(t, s.Submit("Ceramics", "100"))
	require.NoError(t, s.Submit("Ceramics", "12.5"))

	data, err := store.Get(types.DefaultStorageKey)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)

	assert.Equal(t, "Ceramics", got[0]["name"])
	assert.Equal(t, []any{40.0, 80.0, 160.0, 320.0}, got[0]["sizes"])
	assert.Equal(t, []any{100.0, 12.5}, got[0]["submittedValues"])
	assert.Equal(t, map[string]any{"80": 1.0, "40": 1.0}, got[0]["selected"])

	assert.Equal(t, "Metals", got[1]["name"])
	assert.Equal(t, []any{}, got[1]["submittedValues"])
	assert.Equal(t, map[string]any{}, got[1]["selected"])
}

func TestLoadRestoresState(t *testing.T) {
	store := kv.NewMemory()
	s := newStore(t, store)
	require.NoError(t, s.Submit("Ceramics", "100"))
	require.NoError(t, s.Submit("Ceramics", "50"))
	require.NoError(t, s.Submit("Metals", "250"))

	restored := newStore(t, store)
	restored.Load()

	assert.Equal(t, s.Categories(), restored.Categories())
}

func TestLoadWithoutSavedState(t *testing.T) {
	s := newStore(t, kv.NewMemory())
	s.Load()
	assert.Equal(t, newStore(t, kv.NewMemory()).Categories(), s.Categories())
}

func TestLoadMalformedBlobMatchesEmpty(t *testing.T) {
	for _, blob := range []string{`{not json`, `{"name":"Ceramics"}`, `42`, `"text"`} {
		t.Run(blob, func(t *testing.T) {
			store := kv.NewMemory()
			require.NoError(t, store.Set(types.DefaultStorageKey, []byte(blob)))

			s := newStore(t, store)
			s.Load()

			assert.Equal(t, newStore(t, kv.NewMemory()).Categories(), s.Categories())

			_, err := store.Get(types.DefaultStorageKey)
			assert.ErrorIs(t, err, types.ErrKeyNotFound, "unreadable blob is purged")
		})
	}
}

func TestLoadDefaultsEachCategoryIndependently(t *testing.T) {
	blob := `[
		{"name": "Ceramics", "sizes": [40, 80, 160, 320], "selected": {"999": 1}, "submittedValues": [100, 50]},
		{"name": "Metals", "submittedValues": ["oops"]}
	]`
	store := kv.NewMemory()
	require.NoError(t, store.Set(types.DefaultStorageKey, []byte(blob)))

	s := newStore(t, store)
	s.Load()

	assert.Equal(t, []string{"100", "50"}, amounts(t, s, "Ceramics"))
	counts, err := s.RecommendedCounts("Ceramics")
	require.NoError(t, err)
	assert.Equal(t, planner.Counts{80: 1, 40: 2}, counts, "selected is recomputed, not trusted")

	assert.Empty(t, amounts(t, s, "Metals"))

	_, err = store.Get(types.DefaultStorageKey)
	assert.NoError(t, err, "a partially valid blob is kept")
}

func TestLoadSkipsInvalidAmounts(t *testing.T) {
	tests := map[string]string{
		"negative":        `[{"name": "Metals", "submittedValues": [10, -5]}]`,
		"zero":            `[{"name": "Metals", "submittedValues": [0]}]`,
		"null":            `[{"name": "Metals", "submittedValues": [null]}]`,
		"not list":        `[{"name": "Metals", "submittedValues": 10}]`,
		"scalar":          `[7, {"name": "Ceramics", "submittedValues": [40]}]`,
		"infinite":        `[{"name": "Metals", "submittedValues": [1e400]}]`,
		"too large":       `[{"name": "Metals", "submittedValues": [1e19]}]`,
		"total too large": `[{"name": "Metals", "submittedValues": [900000000000000, 200000000000000]}]`,
	}
	for name, blob := range tests {
		t.Run(name, func(t *testing.T) {
			store := kv.NewMemory()
			require.NoError(t, store.Set(types.DefaultStorageKey, []byte(blob)))

			s := newStore(t, store)
			s.Load()

			assert.Empty(t, amounts(t, s, "Metals"))
		})
	}
}

func TestLoadIgnoresUnknownCategories(t *testing.T) {
	blob := `[{"name": "Gold", "submittedValues": [5]}, {"name": "Metals", "submittedValues": [5]}]`
	store := kv.NewMemory()
	require.NoError(t, store.Set(types.DefaultStorageKey, []byte(blob)))

	s := newStore(t, store)
	s.Load()

	assert.Equal(t, []string{"5"}, amounts(t, s, "Metals"))
	assert.Len(t, s.Categories(), 2)
}

func TestLoadReadFailureKeepsEmptyState(t *testing.T) {
	s := newStore(t, &failingKV{})
	s.Load()
	for _, v := range s.Categories() {
		assert.Empty(t, v.Submitted)
	}
}

func TestLoadUsesConfiguredKey(t *testing.T) {
	store := kv.NewMemory()
	s := newStore(t, store, WithKey("session-a"))
	require.NoError(t, s.Submit("Metals", "60"))

	_, err := store.Get(types.DefaultStorageKey)
	assert.ErrorIs(t, err, types.ErrKeyNotFound)

	other := newStore(t, store, WithKey("session-a"))
	other.Load()
	assert.Equal(t, []string{"60"}, amounts(t, other, "Metals"))
}

func TestLoadReplacesInMemoryState(t *testing.T) {
	store := kv.NewMemory()
	s := newStore(t, store)
	require.NoError(t, s.Submit("Metals", "60"))
	require.NoError(t, store.Delete(types.DefaultStorageKey))
	require.NoError(t, s.SetInput("Ceramics", "9"))

	s.Load()

	assert.Empty(t, amounts(t, s, "Metals"))
	assert.Empty(t, s.Input("Ceramics"))
}
