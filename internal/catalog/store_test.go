package catalog

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(v int) ID { return ID{Value: v, Valid: true} }

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestStore_List(t *testing.T) {
	store := NewStore(DefaultSeed())

	records := store.List()
	require.Len(t, records, 4)
	assert.Equal(t, Record{ID: 1, Name: "laptop", Price: 1000}, records[0])
	assert.Equal(t, Record{ID: 4, Name: "monitor", Price: 200}, records[3])

	// mutating the returned slice must not leak into the store
	records[0].Name = "changed"
	assert.Equal(t, "laptop", store.List()[0].Name)
}

func TestStore_NewStoreCopiesSeed(t *testing.T) {
	seed := DefaultSeed()
	store := NewStore(seed)
	seed[0].Name = "changed"

	rec, err := store.Get(id(1))
	require.NoError(t, err)
	assert.Equal(t, "laptop", rec.Name)
}

func TestStore_Get(t *testing.T) {
	store := NewStore(DefaultSeed())

	for _, want := range DefaultSeed() {
		got, err := store.Get(id(want.ID))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	tests := []struct {
		name string
		id   ID
	}{
		{"missing id", id(99)},
		{"zero id", id(0)},
		{"invalid id", ID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Get(tt.id)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_GetReturnsFirstDuplicate(t *testing.T) {
	store := NewStore(nil)
	store.Create(Record{ID: 7, Name: "first", Price: 1})
	store.Create(Record{ID: 7, Name: "second", Price: 2})

	rec, err := store.Get(id(7))
	require.NoError(t, err)
	assert.Equal(t, "first", rec.Name)
}

func TestStore_Update(t *testing.T) {
	t.Run("price only leaves name unchanged", func(t *testing.T) {
		store := NewStore([]Record{{1, "laptop", 1000}, {2, "mouse", 20}})

		rec, err := store.Update(id(2), Patch{Price: floatPtr(25)})
		require.NoError(t, err)
		assert.Equal(t, Record{ID: 2, Name: "mouse", Price: 25}, rec)
		assert.Equal(t, []Record{{1, "laptop", 1000}, {2, "mouse", 25}}, store.List())
	})

	t.Run("name only leaves price unchanged", func(t *testing.T) {
		store := NewStore(DefaultSeed())

		rec, err := store.Update(id(1), Patch{Name: strPtr("notebook")})
		require.NoError(t, err)
		assert.Equal(t, Record{ID: 1, Name: "notebook", Price: 1000}, rec)
	})

	t.Run("empty patch is a no-op", func(t *testing.T) {
		store := NewStore(DefaultSeed())

		rec, err := store.Update(id(3), Patch{})
		require.NoError(t, err)
		assert.Equal(t, DefaultSeed()[2], rec)
	})

	t.Run("explicit zero price is applied", func(t *testing.T) {
		store := NewStore(DefaultSeed())

		rec, err := store.Update(id(3), Patch{Price: floatPtr(0)})
		require.NoError(t, err)
		assert.Zero(t, rec.Price)
	})

	t.Run("missing id leaves collection unchanged", func(t *testing.T) {
		store := NewStore(DefaultSeed())

		_, err := store.Update(id(42), Patch{Name: strPtr("ghost"), Price: floatPtr(1)})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, DefaultSeed(), store.List())
	})
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(DefaultSeed())

	remaining := store.Delete(id(2))
	assert.Len(t, remaining, 3)
	assert.Equal(t, remaining, store.List())

	_, err := store.Get(id(2))
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting twice yields the same collection
	again := store.Delete(id(2))
	assert.Equal(t, remaining, again)
}

func TestStore_DeleteRemovesAllDuplicates(t *testing.T) {
	store := NewStore([]Record{{5, "a", 1}, {6, "b", 2}, {5, "c", 3}})

	remaining := store.Delete(id(5))
	assert.Equal(t, []Record{{6, "b", 2}}, remaining)
}

func TestStore_DeleteInvalidIDIsNoop(t *testing.T) {
	store := NewStore(DefaultSeed())

	remaining := store.Delete(ID{})
	assert.Equal(t, DefaultSeed(), remaining)
}

func TestStore_Create(t *testing.T) {
	store := NewStore(DefaultSeed())
	before := store.Len()

	r := Record{ID: 5, Name: "webcam", Price: 75}
	created := store.Create(r)
	assert.Equal(t, r, created)

	records := store.List()
	assert.Len(t, records, before+1)
	assert.Equal(t, r, records[len(records)-1])

	// duplicate ids are accepted
	store.Create(Record{ID: 5, Name: "webcam v2", Price: 80})
	assert.Equal(t, before+2, store.Len())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			store.Create(Record{ID: n, Name: "item", Price: float64(n)})
		}(i)
		go func() {
			defer wg.Done()
			_ = store.List()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, store.Len())
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		policy  IDPolicy
		want    ID
		wantErr error
	}{
		{"numeric lenient", "3", IDPolicyLenient, ID{Value: 3, Valid: true}, nil},
		{"numeric strict", "12", IDPolicyStrict, ID{Value: 12, Valid: true}, nil},
		{"negative", "-1", IDPolicyStrict, ID{Value: -1, Valid: true}, nil},
		{"non numeric lenient", "abc", IDPolicyLenient, ID{}, nil},
		{"non numeric strict", "abc", IDPolicyStrict, ID{}, ErrInvalidInput},
		{"empty strict", "", IDPolicyStrict, ID{}, ErrInvalidInput},
		{"decimal whole number", "2.0", IDPolicyStrict, ID{Value: 2, Valid: true}, nil},
		{"exponent", "1e0", IDPolicyLenient, ID{Value: 1, Valid: true}, nil},
		{"fractional matches nothing", "2.5", IDPolicyStrict, ID{}, nil},
		{"out of range matches nothing", "1e300", IDPolicyStrict, ID{}, nil},
		{"nan strict", "NaN", IDPolicyStrict, ID{}, ErrInvalidInput},
		{"infinity lenient", "Inf", IDPolicyLenient, ID{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.raw, tt.policy)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIDPolicy(t *testing.T) {
	p, err := ParseIDPolicy("")
	require.NoError(t, err)
	assert.Equal(t, IDPolicyLenient, p)

	p, err = ParseIDPolicy("STRICT")
	require.NoError(t, err)
	assert.Equal(t, IDPolicyStrict, p)

	_, err = ParseIDPolicy("loose")
	assert.Error(t, err)
}

func TestLoadSeedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	content := "- id: 10\n  name: tablet\n  price: 300\n- id: 11\n  name: stylus\n  price: 15.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	records, err := LoadSeedFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Record{{10, "tablet", 300}, {11, "stylus", 15.5}}, records)

	_, err = LoadSeedFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
