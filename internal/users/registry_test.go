package users

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_Seed(t *testing.T) {
	r := NewRegistry(DefaultSeed()...)

	got := r.List()
	require.Len(t, got, 2)
	assert.Equal(t, User{ID: 1, Name: "John Doe", Email: "john@example.com"}, got[0])
	assert.Equal(t, User{ID: 2, Name: "Jane Smith", Email: "jane@example.com"}, got[1])
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry(DefaultSeed()...)

	u, err := r.Get(2)
	require.NoError(t, err)
	assert.Equal(t, User{ID: 2, Name: "Jane Smith", Email: "jane@example.com"}, u)

	for _, id := range []int{99, 0, -1} {
		_, err := r.Get(id)
		assert.ErrorIs(t, err, ErrNotFound, "id %d", id)
	}
}

func TestRegistry_GetReturnsFirstMatch(t *testing.T) {
	r := NewRegistry(
		User{ID: 7, Name: "first"},
		User{ID: 7, Name: "second"},
	)

	u, err := r.Get(7)
	require.NoError(t, err)
	assert.Equal(t, "first", u.Name)
}

func TestRegistry_CreateAppendsWithLengthBasedID(t *testing.T) {
	r := NewRegistry(DefaultSeed()...)

	before := r.Len()
	u := r.Create("Ann", "ann@x.com")
	assert.Equal(t, User{ID: 3, Name: "Ann", Email: "ann@x.com"}, u)
	assert.Equal(t, before+1, u.ID)

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, u, list[len(list)-1])
}

func TestRegistry_CreateIsNotIdempotent(t *testing.T) {
	r := NewRegistry(DefaultSeed()...)

	a := r.Create("Same", "same@x.com")
	b := r.Create("Same", "same@x.com")
	assert.Equal(t, a.ID+1, b.ID)
	assert.Len(t, r.List(), 4)
}

func TestRegistry_EmptyStartsAtOne(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.List())
	assert.Equal(t, 1, r.Create("a", "a@x").ID)
}

func TestRegistry_ReadsAreIdempotent(t *testing.T) {
	r := NewRegistry(DefaultSeed()...)

	assert.Equal(t, r.List(), r.List())
	a, errA := r.Get(1)
	b, errB := r.Get(1)
	assert.Equal(t, a, b)
	assert.Equal(t, errA, errB)
}

func TestRegistry_ListReturnsCopy(t *testing.T) {
	r := NewRegistry(DefaultSeed()...)

	list := r.List()
	list[0].Name = "mutated"

	u, err := r.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", u.Name)
}

func TestRegistry_Update(t *testing.T) {
	r := NewRegistry(DefaultSeed()...)

	u, err := r.Update(1, "Johnny", "")
	require.NoError(t, err)
	assert.Equal(t, User{ID: 1, Name: "Johnny", Email: "john@example.com"}, u)

	u, err = r.Update(1, "", "johnny@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Johnny", u.Name)
	assert.Equal(t, "johnny@example.com", u.Email)

	_, err = r.Update(42, "x", "y")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_Delete(t *testing.T) {
	r := NewRegistry(DefaultSeed()...)

	u, err := r.Delete(1)
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)

	list := r.List()
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].ID)

	_, err = r.Delete(1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_IDsStayUniqueAfterDelete(t *testing.T) {
	r := NewRegistry(DefaultSeed()...)

	_, err := r.Delete(1)
	require.NoError(t, err)

	u := r.Create("Ann", "ann@x.com")
	assert.Equal(t, 3, u.ID)

	seen := map[int]bool{}
	for _, u := range r.List() {
		assert.False(t, seen[u.ID], "duplicate id %d", u.ID)
		seen[u.ID] = true
	}
}

func TestRegistry_ConcurrentCreates(t *testing.T) {
	r := NewRegistry(DefaultSeed()...)

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Create("u", "u@x.com")
		}()
	}
	wg.Wait()

	list := r.List()
	require.Len(t, list, n+2)
	for i, u := range list {
		assert.Equal(t, i+1, u.ID)
	}
}
