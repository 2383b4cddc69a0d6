package users_test

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/usersapi/internal/users"
	"github.com/bjaus/usersapi/schema"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 4, 5, 6, 7, 891_000_000, time.FixedZone("JST", 9*60*60))
}

func TestStore_empty(t *testing.T) {
	t.Parallel()

	s := users.NewStore()

	list := s.List()
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err := s.Get("1")
	assert.ErrorIs(t, err, users.ErrNotFound)
}

func TestStore_seeded(t *testing.T) {
	t.Parallel()

	s := users.NewStore(users.WithSeed(users.DefaultSeed()...))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].ID)
	assert.Equal(t, "山田太郎", list[0].Name)
	assert.Equal(t, "2", list[1].ID)

	u, err := s.Get("2")
	require.NoError(t, err)
	assert.Equal(t, "sato@example.com", u.Email)
	require.NotNil(t, u.Age)
	assert.Equal(t, 30, *u.Age)

	for _, u := range users.DefaultSeed() {
		assert.True(t, schema.Check(users.Schema, u).OK(), "seed %s must be a valid user", u.ID)
	}
}

func TestStore_create(t *testing.T) {
	t.Parallel()

	s := users.NewStore(users.WithSeed(users.DefaultSeed()...), users.WithClock(fixedClock))

	age := 40
	u := s.Create(users.NewUser{Name: "A", Email: "a@example.com", Age: &age})

	assert.Equal(t, "3", u.ID)
	assert.Equal(t, "2025-03-03T20:06:07.891Z", u.CreatedAt)
	require.NotNil(t, u.Age)
	assert.Equal(t, 40, *u.Age)

	age = 41
	assert.Equal(t, 40, *u.Age, "input is copied")

	next := s.Create(users.NewUser{Name: "B", Email: "b@example.com"})
	assert.Equal(t, "4", next.ID)
	assert.Nil(t, next.Age)

	list := s.List()
	require.Len(t, list, 4)
	assert.Equal(t, []string{"1", "2", "3", "4"}, []string{list[0].ID, list[1].ID, list[2].ID, list[3].ID})
	assert.Equal(t, 4, s.Len())
}

func TestStore_createdAtIsValid(t *testing.T) {
	t.Parallel()

	s := users.NewStore()
	u := s.Create(users.NewUser{Name: "A", Email: "a@example.com"})

	_, err := time.Parse(time.RFC3339, u.CreatedAt)
	require.NoError(t, err)
	assert.True(t, schema.Check(users.Schema, u).OK())
}

func TestStore_seedContinuesIDs(t *testing.T) {
	t.Parallel()

	s := users.NewStore(users.WithSeed(
		users.User{ID: "7", Name: "x", Email: "x@example.com"},
		users.User{ID: "legacy", Name: "y", Email: "y@example.com"},
	))

	assert.Equal(t, "8", s.Create(users.NewUser{Name: "z", Email: "z@example.com"}).ID)
}

func TestStore_returnsCopies(t *testing.T) {
	t.Parallel()

	s := users.NewStore(users.WithSeed(users.DefaultSeed()...))

	list := s.List()
	list[0].Name = "changed"
	*list[0].Age = 99

	u, err := s.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "山田太郎", u.Name)
	assert.Equal(t, 25, *u.Age)
}

func TestStore_concurrentCreate(t *testing.T) {
	t.Parallel()

	s := users.NewStore()

	const n = 50
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- s.Create(users.NewUser{Name: "u" + strconv.Itoa(i), Email: "u@example.com"}).ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, s.Len())
}
