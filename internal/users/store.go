package users

import (
	"errors"
	"slices"
	"strconv"
	"sync"
	"time"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("user not found")

// timeLayout is RFC 3339 with millisecond precision, always in UTC.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Store is an in-memory, insertion-ordered list of users. It is safe for
// concurrent use.
type Store struct {
	mu     sync.RWMutex
	users  []User
	nextID int
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithSeed preloads users. Ids assigned later continue after the largest
// numeric seeded id.
func WithSeed(users ...User) Option {
	return func(s *Store) {
		for _, u := range users {
			s.users = append(s.users, clone(u))
		}
	}
}

// NewStore creates a Store.
func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	s.nextID = 1
	for _, u := range s.users {
		if n, err := strconv.Atoi(u.ID); err == nil && n >= s.nextID {
			s.nextID = n + 1
		}
	}
	return s
}

// DefaultSeed returns the sample users served by a fresh instance.
func DefaultSeed() []User {
	return []User{
		{
			ID:        "1",
			Name:      "山田太郎",
			Email:     "yamada@example.com",
			Age:       ptr(25),
			CreatedAt: "2025-01-01T00:00:00Z",
		},
		{
			ID:        "2",
			Name:      "佐藤花子",
			Email:     "sato@example.com",
			Age:       ptr(30),
			CreatedAt: "2025-01-02T00:00:00Z",
		},
	}
}

// List returns every user in insertion order.
func (s *Store) List() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, len(s.users))
	for i, u := range s.users {
		out[i] = clone(u)
	}
	return out
}

// Get returns the user with the given id.
func (s *Store) Get(id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.users, func(u User) bool { return u.ID == id })
	if i < 0 {
		return User{}, ErrNotFound
	}
	return clone(s.users[i]), nil
}

// Create stores a new user with a fresh id and the current time.
func (s *Store) Create(in NewUser) User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := User{
		ID:        strconv.Itoa(s.nextID),
		Name:      in.Name,
		Email:     in.Email,
		CreatedAt: s.now().UTC().Format(timeLayout),
	}
	if in.Age != nil {
		u.Age = ptr(*in.Age)
	}
	s.nextID++
	s.users = append(s.users, u)
	return clone(u)
}

// Len returns the number of users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func clone(u User) User {
	if u.Age != nil {
		u.Age = ptr(*u.Age)
	}
	return u
}

func ptr[T any](v T) *T { return &v }
