package users

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when no user carries the requested id.
var ErrNotFound = errors.New("user not found")

// User is a single record held by the Registry.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DefaultSeed returns the records present at process start.
func DefaultSeed() []User {
	return []User{
		{ID: 1, Name: "John Doe", Email: "john@example.com"},
		{ID: 2, Name: "Jane Smith", Email: "jane@example.com"},
	}
}

// Registry is a thread-safe, ordered, in-memory collection of users.
// All public methods are safe for concurrent use and hand out copies, so
// callers never alias the backing slice.
type Registry struct {
	mu     sync.RWMutex
	users  []User
	nextID int
}

// NewRegistry creates a registry holding the given seed records in order.
func NewRegistry(seed ...User) *Registry {
	r := &Registry{users: make([]User, 0, len(seed))}
	r.users = append(r.users, seed...)
	r.nextID = len(r.users) + 1
	for _, u := range r.users {
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
	}
	return r
}

// List returns every user in insertion order.
func (r *Registry) List() []User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]User, len(r.users))
	copy(out, r.users)
	return out
}

// Len returns the number of users currently held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// Get returns the first user whose id equals id.
func (r *Registry) Get(id int) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.users[i], nil
	}
	return User{}, ErrNotFound
}

// Create appends a new user and returns it with its assigned id.
//
// Ids come from a counter that starts at len(seed)+1 and only moves
// forward. Until something is deleted this is exactly len(users)+1 at the
// moment of insertion; after a delete it keeps ids unique instead of
// reusing the length.
func (r *Registry) Create(name, email string) User {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := User{ID: r.nextID, Name: name, Email: email}
	r.nextID++
	r.users = append(r.users, u)
	return u
}

// Update merges the non-empty fields into the user with the given id and
// returns the result.
func (r *Registry) Update(id int, name, email string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return User{}, ErrNotFound
	}
	if name != "" {
		r.users[i].Name = name
	}
	if email != "" {
		r.users[i].Email = email
	}
	return r.users[i], nil
}

// Delete removes the user with the given id and returns it.
func (r *Registry) Delete(id int) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return User{}, ErrNotFound
	}
	u := r.users[i]
	r.users = append(r.users[:i], r.users[i+1:]...)
	return u, nil
}

// indexOf must be called with mu held.
func (r *Registry) indexOf(id int) int {
	for i, u := range r.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
