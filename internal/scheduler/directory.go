package scheduler

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"
)

// MaxNameLength bounds user names, counted in characters.
const MaxNameLength = 500

// Directory holds registered participants and hands out sequential ids.
// It is safe for concurrent use.
type Directory struct {
	mu     sync.RWMutex
	users  []User
	ids    map[int]struct{}
	nextID int
}

// NewDirectory returns a directory pre-populated with seed. Seed ids must be
// positive and unique; later registrations continue after the largest one.
func NewDirectory(seed []User) (*Directory, error) {
	d := &Directory{ids: make(map[int]struct{}, len(seed)), nextID: 1}
	for _, user := range seed {
		if user.ID <= 0 {
			return nil, fmt.Errorf("scheduler: seed user %q has non-positive id %d", user.Name, user.ID)
		}
		if _, dup := d.ids[user.ID]; dup {
			return nil, fmt.Errorf("scheduler: duplicate seed user id %d", user.ID)
		}
		name, vErr := normalizeName(user.Name)
		if vErr.HasErrors() {
			return nil, fmt.Errorf("scheduler: seed user %d: %s", user.ID, vErr.FieldErrors["name"])
		}
		d.users = append(d.users, User{ID: user.ID, Name: name})
		d.ids[user.ID] = struct{}{}
		if user.ID >= d.nextID {
			d.nextID = user.ID + 1
		}
	}
	return d, nil
}

// Register stores a new user and returns it with its assigned id.
func (d *Directory) Register(name string) (User, error) {
	normalized, vErr := normalizeName(name)
	if vErr.HasErrors() {
		return User{}, vErr
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	user := User{ID: d.nextID, Name: normalized}
	d.nextID++
	d.users = append(d.users, user)
	d.ids[user.ID] = struct{}{}
	return user, nil
}

// Exists reports whether id belongs to a registered user.
func (d *Directory) Exists(id int) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.ids[id]
	return ok
}

// Get returns the user with the given id.
func (d *Directory) Get(id int) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if _, ok := d.ids[id]; !ok {
		return User{}, false
	}
	idx := slices.IndexFunc(d.users, func(u User) bool { return u.ID == id })
	return d.users[idx], true
}

// All returns every user in registration order.
func (d *Directory) All() []User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.users)
}

// Count returns the number of registered users.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

// Remove deletes the user and reports whether it existed. Meetings that
// reference the user are left untouched.
func (d *Directory) Remove(id int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.ids[id]; !ok {
		return false
	}
	delete(d.ids, id)
	d.users = slices.DeleteFunc(d.users, func(u User) bool { return u.ID == id })
	return true
}

func normalizeName(name string) (string, *ValidationError) {
	vErr := &ValidationError{}
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		vErr.add("name", "name is required")
	case utf8.RuneCountInString(trimmed) > MaxNameLength:
		vErr.add("name", fmt.Sprintf("name must be at most %d characters", MaxNameLength))
	}
	return trimmed, vErr
}
