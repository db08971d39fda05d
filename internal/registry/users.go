package registry

import "sync"

// User is the presence record for one registered connection.
type User struct {
	Name   string
	Mobile string
}

// Users maps each live connection to its registered user. A connection
// appears as a key at most once; nothing stops two connections from
// registering the same mobile, in which case direct-message lookups
// resolve to whichever entry a scan meets first (see FindByMobile).
type Users struct {
	mu     sync.RWMutex
	byConn map[ConnID]User
}

func NewUsers() *Users {
	return &Users{byConn: make(map[ConnID]User)}
}

// Register inserts or overwrites the entry for id. No uniqueness check
// is performed on mobile across connections.
func (r *Users) Register(id ConnID, name, mobile string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byConn[id] = User{Name: name, Mobile: mobile}
}

// Lookup returns the user registered for id, if any.
func (r *Users) Lookup(id ConnID) (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byConn[id]
	return u, ok
}

// FindByMobile scans all entries and returns the first connection whose
// user carries the given mobile. With duplicate registrations the winner
// is whichever entry map iteration meets first.
func (r *Users) FindByMobile(mobile string) (ConnID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, u := range r.byConn {
		if u.Mobile == mobile {
			return id, true
		}
	}
	return None, false
}

// Unregister removes and returns the prior entry for id. A connection
// that disconnected before registering yields ok=false.
func (r *Users) Unregister(id ConnID) (User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byConn[id]
	if ok {
		delete(r.byConn, id)
	}
	return u, ok
}

// All snapshots every registered user, skipping the excluded connection.
// Pass None to include everyone.
func (r *Users) All(except ConnID) []User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]User, 0, len(r.byConn))
	for id, u := range r.byConn {
		if id == except {
			continue
		}
		users = append(users, u)
	}
	return users
}

// IDs snapshots every registered connection, skipping the excluded one.
// Broadcasts iterate this snapshot so a concurrent join or leave cannot
// corrupt the map mid-send.
func (r *Users) IDs(except ConnID) []ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]ConnID, 0, len(r.byConn))
	for id := range r.byConn {
		if id == except {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of registered connections.
func (r *Users) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}
