package registry

import (
	"sync"

	"github.com/samber/lo"
)

// Groups maps each group name to its member connections. Names are
// case-sensitive and chosen by whichever client joins first. A group is
// created implicitly on first join and never deleted: once all members
// leave, the empty group stays known so the name keeps appearing in
// listings. Deliberate quirk, do not garbage-collect here.
type Groups struct {
	mu     sync.RWMutex
	byName map[string]map[ConnID]struct{}
}

func NewGroups() *Groups {
	return &Groups{byName: make(map[string]map[ConnID]struct{})}
}

// Exists reports whether name is a known group.
func (g *Groups) Exists(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.byName[name]
	return ok
}

// Names snapshots all known group names.
func (g *Groups) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return lo.Keys(g.byName)
}

// Join adds id to the group, creating the group first if the name is
// unseen. Joining twice is a no-op; membership is a set. The created
// flag tells the caller whether the group is brand new.
func (g *Groups) Join(name string, id ConnID) (created bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	members, ok := g.byName[name]
	if !ok {
		members = make(map[ConnID]struct{})
		g.byName[name] = members
		created = true
	}
	members[id] = struct{}{}
	return created
}

// Members snapshots the member set of a group, empty when the group is
// unknown.
func (g *Groups) Members(name string) []ConnID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return lo.Keys(g.byName[name])
}

// LeaveAll scrubs id from every group's member set. Called once per
// disconnect; groups that become empty are kept.
func (g *Groups) LeaveAll(id ConnID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, members := range g.byName {
		delete(members, id)
	}
}
