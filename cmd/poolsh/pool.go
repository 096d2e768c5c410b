package main

import (
	"fmt"

	"github.com/google/uuid"
)

// Pool is a named, ordered set of IPv4 address strings. Each entry is
// stamped with a unique id at insertion time, so entries can be tracked
// across a rename or a later bulk operation even though the address
// string itself is what the grammar matches on.
type Pool struct {
	Name      string
	Addresses []string
	entryIDs  []string
}

// Store holds every pool known to a running session, keyed by name.
type Store struct {
	pools map[string]*Pool
	order []string
}

// NewStore returns an empty pool store.
func NewStore() *Store {
	return &Store{pools: map[string]*Pool{}}
}

// Seed is the shape of the TOML file -seed loads: a list of pools, each
// with a name and an initial address list.
type Seed struct {
	Pools []struct {
		Name      string   `toml:"name"`
		Addresses []string `toml:"addresses"`
	} `toml:"pool"`
}

// LoadSeed populates the store from a parsed Seed, overwriting any pool
// of the same name.
func (s *Store) LoadSeed(seed *Seed) {
	for _, p := range seed.Pools {
		pool := &Pool{Name: p.Name, Addresses: append([]string{}, p.Addresses...)}
		for range pool.Addresses {
			pool.entryIDs = append(pool.entryIDs, uuid.New().String())
		}
		if _, exists := s.pools[p.Name]; !exists {
			s.order = append(s.order, p.Name)
		}
		s.pools[p.Name] = pool
	}
}

// AddPool creates an empty pool named name, unless one already exists.
func (s *Store) AddPool(name string) *Pool {
	if p, ok := s.pools[name]; ok {
		return p
	}
	p := &Pool{Name: name}
	s.pools[name] = p
	s.order = append(s.order, name)
	return p
}

// DelPool removes the pool named name. It reports whether one existed.
func (s *Store) DelPool(name string) bool {
	if _, ok := s.pools[name]; !ok {
		return false
	}
	delete(s.pools, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the pool named name, or nil if none exists.
func (s *Store) Get(name string) *Pool {
	return s.pools[name]
}

// Names returns every pool name, in creation order.
func (s *Store) Names() []string {
	return append([]string{}, s.order...)
}

// AddAddr appends addr to the pool if it isn't already present, and
// stamps it with a fresh id. It reports whether addr was added.
func (p *Pool) AddAddr(addr string) bool {
	for _, a := range p.Addresses {
		if a == addr {
			return false
		}
	}
	p.Addresses = append(p.Addresses, addr)
	p.entryIDs = append(p.entryIDs, uuid.New().String())
	return true
}

// DelAddr removes addr from the pool. It reports whether it was present.
func (p *Pool) DelAddr(addr string) bool {
	for i, a := range p.Addresses {
		if a == addr {
			p.Addresses = append(p.Addresses[:i], p.Addresses[i+1:]...)
			p.entryIDs = append(p.entryIDs[:i], p.entryIDs[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Pool) String() string {
	return fmt.Sprintf("%s: %v", p.Name, p.Addresses)
}
