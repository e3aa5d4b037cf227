package authz

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPermission is returned when a role references a key outside the catalog.
	ErrUnknownPermission = errors.New("unknown permission")
	// ErrNoGrant is returned by grant lookups when the caller has no usable
	// grant at all, e.g. the account was deleted or disabled.
	ErrNoGrant = errors.New("caller has no grant")
)

// Permission describes one grantable right.
type Permission struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

// Module groups related permissions for display.
type Module struct {
	Name        string       `json:"name"`
	Label       string       `json:"label"`
	Permissions []Permission `json:"permissions"`
}

// Catalog is the fixed universe of permissions, grouped by module.
// A Catalog is never modified after construction, so a single value may be
// shared by any number of goroutines.
type Catalog struct {
	modules []Module
	index   map[string]Permission
	keys    []string
}

// NewCatalog builds a catalog from modules. Duplicate keys keep their first
// definition.
func NewCatalog(modules ...Module) *Catalog {
	c := &Catalog{index: make(map[string]Permission)}
	for _, m := range modules {
		c.add(m)
	}
	return c
}

func (c *Catalog) add(m Module) {
	copied := Module{Name: m.Name, Label: m.Label}
	for _, p := range m.Permissions {
		if _, dup := c.index[p.Key]; dup || p.Key == Wildcard {
			continue
		}
		c.index[p.Key] = p
		c.keys = append(c.keys, p.Key)
		copied.Permissions = append(copied.Permissions, p)
	}
	c.modules = append(c.modules, copied)
}

// With returns a new catalog holding c's modules followed by extra.
// c itself is left untouched.
func (c *Catalog) With(extra ...Module) *Catalog {
	next := NewCatalog(c.modules...)
	for _, m := range extra {
		next.add(m)
	}
	return next
}

// Tree returns a copy of the module tree suitable for client rendering.
func (c *Catalog) Tree() []Module {
	out := make([]Module, len(c.modules))
	for i, m := range c.modules {
		out[i] = Module{
			Name:        m.Name,
			Label:       m.Label,
			Permissions: append([]Permission(nil), m.Permissions...),
		}
	}
	return out
}

// Keys returns every permission key in catalog order.
func (c *Catalog) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Contains reports whether key is a catalog permission.
func (c *Catalog) Contains(key string) bool {
	_, ok := c.index[key]
	return ok
}

// Lookup returns the metadata of key.
func (c *Catalog) Lookup(key string) (Permission, bool) {
	p, ok := c.index[key]
	return p, ok
}

// Validate checks that every key is either the wildcard or a catalog permission.
func (c *Catalog) Validate(keys []string) error {
	for _, k := range keys {
		if k == Wildcard {
			continue
		}
		if !c.Contains(k) {
			return fmt.Errorf("%w: %q", ErrUnknownPermission, k)
		}
	}
	return nil
}

// Expand returns the effective permissions of g. The wildcard is resolved
// against the catalog on every call, so permissions added to the catalog are
// picked up by existing wildcard grants.
func (c *Catalog) Expand(g Grant) PermissionSet {
	if g.IsAll() {
		set := make(PermissionSet, len(c.keys))
		for _, k := range c.keys {
			set[k] = struct{}{}
		}
		return set
	}
	set := make(PermissionSet, len(g.keys))
	for _, k := range g.keys {
		set[k] = struct{}{}
	}
	return set
}

// HasAny reports whether g holds at least one of required.
// An empty requirement is always satisfied.
func (c *Catalog) HasAny(g Grant, required ...string) bool {
	if len(required) == 0 {
		return true
	}
	set := c.Expand(g)
	for _, r := range required {
		if set.Has(r) {
			return true
		}
	}
	return false
}

// HasAll reports whether g holds every permission in required.
func (c *Catalog) HasAll(g Grant, required ...string) bool {
	set := c.Expand(g)
	for _, r := range required {
		if !set.Has(r) {
			return false
		}
	}
	return true
}

// HasOne reports whether g holds permission.
func (c *Catalog) HasOne(g Grant, permission string) bool {
	return c.Expand(g).Has(permission)
}
