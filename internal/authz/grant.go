package authz

import "sort"

// Wildcard is the persisted token that stands for every permission in the catalog.
const Wildcard = "*"

// Grant is the set of permissions attached to a caller through their role.
// It is either explicit (a set of keys) or all (the wildcard). The zero value
// is an empty explicit grant.
type Grant struct {
	all  bool
	keys []string
}

// AllGrant returns the wildcard grant.
func AllGrant() Grant {
	return Grant{all: true}
}

// ExplicitGrant returns a grant holding exactly keys, duplicates collapsed and
// first-seen order kept.
func ExplicitGrant(keys ...string) Grant {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return Grant{keys: out}
}

// ParseGrant converts the persisted form of a grant. Any occurrence of the
// wildcard token makes the whole grant a wildcard grant.
func ParseGrant(keys []string) Grant {
	for _, k := range keys {
		if k == Wildcard {
			return AllGrant()
		}
	}
	return ExplicitGrant(keys...)
}

// IsAll reports whether g is the wildcard grant.
func (g Grant) IsAll() bool {
	return g.all
}

// Keys returns the explicit keys of g. It is empty for the wildcard grant;
// use Catalog.Expand to obtain effective permissions.
func (g Grant) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Strings returns the persisted form of g.
func (g Grant) Strings() []string {
	if g.all {
		return []string{Wildcard}
	}
	return g.Keys()
}

// PermissionSet is an unordered set of permission keys.
type PermissionSet map[string]struct{}

// Has reports whether key is in the set.
func (s PermissionSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Sorted returns the members in lexical order.
func (s PermissionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
