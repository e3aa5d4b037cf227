package authz

import "fmt"

// Mode selects how a Requirement's permissions are combined.
type Mode string

const (
	ModeAny Mode = "any"
	ModeAll Mode = "all"
	ModeOne Mode = "one"
)

// Requirement is what a route demands from the caller's grant.
type Requirement struct {
	Mode        Mode     `json:"mode"`
	Permissions []string `json:"required"`
}

// Any builds a requirement satisfied by any of perms.
func Any(perms ...string) Requirement {
	return Requirement{Mode: ModeAny, Permissions: perms}
}

// All builds a requirement satisfied only by every one of perms.
func All(perms ...string) Requirement {
	return Requirement{Mode: ModeAll, Permissions: perms}
}

// One builds a requirement on a single permission.
func One(perm string) Requirement {
	return Requirement{Mode: ModeOne, Permissions: []string{perm}}
}

// Check evaluates r against g.
func (c *Catalog) Check(g Grant, r Requirement) bool {
	switch r.Mode {
	case ModeAll:
		return c.HasAll(g, r.Permissions...)
	case ModeOne:
		if len(r.Permissions) != 1 {
			return false
		}
		return c.HasOne(g, r.Permissions[0])
	default:
		return c.HasAny(g, r.Permissions...)
	}
}

func (r Requirement) String() string {
	return fmt.Sprintf("%s%v", r.Mode, r.Permissions)
}
