package cf

import "strings"

// Role marks one function a variable serves in the file. A variable may
// hold several roles at once, so roles combine into a RoleSet bitset.
type Role uint8

// The roles a variable can hold.
const (
	RoleCoordinate Role = 1 << iota
	RoleAuxCoordinate
	RoleBoundary
	RoleClimatology
	RoleGridMapping
	RoleGeometryContainer
	RoleNodeCoordinate
)

var roleNames = []struct {
	r    Role
	name string
}{
	{RoleCoordinate, "coordinate"},
	{RoleAuxCoordinate, "auxiliary coordinate"},
	{RoleBoundary, "boundary"},
	{RoleClimatology, "climatology"},
	{RoleGridMapping, "grid mapping"},
	{RoleGeometryContainer, "geometry container"},
	{RoleNodeCoordinate, "node coordinate"},
}

// RoleSet is a set of roles.
type RoleSet uint8

// Has reports whether the set contains r.
func (s RoleSet) Has(r Role) bool { return s&RoleSet(r) != 0 }

// Add adds r to the set.
func (s *RoleSet) Add(r Role) { *s |= RoleSet(r) }

// Empty reports whether no roles are set.
func (s RoleSet) Empty() bool { return s == 0 }

// String lists the set's roles, comma separated.
func (s RoleSet) String() string {
	if s == 0 {
		return "none"
	}
	var parts []string
	for _, rn := range roleNames {
		if s.Has(rn.r) {
			parts = append(parts, rn.name)
		}
	}
	return strings.Join(parts, ", ")
}

// Classification is the computed role assignment for one file, plus the
// geometry container index. It is built once per file and read-only
// afterwards.
type Classification struct {
	roles map[string]RoleSet

	// geometry container variable name to the data variables that
	// declare it, in declaration order, deduplicated
	geometry      map[string][]string
	geometryOrder []string
}

func newClassification() *Classification {
	return &Classification{
		roles:    make(map[string]RoleSet),
		geometry: make(map[string][]string),
	}
}

// Roles returns the role set of the named variable.
func (c *Classification) Roles(name string) RoleSet { return c.roles[name] }

// Is reports whether the named variable holds the role.
func (c *Classification) Is(name string, r Role) bool { return c.roles[name].Has(r) }

func (c *Classification) add(name string, r Role) {
	s := c.roles[name]
	s.Add(r)
	c.roles[name] = s
}

// addGeometryUser records that dataVar declares container via its
// geometry attribute. Duplicate pairs collapse.
func (c *Classification) addGeometryUser(container, dataVar string) {
	users, seen := c.geometry[container]
	if !seen {
		c.geometryOrder = append(c.geometryOrder, container)
	}
	for _, u := range users {
		if u == dataVar {
			return
		}
	}
	c.geometry[container] = append(users, dataVar)
}

// GeometryContainers returns the geometry container variables in the
// order they were first referenced.
func (c *Classification) GeometryContainers() []string { return c.geometryOrder }

// GeometryUsers returns the data variables declaring the container.
func (c *Classification) GeometryUsers(container string) []string {
	return c.geometry[container]
}
