package catalog

import "spatialboard/internal/model"

// Default enumerations used when ROSTER / TAGS are not configured. Both are
// stand-ins for the cohort-specific lists an instructor injects at startup.
var (
	DefaultRoster = []string{
		"Dana Levi",
		"Noa Cohen",
		"Omer Peretz",
		"Yael Mizrahi",
		"Itai Baruch",
	}

	DefaultTags = []string{
		"confuses top and front views",
		"mirrors the object",
		"miscounts hidden cubes",
		"ignores proportions",
		"rotation errors",
		"needs the physical model",
		"strong mental rotation",
		"works systematically",
	}
)

// Catalog holds the roster and diagnostic-tag enumerations. Built once at
// startup, immutable afterwards.
type Catalog struct {
	roster []string
	tags   []string

	students map[string]struct{} // canonical names
	tagSet   map[string]struct{}
}

func New(roster, tags []string) *Catalog {
	if len(roster) == 0 {
		roster = DefaultRoster
	}
	if len(tags) == 0 {
		tags = DefaultTags
	}
	c := &Catalog{
		roster:   roster,
		tags:     tags,
		students: make(map[string]struct{}, len(roster)),
		tagSet:   make(map[string]struct{}, len(tags)),
	}
	for _, name := range roster {
		c.students[model.Canonical(name)] = struct{}{}
	}
	for _, tag := range tags {
		c.tagSet[tag] = struct{}{}
	}
	return c
}

// Roster returns the student names in display order.
func (c *Catalog) Roster() []string { return c.roster }

// Tags returns the diagnostic tags in display order.
func (c *Catalog) Tags() []string { return c.tags }

// HasStudent reports whether name matches a roster entry under canonical
// name comparison.
func (c *Catalog) HasStudent(name string) bool {
	_, ok := c.students[model.Canonical(name)]
	return ok
}

// UnknownTags returns the subset of tags that are not in the catalog.
func (c *Catalog) UnknownTags(tags []string) []string {
	var unknown []string
	for _, tag := range tags {
		if _, ok := c.tagSet[tag]; !ok {
			unknown = append(unknown, tag)
		}
	}
	return unknown
}
