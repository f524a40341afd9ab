package domain

import "strings"

// Catalog is the accessory list fetched once per run, in hub order.
// It is never refreshed after control calls.
type Catalog struct {
	accessories []Accessory
}

func NewCatalog(accessories []Accessory) *Catalog {
	owned := make([]Accessory, len(accessories))
	copy(owned, accessories)
	return &Catalog{accessories: owned}
}

func (c *Catalog) Len() int {
	return len(c.accessories)
}

func (c *Catalog) All() []Accessory {
	result := make([]Accessory, len(c.accessories))
	copy(result, c.accessories)
	return result
}

// Controllable returns the lightbulbs, switches and outlets in hub order.
func (c *Catalog) Controllable() []Accessory {
	var result []Accessory
	for _, a := range c.accessories {
		if a.Type.Controllable() {
			result = append(result, a)
		}
	}
	return result
}

// ControllableNames joins the controllable accessory names with ", ".
func (c *Catalog) ControllableNames() string {
	controllable := c.Controllable()
	names := make([]string, 0, len(controllable))
	for _, a := range controllable {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// Find resolves query to exactly one accessory. A unique case-insensitive
// exact name match wins outright; otherwise the query must be a
// case-insensitive substring of exactly one name. Anything else is a
// *DeviceNotFoundError, carrying the candidate names when several matched.
func (c *Catalog) Find(query string) (Accessory, error) {
	key := strings.ToLower(query)

	exact := c.filter(func(name string) bool { return name == key })
	if len(exact) == 1 {
		return exact[0], nil
	}
	if len(exact) > 1 {
		return Accessory{}, notFound(query, exact)
	}

	partial := c.filter(func(name string) bool { return strings.Contains(name, key) })
	if len(partial) == 1 {
		return partial[0], nil
	}
	return Accessory{}, notFound(query, partial)
}

func (c *Catalog) filter(match func(lowerName string) bool) []Accessory {
	var result []Accessory
	for _, a := range c.accessories {
		if match(strings.ToLower(a.Name)) {
			result = append(result, a)
		}
	}
	return result
}

func notFound(query string, matches []Accessory) *DeviceNotFoundError {
	err := &DeviceNotFoundError{Query: query}
	for _, a := range matches {
		err.Candidates = append(err.Candidates, a.Name)
	}
	return err
}
