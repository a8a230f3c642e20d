package contracts

// Instrument is a tracked stock and its chart color
type Instrument struct {
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color" json:"color"` // #RRGGBB
}

// Category is a named static grouping of instruments
type Category struct {
	Name    string   `yaml:"name" json:"name"`
	Members []string `yaml:"members" json:"members"`
}

// Catalog holds the instruments and categories shown by the dashboard
// ⭐ SSOT: built once at startup, never mutated afterwards
type Catalog struct {
	Instruments []Instrument `yaml:"instruments" json:"instruments"`
	Categories  []Category   `yaml:"categories" json:"categories"`
}

// Names returns instrument names in catalog order
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Instruments))
	for i, inst := range c.Instruments {
		names[i] = inst.Name
	}
	return names
}

// Color returns the display color for an instrument
func (c *Catalog) Color(name string) (string, bool) {
	for _, inst := range c.Instruments {
		if inst.Name == name {
			return inst.Color, true
		}
	}
	return "", false
}

// Has reports whether the instrument is in the catalog
func (c *Catalog) Has(name string) bool {
	_, ok := c.Color(name)
	return ok
}

// Members returns the members of a category and whether it exists
func (c *Catalog) Members(category string) ([]string, bool) {
	for _, cat := range c.Categories {
		if cat.Name == category {
			return cat.Members, true
		}
	}
	return nil, false
}

// CategoryNames returns category names in catalog order
func (c *Catalog) CategoryNames() []string {
	names := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		names[i] = cat.Name
	}
	return names
}
