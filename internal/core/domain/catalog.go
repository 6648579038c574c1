package domain

import (
	"sort"
	"time"
)

// Catalog is the aggregated list of model metadata served to the storefront
type Catalog struct {
	GeneratedAt time.Time  `json:"generatedAt"`
	Models      []Metadata `json:"models"`
}

// NewCatalog creates a catalog with models sorted by id
func NewCatalog(models []Metadata) *Catalog {
	c := &Catalog{
		GeneratedAt: time.Now().UTC(),
		Models:      models,
	}
	if c.Models == nil {
		c.Models = []Metadata{}
	}
	c.Sort()
	return c
}

// Sort orders models by id
func (c *Catalog) Sort() {
	sort.SliceStable(c.Models, func(i, j int) bool {
		return c.Models[i].ID < c.Models[j].ID
	})
}

// Find returns the model with the given id
func (c *Catalog) Find(id string) (*Metadata, bool) {
	for i := range c.Models {
		if c.Models[i].ID == id {
			return &c.Models[i], true
		}
	}
	return nil, false
}

// TotalSize sums the file sizes of every model in the catalog
func (c *Catalog) TotalSize() int64 {
	var total int64
	for _, m := range c.Models {
		total += m.FileSize
	}
	return total
}
