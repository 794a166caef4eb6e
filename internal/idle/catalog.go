package idle

import (
	"errors"
	"fmt"
	"strings"
)

// HelperType is a purchasable unit that earns Power credits per second per owned unit.
type HelperType struct {
	ID    string
	Name  string
	Power int64
	Cost  CostFunc
}

// ClickUpgrade prices the next +1 to click power. Cost is evaluated at the current click power.
type ClickUpgrade struct {
	Cost CostFunc
}

// Catalog is the immutable table of helper types shared by all sessions.
type Catalog struct {
	helpers []HelperType
	index   map[string]int
	upgrade ClickUpgrade
}

// NewCatalog validates the entries and builds a catalog in the given order.
func NewCatalog(upgrade ClickUpgrade, helpers ...HelperType) (*Catalog, error) {
	if upgrade.Cost == nil {
		return nil, errors.New("click upgrade has no cost function")
	}
	c := &Catalog{
		helpers: make([]HelperType, 0, len(helpers)),
		index:   make(map[string]int, len(helpers)),
		upgrade: upgrade,
	}
	for _, h := range helpers {
		h.ID = strings.TrimSpace(h.ID)
		if h.ID == "" {
			return nil, errors.New("helper id must not be empty")
		}
		if _, ok := c.index[h.ID]; ok {
			return nil, fmt.Errorf("duplicate helper id %q", h.ID)
		}
		if h.Power <= 0 {
			return nil, fmt.Errorf("helper %q: power must be > 0", h.ID)
		}
		if h.Cost == nil {
			return nil, fmt.Errorf("helper %q: no cost function", h.ID)
		}
		if h.Name == "" {
			h.Name = h.ID
		}
		c.index[h.ID] = len(c.helpers)
		c.helpers = append(c.helpers, h)
	}
	return c, nil
}

// Lookup returns the helper type with the given id.
func (c *Catalog) Lookup(id string) (HelperType, bool) {
	i, ok := c.index[id]
	if !ok {
		return HelperType{}, false
	}
	return c.helpers[i], true
}

// Helpers returns the helper types in catalog order.
func (c *Catalog) Helpers() []HelperType {
	out := make([]HelperType, len(c.helpers))
	copy(out, c.helpers)
	return out
}

// ClickUpgrade returns the click power upgrade entry.
func (c *Catalog) ClickUpgrade() ClickUpgrade {
	return c.upgrade
}

// Len reports the number of helper types.
func (c *Catalog) Len() int {
	return len(c.helpers)
}
