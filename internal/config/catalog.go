package config

import (
	"fmt"

	"github.com/verte-zerg/fundus/internal/idle"
)

// DefaultHelpers is the built-in helper table used when the config has no [[helpers]].
func DefaultHelpers() []HelperConfig {
	return []HelperConfig{
		{ID: "student", Name: "Student volunteer", Power: 1, CostConfig: costConfig(idle.CostLinear, 15, 5)},
		{ID: "janitor", Name: "Janitor", Power: 5, CostConfig: costConfig(idle.CostFixed, 50, 0)},
		{ID: "teacher", Name: "Teacher on duty", Power: 20, CostConfig: costConfig(idle.CostLinear, 400, 100)},
		{ID: "robot", Name: "Sorting robot", Power: 100, CostConfig: costConfig(idle.CostLinear, 3000, 1500)},
	}
}

// DefaultClickUpgrade prices click power at 10 * power^2.
func DefaultClickUpgrade() CostConfig {
	return costConfig(idle.CostQuadratic, 10, 0)
}

func costConfig(kind string, base, increment int64) CostConfig {
	return CostConfig{Cost: &kind, Base: &base, Increment: &increment}
}

// BuildCatalog turns the file config into the immutable helper catalog.
func BuildCatalog(cfg FileConfig) (*idle.Catalog, error) {
	click := mergeCost(DefaultClickUpgrade(), cfg.Click)
	clickCost, err := click.costFunc()
	if err != nil {
		return nil, fmt.Errorf("[click]: %w", err)
	}

	helperCfgs := cfg.Helpers
	if len(helperCfgs) == 0 {
		helperCfgs = DefaultHelpers()
	}
	helpers := make([]idle.HelperType, 0, len(helperCfgs))
	for i, hc := range helperCfgs {
		fn, err := hc.costFunc()
		if err != nil {
			return nil, fmt.Errorf("helpers[%d] %q: %w", i, hc.ID, err)
		}
		helpers = append(helpers, idle.HelperType{
			ID:    hc.ID,
			Name:  hc.Name,
			Power: hc.Power,
			Cost:  fn,
		})
	}
	catalog, err := idle.NewCatalog(idle.ClickUpgrade{Cost: clickCost}, helpers...)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return catalog, nil
}

func mergeCost(base, override CostConfig) CostConfig {
	if override.Cost != nil {
		base.Cost = override.Cost
	}
	if override.Base != nil {
		base.Base = override.Base
	}
	if override.Increment != nil {
		base.Increment = override.Increment
	}
	return base
}

func (c CostConfig) costFunc() (idle.CostFunc, error) {
	var kind string
	var base, increment int64
	if c.Cost != nil {
		kind = *c.Cost
	}
	if c.Base != nil {
		base = *c.Base
	}
	if c.Increment != nil {
		increment = *c.Increment
	}
	return idle.NewCostFunc(kind, base, increment)
}
