package idle

import (
	"fmt"
	"time"
)

// ClickUpgradeItem names the click upgrade in errors and summaries.
const ClickUpgradeItem = "click-power"

// Progress is one player's mutable state. Callers serialize access.
type Progress struct {
	Balance      int64
	ClickPower   int64
	HelperCounts map[string]int64
	LastAccrual  time.Time
}

// NewProgress returns a fresh progress with accrual starting at now.
func NewProgress(now time.Time) *Progress {
	return &Progress{
		ClickPower:   1,
		HelperCounts: map[string]int64{},
		LastAccrual:  now,
	}
}

// Count returns how many units of a helper are owned.
func (p *Progress) Count(id string) int64 {
	return p.HelperCounts[id]
}

// PurchaseResult describes a completed helper purchase.
type PurchaseResult struct {
	HelperID string
	Cost     int64
	Count    int64
	Balance  int64
}

// UpgradeResult describes a completed click power upgrade.
type UpgradeResult struct {
	Cost       int64
	ClickPower int64
	Balance    int64
}

// TotalPower sums count*power over the catalog.
func TotalPower(p *Progress, c *Catalog) int64 {
	var total int64
	for _, h := range c.helpers {
		total += p.HelperCounts[h.ID] * h.Power
	}
	return total
}

// Tick credits passive income for the whole seconds elapsed since LastAccrual.
// Sub-second intervals leave the progress untouched so the fraction keeps
// counting toward the next call. It returns the amount credited.
func Tick(p *Progress, c *Catalog, now time.Time) int64 {
	elapsed := int64(now.Sub(p.LastAccrual) / time.Second)
	if elapsed < 1 {
		return 0
	}
	earned := TotalPower(p, c) * elapsed
	p.Balance += earned
	p.LastAccrual = now
	return earned
}

// Click credits one manual action.
func Click(p *Progress) int64 {
	p.Balance += p.ClickPower
	return p.ClickPower
}

// NextCost returns what the next unit of a helper would cost.
func NextCost(p *Progress, c *Catalog, id string) (int64, error) {
	h, ok := c.Lookup(id)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownHelper, id)
	}
	return h.Cost(p.HelperCounts[id]), nil
}

// NextUpgradeCost returns what the next click power upgrade would cost.
func NextUpgradeCost(p *Progress, c *Catalog) int64 {
	return c.upgrade.Cost(p.ClickPower)
}

// Purchase buys one unit of a helper. On error the progress is unchanged.
func Purchase(p *Progress, c *Catalog, id string) (PurchaseResult, error) {
	cost, err := NextCost(p, c, id)
	if err != nil {
		return PurchaseResult{}, err
	}
	if p.Balance < cost {
		return PurchaseResult{}, &InsufficientFundsError{Item: id, Cost: cost, Balance: p.Balance}
	}
	p.Balance -= cost
	if p.HelperCounts == nil {
		p.HelperCounts = make(map[string]int64)
	}
	p.HelperCounts[id]++
	return PurchaseResult{
		HelperID: id,
		Cost:     cost,
		Count:    p.HelperCounts[id],
		Balance:  p.Balance,
	}, nil
}

// UpgradeClickPower raises click power by one. On error the progress is unchanged.
func UpgradeClickPower(p *Progress, c *Catalog) (UpgradeResult, error) {
	cost := NextUpgradeCost(p, c)
	if p.Balance < cost {
		return UpgradeResult{}, &InsufficientFundsError{Item: ClickUpgradeItem, Cost: cost, Balance: p.Balance}
	}
	p.Balance -= cost
	p.ClickPower++
	return UpgradeResult{
		Cost:       cost,
		ClickPower: p.ClickPower,
		Balance:    p.Balance,
	}, nil
}
