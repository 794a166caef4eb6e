package idle

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/fundus/internal/model"
)

// Tally counts what happened during a session.
type Tally struct {
	Clicks        int64
	ClickEarned   int64
	PassiveEarned int64
	Spent         int64
	Purchases     int64
	Upgrades      int64
}

// Session binds a progress to a catalog and a clock.
// Every action settles passive income first, so decisions see the current balance.
type Session struct {
	id        string
	catalog   *Catalog
	clock     Clock
	progress  *Progress
	startedAt time.Time
	tally     Tally
}

// NewSession starts a session with fresh progress at clock.Now().
func NewSession(catalog *Catalog, clock Clock) *Session {
	now := clock.Now()
	return &Session{
		id:        uuid.NewString(),
		catalog:   catalog,
		clock:     clock,
		progress:  NewProgress(now),
		startedAt: now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Catalog returns the catalog the session buys from.
func (s *Session) Catalog() *Catalog { return s.catalog }

// Progress exposes the live progress. Callers must not mutate it.
func (s *Session) Progress() *Progress { return s.progress }

// Tally returns the counters so far.
func (s *Session) Tally() Tally { return s.tally }

// Tick settles passive income up to now.
func (s *Session) Tick() int64 {
	earned := Tick(s.progress, s.catalog, s.clock.Now())
	s.tally.PassiveEarned += earned
	return earned
}

// Click ticks, then applies one manual action.
func (s *Session) Click() int64 {
	s.Tick()
	earned := Click(s.progress)
	s.tally.Clicks++
	s.tally.ClickEarned += earned
	return earned
}

// Purchase ticks, then buys one unit of the helper.
func (s *Session) Purchase(id string) (PurchaseResult, error) {
	s.Tick()
	res, err := Purchase(s.progress, s.catalog, id)
	if err != nil {
		return res, err
	}
	s.tally.Purchases++
	s.tally.Spent += res.Cost
	return res, nil
}

// UpgradeClickPower ticks, then raises click power.
func (s *Session) UpgradeClickPower() (UpgradeResult, error) {
	s.Tick()
	res, err := UpgradeClickPower(s.progress, s.catalog)
	if err != nil {
		return res, err
	}
	s.tally.Upgrades++
	s.tally.Spent += res.Cost
	return res, nil
}

// Income returns the current passive income per second.
func (s *Session) Income() int64 {
	return TotalPower(s.progress, s.catalog)
}

// Summary builds the record stored when the session ends.
func (s *Session) Summary(endedAt time.Time) model.GameSession {
	helpers := make([]model.HelperCount, 0, len(s.progress.HelperCounts))
	for id, n := range s.progress.HelperCounts {
		if n == 0 {
			continue
		}
		helpers = append(helpers, model.HelperCount{HelperID: id, Count: n})
	}
	sort.Slice(helpers, func(i, j int) bool {
		return helpers[i].HelperID < helpers[j].HelperID
	})
	return model.GameSession{
		ID:            s.id,
		StartedAt:     s.startedAt,
		EndedAt:       endedAt,
		Clicks:        s.tally.Clicks,
		ClickEarned:   s.tally.ClickEarned,
		PassiveEarned: s.tally.PassiveEarned,
		Spent:         s.tally.Spent,
		Purchases:     s.tally.Purchases,
		Upgrades:      s.tally.Upgrades,
		FinalBalance:  s.progress.Balance,
		ClickPower:    s.progress.ClickPower,
		DurationMs:    endedAt.Sub(s.startedAt).Milliseconds(),
		Helpers:       helpers,
	}
}

// End settles passive income and returns the summary at the clock's current time.
func (s *Session) End() model.GameSession {
	s.Tick()
	return s.Summary(s.clock.Now())
}
