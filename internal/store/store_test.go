package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/fundus/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "fundus.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).UTC().Add(time.Duration(i) * time.Hour)
		end := start.Add(90 * time.Second)
		gs := model.GameSession{
			ID:            string(rune('a' + i)),
			StartedAt:     start,
			EndedAt:       end,
			Clicks:        100,
			ClickEarned:   100,
			PassiveEarned: int64(50 * (i + 1)),
			Spent:         65,
			Purchases:     2,
			FinalBalance:  int64(85 + 50*i),
			ClickPower:    1,
			DurationMs:    end.Sub(start).Milliseconds(),
			Helpers: []model.HelperCount{
				{HelperID: "janitor", Count: 1},
				{HelperID: "student", Count: int64(i + 1)},
			},
		}
		if err := st.InsertSession(ctx, gs); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}
	if sessions[0].SessionID != "a" || sessions[2].SessionID != "c" {
		t.Fatalf("unexpected order: %+v", sessions)
	}
	if sessions[1].Earned != 200 {
		t.Fatalf("expected earned 200, got %d", sessions[1].Earned)
	}

	last, err := st.ListSessions(ctx, model.StatsConfig{Last: 2})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(last) != 2 || last[0].SessionID != "b" {
		t.Fatalf("unexpected last sessions: %+v", last)
	}

	since := time.Unix(0, 0).UTC().Add(90 * time.Minute)
	recent, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(recent) != 1 || recent[0].SessionID != "c" {
		t.Fatalf("unexpected since sessions: %+v", recent)
	}

	aggs, err := st.ListHelperAggregates(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("helper aggregates: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 helper aggregates, got %d", len(aggs))
	}
	if aggs[1].HelperID != "student" || aggs[1].Total != 6 || aggs[1].Max != 3 || aggs[1].Sessions != 3 {
		t.Fatalf("unexpected student aggregate: %+v", aggs[1])
	}
}

func TestListSessionsOrdersWithinSecond(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 6, 7, 8, 5, 0, time.UTC)
	for _, gs := range []model.GameSession{
		{ID: "later", StartedAt: base, EndedAt: base.Add(500 * time.Millisecond), ClickPower: 1},
		{ID: "earlier", StartedAt: base, EndedAt: base, ClickPower: 1},
	} {
		if err := st.InsertSession(ctx, gs); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 2 || sessions[0].SessionID != "earlier" || sessions[1].SessionID != "later" {
		t.Fatalf("unexpected order: %+v", sessions)
	}
	if !sessions[1].EndedAt.Equal(base.Add(500 * time.Millisecond)) {
		t.Fatalf("unexpected ended_at: %v", sessions[1].EndedAt)
	}

	since := base.Add(250 * time.Millisecond)
	recent, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(recent) != 1 || recent[0].SessionID != "later" {
		t.Fatalf("unexpected since sessions: %+v", recent)
	}
}

func TestInsertSessionDuplicateRollsBack(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	gs := model.GameSession{ID: "dup", StartedAt: time.Unix(0, 0), EndedAt: time.Unix(1, 0)}
	if err := st.InsertSession(ctx, gs); err != nil {
		t.Fatalf("insert session: %v", err)
	}
	gs.Helpers = []model.HelperCount{{HelperID: "janitor", Count: 4}}
	if err := st.InsertSession(ctx, gs); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	aggs, err := st.ListHelperAggregates(ctx, []string{"dup"})
	if err != nil {
		t.Fatalf("helper aggregates: %v", err)
	}
	if len(aggs) != 0 {
		t.Fatalf("expected rollback to drop helper rows, got %+v", aggs)
	}
}

func TestItemsLifecycle(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	foundAt := time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC)

	jacket, err := st.InsertItem(ctx, model.FoundItem{Category: "Jacke", Location: "Turnhalle", FoundAt: foundAt})
	if err != nil {
		t.Fatalf("insert item: %v", err)
	}
	if _, err := st.InsertItem(ctx, model.FoundItem{Category: "Flasche", FoundAt: foundAt}); err != nil {
		t.Fatalf("insert item: %v", err)
	}
	second, err := st.InsertItem(ctx, model.FoundItem{Category: "Jacke", Description: "blau", FoundAt: foundAt})
	if err != nil {
		t.Fatalf("insert item: %v", err)
	}

	jackets, err := st.ListItems(ctx, "Jacke")
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(jackets) != 2 || jackets[0].ID != second || jackets[1].ID != jacket {
		t.Fatalf("expected newest first, got %+v", jackets)
	}
	if jackets[1].Location != "Turnhalle" || !jackets[1].FoundAt.Equal(foundAt) {
		t.Fatalf("unexpected item: %+v", jackets[1])
	}

	all, err := st.ListItems(ctx, "")
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 items, got %d", len(all))
	}

	counts, err := st.CountItemsByCategory(ctx)
	if err != nil {
		t.Fatalf("count items: %v", err)
	}
	if len(counts) != 2 || counts[1].Category != "Jacke" || counts[1].Count != 2 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	if err := st.DeleteItem(ctx, jacket); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if _, err := st.GetItem(ctx, jacket); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if err := st.DeleteItem(ctx, jacket); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound on second delete, got %v", err)
	}
}
