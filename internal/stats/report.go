package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/fundus/internal/idle"
	"github.com/verte-zerg/fundus/internal/model"
	"github.com/verte-zerg/fundus/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionAggregate
	Helpers  []model.HelperAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	helpers, err := st.ListHelperAggregates(ctx, sessionIDs(sessions))
	if err != nil {
		return Report{}, err
	}
	return Report{Sessions: sessions, Helpers: helpers}, nil
}

// Render writes the full stats report.
func (r Report) Render(w io.Writer, catalog *idle.Catalog, width int) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	if err := RenderBalanceCurve(w, r.Sessions, width); err != nil {
		return err
	}
	return RenderHelperTable(w, r.Helpers, catalog)
}

func sessionIDs(sessions []model.SessionAggregate) []string {
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}
