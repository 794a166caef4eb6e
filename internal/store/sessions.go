package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/fundus/internal/model"
)

// InsertSession stores a finished game session and its helper counts.
func (s *Store) InsertSession(ctx context.Context, gs model.GameSession) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO game_sessions (id, started_at, ended_at, clicks, click_earned, passive_earned, spent, purchases, upgrades, final_balance, click_power, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		gs.ID,
		gs.StartedAt.UTC().Format(timeLayout),
		gs.EndedAt.UTC().Format(timeLayout),
		gs.Clicks,
		gs.ClickEarned,
		gs.PassiveEarned,
		gs.Spent,
		gs.Purchases,
		gs.Upgrades,
		gs.FinalBalance,
		gs.ClickPower,
		gs.DurationMs,
	)
	if err != nil {
		return err
	}

	if len(gs.Helpers) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO game_session_helpers (session_id, helper_id, owned) VALUES (?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, hc := range gs.Helpers {
			if _, err = stmt.ExecContext(ctx, gs.ID, hc.HelperID, hc.Count); err != nil {
				return err
			}
		}
	}

	err = tx.Commit()
	return err
}

// ListSessions returns session aggregates filtered by the stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, clicks, click_earned + passive_earned, spent, final_balance, click_power, duration_ms
		FROM game_sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Clicks, &agg.Earned, &agg.Spent, &agg.FinalBalance, &agg.ClickPower, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	return sessions, nil
}

// ListHelperAggregates aggregates helper ownership across the given sessions.
func (s *Store) ListHelperAggregates(ctx context.Context, sessionIDs []string) ([]model.HelperAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT helper_id, SUM(owned), COUNT(*), MAX(owned)
		FROM game_session_helpers
		WHERE session_id IN (%s)
		GROUP BY helper_id
		ORDER BY helper_id`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.HelperAggregate
	for rows.Next() {
		var agg model.HelperAggregate
		if err := rows.Scan(&agg.HelperID, &agg.Total, &agg.Sessions, &agg.Max); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
