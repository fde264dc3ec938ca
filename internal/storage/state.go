package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
)

// GetGamificationState loads a user's state document. A user without a row
// gets a fresh zero state, never an error.
func (db *DB) GetGamificationState(ctx context.Context, user string) (*models.UserGamificationState, error) {
	var doc []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT state FROM gamification_state WHERE user_id = $1`, user).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewGamificationState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying gamification state: %w", err)
	}

	var state models.UserGamificationState
	if err := json.Unmarshal(doc, &state); err != nil {
		return nil, fmt.Errorf("decoding gamification state: %w", err)
	}
	return &state, nil
}

// AllGamificationStates loads every user's state document, keyed by user.
func (db *DB) AllGamificationStates(ctx context.Context) (map[string]*models.UserGamificationState, error) {
	rows, err := db.Pool.Query(ctx, `SELECT user_id, state FROM gamification_state`)
	if err != nil {
		return nil, fmt.Errorf("querying gamification states: %w", err)
	}
	defer rows.Close()

	states := make(map[string]*models.UserGamificationState)
	for rows.Next() {
		var (
			user string
			doc  []byte
		)
		if err := rows.Scan(&user, &doc); err != nil {
			return nil, fmt.Errorf("scanning gamification state: %w", err)
		}
		var state models.UserGamificationState
		if err := json.Unmarshal(doc, &state); err != nil {
			return nil, fmt.Errorf("decoding gamification state for %s: %w", user, err)
		}
		states[user] = &state
	}
	return states, rows.Err()
}

// SaveGamificationState writes a user's state document. The document is the
// persisted wire format; its JSON field names are shared with existing data.
func (db *DB) SaveGamificationState(ctx context.Context, user string, state *models.UserGamificationState) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding gamification state: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO gamification_state (user_id, state, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()`,
		user, doc)
	if err != nil {
		return fmt.Errorf("saving gamification state: %w", err)
	}
	return nil
}

// AddXPLog appends an XP audit entry. Amount may be negative for reverts.
func (db *DB) AddXPLog(ctx context.Context, user, logID string, amount int, reason string) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO xp_logs (id, user_id, log_id, amount, reason) VALUES ($1,$2,$3,$4,$5)`,
		uuid.NewString(), user, logID, amount, reason)
	if err != nil {
		return fmt.Errorf("inserting xp log: %w", err)
	}
	return nil
}

// AddPointLog appends a points audit entry. Amount may be negative for
// reverts and shop purchases.
func (db *DB) AddPointLog(ctx context.Context, user, logID string, amount int, reason string) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO point_logs (id, user_id, log_id, amount, reason) VALUES ($1,$2,$3,$4,$5)`,
		uuid.NewString(), user, logID, amount, reason)
	if err != nil {
		return fmt.Errorf("inserting point log: %w", err)
	}
	return nil
}

// AddNudge records one encouragement sent between tribe members.
func (db *DB) AddNudge(ctx context.Context, sender, recipient string) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO nudges (id, sender, recipient) VALUES ($1,$2,$3)`,
		uuid.NewString(), sender, recipient)
	if err != nil {
		return fmt.Errorf("inserting nudge: %w", err)
	}
	return nil
}

// CountNudgesSent returns how many nudges a user has ever sent. The social
// badge milestones read this counter.
func (db *DB) CountNudgesSent(ctx context.Context, sender string) (int, error) {
	var n int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM nudges WHERE sender = $1`, sender).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting nudges: %w", err)
	}
	return n, nil
}
