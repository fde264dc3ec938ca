package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

const logColumns = `id, user_id, tribe_id, date, type, duration_minutes,
	 calories, vibes, custom_activity, intensity, exercises`

// UpsertLog inserts or replaces a workout log. Replacement keeps the row's
// ID, which is how a commitment placeholder becomes the real workout without
// orphaning reactions attached to the ID.
func (db *DB) UpsertLog(ctx context.Context, tribeID string, log models.WorkoutLog) error {
	exercises, err := json.Marshal(log.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO workout_logs (id, user_id, tribe_id, date, type, duration_minutes,
		 calories, vibes, custom_activity, intensity, exercises)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date,
			type = EXCLUDED.type,
			duration_minutes = EXCLUDED.duration_minutes,
			calories = EXCLUDED.calories,
			vibes = EXCLUDED.vibes,
			custom_activity = EXCLUDED.custom_activity,
			intensity = EXCLUDED.intensity,
			exercises = EXCLUDED.exercises`,
		log.ID, log.User, tribeID, log.Date, string(log.Type), log.DurationMinutes,
		log.Calories, log.Vibes, log.CustomActivity, log.Intensity, exercises)
	if err != nil {
		return fmt.Errorf("upserting log: %w", err)
	}
	return nil
}

// GetUserLogs retrieves a user's full log history, newest first.
func (db *DB) GetUserLogs(ctx context.Context, user string) ([]models.WorkoutLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+logColumns+` FROM workout_logs
		 WHERE user_id = $1
		 ORDER BY date DESC`, user)
	if err != nil {
		return nil, fmt.Errorf("querying user logs: %w", err)
	}
	defer rows.Close()

	return scanLogRows(rows)
}

// GetTribeLogs retrieves every member's logs for a tribe, newest first.
func (db *DB) GetTribeLogs(ctx context.Context, tribeID string) ([]models.WorkoutLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+logColumns+` FROM workout_logs
		 WHERE tribe_id = $1
		 ORDER BY date DESC`, tribeID)
	if err != nil {
		return nil, fmt.Errorf("querying tribe logs: %w", err)
	}
	defer rows.Close()

	return scanLogRows(rows)
}

// GetLogByID retrieves a single log.
func (db *DB) GetLogByID(ctx context.Context, id string) (*models.WorkoutLog, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+logColumns+` FROM workout_logs WHERE id = $1`, id)

	log, err := scanLog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying log: %w", err)
	}
	return &log, nil
}

// DeleteLog removes a log. Returns ErrNotFound when the ID does not exist.
func (db *DB) DeleteLog(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM workout_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TribeUsers lists the distinct users who have logged in a tribe.
func (db *DB) TribeUsers(ctx context.Context, tribeID string) ([]string, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT DISTINCT user_id FROM workout_logs WHERE tribe_id = $1 ORDER BY user_id`, tribeID)
	if err != nil {
		return nil, fmt.Errorf("querying tribe users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scanning tribe user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(row rowScanner) (models.WorkoutLog, error) {
	var (
		log       models.WorkoutLog
		typ       string
		exercises []byte
	)
	err := row.Scan(&log.ID, &log.User, new(string), &log.Date, &typ, &log.DurationMinutes,
		&log.Calories, &log.Vibes, &log.CustomActivity, &log.Intensity, &exercises)
	if err != nil {
		return log, err
	}
	// Stored values may predate type normalization.
	if parsed, ok := models.ParseWorkoutType(typ); ok {
		log.Type = parsed
	} else {
		log.Type = models.WorkoutType(typ)
	}
	if len(exercises) > 0 {
		if err := json.Unmarshal(exercises, &log.Exercises); err != nil {
			return log, fmt.Errorf("decoding exercises: %w", err)
		}
	}
	return log, nil
}

func scanLogRows(rows pgx.Rows) ([]models.WorkoutLog, error) {
	var result []models.WorkoutLog
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning log: %w", err)
		}
		result = append(result, log)
	}
	return result, rows.Err()
}
