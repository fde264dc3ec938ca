package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
)

// GetProfile retrieves a user profile. Returns ErrNotFound for unknown users.
func (db *DB) GetProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, email, display_name, tribe_id, fitness_level,
		 height, weight, gender, dob, weekly_goal
		 FROM profiles WHERE id = $1`, id)

	var p models.UserProfile
	err := row.Scan(&p.ID, &p.Email, &p.DisplayName, &p.TribeID, &p.FitnessLevel,
		&p.Height, &p.Weight, &p.Gender, &p.DOB, &p.WeeklyGoal)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	return &p, nil
}

// UpsertProfile inserts or replaces a user profile.
func (db *DB) UpsertProfile(ctx context.Context, p models.UserProfile) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO profiles (id, email, display_name, tribe_id, fitness_level,
		 height, weight, gender, dob, weekly_goal)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			tribe_id = EXCLUDED.tribe_id,
			fitness_level = EXCLUDED.fitness_level,
			height = EXCLUDED.height,
			weight = EXCLUDED.weight,
			gender = EXCLUDED.gender,
			dob = EXCLUDED.dob,
			weekly_goal = EXCLUDED.weekly_goal`,
		p.ID, p.Email, p.DisplayName, p.TribeID, p.FitnessLevel,
		p.Height, p.Weight, p.Gender, p.DOB, p.WeeklyGoal)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}

// TribeProfiles lists every profile belonging to a tribe.
func (db *DB) TribeProfiles(ctx context.Context, tribeID string) ([]models.UserProfile, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, email, display_name, tribe_id, fitness_level,
		 height, weight, gender, dob, weekly_goal
		 FROM profiles WHERE tribe_id = $1 ORDER BY display_name`, tribeID)
	if err != nil {
		return nil, fmt.Errorf("querying tribe profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.UserProfile
	for rows.Next() {
		var p models.UserProfile
		if err := rows.Scan(&p.ID, &p.Email, &p.DisplayName, &p.TribeID, &p.FitnessLevel,
			&p.Height, &p.Weight, &p.Gender, &p.DOB, &p.WeeklyGoal); err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
