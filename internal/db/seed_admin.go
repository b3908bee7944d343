package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentops/cvhub/internal/config"
)

// EnsureAdminUser provisions the bootstrap staff account when configured.
// The credential store compares passwords as plain text, so the seeded row
// stores the password as-is.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	// check if the user exists

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, cfg.AdminUsername).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	now := time.Now().UTC()

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, username, password, email, role, first_name, last_name, department, position, phone_number, is_active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		`,
		uuid.NewString(), cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail, cfg.AdminRole,
		"System", "Administrator", "IT", "Administrator", "", true, now,
	)

	return err
}
