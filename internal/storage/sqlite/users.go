package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/hearthhub/hearthhub/internal/models"
	"github.com/hearthhub/hearthhub/internal/storage"
)

const userColumns = `id, unique_id, email, name, password_hash, role, family_id, is_active, created_at, updated_at`

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.UniqueID,
		user.Email,
		user.Name,
		user.PasswordHash,
		string(user.Role),
		user.FamilyID,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return storeErr("create user", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

// UpdateUser overwrites an existing user record.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().Unix()

	query := `
		UPDATE users
		SET email = ?, name = ?, password_hash = ?, role = ?, family_id = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		user.Email,
		user.Name,
		user.PasswordHash,
		string(user.Role),
		user.FamilyID,
		user.IsActive,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return storeErr("update user", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr("update user", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// ListFamilyMembers returns the users belonging to a family, ordered by join time.
func (s *SQLiteStore) ListFamilyMembers(ctx context.Context, familyID string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE family_id = ? ORDER BY updated_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, storeErr("list family members", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate family members", err)
	}

	return users, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*models.User, error) {
	user, err := scanUserRow(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	return user, err
}

func scanUserRow(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var role string
	var familyID sql.NullString

	err := row.Scan(
		&user.ID,
		&user.UniqueID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&role,
		&familyID,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, storeErr("scan user", err)
	}

	user.Role = models.Role(role)
	if familyID.Valid {
		user.FamilyID = &familyID.String
	}
	return user, nil
}
