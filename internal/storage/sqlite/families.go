package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hearthhub/hearthhub/internal/models"
	"github.com/hearthhub/hearthhub/internal/storage"
)

const familyColumns = `id, name, code, description, admin_user_id, member_count, is_active,
	allow_member_invites, require_admin_approval, max_members, created_at, updated_at`

// CreateFamily persists a new family to the database.
func (s *SQLiteStore) CreateFamily(ctx context.Context, family *models.Family) error {
	// Generate ID and timestamps if not set
	if family.FamilyID == "" {
		family.FamilyID = uuid.New().String()
	}
	if family.CreatedAt == 0 {
		family.CreatedAt = time.Now().Unix()
	}
	if family.UpdatedAt == 0 {
		family.UpdatedAt = family.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO families (`+familyColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		family.FamilyID, family.FamilyName, family.FamilyCode, family.Description,
		family.AdminUserID, family.MemberCount, family.IsActive,
		family.Settings.AllowMemberInvites, family.Settings.RequireAdminApproval,
		family.Settings.MaxMembers, family.CreatedAt, family.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateCode
		}
		return storeErr("create family", err)
	}

	return nil
}

// GetFamily retrieves a family by ID.
func (s *SQLiteStore) GetFamily(ctx context.Context, familyID string) (*models.Family, error) {
	query := `SELECT ` + familyColumns + ` FROM families WHERE id = ?`
	return scanFamily(s.db.QueryRowContext(ctx, query, familyID))
}

// GetFamilyByCode retrieves a family by its join code.
func (s *SQLiteStore) GetFamilyByCode(ctx context.Context, code string) (*models.Family, error) {
	query := `SELECT ` + familyColumns + ` FROM families WHERE code = ?`
	return scanFamily(s.db.QueryRowContext(ctx, query, code))
}

// UpdateFamilyCode swaps the family's join code. The old code stops
// resolving the moment this commits.
func (s *SQLiteStore) UpdateFamilyCode(ctx context.Context, familyID, code string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE families SET code = ?, updated_at = ? WHERE id = ?`,
		code, time.Now().Unix(), familyID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateCode
		}
		return storeErr("update family code", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr("update family code", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// AdmitMember increments member_count only while the family is active and
// below capacity. The condition lives in the UPDATE itself, so two joins
// racing for the last seat cannot both win.
func (s *SQLiteStore) AdmitMember(ctx context.Context, familyID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE families
		 SET member_count = member_count + 1, updated_at = ?
		 WHERE id = ? AND is_active = 1 AND member_count < max_members`,
		time.Now().Unix(), familyID,
	)
	if err != nil {
		return storeErr("admit member", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr("admit member", err)
	}
	if affected == 0 {
		// Distinguish a missing family from a full or inactive one.
		if _, err := s.GetFamily(ctx, familyID); err != nil {
			return err
		}
		return storage.ErrNotAccepting
	}

	return nil
}

func scanFamily(row *sql.Row) (*models.Family, error) {
	family := &models.Family{}
	err := row.Scan(
		&family.FamilyID,
		&family.FamilyName,
		&family.FamilyCode,
		&family.Description,
		&family.AdminUserID,
		&family.MemberCount,
		&family.IsActive,
		&family.Settings.AllowMemberInvites,
		&family.Settings.RequireAdminApproval,
		&family.Settings.MaxMembers,
		&family.CreatedAt,
		&family.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("scan family", err)
	}
	return family, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// The pure Go driver surfaces these as plain errors, so we match the message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
