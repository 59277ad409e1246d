package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hearthhub/hearthhub/internal/access"
	"github.com/hearthhub/hearthhub/internal/metrics"
	"github.com/hearthhub/hearthhub/internal/models"
	"github.com/hearthhub/hearthhub/internal/storage"
)

// codeAttempts is how many join codes are tried before giving up.
const codeAttempts = 3

// memberPreviewLimit bounds how many members the join preview lists.
const memberPreviewLimit = 10

// FamilyService implements family admission: creation, code lookup,
// joining, and code regeneration.
type FamilyService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewFamilyService creates a new FamilyService with the given storage backend.
func NewFamilyService(store storage.Store, logger *slog.Logger) *FamilyService {
	return &FamilyService{store: store, logger: logger}
}

// CreateFamilyInput carries the validated form fields for a new family.
type CreateFamilyInput struct {
	FamilyName  string
	Description string

	// Settings overrides the defaults when non-nil.
	Settings *models.FamilySettings
}

// JoinPreview is what a prospective member sees when looking up a code:
// a redacted family view plus a bounded member list without emails.
type JoinPreview struct {
	Family  models.FamilyPreview
	Members []models.MemberPreview
}

// CreateFamily creates a family with a fresh unique join code and admits
// the creator as its first member and admin.
func (s *FamilyService) CreateFamily(ctx context.Context, in CreateFamilyInput, creatorID string) (*models.Family, error) {
	name := strings.TrimSpace(in.FamilyName)
	if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
		return nil, validationErr("familyName", "must be between 2 and 50 characters")
	}
	if utf8.RuneCountInString(in.Description) > 200 {
		return nil, validationErr("description", "must be at most 200 characters")
	}

	creator, err := s.store.GetUserByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if creator.FamilyID != nil {
		return nil, ErrAlreadyInFamily
	}

	settings := models.DefaultSettings()
	if in.Settings != nil {
		settings = *in.Settings
		if settings.MaxMembers < 1 {
			return nil, validationErr("settings.maxMembers", "must be at least 1")
		}
	}

	now := time.Now().Unix()
	family := &models.Family{
		FamilyName:  name,
		Description: strings.TrimSpace(in.Description),
		AdminUserID: creatorID,
		MemberCount: 1, // the creator counts as the first member
		IsActive:    true,
		Settings:    settings,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// The UNIQUE constraint on the code column is the collision check;
	// retrying the insert avoids a check-then-write race.
	created := false
	for attempt := 1; attempt <= codeAttempts; attempt++ {
		code, err := generateFamilyCode()
		if err != nil {
			return nil, err
		}
		family.FamilyCode = code

		err = s.store.CreateFamily(ctx, family)
		if err == nil {
			created = true
			break
		}
		if !errors.Is(err, storage.ErrDuplicateCode) {
			return nil, err
		}
		metrics.ObserveCodeCollision()
		s.logger.Warn("family code collision, regenerating",
			"attempt", attempt, "family_name", name)
	}
	if !created {
		return nil, ErrCodeGenerationExhausted
	}

	creator.FamilyID = &family.FamilyID
	creator.Role = models.RoleAdmin
	if err := s.store.UpdateUser(ctx, creator); err != nil {
		return nil, err
	}

	s.logger.Info("family created",
		"family_id", family.FamilyID, "admin_user_id", creatorID)

	return family, nil
}

// GetFamilyByCode looks up a family by join code, case-insensitively, and
// returns the join preview. Families that cannot accept members fail with
// storage.ErrNotAccepting.
func (s *FamilyService) GetFamilyByCode(ctx context.Context, code string) (*JoinPreview, error) {
	family, err := s.store.GetFamilyByCode(ctx, normalizeCode(code))
	if err != nil {
		return nil, err
	}

	if !family.CanAcceptNewMembers() {
		return nil, storage.ErrNotAccepting
	}

	members, err := s.store.ListFamilyMembers(ctx, family.FamilyID)
	if err != nil {
		return nil, err
	}
	if len(members) > memberPreviewLimit {
		members = members[:memberPreviewLimit]
	}

	previews := make([]models.MemberPreview, len(members))
	for i, m := range members {
		previews[i] = models.MemberPreview{
			Name:     m.Name,
			Role:     m.Role,
			JoinedAt: m.UpdatedAt,
		}
	}

	return &JoinPreview{Family: family.Preview(), Members: previews}, nil
}

// JoinFamily admits the user into the family identified by code. The
// capacity check is the store's atomic conditional increment, so two joins
// racing for the last seat cannot both succeed.
func (s *FamilyService) JoinFamily(ctx context.Context, code, userID string) (*models.Family, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.FamilyID != nil {
		return nil, ErrAlreadyInFamily
	}

	family, err := s.store.GetFamilyByCode(ctx, normalizeCode(code))
	if err != nil {
		return nil, err
	}

	if err := s.store.AdmitMember(ctx, family.FamilyID); err != nil {
		metrics.ObserveJoin("rejected")
		return nil, err
	}

	user.FamilyID = &family.FamilyID
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	metrics.ObserveJoin("success")
	s.logger.Info("member joined family",
		"family_id", family.FamilyID, "user_id", userID)

	return s.store.GetFamily(ctx, family.FamilyID)
}

// RegenerateCode replaces the family's join code. Admin-only; the old code
// stops working immediately, with no grace period.
func (s *FamilyService) RegenerateCode(ctx context.Context, familyID, actorID string) (string, error) {
	actor, err := s.store.GetUserByID(ctx, actorID)
	if err != nil {
		return "", err
	}

	family, err := s.store.GetFamily(ctx, familyID)
	if err != nil {
		return "", err
	}

	if !access.CanManageFamily(actor, family) {
		return "", ErrAccessDenied
	}

	for attempt := 1; attempt <= codeAttempts; attempt++ {
		code, err := generateFamilyCode()
		if err != nil {
			return "", err
		}

		err = s.store.UpdateFamilyCode(ctx, familyID, code)
		if err == nil {
			s.logger.Info("family code regenerated",
				"family_id", familyID, "actor_id", actorID)
			return code, nil
		}
		if !errors.Is(err, storage.ErrDuplicateCode) {
			return "", err
		}
		metrics.ObserveCodeCollision()
		s.logger.Warn("family code collision, regenerating",
			"attempt", attempt, "family_id", familyID)
	}

	return "", ErrCodeGenerationExhausted
}

// generateFamilyCode draws 6 characters uniformly from [A-Z0-9].
// Bytes at or above the largest multiple of the charset size are
// rejected so no character is favored by the modulo.
func generateFamilyCode() (string, error) {
	limit := byte(256 - 256%len(models.FamilyCodeCharset))
	code := make([]byte, models.FamilyCodeLength)
	buf := make([]byte, 1)
	for i := 0; i < len(code); {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate family code: %w", err)
		}
		if buf[0] >= limit {
			continue
		}
		code[i] = models.FamilyCodeCharset[int(buf[0])%len(models.FamilyCodeCharset)]
		i++
	}
	return string(code), nil
}

// normalizeCode uppercases and trims a user-supplied join code.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
