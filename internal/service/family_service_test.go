package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/hearthhub/hearthhub/internal/models"
	"github.com/hearthhub/hearthhub/internal/storage"
	"github.com/hearthhub/hearthhub/internal/storage/sqlite"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestUser(t *testing.T, store storage.Store, email string) *models.User {
	t.Helper()

	user := models.NewUser(email, "Test User", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestCreateFamily(t *testing.T) {
	store := newTestStore(t)
	svc := NewFamilyService(store, testLogger())
	ctx := context.Background()

	t.Run("creates family with generated code and creator as admin", func(t *testing.T) {
		creator := createTestUser(t, store, "creator@example.com")

		family, err := svc.CreateFamily(ctx, CreateFamilyInput{
			FamilyName:  "The Smiths",
			Description: "Our family",
		}, creator.ID)
		if err != nil {
			t.Fatalf("CreateFamily failed: %v", err)
		}

		if !codePattern.MatchString(family.FamilyCode) {
			t.Errorf("FamilyCode = %q, want 6 uppercase alphanumerics", family.FamilyCode)
		}
		if family.MemberCount != 1 {
			t.Errorf("MemberCount = %d, want 1", family.MemberCount)
		}
		if family.Settings.MaxMembers != 50 {
			t.Errorf("MaxMembers = %d, want default 50", family.Settings.MaxMembers)
		}
		if family.AdminUserID != creator.ID {
			t.Errorf("AdminUserID = %s, want %s", family.AdminUserID, creator.ID)
		}

		updated, err := store.GetUserByID(ctx, creator.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if updated.FamilyID == nil || *updated.FamilyID != family.FamilyID {
			t.Errorf("creator not assigned to family: %v", updated.FamilyID)
		}
		if updated.Role != models.RoleAdmin {
			t.Errorf("creator role = %s, want %s", updated.Role, models.RoleAdmin)
		}
	})

	t.Run("rejects invalid names", func(t *testing.T) {
		creator := createTestUser(t, store, "short@example.com")

		_, err := svc.CreateFamily(ctx, CreateFamilyInput{FamilyName: "X"}, creator.ID)
		if !IsValidation(err) {
			t.Errorf("expected validation error for 1-char name, got %v", err)
		}

		long := make([]byte, 51)
		for i := range long {
			long[i] = 'a'
		}
		_, err = svc.CreateFamily(ctx, CreateFamilyInput{FamilyName: string(long)}, creator.ID)
		if !IsValidation(err) {
			t.Errorf("expected validation error for 51-char name, got %v", err)
		}
	})

	t.Run("name limit counts runes not bytes", func(t *testing.T) {
		creator := createTestUser(t, store, "cjk@example.com")

		// 50 CJK runes are 150 bytes; still within the 50-character cap.
		family, err := svc.CreateFamily(ctx, CreateFamilyInput{
			FamilyName: strings.Repeat("山", 50),
		}, creator.ID)
		if err != nil {
			t.Fatalf("CreateFamily rejected 50-rune name: %v", err)
		}
		if got := len([]rune(family.FamilyName)); got != 50 {
			t.Errorf("name runes = %d, want 50", got)
		}
	})

	t.Run("rejects creator who already belongs to a family", func(t *testing.T) {
		creator := createTestUser(t, store, "taken@example.com")
		if _, err := svc.CreateFamily(ctx, CreateFamilyInput{FamilyName: "First"}, creator.ID); err != nil {
			t.Fatalf("CreateFamily failed: %v", err)
		}

		_, err := svc.CreateFamily(ctx, CreateFamilyInput{FamilyName: "Second"}, creator.ID)
		if !errors.Is(err, ErrAlreadyInFamily) {
			t.Errorf("expected ErrAlreadyInFamily, got %v", err)
		}
	})

	t.Run("rejects settings with zero capacity", func(t *testing.T) {
		creator := createTestUser(t, store, "zero@example.com")

		_, err := svc.CreateFamily(ctx, CreateFamilyInput{
			FamilyName: "Tiny",
			Settings:   &models.FamilySettings{MaxMembers: 0},
		}, creator.ID)
		if !IsValidation(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestGenerateFamilyCode(t *testing.T) {
	seen := make(map[byte]int)
	for i := 0; i < 600; i++ {
		code, err := generateFamilyCode()
		if err != nil {
			t.Fatalf("generateFamilyCode failed: %v", err)
		}
		if !codePattern.MatchString(code) {
			t.Fatalf("code %q does not match %s", code, codePattern)
		}
		for j := 0; j < len(code); j++ {
			seen[code[j]]++
		}
	}

	// 3600 draws over 36 characters; every character should show up.
	for i := 0; i < len(models.FamilyCodeCharset); i++ {
		if seen[models.FamilyCodeCharset[i]] == 0 {
			t.Errorf("character %c never drawn", models.FamilyCodeCharset[i])
		}
	}
}

func TestGetFamilyByCode(t *testing.T) {
	store := newTestStore(t)
	svc := NewFamilyService(store, testLogger())
	ctx := context.Background()

	creator := createTestUser(t, store, "admin@example.com")
	family, err := svc.CreateFamily(ctx, CreateFamilyInput{
		FamilyName:  "Lookup Family",
		Description: "Visible to joiners",
	}, creator.ID)
	if err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}

	t.Run("resolves code case-insensitively with redacted preview", func(t *testing.T) {
		preview, err := svc.GetFamilyByCode(ctx, "  "+strings.ToLower(family.FamilyCode)+"  ")
		if err != nil {
			t.Fatalf("GetFamilyByCode failed: %v", err)
		}

		if preview.Family.FamilyID != family.FamilyID {
			t.Errorf("FamilyID = %s, want %s", preview.Family.FamilyID, family.FamilyID)
		}
		if preview.Family.Description != "Visible to joiners" {
			t.Errorf("Description = %q", preview.Family.Description)
		}
		if len(preview.Members) != 1 {
			t.Fatalf("Members count = %d, want 1", len(preview.Members))
		}
		if preview.Members[0].Role != models.RoleAdmin {
			t.Errorf("member role = %s, want %s", preview.Members[0].Role, models.RoleAdmin)
		}
	})

	t.Run("unknown code returns ErrNotFound", func(t *testing.T) {
		_, err := svc.GetFamilyByCode(ctx, "NOPE99")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("full family returns ErrNotAccepting", func(t *testing.T) {
		solo := createTestUser(t, store, "solo@example.com")
		fullFamily, err := svc.CreateFamily(ctx, CreateFamilyInput{
			FamilyName: "Full House",
			Settings:   &models.FamilySettings{AllowMemberInvites: true, MaxMembers: 1},
		}, solo.ID)
		if err != nil {
			t.Fatalf("CreateFamily failed: %v", err)
		}

		_, err = svc.GetFamilyByCode(ctx, fullFamily.FamilyCode)
		if !errors.Is(err, storage.ErrNotAccepting) {
			t.Errorf("expected ErrNotAccepting, got %v", err)
		}
	})
}

func TestJoinFamily(t *testing.T) {
	store := newTestStore(t)
	svc := NewFamilyService(store, testLogger())
	ctx := context.Background()

	admin := createTestUser(t, store, "owner@example.com")
	family, err := svc.CreateFamily(ctx, CreateFamilyInput{FamilyName: "Joiners"}, admin.ID)
	if err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}

	t.Run("admits member and bumps count", func(t *testing.T) {
		joiner := createTestUser(t, store, "joiner@example.com")

		joined, err := svc.JoinFamily(ctx, strings.ToLower(family.FamilyCode), joiner.ID)
		if err != nil {
			t.Fatalf("JoinFamily failed: %v", err)
		}
		if joined.MemberCount != 2 {
			t.Errorf("MemberCount = %d, want 2", joined.MemberCount)
		}

		updated, err := store.GetUserByID(ctx, joiner.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if updated.FamilyID == nil || *updated.FamilyID != family.FamilyID {
			t.Errorf("joiner not assigned to family: %v", updated.FamilyID)
		}
		if updated.Role != models.RoleMember {
			t.Errorf("joiner role = %s, want %s", updated.Role, models.RoleMember)
		}
	})

	t.Run("rejects a second join", func(t *testing.T) {
		joiner := createTestUser(t, store, "twice@example.com")
		if _, err := svc.JoinFamily(ctx, family.FamilyCode, joiner.ID); err != nil {
			t.Fatalf("JoinFamily failed: %v", err)
		}

		_, err := svc.JoinFamily(ctx, family.FamilyCode, joiner.ID)
		if !errors.Is(err, ErrAlreadyInFamily) {
			t.Errorf("expected ErrAlreadyInFamily, got %v", err)
		}
	})

	t.Run("concurrent joins never exceed capacity", func(t *testing.T) {
		founder := createTestUser(t, store, "founder@example.com")
		capped, err := svc.CreateFamily(ctx, CreateFamilyInput{
			FamilyName: "Capped",
			Settings:   &models.FamilySettings{AllowMemberInvites: true, MaxMembers: 4},
		}, founder.ID)
		if err != nil {
			t.Fatalf("CreateFamily failed: %v", err)
		}

		const contenders = 10
		users := make([]*models.User, contenders)
		for i := range users {
			users[i] = createTestUser(t, store, fmt.Sprintf("race%d@example.com", i))
		}

		var wg sync.WaitGroup
		successes := make(chan struct{}, contenders)
		for _, user := range users {
			wg.Add(1)
			go func(userID string) {
				defer wg.Done()
				if _, err := svc.JoinFamily(ctx, capped.FamilyCode, userID); err == nil {
					successes <- struct{}{}
				}
			}(user.ID)
		}
		wg.Wait()
		close(successes)

		if got := len(successes); got != 3 {
			t.Errorf("joins succeeded = %d, want 3", got)
		}

		final, err := store.GetFamily(ctx, capped.FamilyID)
		if err != nil {
			t.Fatalf("GetFamily failed: %v", err)
		}
		if final.MemberCount != 4 {
			t.Errorf("MemberCount = %d, want 4", final.MemberCount)
		}
	})
}

func TestRegenerateCode(t *testing.T) {
	store := newTestStore(t)
	svc := NewFamilyService(store, testLogger())
	ctx := context.Background()

	admin := createTestUser(t, store, "chief@example.com")
	family, err := svc.CreateFamily(ctx, CreateFamilyInput{FamilyName: "Rotators"}, admin.ID)
	if err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}

	member := createTestUser(t, store, "plain@example.com")
	if _, err := svc.JoinFamily(ctx, family.FamilyCode, member.ID); err != nil {
		t.Fatalf("JoinFamily failed: %v", err)
	}

	t.Run("non-admin is denied", func(t *testing.T) {
		_, err := svc.RegenerateCode(ctx, family.FamilyID, member.ID)
		if !errors.Is(err, ErrAccessDenied) {
			t.Errorf("expected ErrAccessDenied, got %v", err)
		}
	})

	t.Run("admin rotates the code and the old one stops working", func(t *testing.T) {
		oldCode := family.FamilyCode

		newCode, err := svc.RegenerateCode(ctx, family.FamilyID, admin.ID)
		if err != nil {
			t.Fatalf("RegenerateCode failed: %v", err)
		}
		if !codePattern.MatchString(newCode) {
			t.Errorf("new code = %q, want 6 uppercase alphanumerics", newCode)
		}
		if newCode == oldCode {
			t.Error("expected a different code")
		}

		if _, err := svc.GetFamilyByCode(ctx, oldCode); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("old code should stop resolving, got %v", err)
		}
		if _, err := svc.GetFamilyByCode(ctx, newCode); err != nil {
			t.Errorf("new code should resolve, got %v", err)
		}
	})
}
