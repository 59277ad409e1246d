package models

import (
	"time"

	"github.com/google/uuid"
)

// Role determines what a user may do inside their family.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// User represents a family member account.
//
// A user belongs to at most one family. FamilyID is nil until the user
// creates or joins a family. Users are never hard-deleted; deactivation
// flips IsActive instead.
type User struct {
	// ID is the family-scoped handle used everywhere a todo references a person.
	ID string

	// UniqueID is the globally unique identity (UUID format), assigned at registration.
	UniqueID string

	// Email is the user's email address (unique, used for login).
	Email string

	// Name is the display name shown to other family members.
	Name string

	// PasswordHash is the bcrypt hash of the user's password.
	// Empty for users provisioned through an external identity provider.
	PasswordHash string

	// Role is either RoleAdmin or RoleMember. Exactly one admin is expected
	// per family at creation time, though nothing forbids promoting more.
	Role Role

	// FamilyID references the family this user belongs to, nil until admitted.
	FamilyID *string

	IsActive  bool
	CreatedAt int64
	UpdatedAt int64
}

// NewUser creates a user with generated identifiers and timestamps.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		UniqueID:     uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         RoleMember,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// MemberPreview is the redacted view of a user returned to prospective
// joiners looking up a family by code. No email, no internal flags.
type MemberPreview struct {
	Name     string
	Role     Role
	JoinedAt int64
}
