package models

// FamilyCodeLength is the fixed length of a family join code.
const FamilyCodeLength = 6

// FamilyCodeCharset is the alphabet join codes are drawn from.
const FamilyCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// FamilySettings controls how a family admits and manages members.
type FamilySettings struct {
	// AllowMemberInvites lets non-admin members share the join code.
	AllowMemberInvites bool

	// RequireAdminApproval gates joins behind admin confirmation.
	// Not enforced by the admission flow yet; carried for forward compatibility.
	RequireAdminApproval bool

	// MaxMembers caps how many members the family accepts.
	MaxMembers int
}

// DefaultSettings returns the settings applied to newly created families.
func DefaultSettings() FamilySettings {
	return FamilySettings{
		AllowMemberInvites:   true,
		RequireAdminApproval: false,
		MaxMembers:           50,
	}
}

// Family represents a tenant: a group of users sharing todos.
//
// Membership is admitted through FamilyCode, a 6-character uppercase
// alphanumeric code unique across all families. MemberCount only ever
// grows in this core; there is no leave/remove flow.
type Family struct {
	// FamilyID is the opaque generated identifier (UUID format).
	FamilyID string

	// FamilyName is the display name, 2-50 characters.
	FamilyName string

	// FamilyCode is the unique join code. Regenerating it invalidates
	// the old code immediately.
	FamilyCode string

	// Description is an optional blurb shown on the join preview.
	Description string

	// AdminUserID is the user who created the family.
	AdminUserID string

	// MemberCount includes the creator. Kept consistent with
	// Settings.MaxMembers by an atomic conditional update at the store.
	MemberCount int

	IsActive bool
	Settings FamilySettings

	CreatedAt int64
	UpdatedAt int64
}

// CanAcceptNewMembers reports whether the family admits another member.
func (f *Family) CanAcceptNewMembers() bool {
	return f.IsActive && f.MemberCount < f.Settings.MaxMembers
}

// FamilyPreview is the redacted view handed to prospective joiners:
// no settings, no admin identity.
type FamilyPreview struct {
	FamilyID    string
	FamilyName  string
	Description string
	MemberCount int
}

// Preview returns the redacted join-preview for the family.
func (f *Family) Preview() FamilyPreview {
	return FamilyPreview{
		FamilyID:    f.FamilyID,
		FamilyName:  f.FamilyName,
		Description: f.Description,
		MemberCount: f.MemberCount,
	}
}
