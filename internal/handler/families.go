package handler

import (
	"net/http"

	"github.com/hearthhub/hearthhub/internal/models"
	"github.com/hearthhub/hearthhub/internal/service"
)

type createFamilyRequest struct {
	FamilyName  string          `json:"familyName"`
	Description string          `json:"description,omitempty"`
	Settings    *familySettings `json:"settings,omitempty"`
}

type familySettings struct {
	AllowMemberInvites   bool `json:"allowMemberInvites"`
	RequireAdminApproval bool `json:"requireAdminApproval"`
	MaxMembers           int  `json:"maxMembers"`
}

type familyView struct {
	FamilyID    string         `json:"familyId"`
	FamilyName  string         `json:"familyName"`
	FamilyCode  string         `json:"familyCode"`
	Description string         `json:"description,omitempty"`
	AdminUserID string         `json:"adminUserId"`
	MemberCount int            `json:"memberCount"`
	IsActive    bool           `json:"isActive"`
	Settings    familySettings `json:"settings"`
	CreatedAt   int64          `json:"createdAt"`
	UpdatedAt   int64          `json:"updatedAt"`
}

type joinFamilyRequest struct {
	Code string `json:"code"`
}

type familyPreviewResponse struct {
	Family  familyPreviewView `json:"family"`
	Members []memberView      `json:"members"`
}

type familyPreviewView struct {
	FamilyID    string `json:"familyId"`
	FamilyName  string `json:"familyName"`
	Description string `json:"description,omitempty"`
	MemberCount int    `json:"memberCount"`
}

type memberView struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	JoinedAt int64  `json:"joinedAt"`
}

func toFamilyView(f *models.Family) familyView {
	return familyView{
		FamilyID:    f.FamilyID,
		FamilyName:  f.FamilyName,
		FamilyCode:  f.FamilyCode,
		Description: f.Description,
		AdminUserID: f.AdminUserID,
		MemberCount: f.MemberCount,
		IsActive:    f.IsActive,
		Settings: familySettings{
			AllowMemberInvites:   f.Settings.AllowMemberInvites,
			RequireAdminApproval: f.Settings.RequireAdminApproval,
			MaxMembers:           f.Settings.MaxMembers,
		},
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func (h *Handler) handleCreateFamily(w http.ResponseWriter, r *http.Request) {
	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	in := service.CreateFamilyInput{
		FamilyName:  req.FamilyName,
		Description: req.Description,
	}
	if req.Settings != nil {
		in.Settings = &models.FamilySettings{
			AllowMemberInvites:   req.Settings.AllowMemberInvites,
			RequireAdminApproval: req.Settings.RequireAdminApproval,
			MaxMembers:           req.Settings.MaxMembers,
		}
	}

	family, err := h.families.CreateFamily(r.Context(), in, actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFamilyView(family))
}

func (h *Handler) handleLookupFamily(w http.ResponseWriter, r *http.Request) {
	preview, err := h.families.GetFamilyByCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := familyPreviewResponse{
		Family: familyPreviewView{
			FamilyID:    preview.Family.FamilyID,
			FamilyName:  preview.Family.FamilyName,
			Description: preview.Family.Description,
			MemberCount: preview.Family.MemberCount,
		},
		Members: make([]memberView, len(preview.Members)),
	}
	for i, m := range preview.Members {
		resp.Members[i] = memberView{Name: m.Name, Role: string(m.Role), JoinedAt: m.JoinedAt}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleJoinFamily(w http.ResponseWriter, r *http.Request) {
	var req joinFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	family, err := h.families.JoinFamily(r.Context(), req.Code, actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFamilyView(family))
}

func (h *Handler) handleRegenerateCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.families.RegenerateCode(r.Context(), r.PathValue("id"), actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"familyCode": code})
}
