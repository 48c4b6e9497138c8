package authz

import (
	"errors"
	"strings"

	"github.com/abira1/Toi-Task/internal/constants"
	"github.com/abira1/Toi-Task/internal/identity"
	"github.com/abira1/Toi-Task/internal/logger"
	"github.com/abira1/Toi-Task/internal/models"
	"github.com/abira1/Toi-Task/internal/repository"
	"gorm.io/gorm"
)

// Resolver classifies a confirmed sign-in as Admin, AuthorizedMember
// or Unauthorized by cross-referencing the admin allow-list and the
// team roster.
type Resolver struct {
	adminEmails []string
	members     repository.MemberRepository
	log         *logger.Logger
}

func NewResolver(adminEmails []string, members repository.MemberRepository, log *logger.Logger) *Resolver {
	return &Resolver{
		adminEmails: adminEmails,
		members:     members,
		log:         log,
	}
}

// IsAdminEmail reports whether an email is on the admin allow-list.
// Comparison is case-insensitive.
func (r *Resolver) IsAdminEmail(email string) bool {
	if email == "" {
		return false
	}
	for _, allowed := range r.adminEmails {
		if strings.EqualFold(allowed, email) {
			return true
		}
	}
	return false
}

// Resolve runs the second resolution phase for a confirmed identity.
// Admins are classified from the allow-list alone, with a user
// projection synthesized from the identity claims; everyone else needs
// a roster match. A roster lookup failure resolves to StateError, not
// to Unauthorized.
func (r *Resolver) Resolve(claims *identity.Claims) Resolution {
	if claims == nil {
		return Resolution{State: StateUnresolved}
	}

	if r.IsAdminEmail(claims.Email) {
		return Resolution{
			State: StateAdmin,
			User:  r.synthesizeAdmin(claims),
		}
	}

	entry, err := r.members.FindByEmail(claims.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Info("sign-in rejected: not on roster", "email", claims.Email)
			return Resolution{State: StateUnauthorized}
		}
		r.log.Error("roster lookup failed", "error", err)
		return Resolution{State: StateError, Err: err}
	}

	return Resolution{
		State: StateAuthorizedMember,
		User:  mergeProjection(entry, claims),
	}
}

// synthesizeAdmin builds a user projection for an allow-listed admin
// who may not have a roster entry at all.
func (r *Resolver) synthesizeAdmin(claims *identity.Claims) *models.TeamMember {
	name := claims.DisplayName
	if name == "" {
		name = "User"
	}
	return &models.TeamMember{
		ID:        claims.UID,
		Name:      name,
		Email:     claims.Email,
		Role:      constants.RoleAdmin,
		Avatar:    claims.Avatar(),
		Expertise: []string{},
	}
}

// mergeProjection layers roster fields over identity-provider
// defaults, preferring roster data when present. The roster entry's
// own id is carried forward as the canonical id for subsequent writes,
// for compatibility with entries keyed by an older id scheme.
func mergeProjection(entry *models.TeamMember, claims *identity.Claims) *models.TeamMember {
	merged := *entry

	if merged.ID == "" {
		merged.ID = claims.UID
	}
	if merged.Name == "" {
		merged.Name = claims.DisplayName
	}
	if merged.Name == "" {
		merged.Name = "User"
	}
	if merged.Email == "" {
		merged.Email = claims.Email
	}
	if merged.Role == "" {
		merged.Role = constants.RoleMember
	}
	if merged.Avatar == "" {
		merged.Avatar = claims.Avatar()
	}
	if merged.Expertise == nil {
		merged.Expertise = []string{}
	}
	return &merged
}
