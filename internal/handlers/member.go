package handlers

import (
	"net/http"

	apierrors "github.com/abira1/Toi-Task/internal/errors"
	"github.com/abira1/Toi-Task/internal/logger"
	"github.com/abira1/Toi-Task/internal/models"
	"github.com/abira1/Toi-Task/internal/projector"
	"github.com/gin-gonic/gin"
)

// MemberHandler serves the team roster. Reads are open to any
// authorized identity; writes are admin-only (enforced by middleware).
type MemberHandler struct {
	projector *projector.Projector
	log       *logger.Logger
}

func NewMemberHandler(p *projector.Projector, log *logger.Logger) *MemberHandler {
	return &MemberHandler{projector: p, log: log}
}

// ListMembers returns the current roster view.
func (h *MemberHandler) ListMembers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"teamMembers": h.projector.Members()})
}

// CreateMember adds a roster entry.
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var member models.TeamMember
	if err := c.ShouldBindJSON(&member); err != nil {
		apierrors.BadRequest(c, "Invalid team member")
		return
	}
	if member.Name == "" || member.Email == "" {
		apierrors.BadRequest(c, "Name and email are required")
		return
	}

	if err := h.projector.UpsertMember(&member); err != nil {
		h.log.Error("roster write failed", "error", err)
		apierrors.InternalError(c, "Failed to save team member")
		return
	}
	c.JSON(http.StatusCreated, member)
}

// UpdateMember replaces a roster entry.
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	var member models.TeamMember
	if err := c.ShouldBindJSON(&member); err != nil {
		apierrors.BadRequest(c, "Invalid team member")
		return
	}
	member.ID = c.Param("id")

	if err := h.projector.UpsertMember(&member); err != nil {
		h.log.Error("roster write failed", "error", err)
		apierrors.InternalError(c, "Failed to save team member")
		return
	}
	c.JSON(http.StatusOK, member)
}

// DeleteMember removes a roster entry.
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	if err := h.projector.RemoveMember(c.Param("id")); err != nil {
		h.log.Error("roster delete failed", "error", err)
		apierrors.InternalError(c, "Failed to remove team member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
