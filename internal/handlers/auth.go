package handlers

import (
	"net/http"

	"github.com/abira1/Toi-Task/internal/authz"
	"github.com/abira1/Toi-Task/internal/constants"
	"github.com/abira1/Toi-Task/internal/dto"
	apierrors "github.com/abira1/Toi-Task/internal/errors"
	"github.com/abira1/Toi-Task/internal/identity"
	"github.com/abira1/Toi-Task/internal/logger"
	"github.com/abira1/Toi-Task/internal/middleware"
	"github.com/abira1/Toi-Task/internal/repository"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	verifier *identity.Verifier
	resolver *authz.Resolver
	tokens   repository.TokenRepository
	log      *logger.Logger
}

func NewAuthHandler(verifier *identity.Verifier, resolver *authz.Resolver, tokens repository.TokenRepository, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		verifier: verifier,
		resolver: resolver,
		tokens:   tokens,
		log:      log,
	}
}

// Login verifies the identity-provider token and runs the two-phase
// authorization resolution: identity confirmation first, then the
// roster lookup. No terminal answer is reported until both finish.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "idToken is required")
		return
	}

	sess := authz.NewSession()
	sess.Begin()

	claims, err := h.verifier.Verify(req.IDToken)
	if err != nil {
		sess.Complete(authz.Resolution{State: authz.StateError, Err: err})
		apierrors.AuthError(c, err.Error())
		return
	}

	sess.Complete(h.resolver.Resolve(claims))
	res := sess.Current()

	switch res.State {
	case authz.StateAdmin, authz.StateAuthorizedMember:
		session := sessions.Default(c)
		session.Set(constants.ContextKeyUserID, res.User.ID)
		session.Set(constants.SessionKeyRole, res.User.Role)
		session.Set(constants.SessionKeyEmail, res.User.Email)
		session.Set(constants.SessionKeyName, res.User.Name)
		session.Set(constants.SessionKeyAvatar, res.User.Avatar)
		if err := session.Save(); err != nil {
			apierrors.InternalError(c, "Failed to establish session")
			return
		}
		h.log.Info("sign-in resolved", "state", res.State.String(), "user_id", res.User.ID)
		c.JSON(http.StatusOK, dto.SessionResponse{
			User:         res.User,
			IsAdmin:      res.State == authz.StateAdmin,
			IsAuthorized: true,
		})

	case authz.StateUnauthorized:
		apierrors.Unauthorized(c, "")

	case authz.StateError:
		// Roster lookup failed in transit; this is not a rejection.
		h.log.Error("authorization resolution failed", "error", res.Err)
		apierrors.RespondWithError(c, http.StatusInternalServerError,
			apierrors.NewAPIError(apierrors.ErrCodeAuthError, "Failed to resolve authorization"))

	default:
		apierrors.AuthError(c, "Failed to resolve authorization")
	}
}

// Logout resets authorization state and cleans up the caller's push
// token. It completes (or fails loudly) before the client navigates
// away.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)

	if userID, ok := session.Get(constants.ContextKeyUserID).(string); ok && userID != "" {
		// Logout-triggered token cleanup. A failure here is a
		// notification concern, logged but never surfaced.
		if err := h.tokens.Delete(userID); err != nil {
			h.log.Warn("push token cleanup failed on logout", "user_id", userID, "error", err)
		}
	}

	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to clear session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetCurrentUser re-resolves the session's identity so the answer
// always reflects the current roster.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	session := sessions.Default(c)
	claims := &identity.Claims{
		UID:         userID,
		Email:       sessionString(session, constants.SessionKeyEmail),
		DisplayName: sessionString(session, constants.SessionKeyName),
		PhotoURL:    sessionString(session, constants.SessionKeyAvatar),
	}

	res := h.resolver.Resolve(claims)
	switch res.State {
	case authz.StateAdmin, authz.StateAuthorizedMember:
		c.JSON(http.StatusOK, dto.SessionResponse{
			User:         res.User,
			IsAdmin:      res.State == authz.StateAdmin,
			IsAuthorized: true,
		})
	case authz.StateUnauthorized:
		apierrors.Unauthorized(c, "")
	default:
		apierrors.AuthError(c, "Failed to resolve authorization")
	}
}

func sessionString(session sessions.Session, key string) string {
	if v, ok := session.Get(key).(string); ok {
		return v
	}
	return ""
}
