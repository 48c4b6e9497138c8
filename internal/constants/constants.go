package constants

// Session cookie name
const SessionCookieName = "toitask_session"

// Session / context keys
const (
	ContextKeyUserID = "user_id"
	SessionKeyRole   = "role"
	SessionKeyEmail  = "email"
	SessionKeyName   = "name"
	SessionKeyAvatar = "avatar"
)

// Role labels
const (
	RoleAdmin  = "admin"
	RoleMember = "user"
)
