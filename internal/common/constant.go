package common

const (
	// SessionCookieName is the cookie carrying the session token.
	SessionCookieName = "corechat_session"

	// AuthorizationHeaderName carries "Bearer <token>" for non-browser clients.
	AuthorizationHeaderName = "Authorization"
)
