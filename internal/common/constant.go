package common

// Header names set on every outbound API request.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)

// Auth endpoint paths of the LearnSphere REST API.
const (
	LoginPath        = "/auth/login"
	RegisterPath     = "/auth/register"
	ValidatePath     = "/auth/validate"
	RefreshTokenPath = "/auth/refresh-token"
	LogoutPath       = "/auth/logout"
)

// RefreshCookieName is the cookie the API uses to carry the refresh credential.
const RefreshCookieName = "refreshToken"
