package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/eadcode/OnlineDatingApp/internal/accounts"
	"github.com/eadcode/OnlineDatingApp/internal/identity"
	"github.com/eadcode/OnlineDatingApp/internal/models"
	"github.com/eadcode/OnlineDatingApp/internal/observability"
	"github.com/eadcode/OnlineDatingApp/internal/repositories"
	"github.com/eadcode/OnlineDatingApp/internal/session"
	"github.com/eadcode/OnlineDatingApp/internal/telemetry"
)

const oauthStateCookie = "oauth_state"

// AuthHandler manages signup, login, logout and OAuth callbacks.
type AuthHandler struct {
	accounts     *accounts.Service
	users        repositories.UserRepository
	sessions     *session.Manager
	providers    map[string]identity.Provider
	emitter      *telemetry.AuditEmitter
	cookieSecure bool
}

// NewAuthHandler builds an AuthHandler. Nil providers are treated as disabled.
func NewAuthHandler(svc *accounts.Service, users repositories.UserRepository, sessions *session.Manager, emitter *telemetry.AuditEmitter, cookieSecure bool, providers ...identity.Provider) *AuthHandler {
	byName := map[string]identity.Provider{}
	for _, p := range providers {
		if p != nil {
			byName[p.Name()] = p
		}
	}
	return &AuthHandler{
		accounts:     svc,
		users:        users,
		sessions:     sessions,
		providers:    byName,
		emitter:      emitter,
		cookieSecure: cookieSecure,
	}
}

// SignupForm describes the signup form constraints.
func (h *AuthHandler) SignupForm(c *gin.Context) {
	providers := make([]string, 0, len(h.providers))
	for name := range h.providers {
		providers = append(providers, name)
	}
	c.JSON(http.StatusOK, gin.H{
		"fields":              []string{"fullname", "email", "password", "password2"},
		"min_password_length": h.accounts.MinPasswordLength(),
		"oauth_providers":     providers,
	})
}

// Signup creates a local account and starts a session.
func (h *AuthHandler) Signup(c *gin.Context) {
	var in accounts.SignupInput
	if !bindBody(c, &in) {
		return
	}

	user, err := h.accounts.Signup(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	observability.IncSignup("local")
	h.emitter.Emit(c.Request.Context(), telemetry.EventSignup, "local signup", requestIDFromContext(c), user.ID, nil)

	if !h.startSession(c, user.ID) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login checks local credentials and marks the user online.
func (h *AuthHandler) Login(c *gin.Context) {
	var in struct {
		Email    string `form:"email" json:"email" binding:"required"`
		Password string `form:"password" json:"password" binding:"required"`
	}
	if !bindBody(c, &in) {
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.completeLogin(c, user, "local")
}

// Logout marks the user offline and clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.users.SetOnline(c.Request.Context(), currentUserID(c), false); err != nil {
		respondError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", h.cookieSecure, true)
	c.Status(http.StatusNoContent)
}

// OAuthStart redirects to the provider's consent page.
func (h *AuthHandler) OAuthStart(c *gin.Context) {
	provider, ok := h.providers[c.Param("provider")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "provider not enabled", "kind": "not_found"})
		return
	}

	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", h.cookieSecure, true)
	c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
}

// OAuthCallback completes the provider login, provisioning the account on first use.
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	provider, ok := h.providers[c.Param("provider")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "provider not enabled", "kind": "not_found"})
		return
	}

	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || expected == "" || expected != c.Query("state") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid oauth state", "kind": "unauthenticated"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.cookieSecure, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login cancelled", "kind": "unauthenticated"})
		return
	}

	profile, err := provider.Exchange(c.Request.Context(), code)
	if err != nil {
		log.Warn().Err(err).Str("provider", provider.Name()).Msg("oauth exchange failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login failed", "kind": "unauthenticated"})
		return
	}

	user, created, err := h.accounts.ProvisionOAuth(c.Request.Context(), profile)
	if err != nil {
		respondError(c, err)
		return
	}
	if created {
		observability.IncSignup(provider.Name())
		h.emitter.Emit(c.Request.Context(), telemetry.EventSignup, provider.Name()+" signup", requestIDFromContext(c), user.ID, nil)
	}
	h.completeLogin(c, user, provider.Name())
}

func (h *AuthHandler) completeLogin(c *gin.Context, user models.User, method string) {
	if err := h.users.SetOnline(c.Request.Context(), user.ID, true); err != nil {
		respondError(c, err)
		return
	}
	user.Online = true
	h.emitter.Emit(c.Request.Context(), telemetry.EventLogin, method+" login", requestIDFromContext(c), user.ID, nil)

	if !h.startSession(c, user.ID) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "redirect": "/profile"})
}

func (h *AuthHandler) startSession(c *gin.Context, userID int) bool {
	token, err := h.sessions.Issue(userID)
	if err != nil {
		respondError(c, err)
		return false
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, int(h.sessions.TTL().Seconds()), "/", "", h.cookieSecure, true)
	c.Header("X-Session-Token", token)
	return true
}
