package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eadcode/OnlineDatingApp/internal/models"
	"github.com/eadcode/OnlineDatingApp/internal/repositories"
	"github.com/eadcode/OnlineDatingApp/internal/session"
	"github.com/eadcode/OnlineDatingApp/internal/telemetry"
)

// ProfileHandler serves account, profile and directory endpoints.
type ProfileHandler struct {
	users   repositories.UserRepository
	friends repositories.FriendRepository
	emitter *telemetry.AuditEmitter
}

// NewProfileHandler builds a ProfileHandler.
func NewProfileHandler(users repositories.UserRepository, friends repositories.FriendRepository, emitter *telemetry.AuditEmitter) *ProfileHandler {
	return &ProfileHandler{users: users, friends: friends, emitter: emitter}
}

// Profile returns the authenticated user's account and marks them online.
func (h *ProfileHandler) Profile(c *gin.Context) {
	userID := currentUserID(c)
	if err := h.users.SetOnline(c.Request.Context(), userID, true); err != nil {
		respondError(c, err)
		return
	}
	user, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile overwrites the editable profile fields.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var in models.ProfileUpdate
	if !bindBody(c, &in) {
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Singles lists every member as a public card with profile details.
func (h *ProfileHandler) Singles(c *gin.Context) {
	users, err := h.users.ListSingles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"singles": publicProfiles(users)})
}

// UserProfile shows another member. The friendship state is included when the viewer
// is signed in.
func (h *ProfileHandler) UserProfile(c *gin.Context) {
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.FindByID(c.Request.Context(), targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"user": publicProfile(user)}
	if viewerID := currentUserID(c); viewerID != 0 && viewerID != targetID {
		friends, err := h.friends.AreFriends(c.Request.Context(), viewerID, targetID)
		if err != nil {
			respondError(c, err)
			return
		}
		resp["is_friend"] = friends
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteAccount removes the authenticated user. Owned chats, posts, smiles and
// friendships are removed with it.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID := currentUserID(c)
	if err := h.users.Delete(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	h.emitter.Emit(c.Request.Context(), telemetry.EventAccountDeleted, "account deleted", requestIDFromContext(c), userID, nil)
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

type profileView struct {
	models.UserCard
	City    string `json:"city"`
	Country string `json:"country"`
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	About   string `json:"about"`
}

func publicProfile(u models.User) profileView {
	return profileView{
		UserCard: u.Card(),
		City:     u.City,
		Country:  u.Country,
		Age:      u.Age,
		Gender:   u.Gender,
		About:    u.About,
	}
}

func publicProfiles(users []models.User) []profileView {
	out := make([]profileView, 0, len(users))
	for _, u := range users {
		out = append(out, publicProfile(u))
	}
	return out
}
