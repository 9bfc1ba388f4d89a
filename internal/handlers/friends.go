package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eadcode/OnlineDatingApp/internal/repositories"
	"github.com/eadcode/OnlineDatingApp/internal/telemetry"
)

// FriendHandler manages friend requests and friend lists.
type FriendHandler struct {
	friends repositories.FriendRepository
	emitter *telemetry.AuditEmitter
}

func NewFriendHandler(friends repositories.FriendRepository, emitter *telemetry.AuditEmitter) *FriendHandler {
	return &FriendHandler{friends: friends, emitter: emitter}
}

// SendRequest asks the member identified by :id to become a friend.
func (h *FriendHandler) SendRequest(c *gin.Context) {
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}
	edge, err := h.friends.SendRequest(c.Request.Context(), currentUserID(c), targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"friendship": edge})
}

// Accept accepts the pending request identified by :id.
func (h *FriendHandler) Accept(c *gin.Context) {
	edgeID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)
	edge, err := h.friends.Accept(c.Request.Context(), edgeID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.emitter.Emit(c.Request.Context(), telemetry.EventFriendAccepted, "friend request accepted", requestIDFromContext(c), userID,
		map[string]any{"friendship_id": edge.ID, "requester_id": edge.RequesterID})
	c.JSON(http.StatusOK, gin.H{"friendship": edge})
}

// Reject declines the pending request identified by :id.
func (h *FriendHandler) Reject(c *gin.Context) {
	edgeID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.friends.Reject(c.Request.Context(), edgeID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Remove ends the friendship identified by :id.
func (h *FriendHandler) Remove(c *gin.Context) {
	edgeID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.friends.Remove(c.Request.Context(), edgeID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List returns accepted friends and requests awaiting the user's answer.
func (h *FriendHandler) List(c *gin.Context) {
	userID := currentUserID(c)
	friends, err := h.friends.ListFriends(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	pending, err := h.friends.ListPendingRequests(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"friends": friends, "pending": pending})
}
