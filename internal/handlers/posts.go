package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eadcode/OnlineDatingApp/internal/apperrors"
	"github.com/eadcode/OnlineDatingApp/internal/models"
	"github.com/eadcode/OnlineDatingApp/internal/repositories"
)

// PostHandler serves the social feed.
type PostHandler struct {
	posts   repositories.PostRepository
	friends repositories.FriendRepository
}

func NewPostHandler(posts repositories.PostRepository, friends repositories.FriendRepository) *PostHandler {
	return &PostHandler{posts: posts, friends: friends}
}

// Create publishes a post owned by the authenticated user.
func (h *PostHandler) Create(c *gin.Context) {
	var in models.PostInput
	if !bindBody(c, &in) {
		return
	}
	post, err := h.posts.Create(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// ListPublic returns every public post, newest first.
func (h *PostHandler) ListPublic(c *gin.Context) {
	items, err := h.posts.ListPublic(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": items})
}

// ProfilePosts returns all of the authenticated user's own posts.
func (h *PostHandler) ProfilePosts(c *gin.Context) {
	items, err := h.posts.ListByOwner(c.Request.Context(), currentUserID(c),
		[]models.PostStatus{models.PostPublic, models.PostFriends, models.PostPrivate})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": items})
}

// UserPosts returns another member's posts visible to the viewer.
func (h *PostHandler) UserPosts(c *gin.Context) {
	ownerID, ok := paramID(c, "id")
	if !ok {
		return
	}
	viewerID := currentUserID(c)

	statuses := []models.PostStatus{models.PostPublic}
	if viewerID == ownerID {
		statuses = append(statuses, models.PostFriends, models.PostPrivate)
	} else {
		friends, err := h.friends.AreFriends(c.Request.Context(), viewerID, ownerID)
		if err != nil {
			respondError(c, err)
			return
		}
		if friends {
			statuses = append(statuses, models.PostFriends)
		}
	}

	items, err := h.posts.ListByOwner(c.Request.Context(), ownerID, statuses)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": items})
}

// Get returns one post when the viewer may see it. Hidden posts answer 404.
func (h *PostHandler) Get(c *gin.Context) {
	view, ok := h.visiblePost(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": view})
}

// Edit rewrites a post. Only its owner may do so.
func (h *PostHandler) Edit(c *gin.Context) {
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in models.PostInput
	if !bindBody(c, &in) {
		return
	}
	post, err := h.posts.Update(c.Request.Context(), postID, currentUserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// Delete removes a post. Only its owner may do so.
func (h *PostHandler) Delete(c *gin.Context) {
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.posts.Delete(c.Request.Context(), postID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Like records the viewer's like on a post.
func (h *PostHandler) Like(c *gin.Context) {
	view, ok := h.visiblePost(c)
	if !ok {
		return
	}
	if err := h.posts.Like(c.Request.Context(), view.ID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Unlike withdraws the viewer's like.
func (h *PostHandler) Unlike(c *gin.Context) {
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.posts.Unlike(c.Request.Context(), postID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Comment appends a comment when the post allows comments.
func (h *PostHandler) Comment(c *gin.Context) {
	view, ok := h.visiblePost(c)
	if !ok {
		return
	}
	var in struct {
		Body string `form:"commentBody" json:"body"`
	}
	if !bindBody(c, &in) {
		return
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		respondError(c, apperrors.Validation("comment is required", map[string]string{"body": "is required"}))
		return
	}

	comment, err := h.posts.Comment(c.Request.Context(), view.ID, currentUserID(c), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// visiblePost loads :id and checks the viewer may see it. Hidden posts answer 404
// so their existence is not revealed.
func (h *PostHandler) visiblePost(c *gin.Context) (models.PostView, bool) {
	postID, ok := paramID(c, "id")
	if !ok {
		return models.PostView{}, false
	}
	view, err := h.posts.Get(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return models.PostView{}, false
	}

	viewerID := currentUserID(c)
	isFriend := false
	if view.Status == models.PostFriends && viewerID != view.OwnerID {
		if isFriend, err = h.friends.AreFriends(c.Request.Context(), viewerID, view.OwnerID); err != nil {
			respondError(c, err)
			return models.PostView{}, false
		}
	}
	if !view.VisibleTo(viewerID, isFriend) {
		respondError(c, repositories.ErrPostNotFound)
		return models.PostView{}, false
	}
	return view, true
}
