package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eadcode/OnlineDatingApp/internal/models"
	"github.com/eadcode/OnlineDatingApp/internal/repositories"
)

// ContactHandler accepts the public contact form.
type ContactHandler struct {
	contacts repositories.ContactRepository
}

func NewContactHandler(contacts repositories.ContactRepository) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// Submit stores a contact form message.
func (h *ContactHandler) Submit(c *gin.Context) {
	var in models.ContactMessage
	if !bindBody(c, &in) {
		return
	}
	stored, err := h.contacts.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": stored})
}
