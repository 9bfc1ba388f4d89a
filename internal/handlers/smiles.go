package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eadcode/OnlineDatingApp/internal/repositories"
)

// SmileHandler manages smiles between members.
type SmileHandler struct {
	smiles repositories.SmileRepository
}

func NewSmileHandler(smiles repositories.SmileRepository) *SmileHandler {
	return &SmileHandler{smiles: smiles}
}

// Send smiles at the member identified by :id.
func (h *SmileHandler) Send(c *gin.Context) {
	receiverID, ok := paramID(c, "id")
	if !ok {
		return
	}
	smile, err := h.smiles.Send(c.Request.Context(), currentUserID(c), receiverID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"smile": smile})
}

// Show opens a received smile, marking it received.
func (h *SmileHandler) Show(c *gin.Context) {
	smileID, ok := paramID(c, "id")
	if !ok {
		return
	}
	smile, err := h.smiles.Show(c.Request.Context(), smileID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"smile": smile})
}

// Delete retracts a smile the user sent.
func (h *SmileHandler) Delete(c *gin.Context) {
	smileID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.smiles.Delete(c.Request.Context(), smileID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List returns smiles the user received, newest first.
func (h *SmileHandler) List(c *gin.Context) {
	smiles, err := h.smiles.ListReceived(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"smiles": smiles})
}
