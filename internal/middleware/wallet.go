package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/eadcode/OnlineDatingApp/internal/apperrors"
	"github.com/eadcode/OnlineDatingApp/internal/billing"
	"github.com/eadcode/OnlineDatingApp/internal/repositories"
)

// Recharge is the affordance returned when a metered action is refused.
type Recharge struct {
	PublishableKey string            `json:"publishable_key"`
	Packages       []billing.Package `json:"packages"`
}

// WalletGate lets the request through only when the acting user's balance is positive.
// It is a precondition check; the metered operation still debits transactionally.
func WalletGate(wallets repositories.WalletRepository, publishableKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt(UserIDKey)
		balance, err := wallets.Balance(c.Request.Context(), userID)
		if err != nil {
			var appErr *apperrors.Error
			if status := apperrors.HTTPStatus(err); status != http.StatusInternalServerError && errors.As(err, &appErr) {
				c.AbortWithStatusJSON(status, gin.H{"error": appErr.Message, "kind": appErr.Kind})
				return
			}
			log.Error().Err(err).Int("user_id", userID).Msg("wallet gate balance lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error", "kind": apperrors.KindInternal})
			return
		}
		if balance <= 0 {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error":    "insufficient wallet balance",
				"kind":     "insufficient_funds",
				"balance":  balance,
				"recharge": Recharge{PublishableKey: publishableKey, Packages: billing.Packages},
			})
			return
		}
		c.Next()
	}
}
