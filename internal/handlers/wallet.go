package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eadcode/OnlineDatingApp/internal/apperrors"
	"github.com/eadcode/OnlineDatingApp/internal/billing"
	"github.com/eadcode/OnlineDatingApp/internal/observability"
	"github.com/eadcode/OnlineDatingApp/internal/repositories"
	"github.com/eadcode/OnlineDatingApp/internal/telemetry"
)

// WalletHandler serves balance, ledger and credit purchases.
type WalletHandler struct {
	billing        *billing.Service
	wallets        repositories.WalletRepository
	users          repositories.UserRepository
	emitter        *telemetry.AuditEmitter
	publishableKey string
}

// NewWalletHandler builds a WalletHandler.
func NewWalletHandler(svc *billing.Service, wallets repositories.WalletRepository, users repositories.UserRepository, emitter *telemetry.AuditEmitter, publishableKey string) *WalletHandler {
	return &WalletHandler{billing: svc, wallets: wallets, users: users, emitter: emitter, publishableKey: publishableKey}
}

// Wallet returns the balance, ledger history and the packages on sale.
func (h *WalletHandler) Wallet(c *gin.Context) {
	userID := currentUserID(c)
	balance, err := h.wallets.Balance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	txs, err := h.wallets.Transactions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balance":         balance,
		"transactions":    txs,
		"packages":        billing.Packages,
		"publishable_key": h.publishableKey,
	})
}

// Charge returns the handler selling pkg.
func (h *WalletHandler) Charge(pkg billing.Package) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Token string `form:"stripeToken" json:"stripe_token"`
			Email string `form:"stripeEmail" json:"stripe_email"`
		}
		if !bindBody(c, &in) {
			return
		}

		userID := currentUserID(c)
		email := strings.TrimSpace(in.Email)
		if email == "" {
			user, err := h.users.FindByID(c.Request.Context(), userID)
			if err != nil {
				respondError(c, err)
				return
			}
			email = user.Email
		}

		receipt, err := h.billing.Purchase(c.Request.Context(), userID, pkg, email, in.Token)
		if err != nil {
			if apperrors.KindOf(err) == apperrors.KindPaymentFailed {
				observability.IncPaymentFailure()
				h.emitter.Emit(c.Request.Context(), telemetry.EventPaymentFailed, "payment failed", requestIDFromContext(c), userID,
					map[string]any{"package": pkg.Path})
			}
			respondError(c, err)
			return
		}

		observability.AddWalletCredits(pkg.Path, pkg.Credits)
		h.emitter.Emit(c.Request.Context(), telemetry.EventWalletCredited, "wallet credited", requestIDFromContext(c), userID,
			map[string]any{"package": pkg.Path, "credits": pkg.Credits, "charge_id": receipt.ChargeID})
		c.JSON(http.StatusOK, gin.H{"receipt": receipt})
	}
}
