// Package billing sells wallet credits through the payment processor.
package billing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/eadcode/OnlineDatingApp/internal/apperrors"
	"github.com/eadcode/OnlineDatingApp/internal/repositories"
)

// Package is a purchasable bundle of wallet credits.
type Package struct {
	Path        string `json:"path"`
	AmountCents int64  `json:"amount_cents"`
	Credits     int    `json:"credits"`
}

// Packages lists the bundles on sale, cheapest first.
var Packages = []Package{
	{Path: "/charge10dollars", AmountCents: 1000, Credits: 20},
	{Path: "/charge20dollars", AmountCents: 2000, Credits: 50},
	{Path: "/charge30dollars", AmountCents: 3000, Credits: 100},
}

// Currency of every charge.
const Currency = "usd"

// Description names the package on the processor's statement.
func (p Package) Description() string {
	return fmt.Sprintf("$%d for %d wallet credits", p.AmountCents/100, p.Credits)
}

// PackageByPath returns the package sold at path.
func PackageByPath(path string) (Package, bool) {
	for _, p := range Packages {
		if p.Path == path {
			return p, true
		}
	}
	return Package{}, false
}

// Receipt describes a completed purchase.
type Receipt struct {
	ChargeID string  `json:"charge_id"`
	Package  Package `json:"package"`
	Balance  int     `json:"balance"`
}

// Service charges the processor and credits the wallet.
type Service struct {
	processor Processor
	wallets   repositories.WalletRepository
}

// NewService builds a Service.
func NewService(processor Processor, wallets repositories.WalletRepository) *Service {
	return &Service{processor: processor, wallets: wallets}
}

// Purchase charges pkg against paymentToken and credits userID on success.
// Processor failures credit nothing and return a PaymentFailed error.
func (s *Service) Purchase(ctx context.Context, userID int, pkg Package, email, paymentToken string) (Receipt, error) {
	if paymentToken == "" {
		return Receipt{}, apperrors.Validation("payment token required", map[string]string{"stripeToken": "is required"})
	}

	customerID, err := s.processor.CreateCustomer(ctx, email, paymentToken)
	if err != nil {
		return Receipt{}, apperrors.PaymentFailed("payment failed", err)
	}
	chargeID, err := s.processor.CreateCharge(ctx, pkg.AmountCents, Currency, customerID, pkg.Description())
	if err != nil {
		return Receipt{}, apperrors.PaymentFailed("payment failed", err)
	}

	balance, err := s.wallets.Credit(ctx, userID, pkg.Credits, "stripe:"+chargeID)
	if err != nil {
		// The card was charged; the charge id is what support needs to reconcile.
		log.Error().Err(err).Int("user_id", userID).Str("charge_id", chargeID).Msg("wallet credit failed after charge")
		return Receipt{}, err
	}
	return Receipt{ChargeID: chargeID, Package: pkg, Balance: balance}, nil
}
