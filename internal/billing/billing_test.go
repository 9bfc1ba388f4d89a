package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eadcode/OnlineDatingApp/internal/apperrors"
	"github.com/eadcode/OnlineDatingApp/internal/mocks"
)

func TestPackagesCreditTable(t *testing.T) {
	expected := map[string]int{
		"/charge10dollars": 20,
		"/charge20dollars": 50,
		"/charge30dollars": 100,
	}
	for path, credits := range expected {
		pkg, ok := PackageByPath(path)
		require.True(t, ok, path)
		assert.Equal(t, credits, pkg.Credits)
	}

	_, ok := PackageByPath("/charge40dollars")
	assert.False(t, ok)
}

func TestPurchaseCreditsOnSuccess(t *testing.T) {
	processor := new(mocks.ProcessorMock)
	wallets := new(mocks.WalletRepositoryMock)
	svc := NewService(processor, wallets)
	pkg, _ := PackageByPath("/charge10dollars")

	processor.On("CreateCustomer", mock.Anything, "ann@example.com", "tok_visa").Return("cus_1", nil).Once()
	processor.On("CreateCharge", mock.Anything, int64(1000), "usd", "cus_1", pkg.Description()).Return("ch_1", nil).Once()
	wallets.On("Credit", mock.Anything, 7, 20, "stripe:ch_1").Return(20, nil).Once()

	receipt, err := svc.Purchase(context.Background(), 7, pkg, "ann@example.com", "tok_visa")

	require.NoError(t, err)
	assert.Equal(t, "ch_1", receipt.ChargeID)
	assert.Equal(t, 20, receipt.Balance)
	processor.AssertExpectations(t)
	wallets.AssertExpectations(t)
}

func TestPurchaseFailureCreditsNothing(t *testing.T) {
	processor := new(mocks.ProcessorMock)
	wallets := new(mocks.WalletRepositoryMock)
	svc := NewService(processor, wallets)
	pkg, _ := PackageByPath("/charge10dollars")

	processor.On("CreateCustomer", mock.Anything, "ann@example.com", "tok_declined").Return("cus_1", nil).Once()
	processor.On("CreateCharge", mock.Anything, int64(1000), "usd", "cus_1", mock.Anything).Return("", assert.AnError).Once()

	_, err := svc.Purchase(context.Background(), 7, pkg, "ann@example.com", "tok_declined")

	assert.Equal(t, apperrors.KindPaymentFailed, apperrors.KindOf(err))
	wallets.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseCustomerFailure(t *testing.T) {
	processor := new(mocks.ProcessorMock)
	wallets := new(mocks.WalletRepositoryMock)
	svc := NewService(processor, wallets)

	processor.On("CreateCustomer", mock.Anything, "ann@example.com", "tok").Return("", assert.AnError).Once()

	_, err := svc.Purchase(context.Background(), 7, Packages[2], "ann@example.com", "tok")

	assert.Equal(t, apperrors.KindPaymentFailed, apperrors.KindOf(err))
	processor.AssertNotCalled(t, "CreateCharge", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseRequiresToken(t *testing.T) {
	svc := NewService(new(mocks.ProcessorMock), new(mocks.WalletRepositoryMock))

	_, err := svc.Purchase(context.Background(), 7, Packages[0], "ann@example.com", "")

	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
