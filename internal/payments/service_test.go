package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderRecordsPayment(t *testing.T) {
	e := newEnv(t)
	b := e.newBooking(t, 10, 17)

	order, err := e.service.CreateOrder(context.Background(), testBrand, b.ID)
	require.NoError(t, err)

	assert.Equal(t, b.TotalPrice, order.Amount)
	assert.Equal(t, "INR", order.Currency)
	stored := e.repo.get(order.PaymentID)
	assert.Equal(t, StatusCreated, stored.Status)
	assert.Equal(t, order.OrderRef, stored.OrderRef)
	assert.Equal(t, "https://pay.test/l", stored.Notes["payment_url"])
}

func TestCreateOrderRefusesPaidBooking(t *testing.T) {
	e := newEnv(t)
	b := e.newBooking(t, 10, 17)
	p := e.newOrder(t, b)
	require.NoError(t, e.reconciler.HandleCaptured(context.Background(), p.OrderRef, "chrg_1", "card"))

	_, err := e.service.CreateOrder(context.Background(), testBrand, b.ID)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestCreateOrderOnlyForBookingBrand(t *testing.T) {
	e := newEnv(t)
	b := e.newBooking(t, 10, 17)
	stranger := users.Actor{ID: uuid.New(), Role: users.RoleBrand}

	_, err := e.service.CreateOrder(context.Background(), stranger, b.ID)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))

	_, err = e.service.CreateOrder(context.Background(), testOwner, b.ID)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	e := newEnv(t)
	b := e.newBooking(t, 10, 17)
	e.gateway.orderErr = apperrors.External(errGatewayDown, "payment gateway refused the order")

	_, err := e.service.CreateOrder(context.Background(), testBrand, b.ID)
	assert.True(t, apperrors.Retryable(err))
	assert.Empty(t, e.repo.payments)
}
