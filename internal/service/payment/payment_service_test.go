package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/service/booking"
	"github.com/rentalhub/marketplace-backend/internal/service/events"
	"github.com/rentalhub/marketplace-backend/internal/service/upload"
	"github.com/rentalhub/marketplace-backend/pkg/mqtt"
	"github.com/rentalhub/marketplace-backend/pkg/storage"
	"github.com/rentalhub/marketplace-backend/tests/helpers"
)

type fixture struct {
	svc   *PaymentService
	db    *gorm.DB
	store *storage.MemoryUploader
	mq    *mqtt.MemoryClient
}

func setup(t *testing.T) *fixture {
	db := helpers.NewTestDB(t)
	store := storage.NewMemoryUploader()
	mq := mqtt.NewMemoryClient()
	bus := events.NewBus(mq, "test", nil, nil)
	bookings := booking.NewBookingService(db, nil, bus, nil, booking.DefaultOptions())
	uploads := upload.NewUploadService(store, upload.DefaultLimits())
	return &fixture{svc: NewPaymentService(db, bookings, uploads, bus, nil), db: db, store: store, mq: mq}
}

func TestLifecycle(t *testing.T) {
	assert.True(t, Lifecycle.Can(models.PaymentStatusPending, models.PaymentStatusCompleted))
	assert.True(t, Lifecycle.Can(models.PaymentStatusPending, models.PaymentStatusFailed))
	assert.True(t, Lifecycle.Can(models.PaymentStatusCompleted, models.PaymentStatusRefunded))
	assert.False(t, Lifecycle.Can(models.PaymentStatusFailed, models.PaymentStatusCompleted))
	assert.False(t, Lifecycle.Can(models.PaymentStatusPending, models.PaymentStatusRefunded))
	assert.True(t, Lifecycle.Terminal(models.PaymentStatusRefunded))
}

func TestPaymentService_CreateWithProof(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	user, client := helpers.SeedClient(t, f.db)
	b := helpers.SeedBooking(t, f.db, client.ID, models.BookingStatusApproved)

	proof := helpers.FileHeaders(t, upload.FieldPaymentProof, helpers.PNGFile(upload.FieldPaymentProof, "receipt.png"))[0]
	payment, err := f.svc.Create(ctx, user.ID, &CreateRequest{
		BookingID:     b.ID,
		Amount:        250,
		PaymentMethod: "mobile_money",
		TransactionID: "TX-1",
	}, proof)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	require.NotNil(t, payment.TransactionID)
	assert.Equal(t, "TX-1", *payment.TransactionID)
	require.NotNil(t, payment.PaymentProofPath)
	assert.True(t, f.store.Has(*payment.PaymentProofPath))

	items, err := f.svc.ListByBooking(ctx, booking.Caller{UserID: user.ID, Role: models.RoleClient}, b.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, payment.ID, items[0].ID)
}

func TestPaymentService_CreateValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	user, client := helpers.SeedClient(t, f.db)
	b := helpers.SeedBooking(t, f.db, client.ID, models.BookingStatusPending)

	_, err := f.svc.Create(ctx, user.ID, &CreateRequest{BookingID: b.ID, Amount: 0, PaymentMethod: "card"}, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidParams)

	_, err = f.svc.Create(ctx, user.ID, &CreateRequest{BookingID: b.ID, Amount: 10, PaymentMethod: "  "}, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidParams)

	_, err = f.svc.Create(ctx, user.ID, &CreateRequest{BookingID: "missing", Amount: 10, PaymentMethod: "card"}, nil)
	assert.ErrorIs(t, err, errors.ErrBookingNotFound)

	other, _ := helpers.SeedClient(t, f.db)
	_, err = f.svc.Create(ctx, other.ID, &CreateRequest{BookingID: b.ID, Amount: 10, PaymentMethod: "card"}, nil)
	assert.ErrorIs(t, err, errors.ErrBookingNotOwned)

	_, err = f.svc.ListByBooking(ctx, booking.Caller{UserID: other.ID, Role: models.RoleClient}, b.ID)
	assert.ErrorIs(t, err, errors.ErrBookingNotOwned)

	admin := helpers.SeedAdmin(t, f.db)
	items, err := f.svc.ListByBooking(ctx, booking.Caller{UserID: admin.ID, Role: models.RoleAdmin}, b.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, f.store.Len())
}

func TestPaymentService_UpdateStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	user, client := helpers.SeedClient(t, f.db)
	b := helpers.SeedBooking(t, f.db, client.ID, models.BookingStatusConfirmed)
	payment, err := f.svc.Create(ctx, user.ID, &CreateRequest{BookingID: b.ID, Amount: 99.5, PaymentMethod: "card"}, nil)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, payment.ID, models.PaymentStatusRefunded)
	assert.ErrorIs(t, err, errors.ErrPaymentTransition)
	assert.Contains(t, err.Error(), "Invalid status transition from pending to refunded")

	updated, err := f.svc.UpdateStatus(ctx, payment.ID, models.PaymentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, updated.Status)

	_, err = f.svc.UpdateStatus(ctx, payment.ID, models.PaymentStatusRefunded)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, payment.ID, "void")
	assert.ErrorIs(t, err, errors.ErrInvalidStatus)
	_, err = f.svc.UpdateStatus(ctx, "missing", models.PaymentStatusFailed)
	assert.ErrorIs(t, err, errors.ErrPaymentNotFound)

	msgs := f.mq.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "test/payment/status", msgs[0].Topic)
}

func TestPaymentService_ListByBookingVisibility(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	clientUser, client := helpers.SeedClient(t, f.db)
	agentUser, agent := helpers.SeedApprovedAgent(t, f.db)
	otherAgentUser, _ := helpers.SeedApprovedAgent(t, f.db)
	otherClientUser, _ := helpers.SeedClient(t, f.db)
	admin := helpers.SeedAdmin(t, f.db)

	b := helpers.SeedBooking(t, f.db, client.ID, models.BookingStatusConfirmed)
	require.NoError(t, f.db.Model(b).Update("agent_id", agent.ID).Error)
	_, err := f.svc.Create(ctx, clientUser.ID, &CreateRequest{BookingID: b.ID, Amount: 40, PaymentMethod: "card"}, nil)
	require.NoError(t, err)

	for _, caller := range []booking.Caller{
		{UserID: clientUser.ID, Role: models.RoleClient},
		{UserID: agentUser.ID, Role: models.RoleAgent},
		{UserID: admin.ID, Role: models.RoleAdmin},
	} {
		items, err := f.svc.ListByBooking(ctx, caller, b.ID)
		require.NoError(t, err, string(caller.Role))
		assert.Len(t, items, 1)
	}

	_, err = f.svc.ListByBooking(ctx, booking.Caller{UserID: otherAgentUser.ID, Role: models.RoleAgent}, b.ID)
	assert.ErrorIs(t, err, errors.ErrBookingNotOwned)
	_, err = f.svc.ListByBooking(ctx, booking.Caller{UserID: otherClientUser.ID, Role: models.RoleClient}, b.ID)
	assert.ErrorIs(t, err, errors.ErrBookingNotOwned)
}
