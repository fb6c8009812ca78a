package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/common/utils"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/repository"
	"github.com/rentalhub/marketplace-backend/internal/service/events"
	"github.com/rentalhub/marketplace-backend/pkg/mqtt"
	"github.com/rentalhub/marketplace-backend/tests/helpers"
)

func setupBookingService(t *testing.T, opts Options) (*BookingService, *gorm.DB, *mqtt.MemoryClient) {
	db := helpers.NewTestDB(t)
	client := mqtt.NewMemoryClient()
	svc := NewBookingService(db, nil, events.NewBus(client, "test", nil, nil), nil, opts)
	return svc, db, client
}

func TestLifecycle(t *testing.T) {
	assert.True(t, Lifecycle.Can(models.BookingStatusPending, models.BookingStatusApproved))
	assert.True(t, Lifecycle.Can(models.BookingStatusApproved, models.BookingStatusConfirmed))
	assert.True(t, Lifecycle.Can(models.BookingStatusConfirmed, models.BookingStatusCompleted))
	assert.False(t, Lifecycle.Can(models.BookingStatusPending, models.BookingStatusCompleted))
	assert.False(t, Lifecycle.Can(models.BookingStatusConfirmed, models.BookingStatusCancelled))
	assert.True(t, Lifecycle.Terminal(models.BookingStatusCompleted))
	assert.True(t, Lifecycle.Terminal(models.BookingStatusCancelled))
	assert.True(t, Lifecycle.Valid(models.BookingStatusCancelled))
	assert.False(t, Lifecycle.Valid("archived"))
}

func TestBookingService_CreateByClient(t *testing.T) {
	svc, db, bus := setupBookingService(t, DefaultOptions())
	ctx := context.Background()
	user, client := helpers.SeedClient(t, db)
	acc := helpers.SeedAccommodation(t, db)

	// a client_id in the payload is ignored for client callers
	booking, err := svc.Create(ctx, Caller{UserID: user.ID, Role: models.RoleClient}, &CreateBookingRequest{
		BookingType:     models.BookingTypeAccommodation,
		AccommodationID: &acc.ID,
		ClientID:        utils.StringPtr("someone-else"),
		TotalAmount:     120,
	})
	require.NoError(t, err)
	assert.Equal(t, client.ID, booking.ClientID)
	assert.Equal(t, models.BookingStatusPending, booking.BookingStatus)
	assert.Regexp(t, `^RR[0-9A-Z]{9}$`, booking.BookingReference)
	assert.Nil(t, booking.AgentID)
	assert.Nil(t, booking.VehicleID)

	stored, err := repository.NewBookingRepository(db).GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, stored.BookingStatus)
	assert.Len(t, bus.Messages(), 1)
}

func TestBookingService_CreateAttributesReferringAgent(t *testing.T) {
	svc, db, _ := setupBookingService(t, DefaultOptions())
	ctx := context.Background()
	_, agent := helpers.SeedApprovedAgent(t, db)
	user, client := helpers.SeedClient(t, db)
	require.NoError(t, db.Model(client).Update("referred_by_agent_id", agent.ID).Error)
	vehicle := helpers.SeedVehicle(t, db)

	booking, err := svc.Create(ctx, Caller{UserID: user.ID, Role: models.RoleClient}, &CreateBookingRequest{
		BookingType: models.BookingTypeVehicleRent,
		VehicleID:   &vehicle.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, booking.AgentID)
	assert.Equal(t, agent.ID, *booking.AgentID)
}

func TestBookingService_CreateWithExplicitAgent(t *testing.T) {
	svc, db, _ := setupBookingService(t, DefaultOptions())
	ctx := context.Background()
	user, _ := helpers.SeedClient(t, db)
	_, approved := helpers.SeedApprovedAgent(t, db)
	_, pending := helpers.SeedAgent(t, db, models.UserStatusPending, models.AgentStatusPending)
	vehicle := helpers.SeedVehicle(t, db)
	caller := Caller{UserID: user.ID, Role: models.RoleClient}

	_, err := svc.Create(ctx, caller, &CreateBookingRequest{
		BookingType: models.BookingTypeVehicleRent,
		VehicleID:   &vehicle.ID,
		AgentID:     &pending.ID,
	})
	assert.ErrorIs(t, err, errors.ErrAgentNotApproved)

	_, err = svc.Create(ctx, caller, &CreateBookingRequest{
		BookingType: models.BookingTypeVehicleRent,
		VehicleID:   &vehicle.ID,
		AgentID:     utils.StringPtr("missing"),
	})
	assert.ErrorIs(t, err, errors.ErrAgentNotFound)

	booking, err := svc.Create(ctx, caller, &CreateBookingRequest{
		BookingType: models.BookingTypeVehicleRent,
		VehicleID:   &vehicle.ID,
		AgentID:     &approved.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, booking.AgentID)
	assert.Equal(t, approved.ID, *booking.AgentID)
}

func TestBookingService_CreateByAgent(t *testing.T) {
	svc, db, _ := setupBookingService(t, DefaultOptions())
	ctx := context.Background()
	agentUser, agent := helpers.SeedApprovedAgent(t, db)
	_, client := helpers.SeedClient(t, db)
	vehicle := helpers.SeedVehicle(t, db)
	caller := Caller{UserID: agentUser.ID, Role: models.RoleAgent}

	_, err := svc.Create(ctx, caller, &CreateBookingRequest{
		BookingType: models.BookingTypeVehiclePurchase,
		VehicleID:   &vehicle.ID,
	})
	assert.ErrorIs(t, err, errors.ErrInvalidParams)

	_, err = svc.Create(ctx, caller, &CreateBookingRequest{
		BookingType: models.BookingTypeVehiclePurchase,
		VehicleID:   &vehicle.ID,
		ClientID:    utils.StringPtr("missing"),
	})
	assert.ErrorIs(t, err, errors.ErrClientProfileNotFound)

	booking, err := svc.Create(ctx, caller, &CreateBookingRequest{
		BookingType: models.BookingTypeVehiclePurchase,
		VehicleID:   &vehicle.ID,
		ClientID:    &client.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, client.ID, booking.ClientID)
	require.NotNil(t, booking.AgentID)
	assert.Equal(t, agent.ID, *booking.AgentID)
}

func TestBookingService_CreateValidatesTarget(t *testing.T) {
	svc, db, _ := setupBookingService(t, DefaultOptions())
	ctx := context.Background()
	user, _ := helpers.SeedClient(t, db)
	acc := helpers.SeedAccommodation(t, db)
	caller := Caller{UserID: user.ID, Role: models.RoleClient}

	_, err := svc.Create(ctx, caller, &CreateBookingRequest{BookingType: models.BookingTypeVehicleRent, AccommodationID: &acc.ID})
	assert.ErrorIs(t, err, errors.ErrBookingTargetMismatch)

	_, err = svc.Create(ctx, caller, &CreateBookingRequest{BookingType: models.BookingTypeAccommodation, AccommodationID: utils.StringPtr("nope")})
	assert.ErrorIs(t, err, errors.ErrAccommodationNotFound)

	_, err = svc.Create(ctx, caller, &CreateBookingRequest{BookingType: models.BookingTypeVehicleRent, VehicleID: utils.StringPtr("nope")})
	assert.ErrorIs(t, err, errors.ErrVehicleNotFound)

	_, err = svc.Create(ctx, caller, &CreateBookingRequest{BookingType: "boat", AccommodationID: &acc.ID})
	assert.ErrorIs(t, err, errors.ErrInvalidParams)

	_, err = svc.Create(ctx, caller, &CreateBookingRequest{
		BookingType:     models.BookingTypeAccommodation,
		AccommodationID: &acc.ID,
		AgentID:         utils.StringPtr("ghost"),
	})
	assert.ErrorIs(t, err, errors.ErrAgentNotFound)
}

func TestBookingService_CreateWithoutClientProfile(t *testing.T) {
	svc, db, _ := setupBookingService(t, DefaultOptions())
	admin := helpers.SeedAdmin(t, db)
	acc := helpers.SeedAccommodation(t, db)

	_, err := svc.Create(context.Background(), Caller{UserID: admin.ID, Role: models.RoleClient}, &CreateBookingRequest{
		BookingType:     models.BookingTypeAccommodation,
		AccommodationID: &acc.ID,
	})
	assert.ErrorIs(t, err, errors.ErrClientProfileNotFound)
}

func TestBookingService_UpdateStatusStrict(t *testing.T) {
	svc, db, bus := setupBookingService(t, DefaultOptions())
	ctx := context.Background()
	_, client := helpers.SeedClient(t, db)
	booking := helpers.SeedBooking(t, db, client.ID, models.BookingStatusPending)

	_, err := svc.UpdateStatus(ctx, booking.ID, models.BookingStatusCompleted)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrBookingTransition)
	assert.Equal(t, "Invalid status transition from pending to completed", errors.GetAppError(err).Message)

	for _, next := range []models.BookingStatus{models.BookingStatusApproved, models.BookingStatusConfirmed, models.BookingStatusCompleted} {
		updated, err := svc.UpdateStatus(ctx, booking.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.BookingStatus)
	}
	assert.Len(t, bus.Messages(), 3)

	_, err = svc.UpdateStatus(ctx, booking.ID, "archived")
	assert.ErrorIs(t, err, errors.ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, "missing", models.BookingStatusApproved)
	assert.ErrorIs(t, err, errors.ErrBookingNotFound)
}

func TestBookingService_UpdateStatusLenient(t *testing.T) {
	svc, db, _ := setupBookingService(t, Options{StrictTransitions: false})
	ctx := context.Background()
	_, client := helpers.SeedClient(t, db)
	booking := helpers.SeedBooking(t, db, client.ID, models.BookingStatusPending)
	repo := repository.NewBookingRepository(db)

	statuses := []models.BookingStatus{
		models.BookingStatusCompleted,
		models.BookingStatusPending,
		models.BookingStatusCancelled,
		models.BookingStatusConfirmed,
		models.BookingStatusApproved,
	}
	for _, status := range statuses {
		_, err := svc.UpdateStatus(ctx, booking.ID, status)
		require.NoError(t, err)
		stored, err := repo.GetByID(ctx, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, status, stored.BookingStatus)
	}
}

func TestBookingService_Cancel(t *testing.T) {
	svc, db, _ := setupBookingService(t, DefaultOptions())
	ctx := context.Background()
	owner, client := helpers.SeedClient(t, db)
	other, _ := helpers.SeedClient(t, db)
	booking := helpers.SeedBooking(t, db, client.ID, models.BookingStatusPending)

	_, err := svc.Cancel(ctx, other.ID, booking.ID)
	assert.ErrorIs(t, err, errors.ErrBookingNotOwned)

	_, err = svc.Cancel(ctx, owner.ID, "missing")
	assert.ErrorIs(t, err, errors.ErrBookingNotFound)

	cancelled, err := svc.Cancel(ctx, owner.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.BookingStatus)

	_, err = svc.Cancel(ctx, owner.ID, booking.ID)
	assert.ErrorIs(t, err, errors.ErrBookingTransition)
}

func TestBookingService_ListsAndVisibility(t *testing.T) {
	svc, db, _ := setupBookingService(t, DefaultOptions())
	ctx := context.Background()
	owner, client := helpers.SeedClient(t, db)
	other, _ := helpers.SeedClient(t, db)
	agentUser, agent := helpers.SeedApprovedAgent(t, db)
	admin := helpers.SeedAdmin(t, db)

	first := helpers.SeedBooking(t, db, client.ID, models.BookingStatusPending)
	second := helpers.SeedBooking(t, db, client.ID, models.BookingStatusApproved)
	require.NoError(t, db.Model(second).Update("agent_id", agent.ID).Error)

	mine, err := svc.ListForClient(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	pending, err := svc.ListAll(ctx, repository.BookingFilter{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	_, err = svc.ListAll(ctx, repository.BookingFilter{Status: "bogus"})
	assert.ErrorIs(t, err, errors.ErrInvalidStatus)

	_, err = svc.Get(ctx, Caller{UserID: owner.ID, Role: models.RoleClient}, first.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, Caller{UserID: admin.ID, Role: models.RoleAdmin}, first.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, Caller{UserID: agentUser.ID, Role: models.RoleAgent}, second.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, Caller{UserID: agentUser.ID, Role: models.RoleAgent}, first.ID)
	assert.ErrorIs(t, err, errors.ErrBookingNotOwned)
	_, err = svc.Get(ctx, Caller{UserID: other.ID, Role: models.RoleClient}, first.ID)
	assert.ErrorIs(t, err, errors.ErrBookingNotOwned)
}

func TestBookingService_QRCodeAndPendingCount(t *testing.T) {
	svc, db, _ := setupBookingService(t, DefaultOptions())
	ctx := context.Background()
	owner, client := helpers.SeedClient(t, db)
	booking := helpers.SeedBooking(t, db, client.ID, models.BookingStatusPending)

	png, err := svc.QRCode(ctx, owner.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])

	n, err := svc.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
