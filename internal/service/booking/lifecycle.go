package booking

import (
	"github.com/rentalhub/marketplace-backend/internal/common/fsm"
	"github.com/rentalhub/marketplace-backend/internal/models"
)

// Lifecycle is the booking transition table. Completed and cancelled are terminal.
var Lifecycle = fsm.New(map[models.BookingStatus][]models.BookingStatus{
	models.BookingStatusPending:   {models.BookingStatusApproved, models.BookingStatusCancelled},
	models.BookingStatusApproved:  {models.BookingStatusConfirmed, models.BookingStatusCancelled},
	models.BookingStatusConfirmed: {models.BookingStatusCompleted},
}, models.BookingStatusCompleted, models.BookingStatusCancelled)
