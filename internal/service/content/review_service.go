package content

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/common/utils"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/repository"
)

// Review target types
const (
	TargetAccommodation = "accommodation"
	TargetVehicle       = "vehicle"
)

// ReviewRequest client review body. Exactly one target id must be set.
type ReviewRequest struct {
	AccommodationID *string `json:"accommodation_id"`
	VehicleID       *string `json:"vehicle_id"`
	Rating          int     `json:"rating" binding:"required"`
	Comment         string  `json:"comment"`
}

// ReviewStatusRequest moderation decision
type ReviewStatusRequest struct {
	Status models.ReviewStatus `json:"status" binding:"required"`
}

// ReviewService reviews and moderation
type ReviewService struct {
	reviewRepo        *repository.ReviewRepository
	profileRepo       *repository.ProfileRepository
	accommodationRepo *repository.AccommodationRepository
	vehicleRepo       *repository.VehicleRepository
}

// NewReviewService creates a ReviewService
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{
		reviewRepo:        repository.NewReviewRepository(db),
		profileRepo:       repository.NewProfileRepository(db),
		accommodationRepo: repository.NewAccommodationRepository(db),
		vehicleRepo:       repository.NewVehicleRepository(db),
	}
}

// Submit stores a pending review written by the calling client.
func (s *ReviewService) Submit(ctx context.Context, userID string, req *ReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, errors.ErrInvalidParams.WithMessage("rating must be between 1 and 5")
	}
	accommodationID := utils.SafeString(req.AccommodationID)
	vehicleID := utils.SafeString(req.VehicleID)
	if (accommodationID == "") == (vehicleID == "") {
		return nil, errors.ErrReviewTarget
	}

	client, err := s.profileRepo.GetClientByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrClientProfileNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	review := &models.Review{
		ClientID: client.ID,
		Rating:   req.Rating,
		Comment:  req.Comment,
		Status:   models.ReviewStatusPending,
	}
	var exists bool
	if accommodationID != "" {
		exists, err = s.accommodationRepo.Exists(ctx, accommodationID)
		review.AccommodationID = &accommodationID
	} else {
		exists, err = s.vehicleRepo.Exists(ctx, vehicleID)
		review.VehicleID = &vehicleID
	}
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !exists {
		if accommodationID != "" {
			return nil, errors.ErrAccommodationNotFound
		}
		return nil, errors.ErrVehicleNotFound
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return review, nil
}

// ListByTarget approved reviews of one listing with the reviewer's name
func (s *ReviewService) ListByTarget(ctx context.Context, targetType, id string) ([]*models.ReviewWithAuthor, error) {
	var column string
	switch targetType {
	case TargetAccommodation:
		column = "accommodation_id"
	case TargetVehicle:
		column = "vehicle_id"
	default:
		return nil, errors.ErrInvalidTargetType
	}
	reviews, err := s.reviewRepo.ListApprovedByTarget(ctx, column, id)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return reviews, nil
}

// List all reviews for moderation, optionally by status
func (s *ReviewService) List(ctx context.Context, status string) ([]*models.Review, error) {
	if status != "" && !models.ReviewStatus(status).Valid() {
		return nil, errors.ErrInvalidStatus
	}
	reviews, err := s.reviewRepo.List(ctx, status)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return reviews, nil
}

// UpdateStatus moderates a review
func (s *ReviewService) UpdateStatus(ctx context.Context, id string, status models.ReviewStatus) error {
	if !status.Valid() {
		return errors.ErrInvalidStatus
	}
	rows, err := s.reviewRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if rows == 0 {
		return errors.ErrReviewNotFound
	}
	return nil
}
