package usecase

import (
	"context"
	"errors"

	"medical-tourism-concierge/internal/converter"
	"medical-tourism-concierge/internal/delivery/dto"
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/internal/domain/repository"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrAlreadyReviewed = errors.New("you have already reviewed this hospital")

type ReviewUsecase interface {
	List(ctx context.Context, hospitalID uuid.UUID, q listing.Query) ([]dto.ReviewResponse, int64, error)
	// Create stores the review and refreshes the hospital's average rating
	// in the same transaction.
	Create(ctx context.Context, userID, hospitalID uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
}

type reviewUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	reviewRepo   repository.ReviewRepository
	hospitalRepo repository.HospitalRepository
}

func NewReviewUsecase(db *gorm.DB, log *logrus.Logger, reviewRepo repository.ReviewRepository, hospitalRepo repository.HospitalRepository) ReviewUsecase {
	return &reviewUsecase{
		db:           db,
		log:          log,
		reviewRepo:   reviewRepo,
		hospitalRepo: hospitalRepo,
	}
}

func (u *reviewUsecase) List(ctx context.Context, hospitalID uuid.UUID, q listing.Query) ([]dto.ReviewResponse, int64, error) {
	db := u.db.WithContext(ctx)

	hospital, err := u.hospitalRepo.FindByID(db, hospitalID)
	if err != nil {
		u.log.Warnf("Failed to find hospital %s: %+v", hospitalID, err)
		return nil, 0, err
	}
	if hospital == nil {
		return nil, 0, ErrHospitalNotFound
	}

	reviews, total, err := u.reviewRepo.FindByHospitalID(db, hospitalID, q)
	if err != nil {
		u.log.Warnf("Failed to list reviews of hospital %s: %+v", hospitalID, err)
		return nil, 0, err
	}
	return converter.ReviewsToResponses(reviews), total, nil
}

func (u *reviewUsecase) Create(ctx context.Context, userID, hospitalID uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Concurrent reviews of one hospital queue here, so each average sees
	// the reviews committed before it.
	hospital, err := u.hospitalRepo.FindByIDForUpdate(tx, hospitalID)
	if err != nil {
		u.log.Warnf("Failed to find hospital %s: %+v", hospitalID, err)
		return nil, err
	}
	if hospital == nil {
		return nil, ErrHospitalNotFound
	}

	review := &entity.Review{
		HospitalID: hospitalID,
		UserID:     userID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := u.reviewRepo.Create(tx, review); err != nil {
		if isDuplicateKeyError(err, "idx_reviews_hospital_user") {
			return nil, ErrAlreadyReviewed
		}
		u.log.Warnf("Failed to create review: %+v", err)
		return nil, err
	}

	rating, err := u.reviewRepo.AverageRating(tx, hospitalID)
	if err != nil {
		u.log.Warnf("Failed to compute rating of hospital %s: %+v", hospitalID, err)
		return nil, err
	}
	if err := u.hospitalRepo.UpdateRating(tx, hospitalID, rating); err != nil {
		u.log.Warnf("Failed to update rating of hospital %s: %+v", hospitalID, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Review created: hospital=%s, rating=%d, average=%s", hospitalID, review.Rating, rating)
	return converter.ReviewToResponse(review), nil
}
