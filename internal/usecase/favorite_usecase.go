package usecase

import (
	"context"

	"medical-tourism-concierge/internal/converter"
	"medical-tourism-concierge/internal/delivery/dto"
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/internal/domain/repository"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type FavoriteUsecase interface {
	List(ctx context.Context, userID uuid.UUID, q listing.Query) ([]dto.HospitalResponse, int64, error)
	// Add is idempotent: favoriting a hospital twice keeps one entry.
	Add(ctx context.Context, userID, hospitalID uuid.UUID) error
	Remove(ctx context.Context, userID, hospitalID uuid.UUID) error
}

type favoriteUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	favoriteRepo repository.FavoriteRepository
	hospitalRepo repository.HospitalRepository
}

func NewFavoriteUsecase(db *gorm.DB, log *logrus.Logger, favoriteRepo repository.FavoriteRepository, hospitalRepo repository.HospitalRepository) FavoriteUsecase {
	return &favoriteUsecase{
		db:           db,
		log:          log,
		favoriteRepo: favoriteRepo,
		hospitalRepo: hospitalRepo,
	}
}

func (u *favoriteUsecase) List(ctx context.Context, userID uuid.UUID, q listing.Query) ([]dto.HospitalResponse, int64, error) {
	hospitals, total, err := u.favoriteRepo.FindHospitals(u.db.WithContext(ctx), userID, q)
	if err != nil {
		u.log.Warnf("Failed to list favorites of user %s: %+v", userID, err)
		return nil, 0, err
	}
	return converter.HospitalsToResponses(hospitals), total, nil
}

func (u *favoriteUsecase) Add(ctx context.Context, userID, hospitalID uuid.UUID) error {
	db := u.db.WithContext(ctx)

	hospital, err := u.hospitalRepo.FindByID(db, hospitalID)
	if err != nil {
		u.log.Warnf("Failed to find hospital %s: %+v", hospitalID, err)
		return err
	}
	if hospital == nil {
		return ErrHospitalNotFound
	}

	if err := u.favoriteRepo.Add(db, &entity.Favorite{UserID: userID, HospitalID: hospitalID}); err != nil {
		u.log.Warnf("Failed to add favorite: %+v", err)
		return err
	}
	return nil
}

func (u *favoriteUsecase) Remove(ctx context.Context, userID, hospitalID uuid.UUID) error {
	if err := u.favoriteRepo.Remove(u.db.WithContext(ctx), userID, hospitalID); err != nil {
		u.log.Warnf("Failed to remove favorite: %+v", err)
		return err
	}
	return nil
}
