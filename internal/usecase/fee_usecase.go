package usecase

import (
	"context"
	"errors"
	"time"

	"medical-tourism-concierge/internal/converter"
	"medical-tourism-concierge/internal/delivery/dto"
	"medical-tourism-concierge/internal/delivery/http/middleware"
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/internal/domain/repository"
	"medical-tourism-concierge/internal/service"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrFeeNotFound = errors.New("fee not found")

type FeeUsecase interface {
	List(ctx context.Context, q listing.Query) ([]dto.FeeResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.FeeResponse, error)
	// Quote prices the fee, discounted by promotionID when that promotion
	// is active and covers the fee's hospital.
	Quote(ctx context.Context, id uuid.UUID, promotionID *uuid.UUID) (*dto.QuoteResponse, error)
	Create(ctx context.Context, req *dto.CreateFeeRequest) (*dto.FeeResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateFeeRequest) (*dto.FeeResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type feeUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	feeRepo       repository.FeeRepository
	hospitalRepo  repository.HospitalRepository
	promotionRepo repository.PromotionRepository
	auditService  service.AuditService
	now           func() time.Time
}

func NewFeeUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	feeRepo repository.FeeRepository,
	hospitalRepo repository.HospitalRepository,
	promotionRepo repository.PromotionRepository,
	auditService service.AuditService,
) FeeUsecase {
	return &feeUsecase{
		db:            db,
		log:           log,
		feeRepo:       feeRepo,
		hospitalRepo:  hospitalRepo,
		promotionRepo: promotionRepo,
		auditService:  auditService,
		now:           time.Now,
	}
}

func (u *feeUsecase) List(ctx context.Context, q listing.Query) ([]dto.FeeResponse, int64, error) {
	fees, total, err := u.feeRepo.FindAll(u.db.WithContext(ctx), q)
	if err != nil {
		u.log.Warnf("Failed to list fees: %+v", err)
		return nil, 0, err
	}
	return converter.FeesToResponses(fees), total, nil
}

func (u *feeUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.FeeResponse, error) {
	fee, err := u.feeRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find fee %s: %+v", id, err)
		return nil, err
	}
	if fee == nil {
		return nil, ErrFeeNotFound
	}
	return converter.FeeToResponse(fee), nil
}

func (u *feeUsecase) Quote(ctx context.Context, id uuid.UUID, promotionID *uuid.UUID) (*dto.QuoteResponse, error) {
	db := u.db.WithContext(ctx)

	fee, err := u.feeRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find fee %s: %+v", id, err)
		return nil, err
	}
	if fee == nil {
		return nil, ErrFeeNotFound
	}

	var promotion *entity.Promotion
	if promotionID != nil {
		promotion, err = u.promotionRepo.FindByID(db, *promotionID)
		if err != nil {
			u.log.Warnf("Failed to find promotion %s: %+v", *promotionID, err)
			return nil, err
		}
		if promotion == nil {
			return nil, ErrPromotionNotFound
		}
	}

	return converter.QuoteToResponse(fee, fee.QuoteWith(promotion, u.now())), nil
}

func (u *feeUsecase) Create(ctx context.Context, req *dto.CreateFeeRequest) (*dto.FeeResponse, error) {
	actorID, _ := middleware.GetUserIDFromContext(ctx)

	fee := &entity.Fee{
		HospitalID: req.HospitalID,
		Department: req.Department,
		Treatment:  req.Treatment,
		MinPrice:   req.MinPrice,
		MaxPrice:   req.MaxPrice,
		Currency:   req.Currency,
		Duration:   req.Duration,
		Version:    1,
	}
	if err := fee.Validate(); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.requireHospital(tx, fee.HospitalID); err != nil {
		return nil, err
	}

	if err := u.feeRepo.Create(tx, fee); err != nil {
		u.log.Warnf("Failed to create fee: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &actorID, entity.AuditActionFeeCreate, "fee", fee.ID.String(), converter.FeeToResponse(fee)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Fee created: id=%s, hospital=%s, treatment=%s", fee.ID, fee.HospitalID, fee.Treatment)
	return u.Get(ctx, fee.ID)
}

func (u *feeUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateFeeRequest) (*dto.FeeResponse, error) {
	actorID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	fee, err := u.feeRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find fee %s: %+v", id, err)
		return nil, err
	}
	if fee == nil {
		return nil, ErrFeeNotFound
	}
	oldValue := converter.FeeToResponse(fee)

	fee.HospitalID = req.HospitalID
	fee.Department = req.Department
	fee.Treatment = req.Treatment
	fee.MinPrice = req.MinPrice
	fee.MaxPrice = req.MaxPrice
	fee.Currency = req.Currency
	fee.Duration = req.Duration
	fee.Version = req.Version
	fee.Hospital = nil
	if err := fee.Validate(); err != nil {
		return nil, err
	}

	if oldValue.HospitalID != fee.HospitalID {
		if err := u.requireHospital(tx, fee.HospitalID); err != nil {
			return nil, err
		}
	}

	if err := checkVersioned(u.feeRepo.Update(tx, fee)); err != nil {
		if !errors.Is(err, ErrVersionConflict) {
			u.log.Warnf("Failed to update fee %s: %+v", id, err)
		}
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionFeeUpdate, "fee", id.String(), oldValue, converter.FeeToResponse(fee)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Fee updated: id=%s", id)
	return u.Get(ctx, id)
}

func (u *feeUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	actorID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	fee, err := u.feeRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find fee %s: %+v", id, err)
		return err
	}
	if fee == nil {
		return ErrFeeNotFound
	}

	if err := u.feeRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete fee %s: %+v", id, err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, &actorID, entity.AuditActionFeeDelete, "fee", id.String(), converter.FeeToResponse(fee)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Fee deleted: id=%s", id)
	return nil
}

func (u *feeUsecase) requireHospital(tx *gorm.DB, hospitalID uuid.UUID) error {
	hospital, err := u.hospitalRepo.FindByID(tx, hospitalID)
	if err != nil {
		u.log.Warnf("Failed to find hospital %s: %+v", hospitalID, err)
		return err
	}
	if hospital == nil {
		return ErrHospitalNotFound
	}
	return nil
}
