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

var (
	ErrPromotionNotFound      = errors.New("promotion not found")
	ErrInvalidPromotionWindow = errors.New("valid_until must be after valid_from")
)

type PromotionUsecase interface {
	// ListActive returns the promotions whose window contains the current time.
	ListActive(ctx context.Context, q listing.Query) ([]dto.PromotionResponse, int64, error)
	List(ctx context.Context, q listing.Query) ([]dto.PromotionResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PromotionResponse, error)
	Create(ctx context.Context, req *dto.CreatePromotionRequest) (*dto.PromotionResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePromotionRequest) (*dto.PromotionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type promotionUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	promotionRepo repository.PromotionRepository
	hospitalRepo  repository.HospitalRepository
	auditService  service.AuditService
	now           func() time.Time
}

func NewPromotionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	promotionRepo repository.PromotionRepository,
	hospitalRepo repository.HospitalRepository,
	auditService service.AuditService,
) PromotionUsecase {
	return &promotionUsecase{
		db:            db,
		log:           log,
		promotionRepo: promotionRepo,
		hospitalRepo:  hospitalRepo,
		auditService:  auditService,
		now:           time.Now,
	}
}

func (u *promotionUsecase) ListActive(ctx context.Context, q listing.Query) ([]dto.PromotionResponse, int64, error) {
	return u.List(ctx, q.WithFilter("status", string(entity.PromotionStatusActive)))
}

func (u *promotionUsecase) List(ctx context.Context, q listing.Query) ([]dto.PromotionResponse, int64, error) {
	promotions, total, err := u.promotionRepo.FindAll(u.db.WithContext(ctx), q)
	if err != nil {
		u.log.Warnf("Failed to list promotions: %+v", err)
		return nil, 0, err
	}
	return converter.PromotionsToResponses(promotions, u.now()), total, nil
}

func (u *promotionUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.PromotionResponse, error) {
	promotion, err := u.promotionRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find promotion %s: %+v", id, err)
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}
	return converter.PromotionToResponse(promotion, u.now()), nil
}

func (u *promotionUsecase) Create(ctx context.Context, req *dto.CreatePromotionRequest) (*dto.PromotionResponse, error) {
	if !req.ValidUntil.After(req.ValidFrom) {
		return nil, ErrInvalidPromotionWindow
	}
	actorID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.checkHospital(tx, req.HospitalID); err != nil {
		return nil, err
	}

	promotion := &entity.Promotion{
		HospitalID:      req.HospitalID,
		Title:           req.Title,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		ValidFrom:       req.ValidFrom,
		ValidUntil:      req.ValidUntil,
		Version:         1,
	}
	if err := u.promotionRepo.Create(tx, promotion); err != nil {
		u.log.Warnf("Failed to create promotion: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &actorID, entity.AuditActionPromotionCreate, "promotion", promotion.ID.String(), converter.PromotionToResponse(promotion, u.now())); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Promotion created: id=%s, discount=%s%%", promotion.ID, promotion.DiscountPercent)
	return u.Get(ctx, promotion.ID)
}

func (u *promotionUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePromotionRequest) (*dto.PromotionResponse, error) {
	if !req.ValidUntil.After(req.ValidFrom) {
		return nil, ErrInvalidPromotionWindow
	}
	actorID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	promotion, err := u.promotionRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find promotion %s: %+v", id, err)
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}
	oldValue := converter.PromotionToResponse(promotion, u.now())

	if err := u.checkHospital(tx, req.HospitalID); err != nil {
		return nil, err
	}

	promotion.HospitalID = req.HospitalID
	promotion.Title = req.Title
	promotion.Description = req.Description
	promotion.DiscountPercent = req.DiscountPercent
	promotion.ValidFrom = req.ValidFrom
	promotion.ValidUntil = req.ValidUntil
	promotion.Version = req.Version

	if err := checkVersioned(u.promotionRepo.Update(tx, promotion)); err != nil {
		if !errors.Is(err, ErrVersionConflict) {
			u.log.Warnf("Failed to update promotion %s: %+v", id, err)
		}
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionPromotionUpdate, "promotion", id.String(), oldValue, converter.PromotionToResponse(promotion, u.now())); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Promotion updated: id=%s", id)
	return u.Get(ctx, id)
}

func (u *promotionUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	actorID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	promotion, err := u.promotionRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find promotion %s: %+v", id, err)
		return err
	}
	if promotion == nil {
		return ErrPromotionNotFound
	}

	if err := u.promotionRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete promotion %s: %+v", id, err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, &actorID, entity.AuditActionPromotionDelete, "promotion", id.String(), converter.PromotionToResponse(promotion, u.now())); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Promotion deleted: id=%s", id)
	return nil
}

// checkHospital accepts a nil id, which makes the promotion global.
func (u *promotionUsecase) checkHospital(tx *gorm.DB, hospitalID *uuid.UUID) error {
	if hospitalID == nil {
		return nil
	}
	hospital, err := u.hospitalRepo.FindByID(tx, *hospitalID)
	if err != nil {
		u.log.Warnf("Failed to find hospital %s: %+v", *hospitalID, err)
		return err
	}
	if hospital == nil {
		return ErrHospitalNotFound
	}
	return nil
}
