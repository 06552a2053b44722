package usecase

import (
	"context"
	"errors"

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
	ErrHospitalNotFound   = errors.New("hospital not found")
	ErrHospitalInactive   = errors.New("hospital is not accepting reservations")
	ErrHospitalHasHistory = errors.New("hospital still has reservations")
)

type HospitalUsecase interface {
	// ListPublic only ever returns active hospitals.
	ListPublic(ctx context.Context, q listing.Query) ([]dto.HospitalResponse, int64, error)
	List(ctx context.Context, q listing.Query) ([]dto.HospitalResponse, int64, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*dto.HospitalResponse, error)
	Create(ctx context.Context, req *dto.CreateHospitalRequest) (*dto.HospitalResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateHospitalRequest) (*dto.HospitalResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type hospitalUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	hospitalRepo repository.HospitalRepository
	auditService service.AuditService
}

func NewHospitalUsecase(db *gorm.DB, log *logrus.Logger, hospitalRepo repository.HospitalRepository, auditService service.AuditService) HospitalUsecase {
	return &hospitalUsecase{
		db:           db,
		log:          log,
		hospitalRepo: hospitalRepo,
		auditService: auditService,
	}
}

func (u *hospitalUsecase) ListPublic(ctx context.Context, q listing.Query) ([]dto.HospitalResponse, int64, error) {
	return u.List(ctx, q.WithFilter("status", string(entity.HospitalStatusActive)))
}

func (u *hospitalUsecase) List(ctx context.Context, q listing.Query) ([]dto.HospitalResponse, int64, error) {
	hospitals, total, err := u.hospitalRepo.FindAll(u.db.WithContext(ctx), q)
	if err != nil {
		u.log.Warnf("Failed to list hospitals: %+v", err)
		return nil, 0, err
	}
	return converter.HospitalsToResponses(hospitals), total, nil
}

func (u *hospitalUsecase) GetDetail(ctx context.Context, id uuid.UUID) (*dto.HospitalResponse, error) {
	hospital, err := u.hospitalRepo.FindDetail(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find hospital %s: %+v", id, err)
		return nil, err
	}
	if hospital == nil {
		return nil, ErrHospitalNotFound
	}
	return converter.HospitalToResponse(hospital), nil
}

func (u *hospitalUsecase) Create(ctx context.Context, req *dto.CreateHospitalRequest) (*dto.HospitalResponse, error) {
	actorID, _ := middleware.GetUserIDFromContext(ctx)

	status := entity.HospitalStatusActive
	if req.Status != "" {
		status = entity.HospitalStatus(req.Status)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	hospital := &entity.Hospital{
		Name:        req.Name,
		Specialty:   req.Specialty,
		Address:     req.Address,
		City:        req.City,
		Country:     req.Country,
		Description: req.Description,
		Status:      status,
		Version:     1,
	}
	if err := u.hospitalRepo.Create(tx, hospital); err != nil {
		u.log.Warnf("Failed to create hospital: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &actorID, entity.AuditActionHospitalCreate, "hospital", hospital.ID.String(), converter.HospitalToResponse(hospital)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Hospital created: id=%s, name=%s", hospital.ID, hospital.Name)
	return u.GetDetail(ctx, hospital.ID)
}

func (u *hospitalUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateHospitalRequest) (*dto.HospitalResponse, error) {
	actorID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	hospital, err := u.hospitalRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find hospital %s: %+v", id, err)
		return nil, err
	}
	if hospital == nil {
		return nil, ErrHospitalNotFound
	}
	oldValue := converter.HospitalToResponse(hospital)

	hospital.Name = req.Name
	hospital.Specialty = req.Specialty
	hospital.Address = req.Address
	hospital.City = req.City
	hospital.Country = req.Country
	hospital.Description = req.Description
	hospital.Status = entity.HospitalStatus(req.Status)
	hospital.Version = req.Version

	if err := checkVersioned(u.hospitalRepo.Update(tx, hospital)); err != nil {
		if !errors.Is(err, ErrVersionConflict) {
			u.log.Warnf("Failed to update hospital %s: %+v", id, err)
		}
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionHospitalUpdate, "hospital", id.String(), oldValue, converter.HospitalToResponse(hospital)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Hospital updated: id=%s, status=%s", id, hospital.Status)
	return u.GetDetail(ctx, id)
}

// Delete removes the hospital with its fees, reviews and favorites. A
// hospital that still has reservations must be deactivated instead.
func (u *hospitalUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	actorID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	hospital, err := u.hospitalRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find hospital %s: %+v", id, err)
		return err
	}
	if hospital == nil {
		return ErrHospitalNotFound
	}

	if err := u.hospitalRepo.Delete(tx, id); err != nil {
		if isForeignKeyError(err, "reservations") {
			return ErrHospitalHasHistory
		}
		u.log.Warnf("Failed to delete hospital %s: %+v", id, err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, &actorID, entity.AuditActionHospitalDelete, "hospital", id.String(), converter.HospitalToResponse(hospital)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Hospital deleted: id=%s", id)
	return nil
}
