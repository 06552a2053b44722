package usecase

import (
	"context"
	"errors"
	"fmt"

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

var ErrInterpreterNotFound = errors.New("interpreter not found")

type InterpreterUsecase interface {
	// ListPublic only returns active interpreters.
	ListPublic(ctx context.Context, q listing.Query) ([]dto.InterpreterResponse, int64, error)
	List(ctx context.Context, q listing.Query) ([]dto.InterpreterResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.InterpreterResponse, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, req *dto.StatusChangeRequest) (*dto.InterpreterResponse, error)
	// ResolveInterpreter returns the interpreter profile of a user, or nil.
	ResolveInterpreter(ctx context.Context, userID uuid.UUID) (*entity.Interpreter, error)
}

type interpreterUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	interpreterRepo repository.InterpreterRepository
	auditService    service.AuditService
	notifier        *notifier
}

func NewInterpreterUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	interpreterRepo repository.InterpreterRepository,
	notificationRepo repository.NotificationRepository,
	auditService service.AuditService,
	publisher NotificationPublisher,
) InterpreterUsecase {
	return &interpreterUsecase{
		db:              db,
		log:             log,
		interpreterRepo: interpreterRepo,
		auditService:    auditService,
		notifier: &notifier{
			log:              log,
			notificationRepo: notificationRepo,
			publisher:        publisher,
		},
	}
}

func (u *interpreterUsecase) ListPublic(ctx context.Context, q listing.Query) ([]dto.InterpreterResponse, int64, error) {
	return u.List(ctx, q.WithFilter("status", string(entity.InterpreterStatusActive)))
}

func (u *interpreterUsecase) List(ctx context.Context, q listing.Query) ([]dto.InterpreterResponse, int64, error) {
	interpreters, total, err := u.interpreterRepo.FindAll(u.db.WithContext(ctx), q)
	if err != nil {
		u.log.Warnf("Failed to list interpreters: %+v", err)
		return nil, 0, err
	}
	return converter.InterpretersToResponses(interpreters), total, nil
}

func (u *interpreterUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.InterpreterResponse, error) {
	interpreter, err := u.interpreterRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find interpreter %s: %+v", id, err)
		return nil, err
	}
	if interpreter == nil {
		return nil, ErrInterpreterNotFound
	}
	return converter.InterpreterToResponse(interpreter), nil
}

func (u *interpreterUsecase) ChangeStatus(ctx context.Context, id uuid.UUID, req *dto.StatusChangeRequest) (*dto.InterpreterResponse, error) {
	actorID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	interpreter, err := u.interpreterRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find interpreter %s: %+v", id, err)
		return nil, err
	}
	if interpreter == nil {
		return nil, ErrInterpreterNotFound
	}
	oldStatus := interpreter.Status

	if err := interpreter.TransitionTo(entity.InterpreterStatus(req.Status)); err != nil {
		return nil, err
	}
	interpreter.Version = req.Version

	if err := checkVersioned(u.interpreterRepo.UpdateStatus(tx, interpreter)); err != nil {
		if !errors.Is(err, ErrVersionConflict) {
			u.log.Warnf("Failed to update interpreter %s status: %+v", id, err)
		}
		return nil, err
	}

	err = u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionInterpreterStatus, "interpreter", id.String(),
		map[string]interface{}{"status": oldStatus},
		map[string]interface{}{"status": interpreter.Status, "reason": req.Reason},
	)
	if err != nil {
		return nil, err
	}

	staged, err := u.notifier.stage(tx, []uuid.UUID{interpreter.UserID}, notice{
		kind:        entity.NotificationInterpreterStatus,
		title:       "Interpreter profile " + string(interpreter.Status),
		message:     fmt.Sprintf("Your interpreter profile changed from %s to %s.", oldStatus, interpreter.Status),
		referenceID: &interpreter.ID,
	})
	if err != nil {
		u.log.Warnf("Failed to store interpreter status notification: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	u.notifier.publish(ctx, staged)

	u.log.Infof("Interpreter status changed: id=%s, %s -> %s", id, oldStatus, interpreter.Status)
	return u.Get(ctx, id)
}

func (u *interpreterUsecase) ResolveInterpreter(ctx context.Context, userID uuid.UUID) (*entity.Interpreter, error) {
	interpreter, err := u.interpreterRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find interpreter of user %s: %+v", userID, err)
		return nil, err
	}
	return interpreter, nil
}
