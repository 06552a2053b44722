package usecase

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"
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

const dateLayout = "2006-01-02"

var (
	ErrReservationNotFound   = errors.New("reservation not found")
	ErrReservationForbidden  = errors.New("reservation does not belong to you")
	ErrReservationInPast     = errors.New("reservation date must not be in the past")
	ErrInterpreterNotActive  = errors.New("interpreter is not active")
	ErrInterpreterDepartment = errors.New("interpreter does not cover this department")
)

// customerFields drives the in-memory listing of an interpreter's customers.
var customerFields = listing.Fields[dto.CustomerResponse]{
	Search: []func(dto.CustomerResponse) string{
		func(c dto.CustomerResponse) string { return c.FullName },
		func(c dto.CustomerResponse) string { return c.Email },
	},
	Filters: map[string]func(dto.CustomerResponse) []string{
		"nationality":        func(c dto.CustomerResponse) []string { return []string{c.Nationality} },
		"preferred_language": func(c dto.CustomerResponse) []string { return []string{c.PreferredLanguage} },
	},
	Sorts: map[string]func(a, b dto.CustomerResponse) int{
		"full_name": func(a, b dto.CustomerResponse) int {
			return strings.Compare(strings.ToLower(a.FullName), strings.ToLower(b.FullName))
		},
		"reservation_count": func(a, b dto.CustomerResponse) int {
			return cmp.Compare(a.ReservationCount, b.ReservationCount)
		},
		"last_reservation_date": func(a, b dto.CustomerResponse) int {
			return strings.Compare(a.LastReservationDate, b.LastReservationDate)
		},
	},
	DefaultSort: "full_name",
}

// CustomerFilterKeys lists the filters accepted by the customers list.
func CustomerFilterKeys() []string {
	return customerFields.FilterKeys()
}

type ReservationUsecase interface {
	// Patient
	Create(ctx context.Context, patientID uuid.UUID, req *dto.CreateReservationRequest) (*dto.ReservationResponse, error)
	ListMine(ctx context.Context, patientID uuid.UUID, q listing.Query) ([]dto.ReservationResponse, int64, error)
	Cancel(ctx context.Context, patientID, id uuid.UUID, req *dto.CancelReservationRequest) (*dto.ReservationResponse, error)

	// Interpreter
	ListRequests(ctx context.Context, interpreterID uuid.UUID, q listing.Query) ([]dto.ReservationResponse, int64, error)
	ListAssigned(ctx context.Context, interpreterID uuid.UUID, q listing.Query) ([]dto.ReservationResponse, int64, error)
	ListCustomers(ctx context.Context, interpreterID uuid.UUID, q listing.Query) ([]dto.CustomerResponse, int64, error)
	ChangeStatusAsInterpreter(ctx context.Context, interpreterID, id uuid.UUID, req *dto.StatusChangeRequest) (*dto.ReservationResponse, error)

	// Admin
	Get(ctx context.Context, id uuid.UUID) (*dto.ReservationResponse, error)
	ListAll(ctx context.Context, q listing.Query) ([]dto.ReservationResponse, int64, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, req *dto.StatusChangeRequest) (*dto.ReservationResponse, error)
	AssignInterpreter(ctx context.Context, id uuid.UUID, req *dto.AssignInterpreterRequest) (*dto.ReservationResponse, error)
}

type reservationUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	reservationRepo repository.ReservationRepository
	hospitalRepo    repository.HospitalRepository
	interpreterRepo repository.InterpreterRepository
	userRepo        repository.UserRepository
	auditService    service.AuditService
	notifier        *notifier
	now             func() time.Time
}

func NewReservationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	reservationRepo repository.ReservationRepository,
	hospitalRepo repository.HospitalRepository,
	interpreterRepo repository.InterpreterRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	auditService service.AuditService,
	publisher NotificationPublisher,
) ReservationUsecase {
	return &reservationUsecase{
		db:              db,
		log:             log,
		reservationRepo: reservationRepo,
		hospitalRepo:    hospitalRepo,
		interpreterRepo: interpreterRepo,
		userRepo:        userRepo,
		auditService:    auditService,
		notifier: &notifier{
			log:              log,
			notificationRepo: notificationRepo,
			publisher:        publisher,
		},
		now: time.Now,
	}
}

// =============================================================================
// Patient
// =============================================================================

func (u *reservationUsecase) Create(ctx context.Context, patientID uuid.UUID, req *dto.CreateReservationRequest) (*dto.ReservationResponse, error) {
	reservationDate, err := time.Parse(dateLayout, req.ReservationDate)
	if err != nil {
		return nil, ErrInvalidDateInput
	}
	today := u.now().UTC().Truncate(24 * time.Hour)
	if reservationDate.Before(today) {
		return nil, ErrReservationInPast
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	hospital, err := u.hospitalRepo.FindByID(tx, req.HospitalID)
	if err != nil {
		u.log.Warnf("Failed to find hospital %s: %+v", req.HospitalID, err)
		return nil, err
	}
	if hospital == nil {
		return nil, ErrHospitalNotFound
	}
	if !hospital.IsActive() {
		return nil, ErrHospitalInactive
	}

	var interpreter *entity.Interpreter
	if req.InterpreterID != nil {
		interpreter, err = u.eligibleInterpreter(tx, *req.InterpreterID, req.Department)
		if err != nil {
			return nil, err
		}
	}

	reservation := &entity.Reservation{
		PatientID:       patientID,
		HospitalID:      hospital.ID,
		InterpreterID:   req.InterpreterID,
		Treatment:       req.Treatment,
		Department:      req.Department,
		ReservationDate: reservationDate,
		ReservationTime: req.ReservationTime,
		Status:          entity.ReservationStatusPending,
		Notes:           req.Notes,
		Version:         1,
	}
	if err := u.reservationRepo.Create(tx, reservation); err != nil {
		u.log.Warnf("Failed to create reservation: %+v", err)
		return nil, err
	}

	recipients, err := u.userRepo.FindIDsByRole(tx, entity.RoleAdmin)
	if err != nil {
		u.log.Warnf("Failed to find admins to notify: %+v", err)
		return nil, err
	}
	if interpreter != nil {
		recipients = append(recipients, interpreter.UserID)
	}
	staged, err := u.notifier.stage(tx, recipients, notice{
		kind:        entity.NotificationReservationCreated,
		title:       "New reservation request",
		message:     fmt.Sprintf("%s at %s on %s %s.", reservation.Treatment, hospital.Name, req.ReservationDate, req.ReservationTime),
		referenceID: &reservation.ID,
	})
	if err != nil {
		u.log.Warnf("Failed to store reservation notifications: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	u.notifier.publish(ctx, staged)

	u.log.Infof("Reservation created: id=%s, patient=%s, hospital=%s", reservation.ID, patientID, hospital.ID)
	return u.Get(ctx, reservation.ID)
}

func (u *reservationUsecase) ListMine(ctx context.Context, patientID uuid.UUID, q listing.Query) ([]dto.ReservationResponse, int64, error) {
	return u.ListAll(ctx, q.WithFilter("patient_id", patientID.String()))
}

func (u *reservationUsecase) Cancel(ctx context.Context, patientID, id uuid.UUID, req *dto.CancelReservationRequest) (*dto.ReservationResponse, error) {
	return u.changeStatus(ctx, id, req.Version, func(r *entity.Reservation) error {
		if r.PatientID != patientID {
			return ErrReservationForbidden
		}
		return r.Cancel(req.Reason)
	}, nil)
}

// =============================================================================
// Interpreter
// =============================================================================

func (u *reservationUsecase) ListRequests(ctx context.Context, interpreterID uuid.UUID, q listing.Query) ([]dto.ReservationResponse, int64, error) {
	q = q.WithFilter("interpreter_id", interpreterID.String())
	return u.ListAll(ctx, q.WithFilter("status", string(entity.ReservationStatusPending)))
}

func (u *reservationUsecase) ListAssigned(ctx context.Context, interpreterID uuid.UUID, q listing.Query) ([]dto.ReservationResponse, int64, error) {
	return u.ListAll(ctx, q.WithFilter("interpreter_id", interpreterID.String()))
}

// ListCustomers groups the interpreter's reservations by patient, then
// searches, filters and paginates the groups in memory.
func (u *reservationUsecase) ListCustomers(ctx context.Context, interpreterID uuid.UUID, q listing.Query) ([]dto.CustomerResponse, int64, error) {
	reservations, err := u.reservationRepo.FindByInterpreterID(u.db.WithContext(ctx), interpreterID)
	if err != nil {
		u.log.Warnf("Failed to list reservations of interpreter %s: %+v", interpreterID, err)
		return nil, 0, err
	}

	customers := make([]dto.CustomerResponse, 0)
	index := make(map[uuid.UUID]int)
	for _, r := range reservations {
		date := r.ReservationDate.Format(dateLayout)
		i, seen := index[r.PatientID]
		if !seen {
			customer := dto.CustomerResponse{PatientID: r.PatientID}
			if r.Patient != nil {
				customer.FullName = r.Patient.FullName
				customer.Email = r.Patient.Email
				customer.Nationality = r.Patient.Nationality
				customer.PreferredLanguage = r.Patient.PreferredLanguage
			}
			customers = append(customers, customer)
			i = len(customers) - 1
			index[r.PatientID] = i
		}
		customers[i].ReservationCount++
		if date > customers[i].LastReservationDate {
			customers[i].LastReservationDate = date
		}
	}

	page, total := listing.Paginate(listing.Apply(customers, q, customerFields), q)
	return page, total, nil
}

// ChangeStatusAsInterpreter lets an interpreter confirm, complete or
// cancel a reservation assigned to them.
func (u *reservationUsecase) ChangeStatusAsInterpreter(ctx context.Context, interpreterID, id uuid.UUID, req *dto.StatusChangeRequest) (*dto.ReservationResponse, error) {
	return u.changeStatus(ctx, id, req.Version, func(r *entity.Reservation) error {
		if !r.IsAssignedTo(interpreterID) {
			return ErrReservationForbidden
		}
		return u.applyStatus(r, req)
	}, nil)
}

// =============================================================================
// Admin
// =============================================================================

func (u *reservationUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.ReservationResponse, error) {
	reservation, err := u.reservationRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find reservation %s: %+v", id, err)
		return nil, err
	}
	if reservation == nil {
		return nil, ErrReservationNotFound
	}
	return converter.ReservationToResponse(reservation), nil
}

func (u *reservationUsecase) ListAll(ctx context.Context, q listing.Query) ([]dto.ReservationResponse, int64, error) {
	reservations, total, err := u.reservationRepo.FindAll(u.db.WithContext(ctx), q)
	if err != nil {
		u.log.Warnf("Failed to list reservations: %+v", err)
		return nil, 0, err
	}
	return converter.ReservationsToResponses(reservations), total, nil
}

func (u *reservationUsecase) ChangeStatus(ctx context.Context, id uuid.UUID, req *dto.StatusChangeRequest) (*dto.ReservationResponse, error) {
	actorID, _ := middleware.GetUserIDFromContext(ctx)

	var oldStatus entity.ReservationStatus
	return u.changeStatus(ctx, id, req.Version, func(r *entity.Reservation) error {
		oldStatus = r.Status
		return u.applyStatus(r, req)
	}, func(tx *gorm.DB, r *entity.Reservation) error {
		return u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionReservationStatus, "reservation", r.ID.String(),
			map[string]interface{}{"status": oldStatus},
			map[string]interface{}{"status": r.Status, "reason": req.Reason},
		)
	})
}

func (u *reservationUsecase) AssignInterpreter(ctx context.Context, id uuid.UUID, req *dto.AssignInterpreterRequest) (*dto.ReservationResponse, error) {
	actorID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	reservation, err := u.reservationRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find reservation %s: %+v", id, err)
		return nil, err
	}
	if reservation == nil {
		return nil, ErrReservationNotFound
	}
	if reservation.IsTerminal() {
		return nil, entity.ErrInvalidStatusTransition
	}
	oldInterpreterID := reservation.InterpreterID

	interpreter, err := u.eligibleInterpreter(tx, req.InterpreterID, reservation.Department)
	if err != nil {
		return nil, err
	}

	reservation.InterpreterID = &interpreter.ID
	reservation.Version = req.Version
	if err := checkVersioned(u.reservationRepo.AssignInterpreter(tx, reservation)); err != nil {
		if !errors.Is(err, ErrVersionConflict) {
			u.log.Warnf("Failed to assign interpreter to reservation %s: %+v", id, err)
		}
		return nil, err
	}

	err = u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionReservationAssign, "reservation", id.String(),
		map[string]interface{}{"interpreter_id": oldInterpreterID},
		map[string]interface{}{"interpreter_id": interpreter.ID},
	)
	if err != nil {
		return nil, err
	}

	staged, err := u.notifier.stage(tx, []uuid.UUID{reservation.PatientID, interpreter.UserID}, notice{
		kind:        entity.NotificationInterpreterAssigned,
		title:       "Interpreter assigned",
		message:     fmt.Sprintf("An interpreter was assigned to the %s reservation on %s.", reservation.Treatment, reservation.ReservationDate.Format(dateLayout)),
		referenceID: &reservation.ID,
	})
	if err != nil {
		u.log.Warnf("Failed to store assignment notifications: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	u.notifier.publish(ctx, staged)

	u.log.Infof("Interpreter assigned: reservation=%s, interpreter=%s", id, interpreter.ID)
	return u.Get(ctx, id)
}

// =============================================================================
// Helpers
// =============================================================================

// changeStatus loads the reservation, lets mutate move it through the
// state machine, persists it against version and notifies the patient.
// audit, when set, runs inside the same transaction.
func (u *reservationUsecase) changeStatus(
	ctx context.Context,
	id uuid.UUID,
	version int,
	mutate func(*entity.Reservation) error,
	audit func(*gorm.DB, *entity.Reservation) error,
) (*dto.ReservationResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	reservation, err := u.reservationRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find reservation %s: %+v", id, err)
		return nil, err
	}
	if reservation == nil {
		return nil, ErrReservationNotFound
	}

	if err := mutate(reservation); err != nil {
		return nil, err
	}
	reservation.Version = version

	if err := checkVersioned(u.reservationRepo.UpdateStatus(tx, reservation)); err != nil {
		if !errors.Is(err, ErrVersionConflict) {
			u.log.Warnf("Failed to update reservation %s status: %+v", id, err)
		}
		return nil, err
	}

	if audit != nil {
		if err := audit(tx, reservation); err != nil {
			return nil, err
		}
	}

	message := fmt.Sprintf("Your %s reservation on %s is now %s.", reservation.Treatment, reservation.ReservationDate.Format(dateLayout), reservation.Status)
	if reservation.CancelReason != "" && reservation.Status == entity.ReservationStatusCancelled {
		message += " Reason: " + reservation.CancelReason
	}
	staged, err := u.notifier.stage(tx, []uuid.UUID{reservation.PatientID}, notice{
		kind:        entity.NotificationReservationStatus,
		title:       "Reservation " + string(reservation.Status),
		message:     message,
		referenceID: &reservation.ID,
	})
	if err != nil {
		u.log.Warnf("Failed to store status notification: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	u.notifier.publish(ctx, staged)

	u.log.Infof("Reservation status changed: id=%s, status=%s", id, reservation.Status)
	return u.Get(ctx, id)
}

func (u *reservationUsecase) applyStatus(r *entity.Reservation, req *dto.StatusChangeRequest) error {
	next := entity.ReservationStatus(req.Status)
	if next == entity.ReservationStatusCancelled {
		return r.Cancel(req.Reason)
	}
	return r.TransitionTo(next)
}

// eligibleInterpreter returns the interpreter when it is active and one of
// its specializations matches department.
func (u *reservationUsecase) eligibleInterpreter(tx *gorm.DB, interpreterID uuid.UUID, department string) (*entity.Interpreter, error) {
	interpreter, err := u.interpreterRepo.FindByID(tx, interpreterID)
	if err != nil {
		u.log.Warnf("Failed to find interpreter %s: %+v", interpreterID, err)
		return nil, err
	}
	if interpreter == nil {
		return nil, ErrInterpreterNotFound
	}
	if !interpreter.IsActive() {
		return nil, ErrInterpreterNotActive
	}
	if !interpreter.Covers(department) {
		return nil, ErrInterpreterDepartment
	}
	return interpreter, nil
}
