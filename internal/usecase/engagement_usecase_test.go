package usecase

import (
	"context"
	"testing"
	"time"

	"medical-tourism-concierge/internal/delivery/dto"
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestInterpreterUsecase_ChangeStatus(t *testing.T) {
	db, mock := newMockDB(t)
	pending := &entity.Interpreter{ID: uuid.New(), UserID: uuid.New(), Status: entity.InterpreterStatusInactive, Version: 1}
	notifications := newFakeNotificationRepo()
	publisher := &fakePublisher{}
	audit := &fakeAuditService{}
	uc := NewInterpreterUsecase(db, quietLogger(), newFakeInterpreterRepo(pending), notifications, audit, publisher)
	ctx := actorContext(uuid.New(), entity.RoleAdmin)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := uc.ChangeStatus(ctx, pending.ID, &dto.StatusChangeRequest{Status: "active", Version: 1})
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, []uuid.UUID{pending.UserID}, notifications.recipients(entity.NotificationInterpreterStatus))
	assert.Equal(t, 1, publisher.count())
	assert.Equal(t, []string{entity.AuditActionInterpreterStatus}, audit.actions())

	t.Run("same status is an invalid transition", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := uc.ChangeStatus(ctx, pending.ID, &dto.StatusChangeRequest{Status: "active", Version: 2})
		assert.ErrorIs(t, err, entity.ErrInvalidStatusTransition)
	})

	t.Run("suspended cannot go straight to inactive", func(t *testing.T) {
		pending.Status = entity.InterpreterStatusSuspended
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := uc.ChangeStatus(ctx, pending.ID, &dto.StatusChangeRequest{Status: "inactive", Version: 2})
		assert.ErrorIs(t, err, entity.ErrInvalidStatusTransition)
	})

	t.Run("missing interpreter", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := uc.ChangeStatus(ctx, uuid.New(), &dto.StatusChangeRequest{Status: "active", Version: 1})
		assert.ErrorIs(t, err, ErrInterpreterNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterpreterUsecase_PublicListAndResolve(t *testing.T) {
	db, _ := newMockDB(t)
	active := &entity.Interpreter{ID: uuid.New(), UserID: uuid.New(), Status: entity.InterpreterStatusActive}
	inactive := &entity.Interpreter{ID: uuid.New(), UserID: uuid.New(), Status: entity.InterpreterStatusInactive}
	uc := NewInterpreterUsecase(db, quietLogger(), newFakeInterpreterRepo(active, inactive), newFakeNotificationRepo(), &fakeAuditService{}, &fakePublisher{})

	list, total, err := uc.ListPublic(context.Background(), listing.Query{}.Normalize())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, active.ID, list[0].ID)

	resolved, err := uc.ResolveInterpreter(context.Background(), inactive.UserID)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, inactive.ID, resolved.ID)

	resolved, err = uc.ResolveInterpreter(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestReviewUsecase_CreateRecomputesRating(t *testing.T) {
	db, mock := newMockDB(t)
	hospital := &entity.Hospital{ID: uuid.New(), Name: "Seoul Dental", Status: entity.HospitalStatusActive}
	hospitals := newFakeHospitalRepo(hospital)
	reviews := &fakeReviewRepo{}
	uc := NewReviewUsecase(db, quietLogger(), reviews, hospitals)

	for _, rating := range []int{5, 4} {
		mock.ExpectBegin()
		mock.ExpectCommit()
		_, err := uc.Create(context.Background(), uuid.New(), hospital.ID, &dto.CreateReviewRequest{Rating: rating})
		require.NoError(t, err)
	}
	assert.Equal(t, "4.5", hospitals.ratings[hospital.ID].String())
	assert.Equal(t, []uuid.UUID{hospital.ID, hospital.ID}, hospitals.locked, "each review locks the hospital row")

	listed, total, err := uc.List(context.Background(), hospital.ID, listing.Query{}.Normalize())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, listed, 2)

	t.Run("second review by the same user", func(t *testing.T) {
		reviews.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "idx_reviews_hospital_user"}
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := uc.Create(context.Background(), uuid.New(), hospital.ID, &dto.CreateReviewRequest{Rating: 1})
		assert.ErrorIs(t, err, ErrAlreadyReviewed)
		assert.Equal(t, "4.5", hospitals.ratings[hospital.ID].String())
	})

	t.Run("unknown hospital", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := uc.Create(context.Background(), uuid.New(), uuid.New(), &dto.CreateReviewRequest{Rating: 3})
		assert.ErrorIs(t, err, ErrHospitalNotFound)

		_, _, err = uc.List(context.Background(), uuid.New(), listing.Query{}.Normalize())
		assert.ErrorIs(t, err, ErrHospitalNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteUsecase(t *testing.T) {
	db, _ := newMockDB(t)
	hospital := &entity.Hospital{ID: uuid.New(), Name: "Seoul Dental", Status: entity.HospitalStatusActive}
	favorites := newFakeFavoriteRepo()
	uc := NewFavoriteUsecase(db, quietLogger(), favorites, newFakeHospitalRepo(hospital))
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, uc.Add(ctx, userID, hospital.ID))
	require.NoError(t, uc.Add(ctx, userID, hospital.ID))
	assert.ErrorIs(t, uc.Add(ctx, userID, uuid.New()), ErrHospitalNotFound)

	list, total, err := uc.List(ctx, userID, listing.Query{}.Normalize())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, hospital.ID, list[0].ID)

	require.NoError(t, uc.Remove(ctx, userID, hospital.ID))
	require.NoError(t, uc.Remove(ctx, userID, hospital.ID))
	_, total, err = uc.List(ctx, userID, listing.Query{}.Normalize())
	require.NoError(t, err)
	assert.Zero(t, total)
}

type fakeSubscriber struct {
	ch chan entity.Notification
}

func (s *fakeSubscriber) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan entity.Notification, error) {
	return s.ch, nil
}

func TestNotificationUsecase(t *testing.T) {
	db, _ := newMockDB(t)
	userID := uuid.New()
	notifications := newFakeNotificationRepo()
	require.NoError(t, notifications.Create(nil, &entity.Notification{UserID: userID, Kind: entity.NotificationReservationStatus, Title: "Reservation confirmed"}))
	stored := notifications.created[0]

	subscriber := &fakeSubscriber{ch: make(chan entity.Notification, 1)}
	uc := NewNotificationUsecase(db, quietLogger(), notifications, subscriber)
	ctx := context.Background()

	t.Run("mark read once", func(t *testing.T) {
		assert.ErrorIs(t, uc.MarkRead(ctx, uuid.New(), stored.ID), ErrNotificationNotFound)
		require.NoError(t, uc.MarkRead(ctx, userID, stored.ID))
		assert.ErrorIs(t, uc.MarkRead(ctx, userID, stored.ID), ErrNotificationNotFound)
	})

	t.Run("stream converts published notifications", func(t *testing.T) {
		streamCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		out, err := uc.Stream(streamCtx, userID)
		require.NoError(t, err)

		subscriber.ch <- stored
		select {
		case got := <-out:
			assert.Equal(t, stored.ID, got.ID)
			assert.Equal(t, "Reservation confirmed", got.Title)
			assert.False(t, got.Read)
		case <-time.After(time.Second):
			t.Fatal("notification was not streamed")
		}

		close(subscriber.ch)
		select {
		case _, ok := <-out:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("stream was not closed")
		}
	})
}

func TestAuditLogUsecase_GetMissing(t *testing.T) {
	db, _ := newMockDB(t)
	uc := NewAuditLogUsecase(db, quietLogger(), &fakeAuditLogRepo{})

	_, err := uc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)

	list, total, err := uc.List(context.Background(), listing.Query{}.Normalize())
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

type fakeAuditLogRepo struct{}

func (fakeAuditLogRepo) Create(db *gorm.DB, log *entity.AuditLog) error { return nil }

func (fakeAuditLogRepo) FindAll(db *gorm.DB, q listing.Query) ([]entity.AuditLog, int64, error) {
	return nil, 0, nil
}

func (fakeAuditLogRepo) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) { return nil, nil }
