package repository

import (
	"regexp"
	"testing"
	"time"

	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/pkg/listing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestUserRepository_FindByIDMissingReturnsNil(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := NewUserRepository().FindByID(db, id)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role", "status", "version"}).
			AddRow(id.String(), "ana@example.com", "user", "active", int64(3)))

	user, err := NewUserRepository().FindByEmail(db, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, 3, user.Version)
	assert.True(t, user.IsActive())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHospitalRepository_UpdateChecksVersion(t *testing.T) {
	db, mock := newMockDB(t)
	hospital := &entity.Hospital{ID: uuid.New(), Name: "Seoul Dental", Version: 4, Status: entity.HospitalStatusActive}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "hospitals" SET .*"version"=version \+ 1.* WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	affected, err := NewHospitalRepository().Update(db, hospital)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHospitalRepository_FindAllFiltersBeforePaging(t *testing.T) {
	db, mock := newMockDB(t)
	q := listing.Query{
		Search:  "dent",
		Filters: map[string]string{"city": "Seoul", "ignored": "x"},
		Page:    2,
		Limit:   1,
	}

	search := `\(+hospitals\.name ILIKE \$1 OR hospitals\.specialty ILIKE \$2 OR hospitals\.city ILIKE \$3 OR hospitals\.address ILIKE \$4\)+ AND hospitals\.city = \$5`
	mock.ExpectQuery(`SELECT count\(\*\) FROM "hospitals" WHERE ` + search).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery(`SELECT \* FROM "hospitals" WHERE ` + search + ` ORDER BY hospitals\.name ASC,hospitals\.id LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "city"}).AddRow(uuid.NewString(), "Gangnam Dental", "Seoul"))

	hospitals, total, err := NewHospitalRepository().FindAll(db, q)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, hospitals, 1)
	assert.Equal(t, "Gangnam Dental", hospitals[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeRepository_FindAllByHospital(t *testing.T) {
	db, mock := newMockDB(t)
	h1 := uuid.New()
	feeID := uuid.New()
	q := listing.Query{Filters: map[string]string{"hospital_id": h1.String()}}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "fees" WHERE fees.hospital_id = $1`)).
		WithArgs(h1.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "fees" WHERE fees.hospital_id = $1 ORDER BY fees.treatment ASC,fees.id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hospital_id", "treatment", "min_price", "max_price", "currency"}).
			AddRow(feeID.String(), h1.String(), "Rhinoplasty", "3000.00", "5000.00", "USD"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "hospitals" WHERE "hospitals"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(h1.String(), "H1"))

	fees, total, err := NewFeeRepository().FindAll(db, q)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, fees, 1)
	assert.Equal(t, "Rhinoplasty", fees[0].Treatment)
	assert.Equal(t, "5000", fees[0].MaxPrice.String())
	require.NotNil(t, fees[0].Hospital)
	assert.Equal(t, "H1", fees[0].Hospital.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromotionRepository_StatusFilterUsesDates(t *testing.T) {
	db, mock := newMockDB(t)
	q := listing.Query{Filters: map[string]string{"status": "active"}}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "promotions" WHERE promotions.valid_from <= NOW() AND promotions.valid_until >= NOW()`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "promotions" WHERE promotions.valid_from <= NOW() AND promotions.valid_until >= NOW() ORDER BY promotions.valid_from DESC,promotions.id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	promotions, total, err := NewPromotionRepository().FindAll(db, q)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, promotions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterpreterRepository_FindAllJoinsUsers(t *testing.T) {
	db, mock := newMockDB(t)
	q := listing.Query{Search: "kim", Filters: map[string]string{"language": "Korean", "status": "active"}}

	mock.ExpectQuery(`SELECT count\(\*\) FROM "interpreters" JOIN users ON users\.id = interpreters\.user_id WHERE \(+users\.full_name ILIKE \$1 OR interpreters\.bio ILIKE \$2\)+ AND \$3 = ANY\(interpreters\.languages\) AND interpreters\.status = \$4`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(regexp.QuoteMeta(`JOIN users ON users.id = interpreters.user_id WHERE`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, total, err := NewInterpreterRepository().FindAll(db, q)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_UpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	reservation := &entity.Reservation{ID: uuid.New(), Status: entity.ReservationStatusConfirmed, Version: 2}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reservations" SET "cancel_reason"=\$1,"status"=\$2,.*WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	affected, err := NewReservationRepository().UpdateStatus(db, reservation)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_AverageRating(t *testing.T) {
	hospitalID := uuid.New()

	t.Run("rounds to one decimal", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT AVG(rating) AS average FROM "reviews" WHERE hospital_id = $1`)).
			WithArgs(hospitalID).
			WillReturnRows(sqlmock.NewRows([]string{"average"}).AddRow("4.2500000000000000"))

		avg, err := NewReviewRepository().AverageRating(db, hospitalID)
		require.NoError(t, err)
		assert.Equal(t, "4.3", avg.String())
	})

	t.Run("no reviews", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT AVG(rating) AS average FROM "reviews"`)).
			WillReturnRows(sqlmock.NewRows([]string{"average"}).AddRow(nil))

		avg, err := NewReviewRepository().AverageRating(db, hospitalID)
		require.NoError(t, err)
		assert.True(t, avg.IsZero())
	})
}

func TestFavoriteRepository_AddIgnoresDuplicates(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "favorites"`) + `.*` + regexp.QuoteMeta(`ON CONFLICT DO NOTHING`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := NewFavoriteRepository().Add(db, &entity.Favorite{UserID: uuid.New(), HospitalID: uuid.New(), CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkReadOnlyOwnUnread(t *testing.T) {
	db, mock := newMockDB(t)
	id, userID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "notifications" SET "read_at"=$1 WHERE id = $2 AND user_id = $3 AND read_at IS NULL`)).
		WithArgs(sqlmock.AnyArg(), id, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	affected, err := NewNotificationRepository().MarkRead(db, id, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHospitalRepository_FindByIDForUpdateLocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "hospitals" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "status", "version"}).
			AddRow(id.String(), "Seoul Dental", "active", int64(1)))
	mock.ExpectRollback()

	tx := db.Begin()
	hospital, err := NewHospitalRepository().FindByIDForUpdate(tx, id)
	tx.Rollback()

	require.NoError(t, err)
	require.NotNil(t, hospital)
	assert.Equal(t, id, hospital.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
