package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"medical-tourism-concierge/internal/delivery/http/middleware"
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/pkg/listing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB returns a gorm handle whose transactions are checked by sqlmock.
// The fakes below never issue SQL, so tests only expect Begin and
// Commit/Rollback.
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

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func actorContext(userID uuid.UUID, role string) context.Context {
	return middleware.WithIdentity(context.Background(), userID, "actor@example.com", role, "token-id")
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// =============================================================================
// Users
// =============================================================================

type fakeUserRepo struct {
	users     map[uuid.UUID]*entity.User
	createErr error
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(db *gorm.DB, user *entity.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindAll(db *gorm.DB, q listing.Query) ([]entity.User, int64, error) {
	out := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) FindIDsByRole(db *gorm.DB, role string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, u := range r.users {
		if u.Role == role && u.IsActive() {
			ids = append(ids, u.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func (r *fakeUserRepo) Update(db *gorm.DB, user *entity.User) (int64, error) {
	stored, ok := r.users[user.ID]
	if !ok || stored.Version != user.Version {
		return 0, nil
	}
	copied := *user
	copied.Version++
	r.users[user.ID] = &copied
	return 1, nil
}

func (r *fakeUserRepo) Delete(db *gorm.DB, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

// =============================================================================
// Hospitals, fees and promotions
// =============================================================================

type fakeHospitalRepo struct {
	hospitals map[uuid.UUID]*entity.Hospital
	lastQuery listing.Query
	ratings   map[uuid.UUID]decimal.Decimal
	locked    []uuid.UUID
}

func newFakeHospitalRepo(hospitals ...*entity.Hospital) *fakeHospitalRepo {
	r := &fakeHospitalRepo{
		hospitals: make(map[uuid.UUID]*entity.Hospital),
		ratings:   make(map[uuid.UUID]decimal.Decimal),
	}
	for _, h := range hospitals {
		r.hospitals[h.ID] = h
	}
	return r
}

func (r *fakeHospitalRepo) Create(db *gorm.DB, hospital *entity.Hospital) error {
	hospital.ID = uuid.New()
	copied := *hospital
	r.hospitals[hospital.ID] = &copied
	return nil
}

func (r *fakeHospitalRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Hospital, error) {
	h, ok := r.hospitals[id]
	if !ok {
		return nil, nil
	}
	copied := *h
	return &copied, nil
}

func (r *fakeHospitalRepo) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Hospital, error) {
	r.locked = append(r.locked, id)
	return r.FindByID(db, id)
}

func (r *fakeHospitalRepo) FindDetail(db *gorm.DB, id uuid.UUID) (*entity.Hospital, error) {
	return r.FindByID(db, id)
}

func (r *fakeHospitalRepo) FindAll(db *gorm.DB, q listing.Query) ([]entity.Hospital, int64, error) {
	r.lastQuery = q
	var out []entity.Hospital
	for _, h := range r.hospitals {
		if status, ok := q.Filters["status"]; ok && string(h.Status) != status {
			continue
		}
		out = append(out, *h)
	}
	return out, int64(len(out)), nil
}

func (r *fakeHospitalRepo) Update(db *gorm.DB, hospital *entity.Hospital) (int64, error) {
	stored, ok := r.hospitals[hospital.ID]
	if !ok || stored.Version != hospital.Version {
		return 0, nil
	}
	copied := *hospital
	copied.Version++
	r.hospitals[hospital.ID] = &copied
	return 1, nil
}

func (r *fakeHospitalRepo) UpdateRating(db *gorm.DB, id uuid.UUID, rating decimal.Decimal) error {
	r.ratings[id] = rating
	if h, ok := r.hospitals[id]; ok {
		h.Rating = rating
	}
	return nil
}

func (r *fakeHospitalRepo) Delete(db *gorm.DB, id uuid.UUID) error {
	delete(r.hospitals, id)
	return nil
}

type fakeFeeRepo struct {
	fees map[uuid.UUID]*entity.Fee
}

func newFakeFeeRepo(fees ...*entity.Fee) *fakeFeeRepo {
	r := &fakeFeeRepo{fees: make(map[uuid.UUID]*entity.Fee)}
	for _, f := range fees {
		r.fees[f.ID] = f
	}
	return r
}

func (r *fakeFeeRepo) Create(db *gorm.DB, fee *entity.Fee) error {
	fee.ID = uuid.New()
	copied := *fee
	r.fees[fee.ID] = &copied
	return nil
}

func (r *fakeFeeRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Fee, error) {
	f, ok := r.fees[id]
	if !ok {
		return nil, nil
	}
	copied := *f
	return &copied, nil
}

func (r *fakeFeeRepo) FindAll(db *gorm.DB, q listing.Query) ([]entity.Fee, int64, error) {
	var out []entity.Fee
	for _, f := range r.fees {
		out = append(out, *f)
	}
	return out, int64(len(out)), nil
}

func (r *fakeFeeRepo) Update(db *gorm.DB, fee *entity.Fee) (int64, error) {
	stored, ok := r.fees[fee.ID]
	if !ok || stored.Version != fee.Version {
		return 0, nil
	}
	copied := *fee
	copied.Version++
	r.fees[fee.ID] = &copied
	return 1, nil
}

func (r *fakeFeeRepo) Delete(db *gorm.DB, id uuid.UUID) error {
	delete(r.fees, id)
	return nil
}

type fakePromotionRepo struct {
	promotions map[uuid.UUID]*entity.Promotion
	lastQuery  listing.Query
}

func newFakePromotionRepo(promotions ...*entity.Promotion) *fakePromotionRepo {
	r := &fakePromotionRepo{promotions: make(map[uuid.UUID]*entity.Promotion)}
	for _, p := range promotions {
		r.promotions[p.ID] = p
	}
	return r
}

func (r *fakePromotionRepo) Create(db *gorm.DB, promotion *entity.Promotion) error {
	promotion.ID = uuid.New()
	copied := *promotion
	r.promotions[promotion.ID] = &copied
	return nil
}

func (r *fakePromotionRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Promotion, error) {
	p, ok := r.promotions[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakePromotionRepo) FindAll(db *gorm.DB, q listing.Query) ([]entity.Promotion, int64, error) {
	r.lastQuery = q
	var out []entity.Promotion
	for _, p := range r.promotions {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePromotionRepo) Update(db *gorm.DB, promotion *entity.Promotion) (int64, error) {
	stored, ok := r.promotions[promotion.ID]
	if !ok || stored.Version != promotion.Version {
		return 0, nil
	}
	copied := *promotion
	copied.Version++
	r.promotions[promotion.ID] = &copied
	return 1, nil
}

func (r *fakePromotionRepo) Delete(db *gorm.DB, id uuid.UUID) error {
	delete(r.promotions, id)
	return nil
}

// =============================================================================
// Interpreters and reservations
// =============================================================================

type fakeInterpreterRepo struct {
	interpreters map[uuid.UUID]*entity.Interpreter
}

func newFakeInterpreterRepo(interpreters ...*entity.Interpreter) *fakeInterpreterRepo {
	r := &fakeInterpreterRepo{interpreters: make(map[uuid.UUID]*entity.Interpreter)}
	for _, i := range interpreters {
		r.interpreters[i.ID] = i
	}
	return r
}

func (r *fakeInterpreterRepo) Create(db *gorm.DB, interpreter *entity.Interpreter) error {
	interpreter.ID = uuid.New()
	copied := *interpreter
	r.interpreters[interpreter.ID] = &copied
	return nil
}

func (r *fakeInterpreterRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Interpreter, error) {
	i, ok := r.interpreters[id]
	if !ok {
		return nil, nil
	}
	copied := *i
	return &copied, nil
}

func (r *fakeInterpreterRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Interpreter, error) {
	for _, i := range r.interpreters {
		if i.UserID == userID {
			copied := *i
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeInterpreterRepo) FindAll(db *gorm.DB, q listing.Query) ([]entity.Interpreter, int64, error) {
	var out []entity.Interpreter
	for _, i := range r.interpreters {
		if status, ok := q.Filters["status"]; ok && string(i.Status) != status {
			continue
		}
		out = append(out, *i)
	}
	return out, int64(len(out)), nil
}

func (r *fakeInterpreterRepo) UpdateStatus(db *gorm.DB, interpreter *entity.Interpreter) (int64, error) {
	stored, ok := r.interpreters[interpreter.ID]
	if !ok || stored.Version != interpreter.Version {
		return 0, nil
	}
	stored.Status = interpreter.Status
	stored.Version++
	return 1, nil
}

type fakeReservationRepo struct {
	reservations map[uuid.UUID]*entity.Reservation
	lastQuery    listing.Query
}

func newFakeReservationRepo(reservations ...*entity.Reservation) *fakeReservationRepo {
	r := &fakeReservationRepo{reservations: make(map[uuid.UUID]*entity.Reservation)}
	for _, res := range reservations {
		r.reservations[res.ID] = res
	}
	return r
}

func (r *fakeReservationRepo) Create(db *gorm.DB, reservation *entity.Reservation) error {
	reservation.ID = uuid.New()
	copied := *reservation
	r.reservations[reservation.ID] = &copied
	return nil
}

func (r *fakeReservationRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Reservation, error) {
	res, ok := r.reservations[id]
	if !ok {
		return nil, nil
	}
	copied := *res
	return &copied, nil
}

func (r *fakeReservationRepo) FindAll(db *gorm.DB, q listing.Query) ([]entity.Reservation, int64, error) {
	r.lastQuery = q
	var out []entity.Reservation
	for _, res := range r.reservations {
		out = append(out, *res)
	}
	return out, int64(len(out)), nil
}

func (r *fakeReservationRepo) FindByInterpreterID(db *gorm.DB, interpreterID uuid.UUID) ([]entity.Reservation, error) {
	var out []entity.Reservation
	for _, res := range r.reservations {
		if res.IsAssignedTo(interpreterID) {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) UpdateStatus(db *gorm.DB, reservation *entity.Reservation) (int64, error) {
	stored, ok := r.reservations[reservation.ID]
	if !ok || stored.Version != reservation.Version {
		return 0, nil
	}
	stored.Status = reservation.Status
	stored.CancelReason = reservation.CancelReason
	stored.Version++
	return 1, nil
}

func (r *fakeReservationRepo) AssignInterpreter(db *gorm.DB, reservation *entity.Reservation) (int64, error) {
	stored, ok := r.reservations[reservation.ID]
	if !ok || stored.Version != reservation.Version {
		return 0, nil
	}
	stored.InterpreterID = reservation.InterpreterID
	stored.Version++
	return 1, nil
}

// =============================================================================
// Reviews, favorites, notifications
// =============================================================================

type fakeReviewRepo struct {
	reviews   []entity.Review
	createErr error
}

func (r *fakeReviewRepo) Create(db *gorm.DB, review *entity.Review) error {
	if r.createErr != nil {
		return r.createErr
	}
	review.ID = uuid.New()
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r *fakeReviewRepo) FindByHospitalID(db *gorm.DB, hospitalID uuid.UUID, q listing.Query) ([]entity.Review, int64, error) {
	var out []entity.Review
	for _, review := range r.reviews {
		if review.HospitalID == hospitalID {
			out = append(out, review)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeReviewRepo) AverageRating(db *gorm.DB, hospitalID uuid.UUID) (decimal.Decimal, error) {
	sum, n := 0, 0
	for _, review := range r.reviews {
		if review.HospitalID == hospitalID {
			sum += review.Rating
			n++
		}
	}
	if n == 0 {
		return decimal.Zero, nil
	}
	return decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(n))).Round(1), nil
}

type fakeFavoriteRepo struct {
	favorites map[[2]uuid.UUID]bool
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: make(map[[2]uuid.UUID]bool)}
}

func (r *fakeFavoriteRepo) Add(db *gorm.DB, favorite *entity.Favorite) error {
	r.favorites[[2]uuid.UUID{favorite.UserID, favorite.HospitalID}] = true
	return nil
}

func (r *fakeFavoriteRepo) Remove(db *gorm.DB, userID, hospitalID uuid.UUID) error {
	delete(r.favorites, [2]uuid.UUID{userID, hospitalID})
	return nil
}

func (r *fakeFavoriteRepo) FindHospitals(db *gorm.DB, userID uuid.UUID, q listing.Query) ([]entity.Hospital, int64, error) {
	var out []entity.Hospital
	for key := range r.favorites {
		if key[0] == userID {
			out = append(out, entity.Hospital{ID: key[1]})
		}
	}
	return out, int64(len(out)), nil
}

type fakeNotificationRepo struct {
	created []entity.Notification
	read    map[uuid.UUID]uuid.UUID
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{read: make(map[uuid.UUID]uuid.UUID)}
}

func (r *fakeNotificationRepo) Create(db *gorm.DB, notification *entity.Notification) error {
	notification.ID = uuid.New()
	r.created = append(r.created, *notification)
	return nil
}

func (r *fakeNotificationRepo) FindByUserID(db *gorm.DB, userID uuid.UUID, q listing.Query) ([]entity.Notification, int64, error) {
	var out []entity.Notification
	for _, n := range r.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) MarkRead(db *gorm.DB, id, userID uuid.UUID) (int64, error) {
	for _, n := range r.created {
		if n.ID == id && n.UserID == userID {
			if _, done := r.read[id]; done {
				return 0, nil
			}
			r.read[id] = userID
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeNotificationRepo) recipients(kind string) []uuid.UUID {
	var ids []uuid.UUID
	for _, n := range r.created {
		if n.Kind == kind {
			ids = append(ids, n.UserID)
		}
	}
	return ids
}

// =============================================================================
// Services
// =============================================================================

type auditCall struct {
	action   string
	entityID string
}

type fakeAuditService struct {
	calls []auditCall
}

func (s *fakeAuditService) LogCreate(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action, entityName, entityID string, newValue interface{}) error {
	s.calls = append(s.calls, auditCall{action, entityID})
	return nil
}

func (s *fakeAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	s.calls = append(s.calls, auditCall{action, entityID})
	return nil
}

func (s *fakeAuditService) LogDelete(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action, entityName, entityID string, oldValue interface{}) error {
	s.calls = append(s.calls, auditCall{action, entityID})
	return nil
}

func (s *fakeAuditService) actions() []string {
	out := make([]string, len(s.calls))
	for i, c := range s.calls {
		out[i] = c.action
	}
	return out
}

type fakePublisher struct {
	mu        sync.Mutex
	published []entity.Notification
}

func (p *fakePublisher) Publish(ctx context.Context, n *entity.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, *n)
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}
