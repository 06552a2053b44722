package usecase

import (
	"context"
	"testing"
	"time"

	"medical-tourism-concierge/internal/delivery/dto"
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHospitalUsecase_ListPublicOnlyActive(t *testing.T) {
	db, _ := newMockDB(t)
	active := &entity.Hospital{ID: uuid.New(), Name: "Seoul Dental", Status: entity.HospitalStatusActive}
	inactive := &entity.Hospital{ID: uuid.New(), Name: "Closed Clinic", Status: entity.HospitalStatusInactive}
	hospitals := newFakeHospitalRepo(active, inactive)
	uc := NewHospitalUsecase(db, quietLogger(), hospitals, &fakeAuditService{})

	q := listing.Query{Filters: map[string]string{"status": "inactive", "city": "Seoul"}}.Normalize()
	list, total, err := uc.ListPublic(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, active.ID, list[0].ID)
	assert.Equal(t, "active", hospitals.lastQuery.Filters["status"])
	assert.Equal(t, "Seoul", hospitals.lastQuery.Filters["city"])
	assert.Equal(t, "inactive", q.Filters["status"], "caller's query is left untouched")
}

func TestHospitalUsecase_UpdateVersionConflict(t *testing.T) {
	db, mock := newMockDB(t)
	hospital := &entity.Hospital{ID: uuid.New(), Name: "Seoul Dental", Status: entity.HospitalStatusActive, Version: 5}
	audit := &fakeAuditService{}
	uc := NewHospitalUsecase(db, quietLogger(), newFakeHospitalRepo(hospital), audit)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := uc.Update(actorContext(uuid.New(), entity.RoleAdmin), hospital.ID, &dto.UpdateHospitalRequest{
		Name: "Seoul Dental Center", Specialty: "Dental", Address: "Gangnam", Status: "active", Version: 4,
	})
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.Empty(t, audit.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHospitalUsecase_CreateAndDeleteAreAudited(t *testing.T) {
	db, mock := newMockDB(t)
	audit := &fakeAuditService{}
	uc := NewHospitalUsecase(db, quietLogger(), newFakeHospitalRepo(), audit)
	ctx := actorContext(uuid.New(), entity.RoleAdmin)

	mock.ExpectBegin()
	mock.ExpectCommit()
	created, err := uc.Create(ctx, &dto.CreateHospitalRequest{Name: "Bangkok Care", Specialty: "Cardiology", Address: "Sukhumvit"})
	require.NoError(t, err)
	assert.Equal(t, "active", created.Status)
	assert.Equal(t, 1, created.Version)

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, uc.Delete(ctx, created.ID))

	_, err = uc.GetDetail(ctx, created.ID)
	assert.ErrorIs(t, err, ErrHospitalNotFound)
	assert.Equal(t, []string{entity.AuditActionHospitalCreate, entity.AuditActionHospitalDelete}, audit.actions())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHospitalUsecase_DeletedRowStaysOutOfList(t *testing.T) {
	db, mock := newMockDB(t)
	uc := NewHospitalUsecase(db, quietLogger(), newFakeHospitalRepo(), &fakeAuditService{})
	ctx := actorContext(uuid.New(), entity.RoleAdmin)

	mock.ExpectBegin()
	mock.ExpectCommit()
	doomed, err := uc.Create(ctx, &dto.CreateHospitalRequest{Name: "Bangkok Care", Specialty: "Cardiology", Address: "Sukhumvit"})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	kept, err := uc.Create(ctx, &dto.CreateHospitalRequest{Name: "Seoul Dental", Specialty: "Dental", Address: "Gangnam"})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, uc.Delete(ctx, doomed.ID))

	ids := func() []uuid.UUID {
		list, total, err := uc.List(ctx, listing.Query{}.Normalize())
		require.NoError(t, err)
		require.EqualValues(t, len(list), total)
		out := make([]uuid.UUID, len(list))
		for i, h := range list {
			out[i] = h.ID
		}
		return out
	}
	assert.Equal(t, []uuid.UUID{kept.ID}, ids())

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = uc.Update(ctx, kept.ID, &dto.UpdateHospitalRequest{
		Name: "Seoul Dental Center", Specialty: "Dental", Address: "Gangnam", Status: "active", Version: kept.Version,
	})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{kept.ID}, ids())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeUsecase_Quote(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	hospitalID := uuid.New()
	fee := &entity.Fee{
		ID:         uuid.New(),
		HospitalID: hospitalID,
		Treatment:  "Rhinoplasty",
		MinPrice:   decimal.RequireFromString("1999.99"),
		MaxPrice:   decimal.RequireFromString("4000.00"),
		Currency:   "USD",
	}
	window := func(p *entity.Promotion) *entity.Promotion {
		p.ID = uuid.New()
		p.ValidFrom = now.AddDate(0, 0, -1)
		p.ValidUntil = now.AddDate(0, 0, 1)
		return p
	}
	global := window(&entity.Promotion{DiscountPercent: decimal.NewFromInt(15)})
	otherHospital := uuid.New()
	elsewhere := window(&entity.Promotion{DiscountPercent: decimal.NewFromInt(50), HospitalID: &otherHospital})
	expired := &entity.Promotion{ID: uuid.New(), DiscountPercent: decimal.NewFromInt(30), ValidFrom: now.AddDate(0, -2, 0), ValidUntil: now.AddDate(0, -1, 0)}

	db, _ := newMockDB(t)
	uc := NewFeeUsecase(db, quietLogger(), newFakeFeeRepo(fee), newFakeHospitalRepo(), newFakePromotionRepo(global, elsewhere, expired), &fakeAuditService{})
	uc.(*feeUsecase).now = fixedClock(now)
	ctx := context.Background()

	quote, err := uc.Quote(ctx, fee.ID, &global.ID)
	require.NoError(t, err)
	assert.Equal(t, "1699.99", quote.DiscountedMinPrice.StringFixed(2))
	assert.Equal(t, "3400.00", quote.DiscountedMaxPrice.StringFixed(2))
	require.NotNil(t, quote.PromotionID)
	assert.Equal(t, global.ID, *quote.PromotionID)

	for _, promo := range []*entity.Promotion{elsewhere, expired} {
		quote, err = uc.Quote(ctx, fee.ID, &promo.ID)
		require.NoError(t, err)
		assert.True(t, quote.DiscountedMinPrice.Equal(fee.MinPrice))
		assert.Nil(t, quote.PromotionID)
	}

	quote, err = uc.Quote(ctx, fee.ID, nil)
	require.NoError(t, err)
	assert.True(t, quote.DiscountPercent.IsZero())

	missing := uuid.New()
	_, err = uc.Quote(ctx, fee.ID, &missing)
	assert.ErrorIs(t, err, ErrPromotionNotFound)

	_, err = uc.Quote(ctx, uuid.New(), nil)
	assert.ErrorIs(t, err, ErrFeeNotFound)
}

func TestFeeUsecase_CreateValidation(t *testing.T) {
	hospital := &entity.Hospital{ID: uuid.New(), Name: "Seoul Dental", Status: entity.HospitalStatusActive}
	req := func(hospitalID uuid.UUID, min, max string) *dto.CreateFeeRequest {
		return &dto.CreateFeeRequest{
			HospitalID: hospitalID,
			Department: "Dental",
			Treatment:  "Implant",
			MinPrice:   decimal.RequireFromString(min),
			MaxPrice:   decimal.RequireFromString(max),
			Currency:   "KRW",
		}
	}
	ctx := actorContext(uuid.New(), entity.RoleAdmin)

	t.Run("min above max", func(t *testing.T) {
		db, mock := newMockDB(t)
		uc := NewFeeUsecase(db, quietLogger(), newFakeFeeRepo(), newFakeHospitalRepo(hospital), newFakePromotionRepo(), &fakeAuditService{})
		_, err := uc.Create(ctx, req(hospital.ID, "500", "100"))
		assert.ErrorIs(t, err, entity.ErrInvalidPriceRange)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown hospital", func(t *testing.T) {
		db, mock := newMockDB(t)
		uc := NewFeeUsecase(db, quietLogger(), newFakeFeeRepo(), newFakeHospitalRepo(hospital), newFakePromotionRepo(), &fakeAuditService{})
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := uc.Create(ctx, req(uuid.New(), "100", "500"))
		assert.ErrorIs(t, err, ErrHospitalNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("created", func(t *testing.T) {
		db, mock := newMockDB(t)
		audit := &fakeAuditService{}
		uc := NewFeeUsecase(db, quietLogger(), newFakeFeeRepo(), newFakeHospitalRepo(hospital), newFakePromotionRepo(), audit)
		mock.ExpectBegin()
		mock.ExpectCommit()
		fee, err := uc.Create(ctx, req(hospital.ID, "100", "100"))
		require.NoError(t, err)
		assert.Equal(t, "KRW", fee.Currency)
		assert.Equal(t, []string{entity.AuditActionFeeCreate}, audit.actions())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPromotionUsecase(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	upcoming := &entity.Promotion{ID: uuid.New(), Title: "Summer", ValidFrom: now.AddDate(0, 1, 0), ValidUntil: now.AddDate(0, 2, 0), Version: 1}
	promotions := newFakePromotionRepo(upcoming)

	db, mock := newMockDB(t)
	audit := &fakeAuditService{}
	uc := NewPromotionUsecase(db, quietLogger(), promotions, newFakeHospitalRepo(), audit)
	uc.(*promotionUsecase).now = fixedClock(now)
	ctx := actorContext(uuid.New(), entity.RoleAdmin)

	t.Run("public list asks for active promotions", func(t *testing.T) {
		_, _, err := uc.ListActive(context.Background(), listing.Query{}.Normalize())
		require.NoError(t, err)
		assert.Equal(t, "active", promotions.lastQuery.Filters["status"])
	})

	t.Run("admin list reports the computed status", func(t *testing.T) {
		list, _, err := uc.List(context.Background(), listing.Query{}.Normalize())
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "upcoming", list[0].Status)
	})

	t.Run("window must be ordered", func(t *testing.T) {
		_, err := uc.Create(ctx, &dto.CreatePromotionRequest{
			Title: "Broken", DiscountPercent: decimal.NewFromInt(10), ValidFrom: now, ValidUntil: now,
		})
		assert.ErrorIs(t, err, ErrInvalidPromotionWindow)
	})

	t.Run("update bumps version", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectCommit()
		resp, err := uc.Update(ctx, upcoming.ID, &dto.UpdatePromotionRequest{
			Title:           "Spring",
			DiscountPercent: decimal.NewFromInt(20),
			ValidFrom:       now.AddDate(0, 0, -1),
			ValidUntil:      now.AddDate(0, 0, 1),
			Version:         1,
		})
		require.NoError(t, err)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, 2, resp.Version)
		assert.Equal(t, []string{entity.AuditActionPromotionUpdate}, audit.actions())
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
