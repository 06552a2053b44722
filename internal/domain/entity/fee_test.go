package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFeeValidate(t *testing.T) {
	fee := &Fee{MinPrice: decimal.NewFromInt(500), MaxPrice: decimal.NewFromInt(500)}
	assert.NoError(t, fee.Validate())

	fee.MinPrice = decimal.NewFromInt(501)
	assert.ErrorIs(t, fee.Validate(), ErrInvalidPriceRange)
}

func TestPromotionStatusAt(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)
	p := &Promotion{ValidFrom: from, ValidUntil: until}

	assert.Equal(t, PromotionStatusUpcoming, p.StatusAt(from.Add(-time.Second)))
	assert.Equal(t, PromotionStatusActive, p.StatusAt(from))
	assert.Equal(t, PromotionStatusActive, p.StatusAt(until))
	assert.Equal(t, PromotionStatusExpired, p.StatusAt(until.Add(time.Second)))
}

func TestPromotionAppliesTo(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	h1, h2 := uuid.New(), uuid.New()

	global := &Promotion{ValidFrom: now.AddDate(0, 0, -1), ValidUntil: now.AddDate(0, 0, 1)}
	assert.True(t, global.AppliesTo(h1, now))
	assert.True(t, global.AppliesTo(h2, now))

	scoped := &Promotion{HospitalID: &h1, ValidFrom: global.ValidFrom, ValidUntil: global.ValidUntil}
	assert.True(t, scoped.AppliesTo(h1, now))
	assert.False(t, scoped.AppliesTo(h2, now))
	assert.False(t, scoped.AppliesTo(h1, now.AddDate(0, 0, 5)))
}

func TestFeeQuoteWith(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	hospitalID := uuid.New()
	fee := &Fee{
		HospitalID: hospitalID,
		MinPrice:   decimal.RequireFromString("1999.99"),
		MaxPrice:   decimal.RequireFromString("3500.00"),
		Currency:   "USD",
	}

	t.Run("without promotion", func(t *testing.T) {
		q := fee.QuoteWith(nil, now)
		assert.True(t, q.DiscountedMinPrice.Equal(fee.MinPrice))
		assert.True(t, q.DiscountedMaxPrice.Equal(fee.MaxPrice))
		assert.True(t, q.DiscountPercent.IsZero())
		assert.Nil(t, q.PromotionID)
	})

	t.Run("active promotion", func(t *testing.T) {
		promo := &Promotion{
			ID:              uuid.New(),
			DiscountPercent: decimal.RequireFromString("15"),
			ValidFrom:       now.AddDate(0, 0, -1),
			ValidUntil:      now.AddDate(0, 0, 1),
		}
		q := fee.QuoteWith(promo, now)
		// 1999.99 * 0.85 = 1699.9915
		assert.Equal(t, "1699.99", q.DiscountedMinPrice.StringFixed(2))
		assert.Equal(t, "2975.00", q.DiscountedMaxPrice.StringFixed(2))
		assert.Equal(t, "USD", q.Currency)
		if assert.NotNil(t, q.PromotionID) {
			assert.Equal(t, promo.ID, *q.PromotionID)
		}
	})

	t.Run("promotion for another hospital", func(t *testing.T) {
		other := uuid.New()
		promo := &Promotion{
			HospitalID:      &other,
			DiscountPercent: decimal.NewFromInt(50),
			ValidFrom:       now.AddDate(0, 0, -1),
			ValidUntil:      now.AddDate(0, 0, 1),
		}
		q := fee.QuoteWith(promo, now)
		assert.True(t, q.DiscountedMinPrice.Equal(fee.MinPrice))
		assert.Nil(t, q.PromotionID)
	})

	t.Run("banker's rounding", func(t *testing.T) {
		f := &Fee{HospitalID: hospitalID, MinPrice: decimal.RequireFromString("0.05"), MaxPrice: decimal.RequireFromString("0.15")}
		promo := &Promotion{
			DiscountPercent: decimal.NewFromInt(50),
			ValidFrom:       now.AddDate(0, 0, -1),
			ValidUntil:      now.AddDate(0, 0, 1),
		}
		q := f.QuoteWith(promo, now)
		// 0.025 -> 0.02, 0.075 -> 0.08
		assert.Equal(t, "0.02", q.DiscountedMinPrice.StringFixed(2))
		assert.Equal(t, "0.08", q.DiscountedMaxPrice.StringFixed(2))
	})
}
