package converter

import (
	"medical-tourism-concierge/internal/delivery/dto"
	"medical-tourism-concierge/internal/domain/entity"
)

func FeeToResponse(fee *entity.Fee) *dto.FeeResponse {
	if fee == nil {
		return nil
	}

	return &dto.FeeResponse{
		ID:         fee.ID,
		HospitalID: fee.HospitalID,
		Hospital:   HospitalToSummary(fee.Hospital),
		Department: fee.Department,
		Treatment:  fee.Treatment,
		MinPrice:   fee.MinPrice,
		MaxPrice:   fee.MaxPrice,
		Currency:   fee.Currency,
		Duration:   fee.Duration,
		Version:    fee.Version,
		CreatedAt:  fee.CreatedAt,
		UpdatedAt:  fee.UpdatedAt,
	}
}

func FeesToResponses(fees []entity.Fee) []dto.FeeResponse {
	responses := make([]dto.FeeResponse, len(fees))
	for i := range fees {
		responses[i] = *FeeToResponse(&fees[i])
	}
	return responses
}

func QuoteToResponse(fee *entity.Fee, quote entity.Quote) *dto.QuoteResponse {
	return &dto.QuoteResponse{
		FeeID:              fee.ID,
		Treatment:          fee.Treatment,
		Currency:           quote.Currency,
		MinPrice:           quote.MinPrice,
		MaxPrice:           quote.MaxPrice,
		DiscountPercent:    quote.DiscountPercent,
		DiscountedMinPrice: quote.DiscountedMinPrice,
		DiscountedMaxPrice: quote.DiscountedMaxPrice,
		PromotionID:        quote.PromotionID,
	}
}
