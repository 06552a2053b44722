package converter

import (
	"time"

	"medical-tourism-concierge/internal/delivery/dto"
	"medical-tourism-concierge/internal/domain/entity"
)

// PromotionToResponse converts a Promotion with its status computed at now.
func PromotionToResponse(promotion *entity.Promotion, now time.Time) *dto.PromotionResponse {
	if promotion == nil {
		return nil
	}

	return &dto.PromotionResponse{
		ID:              promotion.ID,
		HospitalID:      promotion.HospitalID,
		Title:           promotion.Title,
		Description:     promotion.Description,
		DiscountPercent: promotion.DiscountPercent,
		ValidFrom:       promotion.ValidFrom,
		ValidUntil:      promotion.ValidUntil,
		Status:          string(promotion.StatusAt(now)),
		Version:         promotion.Version,
		CreatedAt:       promotion.CreatedAt,
		UpdatedAt:       promotion.UpdatedAt,
	}
}

func PromotionsToResponses(promotions []entity.Promotion, now time.Time) []dto.PromotionResponse {
	responses := make([]dto.PromotionResponse, len(promotions))
	for i := range promotions {
		responses[i] = *PromotionToResponse(&promotions[i], now)
	}
	return responses
}
