package converter

import (
	"medical-tourism-concierge/internal/delivery/dto"
	"medical-tourism-concierge/internal/domain/entity"
)

// HospitalToResponse converts a Hospital entity, including any loaded fees.
func HospitalToResponse(hospital *entity.Hospital) *dto.HospitalResponse {
	if hospital == nil {
		return nil
	}

	resp := &dto.HospitalResponse{
		ID:          hospital.ID,
		Name:        hospital.Name,
		Specialty:   hospital.Specialty,
		Address:     hospital.Address,
		City:        hospital.City,
		Country:     hospital.Country,
		Description: hospital.Description,
		Rating:      hospital.Rating,
		Status:      string(hospital.Status),
		Version:     hospital.Version,
		CreatedAt:   hospital.CreatedAt,
		UpdatedAt:   hospital.UpdatedAt,
	}
	if len(hospital.Fees) > 0 {
		resp.Fees = FeesToResponses(hospital.Fees)
	}
	return resp
}

func HospitalsToResponses(hospitals []entity.Hospital) []dto.HospitalResponse {
	responses := make([]dto.HospitalResponse, len(hospitals))
	for i := range hospitals {
		responses[i] = *HospitalToResponse(&hospitals[i])
	}
	return responses
}

func HospitalToSummary(hospital *entity.Hospital) *dto.HospitalSummary {
	if hospital == nil {
		return nil
	}
	return &dto.HospitalSummary{
		ID:   hospital.ID,
		Name: hospital.Name,
		City: hospital.City,
	}
}
