package converter

import (
	"medical-tourism-concierge/internal/delivery/dto"
	"medical-tourism-concierge/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func ReservationToResponse(reservation *entity.Reservation) *dto.ReservationResponse {
	if reservation == nil {
		return nil
	}

	resp := &dto.ReservationResponse{
		ID:              reservation.ID,
		Hospital:        HospitalToSummary(reservation.Hospital),
		Interpreter:     InterpreterToSummary(reservation.Interpreter),
		Treatment:       reservation.Treatment,
		Department:      reservation.Department,
		ReservationDate: reservation.ReservationDate.Format(dateLayout),
		ReservationTime: reservation.ReservationTime,
		Status:          string(reservation.Status),
		Notes:           reservation.Notes,
		CancelReason:    reservation.CancelReason,
		Version:         reservation.Version,
		CreatedAt:       reservation.CreatedAt,
		UpdatedAt:       reservation.UpdatedAt,
	}
	if reservation.Patient != nil {
		resp.Patient = &dto.PatientSummary{
			ID:       reservation.Patient.ID,
			FullName: reservation.Patient.FullName,
			Email:    reservation.Patient.Email,
		}
	}
	return resp
}

func ReservationsToResponses(reservations []entity.Reservation) []dto.ReservationResponse {
	responses := make([]dto.ReservationResponse, len(reservations))
	for i := range reservations {
		responses[i] = *ReservationToResponse(&reservations[i])
	}
	return responses
}
