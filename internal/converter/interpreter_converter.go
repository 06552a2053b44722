package converter

import (
	"medical-tourism-concierge/internal/delivery/dto"
	"medical-tourism-concierge/internal/domain/entity"
)

// InterpreterToResponse converts an Interpreter entity. The user's name and
// email come from the preloaded User relation.
func InterpreterToResponse(interpreter *entity.Interpreter) *dto.InterpreterResponse {
	if interpreter == nil {
		return nil
	}

	resp := &dto.InterpreterResponse{
		ID:              interpreter.ID,
		UserID:          interpreter.UserID,
		Specializations: []string(interpreter.Specializations),
		Languages:       []string(interpreter.Languages),
		ExperienceYears: interpreter.ExperienceYears,
		Bio:             interpreter.Bio,
		Status:          string(interpreter.Status),
		Version:         interpreter.Version,
		CreatedAt:       interpreter.CreatedAt,
	}
	if interpreter.User != nil {
		resp.FullName = interpreter.User.FullName
		resp.Email = interpreter.User.Email
	}
	return resp
}

func InterpretersToResponses(interpreters []entity.Interpreter) []dto.InterpreterResponse {
	responses := make([]dto.InterpreterResponse, len(interpreters))
	for i := range interpreters {
		responses[i] = *InterpreterToResponse(&interpreters[i])
	}
	return responses
}

func InterpreterToSummary(interpreter *entity.Interpreter) *dto.InterpreterSummary {
	if interpreter == nil {
		return nil
	}
	summary := &dto.InterpreterSummary{ID: interpreter.ID}
	if interpreter.User != nil {
		summary.FullName = interpreter.User.FullName
	}
	return summary
}
