package converter

import (
	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	resp := &dto.PatientResponse{
		ID:          patient.ID,
		FullName:    patient.FullName,
		PhoneNumber: patient.PhoneNumber,
		Gender:      patient.Gender,
		Address:     patient.Address,
		Notes:       patient.Notes,
		CreatedAt:   patient.CreatedAt,
		UpdatedAt:   patient.UpdatedAt,
	}
	if patient.DateOfBirth != nil {
		resp.DateOfBirth = patient.DateOfBirth.Format(dateLayout)
	}
	return resp
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}
