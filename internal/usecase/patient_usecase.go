package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinic-backoffice/internal/converter"
	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
	"clinic-backoffice/internal/domain/repository"
	"clinic-backoffice/internal/events"
	"clinic-backoffice/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound   = errors.New("patient not found")
	ErrPatientHasSales   = errors.New("patient has recorded sales")
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
)

type PatientUsecase interface {
	CreatePatient(ctx context.Context, actorID int64, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	GetAllPatients(ctx context.Context, search string, page, limit int) ([]dto.PatientResponse, int64, error)
	GetPatient(ctx context.Context, id int64) (*dto.PatientResponse, error)
	UpdatePatient(ctx context.Context, actorID, id int64, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, actorID, id int64) error
}

type patientUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	patientRepo  repository.PatientRepository
	auditService service.AuditService
	publisher    events.Publisher
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
	publisher events.Publisher,
) PatientUsecase {
	return &patientUsecase{
		db:           db,
		log:          log,
		patientRepo:  patientRepo,
		auditService: auditService,
		publisher:    publisher,
	}
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	return &t, nil
}

func (u *patientUsecase) CreatePatient(ctx context.Context, actorID int64, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	dob, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	patient := &entity.Patient{
		FullName:    strings.TrimSpace(req.FullName),
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: dob,
		Gender:      req.Gender,
		Address:     req.Address,
		Notes:       req.Notes,
	}

	if err := u.patientRepo.Create(ctx, u.db, patient); err != nil {
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	resp := converter.PatientToResponse(patient)
	u.auditService.LogCreate(ctx, &actorID, entity.AuditActionPatientCreate, "patient", idString(patient.ID), resp)
	u.publisher.Publish(events.PatientCreated, resp)
	return resp, nil
}

func (u *patientUsecase) GetAllPatients(ctx context.Context, search string, page, limit int) ([]dto.PatientResponse, int64, error) {
	_, limit, offset := paginate(page, limit)

	patients, total, err := u.patientRepo.FindAll(ctx, u.db, strings.TrimSpace(search), limit, offset)
	if err != nil {
		u.log.Warnf("Failed to find patients: %+v", err)
		return nil, 0, err
	}
	return converter.PatientsToResponses(patients), total, nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, id int64) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) UpdatePatient(ctx context.Context, actorID, id int64, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	dob, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	oldValue := converter.PatientToResponse(patient)

	patient.FullName = strings.TrimSpace(req.FullName)
	patient.PhoneNumber = req.PhoneNumber
	patient.DateOfBirth = dob
	patient.Gender = req.Gender
	patient.Address = req.Address
	patient.Notes = req.Notes

	if err := u.patientRepo.Update(ctx, tx, patient); err != nil {
		u.log.Warnf("Failed to update patient: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	resp := converter.PatientToResponse(patient)
	u.auditService.LogUpdate(ctx, &actorID, entity.AuditActionPatientUpdate, "patient", idString(id), oldValue, resp)
	u.publisher.Publish(events.PatientUpdated, resp)
	return resp, nil
}

func (u *patientUsecase) DeletePatient(ctx context.Context, actorID, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}

	if err := u.patientRepo.Delete(ctx, tx, id); err != nil {
		if isForeignKeyError(err, "patient") {
			return ErrPatientHasSales
		}
		u.log.Warnf("Failed to delete patient: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.auditService.LogDelete(ctx, &actorID, entity.AuditActionPatientDelete, "patient", idString(id), converter.PatientToResponse(patient))
	u.publisher.Publish(events.PatientDeleted, map[string]int64{"id": id})
	return nil
}
