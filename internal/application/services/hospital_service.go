package services

import (
	"context"
	"slices"
	"strings"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
)

// HospitalService serves the browsing side of the directory
type HospitalService struct {
	hospitals repositories.HospitalRepository
	doctors   repositories.DoctorRepository
}

// NewHospitalService creates a new hospital service
func NewHospitalService(hospitals repositories.HospitalRepository, doctors repositories.DoctorRepository) *HospitalService {
	return &HospitalService{hospitals: hospitals, doctors: doctors}
}

// List returns active hospitals ordered by ID
func (s *HospitalService) List(ctx context.Context, facilityType string, limit, offset int) ([]*entities.Hospital, error) {
	return s.hospitals.List(ctx, repositories.HospitalFilter{
		FacilityType: facilityType,
		ActiveOnly:   true,
		Limit:        limit,
		Offset:       offset,
	})
}

// Get returns one hospital
func (s *HospitalService) Get(ctx context.Context, id string) (*entities.Hospital, error) {
	return s.hospitals.GetByID(ctx, id)
}

// GetDoctor returns one doctor
func (s *HospitalService) GetDoctor(ctx context.Context, id string) (*entities.Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

// Doctors returns the doctors affiliated with a hospital
func (s *HospitalService) Doctors(ctx context.Context, hospitalID string) ([]*entities.Doctor, error) {
	if _, err := s.hospitals.GetByID(ctx, hospitalID); err != nil {
		return nil, err
	}
	return s.doctors.List(ctx, repositories.DoctorFilter{HospitalID: hospitalID})
}

// Specialties returns every specialty offered by an active hospital, sorted
// and without duplicates
func (s *HospitalService) Specialties(ctx context.Context) ([]string, error) {
	all, err := s.hospitals.List(ctx, repositories.HospitalFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	var out []string
	for _, h := range all {
		out = append(out, h.Specialties...)
	}
	return sortedUnique(out), nil
}

// Types returns the facility types of active hospitals, sorted
func (s *HospitalService) Types(ctx context.Context) ([]string, error) {
	all, err := s.hospitals.List(ctx, repositories.HospitalFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(all))
	for _, h := range all {
		if h.FacilityType != "" {
			out = append(out, h.FacilityType)
		}
	}
	return sortedUnique(out), nil
}

// sortedUnique drops case-insensitive duplicates, keeping the first spelling.
func sortedUnique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return out
}
