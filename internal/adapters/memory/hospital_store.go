package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
)

// HospitalStore is an in-process HospitalRepository
type HospitalStore struct {
	mu        sync.RWMutex
	hospitals map[string]*entities.Hospital
}

// NewHospitalStore creates an empty store
func NewHospitalStore() *HospitalStore {
	return &HospitalStore{hospitals: make(map[string]*entities.Hospital)}
}

// Create creates a new hospital
func (s *HospitalStore) Create(_ context.Context, hospital *entities.Hospital) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hospitals[hospital.ID]; ok {
		return apperrors.NewConflictError(fmt.Sprintf("hospital with id %s already exists", hospital.ID))
	}
	now := time.Now().UTC()
	if hospital.CreatedAt.IsZero() {
		hospital.CreatedAt = now
	}
	hospital.UpdatedAt = now
	s.hospitals[hospital.ID] = cloneHospital(hospital)
	return nil
}

// GetByID retrieves a hospital by ID
func (s *HospitalStore) GetByID(_ context.Context, id string) (*entities.Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hospital, ok := s.hospitals[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("hospital with id %s not found", id))
	}
	return cloneHospital(hospital), nil
}

// Update replaces a stored hospital
func (s *HospitalStore) Update(_ context.Context, hospital *entities.Hospital) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.hospitals[hospital.ID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("hospital with id %s not found", hospital.ID))
	}
	hospital.CreatedAt = existing.CreatedAt
	hospital.UpdatedAt = time.Now().UTC()
	s.hospitals[hospital.ID] = cloneHospital(hospital)
	return nil
}

// List retrieves hospitals ordered by ID
func (s *HospitalStore) List(_ context.Context, filter repositories.HospitalFilter) ([]*entities.Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.Hospital, 0, len(s.hospitals))
	for _, hospital := range s.hospitals {
		if filter.FacilityType != "" && !strings.EqualFold(hospital.FacilityType, filter.FacilityType) {
			continue
		}
		if filter.ActiveOnly && !hospital.IsActive {
			continue
		}
		out = append(out, cloneHospital(hospital))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, filter.Limit, filter.Offset), nil
}

// DoctorStore is an in-process DoctorRepository
type DoctorStore struct {
	mu      sync.RWMutex
	doctors map[string]*entities.Doctor
}

// NewDoctorStore creates an empty store
func NewDoctorStore() *DoctorStore {
	return &DoctorStore{doctors: make(map[string]*entities.Doctor)}
}

// Create creates a new doctor
func (s *DoctorStore) Create(_ context.Context, doctor *entities.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.doctors[doctor.ID]; ok {
		return apperrors.NewConflictError(fmt.Sprintf("doctor with id %s already exists", doctor.ID))
	}
	now := time.Now().UTC()
	if doctor.CreatedAt.IsZero() {
		doctor.CreatedAt = now
	}
	doctor.UpdatedAt = now
	s.doctors[doctor.ID] = cloneDoctor(doctor)
	return nil
}

// GetByID retrieves a doctor by ID
func (s *DoctorStore) GetByID(_ context.Context, id string) (*entities.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doctor, ok := s.doctors[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("doctor with id %s not found", id))
	}
	return cloneDoctor(doctor), nil
}

// List retrieves doctors ordered by ID
func (s *DoctorStore) List(_ context.Context, filter repositories.DoctorFilter) ([]*entities.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.Doctor, 0, len(s.doctors))
	for _, doctor := range s.doctors {
		if filter.HospitalID != "" && doctor.HospitalID != filter.HospitalID {
			continue
		}
		out = append(out, cloneDoctor(doctor))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, filter.Limit, filter.Offset), nil
}
