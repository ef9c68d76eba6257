package memory

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
)

var (
	//go:embed data/hospitals.json
	hospitalsJSON []byte

	//go:embed data/doctors.json
	doctorsJSON []byte
)

// Seed is the demo directory shipped with the binary
type Seed struct {
	Hospitals []*entities.Hospital
	Doctors   []*entities.Doctor
}

// LoadSeed decodes the embedded demo data.
func LoadSeed() (*Seed, error) {
	seed := &Seed{}
	if err := json.Unmarshal(hospitalsJSON, &seed.Hospitals); err != nil {
		return nil, fmt.Errorf("decode hospitals seed: %w", err)
	}
	if err := json.Unmarshal(doctorsJSON, &seed.Doctors); err != nil {
		return nil, fmt.Errorf("decode doctors seed: %w", err)
	}
	return seed, nil
}

// Apply writes the seed through the given repositories.
func (s *Seed) Apply(ctx context.Context, hospitals repositories.HospitalRepository, doctors repositories.DoctorRepository) error {
	for _, hospital := range s.Hospitals {
		if err := hospitals.Create(ctx, cloneHospital(hospital)); err != nil {
			return fmt.Errorf("seed hospital %s: %w", hospital.ID, err)
		}
	}
	for _, doctor := range s.Doctors {
		if err := doctors.Create(ctx, cloneDoctor(doctor)); err != nil {
			return fmt.Errorf("seed doctor %s: %w", doctor.ID, err)
		}
	}
	return nil
}
