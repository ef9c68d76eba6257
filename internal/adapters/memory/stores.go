package memory

import (
	"context"

	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
)

var (
	_ repositories.HospitalRepository    = (*HospitalStore)(nil)
	_ repositories.DoctorRepository      = (*DoctorStore)(nil)
	_ repositories.UserRepository        = (*UserStore)(nil)
	_ repositories.ReviewRepository      = (*ReviewStore)(nil)
	_ repositories.AppointmentRepository = (*AppointmentStore)(nil)
	_ repositories.FeedbackRepository    = (*FeedbackStore)(nil)
)

// Stores bundles every in-process repository
type Stores struct {
	Hospitals    *HospitalStore
	Doctors      *DoctorStore
	Users        *UserStore
	Reviews      *ReviewStore
	Appointments *AppointmentStore
	Feedback     *FeedbackStore
}

// NewSeededStores returns empty stores with the demo directory loaded.
func NewSeededStores(ctx context.Context) (*Stores, error) {
	stores := &Stores{
		Hospitals:    NewHospitalStore(),
		Doctors:      NewDoctorStore(),
		Users:        NewUserStore(),
		Reviews:      NewReviewStore(),
		Appointments: NewAppointmentStore(),
		Feedback:     NewFeedbackStore(),
	}

	seed, err := LoadSeed()
	if err != nil {
		return nil, err
	}
	if err := seed.Apply(ctx, stores.Hospitals, stores.Doctors); err != nil {
		return nil, err
	}
	return stores, nil
}
