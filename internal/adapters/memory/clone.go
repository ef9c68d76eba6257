package memory

import (
	"slices"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
)

// Stores hand out copies so callers never alias stored state.

func cloneHospital(h *entities.Hospital) *entities.Hospital {
	out := *h
	out.Specialties = slices.Clone(h.Specialties)
	out.Services = slices.Clone(h.Services)
	return &out
}

func cloneDoctor(d *entities.Doctor) *entities.Doctor {
	out := *d
	out.Education = slices.Clone(d.Education)
	out.Languages = slices.Clone(d.Languages)
	if d.Availability != nil {
		out.Availability = make(map[string][]string, len(d.Availability))
		for day, slots := range d.Availability {
			out.Availability[day] = slices.Clone(slots)
		}
	}
	return &out
}

func cloneUser(u *entities.User) *entities.User {
	out := *u
	out.Profile.Allergies = slices.Clone(u.Profile.Allergies)
	out.Profile.Conditions = slices.Clone(u.Profile.Conditions)
	out.Profile.Medications = slices.Clone(u.Profile.Medications)
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		out.LastLoginAt = &t
	}
	return &out
}

func cloneAppointment(a *entities.Appointment) *entities.Appointment {
	out := *a
	return &out
}

func cloneReview(r *entities.Review) *entities.Review {
	out := *r
	return &out
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
