package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/kruthikhak/Care-Connect/internal/adapters/memory"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeed(t *testing.T) {
	seed, err := memory.LoadSeed()
	require.NoError(t, err)
	require.Len(t, seed.Hospitals, 15)
	require.NotEmpty(t, seed.Doctors)

	ids := make(map[string]bool)
	for _, h := range seed.Hospitals {
		assert.False(t, ids[h.ID], "duplicate id %s", h.ID)
		ids[h.ID] = true
		assert.NoError(t, h.Location.Coordinate().Validate(), h.ID)
		assert.NotEmpty(t, h.Specialties, h.ID)
	}
	for _, d := range seed.Doctors {
		assert.True(t, ids[d.HospitalID], "doctor %s points at unknown hospital", d.ID)
	}
}

func TestNewSeededStores(t *testing.T) {
	ctx := context.Background()
	stores, err := memory.NewSeededStores(ctx)
	require.NoError(t, err)

	hospitals, err := stores.Hospitals.List(ctx, repositories.HospitalFilter{})
	require.NoError(t, err)
	require.Len(t, hospitals, 15)
	assert.Equal(t, "hosp-01", hospitals[0].ID)
	assert.Equal(t, "hosp-15", hospitals[14].ID)

	paged, err := stores.Hospitals.List(ctx, repositories.HospitalFilter{Limit: 2, Offset: 13})
	require.NoError(t, err)
	require.Len(t, paged, 2)
	assert.Equal(t, "hosp-14", paged[0].ID)

	centers, err := stores.Hospitals.List(ctx, repositories.HospitalFilter{FacilityType: "MEDICAL_CENTER"})
	require.NoError(t, err)
	for _, h := range centers {
		assert.Equal(t, "medical_center", h.FacilityType)
	}
	assert.NotEmpty(t, centers)
}

func TestHospitalStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := memory.NewHospitalStore()
	require.NoError(t, store.Create(ctx, &entities.Hospital{ID: "h1", Specialties: []string{"Cardiology"}}))

	got, err := store.GetByID(ctx, "h1")
	require.NoError(t, err)
	got.Specialties[0] = "Changed"
	got.Name = "Changed"

	again, err := store.GetByID(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "Cardiology", again.Specialties[0])
	assert.Empty(t, again.Name)

	err = store.Create(ctx, &entities.Hospital{ID: "h1"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	err = store.Update(ctx, &entities.Hospital{ID: "missing"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestUserStore_EmailIsUniqueAndCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	store := memory.NewUserStore()

	require.NoError(t, store.Create(ctx, &entities.User{ID: "u1", Email: "Jane@Example.com"}))
	err := store.Create(ctx, &entities.User{ID: "u2", Email: "jane@example.com "})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	user, err := store.GetByEmail(ctx, "JANE@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	user.Email = "other@example.com"
	user.Name = "Jane"
	require.NoError(t, store.Update(ctx, user))
	updated, err := store.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", updated.Email)
	assert.Equal(t, "Jane", updated.Name)
}

func TestAppointmentStore_SlotConflicts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAppointmentStore()

	first := &entities.Appointment{ID: "a1", UserID: "u1", HospitalID: "h1", Date: "2026-11-02", Time: "10:00", Status: entities.AppointmentStatusPending}
	require.NoError(t, store.Create(ctx, first))

	clash := &entities.Appointment{ID: "a2", UserID: "u2", HospitalID: "h1", Date: "2026-11-02", Time: "10:00", Status: entities.AppointmentStatusPending}
	err := store.Create(ctx, clash)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	first.Status = entities.AppointmentStatusCancelled
	require.NoError(t, store.Update(ctx, first))
	require.NoError(t, store.Create(ctx, clash))

	booked, err := store.ListByHospitalAndDate(ctx, "h1", "2026-11-02")
	require.NoError(t, err)
	require.Len(t, booked, 1)
	assert.Equal(t, "a2", booked[0].ID)
}

func TestAppointmentStore_ListByUserOrdersByDateThenTime(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAppointmentStore()

	for _, a := range []*entities.Appointment{
		{ID: "c", UserID: "u1", HospitalID: "h1", Date: "2026-11-03", Time: "09:00"},
		{ID: "b", UserID: "u1", HospitalID: "h2", Date: "2026-11-02", Time: "14:30"},
		{ID: "a", UserID: "u1", HospitalID: "h3", Date: "2026-11-02", Time: "09:30"},
		{ID: "x", UserID: "u2", HospitalID: "h1", Date: "2026-11-01", Time: "09:00"},
	} {
		require.NoError(t, store.Create(ctx, a))
	}

	list, err := store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestReviewStore_NewestFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.NewReviewStore()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Create(ctx, &entities.Review{ID: "r1", HospitalID: "h1", Rating: 3, CreatedAt: base}))
	require.NoError(t, store.Create(ctx, &entities.Review{ID: "r2", HospitalID: "h1", Rating: 5, CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, store.Create(ctx, &entities.Review{ID: "r3", HospitalID: "h2", Rating: 4, CreatedAt: base}))

	reviews, err := store.ListByHospital(ctx, "h1", 0, 0)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "r2", reviews[0].ID)

	limited, err := store.ListByHospital(ctx, "h1", 1, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "r1", limited[0].ID)
}
