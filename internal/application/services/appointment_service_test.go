package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/kruthikhak/Care-Connect/internal/adapters/cache"
	"github.com/kruthikhak/Care-Connect/internal/adapters/events"
	"github.com/kruthikhak/Care-Connect/internal/application/services"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingNow = time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newAppointmentService(t *testing.T) (*services.AppointmentService, *cache.MemoryAdapter) {
	t.Helper()
	stores := seededStores(t)
	memCache := cache.NewMemoryAdapter()
	svc := services.NewAppointmentService(stores.Appointments, stores.Hospitals, memCache, nil).WithClock(fixedClock(bookingNow))
	return svc, memCache
}

func booking(date, clock string) services.BookAppointmentRequest {
	return services.BookAppointmentRequest{HospitalID: "hosp-01", Date: date, Time: clock, Reason: "Annual checkup"}
}

func TestBookAppointment_Success(t *testing.T) {
	svc, _ := newAppointmentService(t)

	appt, err := svc.BookAppointment(context.Background(), "user-1", booking("2026-03-02", "09:00"))
	require.NoError(t, err)

	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, "user-1", appt.UserID)
	assert.Equal(t, entities.AppointmentStatusPending, appt.Status)
	assert.Equal(t, bookingNow, appt.CreatedAt)
}

func TestBookAppointment_Validation(t *testing.T) {
	svc, _ := newAppointmentService(t)

	tests := []struct {
		name string
		req  services.BookAppointmentRequest
	}{
		{"missing hospital", services.BookAppointmentRequest{Date: "2026-03-03", Time: "10:00", Reason: "x"}},
		{"missing reason", services.BookAppointmentRequest{HospitalID: "hosp-01", Date: "2026-03-03", Time: "10:00"}},
		{"bad date", booking("03/03/2026", "10:00")},
		{"bad time", booking("2026-03-03", "10am")},
		{"before opening", booking("2026-03-03", "08:30")},
		{"after closing", booking("2026-03-03", "17:00")},
		{"off grid", booking("2026-03-03", "10:15")},
		{"in the past", booking("2026-03-01", "10:00")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.BookAppointment(context.Background(), "user-1", tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation), err.Error())
		})
	}
}

func TestBookAppointment_UnknownHospital(t *testing.T) {
	svc, _ := newAppointmentService(t)

	req := booking("2026-03-03", "10:00")
	req.HospitalID = "hosp-404"
	_, err := svc.BookAppointment(context.Background(), "user-1", req)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestBookAppointment_Conflict(t *testing.T) {
	svc, _ := newAppointmentService(t)
	ctx := context.Background()

	_, err := svc.BookAppointment(ctx, "user-1", booking("2026-03-03", "10:00"))
	require.NoError(t, err)

	_, err = svc.BookAppointment(ctx, "user-2", booking("2026-03-03", "10:00"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	_, err = svc.BookAppointment(ctx, "user-2", booking("2026-03-03", "10:30"))
	assert.NoError(t, err)
}

func TestBookAppointment_UnpaddedHourIsSameSlot(t *testing.T) {
	svc, _ := newAppointmentService(t)
	ctx := context.Background()

	first, err := svc.BookAppointment(ctx, "user-1", booking("2026-03-03", "09:30"))
	require.NoError(t, err)
	assert.Equal(t, "09:30", first.Time)

	_, err = svc.BookAppointment(ctx, "user-2", booking("2026-03-03", "9:30"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	second, err := svc.BookAppointment(ctx, "user-2", booking("2026-03-03", "9:00"))
	require.NoError(t, err)
	assert.Equal(t, "09:00", second.Time)

	clock := "9:30"
	_, err = svc.UpdateAppointment(ctx, "user-2", second.ID, services.UpdateAppointmentRequest{Time: &clock})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	slots, err := svc.Availability(ctx, "hosp-01", "2026-03-03")
	require.NoError(t, err)
	taken := 0
	for _, slot := range slots {
		if !slot.Available {
			taken++
		}
	}
	assert.Equal(t, 2, taken)
}

func TestUpdateAppointment(t *testing.T) {
	svc, _ := newAppointmentService(t)
	ctx := context.Background()

	first, err := svc.BookAppointment(ctx, "user-1", booking("2026-03-03", "10:00"))
	require.NoError(t, err)
	_, err = svc.BookAppointment(ctx, "user-2", booking("2026-03-03", "11:00"))
	require.NoError(t, err)

	t.Run("other users cannot see it", func(t *testing.T) {
		notes := "hi"
		_, err := svc.UpdateAppointment(ctx, "user-2", first.ID, services.UpdateAppointmentRequest{Notes: &notes})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})

	t.Run("rescheduling onto a booked slot conflicts", func(t *testing.T) {
		clock := "11:00"
		_, err := svc.UpdateAppointment(ctx, "user-1", first.ID, services.UpdateAppointmentRequest{Time: &clock})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})

	t.Run("invalid status", func(t *testing.T) {
		status := entities.AppointmentStatus("lost")
		_, err := svc.UpdateAppointment(ctx, "user-1", first.ID, services.UpdateAppointmentRequest{Status: &status})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("reschedule and annotate", func(t *testing.T) {
		date, clock, notes := "2026-03-04", "14:30", "bring referral"
		updated, err := svc.UpdateAppointment(ctx, "user-1", first.ID, services.UpdateAppointmentRequest{Date: &date, Time: &clock, Notes: &notes})
		require.NoError(t, err)
		assert.Equal(t, "2026-03-04", updated.Date)
		assert.Equal(t, "14:30", updated.Time)
		assert.Equal(t, "bring referral", updated.Notes)
	})

	t.Run("cancelling frees the slot", func(t *testing.T) {
		status := entities.AppointmentStatusCancelled
		_, err := svc.UpdateAppointment(ctx, "user-1", first.ID, services.UpdateAppointmentRequest{Status: &status})
		require.NoError(t, err)

		_, err = svc.BookAppointment(ctx, "user-3", booking("2026-03-04", "14:30"))
		assert.NoError(t, err)
	})
}

func TestListForUser_OrderedByDateThenTime(t *testing.T) {
	svc, _ := newAppointmentService(t)
	ctx := context.Background()

	for _, b := range []services.BookAppointmentRequest{
		booking("2026-03-05", "09:00"),
		booking("2026-03-03", "15:00"),
		booking("2026-03-03", "09:30"),
	} {
		_, err := svc.BookAppointment(ctx, "user-1", b)
		require.NoError(t, err)
	}
	_, err := svc.BookAppointment(ctx, "user-2", booking("2026-03-03", "12:00"))
	require.NoError(t, err)

	list, err := svc.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2026-03-03 09:30", list[0].Date+" "+list[0].Time)
	assert.Equal(t, "2026-03-03 15:00", list[1].Date+" "+list[1].Time)
	assert.Equal(t, "2026-03-05 09:00", list[2].Date+" "+list[2].Time)
}

func TestAvailability(t *testing.T) {
	svc, memCache := newAppointmentService(t)
	ctx := context.Background()

	_, err := svc.BookAppointment(ctx, "user-1", booking("2026-03-03", "10:00"))
	require.NoError(t, err)

	slots, err := svc.Availability(ctx, "hosp-01", "2026-03-03")
	require.NoError(t, err)
	require.Len(t, slots, 16)
	assert.Equal(t, "09:00", slots[0].Time)
	assert.Equal(t, "16:30", slots[15].Time)
	for _, s := range slots {
		assert.Equal(t, s.Time != "10:00", s.Available, s.Time)
	}

	exists, err := memCache.Exists(ctx, providers.AvailabilityCacheKey("hosp-01", "2026-03-03"))
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = svc.Availability(ctx, "hosp-01", "tomorrow")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestBookAppointment_PublishesEvent(t *testing.T) {
	stores := seededStores(t)
	bus := events.NewLocalEventBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := bus.Subscribe(ctx, providers.EventChannelDirectoryUpdates)
	require.NoError(t, err)

	svc := services.NewAppointmentService(stores.Appointments, stores.Hospitals, nil, bus).WithClock(fixedClock(bookingNow))
	_, err = svc.BookAppointment(ctx, "user-1", booking("2026-03-03", "10:00"))
	require.NoError(t, err)

	select {
	case event := <-ch:
		assert.Equal(t, entities.DirectoryEventAppointmentBooked, event.Type)
		assert.Equal(t, "hosp-01", event.HospitalID)
		assert.Equal(t, "2026-03-03", event.Date)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}
