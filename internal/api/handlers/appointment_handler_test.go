package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kruthikhak/Care-Connect/internal/adapters/cache"
	"github.com/kruthikhak/Care-Connect/internal/api/handlers"
	"github.com/kruthikhak/Care-Connect/internal/application/services"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAppointmentRouter(t *testing.T) (*authFixture, http.Handler) {
	t.Helper()
	f := newAuthFixture(t)
	now := func() time.Time { return time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC) }
	svc := services.NewAppointmentService(f.stores.Appointments, f.stores.Hospitals, cache.NewMemoryAdapter(), nil).WithClock(now)
	h := handlers.NewAppointmentHandler(svc)

	r := chi.NewRouter()
	r.Get("/api/hospitals/{id}/availability", h.GetAvailability)
	r.Group(func(r chi.Router) {
		r.Use(f.session.RequireAuth)
		r.Get("/api/appointments", h.ListAppointments)
		r.Post("/api/appointments", h.BookAppointment)
		r.Patch("/api/appointments/{id}", h.UpdateAppointment)
	})
	return f, r
}

func TestAppointmentHandler_RequiresSession(t *testing.T) {
	_, router := newAppointmentRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/appointments", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/appointments", `{"hospital_id":"hosp-01"}`, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAppointmentHandler_BookListAndCancel(t *testing.T) {
	f, router := newAppointmentRouter(t)
	token := f.register(t, "patient@example.com")

	booking := `{"hospital_id":"hosp-01","date":"2026-03-10","time":"10:30","reason":"Annual checkup"}`
	w := doJSON(t, router, http.MethodPost, "/api/appointments", booking, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created entities.Appointment
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, entities.AppointmentStatusPending, created.Status)

	w = doJSON(t, router, http.MethodPost, "/api/appointments", booking, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/appointments", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	assert.Equal(t, 1, list.Count)

	w = doJSON(t, router, http.MethodPatch, "/api/appointments/"+created.ID, `{"status":"cancelled"}`, token)
	require.Equal(t, http.StatusOK, w.Code)
	var updated entities.Appointment
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	assert.Equal(t, entities.AppointmentStatusCancelled, updated.Status)
}

func TestAppointmentHandler_OtherUsersAppointmentIsHidden(t *testing.T) {
	f, router := newAppointmentRouter(t)
	owner := f.register(t, "owner@example.com")
	other := f.register(t, "other@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/appointments",
		`{"hospital_id":"hosp-02","date":"2026-03-11","time":"09:00","reason":"Follow-up"}`, owner)
	require.Equal(t, http.StatusCreated, w.Code)
	var created entities.Appointment
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

	w = doJSON(t, router, http.MethodPatch, "/api/appointments/"+created.ID, `{"notes":"hijack"}`, other)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAppointmentHandler_RejectsBadSlots(t *testing.T) {
	f, router := newAppointmentRouter(t)
	token := f.register(t, "patient@example.com")

	for _, body := range []string{
		`{"hospital_id":"hosp-01","date":"2026-03-01","time":"10:00","reason":"past"}`,
		`{"hospital_id":"hosp-01","date":"2026-03-10","time":"10:15","reason":"off grid"}`,
		`{"hospital_id":"hosp-01","date":"10/03/2026","time":"10:00","reason":"format"}`,
		`{"hospital_id":"hosp-01","date":"2026-03-10","time":"10:00"}`,
	} {
		w := doJSON(t, router, http.MethodPost, "/api/appointments", body, token)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	w := doJSON(t, router, http.MethodPost, "/api/appointments",
		`{"hospital_id":"hosp-99","date":"2026-03-10","time":"10:00","reason":"missing"}`, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAppointmentHandler_Availability(t *testing.T) {
	f, router := newAppointmentRouter(t)
	token := f.register(t, "patient@example.com")

	w := doJSON(t, router, http.MethodGet, "/api/hospitals/hosp-01/availability", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/appointments",
		`{"hospital_id":"hosp-01","date":"2026-03-10","time":"09:00","reason":"checkup"}`, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/hospitals/hosp-01/availability?date=2026-03-10", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Slots []entities.AvailabilitySlot `json:"slots"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body.Slots, 16)
	assert.Equal(t, "09:00", body.Slots[0].Time)
	assert.False(t, body.Slots[0].Available)
	assert.True(t, body.Slots[1].Available)
}
