package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/kruthikhak/Care-Connect/internal/adapters/events"
	"github.com/kruthikhak/Care-Connect/internal/application/services"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_CreateUpdatesRating(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stores := seededStores(t)

	hospital, err := stores.Hospitals.GetByID(ctx, "hosp-01")
	require.NoError(t, err)
	hospital.Rating = 4.0
	hospital.ReviewCount = 3
	require.NoError(t, stores.Hospitals.Update(ctx, hospital))

	bus := events.NewLocalEventBus()
	defer bus.Close()
	ch, err := bus.Subscribe(ctx, providers.EventChannelDirectoryUpdates)
	require.NoError(t, err)

	svc := services.NewReviewService(stores.Reviews, stores.Hospitals, bus)
	review, err := svc.Create(ctx, "user-1", "hosp-01", 5, " Great staff ")
	require.NoError(t, err)
	assert.Equal(t, "Great staff", review.Comment)

	updated, err := stores.Hospitals.GetByID(ctx, "hosp-01")
	require.NoError(t, err)
	// (4.0*3 + 5) / 4 = 4.25
	assert.Equal(t, 4.3, updated.Rating)
	assert.Equal(t, 4, updated.ReviewCount)

	select {
	case event := <-ch:
		assert.Equal(t, entities.DirectoryEventReviewCreated, event.Type)
		assert.Equal(t, "hosp-01", event.HospitalID)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}

	reviews, err := svc.ListByHospital(ctx, "hosp-01", 10, 0)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, review.ID, reviews[0].ID)
}

func TestReviewService_Validation(t *testing.T) {
	stores := seededStores(t)
	svc := services.NewReviewService(stores.Reviews, stores.Hospitals, nil)

	_, err := svc.Create(context.Background(), "user-1", "hosp-01", 0, "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	_, err = svc.Create(context.Background(), "user-1", "hosp-01", 6, "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	_, err = svc.Create(context.Background(), "user-1", "hosp-404", 3, "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	_, err = svc.ListByHospital(context.Background(), "hosp-404", 10, 0)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
