package services_test

import (
	"context"
	"testing"

	"github.com/kruthikhak/Care-Connect/internal/application/services"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHospitalService(t *testing.T) {
	ctx := context.Background()
	stores := seededStores(t)
	svc := services.NewHospitalService(stores.Hospitals, stores.Doctors)

	t.Run("list pages by id", func(t *testing.T) {
		list, err := svc.List(ctx, "", 2, 1)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "hosp-02", list[0].ID)
		assert.Equal(t, "hosp-03", list[1].ID)
	})

	t.Run("list by type", func(t *testing.T) {
		list, err := svc.List(ctx, "HOSPITAL", 0, 0)
		require.NoError(t, err)
		assert.Len(t, list, 6)
	})

	t.Run("specialties are sorted and unique", func(t *testing.T) {
		specialties, err := svc.Specialties(ctx)
		require.NoError(t, err)
		assert.True(t, len(specialties) > 10)
		assert.Equal(t, "Cardiology", specialties[0])
		seen := map[string]bool{}
		for _, s := range specialties {
			assert.False(t, seen[s], s)
			seen[s] = true
		}
	})

	t.Run("types", func(t *testing.T) {
		types, err := svc.Types(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"hospital", "medical_center"}, types)
	})

	t.Run("doctors of a hospital", func(t *testing.T) {
		doctors, err := svc.Doctors(ctx, "hosp-01")
		require.NoError(t, err)
		require.Len(t, doctors, 1)
		assert.Equal(t, "doc-01", doctors[0].ID)

		_, err = svc.Doctors(ctx, "hosp-404")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})

	t.Run("get", func(t *testing.T) {
		h, err := svc.Get(ctx, "hosp-04")
		require.NoError(t, err)
		assert.Equal(t, "UCSF Medical Center", h.Name)

		_, err = svc.GetDoctor(ctx, "doc-404")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})
}
