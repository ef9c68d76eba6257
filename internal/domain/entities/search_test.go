package entities_test

import (
	"encoding/json"
	"testing"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/pkg/geo"
	"github.com/stretchr/testify/assert"
)

func TestFilterMatches(t *testing.T) {
	attrs := entities.Attributes{
		entities.AttrName:      "UCSF Medical Center",
		entities.AttrSpecialty: []string{"Research", "Transplant", "Pediatrics"},
		entities.AttrCity:      "San Francisco",
		entities.AttrRating:    4.9,
		entities.AttrLanguages: []any{"English", "Spanish"},
	}

	tests := []struct {
		name   string
		filter entities.Filter
		want   bool
	}{
		{"category on multi-valued attribute", entities.CategoryFilter(entities.AttrSpecialty, "pediatrics"), true},
		{"category requires whole value", entities.CategoryFilter(entities.AttrSpecialty, "pedia"), false},
		{"category on single value", entities.CategoryFilter(entities.AttrCity, "SAN FRANCISCO"), true},
		{"category on []any", entities.CategoryFilter(entities.AttrLanguages, "spanish"), true},
		{"contains substring", entities.ContainsFilter(entities.AttrName, "ucsf"), true},
		{"contains misses", entities.ContainsFilter(entities.AttrName, "kaiser"), false},
		{"minimum met", entities.MinimumFilter(entities.AttrRating, 4.9), true},
		{"minimum not met", entities.MinimumFilter(entities.AttrRating, 4.95), false},
		{"missing attribute", entities.CategoryFilter(entities.AttrType, "clinic"), false},
		{"minimum on missing attribute", entities.MinimumFilter("experience", 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(attrs))
		})
	}
}

func TestAttributesNumber(t *testing.T) {
	attrs := entities.Attributes{
		"f64":  4.5,
		"f32":  float32(2.5),
		"int":  3,
		"i64":  int64(7),
		"json": json.Number("4.25"),
		"bad":  json.Number("x"),
		"text": "4.5",
	}

	for key, want := range map[string]float64{"f64": 4.5, "f32": 2.5, "int": 3, "i64": 7, "json": 4.25} {
		got, ok := attrs.Number(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}

	_, ok := attrs.Number("bad")
	assert.False(t, ok)
	_, ok = attrs.Number("text")
	assert.False(t, ok)
}

func TestLocatedRecordCloneIsIndependent(t *testing.T) {
	original := entities.LocatedRecord{
		ID:       "1",
		Location: geo.Coordinate{Lat: 37.7749, Lon: -122.4194},
		Attributes: entities.Attributes{
			entities.AttrSpecialty: []string{"Emergency", "Cardiology"},
		},
	}

	clone := original.Clone()
	clone.Attributes[entities.AttrSpecialty].([]string)[0] = "Changed"
	clone.Attributes["extra"] = true

	assert.Equal(t, []string{"Emergency", "Cardiology"}, original.Attributes[entities.AttrSpecialty])
	assert.NotContains(t, original.Attributes, "extra")
}

func TestAttributesCloneCopiesNestedValues(t *testing.T) {
	original := entities.Attributes{
		"scores":   []float64{4.5, 3.0},
		"hours":    map[string]any{"mon": []any{"09:00", "17:00"}},
		"counts":   []int{1, 2},
		"meta":     map[string]int{"beds": 120},
		"mixed":    []any{map[string]any{"lang": "es"}},
		"distance": 2.5,
	}

	clone := original.Clone()
	clone["scores"].([]float64)[0] = 0
	clone["hours"].(map[string]any)["mon"].([]any)[0] = "10:00"
	clone["hours"].(map[string]any)["tue"] = "closed"
	clone["counts"].([]int)[1] = 9
	clone["meta"].(map[string]int)["beds"] = 1
	clone["mixed"].([]any)[0].(map[string]any)["lang"] = "fr"

	assert.Equal(t, []float64{4.5, 3.0}, original["scores"])
	assert.Equal(t, map[string]any{"mon": []any{"09:00", "17:00"}}, original["hours"])
	assert.Equal(t, []int{1, 2}, original["counts"])
	assert.Equal(t, map[string]int{"beds": 120}, original["meta"])
	assert.Equal(t, []any{map[string]any{"lang": "es"}}, original["mixed"])
	assert.Equal(t, 2.5, clone["distance"])
}

func TestQueryEffectiveSortKey(t *testing.T) {
	q := entities.NewQuery()
	assert.Equal(t, entities.DefaultK, q.K)
	assert.Equal(t, entities.SortByName, q.EffectiveSortKey())

	q.Origin = &geo.Coordinate{Lat: 1, Lon: 2}
	assert.Equal(t, entities.SortByDistance, q.EffectiveSortKey())

	q.SortKey = entities.SortByRating
	assert.Equal(t, entities.SortByRating, q.EffectiveSortKey())
}

func TestAddressString(t *testing.T) {
	addr := entities.Address{Street: "505 Parnassus Ave", City: "San Francisco", State: "CA", ZipCode: "94143"}
	assert.Equal(t, "505 Parnassus Ave, San Francisco, CA 94143", addr.String())
	assert.Equal(t, "", entities.Address{}.String())
}
