package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
	"github.com/kruthikhak/Care-Connect/pkg/geo"
)

// NearestSearchService ranks located records against a query: filter,
// annotate with distance, sort, truncate. It keeps no state and performs no
// I/O, so one instance may serve concurrent callers.
type NearestSearchService struct{}

// NewNearestSearchService creates a new nearest search service
func NewNearestSearchService() *NearestSearchService {
	return &NearestSearchService{}
}

type candidate struct {
	index    int
	distance *float64
}

// Search returns at most q.K records matching q. The input slice and its
// records are never modified; results are deep copies.
func (s *NearestSearchService) Search(records []entities.LocatedRecord, q entities.Query) (*entities.SearchResult, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	result := &entities.SearchResult{Results: []entities.RankedResult{}}
	candidates := make([]candidate, 0, len(records))

	for i := range records {
		rec := &records[i]
		if !matchesAll(rec.Attributes, q.Filters) {
			continue
		}

		if err := rec.Location.Validate(); err != nil {
			if q.RecordPolicy == entities.RecordPolicyReject {
				return nil, apperrors.NewInvalidRecordError(fmt.Sprintf("record %q has an unusable location", rec.ID), err)
			}
			result.Skipped = append(result.Skipped, entities.SkippedRecord{ID: rec.ID, Reason: err.Error()})
			continue
		}

		c := candidate{index: i}
		if q.Origin != nil {
			d := geo.DistanceKm(*q.Origin, rec.Location)
			if q.RadiusKm != nil && d > *q.RadiusKm {
				continue
			}
			c.distance = &d
		}
		candidates = append(candidates, c)
	}

	if q.Strict && len(candidates) == 0 {
		return nil, apperrors.NewEmptyInputError("no records matched the query")
	}

	sortCandidates(candidates, records, q.EffectiveSortKey())

	k := q.K
	if k > len(candidates) {
		k = len(candidates)
	}
	result.Results = make([]entities.RankedResult, 0, k)
	for _, c := range candidates[:k] {
		ranked := entities.RankedResult{LocatedRecord: records[c.index].Clone()}
		if c.distance != nil {
			d := *c.distance
			ranked.DistanceKm = &d
		}
		result.Results = append(result.Results, ranked)
	}

	return result, nil
}

func validateQuery(q entities.Query) error {
	if q.K < 0 {
		return apperrors.NewInvalidQueryError(fmt.Sprintf("k must be non-negative, got %d", q.K))
	}
	if q.Origin != nil {
		if err := q.Origin.Validate(); err != nil {
			return apperrors.NewInvalidQueryError("origin: " + err.Error())
		}
	}

	switch q.SortKey {
	case "", entities.SortByDistance, entities.SortByRating, entities.SortByName:
	default:
		return apperrors.NewInvalidQueryError(fmt.Sprintf("unknown sort key %q", q.SortKey))
	}
	if q.EffectiveSortKey() == entities.SortByDistance && q.Origin == nil {
		return apperrors.NewInvalidQueryError("sorting by distance requires an origin")
	}

	if q.RadiusKm != nil && (math.IsNaN(*q.RadiusKm) || *q.RadiusKm < 0) {
		return apperrors.NewInvalidQueryError("radius must be a non-negative number")
	}

	switch q.RecordPolicy {
	case "", entities.RecordPolicySkip, entities.RecordPolicyReject:
	default:
		return apperrors.NewInvalidQueryError(fmt.Sprintf("unknown record policy %q", q.RecordPolicy))
	}

	for _, f := range q.Filters {
		if err := validateFilter(f); err != nil {
			return err
		}
	}
	return nil
}

func validateFilter(f entities.Filter) error {
	if strings.TrimSpace(f.Field) == "" {
		return apperrors.NewInvalidQueryError("filter field is required")
	}
	switch f.Kind {
	case entities.FilterCategory, entities.FilterContains:
		if strings.TrimSpace(f.Value) == "" {
			return apperrors.NewInvalidQueryError(fmt.Sprintf("filter on %q needs a value", f.Field))
		}
	case entities.FilterMinimum:
		if math.IsNaN(f.Threshold) {
			return apperrors.NewInvalidQueryError(fmt.Sprintf("filter on %q needs a numeric threshold", f.Field))
		}
	default:
		return apperrors.NewInvalidQueryError(fmt.Sprintf("unknown filter kind %q", f.Kind))
	}
	return nil
}

func matchesAll(attrs entities.Attributes, filters []entities.Filter) bool {
	for _, f := range filters {
		if !f.Matches(attrs) {
			return false
		}
	}
	return true
}

func sortCandidates(candidates []candidate, records []entities.LocatedRecord, key entities.SortKey) {
	var less func(a, b candidate) bool

	switch key {
	case entities.SortByDistance:
		less = func(a, b candidate) bool {
			return *a.distance < *b.distance
		}
	case entities.SortByRating:
		less = func(a, b candidate) bool {
			ra, okA := ratingOf(records[a.index])
			rb, okB := ratingOf(records[b.index])
			if okA != okB {
				// unrated records go last
				return okA
			}
			return ra > rb
		}
	default:
		less = func(a, b candidate) bool {
			return strings.ToLower(records[a.index].Attributes.String(entities.AttrName)) <
				strings.ToLower(records[b.index].Attributes.String(entities.AttrName))
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return less(candidates[i], candidates[j])
	})
}

func ratingOf(rec entities.LocatedRecord) (float64, bool) {
	r, ok := rec.Attributes.Number(entities.AttrRating)
	if !ok || math.IsNaN(r) {
		return 0, false
	}
	return r, true
}
