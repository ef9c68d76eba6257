package services

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/observability"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
	"github.com/kruthikhak/Care-Connect/pkg/geo"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	kindHospital = "hospital"
	kindDoctor   = "doctor"
)

// ProviderSearchRequest describes a directory search as received from the API
type ProviderSearchRequest struct {
	Origin       *geo.Coordinate
	Location     string
	// K is the result count; nil means entities.DefaultK
	K            *int
	RadiusKm     *float64
	Specialty    string
	City         string
	FacilityType string
	Language     string
	Query        string
	MinRating    *float64
	SortKey      entities.SortKey
	Strict       bool
	RecordPolicy entities.RecordPolicy
}

// HospitalMatch is a ranked hospital
type HospitalMatch struct {
	Hospital   *entities.Hospital
	DistanceKm *float64
}

// DoctorMatch is a ranked doctor
type DoctorMatch struct {
	Doctor     *entities.Doctor
	DistanceKm *float64
}

// HospitalSearchResult is the answer to a hospital search
type HospitalSearchResult struct {
	Origin  *providers.GeocodedAddress
	Matches []HospitalMatch
	Skipped []entities.SkippedRecord
}

// DoctorSearchResult is the answer to a doctor search
type DoctorSearchResult struct {
	Origin  *providers.GeocodedAddress
	Matches []DoctorMatch
	Skipped []entities.SkippedRecord
}

// NearbyResult combines hospital and doctor rankings for one origin
type NearbyResult struct {
	Origin    *providers.GeocodedAddress
	Hospitals []HospitalMatch
	Doctors   []DoctorMatch
}

// ProviderSearchService loads the directory and ranks it with the nearest
// search engine
type ProviderSearchService struct {
	hospitals repositories.HospitalRepository
	doctors   repositories.DoctorRepository
	geocoder  providers.GeocodingProvider
	engine    *NearestSearchService
}

// NewProviderSearchService creates a new provider search service. geocoder
// may be nil, in which case free-text locations are rejected.
func NewProviderSearchService(
	hospitals repositories.HospitalRepository,
	doctors repositories.DoctorRepository,
	geocoder providers.GeocodingProvider,
	engine *NearestSearchService,
) *ProviderSearchService {
	if engine == nil {
		engine = NewNearestSearchService()
	}
	return &ProviderSearchService{
		hospitals: hospitals,
		doctors:   doctors,
		geocoder:  geocoder,
		engine:    engine,
	}
}

// SearchHospitals ranks active hospitals
func (s *ProviderSearchService) SearchHospitals(ctx context.Context, req ProviderSearchRequest) (*HospitalSearchResult, error) {
	ctx, span := observability.StartSpan(ctx, "ProviderSearchService.SearchHospitals")
	defer span.End()

	resolved, err := s.resolveOrigin(ctx, &req)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	result, err := s.searchHospitals(ctx, req)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	result.Origin = resolved
	observability.SetSpanAttributes(span, attribute.Int("search.results", len(result.Matches)))
	return result, nil
}

// SearchDoctors ranks doctors
func (s *ProviderSearchService) SearchDoctors(ctx context.Context, req ProviderSearchRequest) (*DoctorSearchResult, error) {
	ctx, span := observability.StartSpan(ctx, "ProviderSearchService.SearchDoctors")
	defer span.End()

	resolved, err := s.resolveOrigin(ctx, &req)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	result, err := s.searchDoctors(ctx, req)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	result.Origin = resolved
	observability.SetSpanAttributes(span, attribute.Int("search.results", len(result.Matches)))
	return result, nil
}

// SearchNearby ranks hospitals and doctors concurrently for the same origin.
// Filters apply to both lists.
func (s *ProviderSearchService) SearchNearby(ctx context.Context, req ProviderSearchRequest) (*NearbyResult, error) {
	ctx, span := observability.StartSpan(ctx, "ProviderSearchService.SearchNearby")
	defer span.End()

	resolved, err := s.resolveOrigin(ctx, &req)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	var hospitals *HospitalSearchResult
	var doctors *DoctorSearchResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hospitals, err = s.searchHospitals(gctx, req)
		return err
	})
	g.Go(func() error {
		var err error
		doctors, err = s.searchDoctors(gctx, req)
		return err
	})
	if err := g.Wait(); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	return &NearbyResult{
		Origin:    resolved,
		Hospitals: hospitals.Matches,
		Doctors:   doctors.Matches,
	}, nil
}

// HospitalsWithinRadius returns every active hospital within radiusKm of
// origin, nearest first, at most limit of them
func (s *ProviderSearchService) HospitalsWithinRadius(ctx context.Context, origin geo.Coordinate, radiusKm float64, limit int) ([]HospitalMatch, error) {
	result, err := s.SearchHospitals(ctx, ProviderSearchRequest{
		Origin:   &origin,
		RadiusKm: &radiusKm,
		K:        &limit,
		SortKey:  entities.SortByDistance,
	})
	if err != nil {
		return nil, err
	}
	return result.Matches, nil
}

// HospitalsBySpecialty returns every active hospital offering specialty, by name
func (s *ProviderSearchService) HospitalsBySpecialty(ctx context.Context, specialty string) ([]HospitalMatch, error) {
	k := math.MaxInt
	result, err := s.SearchHospitals(ctx, ProviderSearchRequest{
		Specialty: specialty,
		K:         &k,
		SortKey:   entities.SortByName,
	})
	if err != nil {
		return nil, err
	}
	return result.Matches, nil
}

func (s *ProviderSearchService) resolveOrigin(ctx context.Context, req *ProviderSearchRequest) (*providers.GeocodedAddress, error) {
	if req.Origin != nil || req.Location == "" {
		return nil, nil
	}
	if s.geocoder == nil {
		return nil, apperrors.NewInvalidQueryError("location search is not available")
	}

	addr, err := s.geocoder.Geocode(ctx, req.Location)
	if err != nil {
		switch apperrors.TypeOf(err) {
		case apperrors.ErrorTypeNotFound, apperrors.ErrorTypeValidation:
			return nil, apperrors.NewInvalidQueryError(fmt.Sprintf("could not resolve location %q", req.Location))
		}
		return nil, err
	}
	origin := addr.Coordinate
	req.Origin = &origin
	return addr, nil
}

func (s *ProviderSearchService) searchHospitals(ctx context.Context, req ProviderSearchRequest) (*HospitalSearchResult, error) {
	all, err := s.hospitals.List(ctx, repositories.HospitalFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	records := make([]entities.LocatedRecord, len(all))
	byID := make(map[string]*entities.Hospital, len(all))
	for i, h := range all {
		records[i] = hospitalToRecord(h)
		byID[h.ID] = h
	}

	ranked, err := s.rank(ctx, kindHospital, records, req)
	if err != nil {
		return nil, err
	}

	result := &HospitalSearchResult{Matches: make([]HospitalMatch, 0, len(ranked.Results)), Skipped: ranked.Skipped}
	for _, r := range ranked.Results {
		result.Matches = append(result.Matches, HospitalMatch{Hospital: byID[r.ID], DistanceKm: r.DistanceKm})
	}
	return result, nil
}

func (s *ProviderSearchService) searchDoctors(ctx context.Context, req ProviderSearchRequest) (*DoctorSearchResult, error) {
	all, err := s.doctors.List(ctx, repositories.DoctorFilter{})
	if err != nil {
		return nil, err
	}

	records := make([]entities.LocatedRecord, len(all))
	byID := make(map[string]*entities.Doctor, len(all))
	for i, d := range all {
		records[i] = doctorToRecord(d)
		byID[d.ID] = d
	}

	ranked, err := s.rank(ctx, kindDoctor, records, req)
	if err != nil {
		return nil, err
	}

	result := &DoctorSearchResult{Matches: make([]DoctorMatch, 0, len(ranked.Results)), Skipped: ranked.Skipped}
	for _, r := range ranked.Results {
		result.Matches = append(result.Matches, DoctorMatch{Doctor: byID[r.ID], DistanceKm: r.DistanceKm})
	}
	return result, nil
}

func (s *ProviderSearchService) rank(ctx context.Context, kind string, records []entities.LocatedRecord, req ProviderSearchRequest) (*entities.SearchResult, error) {
	logger := observability.LoggerFromContext(ctx)

	result, err := s.engine.Search(records, buildQuery(req))
	if err != nil {
		observability.SearchesTotal.WithLabelValues(kind, outcomeLabel(err)).Inc()
		return nil, err
	}

	observability.SearchesTotal.WithLabelValues(kind, "ok").Inc()
	observability.SearchResults.WithLabelValues(kind).Observe(float64(len(result.Results)))
	if n := len(result.Skipped); n > 0 {
		observability.SkippedRecordsTotal.WithLabelValues(kind).Add(float64(n))
		for _, skipped := range result.Skipped {
			logger.Warn().Str("kind", kind).Str("record_id", skipped.ID).Str("reason", skipped.Reason).Msg("skipped record with unusable location")
		}
	}
	logger.Debug().
		Str("kind", kind).
		Int("candidates", len(records)).
		Int("results", len(result.Results)).
		Msg("provider search completed")
	return result, nil
}

func outcomeLabel(err error) string {
	switch t := apperrors.TypeOf(err); t {
	case apperrors.ErrorTypeInvalidQuery, apperrors.ErrorTypeEmptyInput, apperrors.ErrorTypeInvalidRecord:
		return string(t)
	}
	return "error"
}

func buildQuery(req ProviderSearchRequest) entities.Query {
	q := entities.NewQuery()
	q.Origin = req.Origin
	if req.K != nil {
		q.K = *req.K
	}
	q.RadiusKm = req.RadiusKm
	q.SortKey = req.SortKey
	q.Strict = req.Strict
	if req.RecordPolicy != "" {
		q.RecordPolicy = req.RecordPolicy
	}

	if req.Specialty != "" {
		q.Filters = append(q.Filters, entities.CategoryFilter(entities.AttrSpecialty, req.Specialty))
	}
	if req.City != "" {
		q.Filters = append(q.Filters, entities.CategoryFilter(entities.AttrCity, req.City))
	}
	if req.FacilityType != "" {
		q.Filters = append(q.Filters, entities.CategoryFilter(entities.AttrType, req.FacilityType))
	}
	if req.Language != "" {
		q.Filters = append(q.Filters, entities.CategoryFilter(entities.AttrLanguages, req.Language))
	}
	if req.Query != "" {
		q.Filters = append(q.Filters, entities.ContainsFilter(entities.AttrName, req.Query))
	}
	if req.MinRating != nil {
		q.Filters = append(q.Filters, entities.MinimumFilter(entities.AttrRating, *req.MinRating))
	}
	return q
}

func hospitalToRecord(h *entities.Hospital) entities.LocatedRecord {
	attrs := entities.Attributes{
		entities.AttrName:      h.Name,
		entities.AttrSpecialty: h.Specialties,
		entities.AttrServices:  h.Services,
		entities.AttrCity:      h.Address.City,
		entities.AttrType:      h.FacilityType,
	}
	// Zero means "not yet rated" and sorts last.
	if h.Rating > 0 {
		attrs[entities.AttrRating] = h.Rating
	}
	return entities.LocatedRecord{ID: h.ID, Location: h.Location.Coordinate(), Attributes: attrs}
}

func doctorToRecord(d *entities.Doctor) entities.LocatedRecord {
	attrs := entities.Attributes{
		entities.AttrName:      d.Name,
		entities.AttrSpecialty: d.Specialty,
		entities.AttrLanguages: d.Languages,
		"years_experience":     strconv.Itoa(d.YearsExperience),
	}
	if d.Rating > 0 {
		attrs[entities.AttrRating] = d.Rating
	}
	return entities.LocatedRecord{ID: d.ID, Location: d.Location.Coordinate(), Attributes: attrs}
}
