package services

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/observability"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
	"github.com/kruthikhak/Care-Connect/pkg/geo"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultRecommendDistanceKm bounds hospital recommendations when the caller
// does not pick a distance.
const DefaultRecommendDistanceKm = 50.0

// RecommendHospitalsRequest describes a hospital recommendation
type RecommendHospitalsRequest struct {
	Origin        *geo.Coordinate
	Location      string
	MaxDistanceKm float64
	FacilityType  string
	MinRating     float64
	// Limit caps the result count; nil returns every candidate
	Limit *int
}

// RecommendDoctorsRequest describes a doctor recommendation. A doctor
// matches when it practices any of Specialties.
type RecommendDoctorsRequest struct {
	Specialties []string
	HospitalID  string
	MinRating   float64
	// Limit caps the result count; nil returns every candidate
	Limit *int
}

// HospitalRecommendation is a scored hospital
type HospitalRecommendation struct {
	Hospital   *entities.Hospital
	DistanceKm float64
	Score      float64
}

// HospitalRecommendations is the answer to a hospital recommendation
type HospitalRecommendations struct {
	Origin          *providers.GeocodedAddress
	Recommendations []HospitalRecommendation
}

// DoctorRecommendation is a scored doctor
type DoctorRecommendation struct {
	Doctor *entities.Doctor
	Score  float64
}

// RecommendHospitals ranks hospitals within MaxDistanceKm of the origin by
// how typical their profile is among the candidates, discounted linearly
// with distance down to one half at MaxDistanceKm.
func (s *ProviderSearchService) RecommendHospitals(ctx context.Context, req RecommendHospitalsRequest) (*HospitalRecommendations, error) {
	ctx, span := observability.StartSpan(ctx, "ProviderSearchService.RecommendHospitals")
	defer span.End()

	if req.MaxDistanceKm == 0 {
		req.MaxDistanceKm = DefaultRecommendDistanceKm
	}
	if math.IsNaN(req.MaxDistanceKm) || math.IsInf(req.MaxDistanceKm, 0) || req.MaxDistanceKm < 0 {
		return nil, apperrors.NewInvalidQueryError("maxDistanceKm must be a positive number")
	}
	if req.Limit != nil && *req.Limit < 0 {
		return nil, apperrors.NewInvalidQueryError("limit must not be negative")
	}

	search := ProviderSearchRequest{Origin: req.Origin, Location: req.Location}
	resolved, err := s.resolveOrigin(ctx, &search)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if search.Origin == nil {
		return nil, apperrors.NewInvalidQueryError("recommendations need lat/lng or a location")
	}

	all := math.MaxInt
	search.K = &all
	search.RadiusKm = &req.MaxDistanceKm
	search.FacilityType = req.FacilityType
	search.SortKey = entities.SortByDistance
	if req.MinRating > 0 {
		search.MinRating = &req.MinRating
	}
	candidates, err := s.searchHospitals(ctx, search)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	doctorCounts, err := s.doctorsPerHospital(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	features := make([][]float64, len(candidates.Matches))
	for i, m := range candidates.Matches {
		features[i] = hospitalFeatures(m.Hospital, doctorCounts[m.Hospital.ID])
	}
	typicality := typicalityScores(features)

	out := make([]HospitalRecommendation, len(candidates.Matches))
	for i, m := range candidates.Matches {
		d := *m.DistanceKm
		out[i] = HospitalRecommendation{
			Hospital:   m.Hospital,
			DistanceKm: d,
			Score:      typicality[i] * (1 - d/(2*req.MaxDistanceKm)),
		}
	}
	// Candidates arrive nearest first, so equal scores stay in distance order.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if req.Limit != nil && len(out) > *req.Limit {
		out = out[:*req.Limit]
	}

	observability.SetSpanAttributes(span, attribute.Int("recommend.results", len(out)))
	return &HospitalRecommendations{Origin: resolved, Recommendations: out}, nil
}

// RecommendDoctors ranks matching doctors by how typical their profile is
// among the candidates.
func (s *ProviderSearchService) RecommendDoctors(ctx context.Context, req RecommendDoctorsRequest) ([]DoctorRecommendation, error) {
	ctx, span := observability.StartSpan(ctx, "ProviderSearchService.RecommendDoctors")
	defer span.End()

	if req.Limit != nil && *req.Limit < 0 {
		return nil, apperrors.NewInvalidQueryError("limit must not be negative")
	}

	all, err := s.doctors.List(ctx, repositories.DoctorFilter{HospitalID: req.HospitalID})
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	records := make([]entities.LocatedRecord, 0, len(all))
	byID := make(map[string]*entities.Doctor, len(all))
	for _, d := range all {
		if !practicesAny(d, req.Specialties) {
			continue
		}
		records = append(records, doctorToRecord(d))
		byID[d.ID] = d
	}

	k := math.MaxInt
	search := ProviderSearchRequest{K: &k, SortKey: entities.SortByName}
	if req.MinRating > 0 {
		search.MinRating = &req.MinRating
	}
	ranked, err := s.rank(ctx, kindDoctor, records, search)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	features := make([][]float64, len(ranked.Results))
	for i, r := range ranked.Results {
		features[i] = doctorFeatures(byID[r.ID])
	}
	typicality := typicalityScores(features)

	out := make([]DoctorRecommendation, len(ranked.Results))
	for i, r := range ranked.Results {
		out[i] = DoctorRecommendation{Doctor: byID[r.ID], Score: typicality[i]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if req.Limit != nil && len(out) > *req.Limit {
		out = out[:*req.Limit]
	}

	observability.SetSpanAttributes(span, attribute.Int("recommend.results", len(out)))
	return out, nil
}

func (s *ProviderSearchService) doctorsPerHospital(ctx context.Context) (map[string]int, error) {
	doctors, err := s.doctors.List(ctx, repositories.DoctorFilter{})
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(doctors))
	for _, d := range doctors {
		if d.HospitalID != "" {
			counts[d.HospitalID]++
		}
	}
	return counts, nil
}

func practicesAny(d *entities.Doctor, specialties []string) bool {
	if len(specialties) == 0 {
		return true
	}
	for _, sp := range specialties {
		if strings.EqualFold(strings.TrimSpace(sp), d.Specialty) {
			return true
		}
	}
	return false
}

func hospitalFeatures(h *entities.Hospital, doctors int) []float64 {
	emergency := 0.0
	if h.HasSpecialty("Emergency") {
		emergency = 1
	}
	return []float64{
		h.Rating,
		float64(h.ReviewCount),
		emergency,
		float64(len(h.Services)),
		float64(len(h.Specialties)),
		float64(doctors),
	}
}

func doctorFeatures(d *entities.Doctor) []float64 {
	return []float64{
		d.Rating,
		float64(d.YearsExperience),
		float64(len(d.Education)),
		float64(len(d.Languages)),
	}
}

// typicalityScores standardizes every feature column to zero mean and unit
// variance, then returns each row's mean cosine similarity to all rows,
// itself included. Constant columns contribute nothing and an all-zero row
// scores 0.
func typicalityScores(rows [][]float64) []float64 {
	n := len(rows)
	scores := make([]float64, n)
	if n == 0 {
		return scores
	}
	width := len(rows[0])

	z := make([][]float64, n)
	for i := range z {
		z[i] = make([]float64, width)
	}
	for c := 0; c < width; c++ {
		var mean float64
		for _, row := range rows {
			mean += row[c]
		}
		mean /= float64(n)
		var variance float64
		for _, row := range rows {
			variance += (row[c] - mean) * (row[c] - mean)
		}
		std := math.Sqrt(variance / float64(n))
		if std == 0 {
			continue
		}
		for i, row := range rows {
			z[i][c] = (row[c] - mean) / std
		}
	}

	norms := make([]float64, n)
	for i, row := range z {
		var sum float64
		for _, v := range row {
			sum += v * v
		}
		norms[i] = math.Sqrt(sum)
	}

	for i := range z {
		if norms[i] == 0 {
			continue
		}
		var total float64
		for j := range z {
			if norms[j] == 0 {
				continue
			}
			var dot float64
			for c := range z[i] {
				dot += z[i][c] * z[j][c]
			}
			total += dot / (norms[i] * norms[j])
		}
		scores[i] = total / float64(n)
	}
	return scores
}
