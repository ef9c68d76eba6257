package entities

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/kruthikhak/Care-Connect/pkg/geo"
)

// Attribute keys shared by every record kind fed to the ranking engine.
const (
	AttrName      = "name"
	AttrRating    = "rating"
	AttrSpecialty = "specialty"
	AttrCity      = "city"
	AttrType      = "type"
	AttrLanguages = "languages"
	AttrServices  = "services"
)

// DefaultK is the number of results returned when a query does not set K.
const DefaultK = 5

// Attributes holds the named, possibly multi-valued properties of a record.
type Attributes map[string]any

// Clone returns a deep copy of a. Nested slices and maps are copied as well,
// so the result shares no mutable state with a.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case nil, string, bool, float64, float32, int, int32, int64, json.Number:
		return v
	case []string:
		return append([]string(nil), t...)
	case []float64:
		return append([]float64(nil), t...)
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case Attributes:
		return t.Clone()
	case map[string]any:
		if t == nil {
			return t
		}
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = cloneValue(item)
		}
		return out
	}
	return cloneReflect(reflect.ValueOf(v)).Interface()
}

// cloneReflect copies slices, arrays and maps of any other element type.
func cloneReflect(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneElem(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneElem(v.Index(i)))
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneElem(iter.Value()))
		}
		return out
	}
	return v
}

func cloneElem(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(reflect.ValueOf(cloneValue(v.Interface())))
		return out
	}
	return cloneReflect(v)
}

// Strings returns the textual values stored under field. A single string is
// returned as a one-element slice.
func (a Attributes) Strings(field string) ([]string, bool) {
	v, ok := a[field]
	if !ok || v == nil {
		return nil, false
	}
	switch t := v.(type) {
	case string:
		return []string{t}, true
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}

// String returns the first textual value under field.
func (a Attributes) String(field string) string {
	values, ok := a.Strings(field)
	if !ok || len(values) == 0 {
		return ""
	}
	return values[0]
}

// Number returns the numeric value stored under field.
func (a Attributes) Number(field string) (float64, bool) {
	switch t := a[field].(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}

// LocatedRecord is a searchable entity with a position and attributes.
type LocatedRecord struct {
	ID         string         `json:"id"`
	Location   geo.Coordinate `json:"location"`
	Attributes Attributes     `json:"attributes"`
}

// Clone returns a deep copy of the record.
func (r LocatedRecord) Clone() LocatedRecord {
	return LocatedRecord{
		ID:         r.ID,
		Location:   r.Location,
		Attributes: r.Attributes.Clone(),
	}
}

// FilterKind selects how a Filter compares an attribute.
type FilterKind string

const (
	// FilterCategory matches one value of a possibly multi-valued attribute, ignoring case.
	FilterCategory FilterKind = "category"
	// FilterContains matches a substring of a free-text attribute, ignoring case.
	FilterContains FilterKind = "contains"
	// FilterMinimum matches a numeric attribute greater than or equal to Threshold.
	FilterMinimum FilterKind = "minimum"
)

// Filter is a predicate on one attribute.
type Filter struct {
	Field     string     `json:"field"`
	Kind      FilterKind `json:"kind"`
	Value     string     `json:"value,omitempty"`
	Threshold float64    `json:"threshold,omitempty"`
}

// CategoryFilter builds a case-insensitive category match.
func CategoryFilter(field, value string) Filter {
	return Filter{Field: field, Kind: FilterCategory, Value: value}
}

// ContainsFilter builds a case-insensitive substring match.
func ContainsFilter(field, value string) Filter {
	return Filter{Field: field, Kind: FilterContains, Value: value}
}

// MinimumFilter builds a numeric lower bound.
func MinimumFilter(field string, threshold float64) Filter {
	return Filter{Field: field, Kind: FilterMinimum, Threshold: threshold}
}

// Matches reports whether attrs satisfy the filter. Records missing the
// attribute never match.
func (f Filter) Matches(attrs Attributes) bool {
	switch f.Kind {
	case FilterCategory:
		values, ok := attrs.Strings(f.Field)
		if !ok {
			return false
		}
		for _, v := range values {
			if strings.EqualFold(v, f.Value) {
				return true
			}
		}
	case FilterContains:
		values, ok := attrs.Strings(f.Field)
		if !ok {
			return false
		}
		needle := strings.ToLower(f.Value)
		for _, v := range values {
			if strings.Contains(strings.ToLower(v), needle) {
				return true
			}
		}
	case FilterMinimum:
		n, ok := attrs.Number(f.Field)
		return ok && n >= f.Threshold
	}
	return false
}

// SortKey orders search results.
type SortKey string

const (
	SortByDistance SortKey = "distance"
	SortByRating   SortKey = "rating"
	SortByName     SortKey = "name"
)

// RecordPolicy decides what happens to records with unusable coordinates.
type RecordPolicy string

const (
	// RecordPolicySkip drops the record and reports it in SearchResult.Skipped.
	RecordPolicySkip RecordPolicy = "skip"
	// RecordPolicyReject fails the whole search with an invalid record error.
	RecordPolicyReject RecordPolicy = "reject"
)

// Query describes one nearest-neighbor search.
type Query struct {
	Origin       *geo.Coordinate
	K            int
	RadiusKm     *float64
	Filters      []Filter
	SortKey      SortKey
	Strict       bool
	RecordPolicy RecordPolicy
}

// NewQuery returns a query with the default result count.
func NewQuery() Query {
	return Query{K: DefaultK, RecordPolicy: RecordPolicySkip}
}

// EffectiveSortKey resolves an empty SortKey to distance when an origin is
// present, otherwise name.
func (q Query) EffectiveSortKey() SortKey {
	if q.SortKey != "" {
		return q.SortKey
	}
	if q.Origin != nil {
		return SortByDistance
	}
	return SortByName
}

// RankedResult is a copy of an input record annotated with its distance from
// the query origin. DistanceKm is nil when the query had no origin.
type RankedResult struct {
	LocatedRecord
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// SkippedRecord names a record left out because it could not be ranked.
type SkippedRecord struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// SearchResult is the ranked, truncated output of a search.
type SearchResult struct {
	Results []RankedResult  `json:"results"`
	Skipped []SkippedRecord `json:"skipped,omitempty"`
}
