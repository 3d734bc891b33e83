// Package query translates page-level query parameters into normalized
// upstream list queries and unwraps the upstream pagination envelope.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListParams is a normalized list query. Zero values mean "not set" and are
// omitted from the outbound query string, except page and limit which always
// carry their defaults.
type ListParams struct {
	Page      int
	Limit     int
	Q         string
	Status    string
	Role      string
	DoctorID  string
	PatientID string
	Fields    []string
}

// ParseListParams reads page, limit, q, status and role from URL query
// values, clamping page and limit to sane bounds.
func ParseListParams(values url.Values) ListParams {
	p := ListParams{
		Page:   DefaultPage,
		Limit:  DefaultLimit,
		Q:      strings.TrimSpace(values.Get("q")),
		Status: strings.TrimSpace(values.Get("status")),
		Role:   strings.TrimSpace(values.Get("role")),
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		p.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		p.Limit = limit
		if p.Limit > MaxLimit {
			p.Limit = MaxLimit
		}
	}
	if fields := strings.TrimSpace(values.Get("fields")); fields != "" {
		p.Fields = strings.Split(fields, ",")
	}

	return p
}

// Values renders the params as an upstream query string.
func (p ListParams) Values() url.Values {
	values := url.Values{}

	page := p.Page
	if page <= 0 {
		page = DefaultPage
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	values.Set("page", strconv.Itoa(page))
	values.Set("limit", strconv.Itoa(limit))

	if p.Status != "" {
		values.Set("status", p.Status)
	}
	if p.Q != "" {
		values.Set("q", p.Q)
	}
	if p.Role != "" {
		values.Set("role", p.Role)
	}
	if p.DoctorID != "" {
		values.Set("doctorId", p.DoctorID)
	}
	if p.PatientID != "" {
		values.Set("patientId", p.PatientID)
	}
	if len(p.Fields) > 0 {
		values.Set("fields", strings.Join(p.Fields, ","))
	}

	return values
}

// WithDefaultFields fills the field projection when the caller left it empty.
func (p ListParams) WithDefaultFields(fields []string) ListParams {
	if len(p.Fields) == 0 {
		p.Fields = fields
	}
	return p
}
