package gorm

import (
	"database/sql"
	"net/http"
	"strconv"
)

// MaxPageSize caps pagination queries to protect against resource
// exhaustion from excessively large requests.
const MaxPageSize = 100

// DefaultPageSize matches the note list's default page size.
const DefaultPageSize = 5

// PageParams holds page-number pagination parameters.
type PageParams struct {
	Page     int
	PageSize int
}

// Offset converts the page number to a row offset.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParsePageParams parses "page" and "pageSize" query parameters,
// falling back to page 1 / DefaultPageSize and capping at MaxPageSize.
func ParsePageParams(r *http.Request) PageParams {
	params := PageParams{Page: 1, PageSize: DefaultPageSize}
	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			params.Page = parsed
		}
	}
	if v := r.URL.Query().Get("pageSize"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			params.PageSize = parsed
		}
	}
	if params.PageSize > MaxPageSize {
		params.PageSize = MaxPageSize
	}
	return params
}

// sqlNullString creates a sql.NullString from a string, treating the
// empty string as NULL.
func sqlNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// sqlNullStringPtr creates a sql.NullString from an optional string.
func sqlNullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// sqlNullInt64Ptr creates a sql.NullInt64 from an optional int64.
func sqlNullInt64Ptr(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullInt64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
