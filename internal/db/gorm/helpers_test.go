package gorm

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageParams_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/notes", nil)

	params := ParsePageParams(r)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, DefaultPageSize, params.PageSize)
	assert.Equal(t, 0, params.Offset())
}

func TestParsePageParams_ExplicitValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/notes?page=3&pageSize=20", nil)

	params := ParsePageParams(r)
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 20, params.PageSize)
	assert.Equal(t, 40, params.Offset())
}

func TestParsePageParams_IgnoresGarbageAndCaps(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/notes?page=banana&pageSize=9999", nil)

	params := ParsePageParams(r)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, MaxPageSize, params.PageSize)
}
