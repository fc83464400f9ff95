package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eshop_back_end/internal/models"
)

func TestValidatePaginationDefaults(t *testing.T) {
	page, limit, err := ValidatePagination("", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), page)
	assert.Equal(t, int64(10), limit)
}

func TestValidatePaginationParsesValues(t *testing.T) {
	page, limit, err := ValidatePagination("3", "25")
	require.NoError(t, err)
	assert.Equal(t, int64(3), page)
	assert.Equal(t, int64(25), limit)
}

func TestValidatePaginationRejectsInvalidInput(t *testing.T) {
	cases := []struct{ page, limit string }{
		{"abc", "10"},
		{"0", "10"},
		{"-1", "10"},
		{"1", "abc"},
		{"1", "0"},
		{"1", "-5"},
	}
	for _, tc := range cases {
		_, _, err := ValidatePagination(tc.page, tc.limit)
		require.Error(t, err, "page=%q limit=%q", tc.page, tc.limit)

		var apiErr *models.ErrorResponse
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(0), TotalPages(0, 10))
	assert.Equal(t, int64(1), TotalPages(1, 10))
	assert.Equal(t, int64(1), TotalPages(10, 10))
	assert.Equal(t, int64(2), TotalPages(11, 10))
	assert.Equal(t, int64(0), TotalPages(5, 0))
}
