package ferrors

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForCLIIncludesHint(t *testing.T) {
	fe := New(ErrCodeInvalidInput, "bad query", nil).WithSuggestion("quote the query")
	out := FormatForCLI(fe)
	assert.Contains(t, out, "bad query")
	assert.Contains(t, out, "quote the query")
	assert.Contains(t, out, ErrCodeInvalidInput)
}

func TestFormatForCLIWrapsPlainError(t *testing.T) {
	out := FormatForCLI(errors.New("disk is gone"))
	assert.Contains(t, out, "disk is gone")
	assert.Contains(t, out, ErrCodeInternal)
}

func TestFormatJSONRoundTrips(t *testing.T) {
	fe := New(ErrCodeFileNotFound, "no such file", errors.New("stat failed")).WithDetail("path", "a.txt")
	raw, err := FormatJSON(fe)
	require.NoError(t, err)

	var decoded jsonError
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, ErrCodeFileNotFound, decoded.Code)
	assert.Equal(t, "no such file", decoded.Message)
	assert.Equal(t, "stat failed", decoded.Cause)
	assert.Equal(t, "a.txt", decoded.Details["path"])
}

func TestFormatForLogNonFilexError(t *testing.T) {
	attrs := FormatForLog(errors.New("plain"))
	assert.Equal(t, "plain", attrs["error"])
}

func TestFormatForLogIncludesDetails(t *testing.T) {
	fe := New(ErrCodeInvalidInput, "bad", nil).WithDetail("field", "count")
	attrs := FormatForLog(fe)
	assert.Equal(t, "count", attrs["detail_field"])
	assert.Equal(t, ErrCodeInvalidInput, attrs["error_code"])
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 404, HTTPStatus(New(ErrCodeFileNotFound, "x", nil)))
	assert.Equal(t, 409, HTTPStatus(New(ErrCodeIndexingConflict, "x", nil)))
	assert.Equal(t, 415, HTTPStatus(New(ErrCodeUnsupportedType, "x", nil)))
	assert.Equal(t, 500, HTTPStatus(errors.New("plain")))
}
