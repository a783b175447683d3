package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeErrorMessage_StringMessage(t *testing.T) {
	msg := normalizeErrorMessage(400, []byte(`{"message": "Invalid email or password"}`))
	assert.Equal(t, "Invalid email or password", msg)
}

func TestNormalizeErrorMessage_ListOfRecords(t *testing.T) {
	body := []byte(`{"message": [{"field": "email is required"}, {"field2": "too short"}]}`)
	msg := normalizeErrorMessage(422, body)
	assert.Equal(t, "email is required, too short", msg)
}

func TestNormalizeErrorMessage_ListOfStrings(t *testing.T) {
	body := []byte(`{"message": ["first problem", "second problem"]}`)
	msg := normalizeErrorMessage(422, body)
	assert.Equal(t, "first problem, second problem", msg)
}

func TestNormalizeErrorMessage_MixedList(t *testing.T) {
	body := []byte(`{"message": ["plain", {"loc": "body.email", "msg": "ignored second value"}]}`)
	msg := normalizeErrorMessage(422, body)
	assert.Equal(t, "plain, body.email", msg)
}

func TestNormalizeErrorMessage_SingleRecord(t *testing.T) {
	body := []byte(`{"message": {"email": "already registered", "other": "ignored"}}`)
	msg := normalizeErrorMessage(400, body)
	assert.Equal(t, "already registered", msg)
}

func TestNormalizeErrorMessage_DetailFallback(t *testing.T) {
	msg := normalizeErrorMessage(404, []byte(`{"detail": "not found"}`))
	assert.Equal(t, "not found", msg)
}

func TestNormalizeErrorMessage_GenericFallback(t *testing.T) {
	msg := normalizeErrorMessage(400, []byte(`{"unrelated": true}`))
	assert.Equal(t, "An error occurred", msg)
}

func TestNormalizeErrorMessage_EmptyStringMessageFallsThrough(t *testing.T) {
	msg := normalizeErrorMessage(400, []byte(`{"message": "", "detail": "the detail"}`))
	assert.Equal(t, "the detail", msg)
}

func TestNormalizeErrorMessage_UnparseableBody(t *testing.T) {
	msg := normalizeErrorMessage(http.StatusInternalServerError, []byte("<html>boom</html>"))
	assert.Equal(t, "Internal Server Error", msg)
}

func TestNormalizeErrorMessage_EmptyBody(t *testing.T) {
	msg := normalizeErrorMessage(http.StatusBadGateway, nil)
	assert.Equal(t, "Bad Gateway", msg)
}

func TestNormalizeErrorMessage_NullMessageUsesDetail(t *testing.T) {
	msg := normalizeErrorMessage(400, []byte(`{"message": null, "detail": "fell back"}`))
	assert.Equal(t, "fell back", msg)
}

func TestNormalizeErrorMessage_NonStringRecordValue(t *testing.T) {
	// Non-string first values are stringified, matching the loose backend
	// contract.
	msg := normalizeErrorMessage(400, []byte(`{"message": [{"code": 42}]}`))
	assert.Equal(t, "42", msg)
}

func TestRequestError_Predicates(t *testing.T) {
	unauthorized := &RequestError{StatusCode: http.StatusUnauthorized, Message: "no"}
	assert.True(t, unauthorized.IsUnauthorized())
	assert.False(t, unauthorized.IsNotFound())
	assert.Equal(t, "no", unauthorized.Error())

	notFound := &RequestError{StatusCode: http.StatusNotFound, Message: "gone"}
	assert.True(t, notFound.IsNotFound())
}

func TestAsRequestError(t *testing.T) {
	err := error(&RequestError{StatusCode: 400, Message: "bad"})
	reqErr, ok := AsRequestError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, reqErr.StatusCode)

	_, ok = AsRequestError(errors.New("plain"))
	assert.False(t, ok)
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(&ValidationError{Field: "otp", Message: "bad"}))
	assert.False(t, IsValidationError(errors.New("plain")))
}
