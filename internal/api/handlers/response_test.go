package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/services"
)

func recordError(t *testing.T, err error) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	respondError(c, err)

	var body Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder, body
}

func TestRespondError_MapsServiceErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", services.NewValidationError("bad input"), http.StatusBadRequest},
		{"not found", &services.NotFoundError{Entity: "lead", ID: "x"}, http.StatusNotFound},
		{"conflict", &services.ConflictError{Message: "duplicate"}, http.StatusConflict},
		{"wrapped validation", errors.Wrap(services.NewValidationError("bad"), "context"), http.StatusBadRequest},
		{"internal", errors.New("db exploded"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder, body := recordError(t, tc.err)
			require.Equal(t, tc.wantStatus, recorder.Code)
			require.False(t, body.Success)
			require.NotEmpty(t, body.Timestamp)
		})
	}
}

func TestRespondError_HidesInternalDetail(t *testing.T) {
	_, body := recordError(t, errors.New("password=hunter2 leaked"))
	require.Equal(t, "internal server error", body.Message)
}

func TestTotalPages(t *testing.T) {
	require.Equal(t, 0, totalPages(0, 20))
	require.Equal(t, 1, totalPages(20, 20))
	require.Equal(t, 2, totalPages(21, 20))
	require.Equal(t, 0, totalPages(5, 0))
}
