package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var errGone = errors.New("gone")

func respond(t *testing.T, r *Responder, err error) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/things", nil)
	r.RespondError(c, err)

	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestResponder_MapsWrappedSentinel(t *testing.T) {
	r := NewResponder(Match(ErrNotFound, errGone))

	rec, body := respond(t, r, fmt.Errorf("lookup: %w", errGone))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	require.Equal(t, TypeNotFound, body.Type)
	require.Equal(t, "lookup: gone", body.Detail)
	require.Equal(t, "/v1/things", body.Instance)
}

func TestResponder_UnknownErrorIsOpaque(t *testing.T) {
	rec, body := respond(t, NewResponder(), errors.New("dsn password=secret"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, body.Detail)
}

func TestResponder_ProblemPassesThrough(t *testing.T) {
	rec, body := respond(t, NewResponder(), ErrUnavailable.WithDetail("later"))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "later", body.Detail)
}

func TestWithExtension_DoesNotShareMaps(t *testing.T) {
	base := ErrValidation.WithExtension("a", 1)
	_ = base.WithExtension("b", 2)
	require.Len(t, base.Extensions, 1)
}
