package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name    string    `json:"name" default:"anon" validate:"max=5"`
	Horizon int       `json:"horizon" validate:"required,gte=1"`
	Values  []float64 `json:"values" validate:"required,min=2"`
}

func bindBody(t *testing.T, body string, req interface{}) interface{} {
	t.Helper()
	e := echo.New()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return ReadAndValidateRequest(e.NewContext(r, httptest.NewRecorder()), req)
}

func TestReadAndValidateRequestDefaults(t *testing.T) {
	req := &sampleRequest{}
	assert.Nil(t, bindBody(t, `{"horizon":2,"values":[1,2]}`, req))
	assert.Equal(t, "anon", req.Name)
}

func TestReadAndValidateRequestReportsJSONNames(t *testing.T) {
	verr := bindBody(t, `{"horizon":0,"values":[1]}`, &sampleRequest{})
	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 2)

	assert.Equal(t, "horizon", errs[0].Field)
	assert.Equal(t, "ERR_REQUIRED", errs[0].Code)
	assert.Equal(t, "values", errs[1].Field)
	assert.Equal(t, "values must contain at least 2 items", errs[1].Message)
}

func TestReadAndValidateRequestMalformed(t *testing.T) {
	errs, ok := bindBody(t, `{"horizon":"five"}`, &sampleRequest{}).([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.NotEmpty(t, errs[0].Message)

	errs, ok = bindBody(t, `{`, &sampleRequest{}).([]ValidationError)
	require.True(t, ok)
	assert.Len(t, errs, 1)
}
