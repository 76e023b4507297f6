package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Title *string `json:"title"`
	City  *string `json:"city"`
}

func bind(body string) (payload, error) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	var p payload
	err := BindStrictJSON(c, &p)
	return p, err
}

func TestBindStrictJSON(t *testing.T) {
	p, err := bind(`{"title":"Jazz"}`)
	require.NoError(t, err)
	require.NotNil(t, p.Title)
	assert.Equal(t, "Jazz", *p.Title)
	assert.Nil(t, p.City)

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"empty", ``, "request body is required"},
		{"unknown field", `{"title":"x","id":"evil"}`, `unknown field "id"`},
		{"malformed", `{"title":`, "malformed JSON body"},
		{"trailing", `{"title":"x"}{"title":"y"}`, "request body must be a single JSON object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := bind(tt.body)
			require.Error(t, err)
			assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestBindOptionalJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	bindOptional := func(body string, chunked bool) (payload, error) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		if chunked {
			c.Request.ContentLength = -1
		}
		var p payload
		err := BindOptionalJSON(c, &p)
		return p, err
	}

	p, err := bindOptional(``, false)
	require.NoError(t, err)
	assert.Nil(t, p.Title)

	p, err = bindOptional(`{"title":"Jazz"}`, true)
	require.NoError(t, err, "bodies without a length are still read")
	require.NotNil(t, p.Title)
	assert.Equal(t, "Jazz", *p.Title)

	_, err = bindOptional(`{"title":`, false)
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))

	_, err = bindOptional(`{"refresh":"x"}`, false)
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
}
