package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSONBody(t *testing.T) {
	type body struct {
		Text      string `json:"text"`
		NumPlaces *int   `json:"num_places"`
	}

	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{name: "valid", payload: `{"text":"Rome","num_places":2}`},
		{name: "unknown fields ignored", payload: `{"text":"Rome","budget":"low"}`},
		{name: "empty", payload: ``, wantErr: "body must not be empty"},
		{name: "syntax", payload: `{"text":}`, wantErr: "badly-formed JSON"},
		{name: "wrong type", payload: `{"text":"Rome","num_places":"four"}`, wantErr: `incorrect JSON type for field "num_places"`},
		{name: "two values", payload: `{"text":"a"}{"text":"b"}`, wantErr: "single JSON value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))
			var dst body
			err := DecodeJSONBody(httptest.NewRecorder(), r, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "Rome", dst.Text)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorResponse(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusNotFound, "Request not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"detail":"Request not found"}`, rec.Body.String())
}
