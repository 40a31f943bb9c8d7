package shared

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "ndoors/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", dErrors.New(dErrors.CodeInvalidInput, "bad"), 400, "invalid_input"},
		{"not found", dErrors.New(dErrors.CodeNotFound, "gone"), 404, "not_found"},
		{"unauthorized", dErrors.New(dErrors.CodeUnauthorized, "nope"), 401, "unauthorized"},
		{"invalid state", dErrors.New(dErrors.CodeInvalidState, "resolved"), 409, "invalid_state"},
		{"already responded", dErrors.New(dErrors.CodeAlreadyResponded, "done"), 409, "already_responded"},
		{"conflict", dErrors.New(dErrors.CodeConflict, "dup"), 409, "conflict"},
		{"internal hides detail", dErrors.New(dErrors.CodeInternal, "db exploded"), 500, "internal"},
		{"unknown error hides detail", errors.New("plain"), 500, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantError, body.Error)
			if tc.wantStatus == 500 {
				assert.Equal(t, "internal error", body.Message)
			}
		})
	}
}
