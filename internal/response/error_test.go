package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/dadhelper-backend/internal/errs"
	"github.com/GregMSThompson/dadhelper-backend/pkg/helpers"
)

func TestHandleErrorMapsTypedErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", errs.NewNotFoundError("dad not found"), http.StatusNotFound, "not_found"},
		{"already exists", errs.NewAlreadyExistsError("user already registered"), http.StatusConflict, "already_exists"},
		{"validation", errs.NewValidationError("date is required"), http.StatusBadRequest, "invalid_input"},
		{"conflict", errs.NewConflictError("booking already rejected"), http.StatusConflict, "conflict"},
		{"unauthorized", errs.NewUnauthorizedError("missing identity"), http.StatusUnauthorized, "unauthorized"},
		{"forbidden", errs.NewForbiddenError("admin only"), http.StatusForbidden, "forbidden"},
		{"database", errs.NewDatabaseError("read", "failed to get dad", errors.New("rpc")), http.StatusInternalServerError, "internal_error"},
		{"external transient", errs.NewExternalServiceError("storage", "upload failed", true, nil), http.StatusServiceUnavailable, "service_unavailable"},
		{"external permanent", errs.NewExternalServiceError("storage", "upload failed", false, nil), http.StatusBadGateway, "service_unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	h := New(helpers.TestLogger())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(helpers.TestCtx())
			rr := httptest.NewRecorder()

			h.HandleError(rr, req, tc.err)

			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tc.code {
				t.Fatalf("code = %q, want %q", body.Code, tc.code)
			}
		})
	}
}

func TestHandleErrorHidesDatabaseDetails(t *testing.T) {
	h := New(helpers.TestLogger())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	h.HandleError(rr, req, errs.NewDatabaseError("read", "failed to list bookings", errors.New("deadline exceeded")))

	var body ErrorResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &body)
	if body.Message != "An error occurred" {
		t.Fatalf("database message leaked: %q", body.Message)
	}
}

func TestWriteSuccessEnvelope(t *testing.T) {
	h := New(helpers.TestLogger())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	h.WriteSuccess(rr, req, http.StatusCreated, map[string]string{"id": "b-1"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Success || body.Data["id"] != "b-1" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}
