package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/kofimensah/emporium-backend/pkg/errors"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return payload
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type: %s", ct)
	}

	payload := decodeEnvelope(t, rec)
	data, ok := payload["data"].(map[string]any)
	if !ok || data["status"] != "ok" {
		t.Fatalf("unexpected envelope: %v", payload)
	}
}

func TestWriteSuccessStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccessStatus(rec, http.StatusCreated, map[string]string{"id": "abc"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestWriteErrorMapsCodes(t *testing.T) {
	cases := []struct {
		code   pkgerrors.Code
		status int
	}{
		{pkgerrors.CodeValidation, http.StatusBadRequest},
		{pkgerrors.CodeUnauthorized, http.StatusUnauthorized},
		{pkgerrors.CodeNotFound, http.StatusNotFound},
		{pkgerrors.CodeConflict, http.StatusConflict},
		{pkgerrors.CodeRateLimit, http.StatusTooManyRequests},
		{pkgerrors.CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(context.Background(), nil, rec, pkgerrors.New(tc.code, "boom"))
		if rec.Code != tc.status {
			t.Fatalf("code %s wrote %d, want %d", tc.code, rec.Code, tc.status)
		}
	}
}

func TestWriteErrorUsesTypedMessageForClientCodes(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found"))

	payload := decodeEnvelope(t, rec)
	errObj := payload["error"].(map[string]any)
	if errObj["message"] != "cart not found" {
		t.Fatalf("expected typed message, got %v", errObj["message"])
	}
	if errObj["code"] != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected code: %v", errObj["code"])
	}
}

func TestWriteErrorHidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeInternal, "db password rejected"))

	payload := decodeEnvelope(t, rec)
	errObj := payload["error"].(map[string]any)
	if errObj["message"] == "db password rejected" {
		t.Fatal("internal message must not leak to clients")
	}
}

func TestWriteErrorDetailsGating(t *testing.T) {
	details := map[string]string{"email": "is required"}

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details))
	payload := decodeEnvelope(t, rec)
	if payload["error"].(map[string]any)["details"] == nil {
		t.Fatal("validation details should be included")
	}

	rec = httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeUnauthorized, "bad token").WithDetails(details))
	payload = decodeEnvelope(t, rec)
	if payload["error"].(map[string]any)["details"] != nil {
		t.Fatal("unauthorized details must be suppressed")
	}
}

func TestWriteErrorUntypedFallsBackToInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("plain failure"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	payload := decodeEnvelope(t, rec)
	if payload["error"].(map[string]any)["code"] != string(pkgerrors.CodeInternal) {
		t.Fatalf("expected internal code, got %v", payload)
	}
}

func TestWriteErrorNilError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for nil error, got %d", rec.Code)
	}
}
