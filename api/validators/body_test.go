package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/orderlens/pkg/errors"
)

type sampleOptions struct {
	Format  string `json:"format" validate:"omitempty,oneof=csv xlsx"`
	Horizon int    `json:"horizon" validate:"omitempty,min=1,max=12"`
}

func TestDecodeJSONValid(t *testing.T) {
	var dest sampleOptions
	if err := DecodeJSON(strings.NewReader(`{"format":"xlsx","horizon":4}`), &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Format != "xlsx" || dest.Horizon != 4 {
		t.Fatalf("unexpected decode result %+v", dest)
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var dest sampleOptions
	err := DecodeJSON(strings.NewReader(`{"format":"csv","colour":"red"}`), &dest)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONValidationDetails(t *testing.T) {
	var dest sampleOptions
	err := DecodeJSON(strings.NewReader(`{"format":"pdf","horizon":20}`), &dest)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["format"] != "must be one of csv xlsx" {
		t.Fatalf("unexpected format detail %q", details["format"])
	}
	if details["horizon"] != "must be at most 12" {
		t.Fatalf("unexpected horizon detail %q", details["horizon"])
	}
}

func TestDecodeJSONBodyTooLarge(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"format":"csv","horizon":3}`))
	rec := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, 8)

	var dest sampleOptions
	err := DecodeJSONBody(req, &dest)
	if !pkgerrors.IsCode(err, pkgerrors.CodePayloadTooLarge) {
		t.Fatalf("expected payload too large, got %v", err)
	}
}

func TestAsPayloadTooLargeIgnoresOtherErrors(t *testing.T) {
	if got := AsPayloadTooLarge(pkgerrors.New(pkgerrors.CodeValidation, "nope")); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
