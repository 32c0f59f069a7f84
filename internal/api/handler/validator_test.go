package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/inkpress/blog-platform/internal/core/domain"
)

func TestValidator_CollectsAllFields(t *testing.T) {
	v := NewValidator()

	err := v.Validate(signupRequest{
		Username: "ab",
		Email:    "not-an-email",
		Password: "pw",
	})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) != 3 {
		t.Fatalf("expected all three fields reported, got %v", ve.Fields)
	}
	if !strings.Contains(ve.Fields["email"], "valid email") {
		t.Fatalf("unexpected email message: %q", ve.Fields["email"])
	}
	if !strings.Contains(ve.Fields["password"], "at least") {
		t.Fatalf("unexpected password message: %q", ve.Fields["password"])
	}
}

func TestValidator_OneofMessage(t *testing.T) {
	v := NewValidator()

	err := v.Validate(permissionRequest{Action: "publish", Resource: "post"})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(ve.Fields["action"], "must be one of") {
		t.Fatalf("unexpected action message: %q", ve.Fields["action"])
	}
	if _, ok := ve.Fields["resource"]; ok {
		t.Fatalf("valid field reported: %v", ve.Fields)
	}
}

func TestValidator_Valid(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(signupRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
