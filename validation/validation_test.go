package validation

import (
	"strings"
	"testing"

	apperrors "github.com/kbukum/authgate/errors"
)

type signup struct {
	Username string `json:"username" validate:"required,username,max=16"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(signup{Username: "alice.b-c_1", Password: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate(&signup{Username: "bob", Password: "x", Email: "bob@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name      string
		in        signup
		wantField string
		wantMsg   string
	}{
		{"missing username", signup{Password: "x"}, "username", "is required"},
		{"bad username chars", signup{Username: "al ice", Password: "x"}, "username", "may only contain"},
		{"username too long", signup{Username: strings.Repeat("a", 17), Password: "x"}, "username", "at most 16"},
		{"missing password", signup{Username: "alice"}, "password", "is required"},
		{"bad email", signup{Username: "alice", Password: "x", Email: "nope"}, "email", "valid email"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.in)
			appErr, ok := apperrors.AsAppError(err)
			if !ok {
				t.Fatalf("expected *AppError, got %v", err)
			}
			if appErr.Code != apperrors.CodeInvalidInput || appErr.HTTPStatus != 400 {
				t.Errorf("got %s/%d, want INVALID_INPUT/400", appErr.Code, appErr.HTTPStatus)
			}
			fields, _ := appErr.Details["fields"].([]FieldError)
			if len(fields) != 1 || fields[0].Field != tc.wantField || !strings.Contains(fields[0].Message, tc.wantMsg) {
				t.Errorf("fields = %+v, want %s %q", fields, tc.wantField, tc.wantMsg)
			}
		})
	}
}

func TestValidate_CollectsAllFields(t *testing.T) {
	appErr, _ := apperrors.AsAppError(Validate(signup{}))
	if appErr == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(appErr.Message, "username") || !strings.Contains(appErr.Message, "password") {
		t.Errorf("message = %q, want both fields", appErr.Message)
	}
}
