package client

import (
	"errors"
	"fmt"
	"testing"
)

func TestStatusError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StatusError
		want string
	}{
		{
			name: "with message",
			err: &StatusError{
				StatusCode: 401,
				ErrorClass: ErrorClassClient,
				Endpoint:   "/recon/api/v1/ip",
				Message:    `{"error": "bad token"}`,
			},
			want: `unexpected server response from /recon/api/v1/ip: client error (status 401): {"error": "bad token"}`,
		},
		{
			name: "without message",
			err: &StatusError{
				StatusCode: 503,
				ErrorClass: ErrorClassServer,
				Endpoint:   "/recon/api/v1/hostname",
			},
			want: "unexpected server response from /recon/api/v1/hostname: server error (status 503)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsStatusError(t *testing.T) {
	base := &StatusError{StatusCode: 500, ErrorClass: ErrorClassServer}
	wrapped := fmt.Errorf("fetch hostname: %w", base)

	se, ok := IsStatusError(wrapped)
	if !ok {
		t.Fatal("IsStatusError() should unwrap to *StatusError")
	}
	if se.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", se.StatusCode)
	}

	if _, ok := IsStatusError(errors.New("plain")); ok {
		t.Error("IsStatusError() matched a plain error")
	}
	if _, ok := IsStatusError(nil); ok {
		t.Error("IsStatusError() matched nil")
	}
}

func TestMissingFieldError(t *testing.T) {
	err := fmt.Errorf("page 2: %w", &MissingFieldError{Field: FieldCount})

	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("errors.Is(%v, ErrMalformedResponse) = false", err)
	}

	var mf *MissingFieldError
	if !errors.As(err, &mf) || mf.Field != FieldCount {
		t.Errorf("errors.As() did not recover the missing field: %v", err)
	}

	want := `malformed response: missing field "count"`
	if got := (&MissingFieldError{Field: FieldCount}).Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
