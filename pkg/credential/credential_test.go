package credential

import (
	"errors"
	"strings"
	"testing"
)

func lookupFrom(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoad(t *testing.T) {
	validToken := strings.Repeat("x", MinLength)

	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{
			name:    "missing variable",
			env:     map[string]string{},
			wantErr: ErrMissingCredential,
		},
		{
			name:    "ten characters",
			env:     map[string]string{EnvVar: "0123456789"},
			wantErr: ErrCredentialTooShort,
		},
		{
			name:    "empty value",
			env:     map[string]string{EnvVar: ""},
			wantErr: ErrCredentialTooShort,
		},
		{
			name:    "one below minimum",
			env:     map[string]string{EnvVar: validToken[1:]},
			wantErr: ErrCredentialTooShort,
		},
		{
			name: "exactly minimum",
			env:  map[string]string{EnvVar: validToken},
		},
		{
			name: "long token",
			env:  map[string]string{EnvVar: validToken + validToken},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred, err := Load(lookupFrom(tt.env))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if cred.Value() != tt.env[EnvVar] {
				t.Errorf("Value() = %q, want %q", cred.Value(), tt.env[EnvVar])
			}
		})
	}
}

func TestLoad_TooShortReportsLength(t *testing.T) {
	_, err := Load(lookupFrom(map[string]string{EnvVar: "0123456789"}))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "got 10 characters") {
		t.Errorf("error %q should report the token length", err.Error())
	}
}

func TestCredential_StringRedacts(t *testing.T) {
	token := strings.Repeat("s", 120)
	cred, err := Load(lookupFrom(map[string]string{EnvVar: token}))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if strings.Contains(cred.String(), "sss") {
		t.Errorf("String() leaked the token: %q", cred.String())
	}
	if cred.String() != "<redacted:120>" {
		t.Errorf("String() = %q, want %q", cred.String(), "<redacted:120>")
	}
	if cred.Len() != 120 {
		t.Errorf("Len() = %d, want 120", cred.Len())
	}
}
