package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapsKinds(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindInvalidInput, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindUnavailable, http.StatusServiceUnavailable},
		{KindNotFound, http.StatusNotFound},
		{KindUnknown, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := HTTPStatus(E(tc.kind, "boom")); got != tc.want {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestHTTPStatusDefaults(t *testing.T) {
	if got := HTTPStatus(nil); got != http.StatusOK {
		t.Fatalf("HTTPStatus(nil) = %d, want %d", got, http.StatusOK)
	}
	if got := HTTPStatus(fmt.Errorf("plain")); got != http.StatusInternalServerError {
		t.Fatalf("HTTPStatus(plain) = %d, want %d", got, http.StatusInternalServerError)
	}
}

func TestHTTPStatusUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("load team: %w", E(KindNotFound, "team not found"))
	if got := HTTPStatus(wrapped); got != http.StatusNotFound {
		t.Fatalf("HTTPStatus(wrapped) = %d, want %d", got, http.StatusNotFound)
	}
}

func TestLocalizationKey(t *testing.T) {
	if got := LocalizationKey(EK(KindForbidden, "teams.not_admin", "not an admin")); got != "teams.not_admin" {
		t.Fatalf("key = %q, want %q", got, "teams.not_admin")
	}
	if got := LocalizationKey(E(KindForbidden, "boom")); got != "" {
		t.Fatalf("key = %q, want empty", got)
	}
}

func TestErrorMessageFallsBackToKind(t *testing.T) {
	err := Error{Kind: KindNotFound}
	if err.Error() != string(KindNotFound) {
		t.Fatalf("message = %q, want %q", err.Error(), KindNotFound)
	}
}
