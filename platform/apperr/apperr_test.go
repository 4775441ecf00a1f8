package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindValidation, http.StatusBadRequest},
		{KindForbidden, http.StatusForbidden},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindFailedPrecondition, http.StatusPreconditionFailed},
		{KindResourceExhausted, http.StatusTooManyRequests},
		{KindInternal, http.StatusInternalServerError},
		{KindUnknown, http.StatusBadRequest},
	}

	for _, tc := range cases {
		got := New(tc.kind, "x").HTTPStatus()
		if got != tc.want {
			t.Fatalf("kind %d: expected status %d, got %d", tc.kind, tc.want, got)
		}
	}
}

func TestGetKindOnPlainError(t *testing.T) {
	if GetKind(errors.New("boom")) != KindUnknown {
		t.Fatal("plain errors must report KindUnknown")
	}
}

func TestWrapPreservesUnderlyingError(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindInternal, "provider call failed", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped error to unwrap to the cause")
	}
	if !Is(err, KindInternal) {
		t.Fatal("expected KindInternal")
	}
}

func TestErrorMessageIncludesOp(t *testing.T) {
	err := ResourceExhausted("Leads quota exceeded").WithOp("searches.run")
	if err.Error() != "searches.run: Leads quota exceeded" {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}
