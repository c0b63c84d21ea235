package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Unauthorized(""), http.StatusUnauthorized},
		{Forbidden("admin access required"), http.StatusForbidden},
		{NotFound("booking"), http.StatusNotFound},
		{Invalid("status", "unknown value"), http.StatusBadRequest},
		{ConflictError{Resource: "user", Msg: "email taken"}, http.StatusConflict},
		{Upstream("find booking", errors.New("socket closed")), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := Status(tc.err); got != tc.want {
			t.Errorf("Status(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestWrappedErrorsKeepKind(t *testing.T) {
	err := fmt.Errorf("update booking: %w", Invalid("paymentStatus", "unknown value \"paid\""))
	if !IsValidation(err) {
		t.Fatal("expected wrapped validation error to be detected")
	}
	if Message(err) != "update booking: paymentStatus: unknown value \"paid\"" {
		t.Fatalf("unexpected message %q", Message(err))
	}
}

func TestUpstreamMessageIsGeneric(t *testing.T) {
	err := Upstream("insert booking", errors.New("connection refused 10.0.0.3"))
	if Message(err) != "internal server error" {
		t.Fatalf("upstream detail leaked: %q", Message(err))
	}
	if !errors.Is(err, err.(UpstreamError).Err) {
		t.Fatal("upstream error should unwrap to its cause")
	}
}
