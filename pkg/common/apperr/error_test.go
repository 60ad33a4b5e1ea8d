package apperr

import (
	"errors"
	"net/http"
	"testing"
)

var errCause = errors.New("queue is full")

func TestMapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantNil bool
		wantMsg string
	}{
		{"nil_error", nil, true, ""},
		{"wrapped", errCause, false, "queue is full: queue is full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError("queue", tt.err, 4091, MsgQueueFull, http.StatusConflict)
			if (got == nil) != tt.wantNil {
				t.Fatalf("MapError() = %v, wantNil %v", got, tt.wantNil)
			}
			if got == nil {
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got.Error(), tt.wantMsg)
			}
			if got.HTTPStatus != http.StatusConflict || got.Code != 4091 {
				t.Errorf("MapError() = %+v", got)
			}
			if !errors.Is(got, errCause) {
				t.Error("MapError() should unwrap to the cause")
			}
		})
	}
}

func TestNewError_NoCause(t *testing.T) {
	err := NewError("request", 4000, MsgInvalidParams, http.StatusBadRequest, nil)
	if err.Error() != "request invalid parameters" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestAs(t *testing.T) {
	appErr := New(1, "boom", http.StatusInternalServerError, errCause)
	wrapped := errors.Join(errors.New("outer"), appErr)

	got, ok := As(wrapped)
	if !ok || got != appErr {
		t.Errorf("As() = (%v, %v), want (%v, true)", got, ok, appErr)
	}
	if _, ok := As(errCause); ok {
		t.Error("As() should not find an AppError in a plain error")
	}
}
