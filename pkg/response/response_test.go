package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name        string
		write       func(w *httptest.ResponseRecorder)
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "conflict with message",
			write:       func(w *httptest.ResponseRecorder) { Conflict(w, "Slot is already full") },
			wantStatus:  409,
			wantMessage: "Slot is already full",
		},
		{
			name:        "conflict default message",
			write:       func(w *httptest.ResponseRecorder) { Conflict(w, "") },
			wantStatus:  409,
			wantMessage: "Conflict",
		},
		{
			name:        "too many requests",
			write:       func(w *httptest.ResponseRecorder) { TooManyRequests(w, "Patient has too many upcoming bookings") },
			wantStatus:  429,
			wantMessage: "Patient has too many upcoming bookings",
		},
		{
			name:        "service unavailable default message",
			write:       func(w *httptest.ResponseRecorder) { ServiceUnavailable(w, "") },
			wantStatus:  503,
			wantMessage: "Service temporarily unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var body Response
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body.Success {
				t.Error("expected success=false")
			}
			if body.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", body.Message, tt.wantMessage)
			}
		})
	}
}
