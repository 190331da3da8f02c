package validator

import (
	"strings"
	"testing"
)

type cancelRequest struct {
	Reason string `validate:"required,oneof=cancelled entered_in_error rescheduled"`
	Date   string `validate:"omitempty,datetime=2006-01-02"`
}

func TestFormatValidationErrors(t *testing.T) {
	cv := NewValidator()

	tests := []struct {
		name  string
		input cancelRequest
		field string
		want  string
	}{
		{
			name:  "missing required field",
			input: cancelRequest{},
			field: "Reason",
			want:  "Reason is required",
		},
		{
			name:  "value outside the allowed set",
			input: cancelRequest{Reason: "noshow"},
			field: "Reason",
			want:  "must be one of: cancelled entered_in_error rescheduled",
		},
		{
			name:  "malformed date",
			input: cancelRequest{Reason: "cancelled", Date: "05-01-2026"},
			field: "Date",
			want:  "must match the format 2006-01-02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cv.Validate(&tt.input)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			formatted := cv.FormatValidationErrors(err)
			msg, ok := formatted[tt.field]
			if !ok {
				t.Fatalf("no message for field %s: %v", tt.field, formatted)
			}
			if !strings.Contains(msg, tt.want) {
				t.Errorf("message %q does not contain %q", msg, tt.want)
			}
		})
	}
}
