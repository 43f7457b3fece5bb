package student

import (
	"math"
	"testing"
	"time"
)

func TestAssignTechniqueInterval(t *testing.T) {
	fPtr := func(f float64) *float64 { return &f }

	tests := []struct {
		name    string
		days    *float64
		want    time.Duration
		wantNil bool
		wantErr bool
	}{
		{name: "missing means one-off", days: nil, wantNil: true},
		{name: "whole days", days: fPtr(7), want: 7 * 24 * time.Hour},
		{name: "fractional days", days: fPtr(1.5), want: 36 * time.Hour},
		{name: "zero", days: fPtr(0), want: 0},
		{name: "NaN", days: fPtr(math.NaN()), wantErr: true},
		{name: "Inf", days: fPtr(math.Inf(1)), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AssignTechnique{TechniqueID: 1, ReviewIntervalDays: tt.days}.Interval()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Interval() expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Interval() error = %v", err)
			}
			if tt.wantNil {
				if got != nil {
					t.Fatalf("Interval() = %v; want nil", *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Fatalf("Interval() = %v; want %v", got, tt.want)
			}
		})
	}
}
