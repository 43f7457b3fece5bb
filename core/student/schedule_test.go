package student

import (
	"testing"
	"time"

	"github.com/volatiletech/null/v8"
)

func days(n int) *time.Duration {
	d := time.Duration(n) * 24 * time.Hour
	return &d
}

func TestComputeSchedule(t *testing.T) {
	now := time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	tests := []struct {
		name           string
		a              Assignment
		wantCompleted  bool
		wantLastReview null.Time
		wantNextReview null.Time
	}{
		{
			name:           "fresh assignment is due now",
			a:              Assignment{},
			wantNextReview: null.TimeFrom(now),
		},
		{
			name:           "completed without interval drops off",
			a:              Assignment{CompletedAt: null.TimeFrom(lastWeek), ReviewedAt: null.TimeFrom(lastWeek)},
			wantCompleted:  true,
			wantLastReview: null.TimeFrom(lastWeek),
		},
		{
			name:           "completed with interval keeps cycling",
			a:              Assignment{CompletedAt: null.TimeFrom(lastWeek), ReviewedAt: null.TimeFrom(lastWeek), ReviewInterval: days(3)},
			wantCompleted:  true,
			wantLastReview: null.TimeFrom(lastWeek),
			wantNextReview: null.TimeFrom(lastWeek.Add(3 * 24 * time.Hour)),
		},
		{
			name:           "completed but never reviewed is due now",
			a:              Assignment{CompletedAt: null.TimeFrom(lastWeek), ReviewInterval: days(3)},
			wantCompleted:  true,
			wantNextReview: null.TimeFrom(now),
		},
		{
			name:           "reviewed without interval has no next review",
			a:              Assignment{ReviewedAt: null.TimeFrom(lastWeek)},
			wantLastReview: null.TimeFrom(lastWeek),
		},
		{
			name:           "reviewed with interval schedules from last review",
			a:              Assignment{ReviewedAt: null.TimeFrom(lastWeek), ReviewInterval: days(14)},
			wantLastReview: null.TimeFrom(lastWeek),
			wantNextReview: null.TimeFrom(lastWeek.Add(14 * 24 * time.Hour)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSchedule(tt.a, now)
			if got.Completed != tt.wantCompleted {
				t.Errorf("Completed = %v, want %v", got.Completed, tt.wantCompleted)
			}
			if got.LastReview != tt.wantLastReview {
				t.Errorf("LastReview = %v, want %v", got.LastReview, tt.wantLastReview)
			}
			if got.NextReview != tt.wantNextReview {
				t.Errorf("NextReview = %v, want %v", got.NextReview, tt.wantNextReview)
			}
		})
	}
}

func TestAssignmentDue(t *testing.T) {
	now := time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	tests := []struct {
		name string
		a    Assignment
		want bool
	}{
		{
			name: "never completed",
			a:    Assignment{ReviewedAt: null.TimeFrom(lastWeek), ReviewInterval: days(30)},
			want: true,
		},
		{
			name: "completed, interval lapsed",
			a:    Assignment{CompletedAt: null.TimeFrom(lastWeek), ReviewedAt: null.TimeFrom(lastWeek), ReviewInterval: days(3)},
			want: true,
		},
		{
			name: "completed, interval lapses exactly now",
			a:    Assignment{CompletedAt: null.TimeFrom(lastWeek), ReviewedAt: null.TimeFrom(lastWeek), ReviewInterval: days(7)},
			want: true,
		},
		{
			name: "completed, next review still ahead",
			a:    Assignment{CompletedAt: null.TimeFrom(lastWeek), ReviewedAt: null.TimeFrom(lastWeek), ReviewInterval: days(14)},
			want: false,
		},
		{
			name: "completed without interval",
			a:    Assignment{CompletedAt: null.TimeFrom(lastWeek), ReviewedAt: null.TimeFrom(lastWeek)},
			want: false,
		},
		{
			name: "completed, interval set but never reviewed",
			a:    Assignment{CompletedAt: null.TimeFrom(lastWeek), ReviewInterval: days(3)},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Due(now); got != tt.want {
				t.Errorf("Due() = %v, want %v", got, tt.want)
			}
		})
	}
}
