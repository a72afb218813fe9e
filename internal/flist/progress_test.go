package flist

import (
	"testing"
	"time"
)

func TestPercentComplete(t *testing.T) {
	tests := []struct {
		name      string
		completed int64
		total     int64
		want      string
	}{
		{"unknown total", 10, 0, "(?)"},
		{"nothing done", 0, 1000, "0%"},
		{"halfway", 500, 1000, "50.0%"},
		{"small fraction", 1, 1000, "0.1%"},
		{"nearly done caps at 99.9", 99999, 100000, "99.9%"},
		{"done still caps at 99.9", 1000, 1000, "99.9%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := PercentComplete(tt.completed, tt.total)
			if got != tt.want {
				t.Errorf("PercentComplete(%d, %d) = %s, want %s",
					tt.completed, tt.total, got, tt.want)
			}
		})
	}
}

func TestEstimatedFinish(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)

	t.Run("no progress yet", func(t *testing.T) {
		if got := EstimatedFinish(0.0, start, start.Add(time.Minute)); got != "(?)" {
			t.Errorf("EstimatedFinish() = %s, want (?)", got)
		}
	})

	t.Run("projects from fraction complete", func(t *testing.T) {
		// Half done after one hour: expect finish two hours after start.
		got := EstimatedFinish(0.5, start, start.Add(time.Hour))
		if want := "12:00:00"; got != want {
			t.Errorf("EstimatedFinish() = %s, want %s", got, want)
		}
	})
}
