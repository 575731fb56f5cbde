package event

import (
	"testing"
	"time"
)

func TestSort(t *testing.T) {
	mon := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	tue := mon.AddDate(0, 0, 1)

	build := func() []Event {
		return []Event{
			NewEvent(tue, "8:00", "10:00", "tue-8", ""),
			NewEvent(mon, "13:00", "15:00", "mon-13", ""),
			NewEvent(mon, "10:00", "12:00", "mon-10", ""),
			NewEvent(mon, "8:00", "9:00", "mon-8a", ""),
			NewEvent(mon, "08:00", "9:30", "mon-8b", ""),
			NewEvent(mon, "bad", "9:00", "mon-bad", ""),
		}
	}

	tests := []struct {
		name  string
		order SortOrder
		want  []string
	}{
		{
			name:  "insertion keeps input order",
			order: SortInsertion,
			want:  []string{"tue-8", "mon-13", "mon-10", "mon-8a", "mon-8b", "mon-bad"},
		},
		{
			name:  "chronological is stable and numeric",
			order: SortChronological,
			want:  []string{"mon-8a", "mon-8b", "mon-10", "mon-13", "mon-bad", "tue-8"},
		},
		{
			name:  "unknown order behaves like insertion",
			order: "random",
			want:  []string{"tue-8", "mon-13", "mon-10", "mon-8a", "mon-8b", "mon-bad"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := build()
			Sort(events, tt.order)
			for i, want := range tt.want {
				if events[i].Description != want {
					t.Errorf("position %d = %s, want %s", i, events[i].Description, want)
				}
			}
		})
	}
}
