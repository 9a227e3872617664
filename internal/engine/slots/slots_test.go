package slots

import (
	"errors"
	"testing"
	"time"

	"github.com/magabrotheeeer/carwash-aggregator/internal/models"
)

func catalog() []models.TimeSlot {
	return []models.TimeSlot{
		{ID: "s1", Time: "09:00 AM", Period: models.PeriodMorning, BaseAvailable: true},
		{ID: "s2", Time: "10:00 AM", Period: models.PeriodMorning, BaseAvailable: true},
		{ID: "s3", Time: "02:30 PM", Period: models.PeriodAfternoon, BaseAvailable: false},
		{ID: "s4", Time: "07:00 PM", Period: models.PeriodEvening, BaseAvailable: true},
	}
}

func TestFilter_TodayBuffer(t *testing.T) {
	// now = 08:45, буфер 30 минут, cutoff = 09:15:
	// слот 09:00 закрывается, слот 10:00 остаётся доступным.
	now := time.Date(2024, 1, 10, 8, 45, 0, 0, time.UTC)
	target := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	got, err := Filter(catalog(), target, now, 30)
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}

	want := map[string]bool{"s1": false, "s2": true, "s3": false, "s4": true}
	for _, slot := range got {
		if slot.Available != want[slot.ID] {
			t.Errorf("slot %s (%s): available = %v, want %v", slot.ID, slot.Time, slot.Available, want[slot.ID])
		}
	}
}

func TestFilter_OtherDayIsNoop(t *testing.T) {
	now := time.Date(2024, 1, 10, 23, 0, 0, 0, time.UTC)
	target := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)

	got, err := Filter(catalog(), target, now, 30)
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	for i, slot := range got {
		if slot.Available != catalog()[i].BaseAvailable {
			t.Errorf("slot %s: available = %v, want catalog value %v",
				slot.ID, slot.Available, catalog()[i].BaseAvailable)
		}
	}
}

func TestFilter_MonotonicNarrowing(t *testing.T) {
	now := time.Date(2024, 1, 10, 13, 0, 0, 0, time.UTC)
	target := now

	got, err := Filter(catalog(), target, now, 45)
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	for i, slot := range got {
		if slot.Available && !catalog()[i].BaseAvailable {
			t.Errorf("slot %s became available, filter may only narrow", slot.ID)
		}
	}
}

func TestFilter_TwelveHourParsing(t *testing.T) {
	tests := []struct {
		name      string
		slotTime  string
		now       time.Time
		available bool
	}{
		{
			// 12 AM — начало суток, к полудню давно прошло.
			name:      "midnight slot",
			slotTime:  "12:00 AM",
			now:       time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
			available: false,
		},
		{
			// 12 PM — полдень, в 10 утра ещё доступен.
			name:      "noon slot",
			slotTime:  "12:00 PM",
			now:       time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
			available: true,
		},
		{
			name:      "evening slot",
			slotTime:  "08:30 PM",
			now:       time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
			available: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := []models.TimeSlot{{ID: "x", Time: tt.slotTime, BaseAvailable: true}}
			got, err := Filter(in, tt.now, tt.now, 30)
			if err != nil {
				t.Fatalf("Filter() error = %v", err)
			}
			if got[0].Available != tt.available {
				t.Errorf("slot %q: available = %v, want %v", tt.slotTime, got[0].Available, tt.available)
			}
		})
	}
}

func TestFilter_MalformedTimeFailsWholeCall(t *testing.T) {
	now := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	in := []models.TimeSlot{
		{ID: "ok", Time: "09:00 AM", BaseAvailable: true},
		{ID: "bad", Time: "25:00", BaseAvailable: true},
	}

	got, err := Filter(in, now, now, 30)
	if !errors.Is(err, ErrInvalidSlotFormat) {
		t.Fatalf("Filter() error = %v, want ErrInvalidSlotFormat", err)
	}
	if got != nil {
		t.Errorf("Filter() returned partial result %v on malformed input", got)
	}
}

func TestFilter_EmptyCatalog(t *testing.T) {
	now := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	got, err := Filter(nil, now, now, 30)
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Filter() = %v, want empty", got)
	}
}
