package workflow

import (
	"testing"
	"time"

	"github.com/gatsolucoes/gat_backend/models"
	"github.com/gatsolucoes/gat_backend/utils"
)

func datePtr(t time.Time) *time.Time {
	return &t
}

func TestIntervalDays(t *testing.T) {
	cases := []struct {
		category models.EquipmentCategory
		want     int
	}{
		{models.EquipmentCategoryExtinguisher, 30},
		{models.EquipmentCategoryHydrant, 90},
		{models.EquipmentCategorySprinkler, 180},
		{models.EquipmentCategoryAlarm, 30},
		{models.EquipmentCategoryEmergencyLight, 90},
		{models.EquipmentCategoryFireDoor, 180},
		{models.EquipmentCategoryHose, 90},
		{models.EquipmentCategoryPump, 90},
		{models.EquipmentCategory("unknown"), 90},
	}
	for _, tc := range cases {
		if got := IntervalDays(tc.category); got != tc.want {
			t.Errorf("IntervalDays(%s) = %d, want %d", tc.category, got, tc.want)
		}
	}
}

func TestDueDatesExtinguisherScenario(t *testing.T) {
	// interval 30 days, last inspection 5 days ago, 3-month horizon:
	// stepping from today-5 yields today+25, today+55, today+85 only.
	today := utils.DateOnly(time.Date(2026, 8, 31, 15, 4, 5, 0, time.UTC))
	equipment := &models.Equipment{
		Category:           models.EquipmentCategoryExtinguisher,
		LastInspectionDate: datePtr(today.AddDate(0, 0, -5)),
	}

	dates := DueDates(equipment, today, 3)
	if len(dates) != 3 {
		t.Fatalf("expected 3 due dates, got %d: %v", len(dates), dates)
	}
	for i, offset := range []int{25, 55, 85} {
		want := today.AddDate(0, 0, offset)
		if !dates[i].Equal(want) {
			t.Errorf("dates[%d] = %v, want %v", i, dates[i], want)
		}
	}
}

func TestDueDatesHorizonBound(t *testing.T) {
	today := utils.DateOnly(time.Now())
	equipment := &models.Equipment{
		Category:           models.EquipmentCategoryAlarm,
		LastInspectionDate: datePtr(today.AddDate(0, 0, -400)),
	}

	for _, months := range []int{1, 3, 12} {
		end := today.AddDate(0, 0, months*30)
		for _, date := range DueDates(equipment, today, months) {
			if date.Before(today) {
				t.Errorf("months=%d: due date %v precedes today %v", months, date, today)
			}
			if date.After(end) {
				t.Errorf("months=%d: due date %v exceeds horizon %v", months, date, end)
			}
		}
	}
}

func TestDueDatesAnchorFallbacks(t *testing.T) {
	today := utils.DateOnly(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	lastInspection := today.AddDate(0, 0, -10)
	installation := today.AddDate(0, 0, -20)

	// last inspection wins over installation
	both := &models.Equipment{
		Category:           models.EquipmentCategoryHydrant,
		LastInspectionDate: datePtr(lastInspection),
		InstallationDate:   datePtr(installation),
	}
	dates := DueDates(both, today, 6)
	if len(dates) == 0 {
		t.Fatal("expected due dates")
	}
	if want := lastInspection.AddDate(0, 0, 90); !dates[0].Equal(want) {
		t.Errorf("anchor should be last inspection date: first due %v, want %v", dates[0], want)
	}

	// installation date when no inspection was ever done
	installed := &models.Equipment{
		Category:         models.EquipmentCategoryHydrant,
		InstallationDate: datePtr(installation),
	}
	dates = DueDates(installed, today, 6)
	if want := installation.AddDate(0, 0, 90); !dates[0].Equal(want) {
		t.Errorf("anchor should be installation date: first due %v, want %v", dates[0], want)
	}

	// today when the equipment has no dates at all: due immediately
	bare := &models.Equipment{Category: models.EquipmentCategoryHydrant}
	dates = DueDates(bare, today, 6)
	if !dates[0].Equal(today) {
		t.Errorf("anchor should be today: first due %v, want %v", dates[0], today)
	}
	if want := today.AddDate(0, 0, 90); !dates[1].Equal(want) {
		t.Errorf("second due %v, want %v", dates[1], want)
	}
}

func TestDueDatesAnchorWithinWindowIsDue(t *testing.T) {
	today := utils.DateOnly(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))

	// a never-inspected alarm gets its first inspection today, then every
	// 30 days up to the horizon end
	bare := &models.Equipment{Category: models.EquipmentCategoryAlarm}
	dates := DueDates(bare, today, 3)
	if len(dates) != 4 {
		t.Fatalf("expected 4 due dates, got %d: %v", len(dates), dates)
	}
	for i, offset := range []int{0, 30, 60, 90} {
		want := today.AddDate(0, 0, offset)
		if !dates[i].Equal(want) {
			t.Errorf("dates[%d] = %v, want %v", i, dates[i], want)
		}
	}

	// a future installation date is itself a due date
	installation := today.AddDate(0, 0, 15)
	installed := &models.Equipment{
		Category:         models.EquipmentCategoryAlarm,
		InstallationDate: datePtr(installation),
	}
	dates = DueDates(installed, today, 3)
	if len(dates) == 0 || !dates[0].Equal(installation) {
		t.Errorf("first due = %v, want installation date %v", dates, installation)
	}
}

func TestDueDatesHistoricalAnchorSkipsPastDates(t *testing.T) {
	today := utils.DateOnly(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))
	equipment := &models.Equipment{
		Category:           models.EquipmentCategoryExtinguisher,
		LastInspectionDate: datePtr(today.AddDate(0, 0, -100)),
	}

	dates := DueDates(equipment, today, 3)
	if len(dates) == 0 {
		t.Fatal("expected due dates")
	}
	// steps at -70, -40, -10 fall before today and must not be emitted
	if want := today.AddDate(0, 0, 20); !dates[0].Equal(want) {
		t.Errorf("first due %v, want %v", dates[0], want)
	}
}

func TestDueDatesDeterministic(t *testing.T) {
	today := utils.DateOnly(time.Now())
	equipment := &models.Equipment{
		Category:           models.EquipmentCategorySprinkler,
		LastInspectionDate: datePtr(today.AddDate(0, 0, -30)),
	}

	first := DueDates(equipment, today, 12)
	second := DueDates(equipment, today, 12)
	if len(first) != len(second) {
		t.Fatalf("sequences differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("sequences diverge at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestDueDatesOrdered(t *testing.T) {
	today := utils.DateOnly(time.Now())
	equipment := &models.Equipment{Category: models.EquipmentCategoryAlarm}

	dates := DueDates(equipment, today, 12)
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			t.Errorf("dates not strictly increasing at %d: %v then %v", i, dates[i-1], dates[i])
		}
	}
}
