package workflow

import (
	"time"

	"github.com/gatsolucoes/gat_backend/models"
	"github.com/gatsolucoes/gat_backend/utils"
)

// horizonDaysPerMonth is a flat 30-day month approximation. The horizon is
// a planning window, not a calendar computation, so months are not
// calendar-accurate on purpose.
const horizonDaysPerMonth = 30

// DueDates computes the inspection due dates for one equipment within the
// horizon. The anchor is the last inspection date when known, otherwise the
// installation date, otherwise today. The sequence starts at the anchor
// itself and steps forward by the category interval; every date between
// today and the horizon end (both inclusive) is emitted in order, so an
// equipment with no dates at all is due today. Historical anchors never
// emit past-due dates.
//
// The result is a pure function of the equipment fields, today and
// monthsAhead: same inputs, same sequence.
func DueDates(equipment *models.Equipment, today time.Time, monthsAhead int) []time.Time {
	today = utils.DateOnly(today)
	end := today.AddDate(0, 0, monthsAhead*horizonDaysPerMonth)

	anchor := today
	if equipment.LastInspectionDate != nil {
		anchor = utils.DateOnly(*equipment.LastInspectionDate)
	} else if equipment.InstallationDate != nil {
		anchor = utils.DateOnly(*equipment.InstallationDate)
	}

	interval := IntervalDays(equipment.Category)

	var dueDates []time.Time
	for date := anchor; !date.After(end); date = date.AddDate(0, 0, interval) {
		if date.Before(today) {
			continue
		}
		dueDates = append(dueDates, date)
	}
	return dueDates
}
