package engine

// Breakdown is an elapsed calendar age.
// Years counts completed anniversaries, Months the completed month anchors
// since the last anniversary, and Days the remainder after the last month anchor.
type Breakdown struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// Less orders breakdowns lexicographically by years, months, days.
func (b Breakdown) Less(other Breakdown) bool {
	if b.Years != other.Years {
		return b.Years < other.Years
	}
	if b.Months != other.Months {
		return b.Months < other.Months
	}
	return b.Days < other.Days
}

// Calculate decomposes the time from origin to today.
//
// Each unit is counted from an anchor: the anniversary for months, the
// month anchor for days. An anchor that falls after today is rolled back, so
// counts never round up. An origin of Feb 29 has its anniversary on Mar 1 in
// non-leap years.
//
// A today before origin does not panic; Years is then negative.
func Calculate(origin, today CalendarDate) Breakdown {
	years := today.Year - origin.Year
	if origin.AddDate(years, 0).After(today) {
		years--
	}

	anchor := origin.AddDate(years, 0)
	months := (today.Year-anchor.Year)*12 + int(today.Month-anchor.Month)
	// A month-end anchor can overflow into the following month (Jan 31 + 1
	// month = Mar 3 in 2001), so one step back is not always enough.
	for months > 0 && anchor.AddDate(0, months).After(today) {
		months--
	}

	anchor = anchor.AddDate(0, months)
	return Breakdown{
		Years:  years,
		Months: months,
		Days:   daysBetween(anchor, today),
	}
}

// IsAnniversary reports whether today shares month and day with date,
// regardless of the year.
func IsAnniversary(date, today CalendarDate) bool {
	return date.Month == today.Month && date.Day == today.Day
}
