// Package hebcal implements Hebrew (lunisolar) calendar arithmetic: leap
// years, month shapes, conversion to and from the proleptic Gregorian
// calendar, and anniversary projection. It is self-contained and imports
// nothing from the rest of the application.
//
// Months are numbered by the civil convention: Nisan=1 through Elul=6,
// Tishrei=7 through Adar=12, with Adar I=12 and Adar II=13 in leap years.
// The year number increments at 1 Tishrei. All Gregorian values are
// midnight-UTC time.Time instants.
package hebcal

import (
	"fmt"
	"time"
)

// Month numbers. The year begins at Tishrei; Adar II exists only in leap years.
const (
	Nisan    = 1
	Iyyar    = 2
	Sivan    = 3
	Tammuz   = 4
	Av       = 5
	Elul     = 6
	Tishrei  = 7
	Cheshvan = 8
	Kislev   = 9
	Tevet    = 10
	Shvat    = 11
	Adar     = 12 // Adar I in leap years
	AdarII   = 13 // leap years only
)

// epochRD is the rata-die day number immediately before 1 Tishrei of Hebrew
// year 1 (so newYearRD(1) == epochRD+1).
const epochRD = -1373428

// avgYearDays approximates the mean Hebrew year length, used only to seed
// the year search in yearAtRD.
const avgYearDays = 365.24682

// rdBase is rata-die day 1: January 1 of year 1 CE in the proleptic
// Gregorian calendar, which is exactly what time.Date produces.
var rdBase = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// HDate is a Hebrew calendar date.
type HDate struct {
	Year  int
	Month int
	Day   int
}

func (d HDate) String() string {
	return fmt.Sprintf("%d-%02d-%02d (hebrew)", d.Year, d.Month, d.Day)
}

// Validate reports whether the date names a real day: the month must exist
// in the year (Adar II only in leap years) and the day must fit the month's
// length for that year.
func (d HDate) Validate() error {
	if d.Year < 1 {
		return fmt.Errorf("hebcal: year %d out of range", d.Year)
	}
	if d.Month < Nisan || d.Month > MonthsInYear(d.Year) {
		return fmt.Errorf("hebcal: month %d invalid in year %d", d.Month, d.Year)
	}
	if d.Day < 1 || d.Day > DaysInMonth(d.Month, d.Year) {
		return fmt.Errorf("hebcal: day %d invalid for month %d of year %d", d.Day, d.Month, d.Year)
	}
	return nil
}

// IsLeapYear reports whether the Hebrew year has the embolismic month
// (years 3, 6, 8, 11, 14, 17 and 19 of the 19-year cycle).
func IsLeapYear(year int) bool {
	return (7*year+1)%19 < 7
}

// MonthsInYear returns 12 for common years and 13 for leap years.
func MonthsInYear(year int) int {
	if IsLeapYear(year) {
		return 13
	}
	return 12
}

// DaysInYear returns the year length in days: 353, 354 or 355 for common
// years, 383, 384 or 385 for leap years.
func DaysInYear(year int) int {
	return elapsedDays(year+1) - elapsedDays(year)
}

// LongCheshvan reports whether Cheshvan has 30 days in the year.
func LongCheshvan(year int) bool {
	return DaysInYear(year)%10 == 5
}

// ShortKislev reports whether Kislev has 29 days in the year.
func ShortKislev(year int) bool {
	return DaysInYear(year)%10 == 3
}

// DaysInMonth returns the length (29 or 30) of the month in the given year.
func DaysInMonth(month, year int) int {
	switch month {
	case Iyyar, Tammuz, Elul, Tevet, AdarII:
		return 29
	}
	if (month == Adar && !IsLeapYear(year)) ||
		(month == Cheshvan && !LongCheshvan(year)) ||
		(month == Kislev && ShortKislev(year)) {
		return 29
	}
	return 30
}

// elapsedDays returns the number of days from the Hebrew epoch to 1 Tishrei
// of the given year, applying the molad computation and both Rosh Hashana
// postponement rules.
func elapsedDays(year int) int {
	prev := year - 1
	monthsElapsed := 235*(prev/19) + // months in complete 19-year cycles
		12*(prev%19) + // regular months in the current cycle
		(7*(prev%19)+1)/19 // leap months in the current cycle

	partsElapsed := 204 + 793*(monthsElapsed%1080)
	hoursElapsed := 5 + 12*monthsElapsed + 793*(monthsElapsed/1080) + partsElapsed/1080
	parts := partsElapsed%1080 + 1080*(hoursElapsed%24)
	day := 1 + 29*monthsElapsed + hoursElapsed/24

	altDay := day
	if parts >= 19440 ||
		(day%7 == 2 && parts >= 9924 && !IsLeapYear(year)) ||
		(day%7 == 1 && parts >= 16789 && IsLeapYear(prev)) {
		altDay = day + 1
	}
	// Rosh Hashana may not fall on Sunday, Wednesday or Friday.
	if altDay%7 == 0 || altDay%7 == 3 || altDay%7 == 5 {
		altDay++
	}
	return altDay
}

// newYearRD returns the rata-die day of 1 Tishrei of the year.
func newYearRD(year int) int {
	return epochRD + elapsedDays(year)
}

// toRD converts a Hebrew date to its rata-die day number. The date is
// assumed valid; no checking is performed.
func toRD(d HDate) int {
	days := d.Day
	if d.Month < Tishrei {
		// Months of the year run Tishrei..last, then Nisan..Elul.
		for m := Tishrei; m <= MonthsInYear(d.Year); m++ {
			days += DaysInMonth(m, d.Year)
		}
		for m := Nisan; m < d.Month; m++ {
			days += DaysInMonth(m, d.Year)
		}
	} else {
		for m := Tishrei; m < d.Month; m++ {
			days += DaysInMonth(m, d.Year)
		}
	}
	return epochRD + elapsedDays(d.Year) + days - 1
}

// fromRD converts a rata-die day number to the Hebrew date containing it.
func fromRD(rd int) HDate {
	year := yearAtRD(rd)
	// Walk months in year order starting at Tishrei.
	month := Tishrei
	for {
		first := toRD(HDate{Year: year, Month: month, Day: 1})
		last := first + DaysInMonth(month, year) - 1
		if rd >= first && rd <= last {
			return HDate{Year: year, Month: month, Day: rd - first + 1}
		}
		month = nextMonth(month, year)
	}
}

// yearAtRD returns the Hebrew year whose span contains the rata-die day.
func yearAtRD(rd int) int {
	year := int(float64(rd-epochRD) / avgYearDays)
	if year < 1 {
		year = 1
	}
	for newYearRD(year) > rd {
		year--
	}
	for newYearRD(year+1) <= rd {
		year++
	}
	return year
}

// nextMonth returns the month following m within year order (Tishrei..Elul),
// wrapping the final Adar back to Nisan.
func nextMonth(m, year int) int {
	switch {
	case m == MonthsInYear(year): // Adar (or Adar II) -> Nisan
		return Nisan
	case m == Elul:
		return Tishrei
	default:
		return m + 1
	}
}

// timeToRD truncates the instant to its UTC calendar day and returns the
// rata-die day number.
func timeToRD(t time.Time) int {
	y, m, d := t.UTC().Date()
	prior := y - 1
	rd := 365*prior + prior/4 - prior/100 + prior/400
	rd += (367*int(m) - 362) / 12
	if m > time.February {
		if isGregorianLeap(y) {
			rd--
		} else {
			rd -= 2
		}
	}
	return rd + d
}

// rdToTime returns midnight UTC of the rata-die day.
func rdToTime(rd int) time.Time {
	return rdBase.AddDate(0, 0, rd-1)
}

func isGregorianLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Gregorian converts a valid Hebrew date to the Gregorian day it falls on,
// as midnight UTC. It is total and deterministic over valid dates and
// assumes the input has been validated.
func Gregorian(d HDate) time.Time {
	return rdToTime(toRD(d))
}

// FromGregorian returns the Hebrew date containing the instant.
func FromGregorian(t time.Time) HDate {
	return fromRD(timeToRD(t))
}

// YearOf returns the Hebrew year whose span contains the instant.
func YearOf(t time.Time) int {
	return yearAtRD(timeToRD(t))
}

// Anniversary maps an origin date onto the observed anniversary date in the
// given Hebrew year. An Adar II origin is observed in Adar in common years,
// and a day-30 origin in a month that is deficient in the target year
// (Cheshvan, Kislev, or Adar I outside a leap year) rolls to the first day
// of the following month.
func Anniversary(origin HDate, year int) HDate {
	month := origin.Month
	if month == AdarII && !IsLeapYear(year) {
		month = Adar
	}
	day := origin.Day
	if day > DaysInMonth(month, year) {
		month = nextMonth(month, year)
		day = 1
	}
	return HDate{Year: year, Month: month, Day: day}
}
