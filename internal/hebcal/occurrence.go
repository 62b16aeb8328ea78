package hebcal

import "time"

// Series identifies one annually recurring Hebrew date: the anchor the
// occurrences of a recurring event are projected from.
type Series struct {
	// ID is carried through to every projection (typically the owning
	// event's id).
	ID string
	// Origin is the Hebrew date of the first occurrence.
	Origin HDate
}

// Projection is one concrete occurrence of a series in a Gregorian range.
type Projection struct {
	SeriesID   string
	HebrewYear int
	// Anniversary counts Hebrew years elapsed since the origin (0 at the
	// origin itself). Display labeling only.
	Anniversary int
	// Date is the materialized Gregorian day, midnight UTC.
	Date time.Time
}

// OccurrencesInRange projects every anniversary of every series that lands
// within [start, end] (inclusive, by UTC calendar day). A projection is kept
// only when its Gregorian day is inside the range and its Hebrew year is not
// before the series origin year: a series never occurs before it was
// created, however far back the queried range reaches.
func (p *Projector) OccurrencesInRange(series []Series, start, end time.Time) []Projection {
	if end.Before(start) {
		return nil
	}

	startRD := timeToRD(start)
	endRD := timeToRD(end)
	firstYear := yearAtRD(startRD)
	lastYear := yearAtRD(endRD)

	var out []Projection
	for _, s := range series {
		from := firstYear
		if s.Origin.Year > from {
			from = s.Origin.Year
		}
		for year := from; year <= lastYear; year++ {
			g := p.Gregorian(Anniversary(s.Origin, year))
			rd := timeToRD(*g)
			if rd < startRD || rd > endRD {
				continue
			}
			out = append(out, Projection{
				SeriesID:    s.ID,
				HebrewYear:  year,
				Anniversary: year - s.Origin.Year,
				Date:        *g,
			})
		}
	}
	return out
}
