package domain

import "time"

// WorkUnit is one (category, day) pair considered during an ingestion run.
type WorkUnit struct {
	Category Category
	Date     time.Time
}

func (w WorkUnit) Day() string {
	return w.Date.Format(DateLayout)
}

// WorkUnits enumerates the cross product of the trailing window ending at
// today and the given categories, newest day first.
func WorkUnits(today time.Time, days int, categories []Category) []WorkUnit {
	today = Day(today)
	units := make([]WorkUnit, 0, days*len(categories))
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, -i)
		for _, c := range categories {
			units = append(units, WorkUnit{Category: c, Date: date})
		}
	}
	return units
}

// IngestStats holds statistics about an ingestion run.
type IngestStats struct {
	Units      int
	Skipped    int
	Dispatched int
	Failed     int
	Fetched    int
	Rejected   int
	Inserted   int
	Duplicates int
	Errors     int
	Published  int
	Duration   time.Duration
}

type IngestState struct {
	ID            int64     `db:"id" json:"-"`
	SourceID      string    `db:"source_id" json:"source_id"`
	LastRunAt     time.Time `db:"last_run_at" json:"last_run_at"`
	LastInserted  int64     `db:"last_inserted" json:"last_inserted"`
	TotalInserted int64     `db:"total_inserted" json:"total_inserted"`
}
