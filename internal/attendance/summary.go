package attendance

// Summary aggregates a set of records. It is a pure projection; nothing here
// is stored.
type Summary struct {
	Present      int     `json:"present"`
	Absent       int     `json:"absent"`
	OnLeave      int     `json:"on_leave"`
	Partial      int     `json:"partial"`
	TotalHours   float64 `json:"total_hours"`
	AverageHours float64 `json:"average_hours"`
}

// Summarize derives counts and hour totals from records. AverageHours is
// over days with any worked hours.
func Summarize(records []Record) Summary {
	var s Summary
	worked := 0
	for _, rec := range records {
		switch rec.Status {
		case StatusPresent:
			s.Present++
		case StatusAbsent:
			s.Absent++
		case StatusOnLeave:
			s.OnLeave++
		case StatusPartial:
			s.Partial++
		}
		if rec.HoursWorked > 0 {
			s.TotalHours += rec.HoursWorked
			worked++
		}
	}
	s.TotalHours = roundTenth(s.TotalHours)
	if worked > 0 {
		s.AverageHours = roundTenth(s.TotalHours / float64(worked))
	}
	return s
}
