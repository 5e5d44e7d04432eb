package planner

import (
	"sort"
	"time"

	"wayfare/models"
)

// Derived, read-only views over a planner's items. All Store methods take
// an optional planner id ("" means the active planner) and return zero
// values when nothing resolves.

const dayKey = "2006-01-02"

// GroupDays buckets dated items by calendar day, ascending. Items without
// a planned date are excluded; same-day items group together regardless of
// time of day.
func GroupDays(items []models.PlannerItem) []models.PlannerDay {
	buckets := make(map[string][]models.PlannerItem)
	for _, it := range items {
		if it.PlannedDate == nil {
			continue
		}
		key := it.PlannedDate.Format(dayKey)
		buckets[key] = append(buckets[key], it)
	}

	days := make([]models.PlannerDay, 0, len(buckets))
	for date, its := range buckets {
		var total float64
		for _, it := range its {
			total += it.Price * float64(it.Quantity)
		}
		days = append(days, models.PlannerDay{Date: date, Items: its, Total: round2(total)})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// ItemsOn filters items planned for the same calendar day as date.
func ItemsOn(items []models.PlannerItem, date time.Time) []models.PlannerItem {
	key := date.Format(dayKey)
	out := []models.PlannerItem{}
	for _, it := range items {
		if it.PlannedDate != nil && it.PlannedDate.Format(dayKey) == key {
			out = append(out, it)
		}
	}
	return out
}

// Summarize aggregates the planner's items into the fixed-shape summary.
func Summarize(p models.Planner) models.PlannerSummary {
	var s models.PlannerSummary
	days := make(map[string]bool)
	for _, it := range p.Items {
		s.ItemCount++
		cost := it.Price * float64(it.Quantity)
		s.TotalCost += cost
		if it.Paid {
			s.TotalPaid += cost
		}
		if it.Confirmed {
			s.ConfirmedItems++
		} else {
			s.PendingItems++
		}
		if it.PlannedDate != nil {
			days[it.PlannedDate.Format(dayKey)] = true
		}
	}
	s.TotalCost = round2(s.TotalCost)
	s.TotalPaid = round2(s.TotalPaid)
	s.PendingPayment = round2(s.TotalCost - s.TotalPaid)
	s.DaysPlanned = len(days)
	return s
}

// TotalCost sums price×quantity over all items, dated or not.
func TotalCost(items []models.PlannerItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return round2(total)
}

// DateRange returns the earliest and latest planned dates, both nil when
// no item carries a date.
func DateRange(items []models.PlannerItem) (start, end *time.Time) {
	for _, it := range items {
		if it.PlannedDate == nil {
			continue
		}
		d := *it.PlannedDate
		if start == nil || d.Before(*start) {
			t := d
			start = &t
		}
		if end == nil || d.After(*end) {
			t := d
			end = &t
		}
	}
	return start, end
}

// resolve picks the planner for a derived query: explicit id first, the
// active planner otherwise.
func (s *Store) resolve(id string) (models.Planner, bool) {
	if id != "" {
		return s.Get(id)
	}
	return s.Active()
}

// Days is the day-grouped itinerary view.
func (s *Store) Days(id string) []models.PlannerDay {
	p, ok := s.resolve(id)
	if !ok {
		return []models.PlannerDay{}
	}
	return GroupDays(p.Items)
}

// ItemsByDate filters the planner's items to one calendar day.
func (s *Store) ItemsByDate(date time.Time, id string) []models.PlannerItem {
	p, ok := s.resolve(id)
	if !ok {
		return []models.PlannerItem{}
	}
	return ItemsOn(p.Items, date)
}

// Summary aggregates the planner; all zeros when nothing resolves.
func (s *Store) Summary(id string) models.PlannerSummary {
	p, ok := s.resolve(id)
	if !ok {
		return models.PlannerSummary{}
	}
	return Summarize(p)
}

// TotalCost sums the planner's items; zero when nothing resolves.
func (s *Store) TotalCost(id string) float64 {
	p, ok := s.resolve(id)
	if !ok {
		return 0
	}
	return TotalCost(p.Items)
}

// DateRange reports the planned-date span; both nil when nothing resolves.
func (s *Store) DateRange(id string) (start, end *time.Time) {
	p, ok := s.resolve(id)
	if !ok {
		return nil, nil
	}
	return DateRange(p.Items)
}
