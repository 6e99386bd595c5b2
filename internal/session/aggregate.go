package session

import (
	"sort"
	"time"

	"github.com/justyntemme/comics-t/pkg/models"
)

// Trend describes how pages per session moved between the earlier and the
// more recent half of the history
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendFlat       Trend = "flat"
)

// Stats summarises finished reading sessions
type Stats struct {
	TotalReadingMinutes        float64
	SessionCount               int
	AverageSessionDuration     float64
	PagesRead                  int
	PagesPerSessionAvg         float64
	ReadingSpeedPagesPerMinute float64
	Streak                     int
	LongestStreak              int
	VelocityTrend              Trend
	FirstSessionAt             time.Time
	LastSessionAt              time.Time
}

// Aggregate computes statistics over finished sessions. Active sessions are
// left out. The streak counts consecutive calendar days, in now's location,
// that have a session start, walking back from now's day; a day without one
// ends the walk, so no session today means a streak of 0.
func Aggregate(sessions []models.ReadingSession, now time.Time) Stats {
	done := make([]models.ReadingSession, 0, len(sessions))
	for _, s := range sessions {
		if !s.IsActive {
			done = append(done, s)
		}
	}
	sort.SliceStable(done, func(i, j int) bool { return done[i].StartedAt.Before(done[j].StartedAt) })

	stats := Stats{
		SessionCount:  len(done),
		VelocityTrend: velocityTrend(done),
	}
	for _, s := range done {
		stats.TotalReadingMinutes += s.DurationMinutes
		stats.PagesRead += s.PagesRead
	}

	if stats.SessionCount > 0 {
		stats.AverageSessionDuration = stats.TotalReadingMinutes / float64(stats.SessionCount)
		stats.PagesPerSessionAvg = float64(stats.PagesRead) / float64(stats.SessionCount)
		stats.FirstSessionAt = done[0].StartedAt
		stats.LastSessionAt = done[len(done)-1].StartedAt
	}
	if stats.TotalReadingMinutes > 0 {
		stats.ReadingSpeedPagesPerMinute = float64(stats.PagesRead) / stats.TotalReadingMinutes
	}

	days := activeDays(done, now.Location())
	stats.Streak = currentStreak(days, now)
	stats.LongestStreak = longestStreak(days)
	return stats
}

type day struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time) day {
	y, m, d := t.Date()
	return day{y, m, d}
}

func activeDays(sessions []models.ReadingSession, loc *time.Location) map[day]bool {
	days := make(map[day]bool, len(sessions))
	for _, s := range sessions {
		days[dayOf(s.StartedAt.In(loc))] = true
	}
	return days
}

func currentStreak(days map[day]bool, now time.Time) int {
	streak := 0
	// AddDate on the date at noon avoids DST edges skipping or repeating a day
	cursor := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
	for days[dayOf(cursor)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

func longestStreak(days map[day]bool) int {
	longest := 0
	for d := range days {
		start := time.Date(d.year, d.month, d.day, 12, 0, 0, 0, time.UTC)
		// Only count runs from their first day
		if days[dayOf(start.AddDate(0, 0, -1))] {
			continue
		}
		run := 0
		for cursor := start; days[dayOf(cursor)]; cursor = cursor.AddDate(0, 0, 1) {
			run++
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// velocityTrend compares mean pages per session of the recent half with the
// earlier half. With an odd count the middle session belongs to the recent
// half. Fewer than two sessions, or equal means, is flat.
func velocityTrend(chronological []models.ReadingSession) Trend {
	n := len(chronological)
	if n < 2 {
		return TrendFlat
	}
	mid := n / 2
	earlier := meanPages(chronological[:mid])
	recent := meanPages(chronological[mid:])

	switch {
	case recent > earlier:
		return TrendIncreasing
	case recent < earlier:
		return TrendDecreasing
	default:
		return TrendFlat
	}
}

func meanPages(sessions []models.ReadingSession) float64 {
	total := 0
	for _, s := range sessions {
		total += s.PagesRead
	}
	return float64(total) / float64(len(sessions))
}
