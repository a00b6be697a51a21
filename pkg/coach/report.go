package coach

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-go-golems/repcoach/pkg/blocks"
)

func localDate(t time.Time, offsetMinutes int) time.Time {
	local := t.Add(time.Duration(offsetMinutes) * time.Minute)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// buildTrend aggregates sets into one ordered point per active local
// day. Only days with activity become points; the series is capped to
// the most recent ninety.
func buildTrend(title, subtitle string, metric blocks.TrendMetric, sets []*SetEntry, offsetMinutes int) *blocks.Trend {
	byDay := map[time.Time]float64{}
	for _, se := range sets {
		day := localDate(se.PerformedAt, offsetMinutes)
		switch metric {
		case blocks.TrendMetricDuration:
			byDay[day] += float64(se.DurationSeconds)
		default:
			byDay[day] += float64(se.Reps)
		}
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	if len(days) > blocks.MaxTrendPoints {
		days = days[len(days)-blocks.MaxTrendPoints:]
	}

	trend := &blocks.Trend{
		Title:    title,
		Subtitle: subtitle,
		Metric:   metric,
		Points:   make([]blocks.TrendPoint, 0, len(days)),
	}
	for _, day := range days {
		p := blocks.TrendPoint{
			Date:  day.Format("2006-01-02"),
			Label: day.Format("Jan 2"),
			Value: byDay[day],
		}
		trend.Points = append(trend.Points, p)
		trend.Total += p.Value
		if trend.BestDay == nil || p.Value > trend.BestDay.Value {
			best := p
			trend.BestDay = &best
		}
	}
	return trend
}

// summarizeSets rolls a slice of sets into the numbers shown by the
// summary and analytics tools.
type setSummary struct {
	Sets          int
	Reps          int
	Seconds       int
	ExerciseNames []string
}

func summarizeSets(sets []*SetEntry) setSummary {
	sum := setSummary{}
	seen := map[string]bool{}
	for _, se := range sets {
		sum.Sets++
		sum.Reps += se.Reps
		sum.Seconds += se.DurationSeconds
		if !seen[se.ExerciseName] {
			seen[se.ExerciseName] = true
			sum.ExerciseNames = append(sum.ExerciseNames, se.ExerciseName)
		}
	}
	sort.Strings(sum.ExerciseNames)
	return sum
}

type exerciseVolume struct {
	Name string
	Sets int
	Reps int
}

// topExercises ranks exercises by set count, then reps, then name.
func topExercises(sets []*SetEntry, limit int) []exerciseVolume {
	byName := map[string]*exerciseVolume{}
	for _, se := range sets {
		v, ok := byName[se.ExerciseName]
		if !ok {
			v = &exerciseVolume{Name: se.ExerciseName}
			byName[se.ExerciseName] = v
		}
		v.Sets++
		v.Reps += se.Reps
	}
	out := make([]exerciseVolume, 0, len(byName))
	for _, v := range byName {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sets != out[j].Sets {
			return out[i].Sets > out[j].Sets
		}
		if out[i].Reps != out[j].Reps {
			return out[i].Reps > out[j].Reps
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func formatSeconds(total int) string {
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}
	m := total / 60
	s := total % 60
	if s == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dm %ds", m, s)
}

// describeSet renders one set the way it appears in summaries and
// undo labels, e.g. "10 Push-ups" or "Plank for 1m 30s @ 20 kg".
func describeSet(se *SetEntry) string {
	var desc string
	switch {
	case se.DurationSeconds > 0:
		desc = fmt.Sprintf("%s for %s", se.ExerciseName, formatSeconds(se.DurationSeconds))
	case se.Reps > 0:
		desc = fmt.Sprintf("%d %s", se.Reps, se.ExerciseName)
	default:
		desc = se.ExerciseName
	}
	if se.Weight > 0 {
		desc = fmt.Sprintf("%s @ %g %s", desc, se.Weight, se.WeightUnit)
	}
	return desc
}
