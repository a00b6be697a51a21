package intent

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// rule is one pure classification function. Rules are tried in a fixed
// priority order; the first match wins, so no two rules ever fire for
// the same input.
type rule func(norm string) (Intent, bool)

var rules = []rule{
	parseSetWeightUnit,
	parseSetSound,
	parseTodaySummary,
	parseExerciseReport,
	parseLogSet,
}

// Parse maps one free-text user message to exactly one typed intent.
// The input is case- and whitespace-normalized before rule matching;
// an unmatched input is returned verbatim inside an unknown intent.
func Parse(input string) Intent {
	norm := normalize(input)
	for _, r := range rules {
		if in, ok := r(norm); ok {
			return in
		}
	}
	return Intent{Type: TypeUnknown, Input: input}
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

var (
	reUnitDirect = regexp.MustCompile(`\bunits?\b.*\b(kg|lbs?)\b`)
	reUnitSwitch = regexp.MustCompile(`\b(?:switch|change)\b.*\bto\s+(kg|lbs?)\b`)
)

func parseSetWeightUnit(norm string) (Intent, bool) {
	m := reUnitDirect.FindStringSubmatch(norm)
	if m == nil {
		m = reUnitSwitch.FindStringSubmatch(norm)
	}
	if m == nil {
		return Intent{}, false
	}
	return Intent{Type: TypeSetWeightUnit, Unit: canonicalUnit(m[1])}, true
}

func canonicalUnit(u string) string {
	if u == "kg" {
		return "kg"
	}
	return "lbs"
}

var reSound = regexp.MustCompile(`\b(?:sounds?|audio|clicks?)\b.*\b(on|off)\b`)

func parseSetSound(norm string) (Intent, bool) {
	m := reSound.FindStringSubmatch(norm)
	if m == nil {
		return Intent{}, false
	}
	return Intent{Type: TypeSetSound, SoundEnabled: m[1] == "on"}, true
}

var todayCompanions = map[string]bool{
	"summary":  true,
	"stats":    true,
	"totals":   true,
	"workout":  true,
	"sets":     true,
	"progress": true,
	"doing":    true,
}

func parseTodaySummary(norm string) (Intent, bool) {
	if norm == "what did i do today" {
		return Intent{Type: TypeTodaySummary}, true
	}
	tokens := strings.Fields(norm)
	hasToday := false
	hasCompanion := false
	for _, tok := range tokens {
		if tok == "today" {
			hasToday = true
		}
		if todayCompanions[tok] {
			hasCompanion = true
		}
	}
	if hasToday && hasCompanion {
		return Intent{Type: TypeTodaySummary}, true
	}
	return Intent{}, false
}

var reportKeywords = map[string]bool{
	"trend":    true,
	"trends":   true,
	"history":  true,
	"report":   true,
	"reports":  true,
	"insight":  true,
	"insights": true,
	"analysis": true,
	"progress": true,
}

// reportStopWords are removed when the exercise name has to be recovered
// from the whole input rather than an explicit "for X" suffix.
var reportStopWords = map[string]bool{
	"show": true, "me": true, "my": true, "the": true, "a": true, "an": true,
	"of": true, "for": true, "on": true, "about": true, "please": true,
	"what": true, "whats": true, "is": true, "how": true, "give": true,
	"see": true, "view": true, "display": true, "get": true, "can": true,
	"you": true,
}

var reReportSuffix = regexp.MustCompile(`\b(?:for|on|about)\s+(.+)$`)

func parseExerciseReport(norm string) (Intent, bool) {
	tokens := strings.Fields(norm)
	hasKeyword := false
	for _, tok := range tokens {
		if reportKeywords[tok] {
			hasKeyword = true
			break
		}
	}
	if !hasKeyword {
		return Intent{}, false
	}

	var raw string
	if m := reReportSuffix.FindStringSubmatch(norm); m != nil {
		raw = m[1]
	} else {
		kept := make([]string, 0, len(tokens))
		for _, tok := range tokens {
			if reportKeywords[tok] || reportStopWords[tok] {
				continue
			}
			kept = append(kept, tok)
		}
		raw = strings.Join(kept, " ")
	}

	name := normalizeExerciseName(raw)
	if name == "" || !containsLetter(name) {
		// Keyword without an exercise name: let the keyword router pick
		// an overview flow instead.
		return Intent{}, false
	}
	return Intent{Type: TypeExerciseReport, ExerciseName: name}, true
}

var (
	reLeadVerb  = regexp.MustCompile(`^(?:i\s+)?(?:just\s+)?(?:log|logged|add|added|did|completed)\s+`)
	reWeight    = regexp.MustCompile(`\s*(?:@|\bat\b)\s*(\d+(?:\.\d+)?)\s*(kg|lbs?)$`)
	reDurPrefix = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(seconds|secs|sec|minutes|mins|min)\b\s*(.+)$`)
	reDurSuffix = regexp.MustCompile(`^(.+?)\s+for\s+(\d+(?:\.\d+)?)\s*(seconds|secs|sec|minutes|mins|min)$`)
	reRepsPre   = regexp.MustCompile(`^(\d+)\s*(?:x|reps?)?\s+(.+)$`)
	reRepsSuf   = regexp.MustCompile(`^(.+?)\s*(?:x\s*)?(\d+)\s*(?:reps?)?$`)
)

func parseLogSet(norm string) (Intent, bool) {
	s := reLeadVerb.ReplaceAllString(norm, "")

	// The weight clause is always parsed and stripped first so it never
	// blocks reps/duration extraction.
	weight := 0.0
	weightUnit := ""
	if m := reWeight.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
			weight = v
			weightUnit = canonicalUnit(m[2])
		}
		s = strings.TrimSpace(reWeight.ReplaceAllString(s, ""))
	}

	if in, ok := matchDurationPrefix(s); ok {
		in.Weight, in.WeightUnit = weight, weightUnit
		return in, true
	}
	if in, ok := matchDurationSuffix(s); ok {
		in.Weight, in.WeightUnit = weight, weightUnit
		return in, true
	}
	if in, ok := matchRepsPrefix(s); ok {
		in.Weight, in.WeightUnit = weight, weightUnit
		return in, true
	}
	if in, ok := matchRepsSuffix(s); ok {
		in.Weight, in.WeightUnit = weight, weightUnit
		return in, true
	}
	return Intent{}, false
}

func matchDurationPrefix(s string) (Intent, bool) {
	m := reDurPrefix.FindStringSubmatch(s)
	if m == nil {
		return Intent{}, false
	}
	return durationIntent(m[2], m[1], m[3])
}

func matchDurationSuffix(s string) (Intent, bool) {
	m := reDurSuffix.FindStringSubmatch(s)
	if m == nil {
		return Intent{}, false
	}
	return durationIntent(m[3], m[2], m[1])
}

func durationIntent(unit, value, rawName string) (Intent, bool) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || v <= 0 {
		return Intent{}, false
	}
	seconds := int(math.Round(v))
	if strings.HasPrefix(unit, "min") {
		seconds = int(math.Round(v * 60))
	}
	if seconds <= 0 {
		return Intent{}, false
	}
	name := normalizeExerciseName(rawName)
	if name == "" || !containsLetter(name) {
		return Intent{}, false
	}
	return Intent{Type: TypeLogSet, ExerciseName: name, DurationSeconds: seconds}, true
}

func matchRepsPrefix(s string) (Intent, bool) {
	m := reRepsPre.FindStringSubmatch(s)
	if m == nil {
		return Intent{}, false
	}
	return repsIntent(m[1], m[2])
}

func matchRepsSuffix(s string) (Intent, bool) {
	m := reRepsSuf.FindStringSubmatch(s)
	if m == nil {
		return Intent{}, false
	}
	return repsIntent(m[2], m[1])
}

func repsIntent(value, rawName string) (Intent, bool) {
	reps, err := strconv.Atoi(value)
	if err != nil || reps <= 0 {
		return Intent{}, false
	}
	name := normalizeExerciseName(rawName)
	if name == "" || !containsLetter(name) {
		return Intent{}, false
	}
	return Intent{Type: TypeLogSet, ExerciseName: name, Reps: reps}, true
}
