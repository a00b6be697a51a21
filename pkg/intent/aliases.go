package intent

import "strings"

// exerciseAliases maps common spellings to canonical exercise names.
// Keys are matched after lowercasing and character stripping.
var exerciseAliases = map[string]string{
	"pushup":         "Push-ups",
	"pushups":        "Push-ups",
	"push-up":        "Push-ups",
	"push-ups":       "Push-ups",
	"push up":        "Push-ups",
	"push ups":       "Push-ups",
	"pullup":         "Pull-ups",
	"pullups":        "Pull-ups",
	"pull-up":        "Pull-ups",
	"pull-ups":       "Pull-ups",
	"pull up":        "Pull-ups",
	"pull ups":       "Pull-ups",
	"chinup":         "Chin-ups",
	"chinups":        "Chin-ups",
	"chin up":        "Chin-ups",
	"chin ups":       "Chin-ups",
	"situp":          "Sit-ups",
	"situps":         "Sit-ups",
	"sit-up":         "Sit-ups",
	"sit-ups":        "Sit-ups",
	"sit up":         "Sit-ups",
	"sit ups":        "Sit-ups",
	"squat":          "Squats",
	"squats":         "Squats",
	"bench":          "Bench Press",
	"bench press":    "Bench Press",
	"benchpress":     "Bench Press",
	"deadlift":       "Deadlift",
	"deadlifts":      "Deadlift",
	"plank":          "Plank",
	"planks":         "Plank",
	"lunge":          "Lunges",
	"lunges":         "Lunges",
	"burpee":         "Burpees",
	"burpees":        "Burpees",
	"jumping jack":   "Jumping Jacks",
	"jumping jacks":  "Jumping Jacks",
	"ohp":            "Overhead Press",
	"overhead press": "Overhead Press",
	"shoulder press": "Overhead Press",
	"crunch":         "Crunches",
	"crunches":       "Crunches",
	"dip":            "Dips",
	"dips":           "Dips",
	"row":            "Rows",
	"rows":           "Rows",
}

// normalizeExerciseName canonicalizes a raw (already lowercased) exercise
// phrase: strip characters outside [a-z0-9 -], collapse whitespace, map
// through the alias table, and title-case anything unmapped.
func normalizeExerciseName(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.Join(strings.Fields(b.String()), " ")
	if cleaned == "" {
		return ""
	}
	if canonical, ok := exerciseAliases[cleaned]; ok {
		return canonical
	}
	return titleCase(cleaned)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalizeHyphenated(w)
	}
	return strings.Join(words, " ")
}

func capitalizeHyphenated(w string) string {
	parts := strings.Split(w, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "-")
}

func containsLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
