package orchestrate

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/go-go-golems/repcoach/pkg/blocks"
	"github.com/go-go-golems/repcoach/pkg/tools"
)

// Route is what the keyword router resolved an input to: either one
// tool call, or a static canned response (Tool.Name empty).
type Route struct {
	Tool   tools.Call
	Text   string
	Blocks blocks.List
}

// Administrative commands are matched by anchored expressions against
// the full normalized input, so "delete exercise bench press" cannot
// partially match inside a longer sentence.
var (
	reRenameExercise  = regexp.MustCompile(`^rename exercise (.+?) to (.+)$`)
	reDeleteExercise  = regexp.MustCompile(`^delete exercise (.+)$`)
	reRestoreExercise = regexp.MustCompile(`^restore exercise (.+)$`)
	reDeleteSet       = regexp.MustCompile(`^delete set ([a-z0-9-]+)$`)
	reMuscleGroups    = regexp.MustCompile(`^set muscle groups for (.+?): ?(.+)$`)
	reTrainingSplit   = regexp.MustCompile(`^set training split to (.+)$`)
	reCoachNotes      = regexp.MustCompile(`^set coach notes to (.+)$`)
)

func toolRoute(name string, args interface{}) (*Route, bool) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, false
	}
	return &Route{Tool: tools.Call{Name: name, Arguments: raw}}, true
}

// route resolves auxiliary flows the intent parser does not cover.
// The input is expected lowercased with collapsed whitespace.
func route(norm string) (*Route, bool) {
	if m := reRenameExercise.FindStringSubmatch(norm); m != nil {
		return toolRoute("rename_exercise", map[string]string{"from": m[1], "to": m[2]})
	}
	if m := reDeleteExercise.FindStringSubmatch(norm); m != nil {
		return toolRoute("delete_exercise", map[string]string{"exercise_name": m[1]})
	}
	if m := reRestoreExercise.FindStringSubmatch(norm); m != nil {
		return toolRoute("restore_exercise", map[string]string{"exercise_name": m[1]})
	}
	if m := reDeleteSet.FindStringSubmatch(norm); m != nil {
		return toolRoute("delete_set", map[string]string{"set_id": m[1]})
	}
	if m := reMuscleGroups.FindStringSubmatch(norm); m != nil {
		groups := []string{}
		for _, g := range strings.Split(m[2], ",") {
			if g = strings.TrimSpace(g); g != "" {
				groups = append(groups, g)
			}
		}
		return toolRoute("set_muscle_groups", map[string]interface{}{"exercise_name": m[1], "groups": groups})
	}
	if m := reTrainingSplit.FindStringSubmatch(norm); m != nil {
		return toolRoute("set_training_split", map[string]string{"split": m[1]})
	}
	if m := reCoachNotes.FindStringSubmatch(norm); m != nil {
		return toolRoute("set_coach_notes", map[string]string{"notes": m[1]})
	}

	contains := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(norm, s) {
				return true
			}
		}
		return false
	}

	switch {
	case contains("focus", "what should i train", "what should i do"):
		return toolRoute("get_focus_suggestions", struct{}{})
	case contains("report history"):
		return toolRoute("get_history_overview", struct{}{})
	case contains("history"):
		return toolRoute("get_history_overview", struct{}{})
	case contains("analytics", "progress", "stats", "report"):
		return toolRoute("get_analytics_overview", struct{}{})
	case contains("library", "my exercises", "list exercises"):
		return toolRoute("get_exercise_library", struct{}{})
	case contains("settings", "preferences"):
		return toolRoute("get_settings_overview", struct{}{})
	case contains("billing", "subscription", "upgrade", "my plan"):
		return toolRoute("get_billing_status", struct{}{})
	case contains("help", "workspace", "what can you do", "what can i say"):
		return helpRoute(), true
	}
	return nil, false
}

func helpRoute() *Route {
	return &Route{
		Text: "You can log sets, review progress, and change settings by just typing.",
		Blocks: blocks.List{
			blocks.NewStatus(blocks.ToneInfo, "What you can say",
				"Log sets (\"10 pushups\", \"30 sec plank\"), review progress (\"show trend for bench press\"), or change settings (\"set unit to kg\")."),
			&blocks.Suggestions{Prompts: defaultPrompts},
		},
	}
}

// defaultPrompts is the fixed list shown when nothing matches.
var defaultPrompts = []string{
	"10 pushups",
	"30 sec plank",
	"what did I do today",
	"show trend for pushups",
	"set unit to kg",
}
