package coach

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/go-go-golems/repcoach/pkg/blocks"
	"github.com/go-go-golems/repcoach/pkg/tools"
	"github.com/go-go-golems/repcoach/pkg/undo"
)

// Deps wires the coach tools to their collaborators.
type Deps struct {
	Store  Store
	Biller Biller
	Undo   *undo.Ledger
}

// RegisterAll registers the full coach tool set on the registry.
func RegisterAll(reg tools.Registry, deps Deps) error {
	if deps.Store == nil {
		return errors.New("coach tools need a store")
	}
	defs := []struct {
		name string
		desc string
		fn   interface{}
	}{
		{"log_set", "Log one exercise set (reps or duration, optional weight).", deps.logSet},
		{"get_today_summary", "Summarize everything logged during the user's current day.", deps.getTodaySummary},
		{"get_exercise_report", "Show a per-day trend for one exercise over the last 90 days.", deps.getExerciseReport},
		{"set_weight_unit", "Change the user's preferred weight unit (kg or lbs).", deps.setWeightUnit},
		{"set_sound", "Turn interface sounds on or off.", deps.setSound},
		{"get_focus_suggestions", "Suggest what to train next based on recent activity.", deps.getFocusSuggestions},
		{"get_history_overview", "Show per-day activity for the last seven days.", deps.getHistoryOverview},
		{"get_analytics_overview", "Show 30-day volume analytics and top exercises.", deps.getAnalyticsOverview},
		{"get_exercise_library", "List the user's exercises.", deps.getExerciseLibrary},
		{"get_settings_overview", "Show the user's current settings.", deps.getSettingsOverview},
		{"get_billing_status", "Show the user's subscription status.", deps.getBillingStatus},
		{"rename_exercise", "Rename an exercise, carrying its history along.", deps.renameExercise},
		{"delete_exercise", "Soft-delete an exercise from the library.", deps.deleteExercise},
		{"restore_exercise", "Bring back a previously deleted exercise.", deps.restoreExercise},
		{"delete_set", "Delete one logged set by id.", deps.deleteSet},
		{"set_muscle_groups", "Tag an exercise with muscle groups.", deps.setMuscleGroups},
		{"set_training_split", "Record the user's training split.", deps.setTrainingSplit},
		{"set_coach_notes", "Record free-form coach notes for the user.", deps.setCoachNotes},
	}
	for _, d := range defs {
		def, err := tools.NewTool(d.name, d.desc, d.fn)
		if err != nil {
			return errors.Wrapf(err, "could not build tool %s", d.name)
		}
		if err := reg.Register(def); err != nil {
			return err
		}
	}
	return nil
}

type LogSetArgs struct {
	ExerciseName    string  `json:"exercise_name"`
	Reps            int     `json:"reps,omitempty"`
	DurationSeconds int     `json:"duration_seconds,omitempty"`
	Weight          float64 `json:"weight,omitempty"`
	Unit            string  `json:"unit,omitempty"`
}

// maxExerciseNameLen bounds names arriving from free text, so a run-on
// sentence mistaken for a name can neither pollute the library nor
// overflow the block ceilings downstream.
const maxExerciseNameLen = 120

func (d Deps) logSet(ctx context.Context, tc *tools.Context, args LogSetArgs) (*tools.Result, error) {
	if strings.TrimSpace(args.ExerciseName) == "" {
		return nil, errors.New("exercise_name is required")
	}
	if len(args.ExerciseName) > maxExerciseNameLen {
		return nil, errors.New("exercise name is too long")
	}
	if args.Reps <= 0 && args.DurationSeconds <= 0 {
		return nil, errors.New("a set needs reps or a duration")
	}
	unit := args.Unit
	if args.Weight > 0 && unit == "" {
		unit = tc.Unit
	}
	if args.Weight > 0 && unit == "" {
		unit = "lbs"
	}

	ex, err := d.Store.EnsureExercise(ctx, tc.UserID, args.ExerciseName, args.DurationSeconds > 0)
	if err != nil {
		return nil, err
	}
	entry := &SetEntry{
		ExerciseID:      ex.ID,
		ExerciseName:    ex.Name,
		Reps:            args.Reps,
		DurationSeconds: args.DurationSeconds,
		Weight:          args.Weight,
		WeightUnit:      unit,
		PerformedAt:     tc.Now,
	}
	if err := d.Store.InsertSet(ctx, tc.UserID, entry); err != nil {
		return nil, err
	}

	label := "Logged " + describeSet(entry)
	bl := blocks.List{blocks.NewStatus(blocks.ToneSuccess, "Set logged", describeSet(entry))}
	if d.Undo != nil {
		userID, setID := tc.UserID, entry.ID
		e := d.Undo.Register(tc.TurnID, label, func(ctx context.Context) error {
			_, err := d.Store.DeleteSet(ctx, userID, setID)
			return err
		})
		bl = append(bl, &blocks.Undo{
			ActionID:    e.ActionID,
			TurnID:      tc.TurnID,
			Title:       "Undo",
			Description: label,
		})
	}

	return &tools.Result{
		Summary: label,
		Blocks:  bl,
		OutputForModel: map[string]interface{}{
			"setId":           entry.ID,
			"exercise":        ex.Name,
			"reps":            entry.Reps,
			"durationSeconds": entry.DurationSeconds,
			"weight":          entry.Weight,
		},
	}, nil
}

type emptyArgs struct{}

func (d Deps) getTodaySummary(ctx context.Context, tc *tools.Context, _ emptyArgs) (*tools.Result, error) {
	from, to := tc.LocalDayBounds()
	sets, err := d.Store.QuerySetsByDateRange(ctx, tc.UserID, from, to)
	if err != nil {
		return nil, err
	}
	sum := summarizeSets(sets)

	metrics := &blocks.Metrics{
		Title: "Today",
		Items: []blocks.Metric{
			{Label: "Sets", Value: strconv.Itoa(sum.Sets)},
			{Label: "Reps", Value: strconv.Itoa(sum.Reps)},
			{Label: "Time under tension", Value: formatSeconds(sum.Seconds)},
			{Label: "Exercises", Value: strconv.Itoa(len(sum.ExerciseNames))},
		},
	}
	bl := blocks.List{metrics}
	summary := fmt.Sprintf("%d sets and %d reps logged today.", sum.Sets, sum.Reps)
	if sum.Sets == 0 {
		summary = "Nothing logged today yet."
		bl = append(bl,
			&blocks.QuickLogForm{Title: "Log your first set of the day", DefaultUnit: tc.Unit},
			&blocks.Suggestions{Prompts: []string{"10 pushups", "30 sec plank", "what should I train today"}},
		)
	}

	return &tools.Result{
		Summary: summary,
		Blocks:  bl,
		OutputForModel: map[string]interface{}{
			"sets":      sum.Sets,
			"reps":      sum.Reps,
			"seconds":   sum.Seconds,
			"exercises": sum.ExerciseNames,
		},
	}, nil
}

type ExerciseReportArgs struct {
	ExerciseName string `json:"exercise_name"`
}

const reportWindowDays = 90

func (d Deps) getExerciseReport(ctx context.Context, tc *tools.Context, args ExerciseReportArgs) (*tools.Result, error) {
	name := strings.TrimSpace(args.ExerciseName)
	if name == "" {
		return nil, errors.New("exercise_name is required")
	}
	if len(name) > maxExerciseNameLen {
		return nil, errors.New("exercise name is too long")
	}
	since := tc.LocalNow().AddDate(0, 0, -reportWindowDays)
	sets, err := d.Store.QuerySetsByExercise(ctx, tc.UserID, name, since)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return &tools.Result{
			Summary: fmt.Sprintf("No sets recorded for %s yet.", name),
			Blocks: blocks.List{
				blocks.NewStatus(blocks.ToneInfo, "No history yet", fmt.Sprintf("You have not logged %s in the last %d days.", name, reportWindowDays)),
				&blocks.QuickLogForm{Title: "Log your first set", ExerciseName: name, DefaultUnit: tc.Unit},
			},
			OutputForModel: map[string]interface{}{"exercise": name, "sets": 0},
		}, nil
	}

	metric := blocks.TrendMetricReps
	if ex, err := d.Store.GetExerciseByName(ctx, tc.UserID, name); err == nil && ex.IsTimed {
		metric = blocks.TrendMetricDuration
	}
	trend := buildTrend(sets[0].ExerciseName, fmt.Sprintf("Last %d days", reportWindowDays), metric, sets, tc.TimezoneOffsetMinutes)

	unitWord := "reps"
	if metric == blocks.TrendMetricDuration {
		unitWord = "seconds"
	}
	return &tools.Result{
		Summary: fmt.Sprintf("%s: %d sets over %d active days, %g %s total.",
			sets[0].ExerciseName, len(sets), len(trend.Points), trend.Total, unitWord),
		Blocks: blocks.List{trend},
		OutputForModel: map[string]interface{}{
			"exercise":   sets[0].ExerciseName,
			"sets":       len(sets),
			"activeDays": len(trend.Points),
			"total":      trend.Total,
			"metric":     string(metric),
		},
	}, nil
}

type SetWeightUnitArgs struct {
	Unit string `json:"unit"`
}

func (d Deps) setWeightUnit(ctx context.Context, tc *tools.Context, args SetWeightUnitArgs) (*tools.Result, error) {
	unit := strings.ToLower(strings.TrimSpace(args.Unit))
	if unit != "kg" && unit != "lbs" {
		return nil, errors.Errorf("unit must be kg or lbs, got %q", args.Unit)
	}
	if _, err := d.Store.PatchUser(ctx, tc.UserID, UserPatch{Unit: &unit}); err != nil {
		return nil, err
	}
	return &tools.Result{
		Summary: fmt.Sprintf("Weight unit set to %s.", unit),
		Blocks: blocks.List{
			blocks.NewSetWeightUnitAction(unit),
			blocks.NewStatus(blocks.ToneSuccess, "Unit updated", fmt.Sprintf("Weights now display in %s.", unit)),
		},
		OutputForModel: map[string]interface{}{"unit": unit},
	}, nil
}

type SetSoundArgs struct {
	Enabled bool `json:"enabled"`
}

func (d Deps) setSound(ctx context.Context, tc *tools.Context, args SetSoundArgs) (*tools.Result, error) {
	enabled := args.Enabled
	if _, err := d.Store.PatchUser(ctx, tc.UserID, UserPatch{SoundEnabled: &enabled}); err != nil {
		return nil, err
	}
	state := "off"
	if enabled {
		state = "on"
	}
	return &tools.Result{
		Summary: fmt.Sprintf("Sound turned %s.", state),
		Blocks: blocks.List{
			blocks.NewSetSoundAction(enabled),
			blocks.NewStatus(blocks.ToneSuccess, "Sound "+state, ""),
		},
		OutputForModel: map[string]interface{}{"enabled": enabled},
	}, nil
}

var defaultSuggestions = []string{
	"10 pushups",
	"30 sec plank",
	"what did I do today",
	"show my exercise library",
}

func (d Deps) getFocusSuggestions(ctx context.Context, tc *tools.Context, _ emptyArgs) (*tools.Result, error) {
	weekAgo := tc.LocalNow().AddDate(0, 0, -7)
	recent, err := d.Store.QuerySetsByDateRange(ctx, tc.UserID, weekAgo, tc.LocalNow().Add(time.Hour))
	if err != nil {
		return nil, err
	}
	trained := map[string]bool{}
	for _, se := range recent {
		trained[strings.ToLower(se.ExerciseName)] = true
	}

	library, err := d.Store.ListExercises(ctx, tc.UserID, false)
	if err != nil {
		return nil, err
	}

	prompts := []string{}
	for _, ex := range library {
		if trained[strings.ToLower(ex.Name)] {
			continue
		}
		if ex.IsTimed {
			prompts = append(prompts, fmt.Sprintf("30 sec %s", strings.ToLower(ex.Name)))
		} else {
			prompts = append(prompts, fmt.Sprintf("10 %s", strings.ToLower(ex.Name)))
		}
		if len(prompts) == blocks.MaxSuggestionPrompts {
			break
		}
	}
	summary := "Here is what you have not trained this week."
	if len(prompts) == 0 {
		prompts = defaultSuggestions
		summary = "You covered everything recently; here are some starters."
	}

	return &tools.Result{
		Summary:        summary,
		Blocks:         blocks.List{&blocks.Suggestions{Prompts: prompts}},
		OutputForModel: map[string]interface{}{"prompts": prompts},
	}, nil
}

func (d Deps) getHistoryOverview(ctx context.Context, tc *tools.Context, _ emptyArgs) (*tools.Result, error) {
	_, todayEnd := tc.LocalDayBounds()
	from := todayEnd.AddDate(0, 0, -7)
	sets, err := d.Store.QuerySetsByDateRange(ctx, tc.UserID, from, todayEnd)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return &tools.Result{
			Summary: "No sets logged in the last 7 days.",
			Blocks: blocks.List{
				blocks.NewStatus(blocks.ToneInfo, "No recent activity", "Nothing logged in the last 7 days."),
			},
			OutputForModel: map[string]interface{}{"days": 0},
		}, nil
	}

	byDay := map[time.Time]setSummary{}
	var days []time.Time
	for _, se := range sets {
		day := localDate(se.PerformedAt, tc.TimezoneOffsetMinutes)
		if _, ok := byDay[day]; !ok {
			days = append(days, day)
		}
		s := byDay[day]
		s.Sets++
		s.Reps += se.Reps
		s.Seconds += se.DurationSeconds
		byDay[day] = s
	}

	table := &blocks.Table{Title: "Last 7 days"}
	for _, day := range days {
		s := byDay[day]
		table.Rows = append(table.Rows, blocks.TableRow{
			Label: day.Format("Mon Jan 2"),
			Value: fmt.Sprintf("%d sets", s.Sets),
			Meta:  fmt.Sprintf("%d reps, %s", s.Reps, formatSeconds(s.Seconds)),
		})
	}

	return &tools.Result{
		Summary:        fmt.Sprintf("Active on %d of the last 7 days.", len(days)),
		Blocks:         blocks.List{table},
		OutputForModel: map[string]interface{}{"days": len(days), "sets": len(sets)},
	}, nil
}

func (d Deps) getAnalyticsOverview(ctx context.Context, tc *tools.Context, _ emptyArgs) (*tools.Result, error) {
	_, todayEnd := tc.LocalDayBounds()
	from := todayEnd.AddDate(0, 0, -30)
	sets, err := d.Store.QuerySetsByDateRange(ctx, tc.UserID, from, todayEnd)
	if err != nil {
		return nil, err
	}
	sum := summarizeSets(sets)

	activeDays := map[time.Time]bool{}
	for _, se := range sets {
		activeDays[localDate(se.PerformedAt, tc.TimezoneOffsetMinutes)] = true
	}

	metrics := &blocks.Metrics{
		Title: "Last 30 days",
		Items: []blocks.Metric{
			{Label: "Sets", Value: strconv.Itoa(sum.Sets)},
			{Label: "Reps", Value: strconv.Itoa(sum.Reps)},
			{Label: "Time under tension", Value: formatSeconds(sum.Seconds)},
			{Label: "Active days", Value: strconv.Itoa(len(activeDays))},
		},
	}
	bl := blocks.List{metrics}

	top := topExercises(sets, 5)
	if len(top) > 0 {
		table := &blocks.Table{Title: "Top exercises"}
		for _, v := range top {
			table.Rows = append(table.Rows, blocks.TableRow{
				Label: v.Name,
				Value: fmt.Sprintf("%d sets", v.Sets),
				Meta:  fmt.Sprintf("%d reps", v.Reps),
			})
		}
		bl = append(bl, table)
	}

	return &tools.Result{
		Summary:        fmt.Sprintf("%d sets across %d active days in the last 30 days.", sum.Sets, len(activeDays)),
		Blocks:         bl,
		OutputForModel: map[string]interface{}{"sets": sum.Sets, "reps": sum.Reps, "activeDays": len(activeDays)},
	}, nil
}

func (d Deps) getExerciseLibrary(ctx context.Context, tc *tools.Context, _ emptyArgs) (*tools.Result, error) {
	library, err := d.Store.ListExercises(ctx, tc.UserID, false)
	if err != nil {
		return nil, err
	}
	list := &blocks.EntityList{
		Title:      "Exercise library",
		EmptyLabel: "No exercises yet. Log a set to create one.",
	}
	for _, ex := range library {
		if len(list.Items) == blocks.MaxEntityItems {
			break
		}
		prompt := fmt.Sprintf("10 %s", strings.ToLower(ex.Name))
		if ex.IsTimed {
			prompt = fmt.Sprintf("30 sec %s", strings.ToLower(ex.Name))
		}
		list.Items = append(list.Items, blocks.EntityItem{
			ID:       ex.ID,
			Title:    ex.Name,
			Subtitle: strings.Join(ex.MuscleGroups, ", "),
			Tags:     ex.MuscleGroups,
			Prompt:   prompt,
		})
	}
	return &tools.Result{
		Summary:        fmt.Sprintf("You have %d exercises.", len(library)),
		Blocks:         blocks.List{list},
		OutputForModel: map[string]interface{}{"count": len(library)},
	}, nil
}

func (d Deps) getSettingsOverview(ctx context.Context, tc *tools.Context, _ emptyArgs) (*tools.Result, error) {
	u, err := d.Store.GetUser(ctx, tc.UserID)
	if err != nil {
		return nil, err
	}
	sound := "off"
	if u.SoundEnabled {
		sound = "on"
	}
	panel := &blocks.DetailPanel{
		Title: "Settings",
		Fields: []blocks.DetailField{
			{Label: "Weight unit", Value: u.Unit, Emphasis: true},
			{Label: "Sound", Value: sound},
		},
		Prompts: []string{"set unit to kg", "set unit to lbs", "turn sound off"},
	}
	if u.TrainingSplit != "" {
		panel.Fields = append(panel.Fields, blocks.DetailField{Label: "Training split", Value: u.TrainingSplit})
	}
	if u.CoachNotes != "" {
		panel.Fields = append(panel.Fields, blocks.DetailField{Label: "Coach notes", Value: u.CoachNotes})
	}
	return &tools.Result{
		Summary:        fmt.Sprintf("Unit %s, sound %s.", u.Unit, sound),
		Blocks:         blocks.List{panel},
		OutputForModel: map[string]interface{}{"unit": u.Unit, "soundEnabled": u.SoundEnabled},
	}, nil
}

func (d Deps) getBillingStatus(ctx context.Context, tc *tools.Context, _ emptyArgs) (*tools.Result, error) {
	if d.Biller == nil {
		return nil, errors.New("billing is not configured")
	}
	sub, err := d.Biller.GetSubscription(ctx, tc.UserID)
	if err != nil {
		return nil, err
	}

	panel := &blocks.BillingPanel{Status: sub.Status}
	switch sub.Status {
	case blocks.BillingTrial:
		days := sub.TrialDaysRemaining
		panel.Title = "Free trial"
		panel.Subtitle = fmt.Sprintf("%d days remaining", days)
		panel.TrialDaysRemaining = &days
		panel.CTALabel = "Upgrade"
		panel.CTAAction = blocks.CTAOpenCheckout
	case blocks.BillingActive:
		panel.Title = "Subscription active"
		if !sub.PeriodEnd.IsZero() {
			panel.PeriodEnd = sub.PeriodEnd.Format("2006-01-02")
			panel.Subtitle = "Renews " + sub.PeriodEnd.Format("Jan 2, 2006")
		}
		panel.CTALabel = "Manage billing"
		panel.CTAAction = blocks.CTAOpenBillingPortal
	case blocks.BillingPastDue:
		panel.Title = "Payment past due"
		panel.Subtitle = "Update your payment method to keep access."
		panel.CTALabel = "Fix payment"
		panel.CTAAction = blocks.CTAOpenBillingPortal
	default:
		panel.Title = "Subscription inactive"
		panel.CTALabel = "Subscribe"
		panel.CTAAction = blocks.CTAOpenCheckout
	}

	return &tools.Result{
		Summary:        fmt.Sprintf("Billing status: %s.", sub.Status),
		Blocks:         blocks.List{panel},
		OutputForModel: map[string]interface{}{"status": string(sub.Status)},
	}, nil
}

type RenameExerciseArgs struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (d Deps) renameExercise(ctx context.Context, tc *tools.Context, args RenameExerciseArgs) (*tools.Result, error) {
	if strings.TrimSpace(args.From) == "" || strings.TrimSpace(args.To) == "" {
		return nil, errors.New("both from and to names are required")
	}
	ex, err := d.Store.RenameExercise(ctx, tc.UserID, args.From, args.To)
	if err != nil {
		return nil, err
	}
	bl := blocks.List{blocks.NewStatus(blocks.ToneSuccess, "Exercise renamed",
		fmt.Sprintf("%s is now %s.", args.From, ex.Name))}
	if d.Undo != nil {
		userID, from, to := tc.UserID, args.From, ex.Name
		e := d.Undo.Register(tc.TurnID, fmt.Sprintf("Renamed %s to %s", from, to), func(ctx context.Context) error {
			_, err := d.Store.RenameExercise(ctx, userID, to, from)
			return err
		})
		bl = append(bl, &blocks.Undo{ActionID: e.ActionID, TurnID: tc.TurnID, Title: "Undo rename"})
	}
	return &tools.Result{
		Summary:        fmt.Sprintf("Renamed %s to %s.", args.From, ex.Name),
		Blocks:         bl,
		OutputForModel: map[string]interface{}{"name": ex.Name},
	}, nil
}

type ExerciseNameArgs struct {
	ExerciseName string `json:"exercise_name"`
}

func (d Deps) deleteExercise(ctx context.Context, tc *tools.Context, args ExerciseNameArgs) (*tools.Result, error) {
	ex, err := d.Store.SetExerciseDeleted(ctx, tc.UserID, args.ExerciseName, true)
	if err != nil {
		return nil, err
	}
	bl := blocks.List{blocks.NewStatus(blocks.ToneSuccess, "Exercise deleted",
		fmt.Sprintf("%s was removed from your library. Its history is kept.", ex.Name))}
	if d.Undo != nil {
		userID, name := tc.UserID, ex.Name
		e := d.Undo.Register(tc.TurnID, "Deleted "+name, func(ctx context.Context) error {
			_, err := d.Store.SetExerciseDeleted(ctx, userID, name, false)
			return err
		})
		bl = append(bl, &blocks.Undo{ActionID: e.ActionID, TurnID: tc.TurnID, Title: "Undo delete"})
	}
	return &tools.Result{
		Summary:        fmt.Sprintf("Deleted %s.", ex.Name),
		Blocks:         bl,
		OutputForModel: map[string]interface{}{"name": ex.Name, "deleted": true},
	}, nil
}

func (d Deps) restoreExercise(ctx context.Context, tc *tools.Context, args ExerciseNameArgs) (*tools.Result, error) {
	ex, err := d.Store.SetExerciseDeleted(ctx, tc.UserID, args.ExerciseName, false)
	if err != nil {
		return nil, err
	}
	return &tools.Result{
		Summary: fmt.Sprintf("Restored %s.", ex.Name),
		Blocks: blocks.List{blocks.NewStatus(blocks.ToneSuccess, "Exercise restored",
			fmt.Sprintf("%s is back in your library.", ex.Name))},
		OutputForModel: map[string]interface{}{"name": ex.Name, "deleted": false},
	}, nil
}

type DeleteSetArgs struct {
	SetID string `json:"set_id"`
}

func (d Deps) deleteSet(ctx context.Context, tc *tools.Context, args DeleteSetArgs) (*tools.Result, error) {
	if strings.TrimSpace(args.SetID) == "" {
		return nil, errors.New("set_id is required")
	}
	entry, err := d.Store.DeleteSet(ctx, tc.UserID, args.SetID)
	if err != nil {
		return nil, err
	}
	label := "Deleted " + describeSet(entry)
	bl := blocks.List{blocks.NewStatus(blocks.ToneSuccess, "Set deleted", describeSet(entry))}
	if d.Undo != nil {
		userID := tc.UserID
		restored := *entry
		e := d.Undo.Register(tc.TurnID, label, func(ctx context.Context) error {
			cp := restored
			return d.Store.InsertSet(ctx, userID, &cp)
		})
		bl = append(bl, &blocks.Undo{ActionID: e.ActionID, TurnID: tc.TurnID, Title: "Undo", Description: label})
	}
	return &tools.Result{
		Summary:        label,
		Blocks:         bl,
		OutputForModel: map[string]interface{}{"setId": entry.ID},
	}, nil
}

type SetMuscleGroupsArgs struct {
	ExerciseName string   `json:"exercise_name"`
	Groups       []string `json:"groups"`
}

func (d Deps) setMuscleGroups(ctx context.Context, tc *tools.Context, args SetMuscleGroupsArgs) (*tools.Result, error) {
	ex, err := d.Store.SetMuscleGroups(ctx, tc.UserID, args.ExerciseName, args.Groups)
	if err != nil {
		return nil, err
	}
	return &tools.Result{
		Summary: fmt.Sprintf("Tagged %s with %s.", ex.Name, strings.Join(ex.MuscleGroups, ", ")),
		Blocks: blocks.List{blocks.NewStatus(blocks.ToneSuccess, "Muscle groups updated",
			fmt.Sprintf("%s: %s", ex.Name, strings.Join(ex.MuscleGroups, ", ")))},
		OutputForModel: map[string]interface{}{"name": ex.Name, "groups": ex.MuscleGroups},
	}, nil
}

type SetTrainingSplitArgs struct {
	Split string `json:"split"`
}

func (d Deps) setTrainingSplit(ctx context.Context, tc *tools.Context, args SetTrainingSplitArgs) (*tools.Result, error) {
	split := strings.TrimSpace(args.Split)
	if split == "" {
		return nil, errors.New("split is required")
	}
	if _, err := d.Store.PatchUser(ctx, tc.UserID, UserPatch{TrainingSplit: &split}); err != nil {
		return nil, err
	}
	return &tools.Result{
		Summary:        "Training split updated.",
		Blocks:         blocks.List{blocks.NewStatus(blocks.ToneSuccess, "Training split updated", split)},
		OutputForModel: map[string]interface{}{"split": split},
	}, nil
}

type SetCoachNotesArgs struct {
	Notes string `json:"notes"`
}

func (d Deps) setCoachNotes(ctx context.Context, tc *tools.Context, args SetCoachNotesArgs) (*tools.Result, error) {
	notes := strings.TrimSpace(args.Notes)
	if _, err := d.Store.PatchUser(ctx, tc.UserID, UserPatch{CoachNotes: &notes}); err != nil {
		return nil, err
	}
	return &tools.Result{
		Summary:        "Coach notes saved.",
		Blocks:         blocks.List{blocks.NewStatus(blocks.ToneSuccess, "Coach notes saved", "")},
		OutputForModel: map[string]interface{}{"notes": notes},
	}, nil
}
