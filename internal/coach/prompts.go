// ABOUTME: Prompt construction for the AI coach.
// ABOUTME: One system prompt, per-type user prompts built from the week context.
package coach

import (
	"fmt"
	"strings"
)

// Analysis types accepted by the coach. Anything else falls back to a
// generic progress assessment.
const (
	AnalysisWeeklyReview   = "weekly_review"
	AnalysisPlanAdjustment = "plan_adjustment"
	AnalysisMotivation     = "motivation"
)

const systemPrompt = `You are an experienced ultrarunning coach helping a 51-year-old runner prepare for Gotland Rundt 2026, a 511 km stage race over 10 days in July. The goal is 80-100 km per day.

The runner has previously finished Vol State 500k (579 km in 6.7 days) in August 2024, so you know they have the capacity.

Important considerations:
- Age 51: longer recovery, strength training matters
- Building up from zero after a long break
- Lifestyle: cutting soda, focusing on sleep and diet
- Walking is a deliberate part of the training

IMPORTANT: You are told today's date and the week's status (future, current, or past).
- If the week is in the future: give preparation tips and what to focus on
- If the week is in progress: judge progress by how many days have passed
- If the week is over: give a full analysis of the results

Be concrete and practical. Do not be too kind; give honest feedback.`

// SystemPrompt returns the coach persona shared by all analysis types.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt renders the per-type user message from the week context.
func UserPrompt(analysisType string, ac *AnalysisContext) string {
	dateContext := dateContextLines(ac)

	switch analysisType {
	case AnalysisWeeklyReview:
		return weeklyReviewPrompt(dateContext, ac)
	case AnalysisPlanAdjustment:
		return planAdjustmentPrompt(dateContext, ac)
	case AnalysisMotivation:
		return motivationPrompt(dateContext, ac)
	default:
		return fmt.Sprintf("%s\n\nGive a general assessment of training progress for week %d.",
			dateContext, ac.Week.WeekNumber)
	}
}

func dateContextLines(ac *AnalysisContext) string {
	day := "2006-01-02"
	switch ac.Status {
	case WeekFuture:
		return fmt.Sprintf(`NOTE: this week has NOT started yet.
Today's date: %s
The week starts: %s (in %d days)
It is therefore expected that no activities are recorded.`,
			ac.Today.Format(day), ac.Week.StartDate.Format(day), ac.DaysLeftInWeek)
	case WeekCurrent:
		return fmt.Sprintf(`NOTE: this week is IN PROGRESS.
Today's date: %s
We are on day %d of 7 in this week.
%d days remain.
Only judge sessions that should have been completed by today.`,
			ac.Today.Format(day), ac.DaysIntoWeek, ac.DaysLeftInWeek)
	default:
		return fmt.Sprintf(`This week is OVER.
The week was: %s - %s
A full analysis can be done.`,
			ac.Week.StartDate.Format(day), ac.Week.EndDate.Format(day))
	}
}

func weeklyReviewPrompt(dateContext string, ac *AnalysisContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze week %d (%s phase):\n\n%s\n\n",
		ac.Week.WeekNumber, ac.Phase.Name, dateContext)

	b.WriteString("ABOUT THE WEEK:\n")
	if ac.Week.Notes != nil && *ac.Week.Notes != "" {
		b.WriteString(*ac.Week.Notes)
	} else {
		b.WriteString("No particular notes")
	}

	fmt.Fprintf(&b, "\n\nPLANNED FOR THE FULL WEEK:\n- Target: %s km\n- Sessions: %d\n- Elevation: %s m\n",
		floatOrDash(ac.Week.TargetKm), len(ac.Workouts), floatOrDash(ac.Week.TargetElevation))

	b.WriteString("\nPLANNED SESSIONS:\n")
	if len(ac.Workouts) == 0 {
		b.WriteString("No sessions planned\n")
	}
	for _, w := range ac.Workouts {
		tag := "[UPCOMING]"
		if w.Date.Before(ac.Today) {
			tag = "[PAST]"
		} else if w.Date.Equal(ac.Today) {
			tag = "[TODAY]"
		}
		title := w.WorkoutType
		if w.Title != nil {
			title = *w.Title
		}
		intensity := "-"
		if w.Intensity != nil {
			intensity = *w.Intensity
		}
		fmt.Fprintf(&b, "- %s: %s (%s km, %s) %s\n",
			w.Date.Format("2006-01-02"), title, floatOrDash(w.TargetKm), intensity, tag)
	}

	actualKm, actualElevation := 0.0, 0.0
	if ac.Summary != nil {
		actualKm = ac.Summary.ActualKm
		actualElevation = ac.Summary.ActualElevation
	}
	fmt.Fprintf(&b, "\nACTUAL SO FAR:\n- Completed: %.1f km\n- Sessions done: %d of %d (that should have been done)\n- Elevation: %.0f m\n",
		actualKm, ac.CompletedWorkouts, ac.WorkoutsDue, actualElevation)

	b.WriteString("\nRECORDED ACTIVITIES:\n")
	if len(ac.Activities) == 0 {
		b.WriteString("No activities recorded yet\n")
	}
	for _, a := range ac.Activities {
		name := "Activity"
		if a.Name != nil {
			name = *a.Name
		}
		fmt.Fprintf(&b, "- %s: %s (%s km)\n",
			a.Date.Format("2006-01-02"), name, floatOrDash(a.DistanceKm))
	}

	fmt.Fprintf(&b, "\nDAYS UNTIL THE RACE: %d\n\n", ac.DaysUntilRace)

	b.WriteString("Give a short (3-5 sentences) analysis matched to the week's status:\n")
	switch ac.Status {
	case WeekFuture:
		b.WriteString("1. What should the runner focus on this week?\n2. Which sessions matter most?\n3. Tips for getting off to a good start")
	case WeekCurrent:
		b.WriteString("1. How is the week going so far?\n2. Is the runner on track?\n3. What should be prioritized for the rest of the week?")
	default:
		b.WriteString("1. What went well or poorly?\n2. Is progress on track for the goal?\n3. One concrete piece of advice for next week")
	}
	return b.String()
}

func planAdjustmentPrompt(dateContext string, ac *AnalysisContext) string {
	actualKm := 0.0
	if ac.Summary != nil {
		actualKm = ac.Summary.ActualKm
	}

	status := "Over"
	switch ac.Status {
	case WeekFuture:
		status = "Not started"
	case WeekCurrent:
		status = fmt.Sprintf("Day %d/7", ac.DaysIntoWeek)
	}

	question := "Does the plan need adjustment? Consider:\n1. Is the weekly volume realistic?\n2. Should long runs be adjusted?\n3. Other recommendations?"
	if ac.Status == WeekFuture {
		question = "Does the plan look realistic for this week? Give tips on how the runner should approach it."
	}

	return fmt.Sprintf(`%s

Based on data from week %d (%s):
- Planned: %s km
- Completed so far: %.1f km
- Week status: %s

%s

Be concrete with numbers and suggestions.`,
		dateContext, ac.Week.WeekNumber, ac.Phase.Name,
		floatOrDash(ac.Week.TargetKm), actualKm, status, question)
}

func motivationPrompt(dateContext string, ac *AnalysisContext) string {
	actualKm := 0.0
	if ac.Summary != nil {
		actualKm = ac.Summary.ActualKm
	}

	progress := fmt.Sprintf("Completed %.0f km so far this week (target: %s km).",
		actualKm, floatOrDash(ac.Week.TargetKm))
	opener := "Acknowledges the effort so far"
	if ac.Status == WeekFuture {
		progress = fmt.Sprintf("The week starts in %d days with a target of %s km.",
			ac.DaysLeftInWeek, floatOrDash(ac.Week.TargetKm))
		opener = "Prepares the runner mentally for the week ahead"
	}

	return fmt.Sprintf(`%s

The runner is in week %d of the Gotland Rundt preparation.
%d days left until the start.
Phase: %s

%s

Give a short, motivating message that:
1. %s
2. Keeps focus on the big goal
3. Is honest but supportive`,
		dateContext, ac.Week.WeekNumber, ac.DaysUntilRace, ac.Phase.Name, progress, opener)
}

func floatOrDash(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}
