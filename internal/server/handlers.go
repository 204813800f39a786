// ABOUTME: HTTP handlers for the training tracker API.
// ABOUTME: OAuth flow, sync triggers, plan reads, AI analysis, and journal writes.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harperreed/trainer/internal/coach"
	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
	"github.com/harperreed/trainer/internal/strava"
	"github.com/harperreed/trainer/internal/syncer"
)

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": s.now().UTC(),
	})
}

// stravaConnect starts the OAuth flow by bouncing the browser to the
// Strava consent screen.
func (s *Server) stravaConnect(c *gin.Context) {
	if err := s.cfg.Validate(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Redirect(http.StatusFound, s.strava.AuthorizeURL(s.cfg.RedirectURI()))
}

// stravaCallback finishes the OAuth flow: exchanges the code, stores the
// token triple, and bounces back to the app root with a status flag.
func (s *Server) stravaCallback(c *gin.Context) {
	if e := c.Query("error"); e != "" {
		c.Redirect(http.StatusFound, "/?error="+url.QueryEscape(e))
		return
	}
	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, "/?error=no_code")
		return
	}

	token, err := s.strava.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		s.logger.Error("strava code exchange failed", zap.Error(err))
		c.Redirect(http.StatusFound, "/?error=token_exchange_failed")
		return
	}
	if token.Athlete == nil {
		s.logger.Error("strava exchange response missing athlete")
		c.Redirect(http.StatusFound, "/?error=token_exchange_failed")
		return
	}

	athleteData, err := json.Marshal(token.Athlete)
	if err != nil {
		c.Redirect(http.StatusFound, "/?error=unknown_error")
		return
	}

	cred := &models.Credential{
		AthleteID:    token.Athlete.ID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.ExpiresAt,
		AthleteData:  athleteData,
		UpdatedAt:    s.now().UTC(),
	}
	if err := s.repo.UpsertCredential(cred); err != nil {
		s.logger.Error("store credential failed", zap.Error(err))
		c.Redirect(http.StatusFound, "/?error=unknown_error")
		return
	}

	s.logger.Info("strava connected",
		zap.Int64("athlete_id", token.Athlete.ID),
		zap.String("athlete", token.Athlete.FirstName))
	c.Redirect(http.StatusFound,
		"/?success=strava_connected&athlete="+url.QueryEscape(token.Athlete.FirstName))
}

// stravaSync triggers a sync. ?full=true skips the incremental cursor,
// ?athlete=<id> picks the athlete when several are connected.
func (s *Server) stravaSync(c *gin.Context) {
	full := c.Query("full") == "true"

	var explicit int64
	if raw := c.Query("athlete"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid athlete id"})
			return
		}
		explicit = id
	}

	s.runSync(c, explicit, full, "Sync completed")
}

// cronSync is the scheduled incremental sync. In production it requires
// the bearer cron secret; in development it is open for local testing.
func (s *Server) cronSync(c *gin.Context) {
	if s.cfg.Production() && !s.authorizedCron(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	s.runSync(c, 0, false, "Cron sync completed")
}

func (s *Server) authorizedCron(c *gin.Context) bool {
	return s.cfg.CronSecret != "" &&
		c.GetHeader("Authorization") == "Bearer "+s.cfg.CronSecret
}

func (s *Server) runSync(c *gin.Context, explicit int64, full bool, message string) {
	athleteID, err := s.syncer.ResolveAthleteID(explicit)
	if err != nil {
		s.syncError(c, err)
		return
	}

	res, err := s.syncer.Sync(c.Request.Context(), athleteID, full)
	if err != nil {
		s.syncError(c, err)
		return
	}
	s.metrics.syncedTotal.Add(float64(res.Synced))

	// New activities change the weekly numbers, so recompute and drop
	// cached reads.
	if res.Synced > 0 {
		if _, err := s.rollup.All(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Rollup failed", "details": err.Error()})
			return
		}
		s.cache.InvalidateAll(c.Request.Context())
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   message,
		"synced":    res.Synced,
		"skipped":   res.Skipped,
		"total":     res.Total,
		"truncated": res.Truncated,
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) syncError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, syncer.ErrNoCredential):
		c.JSON(http.StatusNotFound, gin.H{"error": "No Strava account connected"})
	case errors.Is(err, syncer.ErrAmbiguousCredential):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Multiple athletes connected, pass ?athlete=<id>"})
	case strava.IsAuthError(err):
		s.logger.Error("strava auth failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Strava authorization failed"})
	default:
		s.logger.Error("sync failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sync failed", "details": err.Error()})
	}
}

type analyzeRequest struct {
	WeekID       string `json:"week_id" binding:"required"`
	AnalysisType string `json:"analysis_type"`
}

func (s *Server) aiAnalyze(c *gin.Context) {
	if s.analyzer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI analysis not configured"})
		return
	}

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week_id is required"})
		return
	}
	weekID, err := uuid.Parse(req.WeekID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_id"})
		return
	}
	if req.AnalysisType == "" {
		req.AnalysisType = coach.AnalysisWeeklyReview
	}

	res, err := s.analyzer.Analyze(c.Request.Context(), weekID, req.AnalysisType)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "week not found"})
		return
	}
	if err != nil {
		s.logger.Error("ai analysis failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not generate analysis"})
		return
	}
	c.JSON(http.StatusOK, res)
}

type weekWithSummary struct {
	*models.Week
	Summary *models.WeeklySummary `json:"summary,omitempty"`
}

func (s *Server) listWeeks(c *gin.Context) {
	weeks, err := s.repo.ListWeeks()
	if err != nil {
		s.storageError(c, err)
		return
	}
	summaries, err := s.repo.ListWeeklySummaries()
	if err != nil {
		s.storageError(c, err)
		return
	}

	byWeek := make(map[uuid.UUID]*models.WeeklySummary, len(summaries))
	for _, sum := range summaries {
		byWeek[sum.WeekID] = sum
	}

	out := make([]weekWithSummary, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, weekWithSummary{Week: w, Summary: byWeek[w.ID]})
	}
	c.JSON(http.StatusOK, out)
}

type weekDetail struct {
	Week       *models.Week             `json:"week"`
	Phase      *models.Phase            `json:"phase"`
	Summary    *models.WeeklySummary    `json:"summary,omitempty"`
	Workouts   []*models.PlannedWorkout `json:"workouts"`
	Activities []*models.Activity       `json:"activities"`
}

func (s *Server) currentWeek(c *gin.Context) {
	week, err := s.repo.CurrentWeek(s.now())
	if err != nil {
		s.storageError(c, err)
		return
	}
	s.renderWeekDetail(c, week)
}

func (s *Server) getWeek(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week id"})
		return
	}
	week, err := s.repo.GetWeek(id)
	if err != nil {
		s.storageError(c, err)
		return
	}
	s.renderWeekDetail(c, week)
}

func (s *Server) renderWeekDetail(c *gin.Context, week *models.Week) {
	phase, err := s.repo.GetPhase(week.PhaseID)
	if err != nil {
		s.storageError(c, err)
		return
	}
	summary, err := s.repo.GetWeeklySummary(week.ID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.storageError(c, err)
		return
	}
	workouts, err := s.repo.ListPlannedWorkoutsByWeek(week.ID)
	if err != nil {
		s.storageError(c, err)
		return
	}
	activities, err := s.repo.ListActivitiesInRange(week.StartDate, week.EndExclusive())
	if err != nil {
		s.storageError(c, err)
		return
	}

	if workouts == nil {
		workouts = []*models.PlannedWorkout{}
	}
	if activities == nil {
		activities = []*models.Activity{}
	}
	c.JSON(http.StatusOK, weekDetail{
		Week:       week,
		Phase:      phase,
		Summary:    summary,
		Workouts:   workouts,
		Activities: activities,
	})
}

func (s *Server) listPhases(c *gin.Context) {
	phases, err := s.repo.ListPhases()
	if err != nil {
		s.storageError(c, err)
		return
	}
	if phases == nil {
		phases = []*models.Phase{}
	}
	c.JSON(http.StatusOK, phases)
}

func (s *Server) currentPhase(c *gin.Context) {
	phase, err := s.repo.CurrentPhase(s.now())
	if err != nil {
		s.storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, phase)
}

// progress reports plan-wide totals: planned km across all weeks against
// the summed rollups, plus the race countdown.
func (s *Server) progress(c *gin.Context) {
	weeks, err := s.repo.ListWeeks()
	if err != nil {
		s.storageError(c, err)
		return
	}
	summaries, err := s.repo.ListWeeklySummaries()
	if err != nil {
		s.storageError(c, err)
		return
	}

	var targetKm, actualKm, actualElevation, actualHours float64
	var activityCount int
	for _, w := range weeks {
		if w.TargetKm != nil {
			targetKm += *w.TargetKm
		}
	}
	for _, sum := range summaries {
		actualKm += sum.ActualKm
		actualElevation += sum.ActualElevation
		actualHours += sum.ActualHours
		activityCount += sum.ActualActivities
	}

	out := gin.H{
		"weeks":            len(weeks),
		"total_target_km":  models.Round1(targetKm),
		"total_actual_km":  models.Round1(actualKm),
		"total_elevation":  actualElevation,
		"total_hours":      models.Round1(actualHours),
		"total_activities": activityCount,
		"race_date":        s.cfg.RaceDate.Format("2006-01-02"),
		"days_until_race":  int(s.cfg.RaceDate.Sub(models.CivilDate(s.now())).Hours() / 24),
	}
	if targetKm > 0 {
		out["completion_percentage"] = int(actualKm/targetKm*100 + 0.5)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listActivities(c *gin.Context) {
	limit := 30
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	activities, err := s.repo.ListActivities(limit)
	if err != nil {
		s.storageError(c, err)
		return
	}
	if activities == nil {
		activities = []*models.Activity{}
	}
	c.JSON(http.StatusOK, activities)
}

func (s *Server) workoutsToday(c *gin.Context) {
	workouts, err := s.repo.ListPlannedWorkoutsByDate(models.CivilDate(s.now()))
	if err != nil {
		s.storageError(c, err)
		return
	}
	if workouts == nil {
		workouts = []*models.PlannedWorkout{}
	}
	c.JSON(http.StatusOK, workouts)
}

func (s *Server) listLifestyle(c *gin.Context) {
	limit := 30
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	logs, err := s.repo.ListLifestyleLogs(limit)
	if err != nil {
		s.storageError(c, err)
		return
	}
	if logs == nil {
		logs = []*models.LifestyleLog{}
	}
	c.JSON(http.StatusOK, logs)
}

type lifestyleRequest struct {
	Date          string   `json:"date" binding:"required"`
	SleepHours    *float64 `json:"sleep_hours"`
	SleepQuality  *int     `json:"sleep_quality"`
	WeightKg      *float64 `json:"weight_kg"`
	EnergyLevel   *int     `json:"energy_level"`
	SorenessLevel *int     `json:"soreness_level"`
	StressLevel   *int     `json:"stress_level"`
	Notes         *string  `json:"notes"`
	NoSugar       *bool    `json:"no_sugar"`
}

func (s *Server) createLifestyle(c *gin.Context) {
	var req lifestyleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	l := models.NewLifestyleLog(date)
	l.SleepHours = req.SleepHours
	l.SleepQuality = req.SleepQuality
	l.WeightKg = req.WeightKg
	l.EnergyLevel = req.EnergyLevel
	l.SorenessLevel = req.SorenessLevel
	l.StressLevel = req.StressLevel
	l.Notes = req.Notes
	l.NoSugar = req.NoSugar

	if err := s.repo.CreateLifestyleLog(l); err != nil {
		s.storageError(c, err)
		return
	}
	s.cache.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusCreated, l)
}

func (s *Server) listGoals(c *gin.Context) {
	goals, err := s.repo.ListGoals()
	if err != nil {
		s.storageError(c, err)
		return
	}
	if goals == nil {
		goals = []*models.Goal{}
	}
	c.JSON(http.StatusOK, goals)
}

type goalRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description *string  `json:"description"`
	TargetDate  *string  `json:"target_date"`
	GoalType    *string  `json:"goal_type"`
	TargetValue *float64 `json:"target_value"`
}

func (s *Server) createGoal(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	g := models.NewGoal(req.Title)
	g.Description = req.Description
	g.GoalType = req.GoalType
	g.TargetValue = req.TargetValue
	if req.TargetDate != nil {
		date, err := time.Parse("2006-01-02", *req.TargetDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "target_date must be YYYY-MM-DD"})
			return
		}
		g.TargetDate = &date
	}

	if err := s.repo.CreateGoal(g); err != nil {
		s.storageError(c, err)
		return
	}
	s.cache.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusCreated, g)
}

func (s *Server) storageError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	s.logger.Error("storage error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
