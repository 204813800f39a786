// ABOUTME: Write handlers for authoring the training plan over HTTP.
// ABOUTME: Phases accept nested weeks and workouts for bulk creation.
package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harperreed/trainer/internal/plan"
	"github.com/harperreed/trainer/internal/storage"
)

func (s *Server) createPhase(c *gin.Context) {
	var req plan.PhaseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, start_date, and end_date are required"})
		return
	}

	phase, res, err := plan.AddPhase(s.repo, &req, nil)
	if err != nil {
		s.planError(c, err)
		return
	}
	s.cache.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{
		"phase":    phase,
		"weeks":    res.Weeks,
		"workouts": res.Workouts,
	})
}

type weekRequest struct {
	PhaseID string `json:"phase_id" binding:"required"`
	plan.WeekInput
}

func (s *Server) createWeek(c *gin.Context) {
	var req weekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phase_id, week_number, start_date, and end_date are required"})
		return
	}
	phaseID, err := uuid.Parse(req.PhaseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phase_id"})
		return
	}
	if _, err := s.repo.GetPhase(phaseID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown phase_id"})
			return
		}
		s.storageError(c, err)
		return
	}

	week, _, err := plan.AddWeek(s.repo, phaseID, &req.WeekInput, nil)
	if err != nil {
		s.planError(c, err)
		return
	}
	s.cache.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusCreated, week)
}

type workoutRequest struct {
	WeekID string `json:"week_id" binding:"required"`
	plan.WorkoutInput
}

func (s *Server) createWorkout(c *gin.Context) {
	var req workoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week_id, date, and workout_type are required"})
		return
	}
	weekID, err := uuid.Parse(req.WeekID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_id"})
		return
	}
	if _, err := s.repo.GetWeek(weekID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown week_id"})
			return
		}
		s.storageError(c, err)
		return
	}

	pw, err := plan.AddWorkout(s.repo, weekID, &req.WorkoutInput, nil)
	if err != nil {
		s.planError(c, err)
		return
	}
	s.cache.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusCreated, pw)
}

// planError maps authoring failures: validation problems are the
// caller's, anything else is storage.
func (s *Server) planError(c *gin.Context, err error) {
	if errors.Is(err, plan.ErrInvalid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.storageError(c, err)
}
