// ABOUTME: Incremental Strava activity sync: token gating, cursor, dedup.
// ABOUTME: Serializes runs per athlete so overlapping triggers cannot race.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
	"github.com/harperreed/trainer/internal/strava"
)

var (
	// ErrNoCredential means no athlete has completed the OAuth flow.
	ErrNoCredential = errors.New("no strava credential stored")

	// ErrAmbiguousCredential means several athletes are connected and the
	// caller did not say which one to sync.
	ErrAmbiguousCredential = errors.New("multiple strava credentials stored, athlete id required")
)

// cursorSlack is subtracted from the newest stored activity date when
// building the incremental cursor, so edits near the boundary are not
// missed.
const cursorSlack = 24 * time.Hour

// Result reports one sync run. Total is the page size received from
// Strava; Truncated means the page was full and older activities may
// remain unfetched (run a full sync to pick them up).
type Result struct {
	Synced    int  `json:"synced"`
	Skipped   int  `json:"skipped"`
	Total     int  `json:"total"`
	Truncated bool `json:"truncated"`
}

// Syncer pulls activities from Strava into local storage.
type Syncer struct {
	repo   storage.Repository
	client *strava.Client
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// New creates a Syncer.
func New(repo storage.Repository, client *strava.Client, logger *zap.Logger) *Syncer {
	return &Syncer{
		repo:   repo,
		client: client,
		logger: logger,
		now:    time.Now,
		locks:  make(map[int64]*sync.Mutex),
	}
}

// ResolveAthleteID maps an optional explicit athlete id to the one to
// sync. Zero means "whoever is connected", which only works when exactly
// one credential is stored.
func (s *Syncer) ResolveAthleteID(explicit int64) (int64, error) {
	if explicit != 0 {
		return explicit, nil
	}
	creds, err := s.repo.ListCredentials()
	if err != nil {
		return 0, fmt.Errorf("list credentials: %w", err)
	}
	switch len(creds) {
	case 0:
		return 0, ErrNoCredential
	case 1:
		return creds[0].AthleteID, nil
	default:
		return 0, ErrAmbiguousCredential
	}
}

// Sync fetches one page of activities for the athlete and stores the new
// ones. With full set the incremental cursor is skipped and the page
// covers the athlete's most recent activities regardless of what is
// already stored. Concurrent calls for the same athlete serialize.
func (s *Syncer) Sync(ctx context.Context, athleteID int64, full bool) (*Result, error) {
	lock := s.athleteLock(athleteID)
	lock.Lock()
	defer lock.Unlock()

	cred, err := s.repo.GetCredential(athleteID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}

	accessToken := cred.AccessToken
	if cred.Expired(s.now()) {
		accessToken, err = s.refresh(ctx, cred)
		if err != nil {
			return nil, err
		}
	}

	var after *time.Time
	if !full {
		latest, err := s.repo.LatestActivityDate()
		if err != nil {
			return nil, fmt.Errorf("latest activity date: %w", err)
		}
		if latest != nil {
			cursor := latest.Add(-cursorSlack)
			after = &cursor
		}
	}

	page, err := s.client.ListActivities(ctx, accessToken, after)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	res := &Result{Total: len(page), Truncated: len(page) == strava.ActivitiesPerPage}
	for i := range page {
		exists, err := s.repo.ActivityExists(page[i].ID)
		if err != nil {
			return nil, fmt.Errorf("activity exists: %w", err)
		}
		if exists {
			res.Skipped++
			continue
		}

		activity, err := ActivityFromStrava(&page[i], s.now())
		if err != nil {
			return nil, err
		}
		if err := s.repo.UpsertActivity(activity); err != nil {
			return nil, fmt.Errorf("store activity %d: %w", page[i].ID, err)
		}
		res.Synced++
	}

	s.logger.Info("strava sync complete",
		zap.Int64("athlete_id", athleteID),
		zap.Bool("full", full),
		zap.Int("synced", res.Synced),
		zap.Int("skipped", res.Skipped),
		zap.Int("total", res.Total),
		zap.Bool("truncated", res.Truncated))

	return res, nil
}

func (s *Syncer) refresh(ctx context.Context, cred *models.Credential) (string, error) {
	token, err := s.client.RefreshToken(ctx, cred.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}

	cred.AccessToken = token.AccessToken
	cred.RefreshToken = token.RefreshToken
	cred.ExpiresAt = token.ExpiresAt
	cred.UpdatedAt = s.now().UTC()
	if err := s.repo.UpsertCredential(cred); err != nil {
		return "", fmt.Errorf("store refreshed credential: %w", err)
	}

	s.logger.Info("strava token refreshed", zap.Int64("athlete_id", cred.AthleteID))
	return token.AccessToken, nil
}

func (s *Syncer) athleteLock(athleteID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[athleteID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[athleteID] = lock
	}
	return lock
}

// ActivityFromStrava maps a wire activity to the stored model. Distance
// converts from meters to kilometers; heart rates round to whole beats.
// The full wire payload is kept as raw JSON for later inspection.
func ActivityFromStrava(sa *strava.Activity, syncedAt time.Time) (*models.Activity, error) {
	startDate, err := time.Parse(time.RFC3339, sa.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parse activity %d start date %q: %w", sa.ID, sa.StartDate, err)
	}

	a := models.NewActivity(sa.ID, startDate)
	a.SyncedAt = syncedAt.UTC()

	if sa.Athlete != nil {
		a.StravaAthleteID = &sa.Athlete.ID
	}
	a.Name = stringPtr(sa.Name)
	a.ActivityType = stringPtr(sa.Type)
	a.SportType = stringPtr(sa.SportType)
	if sa.Distance > 0 {
		km := sa.Distance / 1000
		a.DistanceKm = &km
	}
	a.MovingTimeSeconds = intPtr(sa.MovingTime)
	a.ElapsedTimeSeconds = intPtr(sa.ElapsedTime)
	a.ElevationGain = floatPtr(sa.TotalElevationGain)
	a.AverageSpeed = floatPtr(sa.AverageSpeed)
	a.MaxSpeed = floatPtr(sa.MaxSpeed)
	if sa.AverageHeartrate != nil {
		hr := int(math.Round(*sa.AverageHeartrate))
		a.AverageHeartrate = &hr
	}
	if sa.MaxHeartrate != nil {
		hr := int(math.Round(*sa.MaxHeartrate))
		a.MaxHeartrate = &hr
	}
	a.Calories = sa.Calories
	a.SufferScore = sa.SufferScore

	raw, err := json.Marshal(sa)
	if err != nil {
		return nil, fmt.Errorf("marshal activity %d: %w", sa.ID, err)
	}
	a.RawData = raw

	return a, nil
}

// Strava omits fields it has no data for, which decodes as the zero
// value. A zero metric stays absent rather than becoming a stored 0.
func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func intPtr(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

func floatPtr(f float64) *float64 {
	if f == 0 {
		return nil
	}
	return &f
}
