// ABOUTME: Wire types for the Strava v3 API.
// ABOUTME: Token exchange/refresh responses and activity summaries.
package strava

// Athlete is the subset of the athlete object the app keeps.
type Athlete struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstname,omitempty"`
	LastName  string `json:"lastname,omitempty"`
}

// TokenResponse is returned by the OAuth token endpoint for both the
// authorization_code and refresh_token grants. The athlete object is
// only present on the initial code exchange.
type TokenResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresAt    int64    `json:"expires_at"`
	Athlete      *Athlete `json:"athlete,omitempty"`
}

// Activity is a summary activity as returned by
// GET /api/v3/athlete/activities. Distance is meters, times are seconds.
type Activity struct {
	ID                 int64    `json:"id"`
	Athlete            *Athlete `json:"athlete,omitempty"`
	StartDate          string   `json:"start_date"`
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	SportType          string   `json:"sport_type"`
	Distance           float64  `json:"distance"`
	MovingTime         int      `json:"moving_time"`
	ElapsedTime        int      `json:"elapsed_time"`
	TotalElevationGain float64  `json:"total_elevation_gain"`
	AverageSpeed       float64  `json:"average_speed"`
	MaxSpeed           float64  `json:"max_speed"`
	AverageHeartrate   *float64 `json:"average_heartrate,omitempty"`
	MaxHeartrate       *float64 `json:"max_heartrate,omitempty"`
	Calories           *float64 `json:"calories,omitempty"`
	SufferScore        *float64 `json:"suffer_score,omitempty"`
}
