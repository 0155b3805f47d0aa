package activities

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/2beens/fitlake/internal/platforms/garmin"
	"github.com/2beens/fitlake/internal/platforms/strava"
	"github.com/2beens/fitlake/pkg"
)

// Activity is a cardio or outdoor session, normalized across platforms.
type Activity struct {
	ID                  int       `json:"id"`
	Platform            string    `json:"platform"`
	ExternalID          string    `json:"externalId"`
	Name                string    `json:"name"`
	ActivityType        string    `json:"activityType"`
	SportType           string    `json:"sportType,omitempty"`
	Description         string    `json:"description,omitempty"`
	StartTime           time.Time `json:"startTime"`
	DurationSeconds     int       `json:"durationSeconds"`
	MovingTimeSeconds   *int      `json:"movingTimeSeconds,omitempty"`
	DistanceMeters      float64   `json:"distanceMeters"`
	AverageSpeed        *float64  `json:"averageSpeed,omitempty"`
	MaxSpeed            *float64  `json:"maxSpeed,omitempty"`
	Calories            int       `json:"calories"`
	AverageWatts        *float64  `json:"averageWatts,omitempty"`
	MaxWatts            *float64  `json:"maxWatts,omitempty"`
	AverageHeartRate    *float64  `json:"averageHeartRate,omitempty"`
	MaxHeartRate        *float64  `json:"maxHeartRate,omitempty"`
	ElevationGainMeters float64   `json:"elevationGainMeters"`
	ElevationHigh       *float64  `json:"elevationHigh,omitempty"`
	ElevationLow        *float64  `json:"elevationLow,omitempty"`
	RawData             []byte    `json:"-"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// FromStravaRecord maps a raw Strava activity to the stored model.
func FromStravaRecord(rec strava.ActivityRecord, rawData []byte) (*Activity, error) {
	if rec.ID == 0 {
		return nil, errors.New("strava activity without id")
	}

	startTime, err := pkg.ParseTimestamp(rec.StartDate)
	if err != nil {
		return nil, fmt.Errorf("strava activity %d start date: %w", rec.ID, err)
	}

	activityType := rec.SportType
	if activityType == "" {
		activityType = rec.Type
	}

	var movingTime *int
	if rec.MovingTime > 0 {
		movingTime = &rec.MovingTime
	}

	return &Activity{
		Platform:            "strava",
		ExternalID:          strconv.FormatInt(rec.ID, 10),
		Name:                rec.Name,
		ActivityType:        activityType,
		SportType:           rec.SportType,
		Description:         rec.Description,
		StartTime:           startTime,
		DurationSeconds:     rec.ElapsedTime,
		MovingTimeSeconds:   movingTime,
		DistanceMeters:      rec.Distance,
		AverageSpeed:        rec.AverageSpeed,
		MaxSpeed:            rec.MaxSpeed,
		Calories:            int(math.Round(rec.Calories)),
		AverageWatts:        rec.AverageWatts,
		MaxWatts:            rec.MaxWatts,
		AverageHeartRate:    rec.AverageHeartrate,
		MaxHeartRate:        rec.MaxHeartrate,
		ElevationGainMeters: rec.TotalElevationGain,
		ElevationHigh:       rec.ElevHigh,
		ElevationLow:        rec.ElevLow,
		RawData:             rawData,
	}, nil
}

// FromGarminRecord maps a raw Garmin activity to the stored model.
func FromGarminRecord(rec garmin.ActivityRecord, rawData []byte) (*Activity, error) {
	if rec.ActivityID == 0 {
		return nil, errors.New("garmin activity without id")
	}

	startTime, err := pkg.ParseTimestamp(rec.StartTimeGMT)
	if err != nil {
		return nil, fmt.Errorf("garmin activity %d start time: %w", rec.ActivityID, err)
	}

	var movingTime *int
	if rec.MovingDuration != nil {
		seconds := int(math.Round(*rec.MovingDuration))
		movingTime = &seconds
	}

	return &Activity{
		Platform:            "garmin",
		ExternalID:          strconv.FormatInt(rec.ActivityID, 10),
		Name:                rec.ActivityName,
		ActivityType:        rec.ActivityType.TypeKey,
		SportType:           rec.ActivityType.TypeKey,
		Description:         rec.Description,
		StartTime:           startTime,
		DurationSeconds:     int(math.Round(rec.Duration)),
		MovingTimeSeconds:   movingTime,
		DistanceMeters:      rec.Distance,
		AverageSpeed:        rec.AverageSpeed,
		MaxSpeed:            rec.MaxSpeed,
		Calories:            int(math.Round(rec.Calories)),
		AverageWatts:        rec.AvgPower,
		MaxWatts:            rec.MaxPower,
		AverageHeartRate:    rec.AverageHR,
		MaxHeartRate:        rec.MaxHR,
		ElevationGainMeters: rec.ElevationGain,
		ElevationHigh:       rec.MaxElevation,
		ElevationLow:        rec.MinElevation,
		RawData:             rawData,
	}, nil
}
