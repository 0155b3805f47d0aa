package dailystats

import (
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitlake/internal/platforms/garmin"
	"github.com/2beens/fitlake/pkg"
)

// DailyStats is one day of wellness data: steps, heart rate, stress,
// body battery and sleep stages.
type DailyStats struct {
	ID                int       `json:"id"`
	Platform          string    `json:"platform"`
	ExternalID        string    `json:"externalId"`
	Date              time.Time `json:"date"`
	Steps             *int      `json:"steps,omitempty"`
	CaloriesBurned    *int      `json:"caloriesBurned,omitempty"`
	RestingHeartRate  *int      `json:"restingHeartRate,omitempty"`
	MaxHeartRate      *int      `json:"maxHeartRate,omitempty"`
	MinHeartRate      *int      `json:"minHeartRate,omitempty"`
	StressAvg         *int      `json:"stressAvg,omitempty"`
	BodyBatteryHigh   *int      `json:"bodyBatteryHigh,omitempty"`
	BodyBatteryLow    *int      `json:"bodyBatteryLow,omitempty"`
	SleepSeconds      *int      `json:"sleepSeconds,omitempty"`
	DeepSleepSeconds  *int      `json:"deepSleepSeconds,omitempty"`
	LightSleepSeconds *int      `json:"lightSleepSeconds,omitempty"`
	RemSleepSeconds   *int      `json:"remSleepSeconds,omitempty"`
	AwakeSeconds      *int      `json:"awakeSeconds,omitempty"`
	RawData           []byte    `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// FromGarminRecord maps a raw Garmin daily record to the stored model.
// The calendar date doubles as the external ID.
func FromGarminRecord(rec garmin.DailyStatsRecord, rawData []byte) (*DailyStats, error) {
	if rec.CalendarDate == "" {
		return nil, errors.New("daily stats without calendar date")
	}

	date, err := pkg.ParseDate(rec.CalendarDate)
	if err != nil {
		return nil, fmt.Errorf("daily stats date: %w", err)
	}

	return &DailyStats{
		Platform:          "garmin",
		ExternalID:        rec.CalendarDate,
		Date:              date,
		Steps:             rec.TotalSteps,
		CaloriesBurned:    rec.TotalKilocalories,
		RestingHeartRate:  rec.RestingHeartRate,
		MaxHeartRate:      rec.MaxHeartRate,
		MinHeartRate:      rec.MinHeartRate,
		StressAvg:         rec.AverageStressLevel,
		BodyBatteryHigh:   rec.BodyBatteryHighestValue,
		BodyBatteryLow:    rec.BodyBatteryLowestValue,
		SleepSeconds:      rec.SleepingSeconds,
		DeepSleepSeconds:  rec.DeepSleepSeconds,
		LightSleepSeconds: rec.LightSleepSeconds,
		RemSleepSeconds:   rec.RemSleepSeconds,
		AwakeSeconds:      rec.AwakeSleepSeconds,
		RawData:           rawData,
	}, nil
}
