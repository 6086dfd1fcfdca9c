package domain

import "time"

const MaxComponentScore = 20.0

// ComponentKind names the reading the fourth or fifth sub-score is
// derived from.
type ComponentKind string

const (
	ComponentWind          ComponentKind = "wind"
	ComponentPressure      ComponentKind = "pressure"
	ComponentPrecipitation ComponentKind = "precipitation"
	ComponentAerosol       ComponentKind = "aerosol"
)

// ScoreComponents holds the five sub-scores, each within [0, 20].
type ScoreComponents struct {
	Cloud      float64
	Humidity   float64
	Visibility float64
	Fourth     float64
	Fifth      float64
	FourthKind ComponentKind
	FifthKind  ComponentKind
}

func (c ScoreComponents) Sum() float64 {
	return c.Cloud + c.Humidity + c.Visibility + c.Fourth + c.Fifth
}

// QualityScore is the composite sunset quality in [0, 100].
type QualityScore struct {
	Value      float64
	Components ScoreComponents
}

// ScoreRecord is one evaluated location written to the score history.
type ScoreRecord struct {
	RunID         string
	SubscriberKey string
	Kind          SubscriberKind
	LocationID    int64
	City          string
	Sunset        time.Time
	EvaluatedAt   time.Time
	Score         QualityScore
	Actionable    bool
	Outcome       string
}
