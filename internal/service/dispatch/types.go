package dispatch

import (
	"sync"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

// Outcome is the final state of one evaluated location.
type Outcome string

const (
	OutcomeNotified        Outcome = "notified"
	OutcomeNotActionable   Outcome = "not_actionable"
	OutcomeAlreadyNotified Outcome = "already_notified"
	OutcomeSkipped         Outcome = "skipped"
	OutcomeDeliveryFailed  Outcome = "delivery_failed"
	OutcomeRemoved         Outcome = "removed"
)

func (o Outcome) String() string {
	return string(o)
}

// CycleResult summarizes one dispatch cycle.
type CycleResult struct {
	RunID            string `json:"run_id"`
	ProcessedCount   int    `json:"processed_count"`
	LocationsChecked int    `json:"locations_checked"`
	Actionable       int    `json:"actionable"`
	Notified         int    `json:"notified"`
	AlreadyNotified  int    `json:"already_notified"`
	Skipped          int    `json:"skipped"`
	DeliveryFailed   int    `json:"delivery_failed"`
	Removed          int    `json:"removed"`
}

// tally collects per-location results from concurrent workers.
type tally struct {
	mu      sync.Mutex
	result  CycleResult
	records []domain.ScoreRecord
}

func (t *tally) subscriberProcessed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.result.ProcessedCount++
}

func (t *tally) add(outcome Outcome, actionable bool, record *domain.ScoreRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.result.LocationsChecked++
	if actionable {
		t.result.Actionable++
	}

	switch outcome {
	case OutcomeNotified:
		t.result.Notified++
	case OutcomeAlreadyNotified:
		t.result.AlreadyNotified++
	case OutcomeSkipped:
		t.result.Skipped++
	case OutcomeDeliveryFailed:
		t.result.DeliveryFailed++
	case OutcomeRemoved:
		t.result.Removed++
	}

	if record != nil {
		record.Outcome = outcome.String()
		t.records = append(t.records, *record)
	}
}

func (t *tally) snapshot() (CycleResult, []domain.ScoreRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, t.records
}
