package application

import "time"

// ══════════════════════════════════════════════════════════════════════════════
// TIMELINE DERIVATION
// ══════════════════════════════════════════════════════════════════════════════

// StageState is the display state of a pipeline stage on the timeline.
type StageState string

const (
	// StateCompleted - the stage was reached and completed.
	StateCompleted StageState = "completed"
	// StateCurrent - the stage the application currently sits at.
	StateCurrent StageState = "current"
	// StateRejected - shown on unreached stages of a rejected application.
	StateRejected StageState = "rejected"
	// StatePending - the stage has not been reached.
	StatePending StageState = "pending"
)

// TimelineStage is one row of the derived timeline.
type TimelineStage struct {
	// Stage - the canonical stage key.
	Stage string `json:"stage"`

	// State - the display state derived from history.
	State StageState `json:"state"`

	// Timestamp - when the stage was reached; nil if never reached.
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Timeline derives the display timeline from the stage history. It is a
// read-side projection: it never mutates the application.
//
// Each canonical stage resolves, in order:
//  1. a history entry for the stage exists: completed entry -> completed,
//     pending entry -> current
//  2. the stage equals CurrentStage -> current
//  3. the overall status is rejected -> rejected
//  4. otherwise -> pending
func (a *Application) Timeline() []TimelineStage {
	timeline := make([]TimelineStage, 0, len(CanonicalStages))

	for _, stage := range CanonicalStages {
		key := string(stage)
		row := TimelineStage{Stage: key}

		if entry, ok := a.findHistoryEntry(key); ok {
			if entry.Status == StageCompleted {
				row.State = StateCompleted
			} else {
				row.State = StateCurrent
			}
			ts := entry.Timestamp
			row.Timestamp = &ts
		} else if a.CurrentStage == key {
			row.State = StateCurrent
		} else if a.Status == StatusRejected {
			row.State = StateRejected
		} else {
			row.State = StatePending
		}

		timeline = append(timeline, row)
	}

	return timeline
}

// findHistoryEntry returns the first history entry for the given stage.
func (a *Application) findHistoryEntry(stage string) (StageEntry, bool) {
	for _, entry := range a.StageHistory {
		if entry.Stage == stage {
			return entry, true
		}
	}
	return StageEntry{}, false
}
