package eventstore

import (
	"encoding/json"
	"time"

	"github.com/fluxpress/theme-classic/internal/foundation/errors"
)

// Event types written by a build.
const (
	TypeBuildStarted   = "build_started"
	TypeStageCompleted = "stage_completed"
	TypeBuildCompleted = "build_completed"
)

// Event is one stored build event. Payload holds the JSON of the typed payload
// matching Type.
type Event struct {
	ID        int64
	BuildID   string
	Type      string
	Timestamp time.Time
	Payload   json.RawMessage
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error { return json.Unmarshal(e.Payload, v) }

// BuildStarted is the payload of build_started.
type BuildStarted struct {
	Theme     string `json:"theme"`
	OutputDir string `json:"output_dir"`
	Version   string `json:"version,omitempty"`
}

// StageCompleted is the payload of stage_completed.
type StageCompleted struct {
	Stage      string `json:"stage"`
	Result     string `json:"result"`
	DurationMS int64  `json:"duration_ms"`
}

// BuildCompleted is the payload of build_completed.
type BuildCompleted struct {
	Outcome     string         `json:"outcome"`
	DurationMS  int64          `json:"duration_ms"`
	Posts       int            `json:"posts"`
	Pages       map[string]int `json:"pages"`
	Assets      int            `json:"assets"`
	Errors      []string       `json:"errors,omitempty"`
	Warnings    int            `json:"warnings"`
	Fingerprint string         `json:"fingerprint,omitempty"`
}

// TotalPages sums the per-family page counts.
func (b BuildCompleted) TotalPages() int {
	n := 0
	for _, c := range b.Pages {
		n += c
	}
	return n
}

// NewEvent marshals payload into an event stamped now.
func NewEvent(buildID, eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, errors.EventStoreError("failed to marshal event payload").
			WithCause(err).
			WithContext("build_id", buildID).
			WithContext("type", eventType).
			Build()
	}
	return Event{BuildID: buildID, Type: eventType, Timestamp: time.Now(), Payload: raw}, nil
}
