package event

// Counters summarizes how many listings each stage produced.
type Counters struct {
	SourceACount int `json:"sourceACount"`
	SourceBCount int `json:"sourceBCount"`
	Total        int `json:"total"`
}

// Snapshot is the persisted result of one run. A failed run sets Error and
// leaves Events empty; Counters and TimezoneLabel are then omitted.
type Snapshot struct {
	Date          string         `json:"date"`
	GeneratedAt   string         `json:"generatedAt"`
	Counters      *Counters      `json:"counters,omitempty"`
	TimezoneLabel string         `json:"timezoneLabel,omitempty"`
	Error         string         `json:"error,omitempty"`
	Events        []*MergedEvent `json:"events"`
}

// GeneratedAtLayout is the wall-clock format of Snapshot.GeneratedAt.
const GeneratedAtLayout = "2006-01-02 15:04:05"

// NewSnapshot builds a successful snapshot.
func NewSnapshot(date, generatedAt, tzLabel string, sourceA, sourceB int, events []*MergedEvent) *Snapshot {
	if events == nil {
		events = []*MergedEvent{}
	}
	return &Snapshot{
		Date:        date,
		GeneratedAt: generatedAt,
		Counters: &Counters{
			SourceACount: sourceA,
			SourceBCount: sourceB,
			Total:        len(events),
		},
		TimezoneLabel: tzLabel,
		Events:        events,
	}
}

// NewErrorSnapshot builds the minimal snapshot written when a run fails.
func NewErrorSnapshot(date, generatedAt, msg string) *Snapshot {
	return &Snapshot{
		Date:        date,
		GeneratedAt: generatedAt,
		Error:       msg,
		Events:      []*MergedEvent{},
	}
}

// Failed reports whether the snapshot records a failed run.
func (s *Snapshot) Failed() bool {
	return s.Error != ""
}
