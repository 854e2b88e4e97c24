package merge

import (
	"time"

	"github.com/pfrederiksen/tvfixtures/internal/event"
)

// kickoff rebuilds the event's wall-clock start from its date and displayed
// clock. Both sources list times in the same reference zone, so no zone is
// attached.
func kickoff(e *event.Event) (time.Time, bool) {
	local, err := event.LocalTime(e.Date(), e.Clock())
	if err != nil {
		return time.Time{}, false
	}
	t, err := event.ParseLocal(local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
