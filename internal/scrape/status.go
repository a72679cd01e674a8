package scrape

import (
	"sort"
	"sync"
	"time"
)

type ScrapeStatus struct {
	LastRunAt  string   `json:"last_run_at"`
	LastOkAt   string   `json:"last_ok_at"`
	LastError  string   `json:"last_error"`
	LastAdded  int      `json:"last_added"`
	Running    bool     `json:"running"`
	Active     int      `json:"active"`
	Requesters []string `json:"requesters,omitempty"`
}

// StatusTracker records run activity. One requester may have at most one
// active run; different requesters may run side by side.
type StatusTracker struct {
	mu     sync.Mutex
	st     ScrapeStatus
	active map[string]string // requester -> run id
}

func NewStatusTracker() *StatusTracker {
	return &StatusTracker{active: map[string]string{}}
}

// Begin marks requester as running runID. It returns false when the
// requester already has an active run.
func (t *StatusTracker) Begin(requester, runID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, busy := t.active[requester]; busy {
		return false
	}
	t.active[requester] = runID
	t.st.LastRunAt = time.Now().Format(time.RFC3339)
	t.st.LastError = ""
	t.st.LastAdded = 0
	return true
}

// End closes requester's run and records its outcome.
func (t *StatusTracker) End(requester string, added int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.active, requester)
	now := time.Now().Format(time.RFC3339)
	t.st.LastRunAt = now
	t.st.LastAdded = added
	if err != nil {
		t.st.LastError = err.Error()
	} else {
		t.st.LastError = ""
		t.st.LastOkAt = now
	}
}

// ActiveRun returns the run id requester is running, if any.
func (t *StatusTracker) ActiveRun(requester string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.active[requester]
	return id, ok
}

func (t *StatusTracker) Snapshot() ScrapeStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.st
	st.Active = len(t.active)
	st.Running = st.Active > 0
	st.Requesters = make([]string, 0, len(t.active))
	for r := range t.active {
		st.Requesters = append(st.Requesters, r)
	}
	sort.Strings(st.Requesters)
	return st
}
