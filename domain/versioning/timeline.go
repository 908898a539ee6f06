package versioning

import (
	"time"

	"github.com/google/uuid"

	"netdesign/domain/events"
)

// Timeline is an ordered, size-bounded sequence of snapshots plus a cursor
// on the snapshot the user is viewing. The cursor is -1 exactly when the
// timeline is empty.
type Timeline[D Document[D]] struct {
	id      string
	maxSize int
	backup  BackupSource
	factory *SnapshotFactory[D]
	now     func() time.Time

	snapshots     []*Snapshot[D]
	cursor        int
	pendingBackup *Snapshot[D]

	events []events.DomainEvent
}

// Entry describes one snapshot of a timeline
type Entry struct {
	Index      int       `json:"index"`
	CapturedAt time.Time `json:"captured_at"`
	LayerCount int       `json:"layer_count"`
	Current    bool      `json:"current"`
	FromBackup bool      `json:"from_backup"`
}

// NewTimeline creates an empty timeline holding at most maxSize snapshots.
// A maxSize of 1 or less disables history: every operation is a no-op.
func NewTimeline[D Document[D]](maxSize int, opts ...Option) *Timeline[D] {
	o := options{backup: BackupFromLive, clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.New().String()
	}

	return &Timeline[D]{
		id:      o.id,
		maxSize: maxSize,
		backup:  o.backup,
		factory: NewSnapshotFactory[D](o.clock),
		now:     o.clock,
		cursor:  -1,
	}
}

// ID returns the aggregate ID used in events
func (t *Timeline[D]) ID() string {
	return t.id
}

// MaxSize returns the configured capacity
func (t *Timeline[D]) MaxSize() int {
	return t.maxSize
}

// Enabled reports whether the timeline records anything at all
func (t *Timeline[D]) Enabled() bool {
	return t.maxSize > 1
}

// BackupSource returns the backup policy
func (t *Timeline[D]) BackupSource() BackupSource {
	return t.backup
}

// Len returns the number of stored snapshots
func (t *Timeline[D]) Len() int {
	return len(t.snapshots)
}

// Cursor returns the index of the current snapshot, -1 when empty
func (t *Timeline[D]) Cursor() int {
	return t.cursor
}

// Current returns the snapshot under the cursor
func (t *Timeline[D]) Current() (*Snapshot[D], bool) {
	if t.cursor < 0 {
		return nil, false
	}
	return t.snapshots[t.cursor], true
}

// At returns the snapshot at index i
func (t *Timeline[D]) At(i int) (*Snapshot[D], bool) {
	if i < 0 || i >= len(t.snapshots) {
		return nil, false
	}
	return t.snapshots[i], true
}

// PendingBackup returns the backup captured by the last navigation step
func (t *Timeline[D]) PendingBackup() (*Snapshot[D], bool) {
	return t.pendingBackup, t.pendingBackup != nil
}

// CanStepBack reports whether StepBack would move when not suspended
func (t *Timeline[D]) CanStepBack() bool {
	return t.Enabled() && t.cursor > 0
}

// CanStepForward reports whether StepForward would move when not suspended
func (t *Timeline[D]) CanStepForward() bool {
	return t.Enabled() && t.cursor >= 0 && t.cursor < len(t.snapshots)-1
}

// Entries lists the stored snapshots, oldest first
func (t *Timeline[D]) Entries() []Entry {
	entries := make([]Entry, len(t.snapshots))
	for i, s := range t.snapshots {
		entries[i] = Entry{
			Index:      i,
			CapturedAt: s.capturedAt,
			LayerCount: s.LayerCount(),
			Current:    i == t.cursor,
			FromBackup: s.fromBackup,
		}
	}
	return entries
}

// Commit records doc as the newest snapshot and reports whether anything
// was recorded. It does nothing when history is disabled or suspended.
//
// When the cursor is not at the tail, the snapshots after it are discarded
// and the pending backup is re-inserted right before the new snapshot.
// The oldest snapshots are then evicted down to the maximum size. On error
// the timeline is left untouched.
func (t *Timeline[D]) Commit(doc D, src PresentationSource, suspended bool) (bool, error) {
	if !t.Enabled() || suspended {
		return false, nil
	}

	s, err := t.factory.Capture(doc, src)
	if err != nil {
		return false, err
	}
	now := t.now()

	if tail := len(t.snapshots) - 1; t.cursor != tail {
		discarded := tail - t.cursor
		clear(t.snapshots[t.cursor+1:])
		t.snapshots = t.snapshots[:t.cursor+1]

		restored := t.pendingBackup != nil
		if restored {
			t.snapshots = append(t.snapshots, t.pendingBackup)
		}
		t.addEvent(events.NewBranchDiscarded(t.id, discarded, restored, now))
	}
	t.snapshots = append(t.snapshots, s)

	if excess := len(t.snapshots) - t.maxSize; excess > 0 {
		clear(t.snapshots[:excess])
		t.snapshots = t.snapshots[excess:]
		t.addEvent(events.NewSnapshotsEvicted(t.id, excess, now))
	}
	t.cursor = len(t.snapshots) - 1

	t.addEvent(events.NewSnapshotCommitted(t.id, t.cursor, len(t.snapshots), s.LayerCount(), now))
	return true, nil
}

// Reset drops every snapshot and the pending backup
func (t *Timeline[D]) Reset() {
	dropped := len(t.snapshots)
	clear(t.snapshots)
	t.snapshots = nil
	t.cursor = -1
	t.pendingBackup = nil
	t.addEvent(events.NewTimelineReset(t.id, dropped, t.now()))
}

// StepBack moves the cursor one snapshot back and returns the snapshot
// arrived at. doc and src describe the live state being left; they feed the
// pending backup. ok is false, with no movement, when history is disabled,
// suspended, empty or already at the oldest snapshot.
func (t *Timeline[D]) StepBack(doc D, src PresentationSource, suspended bool) (*Snapshot[D], bool, error) {
	if suspended || !t.CanStepBack() {
		return nil, false, nil
	}
	return t.step(doc, src, t.cursor-1, events.DirectionBack)
}

// StepForward moves the cursor one snapshot forward. It mirrors StepBack and
// is unavailable at the newest snapshot.
func (t *Timeline[D]) StepForward(doc D, src PresentationSource, suspended bool) (*Snapshot[D], bool, error) {
	if suspended || !t.CanStepForward() {
		return nil, false, nil
	}
	return t.step(doc, src, t.cursor+1, events.DirectionForward)
}

func (t *Timeline[D]) step(doc D, src PresentationSource, target int, dir events.Direction) (*Snapshot[D], bool, error) {
	dest := t.snapshots[target]

	var (
		backup *Snapshot[D]
		err    error
	)
	switch t.backup {
	case BackupFromDestination:
		backup, err = t.factory.captureFrom(dest, doc.Layers(), src)
	default:
		backup, err = t.factory.Capture(doc, src)
	}
	if err != nil {
		return nil, false, err
	}

	from := t.cursor
	backup.fromBackup = true
	t.pendingBackup = backup
	t.cursor = target
	t.addEvent(events.NewCursorMoved(t.id, dir, from, target, t.now()))
	return dest, true, nil
}

func (t *Timeline[D]) addEvent(e events.DomainEvent) {
	t.events = append(t.events, e)
}

// GetUncommittedEvents returns the events raised since the last
// MarkEventsAsCommitted
func (t *Timeline[D]) GetUncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(t.events))
	copy(out, t.events)
	return out
}

// MarkEventsAsCommitted clears the uncommitted events
func (t *Timeline[D]) MarkEventsAsCommitted() {
	t.events = nil
}
