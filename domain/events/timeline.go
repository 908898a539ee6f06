package events

import "time"

// Event types raised by a history timeline
const (
	TypeSnapshotCommitted = "timeline.snapshot_committed"
	TypeBranchDiscarded   = "timeline.branch_discarded"
	TypeSnapshotsEvicted  = "timeline.snapshots_evicted"
	TypeCursorMoved       = "timeline.cursor_moved"
	TypeTimelineReset     = "timeline.reset"
)

// Direction of a cursor move
type Direction string

const (
	DirectionBack    Direction = "back"
	DirectionForward Direction = "forward"
)

// SnapshotCommitted is raised when a snapshot is appended to the timeline
type SnapshotCommitted struct {
	BaseEvent
	Cursor     int `json:"cursor"`
	Length     int `json:"length"`
	LayerCount int `json:"layer_count"`
}

// NewSnapshotCommitted creates a SnapshotCommitted event
func NewSnapshotCommitted(timelineID string, cursor, length, layers int, timestamp time.Time) SnapshotCommitted {
	return SnapshotCommitted{
		BaseEvent: BaseEvent{
			AggregateID: timelineID,
			EventType:   TypeSnapshotCommitted,
			Timestamp:   timestamp,
			Version:     1,
		},
		Cursor:     cursor,
		Length:     length,
		LayerCount: layers,
	}
}

// BranchDiscarded is raised when a commit after navigating back drops the
// snapshots that were ahead of the cursor.
type BranchDiscarded struct {
	BaseEvent
	Discarded      int  `json:"discarded"`
	BackupRestored bool `json:"backup_restored"`
}

// NewBranchDiscarded creates a BranchDiscarded event
func NewBranchDiscarded(timelineID string, discarded int, backupRestored bool, timestamp time.Time) BranchDiscarded {
	return BranchDiscarded{
		BaseEvent: BaseEvent{
			AggregateID: timelineID,
			EventType:   TypeBranchDiscarded,
			Timestamp:   timestamp,
			Version:     1,
		},
		Discarded:      discarded,
		BackupRestored: backupRestored,
	}
}

// SnapshotsEvicted is raised when the oldest snapshots are dropped to keep
// the timeline within its maximum size
type SnapshotsEvicted struct {
	BaseEvent
	Evicted int `json:"evicted"`
}

// NewSnapshotsEvicted creates a SnapshotsEvicted event
func NewSnapshotsEvicted(timelineID string, evicted int, timestamp time.Time) SnapshotsEvicted {
	return SnapshotsEvicted{
		BaseEvent: BaseEvent{
			AggregateID: timelineID,
			EventType:   TypeSnapshotsEvicted,
			Timestamp:   timestamp,
			Version:     1,
		},
		Evicted: evicted,
	}
}

// CursorMoved is raised on every successful undo or redo
type CursorMoved struct {
	BaseEvent
	Direction Direction `json:"direction"`
	From      int       `json:"from"`
	To        int       `json:"to"`
}

// NewCursorMoved creates a CursorMoved event
func NewCursorMoved(timelineID string, direction Direction, from, to int, timestamp time.Time) CursorMoved {
	return CursorMoved{
		BaseEvent: BaseEvent{
			AggregateID: timelineID,
			EventType:   TypeCursorMoved,
			Timestamp:   timestamp,
			Version:     1,
		},
		Direction: direction,
		From:      from,
		To:        to,
	}
}

// TimelineReset is raised when the history is cleared
type TimelineReset struct {
	BaseEvent
	Dropped int `json:"dropped"`
}

// NewTimelineReset creates a TimelineReset event
func NewTimelineReset(timelineID string, dropped int, timestamp time.Time) TimelineReset {
	return TimelineReset{
		BaseEvent: BaseEvent{
			AggregateID: timelineID,
			EventType:   TypeTimelineReset,
			Timestamp:   timestamp,
			Version:     1,
		},
		Dropped: dropped,
	}
}
