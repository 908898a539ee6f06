package versioning

import (
	"fmt"
	"strings"
	"time"

	pkgerrors "netdesign/pkg/errors"
)

// BackupSource selects what a navigation step stores as the pending backup,
// the state re-inserted ahead of the next divergent commit.
type BackupSource string

const (
	// BackupFromLive clones the live document handed to the step, i.e. the
	// state being left, with its live presentation.
	BackupFromLive BackupSource = "live"

	// BackupFromDestination clones the snapshot the step arrives at and
	// pairs it with the live presentation.
	BackupFromDestination BackupSource = "destination"
)

// ParseBackupSource parses a configured backup source. Empty means
// BackupFromLive.
func ParseBackupSource(s string) (BackupSource, error) {
	switch BackupSource(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackupFromLive:
		return BackupFromLive, nil
	case BackupFromDestination:
		return BackupFromDestination, nil
	default:
		return "", pkgerrors.NewValidationError(fmt.Sprintf("unknown backup source %q", s))
	}
}

type options struct {
	id     string
	backup BackupSource
	clock  func() time.Time
}

// Option configures a Timeline
type Option func(*options)

// WithBackupSource sets the backup policy
func WithBackupSource(source BackupSource) Option {
	return func(o *options) {
		o.backup = source
	}
}

// WithClock sets the clock used to stamp snapshots and events
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithID sets the aggregate ID carried by the timeline's events
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}
