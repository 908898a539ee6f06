package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"netdesign/application/ports"
	"netdesign/domain/core/aggregates"
	"netdesign/domain/events"
	"netdesign/domain/versioning"
	"netdesign/pkg/extensions"
)

// DesignTimeline is the history of a network design
type DesignTimeline = versioning.Timeline[*aggregates.Design]

// DesignSnapshot is one entry of a DesignTimeline
type DesignSnapshot = versioning.Snapshot[*aggregates.Design]

// DesignRestoration is an editable copy of a DesignSnapshot
type DesignRestoration = versioning.Restoration[*aggregates.Design]

// Commit skip reasons reported to metrics
const (
	SkipDisabled  = "disabled"
	SkipSuspended = "suspended"
)

// HistoryService exposes the undo/redo timeline with no-argument
// operations: the live design and its presentation are pulled from the
// sources on every call.
type HistoryService struct {
	timeline *DesignTimeline
	docs     ports.DocumentSource
	view     ports.PresentationSource
	metrics  ports.HistoryMetrics
	hooks    *extensions.HookManager
	tracer   trace.Tracer
	logger   *zap.Logger
}

// NewHistoryService creates a new history service. metrics, hooks and
// tracer may be nil.
func NewHistoryService(
	timeline *DesignTimeline,
	docs ports.DocumentSource,
	view ports.PresentationSource,
	metrics ports.HistoryMetrics,
	hooks *extensions.HookManager,
	tracer trace.Tracer,
	logger *zap.Logger,
) *HistoryService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if hooks == nil {
		hooks = extensions.NewHookManager()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{
		timeline: timeline,
		docs:     docs,
		view:     view,
		metrics:  metrics,
		hooks:    hooks,
		tracer:   tracer,
		logger:   logger.With(zap.String("timeline", timeline.ID())),
	}
}

// Status is a read-only summary of the timeline
type Status struct {
	Length  int                `json:"length"`
	Cursor  int                `json:"cursor"`
	MaxSize int                `json:"max_size"`
	Enabled bool               `json:"enabled"`
	CanUndo bool               `json:"can_undo"`
	CanRedo bool               `json:"can_redo"`
	Entries []versioning.Entry `json:"entries"`
}

// Status reports the current state of the timeline
func (s *HistoryService) Status() Status {
	suspended := s.docs.HistorySuspended()
	return Status{
		Length:  s.timeline.Len(),
		Cursor:  s.timeline.Cursor(),
		MaxSize: s.timeline.MaxSize(),
		Enabled: s.timeline.Enabled(),
		CanUndo: !suspended && s.timeline.CanStepBack(),
		CanRedo: !suspended && s.timeline.CanStepForward(),
		Entries: s.timeline.Entries(),
	}
}

// Commit records the live design. A failing before-commit hook vetoes the
// commit; after-commit hook failures are only logged.
func (s *HistoryService) Commit(ctx context.Context) (bool, error) {
	ctx, span := s.startSpan(ctx, "HistoryService.Commit")
	defer span.End()

	if !s.timeline.Enabled() {
		span.SetAttributes(attribute.String("history.skipped", SkipDisabled))
		s.metrics.CommitSkipped(SkipDisabled)
		return false, nil
	}
	if s.docs.HistorySuspended() {
		span.SetAttributes(attribute.String("history.skipped", SkipSuspended))
		s.metrics.CommitSkipped(SkipSuspended)
		s.logger.Debug("History suspended, snapshot not recorded")
		return false, nil
	}

	design := s.docs.CurrentDesign()
	if err := s.hooks.Execute(ctx, extensions.HookBeforeSnapshotCommit, s.hookData(design, "commit")); err != nil {
		recordError(span, err, "Commit vetoed by hook")
		return false, err
	}

	start := time.Now()
	committed, err := s.timeline.Commit(design, s.view, false)
	if err != nil {
		s.logger.Error("Failed to record snapshot",
			zap.String("designID", design.ID().String()),
			zap.Error(err),
		)
		recordError(span, err, "Failed to record snapshot")
		return false, err
	}
	s.metrics.SnapshotCommitted(time.Since(start))
	s.drainEvents(span)

	s.logger.Debug("Snapshot recorded",
		zap.String("designID", design.ID().String()),
		zap.Int("version", design.Version()),
		zap.Int("cursor", s.timeline.Cursor()),
		zap.Int("length", s.timeline.Len()),
	)
	s.runAfter(ctx, extensions.HookAfterSnapshotCommit, s.hookData(design, "commit"))
	return committed, nil
}

// Reset clears the history
func (s *HistoryService) Reset(ctx context.Context) {
	ctx, span := s.startSpan(ctx, "HistoryService.Reset")
	defer span.End()

	s.timeline.Reset()
	s.drainEvents(span)
	s.logger.Info("History reset")
	s.runAfter(ctx, extensions.HookAfterTimelineReset, s.hookData(s.docs.CurrentDesign(), "reset"))
}

// Undo steps back. ok is false when there is nothing to undo.
func (s *HistoryService) Undo(ctx context.Context) (*DesignSnapshot, bool, error) {
	return s.navigate(ctx, events.DirectionBack)
}

// Redo steps forward. ok is false when there is nothing to redo.
func (s *HistoryService) Redo(ctx context.Context) (*DesignSnapshot, bool, error) {
	return s.navigate(ctx, events.DirectionForward)
}

// Target returns the snapshot Undo (back) or Redo (forward) would restore,
// without moving. ok is false when that navigation is unavailable.
func (s *HistoryService) Target(dir events.Direction) (*DesignSnapshot, bool) {
	if s.docs.HistorySuspended() {
		return nil, false
	}
	if dir == events.DirectionBack {
		if !s.timeline.CanStepBack() {
			return nil, false
		}
		return s.timeline.At(s.timeline.Cursor() - 1)
	}
	if !s.timeline.CanStepForward() {
		return nil, false
	}
	return s.timeline.At(s.timeline.Cursor() + 1)
}

func (s *HistoryService) navigate(ctx context.Context, dir events.Direction) (*DesignSnapshot, bool, error) {
	ctx, span := s.startSpan(ctx, "HistoryService.Navigate", attribute.String("history.direction", string(dir)))
	defer span.End()

	design := s.docs.CurrentDesign()
	suspended := s.docs.HistorySuspended()

	var (
		snap *DesignSnapshot
		ok   bool
		err  error
	)
	if dir == events.DirectionBack {
		snap, ok, err = s.timeline.StepBack(design, s.view, suspended)
	} else {
		snap, ok, err = s.timeline.StepForward(design, s.view, suspended)
	}
	if err != nil {
		s.logger.Error("Failed to capture backup before navigation",
			zap.String("direction", string(dir)),
			zap.Error(err),
		)
		recordError(span, err, "Failed to capture backup")
		return nil, false, err
	}

	span.SetAttributes(attribute.Bool("history.moved", ok))
	s.metrics.Navigation(string(dir), ok)
	if !ok {
		s.logger.Debug("Nothing to navigate to",
			zap.String("direction", string(dir)),
			zap.Bool("suspended", suspended),
			zap.Int("cursor", s.timeline.Cursor()),
		)
		return nil, false, nil
	}
	s.drainEvents(span)
	s.runAfter(ctx, extensions.HookAfterNavigation, s.hookData(design, string(dir)))
	return snap, true, nil
}

// drainEvents turns the timeline's events into logs, metrics and span events
func (s *HistoryService) drainEvents(span trace.Span) {
	for _, e := range s.timeline.GetUncommittedEvents() {
		span.AddEvent(e.GetEventType())
		switch ev := e.(type) {
		case events.BranchDiscarded:
			s.metrics.BranchDiscarded(ev.Discarded)
			s.logger.Info("Diverging edit discarded redo branch",
				zap.Int("discarded", ev.Discarded),
				zap.Bool("backupRestored", ev.BackupRestored),
			)
		case events.SnapshotsEvicted:
			s.metrics.SnapshotsEvicted(ev.Evicted)
			s.logger.Debug("Oldest snapshots evicted", zap.Int("evicted", ev.Evicted))
		case events.CursorMoved:
			s.logger.Debug("Cursor moved",
				zap.String("direction", string(ev.Direction)),
				zap.Int("from", ev.From),
				zap.Int("to", ev.To),
			)
		case events.TimelineReset:
			s.logger.Debug("Timeline cleared", zap.Int("dropped", ev.Dropped))
		}
	}
	s.timeline.MarkEventsAsCommitted()
	s.metrics.TimelineState(s.timeline.Len(), s.timeline.Cursor())
	span.SetAttributes(
		attribute.Int("history.length", s.timeline.Len()),
		attribute.Int("history.cursor", s.timeline.Cursor()),
	)
}

func (s *HistoryService) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("history.timeline_id", s.timeline.ID()))
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func recordError(span trace.Span, err error, description string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, description)
}

func (s *HistoryService) runAfter(ctx context.Context, point extensions.HookPoint, data extensions.HookData) {
	if err := s.hooks.Execute(ctx, point, data); err != nil {
		s.logger.Warn("Hook failed",
			zap.String("hookPoint", string(point)),
			zap.Error(err),
		)
	}
}

func (s *HistoryService) hookData(design *aggregates.Design, operation string) extensions.HookData {
	data := extensions.HookData{
		TimelineID: s.timeline.ID(),
		Operation:  operation,
		Cursor:     s.timeline.Cursor(),
		Length:     s.timeline.Len(),
	}
	if design != nil {
		data.DesignID = design.ID().String()
	}
	return data
}

type nopMetrics struct{}

func (nopMetrics) SnapshotCommitted(time.Duration) {}
func (nopMetrics) CommitSkipped(string)            {}
func (nopMetrics) SnapshotsEvicted(int)            {}
func (nopMetrics) BranchDiscarded(int)             {}
func (nopMetrics) Navigation(string, bool)         {}
func (nopMetrics) TimelineState(int, int)          {}
