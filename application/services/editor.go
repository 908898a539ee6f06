package services

import (
	"context"

	"go.uber.org/zap"

	"netdesign/domain/core/aggregates"
	"netdesign/domain/events"
	"netdesign/domain/presentation"
	pkgerrors "netdesign/pkg/errors"
)

// EditFunc mutates the live design and its presentation
type EditFunc func(design *aggregates.Design, view *presentation.VisualizationState) error

// Editor applies edits to a session and keeps the history in step
type Editor struct {
	session  *Session
	history  *HistoryService
	checkout func(*DesignSnapshot) (DesignRestoration, error)
	logger   *zap.Logger
}

// NewEditor creates a new editor
func NewEditor(session *Session, history *HistoryService, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{
		session:  session,
		history:  history,
		checkout: (*DesignSnapshot).Checkout,
		logger:   logger,
	}
}

// Session returns the edited session
func (e *Editor) Session() *Session {
	return e.session
}

// History returns the history service
func (e *Editor) History() *HistoryService {
	return e.history
}

// Edit runs fn against the live state and records the result. When fn
// fails nothing is recorded; changes fn made before failing stay live.
// The view follows removed and shifted layers by LayerID once fn returns,
// so an fn that removes a layer leaves presentation changes to a later edit.
func (e *Editor) Edit(ctx context.Context, fn EditFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(e.session.CurrentDesign(), e.session.View()); err != nil {
		return err
	}
	e.session.Sync()

	if _, err := e.history.Commit(ctx); err != nil {
		return pkgerrors.Wrap(err, "record edit")
	}
	return nil
}

// Undo restores the previous snapshot. It returns false when there is
// nothing to undo.
func (e *Editor) Undo(ctx context.Context) (bool, error) {
	return e.navigate(ctx, events.DirectionBack, e.history.Undo)
}

// Redo restores the next snapshot. It returns false when there is nothing
// to redo.
func (e *Editor) Redo(ctx context.Context) (bool, error) {
	return e.navigate(ctx, events.DirectionForward, e.history.Redo)
}

// navigate checks out the target snapshot before the history moves. A
// snapshot that cannot be restored leaves the cursor and the pending backup
// where they were.
func (e *Editor) navigate(
	ctx context.Context,
	dir events.Direction,
	move func(context.Context) (*DesignSnapshot, bool, error),
) (bool, error) {
	var (
		target *DesignSnapshot
		r      DesignRestoration
	)
	if snap, ok := e.history.Target(dir); ok {
		restored, err := e.checkout(snap)
		if err != nil {
			return false, pkgerrors.Wrap(err, "restore snapshot")
		}
		if err := e.session.check(restored); err != nil {
			return false, pkgerrors.Wrap(err, "restore snapshot")
		}
		target, r = snap, restored
	}

	snap, ok, err := move(ctx)
	if err != nil || !ok {
		return false, err
	}
	if snap != target {
		return false, pkgerrors.NewInvariantError("history moved to an unexpected snapshot")
	}
	if err := e.session.Apply(r); err != nil {
		return false, pkgerrors.Wrap(err, "restore snapshot")
	}
	e.logger.Debug("Snapshot restored",
		zap.String("designID", r.Document.ID().String()),
		zap.Int("layers", r.Document.LayerCount()),
		zap.Int("nodes", r.Document.NodeCount()),
	)
	return true, nil
}

// Load replaces the live design, clears the history and records the loaded
// design as its first snapshot.
func (e *Editor) Load(ctx context.Context, design *aggregates.Design) error {
	if err := e.session.Load(design); err != nil {
		return err
	}
	e.history.Reset(ctx)
	if _, err := e.history.Commit(ctx); err != nil {
		return pkgerrors.Wrap(err, "record loaded design")
	}
	e.logger.Info("Design loaded",
		zap.String("designID", design.ID().String()),
		zap.String("name", design.Name()),
	)
	return nil
}

// SetSimulation suspends or resumes history recording
func (e *Editor) SetSimulation(on bool) {
	e.session.SetSimulation(on)
	e.logger.Debug("Simulation mode changed", zap.Bool("on", on))
}
