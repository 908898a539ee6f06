package replay

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"netdesign/application/services"
	"netdesign/domain/core/aggregates"
	"netdesign/domain/core/valueobjects"
	"netdesign/domain/presentation"
	pkgerrors "netdesign/pkg/errors"
)

// Runner applies scripts through an editor
type Runner struct {
	editor *services.Editor
	out    io.Writer
	logger *zap.Logger
}

// NewRunner creates a runner printing timeline summaries to out
func NewRunner(editor *services.Editor, out io.Writer, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		editor: editor,
		out:    out,
		logger: logger,
	}
}

// Run loads a fresh design named after the script and applies every step.
// It stops at the first failing step.
func (r *Runner) Run(ctx context.Context, script *Script) error {
	limits := r.editor.Session().CurrentDesign().Limits()
	design, err := aggregates.NewDesignWithConfig(script.Design, &limits)
	if err != nil {
		return err
	}
	if err := r.editor.Load(ctx, design); err != nil {
		return err
	}
	r.report(0, "load", "")

	for i, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		note, err := r.apply(ctx, step)
		if err != nil {
			r.logger.Error("Step failed",
				zap.Int("step", i+1),
				zap.String("op", string(step.Op)),
				zap.Error(err),
			)
			return pkgerrors.Wrapf(err, "step %d (%s)", i+1, step.Op)
		}
		r.report(i+1, string(step.Op), note)
	}
	return nil
}

func (r *Runner) apply(ctx context.Context, step Step) (string, error) {
	switch step.Op {
	case OpUndo:
		return moved(r.editor.Undo(ctx))
	case OpRedo:
		return moved(r.editor.Redo(ctx))
	case OpReset:
		r.editor.History().Reset(ctx)
		return "", nil
	case OpSimulateOn:
		r.editor.SetSimulation(true)
		return "", nil
	case OpSimulateOff:
		r.editor.SetSimulation(false)
		return "", nil
	}

	edit, err := editFor(step)
	if err != nil {
		return "", err
	}
	return "", r.editor.Edit(ctx, edit)
}

func moved(ok bool, err error) (string, error) {
	if err != nil || ok {
		return "", err
	}
	return "nothing to do", nil
}

func editFor(step Step) (services.EditFunc, error) {
	switch step.Op {
	case OpAddLayer:
		return func(d *aggregates.Design, _ *presentation.VisualizationState) error {
			_, err := d.AddLayer(step.Name, step.Description)
			return err
		}, nil

	case OpAddNode:
		return func(d *aggregates.Design, _ *presentation.VisualizationState) error {
			pos, err := valueobjects.NewPosition(step.X, step.Y)
			if err != nil {
				return err
			}
			_, err = d.AddNode(step.Name, pos)
			return err
		}, nil

	case OpAddLink, OpAddDemand:
		return func(d *aggregates.Design, _ *presentation.VisualizationState) error {
			layer, err := layerOf(d, step.Layer)
			if err != nil {
				return err
			}
			from, err := d.NodeByName(step.From)
			if err != nil {
				return err
			}
			to, err := d.NodeByName(step.To)
			if err != nil {
				return err
			}
			if step.Op == OpAddLink {
				_, err = d.AddLink(layer, from, to, step.Amount, step.LengthKm)
			} else {
				_, err = d.AddDemand(layer, from, to, step.Amount)
			}
			return err
		}, nil

	case OpRemoveNode:
		return func(d *aggregates.Design, _ *presentation.VisualizationState) error {
			id, err := d.NodeByName(step.Name)
			if err != nil {
				return err
			}
			return d.RemoveNode(id)
		}, nil

	case OpSetAttribute:
		return func(d *aggregates.Design, _ *presentation.VisualizationState) error {
			return d.SetAttribute(step.Key, step.Value)
		}, nil

	case OpHideLayer, OpShowLayer:
		return func(d *aggregates.Design, v *presentation.VisualizationState) error {
			layer, err := d.LayerByName(step.Layer)
			if err != nil {
				return err
			}
			return v.SetVisible(layer, step.Op == OpShowLayer)
		}, nil

	case OpMoveLayer:
		return func(d *aggregates.Design, v *presentation.VisualizationState) error {
			layer, err := d.LayerByName(step.Layer)
			if err != nil {
				return err
			}
			return v.MoveToRank(layer, step.Rank)
		}, nil
	}
	return nil, pkgerrors.NewValidationError(fmt.Sprintf("unsupported op %q", step.Op))
}

// layerOf resolves a layer by name; an empty name means the first layer
func layerOf(d *aggregates.Design, name string) (valueobjects.LayerHandle, error) {
	if name == "" {
		return d.LayerAt(0)
	}
	return d.LayerByName(name)
}

func (r *Runner) report(n int, op, note string) {
	st := r.editor.History().Status()
	design := r.editor.Session().CurrentDesign()

	line := fmt.Sprintf("%3d %-13s %s  len=%d cursor=%d undo=%t redo=%t  layers=%d nodes=%d links=%d demands=%d",
		n, op, Timeline(st), st.Length, st.Cursor, st.CanUndo, st.CanRedo,
		design.LayerCount(), design.NodeCount(), design.LinkCount(), design.DemandCount())
	if note != "" {
		line += "  (" + note + ")"
	}
	fmt.Fprintln(r.out, line)
}

// Timeline renders the entries of a history, marking the cursor with '*'
// and snapshots taken as navigation backups with 'b'.
func Timeline(st services.Status) string {
	if len(st.Entries) == 0 {
		return "[]"
	}
	parts := make([]string, 0, len(st.Entries))
	for _, e := range st.Entries {
		p := fmt.Sprint(e.Index)
		if e.FromBackup {
			p += "b"
		}
		if e.Current {
			p += "*"
		}
		parts = append(parts, p)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
