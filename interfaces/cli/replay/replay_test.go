package replay

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"netdesign/application/services"
	"netdesign/domain/core/aggregates"
	"netdesign/domain/versioning"
	pkgerrors "netdesign/pkg/errors"
)

func newRunner(t *testing.T, maxSize int) (*Runner, *services.Editor, *bytes.Buffer) {
	t.Helper()
	design, err := aggregates.NewDesign("scratch")
	require.NoError(t, err)

	session := services.NewSession(design)
	history := services.NewHistoryService(
		versioning.NewTimeline[*aggregates.Design](maxSize),
		session, session, nil, nil, nil, zap.NewNop(),
	)
	editor := services.NewEditor(session, history, zap.NewNop())
	var out bytes.Buffer
	return NewRunner(editor, &out, zap.NewNop()), editor, &out
}

func parse(t *testing.T, src string) *Script {
	t.Helper()
	s, err := ParseScript(strings.NewReader(src))
	require.NoError(t, err)
	return s
}

func lastLine(out *bytes.Buffer) string {
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	return lines[len(lines)-1]
}

func TestParseScript_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{name: "empty", src: "", wantMsg: "script is empty"},
		{name: "unknown field", src: "design: d\nsteps:\n  - op: undo\n    colour: red\n", wantMsg: "invalid script"},
		{name: "no design", src: "steps:\n  - op: undo\n", wantMsg: "design is required"},
		{name: "no steps", src: "design: d\n", wantMsg: "steps is required"},
		{name: "unknown op", src: "design: d\nsteps:\n  - op: explode\n", wantMsg: "steps[0].op must be one of"},
		{name: "negative amount", src: "design: d\nsteps:\n  - op: add_link\n    from: a\n    to: b\n    amount: -1\n", wantMsg: "steps[0].amount"},
		{name: "missing name", src: "design: d\nsteps:\n  - op: undo\n  - op: add_node\n", wantMsg: "step 2: add_node: name is required"},
		{name: "missing layer", src: "design: d\nsteps:\n  - op: hide_layer\n", wantMsg: "layer is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.True(t, pkgerrors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestRunner_DivergentEditKeepsBackup(t *testing.T) {
	runner, editor, out := newRunner(t, 10)
	script := parse(t, `
design: metro
steps:
  - op: add_node
    name: a
  - op: add_node
    name: b
  - op: undo
  - op: add_node
    name: c
  - op: redo
`)

	require.NoError(t, runner.Run(context.Background(), script))

	assert.Equal(t, "metro", editor.Session().CurrentDesign().Name())
	assert.Contains(t, lastLine(out), "[0 1 2b 3*]")
	assert.Contains(t, lastLine(out), "nothing to do")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "load")
	assert.Contains(t, lines[3], "[0 1* 2]")
}

func TestRunner_LinksDemandsAndPresentation(t *testing.T) {
	runner, editor, _ := newRunner(t, 10)
	script := parse(t, `
design: core
steps:
  - op: add_layer
    name: wdm
  - op: add_node
    name: lisbon
  - op: add_node
    name: porto
    x: 1
    y: 3
  - op: add_link
    layer: wdm
    from: lisbon
    to: porto
    amount: 100
    length_km: 313
  - op: add_demand
    from: porto
    to: lisbon
    amount: 40
  - op: move_layer
    layer: wdm
    rank: 0
  - op: hide_layer
    layer: wdm
  - op: set_attribute
    key: owner
    value: planning
`)
	require.NoError(t, runner.Run(context.Background(), script))

	session := editor.Session()
	design := session.CurrentDesign()
	assert.Equal(t, 1, design.LinkCount())
	assert.Equal(t, 1, design.DemandCount())
	owner, ok := design.Attribute("owner")
	assert.True(t, ok)
	assert.Equal(t, "planning", owner)

	wdm, err := design.LayerByName("wdm")
	require.NoError(t, err)
	assert.Equal(t, 0, session.VisualizationOrder(wdm))
	assert.False(t, session.IsLayerVisible(wdm))

	_, err = editor.Undo(context.Background())
	require.NoError(t, err)
	_, err = editor.Undo(context.Background())
	require.NoError(t, err)
	wdm, err = session.CurrentDesign().LayerByName("wdm")
	require.NoError(t, err)
	assert.True(t, session.IsLayerVisible(wdm))
	assert.Equal(t, 0, session.VisualizationOrder(wdm))
}

func TestRunner_SimulationAndReset(t *testing.T) {
	runner, editor, out := newRunner(t, 10)
	script := parse(t, `
design: lab
steps:
  - op: add_node
    name: a
  - op: simulate_on
  - op: remove_node
    name: a
  - op: undo
  - op: simulate_off
  - op: reset
  - op: add_node
    name: b
`)
	require.NoError(t, runner.Run(context.Background(), script))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Contains(t, lines[3], "len=2 cursor=1")
	assert.Contains(t, lines[4], "nothing to do")
	assert.Contains(t, lines[6], "[]")

	st := editor.History().Status()
	assert.Equal(t, 1, st.Length)
	assert.Equal(t, 0, st.Cursor)
	assert.Equal(t, []string{"b"}, func() []string {
		var names []string
		for _, n := range editor.Session().CurrentDesign().Nodes() {
			names = append(names, n.Name)
		}
		return names
	}())
}

func TestRunner_StopsAtFailingStep(t *testing.T) {
	runner, editor, out := newRunner(t, 10)
	script := parse(t, `
design: broken
steps:
  - op: add_node
    name: a
  - op: remove_node
    name: ghost
  - op: add_node
    name: b
`)
	err := runner.Run(context.Background(), script)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "step 2 (remove_node)")
	assert.Equal(t, 2, editor.History().Status().Length)
	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 2)
}

func TestTimeline_Render(t *testing.T) {
	assert.Equal(t, "[]", Timeline(services.Status{}))
	assert.Equal(t, "[0 1b* 2]", Timeline(services.Status{Entries: []versioning.Entry{
		{Index: 0},
		{Index: 1, Current: true, FromBackup: true},
		{Index: 2},
	}}))
}
