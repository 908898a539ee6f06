// Package replay runs scripted editing sessions against a network design
// and reports the undo/redo timeline after every step.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	pkgerrors "netdesign/pkg/errors"
	"netdesign/pkg/utils"
)

// Op names one scripted step
type Op string

const (
	OpAddLayer     Op = "add_layer"
	OpAddNode      Op = "add_node"
	OpAddLink      Op = "add_link"
	OpAddDemand    Op = "add_demand"
	OpRemoveNode   Op = "remove_node"
	OpSetAttribute Op = "set_attribute"
	OpHideLayer    Op = "hide_layer"
	OpShowLayer    Op = "show_layer"
	OpMoveLayer    Op = "move_layer"
	OpUndo         Op = "undo"
	OpRedo         Op = "redo"
	OpReset        Op = "reset"
	OpSimulateOn   Op = "simulate_on"
	OpSimulateOff  Op = "simulate_off"
)

// Script is a named design plus the steps applied to it
type Script struct {
	Design string `yaml:"design" validate:"required,max=200"`
	Steps  []Step `yaml:"steps" validate:"required,min=1,dive"`
}

// Step is one scripted action. Which fields are read depends on Op.
type Step struct {
	Op          Op      `yaml:"op" validate:"required,oneof=add_layer add_node add_link add_demand remove_node set_attribute hide_layer show_layer move_layer undo redo reset simulate_on simulate_off"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Layer       string  `yaml:"layer"`
	From        string  `yaml:"from"`
	To          string  `yaml:"to"`
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	Amount      float64 `yaml:"amount" validate:"gte=0"`
	LengthKm    float64 `yaml:"length_km" validate:"gte=0"`
	Key         string  `yaml:"key"`
	Value       string  `yaml:"value"`
	Rank        int     `yaml:"rank" validate:"gte=0"`
}

// required lists the fields each op reads and cannot do without
var required = map[Op][]string{
	OpAddLayer:     {"name"},
	OpAddNode:      {"name"},
	OpAddLink:      {"from", "to"},
	OpAddDemand:    {"from", "to"},
	OpRemoveNode:   {"name"},
	OpSetAttribute: {"key"},
	OpHideLayer:    {"layer"},
	OpShowLayer:    {"layer"},
	OpMoveLayer:    {"layer"},
}

func (s Step) field(name string) string {
	switch name {
	case "name":
		return s.Name
	case "from":
		return s.From
	case "to":
		return s.To
	case "key":
		return s.Key
	case "layer":
		return s.Layer
	}
	return ""
}

// Validate checks the step's tags and the fields its op needs
func (s Step) Validate() error {
	if err := utils.ValidateStruct(s); err != nil {
		return err
	}
	for _, name := range required[s.Op] {
		if err := utils.ValidateVar(name, s.field(name), "required"); err != nil {
			return pkgerrors.Wrapf(err, "%s", s.Op)
		}
	}
	return nil
}

// Validate checks the script and every step
func (s *Script) Validate() error {
	if err := utils.ValidateStruct(s); err != nil {
		return err
	}
	for i, step := range s.Steps {
		if err := step.Validate(); err != nil {
			return pkgerrors.Wrapf(err, "step %d", i+1)
		}
	}
	return nil
}

// ParseScript decodes and validates a YAML script
func ParseScript(r io.Reader) (*Script, error) {
	var s Script
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, pkgerrors.NewValidationError("script is empty")
		}
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("invalid script: %v", err))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScript reads a script file
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	return ParseScript(f)
}
