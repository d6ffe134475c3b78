package link

import (
	"hw2go/internal/common"
	"hw2go/internal/source"
)

//go:generate go tool stringer -type=Direction -output=direction_string.go

// Direction tells which end of a rule becomes the parent.
type Direction int

const (
	// ToParent makes the referenced record a parent of the referring one.
	ToParent Direction = iota
	// ToChild makes the referenced record a child of the referring one.
	ToChild
)

// Rule is one linkage rule.
type Rule struct {
	SourceType string
	Attribute  string
	TargetType string
	Direction  Direction
	// Mandatory rules log a warning when the reference does not resolve.
	Mandatory bool
}

func rule(f source.Field, dir Direction) Rule {
	return Rule{SourceType: f.Type, Attribute: f.Name, TargetType: f.Ref, Direction: dir, Mandatory: f.Required}
}

// DefaultRules returns the fixed, ordered linkage table.
func DefaultRules() []Rule {
	return []Rule{
		rule(source.GeneralDefaultPage, ToChild),
		rule(source.GeneralPackage, ToChild),

		rule(source.KeyboardPage, ToParent),
		rule(source.KeyboardKeyImageSet, ToChild),
		rule(source.KeyKeyboard, ToParent),
		rule(source.KeySwitch, ToChild),
		rule(source.ActionSource, ToParent),
		rule(source.ActionDestKeyboard, ToChild),
		rule(source.ActionDestDivision, ToChild),
		rule(source.ActionCondition, ToParent),

		rule(source.ImageSetPackage, ToChild),
		rule(source.ElementSet, ToParent),
		rule(source.InstanceSet, ToChild),
		rule(source.InstancePage, ToParent),

		rule(source.SwitchImage, ToChild),
		rule(source.LinkSource, ToParent),
		rule(source.LinkDest, ToChild),
		rule(source.LinkCondition, ToParent),

		rule(source.StopDivision, ToParent),
		rule(source.StopSwitch, ToParent),
		rule(source.StopRankStop, ToParent),
		rule(source.StopRankRank, ToChild),
		rule(source.StopRankAlternate, ToChild),

		rule(source.PipeRank, ToParent),
		rule(source.PipePallet, ToParent),
		rule(source.PipeWind, ToParent),
		rule(source.PipeShortcut, ToChild),
		rule(source.LayerPipe, ToParent),
		rule(source.LayerLevel, ToParent),
		rule(source.AttackLayer, ToParent),
		rule(source.AttackSample, ToChild),
		rule(source.ReleaseLayer, ToParent),
		rule(source.ReleaseSample, ToChild),
		rule(source.SamplePackage, ToChild),

		rule(source.ControlImage, ToChild),
		rule(source.ControlLinkSource, ToParent),
		rule(source.ControlLinkDest, ToChild),
		rule(source.ControlLinkCondition, ToParent),
		rule(source.StageControl, ToParent),
		rule(source.StageSwitch, ToChild),
		rule(source.EnclosureShutter, ToParent),
		rule(source.EnclosurePipeEnclosure, ToParent),
		rule(source.EnclosurePipePipe, ToChild),

		rule(source.TremulantSwitch, ToParent),
		rule(source.WaveformTremulant, ToParent),
		rule(source.TremPipeWaveform, ToParent),
		rule(source.TremPipePipe, ToChild),

		rule(source.TextPage, ToParent),
		rule(source.TextStyle, ToChild),
		rule(source.TextAttached, ToParent),
	}
}

// Step is one hop of a derived rule path: move to the parents of the given
// type when Up is set, to the children otherwise.
type Step struct {
	Up   bool
	Type string
}

// DerivedRule links a record to the records reached by walking Path over
// edges created earlier.
type DerivedRule struct {
	Name       string
	SourceType string
	Path       []Step
	Direction  Direction
}

// TargetType returns the type of the records a derived rule links to.
func (d DerivedRule) TargetType() string {
	last, _ := common.Last(d.Path)

	return last.Type
}

func up(t string) Step   { return Step{Up: true, Type: t} }
func down(t string) Step { return Step{Type: t} }

// DerivedRules returns the indirect rules in application order.
func DerivedRules() []DerivedRule {
	return []DerivedRule{
		{
			Name:       "switch page",
			SourceType: source.TypeSwitch,
			Path:       []Step{down(source.TypeImageSetInstance), up(source.TypeDisplayPage)},
			Direction:  ToParent,
		},
		{
			Name:       "control page",
			SourceType: source.TypeContinuousControl,
			Path:       []Step{down(source.TypeImageSetInstance), up(source.TypeDisplayPage)},
			Direction:  ToParent,
		},
		{
			Name:       "keyboard key page",
			SourceType: source.TypeKeyboard,
			Path: []Step{
				down(source.TypeKeyboardKey), down(source.TypeSwitch),
				down(source.TypeImageSetInstance), up(source.TypeDisplayPage),
			},
			Direction: ToParent,
		},
		{
			Name:       "keyboard division",
			SourceType: source.TypeKeyboard,
			Path:       []Step{down(source.TypeKeyAction), down(source.TypeDivision)},
			Direction:  ToChild,
		},
		{
			Name:       "layer wind supply",
			SourceType: source.TypeLayer,
			Path:       []Step{up(source.TypePipe), up(source.TypeWindCompartment)},
			Direction:  ToParent,
		},
	}
}

// RootTypes returns the types whose parentless records are attached to the
// general record.
func RootTypes() []string {
	return []string{
		source.TypeDisplayPage,
		source.TypeDivision,
		source.TypeKeyboard,
		source.TypeWindCompartment,
		source.TypeRank,
		source.TypeSwitch,
		source.TypeTremulant,
	}
}

// Exclusion names a rule, by source type and attribute, that is not applied.
type Exclusion struct {
	Type      string `yaml:"type"`
	Attribute string `yaml:"attribute"`
}

// DefaultExclusions returns the rules skipped unless configured otherwise.
// Shortcut pipe chains have been seen pointing at pipes that do not exist
// in some sample sets; they are excluded pending review of their meaning.
func DefaultExclusions() []Exclusion {
	return []Exclusion{{Type: source.TypePipe, Attribute: source.PipeShortcut.Name}}
}
