package source

import (
	"strings"

	"hw2go/internal/common"
	"hw2go/internal/diagnostic"
)

// Field declares one attribute the converter reads: the record type it
// belongs to, whether a record is incomplete without it, the default used
// when it is absent, and for references the record type it points to.
type Field struct {
	Type     string
	Name     string
	Required bool
	Default  string
	Ref      string
}

var fieldTable []Field

func field(recordType, name, def string) Field {
	f := Field{Type: recordType, Name: name, Default: def}
	fieldTable = append(fieldTable, f)

	return f
}

func required(recordType, name string) Field {
	f := Field{Type: recordType, Name: name, Required: true}
	fieldTable = append(fieldTable, f)

	return f
}

func ref(recordType, name, target string) Field {
	f := Field{Type: recordType, Name: name, Ref: target}
	fieldTable = append(fieldTable, f)

	return f
}

func requiredRef(recordType, name, target string) Field {
	f := Field{Type: recordType, Name: name, Ref: target, Required: true}
	fieldTable = append(fieldTable, f)

	return f
}

// The attribute table. Reference fields double as linkage rule inputs.
var (
	GeneralName          = field(TypeGeneral, "Identification_Name", "Organ")
	GeneralBuilder       = field(TypeGeneral, "OrganInfo_Builder", "")
	GeneralBuildDate     = field(TypeGeneral, "OrganInfo_BuildDate", "")
	GeneralComments      = field(TypeGeneral, "OrganInfo_Comments", "")
	GeneralLocation      = field(TypeGeneral, "OrganInfo_Location", "")
	GeneralInfoFile      = field(TypeGeneral, "OrganInfo_InfoFilename", "")
	GeneralPackage       = ref(TypeGeneral, "Identification_InstallationPackageID", TypeInstallationPackage)
	GeneralDefaultPage   = ref(TypeGeneral, "SpecialObjects_DefaultDisplayPageID", TypeDisplayPage)
	GeneralScreenWidth   = field(TypeGeneral, "Display_ConsoleScreenWidthPixels", "")
	GeneralScreenHeight  = field(TypeGeneral, "Display_ConsoleScreenHeightPixels", "")
	GeneralAmplitudeGain = field(TypeGeneral, "AudioOut_AmplitudeLevelAdjustDecibels", "0")

	PageName = field(TypeDisplayPage, "Name", "")

	DivisionName = field(TypeDivision, "Name", "")

	KeyboardName        = field(TypeKeyboard, "Name", "")
	KeyboardAsgnCode    = field(TypeKeyboard, "DefaultInputOutputKeyboardAsgnCode", "0")
	KeyboardKeyCount    = field(TypeKeyboard, "KeyGen_NumberOfKeys", "")
	KeyboardFirstNote   = field(TypeKeyboard, "KeyGen_MIDINoteNumberOfFirstKey", "")
	KeyboardPage        = ref(TypeKeyboard, "KeyGen_DisplayPageID", TypeDisplayPage)
	KeyboardKeyImageSet = ref(TypeKeyboard, "KeyGen_KeyImageSetID", TypeKeyImageSet)
	KeyboardLeft        = field(TypeKeyboard, "KeyGen_DispKeyboardLeftXPos", "0")
	KeyboardTop         = field(TypeKeyboard, "KeyGen_DispKeyboardTopYPos", "0")

	KeyKeyboard = requiredRef(TypeKeyboardKey, "KeyboardID", TypeKeyboard)
	KeySwitch   = ref(TypeKeyboardKey, "SwitchID", TypeSwitch)
	KeyNote     = field(TypeKeyboardKey, "NormalMIDINoteNumber", "")

	ActionSource       = requiredRef(TypeKeyAction, "SourceKeyboardID", TypeKeyboard)
	ActionDestKeyboard = ref(TypeKeyAction, "DestKeyboardID", TypeKeyboard)
	ActionDestDivision = ref(TypeKeyAction, "DestDivisionID", TypeDivision)
	ActionCondition    = ref(TypeKeyAction, "ConditionSwitchID", TypeSwitch)
	ActionIncrement    = field(TypeKeyAction, "MIDINoteNumIncrement", "0")
	ActionFirstNote    = field(TypeKeyAction, "FirstMIDINoteNumber", "")
	ActionKeyCount     = field(TypeKeyAction, "NumberOfKeys", "")
	ActionName         = field(TypeKeyAction, "Name", "")

	KeyImageSetEngaged    = field(TypeKeyImageSet, "ImageIndexWithinImageSets_Engaged", "2")
	KeyImageSetDisengaged = field(TypeKeyImageSet, "ImageIndexWithinImageSets_Disengaged", "1")
	KeyImageSetNatural    = field(TypeKeyImageSet, "HorizSpacingPixels_LeftOfNaturalFromLeftOfNatural", "")
	KeyImageSetSharp      = field(TypeKeyImageSet, "HorizSpacingPixels_LeftOfSharpFromLeftOfNatural", "")

	ImageSetPackage = ref(TypeImageSet, "InstallationPackageID", TypeInstallationPackage)
	ImageSetWidth   = field(TypeImageSet, "ImageWidthPixels", "")
	ImageSetHeight  = field(TypeImageSet, "ImageHeightPixels", "")
	ImageSetMask    = field(TypeImageSet, "TransparencyMaskBitmapFilename", "")

	ElementSet    = requiredRef(TypeImageSetElement, "ImageSetID", TypeImageSet)
	ElementIndex  = field(TypeImageSetElement, "ImageIndexWithinSet", "1")
	ElementBitmap = required(TypeImageSetElement, "BitmapFilename")

	InstanceSet   = requiredRef(TypeImageSetInstance, "ImageSetID", TypeImageSet)
	InstancePage  = ref(TypeImageSetInstance, "DisplayPageID", TypeDisplayPage)
	InstanceName  = field(TypeImageSetInstance, "Name", "")
	InstanceLeft  = field(TypeImageSetInstance, "LeftXPosPixels", "0")
	InstanceTop   = field(TypeImageSetInstance, "TopYPosPixels", "0")
	InstanceLayer = field(TypeImageSetInstance, "ScreenLayerNumber", "1")

	SwitchName            = field(TypeSwitch, "Name", "")
	SwitchImage           = ref(TypeSwitch, "Disp_ImageSetInstanceID", TypeImageSetInstance)
	SwitchIndexEngaged    = field(TypeSwitch, "Disp_ImageSetIndexEngaged", "2")
	SwitchIndexDisengaged = field(TypeSwitch, "Disp_ImageSetIndexDisengaged", "1")
	SwitchClickable       = field(TypeSwitch, "Clickable", "N")
	SwitchDefaultEngaged  = field(TypeSwitch, "DefaultToEngaged", "N")

	LinkSource         = requiredRef(TypeSwitchLinkage, "SourceSwitchID", TypeSwitch)
	LinkDest           = requiredRef(TypeSwitchLinkage, "DestSwitchID", TypeSwitch)
	LinkCondition      = ref(TypeSwitchLinkage, "ConditionSwitchID", TypeSwitch)
	LinkEngageCode     = field(TypeSwitchLinkage, "EngageLinkActionCode", "")
	LinkDisengageCode  = field(TypeSwitchLinkage, "DisengageLinkActionCode", "")
	LinkSourceIfEngage = field(TypeSwitchLinkage, "SourceSwitchLinkIfEngaged", "Y")

	StopName     = field(TypeStop, "Name", "")
	StopDivision = ref(TypeStop, "DivisionID", TypeDivision)
	StopSwitch   = ref(TypeStop, "ControllingSwitchID", TypeSwitch)

	StopRankStop      = requiredRef(TypeStopRank, "StopID", TypeStop)
	StopRankRank      = requiredRef(TypeStopRank, "RankID", TypeRank)
	StopRankAction    = field(TypeStopRank, "ActionTypeCode", "1")
	StopRankFirstNode = field(TypeStopRank, "MIDINoteNumOfFirstMappedDivisionInputNode", "")
	StopRankNodeCount = field(TypeStopRank, "NumberOfMappedDivisionInputNodes", "")
	StopRankIncrement = field(TypeStopRank, "MIDINoteNumIncrementFromDivisionToRank", "0")
	StopRankPipeLayer = field(TypeStopRank, "PipeLayerNumber", "1")
	StopRankAlternate = ref(TypeStopRank, "AlternateRankID", TypeRank)

	RankName = field(TypeRank, "Name", "")

	PipeRank     = requiredRef(TypePipe, "RankID", TypeRank)
	PipeNote     = required(TypePipe, "NormalMIDINoteNumber")
	PipePallet   = ref(TypePipe, "ControllingPalletSwitchID", TypeSwitch)
	PipeWind     = ref(TypePipe, "WindSupply_SourceWindCompartmentID", TypeWindCompartment)
	PipeShortcut = ref(TypePipe, "ShortcutPipeID", TypePipe)

	LayerPipe  = requiredRef(TypeLayer, "PipeID", TypePipe)
	LayerLevel = ref(TypeLayer, "AmpLvl_ScalingContinuousControlID", TypeContinuousControl)

	AttackLayer     = requiredRef(TypeAttackSample, "LayerID", TypeLayer)
	AttackSample    = requiredRef(TypeAttackSample, "SampleID", TypeSample)
	AttackCrossfade = field(TypeAttackSample, "LoopCrossfadeLengthInSrcSampleMs", "")

	ReleaseLayer   = requiredRef(TypeReleaseSample, "LayerID", TypeLayer)
	ReleaseSample  = requiredRef(TypeReleaseSample, "SampleID", TypeSample)
	ReleaseMaxTime = field(TypeReleaseSample, "ReleaseSelCriteria_LatestKeyReleaseTimeMs", "")

	SamplePackage = requiredRef(TypeSample, "InstallationPackageID", TypeInstallationPackage)
	SampleFile    = required(TypeSample, "SampleFilename")

	WindName = field(TypeWindCompartment, "Name", "")

	ControlName  = field(TypeContinuousControl, "Name", "")
	ControlImage = ref(TypeContinuousControl, "ImageSetInstanceID", TypeImageSetInstance)

	ControlLinkSource    = requiredRef(TypeControlLinkage, "SourceControlID", TypeContinuousControl)
	ControlLinkDest      = requiredRef(TypeControlLinkage, "DestControlID", TypeContinuousControl)
	ControlLinkCondition = ref(TypeControlLinkage, "ConditionSwitchID", TypeSwitch)

	StageControl = requiredRef(TypeControlStageSwitch, "ContinuousControlID", TypeContinuousControl)
	StageSwitch  = requiredRef(TypeControlStageSwitch, "ControlledSwitchID", TypeSwitch)

	EnclosureName    = field(TypeEnclosure, "Name", "")
	EnclosureShutter = ref(TypeEnclosure, "ShutterPositionContinuousControlID", TypeContinuousControl)

	EnclosurePipeEnclosure = requiredRef(TypeEnclosurePipe, "EnclosureID", TypeEnclosure)
	EnclosurePipePipe      = requiredRef(TypeEnclosurePipe, "PipeID", TypePipe)

	TremulantName   = field(TypeTremulant, "Name", "")
	TremulantSwitch = ref(TypeTremulant, "ControllingSwitchID", TypeSwitch)
	TremulantPeriod = field(TypeTremulant, "PeriodMs", "250")
	TremulantStart  = field(TypeTremulant, "StartRate", "8")
	TremulantStop   = field(TypeTremulant, "StopRate", "8")
	TremulantDepth  = field(TypeTremulant, "AmplitudeModDepth", "18")

	WaveformTremulant = requiredRef(TypeTremulantWaveform, "TremulantID", TypeTremulant)

	TremPipeWaveform = requiredRef(TypeTremulantPipe, "TremulantWaveformID", TypeTremulantWaveform)
	TremPipePipe     = requiredRef(TypeTremulantPipe, "PipeID", TypePipe)

	StyleFontSize = field(TypeTextStyle, "Font_SizePixels", "")
	StyleFontName = field(TypeTextStyle, "Font_Name", "")
	StyleRed      = field(TypeTextStyle, "Colour_Red", "0")
	StyleGreen    = field(TypeTextStyle, "Colour_Green", "0")
	StyleBlue     = field(TypeTextStyle, "Colour_Blue", "0")

	TextPage     = requiredRef(TypeTextInstance, "DisplayPageID", TypeDisplayPage)
	TextStyle    = ref(TypeTextInstance, "TextStyleID", TypeTextStyle)
	TextText     = required(TypeTextInstance, "Text")
	TextX        = field(TypeTextInstance, "XPosPixels", "0")
	TextY        = field(TypeTextInstance, "YPosPixels", "0")
	TextAttached = ref(TypeTextInstance, "AttachedToImageSetInstanceID", TypeImageSetInstance)
	TextRelative = field(TypeTextInstance, "PosRelativeToTopLeftOfImageSetInstance", "N")
	TextWidth    = field(TypeTextInstance, "BoundingBoxWidthPixelsIfWordWrap", "")
	TextHeight   = field(TypeTextInstance, "BoundingBoxHeightPixelsIfWordWrap", "")
)

// KeyShapes are the KeyImageSet image set references in keyboard order.
var KeyShapes = []struct {
	Shape string
	Field Field
}{
	{"C", ref(TypeKeyImageSet, "KeyShapeImageSetID_CF", TypeImageSet)},
	{"D", ref(TypeKeyImageSet, "KeyShapeImageSetID_D", TypeImageSet)},
	{"E", ref(TypeKeyImageSet, "KeyShapeImageSetID_EB", TypeImageSet)},
	{"G", ref(TypeKeyImageSet, "KeyShapeImageSetID_G", TypeImageSet)},
	{"A", ref(TypeKeyImageSet, "KeyShapeImageSetID_A", TypeImageSet)},
	{"Natural", ref(TypeKeyImageSet, "KeyShapeImageSetID_WholeNatural", TypeImageSet)},
	{"Sharp", ref(TypeKeyImageSet, "KeyShapeImageSetID_Sharp", TypeImageSet)},
	{"FirstKey", ref(TypeKeyImageSet, "KeyShapeImageSetID_FirstKeyDA", TypeImageSet)},
	{"LastKey", ref(TypeKeyImageSet, "KeyShapeImageSetID_LastKeyDG", TypeImageSet)},
}

// Fields returns the attribute table in declaration order.
func Fields() []Field {
	return fieldTable
}

// Value returns the attribute value, or the field default when absent.
func (r *Record) Value(f Field) (string, bool) {
	if v, ok := r.attrs[f.Name]; ok {
		return v, true
	}

	return f.Default, f.Default != ""
}

// Has reports whether the record carries the attribute itself.
func (r *Record) Has(f Field) bool {
	_, ok := r.attrs[f.Name]

	return ok
}

// Str returns the attribute value or the default.
func (r *Record) Str(f Field) string {
	v, _ := r.Value(f)

	return v
}

// IntOK parses the attribute (or its default) as an integer.
func (r *Record) IntOK(f Field) (int, bool) {
	v, ok := r.Value(f)
	if !ok {
		return 0, false
	}

	if n, ok := common.ParseInt(v); ok {
		return n, true
	}

	// "36.000000" is common in exported documents
	if fl, ok := common.ParseFloat(v); ok && fl == float64(int(fl)) {
		return int(fl), true
	}

	return 0, false
}

// Int parses the attribute as an integer, falling back to the default and
// then to zero.
func (r *Record) Int(f Field) int {
	if n, ok := r.IntOK(f); ok {
		return n
	}

	n, _ := common.ParseInt(f.Default)

	return n
}

// Float parses the attribute as a float, falling back to the default and
// then to zero.
func (r *Record) Float(f Field) float64 {
	if fl, ok := common.ParseFloat(r.Str(f)); ok {
		return fl
	}

	fl, _ := common.ParseFloat(f.Default)

	return fl
}

// Bool parses a Y/N attribute, falling back to the default.
func (r *Record) Bool(f Field) bool {
	if b, ok := common.ParseYesNo(r.Str(f)); ok {
		return b
	}

	b, _ := common.ParseYesNo(f.Default)

	return b
}

// RefID parses a reference attribute as a positive integer id.
func (r *Record) RefID(attr string) (int, bool) {
	v, ok := r.attrs[attr]
	if !ok {
		return 0, false
	}

	if n, ok := common.ParsePositive(v); ok {
		return n, true
	}

	if fl, ok := common.ParseFloat(v); ok && fl >= 1 && fl == float64(int(fl)) {
		return int(fl), true
	}

	return 0, false
}

// CheckRequired logs a warning for every stored record lacking a required
// attribute of the table. Required references are reported by the linker
// instead. It returns the number of omissions.
func CheckRequired(s *Store, log *diagnostic.Log) int {
	missing := 0

	for _, f := range fieldTable {
		if !f.Required || f.Ref != "" {
			continue
		}

		for _, r := range s.ByType(f.Type) {
			if v, ok := r.attrs[f.Name]; ok && strings.TrimSpace(v) != "" {
				continue
			}

			missing++

			log.Warnf("missing-attribute", r.String(), "required attribute %s is absent", f.Name)
		}
	}

	return missing
}
