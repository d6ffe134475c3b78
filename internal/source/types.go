package source

// Record type names of the source schema.
const (
	TypeGeneral             = "_General"
	TypeDisplayPage         = "DisplayPage"
	TypeDivision            = "Division"
	TypeKeyboard            = "Keyboard"
	TypeKeyboardKey         = "KeyboardKey"
	TypeKeyAction           = "KeyAction"
	TypeKeyImageSet         = "KeyImageSet"
	TypeImageSet            = "ImageSet"
	TypeImageSetElement     = "ImageSetElement"
	TypeImageSetInstance    = "ImageSetInstance"
	TypeSwitch              = "Switch"
	TypeSwitchLinkage       = "SwitchLinkage"
	TypeStop                = "Stop"
	TypeStopRank            = "StopRank"
	TypeRank                = "Rank"
	TypePipe                = "Pipe_SoundEngine01"
	TypeLayer               = "Pipe_SoundEngine01_Layer"
	TypeAttackSample        = "Pipe_SoundEngine01_AttackSample"
	TypeReleaseSample       = "Pipe_SoundEngine01_ReleaseSample"
	TypeSample              = "Sample"
	TypeInstallationPackage = "InstallationPackage"
	TypeWindCompartment     = "WindCompartment"
	TypeContinuousControl   = "ContinuousControl"
	TypeControlLinkage      = "ContinuousControlLinkage"
	TypeControlStageSwitch  = "ContinuousControlStageSwitch"
	TypeEnclosure           = "Enclosure"
	TypeEnclosurePipe       = "EnclosurePipe"
	TypeTremulant           = "Tremulant"
	TypeTremulantWaveform   = "TremulantWaveform"
	TypeTremulantPipe       = "TremulantWaveformPipe"
	TypeTextStyle           = "TextStyle"
	TypeTextInstance        = "TextInstance"
)

// StopRank action type codes.
const (
	ActionNormal      = 1
	ActionAttackOnly  = 2
	ActionReleaseOnly = 3
	ActionAmbient     = 4
)

// SwitchLinkage action codes of a plain pass-through link.
const (
	LinkActionEngage    = 1
	LinkActionDisengage = 2
)
