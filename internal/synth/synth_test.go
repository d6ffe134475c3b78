package synth

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hw2go/internal/diagnostic"
	"hw2go/internal/dictionary"
	"hw2go/internal/link"
	"hw2go/internal/loader"
	"hw2go/internal/loader/loadertest"
	"hw2go/internal/source"
	"hw2go/internal/target"
)

type result struct {
	src   *source.Store
	dst   *target.Store
	stats Stats
	log   *diagnostic.Log
}

func synthesize(t *testing.T, b *loadertest.Builder) result {
	t.Helper()

	dict, err := dictionary.Default()
	require.NoError(t, err)

	src := source.NewStore()
	log := diagnostic.NewLog(nil)
	_, err = loader.Load(bytes.NewReader(b.Bytes()), dict, src, log)
	require.NoError(t, err)

	link.New(log).Run(src)

	dst := target.NewStore()
	stats, err := New(src, dst, log, nil, DefaultConfig()).Run()
	require.NoError(t, err)

	return result{src: src, dst: dst, stats: stats, log: log}
}

func (r result) attr(t *testing.T, name, attr string) string {
	t.Helper()

	rec, ok := r.dst.Get(name)
	require.True(t, ok, "section %s", name)

	v, ok := rec.Get(attr)
	require.True(t, ok, "%s.%s", name, attr)

	return v
}

func countCode(log *diagnostic.Log, code string) int {
	n := 0

	for _, e := range log.Entries() {
		if e.Code == code {
			n++
		}
	}

	return n
}

func (r result) has(name, attr string) bool {
	rec, ok := r.dst.Get(name)
	if !ok {
		return false
	}

	_, ok = rec.Get(attr)

	return ok
}

// addRank adds count pipes on consecutive notes, each with one layer and one
// attack sample. Record ids start at firstID.
func addRank(b *loadertest.Builder, rankID, firstID, firstNote, count int, dir string) *loadertest.Builder {
	r := strconv.Itoa(rankID)

	for i := range count {
		id := strconv.Itoa(firstID + i)
		note := strconv.Itoa(firstNote + i)

		b.Add("Pipe_SoundEngine01", "PipeID", id, "RankID", r, "NormalMIDINoteNumber", note).
			Add("Pipe_SoundEngine01_Layer", "LayerID", id, "PipeID", id).
			Add("Pipe_SoundEngine01_AttackSample", "UniqueID", id, "LayerID", id, "SampleID", id).
			Add("Sample", "SampleID", id, "InstallationPackageID", "1", "SampleFilename", dir+`\`+note+".wav")
	}

	return b
}

// organ is one 61 key keyboard playing one division with one stop of one
// 61 pipe rank. switchAttrs are added to the stop switch.
func organ(switchAttrs ...string) *loadertest.Builder {
	b := loadertest.New().
		Add("_General", "Identification_Name", "Test", "Identification_InstallationPackageID", "1").
		Add("InstallationPackage", "InstallationPackageID", "1").
		Add("DisplayPage", "PageID", "1", "Name", "Console").
		Add("Division", "DivisionID", "1", "Name", "Great").
		Add("Keyboard", "KeyboardID", "1", "Name", "Great",
			"KeyGen_NumberOfKeys", "61", "KeyGen_MIDINoteNumberOfFirstKey", "36").
		Add("KeyAction", "SourceKeyboardID", "1", "DestDivisionID", "1").
		Add("Switch", append([]string{"SwitchID", "1", "Name", "Principal 8", "Clickable", "Y"}, switchAttrs...)...).
		Add("Stop", "StopID", "1", "Name", "Principal 8", "DivisionID", "1", "ControllingSwitchID", "1").
		Add("Rank", "RankID", "1", "Name", "Principal").
		Add("StopRank", "StopID", "1", "RankID", "1")

	return addRank(b, 1, 1, 36, 61, "Principal")
}

func TestRun_NoGeneralRecord(t *testing.T) {
	_, err := New(source.NewStore(), target.NewStore(), nil, nil, DefaultConfig()).Run()

	require.ErrorIs(t, err, ErrNoGeneralRecord)
}

func TestRun_SingleKeyboardOrgan(t *testing.T) {
	r := synthesize(t, organ())

	assert.Equal(t, "61", r.attr(t, "Manual001", "NumberOfAccessibleKeys"))
	assert.Equal(t, "36", r.attr(t, "Manual001", "FirstAccessibleKeyMIDINoteNumber"))
	assert.Equal(t, "1", r.attr(t, "Manual001", "NumberOfStops"))
	assert.Equal(t, "001", r.attr(t, "Manual001", "Stop001"))

	assert.Equal(t, "Principal 8", r.attr(t, "Stop001", "Name"))
	assert.Equal(t, "61", r.attr(t, "Stop001", "NumberOfAccessiblePipes"))
	assert.Equal(t, "1", r.attr(t, "Stop001", "NumberOfRanks"))
	assert.Equal(t, "001", r.attr(t, "Stop001", "Rank001"))
	assert.Equal(t, "1", r.attr(t, "Stop001", "Rank001FirstPipeNumber"))
	assert.Equal(t, "61", r.attr(t, "Stop001", "Rank001PipeCount"))
	assert.Equal(t, "And", r.attr(t, "Stop001", "Function"))
	assert.Equal(t, "001", r.attr(t, "Stop001", "Switch001"))

	assert.Equal(t, 1, r.dst.Count("Rank"))
	assert.Equal(t, "61", r.attr(t, "Rank001", "NumberOfPipes"))
	assert.Equal(t, "36", r.attr(t, "Rank001", "FirstMidiNoteNumber"))
	assert.Equal(t, "OrganInstallationPackages/000001/Principal/36.wav", r.attr(t, "Rank001", "Pipe001"))
	assert.Equal(t, "OrganInstallationPackages/000001/Principal/96.wav", r.attr(t, "Rank001", "Pipe061"))
	assert.Equal(t, "001", r.attr(t, "Rank001", "WindchestGroup"))

	assert.Equal(t, "Principal 8", r.attr(t, "Switch001", "Name"))

	assert.Equal(t, "Test", r.attr(t, "Organ", "ChurchName"))
	assert.Equal(t, "1", r.attr(t, "Organ", "NumberOfManuals"))
	assert.Equal(t, "N", r.attr(t, "Organ", "HasPedals"))
	assert.Equal(t, "1", r.attr(t, "Organ", "NumberOfSwitches"))
	assert.Equal(t, "1", r.attr(t, "Organ", "NumberOfWindchestGroups"))
	assert.Equal(t, "0", r.attr(t, "Organ", "NumberOfPanels"))
	assert.Equal(t, "Console", r.attr(t, "Panel000", "Name"))

	assert.Equal(t, 1, r.stats.Manuals)
	assert.Equal(t, 1, r.stats.Stops)
	assert.False(t, r.stats.SilentLoop)

	for _, rec := range r.dst.Records() {
		for _, a := range rec.Attrs() {
			assert.NotEqual(t, target.BookkeepingPrefix, a.Name[:1], "%s.%s", rec.Name(), a.Name)
		}
	}
}

func TestRun_UnconditionalCoupler(t *testing.T) {
	b := organ().Add("KeyAction", "SourceKeyboardID", "1", "DestKeyboardID", "1", "MIDINoteNumIncrement", "12")

	r := synthesize(t, b)

	assert.Equal(t, "12", r.attr(t, "Coupler001", "DestinationKeyshift"))
	assert.Equal(t, "001", r.attr(t, "Coupler001", "DestinationManual"))
	assert.Equal(t, "Y", r.attr(t, "Coupler001", "DefaultToEngaged"))
	assert.Equal(t, "N", r.attr(t, "Coupler001", "UnisonOff"))
	assert.False(t, r.has("Coupler001", "Switch001"))
	assert.False(t, r.has("Coupler001", "Function"))

	assert.Equal(t, "1", r.attr(t, "Manual001", "NumberOfCouplers"))
	assert.Equal(t, "001", r.attr(t, "Manual001", "Coupler001"))
}

func TestRun_SharedRankKeepsOffsets(t *testing.T) {
	b := organ().
		Add("Switch", "SwitchID", "2", "Name", "Octave 4", "Clickable", "Y").
		Add("Stop", "StopID", "2", "Name", "Octave 4", "DivisionID", "1", "ControllingSwitchID", "2").
		Add("StopRank", "StopID", "2", "RankID", "1", "MIDINoteNumIncrementFromDivisionToRank", "12")

	r := synthesize(t, b)

	require.Equal(t, 1, r.dst.Count("Rank"))
	assert.Equal(t, "001", r.attr(t, "Stop001", "Rank001"))
	assert.Equal(t, "001", r.attr(t, "Stop002", "Rank001"))

	assert.Equal(t, "13", r.attr(t, "Stop002", "Rank001FirstPipeNumber"))
	assert.Equal(t, "49", r.attr(t, "Stop002", "Rank001PipeCount"))
	assert.Equal(t, "1", r.attr(t, "Stop002", "Rank001FirstAccessibleKeyNumber"))
	assert.Equal(t, "49", r.attr(t, "Stop002", "NumberOfAccessiblePipes"))
	assert.Equal(t, "002", r.attr(t, "Stop002", "Switch001"))

	assert.Equal(t, "2", r.attr(t, "Manual001", "NumberOfStops"))
}

func TestRun_DeadDeviceIsDiscarded(t *testing.T) {
	b := organ().
		Add("Stop", "StopID", "2", "Name", "Ghost", "DivisionID", "1", "ControllingSwitchID", "99").
		Add("StopRank", "StopID", "2", "RankID", "1").
		Add("StopRank", "StopID", "2", "RankID", "1", "ActionTypeCode", "2")

	r := synthesize(t, b)

	assert.Equal(t, 1, r.dst.Count("Stop"))
	assert.Equal(t, 1, r.dst.Count("Switch"))
	assert.Equal(t, 1, r.stats.Discarded, "counted once across the stop and noise phases")
	assert.Equal(t, 1, countCode(r.log, "dead-device"))

	stop, ok := r.src.Lookup(source.TypeStop, 2)
	require.True(t, ok)
	assert.True(t, stop.Discarded())
}

func TestRun_SwitchWithUnfollowedDriverIsKept(t *testing.T) {
	tests := []struct {
		name   string
		driver func(b *loadertest.Builder)
	}{
		{
			name: "crescendo stage",
			driver: func(b *loadertest.Builder) {
				b.Add("ContinuousControl", "ControlID", "1", "Name", "Crescendo").
					Add("ContinuousControlStageSwitch", "ContinuousControlID", "1", "ControlledSwitchID", "2")
			},
		},
		{
			name: "conditional linkage",
			driver: func(b *loadertest.Builder) {
				b.Add("Switch", "SwitchID", "3", "Name", "Coupler tab", "Clickable", "Y").
					Add("Switch", "SwitchID", "5", "Name", "Condition").
					Add("SwitchLinkage", "SourceSwitchID", "3", "DestSwitchID", "2", "ConditionSwitchID", "5")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := organ().
				Add("Switch", "SwitchID", "2", "Name", "Driven").
				Add("Stop", "StopID", "2", "Name", "Trompete 8", "DivisionID", "1", "ControllingSwitchID", "2").
				Add("StopRank", "StopID", "2", "RankID", "1")
			tt.driver(b)

			r := synthesize(t, b)

			assert.Equal(t, 2, r.stats.Stops)
			assert.Zero(t, r.stats.Discarded)
			assert.False(t, r.log.HasCode("dead-device"))
			assert.Equal(t, "Trompete 8", r.attr(t, "Stop002", "Name"))
			assert.Equal(t, "And", r.attr(t, "Stop002", "Function"))

			sw := r.attr(t, "Stop002", "Switch001")
			assert.Equal(t, "Driven", r.attr(t, "Switch"+sw, "Name"))
			assert.Equal(t, "N", r.attr(t, "Switch"+sw, "DefaultToEngaged"))
		})
	}
}

func TestRun_InvertingLinkage(t *testing.T) {
	b := organ().
		Add("Switch", "SwitchID", "3", "Name", "Off", "Clickable", "Y").
		Add("Switch", "SwitchID", "4", "Name", "Relay").
		Add("SwitchLinkage", "SourceSwitchID", "3", "DestSwitchID", "4", "SourceSwitchLinkIfEngaged", "N").
		Add("Stop", "StopID", "2", "Name", "Bourdon", "DivisionID", "1", "ControllingSwitchID", "4").
		Add("StopRank", "StopID", "2", "RankID", "1")

	r := synthesize(t, b)

	assert.Equal(t, "Not", r.attr(t, "Stop002", "Function"))
	assert.Equal(t, "Off", r.attr(t, "Switch002", "Name"))
	assert.Equal(t, "002", r.attr(t, "Stop002", "Switch001"))
}

func TestRun_NoiseWithSilentRelease(t *testing.T) {
	b := organ().
		Add("Stop", "StopID", "3", "Name", "Blower").
		Add("Rank", "RankID", "2", "Name", "Blower noise").
		Add("StopRank", "StopID", "3", "RankID", "2", "ActionTypeCode", "2")
	b = addRank(b, 2, 100, 36, 1, "Noise")

	r := synthesize(t, b)

	assert.True(t, r.stats.SilentLoop)
	assert.Equal(t, "Noises", r.attr(t, "Manual002", "Name"))
	assert.Equal(t, "N", r.attr(t, "Manual002", "Displayed"))
	assert.Equal(t, "0", r.attr(t, "Manual002", "NumberOfAccessibleKeys"))
	assert.Equal(t, "002", r.attr(t, "Manual002", "Stop001"))

	assert.Equal(t, "Blower (noise)", r.attr(t, "Stop002", "Name"))
	assert.Equal(t, "Y", r.attr(t, "Stop002", "DefaultToEngaged"))
	assert.Equal(t, "002", r.attr(t, "Stop002", "Rank001"))
	assert.Equal(t, "OrganInstallationPackages/000001/Noise/36.wav", r.attr(t, "Rank002", "Pipe001"))
	assert.Equal(t, "GO_SilentLoop.wav", r.attr(t, "Rank002", "Pipe001Release001"))
	assert.Equal(t, "2", r.attr(t, "Organ", "NumberOfManuals"))
}

func TestRun_SwitchDrivenPipe(t *testing.T) {
	b := organ().
		Add("Switch", "SwitchID", "6", "Name", "Motor", "Clickable", "Y").
		Add("Rank", "RankID", "3", "Name", "Effects")
	b = addRank(b, 3, 200, 60, 1, "Fx")
	b.Add("Pipe_SoundEngine01", "PipeID", "201", "RankID", "3", "NormalMIDINoteNumber", "61",
		"ControllingPalletSwitchID", "6").
		Add("Pipe_SoundEngine01_Layer", "LayerID", "201", "PipeID", "201").
		Add("Pipe_SoundEngine01_AttackSample", "UniqueID", "201", "LayerID", "201", "SampleID", "201").
		Add("Sample", "SampleID", "201", "InstallationPackageID", "1", "SampleFilename", "Fx/motor.wav")

	r := synthesize(t, b)

	stop, ok := r.dst.Get("Stop002")
	require.True(t, ok)

	name, _ := stop.Get("Name")
	assert.Equal(t, "Motor", name)
	assert.Equal(t, "And", r.attr(t, "Stop002", "Function"))
	assert.Equal(t, "002", r.attr(t, "Stop002", "Switch001"))
	assert.Equal(t, "OrganInstallationPackages/000001/Fx/motor.wav", r.attr(t, "Rank002", "Pipe001"))
	assert.False(t, r.has("Rank002", "Pipe001ReleaseCount"))
}

func TestRun_PedalAndKeyRange(t *testing.T) {
	b := organ().
		Add("Keyboard", "KeyboardID", "2", "Name", "Swell").
		Add("KeyboardKey", "KeyboardID", "2", "NormalMIDINoteNumber", "48").
		Add("KeyboardKey", "KeyboardID", "2", "NormalMIDINoteNumber", "49").
		Add("KeyboardKey", "KeyboardID", "2", "NormalMIDINoteNumber", "50").
		Add("Keyboard", "KeyboardID", "3", "Name", "Pedal")

	r := synthesize(t, b)

	assert.Equal(t, "Swell", r.attr(t, "Manual002", "Name"))
	assert.Equal(t, "48", r.attr(t, "Manual002", "FirstAccessibleKeyMIDINoteNumber"))
	assert.Equal(t, "3", r.attr(t, "Manual002", "NumberOfAccessibleKeys"))

	assert.Equal(t, "Pedal", r.attr(t, "Manual000", "Name"))
	assert.Equal(t, "Y", r.attr(t, "Organ", "HasPedals"))
	assert.Equal(t, "Y", r.attr(t, "Panel000", "HasPedals"))
	assert.Equal(t, "2", r.attr(t, "Organ", "NumberOfManuals"))
}

// console draws the stop switch and adds a static background, a label and
// a clickable switch no device uses.
func console() *loadertest.Builder {
	return organ("Disp_ImageSetInstanceID", "1").
		Add("ImageSet", "ImageSetID", "1", "InstallationPackageID", "1",
			"ImageWidthPixels", "40", "ImageHeightPixels", "20").
		Add("ImageSet", "ImageSetID", "2", "InstallationPackageID", "1").
		Add("ImageSetElement", "ImageSetID", "1", "ImageIndexWithinSet", "1", "BitmapFilename", `images\off.bmp`).
		Add("ImageSetElement", "ImageSetID", "1", "ImageIndexWithinSet", "2", "BitmapFilename", `images\on.bmp`).
		Add("ImageSetElement", "ImageSetID", "2", "BitmapFilename", `images\bg.bmp`).
		Add("ImageSetInstance", "ImageSetInstanceID", "1", "ImageSetID", "1", "DisplayPageID", "1",
			"LeftXPosPixels", "100", "TopYPosPixels", "50").
		Add("ImageSetInstance", "ImageSetInstanceID", "2", "ImageSetID", "2", "DisplayPageID", "1").
		Add("ImageSetInstance", "ImageSetInstanceID", "3", "ImageSetID", "1", "DisplayPageID", "1",
			"LeftXPosPixels", "200").
		Add("Switch", "SwitchID", "5", "Name", "Cymbelstern", "Clickable", "Y", "Disp_ImageSetInstanceID", "3").
		Add("TextStyle", "TextStyleID", "1", "Font_SizePixels", "20", "Colour_Red", "255").
		Add("TextInstance", "DisplayPageID", "1", "TextStyleID", "1", "Text", "Great",
			"XPosPixels", "10", "YPosPixels", "5")
}

func TestRun_PanelElements(t *testing.T) {
	r := synthesize(t, console())

	assert.Equal(t, "OrganInstallationPackages/000001/images/bg.bmp", r.attr(t, "Panel000Image001", "Image"))
	assert.Equal(t, "1", r.attr(t, "Panel000", "NumberOfImages"))

	assert.Equal(t, "Label", r.attr(t, "Panel000Element001", "Type"))
	assert.Equal(t, "Great", r.attr(t, "Panel000Element001", "Name"))
	assert.Equal(t, "#FF0000", r.attr(t, "Panel000Element001", "DispLabelColour"))
	assert.Equal(t, "20", r.attr(t, "Panel000Element001", "DispLabelFontSize"))
	assert.Equal(t, "60", r.attr(t, "Panel000Element001", "Width"))
	assert.Equal(t, "26", r.attr(t, "Panel000Element001", "Height"))

	assert.Equal(t, "Switch", r.attr(t, "Panel000Element002", "Type"))
	assert.Equal(t, "001", r.attr(t, "Panel000Element002", "Switch"))
	assert.Equal(t, "100", r.attr(t, "Panel000Element002", "PositionX"))
	assert.Equal(t, "40", r.attr(t, "Panel000Element002", "Width"))
	assert.Equal(t, "OrganInstallationPackages/000001/images/on.bmp", r.attr(t, "Panel000Element002", "ImageOn"))
	assert.Equal(t, "OrganInstallationPackages/000001/images/off.bmp", r.attr(t, "Panel000Element002", "ImageOff"))

	// the unused clickable switch gets its own element and is listed on
	// the manual
	assert.Equal(t, "002", r.attr(t, "Panel000Element003", "Switch"))
	assert.Equal(t, "Cymbelstern", r.attr(t, "Switch002", "Name"))
	assert.Equal(t, "1", r.attr(t, "Manual001", "NumberOfSwitches"))
	assert.Equal(t, "002", r.attr(t, "Manual001", "Switch001"))
	assert.Equal(t, "3", r.attr(t, "Panel000", "NumberOfGUIElements"))
}

func TestRun_TremulantOnWindchest(t *testing.T) {
	b := organ().
		Add("Tremulant", "TremulantID", "1", "Name", "Tremulant").
		Add("TremulantWaveform", "TremulantWaveformID", "1", "TremulantID", "1").
		Add("TremulantWaveformPipe", "TremulantWaveformID", "1", "PipeID", "1")

	r := synthesize(t, b)

	assert.Equal(t, "Synth", r.attr(t, "Tremulant001", "TremulantType"))
	assert.Equal(t, "250", r.attr(t, "Tremulant001", "Period"))
	assert.Equal(t, "Y", r.attr(t, "Tremulant001", "DefaultToEngaged"))
	assert.Equal(t, "1", r.attr(t, "WindchestGroup001", "NumberOfTremulants"))
	assert.Equal(t, "001", r.attr(t, "WindchestGroup001", "Tremulant001"))
	assert.Equal(t, "1", r.attr(t, "Organ", "NumberOfTremulants"))
}

func TestRun_Deterministic(t *testing.T) {
	render := func() []byte {
		var buf bytes.Buffer

		r := synthesize(t, console())
		require.NoError(t, target.Write(&buf, r.dst, target.WriteOptions{}))

		return buf.Bytes()
	}

	assert.Equal(t, render(), render())
}

func TestMapRank(t *testing.T) {
	m := &manual{first: 36, keys: 61}

	tests := []struct {
		name        string
		first, last int
		attrs       []string
		want        span
		ok          bool
	}{
		{"full", 36, 96, nil, span{firstPipe: 1, count: 61, firstKey: 1, lastKey: 61}, true},
		{"octave up", 36, 96, []string{"MIDINoteNumIncrementFromDivisionToRank", "12"},
			span{firstPipe: 13, count: 49, firstKey: 1, lastKey: 49}, true},
		{"short treble rank", 60, 96, nil, span{firstPipe: 1, count: 37, firstKey: 25, lastKey: 61}, true},
		{"partial mapping", 36, 96, []string{"MIDINoteNumOfFirstMappedDivisionInputNode", "48",
			"NumberOfMappedDivisionInputNodes", "12"}, span{firstPipe: 13, count: 12, firstKey: 13, lastKey: 24}, true},
		{"out of range", 100, 110, nil, span{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := make(map[string]string)
			for i := 0; i < len(tt.attrs); i += 2 {
				attrs[tt.attrs[i]] = tt.attrs[i+1]
			}

			got, ok := mapRank(m, tt.first, tt.last, source.NewRecord(source.TypeStopRank, 1, attrs))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextExtent(t *testing.T) {
	w, h := textExtent("Great", 10)
	assert.Equal(t, 30, w)
	assert.Equal(t, 13, h)

	w, h = textExtent("Swell\nOrgan", 10)
	assert.Equal(t, 30, w)
	assert.Equal(t, 26, h)
}

func TestFinalize_NumberOverflow(t *testing.T) {
	dst := target.NewStore()
	log := diagnostic.NewLog(nil)
	s := New(source.NewStore(), dst, log, nil, DefaultConfig())
	s.organ = dst.Reserve(target.NameOrgan)

	for range target.MaxNumber + 1 {
		dst.New("Rank")
	}

	s.finalize()

	assert.Equal(t, "1000", value(dst, "Organ", "NumberOfRanks"))
	require.Equal(t, 1, countCode(log, "number-overflow"))
	assert.True(t, log.HasErrors())
}

func value(dst *target.Store, name, attr string) string {
	rec, _ := dst.Get(name)
	v, _ := rec.Get(attr)

	return v
}
