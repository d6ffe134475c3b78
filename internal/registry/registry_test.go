package registry

import (
	"bytes"
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

func linked(t *testing.T, b *loadertest.Builder) *source.Store {
	t.Helper()

	dict, err := dictionary.Default()
	require.NoError(t, err)

	store := source.NewStore()
	log := diagnostic.NewLog(nil)
	_, err = loader.Load(bytes.NewReader(b.Bytes()), dict, store, log)
	require.NoError(t, err)

	link.New(log).Run(store)

	return store
}

func rec(t *testing.T, s *source.Store, recordType string, id int) *source.Record {
	t.Helper()

	r, ok := s.Lookup(recordType, id)
	require.True(t, ok, "%s %d", recordType, id)

	return r
}

// Two pipes share wind compartment 1. Their level controls differ (3 and 4)
// but both feed from control 2, the swell pedal shown on screen. Pipe 2 is
// also inside enclosure 1 driven by the same pedal.
func swellOrgan() *loadertest.Builder {
	return loadertest.New().
		Add("WindCompartment", "WindCompartmentID", "1", "Name", "Main").
		Add("ContinuousControl", "ControlID", "2", "Name", "Swell pedal", "ImageSetInstanceID", "1").
		Add("ContinuousControl", "ControlID", "3").
		Add("ContinuousControl", "ControlID", "4").
		Add("ContinuousControl", "ControlID", "5").
		Add("ContinuousControlLinkage", "SourceControlID", "2", "DestControlID", "3").
		Add("ContinuousControlLinkage", "SourceControlID", "3", "DestControlID", "4").
		Add("ContinuousControlLinkage", "SourceControlID", "4", "DestControlID", "3").
		Add("ImageSet", "ImageSetID", "1").
		Add("ImageSetInstance", "ImageSetInstanceID", "1", "ImageSetID", "1").
		Add("Rank", "RankID", "1").
		Add("Pipe_SoundEngine01", "PipeID", "1", "RankID", "1", "WindSupply_SourceWindCompartmentID", "1").
		Add("Pipe_SoundEngine01", "PipeID", "2", "RankID", "1", "WindSupply_SourceWindCompartmentID", "1").
		Add("Pipe_SoundEngine01", "PipeID", "3", "RankID", "1").
		Add("Pipe_SoundEngine01_Layer", "LayerID", "1", "PipeID", "1", "AmpLvl_ScalingContinuousControlID", "3").
		Add("Pipe_SoundEngine01_Layer", "LayerID", "2", "PipeID", "2", "AmpLvl_ScalingContinuousControlID", "4").
		Add("Pipe_SoundEngine01_Layer", "LayerID", "3", "PipeID", "3", "AmpLvl_ScalingContinuousControlID", "5").
		Add("Enclosure", "EnclosureID", "1", "ShutterPositionContinuousControlID", "4").
		Add("EnclosurePipe", "EnclosureID", "1", "PipeID", "2")
}

func TestResolveControlNode(t *testing.T) {
	store := linked(t, swellOrgan())
	pedal := rec(t, store, source.TypeContinuousControl, 2)

	for _, id := range []int{2, 3, 4} {
		node, ok := ResolveControlNode(rec(t, store, source.TypeContinuousControl, id))
		require.True(t, ok, "control %d", id)
		assert.Same(t, pedal, node)
	}

	_, ok := ResolveControlNode(rec(t, store, source.TypeContinuousControl, 5))
	assert.False(t, ok, "no graphical control on the chain")

	_, ok = ResolveControlNode(nil)
	assert.False(t, ok)
}

func TestTripleFor(t *testing.T) {
	store := linked(t, swellOrgan())
	reg := New(store, target.NewStore())

	wind := source.Key{Type: source.TypeWindCompartment, ID: 1}
	pedal := source.Key{Type: source.TypeContinuousControl, ID: 2}

	t1 := reg.TripleFor(rec(t, store, source.TypePipe, 1), rec(t, store, source.TypeLayer, 1))
	assert.Equal(t, Triple{Wind: wind, Level: pedal}, t1)

	t2 := reg.TripleFor(rec(t, store, source.TypePipe, 2), rec(t, store, source.TypeLayer, 2))
	assert.Equal(t, Triple{Wind: wind, Level: pedal, Enclosure: pedal}, t2)

	t3 := reg.TripleFor(rec(t, store, source.TypePipe, 3), rec(t, store, source.TypeLayer, 3))
	assert.Equal(t, Triple{}, t3)
	assert.Equal(t, "||", t3.String())
}

func TestWindchest_Idempotent(t *testing.T) {
	pipes := []int{1, 2, 1, 3, 2}

	orders := [][]int{pipes, {3, 2, 1, 2, 1}}
	results := make([][]string, 0, len(orders))

	for _, order := range orders {
		store := linked(t, swellOrgan())
		dst := target.NewStore()
		reg := New(store, dst)

		byPipe := map[int]string{}

		for _, id := range order {
			tr := reg.TripleFor(rec(t, store, source.TypePipe, id), rec(t, store, source.TypeLayer, id))
			name := reg.Windchest(tr).Name()

			if prev, seen := byPipe[id]; seen {
				assert.Equal(t, prev, name, "pipe %d", id)
			}

			byPipe[id] = name
		}

		assert.Len(t, dst.Prefixed("WindchestGroup"), 3)
		assert.Len(t, dst.Prefixed("Enclosure"), 1, "the pedal is registered once")

		var names []string
		for id := 1; id <= 3; id++ {
			names = append(names, byPipe[id])
		}

		results = append(results, names)
	}

	// same triple, same windchest, whatever the visiting order; only the
	// sequence numbers may differ
	for _, names := range results {
		assert.NotEqual(t, names[0], names[1])
		assert.NotEqual(t, names[0], names[2])
	}
}

func TestWindchest_Attributes(t *testing.T) {
	store := linked(t, swellOrgan())
	dst := target.NewStore()
	reg := New(store, dst)

	var hooked []string
	reg.OnEnclosure = func(control *source.Record, enc *target.Record) {
		hooked = append(hooked, control.String()+"="+enc.Name())
	}

	tr := reg.TripleFor(rec(t, store, source.TypePipe, 2), rec(t, store, source.TypeLayer, 2))
	wc := reg.Windchest(tr)
	again := reg.Windchest(tr)

	assert.Same(t, wc, again)
	assert.Equal(t, []string{"ContinuousControl000002=Enclosure001"}, hooked)

	name, _ := wc.Get("Name")
	assert.Equal(t, "Main / Swell pedal", name)
	assert.Equal(t, 1, wc.Int("NumberOfEnclosures"), "level and enclosure share one control node")

	v, _ := wc.Get("Enclosure001")
	assert.Equal(t, "001", v)

	enc, ok := dst.Get("Enclosure001")
	require.True(t, ok)
	encName, _ := enc.Get("Name")
	assert.Equal(t, "Swell pedal", encName)

	dst.Finalize()
	_, ok = wc.Get(SourceAttr)
	assert.False(t, ok)
}
