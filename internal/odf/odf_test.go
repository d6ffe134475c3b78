package odf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hw2go/internal/diagnostic"
	"hw2go/internal/target"
)

const consistent = `; test
[Organ]
ChurchName=Test
NumberOfManuals=1
NumberOfWindchestGroups=1
NumberOfRanks=1
NumberOfSwitches=1
NumberOfPanels=0

[Panel000]
Name=Console
NumberOfGUIElements=1
NumberOfImages=0

[Panel000Element001]
Type=Switch
Switch=001

[Manual001]
Name=Great
NumberOfStops=1
Stop001=001

[WindchestGroup001]
Name=Main
NumberOfEnclosures=0
NumberOfTremulants=0

[Switch001]
Name=Principal

[Stop001]
Name=Principal
NumberOfRanks=1
Rank001=001
Rank001FirstPipeNumber=1
SwitchCount=1
Switch001=001

[Rank001]
Name=Principal
WindchestGroup=001
NumberOfPipes=2
Pipe001=a.wav
Pipe002=DUMMY
`

func read(t *testing.T, doc string) *target.Store {
	t.Helper()

	s, err := target.Read(strings.NewReader(doc), diagnostic.NewLog(nil))
	require.NoError(t, err)

	return s
}

func TestBuild_Edges(t *testing.T) {
	g := Build(read(t, consistent))

	assert.Equal(t, 8, g.Len())
	assert.Empty(t, g.Dangling)

	stop, ok := g.Object("Stop001")
	require.True(t, ok)
	assert.Equal(t, []string{"Manual001"}, stop.Parents)
	assert.Equal(t, []string{"Rank001", "Switch001"}, stop.Children)

	sw, _ := g.Object("Switch001")
	assert.Equal(t, []string{"Panel000Element001", "Stop001"}, sw.Parents)

	rank, _ := g.Object("Rank001")
	assert.Equal(t, []string{"Stop001", "WindchestGroup001"}, rank.Parents)

	organ, _ := g.Object("Organ")
	assert.Equal(t, []string{"Manual001", "Panel000", "WindchestGroup001"}, organ.Children)

	el, _ := g.Object("Panel000Element001")
	assert.Equal(t, []string{"Panel000"}, el.Parents)
}

func TestCheck_Consistent(t *testing.T) {
	log := diagnostic.NewLog(nil)

	Check(read(t, consistent), log)

	assert.Empty(t, log.Entries())
}

func TestCheck_Problems(t *testing.T) {
	doc := strings.Replace(consistent, "Stop001=001\n", "Stop001=001\nStop002=002\n", 1)
	doc = strings.Replace(doc, "NumberOfManuals=1", "NumberOfManuals=2", 1)
	doc += "\n[Switch009]\nName=Orphan\n\n[Switch001]\nName=Again\n"

	log := diagnostic.NewLog(nil)
	Check(read(t, doc), log)

	tests := []struct {
		code   string
		record string
	}{
		{"dangling-ref", "Manual001"},
		{"count-mismatch", "Organ"},
		{"count-mismatch", "Manual001"},
		{"unused", "Switch009"},
		{"duplicate-section", "Switch001_"},
	}

	for _, tt := range tests {
		t.Run(tt.code+" "+tt.record, func(t *testing.T) {
			found := false

			for _, e := range log.Entries() {
				if e.Code == tt.code && e.Record == tt.record {
					found = true
				}
			}

			assert.True(t, found, "%s on %s in %v", tt.code, tt.record, log.Entries())
		})
	}

	assert.False(t, log.HasCode("missing-organ"))
}

func TestCheck_MissingOrgan(t *testing.T) {
	log := diagnostic.NewLog(nil)

	Check(read(t, "[Manual001]\nName=Great\n"), log)

	assert.True(t, log.HasCode("missing-organ"))
	assert.True(t, log.HasCode("unused"))
}

func TestRefsOf(t *testing.T) {
	r := target.NewRecord("Panel001Element004")
	r.Set("Type", "Enclosure")
	r.Set("Enclosure", "2")
	r.Set("Bitmap001", "a.png")
	r.Set("Pipe001WindchestGroup", "3")
	r.Set("Key001Width", "12")
	r.Set("Unknown001", "4")

	refs := refsOf(r)

	assert.Equal(t, []Ref{
		{From: "Panel001Element004", Attr: "Enclosure", To: "Enclosure002"},
		{From: "Panel001Element004", Attr: "Pipe001WindchestGroup", To: "WindchestGroup003", Parent: true},
	}, refs)
}

func TestOwnerOf(t *testing.T) {
	tests := []struct {
		name  string
		owner string
		ok    bool
	}{
		{"Organ", "", false},
		{"Panel000", "Organ", true},
		{"Panel002Image001", "Panel002", true},
		{"Manual000", "Organ", true},
		{"WindchestGroup004", "Organ", true},
		{"Stop001", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, ok := ownerOf(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.owner, owner)
		})
	}
}
