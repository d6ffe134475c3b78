package synth

import (
	"hw2go/internal/source"
	"hw2go/internal/target"
)

// organCounts are the Organ counters filled in by finalize, keyed by the
// record prefix they count.
var organCounts = []struct {
	attr   string
	prefix string
}{
	{"NumberOfManuals", "Manual"},
	{"NumberOfEnclosures", "Enclosure"},
	{"NumberOfTremulants", "Tremulant"},
	{"NumberOfWindchestGroups", "WindchestGroup"},
	{"NumberOfReversiblePistons", "ReversiblePiston"},
	{"NumberOfGenerals", "General"},
	{"NumberOfDivisionalCouplers", "DivisionalCoupler"},
	{"NumberOfSwitches", "Switch"},
	{"NumberOfRanks", "Rank"},
	{"NumberOfPanels", "Panel"},
}

func (s *Synthesizer) buildOrgan() {
	g := s.general
	s.organ = s.dst.Reserve(target.NameOrgan)

	s.organ.Set("ChurchName", g.Str(source.GeneralName))
	s.organ.Set("ChurchAddress", g.Str(source.GeneralLocation))
	s.organ.Set("OrganBuilder", g.Str(source.GeneralBuilder))
	s.organ.Set("OrganBuildDate", g.Str(source.GeneralBuildDate))
	s.organ.Set("OrganComments", g.Str(source.GeneralComments))
	s.organ.Set("RecordingDetails", "")

	if info := g.Str(source.GeneralInfoFile); info != "" {
		s.organ.Set("InfoFilename", s.file(s.packageOf(g, source.GeneralPackage), info, g))
	}

	s.organ.Set("HasPedals", false)

	for _, c := range organCounts {
		s.organ.Set(c.attr, 0)
	}

	s.organ.Set("DivisionalsStoreIntermanualCouplers", true)
	s.organ.Set("DivisionalsStoreIntramanualCouplers", true)
	s.organ.Set("DivisionalsStoreTremulants", true)
	s.organ.Set("GeneralsStoreDivisionalCouplers", true)
	s.organ.Set("CombinationsStoreNonDisplayedDrawstops", false)
	s.organ.Set("AmplitudeLevel", 100)
	s.organ.Set("Gain", g.Float(source.GeneralAmplitudeGain))
	s.organ.Set("PitchTuning", 0)

	g.SetTarget(target.NameOrgan)
}

// finalize writes every count and strips bookkeeping attributes.
func (s *Synthesizer) finalize() {
	_, pedals := s.dst.Get(target.NamePedal)

	s.organ.Set("HasPedals", pedals)

	for _, c := range organCounts {
		s.organ.Set(c.attr, s.dst.Count(c.prefix))
	}

	for _, panel := range s.dst.Prefixed("Panel") {
		panel.Set("HasPedals", pedals)
		panel.Set("NumberOfGUIElements", s.dst.Count(elementName(panel)))
		panel.Set("NumberOfImages", s.dst.Count(imageName(panel)))
	}

	for _, prefix := range s.dst.Overflows() {
		s.log.Errorf("number-overflow", "", "%d %s objects exceed the limit of %d",
			s.dst.Count(prefix), prefix, target.MaxNumber)
	}

	s.dst.Finalize()
}
