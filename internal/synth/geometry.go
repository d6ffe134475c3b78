package synth

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"hw2go/internal/source"
)

type box struct {
	x, y, w, h int
}

// elements returns the elements of an image set ordered by their index
// within the set.
func elements(set *source.Record) []*source.Record {
	els := slices.Clone(set.ChildrenOf(source.TypeImageSetElement))

	slices.SortStableFunc(els, func(a, b *source.Record) int {
		return cmp.Or(
			cmp.Compare(a.Int(source.ElementIndex), b.Int(source.ElementIndex)),
			cmp.Compare(a.ID(), b.ID()),
		)
	})

	return els
}

// bitmap returns the path of the element with the given index, or of the
// first element when the index is not part of the set.
func (s *Synthesizer) bitmap(set *source.Record, index int) string {
	els := elements(set)
	if len(els) == 0 {
		return ""
	}

	pick := els[0]

	for _, el := range els {
		if el.Int(source.ElementIndex) == index {
			pick = el

			break
		}
	}

	return s.file(s.packageOf(set, source.ImageSetPackage), pick.Str(source.ElementBitmap), pick)
}

func (s *Synthesizer) mask(set *source.Record) string {
	return s.file(s.packageOf(set, source.ImageSetPackage), set.Str(source.ImageSetMask), set)
}

// instance returns the image set of an instance and the box it covers.
// The size comes from the set, then from its first bitmap, then from the
// configured fallback.
func (s *Synthesizer) instance(isi *source.Record) (*source.Record, box, bool) {
	set, ok := s.src.Resolve(isi, source.InstanceSet)
	if !ok {
		return nil, box{}, false
	}

	b := box{
		x: isi.Int(source.InstanceLeft),
		y: isi.Int(source.InstanceTop),
		w: set.Int(source.ImageSetWidth),
		h: set.Int(source.ImageSetHeight),
	}

	if b.w <= 0 || b.h <= 0 {
		if w, h, ok := s.files.ImageSize(s.bitmap(set, 1)); ok {
			b.w, b.h = w, h
		}
	}

	if b.w <= 0 {
		b.w = s.cfg.Geometry.BitmapWidth
	}

	if b.h <= 0 {
		b.h = s.cfg.Geometry.BitmapHeight
	}

	return set, b, true
}

// textExtent estimates the pixel size of a text drawn at the given font
// size from its terminal cell width.
func textExtent(text string, size float64) (int, int) {
	lines := strings.Split(text, "\n")
	cells := 0

	for _, l := range lines {
		cells = max(cells, ansi.StringWidth(l))
	}

	w := math.Ceil(float64(cells) * glyphWidthRatio * size)
	h := math.Ceil(float64(len(lines)) * lineHeightRatio * size)

	return int(w), int(h)
}
