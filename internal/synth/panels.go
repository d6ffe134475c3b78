package synth

import (
	"cmp"
	"fmt"
	"slices"

	"hw2go/internal/common"
	"hw2go/internal/source"
	"hw2go/internal/target"
)

// panelDefaults are the layout attributes every panel carries. Elements are
// positioned freely, so the built-in layout stays minimal.
var panelDefaults = []target.Attr{
	{Name: "DispDrawstopBackgroundImageNum", Value: "1"},
	{Name: "DispConsoleBackgroundImageNum", Value: "1"},
	{Name: "DispKeyHorizBackgroundImageNum", Value: "1"},
	{Name: "DispKeyVertBackgroundImageNum", Value: "1"},
	{Name: "DispDrawstopInsetBackgroundImageNum", Value: "1"},
	{Name: "DispShortcutKeyLabelColour", Value: "Black"},
	{Name: "DispDrawstopCols", Value: "2"},
	{Name: "DispDrawstopRows", Value: "1"},
	{Name: "DispDrawstopColsOffset", Value: "N"},
	{Name: "DispDrawstopOuterColOffsetUp", Value: "N"},
	{Name: "DispPairDrawstopCols", Value: "N"},
	{Name: "DispExtraDrawstopRows", Value: "0"},
	{Name: "DispExtraDrawstopCols", Value: "0"},
	{Name: "DispButtonCols", Value: "1"},
	{Name: "DispExtraButtonRows", Value: "0"},
	{Name: "DispExtraPedalButtonRow", Value: "N"},
	{Name: "DispButtonsAboveManuals", Value: "N"},
	{Name: "DispTrimAboveManuals", Value: "N"},
	{Name: "DispTrimBelowManuals", Value: "N"},
	{Name: "DispTrimAboveExtraRows", Value: "N"},
	{Name: "DispExtraDrawstopRowsAboveExtraButtonRows", Value: "N"},
}

// buildPanels maps display pages to panels. The default page becomes
// Panel000; without a declared default the lowest page id is used.
func (s *Synthesizer) buildPanels() {
	pages := s.src.ByType(source.TypeDisplayPage)

	def, ok := s.src.Resolve(s.general, source.GeneralDefaultPage)
	if !ok {
		def, _ = common.First(pages)
	}

	if def != nil {
		s.pages = append(s.pages, def)
	}

	for _, p := range pages {
		if p != def {
			s.pages = append(s.pages, p)
		}
	}

	if len(s.pages) == 0 {
		s.setupPanel(s.dst.Reserve(target.NameDefaultPanel), s.general.Str(source.GeneralName))

		return
	}

	for i, page := range s.pages {
		s.notify(page.String())

		var panel *target.Record
		if i == 0 {
			panel = s.dst.Reserve(target.NameDefaultPanel)
		} else {
			panel = s.dst.New("Panel")
		}

		name := page.Str(source.PageName)
		if name == "" {
			name = panel.Name()
		}

		s.setupPanel(panel, name)
		s.panels[page.Key()] = panel
		page.SetTarget(panel.Name())

		s.staticImages(page, panel)
		s.labels(page, panel)
	}
}

func (s *Synthesizer) setupPanel(panel *target.Record, name string) {
	g := s.general

	width := g.Int(source.GeneralScreenWidth)
	if width <= 0 {
		width = s.cfg.Geometry.ScreenWidth
	}

	height := g.Int(source.GeneralScreenHeight)
	if height <= 0 {
		height = s.cfg.Geometry.ScreenHeight
	}

	panel.Set("Name", name)
	panel.Set("HasPedals", false)
	panel.Set("NumberOfGUIElements", 0)
	panel.Set("NumberOfImages", 0)
	panel.Set("DispScreenSizeHoriz", width)
	panel.Set("DispScreenSizeVert", height)
	panel.Set("DispControlLabelFont", s.cfg.Geometry.FontName)
	panel.Set("DispShortcutKeyLabelFont", s.cfg.Geometry.FontName)
	panel.Set("DispGroupLabelFont", s.cfg.Geometry.FontName)

	for _, a := range panelDefaults {
		panel.Set(a.Name, a.Value)
	}
}

// panelFor returns the panel of a page, or the default panel.
func (s *Synthesizer) panelFor(page *source.Record) *target.Record {
	if page != nil {
		if p, ok := s.panels[page.Key()]; ok {
			return p
		}
	}

	return s.dst.Reserve(target.NameDefaultPanel)
}

func pageOf(r *source.Record) *source.Record {
	p, _ := common.First(r.ParentsOf(source.TypeDisplayPage))

	return p
}

// staticImages emits the image set instances of a page that no switch or
// continuous control draws, in screen layer order.
func (s *Synthesizer) staticImages(page *source.Record, panel *target.Record) {
	var instances []*source.Record

	for _, isi := range page.ChildrenOf(source.TypeImageSetInstance) {
		if len(isi.ParentsOf(source.TypeSwitch)) > 0 || len(isi.ParentsOf(source.TypeContinuousControl)) > 0 {
			continue
		}

		instances = append(instances, isi)
	}

	slices.SortStableFunc(instances, func(a, b *source.Record) int {
		return cmp.Or(
			cmp.Compare(a.Int(source.InstanceLayer), b.Int(source.InstanceLayer)),
			cmp.Compare(a.ID(), b.ID()),
		)
	})

	for _, isi := range instances {
		set, b, ok := s.instance(isi)
		if !ok {
			continue
		}

		image := s.bitmap(set, 1)
		if image == "" {
			s.log.Warnf("empty-image-set", isi.String(), "image set %d has no elements", set.ID())

			continue
		}

		img := s.dst.New(imageName(panel))
		img.Set("Image", image)

		if mask := s.mask(set); mask != "" {
			img.Set("Mask", mask)
		}

		img.Set("PositionX", b.x)
		img.Set("PositionY", b.y)

		isi.SetTarget(img.Name())
	}
}

// labels emits the text instances of a page.
func (s *Synthesizer) labels(page *source.Record, panel *target.Record) {
	for _, text := range page.ChildrenOf(source.TypeTextInstance) {
		size := s.cfg.Geometry.FontSize
		font := s.cfg.Geometry.FontName
		colour := "#000000"

		if style, ok := s.src.Resolve(text, source.TextStyle); ok {
			if n := style.Int(source.StyleFontSize); n > 0 {
				size = float64(n)
			}

			if f := style.Str(source.StyleFontName); f != "" {
				font = f
			}

			colour = fmt.Sprintf("#%02X%02X%02X",
				common.Clamp(0, style.Int(source.StyleRed), 255),
				common.Clamp(0, style.Int(source.StyleGreen), 255),
				common.Clamp(0, style.Int(source.StyleBlue), 255))
		}

		x, y := text.Int(source.TextX), text.Int(source.TextY)

		if isi, ok := s.src.Resolve(text, source.TextAttached); ok && text.Bool(source.TextRelative) {
			x += isi.Int(source.InstanceLeft)
			y += isi.Int(source.InstanceTop)
		}

		w, h := textExtent(text.Str(source.TextText), size)
		if n := text.Int(source.TextWidth); n > 0 {
			w = n
		}

		if n := text.Int(source.TextHeight); n > 0 {
			h = n
		}

		el := s.dst.New(elementName(panel))
		el.Set("Type", "Label")
		el.Set("Name", text.Str(source.TextText))
		el.Set("PositionX", x)
		el.Set("PositionY", y)
		el.Set("Width", w)
		el.Set("Height", h)
		el.Set("DispLabelFontSize", size)
		el.Set("DispLabelFontName", font)
		el.Set("DispLabelColour", colour)

		text.SetTarget(el.Name())
	}
}

// switchElement places the image of a switch on the panel of its page.
func (s *Synthesizer) switchElement(sw *source.Record, dst *target.Record) {
	isi, ok := s.src.Resolve(sw, source.SwitchImage)
	if !ok {
		return
	}

	set, b, ok := s.instance(isi)
	if !ok {
		return
	}

	panel := s.panelFor(pageOf(isi))

	el := s.dst.New(elementName(panel))
	el.Set("Type", "Switch")
	el.Set("Switch", ref3(dst))
	el.Set("PositionX", b.x)
	el.Set("PositionY", b.y)
	el.Set("Width", b.w)
	el.Set("Height", b.h)
	el.Set("ImageOn", s.bitmap(set, sw.Int(source.SwitchIndexEngaged)))
	el.Set("ImageOff", s.bitmap(set, sw.Int(source.SwitchIndexDisengaged)))

	if mask := s.mask(set); mask != "" {
		el.Set("MaskOn", mask)
		el.Set("MaskOff", mask)
	}

	el.Set("MouseRectLeft", 0)
	el.Set("MouseRectTop", 0)
	el.Set("MouseRectWidth", b.w)
	el.Set("MouseRectHeight", b.h)
	el.Set("DispLabelText", "")

	isi.SetTarget(el.Name())
}

// enclosureElement places the image of a continuous control driving an
// enclosure. It runs as the registry hook, once per enclosure.
func (s *Synthesizer) enclosureElement(ctl *source.Record, enc *target.Record) {
	isi, ok := s.src.Resolve(ctl, source.ControlImage)
	if !ok {
		return
	}

	set, b, ok := s.instance(isi)
	if !ok {
		return
	}

	panel := s.panelFor(pageOf(isi))
	pkg := s.packageOf(set, source.ImageSetPackage)

	el := s.dst.New(elementName(panel))
	el.Set("Type", "Enclosure")
	el.Set("Enclosure", ref3(enc))
	el.Set("PositionX", b.x)
	el.Set("PositionY", b.y)
	el.Set("Width", b.w)
	el.Set("Height", b.h)
	el.Set("BitmapCount", 0)

	for _, e := range elements(set) {
		el.Append("BitmapCount", "Bitmap", s.file(pkg, e.Str(source.ElementBitmap), e))
	}

	el.Set("MouseRectLeft", 0)
	el.Set("MouseRectTop", 0)
	el.Set("MouseRectWidth", b.w)
	el.Set("MouseRectHeight", b.h)
	el.Set("MouseAxisStart", 0)
	el.Set("MouseAxisEnd", b.h)

	enc.Set("Displayed", false)
	isi.SetTarget(el.Name())
}
