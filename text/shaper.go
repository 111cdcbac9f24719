package text

import (
	"bytes"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// shaper measures text with HarfBuzz shaping. It keeps the parsed font,
// which is read-only, and one HarfbuzzShaper, which is not safe for
// concurrent use; a Font is only used from the render thread.
type shaper struct {
	font *font.Font
	hb   shaping.HarfbuzzShaper
}

func newShaper(data []byte) (*shaper, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &shaper{font: face.Font}, nil
}

// advance returns the total advance of s at size pixels.
func (s *shaper) advance(text string, size float64) float64 {
	runes := []rune(text)
	if len(runes) == 0 {
		return 0
	}
	out := s.hb.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: direction(text),
		Face:      font.NewFace(s.font),
		Size:      fixed.Int26_6(size * 64),
		Script:    language.LookupScript(runes[0]),
		Language:  language.NewLanguage("en"),
	})
	return fixedToFloat(out.Advance)
}

// direction returns the base direction of a label from its first bidi run.
func direction(text string) di.Direction {
	var p bidi.Paragraph
	if _, err := p.SetString(text, bidi.DefaultDirection(bidi.LeftToRight)); err != nil {
		return di.DirectionLTR
	}
	o, err := p.Order()
	if err != nil || o.NumRuns() == 0 {
		return di.DirectionLTR
	}
	r := o.Run(0)
	if r.Direction() == bidi.RightToLeft {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}
