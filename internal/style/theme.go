package style

import (
	"fmt"
	"maps"
	"regexp"
)

// Palette used by the default theme.
const (
	ColorPrimary     = "#2C5F8D"
	ColorText        = "#212529"
	ColorMuted       = "#495057"
	ColorPlaceholder = "#6C757D"
	ColorAccent      = "#28A745"
	ColorCodeFill    = "#F5F5F5"
	ColorPanelFill   = "#F8F9FA"
	ColorPanelBorder = "#DEE2E6"

	// FontCode is the monospace face for code blocks.
	FontCode = "Consolas"
)

// Theme is an immutable Provider backed by a map.
// The zero value is not usable; build one with DefaultTheme or NewTheme.
type Theme struct {
	styles   map[Tag]Style
	fallback Style
}

// NewTheme builds a theme from the given styles. Tags missing from the map
// resolve to the TagBody style, or to fallback when TagBody is missing too.
func NewTheme(styles map[Tag]Style, fallback Style) *Theme {
	t := &Theme{
		styles:   make(map[Tag]Style, len(styles)),
		fallback: fallback,
	}
	maps.Copy(t.styles, styles)
	if body, ok := t.styles[TagBody]; ok {
		t.fallback = body
	}
	return t
}

// DefaultTheme returns the stock technical-documentation look.
func DefaultTheme() *Theme {
	body := Style{SizePt: 11, SpaceAfterPt: 10}

	return NewTheme(map[Tag]Style{
		TagDocumentTitle:    {SizePt: 20, Bold: true, Color: ColorPrimary},
		TagDocumentSubtitle: {SizePt: 11, Color: ColorMuted, SpaceBeforePt: 2},
		TagQualifiedName:    {SizePt: 10, Bold: true, Color: ColorMuted, SpaceBeforePt: 6},
		TagMetadata: {
			SizePt: 9, Bold: true, Color: ColorMuted, FillColor: ColorPanelFill, SpaceAfterPt: 2,
			Border: Border{Side: BorderAll, WidthEighthPt: 8, Color: ColorPanelBorder},
		},
		TagMetadataAccent: {
			SizePt: 9, Bold: true, Color: ColorAccent, FillColor: ColorPanelFill, SpaceAfterPt: 2,
			Border: Border{Side: BorderAll, WidthEighthPt: 8, Color: ColorPanelBorder},
		},
		TagSectionHeading: {SizePt: 14, Bold: true, Color: ColorPrimary, SpaceBeforePt: 12, SpaceAfterPt: 8},
		TagSubheading:     {SizePt: 11, Bold: true, Color: ColorText, SpaceBeforePt: 6, SpaceAfterPt: 4},
		TagBody:           body,
		TagIndentedBody:   {SizePt: 10, IndentIn: 0.25, SpaceAfterPt: 8},
		TagPlaceholder:    {SizePt: 10, Color: ColorPlaceholder, SpaceAfterPt: 4},
		TagNote:           {SizePt: 9, Color: ColorPlaceholder, IndentIn: 0.25, SpaceAfterPt: 8},
		TagBullet:         {SizePt: 10, Color: ColorMuted, IndentIn: 0.25, SpaceAfterPt: 4},
		TagCodeBlock: {
			Font: FontCode, SizePt: 9, Color: ColorText, FillColor: ColorCodeFill,
			IndentIn: 0.3, SpaceAfterPt: 10,
			Border: Border{Side: BorderLeft, WidthEighthPt: 16, Color: ColorPrimary},
		},
		TagTableHeader: {SizePt: 10, Bold: true},
		TagTableCell:   {SizePt: 9},
		TagDivider: {
			SpaceBeforePt: 8, SpaceAfterPt: 8,
			Border: Border{Side: BorderBottom, WidthEighthPt: 12, Color: ColorPrimary},
		},
	}, body)
}

// Lookup implements Provider.
func (t *Theme) Lookup(tag Tag) Style {
	if s, ok := t.styles[tag]; ok {
		return s
	}
	return t.fallback
}

// Len returns the number of explicitly styled tags.
func (t *Theme) Len() int {
	return len(t.styles)
}

// With returns a new theme with the overrides applied on top of t.
// The receiver is left untouched.
func (t *Theme) With(overrides map[Tag]Override) (*Theme, error) {
	styles := maps.Clone(t.styles)
	for tag, o := range overrides {
		if err := o.validate(); err != nil {
			return nil, fmt.Errorf("style %q: %w", tag, err)
		}
		base, ok := styles[tag]
		if !ok {
			base = t.fallback
		}
		styles[tag] = o.apply(base)
	}
	return NewTheme(styles, t.fallback), nil
}

// Override changes selected attributes of a style. Nil fields keep the
// base value. It is the shape of the "styles" block of the config file.
type Override struct {
	Font          *string  `yaml:"font,omitempty"`
	SizePt        *float64 `yaml:"size,omitempty"`
	Bold          *bool    `yaml:"bold,omitempty"`
	Color         *string  `yaml:"color,omitempty"`
	FillColor     *string  `yaml:"fill,omitempty"`
	IndentIn      *float64 `yaml:"indent,omitempty"`
	SpaceBeforePt *float64 `yaml:"spaceBefore,omitempty"`
	SpaceAfterPt  *float64 `yaml:"spaceAfter,omitempty"`
	Border        *Border  `yaml:"border,omitempty"`
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func (o Override) validate() error {
	for _, c := range []*string{o.Color, o.FillColor} {
		if c != nil && *c != "" && !hexColor.MatchString(*c) {
			return fmt.Errorf("%w: %q", ErrInvalidColor, *c)
		}
	}
	if o.Border != nil && o.Border.Color != "" && !hexColor.MatchString(o.Border.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, o.Border.Color)
	}
	for _, v := range []*float64{o.SizePt, o.IndentIn, o.SpaceBeforePt, o.SpaceAfterPt} {
		if v != nil && *v < 0 {
			return ErrNegativeMeasure
		}
	}
	return nil
}

func (o Override) apply(s Style) Style {
	if o.Font != nil {
		s.Font = *o.Font
	}
	if o.SizePt != nil {
		s.SizePt = *o.SizePt
	}
	if o.Bold != nil {
		s.Bold = *o.Bold
	}
	if o.Color != nil {
		s.Color = *o.Color
	}
	if o.FillColor != nil {
		s.FillColor = *o.FillColor
	}
	if o.IndentIn != nil {
		s.IndentIn = *o.IndentIn
	}
	if o.SpaceBeforePt != nil {
		s.SpaceBeforePt = *o.SpaceBeforePt
	}
	if o.SpaceAfterPt != nil {
		s.SpaceAfterPt = *o.SpaceAfterPt
	}
	if o.Border != nil {
		s.Border = *o.Border
	}
	return s
}
