// Package style maps abstract style tags to concrete visual attributes.
//
// The assembler only ever emits tags. Sinks look the tags up in a Provider
// when they render. A Theme is immutable once built, so a single theme can
// be shared by any number of concurrent renders without locking.
package style

// Tag names an abstract style.
type Tag string

// Style tags emitted by the assembler.
const (
	TagDocumentTitle    Tag = "document-title"
	TagDocumentSubtitle Tag = "document-subtitle"
	TagQualifiedName    Tag = "qualified-name"
	TagMetadata         Tag = "metadata"
	TagMetadataAccent   Tag = "metadata-accent"
	TagSectionHeading   Tag = "section-heading"
	TagSubheading       Tag = "subheading"
	TagBody             Tag = "body"
	TagIndentedBody     Tag = "indented-body"
	TagPlaceholder      Tag = "placeholder"
	TagNote             Tag = "note"
	TagBullet           Tag = "bullet"
	TagCodeBlock        Tag = "code-block"
	TagTableHeader      Tag = "table-header"
	TagTableCell        Tag = "table-cell"
	TagDivider          Tag = "divider"
)

// AllTags returns every tag the assembler can emit, in a stable order.
func AllTags() []Tag {
	return []Tag{
		TagDocumentTitle,
		TagDocumentSubtitle,
		TagQualifiedName,
		TagMetadata,
		TagMetadataAccent,
		TagSectionHeading,
		TagSubheading,
		TagBody,
		TagIndentedBody,
		TagPlaceholder,
		TagNote,
		TagBullet,
		TagCodeBlock,
		TagTableHeader,
		TagTableCell,
		TagDivider,
	}
}

// BorderSide is the edge a border is drawn on.
type BorderSide string

// Border sides.
const (
	BorderNone   BorderSide = ""
	BorderLeft   BorderSide = "left"
	BorderBottom BorderSide = "bottom"
	BorderAll    BorderSide = "all"
)

// Border describes a single paragraph border.
type Border struct {
	Side BorderSide `yaml:"side,omitempty" json:"side,omitempty"`

	// WidthEighthPt is the border width in eighths of a point.
	WidthEighthPt int `yaml:"width,omitempty" json:"width,omitempty"`

	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// Style is the set of visual attributes a sink may apply to a block.
// Colors are "#RRGGBB" strings; an empty color means the sink default.
type Style struct {
	Font          string  `json:"font,omitempty"`
	SizePt        float64 `json:"sizePt"`
	Bold          bool    `json:"bold,omitempty"`
	Color         string  `json:"color,omitempty"`
	FillColor     string  `json:"fillColor,omitempty"`
	IndentIn      float64 `json:"indentIn,omitempty"`
	SpaceBeforePt float64 `json:"spaceBeforePt,omitempty"`
	SpaceAfterPt  float64 `json:"spaceAfterPt,omitempty"`
	Border        Border  `json:"border"`
}

// Provider resolves a tag to a concrete style.
// Implementations must be safe for concurrent use.
type Provider interface {
	Lookup(tag Tag) Style
}
