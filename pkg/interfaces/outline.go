package interfaces

// SectionKind discriminates the block kinds an article outline reports.
type SectionKind string

const (
	SectionHeading    SectionKind = "heading"
	SectionParagraph  SectionKind = "paragraph"
	SectionCodeSample SectionKind = "code_sample"
	SectionBlockQuote SectionKind = "block_quote"
)

// Section is one block-level unit of an article in document order.
type Section struct {
	Kind SectionKind `json:"kind"`
	// Line is the 1-based line where the block starts in the source.
	Line int `json:"line"`
	// Level is set for headings (1-6).
	Level int `json:"level,omitempty"`
	// Text carries heading text or a short excerpt for other kinds.
	Text string `json:"text,omitempty"`
	// Language is the info-string language tag for code samples.
	Language string `json:"language,omitempty"`
	// Anchor is the heading's slugged anchor id.
	Anchor string `json:"anchor,omitempty"`
}

// Link is a hyperlink discovered in the article body.
type Link struct {
	Destination string `json:"destination"`
	Text        string `json:"text,omitempty"`
	Line        int    `json:"line"`
	// Internal is true for same-document anchor references ("#heading").
	Internal bool `json:"internal"`
}

// Outline is the structural read model of an article: its ordered sections,
// the anchors its headings expose, and the links its body contains.
type Outline struct {
	Sections []Section `json:"sections"`
	Anchors  []string  `json:"anchors"`
	Links    []Link    `json:"links"`
}

// Headings returns just the heading sections in document order.
func (o Outline) Headings() []Section {
	var out []Section
	for _, s := range o.Sections {
		if s.Kind == SectionHeading {
			out = append(out, s)
		}
	}
	return out
}

// CodeSamples returns just the fenced code sections in document order.
func (o Outline) CodeSamples() []Section {
	var out []Section
	for _, s := range o.Sections {
		if s.Kind == SectionCodeSample {
			out = append(out, s)
		}
	}
	return out
}

// HasAnchor reports whether the outline exposes the given anchor id.
func (o Outline) HasAnchor(anchor string) bool {
	for _, a := range o.Anchors {
		if a == anchor {
			return true
		}
	}
	return false
}
