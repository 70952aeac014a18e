// Package pdf lays out release notes on fixed-size pages and renders them
// as a PDF document.
//
// Layout and rendering are separate steps. Layout decides where every
// line and avatar goes; Render only replays the result on a PDF writer.
package pdf

import (
	"fmt"
)

// Page geometry in millimetres (A4 portrait)
const (
	PageWidth    = 210.0
	PageHeight   = 297.0
	Margin       = 20.0
	ContentWidth = PageWidth - 2*Margin

	// LineHeight is the vertical space reserved for one line of text
	LineHeight = 10.0
	// ImageBlockHeight is the vertical space reserved for an author block
	ImageBlockHeight = 30.0
	// AvatarSize is the edge of the square avatar image
	AvatarSize = 20.0
	// AvatarTextOffset is how far note text is shifted right of the avatar
	AvatarTextOffset = 25.0

	TitleFontSize   = 18.0
	HeadingFontSize = 14.0
	BodyFontSize    = 12.0
)

const (
	tocHeading   = "Table of Contents"
	notesHeading = "Release Notes"
)

// Document is the input of the paginator
type Document struct {
	Title   string
	Summary string
	Notes   []string
	// Avatars is parallel to Notes. It may be shorter; notes without a
	// matching entry get an empty image reference.
	Avatars         []string
	TableOfContents bool
}

// avatarAt returns the avatar reference for note i, or "" if none
func (d *Document) avatarAt(i int) string {
	if i < len(d.Avatars) {
		return d.Avatars[i]
	}
	return ""
}

type ElementKind int

const (
	ElementText ElementKind = iota
	ElementImage
)

func (k ElementKind) String() string {
	switch k {
	case ElementText:
		return "text"
	case ElementImage:
		return "image"
	default:
		return fmt.Sprintf("ElementKind(%d)", int(k))
	}
}

// Element is a positioned piece of content. X and Y are the top-left
// corner of the box the element occupies.
type Element struct {
	Kind ElementKind
	X, Y float64
	W, H float64

	Text     string
	FontSize float64
	Bold     bool

	// ImageRef is the avatar URL. Empty means an empty image reference.
	ImageRef string
}

// Bottom returns the lowest y coordinate the element occupies
func (e Element) Bottom() float64 {
	return e.Y + e.H
}

type Page struct {
	Elements []Element
}

type Layout struct {
	Pages []Page
}

// Elements returns all elements of the given kind in document order
func (l *Layout) Elements(kind ElementKind) []Element {
	var out []Element
	for _, p := range l.Pages {
		for _, e := range p.Elements {
			if e.Kind == kind {
				out = append(out, e)
			}
		}
	}
	return out
}

// Measurer wraps text into lines no wider than width for the given font
type Measurer interface {
	WrapText(text string, width, fontSize float64, bold bool) []string
}

// LinesPerPage is how many text lines fit on a page
func LinesPerPage() int {
	usable := PageHeight - 2*Margin
	return int(usable / LineHeight)
}

type paginator struct {
	m      Measurer
	layout *Layout
	y      float64
}

// Compute lays out doc. Sections are emitted in order: title, summary,
// table of contents, detailed notes. Before every line or author block the
// remaining height is checked and a new page started if it does not fit.
func Compute(doc *Document, m Measurer) *Layout {
	p := &paginator{m: m, layout: &Layout{}}
	p.newPage()

	for _, line := range m.WrapText(doc.Title, ContentWidth, TitleFontSize, true) {
		p.text(Margin, line, TitleFontSize, true)
	}

	if doc.Summary != "" {
		for _, line := range m.WrapText(doc.Summary, ContentWidth, BodyFontSize, false) {
			p.text(Margin, line, BodyFontSize, false)
		}
	}

	if doc.TableOfContents && len(doc.Notes) > 0 {
		p.text(Margin, tocHeading, HeadingFontSize, true)
		for i, note := range doc.Notes {
			entry := fmt.Sprintf("%d. %s", i+1, note)
			lines := m.WrapText(entry, ContentWidth, BodyFontSize, false)
			if len(lines) == 0 {
				continue
			}
			p.text(Margin, lines[0], BodyFontSize, false)
		}
	}

	if len(doc.Notes) > 0 {
		p.text(Margin, notesHeading, HeadingFontSize, true)
		for i, note := range doc.Notes {
			p.note(note, doc.avatarAt(i))
		}
	}

	return p.layout
}

func (p *paginator) newPage() {
	p.layout.Pages = append(p.layout.Pages, Page{})
	p.y = Margin
}

func (p *paginator) ensure(height float64) {
	if p.y+height > PageHeight-Margin {
		p.newPage()
	}
}

func (p *paginator) add(e Element) {
	last := &p.layout.Pages[len(p.layout.Pages)-1]
	last.Elements = append(last.Elements, e)
}

func (p *paginator) text(x float64, line string, size float64, bold bool) {
	p.ensure(LineHeight)
	p.add(Element{
		Kind:     ElementText,
		X:        x,
		Y:        p.y,
		W:        PageWidth - Margin - x,
		H:        LineHeight,
		Text:     line,
		FontSize: size,
		Bold:     bold,
	})
	p.y += LineHeight
}

func (p *paginator) note(note, avatar string) {
	p.ensure(ImageBlockHeight)
	page := len(p.layout.Pages)
	top := p.y

	p.add(Element{
		Kind:     ElementImage,
		X:        Margin,
		Y:        top,
		W:        AvatarSize,
		H:        AvatarSize,
		ImageRef: avatar,
	})

	x := Margin + AvatarTextOffset
	for _, line := range p.m.WrapText(note, ContentWidth-AvatarTextOffset, BodyFontSize, false) {
		p.text(x, line, BodyFontSize, false)
	}

	// a short note still consumes the whole author block
	if page == len(p.layout.Pages) && p.y < top+ImageBlockHeight {
		p.y = top + ImageBlockHeight
	}
}
