package engine

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

const (
	// Glyphs from fonts without a /Widths array report zero width; use an
	// average Helvetica advance instead.
	fallbackGlyphWidth = 0.5
	defaultFontSize    = 12.0
	baselineTolerance  = 1.0
)

// rect is a box in PDF user space, lower-left to upper-right.
type rect struct {
	llx, lly, urx, ury float64
}

// Highlighter adds highlight annotations over literal text matches.
type Highlighter struct{}

func NewHighlighter() *Highlighter {
	return &Highlighter{}
}

// Highlight finds every case-sensitive occurrence of needle in the PDF's text
// layer and adds one /Highlight annotation per occurrence. Pages without a
// match keep their original objects. When nothing matches the input is
// returned as is.
func (h *Highlighter) Highlight(pdfBytes []byte, needle string) ([]byte, error) {
	if needle == "" {
		return nil, fmt.Errorf("search text is empty")
	}

	hits, err := searchText(pdfBytes, needle)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		out := make([]byte, len(pdfBytes))
		copy(out, pdfBytes)
		return out, nil
	}

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(pdfBytes), newPDFConfig())
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	pages := make([]int, 0, len(hits))
	for pageNr := range hits {
		pages = append(pages, pageNr)
	}
	sort.Ints(pages)

	for _, pageNr := range pages {
		if pageNr > ctx.PageCount {
			continue
		}
		if err := addHighlightAnnotations(ctx, pageNr, hits[pageNr]); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, fmt.Errorf("pdfcpu write: %w", err)
	}
	return buf.Bytes(), nil
}

// addHighlightAnnotations appends one annotation per rect to the page's /Annots.
func addHighlightAnnotations(ctx *model.Context, pageNr int, rects []rect) error {
	pageDict, pageRef, _, err := ctx.PageDict(pageNr, false)
	if err != nil {
		return fmt.Errorf("page %d: %w", pageNr, err)
	}
	if pageDict == nil {
		return fmt.Errorf("page %d: missing page dict", pageNr)
	}

	var annots types.Array
	if obj, found := pageDict.Find("Annots"); found {
		existing, err := ctx.DereferenceArray(obj)
		if err != nil {
			return fmt.Errorf("page %d annots: %w", pageNr, err)
		}
		annots = append(annots, existing...)
	}

	for _, r := range rects {
		d := types.Dict{
			"Type":       types.Name("Annot"),
			"Subtype":    types.Name("Highlight"),
			"Rect":       types.NewNumberArray(r.llx, r.lly, r.urx, r.ury),
			"QuadPoints": types.NewNumberArray(r.llx, r.ury, r.urx, r.ury, r.llx, r.lly, r.urx, r.lly),
			"C":          types.NewNumberArray(1, 1, 0),
			"F":          types.Integer(4),
		}
		if pageRef != nil {
			d["P"] = *pageRef
		}
		ref, err := ctx.IndRefForNewObject(d)
		if err != nil {
			return fmt.Errorf("page %d: add annotation: %w", pageNr, err)
		}
		annots = append(annots, *ref)
	}

	pageDict["Annots"] = annots
	return nil
}

// textLine is a run of glyphs sharing a baseline, in content stream order.
type textLine struct {
	glyphs  []pdf.Text
	xs      []float64
	offsets []int
	text    string
}

func (l *textLine) add(g pdf.Text) {
	x := g.X
	if n := len(l.glyphs); n > 0 && g.X <= l.glyphs[n-1].X+0.01 {
		// Zero-advance glyph run: place it after the previous glyph.
		x = l.xs[n-1] + glyphWidth(l.glyphs[n-1])
	}
	l.offsets = append(l.offsets, len(l.text))
	l.glyphs = append(l.glyphs, g)
	l.xs = append(l.xs, x)
	l.text += g.S
}

// glyphIndex maps a byte offset of l.text to the glyph that produced it.
func (l *textLine) glyphIndex(offset int) int {
	return sort.Search(len(l.offsets), func(i int) bool { return l.offsets[i] > offset }) - 1
}

func (l *textLine) bounds(first, last int) rect {
	fontSize := l.glyphs[first].FontSize
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}
	y := l.glyphs[first].Y
	return rect{
		llx: l.xs[first],
		lly: y - 0.25*fontSize,
		urx: l.xs[last] + glyphWidth(l.glyphs[last]),
		ury: y + 0.9*fontSize,
	}
}

func glyphWidth(g pdf.Text) float64 {
	if g.W > 0 {
		return g.W
	}
	size := g.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	return size * fallbackGlyphWidth * float64(len([]rune(g.S)))
}

// searchText returns match rectangles keyed by 1-based page number.
func searchText(pdfBytes []byte, needle string) (hits map[int][]rect, err error) {
	// The parser panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			hits = nil
			err = fmt.Errorf("failed to read PDF text: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(pdfBytes), int64(len(pdfBytes)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	hits = make(map[int][]rect)
	for pageNr := 1; pageNr <= reader.NumPage(); pageNr++ {
		page := reader.Page(pageNr)
		if page.V.IsNull() {
			continue
		}
		for _, line := range groupLines(page.Content().Text) {
			for start := 0; start < len(line.text); {
				idx := strings.Index(line.text[start:], needle)
				if idx < 0 {
					break
				}
				begin := start + idx
				end := begin + len(needle)
				hits[pageNr] = append(hits[pageNr], line.bounds(line.glyphIndex(begin), line.glyphIndex(end-1)))
				start = end
			}
		}
	}
	return hits, nil
}

func groupLines(glyphs []pdf.Text) []*textLine {
	var lines []*textLine
	var current *textLine
	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if current == nil || math.Abs(g.Y-current.glyphs[0].Y) > baselineTolerance {
			current = &textLine{}
			lines = append(lines, current)
		}
		current.add(g)
	}
	return lines
}
