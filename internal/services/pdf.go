package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"yocto-invoice/internal/logger"
	"yocto-invoice/internal/models"
	"yocto-invoice/internal/money"

	"github.com/go-pdf/fpdf"
)

const (
	Author = "Yocto Invoice"

	pageMargin = 25.4 // one inch, in mm

	fontRegular = ""
	fontBold    = "B"

	normalSize  = 10.0
	normalLead  = 12.0
	headingSize = 14.0
	headingLead = 18.0
	titleSize   = 18.0
	titleLead   = 22.0

	cellPadX = 6.0 // points
	cellPadY = 3.0

	ruleHeavy = 1.0 // points
	ruleThin  = 0.1
)

// ErrContentTooLarge is returned for a single block taller than a page
var ErrContentTooLarge = errors.New("content does not fit on a page")

var (
	billingWidths = [3]float64{100, 25, 25}
	itemWidths    = [3]float64{100, 25, 30}
)

// pt converts points to millimetres
func pt(v float64) float64 {
	return v * 25.4 / 72
}

// FontSet is a Unicode TrueType regular/bold pair
type FontSet struct {
	Family  string
	Regular []byte
	Bold    []byte
}

func (fs *FontSet) usable() bool {
	return fs != nil && fs.Family != "" && len(fs.Regular) > 0 && len(fs.Bold) > 0
}

// PDFOptions tune the renderer
type PDFOptions struct {
	// Fonts is used when set; otherwise the core Helvetica font is used
	Fonts *FontSet
	// Uncompressed disables stream compression
	Uncompressed bool
	// Now stamps the PDF creation date; time.Now when nil
	Now func() time.Time
}

// RenderResult summarises a rendered document
type RenderResult struct {
	Pages int
	Bytes int
}

// PDFService lays out invoices and quotes
type PDFService struct {
	logos   LogoLoader
	options PDFOptions
	logger  logger.Logger
}

func NewPDFService(logos LogoLoader, options PDFOptions, log logger.Logger) *PDFService {
	if options.Now == nil {
		options.Now = time.Now
	}
	return &PDFService{
		logos:   logos,
		options: options,
		logger:  log,
	}
}

// RenderFile writes doc to path, removing the partial file on failure
func (s *PDFService) RenderFile(ctx context.Context, doc models.Document, path string) (RenderResult, error) {
	file, err := os.Create(path)
	if err != nil {
		return RenderResult{}, fmt.Errorf("failed to create %s: %w", path, err)
	}

	result, err := s.Render(ctx, doc, file)
	closeErr := file.Close()
	if err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close %s: %w", path, closeErr)
	}
	if err != nil {
		os.Remove(path)
		return RenderResult{}, err
	}

	s.logger.Info("PDFService", "document saved", map[string]interface{}{
		"path":  path,
		"type":  doc.Type.String(),
		"pages": result.Pages,
		"bytes": result.Bytes,
	})

	return result, nil
}

// Render lays out doc and writes the PDF to w
func (s *PDFService) Render(ctx context.Context, doc models.Document, w io.Writer) (RenderResult, error) {
	select {
	case <-ctx.Done():
		return RenderResult{}, ctx.Err()
	default:
	}

	logo, err := s.loadLogo(doc.Business.LogoPath)
	if err != nil {
		return RenderResult{}, err
	}

	r := s.newRenderer()
	r.pdf.SetTitle(doc.Type.MetadataTitle(), false)
	r.pdf.SetAuthor(Author, false)
	r.pdf.SetCreator(Author, false)
	r.pdf.SetCreationDate(s.options.Now())
	r.pdf.AddPage()

	r.businessHeader(doc.Business, logo)
	r.pdf.Ln(pt(36))
	r.title(doc.Type.Title())
	r.pdf.Ln(pt(24))
	r.billing(doc)
	r.pdf.Ln(pt(24))
	if err := r.items(ctx, doc); err != nil {
		return RenderResult{}, err
	}

	if err := r.pdf.Error(); err != nil {
		return RenderResult{}, fmt.Errorf("failed to lay out %s: %w", doc.Type, err)
	}

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return RenderResult{}, fmt.Errorf("failed to build %s: %w", doc.Type, err)
	}

	result := RenderResult{Pages: r.pdf.PageNo(), Bytes: buf.Len()}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return RenderResult{}, fmt.Errorf("failed to write %s: %w", doc.Type, err)
	}

	s.logger.Debug("PDFService", "document rendered", map[string]interface{}{
		"type":  doc.Type.String(),
		"items": len(doc.Items),
		"pages": result.Pages,
	})

	return result, nil
}

func (s *PDFService) loadLogo(path string) (*Logo, error) {
	if path == "" || s.logos == nil {
		return nil, nil
	}

	logo, err := s.logos.Load(path)
	if errors.Is(err, ErrLogoNotFound) {
		s.logger.Warning("PDFService", "logo missing, rendering without it", map[string]interface{}{
			"path": path,
		})
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load logo: %w", err)
	}
	return logo, nil
}

type renderer struct {
	pdf    *fpdf.Fpdf
	family string
	tr     func(string) string
}

func (s *PDFService) newRenderer() *renderer {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetCompression(!s.options.Uncompressed)

	r := &renderer{pdf: pdf}

	if fonts := s.options.Fonts; fonts.usable() {
		pdf.AddUTF8FontFromBytes(fonts.Family, fontRegular, fonts.Regular)
		pdf.AddUTF8FontFromBytes(fonts.Family, fontBold, fonts.Bold)
		r.family = fonts.Family
		r.tr = func(s string) string { return s }
	} else {
		r.family = "Helvetica"
		r.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	return r
}

func (r *renderer) font(style string, size float64) {
	r.pdf.SetFont(r.family, style, size)
}

func (r *renderer) contentWidth() float64 {
	w, _ := r.pdf.GetPageSize()
	left, _, right, _ := r.pdf.GetMargins()
	return w - left - right
}

// centredX returns the left edge of a table of width w centred in the frame
func (r *renderer) centredX(w float64) float64 {
	left, _, _, _ := r.pdf.GetMargins()
	return left + (r.contentWidth()-w)/2
}

func (r *renderer) pageBottom() float64 {
	_, h := r.pdf.GetPageSize()
	_, _, _, bottom := r.pdf.GetMargins()
	return h - bottom
}

func (r *renderer) pageTop() float64 {
	_, top, _, _ := r.pdf.GetMargins()
	return top
}

// fit returns y when h more fits above the bottom margin, otherwise it
// starts a new page and returns its top.
func (r *renderer) fit(y, h float64) (float64, bool) {
	if y+h <= r.pageBottom() {
		return y, false
	}
	r.pdf.AddPage()
	return r.pageTop(), true
}

// text writes one line of s in a w-wide slot at (x, y)
func (r *renderer) text(x, y, w, lead float64, s, align string) {
	r.pdf.SetXY(x, y)
	r.pdf.CellFormat(w, pt(lead), r.tr(s), "", 0, align, false, 0, "")
}

// wrap breaks s into lines no wider than w at the current font
func (r *renderer) wrap(s string, w float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if r.width(candidate) <= w {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			line = ""
			for _, piece := range r.breakWord(word, w) {
				if line != "" {
					lines = append(lines, line)
				}
				line = piece
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// breakWord splits a word wider than w into pieces that fit
func (r *renderer) breakWord(word string, w float64) []string {
	if r.width(word) <= w {
		return []string{word}
	}

	var pieces []string
	current := ""
	for _, ch := range word {
		next := current + string(ch)
		if current != "" && r.width(next) > w {
			pieces = append(pieces, current)
			next = string(ch)
		}
		current = next
	}
	return append(pieces, current)
}

func (r *renderer) width(s string) float64 {
	return r.pdf.GetStringWidth(r.tr(s))
}

// businessHeader draws the logo on the left and the name and contact lines
// on the right, each half of the frame wide.
func (r *renderer) businessHeader(b models.Business, logo *Logo) {
	left, top, _, _ := r.pdf.GetMargins()
	colW := r.contentWidth() / 2
	padX, padY := pt(cellPadX), pt(cellPadY)

	logoBottom := top
	if logo != nil {
		w, h := pt(float64(logo.Width)/2), pt(float64(logo.Height)/2)
		opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		r.pdf.RegisterImageOptionsReader("business-logo", opts, bytes.NewReader(logo.PNG))
		r.pdf.ImageOptions("business-logo", left+colW-padX-w, top+padY, w, h, false, opts, 0, "")
		logoBottom = top + padY + h + padY
	}

	x := left + colW + padX
	textW := colW - 2*padX
	y := top + padY
	broke := false

	line := func(s string, lead float64) {
		var moved bool
		y, moved = r.fit(y, pt(lead))
		broke = broke || moved
		r.text(x, y, textW, lead, s, "L")
		y += pt(lead)
	}

	if b.Name != "" {
		y += pt(headingLead - headingSize)
		r.font(fontBold, headingSize)
		for _, l := range r.wrap(b.Name, textW) {
			line(l, headingLead)
		}
		y += pt(6)
	}

	r.font(fontRegular, normalSize)
	for _, contact := range b.ContactLines() {
		for _, l := range r.wrap(contact, textW) {
			line(l, normalLead)
		}
	}
	y += padY

	if !broke {
		y = max(y, logoBottom)
	}
	r.pdf.SetXY(left, y)
}

func (r *renderer) title(title string) {
	left, _, _, _ := r.pdf.GetMargins()
	y, _ := r.fit(r.pdf.GetY(), pt(titleLead)+pt(6))
	r.font(fontBold, titleSize)
	r.text(left, y, r.contentWidth(), titleLead, title, "C")
	r.pdf.SetXY(left, y+pt(titleLead)+pt(6))
}

// billing draws the BILL TO block. The customer lines span five rows on the
// left; number, date and, for invoices, the due date sit on the right.
func (r *renderer) billing(doc models.Document) {
	x0 := r.centredX(billingWidths[0] + billingWidths[1] + billingWidths[2])
	x1 := x0 + billingWidths[0]
	x2 := x1 + billingWidths[1]
	padX, padY := pt(cellPadX), pt(cellPadY)
	rowH := pt(normalLead) + 2*padY

	labels := [][2]string{
		{"#", strconv.Itoa(doc.Number)},
		{"Date", doc.Date.Format(models.DateLayout)},
	}
	if doc.Type.HasDueDate() {
		labels = append(labels, [2]string{"Due Date", doc.DueDate.Format(models.DateLayout)})
	}

	// the label column and the first customer line start on the same page
	y, _ := r.fit(r.pdf.GetY(), max(float64(len(labels)), 2)*rowH)

	r.font(fontBold, normalSize)
	r.text(x0+padX, y+padY, billingWidths[0]-2*padX, normalLead, "BILL TO", "L")

	for i, pair := range labels {
		rowY := y + float64(i)*rowH + padY
		r.font(fontBold, normalSize)
		r.text(x1+padX, rowY, billingWidths[1]-2*padX, normalLead, pair[0], "R")
		r.font(fontRegular, normalSize)
		r.text(x2+padX, rowY, billingWidths[2]-2*padX, normalLead, pair[1], "L")
	}

	customerW := billingWidths[0] - 2*padX
	cy := y + rowH + padY
	broke := false
	for i, contact := range doc.Customer.ContactLines() {
		style := fontRegular
		if i == 0 && doc.Customer.Name != "" {
			style = fontBold
		}
		r.font(style, normalSize)
		for _, line := range r.wrap(contact, customerW) {
			var moved bool
			cy, moved = r.fit(cy, pt(normalLead))
			broke = broke || moved
			r.text(x0+padX, cy, customerW, normalLead, line, "L")
			cy += pt(normalLead)
		}
	}
	cy += padY

	if broke {
		r.pdf.SetY(cy)
		return
	}
	r.pdf.SetY(max(y+6*rowH, cy))
}

type itemRow struct {
	cells [3][]string
	bold  bool
	total bool
}

// items draws the line-item table with a repeated header on every page
func (r *renderer) items(ctx context.Context, doc models.Document) error {
	tableW := itemWidths[0] + itemWidths[1] + itemWidths[2]
	x0 := r.centredX(tableW)

	rows := make([]itemRow, 0, len(doc.Items)+1)
	r.font(fontRegular, normalSize)
	for _, item := range doc.Items {
		rows = append(rows, itemRow{cells: [3][]string{
			r.wrap(item.Description, itemWidths[0]-2*pt(cellPadX)),
			{strconv.Itoa(item.Quantity)},
			{money.Format(item.Price)},
		}})
	}
	rows = append(rows, itemRow{
		cells: [3][]string{{""}, {"Total"}, {money.Format(doc.Total)}},
		bold:  true,
		total: true,
	})

	header := itemRow{cells: [3][]string{{"Description"}, {"Quantity"}, {"Price"}}, bold: true}

	headerH := r.rowHeight(header)
	for i, row := range rows {
		if r.pageTop()+headerH+r.rowHeight(row) > r.pageBottom() {
			return fmt.Errorf("%w: line item %d", ErrContentTooLarge, i+1)
		}
	}

	// keep the header together with the first row
	segmentTop, _ := r.fit(r.pdf.GetY(), headerH+r.rowHeight(rows[0]))
	y := r.drawItemRow(x0, segmentTop, header, true)

	for _, row := range rows {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		h := r.rowHeight(row)
		if y+h > r.pageBottom() {
			// close this page's segment and repeat the header
			r.boxSegment(x0, segmentTop, tableW, y)
			r.rule(ruleHeavy, x0, y, x0+tableW, y)
			r.pdf.AddPage()
			segmentTop = r.pageTop()
			y = r.drawItemRow(x0, segmentTop, header, true)
		}

		if row.total {
			r.boxSegment(x0, segmentTop, tableW, y)
			r.rule(ruleHeavy, x0+itemWidths[0], y, x0+tableW, y)
			r.rule(ruleHeavy, x0+itemWidths[0], y, x0+itemWidths[0], y+h)
			r.rule(ruleHeavy, x0+tableW, y, x0+tableW, y+h)
			r.rule(ruleHeavy, x0+itemWidths[0], y+h, x0+tableW, y+h)
		}
		y = r.drawItemRow(x0, y, row, false)
	}

	r.pdf.SetY(y)
	return nil
}

func (r *renderer) rowHeight(row itemRow) float64 {
	lines := 1
	for _, cell := range row.cells {
		lines = max(lines, len(cell))
	}
	return float64(lines)*pt(normalLead) + 2*pt(cellPadY)
}

// drawItemRow draws one table row at y and returns the y below it
func (r *renderer) drawItemRow(x0, y float64, row itemRow, header bool) float64 {
	padX, padY := pt(cellPadX), pt(cellPadY)
	h := r.rowHeight(row)

	style := fontRegular
	if row.bold {
		style = fontBold
	}

	x := x0
	for col, lines := range row.cells {
		w := itemWidths[col]
		align := "R"
		switch {
		case header:
			align = "C"
		case col == 0:
			align = "L"
		}

		// the total row only has a bold style on its Total/amount cells
		cellStyle := style
		if row.total && col == 0 {
			cellStyle = fontRegular
		}
		r.font(cellStyle, normalSize)

		for i, line := range lines {
			r.text(x+padX, y+padY+float64(i)*pt(normalLead), w-2*padX, normalLead, line, align)
		}

		if col > 0 && !(row.total && col == 1) {
			r.rule(ruleThin, x, y, x, y+h)
		}
		x += w
	}

	tableW := itemWidths[0] + itemWidths[1] + itemWidths[2]
	switch {
	case header:
		r.rule(ruleHeavy, x0, y+h, x0+tableW, y+h)
	case !row.total:
		r.rule(ruleThin, x0, y+h, x0+tableW, y+h)
	}

	return y + h
}

// boxSegment outlines the header and item rows drawn on the current page
func (r *renderer) boxSegment(x0, top, w, bottom float64) {
	r.pdf.SetLineWidth(pt(ruleHeavy))
	r.pdf.Rect(x0, top, w, bottom-top, "D")
}

func (r *renderer) rule(weight, x1, y1, x2, y2 float64) {
	r.pdf.SetLineWidth(pt(weight))
	r.pdf.Line(x1, y1, x2, y2)
}
