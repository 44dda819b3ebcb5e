package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"yocto-invoice/internal/logger"
	"yocto-invoice/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) }

type stubLogos struct {
	logo  *Logo
	err   error
	calls int
}

func (s *stubLogos) Load(path string) (*Logo, error) {
	s.calls++
	return s.logo, s.err
}

func testLogo(t *testing.T) *Logo {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 256, 128))
	for x := 0; x < 256; x++ {
		for y := 0; y < 128; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &Logo{PNG: buf.Bytes(), Width: 256, Height: 128}
}

func testDocument(docType models.DocumentType, items int) models.Document {
	lineItems := make([]models.LineItem, items)
	for i := range lineItems {
		lineItems[i] = models.LineItem{
			Description: fmt.Sprintf("Item %d", i+1),
			Quantity:    i%3 + 1,
			Price:       decimal.RequireFromString("1234.5"),
		}
	}

	issued := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	return models.NewDocument(
		docType,
		7,
		issued,
		issued.AddDate(0, 0, 30),
		models.Business{
			Name:      "Acme Widgets",
			Address:   "1 Main Rd",
			City:      "Durban",
			Province:  "KZN",
			RegNumber: "2020/123",
		},
		models.Customer{Name: "Jane Doe", Company: "Doe Ltd", Email: "jane@doe.test"},
		lineItems,
	)
}

// tj is how fpdf shows a string in an uncompressed content stream
func tj(s string) string {
	return "(" + s + ")Tj"
}

type textRun struct {
	y    float64
	text string
}

var textRunPattern = regexp.MustCompile(`BT -?[0-9.]+ (-?[0-9.]+) Td \((.*?)\)Tj ET`)

func textRuns(t *testing.T, out string) []textRun {
	t.Helper()
	var runs []textRun
	for _, m := range textRunPattern.FindAllStringSubmatch(out, -1) {
		y, err := strconv.ParseFloat(m[1], 64)
		require.NoError(t, err)
		runs = append(runs, textRun{y: y, text: m[2]})
	}
	return runs
}

// assertInsideMargins checks every text baseline lies between the one-inch
// margins of an A4 page, in points from the bottom edge.
func assertInsideMargins(t *testing.T, out string) {
	t.Helper()
	runs := textRuns(t, out)
	require.NotEmpty(t, runs)
	for _, run := range runs {
		assert.GreaterOrEqual(t, run.y, 72.0, "text %q below the bottom margin", run.text)
		assert.LessOrEqual(t, run.y, 842.0-72.0, "text %q above the top margin", run.text)
	}
}

func newTestService(logos LogoLoader, fonts *FontSet) *PDFService {
	return NewPDFService(logos, PDFOptions{
		Fonts:        fonts,
		Uncompressed: true,
		Now:          fixedNow,
	}, logger.NoOpLogger{})
}

func TestPDFService_RenderInvoice(t *testing.T) {
	svc := newTestService(nil, nil)
	var buf bytes.Buffer

	result, err := svc.Render(context.Background(), testDocument(models.Invoice, 2), &buf)
	require.NoError(t, err)

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, len(out), result.Bytes)

	for _, want := range []string{
		"/Title (Invoice)",
		"/Author (Yocto Invoice)",
		tj("INVOICE"),
		tj("Acme Widgets"),
		tj("Durban, KZN"),
		tj("Reg. number: 2020/123"),
		tj("BILL TO"),
		tj("Jane Doe"),
		tj("Date"),
		tj("2026/10/15"),
		tj("Due Date"),
		tj("2026/11/14"),
		tj("Description"),
		tj("Item 2"),
		tj("1,234.50"),
		tj("Total"),
		tj("3,703.50"),
	} {
		assert.Contains(t, string(out), want)
	}
}

func TestPDFService_RenderQuoteOmitsDueDate(t *testing.T) {
	svc := newTestService(nil, nil)
	var buf bytes.Buffer

	_, err := svc.Render(context.Background(), testDocument(models.Quote, 1), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "/Title (Quote)")
	assert.Contains(t, out, tj("QUOTE"))
	assert.Contains(t, out, tj("Date"))
	assert.Contains(t, out, tj("2026/10/15"))
	assert.Contains(t, out, tj("Jane Doe"))
	assert.Contains(t, out, tj("Total"))
	assert.NotContains(t, out, tj("Due Date"))
	assert.NotContains(t, out, tj("2026/11/14"))
}

func TestPDFService_RenderEmptyDocument(t *testing.T) {
	svc := newTestService(nil, nil)
	var buf bytes.Buffer

	doc := models.NewDocument(models.Invoice, 1, fixedNow(), fixedNow(), models.Business{}, models.Customer{}, nil)
	result, err := svc.Render(context.Background(), doc, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Pages)
	assert.Contains(t, buf.String(), tj("0.00"))
}

func TestPDFService_LongTableRepeatsHeader(t *testing.T) {
	svc := newTestService(nil, nil)
	var buf bytes.Buffer

	result, err := svc.Render(context.Background(), testDocument(models.Invoice, 80), &buf)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.Pages, 3)
	assert.Equal(t, result.Pages, bytes.Count(buf.Bytes(), []byte(tj("Description"))))
	assert.Contains(t, buf.String(), tj("Item 80"))
	assertInsideMargins(t, buf.String())
}

func TestPDFService_LongCustomerBlockFlowsToNextPage(t *testing.T) {
	svc := newTestService(nil, nil)
	var buf bytes.Buffer

	doc := testDocument(models.Invoice, 1)
	doc.Customer.Address = strings.Repeat("Long street name segment ", 120)

	result, err := svc.Render(context.Background(), doc, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.GreaterOrEqual(t, result.Pages, 2)
	assert.Contains(t, out, tj("Description"))
	assert.Contains(t, out, tj("Item 1"))
	assert.Contains(t, out, tj("1,234.50"))
	assertInsideMargins(t, out)
}

func TestPDFService_HeaderMovesWithFirstRow(t *testing.T) {
	svc := newTestService(nil, nil)
	var buf bytes.Buffer

	// enough customer lines to leave the table header stranded at the foot
	// of the first page
	doc := testDocument(models.Invoice, 1)
	doc.Customer.Address = strings.Repeat("Segment ", 330)

	_, err := svc.Render(context.Background(), doc, &buf)
	require.NoError(t, err)
	assertInsideMargins(t, buf.String())
}

func TestPDFService_OversizedItemFails(t *testing.T) {
	svc := newTestService(nil, nil)

	doc := testDocument(models.Invoice, 1)
	doc.Items[0].Description = strings.Repeat("word ", 5000)

	_, err := svc.Render(context.Background(), doc, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrContentTooLarge)
}

func TestPDFService_WrapsLongDescriptions(t *testing.T) {
	svc := newTestService(nil, nil)
	var buf bytes.Buffer

	doc := testDocument(models.Invoice, 0)
	doc.Items = []models.LineItem{{
		Description: "Quarterly maintenance of the production cluster including patching, backups and a restore drill",
		Quantity:    1,
		Price:       decimal.NewFromInt(10),
	}}

	_, err := svc.Render(context.Background(), doc, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, tj("Quarterly maintenance of the production cluster including patching, backups and a restore drill"))
	assert.Contains(t, out, "drill)Tj")
}

func TestPDFService_DrawsLogo(t *testing.T) {
	logos := &stubLogos{logo: testLogo(t)}
	svc := newTestService(logos, nil)
	var buf bytes.Buffer

	doc := testDocument(models.Invoice, 1)
	doc.Business.LogoPath = "/srv/logo.png"

	_, err := svc.Render(context.Background(), doc, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, logos.calls)
	assert.Contains(t, buf.String(), "/Subtype /Image")
}

func TestPDFService_DrawsTransparentLogo(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 32))
	img.Set(40, 10, color.NRGBA{R: 255, A: 255})
	var png32 bytes.Buffer
	require.NoError(t, png.Encode(&png32, img))

	logos := &stubLogos{logo: &Logo{PNG: png32.Bytes(), Width: 64, Height: 32}}
	svc := newTestService(logos, nil)
	var buf bytes.Buffer

	doc := testDocument(models.Invoice, 1)
	doc.Business.LogoPath = "/srv/logo.png"

	_, err := svc.Render(context.Background(), doc, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "/SMask")
}

func TestPDFService_MissingLogoIsSkipped(t *testing.T) {
	logos := &stubLogos{err: fmt.Errorf("%w: /gone.png", ErrLogoNotFound)}
	svc := newTestService(logos, nil)
	var buf bytes.Buffer

	doc := testDocument(models.Invoice, 1)
	doc.Business.LogoPath = "/gone.png"

	_, err := svc.Render(context.Background(), doc, &buf)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "/Subtype /Image")
}

func TestPDFService_BrokenLogoFails(t *testing.T) {
	logos := &stubLogos{err: errors.New("corrupt")}
	svc := newTestService(logos, nil)

	doc := testDocument(models.Invoice, 1)
	doc.Business.LogoPath = "/srv/logo.png"

	_, err := svc.Render(context.Background(), doc, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt")
}

func TestPDFService_NoLogoPathSkipsLoader(t *testing.T) {
	logos := &stubLogos{err: errors.New("should not be called")}
	svc := newTestService(logos, nil)

	_, err := svc.Render(context.Background(), testDocument(models.Quote, 1), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Zero(t, logos.calls)
}

func TestPDFService_CancelledContext(t *testing.T) {
	svc := newTestService(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Render(ctx, testDocument(models.Invoice, 1), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPDFService_ThemeFonts(t *testing.T) {
	svc := newTestService(nil, ThemeFonts())
	var buf bytes.Buffer

	doc := testDocument(models.Invoice, 3)
	doc.Customer.Name = "Zoë Müller"
	doc.Items[0].Description = "Café consultation – première séance"

	result, err := svc.Render(context.Background(), doc, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Pages)
	assert.Contains(t, buf.String(), "/FontFile2")
}

func TestPDFService_RenderFile(t *testing.T) {
	svc := newTestService(nil, nil)
	path := filepath.Join(t.TempDir(), "Invoice.pdf")

	result, err := svc.RenderFile(context.Background(), testDocument(models.Invoice, 2), path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(result.Bytes), info.Size())
}

func TestPDFService_RenderFileUnwritable(t *testing.T) {
	svc := newTestService(nil, nil)
	path := filepath.Join(t.TempDir(), "missing", "Invoice.pdf")

	_, err := svc.RenderFile(context.Background(), testDocument(models.Invoice, 1), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPDFService_RenderFileRemovesPartialOutput(t *testing.T) {
	svc := newTestService(&stubLogos{err: errors.New("corrupt")}, nil)
	path := filepath.Join(t.TempDir(), "Invoice.pdf")

	doc := testDocument(models.Invoice, 1)
	doc.Business.LogoPath = "/srv/logo.png"

	_, err := svc.RenderFile(context.Background(), doc, path)
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}
