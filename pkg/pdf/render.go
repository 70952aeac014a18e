package pdf

import (
	"bytes"
	"context"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
)

const fontFamily = "Helvetica"

// baseline of a text line relative to the top of its box
const baselineOffset = LineHeight * 0.7

type fpdfMeasurer struct {
	f  *fpdf.Fpdf
	tr func(string) string
}

// WrapText splits text with the metrics of the core font. Returned lines
// are already cp1252 encoded, as expected by the core fonts.
func (m *fpdfMeasurer) WrapText(text string, width, fontSize float64, bold bool) []string {
	m.f.SetFont(fontFamily, fontStyle(bold), fontSize)

	var lines []string
	for _, line := range m.f.SplitLines([]byte(m.tr(text)), width) {
		lines = append(lines, string(line))
	}
	return lines
}

func fontStyle(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}

func newWriter() *fpdf.Fpdf {
	f := fpdf.New("P", "mm", "A4", "")
	f.SetMargins(Margin, Margin, Margin)
	// page breaks are decided by the paginator
	f.SetAutoPageBreak(false, Margin)
	f.SetTitle("Release Notes", true)
	f.SetCreator("relnotes", true)
	return f
}

// Write lays out doc, renders it and writes the PDF to w. images maps an
// avatar reference to its data; references without usable data are drawn
// as empty squares.
func Write(ctx context.Context, w io.Writer, doc *Document, images map[string]*model.AvatarImage) (*Layout, error) {
	f := newWriter()
	m := &fpdfMeasurer{f: f, tr: f.UnicodeTranslatorFromDescriptor("")}

	layout := Compute(doc, m)
	registered := registerImages(ctx, f, images)

	for _, page := range layout.Pages {
		f.AddPage()
		for _, e := range page.Elements {
			switch e.Kind {
			case ElementText:
				f.SetFont(fontFamily, fontStyle(e.Bold), e.FontSize)
				f.Text(e.X, e.Y+baselineOffset, e.Text)
			case ElementImage:
				if registered[e.ImageRef] {
					f.ImageOptions(e.ImageRef, e.X, e.Y, e.W, e.H, false, fpdf.ImageOptions{ImageType: "png"}, 0, "")
					continue
				}
				f.SetDrawColor(200, 200, 200)
				f.Rect(e.X, e.Y, e.W, e.H, "D")
				f.SetDrawColor(0, 0, 0)
			}
		}
	}

	if err := f.Output(w); err != nil {
		return nil, goerr.Wrap(err, "failed to render PDF", goerr.V("pages", len(layout.Pages)))
	}

	return layout, nil
}

func registerImages(ctx context.Context, f *fpdf.Fpdf, images map[string]*model.AvatarImage) map[string]bool {
	logger := ctxlog.From(ctx)
	registered := make(map[string]bool, len(images))

	for ref, img := range images {
		if ref == "" || img == nil {
			continue
		}

		data, err := NormalizeImage(img.Data)
		if err != nil {
			logger.Warn("Skipping undecodable avatar", "url", ref, "type", img.Type, "error", err)
			continue
		}

		f.RegisterImageOptionsReader(ref, fpdf.ImageOptions{ImageType: "png"}, bytes.NewReader(data))
		if f.Err() {
			logger.Warn("Skipping unregistrable avatar", "url", ref, "error", f.Error())
			f.ClearError()
			continue
		}
		registered[ref] = true
	}

	return registered
}

// MaxImageSize is the largest accepted avatar edge in pixels
const MaxImageSize = 1024

// ErrImageTooLarge is returned for images exceeding MaxImageSize
var ErrImageTooLarge = goerr.New("image dimensions too large")

// NormalizeImage decodes a gif, jpeg or png image and re-encodes it as an
// 8-bit non-interlaced PNG, the only PNG flavour fpdf embeds reliably.
func NormalizeImage(data []byte) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode image header")
	}
	if cfg.Width > MaxImageSize || cfg.Height > MaxImageSize {
		return nil, goerr.Wrap(ErrImageTooLarge, "avatar rejected",
			goerr.V("width", cfg.Width),
			goerr.V("height", cfg.Height),
		)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode image")
	}

	bounds := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, goerr.Wrap(err, "failed to encode image")
	}
	return buf.Bytes(), nil
}
