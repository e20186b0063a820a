package generator

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/wb-go/wbf/zlog"

	"github.com/cgartco6/asset-engine/internal/model"
)

// aspectSize resolves an aspect-ratio tag to pixel dimensions. Unknown tags
// fall back to square.
func aspectSize(tag string) (int, int) {
	switch tag {
	case "16:9":
		return 1280, 720
	case "9:16":
		return 720, 1280
	default: // "1:1" and anything unrecognized
		return 1080, 1080
	}
}

// ImageCapability renders placeholder visuals with centered overlay text.
type ImageCapability struct {
	fontPath string
	fontSize float64
}

// NewImage creates the image capability. fontPath may be empty; the overlay
// text is skipped when no usable font is available.
func NewImage(fontPath string) *ImageCapability {
	return &ImageCapability{fontPath: fontPath, fontSize: 48}
}

// Generate renders the placeholder and encodes it as JPEG.
func (g *ImageCapability) Generate(ctx context.Context, specs map[string]string) (model.Asset, error) {
	if err := ctx.Err(); err != nil {
		return model.Asset{}, err
	}

	width, height := aspectSize(specs["aspect_ratio"])
	dc := g.render(width, height, specs["product"], specs["target_demo"])

	buf := bytes.NewBuffer(nil)
	if err := imaging.Encode(buf, dc.Image(), imaging.JPEG); err != nil {
		return model.Asset{}, fmt.Errorf("failed to encode image: %w", err)
	}

	category := categoryFor(specs["type"])
	if category == "" {
		category = model.AssetImage
	}

	return model.Asset{
		ID:        model.NewAssetID(category),
		Type:      model.AssetImage,
		Content:   buf.Bytes(),
		MIMEType:  "image/jpeg",
		Specs:     specs,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// render draws a two-band background colored deterministically from the
// product name, with the product and target demographic centered on top.
func (g *ImageCapability) render(width, height int, product, demo string) *gg.Context {
	r, gr, b := brandColor(product)

	dc := gg.NewContext(width, height)
	dc.SetRGB(r, gr, b)
	dc.Clear()

	dc.SetRGBA(1, 1, 1, 0.15)
	dc.DrawRectangle(0, float64(height)/2, float64(width), float64(height)/2)
	dc.Fill()

	if g.fontPath == "" {
		return dc
	}
	if err := dc.LoadFontFace(g.fontPath, g.fontSize); err != nil {
		zlog.Logger.Warn().Err(err).Str("font", g.fontPath).Msg("font unavailable, rendering without overlay text")
		return dc
	}

	dc.SetRGB(1, 1, 1)
	cx := float64(width) / 2
	cy := float64(height) / 2
	if product != "" {
		dc.DrawStringAnchored(product, cx, cy-g.fontSize, 0.5, 0.5)
	}
	if demo != "" {
		dc.DrawStringAnchored(demo, cx, cy+g.fontSize, 0.5, 0.5)
	}

	return dc
}

// brandColor maps a product name to a stable mid-range RGB triple.
func brandColor(product string) (float64, float64, float64) {
	h := fnv.New32a()
	h.Write([]byte(product))
	v := h.Sum32()

	r := 0.2 + float64(v&0xff)/512
	g := 0.2 + float64((v>>8)&0xff)/512
	b := 0.2 + float64((v>>16)&0xff)/512
	return r, g, b
}
