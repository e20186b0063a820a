package generator

import (
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
	"strconv"
	"time"

	"github.com/fogleman/gg"

	"github.com/cgartco6/asset-engine/internal/model"
)

const (
	videoWidth  = 720
	videoHeight = 1280
	videoFPS    = 10

	defaultVideoDuration = 15 // seconds
	maxVideoDuration     = 120
)

// VideoCapability synthesizes short vertical clips frame by frame and
// encodes them as an animated GIF container.
type VideoCapability struct {
	fontPath string
}

// NewVideo creates the video capability. fontPath may be empty.
func NewVideo(fontPath string) *VideoCapability {
	return &VideoCapability{fontPath: fontPath}
}

// Generate renders duration*10 frames at 10 fps with overlay text. The
// encoder goes through an intermediate file which is removed on every path,
// success or failure.
func (g *VideoCapability) Generate(ctx context.Context, specs map[string]string) (model.Asset, error) {
	duration := defaultVideoDuration
	if raw := specs["duration"]; raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d <= 0 || d > maxVideoDuration {
			return model.Asset{}, fmt.Errorf("invalid duration %q", raw)
		}
		duration = d
	}

	frames := duration * videoFPS
	anim := &gif.GIF{}
	overlay := NewImage(g.fontPath)

	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return model.Asset{}, err
		}

		dc := overlay.render(videoWidth, videoHeight, specs["product"], specs["target_demo"])
		drawFrameMarker(dc, i, frames)

		paletted := image.NewPaletted(image.Rect(0, 0, videoWidth, videoHeight), palette.Plan9)
		draw.Draw(paletted, paletted.Bounds(), dc.Image(), image.Point{}, draw.Src)

		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, 100/videoFPS) // hundredths of a second
	}

	content, err := encodeThroughTempFile(anim)
	if err != nil {
		return model.Asset{}, err
	}

	return model.Asset{
		ID:        model.NewAssetID(model.AssetVideo),
		Type:      model.AssetVideo,
		Content:   content,
		MIMEType:  "image/gif",
		Specs:     specs,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// drawFrameMarker animates a progress bar along the bottom edge so adjacent
// frames are distinguishable.
func drawFrameMarker(dc *gg.Context, frame, total int) {
	progress := float64(frame+1) / float64(total)

	dc.SetRGBA(1, 1, 1, 0.8)
	dc.DrawRectangle(0, float64(dc.Height())-24, float64(dc.Width())*progress, 24)
	dc.Fill()
}

// encodeThroughTempFile writes the animation to a scratch file and reads it
// back, removing the file unconditionally.
func encodeThroughTempFile(anim *gif.GIF) ([]byte, error) {
	tmp, err := os.CreateTemp("", "asset-video-*.gif")
	if err != nil {
		return nil, fmt.Errorf("failed to create intermediate file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gif.EncodeAll(tmp, anim); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to encode video: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush intermediate file: %w", err)
	}

	content, err := os.ReadFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to read intermediate file: %w", err)
	}

	return content, nil
}
