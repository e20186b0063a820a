package generator

import (
	"bytes"
	"context"
	"errors"
	"image/gif"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/cgartco6/asset-engine/internal/model"
)

type stubTextService struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubTextService) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func testRegistry() (*Registry, *stubTextService) {
	svc := &stubTextService{reply: "generated copy"}
	return Default(NewText(svc), NewImage(""), NewVideo(""), NewAudio()), svc
}

func TestRegistryAliases(t *testing.T) {
	r, _ := testRegistry()

	text, err := r.Lookup(model.AssetText)
	if err != nil {
		t.Fatalf("Lookup text: %v", err)
	}
	caption, err := r.Lookup(model.AssetCaption)
	if err != nil {
		t.Fatalf("Lookup caption: %v", err)
	}
	if text != caption {
		t.Fatal("caption should alias the text capability")
	}

	img, err := r.Lookup(model.AssetImage)
	if err != nil {
		t.Fatalf("Lookup image: %v", err)
	}
	thumb, err := r.Lookup(model.AssetThumbnail)
	if err != nil {
		t.Fatalf("Lookup thumbnail: %v", err)
	}
	if img != thumb {
		t.Fatal("thumbnail should alias the image capability")
	}
}

func TestRegistryUnsupportedType(t *testing.T) {
	r, _ := testRegistry()

	if _, err := r.Lookup("holo3d"); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestTextGenerate(t *testing.T) {
	svc := &stubTextService{reply: "fresh copy"}
	cap := NewText(svc)

	specs := map[string]string{
		"type":        model.AssetCaption,
		"length":      "short",
		"product":     "SolarKettle",
		"target_demo": "campers",
		"tone":        "playful",
	}
	a, err := cap.Generate(context.Background(), specs)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if a.Type != model.AssetText {
		t.Fatalf("caption asset should have type text, got %s", a.Type)
	}
	if !strings.HasPrefix(a.ID, model.AssetText+"_") {
		t.Fatalf("unexpected id %s", a.ID)
	}
	if string(a.Content) != "fresh copy" {
		t.Fatalf("unexpected content %q", a.Content)
	}
	if a.Specs["product"] != "SolarKettle" {
		t.Fatal("specs not echoed")
	}

	prompt := svc.prompts[0]
	for _, want := range []string{"short", "caption", "SolarKettle", "campers", "playful"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt %q missing %q", prompt, want)
		}
	}
}

func TestTextGenerateServiceFailure(t *testing.T) {
	cap := NewText(&stubTextService{err: errors.New("quota exhausted")})

	if _, err := cap.Generate(context.Background(), map[string]string{"type": "text"}); err == nil {
		t.Fatal("expected error from failing service")
	}
}

func TestImageAspectRatios(t *testing.T) {
	cap := NewImage("")

	cases := []struct {
		aspect string
		w, h   int
	}{
		{"1:1", 1080, 1080},
		{"16:9", 1280, 720},
		{"9:16", 720, 1280},
		{"", 1080, 1080},
		{"4:3", 1080, 1080}, // unknown falls back to square
	}

	for _, tc := range cases {
		a, err := cap.Generate(context.Background(), map[string]string{
			"type":         model.AssetImage,
			"aspect_ratio": tc.aspect,
			"product":      "X",
			"target_demo":  "Y",
		})
		if err != nil {
			t.Fatalf("Generate(%q): %v", tc.aspect, err)
		}
		if a.MIMEType != "image/jpeg" {
			t.Fatalf("unexpected mime %s", a.MIMEType)
		}

		img, err := imaging.Decode(bytes.NewReader(a.Content))
		if err != nil {
			t.Fatalf("decode generated image: %v", err)
		}
		b := img.Bounds()
		if b.Dx() != tc.w || b.Dy() != tc.h {
			t.Fatalf("aspect %q: got %dx%d, want %dx%d", tc.aspect, b.Dx(), b.Dy(), tc.w, tc.h)
		}
	}
}

func TestVideoFrameCount(t *testing.T) {
	cap := NewVideo("")

	a, err := cap.Generate(context.Background(), map[string]string{
		"type":     model.AssetVideo,
		"duration": "1",
		"product":  "X",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	anim, err := gif.DecodeAll(bytes.NewReader(a.Content))
	if err != nil {
		t.Fatalf("decode generated video: %v", err)
	}
	if len(anim.Image) != videoFPS {
		t.Fatalf("1s clip should have %d frames, got %d", videoFPS, len(anim.Image))
	}
	if b := anim.Image[0].Bounds(); b.Dx() != videoWidth || b.Dy() != videoHeight {
		t.Fatalf("unexpected frame size %dx%d", b.Dx(), b.Dy())
	}
}

func TestVideoInvalidDuration(t *testing.T) {
	cap := NewVideo("")

	for _, d := range []string{"0", "-3", "abc", "9999"} {
		if _, err := cap.Generate(context.Background(), map[string]string{"duration": d}); err == nil {
			t.Fatalf("expected error for duration %q", d)
		}
	}
}

func TestAudioGenerate(t *testing.T) {
	cap := NewAudio()

	a, err := cap.Generate(context.Background(), map[string]string{
		"type":   model.AssetAudio,
		"script": "hello campers",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if a.MIMEType != "audio/wav" {
		t.Fatalf("unexpected mime %s", a.MIMEType)
	}
	if len(a.Content) <= 44 {
		t.Fatalf("wav too small: %d bytes", len(a.Content))
	}
	if string(a.Content[0:4]) != "RIFF" || string(a.Content[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE header")
	}
}

func TestAudioDefaultScript(t *testing.T) {
	cap := NewAudio()

	a, err := cap.Generate(context.Background(), map[string]string{
		"product":     "SolarKettle",
		"target_demo": "campers",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(a.Content) <= 44 {
		t.Fatal("default script produced no audio")
	}
}
