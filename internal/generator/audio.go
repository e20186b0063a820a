package generator

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"os"
	"strings"
	"time"

	"github.com/cgartco6/asset-engine/internal/model"
)

const (
	audioSampleRate = 16000
	audioBitDepth   = 16

	wordToneSeconds    = 0.18
	wordSilenceSeconds = 0.06
)

// AudioCapability synthesizes spoken-word placeholder audio: one tone burst
// per script word, pitched by the word itself, written as PCM WAV.
type AudioCapability struct{}

// NewAudio creates the audio capability.
func NewAudio() *AudioCapability {
	return &AudioCapability{}
}

// Generate synthesizes the script (or a default derived from product and
// target demographic), writing through an intermediate file that is deleted
// unconditionally afterward.
func (g *AudioCapability) Generate(ctx context.Context, specs map[string]string) (model.Asset, error) {
	if err := ctx.Err(); err != nil {
		return model.Asset{}, err
	}

	script := specs["script"]
	if script == "" {
		script = defaultScript(specs["product"], specs["target_demo"])
	}

	samples := synthesize(script)

	content, err := writeWAVThroughTempFile(samples)
	if err != nil {
		return model.Asset{}, err
	}

	return model.Asset{
		ID:        model.NewAssetID(model.AssetAudio),
		Type:      model.AssetAudio,
		Content:   content,
		MIMEType:  "audio/wav",
		Specs:     specs,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func defaultScript(product, demo string) string {
	if product == "" {
		product = "our product"
	}
	if demo == "" {
		demo = "you"
	}
	return fmt.Sprintf("Introducing %s. Designed for %s.", product, demo)
}

// synthesize renders one sine burst per word with a short gap between words.
func synthesize(script string) []int16 {
	words := strings.Fields(script)
	toneLen := int(wordToneSeconds * audioSampleRate)
	gapLen := int(wordSilenceSeconds * audioSampleRate)

	samples := make([]int16, 0, len(words)*(toneLen+gapLen))
	for _, word := range words {
		freq := wordPitch(word)
		for i := 0; i < toneLen; i++ {
			t := float64(i) / audioSampleRate
			// Short attack/release ramp to avoid clicks at burst edges.
			env := math.Min(1, math.Min(float64(i), float64(toneLen-i))/float64(toneLen/8+1))
			v := math.Sin(2*math.Pi*freq*t) * env
			samples = append(samples, int16(v*math.MaxInt16*0.6))
		}
		samples = append(samples, make([]int16, gapLen)...)
	}

	return samples
}

// wordPitch maps a word to a stable frequency in the speech band.
func wordPitch(word string) float64 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(word)))
	return 180 + float64(h.Sum32()%240) // 180..420 Hz
}

// writeWAVThroughTempFile encodes samples as 16-bit mono PCM WAV via a
// scratch file that is removed regardless of outcome.
func writeWAVThroughTempFile(samples []int16) ([]byte, error) {
	tmp, err := os.CreateTemp("", "asset-audio-*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create intermediate file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeWAV(tmp, samples); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to encode audio: %w", err)
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

func writeWAV(f *os.File, samples []int16) error {
	dataLen := uint32(len(samples) * 2)
	byteRate := uint32(audioSampleRate * audioBitDepth / 8)

	var header []interface{}
	header = append(header,
		[]byte("RIFF"), uint32(36+dataLen), []byte("WAVE"),
		[]byte("fmt "), uint32(16),
		uint16(1), // PCM
		uint16(1), // mono
		uint32(audioSampleRate), byteRate,
		uint16(audioBitDepth/8), uint16(audioBitDepth),
		[]byte("data"), dataLen,
	)

	for _, v := range header {
		if err := binary.Write(f, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	return binary.Write(f, binary.LittleEndian, samples)
}
