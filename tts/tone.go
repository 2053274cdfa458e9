package tts

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	toneSampleRate = 16000
	toneFrequency  = 880.0
	toneBitDepth   = 16
)

// ToneSpeaker is the Speaker used when no speech engine is installed: it
// renders the notification beep from a Synthesizer and plays it through a
// command-line audio player.
type ToneSpeaker struct {
	Synth  Synthesizer
	Player func(ctx context.Context, wavPath string) error
}

func NewToneSpeaker() *ToneSpeaker {
	return &ToneSpeaker{
		Synth:  NewToneSynthesizer(),
		Player: playWAV,
	}
}

// Speak synthesizes the cue audio to a temporary WAV file and hands it to
// the player.
func (t *ToneSpeaker) Speak(ctx context.Context, text string) error {
	cue, err := t.Synth.Synthesize(ctx, text)
	if err != nil {
		return err
	}

	tempWAV, err := os.CreateTemp("", "cue_*.wav")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %v", err)
	}
	defer os.Remove(tempWAV.Name())

	if _, err := tempWAV.Write(cue.Data); err != nil {
		tempWAV.Close()
		return fmt.Errorf("failed to write cue WAV: %v", err)
	}
	tempWAV.Close()

	return t.Player(ctx, tempWAV.Name())
}

func playWAV(ctx context.Context, wavPath string) error {
	cmd := exec.CommandContext(ctx, "aplay", "-q", wavPath)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to play WAV (aplay not installed?): %v", err)
	}
	return nil
}

// ToneSynthesizer is the fallback engine used when no speech synthesizer is
// installed: it renders a short notification beep instead of spoken words,
// scaled a little with the text length so long messages are audible as such.
type ToneSynthesizer struct{}

func NewToneSynthesizer() *ToneSynthesizer {
	return &ToneSynthesizer{}
}

func (t *ToneSynthesizer) Synthesize(ctx context.Context, text string) (*Audio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 200ms base beep plus 10ms per character, capped at 2s.
	durationMs := 200 + 10*len(text)
	if durationMs > 2000 {
		durationMs = 2000
	}
	sampleCount := toneSampleRate * durationMs / 1000

	samples := make([]int, sampleCount)
	for i := range samples {
		v := math.Sin(2 * math.Pi * toneFrequency * float64(i) / toneSampleRate)
		samples[i] = int(v * 0.4 * float64(math.MaxInt16))
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  toneSampleRate,
		},
		Data:           samples,
		SourceBitDepth: toneBitDepth,
	}

	// wav.NewEncoder needs a WriteSeeker, so encode through a temp file.
	tempFile, err := os.CreateTemp("", "tone_*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %v", err)
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	encoder := wav.NewEncoder(tempFile, toneSampleRate, toneBitDepth, 1, 1)
	if err := encoder.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to encode WAV: %v", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to close WAV encoder: %v", err)
	}

	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind WAV file: %v", err)
	}
	data, err := io.ReadAll(tempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read WAV data: %v", err)
	}

	return &Audio{Data: data, Format: "wav"}, nil
}
