package tts

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/go-audio/wav"
)

const (
	DefaultVoice          = "en"
	DefaultWordsPerMinute = 150
)

// EspeakEngine speaks through the espeak command-line synthesizer. It
// implements both Speaker (direct playback) and Synthesizer (WAV capture).
type EspeakEngine struct {
	Voice          string
	WordsPerMinute int
}

func NewEspeakEngine() *EspeakEngine {
	return &EspeakEngine{
		Voice:          DefaultVoice,
		WordsPerMinute: DefaultWordsPerMinute,
	}
}

// CheckAvailability verifies that the espeak binary is installed and
// accessible.
func CheckAvailability() error {
	_, err := exec.LookPath("espeak")
	return err
}

// Speak plays the text through the system audio device.
func (e *EspeakEngine) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	cmd := exec.CommandContext(ctx, "espeak",
		"-v", e.Voice,
		"-s", fmt.Sprintf("%d", e.WordsPerMinute),
		text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to speak text (espeak not installed?): %v", err)
	}
	return nil
}

// Synthesize renders the text to WAV via a temporary file and validates the
// result with the WAV decoder before returning it.
func (e *EspeakEngine) Synthesize(ctx context.Context, text string) (*Audio, error) {
	tempWAV, err := os.CreateTemp("", "speech_*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary WAV file: %v", err)
	}
	defer os.Remove(tempWAV.Name())
	tempWAV.Close()

	cmd := exec.CommandContext(ctx, "espeak",
		"-v", e.Voice,
		"-s", fmt.Sprintf("%d", e.WordsPerMinute),
		"-w", tempWAV.Name(),
		text)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to synthesize speech (espeak not installed?): %v", err)
	}

	f, err := os.Open(tempWAV.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to open synthesized WAV: %v", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("espeak produced an invalid WAV file")
	}

	data, err := os.ReadFile(tempWAV.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesized WAV: %v", err)
	}

	return &Audio{Data: data, Format: "wav"}, nil
}
