// Package tts provides text-to-speech playback for extracted messages.
// The codec never owns a speaker; callers construct one and inject it.
package tts

import (
	"context"
)

// Audio is raw synthesized voice.
type Audio struct {
	Data   []byte
	Format string // e.g. "wav"
}

// Speaker plays text out loud.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Synthesizer converts text (or a notification cue) to Audio without
// playing it.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*Audio, error)
}
