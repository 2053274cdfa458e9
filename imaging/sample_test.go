package imaging

import (
	"bytes"
	"testing"
)

func TestGenerateSampleGradient(t *testing.T) {
	carrier := GenerateSample(100, 50)

	if carrier.Width != 100 || carrier.Height != 50 {
		t.Fatalf("wrong dimensions: %dx%d", carrier.Width, carrier.Height)
	}
	if carrier.CapacityBits() != 100*50*3 {
		t.Errorf("wrong capacity: %d", carrier.CapacityBits())
	}

	// Spot-check the gradient law at a few coordinates.
	for _, tc := range []struct{ y, x int }{{0, 0}, {25, 50}, {49, 99}} {
		base := carrier.SampleIndex(tc.y, tc.x, 0)
		if got, want := carrier.Samples[base], byte(255*tc.y/50); got != want {
			t.Errorf("red at (%d,%d): got %d, want %d", tc.y, tc.x, got, want)
		}
		if got, want := carrier.Samples[base+1], byte(255*tc.x/100); got != want {
			t.Errorf("green at (%d,%d): got %d, want %d", tc.y, tc.x, got, want)
		}
		if got, want := carrier.Samples[base+2], byte(255*(tc.x+tc.y)/150); got != want {
			t.Errorf("blue at (%d,%d): got %d, want %d", tc.y, tc.x, got, want)
		}
	}
}

func TestGenerateSampleDeterministic(t *testing.T) {
	a := GenerateSample(64, 48)
	b := GenerateSample(64, 48)
	if !bytes.Equal(a.Samples, b.Samples) {
		t.Errorf("sample generation is not deterministic")
	}
}

func TestGenerateSampleDefaults(t *testing.T) {
	carrier := GenerateSample(0, -5)
	if carrier.Width != DefaultSampleWidth || carrier.Height != DefaultSampleHeight {
		t.Errorf("defaults not applied: %dx%d", carrier.Width, carrier.Height)
	}
}
