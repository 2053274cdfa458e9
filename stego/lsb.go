// Package stego to implement LSB
package stego

import (
	"bytes"
	"log"

	"imagestego-backend/models"
)

type LSBSteganography struct {
	config *models.StegoConfig
	logger *log.Logger
}

func NewLSBSteganography(config *models.StegoConfig) *LSBSteganography {
	// Copy the injected config: defaulting the delimiter must not write
	// back into the caller's struct.
	conf := models.NewStegoConfig()
	if config != nil {
		conf.Verbose = config.Verbose
		if config.Delimiter != "" {
			conf.Delimiter = config.Delimiter
		}
	}

	return &LSBSteganography{
		config: conf,
		logger: log.Default(),
	}
}

// SetLogger replaces the destination for verbose diagnostics.
func (lsb *LSBSteganography) SetLogger(logger *log.Logger) {
	if logger != nil {
		lsb.logger = logger
	}
}

// Delimiter returns the sentinel appended to every embedded message.
func (lsb *LSBSteganography) Delimiter() string {
	return lsb.config.Delimiter
}

// CalculateCapacity returns the number of payload bits the carrier can
// hold: one bit per channel sample.
func (lsb *LSBSteganography) CalculateCapacity(width, height, channels int) int {
	if width <= 0 || height <= 0 || channels <= 0 {
		return 0
	}
	return width * height * channels
}

// frame appends the delimiter to the message and expands the result to bits.
func (lsb *LSBSteganography) frame(message []byte) []byte {
	framed := make([]byte, 0, len(message)+len(lsb.config.Delimiter))
	framed = append(framed, message...)
	framed = append(framed, lsb.config.Delimiter...)
	return bytesToBits(framed)
}

// RequiredBits returns the framed bit length for a message of the given
// byte length.
func (lsb *LSBSteganography) RequiredBits(messageLen int) int {
	return (messageLen + len(lsb.config.Delimiter)) * 8
}

// Embed writes the framed message into the low-order bit of each successive
// carrier sample and returns the mutated copy. The input slice is never
// modified. The capacity check happens before any allocation or mutation,
// so a failed embed leaves no partial state.
func (lsb *LSBSteganography) Embed(samples []byte, message []byte) ([]byte, error) {
	framedBits := lsb.frame(message)

	if len(framedBits) > len(samples) {
		return nil, &CapacityError{
			RequiredBits:  len(framedBits),
			AvailableBits: len(samples),
		}
	}

	stegoSamples := make([]byte, len(samples))
	copy(stegoSamples, samples)

	for i, bit := range framedBits {
		stegoSamples[i] = (stegoSamples[i] & 0xFE) | bit
	}

	lsb.logf("embedded %d message bytes (%d bits with delimiter) into %d samples",
		len(message), len(framedBits), len(samples))

	return stegoSamples, nil
}

// Extract reads the low-order bit of every sample in order, reassembling
// bytes until the delimiter appears. The scan is incremental: each completed
// byte is compared against the trailing delimiter window, and decoding stops
// at the first match. Bit recovery past the delimiter never happens, so a
// sample that decodes to garbage beyond the message cannot leak into the
// result. Returns ErrNoHiddenData when the whole carrier holds no delimiter.
func (lsb *LSBSteganography) Extract(samples []byte) ([]byte, error) {
	delimiter := []byte(lsb.config.Delimiter)

	recovered := make([]byte, 0, len(samples)/8)
	var current byte
	bitCount := 0

	for _, sample := range samples {
		current = (current << 1) | (sample & 1)
		bitCount++
		if bitCount < 8 {
			continue
		}

		recovered = append(recovered, current)
		current = 0
		bitCount = 0

		if bytes.HasSuffix(recovered, delimiter) {
			message := recovered[:len(recovered)-len(delimiter)]
			lsb.logf("delimiter found after %d bytes, recovered %d message bytes",
				len(recovered), len(message))
			return message, nil
		}
	}

	lsb.logf("scanned %d samples without finding delimiter %q", len(samples), lsb.config.Delimiter)
	return nil, ErrNoHiddenData
}

func (lsb *LSBSteganography) logf(format string, args ...any) {
	if lsb.config.Verbose {
		lsb.logger.Printf(format, args...)
	}
}
