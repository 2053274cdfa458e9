// Package hexio round-trips text through hex-encoded files.
package hexio

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// Encode returns the hex representation of the text's bytes.
func Encode(text string) string {
	return hex.EncodeToString([]byte(text))
}

// Decode converts a hex string back to text. Surrounding whitespace is
// tolerated; anything else is a decode failure.
func Decode(hexData string) (string, error) {
	data, err := hex.DecodeString(strings.TrimSpace(hexData))
	if err != nil {
		return "", fmt.Errorf("not valid hex: %w", err)
	}
	return string(data), nil
}

// EncodeToFile writes the hex encoding of text to path and reports the
// resulting file size in bytes.
func EncodeToFile(text, path string) (int64, error) {
	if err := os.WriteFile(path, []byte(Encode(text)), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write hex file %s: %v", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat hex file %s: %v", path, err)
	}
	return info.Size(), nil
}

// DecodeFile reads a hex file written by EncodeToFile and recovers the text.
func DecodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read hex file %s: %v", path, err)
	}
	text, err := Decode(string(data))
	if err != nil {
		return "", fmt.Errorf("hex file %s: %w", path, err)
	}
	return text, nil
}
