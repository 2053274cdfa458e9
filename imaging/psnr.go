// psnr.go measures embedding distortion between original and stego samples
package imaging

import (
	"math"
)

func CalculatePSNR(original, stego []byte) float64 {
	if len(original) != len(stego) {
		return 0.0
	}

	if len(original) == 0 {
		return 0.0
	}

	var mse float64
	for i := range original {
		diff := float64(original[i]) - float64(stego[i])
		mse += diff * diff
	}
	mse /= float64(len(original))

	// If MSE is 0, the images are identical
	if mse == 0 {
		return math.Inf(1)
	}

	// PSNR = 20 * log10(MAX_SIGNAL_VALUE / sqrt(MSE))
	// For 8-bit channel samples, MAX_SIGNAL_VALUE = 255
	maxSignalValue := 255.0
	psnr := 20 * math.Log10(maxSignalValue/math.Sqrt(mse))

	return psnr
}

// ValidatePSNR reports whether the distortion stays above the given
// quality threshold in dB.
func ValidatePSNR(psnr float64, threshold float64) bool {
	if math.IsInf(psnr, 1) {
		return true
	}
	return psnr >= threshold
}
