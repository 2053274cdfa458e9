package imaging

import (
	"imagestego-backend/models"
)

// Inspect reports geometry and steganographic capacity for a carrier.
// MaxCharacters is the whole-carrier byte capacity; the delimiter still has
// to fit inside it, so the usable message length is slightly smaller.
func Inspect(c *Carrier) *models.ImageInfo {
	capacityBits := c.CapacityBits()
	return &models.ImageInfo{
		Width:         c.Width,
		Height:        c.Height,
		Channels:      c.Channels,
		Format:        c.Format,
		TotalPixels:   c.Width * c.Height,
		CapacityBits:  capacityBits,
		MaxCharacters: capacityBits / BitsInByte,
	}
}

// InspectFile loads the image at path and inspects it.
func InspectFile(path string) (*models.ImageInfo, error) {
	carrier, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Inspect(carrier), nil
}
