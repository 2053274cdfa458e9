package imaging

const (
	DefaultSampleWidth  = 800
	DefaultSampleHeight = 600
)

// GenerateSample builds a deterministic RGB gradient carrier for testing
// and demos. Red ramps down the rows, green across the columns, blue along
// the diagonal. Non-positive dimensions fall back to the defaults.
func GenerateSample(width, height int) *Carrier {
	if width <= 0 {
		width = DefaultSampleWidth
	}
	if height <= 0 {
		height = DefaultSampleHeight
	}

	carrier := &Carrier{
		Samples:  make([]byte, width*height*CarrierChannels),
		Width:    width,
		Height:   height,
		Channels: CarrierChannels,
		Format:   "png",
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			base := carrier.SampleIndex(y, x, 0)
			carrier.Samples[base] = byte(255 * y / height)
			carrier.Samples[base+1] = byte(255 * x / width)
			carrier.Samples[base+2] = byte(255 * (x + y) / (width + height))
		}
	}

	return carrier
}

// WriteSample generates a gradient carrier and saves it to path.
func WriteSample(path string, width, height int) (*Carrier, error) {
	carrier := GenerateSample(width, height)
	if err := Save(carrier, path); err != nil {
		return nil, err
	}
	return carrier, nil
}
