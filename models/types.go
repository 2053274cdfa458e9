// Package models contain needed models
package models

// DefaultDelimiter marks the end of the hidden payload inside a carrier.
const DefaultDelimiter = "###END_OF_HIDDEN_DATA###"

// EmbedRequest represents the request for hiding a message in an image
type EmbedRequest struct {
	Message   string `json:"message" binding:"required"`
	Delimiter string `json:"delimiter"`
	Verbose   bool   `json:"verbose"`
}

// EmbedResponse represents the response after embedding
type EmbedResponse struct {
	Success      bool    `json:"success"`
	Message      string  `json:"message"`
	BitsEmbedded int     `json:"bits_embedded,omitempty"`
	CapacityBits int     `json:"capacity_bits,omitempty"`
	PSNR         float64 `json:"psnr,omitempty"`
}

// ExtractResponse represents the response after extraction
type ExtractResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	HiddenText string `json:"hidden_text,omitempty"`
	Spoken     bool   `json:"spoken,omitempty"`
}

// SampleRequest represents the request for generating a sample carrier image
type SampleRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ImageInfo represents metadata and capacity figures for a carrier image
type ImageInfo struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Channels      int    `json:"channels"`
	Format        string `json:"format"`
	TotalPixels   int    `json:"total_pixels"`
	CapacityBits  int    `json:"capacity_bits"`
	MaxCharacters int    `json:"max_characters"`
}

// InspectResponse represents the response of a carrier inspection
type InspectResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Info    *ImageInfo `json:"info,omitempty"`
}

// StegoConfig represents configuration for steganography operations
type StegoConfig struct {
	Delimiter string
	Verbose   bool
}

// NewStegoConfig returns a StegoConfig with the default delimiter.
func NewStegoConfig() *StegoConfig {
	return &StegoConfig{Delimiter: DefaultDelimiter}
}
