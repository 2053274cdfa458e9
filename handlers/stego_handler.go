// Package handlers is made to handle requests
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"imagestego-backend/imaging"
	"imagestego-backend/models"
	"imagestego-backend/stego"
	"imagestego-backend/tts"
)

type StegoHandler struct {
	config  *models.StegoConfig
	speaker tts.Speaker
}

// NewStegoHandler builds the handler set. speaker may be nil when no
// text-to-speech engine is available; extraction then skips playback.
func NewStegoHandler(config *models.StegoConfig, speaker tts.Speaker) *StegoHandler {
	if config == nil {
		config = models.NewStegoConfig()
	}
	return &StegoHandler{
		config:  config,
		speaker: speaker,
	}
}

func (h *StegoHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Image steganography API is running",
		"version": "1.0.0",
	})
}

// EmbedMessage hides a text message in an uploaded carrier image and
// streams the stego image back.
func (h *StegoHandler) EmbedMessage(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil { // 32MB limit
		c.JSON(http.StatusBadRequest, models.EmbedResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to parse form: %v", err),
		})
		return
	}

	message := c.PostForm("message")
	if message == "" {
		c.JSON(http.StatusBadRequest, models.EmbedResponse{
			Success: false,
			Message: "Message is required",
		})
		return
	}

	outputFormat := c.PostForm("output_format")
	if outputFormat == "" {
		outputFormat = "png"
	}
	if outputFormat != "png" && outputFormat != "bmp" {
		c.JSON(http.StatusBadRequest, models.EmbedResponse{
			Success: false,
			Message: "Output format must be png or bmp (lossless only)",
		})
		return
	}

	imageFile, imageHeader, err := c.Request.FormFile("image_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.EmbedResponse{
			Success: false,
			Message: "Carrier image file is required",
		})
		return
	}
	defer imageFile.Close()

	if !isValidImageFile(imageHeader.Filename) {
		c.JSON(http.StatusBadRequest, models.EmbedResponse{
			Success: false,
			Message: "Invalid image file format. Only PNG, BMP and JPEG carriers are supported",
		})
		return
	}

	carrier, err := imaging.Decode(imageFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.EmbedResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to decode carrier image: %v", err),
		})
		return
	}

	codec := stego.NewLSBSteganography(h.requestConfig(c))

	required := codec.RequiredBits(len(message))
	if required > carrier.CapacityBits() {
		c.JSON(http.StatusBadRequest, models.EmbedResponse{
			Success:      false,
			Message:      fmt.Sprintf("Message too large for carrier. Required: %d bits, available: %d bits", required, carrier.CapacityBits()),
			BitsEmbedded: required,
			CapacityBits: carrier.CapacityBits(),
		})
		return
	}

	stegoSamples, err := codec.Embed(carrier.Samples, []byte(message))
	if err != nil {
		var capErr *stego.CapacityError
		if errors.As(err, &capErr) {
			c.JSON(http.StatusBadRequest, models.EmbedResponse{
				Success:      false,
				Message:      capErr.Error(),
				BitsEmbedded: capErr.RequiredBits,
				CapacityBits: capErr.AvailableBits,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.EmbedResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to embed message: %v", err),
		})
		return
	}

	stegoCarrier, err := carrier.WithSamples(stegoSamples)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.EmbedResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to build stego image: %v", err),
		})
		return
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, stegoCarrier, outputFormat); err != nil {
		c.JSON(http.StatusInternalServerError, models.EmbedResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to encode stego image: %v", err),
		})
		return
	}

	psnr := imaging.CalculatePSNR(carrier.Samples, stegoSamples)

	baseFilename := strings.TrimSuffix(imageHeader.Filename, filepath.Ext(imageHeader.Filename))
	outputFilename := fmt.Sprintf("%s_stego.%s", baseFilename, outputFormat)

	// Set headers for file download
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputFilename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	// Include metadata about the steganography operation
	c.Header("X-Stego-Method", "Image LSB")
	c.Header("X-Stego-Message", "Message successfully embedded in image LSBs")
	c.Header("X-Stego-Bits", fmt.Sprintf("%d", required))
	c.Header("X-Stego-Capacity", fmt.Sprintf("%d", carrier.CapacityBits()))
	c.Header("X-Stego-PSNR", fmt.Sprintf("%.2f", psnr))

	c.Data(http.StatusOK, contentTypeFor(outputFormat), buf.Bytes())
}

// ExtractMessage recovers a hidden message from an uploaded stego image,
// optionally speaking it aloud.
func (h *StegoHandler) ExtractMessage(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil { // 32MB limit
		c.JSON(http.StatusBadRequest, models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to parse form: %v", err),
		})
		return
	}

	speak := c.PostForm("speak") == "true"

	stegoFile, stegoHeader, err := c.Request.FormFile("image_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ExtractResponse{
			Success: false,
			Message: "Stego image file is required",
		})
		return
	}
	defer stegoFile.Close()

	if !isValidImageFile(stegoHeader.Filename) {
		c.JSON(http.StatusBadRequest, models.ExtractResponse{
			Success: false,
			Message: "Invalid image file format. Only PNG, BMP and JPEG files are supported",
		})
		return
	}

	carrier, err := imaging.Decode(stegoFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to decode stego image: %v", err),
		})
		return
	}

	codec := stego.NewLSBSteganography(h.requestConfig(c))

	recovered, err := codec.Extract(carrier.Samples)
	if err != nil {
		if errors.Is(err, stego.ErrNoHiddenData) {
			c.JSON(http.StatusNotFound, models.ExtractResponse{
				Success: false,
				Message: "No hidden data found. Possible causes: (1) The image contains no embedded message, (2) A different delimiter was used when embedding, (3) The image was recompressed or resized after embedding.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to extract message: %v", err),
		})
		return
	}

	message := string(recovered)

	spoken := false
	if speak && h.speaker != nil {
		spokenText := message
		if spokenText == "" {
			spokenText = "No hidden message found"
		}
		// Playback is best-effort; a broken audio setup never fails the
		// extraction itself.
		if err := h.speaker.Speak(c.Request.Context(), spokenText); err == nil {
			spoken = true
		}
	}

	c.JSON(http.StatusOK, models.ExtractResponse{
		Success:    true,
		Message:    fmt.Sprintf("Extracted %d characters of hidden text", len(message)),
		HiddenText: message,
		Spoken:     spoken,
	})
}

// InspectImage reports carrier geometry and capacity for an uploaded image.
func (h *StegoHandler) InspectImage(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil { // 32MB limit
		c.JSON(http.StatusBadRequest, models.InspectResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to parse form: %v", err),
		})
		return
	}

	imageFile, imageHeader, err := c.Request.FormFile("image_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.InspectResponse{
			Success: false,
			Message: "Image file is required",
		})
		return
	}
	defer imageFile.Close()

	if !isValidImageFile(imageHeader.Filename) {
		c.JSON(http.StatusBadRequest, models.InspectResponse{
			Success: false,
			Message: "Invalid image file format. Only PNG, BMP and JPEG files are supported",
		})
		return
	}

	carrier, err := imaging.Decode(imageFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.InspectResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to decode image: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, models.InspectResponse{
		Success: true,
		Message: "Image inspected successfully",
		Info:    imaging.Inspect(carrier),
	})
}

// GenerateSample creates a gradient test carrier and streams it as PNG.
func (h *StegoHandler) GenerateSample(c *gin.Context) {
	// An empty body means default dimensions.
	var req models.SampleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": fmt.Sprintf("Invalid request body: %v", err),
		})
		return
	}

	if req.Width < 0 || req.Height < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Width and height must not be negative",
		})
		return
	}

	carrier := imaging.GenerateSample(req.Width, req.Height)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, carrier, "png"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": fmt.Sprintf("Failed to encode sample image: %v", err),
		})
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename=sample_image.png")
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Header("X-Stego-Capacity", fmt.Sprintf("%d", carrier.CapacityBits()))

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// requestConfig derives the codec configuration for one request, letting
// the form override the delimiter and verbosity.
func (h *StegoHandler) requestConfig(c *gin.Context) *models.StegoConfig {
	conf := &models.StegoConfig{
		Delimiter: h.config.Delimiter,
		Verbose:   h.config.Verbose,
	}
	if delimiter := c.PostForm("delimiter"); delimiter != "" {
		conf.Delimiter = delimiter
	}
	if verbose := c.PostForm("verbose"); verbose != "" {
		conf.Verbose = verbose == "true"
	}
	return conf
}

func contentTypeFor(format string) string {
	switch format {
	case "bmp":
		return "image/bmp"
	default:
		return "image/png"
	}
}

func isValidImageFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".bmp", ".jpg", ".jpeg":
		return true
	}
	return false
}
