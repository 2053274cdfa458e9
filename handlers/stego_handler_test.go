package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"imagestego-backend/imaging"
	"imagestego-backend/models"
	"imagestego-backend/tts"
)

// recordingSpeaker captures spoken text instead of producing audio.
type recordingSpeaker struct {
	spoken []string
}

func (r *recordingSpeaker) Speak(_ context.Context, text string) error {
	r.spoken = append(r.spoken, text)
	return nil
}

func newTestRouter(speaker tts.Speaker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewStegoHandler(models.NewStegoConfig(), speaker)

	api := router.Group("/api/v1")
	api.GET("/health", h.HealthCheck)
	st := api.Group("/stego")
	st.POST("/embed", h.EmbedMessage)
	st.POST("/extract", h.ExtractMessage)
	st.POST("/inspect", h.InspectImage)
	st.POST("/sample", h.GenerateSample)
	return router
}

func samplePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.GenerateSample(width, height), "png"))
	return buf.Bytes()
}

func multipartBody(t *testing.T, fileField, filename string, fileData []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if fileData != nil {
		part, err := writer.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "healthy")
}

func TestEmbedExtractRoundTrip(t *testing.T) {
	speaker := &recordingSpeaker{}
	router := newTestRouter(speaker)

	body, contentType := multipartBody(t, "image_file", "carrier.png", samplePNG(t, 40, 30), map[string]string{
		"message": "HELLO",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stego/embed", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "image/png", w.Header().Get("Content-Type"))
	require.NotEmpty(t, w.Header().Get("X-Stego-PSNR"))
	require.Equal(t, "3600", w.Header().Get("X-Stego-Capacity")) // 40*30*3
	require.Contains(t, w.Header().Get("Content-Disposition"), "carrier_stego.png")

	stegoImage := w.Body.Bytes()

	body, contentType = multipartBody(t, "image_file", "stego.png", stegoImage, map[string]string{
		"speak": "true",
	})

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/stego/extract", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "HELLO", resp.HiddenText)
	require.True(t, resp.Spoken)
	require.Equal(t, []string{"HELLO"}, speaker.spoken)
}

func TestExtractSpeaksThroughToneFallback(t *testing.T) {
	// The speaker used when espeak is missing: a ToneSpeaker with a stub
	// player in place of aplay.
	played := false
	fallback := &tts.ToneSpeaker{
		Synth: tts.NewToneSynthesizer(),
		Player: func(context.Context, string) error {
			played = true
			return nil
		},
	}
	router := newTestRouter(fallback)

	body, contentType := multipartBody(t, "image_file", "carrier.png", samplePNG(t, 40, 30), map[string]string{
		"message": "fallback",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stego/embed", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body, contentType = multipartBody(t, "image_file", "stego.png", w.Body.Bytes(), map[string]string{
		"speak": "true",
	})

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/stego/extract", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "fallback", resp.HiddenText)
	require.True(t, resp.Spoken)
	require.True(t, played)
}

func TestEmbedRequiresMessage(t *testing.T) {
	router := newTestRouter(nil)

	body, contentType := multipartBody(t, "image_file", "carrier.png", samplePNG(t, 10, 10), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stego/embed", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmbedCapacityExceeded(t *testing.T) {
	router := newTestRouter(nil)

	long := bytes.Repeat([]byte("x"), 200) // needs far more than 2x2x3 bits
	body, contentType := multipartBody(t, "image_file", "tiny.png", samplePNG(t, 2, 2), map[string]string{
		"message": string(long),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stego/embed", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.EmbedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Equal(t, 12, resp.CapacityBits)
	require.Contains(t, resp.Message, "available: 12 bits")
}

func TestEmbedRejectsLossyOutputFormat(t *testing.T) {
	router := newTestRouter(nil)

	body, contentType := multipartBody(t, "image_file", "carrier.png", samplePNG(t, 10, 10), map[string]string{
		"message":       "hi",
		"output_format": "jpg",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stego/embed", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "lossless")
}

func TestExtractNoHiddenData(t *testing.T) {
	router := newTestRouter(nil)

	// A freshly generated gradient has never been embedded.
	body, contentType := multipartBody(t, "image_file", "clean.png", samplePNG(t, 40, 30), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stego/extract", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp models.ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Contains(t, resp.Message, "No hidden data found")
}

func TestExtractWithCustomDelimiter(t *testing.T) {
	router := newTestRouter(nil)

	body, contentType := multipartBody(t, "image_file", "carrier.png", samplePNG(t, 40, 30), map[string]string{
		"message":   "custom",
		"delimiter": "###END###",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stego/embed", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Extracting with the default delimiter must not find the message.
	body, contentType = multipartBody(t, "image_file", "stego.png", w.Body.Bytes(), nil)
	w2 := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/stego/extract", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w2, req)
	require.Equal(t, http.StatusNotFound, w2.Code)
}

func TestInspectImage(t *testing.T) {
	router := newTestRouter(nil)

	body, contentType := multipartBody(t, "image_file", "carrier.png", samplePNG(t, 10, 10), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stego/inspect", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.InspectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.Info)
	require.Equal(t, 10, resp.Info.Width)
	require.Equal(t, 3, resp.Info.Channels)
	require.Equal(t, 300, resp.Info.CapacityBits)
	require.Equal(t, 37, resp.Info.MaxCharacters)
}

func TestGenerateSample(t *testing.T) {
	router := newTestRouter(nil)

	payload, err := json.Marshal(models.SampleRequest{Width: 32, Height: 24})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stego/sample", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "2304", w.Header().Get("X-Stego-Capacity")) // 32*24*3

	carrier, err := imaging.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 32, carrier.Width)
	require.Equal(t, 24, carrier.Height)
}

func TestEmbedRejectsNonImageExtension(t *testing.T) {
	router := newTestRouter(nil)

	body, contentType := multipartBody(t, "image_file", "payload.txt", []byte("nope"), map[string]string{
		"message": "hi",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stego/embed", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
