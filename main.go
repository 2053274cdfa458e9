package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"imagestego-backend/config"
	"imagestego-backend/handlers"
	"imagestego-backend/tts"
)

func main() {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}
	conf, err := config.LoadOrDefault(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Spoken playback prefers espeak; without it, extraction still signals
	// completion through a notification tone.
	var speaker tts.Speaker
	if conf.TTS.Enabled {
		if err := tts.CheckAvailability(); err != nil {
			log.Printf("Warning: espeak not found, falling back to notification tone playback: %v", err)
			speaker = tts.NewToneSpeaker()
		} else {
			engine := tts.NewEspeakEngine()
			engine.Voice = conf.TTS.Voice
			engine.WordsPerMinute = conf.TTS.WordsPerMinute
			speaker = engine
			log.Printf("✓ espeak found and ready for spoken playback")
		}
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = conf.Server.AllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.ExposeHeaders = []string{"X-Stego-PSNR", "X-Stego-Capacity", "X-Stego-Bits", "X-Stego-Message", "Content-Disposition"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	stegoHandler := handlers.NewStegoHandler(conf.StegoConfig(), speaker)

	// API Routes
	api := router.Group("/api/v1")
	{
		api.GET("/health", stegoHandler.HealthCheck)

		stego := api.Group("/stego")
		{
			stego.POST("/embed", stegoHandler.EmbedMessage)
			stego.POST("/extract", stegoHandler.ExtractMessage)
			stego.POST("/inspect", stegoHandler.InspectImage)
			stego.POST("/sample", stegoHandler.GenerateSample)
		}
	}

	port := conf.Server.Port

	log.Printf("Server starting on port %s", port)
	log.Printf("API endpoints:")
	log.Printf("  POST /api/v1/stego/embed   - Hide a text message in an image (returns stego PNG/BMP)")
	log.Printf("  POST /api/v1/stego/extract - Extract a hidden message from an image")
	log.Printf("  POST /api/v1/stego/inspect - Report image dimensions and capacity")
	log.Printf("  POST /api/v1/stego/sample  - Generate a gradient test carrier")
	log.Printf("  GET  /api/v1/health        - Health check")
	log.Printf("")
	log.Printf("Features:")
	log.Printf("  • LSB steganography on RGB channel samples")
	log.Printf("  • Delimiter-framed payloads with configurable sentinel")
	log.Printf("  • Lossless PNG/BMP output (JPEG output refused)")
	log.Printf("  • PSNR quality assessment (returned in X-Stego-PSNR header)")
	log.Printf("  • Optional spoken playback of extracted text via espeak")

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
