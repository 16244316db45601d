package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"alfredoptarigan/ats-resume-expert/internal/config"
	"alfredoptarigan/ats-resume-expert/internal/handlers"
	"alfredoptarigan/ats-resume-expert/internal/services"
)

var (
	envFile string
	port    string
)

var rootCmd = &cobra.Command{
	Use:   "ats",
	Short: "ATS Resume Expert",
	Long:  "Serves a page that scores an uploaded resume against a job description with Google Gemini.",
	RunE:  runServe,
}

func init() {
	rootCmd.Flags().StringVar(&envFile, "env-file", "", "path to an env file (default: ./.env)")
	rootCmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	if envFile != "" {
		cfg = config.Load(envFile)
	} else {
		cfg = config.Load()
	}
	if port != "" {
		cfg.Server.Port = port
	}
	log.Println("✅ Config loaded successfully")

	ctx := context.Background()

	// Initialize services
	pdfParser := services.NewPDFParserService()
	extractor := services.NewPageExtractor(cfg.Render.DPI, cfg.Render.JPEGQuality)
	storageService := services.NewStorageService(services.NewSessionStore(cfg.Session), pdfParser)
	log.Println("✅ Services initialized successfully")

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return fmt.Errorf("failed to initialize Gemini AI: %w", err)
	}
	log.Printf("✅ Gemini AI initialized (model %s)\n", cfg.Gemini.Model)

	evaluatorService := services.NewEvaluatorService(extractor, geminiService)
	pageHandler := handlers.NewPageHandler(storageService, evaluatorService)
	app := handlers.NewApp(cfg, pageHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
