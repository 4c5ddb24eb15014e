package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/cardsight/cardsight/internal/extraction"
	"github.com/cardsight/cardsight/internal/statement"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	fs := ff.NewFlagSet("cardsight")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		dbPath      = fs.StringLong("db", "cardsight.db", "Database file path")
		backend     = fs.StringLong("backend", "groq", "Model backend: 'groq' or 'gemini'")
		groqKey     = fs.StringLong("groq-key", "", "Groq API key (or set GROQ_API_KEY env var)")
		groqModel   = fs.StringLong("groq-model", "llama-3.1-8b-instant", "Groq model name")
		geminiKey   = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		tesseract   = fs.StringLong("tesseract", "tesseract", "Tesseract binary path")
		ocrLang     = fs.StringLong("ocr-lang", "eng", "Tesseract language")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("CARDSIGHT"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Initialize database
	slog.Info("Initializing database...")
	db, err := statement.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize model backend
	var completer extraction.Completer
	switch *backend {
	case "groq":
		apiKey := *groqKey
		if apiKey == "" {
			apiKey = os.Getenv("GROQ_API_KEY")
		}
		slog.Info("Initializing Groq backend...", "model", *groqModel)
		completer, err = extraction.NewGroq(apiKey, *groqModel)
		if err != nil {
			slog.Error("Failed to initialize Groq", "error", err)
			os.Exit(1)
		}
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini backend...", "model", *geminiModel)
		completer, err = extraction.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid model backend", "backend", *backend, "valid", "groq or gemini")
		os.Exit(1)
	}
	defer completer.Close()

	// Wire the extraction pipeline
	recognizer := extraction.NewTesseract(*tesseract, *ocrLang)
	extractor := extraction.NewTextExtractor(recognizer)
	parser := extraction.NewParser(extractor, completer)

	// Initialize service and server
	service := statement.NewService(db, parser)
	basicAuth := statement.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := statement.NewServer(service, basicAuth)

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
