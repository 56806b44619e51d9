package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giygas/symptom-advisor/classifier"
	"github.com/giygas/symptom-advisor/config"
	"github.com/giygas/symptom-advisor/data"
	"github.com/giygas/symptom-advisor/handlers"
	"github.com/giygas/symptom-advisor/health"
	"github.com/giygas/symptom-advisor/interfaces"
	"github.com/giygas/symptom-advisor/lexicon"
	"github.com/giygas/symptom-advisor/logging"
	"github.com/giygas/symptom-advisor/pipeline"
	"github.com/giygas/symptom-advisor/registry"
	"github.com/giygas/symptom-advisor/resolver"
	"github.com/giygas/symptom-advisor/scheduler"
	"github.com/giygas/symptom-advisor/server"
	"github.com/giygas/symptom-advisor/speech"
	"github.com/giygas/symptom-advisor/translation"
	"github.com/giygas/symptom-advisor/validation"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read .env file: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.InitLogger(logging.Options{
		Dir:            cfg.LogDir,
		Env:            cfg.Env,
		Level:          cfg.LogLevel,
		Verbose:        cfg.LogVerbose,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	})

	err = run(cfg)
	if err != nil {
		logging.Error("Server stopped with error", "error", err)
	}
	if closeErr := logging.Close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "Failed to close log file: %v\n", closeErr)
	}
	if err != nil {
		os.Exit(1)
	}
}

// run builds the service from cfg and serves until a shutdown signal or a
// listener failure.
func run(cfg *config.Config) error {
	lex, err := loadLexicon(cfg.LexiconFile)
	if err != nil {
		return fmt.Errorf("failed to load lexicon %q: %w", cfg.LexiconFile, err)
	}

	translator, err := translation.FromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	symptoms := classifier.New(lex, cfg.MatchThreshold)
	labels := registry.New(cfg.RegistryBaseURL, cfg.RegistryTimeout, lex)
	runner := pipeline.New(translator, symptoms, resolver.New(lex), labels)

	var recognizer interfaces.SpeechRecognizer
	if cfg.SpeechURL != "" {
		recognizer = speech.New(cfg.SpeechURL, cfg.SpeechTimeout)
	}

	logging.Info("Configuration loaded",
		"env", cfg.Env,
		"address", cfg.Address,
		"port", cfg.Port,
		"translator", translator.Name(),
		"voice_enabled", recognizer != nil,
		"registry", cfg.RegistryBaseURL,
		"match_threshold", symptoms.Threshold(),
		"symptoms", len(lex.Symptoms()),
	)

	status := data.NewStatusContainer()
	status.SetServerStartTime(time.Now())

	checker := health.NewHealthChecker(status, lex, health.Options{
		ProbeInterval: cfg.RegistryProbeInterval,
		Translator:    translator.Name(),
		VoiceEnabled:  recognizer != nil,
	})

	probes := scheduler.NewScheduler(status, labels, cfg.RegistryProbeInterval, cfg.RegistryTimeout)
	if err := probes.Start(); err != nil {
		return fmt.Errorf("failed to start registry probe: %w", err)
	}
	defer probes.Stop()

	handler := handlers.NewHTTPHandler(
		runner,
		lex,
		validation.NewInputValidator(int(cfg.MaxRequestBody)),
		recognizer,
		checker,
		status,
		cfg.MaxRequestBody,
	)
	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case sig := <-quit:
		logging.Info("Received shutdown signal", "signal", sig.String())
	case runErr = <-serverErr:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return errors.Join(runErr, fmt.Errorf("server shutdown failed: %w", err))
	}
	return runErr
}

// loadLexicon reads the lexicon file, or returns the built-in tables when no
// file is configured.
func loadLexicon(path string) (*lexicon.Lexicon, error) {
	if path == "" {
		return lexicon.Default(), nil
	}
	return lexicon.Load(path)
}
