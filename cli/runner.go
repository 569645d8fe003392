package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/richinex/snapgen/config"
	"github.com/richinex/snapgen/llm"
	"github.com/richinex/snapgen/orchestration"
	"github.com/richinex/snapgen/storage"
)

// Options holds CLI execution options.
type Options struct {
	Model       string
	Tone        string
	ImagePath   string
	OutputPath  string
	Search      bool
	Interactive bool
	Verbose     bool
}

// App bundles the long-lived pieces a snapgen process needs: settings, the
// preference store, the cancel registry, and the orchestrator.
type App struct {
	settings     config.Settings
	prefs        *storage.PrefStore
	registry     *orchestration.InteractiveRequestRegistry
	orchestrator *orchestration.Orchestrator
}

// NewApp loads settings, opens the preference store, and builds the
// orchestrator. An unopenable preference store degrades to
// environment-only credentials rather than failing.
func NewApp() (*App, error) {
	settings, err := config.New()
	if err != nil {
		return nil, err
	}

	prefs, err := storage.OpenPrefs(settings.PrefsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: preferences unavailable: %v\n", err)
		prefs = nil
	}

	var reader config.PreferenceReader
	if prefs != nil {
		reader = prefs
	}
	registry := orchestration.NewInteractiveRequestRegistry()

	return &App{
		settings:     settings,
		prefs:        prefs,
		registry:     registry,
		orchestrator: orchestration.New(config.NewCredentialStore(reader), registry),
	}, nil
}

// Close releases the preference store.
func (a *App) Close() {
	if a.prefs != nil {
		a.prefs.Close()
	}
}

// Ask runs one generation: tone applied, image attached, SIGINT wired to
// the cancel registry, result printed.
func (a *App) Ask(ctx context.Context, prompt string, opts Options) error {
	prompt, err := ApplyTone(a.resolveTone(ctx, opts.Tone), prompt)
	if err != nil {
		return err
	}

	var image *llm.ImageInput
	if opts.ImagePath != "" {
		image, err = LoadImage(opts.ImagePath)
		if err != nil {
			return err
		}
	}

	urgency := llm.UrgencyBackground
	if opts.Interactive {
		urgency = llm.UrgencyInteractive
	}

	temperature := a.settings.Generation.Temperature
	req := llm.GenerationRequest{
		Prompt:       prompt,
		Image:        image,
		Model:        a.resolveModel(ctx, opts.Model),
		UseWebSearch: opts.Search,
		Urgency:      urgency,
		Config: llm.GenerationConfig{
			Temperature:     &temperature,
			MaxOutputTokens: a.settings.Generation.MaxOutputTokens,
		},
	}

	// SIGINT goes through the registry so the orchestrator can report a
	// user cancel instead of a timeout.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)
	go func() {
		for range interrupts {
			if opts.Verbose {
				fmt.Fprintln(os.Stderr, "Cancelling...")
			}
			a.registry.Cancel(false)
		}
	}()

	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "Generating with model %s (%s)...\n", llm.BareModel(req.Model), urgency)
	}

	result, err := a.orchestrator.Generate(ctx, req)
	if err != nil {
		return errors.New(orchestration.UserErrorMessage(err))
	}
	return a.printResult(result, opts)
}

// printResult renders a completed generation: text and sources to stdout,
// image bytes to a file.
func (a *App) printResult(result *orchestration.Result, opts Options) error {
	if result.Image != nil {
		path := opts.OutputPath
		if path == "" {
			path = "snapgen-output" + extensionFor(result.Image.MIMEType)
		}
		if err := os.WriteFile(path, result.Image.Data, 0644); err != nil {
			return fmt.Errorf("failed to write image output: %w", err)
		}
		fmt.Printf("Image written to %s\n", path)
		return nil
	}

	fmt.Println(result.Text)
	if len(result.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, source := range result.Sources {
			if source.Title != "" {
				fmt.Printf("  - %s (%s)\n", source.Title, source.URL)
			} else {
				fmt.Printf("  - %s\n", source.URL)
			}
		}
	}
	return nil
}

// resolveModel picks the model: the flag, then the stored preference, then
// the environment default. The orchestrator applies the built-in default
// when everything is unset.
func (a *App) resolveModel(ctx context.Context, flagModel string) string {
	if flagModel != "" {
		return flagModel
	}
	if a.prefs != nil {
		if stored, err := a.prefs.Get(ctx, storage.PrefModel); err == nil && stored != "" {
			return stored
		}
	}
	return a.settings.Generation.Model
}

// resolveTone picks the tone: the flag, then the stored preference.
func (a *App) resolveTone(ctx context.Context, flagTone string) string {
	if flagTone != "" {
		return flagTone
	}
	if a.prefs != nil {
		if stored, err := a.prefs.Get(ctx, storage.PrefTone); err == nil {
			return stored
		}
	}
	return ""
}

// extensionFor maps an image MIME type to a file extension.
func extensionFor(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

// PrefSet stores one preference slot.
func (a *App) PrefSet(ctx context.Context, key, value string) error {
	if a.prefs == nil {
		return errors.New("preference store unavailable")
	}
	if err := a.prefs.Set(ctx, key, value); err != nil {
		return err
	}
	fmt.Printf("%s set\n", key)
	return nil
}

// PrefGet prints one preference slot. Credential slots print masked.
func (a *App) PrefGet(ctx context.Context, key string) error {
	if a.prefs == nil {
		return errors.New("preference store unavailable")
	}
	value, err := a.prefs.Get(ctx, key)
	if err != nil {
		return err
	}
	if value == "" {
		fmt.Printf("%s is unset\n", key)
		return nil
	}
	if isCredentialSlot(key) {
		value = maskCredential(value)
	}
	fmt.Printf("%s = %s\n", key, value)
	return nil
}

// PrefList prints all stored preference keys.
func (a *App) PrefList(ctx context.Context) error {
	if a.prefs == nil {
		return errors.New("preference store unavailable")
	}
	keys, err := a.prefs.Keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Println("No preferences stored")
		return nil
	}
	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}

func isCredentialSlot(key string) bool {
	for _, slot := range storage.APIKeySlots {
		if key == slot {
			return true
		}
	}
	return false
}

// maskCredential keeps only the last four characters visible.
func maskCredential(value string) string {
	if len(value) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}
