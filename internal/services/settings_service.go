package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/stwalsh4118/estatedesk/internal/ai"
	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/storage"
)

// Probe inputs used to validate a key.
const (
	textProbePrompt  = "سلام"
	imageProbePrompt = "test"
	imageProbePNG    = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="
)

// AIModels are the model names used for each kind of AI call.
type AIModels struct {
	Text  string
	Image string
}

// For returns the model for kind.
func (m AIModels) For(kind models.AIKind) string {
	if kind == models.AIKindImage {
		return m.Image
	}
	return m.Text
}

// SettingsService is the single load/save boundary for the settings
// document.
type SettingsService interface {
	SettingsLoader

	// Save replaces the settings document.
	Save(ctx context.Context, settings models.Settings) error

	// Get returns the effective value of one setting (defaults applied).
	// Returns ErrUnknownSetting for unrecognized keys.
	Get(ctx context.Context, key string) (interface{}, error)

	// Set decodes value into the named setting and saves the document.
	// A JSON null resets the setting to its default.
	Set(ctx context.Context, key string, value json.RawMessage) (models.Settings, error)

	// AIConfig returns the credential to use for kind, or an
	// ErrAINotConfigured error when there is no validated key.
	AIConfig(ctx context.Context, kind models.AIKind) (models.AIKeyConfig, error)

	// ValidateAIKey probes the AI service with apiKey and stores the key
	// together with the outcome. A rejected key is not an error: the
	// returned config carries IsValid=false and a message.
	ValidateAIKey(ctx context.Context, kind models.AIKind, apiKey string) (models.AIKeyConfig, error)
}

type settingsService struct {
	store  storage.Store
	gen    ai.Generator
	models AIModels
	log    *logger.Logger
	mu     sync.Mutex
}

// NewSettingsService creates a new instance of SettingsService.
func NewSettingsService(store storage.Store, gen ai.Generator, aiModels AIModels, log *logger.Logger) SettingsService {
	return &settingsService{
		store:  store,
		gen:    gen,
		models: aiModels,
		log:    log,
	}
}

// Load returns the stored settings. A missing, unreadable or corrupt
// document reads as empty settings.
func (s *settingsService) Load(ctx context.Context) (models.Settings, error) {
	return s.load(ctx), nil
}

func (s *settingsService) load(ctx context.Context) models.Settings {
	var settings models.Settings

	data, found, err := s.store.Get(ctx, storage.KeySettings)
	if err != nil {
		s.log.Warn("Settings unreadable, using defaults", map[string]interface{}{"error": err.Error()})
		return settings
	}
	if !found {
		return settings
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		s.log.Warn("Settings corrupt, using defaults", map[string]interface{}{"error": err.Error()})
		return models.Settings{}
	}
	return settings
}

func (s *settingsService) save(ctx context.Context, settings models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("%w: settings: %v", ErrStorage, err)
	}
	if err := s.store.Set(ctx, storage.KeySettings, data); err != nil {
		s.log.Error("Failed to save settings", err, nil)
		return fmt.Errorf("%w: settings: %v", ErrStorage, err)
	}
	return nil
}

func (s *settingsService) Save(ctx context.Context, settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, settings)
}

func (s *settingsService) Get(ctx context.Context, key string) (interface{}, error) {
	settings := s.load(ctx)

	switch key {
	case models.SettingVoiceAssistant:
		return settings.VoiceAssistant(), nil
	case models.SettingAssistantSpeaks:
		return settings.SpeaksNotifications(), nil
	case models.SettingNotifyProperties:
		return settings.PropertyAlerts(), nil
	case models.SettingNotifyReminders:
		return settings.ReminderAlerts(), nil
	case models.SettingTheme:
		if settings.Theme == "" {
			return models.ThemeLight, nil
		}
		return settings.Theme, nil
	case models.SettingTextAI:
		return settings.Redacted().TextAI, nil
	case models.SettingImageAI:
		return settings.Redacted().ImageAI, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
}

func (s *settingsService) Set(ctx context.Context, key string, value json.RawMessage) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.load(ctx)
	reset := len(value) == 0 || string(value) == "null"

	switch key {
	case models.SettingVoiceAssistant:
		if err := setBool(&settings.VoiceAssistantEnabled, key, value, reset); err != nil {
			return models.Settings{}, err
		}
	case models.SettingAssistantSpeaks:
		if err := setBool(&settings.AssistantSpeaks, key, value, reset); err != nil {
			return models.Settings{}, err
		}
	case models.SettingNotifyProperties:
		if err := setBool(&settings.NotifyProperties, key, value, reset); err != nil {
			return models.Settings{}, err
		}
	case models.SettingNotifyReminders:
		if err := setBool(&settings.NotifyReminders, key, value, reset); err != nil {
			return models.Settings{}, err
		}
	case models.SettingTheme:
		if reset {
			settings.Theme = ""
			break
		}
		var theme models.Theme
		if err := json.Unmarshal(value, &theme); err != nil || (theme != models.ThemeLight && theme != models.ThemeDark) {
			return models.Settings{}, fieldError(key, "must be light or dark")
		}
		settings.Theme = theme
	case models.SettingTextAI, models.SettingImageAI:
		kind := models.AIKindText
		if key == models.SettingImageAI {
			kind = models.AIKindImage
		}
		if reset {
			settings.SetAIConfig(kind, nil)
			break
		}
		var cfg models.AIKeyConfig
		if err := json.Unmarshal(value, &cfg); err != nil {
			return models.Settings{}, fieldError(key, "must be an object with apiKey, model, isValid and error")
		}
		cfg.APIKey = strings.TrimSpace(cfg.APIKey)
		settings.SetAIConfig(kind, &cfg)
	default:
		return models.Settings{}, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}

	if err := s.save(ctx, settings); err != nil {
		return models.Settings{}, err
	}

	s.log.Info("Setting updated", map[string]interface{}{"key": key, "reset": reset})
	return settings, nil
}

func setBool(target **bool, key string, value json.RawMessage, reset bool) error {
	if reset {
		*target = nil
		return nil
	}
	var b bool
	if err := json.Unmarshal(value, &b); err != nil {
		return fieldError(key, "must be true or false")
	}
	*target = &b
	return nil
}

func (s *settingsService) AIConfig(ctx context.Context, kind models.AIKind) (models.AIKeyConfig, error) {
	settings := s.load(ctx)
	cfg := settings.AIConfig(kind)
	label := kindLabel(kind)

	if cfg == nil || strings.TrimSpace(cfg.APIKey) == "" {
		return models.AIKeyConfig{}, &ai.NotConfiguredError{Message: "The " + label + " AI key is not set."}
	}
	if !cfg.IsValid {
		msg := "The " + label + " AI key is not set or is invalid."
		if cfg.Error != nil && *cfg.Error != "" {
			msg = *cfg.Error
		}
		return models.AIKeyConfig{}, &ai.NotConfiguredError{Message: msg}
	}

	out := *cfg
	if out.Model == "" {
		out.Model = s.models.For(kind)
	}
	return out, nil
}

func (s *settingsService) ValidateAIKey(ctx context.Context, kind models.AIKind, apiKey string) (models.AIKeyConfig, error) {
	if kind != models.AIKindText && kind != models.AIKindImage {
		return models.AIKeyConfig{}, fieldError("kind", "must be text or image")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return models.AIKeyConfig{}, fieldError("apiKey", "The API key cannot be empty.")
	}

	model := s.models.For(kind)
	err := s.probe(ctx, kind, apiKey, model)

	cfg := models.AIKeyConfig{APIKey: apiKey, Model: model, IsValid: err == nil}
	if err != nil {
		msg := ai.UserMessage(err, "Unknown error while contacting the AI service.")
		cfg.Error = &msg
		s.log.Warn("AI key rejected", map[string]interface{}{
			"kind":  kind,
			"model": model,
			"error": msg,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.load(ctx)
	settings.SetAIConfig(kind, &cfg)
	if err := s.save(ctx, settings); err != nil {
		return models.AIKeyConfig{}, err
	}

	s.log.Info("AI key validated", map[string]interface{}{
		"kind":     kind,
		"model":    model,
		"is_valid": cfg.IsValid,
	})
	return cfg, nil
}

func (s *settingsService) probe(ctx context.Context, kind models.AIKind, apiKey, model string) error {
	if kind == models.AIKindText {
		_, err := s.gen.GenerateText(ctx, ai.TextRequest{APIKey: apiKey, Model: model, Prompt: textProbePrompt})
		return err
	}

	pixel, err := base64.StdEncoding.DecodeString(imageProbePNG)
	if err != nil {
		return err
	}
	_, err = s.gen.EditImage(ctx, ai.ImageRequest{
		APIKey:   apiKey,
		Model:    model,
		Image:    pixel,
		MIMEType: "image/png",
		Prompt:   imageProbePrompt,
	})
	return err
}

func kindLabel(kind models.AIKind) string {
	if kind == models.AIKindImage {
		return "image"
	}
	return "text"
}
