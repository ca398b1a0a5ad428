package models

// Theme of the client UI.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// AIKind selects which stored AI credential an operation uses.
type AIKind string

const (
	AIKindText  AIKind = "text"
	AIKindImage AIKind = "image"
)

// AIKeyConfig is a stored credential for the generative-AI service and
// the outcome of its last validation.
type AIKeyConfig struct {
	APIKey  string  `json:"apiKey"`
	Model   string  `json:"model"`
	IsValid bool    `json:"isValid"`
	Error   *string `json:"error"`
}

// Settings is the single persisted settings document.
// Boolean toggles are pointers so a missing value can take its default.
type Settings struct {
	VoiceAssistantEnabled *bool        `json:"alexaEnabled,omitempty"`
	AssistantSpeaks       *bool        `json:"alexaSpeaksNotifications,omitempty"`
	NotifyProperties      *bool        `json:"notifyProperties,omitempty"`
	NotifyReminders       *bool        `json:"notifyReminders,omitempty"`
	Theme                 Theme        `json:"theme,omitempty"`
	TextAI                *AIKeyConfig `json:"gemini_text_config,omitempty"`
	ImageAI               *AIKeyConfig `json:"gemini_image_config,omitempty"`
}

// Setting keys as stored in the settings document.
const (
	SettingVoiceAssistant   = "alexaEnabled"
	SettingAssistantSpeaks  = "alexaSpeaksNotifications"
	SettingNotifyProperties = "notifyProperties"
	SettingNotifyReminders  = "notifyReminders"
	SettingTheme            = "theme"
	SettingTextAI           = "gemini_text_config"
	SettingImageAI          = "gemini_image_config"
)

// SettingKeys lists every recognized key.
var SettingKeys = []string{
	SettingVoiceAssistant,
	SettingAssistantSpeaks,
	SettingNotifyProperties,
	SettingNotifyReminders,
	SettingTheme,
	SettingTextAI,
	SettingImageAI,
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// VoiceAssistant is off unless enabled.
func (s *Settings) VoiceAssistant() bool { return boolOr(s.VoiceAssistantEnabled, false) }

// SpeaksNotifications is off unless enabled.
func (s *Settings) SpeaksNotifications() bool { return boolOr(s.AssistantSpeaks, false) }

// PropertyAlerts is on unless disabled.
func (s *Settings) PropertyAlerts() bool { return boolOr(s.NotifyProperties, true) }

// ReminderAlerts is on unless disabled.
func (s *Settings) ReminderAlerts() bool { return boolOr(s.NotifyReminders, true) }

// AIConfig returns the stored credential for kind, or nil.
func (s *Settings) AIConfig(kind AIKind) *AIKeyConfig {
	if kind == AIKindImage {
		return s.ImageAI
	}
	return s.TextAI
}

// SetAIConfig stores the credential for kind.
func (s *Settings) SetAIConfig(kind AIKind, cfg *AIKeyConfig) {
	if kind == AIKindImage {
		s.ImageAI = cfg
		return
	}
	s.TextAI = cfg
}

// Redacted returns a copy safe to return to clients: API keys are
// reduced to their last four characters.
func (s Settings) Redacted() Settings {
	s.TextAI = redactKey(s.TextAI)
	s.ImageAI = redactKey(s.ImageAI)
	return s
}

func redactKey(cfg *AIKeyConfig) *AIKeyConfig {
	if cfg == nil {
		return nil
	}
	out := cfg.Redacted()
	return &out
}

// Redacted returns a copy with the API key reduced to its last four
// characters.
func (c AIKeyConfig) Redacted() AIKeyConfig {
	if key := []rune(c.APIKey); len(key) > 4 {
		c.APIKey = "****" + string(key[len(key)-4:])
	} else if len(key) > 0 {
		c.APIKey = "****"
	}
	return c
}
