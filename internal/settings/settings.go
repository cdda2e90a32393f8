// ABOUTME: User-facing settings persisted as a flat YAML file
// ABOUTME: Backed by viper; callers read the flags before offering suggestions
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/harper/oogvault/internal/models"
	"github.com/spf13/viper"
)

// Setting keys
const (
	KeyAutoSave              = "auto_save"
	KeyAutocompleteEnabled   = "autocomplete_enabled"
	KeyAutocompleteMinLength = "autocomplete_min_length"
	KeyTheme                 = "theme"
)

// ErrUnknownKey is returned for keys outside the settings schema
var ErrUnknownKey = errors.New("unknown setting")

var defaults = map[string]any{
	KeyAutoSave:              true,
	KeyAutocompleteEnabled:   true,
	KeyAutocompleteMinLength: 20,
	KeyTheme:                 "default",
}

// Settings is the loaded settings file
type Settings struct {
	v    *viper.Viper
	path string
}

// Load reads the settings at path. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat settings %s: %w", path, err)
	}

	return &Settings{v: v, path: path}, nil
}

// Path returns the settings file location
func (s *Settings) Path() string {
	return s.path
}

// Keys lists every known setting in sorted order
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the current value of key
func (s *Settings) Get(key string) (any, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	def, ok := defaults[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	switch def.(type) {
	case bool:
		return s.v.GetBool(key), nil
	case int:
		return s.v.GetInt(key), nil
	default:
		return s.v.GetString(key), nil
	}
}

// Set parses raw according to the type of key and stores it in memory.
// Call Save to persist.
func (s *Settings) Set(key, raw string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	def, ok := defaults[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	raw = strings.TrimSpace(raw)
	switch def.(type) {
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s expects true or false, got %q", key, raw)
		}
		s.v.Set(key, b)
	case int:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return fmt.Errorf("%s expects a non-negative integer, got %q", key, raw)
		}
		s.v.Set(key, n)
	default:
		if raw == "" {
			return fmt.Errorf("%s cannot be empty", key)
		}
		s.v.Set(key, raw)
	}
	return nil
}

// Save writes every setting to the settings file
func (s *Settings) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// All returns every known setting with its current value
func (s *Settings) All() map[string]any {
	out := make(map[string]any, len(defaults))
	for _, k := range Keys() {
		out[k], _ = s.Get(k)
	}
	return out
}

// AutoSave reports whether captured conversations are saved automatically
func (s *Settings) AutoSave() bool {
	return s.v.GetBool(KeyAutoSave)
}

// SkipsAutoSave reports whether payload should be dropped because it was
// captured automatically while auto-save is off. Manual saves always pass.
func (s *Settings) SkipsAutoSave(payload models.ConversationPayload) bool {
	return payload.IsAutoSaved != nil && *payload.IsAutoSaved && !s.AutoSave()
}

// AutocompleteEnabled reports whether similar-question suggestions are on
func (s *Settings) AutocompleteEnabled() bool {
	return s.v.GetBool(KeyAutocompleteEnabled)
}

// AutocompleteMinLength is the input length at which suggestions start
func (s *Settings) AutocompleteMinLength() int {
	return s.v.GetInt(KeyAutocompleteMinLength)
}

// Theme returns the display theme name
func (s *Settings) Theme() string {
	return s.v.GetString(KeyTheme)
}
