package bridge

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
)

// Overrides are scene-load settings forced by the script. They survive scene
// loads and reset on every Run.
type Overrides struct {
	// Storm is 0 when not forced, 1 to force the storm, 2 to force no storm.
	Storm int

	// Island forces an island model variant, 0 when not forced.
	Island int

	LightningDisabled bool
	StartSceneID      int
	IntroVideo        string
}

func defaultOverrides() Overrides {
	return Overrides{IntroVideo: "INTRO"}
}

func (b *Bridge) clearSceneLoadOverrides() {
	b.releaseMoveHandler()
	b.overrides = defaultOverrides()
}

// LogLevel is the script log level.
type LogLevel uint8

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarning
	LogError
	LogNone
)

// Slog maps the level onto slog. LogNone sits above every level in use.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogInfo:
		return slog.LevelInfo
	case LogWarning:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slog.LevelError + 4
	}
}

func (b *Bridge) applyLogLevel(l LogLevel) {
	b.logLevel = l
	if b.level != nil {
		b.level.Set(l.Slog())
	}
}

// Languages lists the supported text and voice language codes by host id.
var Languages = []string{"en", "fr", "de", "es", "it", "pt"}

// IsLanguage reports whether code is supported.
func IsLanguage(code string) bool {
	return slices.Contains(Languages, code)
}

// media is the registry of mod images and sprites. Registration maps a file
// name to its path; loading marks a registered file as held in memory.
type media struct {
	images  map[string]string
	sprites map[string]string
	loaded  map[string]bool
}

func (m *media) registered() bool {
	return len(m.images) > 0 || len(m.sprites) > 0
}

func (b *Bridge) clearMediaMemory() {
	clear(b.media.loaded)
}

func (b *Bridge) clearMedia() {
	b.media = media{}
}

// scanMedia registers every file in dir under its base name.
func scanMedia(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out[e.Name()] = filepath.Join(dir, e.Name())
	}
	return out, nil
}

// resolve returns the path of a registered name and marks it loaded.
func (m *media) resolve(set map[string]string, name string) (string, bool) {
	path, ok := set[name]
	if !ok {
		return "", false
	}
	if m.loaded == nil {
		m.loaded = make(map[string]bool)
	}
	m.loaded[path] = true
	return path, true
}
