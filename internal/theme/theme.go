package theme

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/assistant-app/console/internal/observability"
	"github.com/assistant-app/console/internal/storage"
)

// Theme is the display preference. Light and dark are the only valid values;
// anything else is a caller error.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Palette is the set of styles the console renders with. Swapping the palette
// is the terminal analogue of re-keying CSS off a document attribute.
type Palette struct {
	Banner    lipgloss.Style
	Prompt    lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Indicator lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
}

// Context holds the process-wide theme preference, persisted on every change.
type Context struct {
	mu      sync.RWMutex
	store   *storage.Store
	current Theme
	palette Palette
}

// New resolves the initial theme: explicit override, then the persisted
// preference, then the terminal's dark-background detection.
func New(store *storage.Store, override string) *Context {
	c := &Context{store: store}
	c.current = initial(store, override)
	c.palette = paletteFor(c.current)
	c.persist()
	return c
}

func initial(store *storage.Store, override string) Theme {
	switch Theme(override) {
	case Light, Dark:
		return Theme(override)
	}

	if saved, ok := store.GetString(storage.KeyTheme); ok {
		switch Theme(saved) {
		case Light, Dark:
			return Theme(saved)
		}
	}

	if termenv.HasDarkBackground() {
		return Dark
	}
	return Light
}

// Current returns the active theme.
func (c *Context) Current() Theme {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Palette returns the styles for the active theme.
func (c *Context) Palette() Palette {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.palette
}

// Toggle flips between light and dark, persists the choice, and returns the
// new value.
func (c *Context) Toggle() Theme {
	c.mu.Lock()
	if c.current == Light {
		c.current = Dark
	} else {
		c.current = Light
	}
	c.palette = paletteFor(c.current)
	next := c.current
	c.mu.Unlock()

	c.persist()
	return next
}

func (c *Context) persist() {
	if err := c.store.Set(storage.KeyTheme, string(c.Current())); err != nil {
		observability.Logger().Warn("failed to persist theme", "error", err)
	}
}

func paletteFor(t Theme) Palette {
	if t == Dark {
		return Palette{
			Banner:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
			Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
			User:      lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")),
			Assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("#EEEEEE")),
			Indicator: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00")),
			Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
			Muted:     lipgloss.NewStyle().Faint(true),
		}
	}
	return Palette{
		Banner:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5A32C8")),
		Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("#00875F")),
		User:      lipgloss.NewStyle().Foreground(lipgloss.Color("#005FAF")),
		Assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("#1C1C1C")),
		Indicator: lipgloss.NewStyle().Foreground(lipgloss.Color("#AF5F00")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#D70000")),
		Muted:     lipgloss.NewStyle().Faint(true),
	}
}
