package prefs

import (
	"errors"
	"fmt"
	"io"
	"log"
)

// ThemeKey is the single key the theme flag is stored under.
const ThemeKey = "theme"

type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

var ErrInvalidTheme = errors.New("prefs: theme must be dark or light")

func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case Dark, Light:
		return Theme(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Toggler holds the current theme, applies it on change and persists it.
// Storage failures are logged and never block the switch.
type Toggler struct {
	store   Store
	current Theme
	apply   func(Theme)
	logger  *log.Logger
}

// NewToggler loads the stored theme (dark when unset or unreadable) and
// applies it immediately.
func NewToggler(store Store, apply func(Theme), logger *log.Logger) *Toggler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	t := &Toggler{store: store, current: Dark, apply: apply, logger: logger}
	if store != nil {
		v, ok, err := store.Get(ThemeKey)
		switch {
		case err != nil:
			logger.Printf("prefs: load theme: %v", err)
		case ok:
			if theme, err := ParseTheme(v); err == nil {
				t.current = theme
			} else {
				logger.Printf("prefs: %v", err)
			}
		}
	}
	t.applyCurrent()
	return t
}

func (t *Toggler) Current() Theme { return t.current }

// Toggle flips the theme, applies it and stores it.
func (t *Toggler) Toggle() Theme {
	return t.Set(t.current.Toggle())
}

// Set applies and stores theme.
func (t *Toggler) Set(theme Theme) Theme {
	t.current = theme
	t.applyCurrent()
	if t.store != nil {
		if err := t.store.Set(ThemeKey, string(theme)); err != nil {
			t.logger.Printf("prefs: save theme: %v", err)
		}
	}
	return t.current
}

func (t *Toggler) applyCurrent() {
	if t.apply != nil {
		t.apply(t.current)
	}
}
