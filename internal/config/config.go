package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/example/boxlabel/internal/theme"
)

// Notify selects which events raise a desktop notification.
type Notify struct {
	Submit bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Theme      string
	OutputDir  string
	Categories string
	HandleSize float64 // Handle hit size in screen pixels; 0 keeps the default
	Notify     Notify
	Themes     map[string]*theme.Theme
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		Notify: Notify{Submit: true},
		Themes: make(map[string]*theme.Theme),
	}
}

// ResolveTheme returns the configured theme: an inline [theme.x] section
// first, then whatever the theme loader finds.
func (c *Config) ResolveTheme(l *theme.Loader) (*theme.Theme, error) {
	if t, ok := c.Themes[c.Theme]; ok {
		return t, nil
	}
	if l == nil {
		l = theme.NewLoader()
	}
	return l.Load(c.Theme)
}

// Validate checks paths referenced by the configuration.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("output_dir", c.OutputDir, isDirectoryOrNotExist),
		criterio.Run("categories", c.Categories, isFileOrEmpty),
		criterio.Run("handle_size", c.HandleSize, isNonNegative),
	)
}

func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

func isNonNegative(v float64) error {
	if v < 0 {
		return fmt.Errorf("must not be negative, got %g", v)
	}
	return nil
}

func isFileOrEmpty(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	return nil
}

// String returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.OutputDir != "" {
		fmt.Fprintf(&sb, "output_dir = %s\n", c.OutputDir)
	}
	if c.Categories != "" {
		fmt.Fprintf(&sb, "categories = %s\n", c.Categories)
	}
	if c.HandleSize > 0 {
		fmt.Fprintf(&sb, "handle_size = %g\n", c.HandleSize)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "submit = %v\n", c.Notify.Submit)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		_ = c.Themes[name].Format(&sb, ":")
		sb.WriteString("\n")
	}

	return sb.String()
}
