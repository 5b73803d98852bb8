package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Color represents a hex color string.
type Color string

// TableStyle defines colors for the table view.
type TableStyle struct {
	FgColor       Color `yaml:"fgColor"`
	BgColor       Color `yaml:"bgColor"`
	CursorFgColor Color `yaml:"cursorFgColor"`
	CursorBgColor Color `yaml:"cursorBgColor"`
	HeaderFgColor Color `yaml:"headerFgColor"`
	HeaderBgColor Color `yaml:"headerBgColor"`
	HostingFg     Color `yaml:"hostingFg"` // Listening sockets
	UsingFg       Color `yaml:"usingFg"`   // Outbound / established sockets
}

// HeaderStyle defines colors for the header section.
type HeaderStyle struct {
	FgColor Color `yaml:"fgColor"`
	BgColor Color `yaml:"bgColor"`
	TitleFg Color `yaml:"titleFg"`
	LiveFg  Color `yaml:"liveFg"`  // Live indicator
	WarnFg  Color `yaml:"warnFg"`  // Warnings/attention
	StatsFg Color `yaml:"statsFg"` // Stats text (muted)
}

// FooterStyle defines colors for the footer section.
type FooterStyle struct {
	FgColor     Color `yaml:"fgColor"`
	BgColor     Color `yaml:"bgColor"`
	KeyFgColor  Color `yaml:"keyFgColor"`
	DescFgColor Color `yaml:"descFgColor"`
}

// StatusStyle defines colors for status lines.
type StatusStyle struct {
	FgColor Color `yaml:"fgColor"`
	BgColor Color `yaml:"bgColor"`
}

// ModalStyle defines colors for modal dialogs.
type ModalStyle struct {
	DimmedFgColor Color `yaml:"dimmedFgColor"` // Dimmed background when modal visible
	BorderFgColor Color `yaml:"borderFgColor"` // Modal border
	AccentFgColor Color `yaml:"accentFgColor"` // Accent color for modal
}

// Styles holds all the theme colors.
type Styles struct {
	Table  TableStyle  `yaml:"table"`
	Header HeaderStyle `yaml:"header"`
	Footer FooterStyle `yaml:"footer"`
	Status StatusStyle `yaml:"status"`
	Modal  ModalStyle  `yaml:"modal"`
}

// Theme is the top-level theme configuration.
type Theme struct {
	Name   string `yaml:"name"`
	Styles Styles `yaml:"styles"`
}

// DefaultTheme returns the built-in Industrial theme.
func DefaultTheme() *Theme {
	return &Theme{
		Name: "industrial",
		Styles: Styles{
			Table: TableStyle{
				FgColor:       "#e6edf3",
				BgColor:       "#0d1117",
				CursorFgColor: "#ffffff",
				CursorBgColor: "#58a6ff",
				HeaderFgColor: "#58a6ff",
				HeaderBgColor: "#0d1117",
				HostingFg:     "#3fb950",
				UsingFg:       "#d29922",
			},
			Header: HeaderStyle{
				FgColor: "#e6edf3",
				BgColor: "#0d1117",
				TitleFg: "#58a6ff",
				LiveFg:  "#3fb950",
				WarnFg:  "#d29922",
				StatsFg: "#7d8590",
			},
			Footer: FooterStyle{
				FgColor:     "#e6edf3",
				BgColor:     "#0d1117",
				KeyFgColor:  "#58a6ff",
				DescFgColor: "#7d8590",
			},
			Status: StatusStyle{
				FgColor: "#7d8590",
				BgColor: "#0d1117",
			},
			Modal: ModalStyle{
				DimmedFgColor: "#7d8590",
				BorderFgColor: "#30363d",
				AccentFgColor: "#58a6ff",
			},
		},
	}
}

// LoadTheme loads a theme from the user's config directory or returns the default.
func LoadTheme() (*Theme, error) {
	configDir, err := os.UserConfigDir()
	if err == nil {
		userSkinPath := filepath.Join(configDir, "portwatch", "skin.yaml")
		// #nosec G304 - userSkinPath is constructed from trusted sources (UserConfigDir + hardcoded path)
		if data, err := os.ReadFile(userSkinPath); err == nil {
			var theme Theme
			if err := yaml.Unmarshal(data, &theme); err == nil {
				return &theme, nil
			}
		}
	}

	return DefaultTheme(), nil
}

// CurrentTheme holds the loaded theme (singleton).
var CurrentTheme *Theme

// InitTheme initializes the global theme.
func InitTheme() error {
	theme, err := LoadTheme()
	if err != nil {
		return err
	}
	CurrentTheme = theme
	return nil
}

func init() {
	// Initialize with default theme on package load
	CurrentTheme = DefaultTheme()
}
