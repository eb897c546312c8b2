// Package theme provides the colour palettes used to render change-sets.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazystage/internal/changes"
)

// Theme defines all colors used in the application UI.
type Theme struct {
	Accent    lipgloss.Color
	AccentFg  lipgloss.Color // text on Accent background
	AccentDim lipgloss.Color
	Border    lipgloss.Color
	MutedFg   lipgloss.Color
	TextFg    lipgloss.Color
	ErrorFg   lipgloss.Color
	Staged    lipgloss.Color
	Unstaged  lipgloss.Color
	Untracked lipgloss.Color
}

// Theme names.
const (
	DraculaName         = "dracula"
	DraculaLightName    = "dracula-light"
	NordName            = "nord"
	CatppuccinMochaName = "catppuccin-mocha"
	CatppuccinLatteName = "catppuccin-latte"
)

// Dracula returns the Dracula theme (dark background, vibrant colors).
func Dracula() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#BD93F9"),
		AccentFg:  lipgloss.Color("#282A36"),
		AccentDim: lipgloss.Color("#44475A"),
		Border:    lipgloss.Color("#6272A4"),
		MutedFg:   lipgloss.Color("#6272A4"),
		TextFg:    lipgloss.Color("#F8F8F2"),
		ErrorFg:   lipgloss.Color("#FF5555"),
		Staged:    lipgloss.Color("#50FA7B"),
		Unstaged:  lipgloss.Color("#FFB86C"),
		Untracked: lipgloss.Color("#FF79C6"),
	}
}

// DraculaLight returns the Dracula theme adapted for light backgrounds.
func DraculaLight() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#c6dbe5"),
		AccentFg:  lipgloss.Color("#24292F"),
		AccentDim: lipgloss.Color("#F3E8FF"),
		Border:    lipgloss.Color("#D0D7DE"),
		MutedFg:   lipgloss.Color("#6E7781"),
		TextFg:    lipgloss.Color("#24292F"),
		ErrorFg:   lipgloss.Color("#DC2626"),
		Staged:    lipgloss.Color("#059669"),
		Unstaged:  lipgloss.Color("#D97706"),
		Untracked: lipgloss.Color("#DB2777"),
	}
}

// Nord returns the Nord theme.
func Nord() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#88C0D0"),
		AccentFg:  lipgloss.Color("#2E3440"),
		AccentDim: lipgloss.Color("#3B4252"),
		Border:    lipgloss.Color("#4C566A"),
		MutedFg:   lipgloss.Color("#616E88"),
		TextFg:    lipgloss.Color("#ECEFF4"),
		ErrorFg:   lipgloss.Color("#BF616A"),
		Staged:    lipgloss.Color("#A3BE8C"),
		Unstaged:  lipgloss.Color("#EBCB8B"),
		Untracked: lipgloss.Color("#B48EAD"),
	}
}

// CatppuccinMocha returns the Catppuccin Mocha theme.
func CatppuccinMocha() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#CBA6F7"),
		AccentFg:  lipgloss.Color("#1E1E2E"),
		AccentDim: lipgloss.Color("#313244"),
		Border:    lipgloss.Color("#45475A"),
		MutedFg:   lipgloss.Color("#6C7086"),
		TextFg:    lipgloss.Color("#CDD6F4"),
		ErrorFg:   lipgloss.Color("#F38BA8"),
		Staged:    lipgloss.Color("#A6E3A1"),
		Unstaged:  lipgloss.Color("#F9E2AF"),
		Untracked: lipgloss.Color("#F5C2E7"),
	}
}

// CatppuccinLatte returns the Catppuccin Latte theme.
func CatppuccinLatte() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#8839EF"),
		AccentFg:  lipgloss.Color("#EFF1F5"),
		AccentDim: lipgloss.Color("#CCD0DA"),
		Border:    lipgloss.Color("#BCC0CC"),
		MutedFg:   lipgloss.Color("#8C8FA1"),
		TextFg:    lipgloss.Color("#4C4F69"),
		ErrorFg:   lipgloss.Color("#D20F39"),
		Staged:    lipgloss.Color("#40A02B"),
		Unstaged:  lipgloss.Color("#DF8E1D"),
		Untracked: lipgloss.Color("#EA76CB"),
	}
}

// GetTheme returns a theme by name, or Dracula if not found.
func GetTheme(name string) *Theme {
	switch name {
	case DraculaLightName:
		return DraculaLight()
	case NordName:
		return Nord()
	case CatppuccinMochaName:
		return CatppuccinMocha()
	case CatppuccinLatteName:
		return CatppuccinLatte()
	default:
		return Dracula()
	}
}

// StatusColor returns the colour used for a change status.
func (t *Theme) StatusColor(status changes.ChangeStatus) lipgloss.Color {
	switch status {
	case changes.Staged:
		return t.Staged
	case changes.Unstaged:
		return t.Unstaged
	default:
		return t.Untracked
	}
}

// IsLight returns true if the theme is a light theme.
func IsLight(name string) bool {
	return name == DraculaLightName || name == CatppuccinLatteName
}

// DefaultDark returns the default dark theme name.
func DefaultDark() string {
	return DraculaName
}

// DefaultLight returns the default light theme name.
func DefaultLight() string {
	return DraculaLightName
}

// AvailableThemes returns a list of available theme names.
func AvailableThemes() []string {
	return []string{
		DraculaName,
		DraculaLightName,
		NordName,
		CatppuccinMochaName,
		CatppuccinLatteName,
	}
}
