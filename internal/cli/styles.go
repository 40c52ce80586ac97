// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/coincat/coincat/internal/model"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#F5A623") // Amber
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4") // Teal
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D") // Yellow
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B") // Red
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#95E1D3") // Light teal
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666") // Gray

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("#333"))
)

// tierStyles gives each rule tier its own color so a summary column is
// scannable at a glance.
var tierStyles = map[model.Tier]lipgloss.Style{
	model.TierManual:     lipgloss.NewStyle().Foreground(SuccessColor),
	model.TierHistory:    lipgloss.NewStyle().Foreground(InfoColor),
	model.TierAI:         lipgloss.NewStyle().Foreground(PrimaryColor),
	model.TierUnresolved: lipgloss.NewStyle().Foreground(SubtleColor),
}

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	CatIcon     = "🐱"
	CoinIcon    = "🪙"
	RobotIcon   = "🤖"
	ChartIcon   = "📊"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the coin icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(CoinIcon + " " + title)
}

// FormatTier renders a tier name in its color.
func FormatTier(tier model.Tier) string {
	style, ok := tierStyles[tier]
	if !ok {
		style = SubtleStyle
	}
	return style.Render(string(tier))
}

// FormatOutcome renders one categorization outcome as a summary line.
func FormatOutcome(o model.CategorizationOutcome) string {
	icon := SuccessStyle.Render(SuccessIcon)
	if o.NeedsReview {
		icon = WarningStyle.Render("?")
	}

	line := fmt.Sprintf("%s %-40s %-30s %s",
		icon,
		truncate(o.Transaction.RawDescription, 40),
		BoldStyle.Render(o.Category),
		FormatTier(o.Tier))

	if o.Match != nil {
		line += SubtleStyle.Render(fmt.Sprintf("  (%.2f)", o.Match.Confidence))
	}
	return line
}

// FormatSummary renders the batch summary block.
func FormatSummary(s model.BatchSummary) string {
	return fmt.Sprintf("%s\n%s\n%s\n%s",
		TitleStyle.Render(ChartIcon+" Batch summary"),
		FormatSuccess(fmt.Sprintf("auto-categorized: %d", s.AutoCategorized)),
		FormatWarning(fmt.Sprintf("needs review:     %d", s.NeedsReview)),
		InfoStyle.Render(fmt.Sprintf("coverage: %.1f%% of %d", s.Coverage()*100, s.Total)))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
