// Package cli holds the lipgloss styling shared by the algo-vocal command:
// help output, error and version lines, and the per-file summary table.
package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#7D56F4")
	accentColor  = lipgloss.Color("#F25D94")
	successColor = lipgloss.Color("#04B575")
	mutedColor   = lipgloss.Color("#888888")
	warnColor    = lipgloss.Color("#FFB000")
	textColor    = lipgloss.Color("#FFFFFF")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			MarginTop(1)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warnColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)
)

const appTitle = "algo-vocal"

const appDescription = "Vocal mastering chain: de-essing, compression, resonant and dynamic EQ, saturation and an optional wet branch."

// PrintVersion writes the version banner.
func PrintVersion(w io.Writer, version string) {
	fmt.Fprintln(w, TitleStyle.Render(appTitle))
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
}

// PrintError writes a styled error line.
func PrintError(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintWarning writes a styled warning line.
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", WarningStyle.Render("Warning:"), message)
}

// FormatLUFS renders a loudness value, mapping -Inf to a dash.
func FormatLUFS(v float64) string {
	if math.IsInf(v, -1) || math.IsNaN(v) {
		return "-- LUFS"
	}
	return fmt.Sprintf("%.1f LUFS", v)
}

// FormatGain renders a signed gain in dB.
func FormatGain(db float64) string {
	return fmt.Sprintf("%+.2f dB", db)
}

// FormatDuration formats a duration nicely
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// FormatSpeed renders processing speed relative to the audio duration.
func FormatSpeed(audio, wall time.Duration) string {
	if wall <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1fx realtime", audio.Seconds()/wall.Seconds())
}

// FileSummary is one row of the end-of-run summary.
type FileSummary struct {
	Input      string
	Output     string
	InputLUFS  float64
	OutputLUFS float64
	Clipped    int
	Elapsed    time.Duration
	Err        error
}

// RenderSummary builds the boxed summary of a processing run.
func RenderSummary(rows []FileSummary) string {
	var b strings.Builder

	failed := 0
	for _, r := range rows {
		if r.Err != nil {
			failed++
		}
	}

	if failed == 0 {
		b.WriteString(SuccessStyle.Render(fmt.Sprintf("✓ %d file(s) processed", len(rows))))
	} else {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("✗ %d of %d file(s) failed", failed, len(rows))))
	}
	b.WriteString("\n")

	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(ValueStyle.Render(r.Input))
		b.WriteString("\n")
		if r.Err != nil {
			b.WriteString("  " + ErrorStyle.Render(r.Err.Error()))
			b.WriteString("\n")
			continue
		}
		b.WriteString("  " + KeyStyle.Render("Output:   ") + r.Output + "\n")
		b.WriteString("  " + KeyStyle.Render("Loudness: ") +
			FormatLUFS(r.InputLUFS) + " → " + FormatLUFS(r.OutputLUFS) + "\n")
		b.WriteString("  " + KeyStyle.Render("Clipped:  ") + fmt.Sprintf("%d", r.Clipped) + "\n")
		b.WriteString("  " + KeyStyle.Render("Time:     ") + FormatDuration(r.Elapsed) + "\n")
	}

	return BoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// StemSummary is one row of a calibration run.
type StemSummary struct {
	Stem   string
	GainDB float64
	LUFS   float64
	RMSDB  float64
}

// RenderCalibration builds the boxed report of stem gain calibration.
func RenderCalibration(master string, masterLUFS float64, stems []StemSummary) string {
	var b strings.Builder

	b.WriteString(KeyStyle.Render("Master: "))
	b.WriteString(ValueStyle.Render(master))
	b.WriteString(" " + FormatLUFS(masterLUFS))
	b.WriteString("\n")

	for _, s := range stems {
		b.WriteString("\n  ")
		b.WriteString(ValueStyle.Render(s.Stem))
		b.WriteString("  ")
		b.WriteString(FormatLUFS(s.LUFS))
		b.WriteString(fmt.Sprintf(", %.1f dBFS RMS", s.RMSDB))
		b.WriteString("  ")
		b.WriteString(SuccessStyle.Render(FormatGain(s.GainDB)))
	}

	return BoxStyle.Render(b.String())
}
