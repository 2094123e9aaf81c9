package cli

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
)

type testCLI struct {
	Verbose bool `short:"v" help:"Debug logging."`

	Process struct {
		Tempo float64  `default:"120" help:"Song tempo in BPM."`
		Files []string `arg:"" help:"Input files."`
	} `cmd:"" help:"Process vocal takes."`

	Calibrate struct {
		Master string `arg:"" help:"Master mix."`
	} `cmd:"" help:"Calibrate stems."`
}

func renderHelp(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	var c testCLI
	parser, err := kong.New(&c,
		kong.Name("algo-vocal"),
		kong.Writers(&out, &out),
		kong.Exit(func(int) {}),
		kong.Help(StyledHelpPrinter(kong.HelpOptions{})),
	)
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}
	_, _ = parser.Parse(args)
	return out.String()
}

func TestStyledHelpPrinterRoot(t *testing.T) {
	help := renderHelp(t, "--help")

	for _, want := range []string{"algo-vocal", "Commands:", "process", "calibrate", "--verbose", "-h, --help"} {
		if !strings.Contains(help, want) {
			t.Errorf("root help missing %q:\n%s", want, help)
		}
	}
}

func TestStyledHelpPrinterCommand(t *testing.T) {
	help := renderHelp(t, "process", "--help")

	for _, want := range []string{"Process vocal takes.", "Arguments:", "--tempo", "(default: 120)", "algo-vocal process"} {
		if !strings.Contains(help, want) {
			t.Errorf("process help missing %q:\n%s", want, help)
		}
	}
	if strings.Contains(help, "Commands:") {
		t.Errorf("leaf command help should not list commands:\n%s", help)
	}
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"lufs", FormatLUFS(-14.04), "-14.0 LUFS"},
		{"lufs -inf", FormatLUFS(math.Inf(-1)), "-- LUFS"},
		{"gain positive", FormatGain(1.5), "+1.50 dB"},
		{"gain negative", FormatGain(-6), "-6.00 dB"},
		{"duration ms", FormatDuration(250 * time.Millisecond), "250ms"},
		{"duration s", FormatDuration(2500 * time.Millisecond), "2.5s"},
		{"speed", FormatSpeed(10*time.Second, 2*time.Second), "5.0x realtime"},
		{"speed zero wall", FormatSpeed(time.Second, 0), "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary([]FileSummary{
		{Input: "take1.wav", Output: "take1_Dry_FullChain.wav", InputLUFS: -23, OutputLUFS: -14.5, Clipped: 3},
		{Input: "take2.wav", Err: errors.New("read take2.wav: unsupported")},
	})

	for _, want := range []string{"1 of 2 file(s) failed", "take1_Dry_FullChain.wav", "-23.0 LUFS", "-14.5 LUFS", "unsupported"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCalibration(t *testing.T) {
	out := RenderCalibration("master.wav", -12, []StemSummary{{Stem: "vox.wav", GainDB: 3, LUFS: -20, RMSDB: -24}})

	for _, want := range []string{"master.wav", "-12.0 LUFS", "vox.wav", "+3.00 dB", "-24.0 dBFS RMS"} {
		if !strings.Contains(out, want) {
			t.Errorf("calibration report missing %q:\n%s", want, out)
		}
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, "boom")
	if !strings.Contains(buf.String(), "Error:") || !strings.Contains(buf.String(), "boom") {
		t.Fatalf("PrintError wrote %q", buf.String())
	}
}
