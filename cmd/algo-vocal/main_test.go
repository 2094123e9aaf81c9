package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/dsp/vocalchain"
	"github.com/cwbudde/algo-vocal/internal/audiofile"
	"github.com/cwbudde/algo-vocal/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTake(t *testing.T, dir, name string, fs, seconds float64, channels int) string {
	t.Helper()

	n := int(fs * seconds)
	buf := &audiofile.Buffer{SampleRate: int(fs)}
	for range channels {
		buf.Channels = append(buf.Channels, testutil.Vocal(fs, 0.3, n))
	}
	path := filepath.Join(dir, name)
	if err := audiofile.WriteWAV(path, buf, 16); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}
	return path
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, outDir string
		wet           bool
		want          string
	}{
		{"takes/lead.wav", "", false, filepath.Join("takes", "lead_Dry_FullChain.wav")},
		{"takes/lead.flac", "", true, filepath.Join("takes", "lead_Wet_FullChain.wav")},
		{"takes/lead.v2.wav", "out", false, filepath.Join("out", "lead.v2_Dry_FullChain.wav")},
	}
	for _, tt := range tests {
		if got := outputPath(tt.input, tt.outDir, tt.wet); got != tt.want {
			t.Errorf("outputPath(%q, %q, %v) = %q, want %q", tt.input, tt.outDir, tt.wet, got, tt.want)
		}
	}

	if got := calibratedPath("stems/bv.wav", ""); got != filepath.Join("stems", "bv_Calibrated.wav") {
		t.Errorf("calibratedPath = %q", got)
	}
}

func TestChunkFrames(t *testing.T) {
	tests := []struct {
		rate, block, want int
	}{
		{44100, 4096, 40960},
		{48000, 1024, 47104},
		{8000, 16384, 16384},
		{48000, 0, 45056},
	}
	for _, tt := range tests {
		if got := chunkFrames(tt.rate, tt.block); got != tt.want {
			t.Errorf("chunkFrames(%d, %d) = %d, want %d", tt.rate, tt.block, got, tt.want)
		}
	}
}

func TestProcessFileWritesOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeTake(t, dir, "take.wav", 22050, 2.5, 2)

	j := job{cfg: vocalchain.DefaultConfig(), tempo: 100, blockSize: 4096, outDir: dir}

	var reports []float64
	row := processFile(context.Background(), discardLogger(), j, in, func(f float64) {
		reports = append(reports, f)
	})
	if row.Err != nil {
		t.Fatalf("processFile: %v", row.Err)
	}
	if row.Output != filepath.Join(dir, "take_Dry_FullChain.wav") {
		t.Fatalf("output = %q", row.Output)
	}
	if len(reports) == 0 || reports[len(reports)-1] != 1 {
		t.Fatalf("progress reports = %v", reports)
	}
	if math.IsInf(row.InputLUFS, 0) || math.IsInf(row.OutputLUFS, 0) {
		t.Fatalf("loudness not measured: %v -> %v", row.InputLUFS, row.OutputLUFS)
	}

	out, err := audiofile.Read(row.Output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if out.BitDepth != outputBitDepth || out.NumChannels() != 2 || out.Frames() != int(22050*2.5) {
		t.Fatalf("output format: %d bit, %d ch, %d frames", out.BitDepth, out.NumChannels(), out.Frames())
	}
	for _, ch := range out.Channels {
		testutil.RequireBounded(t, ch, 1)
	}
}

func TestProcessFileWet(t *testing.T) {
	dir := t.TempDir()
	in := writeTake(t, dir, "take.wav", 22050, 1, 1)

	j := job{cfg: vocalchain.DefaultConfig(), wet: true, tempo: 120, blockSize: 8192}
	row := processFile(context.Background(), discardLogger(), j, in, nil)
	if row.Err != nil {
		t.Fatalf("processFile: %v", row.Err)
	}
	if !strings.HasSuffix(row.Output, "take_Wet_FullChain.wav") {
		t.Fatalf("output = %q", row.Output)
	}
}

func TestProcessFileErrors(t *testing.T) {
	dir := t.TempDir()
	j := job{cfg: vocalchain.DefaultConfig(), tempo: 120, blockSize: 4096}

	row := processFile(context.Background(), discardLogger(), j, filepath.Join(dir, "missing.wav"), nil)
	if row.Err == nil {
		t.Fatal("expected error for missing input")
	}

	in := writeTake(t, dir, "take.wav", 22050, 1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	row = processFile(ctx, discardLogger(), j, in, nil)
	if row.Err == nil {
		t.Fatal("expected error for cancelled context")
	}

	rows := runPlain(ctx, discardLogger(), j, []string{in})
	if len(rows) != 1 || rows[0].Err == nil {
		t.Fatalf("runPlain on cancelled context: %+v", rows)
	}

	odd := j
	odd.blockSize = 1000
	row = processFile(context.Background(), discardLogger(), odd, in, nil)
	if !errors.Is(row.Err, core.ErrInvalidParameter) {
		t.Fatalf("block size off the de-esser grid: err = %v, want ErrInvalidParameter", row.Err)
	}
}

func TestPresetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden.json")
	if err := writeConfigFile(path, vocalchain.DefaultConfig()); err != nil {
		t.Fatalf("writeConfigFile: %v", err)
	}

	c := processCmd{Preset: path, InputGain: 6, Tempo: 90, BlockSize: 1024}
	j, err := c.newJob()
	if err != nil {
		t.Fatalf("newJob: %v", err)
	}
	if j.cfg.InputGainDB != vocalchain.DefaultConfig().InputGainDB+6 {
		t.Fatalf("input gain = %v", j.cfg.InputGainDB)
	}
	if j.tempo != 90 || j.blockSize != 1024 {
		t.Fatalf("job = %+v", j)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := newLogger(globals{Verbose: true}, &buf)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	defer closeFn()

	logger.Debug("hello", "k", 1)
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Fatalf("debug log not written: %q", buf.String())
	}

	path := filepath.Join(t.TempDir(), "run.log")
	logger, closeFn, err = newLogger(globals{LogFile: path}, &buf)
	if err != nil {
		t.Fatalf("newLogger with file: %v", err)
	}
	logger.Info("to file")
	closeFn()
}
