package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cwbudde/algo-vocal/dsp/vocalchain"
	"github.com/cwbudde/algo-vocal/internal/audiofile"
	"github.com/cwbudde/algo-vocal/internal/cli"
	"github.com/cwbudde/algo-vocal/internal/ui"
	"github.com/cwbudde/algo-vocal/measure/loudness"
)

const outputBitDepth = 24

type processCmd struct {
	Files     []string `arg:"" type:"existingfile" help:"Vocal takes to process (WAV or FLAC)."`
	Wet       bool     `help:"Add the chorus, delay and reverb branch."`
	Tempo     float64  `default:"120" help:"Song tempo in BPM, sets the delay time."`
	IR        string   `name:"ir" type:"existingfile" placeholder:"PATH" help:"Impulse response for the reverb (default: synthetic plate)."`
	OutDir    string   `name:"out-dir" short:"o" placeholder:"DIR" help:"Output directory (default: next to each input)."`
	Preset    string   `type:"existingfile" placeholder:"PATH" help:"JSON chain configuration."`
	InputGain float64  `name:"input-gain" help:"Extra input gain in dB for quiet takes."`
	BlockSize int      `name:"block-size" default:"4096" help:"Processing block size in samples; a multiple of the preset's de-esser block."`
	NoUI      bool     `name:"no-ui" help:"Disable the progress display."`
}

// job is everything needed to process one file.
type job struct {
	cfg       vocalchain.Config
	wet       bool
	tempo     float64
	ir        []float64
	irRate    int
	blockSize int
	outDir    string
}

func (c *processCmd) Run(rc *runContext, g *globals) error {
	j, err := c.newJob()
	if err != nil {
		return err
	}

	inputs := make([]string, 0, len(c.Files))
	for _, f := range c.Files {
		if !audiofile.IsSupported(f) {
			cli.PrintWarning(rc.stderr, fmt.Sprintf("skipping %s: unsupported format", f))
			continue
		}
		inputs = append(inputs, f)
	}
	if len(inputs) == 0 {
		return errors.New("no supported input files")
	}

	var rows []cli.FileSummary
	if c.NoUI || len(inputs) == 1 {
		rows = runPlain(rc.ctx, rc.logger, j, inputs)
	} else {
		logger := rc.logger
		if g.LogFile == "" {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		rows, err = runWithUI(rc.ctx, logger, j, inputs)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(rc.stdout, cli.RenderSummary(rows))

	for _, r := range rows {
		if r.Err != nil {
			return errors.New("some files failed")
		}
	}
	return nil
}

func (c *processCmd) newJob() (job, error) {
	cfg := vocalchain.DefaultConfig()
	if c.Preset != "" {
		var err error
		if cfg, err = vocalchain.LoadConfigFile(c.Preset); err != nil {
			return job{}, err
		}
	}
	cfg.InputGainDB += c.InputGain

	j := job{
		cfg:       cfg,
		wet:       c.Wet,
		tempo:     c.Tempo,
		blockSize: c.BlockSize,
		outDir:    c.OutDir,
	}

	if c.IR != "" {
		buf, err := audiofile.Read(c.IR)
		if err != nil {
			return job{}, fmt.Errorf("impulse response: %w", err)
		}
		j.ir = loudness.Downmix(buf.Channels)
		j.irRate = buf.SampleRate
	}

	if j.outDir != "" {
		if err := os.MkdirAll(j.outDir, 0o755); err != nil {
			return job{}, err
		}
	}

	return j, nil
}

// outputPath names the rendered file <name>_{Wet|Dry}_FullChain.wav.
func outputPath(input, outDir string, wet bool) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	mode := "Dry"
	if wet {
		mode = "Wet"
	}
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s_FullChain.wav", name, mode))
}

// chunkFrames is the number of frames handed to the pipeline between
// progress reports: about one second, rounded to whole de-esser blocks.
func chunkFrames(sampleRate int, deEssBlock int) int {
	if deEssBlock <= 0 {
		deEssBlock = vocalchain.DefaultDeEssBlock
	}
	return max(1, sampleRate/deEssBlock) * deEssBlock
}

// processFile renders one input and reports progress fractions to report.
func processFile(ctx context.Context, logger *slog.Logger, j job, input string, report func(float64)) cli.FileSummary {
	start := time.Now()
	row := cli.FileSummary{Input: input}

	fail := func(err error) cli.FileSummary {
		logger.Error("processing failed", "file", input, "err", err)
		row.Err = err
		row.Elapsed = time.Since(start)
		return row
	}

	buf, err := audiofile.Read(input)
	if err != nil {
		return fail(err)
	}
	fs := float64(buf.SampleRate)
	logger.Debug("loaded", "file", input, "rate", buf.SampleRate, "bits", buf.BitDepth,
		"channels", buf.NumChannels(), "duration", buf.Duration())

	if row.InputLUFS, err = loudness.Integrated(buf.Channels, fs); err != nil {
		return fail(err)
	}

	opts := []vocalchain.Option{
		vocalchain.WithSampleRate(fs),
		vocalchain.WithBlockSize(j.blockSize),
		vocalchain.WithChannels(buf.NumChannels()),
		vocalchain.WithWet(j.wet),
		vocalchain.WithTempo(j.tempo),
	}
	if j.wet && len(j.ir) > 0 {
		if j.irRate != buf.SampleRate {
			logger.Warn("impulse response sample rate differs from input",
				"file", input, "ir_rate", j.irRate, "rate", buf.SampleRate)
		}
		opts = append(opts, vocalchain.WithImpulseResponse(j.ir))
	}

	p, err := vocalchain.New(j.cfg, opts...)
	if err != nil {
		return fail(err)
	}
	if eff := p.Config(); eff.DeEssIn.HighHz != j.cfg.DeEssIn.HighHz || eff.Shelf.HighHz != j.cfg.Shelf.HighHz {
		logger.Info("band edges lowered below nyquist", "file", input, "rate", buf.SampleRate,
			"deess_high_hz", eff.DeEssIn.HighHz, "shelf_high_hz", eff.Shelf.HighHz)
	}

	frames := buf.Frames()
	step := chunkFrames(buf.SampleRate, j.cfg.DeEssBlock)
	views := make([][]float64, buf.NumChannels())
	for off := 0; off < frames; off += step {
		end := min(off+step, frames)
		for ch := range views {
			views[ch] = buf.Channels[ch][off:end]
		}
		if err := p.Process(ctx, views); err != nil {
			return fail(err)
		}
		if report != nil {
			report(float64(end) / float64(frames))
		}
	}

	metrics := p.Metrics()
	row.Clipped = vocalchain.TotalClipped(metrics)
	for ch, m := range metrics {
		logger.Debug("channel metrics", "file", input, "channel", ch,
			"clipped", m.Clipped, "shelf_clipped", m.ShelfClipped,
			"deess_in_clipped", m.DeEssIn.Clipped, "deess_out_clipped", m.DeEssOut.Clipped)
	}
	if row.Clipped > 0 {
		logger.Info("output clipped", "file", input, "samples", row.Clipped)
	}

	if row.OutputLUFS, err = loudness.Integrated(buf.Channels, fs); err != nil {
		return fail(err)
	}

	row.Output = outputPath(input, j.outDir, j.wet)
	if err := audiofile.WriteWAV(row.Output, buf, outputBitDepth); err != nil {
		return fail(err)
	}

	row.Elapsed = time.Since(start)
	logger.Info("processed", "file", input, "output", row.Output,
		"input_lufs", row.InputLUFS, "output_lufs", row.OutputLUFS,
		"speed", cli.FormatSpeed(time.Duration(buf.Duration()*float64(time.Second)), row.Elapsed))
	return row
}

func runPlain(ctx context.Context, logger *slog.Logger, j job, inputs []string) []cli.FileSummary {
	rows := make([]cli.FileSummary, 0, len(inputs))
	for _, in := range inputs {
		if ctx.Err() != nil {
			rows = append(rows, cli.FileSummary{Input: in, Err: ctx.Err()})
			continue
		}
		logger.Info("processing", "file", in)
		rows = append(rows, processFile(ctx, logger, j, in, nil))
	}
	return rows
}

func runWithUI(ctx context.Context, logger *slog.Logger, j job, inputs []string) ([]cli.FileSummary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan tea.Msg, 64)
	send := func(msg tea.Msg) {
		select {
		case updates <- msg:
		case <-ctx.Done():
		}
	}

	rows := make([]cli.FileSummary, len(inputs))
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(updates)
		for i, in := range inputs {
			if ctx.Err() != nil {
				rows[i] = cli.FileSummary{Input: in, Err: ctx.Err()}
				continue
			}
			send(ui.FileStartMsg{Index: i, Path: in})
			rows[i] = processFile(ctx, logger, j, in, func(f float64) {
				send(ui.ProgressMsg{Index: i, Fraction: f})
			})
			send(ui.FileCompleteMsg{
				Index:      i,
				OutputPath: rows[i].Output,
				InputLUFS:  rows[i].InputLUFS,
				OutputLUFS: rows[i].OutputLUFS,
				Clipped:    rows[i].Clipped,
				Elapsed:    rows[i].Elapsed,
				Err:        rows[i].Err,
			})
		}
	}()

	_, err := tea.NewProgram(ui.NewModel(inputs, updates), tea.WithContext(ctx)).Run()
	cancel()
	<-done

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return rows, err
	}
	return rows, nil
}
