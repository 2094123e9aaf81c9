package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-vocal/dsp/vocalchain"
	"github.com/cwbudde/algo-vocal/internal/audiofile"
	"github.com/cwbudde/algo-vocal/internal/cli"
	"github.com/cwbudde/algo-vocal/measure/loudness"
	"github.com/cwbudde/algo-vocal/measure/stemgain"
)

type calibrateCmd struct {
	Master string   `arg:"" type:"existingfile" help:"Reference master mix."`
	Stems  []string `arg:"" type:"existingfile" help:"Stems to match against the master."`
	Apply  bool     `help:"Write gain-adjusted copies as <name>_Calibrated.wav."`
	OutDir string   `name:"out-dir" short:"o" placeholder:"DIR" help:"Output directory for --apply (default: next to each stem)."`
}

func (c *calibrateCmd) Run(rc *runContext) error {
	master, err := audiofile.Read(c.Master)
	if err != nil {
		return err
	}
	mm, err := stemgain.Measure(master.Channels, float64(master.SampleRate))
	if err != nil {
		return fmt.Errorf("measure %s: %w", c.Master, err)
	}
	rc.logger.Debug("master measured", "file", c.Master, "lufs", mm.LUFS, "rms", mm.RMS, "score", mm.Score())

	rows := make([]cli.StemSummary, 0, len(c.Stems))
	for _, path := range c.Stems {
		stem, err := audiofile.Read(path)
		if err != nil {
			return err
		}
		sm, err := stemgain.Measure(stem.Channels, float64(stem.SampleRate))
		if err != nil {
			return fmt.Errorf("measure %s: %w", path, err)
		}

		gain := stemgain.Adjustment(mm, sm)
		rc.logger.Info("stem calibrated", "file", path, "lufs", sm.LUFS, "gain_db", gain)
		rows = append(rows, cli.StemSummary{
			Stem:   filepath.Base(path),
			GainDB: gain,
			LUFS:   sm.LUFS,
			RMSDB:  loudness.RMSDB(loudness.Downmix(stem.Channels)),
		})

		if c.Apply {
			if err := c.writeCalibrated(rc, path, stem, gain); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(rc.stdout, cli.RenderCalibration(filepath.Base(c.Master), mm.LUFS, rows))
	return nil
}

func (c *calibrateCmd) writeCalibrated(rc *runContext, path string, stem *audiofile.Buffer, gainDB float64) error {
	clipped := 0
	for _, ch := range stem.Channels {
		clipped += stemgain.Apply(ch, gainDB)
	}
	if clipped > 0 {
		rc.logger.Warn("calibrated stem clipped", "file", path, "samples", clipped)
	}

	bitDepth := stem.BitDepth
	if bitDepth != 16 {
		bitDepth = outputBitDepth
	}
	out := calibratedPath(path, c.OutDir)
	if err := audiofile.WriteWAV(out, stem, bitDepth); err != nil {
		return err
	}
	rc.logger.Info("wrote calibrated stem", "file", out)
	return nil
}

func calibratedPath(input, outDir string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name+"_Calibrated.wav")
}

type presetCmd struct {
	Output string `short:"o" placeholder:"PATH" help:"Write to a file instead of stdout."`
}

func (c *presetCmd) Run(rc *runContext) error {
	cfg := vocalchain.DefaultConfig()
	if c.Output == "" {
		return vocalchain.WriteConfig(rc.stdout, cfg)
	}
	return writeConfigFile(c.Output, cfg)
}
