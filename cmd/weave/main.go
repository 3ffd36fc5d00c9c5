// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/camtimeline/weaver/internal/clip"
	xglog "github.com/camtimeline/weaver/internal/log"
	"github.com/camtimeline/weaver/internal/pattern"
	"github.com/camtimeline/weaver/internal/prober"
	"github.com/camtimeline/weaver/internal/render"
	"github.com/camtimeline/weaver/internal/report"
	"github.com/camtimeline/weaver/internal/settings"
	"github.com/camtimeline/weaver/internal/weavetime"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// probeConcurrency bounds how many ffprobe invocations run at once while
// scanning an input directory.
const probeConcurrency = 4

var (
	version   = "v0.1.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	inputDir := flag.String("input-dir", "", "directory of source clips to scan recursively")
	configPath := flag.String("config", "", "path to RenderSettings YAML file")
	customPattern := flag.String("filename-pattern", "", "optional custom regex for filename resolution")
	ffmpegBin := flag.String("ffmpeg", "ffmpeg", "external render tool binary")
	ffprobeBin := flag.String("ffprobe", "ffprobe", "external probe tool binary")
	cachePath := flag.String("probe-cache", "", "optional path to a probe cache database")
	reportCSVPath := flag.String("report-csv", "", "optional path to write a CSV report")
	reportJSONPath := flag.String("report-json", "", "optional path to write a JSON report")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	xglog.Configure(xglog.Config{Level: "info", Service: "weaver", Version: version})
	logger := xglog.WithComponent("weave")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *inputDir == "" {
		logger.Fatal().Msg("-input-dir is required")
	}

	rs := settings.Defaults()
	if *configPath != "" {
		loaded, err := settings.Load(*configPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *configPath).Msg("failed to load RenderSettings")
		}
		rs = loaded
	}
	if rs.OutputPath == "" {
		logger.Fatal().Msg("output_path must be set via -config")
	}

	now := time.Now()
	defaultDate := weavetime.Date{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}

	clips, err := scanClips(ctx, *inputDir, *ffprobeBin, *cachePath, defaultDate, *customPattern, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to scan input directory")
	}
	if len(clips) == 0 {
		logger.Fatal().Msg("no usable clips found under input-dir")
	}

	pipeline := render.New(*ffmpegBin)
	progress := func(fraction float64) {
		logger.Info().Float64("fraction", fraction).Msg("render progress")
	}

	outputPath, err := pipeline.Render(ctx, clips, rs, ctx.Done(), progress)
	if err != nil {
		logger.Fatal().Err(err).Msg("render failed")
	}
	logger.Info().Str("output_path", outputPath).Msg("render complete")

	records := report.FromClipRecords(clips)
	if *reportCSVPath != "" {
		if err := report.WriteCSV(*reportCSVPath, records); err != nil {
			logger.Error().Err(err).Msg("failed to write CSV report")
		}
	}
	if *reportJSONPath != "" {
		if err := report.WriteJSON(*reportJSONPath, records); err != nil {
			logger.Error().Err(err).Msg("failed to write JSON report")
		}
	}
}

// scanClips walks inputDir for files the filename pattern resolver can
// parse, probes each with the external probe tool, and assembles the
// admitted ClipRecords. Files that don't match any pattern are silently
// skipped; files that match but fail assembly are logged and dropped.
func scanClips(ctx context.Context, inputDir, ffprobeBin, cachePath string, defaultDate weavetime.Date, customPattern string, logger zerolog.Logger) ([]clip.ClipRecord, error) {
	resolver, err := pattern.DefaultResolver(defaultDate, customPattern)
	if err != nil {
		return nil, fmt.Errorf("build filename resolver: %w", err)
	}

	var cache *prober.Cache
	if cachePath != "" {
		c, err := prober.OpenCache(cachePath)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to open probe cache; continuing without it")
		} else {
			cache = c
			defer cache.Close()
		}
	}
	probeTool := prober.New(ffprobeBin, cache)

	var paths []string
	walkErr := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		paths = append(paths, path)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk input directory: %w", walkErr)
	}

	var candidates []string
	for _, path := range paths {
		if _, err := resolver.Resolve(filepath.Base(path)); err == nil {
			candidates = append(candidates, path)
		}
	}

	inputs := make([]clip.Input, len(candidates))
	ok := make([]bool, len(candidates))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(probeConcurrency)
	for i, path := range candidates {
		group.Go(func() error {
			fields, _ := resolver.Resolve(filepath.Base(path))
			result, err := probeTool.Probe(groupCtx, path)
			if err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("probe failed; clip excluded")
				return nil
			}
			inputs[i] = clip.Input{SourcePath: path, Fields: fields, Probe: clip.ProbeResult(result)}
			ok[i] = true
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("scan input directory: %w", err)
	}

	admitted := inputs[:0]
	for i, in := range inputs {
		if ok[i] {
			admitted = append(admitted, in)
		}
	}
	inputs = admitted

	records, skipped := clip.AssembleAll(inputs)
	for _, err := range skipped {
		logger.Warn().Err(err).Msg("clip dropped during assembly")
	}
	return records, nil
}
