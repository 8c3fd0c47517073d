// Command scribe transcribes audio files and attributes speech to
// speakers. It drives a faster-whisper sidecar for transcription and,
// when diarization is enabled, a WavLM embedding/clustering pair with a
// pyannote pipeline as fallback.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillsenselab/scribe/clustering/sidecar"
	"github.com/skillsenselab/scribe/config"
	"github.com/skillsenselab/scribe/diarization"
	"github.com/skillsenselab/scribe/diarization/pyannote"
	diarwavlm "github.com/skillsenselab/scribe/diarization/wavlm"
	"github.com/skillsenselab/scribe/embedding"
	"github.com/skillsenselab/scribe/embedding/wavlm"
	"github.com/skillsenselab/scribe/logger"
	"github.com/skillsenselab/scribe/orchestrator"
	"github.com/skillsenselab/scribe/output"
	"github.com/skillsenselab/scribe/transcription"
	"github.com/skillsenselab/scribe/transcription/whisper"
	"github.com/skillsenselab/scribe/version"
)

const pollInterval = 500 * time.Millisecond

func main() {
	configFile := flag.String("config", "", "path to config.yml")
	outDir := flag.String("out", "", "output directory (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("scribe", version.Get())
		return
	}

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: scribe [flags] <audio-file>...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scribe: %v\n", err)
		os.Exit(1)
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}

	logger.Init(cfg.Logging)
	log := logger.GetGlobalLogger()

	treg := transcription.NewRegistry()
	treg.RegisterFactory(whisper.ProviderName, whisper.Factory())
	transcriber, err := treg.Create(whisper.ProviderName, map[string]any{
		"url":      cfg.Transcription.BaseURL,
		"model":    cfg.Transcription.Model,
		"language": cfg.Transcription.Language,
	})
	if err != nil {
		log.Fatal("could not build transcription backend", logger.Fields(logger.FieldError, err.Error()))
	}

	var diarizer orchestrator.Diarizer
	if cfg.Diarization.Enabled {
		ereg := embedding.NewRegistry()
		ereg.RegisterFactory(wavlm.ProviderName, wavlm.Factory())
		embedder, err := ereg.Create(wavlm.ProviderName, map[string]any{"url": cfg.Diarization.EmbeddingURL})
		if err != nil {
			log.Fatal("could not build embedding backend", logger.Fields(logger.FieldError, err.Error()))
		}
		clusterer := sidecar.NewClient(sidecar.Config{URL: cfg.Diarization.ClusterURL})

		dreg := diarization.NewRegistry()
		dreg.RegisterFactory(pyannote.ProviderName, pyannote.Factory())
		pyan, err := dreg.Create(pyannote.ProviderName, map[string]any{
			"base_url":   cfg.Diarization.Pyannote.BaseURL,
			"auth_token": cfg.Diarization.Pyannote.AuthToken,
		})
		if err != nil {
			log.Fatal("could not build pyannote backend", logger.Fields(logger.FieldError, err.Error()))
		}
		dreg.Set(pyannote.ProviderName, pyan)
		dreg.Set(diarwavlm.ProviderName, diarwavlm.NewDiarizer(diarwavlm.Config{
			WindowSize:   cfg.Diarization.WindowSize,
			WindowStride: cfg.Diarization.WindowStride,
		}, embedder, clusterer))

		diarizer = diarization.NewChainFromRegistry(dreg, diarwavlm.ProviderName, pyannote.ProviderName)
	}

	writer := output.NewWriter(cfg.Output.Dir, output.Format(cfg.Output.Format))

	orch := orchestrator.New(transcriber, diarizer, writer, orchestrator.Options{
		Transcription: transcription.Request{
			Language:     cfg.Transcription.Language,
			Model:        cfg.Transcription.Model,
			BeamSize:     cfg.Transcription.BeamSize,
			VADFilter:    cfg.Transcription.VADFilter,
			MinSilenceMS: cfg.Transcription.MinSilenceMS,
		},
		DiarizationEnabled: cfg.Diarization.Enabled,
		RequestedSpeakers:  cfg.Diarization.RequestedSpeakers,
	})

	if err := orch.Start(context.Background(), files); err != nil {
		log.Fatal("could not start run", logger.Fields(logger.FieldError, err.Error()))
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("interrupt received, stopping after the current file")
		orch.Stop()
	}()

	done := make(chan struct{})
	go func() {
		orch.Wait()
		close(done)
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
poll:
	for {
		select {
		case <-done:
			break poll
		case <-ticker.C:
			snap := orch.Snapshot()
			if snap.State == orchestrator.StateTranscribing || snap.State == orchestrator.StateDiarizing {
				log.Info("progress", logger.Fields(
					logger.FieldFile, snap.CurrentFile,
					logger.FieldStage, string(snap.State),
					"percent", fmt.Sprintf("%.0f", snap.Progress),
					logger.FieldSegments, snap.Processed,
				))
			}
		}
	}

	snap := orch.Snapshot()
	for _, fe := range snap.Errors {
		log.Error("file failed", logger.Fields(logger.FieldFile, fe.File, logger.FieldError, fe.Err.Error()))
	}
	log.Info("run finished", logger.Fields(
		"state", string(snap.State),
		"written", len(snap.Outputs),
		"failed", len(snap.Errors),
	))
	if len(snap.Errors) > 0 {
		os.Exit(1)
	}
}
