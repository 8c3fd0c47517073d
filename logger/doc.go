// Package logger provides structured logging for the transcription engine,
// built on zerolog.
//
// A single global logger is initialized from config; components obtain a
// tagged child logger via Get:
//
//	log := logger.Get("diarization")
//	log.Info("windows clustered", logger.Fields("windows", 42, "speakers", 2))
package logger
