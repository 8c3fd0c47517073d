package diarization

import (
	"context"

	"github.com/skillsenselab/scribe/logger"
	"github.com/skillsenselab/scribe/provider"
	"github.com/skillsenselab/scribe/transcript"
)

// Chain is the fallback policy over diarization backends, evaluated per
// file in a fixed priority order. The first backend that is available and
// produces a speaker signal is authoritative. A backend error, like a
// backend that comes back empty-handed, is logged and causes fallthrough
// to the next backend, never an aborted file. When every backend is
// exhausted the chain reports no speaker signal.
type Chain struct {
	providers map[string]Provider
	selector  *provider.PrioritySelector[Provider]
	log       *logger.Logger
}

// NewChain creates a Chain trying the given providers in order.
func NewChain(providers ...Provider) *Chain {
	byName := make(map[string]Provider, len(providers))
	priority := make([]string, 0, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
		priority = append(priority, p.Name())
	}
	return &Chain{
		providers: byName,
		selector:  &provider.PrioritySelector[Provider]{Priority: priority},
		log:       logger.Get("diarization"),
	}
}

// NewChainFromRegistry creates a Chain over the registry's cached
// instances, tried in the given priority order. Names without a cached
// instance are skipped.
func NewChainFromRegistry(reg *provider.Registry[Provider], priority ...string) *Chain {
	var providers []Provider
	for _, name := range priority {
		if p, ok := reg.Get(name); ok {
			providers = append(providers, p)
		}
	}
	return NewChain(providers...)
}

// Diarize runs the fallback policy. The selector hands over the highest-
// priority backend that is still reachable; a backend gets one attempt
// per file. The returned response always has a valid Result; its kind is
// ResultNone when no backend produced a signal.
func (c *Chain) Diarize(ctx context.Context, req Request) *Response {
	remaining := make(map[string]Provider, len(c.providers))
	for name, p := range c.providers {
		remaining[name] = p
	}

	for len(remaining) > 0 {
		p, err := c.selector.Select(ctx, remaining)
		if err != nil {
			c.log.Debug("no remaining backend available", logger.Fields(logger.FieldError, err.Error()))
			break
		}
		delete(remaining, p.Name())

		resp, err := p.Diarize(ctx, req)
		if err != nil {
			c.log.Warn("backend failed, falling through",
				logger.Fields(logger.FieldProvider, p.Name(), logger.FieldError, err.Error()))
			continue
		}
		if resp.Result.Kind() == transcript.ResultNone {
			c.log.Debug("backend produced no signal, falling through",
				logger.Fields(logger.FieldProvider, p.Name()))
			continue
		}

		c.log.Info("speaker signal produced", logger.Fields(
			logger.FieldProvider, p.Name(),
			logger.FieldSpeakers, resp.NumSpeakers,
			"result", resp.Result.Kind().String(),
		))
		return resp
	}

	c.log.Info("no diarization backend produced a signal")
	return &Response{Result: transcript.NoSignal()}
}
