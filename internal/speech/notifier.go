package speech

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// DefaultVoice is reported when the engine cannot enumerate its voices.
var DefaultVoice = Voice{Index: 0, Name: "Default Voice", ID: "default"}

// Notifier speaks messages with explicit per-call settings. It holds no
// mutable engine state, so scheduled and manual calls never interfere.
type Notifier struct {
	engine   Engine
	defaults Params
	logger   *zap.SugaredLogger
}

// NewNotifier wraps engine. defaults are used by Announce and as the
// fallback voice when a requested voice index does not exist.
func NewNotifier(engine Engine, defaults Params, logger *zap.SugaredLogger) *Notifier {
	return &Notifier{engine: engine, defaults: defaults, logger: logger}
}

// Defaults returns the configured default parameters.
func (n *Notifier) Defaults() Params {
	return n.defaults
}

// Speak says message with the given rate, volume and voice index. An index
// outside the installed voices keeps the default voice.
func (n *Notifier) Speak(ctx context.Context, message string, rate int, volume float64, voiceIndex int) error {
	if message == "" {
		return errors.New("message is empty")
	}

	p := Params{Rate: rate, Volume: volume, Voice: n.defaults.Voice}
	if voiceIndex >= 0 {
		if voices, err := n.engine.Voices(ctx); err == nil && voiceIndex < len(voices) {
			p.Voice = voices[voiceIndex].ID
		}
	}

	n.logger.Debugw("speaking", "message", message, "rate", p.Rate, "volume", p.Volume, "voice", p.Voice)
	return n.engine.Say(ctx, message, p)
}

// Announce speaks message with the default parameters.
func (n *Notifier) Announce(ctx context.Context, message string) error {
	if message == "" {
		return errors.New("message is empty")
	}
	return n.engine.Say(ctx, message, n.defaults)
}

// ListVoices returns the installed voices, or DefaultVoice alone when
// enumeration fails.
func (n *Notifier) ListVoices(ctx context.Context) []Voice {
	voices, err := n.engine.Voices(ctx)
	if err != nil {
		n.logger.Warnw("failed to list voices", "err", err)
		return []Voice{DefaultVoice}
	}
	if len(voices) == 0 {
		return []Voice{DefaultVoice}
	}
	return voices
}
