// Package speech turns reminder text into audible output through a
// text-to-speech engine.
package speech

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Params are the per-utterance engine settings.
type Params struct {
	Rate   int     // words per minute
	Volume float64 // 0.0 - 1.0, values above 1 amplify
	Voice  string  // engine voice id, empty for the engine default
}

// Voice describes one installed engine voice.
type Voice struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	ID    string `json:"id"`
}

// Engine is a blocking speech capability.
type Engine interface {
	// Say returns once playback has finished.
	Say(ctx context.Context, text string, p Params) error
	Voices(ctx context.Context) ([]Voice, error)
}

// CommandEngine drives an espeak-compatible command line tool
// (espeak-ng, espeak).
type CommandEngine struct {
	Command string
}

// NewCommandEngine returns an engine that runs command.
func NewCommandEngine(command string) *CommandEngine {
	return &CommandEngine{Command: command}
}

func (e *CommandEngine) Say(ctx context.Context, text string, p Params) error {
	args := []string{}
	if p.Rate > 0 {
		args = append(args, "-s", strconv.Itoa(p.Rate))
	}
	args = append(args, "-a", strconv.Itoa(amplitude(p.Volume)))
	if p.Voice != "" {
		args = append(args, "-v", p.Voice)
	}
	args = append(args, "--", text)

	cmd := exec.CommandContext(ctx, e.Command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s failed: %w: %s", e.Command, err, msg)
		}
		return fmt.Errorf("%s failed: %w", e.Command, err)
	}
	return nil
}

func (e *CommandEngine) Voices(ctx context.Context) ([]Voice, error) {
	out, err := exec.CommandContext(ctx, e.Command, "--voices").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list voices: %w", err)
	}
	return parseVoices(out), nil
}

// amplitude maps a 0-1 volume onto espeak's 0-200 amplitude scale, where
// 100 is normal loudness.
func amplitude(volume float64) int {
	a := int(volume*100 + 0.5)
	if a < 0 {
		return 0
	}
	if a > 200 {
		return 200
	}
	return a
}

// parseVoices reads `espeak --voices` output:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  af              --/M      Afrikaans          gmw/af
func parseVoices(out []byte) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(bytes.NewReader(out))
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			continue
		}
		voices = append(voices, Voice{
			Index: len(voices),
			Name:  strings.ReplaceAll(fields[3], "_", " "),
			ID:    fields[1],
		})
	}
	return voices
}
