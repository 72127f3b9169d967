package reply

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/reply-studio/backend/internal/model/style"
)

// Transcript is the session history a Generator reads from and appends to.
type Transcript interface {
	RenderForPrompt() string
	Append(incomingMessage, reply string)
}

// Config fixes the model parameters used for every generation.
type Config struct {
	Model       string
	Temperature float32
}

// GenerationError reports a failed call to the text-generation service.
type GenerationError struct {
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate reply with %s: %v", e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Generator turns an incoming message into one styled reply.
// It keeps no per-session state; the transcript is passed on every call.
type Generator struct {
	completer Completer
	cfg       Config
	logger    *zap.Logger
}

// NewGenerator creates a Generator. A nil logger disables logging.
func NewGenerator(completer Completer, cfg Config, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		completer: completer,
		cfg:       cfg,
		logger:    logger.Named("reply"),
	}
}

// Config returns the fixed model parameters.
func (g *Generator) Config() Config {
	return g.cfg
}

// Preview renders the prompt the next Generate call would send, without sending it.
func (g *Generator) Preview(history Transcript, message string, params style.Parameters) string {
	return RenderPrompt(NewPromptFields(history.RenderForPrompt(), message, params))
}

// Generate renders the prompt from the history as it is before this turn,
// asks the completer for a reply and appends the exchange on success.
// On failure the transcript is left untouched and a *GenerationError is returned.
func (g *Generator) Generate(ctx context.Context, history Transcript, message string, params style.Parameters) (string, error) {
	prompt := g.Preview(history, message, params)

	started := time.Now()
	reply, err := g.completer.Complete(ctx, Request{
		Prompt:      prompt,
		Model:       g.cfg.Model,
		Temperature: g.cfg.Temperature,
	})
	if err == nil && strings.TrimSpace(reply) == "" {
		err = ErrEmptyCompletion
	}
	if err != nil {
		g.logger.Warn("generation failed",
			zap.String("model", g.cfg.Model),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err),
		)
		return "", &GenerationError{Model: g.cfg.Model, Err: err}
	}

	history.Append(message, reply)

	g.logger.Info("generated reply",
		zap.String("model", g.cfg.Model),
		zap.String("emotion", string(params.Emotion)),
		zap.String("tone", string(params.Tone)),
		zap.Int("prompt_len", len(prompt)),
		zap.Int("reply_len", len(reply)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return reply, nil
}
