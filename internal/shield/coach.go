package shield

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	coachInstruction = "You are 'Shield', an elite cyber-defense coach for teenagers. Use modern lingo but keep it " +
		"professional and authoritative. Use markdown for structure. Keep responses punchy and helpful. " +
		"Never give dangerous advice."

	emptyReply    = "I'm recalibrating my data streams. Hit me up again in a sec."
	lockdownReply = "Shield is currently in high-sec lock-down. Check back later."
)

// Coach answers security questions.
type Coach struct {
	gen    ContentGenerator
	model  string
	logger *zap.Logger
}

// NewCoach constructs a Coach. An empty model selects DefaultCoachModel.
func NewCoach(gen ContentGenerator, model string, logger *zap.Logger) *Coach {
	if model == "" {
		model = DefaultCoachModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coach{gen: gen, model: model, logger: logger}
}

// Advise returns the coach's answer. Failures yield a fixed lock-down reply.
func (c *Coach) Advise(ctx context.Context, query string) string {
	if c.gen == nil {
		c.logger.Warn("coach unavailable", zap.Error(ErrNoAPIKey))
		return lockdownReply
	}
	resp, err := c.gen.GenerateContent(ctx, c.model, genai.Text(query), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(coachInstruction, genai.RoleUser),
	})
	if err != nil {
		c.logger.Warn("coach request failed", zap.String("model", c.model), zap.Error(err))
		return lockdownReply
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return emptyReply
	}
	return text
}
