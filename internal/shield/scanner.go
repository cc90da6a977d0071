package shield

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ScamReport is the verdict for a suspicious message.
type ScamReport struct {
	IsScam      bool     `json:"isScam"`
	Confidence  float64  `json:"confidence"`
	Explanation string   `json:"explanation"`
	RedFlags    []string `json:"redFlags"`
	SafeAction  string   `json:"safeAction"`
}

// FallbackReport is returned whenever the scan cannot complete. It leans cautious.
func FallbackReport() ScamReport {
	return ScamReport{
		IsScam:      true,
		Confidence:  0.5,
		Explanation: "Shield's scan hit a snag, but this message looks suspicious. Better safe than sorry.",
		RedFlags:    []string{"System timeout during scan", "Ambiguous pattern detected"},
		SafeAction:  "Don't click anything and block the sender just in case.",
	}
}

var errNoJSON = errors.New("no JSON object in response")

// Scanner audits messages for phishing, malware bait and social engineering.
type Scanner struct {
	gen    ContentGenerator
	model  string
	logger *zap.Logger
}

// NewScanner constructs a Scanner. An empty model selects DefaultScanModel.
func NewScanner(gen ContentGenerator, model string, logger *zap.Logger) *Scanner {
	if model == "" {
		model = DefaultScanModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{gen: gen, model: model, logger: logger}
}

// Analyze returns the model's verdict for message, or FallbackReport on any failure.
func (s *Scanner) Analyze(ctx context.Context, message string) ScamReport {
	report, err := s.analyze(ctx, message)
	if err != nil {
		s.logger.Warn("scam scan failed", zap.String("model", s.model), zap.Error(err))
		return FallbackReport()
	}
	return report
}

func (s *Scanner) analyze(ctx context.Context, message string) (ScamReport, error) {
	if s.gen == nil {
		return ScamReport{}, ErrNoAPIKey
	}
	prompt := fmt.Sprintf(`Perform a tactical security audit on this message. Target audience: teenager.
Analyze for phishing, malware bait, social engineering or grooming patterns.
Message: %q`, message)
	resp, err := s.gen.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   scamReportSchema(),
	})
	if err != nil {
		return ScamReport{}, err
	}
	raw, err := extractJSON(resp.Text())
	if err != nil {
		return ScamReport{}, err
	}
	var report ScamReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return ScamReport{}, fmt.Errorf("decode scan report: %w", err)
	}
	report.Confidence = min(1, max(0, report.Confidence))
	return report, nil
}

// extractJSON returns the outermost {...} span, tolerating markdown fences around it.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", errNoJSON
	}
	return text[start : end+1], nil
}

func scamReportSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"isScam": {
				Type:        genai.TypeBoolean,
				Description: "Whether the message is malicious or suspicious.",
			},
			"confidence": {
				Type:        genai.TypeNumber,
				Description: "Confidence score between 0 and 1.",
			},
			"explanation": {
				Type:        genai.TypeString,
				Description: "Teen-friendly explanation of why it's a scam or safe.",
			},
			"redFlags": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Specific red flags found.",
			},
			"safeAction": {
				Type:        genai.TypeString,
				Description: "The immediate action the user should take.",
			},
		},
		Required: []string{"isScam", "confidence", "explanation", "redFlags", "safeAction"},
	}
}
