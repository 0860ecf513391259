package llm

import (
	"context"
	"errors"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

// Config carries everything the Vertex client needs. It is passed in
// explicitly at construction instead of being read from ambient globals.
type Config struct {
	ProjectID       string
	Location        string
	Model           string
	CredentialsFile string // optional, falls back to ADC
	Temperature     float32
}

type VertexGemini struct {
	client *vertexgenai.Client
	cfg    Config
}

func NewVertexGemini(ctx context.Context, cfg Config) (*VertexGemini, error) {
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	c, err := vertexgenai.NewClient(ctx, cfg.ProjectID, cfg.Location, opts...)
	if err != nil {
		return nil, err
	}
	return &VertexGemini{client: c, cfg: cfg}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Generate(ctx context.Context, req Request) (string, error) {
	m := v.client.GenerativeModel(v.cfg.Model)
	m.SetTemperature(v.cfg.Temperature)
	if req.MaxTokens > 0 {
		m.SetMaxOutputTokens(req.MaxTokens)
	}
	if req.JSONOutput {
		m.GenerationConfig.ResponseMIMEType = "application/json"
		m.GenerationConfig.ResponseSchema = evaluationSchema
	}

	resp, err := m.GenerateContent(ctx, vertexgenai.Text(req.Prompt))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", errors.New("llm: empty completion")
	}
	return out, nil
}

// evaluationSchema constrains the structured-output mode to the feedback
// object shape. Scores are integers; strengths and areasForImprovement are
// single comma-joined strings, not arrays.
var evaluationSchema = &vertexgenai.Schema{
	Type: vertexgenai.TypeObject,
	Properties: map[string]*vertexgenai.Schema{
		"technicalScore":      {Type: vertexgenai.TypeInteger},
		"communicationScore":  {Type: vertexgenai.TypeInteger},
		"problemSolvingScore": {Type: vertexgenai.TypeInteger},
		"overallFeedback":     {Type: vertexgenai.TypeString},
		"strengths":           {Type: vertexgenai.TypeString},
		"areasForImprovement": {Type: vertexgenai.TypeString},
	},
	Required: []string{
		"technicalScore", "communicationScore", "problemSolvingScore",
		"overallFeedback", "strengths", "areasForImprovement",
	},
}
