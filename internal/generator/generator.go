// Package generator turns a text prompt into a die-cut sticker image.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/maax3v3/diecut/internal/datauri"
)

var (
	// ErrEmptyPrompt is returned when the prompt is blank.
	ErrEmptyPrompt = errors.New("prompt is required")

	// ErrGeneration wraps every failure of the remote model.
	ErrGeneration = errors.New("sticker generation failed")

	// ErrNoImage is returned when the model answers without an image.
	ErrNoImage = errors.New("no image data found in the response")
)

// DefaultModel is the Gemini model used for sticker generation.
const DefaultModel = "gemini-2.5-flash-image"

// SystemInstruction steers the model towards die-cut stickers on white.
const SystemInstruction = `You are a specialized Sticker Generation AI.
Your task is to generate prompts for an image generation model to create high-quality, die-cut stickers.
Ensure the subject is isolated on a pure white background.
The style should be distinct, with bold lines and vibrant colors typical of stickers.
Add a white border outline (die-cut) around the subject.`

// Generator produces a sticker image for a prompt and theme. The result is
// a data URI.
type Generator interface {
	Generate(ctx context.Context, prompt string, theme Theme) (string, error)
}

// Prompt builds the full model prompt for a subject in a theme.
func Prompt(subject string, theme Theme) string {
	return fmt.Sprintf("A high-quality, vector-style die-cut sticker of %s. "+
		"Style: %s. "+
		"Features: Clean thick white border surrounding the subject, isolated on a pure white background, "+
		"flat 2D vector art or high-quality illustration depending on style, no shadows on the background, bold colors.",
		strings.TrimSpace(subject), theme)
}

// Gemini generates stickers with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini generator. An empty model selects DefaultModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("apiKey is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{client: client, model: model}, nil
}

// Generate implements Generator.
func (g *Gemini) Generate(ctx context.Context, prompt string, theme Theme) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	res, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(prompt, theme)), requestConfig())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return imageFromResponse(res)
}

// requestConfig sends SystemInstruction with every request so the model
// keeps the background pure white, which the corner flood fill relies on.
func requestConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
	}
}

// imageFromResponse returns the first inline image of the first candidate.
func imageFromResponse(res *genai.GenerateContentResponse) (string, error) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0] == nil || res.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, ErrNoImage)
	}

	for _, part := range res.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		mime := part.InlineData.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		return datauri.Encode(mime, part.InlineData.Data), nil
	}

	return "", fmt.Errorf("%w: %w", ErrGeneration, ErrNoImage)
}
