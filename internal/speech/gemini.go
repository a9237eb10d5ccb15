package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logx "github.com/atendai-core/server/pkg/logger"
	"google.golang.org/genai"
)

const defaultTranscriptionModel = "gemini-2.5-flash"

// transcriptionInstruction keeps the model from editorialising: we want the
// literal words only, in the language spoken.
const transcriptionInstruction = "Transcribe this audio verbatim. Reply with the transcription text only, no commentary."

// GeminiTranscriber transcribes audio through the Gemini audio-understanding
// API over a shared genai client.
type GeminiTranscriber struct {
	client *genai.Client
	model  string
}

// NewGeminiTranscriber builds a transcriber with its own genai client.
func NewGeminiTranscriber(ctx context.Context, apiKey, baseURL, model string) (*GeminiTranscriber, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client for transcription")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}
	if model == "" {
		model = defaultTranscriptionModel
	}
	return &GeminiTranscriber{client: client, model: model}, nil
}

func (g *GeminiTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(data, audioMIMEType(audioPath)),
		genai.NewPartFromText(transcriptionInstruction),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		logx.Error().Err(err).Str("file", audioPath).Msg("transcription request failed")
		return "", fmt.Errorf("transcribe audio: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

func audioMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".m4a", ".aac":
		return "audio/aac"
	case ".flac":
		return "audio/flac"
	default:
		return "audio/ogg"
	}
}

var _ Transcriber = (*GeminiTranscriber)(nil)
