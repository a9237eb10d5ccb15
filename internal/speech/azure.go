package speech

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	logx "github.com/atendai-core/server/pkg/logger"
)

const azureOutputFormat = "audio-16khz-128kbitrate-mono-mp3"

// AzureSynthesizer renders speech through the Azure Cognitive Services TTS
// REST endpoint and writes the result as <basePath>.mp3.
type AzureSynthesizer struct {
	key    string
	region string
	voice  string
	client *http.Client
}

func NewAzureSynthesizer(key, region, voice string) *AzureSynthesizer {
	return &AzureSynthesizer{
		key:    key,
		region: region,
		voice:  voice,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *AzureSynthesizer) Synthesize(ctx context.Context, text string, basePath string) error {
	body, err := ssml(a.voice, text)
	if err != nil {
		return fmt.Errorf("build ssml: %w", err)
	}

	url := fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", a.region)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build tts request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", a.key)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", azureOutputFormat)

	resp, err := a.client.Do(req)
	if err != nil {
		logx.Error().Err(err).Str("region", a.region).Msg("tts request failed")
		return fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logx.Error().Int("status", resp.StatusCode).Str("body", string(snippet)).Msg("tts request rejected")
		return fmt.Errorf("tts request: unexpected status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read tts response: %w", err)
	}
	if err := os.WriteFile(basePath+".mp3", audio, 0o644); err != nil {
		return fmt.Errorf("write audio file: %w", err)
	}
	return nil
}

func ssml(voice, text string) ([]byte, error) {
	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(text)); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<speak version='1.0' xml:lang='pt-BR'><voice name='%s'>%s</voice></speak>`,
		voice, escaped.String())
	return buf.Bytes(), nil
}

var _ Synthesizer = (*AzureSynthesizer)(nil)
