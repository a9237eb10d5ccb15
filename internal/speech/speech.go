package speech

import "context"

// Transcriber converts an audio recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Synthesizer renders text to speech. Implementations write the rendered
// audio to basePath plus a format extension (".mp3" for the delivered file;
// a ".wav" intermediate may also appear and is cleaned up by the caller).
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, basePath string) error
}
