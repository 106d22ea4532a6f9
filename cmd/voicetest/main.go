// voicetest exercises the speech-recognition pipeline outside the app: it
// streams a recorded audio file (or the live recorder) to the configured
// recognition endpoint and prints what comes back.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/assistant-app/console/internal/config"
	"github.com/assistant-app/console/internal/voice"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] no .env file, using process environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	audioPath := flag.String("audio", "", "audio file to stream instead of the live recorder")
	endpoint := flag.String("url", cfg.Speech.RecognizeURL, "recognition websocket endpoint")
	language := flag.String("lang", cfg.Speech.Language, "recognition language tag")
	timeout := flag.Duration("timeout", 45*time.Second, "session timeout")
	flag.Parse()

	if *endpoint == "" {
		log.Fatal("no recognition endpoint: pass -url or set ASSISTANT_SPEECH_URL")
	}

	rec := voice.New(voice.Config{
		URL:      *endpoint,
		Language: *language,
		Recorder: cfg.Speech.Recorder,
	})

	if *audioPath != "" {
		rec.SetAudioSource(func(ctx context.Context) (io.ReadCloser, error) {
			return os.Open(*audioPath)
		})
	}

	done := make(chan struct{})
	rec.OnResult = func(text string) {
		log.Printf("partial: %q", text)
	}
	rec.OnTranscript = func(text string) {
		log.Printf("transcript: %q", text)
		close(done)
	}
	rec.OnError = func(err error) {
		log.Printf("session error: %v", err)
		close(done)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	log.Printf("starting recognition: url=%s lang=%s", *endpoint, *language)
	if err := rec.Start(ctx); err != nil {
		if errors.Is(err, voice.ErrUnsupported) {
			log.Fatal("voice capture is not available: configure ASSISTANT_SPEECH_URL and install a recorder, or pass -audio")
		}
		log.Fatalf("start recognition: %v", err)
	}
	defer rec.Close()

	select {
	case <-done:
	case <-ctx.Done():
		log.Fatal("recognition session timed out")
	}
}
