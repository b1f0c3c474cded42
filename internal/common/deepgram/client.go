// Package deepgram wraps the speech-to-text vendor behind a narrow
// bytes-in / text-out contract so the pipelines never see vendor shapes.
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"kalastra-backend/internal/common/config"
	commonhttp "kalastra-backend/internal/common/http"
	"kalastra-backend/internal/common/logger"
)

type Client struct {
	cfg        config.DeepgramConfig
	httpClient *commonhttp.Client
	logger     logger.Logger
}

func NewClient(cfg config.DeepgramConfig, log logger.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: commonhttp.NewClient(time.Duration(cfg.Timeout) * time.Millisecond),
		logger:     log.WithFields(map[string]interface{}{"vendor": "deepgram"}),
	}
}

// listenResponse mirrors the vendor's prerecorded-audio response; only the
// transcript path is read.
type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe sends one raw audio buffer for transcription and returns the
// best-effort transcript. Audio bytes are forwarded opaquely; the vendor is
// responsible for format detection.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("empty audio buffer")
	}

	endpoint := fmt.Sprintf("%s/v1/listen?model=%s&smart_format=true&language=%s",
		c.cfg.BaseURL, url.QueryEscape(c.cfg.Model), url.QueryEscape(c.cfg.Language))

	var transcript string
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(audio))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Token "+c.cfg.APIKey)
		req.Header.Set("Content-Type", "application/octet-stream")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			return fmt.Errorf("transcription server error: status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("transcription rejected: status %d body=%s",
				resp.StatusCode, string(body)))
		}

		var parsed listenResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return backoff.Permanent(fmt.Errorf("transcription decode error: %w", err))
		}

		transcript = firstTranscript(&parsed)
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = time.Duration(c.cfg.Timeout) * time.Millisecond
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return "", err
	}
	return transcript, nil
}

func firstTranscript(r *listenResponse) string {
	if len(r.Results.Channels) == 0 {
		return ""
	}
	ch := r.Results.Channels[0]
	if len(ch.Alternatives) == 0 {
		return ""
	}
	return ch.Alternatives[0].Transcript
}
