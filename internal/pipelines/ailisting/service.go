package ailisting

import (
	"context"
	"strings"
	"sync"

	"kalastra-backend/internal/common/errors"
	"kalastra-backend/internal/common/logger"
	"kalastra-backend/internal/common/metrics"
	"kalastra-backend/internal/models"
)

// Transcriber is the speech-to-text contract: one raw audio buffer in,
// best-effort plain text out.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Enricher is the generative-text contract: combined narrative in, complete
// structured listing or typed error out.
type Enricher interface {
	Enrich(ctx context.Context, narrative string) (*models.StructuredListing, error)
}

// ImageStore persists submitted product photos. Optional; image storage is
// best-effort and never blocks listing generation.
type ImageStore interface {
	SaveListingImage(ctx context.Context, submissionID string, index int, filename string, data []byte) (string, error)
}

type ServiceDependencies struct {
	Transcriber Transcriber
	Enricher    Enricher
	Images      ImageStore
	Logger      logger.Logger
}

// Service runs the listing assembly pipeline: fan-out transcription over the
// answer set, ordered join, single enrichment call.
type Service struct {
	transcriber Transcriber
	enricher    Enricher
	images      ImageStore
	config      *Config
	logger      logger.Logger
}

func NewService(deps ServiceDependencies, cfg *Config) *Service {
	return &Service{
		transcriber: deps.Transcriber,
		enricher:    deps.Enricher,
		images:      deps.Images,
		config:      cfg,
		logger:      deps.Logger.WithFields(map[string]interface{}{"pipeline": PipelineName}),
	}
}

// Assemble turns a validated submission into a structured listing.
//
// Stages: fan-out transcription over all clips (join, not race), ordered
// concatenation into the combined narrative, empty-narrative guard, one
// enrichment call. No retries here; retry policy lives in the adapters so
// the caller can attribute failures to the right stage.
func (s *Service) Assemble(ctx context.Context, sub *Submission) (*Output, error) {
	transcripts := s.transcribeAll(ctx, sub.Answers)

	narrative := joinTranscripts(transcripts)
	if narrative == "" {
		s.logger.Error("all clips failed to transcribe", map[string]interface{}{
			"submissionId": sub.ID,
			"clips":        len(sub.Answers),
		})
		return nil, errors.NewTranscriptionTotalFailureError(len(sub.Answers))
	}

	enrichCtx, cancel := context.WithTimeout(ctx, s.config.EnrichmentTimeout)
	defer cancel()

	listing, err := s.enricher.Enrich(enrichCtx, narrative)
	if err != nil {
		return nil, err
	}

	out := &Output{StructuredListing: *listing}
	out.ImageURLs = s.storeImages(ctx, sub)

	s.logger.Info("listing generated", map[string]interface{}{
		"submissionId": sub.ID,
		"clips":        len(sub.Answers),
		"images":       len(sub.Images),
		"category":     listing.Category,
	})
	return out, nil
}

// transcribeAll runs one transcription call per clip concurrently. Each
// goroutine writes only its own slot, so the gather needs no locking, and the
// join waits for every call to settle; a slow clip is never dropped. Clip
// failures degrade to an empty transcript instead of aborting the submission.
func (s *Service) transcribeAll(ctx context.Context, answers []AnswerClip) []string {
	results := make([]string, len(answers))

	var wg sync.WaitGroup
	for i, clip := range answers {
		wg.Add(1)
		go func(slot int, clip AnswerClip) {
			defer wg.Done()

			clipCtx, cancel := context.WithTimeout(ctx, s.config.TranscriptionTimeout)
			defer cancel()

			text, err := s.transcriber.Transcribe(clipCtx, clip.Data)
			if err != nil {
				s.logger.Warn("clip transcription failed", map[string]interface{}{
					"questionIndex": clip.Index,
					"error":         err.Error(),
				})
				metrics.TranscriptionClipsTotal.WithLabelValues("failed").Inc()
				return
			}
			if strings.TrimSpace(text) == "" {
				metrics.TranscriptionClipsTotal.WithLabelValues("empty").Inc()
				return
			}
			metrics.TranscriptionClipsTotal.WithLabelValues("ok").Inc()
			results[slot] = text
		}(i, clip)
	}
	wg.Wait()

	return results
}

// joinTranscripts concatenates transcripts with newline separators, skipping
// clips that produced nothing. Slots arrive already ordered by question index.
func joinTranscripts(transcripts []string) string {
	lines := make([]string, 0, len(transcripts))
	for _, t := range transcripts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		lines = append(lines, t)
	}
	return strings.Join(lines, "\n")
}

// storeImages uploads attached photos best-effort. The bytes are never
// analyzed; they are kept for the seller's future listing record.
func (s *Service) storeImages(ctx context.Context, sub *Submission) []string {
	if s.images == nil || len(sub.Images) == 0 {
		return nil
	}

	urls := make([]string, 0, len(sub.Images))
	for _, img := range sub.Images {
		url, err := s.images.SaveListingImage(ctx, sub.ID, img.Index, img.Filename, img.Data)
		if err != nil {
			s.logger.Warn("image upload failed", map[string]interface{}{
				"submissionId": sub.ID,
				"imageIndex":   img.Index,
				"error":        err.Error(),
			})
			continue
		}
		urls = append(urls, url)
	}
	return urls
}
