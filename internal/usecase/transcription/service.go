package transcription

import (
	"context"
	"fmt"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	domainrepo "github.com/anujdevsingh/gram-panchayat/internal/domain/repositories"
	"github.com/anujdevsingh/gram-panchayat/internal/infrastructure/external/translator"
)

const presignExpiry = 2 * time.Hour

// ObjectStore hands out download URLs the speech-to-text service can fetch
type ObjectStore interface {
	PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}

// Service drives the issue audio transcription pipeline: submitting pending
// recordings to AssemblyAI, polling requests still in flight and resubmitting
// failed ones while retry budget remains. It runs as one periodic job.
type Service interface {
	ProcessPending(ctx context.Context) error
}

type service struct {
	issues     domainrepo.IssueRepository
	store      ObjectStore
	asm        *aai.Client
	translator translator.Client
	logger     *zap.Logger
}

// NewService constructs the transcription service
func NewService(issues domainrepo.IssueRepository, store ObjectStore, asm *aai.Client, tr translator.Client, logger *zap.Logger) Service {
	return &service{
		issues:     issues,
		store:      store,
		asm:        asm,
		translator: tr,
		logger:     logger,
	}
}

func (s *service) ProcessPending(ctx context.Context) error {
	issues, err := s.issues.FindPendingTranscriptions(ctx, 50)
	if err != nil {
		return err
	}

	for _, issue := range issues {
		if err := ctx.Err(); err != nil {
			return err
		}
		var procErr error
		switch issue.Transcription.Status {
		case entities.TranscriptionStatusPending:
			procErr = s.submit(ctx, issue)
		case entities.TranscriptionStatusProcessing:
			procErr = s.poll(ctx, issue)
		case entities.TranscriptionStatusFailed:
			if issue.Transcription.IsRetryable() {
				procErr = s.submit(ctx, issue)
			}
		}
		if procErr != nil {
			s.logger.Error("transcription processing failed",
				zap.String("issue_id", issue.ID.String()),
				zap.String("transcription_status", string(issue.Transcription.Status)),
				zap.Error(procErr),
			)
		}
	}
	return nil
}

func (s *service) submit(ctx context.Context, issue *entities.Issue) error {
	audioKey := firstAudioKey(issue.Attachments)
	if audioKey == "" {
		// Text-only issue; nothing to transcribe.
		issue.Transcription.Status = entities.TranscriptionStatusCompleted
		now := time.Now()
		issue.Transcription.CompletedAt = &now
		return s.issues.Update(ctx, issue)
	}

	audioURL, err := s.store.PresignedURL(ctx, audioKey, presignExpiry)
	if err != nil {
		return err
	}

	var transcriptID string
	submitFn := func() error {
		transcript, err := s.asm.Transcripts.SubmitFromURL(ctx, audioURL, &aai.TranscriptOptionalParams{
			LanguageDetection: aai.Bool(true),
			SpeakerLabels:     aai.Bool(false),
		})
		if err != nil {
			return err
		}
		if transcript.ID != nil {
			transcriptID = *transcript.ID
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(submitFn, backoff.WithContext(bo, ctx)); err != nil {
		issue.Transcription.Status = entities.TranscriptionStatusFailed
		issue.Transcription.RetryCount++
		issue.Transcription.LastError = err.Error()
		if updateErr := s.issues.Update(ctx, issue); updateErr != nil {
			return updateErr
		}
		return err
	}

	now := time.Now()
	issue.Transcription.RequestID = transcriptID
	issue.Transcription.Status = entities.TranscriptionStatusProcessing
	issue.Transcription.Provider = "assemblyai"
	issue.Transcription.RequestedAt = &now
	issue.Transcription.LastError = ""
	if err := s.issues.Update(ctx, issue); err != nil {
		return err
	}

	s.logger.Info("transcription submitted",
		zap.String("issue_id", issue.ID.String()),
		zap.String("transcript_id", transcriptID),
	)
	return nil
}

func (s *service) poll(ctx context.Context, issue *entities.Issue) error {
	if issue.Transcription.RequestID == "" {
		issue.Transcription.Status = entities.TranscriptionStatusFailed
		issue.Transcription.LastError = "processing transcription has no request id"
		return s.issues.Update(ctx, issue)
	}

	transcript, err := s.asm.Transcripts.Get(ctx, issue.Transcription.RequestID)
	if err != nil {
		// Might be a transient API error; the next tick retries.
		return err
	}

	switch transcript.Status {
	case aai.TranscriptStatusCompleted:
		now := time.Now()
		if transcript.Text != nil {
			issue.Transcription.Text = *transcript.Text
		}
		if transcript.LanguageCode != "" {
			issue.Transcription.Language = string(transcript.LanguageCode)
		}
		s.enhance(ctx, issue)
		issue.Transcription.Status = entities.TranscriptionStatusCompleted
		issue.Transcription.CompletedAt = &now
		issue.Transcription.LastError = ""
		if err := s.issues.Update(ctx, issue); err != nil {
			return err
		}
		s.logger.Info("transcription completed",
			zap.String("issue_id", issue.ID.String()),
			zap.String("transcript_id", issue.Transcription.RequestID),
		)
		return nil

	case aai.TranscriptStatusError:
		msg := "transcription failed"
		if transcript.Error != nil {
			msg = fmt.Sprintf("transcription failed: %s", *transcript.Error)
		}
		issue.Transcription.Status = entities.TranscriptionStatusFailed
		issue.Transcription.RetryCount++
		issue.Transcription.LastError = msg
		return s.issues.Update(ctx, issue)

	default:
		// Queued or still processing.
		return nil
	}
}

// enhance fills the English rendering of the transcript that the summarizer
// consumes. A translation failure leaves the field empty; SummaryText falls
// back to the raw text.
func (s *service) enhance(ctx context.Context, issue *entities.Issue) {
	tr := &issue.Transcription
	if tr.Text == "" {
		return
	}
	lang := entities.LanguageCode(tr.Language)
	if lang == "" || strings.HasPrefix(lang, "en") {
		tr.EnhancedEnglish = tr.Text
		return
	}
	if strings.HasPrefix(lang, "hi") {
		tr.EnhancedHindi = tr.Text
	}
	if s.translator == nil {
		return
	}
	english, err := s.translator.Translate(ctx, tr.Text, lang, "en")
	if err != nil {
		s.logger.Warn("transcript translation failed",
			zap.String("issue_id", issue.ID.String()),
			zap.String("source_language", lang),
			zap.Error(err),
		)
		return
	}
	tr.EnhancedEnglish = english
}

// firstAudioKey finds the first audio attachment's object key
func firstAudioKey(attachments entities.AttachmentList) string {
	for _, attachment := range attachments {
		if strings.HasPrefix(attachment.MimeType, "audio/") {
			return attachment.ObjectKey
		}
	}
	return ""
}
