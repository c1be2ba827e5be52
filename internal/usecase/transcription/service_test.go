package transcription

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	"github.com/anujdevsingh/gram-panchayat/internal/domain/repositories"
)

type fakeIssueRepo struct {
	pending []*entities.Issue
	updated []*entities.Issue
}

func (f *fakeIssueRepo) Create(ctx context.Context, issue *entities.Issue) error { return nil }
func (f *fakeIssueRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Issue, error) {
	return nil, nil
}
func (f *fakeIssueRepo) Update(ctx context.Context, issue *entities.Issue) error {
	f.updated = append(f.updated, issue)
	return nil
}
func (f *fakeIssueRepo) List(ctx context.Context, filters repositories.IssueFilters) ([]*entities.Issue, int64, error) {
	return nil, 0, nil
}
func (f *fakeIssueRepo) FindReadyForSummary(ctx context.Context, panchayatID uuid.UUID) ([]*entities.Issue, error) {
	return nil, nil
}
func (f *fakeIssueRepo) FindPendingTranscriptions(ctx context.Context, limit int) ([]*entities.Issue, error) {
	return f.pending, nil
}
func (f *fakeIssueRepo) UpdateStatusByIDs(ctx context.Context, ids []string, status entities.IssueStatus) error {
	return nil
}
func (f *fakeIssueRepo) SetSummarizedByIDs(ctx context.Context, ids []string, summarized bool) error {
	return nil
}
func (f *fakeIssueRepo) SetDescriptions(ctx context.Context, descriptions map[string]entities.LanguageMap) error {
	return nil
}

type fakeStore struct{}

func (f *fakeStore) PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	return "http://files.local/" + objectKey, nil
}

type fakeTranslator struct {
	calls      int
	err        error
	lastSource string
	lastTarget string
}

func (f *fakeTranslator) Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error) {
	f.calls++
	f.lastSource = sourceLanguage
	f.lastTarget = targetLanguage
	if f.err != nil {
		return "", f.err
	}
	return "[en] " + text, nil
}

func audioIssue() *entities.Issue {
	issue := entities.NewIssue(uuid.New(), uuid.New(), uuid.New(), entities.CategoryInfrastructure, "roads")
	issue.Attachments = entities.AttachmentList{
		{ObjectKey: "issues/" + issue.ID.String() + "/audio.mp3", MimeType: "audio/mpeg", UploadedAt: time.Now()},
	}
	return issue
}

func newTestService(repo *fakeIssueRepo, tr *fakeTranslator, serverURL string) Service {
	asm := aai.NewClientWithOptions(aai.WithBaseURL(serverURL), aai.WithAPIKey("test-key"))
	return NewService(repo, &fakeStore{}, asm, tr, zap.NewNop())
}

func TestProcessPendingResubmitsRetryableFailure(t *testing.T) {
	var submits int
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		submits++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "t-new", "status": "queued"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	issue := audioIssue()
	issue.Transcription.Status = entities.TranscriptionStatusFailed
	issue.Transcription.RequestID = "t-old"
	issue.Transcription.RetryCount = 1
	issue.Transcription.LastError = "upstream timeout"

	repo := &fakeIssueRepo{pending: []*entities.Issue{issue}}
	svc := newTestService(repo, &fakeTranslator{}, server.URL)

	require.NoError(t, svc.ProcessPending(context.Background()))

	assert.Equal(t, 1, submits)
	assert.Equal(t, entities.TranscriptionStatusProcessing, issue.Transcription.Status)
	assert.Equal(t, "t-new", issue.Transcription.RequestID)
	assert.Empty(t, issue.Transcription.LastError)
	assert.Equal(t, 1, issue.Transcription.RetryCount)
	require.Len(t, repo.updated, 1)
}

func TestProcessPendingSkipsExhaustedFailure(t *testing.T) {
	var submits int
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		submits++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "t-new", "status": "queued"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	issue := audioIssue()
	issue.Transcription.Status = entities.TranscriptionStatusFailed
	issue.Transcription.RetryCount = entities.TranscriptionMaxRetries

	repo := &fakeIssueRepo{pending: []*entities.Issue{issue}}
	svc := newTestService(repo, &fakeTranslator{}, server.URL)

	require.NoError(t, svc.ProcessPending(context.Background()))

	assert.Zero(t, submits)
	assert.Equal(t, entities.TranscriptionStatusFailed, issue.Transcription.Status)
	assert.Empty(t, repo.updated)
}

func TestPollCompletedTranslatesTranscript(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/transcript/t-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":            "t-1",
			"status":        "completed",
			"text":          "सड़क खराब है",
			"language_code": "hi",
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	issue := audioIssue()
	issue.Transcription.Status = entities.TranscriptionStatusProcessing
	issue.Transcription.RequestID = "t-1"

	translator := &fakeTranslator{}
	repo := &fakeIssueRepo{pending: []*entities.Issue{issue}}
	svc := newTestService(repo, translator, server.URL)

	require.NoError(t, svc.ProcessPending(context.Background()))

	assert.Equal(t, entities.TranscriptionStatusCompleted, issue.Transcription.Status)
	assert.Equal(t, "सड़क खराब है", issue.Transcription.Text)
	assert.Equal(t, "सड़क खराब है", issue.Transcription.EnhancedHindi)
	assert.Equal(t, "[en] सड़क खराब है", issue.Transcription.EnhancedEnglish)
	assert.Equal(t, "hi", translator.lastSource)
	assert.Equal(t, "en", translator.lastTarget)
	assert.Equal(t, "[en] सड़क खराब है", issue.Transcription.SummaryText())
}

func TestPollCompletedEnglishTranscriptNeedsNoTranslation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/transcript/t-2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":            "t-2",
			"status":        "completed",
			"text":          "the road is broken",
			"language_code": "en_us",
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	issue := audioIssue()
	issue.Transcription.Status = entities.TranscriptionStatusProcessing
	issue.Transcription.RequestID = "t-2"

	translator := &fakeTranslator{}
	repo := &fakeIssueRepo{pending: []*entities.Issue{issue}}
	svc := newTestService(repo, translator, server.URL)

	require.NoError(t, svc.ProcessPending(context.Background()))

	assert.Equal(t, "the road is broken", issue.Transcription.EnhancedEnglish)
	assert.Zero(t, translator.calls)
}

func TestPollCompletedSurvivesTranslationFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/transcript/t-3", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":            "t-3",
			"status":        "completed",
			"text":          "सड़क खराब है",
			"language_code": "hi",
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	issue := audioIssue()
	issue.Transcription.Status = entities.TranscriptionStatusProcessing
	issue.Transcription.RequestID = "t-3"

	translator := &fakeTranslator{err: context.DeadlineExceeded}
	repo := &fakeIssueRepo{pending: []*entities.Issue{issue}}
	svc := newTestService(repo, translator, server.URL)

	require.NoError(t, svc.ProcessPending(context.Background()))

	assert.Equal(t, entities.TranscriptionStatusCompleted, issue.Transcription.Status)
	assert.Empty(t, issue.Transcription.EnhancedEnglish)
	// SummaryText falls back to the raw transcript
	assert.Equal(t, "सड़क खराब है", issue.Transcription.SummaryText())
}

func TestPollErrorMarksFailedAndCountsRetry(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/transcript/t-4", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "t-4",
			"status": "error",
			"error":  "audio unreadable",
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	issue := audioIssue()
	issue.Transcription.Status = entities.TranscriptionStatusProcessing
	issue.Transcription.RequestID = "t-4"

	repo := &fakeIssueRepo{pending: []*entities.Issue{issue}}
	svc := newTestService(repo, &fakeTranslator{}, server.URL)

	require.NoError(t, svc.ProcessPending(context.Background()))

	assert.Equal(t, entities.TranscriptionStatusFailed, issue.Transcription.Status)
	assert.Equal(t, 1, issue.Transcription.RetryCount)
	assert.Contains(t, issue.Transcription.LastError, "audio unreadable")
	assert.True(t, issue.Transcription.IsRetryable())
}
