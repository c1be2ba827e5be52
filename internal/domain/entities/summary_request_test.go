package entities

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryRequestRetryLifecycle(t *testing.T) {
	request := NewSummaryRequest(uuid.New(), SummaryRequestTypeCreate, "req-1", "http://s/1", "http://r/1")
	assert.Equal(t, SummaryRequestStatusProcessing, request.Status)
	assert.False(t, request.IsRetryable())

	request.MarkAsFailed("upstream timeout")
	require.NotNil(t, request.LastError)
	assert.Equal(t, "upstream timeout", *request.LastError)
	assert.True(t, request.IsRetryable())

	request.MarkAsResubmitted("req-2", "http://s/2", "http://r/2")
	assert.Equal(t, SummaryRequestStatusProcessing, request.Status)
	assert.Equal(t, "req-2", request.RequestID)
	assert.Equal(t, 1, request.RetryCount)
	assert.Nil(t, request.LastError)
	require.NotNil(t, request.LastRetryAt)

	// Retry cap: after max_retries failures the request stays dead
	request.MarkAsFailed("again")
	request.MarkAsResubmitted("req-3", "http://s/3", "http://r/3")
	request.MarkAsFailed("again")
	request.MarkAsResubmitted("req-4", "http://s/4", "http://r/4")
	request.MarkAsFailed("again")
	assert.Equal(t, 3, request.RetryCount)
	assert.False(t, request.IsRetryable())
}

func TestSummaryRequestCompletedIsTerminal(t *testing.T) {
	request := NewSummaryRequest(uuid.New(), SummaryRequestTypeUpdate, "req-9", "http://s", "http://r")
	request.MarkAsCompleted()
	assert.Equal(t, SummaryRequestStatusCompleted, request.Status)
	assert.False(t, request.IsRetryable())
}

func TestIssueReadyForSummary(t *testing.T) {
	issue := NewIssue(uuid.New(), uuid.New(), uuid.New(), CategoryInfrastructure, "roads")
	assert.False(t, issue.ReadyForSummary())

	issue.Transcription.Status = TranscriptionStatusCompleted
	assert.True(t, issue.ReadyForSummary())

	issue.IsSummarized = true
	assert.False(t, issue.ReadyForSummary())
}

func TestTranscriptionSummaryTextPrefersEnhancedEnglish(t *testing.T) {
	tr := Transcription{Text: "raw text"}
	assert.Equal(t, "raw text", tr.SummaryText())

	tr.EnhancedEnglish = "cleaned up text"
	assert.Equal(t, "cleaned up text", tr.SummaryText())
}

func TestTranscriptionIsRetryable(t *testing.T) {
	tr := Transcription{Status: TranscriptionStatusFailed}
	assert.True(t, tr.IsRetryable())

	tr.RetryCount = TranscriptionMaxRetries
	assert.False(t, tr.IsRetryable())

	tr = Transcription{Status: TranscriptionStatusProcessing, RetryCount: 1}
	assert.False(t, tr.IsRetryable())
}
