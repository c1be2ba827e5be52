package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	"github.com/anujdevsingh/gram-panchayat/internal/domain/repositories"
	"github.com/anujdevsingh/gram-panchayat/internal/infrastructure/external/summarizer"
)

type fakePanchayats struct {
	items []*entities.Panchayat
}

func (f *fakePanchayats) Create(ctx context.Context, p *entities.Panchayat) error { return nil }
func (f *fakePanchayats) Update(ctx context.Context, p *entities.Panchayat) error { return nil }
func (f *fakePanchayats) Delete(ctx context.Context, id uuid.UUID) error          { return nil }
func (f *fakePanchayats) FindByID(ctx context.Context, id uuid.UUID) (*entities.Panchayat, error) {
	for _, p := range f.items {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}
func (f *fakePanchayats) ListAll(ctx context.Context) ([]*entities.Panchayat, error) {
	return f.items, nil
}
func (f *fakePanchayats) CreateWard(ctx context.Context, w *entities.Ward) error { return nil }
func (f *fakePanchayats) ListWards(ctx context.Context, id uuid.UUID) ([]*entities.Ward, error) {
	return nil, nil
}

type fakeIssues struct {
	ready map[uuid.UUID][]*entities.Issue

	summarizedIDs   []string
	summarizedValue bool
	descriptions    map[string]entities.LanguageMap
}

func (f *fakeIssues) Create(ctx context.Context, i *entities.Issue) error { return nil }
func (f *fakeIssues) Update(ctx context.Context, i *entities.Issue) error { return nil }
func (f *fakeIssues) FindByID(ctx context.Context, id uuid.UUID) (*entities.Issue, error) {
	return nil, nil
}
func (f *fakeIssues) List(ctx context.Context, filters repositories.IssueFilters) ([]*entities.Issue, int64, error) {
	return nil, 0, nil
}
func (f *fakeIssues) FindReadyForSummary(ctx context.Context, panchayatID uuid.UUID) ([]*entities.Issue, error) {
	return f.ready[panchayatID], nil
}
func (f *fakeIssues) FindPendingTranscriptions(ctx context.Context, limit int) ([]*entities.Issue, error) {
	return nil, nil
}
func (f *fakeIssues) UpdateStatusByIDs(ctx context.Context, ids []string, status entities.IssueStatus) error {
	return nil
}
func (f *fakeIssues) SetSummarizedByIDs(ctx context.Context, ids []string, summarized bool) error {
	f.summarizedIDs = ids
	f.summarizedValue = summarized
	return nil
}
func (f *fakeIssues) SetDescriptions(ctx context.Context, descriptions map[string]entities.LanguageMap) error {
	f.descriptions = descriptions
	return nil
}

type fakeAggregates struct {
	byPanchayat map[uuid.UUID]*entities.IssueSummary
	saved       *entities.IssueSummary
}

func (f *fakeAggregates) FindByPanchayat(ctx context.Context, panchayatID uuid.UUID) (*entities.IssueSummary, error) {
	return f.byPanchayat[panchayatID], nil
}
func (f *fakeAggregates) SaveWithFlags(ctx context.Context, s *entities.IssueSummary, unlinkedIDs, linkedIDs []string) error {
	return nil
}
func (f *fakeAggregates) SaveWithStatuses(ctx context.Context, s *entities.IssueSummary, claimedIDs, returnedIDs []string) error {
	return nil
}
func (f *fakeAggregates) DeleteWithFlags(ctx context.Context, panchayatID uuid.UUID) (bool, error) {
	return false, nil
}
func (f *fakeAggregates) Save(ctx context.Context, s *entities.IssueSummary) error {
	f.saved = s
	return nil
}
func (f *fakeAggregates) ListAll(ctx context.Context) ([]*entities.IssueSummary, error) {
	return nil, nil
}

type fakeRequests struct {
	inflight   map[uuid.UUID]*entities.SummaryRequest
	processing []*entities.SummaryRequest
	retryable  []*entities.SummaryRequest

	created []*entities.SummaryRequest
	updated []*entities.SummaryRequest
}

func (f *fakeRequests) Create(ctx context.Context, r *entities.SummaryRequest) error {
	f.created = append(f.created, r)
	return nil
}
func (f *fakeRequests) FindProcessingByPanchayat(ctx context.Context, panchayatID uuid.UUID) (*entities.SummaryRequest, error) {
	return f.inflight[panchayatID], nil
}
func (f *fakeRequests) ListProcessing(ctx context.Context) ([]*entities.SummaryRequest, error) {
	return f.processing, nil
}
func (f *fakeRequests) ListRetryable(ctx context.Context) ([]*entities.SummaryRequest, error) {
	return f.retryable, nil
}
func (f *fakeRequests) Update(ctx context.Context, r *entities.SummaryRequest) error {
	f.updated = append(f.updated, r)
	return nil
}

type fakeClient struct {
	generateCalls int
	updateCalls   int
	lastLanguage  string
	lastIssues    []summarizer.IssueInput
	lastAgenda    []summarizer.AgendaContext
	submitErr     error

	status *summarizer.StatusResponse
	result *summarizer.Result
}

func (f *fakeClient) GenerateAgenda(ctx context.Context, language string, issues []summarizer.IssueInput) (*summarizer.SubmitResponse, error) {
	f.generateCalls++
	f.lastLanguage = language
	f.lastIssues = issues
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &summarizer.SubmitResponse{RequestID: "req-new", StatusURL: "http://s", ResultURL: "http://r"}, nil
}

func (f *fakeClient) UpdateAgenda(ctx context.Context, language string, issues []summarizer.IssueInput, currentAgenda []summarizer.AgendaContext) (*summarizer.SubmitResponse, error) {
	f.updateCalls++
	f.lastLanguage = language
	f.lastIssues = issues
	f.lastAgenda = currentAgenda
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &summarizer.SubmitResponse{RequestID: "req-upd", StatusURL: "http://s", ResultURL: "http://r"}, nil
}

func (f *fakeClient) CheckStatus(ctx context.Context, statusURL string) (*summarizer.StatusResponse, error) {
	if f.status == nil {
		return nil, errors.New("no status configured")
	}
	return f.status, nil
}

func (f *fakeClient) FetchResult(ctx context.Context, resultURL string) (*summarizer.Result, error) {
	if f.result == nil {
		return nil, errors.New("no result configured")
	}
	return f.result, nil
}

func readyIssue(panchayatID uuid.UUID, text string) *entities.Issue {
	issue := entities.NewIssue(panchayatID, uuid.New(), uuid.New(), entities.CategoryInfrastructure, "roads")
	issue.Transcription.Status = entities.TranscriptionStatusCompleted
	issue.Transcription.Text = text
	return issue
}

func newTestService(panchayats *fakePanchayats, issues *fakeIssues, aggregates *fakeAggregates, requests *fakeRequests, client *fakeClient) Service {
	return NewService(panchayats, issues, aggregates, requests, client, zap.NewNop())
}

func TestInitiateRequestsSkipsInflightPanchayat(t *testing.T) {
	panchayat := entities.NewPanchayat("Rampur", "UP", "Sitapur", "hindi")
	requests := &fakeRequests{
		inflight: map[uuid.UUID]*entities.SummaryRequest{
			panchayat.ID: entities.NewSummaryRequest(panchayat.ID, entities.SummaryRequestTypeCreate, "req-1", "s", "r"),
		},
	}
	client := &fakeClient{}
	svc := newTestService(
		&fakePanchayats{items: []*entities.Panchayat{panchayat}},
		&fakeIssues{ready: map[uuid.UUID][]*entities.Issue{panchayat.ID: {readyIssue(panchayat.ID, "x")}}},
		&fakeAggregates{},
		requests,
		client,
	)

	require.NoError(t, svc.InitiateRequests(context.Background()))
	assert.Zero(t, client.generateCalls)
	assert.Empty(t, requests.created)
}

func TestInitiateRequestsSkipsWhenNoReadyIssues(t *testing.T) {
	panchayat := entities.NewPanchayat("Rampur", "UP", "Sitapur", "hindi")
	requests := &fakeRequests{}
	client := &fakeClient{}
	svc := newTestService(
		&fakePanchayats{items: []*entities.Panchayat{panchayat}},
		&fakeIssues{},
		&fakeAggregates{},
		requests,
		client,
	)

	require.NoError(t, svc.InitiateRequests(context.Background()))
	assert.Zero(t, client.generateCalls)
	assert.Empty(t, requests.created)
}

func TestInitiateRequestsSubmitsCreate(t *testing.T) {
	panchayat := entities.NewPanchayat("Rampur", "UP", "Sitapur", "Hindi")
	issue := readyIssue(panchayat.ID, "the road is flooded")
	issue.Transcription.EnhancedEnglish = "The main road is flooded."
	requests := &fakeRequests{}
	client := &fakeClient{}
	svc := newTestService(
		&fakePanchayats{items: []*entities.Panchayat{panchayat}},
		&fakeIssues{ready: map[uuid.UUID][]*entities.Issue{panchayat.ID: {issue}}},
		&fakeAggregates{},
		requests,
		client,
	)

	require.NoError(t, svc.InitiateRequests(context.Background()))

	assert.Equal(t, 1, client.generateCalls)
	assert.Zero(t, client.updateCalls)
	assert.Equal(t, "hindi", client.lastLanguage)
	require.Len(t, client.lastIssues, 1)
	assert.Equal(t, issue.ID.String(), client.lastIssues[0].ID)
	// enhanced English transcription is preferred as summarizer input
	assert.Equal(t, "The main road is flooded.", client.lastIssues[0].TranscriptionText)

	require.Len(t, requests.created, 1)
	created := requests.created[0]
	assert.Equal(t, entities.SummaryRequestTypeCreate, created.RequestType)
	assert.Equal(t, "req-new", created.RequestID)
	assert.Equal(t, entities.SummaryRequestStatusProcessing, created.Status)
}

func TestInitiateRequestsSubmitsUpdateWhenSystemItemsExist(t *testing.T) {
	panchayat := entities.NewPanchayat("Rampur", "UP", "Sitapur", "hindi")
	aggregate := entities.NewIssueSummary(panchayat.ID)
	aggregate.AgendaItems = entities.AgendaItemList{
		entities.NewSystemAgendaItem(entities.LanguageMap{"en": "Roads"}, nil, []string{"i1"}),
	}
	requests := &fakeRequests{}
	client := &fakeClient{}
	svc := newTestService(
		&fakePanchayats{items: []*entities.Panchayat{panchayat}},
		&fakeIssues{ready: map[uuid.UUID][]*entities.Issue{panchayat.ID: {readyIssue(panchayat.ID, "x")}}},
		&fakeAggregates{byPanchayat: map[uuid.UUID]*entities.IssueSummary{panchayat.ID: aggregate}},
		requests,
		client,
	)

	require.NoError(t, svc.InitiateRequests(context.Background()))

	assert.Equal(t, 1, client.updateCalls)
	assert.Zero(t, client.generateCalls)
	require.Len(t, client.lastAgenda, 1)
	assert.Equal(t, "Roads", client.lastAgenda[0].Title)
	assert.Equal(t, []string{"i1"}, client.lastAgenda[0].LinkedIssues)
	require.Len(t, requests.created, 1)
	assert.Equal(t, entities.SummaryRequestTypeUpdate, requests.created[0].RequestType)
}

func TestFetchResultsStillProcessingLeavesRequestAlone(t *testing.T) {
	request := entities.NewSummaryRequest(uuid.New(), entities.SummaryRequestTypeCreate, "req-1", "s", "r")
	requests := &fakeRequests{processing: []*entities.SummaryRequest{request}}
	client := &fakeClient{status: &summarizer.StatusResponse{Status: summarizer.StatusProcessing}}
	svc := newTestService(&fakePanchayats{}, &fakeIssues{}, &fakeAggregates{}, requests, client)

	require.NoError(t, svc.FetchResults(context.Background()))
	assert.Empty(t, requests.updated)
	assert.Equal(t, entities.SummaryRequestStatusProcessing, request.Status)
}

func TestFetchResultsMarksFailedStatus(t *testing.T) {
	request := entities.NewSummaryRequest(uuid.New(), entities.SummaryRequestTypeCreate, "req-1", "s", "r")
	requests := &fakeRequests{processing: []*entities.SummaryRequest{request}}
	client := &fakeClient{status: &summarizer.StatusResponse{Status: summarizer.StatusFailed, Error: "model timeout"}}
	svc := newTestService(&fakePanchayats{}, &fakeIssues{}, &fakeAggregates{}, requests, client)

	require.NoError(t, svc.FetchResults(context.Background()))

	require.Len(t, requests.updated, 1)
	assert.Equal(t, entities.SummaryRequestStatusFailed, request.Status)
	require.NotNil(t, request.LastError)
	assert.Equal(t, "model timeout", *request.LastError)
}

func TestFetchResultsFailsOnBadLLMStatus(t *testing.T) {
	request := entities.NewSummaryRequest(uuid.New(), entities.SummaryRequestTypeCreate, "req-1", "s", "r")
	requests := &fakeRequests{processing: []*entities.SummaryRequest{request}}
	client := &fakeClient{
		status: &summarizer.StatusResponse{Status: summarizer.StatusCompleted},
		result: &summarizer.Result{LLMStatus: "error"},
	}
	svc := newTestService(&fakePanchayats{}, &fakeIssues{}, &fakeAggregates{}, requests, client)

	require.NoError(t, svc.FetchResults(context.Background()))

	require.Len(t, requests.updated, 1)
	assert.Equal(t, entities.SummaryRequestStatusFailed, request.Status)
}

func TestFetchResultsFoldsCompletedResult(t *testing.T) {
	panchayatID := uuid.New()
	request := entities.NewSummaryRequest(panchayatID, entities.SummaryRequestTypeCreate, "req-1", "s", "r")

	author := uuid.New()
	aggregate := entities.NewIssueSummary(panchayatID)
	aggregate.AgendaItems = entities.AgendaItemList{
		entities.NewUserAgendaItem(entities.LanguageMap{"en": "Road repair"}, nil, []string{"u1"}, author),
		entities.NewSystemAgendaItem(entities.LanguageMap{"en": "Stale topic"}, nil, []string{"old1"}),
	}
	aggregate.RecomputeIssues()

	issues := &fakeIssues{}
	aggregates := &fakeAggregates{byPanchayat: map[uuid.UUID]*entities.IssueSummary{panchayatID: aggregate}}
	requests := &fakeRequests{processing: []*entities.SummaryRequest{request}}
	client := &fakeClient{
		status: &summarizer.StatusResponse{Status: summarizer.StatusCompleted},
		result: &summarizer.Result{
			LLMStatus: summarizer.LLMStatusSuccess,
			Agendas: map[string]string{
				"english": `[
					{"title": "Road repair", "issue_ids": {"i1": "duplicate of the user topic"}},
					{"title": "Water supply", "issue_ids": {"i2": "handpump broken"}}
				]`,
			},
		},
	}
	svc := newTestService(&fakePanchayats{}, issues, aggregates, requests, client)

	require.NoError(t, svc.FetchResults(context.Background()))

	assert.Equal(t, entities.SummaryRequestStatusCompleted, request.Status)

	saved := aggregates.saved
	require.NotNil(t, saved)
	// The user item survives, the old system item is replaced, and the new
	// system item with a matching English title is dropped.
	require.Len(t, saved.AgendaItems, 2)
	assert.Equal(t, entities.AgendaAuthorUser, saved.AgendaItems[0].CreatedByType)
	assert.Equal(t, "Road repair", saved.AgendaItems[0].Title["en"])
	assert.Equal(t, "Water supply", saved.AgendaItems[1].Title["en"])

	assert.ElementsMatch(t, []string{"u1", "i2"}, saved.Issues)
	assert.ElementsMatch(t, []string{"u1", "i2"}, issues.summarizedIDs)
	assert.True(t, issues.summarizedValue)
	assert.Equal(t, "handpump broken", issues.descriptions["i2"]["en"])
}

func TestRetryFailedPanchayatGone(t *testing.T) {
	request := entities.NewSummaryRequest(uuid.New(), entities.SummaryRequestTypeCreate, "req-1", "s", "r")
	request.MarkAsFailed("boom")
	requests := &fakeRequests{retryable: []*entities.SummaryRequest{request}}
	svc := newTestService(&fakePanchayats{}, &fakeIssues{}, &fakeAggregates{}, requests, &fakeClient{})

	require.NoError(t, svc.RetryFailed(context.Background()))

	require.Len(t, requests.updated, 1)
	assert.Equal(t, entities.SummaryRequestStatusFailed, request.Status)
	require.NotNil(t, request.LastError)
	assert.Equal(t, "panchayat no longer exists", *request.LastError)
}

func TestRetryFailedCompletesWhenNoIssuesLeft(t *testing.T) {
	panchayat := entities.NewPanchayat("Rampur", "UP", "Sitapur", "hindi")
	request := entities.NewSummaryRequest(panchayat.ID, entities.SummaryRequestTypeCreate, "req-1", "s", "r")
	request.MarkAsFailed("boom")
	requests := &fakeRequests{retryable: []*entities.SummaryRequest{request}}
	svc := newTestService(
		&fakePanchayats{items: []*entities.Panchayat{panchayat}},
		&fakeIssues{}, &fakeAggregates{}, requests, &fakeClient{},
	)

	require.NoError(t, svc.RetryFailed(context.Background()))
	assert.Equal(t, entities.SummaryRequestStatusCompleted, request.Status)
}

func TestRetryFailedUpdateWithoutSystemItems(t *testing.T) {
	panchayat := entities.NewPanchayat("Rampur", "UP", "Sitapur", "hindi")
	request := entities.NewSummaryRequest(panchayat.ID, entities.SummaryRequestTypeUpdate, "req-1", "s", "r")
	request.MarkAsFailed("boom")
	requests := &fakeRequests{retryable: []*entities.SummaryRequest{request}}
	svc := newTestService(
		&fakePanchayats{items: []*entities.Panchayat{panchayat}},
		&fakeIssues{ready: map[uuid.UUID][]*entities.Issue{panchayat.ID: {readyIssue(panchayat.ID, "x")}}},
		&fakeAggregates{},
		requests,
		&fakeClient{},
	)

	require.NoError(t, svc.RetryFailed(context.Background()))

	assert.Equal(t, entities.SummaryRequestStatusFailed, request.Status)
	require.NotNil(t, request.LastError)
	assert.Equal(t, "no system agenda items found to update", *request.LastError)
}

func TestRetryFailedResubmits(t *testing.T) {
	panchayat := entities.NewPanchayat("Rampur", "UP", "Sitapur", "hindi")
	request := entities.NewSummaryRequest(panchayat.ID, entities.SummaryRequestTypeCreate, "req-1", "s", "r")
	request.MarkAsFailed("boom")
	requests := &fakeRequests{retryable: []*entities.SummaryRequest{request}}
	client := &fakeClient{}
	svc := newTestService(
		&fakePanchayats{items: []*entities.Panchayat{panchayat}},
		&fakeIssues{ready: map[uuid.UUID][]*entities.Issue{panchayat.ID: {readyIssue(panchayat.ID, "x")}}},
		&fakeAggregates{},
		requests,
		client,
	)

	require.NoError(t, svc.RetryFailed(context.Background()))

	assert.Equal(t, 1, client.generateCalls)
	assert.Equal(t, entities.SummaryRequestStatusProcessing, request.Status)
	assert.Equal(t, "req-new", request.RequestID)
	assert.Equal(t, 1, request.RetryCount)
	assert.Nil(t, request.LastError)
}
