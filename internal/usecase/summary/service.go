package summary

import (
	"context"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	domainrepo "github.com/anujdevsingh/gram-panchayat/internal/domain/repositories"
	"github.com/anujdevsingh/gram-panchayat/internal/infrastructure/external/summarizer"
	"github.com/anujdevsingh/gram-panchayat/internal/usecase/agenda"
)

// retryDelay spaces out resubmissions within one retry batch so a burst of
// failed requests does not hammer the summarizer.
const retryDelay = 300 * time.Millisecond

// Service owns the scheduled summarization pipeline: initiating requests for
// panchayats with unsummarized issues, polling outstanding requests and
// folding completed results into the aggregate, and retrying failures.
type Service interface {
	// InitiateRequests submits a summarization request for every panchayat
	// that has eligible issues and no request already in flight.
	InitiateRequests(ctx context.Context) error

	// FetchResults polls every PROCESSING request and folds completed
	// results into the panchayat's aggregate.
	FetchResults(ctx context.Context) error

	// RetryFailed resubmits FAILED requests still below the retry cap.
	RetryFailed(ctx context.Context) error
}

type service struct {
	panchayats domainrepo.PanchayatRepository
	issues     domainrepo.IssueRepository
	summaries  domainrepo.IssueSummaryRepository
	requests   domainrepo.SummaryRequestRepository
	client     summarizer.Client
	logger     *zap.Logger
}

// NewService constructs the summarization job service
func NewService(
	panchayats domainrepo.PanchayatRepository,
	issues domainrepo.IssueRepository,
	summaries domainrepo.IssueSummaryRepository,
	requests domainrepo.SummaryRequestRepository,
	client summarizer.Client,
	logger *zap.Logger,
) Service {
	return &service{
		panchayats: panchayats,
		issues:     issues,
		summaries:  summaries,
		requests:   requests,
		client:     client,
		logger:     logger,
	}
}

func (s *service) InitiateRequests(ctx context.Context) error {
	panchayats, err := s.panchayats.ListAll(ctx)
	if err != nil {
		return err
	}

	for _, panchayat := range panchayats {
		if err := ctx.Err(); err != nil {
			return err
		}
		// One panchayat failing must not abort the batch.
		if err := s.initiateForPanchayat(ctx, panchayat); err != nil {
			s.logger.Error("summary initiation failed",
				zap.String("panchayat_id", panchayat.ID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *service) initiateForPanchayat(ctx context.Context, panchayat *entities.Panchayat) error {
	inflight, err := s.requests.FindProcessingByPanchayat(ctx, panchayat.ID)
	if err != nil {
		return err
	}
	if inflight != nil {
		return nil
	}

	issues, err := s.issues.FindReadyForSummary(ctx, panchayat.ID)
	if err != nil {
		return err
	}
	if len(issues) == 0 {
		return nil
	}

	systemItems, err := s.currentSystemItems(ctx, panchayat.ID)
	if err != nil {
		return err
	}

	requestType := entities.SummaryRequestTypeCreate
	if len(systemItems) > 0 {
		requestType = entities.SummaryRequestTypeUpdate
	}

	resp, err := s.submit(ctx, panchayat, requestType, issues, systemItems)
	if err != nil {
		return err
	}

	request := entities.NewSummaryRequest(panchayat.ID, requestType, resp.RequestID, resp.StatusURL, resp.ResultURL)
	if err := s.requests.Create(ctx, request); err != nil {
		return err
	}

	s.logger.Info("summary request submitted",
		zap.String("panchayat_id", panchayat.ID.String()),
		zap.String("request_id", resp.RequestID),
		zap.String("request_type", string(requestType)),
		zap.Int("issues", len(issues)),
	)
	return nil
}

func (s *service) FetchResults(ctx context.Context) error {
	requests, err := s.requests.ListProcessing(ctx)
	if err != nil {
		return err
	}

	for _, request := range requests {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.fetchResultForRequest(ctx, request); err != nil {
			s.logger.Error("summary result fetch failed",
				zap.String("request_id", request.RequestID),
				zap.String("panchayat_id", request.PanchayatID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *service) fetchResultForRequest(ctx context.Context, request *entities.SummaryRequest) error {
	status, err := s.client.CheckStatus(ctx, request.StatusURL)
	if err != nil {
		return err
	}

	switch status.Status {
	case summarizer.StatusCompleted:
	case summarizer.StatusFailed:
		msg := status.Error
		if msg == "" {
			msg = "summarization failed"
		}
		request.MarkAsFailed(msg)
		return s.requests.Update(ctx, request)
	default:
		// Still processing; next tick picks it up again.
		return nil
	}

	result, err := s.client.FetchResult(ctx, request.ResultURL)
	if err != nil {
		return err
	}
	if result.LLMStatus != summarizer.LLMStatusSuccess {
		request.MarkAsFailed(fmt.Sprintf("summarizer llm status %q", result.LLMStatus))
		return s.requests.Update(ctx, request)
	}

	outcome, err := foldResult(result)
	if err != nil {
		request.MarkAsFailed(err.Error())
		return s.requests.Update(ctx, request)
	}

	if err := s.applyOutcome(ctx, request.PanchayatID, outcome); err != nil {
		return err
	}

	request.MarkAsCompleted()
	if err := s.requests.Update(ctx, request); err != nil {
		return err
	}

	s.logger.Info("summary result folded",
		zap.String("request_id", request.RequestID),
		zap.String("panchayat_id", request.PanchayatID.String()),
		zap.Int("system_items", len(outcome.SystemItems)),
	)
	return nil
}

// applyOutcome merges the new SYSTEM items under any USER items already in
// the aggregate, dropping SYSTEM duplicates by English title, then flips the
// linked issues to summarized.
func (s *service) applyOutcome(ctx context.Context, panchayatID uuid.UUID, outcome *foldOutcome) error {
	aggregate, err := s.summaries.FindByPanchayat(ctx, panchayatID)
	if err != nil {
		return err
	}
	if aggregate == nil {
		aggregate = entities.NewIssueSummary(panchayatID)
	}

	userItems := aggregate.AgendaItems.UserItems()
	aggregate.AgendaItems = agenda.MergeSystemItems(userItems, outcome.SystemItems)
	aggregate.RecomputeIssues()

	if err := s.summaries.Save(ctx, aggregate); err != nil {
		return err
	}

	if len(outcome.IssueDescriptions) > 0 {
		if err := s.issues.SetDescriptions(ctx, outcome.IssueDescriptions); err != nil {
			return err
		}
	}
	if len(aggregate.Issues) > 0 {
		if err := s.issues.SetSummarizedByIDs(ctx, aggregate.Issues, true); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) RetryFailed(ctx context.Context) error {
	requests, err := s.requests.ListRetryable(ctx)
	if err != nil {
		return err
	}

	for i, request := range requests {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay):
			}
		}
		if err := s.retryRequest(ctx, request); err != nil {
			s.logger.Error("summary retry failed",
				zap.String("request_id", request.RequestID),
				zap.String("panchayat_id", request.PanchayatID.String()),
				zap.Int("retry_count", request.RetryCount),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *service) retryRequest(ctx context.Context, request *entities.SummaryRequest) error {
	panchayat, err := s.panchayats.FindByID(ctx, request.PanchayatID)
	if err != nil {
		return err
	}
	if panchayat == nil {
		request.MarkAsFailed("panchayat no longer exists")
		return s.requests.Update(ctx, request)
	}

	issues, err := s.issues.FindReadyForSummary(ctx, request.PanchayatID)
	if err != nil {
		return err
	}
	// Everything got summarized in the meantime; the request's work is done.
	if len(issues) == 0 {
		request.MarkAsCompleted()
		return s.requests.Update(ctx, request)
	}

	systemItems, err := s.currentSystemItems(ctx, request.PanchayatID)
	if err != nil {
		return err
	}
	if request.RequestType == entities.SummaryRequestTypeUpdate && len(systemItems) == 0 {
		request.MarkAsFailed("no system agenda items found to update")
		return s.requests.Update(ctx, request)
	}

	resp, err := s.submit(ctx, panchayat, request.RequestType, issues, systemItems)
	if err != nil {
		request.MarkAsFailed(err.Error())
		if updateErr := s.requests.Update(ctx, request); updateErr != nil {
			return updateErr
		}
		return err
	}

	request.MarkAsResubmitted(resp.RequestID, resp.StatusURL, resp.ResultURL)
	if err := s.requests.Update(ctx, request); err != nil {
		return err
	}

	s.logger.Info("summary request resubmitted",
		zap.String("request_id", resp.RequestID),
		zap.String("panchayat_id", request.PanchayatID.String()),
		zap.Int("retry_count", request.RetryCount),
	)
	return nil
}

// submit sends the CREATE or UPDATE call with exponential backoff
func (s *service) submit(ctx context.Context, panchayat *entities.Panchayat, requestType entities.SummaryRequestType, issues []*entities.Issue, systemItems entities.AgendaItemList) (*summarizer.SubmitResponse, error) {
	inputs := make([]summarizer.IssueInput, 0, len(issues))
	for _, issue := range issues {
		inputs = append(inputs, summarizer.IssueInput{
			ID:                issue.ID.String(),
			TranscriptionText: issue.Transcription.SummaryText(),
			Category:          string(issue.Category),
			Subcategory:       issue.Subcategory,
		})
	}

	// The summarizer endpoint takes the language name, not the code.
	language := panchayat.SummaryLanguage()

	var resp *summarizer.SubmitResponse
	submitFn := func() error {
		var err error
		if requestType == entities.SummaryRequestTypeUpdate {
			resp, err = s.client.UpdateAgenda(ctx, language, inputs, agendaContext(systemItems))
		} else {
			resp, err = s.client.GenerateAgenda(ctx, language, inputs)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(submitFn, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *service) currentSystemItems(ctx context.Context, panchayatID uuid.UUID) (entities.AgendaItemList, error) {
	aggregate, err := s.summaries.FindByPanchayat(ctx, panchayatID)
	if err != nil {
		return nil, err
	}
	if aggregate == nil {
		return nil, nil
	}
	return aggregate.AgendaItems.SystemItems(), nil
}

func agendaContext(items entities.AgendaItemList) []summarizer.AgendaContext {
	out := make([]summarizer.AgendaContext, 0, len(items))
	for _, item := range items {
		out = append(out, summarizer.AgendaContext{
			Title:        item.Title.English(),
			Description:  item.Description.English(),
			LinkedIssues: item.LinkedIssues,
		})
	}
	return out
}
