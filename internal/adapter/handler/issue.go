package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/anujdevsingh/gram-panchayat/errors"
	issuedto "github.com/anujdevsingh/gram-panchayat/internal/adapter/dto/issue"
	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	"github.com/anujdevsingh/gram-panchayat/internal/domain/repositories"
	issueUsecase "github.com/anujdevsingh/gram-panchayat/internal/usecase/issue"
)

// Issue handles issue-reporting HTTP requests
type Issue struct {
	issueService issueUsecase.Service
	logger       *zap.Logger
}

// NewIssueHandler creates a new issue handler
func NewIssueHandler(issueService issueUsecase.Service, logger *zap.Logger) *Issue {
	return &Issue{
		issueService: issueService,
		logger:       logger,
	}
}

// Create handles POST /issues. The request is multipart/form-data so voice
// recordings and photos can ride along with the form fields.
func (h *Issue) Create(c echo.Context) error {
	var form issuedto.CreateForm
	if err := c.Bind(&form); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&form); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	panchayatID, err := uuid.Parse(form.PanchayatID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid panchayat_id"))
	}

	createdForID := userID
	if form.CreatedForID != "" {
		createdForID, err = uuid.Parse(form.CreatedForID)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid created_for_id"))
		}
	}

	input := issueUsecase.CreateInput{
		PanchayatID:  panchayatID,
		CreatorID:    userID,
		CreatedForID: createdForID,
		Category:     entities.IssueCategory(form.Category),
		Subcategory:  form.Subcategory,
		Text:         form.Text,
		Priority:     entities.IssuePriority(form.Priority),
	}

	uploads, err := collectUploads(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	defer func() {
		for _, u := range uploads {
			if closer, ok := u.Reader.(interface{ Close() error }); ok {
				closer.Close()
			}
		}
	}()

	created, err := h.issueService.Create(c.Request().Context(), input, uploads)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleCreated(h.logger, c, created)
}

// Get handles GET /issues/:id
func (h *Issue) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid issue id"))
	}

	found, err := h.issueService.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, found)
}

// List handles GET /issues
func (h *Issue) List(c echo.Context) error {
	var req issuedto.ListRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	filters := repositories.IssueFilters{
		Limit:  req.PageSize,
		Offset: (req.Page - 1) * req.PageSize,
	}
	if req.PanchayatID != "" {
		id, err := uuid.Parse(req.PanchayatID)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid panchayat_id"))
		}
		filters.PanchayatID = &id
	}
	if req.CreatorID != "" {
		id, err := uuid.Parse(req.CreatorID)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid creator_id"))
		}
		filters.CreatorID = &id
	}
	if req.Status != "" {
		status := entities.IssueStatus(req.Status)
		filters.Status = &status
	}
	if req.Category != "" {
		category := entities.IssueCategory(req.Category)
		filters.Category = &category
	}

	issues, total, err := h.issueService.List(c.Request().Context(), filters)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{
		"issues":    issues,
		"total":     total,
		"page":      req.Page,
		"page_size": req.PageSize,
	})
}

// UpdateStatus handles PATCH /issues/:id/status
func (h *Issue) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid issue id"))
	}

	var req issuedto.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	updated, err := h.issueService.UpdateStatus(c.Request().Context(), id, entities.IssueStatus(req.Status), req.Remark)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, updated)
}

// collectUploads extracts the "attachments" file parts from a multipart
// request. Requests without a multipart body yield no uploads.
func collectUploads(c echo.Context) ([]issueUsecase.AttachmentUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}

	files := form.File["attachments"]
	uploads := make([]issueUsecase.AttachmentUpload, 0, len(files))
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			for _, u := range uploads {
				if closer, ok := u.Reader.(interface{ Close() error }); ok {
					closer.Close()
				}
			}
			return nil, errors.ErrInvalidArgument("unreadable attachment " + fh.Filename)
		}
		uploads = append(uploads, issueUsecase.AttachmentUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      src,
		})
	}
	return uploads, nil
}
