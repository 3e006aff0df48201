package http

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/audit"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/budget"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/document"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/entity"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/report"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/requisition"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/routing"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	requisitions *requisition.Service
	ledger       *budget.Ledger
	recorder     *audit.Recorder
	reports      *report.Builder
	documents    *document.Store
	logger       *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	requisitions *requisition.Service,
	ledger *budget.Ledger,
	recorder *audit.Recorder,
	reports *report.Builder,
	documents *document.Store,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		requisitions: requisitions,
		ledger:       ledger,
		recorder:     recorder,
		reports:      reports,
		documents:    documents,
		logger:       logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RequisitionResponse represents a requisition in API responses
type RequisitionResponse struct {
	*entity.Requisition
	StuckAt      string `json:"stuck_at"`
	NextApprover string `json:"next_approver,omitempty"`
}

func toRequisitionResponse(r *entity.Requisition) RequisitionResponse {
	resp := RequisitionResponse{Requisition: r, StuckAt: routing.StuckAt(r)}
	if next, ok := routing.NextApproverRole(r); ok {
		resp.NextApprover = next.String()
	}
	return resp
}

// CreateRequisitionRequest carries a new submission
type CreateRequisitionRequest struct {
	Department    string  `json:"department" binding:"required"`
	Type          string  `json:"type" binding:"required"`
	Description   string  `json:"description"`
	Currency      string  `json:"currency" binding:"required"`
	Amount        string  `json:"amount" binding:"required"`
	USDEquivalent *string `json:"usd_equivalent"`
}

// ActionRequest carries an approver decision
type ActionRequest struct {
	Action  string `json:"action" binding:"required"`
	Comment string `json:"comment"`
}

// BudgetRequest carries an administered budget total
type BudgetRequest struct {
	Total string `json:"total" binding:"required"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// CreateRequisition handles POST /api/requisitions
func (h *Handlers) CreateRequisition(c *gin.Context) {
	actor := mustActor(c)

	var req CreateRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, entity.NewValidationError("body", "is malformed"))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.respondError(c, entity.NewValidationError("amount", "must be a decimal number"))
		return
	}

	var usdEquivalent *decimal.Decimal
	if req.USDEquivalent != nil {
		v, err := decimal.NewFromString(*req.USDEquivalent)
		if err != nil {
			h.respondError(c, entity.NewValidationError("usd_equivalent", "must be a decimal number"))
			return
		}
		usdEquivalent = &v
	}

	r, err := h.requisitions.Create(c.Request.Context(), requisition.CreateInput{
		Department:    req.Department,
		Type:          req.Type,
		Description:   req.Description,
		Currency:      req.Currency,
		Amount:        amount,
		USDEquivalent: usdEquivalent,
	}, actor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: toRequisitionResponse(r)})
}

// GetRequisition handles GET /api/requisitions/:id
func (h *Handlers) GetRequisition(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	r, err := h.requisitions.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toRequisitionResponse(r)})
}

// ListRequisitions handles GET /api/requisitions. With ?queue=true the
// listing is narrowed to the requisitions awaiting the caller's role.
func (h *Handlers) ListRequisitions(c *gin.Context) {
	actor := mustActor(c)

	var (
		reqs []*entity.Requisition
		err  error
	)
	if c.Query("queue") == "true" {
		reqs, err = h.requisitions.Queue(c.Request.Context(), actor)
	} else {
		reqs, err = h.requisitions.List(c.Request.Context(), requisition.ListFilter{
			Department: c.Query("department"),
			Status:     c.Query("status"),
		})
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	responses := make([]RequisitionResponse, 0, len(reqs))
	for _, r := range reqs {
		responses = append(responses, toRequisitionResponse(r))
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: responses})
}

// ApplyAction handles POST /api/requisitions/:id/action
func (h *Handlers) ApplyAction(c *gin.Context) {
	actor := mustActor(c)

	id, err := parseID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, entity.NewValidationError("body", "is malformed"))
		return
	}

	r, err := h.requisitions.ApplyAction(c.Request.Context(), id, actor, req.Action, req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toRequisitionResponse(r)})
}

// AttachProof handles POST /api/requisitions/:id/proof with a multipart
// "file" part holding the proof-of-payment PDF
func (h *Handlers) AttachProof(c *gin.Context) {
	actor := mustActor(c)

	id, err := parseID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		h.respondError(c, entity.NewValidationError("file", "is required"))
		return
	}

	tmp := filepath.Join(os.TempDir(), filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, tmp); err != nil {
		h.logger.Error("Failed to save upload", zap.Error(err))
		h.respondError(c, err)
		return
	}
	defer os.Remove(tmp)

	// The attachments dir is only written once the service has cleared
	// the actor and the requisition state.
	r, err := h.requisitions.AttachProofOfPayment(c.Request.Context(), id, actor, func() (string, error) {
		return h.documents.SaveProofOfPayment(id, tmp)
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toRequisitionResponse(r)})
}

// CompleteRequisition handles POST /api/requisitions/:id/complete, a
// shorthand for the complete action. The comment body is optional.
func (h *Handlers) CompleteRequisition(c *gin.Context) {
	actor := mustActor(c)

	id, err := parseID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req struct {
		Comment string `json:"comment"`
	}
	_ = c.ShouldBindJSON(&req)

	r, err := h.requisitions.ApplyAction(c.Request.Context(), id, actor, entity.ActionComplete, req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toRequisitionResponse(r)})
}

// ListBudgets handles GET /api/budgets
func (h *Handlers) ListBudgets(c *gin.Context) {
	statuses, err := h.ledger.Statuses(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: statuses})
}

// SetBudget handles PUT /api/budgets/:department (admin top-up)
func (h *Handlers) SetBudget(c *gin.Context) {
	actor := mustActor(c)
	if actor.Role != entity.RoleAdmin {
		h.respondError(c, entity.ErrUnauthorizedTransition)
		return
	}

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, entity.NewValidationError("body", "is malformed"))
		return
	}

	total, err := decimal.NewFromString(req.Total)
	if err != nil {
		h.respondError(c, entity.NewValidationError("total", "must be a decimal number"))
		return
	}

	department := c.Param("department")
	if err := h.ledger.SetTotal(c.Request.Context(), department, total); err != nil {
		h.respondError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), audit.Entry{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		ActionType: "budget.set_total",
		Details:    department + " total set to " + total.StringFixed(2),
	})

	c.JSON(http.StatusOK, Response{Success: true})
}

// ResetBudgets handles POST /api/budgets/reset (admin bulk zero)
func (h *Handlers) ResetBudgets(c *gin.Context) {
	actor := mustActor(c)
	if actor.Role != entity.RoleAdmin {
		h.respondError(c, entity.ErrUnauthorizedTransition)
		return
	}

	if err := h.ledger.ResetAll(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), audit.Entry{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		ActionType: "budget.reset_all",
		Details:    "all department budgets reset to zero",
	})

	c.JSON(http.StatusOK, Response{Success: true})
}

// ListAuditLog handles GET /api/audit
func (h *Handlers) ListAuditLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := h.recorder.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: entries})
}

// BudgetReport handles GET /api/reports/budgets.xlsx
func (h *Handlers) BudgetReport(c *gin.Context) {
	ctx := c.Request.Context()

	statuses, err := h.ledger.Statuses(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	reqs, err := h.requisitions.List(ctx, requisition.ListFilter{})
	if err != nil {
		h.respondError(c, err)
		return
	}

	f, err := h.reports.BuildWorkbook(statuses, reqs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="budget-report.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if _, err := f.WriteTo(c.Writer); err != nil {
		h.logger.Error("Failed to stream report", zap.Error(err))
	}
}

// respondError maps domain errors onto HTTP status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case entity.IsValidationError(err), errors.Is(err, entity.ErrMissingConversion):
		status = http.StatusBadRequest
	case errors.Is(err, entity.ErrBudgetExhausted):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrUnauthorizedTransition):
		status = http.StatusForbidden
	case errors.Is(err, entity.ErrConflict), errors.Is(err, entity.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, entity.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.Error(err))
	}

	c.JSON(status, Response{Success: false, Error: err.Error()})
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, entity.NewValidationError("id", "must be an integer")
	}
	return id, nil
}
