// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/divvy/backend/internal/application/usecase/bill"
	domainerror "github.com/divvy/backend/internal/domain/error"
	"github.com/divvy/backend/internal/integration/entrypoint/dto"
	"github.com/divvy/backend/internal/integration/entrypoint/middleware"
)

// BillController handles bill endpoints.
type BillController struct {
	createUseCase      *bill.CreateBillUseCase
	getUseCase         *bill.GetBillUseCase
	listUseCase        *bill.ListBillsUseCase
	updateUseCase      *bill.UpdateBillUseCase
	deleteUseCase      *bill.DeleteBillUseCase
	getBalancesUseCase *bill.GetBalancesUseCase
	extractUseCase     *bill.ExtractItemsUseCase
}

// NewBillController creates a new bill controller instance.
func NewBillController(
	createUseCase *bill.CreateBillUseCase,
	getUseCase *bill.GetBillUseCase,
	listUseCase *bill.ListBillsUseCase,
	updateUseCase *bill.UpdateBillUseCase,
	deleteUseCase *bill.DeleteBillUseCase,
	getBalancesUseCase *bill.GetBalancesUseCase,
	extractUseCase *bill.ExtractItemsUseCase,
) *BillController {
	return &BillController{
		createUseCase:      createUseCase,
		getUseCase:         getUseCase,
		listUseCase:        listUseCase,
		updateUseCase:      updateUseCase,
		deleteUseCase:      deleteUseCase,
		getBalancesUseCase: getBalancesUseCase,
		extractUseCase:     extractUseCase,
	}
}

// ExtractItemsRequest represents the request body for receipt extraction.
type extractItemsRequest struct {
	Image    string `json:"image" binding:"required"`
	MimeType string `json:"mime_type"`
}

// Create handles POST /events/:id/bills requests.
func (c *BillController) Create(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateBillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeMissingBillFields),
		})
		return
	}

	items := make([]bill.ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, bill.ItemInput{
			Name:         item.Name,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			SplitType:    item.SplitType,
			SplitBetween: item.SplitBetween,
		})
	}

	shares := make([]bill.ManualShareInput, 0, len(req.ManualShares))
	for _, s := range req.ManualShares {
		shares = append(shares, bill.ManualShareInput{
			Participant: s.Participant,
			Amount:      s.Amount,
		})
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), bill.CreateBillInput{
		OwnerID:      userID,
		EventID:      eventID,
		Title:        req.Title,
		Note:         req.Note,
		SplitType:    req.SplitType,
		Items:        items,
		TaxPercent:   req.TaxPercent,
		PaidBy:       req.PaidBy,
		ManualShares: shares,
	})
	if err != nil {
		c.handleBillError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToBillResponse(output.Bill))
}

// List handles GET /events/:id/bills requests.
func (c *BillController) List(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), bill.ListBillsInput{
		EventID:  eventID,
		CallerID: userID,
	})
	if err != nil {
		c.handleBillError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBillListResponse(output.Bills))
}

// Get handles GET /bills/:id requests.
func (c *BillController) Get(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	billID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), bill.GetBillInput{
		BillID:   billID,
		CallerID: userID,
	})
	if err != nil {
		c.handleBillError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBillResponse(output.Bill))
}

// Update handles PATCH /bills/:id requests.
func (c *BillController) Update(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	billID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateBillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeMissingBillFields),
		})
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), bill.UpdateBillInput{
		BillID:   billID,
		CallerID: userID,
		Title:    req.Title,
		Note:     req.Note,
	})
	if err != nil {
		c.handleBillError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBillResponse(output.Bill))
}

// Delete handles DELETE /bills/:id requests.
func (c *BillController) Delete(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	billID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.deleteUseCase.Execute(ctx.Request.Context(), bill.DeleteBillInput{
		BillID:   billID,
		CallerID: userID,
	}); err != nil {
		c.handleBillError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Bill deleted"})
}

// GetBalances handles GET /bills/:id/balances requests.
func (c *BillController) GetBalances(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	billID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	output, err := c.getBalancesUseCase.Execute(ctx.Request.Context(), bill.GetBalancesInput{
		BillID:   billID,
		CallerID: userID,
	})
	if err != nil {
		c.handleBillError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBalanceListResponse(output.Balances))
}

// ExtractItems handles POST /bills/extract-items requests.
func (c *BillController) ExtractItems(ctx *gin.Context) {
	if _, ok := middleware.GetUserIDFromContext(ctx); !ok {
		respondUnauthenticated(ctx)
		return
	}

	var req extractItemsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeMissingBillFields),
		})
		return
	}

	imageData, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "image must be base64 encoded",
			Code:  string(domainerror.ErrCodeMissingBillFields),
		})
		return
	}

	output, err := c.extractUseCase.Execute(ctx.Request.Context(), bill.ExtractItemsInput{
		ImageData: imageData,
		MimeType:  req.MimeType,
	})
	if err != nil {
		c.handleBillError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExtractItemsResponse(output.Items, output.TaxPercent))
}

// handleBillError maps bill errors to HTTP responses. Bill operations can
// also surface event errors (unknown event, non-member caller).
func (c *BillController) handleBillError(ctx *gin.Context, err error) {
	var billErr *domainerror.BillError
	if errors.As(err, &billErr) {
		ctx.JSON(statusForBillError(billErr.Code), dto.ErrorResponse{
			Error: billErr.Message,
			Code:  string(billErr.Code),
		})
		return
	}

	var eventErr *domainerror.EventError
	if errors.As(err, &eventErr) {
		ctx.JSON(statusForEventError(eventErr.Code), dto.ErrorResponse{
			Error: eventErr.Message,
			Code:  string(eventErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// statusForBillError maps bill error codes to HTTP status codes.
func statusForBillError(code domainerror.BillErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidSplitType,
		domainerror.ErrCodeItemSplitMissing,
		domainerror.ErrCodeEmptyRoster,
		domainerror.ErrCodeManualSharesMissing,
		domainerror.ErrCodeManualSharesMismatch,
		domainerror.ErrCodeInvalidBillItem,
		domainerror.ErrCodeMissingBillFields:
		return http.StatusBadRequest
	case domainerror.ErrCodeBillNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotBillOwner:
		return http.StatusForbidden
	case domainerror.ErrCodeExtractorUnavailable:
		return http.StatusServiceUnavailable
	case domainerror.ErrCodeExtractionFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
