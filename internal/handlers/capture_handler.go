package handlers

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendly/internal/errors"
	"spendly/internal/models"
	"spendly/internal/services"
	"spendly/internal/vision"
)

// maxCaptureSize is the upload limit for receipt images and voice memos.
const maxCaptureSize = 10 << 20 // 10 MB

var receiptExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".heic": true,
}

var voiceExtensions = map[string]bool{
	".m4a":  true,
	".mp3":  true,
	".wav":  true,
	".aac":  true,
	".ogg":  true,
	".webm": true,
}

// CaptureHandler handles AI-assisted expense capture from receipts and voice
// memos. The heavy lifting happens at the external provider; this handler
// enforces entitlement and size limits, then shuttles the bytes.
type CaptureHandler struct {
	parser              vision.Parser
	expenseService      services.ExpenseServicer
	subscriptionService services.SubscriptionServicer
	auditService        services.AuditServicer
}

// NewCaptureHandler creates a new CaptureHandler.
func NewCaptureHandler(parser vision.Parser, expenseService services.ExpenseServicer, subscriptionService services.SubscriptionServicer, auditService services.AuditServicer) *CaptureHandler {
	return &CaptureHandler{
		parser:              parser,
		expenseService:      expenseService,
		subscriptionService: subscriptionService,
		auditService:        auditService,
	}
}

// CaptureReceipt extracts a draft expense from a receipt photo
// @Summary     Capture expense from receipt
// @Description Upload a receipt image and get back extracted expense fields. With confirm=true, the expense is created immediately.
// @Tags        capture
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file    formData file   true  "Receipt image (jpg/png/webp/heic, max 10 MB)"
// @Param       confirm query    bool   false "Create the expense from the extracted fields"
// @Success     200 {object} vision.CaptureResult "Extracted draft"
// @Failure     400 {object} ErrorResponse "Invalid or unsupported file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     402 {object} ErrorResponse "Premium subscription required"
// @Failure     413 {object} ErrorResponse "File too large"
// @Failure     502 {object} ErrorResponse "Capture provider failure"
// @Router      /capture/receipt [post]
func (h *CaptureHandler) CaptureReceipt(c *gin.Context) {
	h.capture(c, models.ExpenseSourceReceipt, receiptExtensions, h.parser.ParseReceipt)
}

// CaptureVoice extracts a draft expense from a voice memo
// @Summary     Capture expense from voice memo
// @Description Upload a voice memo and get back extracted expense fields. With confirm=true, the expense is created immediately.
// @Tags        capture
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file    formData file   true  "Voice memo (m4a/mp3/wav/aac/ogg, max 10 MB)"
// @Param       confirm query    bool   false "Create the expense from the extracted fields"
// @Success     200 {object} vision.CaptureResult "Extracted draft"
// @Failure     400 {object} ErrorResponse "Invalid or unsupported file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     402 {object} ErrorResponse "Premium subscription required"
// @Failure     413 {object} ErrorResponse "File too large"
// @Failure     502 {object} ErrorResponse "Capture provider failure"
// @Router      /capture/voice [post]
func (h *CaptureHandler) CaptureVoice(c *gin.Context) {
	h.capture(c, models.ExpenseSourceVoice, voiceExtensions, h.parser.ParseVoiceMemo)
}

type parseFunc func(ctx context.Context, file io.Reader, filename string) (*vision.CaptureResult, error)

func (h *CaptureHandler) capture(c *gin.Context, source models.ExpenseSource, allowed map[string]bool, parse parseFunc) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	premium, err := h.subscriptionService.IsPremium(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !premium {
		respondWithError(c, apperrors.ErrPremiumRequired)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, "A 'file' upload is required"))
		return
	}
	if header.Size > maxCaptureSize {
		respondWithError(c, apperrors.ErrFileTooLarge)
		return
	}
	if !allowed[strings.ToLower(filepath.Ext(header.Filename))] {
		respondWithError(c, apperrors.ErrUnsupportedFile)
		return
	}

	result, err := h.parseUpload(c, header, parse)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if c.Query("confirm") != "true" {
		c.JSON(http.StatusOK, gin.H{"draft": result})
		return
	}

	expense, err := h.expenseService.CreateExpense(
		userID, nil, result.Amount, result.Description, result.Date, "", "", source,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CAPTURE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"source": source, "amount": result.Amount})

	c.JSON(http.StatusCreated, gin.H{
		"draft":   result,
		"expense": expense,
	})
}

func (h *CaptureHandler) parseUpload(c *gin.Context, header *multipart.FileHeader, parse parseFunc) (*vision.CaptureResult, error) {
	file, err := header.Open()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, err)
	}
	defer func() { _ = file.Close() }()

	result, err := parse(c.Request.Context(), file, header.Filename)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCaptureFailed, err)
	}
	return result, nil
}
