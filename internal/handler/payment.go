package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"lnmbpay/internal/config"
	"lnmbpay/internal/domain"
	"lnmbpay/internal/service"
)

// PaymentHandler handles HTTP requests for payments and gateway callbacks.
type PaymentHandler struct {
	paymentService  *service.PaymentService
	callbackService *service.CallbackService
	reconciler      *service.ReconciliationService
	cfg             config.PaymentConfig
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(
	paymentService *service.PaymentService,
	callbackService *service.CallbackService,
	reconciler *service.ReconciliationService,
	cfg config.PaymentConfig,
) *PaymentHandler {
	return &PaymentHandler{
		paymentService:  paymentService,
		callbackService: callbackService,
		reconciler:      reconciler,
		cfg:             cfg,
	}
}

// InitiatePaymentRequest is the HTTP request body for starting a payment.
type InitiatePaymentRequest struct {
	OrderReference string `json:"orderReference"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	Channel        string `json:"channel"`
}

// PaymentResponse is the HTTP response for payment operations.
type PaymentResponse struct {
	ID             string `json:"id"`
	OrderReference string `json:"orderReference"`
	Status         string `json:"status"`
	TransactionID  string `json:"transactionId,omitempty"`
	PaymentChannel string `json:"paymentChannel,omitempty"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
}

// CallbackRequest is the gateway's authoritative notification body. Some
// gateway versions send the digest as "hash", others as "signature".
type CallbackRequest struct {
	OrderReference string `json:"orderReference"`
	Status         string `json:"status"`
	TransactionID  string `json:"transactionId"`
	Amount         string `json:"amount"`
	Channel        string `json:"desc"`
	Hash           string `json:"hash"`
	Signature      string `json:"signature"`
}

// CallbackResponse is the acknowledgement returned to the gateway.
type CallbackResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Error     string `json:"error,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// InitiatePayment handles POST /v1/payments
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.Initiate(c.Request.Context(), service.InitiateRequest{
		OrderReference: req.OrderReference,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Channel:        req.Channel,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPaymentResponse(payment))
}

// GetPayment handles GET /v1/payments/:reference
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

// HandleCallback handles POST /v1/payments/callback, the only channel
// allowed to mutate payment state. It always answers 200: a non-2xx here
// only triggers gateway retry amplification without changing the outcome.
func (h *PaymentHandler) HandleCallback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondJSON(c, http.StatusOK, CallbackResponse{Success: false, Error: "malformed notification body"})
		return
	}

	digest := req.Hash
	if digest == "" {
		digest = req.Signature
	}

	ack := h.callbackService.HandleNotification(c.Request.Context(), service.Notification{
		OrderReference: req.OrderReference,
		Status:         req.Status,
		TransactionID:  req.TransactionID,
		Amount:         req.Amount,
		Channel:        req.Channel,
		Hash:           digest,
	})

	respondJSON(c, http.StatusOK, CallbackResponse{
		Success:   ack.Success,
		Message:   ack.Message,
		Duplicate: ack.Duplicate,
		Reason:    ack.Reason,
	})
}

// HandleRedirect handles GET /v1/payments/callback, the unsigned
// redirect-style callback. It is informational only: it never mutates state
// and never fails on missing parameters, it just forwards the caller to the
// result page.
func (h *PaymentHandler) HandleRedirect(c *gin.Context) {
	ref := c.Query("orderReference")
	if ref == "" {
		c.Redirect(http.StatusTemporaryRedirect, h.cfg.FailureURL)
		return
	}

	params := url.Values{}
	params.Set("orderReference", ref)
	for _, key := range []string{"status", "transactionId", "amount"} {
		if v := c.Query(key); v != "" {
			params.Set(key, v)
		}
	}

	c.Redirect(http.StatusTemporaryRedirect, h.cfg.ResultURL+"?"+params.Encode())
}

// Reconcile handles POST /v1/payments/reconcile, the operator-invoked sweep.
func (h *PaymentHandler) Reconcile(c *gin.Context) {
	result, err := h.reconciler.Run(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, result)
}

func toPaymentResponse(payment *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             payment.ID,
		OrderReference: payment.OrderReference,
		Status:         string(payment.Status),
		TransactionID:  payment.TransactionID,
		PaymentChannel: payment.PaymentChannel,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
	}
}
