package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"

	"eshop_back_end/internal/models"
)

type createPaymentIntentRequest struct {
	Amount   int64  `json:"amount" binding:"required,gt=0"`
	Currency string `json:"currency"`
}

type PaymentHandler struct{}

func NewPaymentHandler() *PaymentHandler {
	return &PaymentHandler{}
}

// CreatePaymentIntent — POST /payments/create-payment-intent.
// Passthrough Stripe : le montant arrive en centimes, le client_secret repart
// vers le front qui finalise le paiement.
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var req createPaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid payment payload", err.Error())
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = string(stripe.CurrencyEUR)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		log.Printf("💳 Erreur création PaymentIntent: %v", err)
		respondError(c, models.NewInternalError("Failed to create payment intent", nil))
		return
	}

	respondOK(c, gin.H{"clientSecret": intent.ClientSecret})
}
