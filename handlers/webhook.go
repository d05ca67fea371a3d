package handlers

import (
	"errors"
	"net/http"

	"coachbook/services/webhook"

	"github.com/gin-gonic/gin"
)

var WebhookReconciler *webhook.Reconciler

// PaymentWebhook receives provider deliveries. 200 is returned only once the
// event is durably recorded; any processing failure returns 500 so the
// provider redelivers.
func PaymentWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if err := WebhookReconciler.HandleEvent(c.Request.Context(), payload, sig); err != nil {
		var sigErr *webhook.SignatureError
		if errors.As(err, &sigErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "signature verification failed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
