package handlers

import (
	"errors"
	"net/http"

	draftRepo "coachbook/database/repository/draft"
	ledgerRepo "coachbook/database/repository/ledger"
	"coachbook/models"
	"coachbook/services/booking"
	"coachbook/utils"

	"github.com/gin-gonic/gin"
)

// Wired in main before the router starts.
var BookingSvc booking.BookingService

func currentCustomerID(c *gin.Context) string {
	id, _ := c.Get("customerID")
	s, _ := id.(string)
	return s
}

// StartDraft opens a new booking draft for a course.
func StartDraft(c *gin.Context) {
	var input struct {
		TrainingType string `json:"trainingType"`
		CourseID     string `json:"courseId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	draft, err := BookingSvc.StartDraft(c.Request.Context(), currentCustomerID(c), input.TrainingType, input.CourseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, draft)
}

// SelectPackage records the package tier on the draft.
func SelectPackage(c *gin.Context) {
	draftID := c.Param("draftID")
	var input struct {
		Tier string `json:"tier"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	draft, err := BookingSvc.SelectPackage(c.Request.Context(), currentCustomerID(c), draftID, input.Tier)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// SubmitAnswers records the customer's answers to the course's qualifying
// questions.
func SubmitAnswers(c *gin.Context) {
	draftID := c.Param("draftID")
	var input struct {
		Answers map[string]string `json:"answers"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	draft, err := BookingSvc.SubmitAnswers(c.Request.Context(), currentCustomerID(c), draftID, input.Answers)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// SelectSlots records the chosen session slots on the draft. Slots are not
// held until submission.
func SelectSlots(c *gin.Context) {
	draftID := c.Param("draftID")
	var input struct {
		Slots        []models.TimeSlot `json:"slots"`
		Consultation bool              `json:"consultation"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	draft, err := BookingSvc.SelectSlots(c.Request.Context(), currentCustomerID(c), draftID, input.Slots, input.Consultation)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// SubmitDraft holds the selected slots and opens a payment intent. On
// success the response carries the client secret for the payment form.
func SubmitDraft(c *gin.Context) {
	draftID := c.Param("draftID")
	var input struct {
		Total int64 `json:"total"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := BookingSvc.Submit(c.Request.Context(), currentCustomerID(c), draftID, input.Total)
	if err != nil {
		var capErr *ledgerRepo.CapacityError
		var priceErr *booking.PricingMismatchError
		switch {
		case errors.As(err, &capErr):
			c.JSON(http.StatusConflict, gin.H{
				"error": "capacity exceeded",
				"slots": capErr.Slots,
			})
		case errors.As(err, &priceErr):
			c.JSON(http.StatusConflict, gin.H{
				"error":     "price changed since quote",
				"submitted": priceErr.Submitted,
				"computed":  priceErr.Computed,
			})
		default:
			respondDraftError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// CancelDraft cancels a draft in DRAFT or AWAITING_PAYMENT.
func CancelDraft(c *gin.Context) {
	draftID := c.Param("draftID")

	if err := BookingSvc.Cancel(c.Request.Context(), currentCustomerID(c), draftID); err != nil {
		var trErr *booking.TransitionError
		if errors.As(err, &trErr) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "canceled"})
}

// GetDraft returns the caller's draft.
func GetDraft(c *gin.Context) {
	draftID := c.Param("draftID")

	draft, err := BookingSvc.GetDraft(c.Request.Context(), currentCustomerID(c), draftID)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func respondDraftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, draftRepo.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
	case errors.Is(err, booking.ErrNotDraftOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not your draft"})
	case errors.Is(err, booking.ErrDraftNotEditable),
		errors.Is(err, booking.ErrPackageRequired),
		errors.Is(err, booking.ErrAnswersIncomplete),
		errors.Is(err, booking.ErrNoSlotsRequested),
		errors.Is(err, booking.ErrDraftIncomplete),
		errors.Is(err, booking.ErrSlotNotInSchedule):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		utils.JSONError(c, http.StatusInternalServerError, "booking operation failed", err.Error())
	}
}
