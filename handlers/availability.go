package handlers

import (
	"net/http"
	"time"

	"coachbook/services/booking"

	"github.com/gin-gonic/gin"
)

var Catalog *booking.SlotCatalog

// ListSlots returns the bookable slots in a date range with live remaining
// capacity. Defaults to the next two weeks.
func ListSlots(c *gin.Context) {
	now := time.Now()
	rangeStart := now
	rangeEnd := now.AddDate(0, 0, 14)

	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, want YYYY-MM-DD"})
			return
		}
		rangeStart = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, want YYYY-MM-DD"})
			return
		}
		rangeEnd = t
	}

	slots, err := Catalog.ListSlots(c.Request.Context(), rangeStart, rangeEnd)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list slots"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// ExpandWeekly projects a chosen weekly time across the course duration and
// reports which weeks are already full.
func ExpandWeekly(c *gin.Context) {
	var input struct {
		StartDate string `json:"startDate"`
		Start     string `json:"start"`
		Weeks     int    `json:"weeks"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	startDate, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate, want YYYY-MM-DD"})
		return
	}
	weeks := input.Weeks
	if weeks <= 0 {
		weeks = 8
	}

	expansion, err := Catalog.ExpandWeekly(c.Request.Context(), startDate, input.Start, weeks)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, expansion)
}
