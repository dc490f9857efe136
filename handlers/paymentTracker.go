package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bitbucket.org/cloudkitchenhq/orders_backend/models"
	"bitbucket.org/cloudkitchenhq/orders_backend/utils"
)

func ListPaymentTrackerHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := store.ListPaymentTrackerRows(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"rows": rows})
	}
}

func ExportPaymentTrackerHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := store.ExportPaymentTracker(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		filename := "payment-tracker-" + time.Now().Format("2006-01-02") + ".xlsx"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := f.Write(c.Writer); err != nil {
			// Headers are already out; nothing useful left to send.
			_ = c.Error(err)
		}
	}
}

func ListFranchisesHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		franchises, err := store.ListFranchises(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"franchises": franchises})
	}
}

func CreateFranchiseHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewFranchise
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if err := validate.Struct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}
		if err := store.CreateFranchise(c.Request.Context(), req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"created": true})
	}
}
