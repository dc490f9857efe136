package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"bitbucket.org/cloudkitchenhq/orders_backend/models"
	"bitbucket.org/cloudkitchenhq/orders_backend/utils"
)

func ListSuppliersHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		suppliers, err := store.ListSuppliers(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
	}
}

func ListSupplierInvoicesHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		invoices, err := store.ListSupplierInvoices(c.Request.Context(), c.Query("salesInvoiceNo"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"supplier_invoices": invoices})
	}
}

func CreateSupplierInvoicesHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Invoices []models.NewSupplierInvoice `json:"invoices" validate:"required,min=1,dive"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if err := validate.Struct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}
		if err := store.CreateSupplierInvoices(c.Request.Context(), req.Invoices); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"created": len(req.Invoices)})
	}
}

func UpdateSupplierInvoiceHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier invoice id"})
			return
		}
		var fields map[string]any
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		err = store.UpdateSupplierInvoice(c.Request.Context(), id, fields)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "supplier invoice not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": true})
	}
}

func CreateAllocationHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			SalesInvoiceNo    string          `json:"sales_invoice_no" validate:"required"`
			SupplierInvoiceNo string          `json:"supplier_invoice_no" validate:"required"`
			AllocatedAmount   decimal.Decimal `json:"allocated_amount"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if err := validate.Struct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}
		err := store.CreateAllocation(c.Request.Context(), req.SalesInvoiceNo, req.SupplierInvoiceNo, req.AllocatedAmount)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"created": true})
	}
}
