package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"bitbucket.org/cloudkitchenhq/orders_backend/models"
	"bitbucket.org/cloudkitchenhq/orders_backend/utils"
)

var validate = validator.New()

func ListOrdersHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := store.ListOrders(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func GetOrderHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := store.GetOrderByInvoiceNo(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func ListOrderLinesHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderId := c.Param("id")
		lines, err := store.ListOrderLines(c.Request.Context(), orderId,
			c.Query("invoiceNo"), c.Query("brand"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"lines": lines})
	}
}

func CreateOrderHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewOrder
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if err := validate.Struct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}
		if err := store.CreateOrder(c.Request.Context(), req); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"invoice_no": req.InvoiceNo})
	}
}

func UpdateOrderStatusHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var fields map[string]any
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		err := store.UpdateOrderStatus(c.Request.Context(), c.Param("id"), fields)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": true})
	}
}

func UpdatePartnerPaymentHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var fields map[string]any
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		err := store.UpdatePartnerPayment(c.Request.Context(), c.Param("id"), fields)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "sales invoice not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": true})
	}
}

func DeleteOrderHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := store.DeleteOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
