package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bitbucket.org/cloudkitchenhq/orders_backend/config"
	"bitbucket.org/cloudkitchenhq/orders_backend/handlers"
	"bitbucket.org/cloudkitchenhq/orders_backend/models"
	"bitbucket.org/cloudkitchenhq/orders_backend/sheetdb"
	"bitbucket.org/cloudkitchenhq/orders_backend/utils"
)

const defaultPort = "8080"

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	sheetsCfg, err := config.LoadSheetsConfig()
	if err != nil {
		logger.WithFields(logrus.Fields{"field": "config"}).Fatal(err)
	}
	client, err := sheetdb.NewClient(sigCtx, sheetsCfg, logger)
	if err != nil {
		logger.WithFields(logrus.Fields{"field": "sheets"}).Fatal(err)
	}
	store := models.NewStore(client, logger)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			logger.WithFields(logrus.Fields{"field": "config"}).
				Fatal("CORS_ALLOWED_ORIGINS must be set in production")
		}
		corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")

	r.Use(cors.New(corsConfig))
	r.Use(requestLogger(logger))
	r.Use(gin.Recovery())

	// Orders
	r.GET("/api/orders", handlers.ListOrdersHandler(store))
	r.POST("/api/orders", handlers.CreateOrderHandler(store))
	r.GET("/api/orders/:id", handlers.GetOrderHandler(store))
	r.GET("/api/orders/:id/lines", handlers.ListOrderLinesHandler(store))
	r.PUT("/api/orders/:id/status", handlers.UpdateOrderStatusHandler(store))
	r.PUT("/api/orders/:id/partner-payment", handlers.UpdatePartnerPaymentHandler(store))
	r.DELETE("/api/orders/:id", handlers.DeleteOrderHandler(store))

	// Suppliers and their invoices
	r.GET("/api/suppliers", handlers.ListSuppliersHandler(store))
	r.GET("/api/supplier-invoices", handlers.ListSupplierInvoicesHandler(store))
	r.POST("/api/supplier-invoices", handlers.CreateSupplierInvoicesHandler(store))
	r.PUT("/api/supplier-invoices/:id", handlers.UpdateSupplierInvoiceHandler(store))
	r.POST("/api/allocations", handlers.CreateAllocationHandler(store))

	// Payment tracker and franchises
	r.GET("/api/payment-tracker", handlers.ListPaymentTrackerHandler(store))
	r.GET("/api/payment-tracker/export", handlers.ExportPaymentTrackerHandler(store))
	r.GET("/api/franchises", handlers.ListFranchisesHandler(store))
	r.POST("/api/franchises", handlers.CreateFranchiseHandler(store))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	select {
	case <-sigCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	case err := <-serverErrCh:
		if err != nil && err != http.ErrServerClosed {
			logger.WithFields(logrus.Fields{"field": "server"}).Error(err)
		}
	}
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		logger.WithFields(logrus.Fields{
			"status":         c.Writer.Status(),
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"latency":        latency.String(),
			"correlation_id": cid,
		}).Info("request")
	}
}
