package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/imcbsglobal/task-webapp-backend/internal/attendance"
	"github.com/imcbsglobal/task-webapp-backend/internal/auth"
	"github.com/imcbsglobal/task-webapp-backend/internal/config"
	"github.com/imcbsglobal/task-webapp-backend/internal/handlers"
	"github.com/imcbsglobal/task-webapp-backend/internal/location"
	"github.com/imcbsglobal/task-webapp-backend/internal/middleware"
	"github.com/imcbsglobal/task-webapp-backend/internal/reports"
	"github.com/imcbsglobal/task-webapp-backend/internal/uploads"
)

func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) {
	router.Use(corsMiddleware(cfg.AllowedOriginsRaw))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "task-webapp-backend"})
	})
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "API is running"})
	})

	authority := auth.NewAuthority(cfg.JwtSecret)
	ledger := attendance.NewLedger(db, cfg.AllowMultipleOpenPunchin, cfg.Location)
	capture := location.NewCapture(db)
	gateway := reports.NewGateway(db, cfg.Location)
	signer := uploads.Signer{
		CloudName: cfg.UploadCloudName,
		APIKey:    cfg.UploadAPIKey,
		APISecret: cfg.UploadAPISecret,
	}

	authHandler := handlers.NewAuthHandler(db, authority, cfg)
	punchHandler := handlers.NewPunchHandler(ledger, signer, cfg.Location)
	shopHandler := handlers.NewShopLocationHandler(capture, cfg.Location)
	reportsHandler := handlers.NewReportsHandler(gateway, cfg.Location)

	api := router.Group("/api")
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("/")
	protected.Use(middleware.AuthRequired(authority))
	{
		protected.GET("/users", authHandler.Users)

		protected.POST("/punch-in", punchHandler.PunchIn)
		protected.POST("/punch-out/:id", punchHandler.PunchOut)
		protected.GET("/punch-status", punchHandler.Status)
		protected.GET("/punch-in/table", punchHandler.Table)
		protected.GET("/punch-in/table/export", punchHandler.TableExport)
		protected.GET("/punch-in/upload-signature", punchHandler.UploadSignature)

		protected.POST("/shop-location", shopHandler.Register)
		protected.GET("/shop-location/table", shopHandler.Table)
		protected.POST("/shop-location/status", shopHandler.UpdateStatus)
		protected.GET("/shop-location/firms", shopHandler.Firms)

		protected.GET("/areas", shopHandler.Areas)
		protected.POST("/update-area", middleware.RequireAdmin(), shopHandler.UpdateArea)

		protected.GET("/reports/debtors", reportsHandler.Debtors)
		protected.GET("/reports/suppliers", reportsHandler.Suppliers)
		protected.GET("/reports/sales-today", reportsHandler.SalesToday)
		protected.GET("/reports/sales-today/type-wise", reportsHandler.TypeWiseSalesToday)
		protected.GET("/reports/sales-types", reportsHandler.SalesTypes)
		protected.GET("/reports/purchase-today", reportsHandler.PurchaseToday)
		protected.GET("/reports/tender-cash", reportsHandler.TenderCash)
		protected.GET("/reports/tender-cash/by-type", reportsHandler.TenderCashByType)
		protected.GET("/reports/tender-cash/by-user", reportsHandler.TenderCashByUser)
		protected.GET("/reports/stock", reportsHandler.Stock)
	}
}

func corsMiddleware(allowed string) gin.HandlerFunc {
	origins := []string{}
	for _, origin := range strings.Split(allowed, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	allowAll := len(origins) == 0

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowedOrigin := range origins {
				if origin == allowedOrigin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					c.Writer.Header().Set("Vary", "Origin")
					break
				}
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
