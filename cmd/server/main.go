package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lmittmann/tint"

	"github.com/gigbridge/gigbridge/internal/alerts"
	"github.com/gigbridge/gigbridge/internal/auth"
	"github.com/gigbridge/gigbridge/internal/chat"
	"github.com/gigbridge/gigbridge/internal/config"
	"github.com/gigbridge/gigbridge/internal/db"
	"github.com/gigbridge/gigbridge/internal/jobs"
	mware "github.com/gigbridge/gigbridge/internal/middleware"
	"github.com/gigbridge/gigbridge/internal/offers"
	"github.com/gigbridge/gigbridge/internal/orders"
	"github.com/gigbridge/gigbridge/internal/payments"
	"github.com/gigbridge/gigbridge/internal/user"
	"github.com/gigbridge/gigbridge/internal/validation"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	db.Init(cfg)
	defer db.Close()

	alerts.ConfigureMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	alerts.Init(cfg.RedisAddr)
	defer alerts.Close()

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()

	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	// Health and root routes
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "gigbridge"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if db.Conn == nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db not initialized"})
		}
		if err := db.Conn.Ping(context.Background()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Public routes
	// Auth routes with per-IP rate limiting to protect signup/login from abuse
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", auth.Signup)
	authGroup.POST("/login", auth.Login)

	e.GET("/user/:id/profile", user.GetPublicProfile)

	e.GET("/jobs", jobs.ListJobs)
	e.GET("/jobs/:id", jobs.GetJob, mware.OptionalJWT)
	e.POST("/jobs/guest-submission", jobs.GuestSubmission)

	// Protected routes
	api := e.Group("")
	api.Use(mware.JWTMiddleware)

	api.GET("/auth/me", auth.Me)
	api.PATCH("/user/profile", user.UpdateProfile)

	api.POST("/jobs/create", jobs.CreateJob, mware.RequireRoles(user.RoleClient))
	api.GET("/jobs/my-jobs", jobs.MyJobs, mware.RequireRoles(user.RoleClient))
	api.PUT("/jobs/:id/update-status", jobs.UpdateStatus, mware.RequireRoles(user.RoleClient, user.RoleAdmin))
	api.POST("/jobs/:id/complete-registration", jobs.CompleteRegistration, mware.RequireRoles(user.RoleClient))

	api.POST("/offers/create", offers.CreateOffer, mware.RequireRoles(user.RoleFreelancer))
	api.POST("/offers/:id/accept", offers.AcceptOffer, mware.RequireRoles(user.RoleClient))
	api.POST("/offers/:id/reject", offers.RejectOffer, mware.RequireRoles(user.RoleClient))
	api.GET("/offers/job/:job_id", offers.ListForJob)

	api.GET("/orders/me", orders.MyOrders)
	api.GET("/orders/:id", orders.GetOrder)
	api.POST("/orders/:id/submit", orders.SubmitWork, mware.RequireRoles(user.RoleFreelancer))
	api.POST("/orders/:id/approve", orders.Approve, mware.RequireRoles(user.RoleClient))
	api.POST("/orders/:id/request-revision", orders.RequestRevision, mware.RequireRoles(user.RoleClient))
	api.POST("/orders/:id/cancel", orders.Cancel)

	api.GET("/payments/order/:order_id", payments.ListForOrder)
	api.POST("/payments/:id/process", payments.Process, mware.RequireRoles(user.RoleAdmin))

	api.GET("/chat", chat.ListChats)
	api.POST("/chat/create", chat.CreateChat, mware.RequireRoles(user.RoleFreelancer))
	api.POST("/chat/:id/send", chat.SendMessage)
	api.GET("/chat/:id/messages", chat.ListMessages)
	api.POST("/chat/:id/mark-read", chat.MarkRead)
	api.GET("/chat/unread-count", chat.UnreadCount)
	api.GET("/chat/:id/ws", chat.ChatWS)

	api.GET("/notifications", alerts.ListNotifications)
	api.POST("/notifications/:id/mark-read", alerts.MarkNotificationRead)
	api.POST("/notifications/mark-all-read", alerts.MarkAllRead)
	api.GET("/notifications/unread-count", alerts.UnreadCount)

	if err := e.Start(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
