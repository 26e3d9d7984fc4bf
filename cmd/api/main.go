package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dhru-Will/dayflow-hrms/internal/attendance"
	"github.com/Dhru-Will/dayflow-hrms/internal/config"
	"github.com/Dhru-Will/dayflow-hrms/internal/employee"
	"github.com/Dhru-Will/dayflow-hrms/internal/httpmiddleware"
	"github.com/Dhru-Will/dayflow-hrms/internal/metrics"
	"github.com/Dhru-Will/dayflow-hrms/internal/queue"
	"github.com/Dhru-Will/dayflow-hrms/internal/roles"
	"github.com/Dhru-Will/dayflow-hrms/internal/session"
	"github.com/Dhru-Will/dayflow-hrms/internal/snapshot"
	"github.com/Dhru-Will/dayflow-hrms/internal/store"
	"github.com/Dhru-Will/dayflow-hrms/internal/timeoff"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Printf("warning: db not reachable: %v", err)
	} else if err := db.EnsureSchema(context.Background()); err != nil {
		log.Printf("warning: schema setup failed: %v", err)
	}
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var snaps snapshot.Store
	if cfg.SnapshotBackend == "memory" {
		snaps = snapshot.NewMemory()
	} else {
		snaps = snapshot.NewRedisStore(redisClient.Client, "dayflow", cfg.SnapshotTTL)
	}

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)
	}

	dir := session.SeedDirectory()
	authority := session.NewAuthority(dir, snaps)
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 5*time.Second)
	restored := authority.Restore(startupCtx)
	cancelStartup()
	if restored.IsAuthenticated() {
		log.Printf("restored session for %s", restored.User.LoginID)
	}

	records := attendance.NewRepository(db.Client)
	tracker := attendance.NewTracker(snaps, records, nil)
	employees := employee.NewRepository(db.Client)
	leaves := timeoff.NewRepository(db.Client)

	if cfg.Env == "dev" {
		if err := employees.SeedDefaults(context.Background()); err != nil {
			log.Printf("warning: employee seed failed: %v", err)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware(cfg.CORSOrigins))
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db != nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	r.POST("/v1/auth/login", func(c *gin.Context) {
		var req struct {
			LoginID  string `json:"login_id" binding:"required"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := authority.Login(c.Request.Context(), req.LoginID, req.Password)
		if err != nil {
			metrics.LoginFailures.Inc()
			if errors.Is(err, session.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid login id or password"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}

		tokens, err := session.IssueTokens(user, cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL, cfg.RefreshTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
			return
		}

		metrics.Logins.Inc()
		c.JSON(http.StatusOK, gin.H{
			"access_token":  tokens.AccessToken,
			"refresh_token": tokens.RefreshToken,
			"expires_at":    tokens.AccessExp.Unix(),
			"user":          user,
		})
	})

	authed := r.Group("/v1", session.RequireAuth(cfg.JWTSigningKey, cfg.JWTIssuer))

	authed.POST("/auth/logout", func(c *gin.Context) {
		if err := authority.Logout(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "logged out"})
	})

	authed.GET("/auth/me", func(c *gin.Context) {
		user, _ := session.UserFrom(c)
		c.JSON(http.StatusOK, gin.H{
			"user":     user,
			"role":     user.Role,
			"initials": employee.Initials(user.Name),
		})
	})

	authed.GET("/attendance/today", func(c *gin.Context) {
		user, _ := session.UserFrom(c)
		state, err := tracker.State(c.Request.Context(), user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"state": state})
	})

	authed.POST("/attendance/checkin", func(c *gin.Context) {
		user, _ := session.UserFrom(c)
		state, rec, err := tracker.CheckIn(c.Request.Context(), user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		metrics.CheckIns.Inc()
		publishAttendance(c.Request.Context(), q, queue.AttendanceEvent{
			Kind:   "checkin",
			UserID: user.ID,
			Date:   rec.Date,
		})
		c.JSON(http.StatusOK, gin.H{"state": state, "record": rec})
	})

	authed.POST("/attendance/checkout", func(c *gin.Context) {
		user, _ := session.UserFrom(c)
		state, rec, err := tracker.CheckOut(c.Request.Context(), user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		metrics.CheckOuts.Inc()
		publishAttendance(c.Request.Context(), q, queue.AttendanceEvent{
			Kind:   "checkout",
			UserID: user.ID,
			Date:   rec.Date,
			Hours:  rec.HoursWorked,
		})
		c.JSON(http.StatusOK, gin.H{"state": state, "record": rec})
	})

	authed.GET("/attendance/history", func(c *gin.Context) {
		user, _ := session.UserFrom(c)
		limit, offset := intQuery(c, "limit", 50), intQuery(c, "offset", 0)
		history, err := tracker.History(c.Request.Context(), user.ID, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"records": history,
			"summary": attendance.Summarize(history),
		})
	})

	authed.GET("/employees", func(c *gin.Context) {
		user, _ := session.UserFrom(c)
		list, err := employees.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		today := tracker.Today()
		annotated := employee.WithAttendanceStatus(employee.RedactAll(list, user.Role), func(employeeID string) (string, bool) {
			u, ok := dir.Lookup(employeeID)
			if !ok {
				return "", false
			}
			rec, err := records.GetRecord(c.Request.Context(), u.ID, today)
			if err != nil || rec == nil {
				return "", false
			}
			return string(rec.Status), true
		})
		c.JSON(http.StatusOK, gin.H{"employees": annotated})
	})

	authed.GET("/employees/:id", func(c *gin.Context) {
		user, _ := session.UserFrom(c)
		emp, err := employees.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, employee.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"employee": emp.Redact(user.Role)})
	})

	authed.GET("/timeoff", func(c *gin.Context) {
		user, _ := session.UserFrom(c)
		limit, offset := intQuery(c, "limit", 50), intQuery(c, "offset", 0)

		// ADMIN and HR review everyone; employees only see their own.
		filter := user.LoginID
		if roles.HasAnyRole(user.Role, roles.Admin, roles.HR) {
			filter = ""
		}
		list, err := leaves.List(c.Request.Context(), filter, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"requests": list})
	})

	authed.POST("/timeoff", func(c *gin.Context) {
		var req struct {
			LeaveType string `json:"leave_type" binding:"required"`
			StartDate string `json:"start_date" binding:"required"`
			EndDate   string `json:"end_date" binding:"required"`
			Reason    string `json:"reason"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, _ := session.UserFrom(c)
		today := time.Now().Format("2006-01-02")
		submitted := timeoff.Submit(user.LoginID, user.Name, timeoff.LeaveType(req.LeaveType),
			req.StartDate, req.EndDate, req.Reason, today)
		if err := leaves.Insert(c.Request.Context(), submitted); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"request": submitted})
	})

	reviewers := authed.Group("/timeoff", session.RequireRole(roles.Admin, roles.HR))
	reviewers.POST("/:id/approve", reviewHandler(leaves, timeoff.Approve))
	reviewers.POST("/:id/reject", reviewHandler(leaves, timeoff.Reject))

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// reviewHandler builds the approve/reject route around one review function.
func reviewHandler(leaves *timeoff.Repository, review func(timeoff.Request, session.User, string) (timeoff.Request, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := session.UserFrom(c)
		req, err := leaves.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, timeoff.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		today := time.Now().Format("2006-01-02")
		reviewed, err := review(req, user, today)
		if err != nil {
			if errors.Is(err, timeoff.ErrAlreadyReviewed) {
				c.JSON(http.StatusConflict, gin.H{"error": "already reviewed", "request": req})
				return
			}
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		if err := leaves.SaveReview(c.Request.Context(), reviewed); err != nil {
			if errors.Is(err, timeoff.ErrAlreadyReviewed) {
				c.JSON(http.StatusConflict, gin.H{"error": "already reviewed", "request": req})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		metrics.LeaveReviews.WithLabelValues(string(reviewed.Status)).Inc()
		c.JSON(http.StatusOK, gin.H{"request": reviewed})
	}
}

func publishAttendance(ctx context.Context, q queue.Queue, evt queue.AttendanceEvent) {
	msg, err := queue.NewAttendanceMessage(evt)
	if err != nil {
		log.Printf("encode attendance event failed: %v", err)
		return
	}
	if err := q.Publish(ctx, msg); err != nil {
		log.Printf("queue publish failed: %v", err)
	}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// CORS middleware for browser requests.
func corsMiddleware(origins string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := origins
		if origins == "*" {
			if reqOrigin := c.Request.Header.Get("Origin"); reqOrigin != "" {
				origin = reqOrigin
			}
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
