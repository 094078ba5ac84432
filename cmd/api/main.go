package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"community/internal/admin"
	"community/internal/apperr"
	"community/internal/auth"
	"community/internal/blog"
	"community/internal/certificate"
	"community/internal/cloudinary"
	"community/internal/config"
	"community/internal/httpmiddleware"
	"community/internal/meeting"
	"community/internal/member"
	"community/internal/queue"
	"community/internal/quiz"
	"community/internal/store"
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
		return err
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "community:renders")
	}

	members := member.NewService(member.NewRepository(db.Client))
	meetings := meeting.NewService(meeting.NewRepository(db.Client))
	quizzes := quiz.NewService(quiz.NewRepository(db.Client), members, cfg.QuizSessionTTL)
	certs := certificate.NewService(certificate.NewRepository(db.Client), members, cfg.QuizMilestone)
	posts := blog.NewService(blog.NewRepository(db.Client))
	staff := admin.NewService(admin.NewRepository(db.Client), cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL, cfg.RefreshTTL)

	if err := staff.Bootstrap(context.Background(), cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
		log.Printf("warning: admin bootstrap failed: %v", err)
	}

	// Cloudinary client (nil when not configured)
	var cdnClient *cloudinary.Client
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cdnClient = cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		log.Println("Cloudinary configured:", cfg.CloudinaryCloudName)
	} else {
		log.Println("Cloudinary not configured (CLOUDINARY_CLOUD_NAME / API_KEY / API_SECRET not set)")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewRateLimiter(cfg.RateLimitPerMin, cfg.RateLimitPerMin).Middleware("/healthz", "/metrics"))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	// --- public surface ---

	r.POST("/api/auth/login", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		acct, tokens, err := staff.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"access_token":  tokens.AccessToken,
			"refresh_token": tokens.RefreshToken,
			"expires_at":    tokens.AccessExp.Unix(),
			"role":          acct.Role,
		})
	})

	r.POST("/api/auth/refresh", func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tokens, err := staff.Refresh(c.Request.Context(), req.RefreshToken)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"access_token":  tokens.AccessToken,
			"refresh_token": tokens.RefreshToken,
			"expires_at":    tokens.AccessExp.Unix(),
		})
	})

	r.GET("/api/meetings", func(c *gin.Context) {
		list, err := meetings.List(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"meetings": list})
	})

	r.GET("/api/posts", func(c *gin.Context) {
		list, err := posts.Published(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": list})
	})

	r.GET("/api/posts/:id", func(c *gin.Context) {
		p, err := posts.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		if p.Status != blog.StatusPublished {
			respondErr(c, apperr.New(apperr.CodeNotFound, "post not found"))
			return
		}
		c.JSON(http.StatusOK, p)
	})

	r.POST("/api/redeem", func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required"`
			Code  string `json:"code" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		redemption, err := members.Redeem(c.Request.Context(), req.Email, req.Code)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"points_awarded": redemption.Points, "redeemed_at": redemption.CreatedAt})
	})

	// Eligibility report: which certificates the contributor behind this
	// email can claim, plus their current tier.
	r.GET("/api/sertifikat", func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email query param required"})
			return
		}
		report, err := certs.Eligibility(c.Request.Context(), email)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	})

	r.GET("/verify/:serial", func(c *gin.Context) {
		cert, contributor, err := certs.Verify(c.Request.Context(), c.Param("serial"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"serial":    cert.Serial,
			"kind":      cert.Kind,
			"issued_at": cert.IssuedAt,
			"pdf_url":   cert.PDFURL,
			"holder":    gin.H{"name": contributor.Name, "email": contributor.Email},
		})
	})

	r.GET("/api/quiz/session/:token", func(c *gin.Context) {
		session, qz, err := quizzes.FetchSession(c.Request.Context(), c.Param("token"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token":      session.Token,
			"expires_at": session.ExpiresAt,
			"quiz": gin.H{
				"id":          qz.ID,
				"title":       qz.Title,
				"description": qz.Description,
				"questions":   qz.Questions,
			},
		})
	})

	r.POST("/api/quiz/submit", func(c *gin.Context) {
		var req struct {
			Token   string            `json:"token" binding:"required"`
			Email   string            `json:"email" binding:"required"`
			Name    string            `json:"name"`
			Answers map[string]string `json:"answers" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sub, err := quizzes.Submit(c.Request.Context(), req.Token, req.Email, req.Name, req.Answers)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"score": sub.Score, "total": len(req.Answers), "submitted_at": sub.SubmittedAt})
	})

	// --- staff surface ---

	api := r.Group("/api", auth.StaffAuth(cfg.JWTSigningKey, cfg.JWTIssuer))

	api.POST("/auth/logout", func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := staff.Logout(c.Request.Context(), req.RefreshToken); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	// contributors
	contributors := api.Group("", auth.Require(auth.ActionManageMembers))

	contributors.POST("/contributors", func(c *gin.Context) {
		var req struct {
			Name      string `json:"name" binding:"required"`
			Email     string `json:"email" binding:"required"`
			StudentID string `json:"student_id"`
			Cohort    string `json:"cohort"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		contrib, err := members.Register(c.Request.Context(), req.Name, req.Email, req.StudentID, req.Cohort)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, contributorJSON(contrib))
	})

	contributors.GET("/contributors", func(c *gin.Context) {
		list, err := members.List(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		out := make([]gin.H, 0, len(list))
		for _, contrib := range list {
			out = append(out, contributorJSON(contrib))
		}
		c.JSON(http.StatusOK, gin.H{"contributors": out})
	})

	contributors.GET("/contributors/:id", func(c *gin.Context) {
		contrib, err := members.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, contributorJSON(contrib))
	})

	contributors.DELETE("/contributors/:id", func(c *gin.Context) {
		if err := members.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	contributors.GET("/contributors/:id/participation", func(c *gin.Context) {
		records, err := meetings.History(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"records": records})
	})

	// redeem codes
	codes := api.Group("", auth.Require(auth.ActionManageCodes))

	codes.POST("/codes", func(c *gin.Context) {
		var req struct {
			Code      string     `json:"code" binding:"required"`
			Points    int        `json:"points" binding:"required"`
			MaxUses   int        `json:"max_uses"`
			ExpiresAt *time.Time `json:"expires_at"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		code, err := members.CreateCode(c.Request.Context(), req.Code, req.Points, req.MaxUses, req.ExpiresAt)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, code)
	})

	// meetings
	meetingAdmin := api.Group("", auth.Require(auth.ActionManageMeetings))

	meetingAdmin.POST("/meetings", func(c *gin.Context) {
		var req struct {
			Title               string    `json:"title" binding:"required"`
			Date                time.Time `json:"date" binding:"required"`
			Minutes             string    `json:"minutes"`
			CertificateEligible bool      `json:"certificate_eligible"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		m, err := meetings.Create(c.Request.Context(), req.Title, req.Date, req.Minutes, req.CertificateEligible)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, m)
	})

	meetingAdmin.PUT("/meetings/:id", func(c *gin.Context) {
		var req struct {
			Title   string `json:"title"`
			Minutes string `json:"minutes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		m, err := meetings.Update(c.Request.Context(), c.Param("id"), req.Title, req.Minutes)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	})

	meetingAdmin.POST("/meetings/:id/certificate-eligible", func(c *gin.Context) {
		if err := meetings.MarkCertificateEligible(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	meetingAdmin.GET("/meetings/:id/participation", func(c *gin.Context) {
		records, err := meetings.Roster(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"records": records})
	})

	meetingAdmin.POST("/meetings/:id/participation", func(c *gin.Context) {
		var req struct {
			ContributorID string `json:"contributor_id" binding:"required"`
			Status        string `json:"status" binding:"required"`
			Points        int    `json:"points"`
			Note          string `json:"note"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		record, err := meetings.RecordParticipation(c.Request.Context(), req.ContributorID, c.Param("id"), req.Status, req.Points, req.Note)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, record)
	})

	// quizzes
	quizAdmin := api.Group("", auth.Require(auth.ActionManageQuizzes))

	quizAdmin.POST("/quiz", func(c *gin.Context) {
		var req struct {
			Title       string `json:"title" binding:"required"`
			Description string `json:"description"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		qz, err := quizzes.Create(c.Request.Context(), req.Title, req.Description)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, qz)
	})

	quizAdmin.GET("/quiz", func(c *gin.Context) {
		list, err := quizzes.List(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"quizzes": list})
	})

	quizAdmin.GET("/quiz/:id", func(c *gin.Context) {
		qz, err := quizzes.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, qz)
	})

	quizAdmin.POST("/quiz/:id/questions", func(c *gin.Context) {
		var req struct {
			Prompt  string `json:"prompt" binding:"required"`
			OptionA string `json:"option_a" binding:"required"`
			OptionB string `json:"option_b" binding:"required"`
			OptionC string `json:"option_c" binding:"required"`
			OptionD string `json:"option_d" binding:"required"`
			Correct string `json:"correct" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		question, err := quizzes.AddQuestion(c.Request.Context(), c.Param("id"), req.Prompt, req.OptionA, req.OptionB, req.OptionC, req.OptionD, req.Correct)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, question)
	})

	generateLink := func(c *gin.Context) {
		session, err := quizzes.GenerateLink(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token":      session.Token,
			"url":        strings.TrimRight(cfg.BaseURL, "/") + "/api/quiz/session/" + session.Token,
			"expires_at": session.ExpiresAt,
		})
	}
	quizAdmin.POST("/quiz/:id/generate-link", generateLink)
	quizAdmin.GET("/quiz/:id/generate-link", generateLink)

	quizAdmin.GET("/quiz/:id/submissions", func(c *gin.Context) {
		subs, err := quizzes.Submissions(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"submissions": subs})
	})

	// certificates
	certAdmin := api.Group("", auth.Require(auth.ActionIssueCertificates))

	certAdmin.POST("/sertifikat", func(c *gin.Context) {
		var req struct {
			ContributorID string `json:"contributor_id" binding:"required"`
			Tipe          string `json:"tipe" binding:"required"`
			PertemuanID   string `json:"pertemuan_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cert, created, err := certs.Claim(c.Request.Context(), req.ContributorID, req.Tipe, req.PertemuanID)
		if err != nil {
			respondErr(c, err)
			return
		}
		if created {
			if err := q.Publish(c.Request.Context(), queue.Message{Type: queue.TypeRenderCertificate, Body: []byte(cert.ID)}); err != nil {
				log.Printf("queue publish failed: %v", err)
			}
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, cert)
	})

	// blog
	writers := api.Group("", auth.Require(auth.ActionWritePosts))

	writers.POST("/posts", func(c *gin.Context) {
		var req struct {
			Title    string `json:"title" binding:"required"`
			Body     string `json:"body"`
			CoverURL string `json:"cover_url"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p, err := posts.CreateDraft(c.Request.Context(), auth.ActorFrom(c).Subject, req.Title, req.Body, req.CoverURL)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	})

	writers.PUT("/posts/:id", func(c *gin.Context) {
		var req struct {
			Title    string `json:"title"`
			Body     string `json:"body"`
			CoverURL string `json:"cover_url"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p, err := posts.UpdateDraft(c.Request.Context(), c.Param("id"), req.Title, req.Body, req.CoverURL)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	// Cover image upload. Accepts a multipart file or a JSON base64 data URL
	// and returns the public Cloudinary URL for use in a post.
	writers.POST("/posts/cover", func(c *gin.Context) {
		if cdnClient == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage not configured"})
			return
		}

		var result *cloudinary.UploadResult
		var err error
		switch {
		case strings.Contains(c.ContentType(), "multipart/form-data"):
			file, header, ferr := c.Request.FormFile("file")
			if ferr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
				return
			}
			defer file.Close()
			data, ferr := io.ReadAll(file)
			if ferr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "read file failed"})
				return
			}
			result, err = cdnClient.UploadImageBytes(data, header.Filename)
		default:
			var body struct {
				Data string `json:"data" binding:"required"`
			}
			if berr := c.ShouldBindJSON(&body); berr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "provide {\"data\": \"<base64 data URL>\"}"})
				return
			}
			result, err = cdnClient.UploadImageBase64(body.Data)
		}
		if err != nil {
			log.Printf("cloudinary upload failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": result.SecureURL, "public_id": result.PublicID, "bytes": result.Bytes})
	})

	reviewers := api.Group("", auth.Require(auth.ActionReviewPosts))

	reviewers.GET("/posts/all", func(c *gin.Context) {
		list, err := posts.List(c.Request.Context(), c.Query("status"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": list})
	})

	reviewers.POST("/posts/:id/transition", func(c *gin.Context) {
		var req struct {
			To   string `json:"to" binding:"required"`
			Note string `json:"note"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p, err := posts.Transition(c.Request.Context(), c.Param("id"), req.To, req.Note)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	// Graceful shutdown
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

// respondErr maps service error codes onto HTTP statuses. Unexpected errors
// are logged and reported as 500 without leaking internals.
func respondErr(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code.HTTPStatus(), gin.H{"error": appErr.Message, "code": string(appErr.Code)})
		return
	}
	log.Printf("internal error on %s: %v", c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func contributorJSON(contrib member.Contributor) gin.H {
	return gin.H{
		"id":         contrib.ID,
		"name":       contrib.Name,
		"email":      contrib.Email,
		"student_id": contrib.StudentID,
		"cohort":     contrib.Cohort,
		"points":     contrib.Points,
		"tier":       member.Tier(contrib.Points),
		"active":     contrib.Active,
		"created_at": contrib.CreatedAt,
	}
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
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

// Security headers middleware
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
