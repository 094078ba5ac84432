package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"community/internal/certificate"
	"community/internal/cloudinary"
	"community/internal/config"
	"community/internal/meeting"
	"community/internal/member"
	"community/internal/metrics"
	"community/internal/queue"
	"community/internal/render"
	"community/internal/store"
)

// Worker consumes render jobs, produces certificate PDFs, and uploads them.
// A failed render leaves the certificate row untouched so the job can be
// requeued safely.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "community:renders")
	}

	certRepo := certificate.NewRepository(db.Client)
	memberRepo := member.NewRepository(db.Client)
	meetingRepo := meeting.NewRepository(db.Client)

	var cdnClient *cloudinary.Client
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cdnClient = cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		log.Println("Cloudinary configured:", cfg.CloudinaryCloudName)
	} else {
		log.Println("WARNING: Cloudinary not configured, rendered PDFs cannot be stored")
	}

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for render jobs...")
	for msg := range messages {
		if msg.Type != queue.TypeRenderCertificate {
			continue
		}

		id := string(msg.Body)
		log.Printf("rendering certificate %s", id)

		if err := renderOne(ctx, cfg, certRepo, memberRepo, meetingRepo, cdnClient, id); err != nil {
			metrics.CertificateRenders.WithLabelValues("failed").Inc()
			log.Printf("render %s failed: %v", id, err)
			continue
		}
		metrics.CertificateRenders.WithLabelValues("ok").Inc()
		log.Printf("certificate %s rendered and stored", id)

		time.Sleep(10 * time.Millisecond)
	}

	log.Println("worker stopped")
}

func renderOne(ctx context.Context, cfg config.App, certRepo *certificate.Repository, memberRepo *member.Repository, meetingRepo *meeting.Repository, cdnClient *cloudinary.Client, id string) error {
	cert, err := certRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cert == nil {
		log.Printf("certificate %s no longer exists, dropping job", id)
		return nil
	}

	contributor, err := memberRepo.GetByID(ctx, cert.ContributorID)
	if err != nil {
		return err
	}
	if contributor == nil {
		log.Printf("contributor %s missing for certificate %s, dropping job", cert.ContributorID, id)
		return nil
	}

	subject := "for reaching the quiz participation milestone"
	if cert.Kind == certificate.KindMeeting && cert.MeetingID != nil {
		m, err := meetingRepo.GetMeeting(ctx, *cert.MeetingID)
		if err != nil {
			return err
		}
		if m != nil {
			subject = "for active participation in " + m.Title
		}
	}

	pdf, err := render.Certificate(render.Data{
		OrgName:        cfg.OrgName,
		Recipient:      contributor.Name,
		Subject:        subject,
		Serial:         cert.Serial,
		IssuedAt:       cert.IssuedAt,
		VerifyURL:      certificate.VerifyURL(cfg.BaseURL, cert.Serial),
		Signatory:      cfg.SignatoryName,
		SignatoryTitle: cfg.SignatoryTitle,
	})
	if err != nil {
		return err
	}

	if cdnClient == nil {
		log.Printf("certificate %s rendered (%d bytes) but storage is not configured", id, len(pdf))
		return nil
	}

	result, err := cdnClient.UploadPDF(pdf, cert.Serial)
	if err != nil {
		return err
	}
	return certRepo.SetPDFURL(ctx, cert.ID, result.SecureURL)
}
