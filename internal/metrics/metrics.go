// Package metrics exposes Prometheus counters for domain events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QuizSubmissions counts scored quiz submissions.
	QuizSubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "community",
		Name:      "quiz_submissions_total",
		Help:      "Total number of scored quiz submissions",
	})

	// CertificatesIssued counts newly issued certificates by kind.
	CertificatesIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "community",
		Name:      "certificates_issued_total",
		Help:      "Total number of certificates issued",
	}, []string{"kind"})

	// CertificateRenders counts render attempts by outcome.
	CertificateRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "community",
		Name:      "certificate_renders_total",
		Help:      "Total number of certificate PDF render attempts",
	}, []string{"outcome"})

	// CodeRedemptions counts accepted redeem-code uses.
	CodeRedemptions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "community",
		Name:      "code_redemptions_total",
		Help:      "Total number of accepted code redemptions",
	})
)
