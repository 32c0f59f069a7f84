// Package metrics defines and registers all custom Prometheus metrics for the
// blog platform API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignupsTotal counts signup requests by outcome.
// Label:
//   - result: "created" or "duplicate" (silent no-op on an existing email)
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup requests, by result.",
	},
	[]string{"result"},
)

// SigninsTotal counts signin attempts by outcome.
// Label:
//   - result: "success" or "failure"
var SigninsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of signin attempts, by result.",
	},
	[]string{"result"},
)

// TokensRevokedTotal counts refresh tokens appended to the blacklist.
var TokensRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_revoked_total",
		Help:      "Total number of refresh tokens revoked via signout.",
	},
)

// UnverifiedSweptTotal counts unverified accounts removed by the retention sweep.
var UnverifiedSweptTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unverified_swept_total",
		Help:      "Total number of unverified accounts deleted by the retention sweep.",
	},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailSentTotal counts successfully delivered outbound emails.
var MailSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_sent_total",
		Help:      "Total number of outbound emails delivered.",
	},
)

// MailFailedTotal counts failed deliveries (logged and dropped, never retried).
var MailFailedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_failed_total",
		Help:      "Total number of outbound emails that failed delivery.",
	},
)

// MailDroppedTotal counts messages dropped because the dispatcher queue was full.
var MailDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_dropped_total",
		Help:      "Total number of outbound emails dropped due to a full queue.",
	},
)

// ── Upload metrics ────────────────────────────────────────────────────────────

// UploadsTotal counts upload attempts by outcome.
// Labels:
//   - kind: "avatar" or "post_image"
//   - result: "accepted", "rejected" (validation), or "error"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of file uploads, by kind and result.",
	},
	[]string{"kind", "result"},
)
