// Package metrics defines and registers all custom Prometheus metrics for
// the work-order API. It is the single source of truth for metric names,
// labels, and help strings; promauto registers everything with the default
// registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "workorders"

// CreatedTotal counts work order rows created. A broadcast to N assignees
// adds N.
var CreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of work order rows created.",
	},
)

// DeliveriesTotal counts delivery attempts.
// Label:
//   - result: "ok", "rejected" (not found / wrong assignee / duplicate), or
//     "storage_error"
var DeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_total",
		Help:      "Total number of delivery attempts, by result.",
	},
	[]string{"result"},
)

// ArtifactDownloadsTotal counts artifact retrievals.
// Label:
//   - mode: "stream" (local backend) or "redirect" (presigned URL)
var ArtifactDownloadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "artifact_downloads_total",
		Help:      "Total number of artifact downloads, by delivery mode.",
	},
	[]string{"mode"},
)

// ArtifactsOrphanedTotal counts artifacts left behind because a best-effort
// release failed. Each increment is a reconciliation candidate.
var ArtifactsOrphanedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "artifacts_orphaned_total",
		Help:      "Total number of artifacts orphaned by failed best-effort deletes.",
	},
)
