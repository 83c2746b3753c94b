// Package metrics defines and registers all custom Prometheus metrics for the
// stock allocation service. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "medstock"

// ── Allocation metrics ────────────────────────────────────────────────────────

// AllocationsCreatedTotal counts allocations committed by the engine.
var AllocationsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "allocations_created_total",
		Help:      "Total number of allocations successfully created.",
	},
)

// AllocationsFailedTotal counts rejected allocation requests.
// Label:
//   - reason: error kind (e.g. "insufficient_stock", "not_found", "invalid_input")
var AllocationsFailedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "allocations_failed_total",
		Help:      "Total number of allocation requests that were rejected.",
	},
	[]string{"reason"},
)

// AllocationStatusChangesTotal counts applied status transitions.
// Labels:
//   - from: previous status
//   - to:   new status
var AllocationStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "allocation_status_changes_total",
		Help:      "Total number of allocation status transitions, by from/to status.",
	},
	[]string{"from", "to"},
)

// ── Stock metrics ─────────────────────────────────────────────────────────────

// StockMovementsTotal counts committed ledger entries.
// Label:
//   - type: "add", "remove", "allocate" or "deallocate"
var StockMovementsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_movements_total",
		Help:      "Total number of stock movements recorded, by type.",
	},
	[]string{"type"},
)

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthzDeniedTotal counts requests rejected by the authorization guard.
// Labels:
//   - operation: guarded operation name (e.g. "allocations.create")
//   - outcome:   "forbidden" or "unauthenticated"
var AuthzDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denied_total",
		Help:      "Total number of requests denied by the authorization guard.",
	},
	[]string{"operation", "outcome"},
)
