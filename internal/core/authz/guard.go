// Package authz decides whether an authenticated actor may invoke an
// operation. The mapping from operation to allowed roles lives in a single
// table so it can be audited in one place.
package authz

import (
	"fmt"

	"github.com/medstock/inventory-tracker/internal/core/domain"
)

// Operation names a guarded use case.
type Operation string

const (
	OpListUsers              Operation = "users.list"
	OpListUsersByRole        Operation = "users.list_by_role"
	OpAssignRole             Operation = "users.assign_role"
	OpReadStock              Operation = "stock.read"
	OpCreateStock            Operation = "stock.create"
	OpUpdateStock            Operation = "stock.update"
	OpListExpiringStock      Operation = "stock.expiring"
	OpListLowStock           Operation = "stock.low"
	OpListAllocations        Operation = "allocations.list"
	OpListAllocationsForUser Operation = "allocations.list_for_user"
	OpCreateAllocation       Operation = "allocations.create"
	OpUpdateAllocationStatus Operation = "allocations.update_status"
	OpListMovements          Operation = "movements.list"
	OpListStockMovements     Operation = "movements.list_for_item"
	OpViewReports            Operation = "reports.view"
)

var (
	executives  = []domain.Role{domain.RoleCEO, domain.RoleAdmin}
	allocators  = []domain.Role{domain.RoleCEO, domain.RoleAdmin, domain.RoleMarketer, domain.RoleSalesManager}
	stockEditor = []domain.Role{domain.RoleCEO, domain.RoleAdmin, domain.RoleStockManager, domain.RoleMarketer, domain.RoleSalesManager}
	stockViewer = []domain.Role{domain.RoleCEO, domain.RoleAdmin, domain.RoleStockManager}
)

// policy is the operation → allowed roles table.
var policy = map[Operation][]domain.Role{
	OpListUsers:              executives,
	OpListUsersByRole:        allocators,
	OpAssignRole:             executives,
	OpReadStock:              domain.AllRoles,
	OpCreateStock:            stockEditor,
	OpUpdateStock:            stockEditor,
	OpListExpiringStock:      stockViewer,
	OpListLowStock:           stockViewer,
	OpListAllocations:        domain.AllRoles,
	OpListAllocationsForUser: allocators,
	OpCreateAllocation:       allocators,
	OpUpdateAllocationStatus: allocators,
	OpListMovements:          executives,
	OpListStockMovements:     stockViewer,
	OpViewReports:            stockViewer,
}

// Actor is the authenticated caller resolved from the request.
type Actor struct {
	ID   string
	Role domain.Role
}

// Guard checks actors against the policy table.
type Guard struct {
	allowed map[Operation]map[domain.Role]struct{}
}

// NewGuard builds a Guard from the static policy table.
func NewGuard() *Guard {
	g := &Guard{allowed: make(map[Operation]map[domain.Role]struct{}, len(policy))}
	for op, roles := range policy {
		set := make(map[domain.Role]struct{}, len(roles))
		for _, r := range roles {
			set[r] = struct{}{}
		}
		g.allowed[op] = set
	}
	return g
}

// Authorize returns nil when actor may perform op. A missing actor yields
// domain.ErrUnauthenticated; a role outside the operation's set, or an
// operation absent from the table, yields domain.ErrForbidden.
func (g *Guard) Authorize(actor *Actor, op Operation) error {
	if actor == nil || actor.ID == "" || actor.Role == "" {
		return domain.ErrUnauthenticated
	}
	if _, ok := g.allowed[op][actor.Role]; !ok {
		return fmt.Errorf("%w: role %q may not perform %s", domain.ErrForbidden, actor.Role, op)
	}
	return nil
}

// AllowedRoles returns the roles permitted to perform op.
func (g *Guard) AllowedRoles(op Operation) []domain.Role {
	roles := policy[op]
	out := make([]domain.Role, len(roles))
	copy(out, roles)
	return out
}

// Operations lists every guarded operation.
func (g *Guard) Operations() []Operation {
	ops := make([]Operation, 0, len(policy))
	for op := range policy {
		ops = append(ops, op)
	}
	return ops
}

// AllocationScope returns the recipient filter applied when actor lists
// allocations. Medical reps only ever see their own; everyone else sees all
// (empty filter).
func AllocationScope(actor *Actor) string {
	if actor != nil && actor.Role == domain.RoleMedicalRep {
		return actor.ID
	}
	return ""
}
