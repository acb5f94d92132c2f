// Package domain defines the handoff model: roles and their dashboards, handoff tokens
// and their payloads, tenant sessions, origins and the handoff state machine.
package domain

import "strings"

// Role is a user's role within their company.
type Role string

// Known roles.
const (
	RoleAdmin      Role = "admin"
	RoleHR         Role = "hr"
	RoleManager    Role = "manager"
	RoleEmployee   Role = "employee"
	RoleAccountant Role = "accountant"
)

// dashboardPaths is the closed role to landing-page mapping.
var dashboardPaths = map[Role]string{
	RoleAdmin:      "/dashboard/hrm-dashboard",
	RoleHR:         "/dashboard/hrm-dashboard",
	RoleManager:    "/dashboard/manager-dashboard",
	RoleEmployee:   "/dashboard/employee-dashboard",
	RoleAccountant: "/dashboard/payroll-dashboard",
}

// DashboardPath returns the landing page for role. Roles outside the known set fail with
// ErrUnknownRole rather than falling back to some default page.
func DashboardPath(role Role) (string, error) {
	path, ok := dashboardPaths[role]
	if !ok {
		return "", ErrUnknownRole
	}
	return path, nil
}

// ParseRole normalizes s and checks it is a known role.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := dashboardPaths[role]; !ok {
		return "", ErrUnknownRole
	}
	return role, nil
}

// Roles returns every known role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleHR, RoleManager, RoleEmployee, RoleAccountant}
}
