package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardPath(t *testing.T) {
	tests := []struct {
		role Role
		path string
	}{
		{RoleAdmin, "/dashboard/hrm-dashboard"},
		{RoleHR, "/dashboard/hrm-dashboard"},
		{RoleManager, "/dashboard/manager-dashboard"},
		{RoleEmployee, "/dashboard/employee-dashboard"},
		{RoleAccountant, "/dashboard/payroll-dashboard"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			path, err := DashboardPath(tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.path, path)
		})
	}

	t.Run("Error_UnknownRoleFailsClosed", func(t *testing.T) {
		for _, role := range []Role{"", "superuser", "Admin", "auditor"} {
			path, err := DashboardPath(role)
			assert.ErrorIs(t, err, ErrUnknownRole, role)
			assert.Empty(t, path)
		}
	})

	t.Run("EveryRoleHasADashboard", func(t *testing.T) {
		for _, role := range Roles() {
			_, err := DashboardPath(role)
			assert.NoError(t, err, role)
		}
	})
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("  Manager ")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, role)

	_, err = ParseRole("owner")
	assert.ErrorIs(t, err, ErrUnknownRole)
}
