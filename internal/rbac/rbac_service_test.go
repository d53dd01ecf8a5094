package rbac_test

import (
	"testing"

	"go-leave/internal/rbac"

	"github.com/stretchr/testify/assert"
)

func TestEnforce(t *testing.T) {
	enforcer, err := rbac.NewEnforcer()
	assert.NoError(t, err)

	service := rbac.NewService(enforcer)

	cases := []struct {
		name    string
		role    string
		res     string
		act     string
		allowed bool
	}{
		{"hr reviews leave", "hr", "leave", "review", true},
		{"admin reviews leave", "admin", "leave", "review", true},
		{"employee cannot review", "employee", "leave", "review", false},
		{"hr reads all requests", "hr", "leave", "read_all", true},
		{"employee cannot read all", "employee", "leave", "read_all", false},
		{"unknown role denied", "intern", "leave", "review", false},
		{"admin manages users", "admin", "user", "manage", true},
		{"hr cannot manage users", "hr", "user", "manage", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := service.Enforce(rbac.EnforceRequest{
				Role:     tc.role,
				Resource: tc.res,
				Action:   tc.act,
			})
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, got)
		})
	}
}
