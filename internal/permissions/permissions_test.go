package permissions_test

import (
	"errors"
	"testing"

	"booktank/internal/apperrors"
	"booktank/internal/models"
	"booktank/internal/permissions"

	"github.com/stretchr/testify/assert"
)

var roles = []models.Role{models.RoleCustomer, models.RoleAuthor, models.RoleAdmin}

func TestAdminOnly(t *testing.T) {
	assert.False(t, permissions.AdminOnly{Principal: permissions.Principal{ID: 1, Role: models.RoleCustomer}}.Allowed())
	assert.False(t, permissions.AdminOnly{Principal: permissions.Principal{ID: 1, Role: models.RoleAuthor}}.Allowed())
	assert.True(t, permissions.AdminOnly{Principal: permissions.Principal{ID: 1, Role: models.RoleAdmin}}.Allowed())
}

func TestSelfOnly(t *testing.T) {
	for _, role := range roles {
		p := permissions.Principal{ID: 5, Role: role}
		assert.True(t, permissions.SelfOnly{Principal: p, TargetID: 5}.Allowed(), role)
		assert.False(t, permissions.SelfOnly{Principal: p, TargetID: 6}.Allowed(), role)
	}
}

func TestSelfOrAdmin(t *testing.T) {
	cases := []struct {
		name     string
		role     models.Role
		id       int64
		target   int64
		expected bool
	}{
		{"customer on self", models.RoleCustomer, 5, 5, true},
		{"customer on other", models.RoleCustomer, 5, 7, false},
		{"author on other", models.RoleAuthor, 5, 7, false},
		{"admin on other", models.RoleAdmin, 1, 7, true},
		{"admin on self", models.RoleAdmin, 1, 1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := permissions.SelfOrAdmin{Principal: permissions.Principal{ID: tc.id, Role: tc.role}, TargetID: tc.target}
			assert.Equal(t, tc.expected, p.Allowed())
		})
	}
}

func TestAuthorOrAdmin(t *testing.T) {
	assert.False(t, permissions.AuthorOrAdmin{Principal: permissions.Principal{Role: models.RoleCustomer}}.Allowed())
	assert.True(t, permissions.AuthorOrAdmin{Principal: permissions.Principal{Role: models.RoleAuthor}}.Allowed())
	assert.True(t, permissions.AuthorOrAdmin{Principal: permissions.Principal{Role: models.RoleAdmin}}.Allowed())
}

func TestPoliciesAreDeterministic(t *testing.T) {
	for _, role := range roles {
		for id := int64(0); id < 4; id++ {
			for target := int64(0); target < 4; target++ {
				p := permissions.Principal{ID: id, Role: role}
				policies := []permissions.Policy{
					permissions.AdminOnly{Principal: p},
					permissions.SelfOnly{Principal: p, TargetID: target},
					permissions.SelfOrAdmin{Principal: p, TargetID: target},
					permissions.AuthorOrAdmin{Principal: p},
				}
				for _, policy := range policies {
					assert.Equal(t, policy.Allowed(), policy.Allowed())
				}
			}
		}
	}
}

func TestAnyOf(t *testing.T) {
	customer := permissions.Principal{ID: 3, Role: models.RoleCustomer}
	assert.False(t, permissions.AnyOf{}.Allowed())
	assert.True(t, permissions.AnyOf{
		permissions.AdminOnly{Principal: customer},
		permissions.SelfOnly{Principal: customer, TargetID: 3},
	}.Allowed())
	assert.False(t, permissions.AnyOf{
		permissions.AdminOnly{Principal: customer},
		permissions.AuthorOrAdmin{Principal: customer},
	}.Allowed())
}

func TestAuthorize(t *testing.T) {
	err := permissions.Authorize(permissions.AdminOnly{Principal: permissions.Principal{Role: models.RoleCustomer}})
	assert.True(t, errors.Is(err, apperrors.ErrAuthorization))
	assert.NoError(t, permissions.Authorize(permissions.AdminOnly{Principal: permissions.Principal{Role: models.RoleAdmin}}))
}

func TestParseTargetID(t *testing.T) {
	id, err := permissions.ParseTargetID("42")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"abc", "", "4.2", "99999999999999999999"} {
		_, err := permissions.ParseTargetID(raw)
		assert.True(t, errors.Is(err, apperrors.ErrMalformedRequest), raw)
	}
}
