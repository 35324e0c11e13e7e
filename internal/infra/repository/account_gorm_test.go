package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/petcare-scheduler/internal/auth"
)

func TestAccountExists_IgnoresTrashedRows(t *testing.T) {
	repo, rec := dryRun(t)
	accounts := NewAccountGormRepository(repo.db)

	_, err := accounts.Exists(context.Background(), auth.Principal{ID: 7, Role: auth.RolePetOwner})
	require.NoError(t, err)

	sql := rec.last(t)
	assert.Contains(t, sql, `SELECT count(*) FROM "pet_owners"`)
	assert.Contains(t, sql, "id = 7")
	assert.Contains(t, sql, `"pet_owners"."deleted_at" IS NULL`)

	_, err = accounts.Exists(context.Background(), auth.Principal{ID: 2, Role: auth.RoleBusinessOwner})
	require.NoError(t, err)
	assert.Contains(t, rec.last(t), `"business_owners"."deleted_at" IS NULL`)
}

func TestAccountExists_StaffNeedsLiveBusiness(t *testing.T) {
	repo, rec := dryRun(t)
	accounts := NewAccountGormRepository(repo.db)

	_, err := accounts.Exists(context.Background(), auth.Principal{ID: 5, Role: auth.RoleStaff, BusinessID: 3})
	require.NoError(t, err)

	sql := rec.last(t)
	assert.Contains(t, sql, `FROM "staffs" JOIN businesses ON businesses.id = staffs.business_id AND businesses.deleted_at IS NULL`)
	assert.Contains(t, sql, "staffs.id = 5 AND staffs.business_id = 3")
	assert.Contains(t, sql, `"staffs"."deleted_at" IS NULL`)
}

func TestAccountExists_UnknownRole(t *testing.T) {
	repo, rec := dryRun(t)
	accounts := NewAccountGormRepository(repo.db)

	ok, err := accounts.Exists(context.Background(), auth.Principal{ID: 1, Role: auth.Role("admin")})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, rec.all())
}
