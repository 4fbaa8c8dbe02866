package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/models"
)

func TestUserKeyIsHashed(t *testing.T) {
	store := NewUserStore(newSQLiteTable(t, KUserTableName))

	assert.Nil(t, store.Upsert(&models.AgentUser{
		AADUserId:      "user1",
		SubscriptionId: "sub1",
		Role:           config.ROLE_USER,
		Key:            "plain-key",
	}))

	ok, err := store.MatchKey("sub1", "user1", "plain-key")
	assert.Nil(t, err)
	assert.True(t, ok)

	ok, err = store.MatchKey("sub1", "user1", "wrong-key")
	assert.Nil(t, err)
	assert.False(t, ok)

	// the plaintext never lands in the row
	row, err := store.store.Get("sub1:user1", []string{KUserKeyHash})
	assert.Nil(t, err)
	assert.NotEqual(t, "plain-key", row[KUserKeyHash])
	assert.NotEqual(t, "", row[KUserKeyHash])
}

func TestAdminsLiveUnderReservedSubscription(t *testing.T) {
	store := NewUserStore(newSQLiteTable(t, KUserTableName))

	assert.Nil(t, store.Upsert(&models.AgentUser{
		AADUserId: "root",
		Role:      config.ROLE_ADMIN,
		Key:       "admin-key",
	}))

	admin, err := store.GetAdmin("root")
	assert.Nil(t, err)
	assert.NotNil(t, admin)
	assert.Equal(t, config.ROLE_ADMIN, admin.Role)
	assert.Equal(t, "", admin.SubscriptionId)

	ok, err := store.MatchAdminKey("root", "admin-key")
	assert.Nil(t, err)
	assert.True(t, ok)

	admins, err := store.ListAdmins()
	assert.Nil(t, err)
	assert.Len(t, admins, 1)

	assert.Nil(t, store.DeleteAdmin("root"))
	admin, err = store.GetAdmin("root")
	assert.Nil(t, err)
	assert.Nil(t, admin)
}

func TestAPIVersionCustomEntryPointsRoundTrip(t *testing.T) {
	store := NewAPIVersionStore(newSQLiteTable(t, KVersionTableName))

	version := &models.APIVersion{
		ProductName:       "prod",
		DeploymentName:    "dep",
		VersionName:       "v1",
		VersionSourceType: config.SOURCE_GIT,
		LastUpdatedTime:   "2023-01-01T00:00:00Z",
		WorkspaceName:     "ws1",
		CustomEntryPoints: map[string]string{"evaluate": "evaluate.py"},
	}
	assert.Nil(t, store.Upsert(version))

	loaded, err := store.Get("prod", "dep", "v1")
	assert.Nil(t, err)
	assert.Equal(t, version, loaded)

	versions, err := store.ListByDeployment("prod", "dep")
	assert.Nil(t, err)
	assert.Len(t, versions, 1)

	versions, err = store.ListByDeployment("prod", "other")
	assert.Nil(t, err)
	assert.Len(t, versions, 0)
}
