package module

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/models"
)

func TestGetProjectFileUrl(t *testing.T) {
	config.ConfigGlobal = config.DefaultConfig()
	config.ConfigGlobal.AgentId = "agent-1"
	config.ConfigGlobal.AgentKey = "agent-key"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "agent-1", r.Header.Get("x-agent-id"))
		assert.Equal(t, "agent-key", r.Header.Get("x-agent-key"))
		assert.Equal(t, "sub1", r.URL.Query().Get("subscriptionId"))
		assert.Equal(t, "v1", r.URL.Query().Get("versionName"))
		json.NewEncoder(w).Encode(map[string]string{"url": "https://signed.example/bundle.zip"})
	}))
	defer server.Close()

	client := NewControlPlaneClient(server.URL)
	url, err := client.GetProjectFileUrl(context.Background(), "sub1", "v1")
	assert.Nil(t, err)
	assert.Equal(t, "https://signed.example/bundle.zip", url)
}

func TestSyncSubscriptionsMergeWithDelete(t *testing.T) {
	service, _ := newTestService(t)

	// sub1 belongs to pub1 and is absent upstream, it must be removed;
	// rows of other publishers stay untouched
	seed := service.Subscriptions
	sub1, err := seed.Get("sub1")
	assert.Nil(t, err)
	sub1.PublisherId = "pub1"
	assert.Nil(t, seed.Upsert(sub1))
	assert.Nil(t, seed.Upsert(&models.Subscription{
		SubscriptionId: "sub-other",
		PublisherId:    "pub2",
	}))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]*models.Subscription{
			{SubscriptionId: "sub-new", UserId: "user9"},
		})
	}))
	defer server.Close()
	assert.Nil(t, service.Publishers.Upsert(&models.Publisher{
		PublisherId:     "pub1",
		ControlPlaneUrl: server.URL,
	}))

	assert.Nil(t, service.SyncSubscriptions(context.Background()))

	gone, err := service.Subscriptions.Get("sub1")
	assert.Nil(t, err)
	assert.Nil(t, gone)

	added, err := service.Subscriptions.Get("sub-new")
	assert.Nil(t, err)
	assert.NotNil(t, added)
	assert.Equal(t, "pub1", added.PublisherId)
	assert.Equal(t, "user9", added.UserId)

	kept, err := service.Subscriptions.Get("sub-other")
	assert.Nil(t, err)
	assert.NotNil(t, kept)
}
