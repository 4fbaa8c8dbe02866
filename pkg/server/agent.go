package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/datastore"
	"github.com/Azure/aace/pkg/handler"
	"github.com/Azure/aace/pkg/module"
	"github.com/Azure/aace/pkg/platform"
	"github.com/Azure/aace/pkg/secret"
)

type AgentServer struct {
	srv    *http.Server
	stores []interface{ Close() error }
}

func NewAgentServer(port string, dbType datastore.DatastoreType, mode string) (*AgentServer, error) {
	if mode == "product" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	tableFactory := datastore.DatastoreFactory{}
	workspaceStore := datastore.NewWorkspaceStore(tableFactory.NewTable(dbType, datastore.KWorkspaceTableName))
	subscriptionStore := datastore.NewSubscriptionStore(tableFactory.NewTable(dbType, datastore.KSubTableName))
	versionStore := datastore.NewAPIVersionStore(tableFactory.NewTable(dbType, datastore.KVersionTableName))
	userStore := datastore.NewUserStore(tableFactory.NewTable(dbType, datastore.KUserTableName))
	publisherStore := datastore.NewPublisherStore(tableFactory.NewTable(dbType, datastore.KPublisherTableName))
	secretTable := tableFactory.NewTable(dbType, datastore.KSecretTableName)

	secretCache := secret.NewCache(secret.NewDatastoreStore(secretTable))
	resolver := module.NewResolver(secretCache, platform.Connect)

	controlPlane := module.NewControlPlaneClient(config.ConfigGlobal.ControlPlaneUrl)
	// artifact staging is optional, self-host setups may run without a bucket
	codeManager := module.NewCodeManager(config.ConfigGlobal.CodeCacheDir, controlPlane, nil)
	if config.ConfigGlobal.Bucket != "" {
		artifacts, err := module.NewArtifactManager()
		if err != nil {
			return nil, err
		}
		codeManager = module.NewCodeManager(config.ConfigGlobal.CodeCacheDir, controlPlane, artifacts)
	}

	core := module.NewService(subscriptionStore, versionStore, workspaceStore, publisherStore,
		secretCache, resolver, codeManager)
	agentHandler := handler.NewAgentHandler(core, userStore, secretCache)
	handler.RegisterHandlers(router, agentHandler)

	return &AgentServer{
		srv: &http.Server{
			Addr:    net.JoinHostPort("0.0.0.0", port),
			Handler: router,
		},
		stores: []interface{ Close() error }{
			workspaceStore, subscriptionStore, versionStore, userStore, publisherStore, secretTable,
		},
	}, nil
}

// Start agent server
func (a *AgentServer) Start() error {
	if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.Fatalf("listen: %s", err.Error())
		return err
	}
	return nil
}

// Close shutdown agent server, timeout=shutdownTimeout
func (a *AgentServer) Close(shutdownTimeout time.Duration) error {
	for _, store := range a.stores {
		store.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.srv.Shutdown(ctx); err != nil {
		logrus.Error("server forced to shutdown: ", err)
		return err
	}
	return nil
}
