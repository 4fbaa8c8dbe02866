package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/datastore"
	"github.com/Azure/aace/pkg/log"
	"github.com/Azure/aace/pkg/models"
	"github.com/Azure/aace/pkg/module"
	"github.com/Azure/aace/pkg/secret"
)

type AgentHandler struct {
	core    *module.Service
	users   *datastore.UserStore
	secrets *secret.Cache
}

func NewAgentHandler(core *module.Service, users *datastore.UserStore, secrets *secret.Cache) *AgentHandler {
	return &AgentHandler{
		core:    core,
		users:   users,
		secrets: secrets,
	}
}

func RegisterHandlers(router *gin.Engine, agent *AgentHandler) {
	api := router.Group("/api")
	api.GET("/agentinfo", agent.AgentInfo)

	api.POST("/:subscriptionId/:operationVerb", agent.SubmitOperation)
	api.GET("/:subscriptionId/operations/:operationVerb", agent.ListOperations)
	api.GET("/:subscriptionId/operations/:operationVerb/:operationId", agent.GetOperationStatus)
	api.GET("/:subscriptionId/:operationVerb", agent.ListOperationOutputs)
	api.GET("/:subscriptionId/:operationVerb/:operationId", agent.GetOperationOutput)
	api.DELETE("/:subscriptionId/:operationVerb/:operationId", agent.DeleteOperationOutput)

	registerManagementHandlers(api, agent)
}

// AgentInfo identity probe, no auth required
func (a *AgentHandler) AgentInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"agentId": config.ConfigGlobal.AgentId,
		"source":  config.ConfigGlobal.ServerName,
	})
}

// authorize validate the inbound subscription key against the subscription's
// primary or secondary key secret. A rotated key misses the reverse lookup
// and forces the caller to retry with the fresh value.
func (a *AgentHandler) authorize(c *gin.Context) (*models.Subscription, string, bool) {
	subscriptionId := c.Param("subscriptionId")
	subscription, err := a.core.Subscriptions.Get(subscriptionId)
	if err != nil {
		logrus.Errorf("load subscription %s: %s", subscriptionId, err.Error())
		handleError(c, http.StatusInternalServerError, config.INTERNALERROR)
		return nil, "", false
	}
	if subscription == nil {
		handleError(c, http.StatusNotFound, config.NOTFOUND)
		return nil, "", false
	}
	key := c.GetHeader(apiKeyHeader)
	if key == "" {
		handleError(c, http.StatusUnauthorized, "missing api key")
		return nil, "", false
	}
	name, ok, err := a.secrets.FindNameByValue(key)
	if err != nil {
		logrus.Errorf("validate api key: %s", err.Error())
		handleError(c, http.StatusInternalServerError, config.INTERNALERROR)
		return nil, "", false
	}
	if !ok || (name != subscription.PrimaryKeySecretName && name != subscription.SecondaryKeySecretName) {
		handleError(c, http.StatusUnauthorized, "invalid api key")
		return nil, "", false
	}
	userId := c.GetHeader(userIdHeader)
	if userId == "" {
		userId = subscription.UserId
	}
	return subscription, userId, true
}

// SubmitOperation submit verb as an asynchronous operation
// (POST /api/:subscriptionId/:operationVerb)
func (a *AgentHandler) SubmitOperation(c *gin.Context) {
	subscription, userId, ok := a.authorize(c)
	if !ok {
		return
	}
	verb := c.Param("operationVerb")
	apiVersion := c.Query(apiVersionKey)
	if apiVersion == "" {
		handleError(c, http.StatusBadRequest, "missing api-version")
		return
	}
	userInput, err := io.ReadAll(c.Request.Body)
	if err != nil {
		handleError(c, http.StatusBadRequest, config.BADREQUEST)
		return
	}

	operationId, err := a.core.SubmitOperation(c.Request.Context(), subscription.ProductName,
		subscription.DeploymentName, apiVersion, verb, string(userInput),
		c.Query("predecessorOperationId"), userId, subscription.SubscriptionId)
	if err != nil {
		handleCoreError(c, err)
		return
	}
	log.AgentLogInstance.LogFlow <- log.Record{
		OperationId: operationId,
		Msg: fmt.Sprintf("operation %s accepted for subscription %s",
			operationId, subscription.SubscriptionId),
	}
	c.JSON(http.StatusAccepted, gin.H{"operationId": operationId})
}

// GetOperationStatus status of one operation
// (GET /api/:subscriptionId/operations/:operationVerb/:operationId)
func (a *AgentHandler) GetOperationStatus(c *gin.Context) {
	subscription, userId, ok := a.authorize(c)
	if !ok {
		return
	}
	result, err := a.core.GetOperationStatus(c.Request.Context(), c.Param("operationVerb"),
		c.Param("operationId"), userId, subscription.SubscriptionId)
	if err != nil {
		handleCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListOperations all operations of one verb
// (GET /api/:subscriptionId/operations/:operationVerb)
func (a *AgentHandler) ListOperations(c *gin.Context) {
	subscription, userId, ok := a.authorize(c)
	if !ok {
		return
	}
	results, err := a.core.ListOperations(c.Request.Context(), c.Param("operationVerb"),
		userId, subscription.SubscriptionId)
	if err != nil {
		handleCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetOperationOutput output artifact of one operation
// (GET /api/:subscriptionId/:operationNoun/:operationId)
func (a *AgentHandler) GetOperationOutput(c *gin.Context) {
	subscription, userId, ok := a.authorize(c)
	if !ok {
		return
	}
	output, err := a.core.GetOperationOutput(c.Request.Context(), c.Param("operationVerb"),
		c.Param("operationId"), userId, subscription.SubscriptionId)
	if err != nil {
		handleCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, output)
}

// ListOperationOutputs outputs of every completed operation of one noun
// (GET /api/:subscriptionId/:operationNoun)
func (a *AgentHandler) ListOperationOutputs(c *gin.Context) {
	subscription, userId, ok := a.authorize(c)
	if !ok {
		return
	}
	outputs, err := a.core.ListOperationOutputs(c.Request.Context(), c.Param("operationVerb"),
		userId, subscription.SubscriptionId)
	if err != nil {
		handleCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, outputs)
}

// DeleteOperationOutput the platform owns artifact retention, deletion on
// the agent side is a no-op acknowledgement
// (DELETE /api/:subscriptionId/:operationNoun/:operationId)
func (a *AgentHandler) DeleteOperationOutput(c *gin.Context) {
	if _, _, ok := a.authorize(c); !ok {
		return
	}
	c.Status(http.StatusNoContent)
}
