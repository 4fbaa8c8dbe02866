package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/models"
	"github.com/Azure/aace/pkg/utils"
)

// deployment target catalog, static
var deploymentTargetTypes = []*models.DeploymentTargetType{
	{Id: "aks", DisplayName: "Azure Kubernetes Service"},
	{Id: "aci", DisplayName: "Azure Container Instances"},
}

func registerManagementHandlers(api *gin.RouterGroup, agent *AgentHandler) {
	management := api.Group("/management", agent.requireAdmin)

	management.GET("/subscriptions", agent.ListSubscriptions)
	management.GET("/subscriptions/:subscriptionId", agent.GetSubscription)
	management.PUT("/subscriptions/:subscriptionId", agent.PutSubscription)
	management.GET("/subscriptions/:subscriptionId/availablePlans", agent.ListAvailablePlans)
	management.GET("/subscriptions/:subscriptionId/users", agent.ListUsers)
	management.GET("/subscriptions/:subscriptionId/users/:userId", agent.GetUser)
	management.PUT("/subscriptions/:subscriptionId/users/:userId", agent.PutUser)
	management.DELETE("/subscriptions/:subscriptionId/users/:userId", agent.DeleteUser)
	management.POST("/refreshSubscriptions", agent.RefreshSubscriptions)

	management.GET("/admins", agent.ListAdmins)
	management.GET("/admins/:userId", agent.GetAdmin)
	management.PUT("/admins/:userId", agent.PutAdmin)
	management.DELETE("/admins/:userId", agent.DeleteAdmin)

	management.GET("/amlworkspaces", agent.ListWorkspaces)
	management.GET("/amlworkspaces/:workspaceName", agent.GetWorkspace)
	management.PUT("/amlworkspaces/:workspaceName", agent.PutWorkspace)
	management.DELETE("/amlworkspaces/:workspaceName", agent.DeleteWorkspace)

	management.GET("/publishers", agent.ListPublishers)
	management.GET("/publishers/:publisherId", agent.GetPublisher)
	management.PUT("/publishers/:publisherId", agent.PutPublisher)
	management.DELETE("/publishers/:publisherId", agent.DeletePublisher)

	management.GET("/deploymentTargetTypes", agent.ListDeploymentTargetTypes)
}

// requireAdmin management calls carry the admin's user id and personal key.
func (a *AgentHandler) requireAdmin(c *gin.Context) {
	userId := c.GetHeader(userIdHeader)
	key := c.GetHeader(apiKeyHeader)
	if userId == "" || key == "" {
		handleError(c, http.StatusUnauthorized, "missing admin credentials")
		c.Abort()
		return
	}
	ok, err := a.users.MatchAdminKey(userId, key)
	if err != nil {
		logrus.Errorf("match admin key: %s", err.Error())
		handleError(c, http.StatusInternalServerError, config.INTERNALERROR)
		c.Abort()
		return
	}
	if !ok {
		handleError(c, http.StatusUnauthorized, "invalid admin credentials")
		c.Abort()
		return
	}
}

func (a *AgentHandler) ListSubscriptions(c *gin.Context) {
	subscriptions, err := a.core.Subscriptions.ListAll()
	if err != nil {
		handleCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, subscriptions)
}

func (a *AgentHandler) GetSubscription(c *gin.Context) {
	subscription, err := a.core.Subscriptions.Get(c.Param("subscriptionId"))
	if err != nil {
		handleCoreError(c, err)
		return
	}
	if subscription == nil {
		handleError(c, http.StatusNotFound, config.NOTFOUND)
		return
	}
	c.JSON(http.StatusOK, subscription)
}

func (a *AgentHandler) PutSubscription(c *gin.Context) {
	subscription := new(models.Subscription)
	if err := getBindResult(c, subscription); err != nil {
		handleError(c, http.StatusBadRequest, config.BADREQUEST)
		return
	}
	if subscription.SubscriptionId != c.Param("subscriptionId") {
		handleError(c, http.StatusBadRequest, "subscription id mismatch")
		return
	}
	if err := a.core.Subscriptions.Upsert(subscription); err != nil {
		handleCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, subscription)
}

func (a *AgentHandler) ListAvailablePlans(c *gin.Context) {
	subscription, err := a.core.Subscriptions.Get(c.Param("subscriptionId"))
	if err != nil {
		handleCoreError(c, err)
		return
	}
	if subscription == nil {
		handleError(c, http.StatusNotFound, config.NOTFOUND)
		return
	}
	plans := make([]string, 0, 1)
	if subscription.PlanName != "" {
		plans = append(plans, subscription.PlanName)
	}
	c.JSON(http.StatusOK, plans)
}

// RefreshSubscriptions pull the current subscription set from every
// registered publisher, merge-with-delete.
func (a *AgentHandler) RefreshSubscriptions(c *gin.Context) {
	if err := a.core.SyncSubscriptions(c.Request.Context()); err != nil {
		handleCoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *AgentHandler) ListUsers(c *gin.Context) {
	users, err := a.users.ListBySubscription(c.Param("subscriptionId"))
	if err != nil {
		handleCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (a *AgentHandler) GetUser(c *gin.Context) {
	user, err := a.users.Get(c.Param("subscriptionId"), c.Param("userId"))
	if err != nil {
		handleCoreError(c, err)
		return
	}
	if user == nil {
		handleError(c, http.StatusNotFound, config.NOTFOUND)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (a *AgentHandler) PutUser(c *gin.Context) {
	user := new(models.AgentUser)
	if err := getBindResult(c, user); err != nil {
		handleError(c, http.StatusBadRequest, config.BADREQUEST)
		return
	}
	user.AADUserId = c.Param("userId")
	user.SubscriptionId = c.Param("subscriptionId")
	user.Role = config.ROLE_USER
	if user.CreatedTime == "" {
		user.CreatedTime = utils.NowUTC()
	}
	if err := a.users.Upsert(user); err != nil {
		handleCoreError(c, err)
		return
	}
	user.Key = ""
	c.JSON(http.StatusOK, user)
}

func (a *AgentHandler) DeleteUser(c *gin.Context) {
	if err := a.users.Delete(c.Param("subscriptionId"), c.Param("userId")); err != nil {
		handleCoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *AgentHandler) ListAdmins(c *gin.Context) {
	admins, err := a.users.ListAdmins()
	if err != nil {
		handleCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, admins)
}

func (a *AgentHandler) GetAdmin(c *gin.Context) {
	admin, err := a.users.GetAdmin(c.Param("userId"))
	if err != nil {
		handleCoreError(c, err)
		return
	}
	if admin == nil {
		handleError(c, http.StatusNotFound, config.NOTFOUND)
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (a *AgentHandler) PutAdmin(c *gin.Context) {
	admin := new(models.AgentUser)
	if err := getBindResult(c, admin); err != nil {
		handleError(c, http.StatusBadRequest, config.BADREQUEST)
		return
	}
	admin.AADUserId = c.Param("userId")
	admin.Role = config.ROLE_ADMIN
	if admin.CreatedTime == "" {
		admin.CreatedTime = utils.NowUTC()
	}
	if err := a.users.Upsert(admin); err != nil {
		handleCoreError(c, err)
		return
	}
	admin.Key = ""
	c.JSON(http.StatusOK, admin)
}

func (a *AgentHandler) DeleteAdmin(c *gin.Context) {
	if err := a.users.DeleteAdmin(c.Param("userId")); err != nil {
		handleCoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *AgentHandler) ListWorkspaces(c *gin.Context) {
	workspaces, err := a.core.Workspaces.ListAll()
	if err != nil {
		handleCoreError(c, err)
		return
	}
	// never expose stored secrets
	for _, workspace := range workspaces {
		workspace.AADSecret = ""
	}
	c.JSON(http.StatusOK, workspaces)
}

// GetWorkspace enrich the stored record with live cluster lists.
func (a *AgentHandler) GetWorkspace(c *gin.Context) {
	workspace, err := a.core.Workspaces.Get(c.Param("workspaceName"))
	if err != nil {
		handleCoreError(c, err)
		return
	}
	if workspace == nil {
		handleError(c, http.StatusNotFound, config.NOTFOUND)
		return
	}
	computeClusters, deploymentClusters, err := a.core.WorkspaceClusters(c.Request.Context(), workspace.Name)
	if err != nil {
		handleCoreError(c, err)
		return
	}
	workspace.ComputeClusters = computeClusters
	workspace.DeploymentClusters = deploymentClusters
	workspace.AADSecret = ""
	c.JSON(http.StatusOK, workspace)
}

func (a *AgentHandler) PutWorkspace(c *gin.Context) {
	workspace := new(models.Workspace)
	if err := getBindResult(c, workspace); err != nil {
		handleError(c, http.StatusBadRequest, config.BADREQUEST)
		return
	}
	workspace.Name = c.Param("workspaceName")
	if err := a.core.Workspaces.Upsert(workspace); err != nil {
		handleCoreError(c, err)
		return
	}
	workspace.AADSecret = ""
	c.JSON(http.StatusOK, workspace)
}

func (a *AgentHandler) DeleteWorkspace(c *gin.Context) {
	if err := a.core.Workspaces.Delete(c.Param("workspaceName")); err != nil {
		handleCoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *AgentHandler) ListPublishers(c *gin.Context) {
	publishers, err := a.core.Publishers.ListAll()
	if err != nil {
		handleCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, publishers)
}

func (a *AgentHandler) GetPublisher(c *gin.Context) {
	publisher, err := a.core.Publishers.Get(c.Param("publisherId"))
	if err != nil {
		handleCoreError(c, err)
		return
	}
	if publisher == nil {
		handleError(c, http.StatusNotFound, config.NOTFOUND)
		return
	}
	c.JSON(http.StatusOK, publisher)
}

func (a *AgentHandler) PutPublisher(c *gin.Context) {
	publisher := new(models.Publisher)
	if err := getBindResult(c, publisher); err != nil {
		handleError(c, http.StatusBadRequest, config.BADREQUEST)
		return
	}
	publisher.PublisherId = c.Param("publisherId")
	if err := a.core.Publishers.Upsert(publisher); err != nil {
		handleCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, publisher)
}

func (a *AgentHandler) DeletePublisher(c *gin.Context) {
	if err := a.core.Publishers.Delete(c.Param("publisherId")); err != nil {
		handleCoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *AgentHandler) ListDeploymentTargetTypes(c *gin.Context) {
	c.JSON(http.StatusOK, deploymentTargetTypes)
}
