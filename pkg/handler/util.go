package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/module"
)

const (
	apiKeyHeader  = "api-key"
	userIdHeader  = "x-user-id"
	apiVersionKey = "api-version"
)

func getBindResult(c *gin.Context, in interface{}) error {
	if err := binding.JSON.Bind(c.Request, in); err != nil {
		return err
	}
	return nil
}

func handleError(c *gin.Context, code int, err string) {
	c.JSON(code, gin.H{"message": err})
}

// handleCoreError the only place core errors turn into status codes.
// Server errors stay generic toward the caller, the cause goes to the log.
func handleCoreError(c *gin.Context, err error) {
	if errors.Is(err, module.ErrNotFound) {
		handleError(c, http.StatusNotFound, config.NOTFOUND)
		return
	}
	if module.IsUserError(err) {
		handleError(c, http.StatusBadRequest, err.Error())
		return
	}
	logrus.Error(err.Error())
	handleError(c, http.StatusInternalServerError, config.INTERNALERROR)
}
