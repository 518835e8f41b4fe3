package router

import (
	"net/http"

	"fairtix-engine/engine"
	"fairtix-engine/metrics"
	"fairtix-engine/utils"

	"github.com/gin-gonic/gin"
)

func respondOK(c *gin.Context, data interface{}, total int64) {
	result := &utils.HttpResult{}
	result.Code = 200
	result.Msg = "success"
	result.Data = data
	result.Total = total
	c.JSON(http.StatusOK, result)
}

func respondBadRequest(c *gin.Context, err error) {
	result := &utils.HttpResult{}
	result.Code = 400
	result.Msg = err.Error()
	c.JSON(http.StatusOK, result)
}

// respondErr maps an engine error kind to an HTTP status. Kindless errors
// are internal and not echoed to the client.
func respondErr(c *gin.Context, err error) {
	kind := engine.KindOf(err)
	if kind == "" {
		result := &utils.HttpResult{}
		result.Code = 500
		result.Msg = "server error"
		c.JSON(http.StatusInternalServerError, result)
		return
	}

	metrics.IncRejection(string(kind))

	code := http.StatusConflict
	switch kind {
	case engine.KindAuthorization, engine.KindNotEligible:
		code = http.StatusForbidden
	case engine.KindLimitExceeded, engine.KindPriceViolation:
		code = http.StatusUnprocessableEntity
	case engine.KindInvalidState, engine.KindTransferFailure:
		code = http.StatusConflict
	}

	result := &utils.HttpResult{}
	result.Code = code
	result.Msg = err.Error()
	c.JSON(code, result)
}
