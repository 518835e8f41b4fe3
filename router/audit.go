package router

import (
	"fairtix-engine/storage"

	"github.com/gin-gonic/gin"
)

type AuditRouter struct {
	audit *storage.AuditStore
}

func NewAuditRouter(audit *storage.AuditStore) *AuditRouter {
	return &AuditRouter{
		audit: audit,
	}
}

// Range serves the audit feed to the external observability consumer.
func (r *AuditRouter) Range(c *gin.Context) {
	params := &struct {
		From  uint64 `json:"from"`
		Limit int    `json:"limit"`
	}{
		From:  1,
		Limit: 100,
	}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	recs, err := r.audit.Range(params.From, params.Limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, recs, int64(len(recs)))
}
