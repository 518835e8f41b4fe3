package router

import (
	"fairtix-engine/engine"
	"fairtix-engine/models"
	"fairtix-engine/storage"

	"github.com/gin-gonic/gin"
)

type TicketRouter struct {
	eng *engine.Engine
	dbc *storage.DBClient
}

func NewTicketRouter(eng *engine.Engine, dbc *storage.DBClient) *TicketRouter {
	return &TicketRouter{
		eng: eng,
		dbc: dbc,
	}
}

func (r *TicketRouter) Approve(c *gin.Context) {
	params := &struct {
		Caller   string `json:"caller"`
		TicketId uint   `json:"ticket_id"`
	}{}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := r.eng.Ledger.Approve(params.Caller, params.TicketId); err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, nil, 0)
}

func (r *TicketRouter) Use(c *gin.Context) {
	params := &struct {
		Caller   string `json:"caller"`
		TicketId uint   `json:"ticket_id"`
	}{}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := r.eng.Ledger.UseTicket(params.Caller, params.TicketId); err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, nil, 0)
}

func (r *TicketRouter) Status(c *gin.Context) {
	params := &struct {
		Caller   string `json:"caller"`
		TicketId uint   `json:"ticket_id"`
		Status   string `json:"status"`
	}{}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := r.eng.Ledger.SetStatus(params.Caller, params.TicketId, params.Status); err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, nil, 0)
}

func (r *TicketRouter) Info(c *gin.Context) {
	params := &struct {
		TicketId uint `json:"ticket_id"`
	}{}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	ticket, err := r.eng.Ledger.GetTicket(params.TicketId)
	if err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, ticket, 0)
}

func (r *TicketRouter) List(c *gin.Context) {
	params := &struct {
		EventId uint   `json:"event_id"`
		Owner   string `json:"owner"`
		Status  string `json:"status"`
		Limit   int    `json:"limit"`
		OffSet  int    `json:"offset"`
	}{
		Limit:  10,
		OffSet: 0,
	}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	filter := &models.Ticket{
		EventId: params.EventId,
		Owner:   params.Owner,
		Status:  params.Status,
	}

	tickets := make([]*models.Ticket, 0)
	total := int64(0)
	err := r.dbc.DB.Model(&models.Ticket{}).
		Where(filter).
		Count(&total).
		Order("id desc").
		Limit(params.Limit).
		Offset(params.OffSet).
		Find(&tickets).Error
	if err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, tickets, total)
}
