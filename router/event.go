package router

import (
	"fairtix-engine/config"
	"fairtix-engine/engine"
	"fairtix-engine/models"
	"fairtix-engine/storage"

	"github.com/gin-gonic/gin"
)

type EventRouter struct {
	eng *engine.Engine
	dbc *storage.DBClient
}

func NewEventRouter(eng *engine.Engine, dbc *storage.DBClient) *EventRouter {
	return &EventRouter{
		eng: eng,
		dbc: dbc,
	}
}

func (r *EventRouter) Create(c *gin.Context) {
	params := &struct {
		Organizer       string `json:"organizer"`
		TicketLedgerRef string `json:"ticket_ledger_ref"`
		SaleStart       int64  `json:"sale_start"`
		SaleEnd         int64  `json:"sale_end"`
		EventStart      int64  `json:"event_start"`
		BasePrice       int64  `json:"base_price"`
	}{}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	eventId, err := r.eng.Catalog.CreateEvent(params.Organizer, params.TicketLedgerRef, params.SaleStart, params.SaleEnd, params.EventStart, params.BasePrice)
	if err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, map[string]uint{"event_id": eventId}, 0)
}

func (r *EventRouter) Cancel(c *gin.Context) {
	params := &struct {
		Caller    string `json:"caller"`
		EventId   uint   `json:"event_id"`
		Cancelled *bool  `json:"cancelled"`
	}{}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	flag := true
	if params.Cancelled != nil {
		flag = *params.Cancelled
	}

	if err := r.eng.Catalog.SetCancelled(params.Caller, params.EventId, flag); err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, nil, 0)
}

// Policy accepts the resale ratios as decimal strings ("1.10", "0.05") and
// converts them to basis points before they reach the engine.
func (r *EventRouter) Policy(c *gin.Context) {
	params := &struct {
		Caller         string `json:"caller"`
		EventId        uint   `json:"event_id"`
		ResaleEnabled  bool   `json:"resale_enabled"`
		ResaleCapRatio string `json:"resale_cap_ratio"`
		MaxResales     uint   `json:"max_resales"`
		RoyaltyRatio   string `json:"royalty_ratio"`
	}{
		ResaleCapRatio: "1.00",
		RoyaltyRatio:   "0",
	}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	capBps, err := config.RatioBps(params.ResaleCapRatio)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	royaltyBps, err := config.RatioBps(params.RoyaltyRatio)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	err = r.eng.Market.SetEventPolicy(params.Caller, params.EventId, params.ResaleEnabled, capBps, params.MaxResales, royaltyBps)
	if err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, nil, 0)
}

func (r *EventRouter) Info(c *gin.Context) {
	params := &struct {
		EventId uint `json:"event_id"`
	}{}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	ev, err := r.eng.Catalog.GetEvent(params.EventId)
	if err != nil {
		respondErr(c, err)
		return
	}

	pol, err := r.eng.Catalog.GetPolicy(params.EventId)
	if err != nil {
		respondErr(c, err)
		return
	}

	saleOpen, err := r.eng.Catalog.IsSaleOpen(params.EventId)
	if err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, map[string]interface{}{
		"event":     ev,
		"policy":    pol,
		"sale_open": saleOpen,
	}, 0)
}

func (r *EventRouter) List(c *gin.Context) {
	params := &struct {
		Organizer string `json:"organizer"`
		Limit     int    `json:"limit"`
		OffSet    int    `json:"offset"`
	}{
		Limit:  10,
		OffSet: 0,
	}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	filter := &models.Event{
		Organizer: params.Organizer,
	}

	events := make([]*models.Event, 0)
	total := int64(0)
	err := r.dbc.DB.Model(&models.Event{}).
		Where(filter).
		Count(&total).
		Order("id desc").
		Limit(params.Limit).
		Offset(params.OffSet).
		Find(&events).Error
	if err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, events, total)
}
