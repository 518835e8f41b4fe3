package router

import (
	"fairtix-engine/engine"
	"fairtix-engine/models"
	"fairtix-engine/storage"

	"github.com/gin-gonic/gin"
)

type MarketRouter struct {
	eng *engine.Engine
	dbc *storage.DBClient
}

func NewMarketRouter(eng *engine.Engine, dbc *storage.DBClient) *MarketRouter {
	return &MarketRouter{
		eng: eng,
		dbc: dbc,
	}
}

func (r *MarketRouter) Buy(c *gin.Context) {
	params := &struct {
		Caller  string `json:"caller"`
		EventId uint   `json:"event_id"`
		Qty     uint   `json:"qty"`
		Payment int64  `json:"payment"`
	}{}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	ids, err := r.eng.Market.BuyPrimary(params.Caller, params.EventId, params.Qty, params.Payment)
	if err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, map[string]interface{}{"ticket_ids": ids}, int64(len(ids)))
}

func (r *MarketRouter) List(c *gin.Context) {
	params := &struct {
		Caller   string `json:"caller"`
		TicketId uint   `json:"ticket_id"`
		Price    int64  `json:"price"`
	}{}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := r.eng.Market.ListTicket(params.Caller, params.TicketId, params.Price); err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, nil, 0)
}

func (r *MarketRouter) Cancel(c *gin.Context) {
	params := &struct {
		Caller   string `json:"caller"`
		TicketId uint   `json:"ticket_id"`
	}{}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := r.eng.Market.CancelListing(params.Caller, params.TicketId); err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, nil, 0)
}

func (r *MarketRouter) Resale(c *gin.Context) {
	params := &struct {
		Caller   string `json:"caller"`
		TicketId uint   `json:"ticket_id"`
		Payment  int64  `json:"payment"`
	}{}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := r.eng.Market.BuyResale(params.Caller, params.TicketId, params.Payment); err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, nil, 0)
}

func (r *MarketRouter) Listings(c *gin.Context) {
	params := &struct {
		EventId uint   `json:"event_id"`
		Seller  string `json:"seller"`
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

	filter := &models.Listing{
		EventId: params.EventId,
		Seller:  params.Seller,
		Active:  true,
	}

	listings := make([]*models.Listing, 0)
	total := int64(0)
	err := r.dbc.DB.Model(&models.Listing{}).
		Where(filter).
		Count(&total).
		Order("id desc").
		Limit(params.Limit).
		Offset(params.OffSet).
		Find(&listings).Error
	if err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, listings, total)
}

func (r *MarketRouter) Deposit(c *gin.Context) {
	params := &struct {
		Account string `json:"account"`
		Amount  int64  `json:"amount"`
	}{}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := r.eng.Market.Deposit(params.Account, params.Amount); err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, nil, 0)
}

func (r *MarketRouter) Balance(c *gin.Context) {
	params := &struct {
		Account string `json:"account"`
	}{}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	balance, err := r.eng.Market.BalanceOf(params.Account)
	if err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, map[string]int64{"balance": balance}, 0)
}
