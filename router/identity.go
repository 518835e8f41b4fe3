package router

import (
	"fairtix-engine/engine"

	"github.com/gin-gonic/gin"
)

type IdentityRouter struct {
	eng *engine.Engine
}

func NewIdentityRouter(eng *engine.Engine) *IdentityRouter {
	return &IdentityRouter{
		eng: eng,
	}
}

func (r *IdentityRouter) Set(c *gin.Context) {
	params := &struct {
		Caller       string `json:"caller"`
		Wallet       string `json:"wallet"`
		IdentityHash string `json:"identity_hash"`
		MaxTickets   uint   `json:"max_tickets"`
		Blocked      bool   `json:"blocked"`
		Expiry       int64  `json:"expiry"`
	}{}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	err := r.eng.Registry.SetIdentity(params.Caller, params.Wallet, params.IdentityHash, params.MaxTickets, params.Blocked, params.Expiry)
	if err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, nil, 0)
}

func (r *IdentityRouter) RotateWriter(c *gin.Context) {
	params := &struct {
		Caller    string `json:"caller"`
		NewWriter string `json:"new_writer"`
	}{}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := r.eng.Registry.RotateWriter(params.Caller, params.NewWriter); err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, nil, 0)
}

func (r *IdentityRouter) Get(c *gin.Context) {
	params := &struct {
		Wallet string `json:"wallet"`
	}{}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	identity, err := r.eng.Registry.GetIdentity(params.Wallet)
	if err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, identity, 0)
}

func (r *IdentityRouter) Eligible(c *gin.Context) {
	params := &struct {
		Wallet string `json:"wallet"`
	}{}

	if err := c.ShouldBindJSON(&params); err != nil {
		respondBadRequest(c, err)
		return
	}

	eligible, err := r.eng.Registry.IsEligible(params.Wallet)
	if err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, map[string]bool{"eligible": eligible}, 0)
}
