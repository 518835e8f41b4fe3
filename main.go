package main

import (
	"os"
	"os/signal"
	"syscall"

	"fairtix-engine/config"
	"fairtix-engine/engine"
	"fairtix-engine/metrics"
	"fairtix-engine/router"
	"fairtix-engine/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	cfg config.Config
)

func main() {

	config.LoadConfig(&cfg, "")

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.Level(cfg.DebugLevel))

	var dbClient *storage.DBClient
	if cfg.Sqlite.Switch {
		dbClient = storage.NewSqliteClient(cfg.Sqlite)
	} else {
		dbClient = storage.NewMysqlClient(cfg.Mysql)
	}

	if err := dbClient.AutoMigrate(); err != nil {
		panic(err)
	}

	auditStore := storage.NewLevelDB(cfg.LevelDB)

	maxCapBps, err := config.RatioBps(cfg.Market.MaxResaleCapRatio)
	if err != nil {
		panic(err)
	}
	maxRoyaltyBps, err := config.RatioBps(cfg.Market.MaxRoyaltyRatio)
	if err != nil {
		panic(err)
	}

	eng := engine.NewEngine(engine.EngineProperty{
		Logger:          logger,
		DB:              dbClient,
		Audit:           auditStore,
		OperatorAccount: cfg.Market.OperatorAccount,
		TicketLedgerRef: cfg.Market.TicketLedgerRef,
		MaxResaleCapBps: maxCapBps,
		MaxRoyaltyBps:   maxRoyaltyBps,
		AdminAccounts:   cfg.Market.AdminAccounts,
		IdentityWriter:  cfg.Market.IdentityWriter,
		CheckInAccounts: cfg.Market.CheckInAccounts,
	})

	if err := eng.Bootstrap(); err != nil {
		panic(err)
	}

	if cfg.HttpServer.Switch {
		metrics.MustRegister()

		grt := gin.Default()
		grt.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept")
			c.Writer.Header().Set("Access-Control-Max-Age", "3600")
			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(200)
				return
			}
			c.Next()
		})

		grt.GET("/metrics", func(c *gin.Context) {
			promhttp.Handler().ServeHTTP(c.Writer, c.Request)
		})

		v1 := grt.Group("/v1")
		{
			identityRouter := router.NewIdentityRouter(eng)
			v1.POST("/identity/set", identityRouter.Set)
			v1.POST("/identity/rotate-writer", identityRouter.RotateWriter)
			v1.POST("/identity/get", identityRouter.Get)
			v1.POST("/identity/eligible", identityRouter.Eligible)

			eventRouter := router.NewEventRouter(eng, dbClient)
			v1.POST("/event/create", eventRouter.Create)
			v1.POST("/event/cancel", eventRouter.Cancel)
			v1.POST("/event/policy", eventRouter.Policy)
			v1.POST("/event/info", eventRouter.Info)
			v1.POST("/event/list", eventRouter.List)

			ticketRouter := router.NewTicketRouter(eng, dbClient)
			v1.POST("/ticket/approve", ticketRouter.Approve)
			v1.POST("/ticket/use", ticketRouter.Use)
			v1.POST("/ticket/status", ticketRouter.Status)
			v1.POST("/ticket/info", ticketRouter.Info)
			v1.POST("/ticket/list", ticketRouter.List)

			marketRouter := router.NewMarketRouter(eng, dbClient)
			v1.POST("/market/buy", marketRouter.Buy)
			v1.POST("/market/list", marketRouter.List)
			v1.POST("/market/cancel", marketRouter.Cancel)
			v1.POST("/market/resale", marketRouter.Resale)
			v1.POST("/market/listings", marketRouter.Listings)
			v1.POST("/funds/deposit", marketRouter.Deposit)
			v1.POST("/funds/balance", marketRouter.Balance)

			auditRouter := router.NewAuditRouter(auditStore)
			v1.POST("/audit/range", auditRouter.Range)
		}

		go func() {
			if err := grt.Run(cfg.HttpServer.Server); err != nil {
				panic(err)
			}
		}()
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Info("received an interrupt, stopping services...")
	_ = auditStore.Close()
}
