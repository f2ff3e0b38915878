package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	C "shoplens/config"
	H "shoplens/handler"
)

// ./run_server --env=development --port=8080 --seed=42 --visits_per_month=25000 --months=2
func main() {
	conf, err := C.Init()
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize config.")
	}

	if !C.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := H.NewApp(conf)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize app.")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	H.InitRoutes(r, app)

	log.WithFields(log.Fields{"env": conf.Env, "port": conf.Port}).Info("Starting server.")
	if err := r.Run(fmt.Sprintf(":%d", conf.Port)); err != nil {
		log.WithError(err).Fatal("Server exited.")
	}
}
