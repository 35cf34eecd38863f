package cmd

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"facetag/handlers"
	"facetag/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newRouter(h *handlers.Handler) *gin.Engine {
	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestLogger(log))
	_ = router.SetTrustedProxies([]string{})
	router.MaxMultipartMemory = int64(cfg.MaxUploadMB) << 20
	if cfg.DebugMode {
		router.Use(utils.ErrorLogMiddleware(log))
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if !cfg.DebugMode {
		// Images are already compressed
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/processed/"})))
	}
	router.Use(utils.CacheControl(utils.CacheNoCache)) // No cache by default, individual end-points can override that
	h.Routes(router)
	return router
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg, log, true)
	if err != nil {
		return err
	}
	defer a.close()

	router := newRouter(handlers.New(cfg, a.service, a.store, a.storage, a.ping, log))

	if cfg.TLSDomains != "" {
		domains := strings.Split(cfg.TLSDomains, ",")
		log.WithField("domains", domains).Info("Starting server with autotls")
		return autotls.Run(router, domains...)
	}

	srv := &http.Server{
		Addr:              cfg.BindAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-cmd.Context().Done()
		log.Info("Shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Error("Server shutdown")
		}
	}()
	bucket := a.storage.GetBucket()
	log.WithFields(logrus.Fields{
		"address": cfg.BindAddress,
		"storage": bucket.StorageType,
		"path":    bucket.Path,
	}).Info("Starting server")
	if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
