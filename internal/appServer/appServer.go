// launching the server: storage, repositories, pipelines, transport
package appServer

import (
	"context"
	"crypto/tls"
	"log"

	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/printforge/designer/config"
	"github.com/printforge/designer/internal/database"
	"github.com/printforge/designer/internal/pkg/compositor"
	"github.com/printforge/designer/internal/pkg/export"
	"github.com/printforge/designer/internal/pkg/kafka"
	"github.com/printforge/designer/internal/pkg/render"
	"github.com/printforge/designer/internal/pkg/storage"
	"github.com/printforge/designer/internal/pkg/uploader"
	"github.com/printforge/designer/internal/service"
	"github.com/printforge/designer/internal/transport"
	"github.com/redis/go-redis/v9"

	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(new(logrus.JSONFormatter))

	fileStorage := storage.NewFileStorage(cfg.Storage.BasePath)

	fonts, err := render.NewFontSet(cfg.App.FontsDir)
	if err != nil {
		logrus.Fatalf("font setup failed: %s", err.Error())
	}
	rasterizer := render.NewRasterizer(fileStorage, fonts)
	comp := compositor.New(fileStorage)
	exporter := export.NewPipeline(rasterizer, comp)

	products, err := service.NewProductService(cfg.App.CatalogPath)
	if err != nil {
		logrus.Fatalf("product catalog invalid: %s", err.Error())
	}

	sessionRepo := newSessionRepository(cfg)
	designRepo := database.NewDesignRepository(fileStorage)

	var signer uploader.Signer
	if cfg.Upload.SignEndpoint != "" {
		signer = uploader.NewHTTPSigner(cfg.Upload.SignEndpoint)
	} else {
		signer = &uploader.LocalSigner{
			APIKey:    cfg.Upload.APIKey,
			Secret:    cfg.Upload.Secret,
			CloudName: cfg.Upload.CloudName,
		}
	}
	uploadClient := uploader.NewClient(signer, cfg.Upload.UploadURL)

	var orders service.OrderSubmitter
	if cfg.Upload.OrderEndpoint != "" {
		orders = service.NewHTTPOrderSubmitter(cfg.Upload.OrderEndpoint)
	} else {
		orders = service.NewLocalOrderSubmitter(designRepo)
	}

	events := kafka.NewProducer(cfg.Kafka.Brokers)

	designs := service.NewDesignService(products, fileStorage, exporter, uploadClient, orders, events,
		sessionRepo, cfg.App.MaxUploadMB<<20, time.Duration(cfg.App.PreviewDebounceMs)*time.Millisecond,
		cfg.App.SessionTTL)
	handler := transport.NewDesignHandler(designs, products)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(handler, cfg.Server.Timeout)); err != nil {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	designs.Close()
	if err := events.Close(); err != nil {
		logrus.Errorf("error occured on kafka producer close: %s", err.Error())
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}

}

// newSessionRepository prefers redis when configured, otherwise keeps
// sessions in process memory.
func newSessionRepository(cfg *config.Config) database.SessionRepository {
	if cfg.Redis.Addr == "" {
		return database.NewMemorySessionRepository()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	repo, err := database.NewRedisSessionRepository(client, cfg.App.SessionTTL)
	if err != nil {
		logrus.Warnf("redis unreachable (%v), sessions held in memory only", err)
		return database.NewMemorySessionRepository()
	}
	return repo
}
