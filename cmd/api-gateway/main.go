package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/presensi-guru-api/api/swagger"
	"github.com/noah-isme/presensi-guru-api/internal/handler"
	"github.com/noah-isme/presensi-guru-api/internal/middleware"
	"github.com/noah-isme/presensi-guru-api/internal/models"
	"github.com/noah-isme/presensi-guru-api/internal/repository"
	"github.com/noah-isme/presensi-guru-api/internal/service"
	"github.com/noah-isme/presensi-guru-api/pkg/cache"
	"github.com/noah-isme/presensi-guru-api/pkg/config"
	"github.com/noah-isme/presensi-guru-api/pkg/database"
	"github.com/noah-isme/presensi-guru-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/presensi-guru-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/presensi-guru-api/pkg/middleware/requestid"
)

// @title Presensi Guru API
// @version 1.0.0
// @description Guru attendance platform: teaching, activity, and meeting presence
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Recap.CacheTTL, logr, false)
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Recap.CacheTTL, logr, true)
	}

	clock := service.NewClock(cfg.Attendance.Timezone)

	guruRepo := repository.NewGuruRepository(db)
	jadwalRepo := repository.NewJadwalRepository(db)
	mengajarRepo := repository.NewMengajarRepository(db)
	kegiatanRepo := repository.NewKegiatanRepository(db)
	rapatRepo := repository.NewRapatRepository(db)
	kalenderRepo := repository.NewKalenderRepository(db)

	authSvc := service.NewAuthService(guruRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "presensi-guru-api",
	})
	mengajarSvc := service.NewMengajarService(jadwalRepo, mengajarRepo, clock, metricsSvc, nil, logr)
	kegiatanSvc := service.NewKegiatanService(kegiatanRepo, clock, metricsSvc,
		cfg.Attendance.MinPhotos, cfg.Attendance.MaxPhotos, nil, logr)
	rapatSvc := service.NewRapatService(rapatRepo, clock, metricsSvc,
		cfg.Attendance.MinPhotos, cfg.Attendance.MaxPhotos, nil, logr)
	riwayatSvc := service.NewRiwayatService(jadwalRepo, mengajarRepo, kegiatanRepo, rapatRepo, kalenderRepo, clock, logr)
	recapSvc := service.NewRecapService(guruRepo, jadwalRepo, mengajarRepo, kegiatanRepo, rapatRepo, kalenderRepo,
		cacheSvc, cfg.Recap.CacheTTL, clock, logr)
	dashboardSvc := service.NewDashboardService(mengajarSvc, kegiatanSvc, rapatSvc, cacheSvc, cfg.Dashboard.CacheTTL, clock, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	mengajarHandler := handler.NewMengajarHandler(mengajarSvc)
	kegiatanHandler := handler.NewKegiatanHandler(kegiatanSvc)
	rapatHandler := handler.NewRapatHandler(rapatSvc)
	riwayatHandler := handler.NewRiwayatHandler(riwayatSvc)
	rekapHandler := handler.NewRekapHandler(recapSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsSvc))
	}

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

		guru := api.Group("/guru", middleware.JWT(authSvc))
		{
			guru.GET("/jadwal/hari-ini", mengajarHandler.Today)
			guru.GET("/jadwal/minggu", mengajarHandler.Week)
			guru.POST("/mengajar", mengajarHandler.Submit)
			guru.GET("/mengajar/:jadwalID", mengajarHandler.Detail)

			guru.GET("/kegiatan", kegiatanHandler.List)
			guru.POST("/kegiatan/:id/absensi", kegiatanHandler.Submit)
			guru.POST("/kegiatan/:id/absensi-pendamping", kegiatanHandler.SelfReport)

			guru.GET("/rapat", rapatHandler.List)
			guru.POST("/rapat/:id/absensi-pimpinan", rapatHandler.SelfReportPimpinan)
			guru.POST("/rapat/:id/absensi-peserta", rapatHandler.SelfReportPeserta)
			guru.POST("/rapat/:id/absensi-sekretaris", rapatHandler.SubmitSekretaris)
			guru.GET("/rapat/:id/status-peserta", rapatHandler.PesertaStatus)

			guru.GET("/riwayat/mengajar", riwayatHandler.Mengajar)
			guru.GET("/riwayat/kegiatan", riwayatHandler.Kegiatan)
			guru.GET("/riwayat/rapat", riwayatHandler.Rapat)

			if cfg.Dashboard.Enabled {
				guru.GET("/dashboard", dashboardHandler.Today)
			}
		}

		admin := api.Group("/admin", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/rekap/guru", rekapHandler.Guru)
			admin.GET("/rekap/kelas/:kelas", rekapHandler.Kelas)
			admin.PUT("/kegiatan/:id/absensi", kegiatanHandler.AdminUpdate)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
