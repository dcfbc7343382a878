package initialize

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"banglaixanh/backend/app/controllers"
	"banglaixanh/backend/app/db"
	jwtutil "banglaixanh/backend/app/jwt"
	"banglaixanh/backend/app/middleware"
	"banglaixanh/backend/app/models"
	"banglaixanh/backend/app/repo"
	"banglaixanh/backend/app/services"
	"banglaixanh/backend/config"
	"banglaixanh/backend/global"
	"banglaixanh/backend/router"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	Cfg    *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Router http.Handler
	Files  *services.FileStore
	Links  services.LinkStore
	Users  *services.UserService
	Seed   *services.SeedService
}

func Build(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return BuildWith(cfg)
}

// BuildWith wires the application from an already loaded config.
func BuildWith(cfg *config.Config) (*App, error) {
	global.Config = cfg

	gdb, err := db.Connect(db.Config{
		Driver: cfg.DB.Driver, Host: cfg.DB.Host, Port: cfg.DB.Port,
		User: cfg.DB.User, Password: cfg.DB.Pass, DBName: cfg.DB.Name, Path: cfg.DB.Path,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	global.Mdb = gdb

	if err := gdb.AutoMigrate(&models.User{}, &models.AdminUnit{}, &models.WardMapping{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		global.Rdb = rdb
	}

	files, err := services.NewFileStore(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	// Repos and services
	userRepo := repo.NewUserRepository(gdb)
	unitRepo := repo.NewAdminUnitRepository(gdb)
	mappingRepo := repo.NewWardMappingRepository(gdb)

	var (
		cache services.UnitCache
		links services.LinkStore = services.NewMemoryLinkStore(cfg.Storage.LinkTTL)
	)
	if rdb != nil {
		cache = services.NewRedisUnitCache(rdb, cfg.Redis.CacheTTL)
		links = services.NewRedisLinkStore(rdb, cfg.Storage.LinkTTL)
	}

	userSvc := services.NewUserService(userRepo)
	unitSvc := services.NewAdminUnitService(unitRepo, cache)
	mappingSvc := services.NewMappingService(unitRepo, mappingRepo)
	convSvc := services.NewConversionService(unitRepo, mappingRepo)
	excelSvc := services.NewExcelService(convSvc, files, links, cfg.Storage.PublicURL)
	zipSvc := services.NewZipService(files, links)
	seedSvc := services.NewSeedService(unitRepo, mappingSvc)

	if err := userSvc.EnsureAdmin(cfg.Admin.Username, cfg.Admin.Password); err != nil {
		global.Logger.Warn().Err(err).Msg("ensure admin")
	}
	if cfg.SeedFile != "" {
		st, err := seedSvc.LoadFile(context.Background(), cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		global.Logger.Info().Int("units", st.Units).Int("mappings", st.Mappings).Str("file", cfg.SeedFile).Msg("seed loaded")
		if rc, ok := cache.(*services.RedisUnitCache); ok {
			if err := rc.Invalidate(context.Background()); err != nil {
				global.Logger.Warn().Err(err).Msg("invalidate unit cache")
			}
		}
	}

	// Controllers
	signer := &jwtutil.Signer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, ExpMin: cfg.JWT.ExpMin}
	mw := &middleware.Auth{Signer: signer}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	h := router.NewRouter(router.Controllers{
		Health:  controllers.NewHealthController(sqlDB.PingContext),
		Auth:    controllers.NewAuthController(userSvc, signer),
		Admin:   controllers.NewAdminController(userSvc),
		Address: controllers.NewAddressController(unitSvc, mappingSvc),
		Convert: controllers.NewConvertController(convSvc, excelSvc, zipSvc, files, links),
	}, mw)
	// Wrap with logging middleware
	h = middleware.Logging(h)

	return &App{Cfg: cfg, DB: gdb, Redis: rdb, Router: h, Files: files, Links: links, Users: userSvc, Seed: seedSvc}, nil
}

// Sweep drops stored files and memory links that outlived the link TTL.
func (a *App) Sweep() {
	n, err := a.Files.Sweep(a.Cfg.Storage.LinkTTL)
	if err != nil {
		global.Logger.Warn().Err(err).Msg("sweep storage")
	}
	if m, ok := a.Links.(*services.MemoryLinkStore); ok {
		n += m.Prune()
	}
	if n > 0 {
		global.Logger.Info().Int("removed", n).Msg("swept expired downloads")
	}
}

// Close releases the database and redis connections.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
