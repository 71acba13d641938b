package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode"
	"unicode/utf8"

	myPostgresRepo "github.com/aras72h/user-account-service/internal/adapters/db/postgres"
	"github.com/aras72h/user-account-service/internal/adapters/mail"
	myHTTP "github.com/aras72h/user-account-service/internal/adapters/transport/http"
	httpmw "github.com/aras72h/user-account-service/internal/adapters/transport/http/middleware"
	"github.com/aras72h/user-account-service/internal/app/account/hash"
	appsvc "github.com/aras72h/user-account-service/internal/app/account/service"
	apptoken "github.com/aras72h/user-account-service/internal/app/account/token"
	"github.com/aras72h/user-account-service/internal/infra/config"
	lg "github.com/aras72h/user-account-service/internal/infra/log"
	"github.com/aras72h/user-account-service/internal/infra/migrate"
	"golang.org/x/sync/errgroup"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	validate := validator.New()
	_ = validate.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		pwd := fl.Field().String()
		if utf8.RuneCountInString(pwd) < 8 {
			return false
		}
		var hasUpper, hasDigit bool
		for _, r := range pwd {
			if unicode.IsUpper(r) {
				hasUpper = true
			}
			if unicode.IsDigit(r) {
				hasDigit = true
			}
		}
		return hasUpper && hasDigit
	})

	accountRepo := myPostgresRepo.NewPostgresAccountRepo(db)
	issuer, err := apptoken.NewJWTIssuer(cfg)
	if err != nil {
		zapLog.Fatal("failed to init token issuer", zap.Error(err))
	}
	sender := mail.NewSMTPSender(cfg)
	svc := appsvc.New(accountRepo, hash.NewBcryptHasher(hash.DefaultCost), issuer, sender, cfg, validate, zapLog)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpmw.RequestLogger(zapLog))

	if len(cfg.AllowedOrigins) > 0 {
		corsConfig := cors.Config{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{
				"Origin", "Content-Type", "Accept",
				"Authorization",
				"X-Requested-With",
			},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: cfg.AllowCredentials,
			MaxAge:           12 * time.Hour,
		}
		router.Use(cors.New(corsConfig))
	}

	myHTTP.NewHandler(svc, zapLog).RegisterRoutes(router)

	srv := &http.Server{Addr: cfg.HTTPAddress, Handler: router}
	g, _ := errgroup.WithContext(context.Background())

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutdown signal received")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
