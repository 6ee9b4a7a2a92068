package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envはローカル開発用。無くてもよい
	_ = godotenv.Load("../.env")

	logger := log.New("api")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		logger.Fatalf("db connect: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.ProductOption{},
		&model.ProductVariant{},
		&model.Order{},
		&model.OrderItem{},
		&model.Return{},
		&model.RefundLog{},
	); err != nil {
		logger.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	optionRepo := infraRepo.NewOptionGormRepository(gormDB)
	variantRepo := infraRepo.NewVariantGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, optionRepo, variantRepo)
	orderUC := usecase.NewOrderUsecase(txManager, idGen, clock)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, clock)
	returnUC := usecase.NewReturnUsecase(txManager)

	//sweeper（期限切れキャンセル＋自動配達完了）
	maintenance := usecase.NewOrderMaintenance(
		txManager,
		orderRepo,
		clock,
		time.Duration(cfg.SweepIntervalSeconds)*time.Second,
		log.New("sweeper"),
	)
	maintenance.Start()
	defer maintenance.Stop()

	//Handler生成
	productH := handler.NewProductHandler(productUC)
	orderH := handler.NewOrderHandler(orderUC)
	returnH := handler.NewReturnHandler(returnUC)
	adminOrderH := handler.NewAdminOrderHandler(adminOrderUC)
	adminReturnH := handler.NewAdminReturnHandler(returnUC)

	//Server起動
	e := server.New()
	server.RegisterRoutes(e, cfg, productH, orderH, returnH, adminOrderH, adminReturnH)

	addr := ":" + cfg.Port
	if cfg.Port[0] == ':' {
		addr = cfg.Port
	}

	go func() {
		if err := server.Start(e, addr); err != nil {
			logger.Infof("server stopped: %v", err)
		}
	}()

	//SIGINT/SIGTERMでsweeperとserverを順に止める
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	maintenance.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx, e); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
