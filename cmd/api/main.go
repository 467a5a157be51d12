package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/revenue-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/revenue-dashboard-api/internal/api"
	"github.com/vfg2006/revenue-dashboard-api/internal/config"
	"github.com/vfg2006/revenue-dashboard-api/internal/scheduler"
	"github.com/vfg2006/revenue-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/revenue-dashboard-api/internal/usecases/business"
	"github.com/vfg2006/revenue-dashboard-api/internal/usecases/item"
	"github.com/vfg2006/revenue-dashboard-api/internal/usecases/reporting"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	userRepo := repository.NewUserRepository(pgConn)
	businessRepo := repository.NewBusinessRepository(pgConn)
	itemRepo := repository.NewItemRepository(pgConn)
	snapshotRepo := repository.NewRevenueSnapshotRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)
	businessService := business.NewService(businessRepo)
	itemService := item.NewService(itemRepo, businessRepo)
	reportingService := reporting.NewService(businessRepo, itemRepo, snapshotRepo)

	// Agendador de materialização de snapshots mensais de receita
	snapshotSyncService := scheduler.NewSnapshotSyncService(
		businessRepo,
		itemRepo,
		snapshotRepo,
		cfg,
	)

	if err := snapshotSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de snapshots de receita")
	} else {
		logrus.Info("Agendador de snapshots de receita iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		authenticator,
		businessService,
		itemService,
		reportingService,
		snapshotSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
