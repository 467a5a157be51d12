package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/revenue-dashboard-api/internal/config"
	"github.com/vfg2006/revenue-dashboard-api/internal/domain"
	"github.com/vfg2006/revenue-dashboard-api/internal/revenue"
)

// SnapshotSyncConfig representa a configuração do agendador de snapshots de receita
type SnapshotSyncConfig struct {
	CronSchedule      string
	MaxConcurrentJobs int
	MonthLookBack     int
	RetentionMonths   int
	SyncEnabled       bool
}

// SnapshotSyncService gerencia o agendamento e execução da materialização de
// snapshots mensais de receita
type SnapshotSyncService struct {
	scheduler           *gocron.Scheduler
	config              SnapshotSyncConfig
	businessRepo        repository.BusinessRepository
	itemRepo            repository.ItemRepository
	snapshotRepo        repository.RevenueSnapshotRepository
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

// NewSnapshotSyncService cria uma nova instância do serviço de snapshots
func NewSnapshotSyncService(
	businessRepo repository.BusinessRepository,
	itemRepo repository.ItemRepository,
	snapshotRepo repository.RevenueSnapshotRepository,
	appConfig *config.Config,
) *SnapshotSyncService {
	syncConfig := SnapshotSyncConfig{
		CronSchedule:      appConfig.SnapshotSync.CronSchedule,
		MaxConcurrentJobs: appConfig.SnapshotSync.MaxConcurrentJobs,
		MonthLookBack:     appConfig.SnapshotSync.MonthLookBack,
		RetentionMonths:   appConfig.SnapshotSync.RetentionMonths,
		SyncEnabled:       appConfig.SnapshotSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":       syncConfig.CronSchedule,
		"max_concurrent_jobs": syncConfig.MaxConcurrentJobs,
		"month_lookback":      syncConfig.MonthLookBack,
		"sync_enabled":        syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de snapshots de receita carregada")

	return &SnapshotSyncService{
		scheduler:    scheduler,
		config:       syncConfig,
		businessRepo: businessRepo,
		itemRepo:     itemRepo,
		snapshotRepo: snapshotRepo,
		syncRunning:  false,
	}
}

// Start inicia o agendador
func (s *SnapshotSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Materialização de snapshots de receita desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de snapshots de receita")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncSnapshots()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar materialização de snapshots: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de snapshots de receita")
		s.scheduler.Stop()
	}()

	return nil
}

// syncSnapshots recalcula os snapshots mensais de todos os negócios ativos
func (s *SnapshotSyncService) syncSnapshots() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Materialização de snapshots já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando materialização de snapshots de receita para todos os negócios ativos")

	activeBusinesses, err := s.getActiveBusinesses()
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar lista de negócios para materialização de snapshots")
		return
	}

	if len(activeBusinesses) == 0 {
		logrus.Info("Nenhum negócio ativo encontrado para materialização de snapshots")
		return
	}

	// Janela de recálculo: do mês corrente para trás
	currentMonth := revenue.MonthKeyOf(time.Now().UTC())
	from := currentMonth
	for i := 1; i < s.config.MonthLookBack; i++ {
		from = from.Prev()
	}
	months := revenue.Range(from, currentMonth)

	logrus.WithFields(logrus.Fields{
		"from": from.String(),
		"to":   currentMonth.String(),
	}).Info("Período para materialização de snapshots de receita")

	s.processSnapshots(activeBusinesses, months)

	if s.config.RetentionMonths > 0 {
		removed, err := s.snapshotRepo.DeleteOlderThan(s.config.RetentionMonths)
		if err != nil {
			logrus.WithError(err).Error("Erro ao remover snapshots antigos")
		} else if removed > 0 {
			logrus.WithField("removed", removed).Info("Snapshots antigos removidos")
		}
	}

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"duration":   duration.String(),
		"businesses": len(activeBusinesses),
	}).Info("Materialização de snapshots de receita concluída")

	s.lastSyncCompletedAt = time.Now()
}

// getActiveBusinesses busca e filtra negócios ativos
func (s *SnapshotSyncService) getActiveBusinesses() ([]*domain.Business, error) {
	activeBusinesses, err := s.businessRepo.List([]domain.BusinessStatus{domain.BusinessStatusActive})
	if err != nil {
		return nil, err
	}

	if len(activeBusinesses) == 0 {
		logrus.Info("Nenhum negócio encontrado para materialização de snapshots")
		return []*domain.Business{}, nil
	}

	logrus.WithFields(logrus.Fields{
		"active_businesses": len(activeBusinesses),
	}).Info("Negócios encontrados para materialização de snapshots")

	return activeBusinesses, nil
}

// processSnapshots recalcula os snapshots de cada negócio com workers concorrentes
func (s *SnapshotSyncService) processSnapshots(businesses []*domain.Business, months []revenue.MonthKey) {
	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var wg sync.WaitGroup

	for _, business := range businesses {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(biz *domain.Business) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			logrus.WithFields(logrus.Fields{
				"business_id":   biz.ID,
				"business_name": biz.Name,
			}).Info("Processando snapshots de receita para negócio")

			if err := s.processBusinessSnapshots(biz, months); err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"business_id": biz.ID,
				}).Error("Erro ao processar snapshots de receita do negócio")
			}
		}(business)
	}

	wg.Wait()
}

// processBusinessSnapshots calcula e persiste as séries de caixa e normalizada
// de um negócio para a janela de meses informada
func (s *SnapshotSyncService) processBusinessSnapshots(business *domain.Business, months []revenue.MonthKey) error {
	items, err := s.itemRepo.ListByBusiness(business.ID)
	if err != nil {
		return fmt.Errorf("erro ao listar itens do negócio: %w", err)
	}

	for _, mode := range []revenue.Mode{revenue.ModeCash, revenue.ModeNormalized} {
		points, err := revenue.ComputeSeries(items, mode, months)
		if err != nil {
			return fmt.Errorf("erro ao calcular série de receita no modo %s: %w", mode, err)
		}

		for _, point := range points {
			snapshot := &domain.RevenueSnapshotEntry{
				BusinessID: business.ID,
				Period:     point.Month.String(),
				Mode:       string(mode),
				Amount:     point.Amount,
			}

			if err := s.snapshotRepo.SaveOrUpdate(snapshot); err != nil {
				return fmt.Errorf("erro ao salvar snapshot do período %s: %w", snapshot.Period, err)
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"business_id": business.ID,
		"months":      len(months),
	}).Info("Snapshots de receita salvos com sucesso")

	return nil
}

// TriggerManualSync inicia manualmente uma materialização de snapshots
func (s *SnapshotSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Materialização de snapshots já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando materialização manual de snapshots de receita")
	go s.syncSnapshots()
}

// GetStatus retorna o status atual da materialização
func (s *SnapshotSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_running":           s.syncRunning,
		"sync_cron":              s.config.CronSchedule,
		"sync_enabled":           s.config.SyncEnabled,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
