package worker

import (
	"context"
	"log"

	"github.com/Ken-Miura/career-change-supporter-sub005/config"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/service"

	"github.com/robfig/cron/v3"
)

const batchLimit = 100

// SettlementWorker is the external trigger of the settlement state machine:
// it periodically captures due settlements, refunds expired ones and prunes
// expired consultation requests. It calls the exact same operations the admin
// surface calls; the state machine's consistency does not depend on it.
type SettlementWorker struct {
	cfg             config.SettlementConfig
	settlementSvc   *service.SettlementService
	consultationSvc *service.ConsultationService
	cron            *cron.Cron
}

func NewSettlementWorker(
	cfg config.SettlementConfig,
	settlementSvc *service.SettlementService,
	consultationSvc *service.ConsultationService,
) *SettlementWorker {
	return &SettlementWorker{
		cfg:             cfg,
		settlementSvc:   settlementSvc,
		consultationSvc: consultationSvc,
		cron:            cron.New(),
	}
}

func (w *SettlementWorker) Start() error {
	if _, err := w.cron.AddFunc(w.cfg.CaptureBatchSpec, w.runOnce); err != nil {
		return err
	}
	w.cron.Start()
	log.Printf("[SettlementWorker] started (%s)", w.cfg.CaptureBatchSpec)
	return nil
}

func (w *SettlementWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	log.Printf("[SettlementWorker] stopped")
}

func (w *SettlementWorker) runOnce() {
	ctx := context.Background()
	captured, stopped, refunded := w.settlementSvc.RunCaptureBatch(ctx, batchLimit)
	pruned := w.consultationSvc.PruneExpiredRequests(ctx, batchLimit)
	if captured+stopped+refunded+pruned > 0 {
		log.Printf("[SettlementWorker] captured=%d stopped=%d refunded=%d pruned_reqs=%d",
			captured, stopped, refunded, pruned)
	}
}
