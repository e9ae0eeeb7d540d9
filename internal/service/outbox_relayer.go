package service

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"Inkle_Social/internal/metrics"
	"Inkle_Social/internal/model"
	"Inkle_Social/internal/pkg"
	"Inkle_Social/internal/repository/sqldb"
)

type Sender func(ctx context.Context, ob *model.ActivityOutbox) error

// OutboxRelayer 从 outbox 表读取动态事件，异步投递到 Kafka
type OutboxRelayer struct {
	repo      *sqldb.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
	metrics   *metrics.Metrics
	log       *slog.Logger
}

func NewOutboxRelayer(db *gorm.DB, sender Sender, batchSize int, interval time.Duration, m *metrics.Metrics, log *slog.Logger) *OutboxRelayer {
	if batchSize <= 0 {
		batchSize = 200
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &OutboxRelayer{
		repo:      &sqldb.OutboxRepository{DB: db},
		batchSize: batchSize,
		interval:  interval,
		sender:    sender,
		metrics:   m,
		log:       log,
	}
}

// Run 定时投递，ctx 取消后退出
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce 投递一批，返回成功条数
func (r *OutboxRelayer) DrainOnce(ctx context.Context) int {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		r.log.Error("outbox query failed", "error", err)
		return 0
	}
	sent := 0
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			r.log.Warn("outbox send failed", "outbox_id", ob.ID, "retry", ob.Retry, "error", err)
			r.metrics.ObserveRelay(false)
			if uerr := r.repo.RetryUpdate(ctx, ob.ID); uerr != nil {
				r.log.Error("outbox retry update failed", "outbox_id", ob.ID, "error", uerr)
			}
			continue
		}
		r.metrics.ObserveRelay(true)
		if uerr := r.repo.SuccessUpdate(ctx, ob.ID); uerr != nil {
			r.log.Error("outbox success update failed", "outbox_id", ob.ID, "error", uerr)
			continue
		}
		sent++
	}
	return sent
}

// KafkaSender 以发起者 ID 作为分区 key，保证同一用户的动态有序
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.ActivityOutbox) error {
		return p.Send(ctx, pkg.MakeKeyFromID(ob.ActorID), []byte(ob.Payload))
	}
}
