package service

import (
	"context"
	"log"
	"time"

	"Park_Helper/internal/model"
	"Park_Helper/internal/pkg"
	"Park_Helper/internal/repository/mysql"
)

type Sender func(ctx context.Context, ob *model.HelpOutbox) error

// OutboxRelayer 帮忙事件投递器：扫pending事件交给kafka
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: mysql.DB},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run 启动器，ctx取消时退出
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// 从数据库读取事件，逐条投递，失败记重试
func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// KafkaSender 把事件按单子ID分区投到kafka
func KafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.HelpOutbox) error {
		return producer.Send(ctx, pkg.MakeKeyFromID(ob.TransactionID), []byte(ob.Payload))
	}
}

// LogSender 默认 sender（占位）：kafka不可用时先打印
func LogSender(ctx context.Context, ob *model.HelpOutbox) error {
	log.Printf("OUTBOX SEND type=%s tx=%d unit=%d actor=%d payload=%s",
		ob.EventType, ob.TransactionID, ob.UnitID, ob.ActorID, ob.Payload)
	return nil
}
