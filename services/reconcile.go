package services

import (
	"context"
	"encoding/json"
	"time"

	"storefront-backend/common/logger"
	"storefront-backend/pkg/aws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reconciliation task reasons. The order workflow has no transaction boundary
// spanning order creation, stock decrement and cart clear; when a later step
// fails the committed earlier steps stand, and a task records the gap for
// out-of-band resolution.
const (
	ReasonStockNotReserved = "stock_not_reserved"
	ReasonCartNotCleared   = "cart_not_cleared"
)

// ReconcileTask names an inconsistency left behind by a partial failure.
type ReconcileTask struct {
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id,omitempty"`
	UserID    uuid.UUID `json:"user_id,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// Reconciler enqueues reconciliation tasks.
type Reconciler interface {
	Enqueue(ctx context.Context, task ReconcileTask)
}

// QueueReconciler publishes tasks to SQS, best-effort. There is no in-process
// consumer; the queue exists so partial failures are recorded instead of
// silently dropped.
type QueueReconciler struct {
	queue aws.QueueSender
}

func NewQueueReconciler(queue aws.QueueSender) *QueueReconciler {
	return &QueueReconciler{queue: queue}
}

func (r *QueueReconciler) Enqueue(ctx context.Context, task ReconcileTask) {
	task.Timestamp = time.Now().UTC()

	logger.Warn(ctx, "Order workflow left inconsistent state",
		zap.String("order_id", task.OrderID.String()),
		zap.String("reason", task.Reason),
	)

	if r.queue == nil {
		return
	}
	body, err := json.Marshal(task)
	if err != nil {
		return
	}
	if err := r.queue.SendMessage(ctx, body); err != nil {
		logger.Error(ctx, "Failed to enqueue reconciliation task", err,
			zap.String("order_id", task.OrderID.String()),
			zap.String("reason", task.Reason),
		)
	}
}
