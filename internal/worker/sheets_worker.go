package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ruangkampus/internal/database"
	"ruangkampus/internal/events"
	"ruangkampus/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	TaskUpsert       = "upsert"
	TaskDelete       = "delete"
	TaskUpdateStatus = "update_status"
)

// SheetTask describes a unit of work for the Sheets mirror.
type SheetTask struct {
	Type      string
	LoanID    int64
	Loan      *models.Loan
	Status    string
	CreatedAt time.Time
}

// sheetTaskPayload is persisted in SyncTask.Payload as JSON.
type sheetTaskPayload struct {
	LoanID int64        `json:"loan_id"`
	Loan   *models.Loan `json:"loan,omitempty"`
	Status string       `json:"status,omitempty"`
}

// SheetsClient is the slice of the Sheets service the worker calls.
type SheetsClient interface {
	UpsertLoan(ctx context.Context, loan *models.Loan) error
	DeleteLoanRow(ctx context.Context, loanID int64) error
	UpdateLoanStatus(ctx context.Context, loanID int64, status string) error
}

// SheetsWorker drains sync_queue tasks and applies them to the spreadsheet.
// Tasks are persisted to sqlite first, then scheduled through redis when
// available or the in-memory queue otherwise; the sqlite poll picks up
// whatever both queues lost.
type SheetsWorker struct {
	db            *database.DB
	sheets        SheetsClient
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan models.SyncTask
	redisQueueKey string
	deadLetterKey string
	pollInterval  time.Duration
	batchSize     int
	logger        zerolog.Logger
}

func NewSheetsWorker(db *database.DB, sheets SheetsClient, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *SheetsWorker {
	retry = retry.withDefaults()
	base := zerolog.Nop()
	if logger != nil {
		base = logger.With().Str("component", "sheets_worker").Logger()
	}

	return &SheetsWorker{
		db:            db,
		sheets:        sheets,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan models.SyncTask, models.SyncQueueSize),
		redisQueueKey: "sheets:queue",
		deadLetterKey: "sheets:deadletter",
		pollInterval:  2 * time.Second,
		batchSize:     20,
		logger:        base,
	}
}

// SubscribeAll derives sheet tasks from loan events on the bus.
func (w *SheetsWorker) SubscribeAll(bus *events.EventBus) {
	bus.Subscribe(events.EventLoanCreated, w.handleUpsertEvent)
	bus.Subscribe(events.EventLoanUpdated, w.handleUpsertEvent)
	bus.Subscribe(events.EventLoanApproved, w.handleStatusEvent)
	bus.Subscribe(events.EventLoanRejected, w.handleStatusEvent)
	bus.Subscribe(events.EventLoanDeleted, w.handleDeleteEvent)
}

func (w *SheetsWorker) handleUpsertEvent(event *events.Event) error {
	payload, err := decodeLoanEvent(event)
	if err != nil {
		w.logger.Error().Err(err).Str("event", event.Type).Msg("Bad event payload")
		return nil
	}
	loan := payload.Loan()
	return w.EnqueueTask(context.Background(), SheetTask{Type: TaskUpsert, Loan: &loan})
}

func (w *SheetsWorker) handleStatusEvent(event *events.Event) error {
	payload, err := decodeLoanEvent(event)
	if err != nil {
		w.logger.Error().Err(err).Str("event", event.Type).Msg("Bad event payload")
		return nil
	}
	return w.EnqueueTask(context.Background(), SheetTask{
		Type:   TaskUpdateStatus,
		LoanID: payload.LoanID,
		Status: payload.Status,
	})
}

func (w *SheetsWorker) handleDeleteEvent(event *events.Event) error {
	payload, err := decodeLoanEvent(event)
	if err != nil {
		w.logger.Error().Err(err).Str("event", event.Type).Msg("Bad event payload")
		return nil
	}
	return w.EnqueueTask(context.Background(), SheetTask{Type: TaskDelete, LoanID: payload.LoanID})
}

func decodeLoanEvent(event *events.Event) (events.LoanEventPayload, error) {
	var payload events.LoanEventPayload
	err := json.Unmarshal(event.Payload, &payload)
	return payload, err
}

// EnqueueTask persists the task and schedules it via redis or memory queue.
func (w *SheetsWorker) EnqueueTask(ctx context.Context, task SheetTask) error {
	if task.Type == "" {
		return errors.New("task type is required")
	}
	if task.LoanID == 0 && (task.Loan == nil || task.Loan.ID == 0) {
		return errors.New("loan id is required")
	}

	payload := sheetTaskPayload{
		LoanID: task.LoanID,
		Loan:   task.Loan,
		Status: task.Status,
	}
	if payload.LoanID == 0 && task.Loan != nil {
		payload.LoanID = task.Loan.ID
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	syncTask := models.SyncTask{
		TaskType:  task.Type,
		LoanID:    payload.LoanID,
		Payload:   string(payloadBytes),
		Status:    "pending",
		CreatedAt: time.Now(),
	}

	if err := w.db.CreateSyncTask(ctx, &syncTask); err != nil {
		return fmt.Errorf("persist sync task: %w", err)
	}

	if w.redis != nil {
		if err := w.pushRedis(ctx, syncTask); err != nil {
			w.logger.Warn().Err(err).Msg("Redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	select {
	case w.queue <- syncTask:
	default:
		w.logger.Warn().Int64("task_id", syncTask.ID).Msg("In-memory queue full, task left to polling")
	}

	return nil
}

// Start launches the main loop; stops when ctx is done.
func (w *SheetsWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("Sheets worker started")
	defer w.logger.Info().Msg("Sheets worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, &t)
			continue
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, &t)
			continue
		}

		tasks, err := w.db.GetPendingSyncTasks(ctx, w.batchSize)
		if err != nil {
			w.logger.Error().Err(err).Msg("Failed to fetch pending tasks")
			time.Sleep(w.pollInterval)
			continue
		}
		if len(tasks) == 0 {
			time.Sleep(w.pollInterval)
			continue
		}

		for i := range tasks {
			w.processTask(ctx, &tasks[i])
		}
	}
}

func (w *SheetsWorker) tryLocalQueue() (models.SyncTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return models.SyncTask{}, false
	}
}

func (w *SheetsWorker) tryRedis(ctx context.Context) (models.SyncTask, bool) {
	if w.redis == nil {
		return models.SyncTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return models.SyncTask{}, false
		}
		w.logger.Error().Err(err).Msg("Redis BRPOP error")
		return models.SyncTask{}, false
	}
	if len(res) != 2 {
		return models.SyncTask{}, false
	}
	var task models.SyncTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("Failed to decode redis task")
		return models.SyncTask{}, false
	}
	return task, true
}

func (w *SheetsWorker) processTask(ctx context.Context, task *models.SyncTask) {
	payload, err := w.decodePayload(task.Payload)
	if err != nil {
		w.failTask(ctx, task, fmt.Errorf("decode payload: %w", err))
		return
	}

	if err := w.handleSheetTask(ctx, task.TaskType, payload); err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}

	if err := w.db.UpdateSyncTaskStatus(ctx, task.ID, "completed", "", nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("Failed to mark task completed")
	}
}

func (w *SheetsWorker) handleSheetTask(ctx context.Context, taskType string, payload sheetTaskPayload) error {
	switch taskType {
	case TaskUpsert:
		if payload.Loan == nil {
			return errors.New("loan payload missing")
		}
		return w.sheets.UpsertLoan(ctx, payload.Loan)
	case TaskDelete:
		if payload.LoanID == 0 {
			return errors.New("loan id missing")
		}
		return w.sheets.DeleteLoanRow(ctx, payload.LoanID)
	case TaskUpdateStatus:
		if payload.LoanID == 0 || payload.Status == "" {
			return errors.New("loan id or status missing")
		}
		return w.sheets.UpdateLoanStatus(ctx, payload.LoanID, payload.Status)
	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}
}

func (w *SheetsWorker) retryOrFail(ctx context.Context, task *models.SyncTask, cause error) {
	attempt := task.RetryCount + 1
	if attempt >= w.retryPolicy.MaxRetries {
		if err := w.db.UpdateSyncTaskStatus(ctx, task.ID, "failed", cause.Error(), nil); err != nil {
			w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("Failed to mark task failed")
		}
		w.pushDeadLetter(ctx, task)
		return
	}

	nextDelay := w.retryPolicy.NextDelay(attempt)
	nextTime := time.Now().Add(nextDelay)
	if err := w.db.UpdateSyncTaskStatus(ctx, task.ID, "retry", cause.Error(), &nextTime); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("Failed to mark task for retry")
	}
}

func (w *SheetsWorker) failTask(ctx context.Context, task *models.SyncTask, err error) {
	if err := w.db.UpdateSyncTaskStatus(ctx, task.ID, "failed", err.Error(), nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("Failed to mark task failed")
	}
	w.pushDeadLetter(ctx, task)
}

func (w *SheetsWorker) decodePayload(raw string) (sheetTaskPayload, error) {
	var payload sheetTaskPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

func (w *SheetsWorker) pushRedis(ctx context.Context, task models.SyncTask) error {
	if w.redis == nil {
		return errors.New("redis client is nil")
	}
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, w.redisQueueKey, data).Err()
}

func (w *SheetsWorker) pushDeadLetter(ctx context.Context, task *models.SyncTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("Failed to encode deadletter task")
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, data).Err(); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("Failed to push deadletter task")
	}
}
