package callback_log

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/paytrack/internal/models"
	"github.com/fatflowers/paytrack/pkg/config"
	"github.com/fatflowers/paytrack/pkg/logctx"
	"github.com/fatflowers/paytrack/pkg/tool"
	"github.com/fatflowers/paytrack/pkg/types"
)

// Service is the append-only callback audit trail. The file sink is written
// synchronously; postgres and redis, when configured, are written in the
// background.
type Service struct {
	db    *gorm.DB
	file  *FileSink
	redis *RedisSink
	log   *zap.SugaredLogger
	now   func() time.Time
}

func New(cfg *config.Config, db *gorm.DB, rdb *goredis.Client, log *zap.SugaredLogger) (*Service, error) {
	file, err := NewFileSink(cfg.Audit.Dir)
	if err != nil {
		return nil, err
	}
	return &Service{
		db:    db,
		file:  file,
		redis: NewRedisSink(rdb, cfg.Audit.RedisKey, cfg.Audit.RedisMaxLen),
		log:   log,
		now:   time.Now,
	}, nil
}

// Save records the entry. It returns the file sink error, if any; background
// sink failures are only logged. Nil input is ignored.
func (s *Service) Save(ctx context.Context, entry *models.PaymentCallbackLog) error {
	if entry == nil {
		return nil
	}
	if entry.ID == "" {
		entry.ID = tool.GenerateUUIDV7()
	}
	if entry.ReceivedAt.IsZero() {
		entry.ReceivedAt = s.now()
	}
	if entry.TraceID == "" {
		entry.TraceID = logctx.TraceID(ctx)
	}
	lg := logctx.FromCtx(ctx, s.log)

	fileErr := s.file.Append(entry)
	if fileErr != nil {
		lg.Errorw("callback_audit_file_failed", "checkout_request_id", entry.CheckoutRequestID, "error", fileErr.Error())
	}

	if s.db == nil && s.redis == nil {
		return fileErr
	}
	row := *entry
	bg := context.WithoutCancel(ctx)
	go func() {
		if s.db != nil {
			if err := s.db.WithContext(bg).Create(&row).Error; err != nil {
				lg.Errorf("failed to save callback log: %v", err)
			}
		}
		if s.redis != nil {
			if err := s.redis.Push(bg, &row); err != nil {
				lg.Warnw("callback_audit_redis_failed", "checkout_request_id", row.CheckoutRequestID, "error", err.Error())
			}
		}
	}()
	return fileErr
}

// Recent returns the newest audit entries. Redis is preferred when configured
// since it spans days; otherwise today's audit file is read.
func (s *Service) Recent(ctx context.Context, n int) ([]models.PaymentCallbackLog, error) {
	if n <= 0 {
		n = 10
	}
	if s.redis != nil {
		out, err := s.redis.Recent(ctx, n)
		if err == nil {
			return out, nil
		}
		logctx.FromCtx(ctx, s.log).Warnw("callback_audit_redis_read_failed", "error", err.Error())
	}
	return s.file.Tail(n)
}

type ListRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

var ErrDatabaseDisabled = fmt.Errorf("callback log database is not configured")

// List queries the postgres audit table.
func (s *Service) List(ctx context.Context, req *ListRequest) ([]*models.PaymentCallbackLog, int64, error) {
	if s.db == nil {
		return nil, 0, ErrDatabaseDisabled
	}
	size := req.Size
	if size <= 0 || size > 200 {
		size = 20
	}
	sortBy := "received_at"
	switch req.SortBy {
	case "received_at", "created_at", "status", "kind", "checkout_request_id":
		sortBy = req.SortBy
	}
	order := "DESC"
	if req.SortOrder == "asc" {
		order = "ASC"
	}

	q := s.db.WithContext(ctx).Model(&models.PaymentCallbackLog{}).Where(types.FiltersWhere(req.Filters))
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []*models.PaymentCallbackLog
	if err := q.Order(sortBy + " " + order).Offset(req.From).Limit(size).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
