package thresholds

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopcore/inventory/domain"
	"github.com/shopcore/inventory/repository"
)

// ApplyReport summarizes a bulk threshold application. Per-item failures
// are counted, never silently dropped.
type ApplyReport struct {
	Matched int    `json:"matched"`
	Updated int    `json:"updated"`
	Failed  int    `json:"failed"`
	Status  string `json:"status"`
}

const (
	ApplyStatusOK      = "ok"
	ApplyStatusPartial = "partial"
)

const applyPageSize = 500

// Service exposes the global threshold configuration and its bulk
// application to the catalog.
type Service struct {
	config   repository.ThresholdRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

func New(config repository.ThresholdRepository, products repository.ProductRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		config:   config,
		products: products,
		logger:   logger,
	}
}

// Get returns the current global thresholds.
func (s *Service) Get(ctx context.Context) (domain.Thresholds, error) {
	return s.config.Load(ctx)
}

// Update validates and persists new global thresholds. Invalid values
// (critical >= low, negatives) block the write.
func (s *Service) Update(ctx context.Context, t domain.Thresholds) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.config.Save(ctx, t); err != nil {
		return err
	}
	s.logger.Info("global thresholds updated", zap.Int("low", t.Low), zap.Int("critical", t.Critical))
	return nil
}

// ApplyGlobal copies the current global thresholds onto products as their
// per-product override pair. When overwriteExisting is false, only
// products without an override are touched.
func (s *Service) ApplyGlobal(ctx context.Context, overwriteExisting bool) (ApplyReport, error) {
	report := ApplyReport{Status: ApplyStatusOK}

	global, err := s.config.Load(ctx)
	if err != nil {
		return report, err
	}

	offset := 0
	for {
		page, err := s.products.List(ctx, repository.ProductFilter{
			MissingThresholdsOnly: !overwriteExisting,
			Limit:                 applyPageSize,
			Offset:                offset,
		})
		if err != nil {
			return report, err
		}
		if len(page) == 0 {
			break
		}

		report.Matched += len(page)
		failedInPage := 0
		for i := range page {
			id := page[i].ID
			if err := s.products.UpdateThresholds(ctx, id, global.Critical, global.Low); err != nil {
				s.logger.Error("threshold apply failed for product",
					zap.String("product_id", id),
					zap.Error(err))
				report.Failed++
				failedInPage++
				continue
			}
			report.Updated++
		}

		if len(page) < applyPageSize {
			break
		}
		if overwriteExisting {
			offset += len(page)
		} else {
			// Updated rows fall out of the missing-thresholds filter;
			// only rows that failed remain, so skip past those.
			offset += failedInPage
		}
	}

	if report.Failed > 0 {
		report.Status = ApplyStatusPartial
	}
	s.logger.Info("global thresholds applied",
		zap.Int("matched", report.Matched),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed),
		zap.Bool("overwrite", overwriteExisting))
	return report, nil
}
