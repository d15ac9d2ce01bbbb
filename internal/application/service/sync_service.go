package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/internal/domain/repository"
	"github.com/sangkips/restobill-api/pkg/apperror"
	"github.com/sangkips/restobill-api/pkg/logger"
)

// BillUploader stores a backup file off site and returns its ID
type BillUploader interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// SyncService backs unsynced bills up to cloud storage
type SyncService struct {
	billRepo repository.BillRepository
	uploader BillUploader
	log      *logger.Logger
	now      func() time.Time
}

// NewSyncService creates a new sync service. A nil uploader disables sync.
func NewSyncService(billRepo repository.BillRepository, uploader BillUploader, log *logger.Logger) *SyncService {
	return &SyncService{
		billRepo: billRepo,
		uploader: uploader,
		log:      log.WithComponent("sync"),
		now:      time.Now,
	}
}

// SyncResult represents the outcome of one sync run
type SyncResult struct {
	Uploaded int    `json:"uploaded"`
	FileID   string `json:"file_id,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

// Enabled reports whether an uploader is configured
func (s *SyncService) Enabled() bool {
	return s.uploader != nil
}

// SyncBills uploads every unsynced bill as one JSON file and flags them as
// synced. Bills stay unsynced when the upload fails.
func (s *SyncService) SyncBills(ctx context.Context) (*SyncResult, error) {
	if !s.Enabled() {
		return nil, apperror.ErrSyncDisabled
	}

	bills, err := s.billRepo.ListUnsynced(ctx)
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return &SyncResult{}, nil
	}

	for i := range bills {
		bills[i].SyncedToCloud = true
	}
	data, err := json.MarshalIndent(struct {
		ExportedAt time.Time     `json:"exported_at"`
		Bills      []entity.Bill `json:"bills"`
	}{ExportedAt: s.now().UTC(), Bills: bills}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode bills: %w", err)
	}

	name := fmt.Sprintf("bills-%d.json", s.now().UnixMilli())
	fileID, err := s.uploader.Upload(ctx, name, data)
	if err != nil {
		s.log.Error("cloud upload failed", "bills", len(bills), "error", err)
		return nil, apperror.NewAppError(http.StatusBadGateway, "Cloud upload failed")
	}

	ids := make([]string, len(bills))
	for i, bill := range bills {
		ids[i] = bill.ID
	}
	if err := s.billRepo.MarkSynced(ctx, ids); err != nil {
		return nil, err
	}

	s.log.Info("bills synced", "bills", len(bills), "file_id", fileID)
	return &SyncResult{Uploaded: len(bills), FileID: fileID, FileName: name}, nil
}
