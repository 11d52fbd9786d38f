package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/docvault/docvault/internal/common"
	"github.com/docvault/docvault/internal/storage"
	"github.com/docvault/docvault/pkg/config"
	"github.com/docvault/docvault/pkg/types"
)

// UploadRequest carries a raw document submission. Content is consumed exactly
// once, during staging.
type UploadRequest struct {
	FileName   string
	Theme      string
	Department string
	Period     string
	Content    io.Reader
}

// Service orchestrates document lifecycle operations across the blob store
// and the metadata store. Created blobs are committed before their metadata
// record; deletes remove the blob before the record. Neither store offers
// cross-store transactions, so the failure window between the two commits is
// reported through the drift reporter instead of rolled back.
type Service struct {
	DB      *common.Database
	Storage storage.BlobStorage
	Cache   *common.Cache
	Drift   DriftReporter
	Upload  *config.UploadConfig
	LinkTTL time.Duration
}

// NewService creates a new document service
func NewService(db *common.Database, blobStorage storage.BlobStorage, cache *common.Cache, drift DriftReporter, cfg *config.Config) *Service {
	if drift == nil {
		drift = LogDriftReporter{}
	}
	return &Service{
		DB:      db,
		Storage: blobStorage,
		Cache:   cache,
		Drift:   drift,
		Upload:  &cfg.Upload,
		LinkTTL: cfg.Storage.LinkTTL,
	}
}

// Submit validates, stages and commits a document upload. On success the
// returned record references a durably stored blob. A metadata failure after
// the blob commit leaves an orphaned blob behind; it is reported through the
// drift reporter, never rolled back inline.
func (s *Service) Submit(ctx context.Context, req *UploadRequest) (*types.Document, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	normalizedDate, err := NormalizePeriod(req.Period)
	if err != nil {
		return nil, &ValidationError{Field: "period", Reason: err.Error()}
	}

	log.Info().
		Str("file_name", req.FileName).
		Str("theme", req.Theme).
		Str("department", req.Department).
		Msg("starting document upload")

	staged, err := stageUpload(s.Upload.StagingDir, req.FileName, req.Content, s.Upload.MaxSizeBytes)
	if err != nil {
		return nil, err
	}
	defer staged.Release()

	if s.Upload.ValidateContent {
		if err := staged.validatePDF(); err != nil {
			return nil, err
		}
	}

	content, err := staged.Reader()
	if err != nil {
		return nil, err
	}

	blobRef := generateBlobRef(req.FileName)
	if err := s.Storage.Store(ctx, blobRef, content, "application/pdf"); err != nil {
		return nil, &BlobCommitError{FileName: req.FileName, Err: err}
	}

	doc := &types.Document{
		Theme:      strings.TrimSpace(req.Theme),
		Department: strings.TrimSpace(req.Department),
		FileName:   req.FileName,
		BlobRef:    blobRef,
		Size:       staged.size,
		SHA256:     staged.sha256,
		UploadDate: normalizedDate,
	}

	if err := s.DB.WithContext(ctx).Create(doc).Error; err != nil {
		s.Drift.OrphanedBlob(ctx, blobRef, err)
		return nil, &MetadataCommitError{BlobRef: blobRef, Err: err}
	}

	log.Info().
		Str("id", doc.ID.String()).
		Str("blob_ref", blobRef).
		Str("upload_date", normalizedDate).
		Int64("size", doc.Size).
		Msg("document uploaded")

	return doc, nil
}

// View returns a shareable URL for the document's blob. Links are cached for
// half their validity so a cache hit never serves a link about to expire.
func (s *Service) View(ctx context.Context, id uuid.UUID) (string, error) {
	doc, err := s.get(ctx, id)
	if err != nil {
		return "", err
	}

	cacheKey := shareLinkCacheKey(doc.BlobRef)
	if s.Cache != nil {
		if link, err := s.Cache.GetString(ctx, cacheKey); err == nil && link != "" {
			return link, nil
		}
	}

	link, err := s.Storage.ShareLink(ctx, doc.BlobRef, s.LinkTTL)
	if err != nil {
		return "", &BlobUnavailableError{BlobRef: doc.BlobRef, Err: err}
	}

	if s.Cache != nil {
		if err := s.Cache.SetString(ctx, cacheKey, link, s.LinkTTL/2); err != nil {
			log.Warn().Err(err).Str("blob_ref", doc.BlobRef).Msg("failed to cache share link")
		}
	}

	return link, nil
}

// Download returns the document record and a stream of its blob's bytes. The
// caller owns the stream and must close it; bytes are never buffered here, so
// memory use is independent of file size.
func (s *Service) Download(ctx context.Context, id uuid.UUID) (*types.Document, io.ReadCloser, error) {
	doc, err := s.get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	content, err := s.Storage.Retrieve(ctx, doc.BlobRef)
	if err != nil {
		return nil, nil, &BlobUnavailableError{BlobRef: doc.BlobRef, Err: err}
	}

	return doc, content, nil
}

// Delete removes a document's blob and then its metadata record. A record
// whose blob delete succeeded but whose row delete failed is reported through
// the drift reporter as a partial delete.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Storage.Delete(ctx, doc.BlobRef); err != nil {
		return &BlobUnavailableError{BlobRef: doc.BlobRef, Err: err}
	}

	if s.Cache != nil {
		if err := s.Cache.Delete(ctx, shareLinkCacheKey(doc.BlobRef)); err != nil {
			log.Warn().Err(err).Str("blob_ref", doc.BlobRef).Msg("failed to drop cached share link")
		}
	}

	if err := s.DB.WithContext(ctx).Delete(&types.Document{}, "id = ?", doc.ID).Error; err != nil {
		s.Drift.PartialDelete(ctx, doc.ID, err)
		return &MetadataCommitError{RecordID: doc.ID.String(), Err: err}
	}

	log.Info().Str("id", doc.ID.String()).Str("blob_ref", doc.BlobRef).Msg("document deleted")
	return nil
}

// List returns documents matching the filter along with the total match count
func (s *Service) List(ctx context.Context, filter *types.DocumentFilter) ([]*types.Document, int64, error) {
	query := s.DB.WithContext(ctx).Model(&types.Document{})

	if filter.Theme != "" {
		query = query.Where("LOWER(theme) LIKE LOWER(?)", "%"+filter.Theme+"%")
	}
	if filter.Department != "" {
		query = query.Where("LOWER(department) LIKE LOWER(?)", "%"+filter.Department+"%")
	}
	if filter.FileName != "" {
		query = query.Where("LOWER(file_name) LIKE LOWER(?)", "%"+filter.FileName+"%")
	}
	if filter.DateFrom != "" {
		query = query.Where("upload_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("upload_date <= ?", filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var docs []*types.Document
	if err := query.Order("upload_date DESC, created_at DESC").Find(&docs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}

	return docs, total, nil
}

// validate rejects incomplete requests before any side effect occurs
func (s *Service) validate(req *UploadRequest) error {
	if strings.TrimSpace(req.FileName) == "" {
		return &ValidationError{Field: "file_name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.Theme) == "" {
		return &ValidationError{Field: "theme", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.Department) == "" {
		return &ValidationError{Field: "department", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.Period) == "" {
		return &ValidationError{Field: "period", Reason: "must not be empty"}
	}

	ext := filepath.Ext(req.FileName)
	if !s.Upload.AllowsExtension(ext) {
		return &ValidationError{
			Field:  "file_name",
			Reason: fmt.Sprintf("extension %q is not accepted (allowed: %s)", ext, strings.Join(s.Upload.AllowedExtensions, ", ")),
		}
	}

	return nil
}

// get loads a record by id, mapping a missing row to ErrNotFound
func (s *Service) get(ctx context.Context, id uuid.UUID) (*types.Document, error) {
	var doc types.Document
	if err := s.DB.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document %s: %w", id, err)
	}
	return &doc, nil
}

// generateBlobRef builds a unique storage key for an upload. The date prefix
// keeps bucket listings browsable; the uuid guarantees uniqueness across
// concurrent uploads of the same file name.
func generateBlobRef(fileName string) string {
	now := time.Now().UTC()
	return fmt.Sprintf("docs/%d/%02d/%s%s", now.Year(), int(now.Month()), uuid.New(), filepath.Ext(fileName))
}

func shareLinkCacheKey(blobRef string) string {
	return "sharelink:" + blobRef
}
