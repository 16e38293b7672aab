package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/portal-berita-api/internal/models"
	"github.com/noah-isme/portal-berita-api/internal/policy"
	appErrors "github.com/noah-isme/portal-berita-api/pkg/errors"
	"github.com/noah-isme/portal-berita-api/pkg/export"
	"github.com/noah-isme/portal-berita-api/pkg/storage"
)

type exportStatsRepository interface {
	Stats(ctx context.Context, authorID *int64, now time.Time) (*models.ArticleStats, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	ExpiresAt    time.Time
}

// ExportService renders article statistics into downloadable PDF files
// served through signed, expiring URLs.
type ExportService struct {
	stats   exportStatsRepository
	storage fileStorage
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
	now     func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(stats exportStatsRepository, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		stats:   stats,
		storage: store,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// GenerateStats builds the statistics report for the actor's scope and
// stores the rendered PDF. Admins export portal-wide numbers, other
// editorial users their own.
func (s *ExportService) GenerateStats(ctx context.Context, actor *policy.Actor) (*ExportResult, error) {
	if !policy.HasCapability(actor, policy.CapEditorial) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you do not have permission to export statistics")
	}

	var authorID *int64
	scope := "portal"
	if actor.Role != models.RoleAdmin {
		authorID = &actor.ID
		scope = "author"
	}

	now := s.now()
	stats, err := s.stats.Stats(ctx, authorID, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load statistics")
	}

	payload, err := s.pdf.Render(statsDataset(stats), "article statistics")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	filename := fmt.Sprintf("berita_stats_%s_%s.pdf", scope, now.Format("20060102_150405"))
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}

	exportID := uuid.NewString()
	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download URL")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api"
	}

	s.logger.Info("statistics export generated",
		zap.String("export_id", exportID),
		zap.String("scope", scope),
		zap.Int64("actor_id", actor.ID))

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/berita/stats/export/%s", prefix, token),
		ExpiresAt:    expiresAt,
	}, nil
}

// Open validates a download token and returns the stored file.
func (s *ExportService) Open(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return file, nil
}

// Cleanup removes files older than ttl, defaulting to the configured
// result TTL.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func statsDataset(stats *models.ArticleStats) export.Dataset {
	rows := []map[string]string{
		{"metric": "total articles", "value": strconv.FormatInt(stats.TotalArticles, 10)},
		{"metric": "published", "value": strconv.FormatInt(stats.Published, 10)},
		{"metric": "draft", "value": strconv.FormatInt(stats.Draft, 10)},
		{"metric": "in review", "value": strconv.FormatInt(stats.Review, 10)},
		{"metric": "rejected", "value": strconv.FormatInt(stats.Rejected, 10)},
		{"metric": "archived", "value": strconv.FormatInt(stats.Archived, 10)},
		{"metric": "featured", "value": strconv.FormatInt(stats.Featured, 10)},
		{"metric": "breaking news", "value": strconv.FormatInt(stats.BreakingNews, 10)},
		{"metric": "published today", "value": strconv.FormatInt(stats.ArticlesToday, 10)},
		{"metric": "published this week", "value": strconv.FormatInt(stats.ArticlesThisWeek, 10)},
	}
	if stats.AvgViews != nil {
		rows = append(rows, map[string]string{"metric": "average views", "value": strconv.FormatFloat(*stats.AvgViews, 'f', 2, 64)})
	}
	if stats.MaxViews != nil {
		rows = append(rows, map[string]string{"metric": "max views", "value": strconv.FormatInt(*stats.MaxViews, 10)})
	}
	return export.Dataset{Headers: []string{"metric", "value"}, Rows: rows}
}
