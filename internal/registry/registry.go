// Package registry implements the lost & found register on top of the store.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/fundus/internal/labels"
	"github.com/verte-zerg/fundus/internal/model"
	"github.com/verte-zerg/fundus/internal/store"
)

var (
	// ErrUnknownCategory is returned for a category outside the label set.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrNotFound is returned when an item id does not exist.
	ErrNotFound = errors.New("item not found")
	// ErrForbidden is returned when the admin password does not match.
	ErrForbidden = errors.New("wrong admin password")
	// ErrNoAdminPassword is returned by Remove while no admin password is configured.
	ErrNoAdminPassword = errors.New("no admin password configured")
)

var imageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// Report is a newly found item as entered by the finder.
type Report struct {
	Category    string
	Location    string
	Description string
	ImagePath   string
}

// Service reports, searches and removes found items.
type Service struct {
	store         *store.Store
	labels        []string
	uploadsDir    string
	adminPassword string
	logger        *zap.Logger
	now           func() time.Time
}

// NewService builds a registry service.
func NewService(st *store.Store, categories []string, cfg model.RegistryConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:         st,
		labels:        categories,
		uploadsDir:    cfg.UploadsDir,
		adminPassword: cfg.AdminPassword,
		logger:        logger,
		now:           time.Now,
	}
}

// Categories returns the accepted category labels.
func (s *Service) Categories() []string {
	return append([]string(nil), s.labels...)
}

// Report stores a found item, copying its photo into the uploads directory.
func (s *Service) Report(ctx context.Context, r Report) (model.FoundItem, error) {
	category, ok := labels.Match(s.labels, r.Category)
	if !ok {
		return model.FoundItem{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownCategory, r.Category, strings.Join(s.labels, ", "))
	}
	foundAt := s.now()
	item := model.FoundItem{
		Category:    category,
		Location:    strings.TrimSpace(r.Location),
		Description: strings.TrimSpace(r.Description),
		FoundAt:     foundAt,
	}
	if r.ImagePath != "" {
		stored, err := s.storeImage(r.ImagePath, foundAt)
		if err != nil {
			return model.FoundItem{}, err
		}
		item.ImagePath = stored
	}
	id, err := s.store.InsertItem(ctx, item)
	if err != nil {
		s.removeImage(item.ImagePath)
		return model.FoundItem{}, fmt.Errorf("failed to save item: %w", err)
	}
	item.ID = id
	s.logger.Info("item reported",
		zap.Int64("id", id),
		zap.String("category", category),
		zap.String("image", item.ImagePath))
	return item, nil
}

// Search lists items of a category, newest first. An empty category lists all items.
func (s *Service) Search(ctx context.Context, category string) ([]model.FoundItem, error) {
	if category != "" {
		matched, ok := labels.Match(s.labels, category)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownCategory, category)
		}
		category = matched
	}
	items, err := s.store.ListItems(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return items, nil
}

// Counts returns the number of stored items for every known category.
func (s *Service) Counts(ctx context.Context) ([]model.CategoryCount, error) {
	stored, err := s.store.CountItemsByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}
	byCategory := make(map[string]int, len(stored))
	for _, cc := range stored {
		byCategory[cc.Category] = cc.Count
	}
	out := make([]model.CategoryCount, 0, len(s.labels))
	for _, label := range s.labels {
		out = append(out, model.CategoryCount{Category: label, Count: byCategory[label]})
		delete(byCategory, label)
	}
	// Items stored under labels that were since removed from the labels file.
	for _, cc := range stored {
		if _, ok := byCategory[cc.Category]; ok {
			out = append(out, cc)
		}
	}
	return out, nil
}

// Remove deletes a picked-up item and its photo. It is refused until an
// admin password is configured.
func (s *Service) Remove(ctx context.Context, id int64, password string) (model.FoundItem, error) {
	if s.adminPassword == "" {
		s.logger.Warn("remove rejected, admin password not set", zap.Int64("id", id))
		return model.FoundItem{}, ErrNoAdminPassword
	}
	if password != s.adminPassword {
		s.logger.Warn("remove rejected", zap.Int64("id", id))
		return model.FoundItem{}, ErrForbidden
	}
	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return model.FoundItem{}, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return model.FoundItem{}, fmt.Errorf("failed to load item: %w", err)
	}
	if err := s.store.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return model.FoundItem{}, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return model.FoundItem{}, fmt.Errorf("failed to delete item: %w", err)
	}
	s.removeImage(item.ImagePath)
	s.logger.Info("item removed", zap.Int64("id", id), zap.String("category", item.Category))
	return item, nil
}

func (s *Service) storeImage(src string, at time.Time) (string, error) {
	ext := strings.ToLower(filepath.Ext(src))
	if _, ok := imageExts[ext]; !ok {
		return "", fmt.Errorf("unsupported image type %q (want jpg, jpeg or png)", ext)
	}
	if err := os.MkdirAll(s.uploadsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer func() {
		if cerr := in.Close(); cerr != nil {
			// Best-effort close for read-only image.
			_ = cerr
		}
	}()

	base := "item_" + at.Format("20060102_150405")
	dst := filepath.Join(s.uploadsDir, base+ext)
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	for i := 1; errors.Is(err, os.ErrExist); i++ {
		dst = filepath.Join(s.uploadsDir, fmt.Sprintf("%s_%d%s", base, i, ext))
		out, err = os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create image copy: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to copy image: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to copy image: %w", err)
	}
	return dst, nil
}

func (s *Service) removeImage(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove image", zap.String("path", path), zap.Error(err))
	}
}
