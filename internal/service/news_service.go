package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bukhari-academy/academy-api/internal/dto"
	"github.com/bukhari-academy/academy-api/internal/models"
	appErrors "github.com/bukhari-academy/academy-api/pkg/errors"
)

// NewsListLimit caps the public feed at the newest entries.
const NewsListLimit = 50

const newsCacheKey = "news:feed"

type newsRepository interface {
	List(ctx context.Context, limit int) ([]models.News, error)
	Create(ctx context.Context, item *models.News) error
	Delete(ctx context.Context, id string) (bool, error)
}

// NewsService provides the public announcement feed with an optional Redis
// cache in front of it. Cache failures degrade to database reads.
type NewsService struct {
	news      newsRepository
	cache     *redis.Client
	ttl       time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNewsService constructs a NewsService instance. A nil cache client
// disables caching entirely.
func NewNewsService(news newsRepository, cache *redis.Client, ttl time.Duration, validate *validator.Validate, logger *zap.Logger) *NewsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &NewsService{news: news, cache: cache, ttl: ttl, validator: validate, logger: logger}
}

// List returns the newest announcements, serving from cache when possible.
func (s *NewsService) List(ctx context.Context) ([]models.News, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, newsCacheKey).Bytes(); err == nil {
			var items []models.News
			if err := json.Unmarshal(cached, &items); err == nil {
				return items, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("news cache read failed", zap.Error(err))
		}
	}

	items, err := s.news.List(ctx, NewsListLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list news")
	}
	if items == nil {
		items = []models.News{}
	}

	if s.cache != nil {
		if payload, err := json.Marshal(items); err == nil {
			if err := s.cache.Set(ctx, newsCacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn("news cache write failed", zap.Error(err))
			}
		}
	}
	return items, nil
}

// Create publishes an announcement and invalidates the feed cache.
func (s *NewsService) Create(ctx context.Context, req dto.CreateNewsRequest) (*models.News, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMissingInput.Code, appErrors.ErrMissingInput.Status, "title and content are required")
	}

	item := &models.News{Title: req.Title, Content: req.Content, ImageURL: req.ImageURL}
	if err := s.news.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create news")
	}
	s.invalidate(ctx)

	s.logger.Info("news published", zap.String("news_id", item.ID))
	return item, nil
}

// Delete removes an announcement and invalidates the feed cache.
func (s *NewsService) Delete(ctx context.Context, id string) error {
	deleted, err := s.news.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "news not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete news")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "news not found")
	}
	s.invalidate(ctx)
	return nil
}

func (s *NewsService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, newsCacheKey).Err(); err != nil {
		s.logger.Warn("news cache invalidation failed", zap.Error(err))
	}
}
