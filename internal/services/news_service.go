package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"sg44_backend/internal/auth"
	"sg44_backend/internal/models"
	"sg44_backend/internal/repositories"
	"sg44_backend/internal/services/dto"
	"sg44_backend/pkg/apperrors"
)

type NewsService interface {
	List(db *gorm.DB, category string, page, pageSize int) (*dto.ListResponse[dto.NewsResponse], error)
	Get(db *gorm.DB, slug string) (*dto.NewsResponse, error)
	Create(db *gorm.DB, actor auth.Actor, req *dto.NewsRequest) (*dto.NewsResponse, error)
	Update(db *gorm.DB, actor auth.Actor, slug string, req *dto.NewsRequest) (*dto.NewsResponse, error)
	Delete(db *gorm.DB, actor auth.Actor, slug string) error
}

type NewsServiceImpl struct {
	newsRepo repositories.NewsRepository
}

func NewNewsService(newsRepo repositories.NewsRepository) NewsService {
	return &NewsServiceImpl{newsRepo: newsRepo}
}

func mapNewsError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNewsNotFound):
		return apperrors.ErrNewsNotFound
	case errors.Is(err, repositories.ErrNewsSlugTaken):
		return apperrors.ErrNewsSlugTaken
	default:
		return apperrors.InternalError(err)
	}
}

func (s *NewsServiceImpl) List(db *gorm.DB, category string, page, pageSize int) (*dto.ListResponse[dto.NewsResponse], error) {
	posts, total, err := s.newsRepo.List(db, strings.TrimSpace(category), page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.NewsResponse, 0, len(posts))
	for i := range posts {
		items = append(items, dto.NewNewsResponse(&posts[i]))
	}
	page, pageSize = pageOrDefault(page, pageSize)
	return &dto.ListResponse[dto.NewsResponse]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *NewsServiceImpl) Get(db *gorm.DB, slug string) (*dto.NewsResponse, error) {
	post, err := s.newsRepo.FindBySlug(db, slug)
	if err != nil {
		return nil, mapNewsError(err)
	}
	out := dto.NewNewsResponse(post)
	return &out, nil
}

func (s *NewsServiceImpl) Create(db *gorm.DB, actor auth.Actor, req *dto.NewsRequest) (*dto.NewsResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	post := &models.NewsPost{}
	applyNews(post, req)
	if err := s.newsRepo.Create(db, post); err != nil {
		return nil, mapNewsError(err)
	}
	out := dto.NewNewsResponse(post)
	return &out, nil
}

func (s *NewsServiceImpl) Update(db *gorm.DB, actor auth.Actor, slug string, req *dto.NewsRequest) (*dto.NewsResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	post, err := s.newsRepo.FindBySlug(db, slug)
	if err != nil {
		return nil, mapNewsError(err)
	}
	applyNews(post, req)
	if err := s.newsRepo.Save(db, post); err != nil {
		return nil, mapNewsError(err)
	}
	out := dto.NewNewsResponse(post)
	return &out, nil
}

func (s *NewsServiceImpl) Delete(db *gorm.DB, actor auth.Actor, slug string) error {
	if !actor.IsAdmin() {
		return apperrors.ErrInsufficientPermissions
	}
	if err := s.newsRepo.DeleteBySlug(db, slug); err != nil {
		return mapNewsError(err)
	}
	return nil
}

func applyNews(post *models.NewsPost, req *dto.NewsRequest) {
	post.Slug = strings.TrimSpace(req.Slug)
	post.Title = strings.TrimSpace(req.Title)
	post.Category = strings.TrimSpace(req.Category)
	post.Content = req.Content
	post.MeetingLink = strings.TrimSpace(req.MeetingLink)
	post.LinkText = strings.TrimSpace(req.LinkText)
	switch {
	case req.PublishedAt != nil:
		post.PublishedAt = *req.PublishedAt
	case post.PublishedAt.IsZero():
		post.PublishedAt = time.Now()
	}
}
