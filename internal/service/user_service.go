package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gin-gorm-user-service/internal/core/cache"
	"gin-gorm-user-service/internal/domain"
	"gin-gorm-user-service/pkg/utils"
)

type PasswordHasher interface {
	Hash(pw string) (string, error)
	Check(pw, hashed string) bool
}

type Option func(*UserService)

// WithCache 开启 get-by-id 读穿缓存
func WithCache(c *cache.Cache, ttl time.Duration) Option {
	return func(s *UserService) { s.cache, s.cacheTTL = c, ttl }
}

func WithLogger(l *zap.Logger) Option { return func(s *UserService) { s.log = l } }

func WithIDGen(gen func() string) Option { return func(s *UserService) { s.newID = gen } }

type UserService struct {
	repo     domain.UserRepository
	hasher   PasswordHasher
	cache    *cache.Cache
	cacheTTL time.Duration
	newID    func() string
	log      *zap.Logger
}

func NewUserService(repo domain.UserRepository, hasher PasswordHasher, opts ...Option) *UserService {
	s := &UserService{
		repo:     repo,
		hasher:   hasher,
		cacheTTL: 5 * time.Minute,
		newID:    utils.NewID,
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *UserService) Create(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	n := in.Normalize()
	if err := domain.ValidateNew(n); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(n.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{ID: s.newID(), Name: n.Name, Email: n.Email, PasswordHash: hash}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Get 开启缓存时返回的记录不含 PasswordHash
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if s.cache == nil {
		return s.repo.FindByID(ctx, id)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, userKey(id), s.cacheTTL, func(ctx context.Context) (*domain.User, error) {
		return s.repo.FindByID(ctx, id)
	})
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	p := patch.Normalize()
	if err := domain.ValidatePatch(p); err != nil {
		return nil, err
	}
	var hash string
	if p.Password != nil {
		h, err := s.hasher.Hash(*p.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}
	u, err := s.repo.Update(ctx, id, func(u *domain.User) error {
		if p.Name != nil {
			u.Name = *p.Name
		}
		if p.Email != nil {
			u.Email = *p.Email
		}
		if p.Password != nil {
			u.PasswordHash = hash
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.evict(ctx, id)
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *UserService) evict(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, userKey(id)); err != nil {
		s.log.Warn("cache evict failed", zap.String("id", id), zap.Error(err))
	}
}

func userKey(id string) string { return "user:" + id }
