package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"budget/config"
	"budget/models"
	"budget/store"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailTaken 邮箱已被注册
	ErrEmailTaken = errors.New("邮箱已被注册")
	// ErrInvalidCredentials 邮箱或密码错误
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	// ErrWrongPassword 原密码错误
	ErrWrongPassword = errors.New("原密码错误")
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("用户不存在")
)

// AccountService 账号注册、登录与资料维护
type AccountService struct {
	store    *store.Store
	ledger   config.LedgerConfig
	email    *EmailService
	log      zerolog.Logger
	hashCost int
}

// NewAccountService 创建账号服务，email 可以为 nil
func NewAccountService(s *store.Store, cfg *config.Config, email *EmailService, log zerolog.Logger) *AccountService {
	return &AccountService{
		store:    s,
		ledger:   cfg.Ledger,
		email:    email,
		log:      log.With().Str("component", "account").Logger(),
		hashCost: bcrypt.DefaultCost,
	}
}

// RegisterInput 注册信息
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register 创建用户并写入默认类别，两步在同一事务内完成
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: string(hash),
	}

	err = s.store.WithinTx(ctx, func(tx *store.Store) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.CreateCategories(ctx, s.defaultCategories(user.ID))
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	s.log.Info().Uint("user_id", user.ID).Msg("新用户注册")

	if s.email != nil && s.email.Enabled() {
		to, name := user.Email, user.Name
		go func() {
			if err := s.email.SendWelcomeEmail(to, name); err != nil {
				s.log.Warn().Err(err).Str("email", to).Msg("欢迎邮件发送失败")
			}
		}()
	}
	return user, nil
}

// defaultCategories 按配置顺序生成默认类别，跳过 other 类型
func (s *AccountService) defaultCategories(userID uint) []models.Category {
	list := make([]models.Category, 0, len(s.ledger.DefaultCategories))
	for _, dc := range s.ledger.DefaultCategories {
		if !models.IsLedgerType(dc.Type) {
			continue
		}
		list = append(list, models.Category{
			Name:     dc.Key,
			IconName: dc.Key,
			Type:     dc.Type,
			UserID:   userID,
		})
	}
	return list
}

// Login 校验邮箱和密码
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Profile 查询用户信息
func (s *AccountService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.store.UserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// UpdateProfile 修改名称和邮箱
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, name, email string) (*models.User, error) {
	err := s.store.UpdateUserProfile(ctx, userID, strings.TrimSpace(name), normalizeEmail(email))
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return nil, ErrEmailTaken
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, err
	}
	return s.Profile(ctx, userID)
}

// ChangePassword 校验原密码后设置新密码
func (s *AccountService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.hashCost)
	if err != nil {
		return fmt.Errorf("密码加密失败: %w", err)
	}
	return s.store.UpdateUserPassword(ctx, userID, string(hash))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
