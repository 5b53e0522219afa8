package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kartly/kartly_go_server/config"
	"github.com/kartly/kartly_go_server/internal/model"
	"github.com/kartly/kartly_go_server/internal/model/dto"
	"github.com/kartly/kartly_go_server/internal/pkg/email"
	"github.com/kartly/kartly_go_server/internal/pkg/jwt"
	"github.com/kartly/kartly_go_server/internal/repository"
)

var (
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrVendorSuspended    = errors.New("商户账号已被停用")
	ErrVendorNotFound     = errors.New("商户不存在")
	ErrInvalidResetToken  = errors.New("重置链接无效或已过期")
)

type AuthService struct {
	vendorRepo *repository.VendorRepository
	subSvc     *SubscriptionService
	emailSvc   *email.Service
	cfg        *config.Config
}

func NewAuthService(vendorRepo *repository.VendorRepository, subSvc *SubscriptionService, emailSvc *email.Service, cfg *config.Config) *AuthService {
	return &AuthService{
		vendorRepo: vendorRepo,
		subSvc:     subSvc,
		emailSvc:   emailSvc,
		cfg:        cfg,
	}
}

// Register 商户注册：建账号、开通试用订阅、签发登录 Token
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	// 检查邮箱是否存在
	exists, err := s.vendorRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	// 加密密码
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	vendor := &model.Vendor{
		Name:         req.Name,
		ShopName:     req.ShopName,
		Phone:        req.Phone,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Status:       model.VendorStatusActive,
	}

	if err := s.vendorRepo.Create(vendor); err != nil {
		return nil, err
	}

	// 注册即开通试用订阅
	if _, err := s.subSvc.StartTrial(vendor.ID); err != nil {
		return nil, err
	}

	token, err := jwt.GenerateToken(vendor.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	// 欢迎邮件失败不阻塞注册
	go func() {
		if err := s.emailSvc.SendWelcome(vendor.Email, vendor.ShopName); err != nil {
			log.Printf("failed to send welcome email to %s: %v", vendor.Email, err)
		}
	}()

	return &dto.RegisterResponse{
		Token:  token,
		Vendor: buildVendorInfo(vendor),
	}, nil
}

// Login 商户登录
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	vendor, err := s.vendorRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(vendor.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if vendor.Status == model.VendorStatusSuspended {
		return nil, ErrVendorSuspended
	}

	token, err := jwt.GenerateToken(vendor.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:  token,
		Vendor: buildVendorInfo(vendor),
	}, nil
}

// ForgotPassword 发起密码找回。邮箱不存在时同样静默返回，避免探测注册邮箱
func (s *AuthService) ForgotPassword(req *dto.ForgotPasswordRequest) error {
	vendor, err := s.vendorRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	resetToken, err := generateRandomToken(32)
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(time.Hour)
	if err := s.vendorRepo.UpdateFields(vendor.ID, map[string]interface{}{
		"reset_token":      resetToken,
		"reset_expires_at": expiresAt,
	}); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.Frontend.BaseURL, resetToken)
	go func() {
		if err := s.emailSvc.SendPasswordReset(vendor.Email, resetLink); err != nil {
			log.Printf("failed to send password reset email to %s: %v", vendor.Email, err)
		}
	}()

	return nil
}

// ResetPassword 用邮件中的重置凭证设置新密码
func (s *AuthService) ResetPassword(req *dto.ResetPasswordRequest) error {
	vendor, err := s.vendorRepo.GetByResetToken(req.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	if vendor.ResetExpiresAt == nil || vendor.ResetExpiresAt.Before(time.Now()) {
		return ErrInvalidResetToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.vendorRepo.UpdateFields(vendor.ID, map[string]interface{}{
		"password_hash":    string(hashedPassword),
		"reset_token":      nil,
		"reset_expires_at": nil,
	})
}

func buildVendorInfo(vendor *model.Vendor) *dto.VendorInfo {
	return &dto.VendorInfo{
		ID:       vendor.ID,
		Name:     vendor.Name,
		ShopName: vendor.ShopName,
		Email:    vendor.Email,
		Status:   vendor.Status,
	}
}

// generateRandomToken 生成随机十六进制凭证
func generateRandomToken(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
