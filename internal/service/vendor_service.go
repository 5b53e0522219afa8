package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/kartly/kartly_go_server/config"
	"github.com/kartly/kartly_go_server/internal/model/dto"
	"github.com/kartly/kartly_go_server/internal/pkg/jwt"
	"github.com/kartly/kartly_go_server/internal/pkg/oss"
)

var (
	ErrCatalogIncomplete = errors.New("至少需要一个启用的分类和一个在售菜品")
)

type VendorService struct {
	subSvc     *SubscriptionService
	catalogSvc *CatalogService
	ossClient  *oss.Client
	cfg        *config.Config
}

func NewVendorService(subSvc *SubscriptionService, catalogSvc *CatalogService, ossClient *oss.Client, cfg *config.Config) *VendorService {
	return &VendorService{
		subSvc:     subSvc,
		catalogSvc: catalogSvc,
		ossClient:  ossClient,
		cfg:        cfg,
	}
}

// QRPath 点单二维码指向的路由路径。订阅可用且目录齐备才发放，
// 返回相对路径，由前端用自己的 origin 拼出完整链接。
func (s *VendorService) QRPath(vendorID int64) (*dto.QRResponse, error) {
	if err := s.ensureSellable(vendorID); err != nil {
		return nil, err
	}
	return &dto.QRResponse{QRPath: fmt.Sprintf("/q/%d", vendorID)}, nil
}

// QRImage 生成点单二维码 PNG，内容是指向扫码页的完整链接
func (s *VendorService) QRImage(vendorID int64, size int) ([]byte, error) {
	if err := s.ensureSellable(vendorID); err != nil {
		return nil, err
	}

	if size < 64 || size > 1024 {
		size = 256
	}
	content := fmt.Sprintf("%s/q/%d", s.cfg.Frontend.BaseURL, vendorID)
	return qrcode.Encode(content, qrcode.Medium, size)
}

// RealtimeToken 商户看板频道的准入凭证
func (s *VendorService) RealtimeToken(vendorID int64) (*dto.RealtimeTokenResponse, error) {
	ttl := time.Duration(s.cfg.JWT.ChannelTokenMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	token, err := jwt.GenerateChannelToken(jwt.ScopeVendor, vendorID, s.cfg.JWT.Secret, ttl)
	if err != nil {
		return nil, err
	}
	return &dto.RealtimeTokenResponse{Token: token}, nil
}

// UploadMenuImage 菜品图片上传到 OSS，返回可访问的 URL
func (s *VendorService) UploadMenuImage(vendorID int64, data []byte, ext string) (*dto.UploadImageResponse, error) {
	url, err := s.ossClient.UploadMenuImage(vendorID, data, ext)
	if err != nil {
		return nil, err
	}
	return &dto.UploadImageResponse{URL: url}, nil
}

// ensureSellable 订阅闸门 + 目录齐备检查
func (s *VendorService) ensureSellable(vendorID int64) error {
	if err := s.subSvc.EnsureActive(vendorID); err != nil {
		return err
	}

	ready, err := s.catalogSvc.CatalogReady(vendorID)
	if err != nil {
		return err
	}
	if !ready {
		return ErrCatalogIncomplete
	}
	return nil
}
