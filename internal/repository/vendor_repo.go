package repository

import (
	"gorm.io/gorm"

	"github.com/kartly/kartly_go_server/internal/model"
)

type VendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

func (r *VendorRepository) Create(vendor *model.Vendor) error {
	return r.db.Create(vendor).Error
}

func (r *VendorRepository) GetByID(id int64) (*model.Vendor, error) {
	var vendor model.Vendor
	err := r.db.Where("id = ?", id).First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *VendorRepository) GetByEmail(email string) (*model.Vendor, error) {
	var vendor model.Vendor
	err := r.db.Where("email = ?", email).First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *VendorRepository) GetByResetToken(token string) (*model.Vendor, error) {
	var vendor model.Vendor
	err := r.db.Where("reset_token = ?", token).First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *VendorRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Vendor{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *VendorRepository) Update(vendor *model.Vendor) error {
	return r.db.Save(vendor).Error
}

func (r *VendorRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Vendor{}).Where("id = ?", id).Updates(fields).Error
}

func (r *VendorRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Vendor{}).Count(&count).Error
	return count, err
}

func (r *VendorRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Vendor{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
