package models

import (
	"errors"
	"strings"

	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	BLOOD_BANK_RESOURCE = "blood_bank"
	AMBULANCE_RESOURCE  = "ambulance"
	HOSPITAL_RESOURCE   = "hospital"
	OXYGEN_RESOURCE     = "oxygen"
)

var ResourceTypeNameMap = map[string]bool{
	BLOOD_BANK_RESOURCE: true,
	AMBULANCE_RESOURCE:  true,
	HOSPITAL_RESOURCE:   true,
	OXYGEN_RESOURCE:     true,
}

// Resource is a crowdsourced emergency-resource listing
type Resource struct {
	BaseModel
	Type        string  `json:"type" validate:"required,resource_type" gorm:"not null;index"`
	Name        string  `json:"name" validate:"required,max=200" gorm:"not null"`
	City        string  `json:"city" validate:"required,max=100" gorm:"not null;index"`
	Address     string  `json:"address" validate:"max=500"`
	PhoneNumber string  `json:"phone_number" validate:"required,max=30"`
	Description string  `json:"description" validate:"max=2000"`
	Available   bool    `json:"available"`
	Verified    bool    `json:"verified"`
	Latitude    float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64 `json:"longitude" validate:"min=-180,max=180"`
	SubmittedBy uint    `json:"submitted_by,omitempty"`
}

// ResourceFilter narrows down resource listings. Empty fields are ignored.
type ResourceFilter struct {
	Type          string
	City          string
	Query         string
	AvailableOnly bool
}

func (filter ResourceFilter) scope(db *gorm.DB) *gorm.DB {
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}

	if filter.City != "" {
		db = db.Where("LOWER(city) = ?", strings.ToLower(strings.TrimSpace(filter.City)))
	}

	if query := strings.ToLower(strings.TrimSpace(filter.Query)); query != "" {
		like := "%" + query + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(address) LIKE ?", like, like, like)
	}

	if filter.AvailableOnly {
		db = db.Where("available = ?", true)
	}

	return db
}

func CreateResource(resource *Resource) error {
	resource.City = strings.TrimSpace(resource.City)
	resource.Verified = false
	return db.Create(resource).Error
}

func FindResource(id interface{}) (*Resource, error) {
	resource := Resource{}
	err := db.First(&resource, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return &resource, nil
}

// FetchResources returns a page of resources matching 'filter', verified listings first
func FetchResources(filter ResourceFilter, page int) ([]Resource, *Paging, error) {
	var total int64
	resources := []Resource{}

	err := db.Model(&Resource{}).Scopes(filter.scope).Count(&total).Error
	if err != nil {
		return nil, nil, pkgErrors.Wrap(err, "FetchResources")
	}

	err = db.Scopes(filter.scope, paginate(page, MIN_PAGE_SIZE)).
		Order("verified desc").Order("id desc").Find(&resources).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, pkgErrors.Wrap(err, "FetchResources")
	}

	return resources, newPaging(int64(page), MIN_PAGE_SIZE, total), nil
}

// AvailableResources returns up to 'limit' available resources of 'resourceType',
// optionally restricted to 'city'.
func AvailableResources(resourceType, city string, limit int) ([]Resource, error) {
	resources := []Resource{}

	err := db.Scopes(ResourceFilter{Type: resourceType, City: city, AvailableOnly: true}.scope).
		Order("verified desc").Order("id desc").Limit(limit).Find(&resources).Error
	if err != nil {
		return nil, pkgErrors.Wrap(err, "AvailableResources")
	}

	return resources, nil
}

// ResourceCities lists the distinct cities that have at least one listing
func ResourceCities() ([]string, error) {
	cities := []string{}
	err := db.Model(&Resource{}).Distinct("city").Order("city").Pluck("city", &cities).Error
	if err != nil {
		return nil, pkgErrors.Wrap(err, "ResourceCities")
	}

	return cities, nil
}

func VerifyResource(id interface{}) error {
	res := db.Model(&Resource{}).Where("id = ?", id).Update("verified", true)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func seedResources() []Resource {
	return []Resource{
		{Type: BLOOD_BANK_RESOURCE, Name: "Red Cross Blood Bank", City: "Delhi", Address: "1 Red Cross Road", PhoneNumber: "+911123716441", Available: true, Verified: true},
		{Type: AMBULANCE_RESOURCE, Name: "CATS Ambulance", City: "Delhi", PhoneNumber: "+91102", Available: true, Verified: true},
		{Type: HOSPITAL_RESOURCE, Name: "AIIMS", City: "Delhi", Address: "Ansari Nagar", PhoneNumber: "+911126588500", Available: true, Verified: true},
		{Type: OXYGEN_RESOURCE, Name: "City Oxygen Refill", City: "Mumbai", Address: "Andheri East", PhoneNumber: "+912226830000", Available: true},
	}
}
