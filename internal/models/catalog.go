package models

type PackageCategory string

var PackageCategories = []PackageCategory{"portrait", "family", "couple", "wedding", "event", "commercial", "other"}

var packageCategoryLabels = map[PackageCategory]string{
	"portrait":   "Portrait",
	"family":     "Gia Đình",
	"couple":     "Couple",
	"wedding":    "Cưới Hỏi",
	"event":      "Sự Kiện",
	"commercial": "Thương Mại",
	"other":      "Khác",
}

func (c PackageCategory) Valid() bool {
	_, ok := packageCategoryLabels[c]
	return ok
}

func (c PackageCategory) Label() string {
	if l, ok := packageCategoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// PackageDetails salaries (photo, makeup, assistant, retouch) are in thousands of VND.
type PackageDetails struct {
	Photo         *Thousands `json:"photo"`
	Makeup        *Thousands `json:"makeup"`
	Assistant     *Thousands `json:"assistant"`
	Retouch       *Thousands `json:"retouch"`
	Time          *string    `json:"time"`
	Location      *string    `json:"location"`
	RetouchPhotos *int       `json:"retouch_photos"`
	ExtraServices []string   `json:"extra_services"`
}

type Package struct {
	ID              ID              `json:"id"`
	PackageID       string          `json:"package_id,omitempty"`
	Name            string          `json:"name"`
	Category        PackageCategory `json:"category"`
	Price           int64           `json:"price"`
	Description     string          `json:"description"`
	Notes           string          `json:"notes,omitempty"`
	Details         PackageDetails  `json:"details"`
	Includes        []string        `json:"includes"`
	IsActive        bool            `json:"is_active"`
	PopularityScore int             `json:"popularity_score"`
	CreatedAt       string          `json:"created_at,omitempty"`
	UpdatedAt       string          `json:"updated_at,omitempty"`
}

type PackagePayload struct {
	Name            string          `json:"name"`
	Category        PackageCategory `json:"category"`
	Price           int64           `json:"price"`
	Description     string          `json:"description"`
	Notes           string          `json:"notes"`
	Details         PackageDetails  `json:"details"`
	Includes        []string        `json:"includes"`
	IsActive        bool            `json:"is_active"`
	PopularityScore int             `json:"popularity_score"`
}

type PartnerType string

var PartnerTypes = []PartnerType{"vendor", "location", "equipment", "other"}

var partnerTypeLabels = map[PartnerType]string{
	"vendor":    "Nhà cung cấp",
	"location":  "Địa điểm chụp",
	"equipment": "Thiết bị",
	"other":     "Khác",
}

func (t PartnerType) Label() string {
	if l, ok := partnerTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

type Partner struct {
	ID             ID          `json:"id"`
	Name           string      `json:"name"`
	Type           PartnerType `json:"type"`
	ContactPerson  string      `json:"contact_person"`
	Phone          string      `json:"phone"`
	Email          string      `json:"email"`
	Address        string      `json:"address"`
	Services       []string    `json:"services"`
	CostPerService int64       `json:"cost_per_service"`
	Rating         float64     `json:"rating"`
	Notes          string      `json:"notes,omitempty"`
	IsActive       bool        `json:"is_active"`
	CreatedAt      string      `json:"created_at,omitempty"`
	UpdatedAt      string      `json:"updated_at,omitempty"`
}

type PartnerPayload struct {
	Name           string      `json:"name"`
	Type           PartnerType `json:"type"`
	ContactPerson  string      `json:"contact_person"`
	Phone          string      `json:"phone"`
	Email          string      `json:"email"`
	Address        string      `json:"address"`
	Services       []string    `json:"services"`
	CostPerService int64       `json:"cost_per_service"`
	Rating         float64     `json:"rating"`
	Notes          string      `json:"notes"`
	IsActive       bool        `json:"is_active"`
}
