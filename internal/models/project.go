package models

type ProjectStatus string

const (
	StatusPending    ProjectStatus = "pending"
	StatusConfirmed  ProjectStatus = "confirmed"
	StatusShooting   ProjectStatus = "shooting"
	StatusRetouching ProjectStatus = "retouching"
	StatusDelivered  ProjectStatus = "delivered"
	StatusCompleted  ProjectStatus = "completed"
	StatusCancelled  ProjectStatus = "cancelled"
)

// ProjectStatuses in lifecycle order, cancelled last.
var ProjectStatuses = []ProjectStatus{
	StatusPending,
	StatusConfirmed,
	StatusShooting,
	StatusRetouching,
	StatusDelivered,
	StatusCompleted,
	StatusCancelled,
}

var projectStatusLabels = map[ProjectStatus]string{
	StatusPending:    "Chờ xác nhận",
	StatusConfirmed:  "Đã xác nhận",
	StatusShooting:   "Đang chụp",
	StatusRetouching: "Đang chỉnh sửa",
	StatusDelivered:  "Đã giao",
	StatusCompleted:  "Hoàn thành",
	StatusCancelled:  "Đã hủy",
}

func (s ProjectStatus) Valid() bool {
	_, ok := projectStatusLabels[s]
	return ok
}

func (s ProjectStatus) Label() string {
	if l, ok := projectStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Active reports whether work on the project is still ahead.
func (s ProjectStatus) Active() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShooting, StatusRetouching:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentDepositPaid   PaymentStatus = "deposit_paid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentFullyPaid     PaymentStatus = "fully_paid"
)

var PaymentStatuses = []PaymentStatus{PaymentUnpaid, PaymentDepositPaid, PaymentPartiallyPaid, PaymentFullyPaid}

var paymentStatusLabels = map[PaymentStatus]string{
	PaymentUnpaid:        "Chưa thanh toán",
	PaymentDepositPaid:   "Đã đặt cọc",
	PaymentPartiallyPaid: "Thanh toán một phần",
	PaymentFullyPaid:     "Đã thanh toán đủ",
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentStatusLabels[s]
	return ok
}

func (s PaymentStatus) Label() string {
	if l, ok := paymentStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

type PaymentRecord struct {
	Amount int64   `json:"amount"`
	Date   string  `json:"date"`
	Method string  `json:"method"`
	Notes  *string `json:"notes"`
}

type ProjectPayment struct {
	Deposit        int64           `json:"deposit"`
	Paid           int64           `json:"paid"`
	Final          int64           `json:"final"`
	Status         PaymentStatus   `json:"status"`
	PaymentHistory []PaymentRecord `json:"payment_history"`
}

type ProjectProgress struct {
	ShootingDone bool `json:"shooting_done"`
	RetouchDone  bool `json:"retouch_done"`
	Delivered    bool `json:"delivered"`
}

// TeamMember references an employee by id; the backend calls the field "employee".
type TeamMember struct {
	Employee string  `json:"employee"`
	Salary   int64   `json:"salary"`
	Bonus    int64   `json:"bonus"`
	Notes    *string `json:"notes"`
}

type ProjectTeam struct {
	MainPhotographer    *TeamMember  `json:"main_photographer"`
	AssistPhotographers []TeamMember `json:"assist_photographers"`
	MakeupArtists       []TeamMember `json:"makeup_artists"`
	RetouchArtists      []TeamMember `json:"retouch_artists"`
}

// Members returns every assigned member, main photographer first.
func (t ProjectTeam) Members() []TeamMember {
	var out []TeamMember
	if t.MainPhotographer != nil && t.MainPhotographer.Employee != "" {
		out = append(out, *t.MainPhotographer)
	}
	out = append(out, t.AssistPhotographers...)
	out = append(out, t.MakeupArtists...)
	out = append(out, t.RetouchArtists...)
	return out
}

// Surcharge counts extras agreed with the customer on top of the package.
type Surcharge struct {
	ExtraHours  int `json:"extra_hours" form:"extra_hours" binding:"min=0"`
	ExtraPeople int `json:"extra_people" form:"extra_people" binding:"min=0"`
	ExtraPhotos int `json:"extra_photos" form:"extra_photos" binding:"min=0"`
	ExtraMakeup int `json:"extra_makeup" form:"extra_makeup" binding:"min=0"`
}

func (s Surcharge) Any() bool {
	return s.ExtraHours > 0 || s.ExtraPeople > 0 || s.ExtraPhotos > 0 || s.ExtraMakeup > 0
}

type Project struct {
	ID                 ID              `json:"id"`
	ProjectCode        string          `json:"project_code"`
	CustomerName       string          `json:"customer_name"`
	CustomerPhone      string          `json:"customer_phone"`
	CustomerEmail      *string         `json:"customer_email"`
	PackageType        string          `json:"package_type"`
	PackageName        string          `json:"package_name"`
	PackagePrice       int64           `json:"package_price"`
	PackageDiscount    int64           `json:"package_discount"`
	PackageFinalPrice  int64           `json:"package_final_price"`
	ShootDate          string          `json:"shoot_date"`
	ShootTime          *string         `json:"shoot_time"`
	Location           *string         `json:"location"`
	Notes              *string         `json:"notes"`
	Status             ProjectStatus   `json:"status"`
	Payment            ProjectPayment  `json:"payment"`
	Progress           ProjectProgress `json:"progress"`
	Team               ProjectTeam     `json:"team"`
	Surcharge          *Surcharge      `json:"surcharge,omitempty"`
	AdditionalPackages []string        `json:"additional_packages"`
	CompletedDate      *string         `json:"completed_date,omitempty"`
	DeliveryDate       *string         `json:"delivery_date,omitempty"`
	CreatedAt          string          `json:"created_at,omitempty"`
	UpdatedAt          string          `json:"updated_at,omitempty"`
}

// ProjectPayload is the create/update body the backend expects.
type ProjectPayload struct {
	CustomerName       string         `json:"customer_name"`
	CustomerPhone      string         `json:"customer_phone"`
	CustomerEmail      *string        `json:"customer_email"`
	PackageType        string         `json:"package_type"`
	PackageName        string         `json:"package_name"`
	PackagePrice       int64          `json:"package_price"`
	PackageDiscount    int64          `json:"package_discount"`
	ShootDate          string         `json:"shoot_date"`
	ShootTime          *string        `json:"shoot_time"`
	Location           *string        `json:"location"`
	Notes              *string        `json:"notes"`
	Status             ProjectStatus  `json:"status"`
	Team               ProjectTeam    `json:"team"`
	Payment            ProjectPayment `json:"payment"`
	Surcharge          Surcharge      `json:"surcharge"`
	Partners           any            `json:"partners"`
	AdditionalPackages []string       `json:"additional_packages"`
}

// StatusPatch is the partial update used by status actions.
type StatusPatch struct {
	Status ProjectStatus `json:"status"`
}
