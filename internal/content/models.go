package content

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// Bilingual fields come in pairs: the English value is authoritative and
// always present, the *_ar column may be empty.  Rendering picks with
// i18n.Pick.

// Category mirrors one row of `category`.  Children is filled by the tree
// accessor only.
type Category struct {
	ID            uint64    `db:"id"             json:"id"`
	ParentID      *uint64   `db:"parent_id"      json:"parent_id"`
	Slug          string    `db:"slug"           json:"slug"`
	Name          string    `db:"name"           json:"name"`
	NameAr        string    `db:"name_ar"        json:"name_ar"`
	Description   string    `db:"description"    json:"description"`
	DescriptionAr string    `db:"description_ar" json:"description_ar"`
	Image         string    `db:"image"          json:"image"`
	Position      int       `db:"position"       json:"position"`
	Published     bool      `db:"published"      json:"published"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updated_at"`

	Children []*Category `db:"-" json:"children,omitempty"`
}

// Product mirrors one row of `product`.
type Product struct {
	ID            uint64      `db:"id"             json:"id"`
	CategoryID    uint64      `db:"category_id"    json:"category_id"`
	Slug          string      `db:"slug"           json:"slug"`
	Name          string      `db:"name"           json:"name"`
	NameAr        string      `db:"name_ar"        json:"name_ar"`
	Summary       string      `db:"summary"        json:"summary"`
	SummaryAr     string      `db:"summary_ar"     json:"summary_ar"`
	Description   string      `db:"description"    json:"description"`
	DescriptionAr string      `db:"description_ar" json:"description_ar"`
	Image         string      `db:"image"          json:"image"`
	Composition   Composition `db:"composition"    json:"composition"`
	Usage         Usage       `db:"usage_info"     json:"usage"`
	Position      int         `db:"position"       json:"position"`
	Published     bool        `db:"published"      json:"published"`
	CreatedAt     time.Time   `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"     json:"updated_at"`

	Sections []Section `db:"-" json:"sections,omitempty"`
}

// Section is one ordered block of a product page.
type Section struct {
	ID        uint64 `db:"id"         json:"id"`
	ProductID uint64 `db:"product_id" json:"product_id"`
	Position  int    `db:"position"   json:"position"`
	Title     string `db:"title"      json:"title"`
	TitleAr   string `db:"title_ar"   json:"title_ar"`
	Body      string `db:"body"       json:"body"`
	BodyAr    string `db:"body_ar"    json:"body_ar"`
}

// CompositionRow is one line of a product's guaranteed analysis.
type CompositionRow struct {
	Element   string          `json:"element"    validate:"required,max=80"`
	ElementAr string          `json:"element_ar" validate:"max=80"`
	Value     decimal.Decimal `json:"value"`
	Unit      string          `json:"unit"       validate:"max=16"`
}

// UsageRow is one line of a product's application table.
type UsageRow struct {
	Crop     string `json:"crop"      validate:"required,max=80"`
	CropAr   string `json:"crop_ar"   validate:"max=80"`
	Dosage   string `json:"dosage"    validate:"max=80"`
	Timing   string `json:"timing"    validate:"max=120"`
	TimingAr string `json:"timing_ar" validate:"max=120"`
}

// Composition and Usage are stored as JSON columns.
type (
	Composition []CompositionRow
	Usage       []UsageRow
)

func (c *Composition) Scan(src any) error { return scanJSON(src, c) }
func (c Composition) Value() (driver.Value, error) {
	if c == nil {
		c = Composition{}
	}
	return json.Marshal(c)
}

func (u *Usage) Scan(src any) error { return scanJSON(src, u) }
func (u Usage) Value() (driver.Value, error) {
	if u == nil {
		u = Usage{}
	}
	return json.Marshal(u)
}

func scanJSON(src, dst any) error {
	if src == nil {
		return nil
	}
	var j types.JSONText
	if err := j.Scan(src); err != nil {
		return err
	}
	if len(j) == 0 {
		return nil
	}
	return j.Unmarshal(dst)
}

// Post mirrors one row of `blog_post`.
type Post struct {
	ID          uint64     `db:"id"           json:"id"`
	Slug        string     `db:"slug"         json:"slug"`
	Title       string     `db:"title"        json:"title"`
	TitleAr     string     `db:"title_ar"     json:"title_ar"`
	Excerpt     string     `db:"excerpt"      json:"excerpt"`
	ExcerptAr   string     `db:"excerpt_ar"   json:"excerpt_ar"`
	Body        string     `db:"body"         json:"body"`
	BodyAr      string     `db:"body_ar"      json:"body_ar"`
	CoverImage  string     `db:"cover_image"  json:"cover_image"`
	Published   bool       `db:"published"    json:"published"`
	PublishedAt *time.Time `db:"published_at" json:"published_at"`
	CreatedAt   time.Time  `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"   json:"updated_at"`
}

// PostPage is one page of the public blog index.
type PostPage struct {
	Posts   []Post
	Page    int
	HasNext bool
}

// Page mirrors one row of `page`.
type Page struct {
	ID        uint64    `db:"id"         json:"id"`
	Slug      string    `db:"slug"       json:"slug"`
	Title     string    `db:"title"      json:"title"`
	TitleAr   string    `db:"title_ar"   json:"title_ar"`
	Body      string    `db:"body"       json:"body"`
	BodyAr    string    `db:"body_ar"    json:"body_ar"`
	Published bool      `db:"published"  json:"published"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Job mirrors one row of `job_offer`.
type Job struct {
	ID             uint64     `db:"id"              json:"id"`
	Slug           string     `db:"slug"            json:"slug"`
	Title          string     `db:"title"           json:"title"`
	TitleAr        string     `db:"title_ar"        json:"title_ar"`
	Location       string     `db:"location"        json:"location"`
	LocationAr     string     `db:"location_ar"     json:"location_ar"`
	EmploymentType string     `db:"employment_type" json:"employment_type"`
	Description    string     `db:"description"     json:"description"`
	DescriptionAr  string     `db:"description_ar"  json:"description_ar"`
	Published      bool       `db:"published"       json:"published"`
	ClosesAt       *time.Time `db:"closes_at"       json:"closes_at"`
	CreatedAt      time.Time  `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"      json:"updated_at"`
}

// Application statuses.  Admins overwrite the label directly.
const (
	StatusNew         = "new"
	StatusReviewed    = "reviewed"
	StatusShortlisted = "shortlisted"
	StatusRejected    = "rejected"
	StatusHired       = "hired"
)

// ValidStatus reports whether s is a known application status.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusReviewed, StatusShortlisted, StatusRejected, StatusHired:
		return true
	}
	return false
}

// Application mirrors one row of `job_application`.
type Application struct {
	ID          uint64    `db:"id"           json:"id"`
	JobID       uint64    `db:"job_offer_id" json:"job_offer_id"`
	JobTitle    string    `db:"job_title"    json:"job_title,omitempty"`
	FullName    string    `db:"full_name"    json:"full_name"`
	Email       string    `db:"email"        json:"email"`
	Phone       string    `db:"phone"        json:"phone"`
	CoverLetter string    `db:"cover_letter" json:"cover_letter"`
	CVPath      string    `db:"cv_path"      json:"cv_path"`
	Status      string    `db:"status"       json:"status"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
}

// Contact mirrors one row of `contact_submission`.
type Contact struct {
	ID        uint64    `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	Email     string    `db:"email"      json:"email"`
	Phone     string    `db:"phone"      json:"phone"`
	Company   string    `db:"company"    json:"company"`
	Subject   string    `db:"subject"    json:"subject"`
	Message   string    `db:"message"    json:"message"`
	IsRead    bool      `db:"is_read"    json:"is_read"`
	IP        string    `db:"ip"         json:"ip"`
	Country   string    `db:"country"    json:"country"`
	UserAgent string    `db:"user_agent" json:"user_agent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Certificate mirrors one row of `certificate`.
type Certificate struct {
	ID        uint64    `db:"id"         json:"id"`
	Title     string    `db:"title"      json:"title"`
	TitleAr   string    `db:"title_ar"   json:"title_ar"`
	Issuer    string    `db:"issuer"     json:"issuer"`
	Image     string    `db:"image"      json:"image"`
	Position  int       `db:"position"   json:"position"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Award mirrors one row of `award`.
type Award struct {
	ID            uint64    `db:"id"             json:"id"`
	Title         string    `db:"title"          json:"title"`
	TitleAr       string    `db:"title_ar"       json:"title_ar"`
	Description   string    `db:"description"    json:"description"`
	DescriptionAr string    `db:"description_ar" json:"description_ar"`
	Year          int       `db:"year"           json:"year"`
	Image         string    `db:"image"          json:"image"`
	Position      int       `db:"position"       json:"position"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updated_at"`
}

// Company is the singleton `company_data` row (id = 1).
type Company struct {
	ID        uint64    `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	NameAr    string    `db:"name_ar"    json:"name_ar"`
	Tagline   string    `db:"tagline"    json:"tagline"`
	TaglineAr string    `db:"tagline_ar" json:"tagline_ar"`
	About     string    `db:"about"      json:"about"`
	AboutAr   string    `db:"about_ar"   json:"about_ar"`
	Email     string    `db:"email"      json:"email"`
	Phone     string    `db:"phone"      json:"phone"`
	WhatsApp  string    `db:"whatsapp"   json:"whatsapp"`
	Facebook  string    `db:"facebook"   json:"facebook"`
	Instagram string    `db:"instagram"  json:"instagram"`
	LinkedIn  string    `db:"linkedin"   json:"linkedin"`
	Logo      string    `db:"logo"       json:"logo"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Headquarter mirrors one row of `headquarter`.
type Headquarter struct {
	ID        uint64          `db:"id"         json:"id"`
	Name      string          `db:"name"       json:"name"`
	NameAr    string          `db:"name_ar"    json:"name_ar"`
	Address   string          `db:"address"    json:"address"`
	AddressAr string          `db:"address_ar" json:"address_ar"`
	Phone     string          `db:"phone"      json:"phone"`
	Email     string          `db:"email"      json:"email"`
	MapURL    string          `db:"map_url"    json:"map_url"`
	Latitude  decimal.Decimal `db:"latitude"   json:"latitude"`
	Longitude decimal.Decimal `db:"longitude"  json:"longitude"`
	IsPrimary bool            `db:"is_primary" json:"is_primary"`
	Position  int             `db:"position"   json:"position"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Document mirrors one row of `document`.
type Document struct {
	ID          uint64    `db:"id"           json:"id"`
	Slug        string    `db:"slug"         json:"slug"`
	Title       string    `db:"title"        json:"title"`
	TitleAr     string    `db:"title_ar"     json:"title_ar"`
	FilePath    string    `db:"file_path"    json:"file_path"`
	ContentType string    `db:"content_type" json:"content_type"`
	SizeBytes   int64     `db:"size_bytes"   json:"size_bytes"`
	Downloads   int64     `db:"downloads"    json:"downloads"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
}

// Stats feeds the admin dashboard.
type Stats struct {
	Categories      int `db:"categories"       json:"categories"`
	Products        int `db:"products"         json:"products"`
	Posts           int `db:"posts"            json:"posts"`
	Pages           int `db:"pages"            json:"pages"`
	Jobs            int `db:"jobs"             json:"jobs"`
	Documents       int `db:"documents"        json:"documents"`
	UnreadContacts  int `db:"unread_contacts"  json:"unread_contacts"`
	NewApplications int `db:"new_applications" json:"new_applications"`
}
