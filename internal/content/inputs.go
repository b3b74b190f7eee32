package content

import "time"

// Input structs are what admin JSON bodies and public forms decode into.
// They are validated once at the boundary (api.Decode / api.Validate); the
// service only runs the business check that needs the database.  The
// `slug` validation tag is registered by internal/api.

// CategoryInput creates or replaces a category.
type CategoryInput struct {
	ParentID      *uint64 `json:"parent_id"`
	Slug          string  `json:"slug"           validate:"omitempty,slug"`
	Name          string  `json:"name"           validate:"required,max=200"`
	NameAr        string  `json:"name_ar"        validate:"max=200"`
	Description   string  `json:"description"`
	DescriptionAr string  `json:"description_ar"`
	Image         string  `json:"image"          validate:"max=255"`
	Position      int     `json:"position"`
	Published     bool    `json:"published"`
}

// SectionInput is one product section; order is the slice order.
type SectionInput struct {
	Title   string `json:"title"    validate:"required,max=200"`
	TitleAr string `json:"title_ar" validate:"max=200"`
	Body    string `json:"body"`
	BodyAr  string `json:"body_ar"`
}

// ProductInput creates or replaces a product and all of its sections.
type ProductInput struct {
	CategoryID    uint64           `json:"category_id"    validate:"required"`
	Slug          string           `json:"slug"           validate:"omitempty,slug"`
	Name          string           `json:"name"           validate:"required,max=200"`
	NameAr        string           `json:"name_ar"        validate:"max=200"`
	Summary       string           `json:"summary"        validate:"max=500"`
	SummaryAr     string           `json:"summary_ar"     validate:"max=500"`
	Description   string           `json:"description"`
	DescriptionAr string           `json:"description_ar"`
	Image         string           `json:"image"          validate:"max=255"`
	Composition   []CompositionRow `json:"composition"    validate:"dive"`
	Usage         []UsageRow       `json:"usage"          validate:"dive"`
	Sections      []SectionInput   `json:"sections"       validate:"dive"`
	Position      int              `json:"position"`
	Published     bool             `json:"published"`
}

// PostInput creates or replaces a blog post.
type PostInput struct {
	Slug        string     `json:"slug"         validate:"omitempty,slug"`
	Title       string     `json:"title"        validate:"required,max=200"`
	TitleAr     string     `json:"title_ar"     validate:"max=200"`
	Excerpt     string     `json:"excerpt"      validate:"max=500"`
	ExcerptAr   string     `json:"excerpt_ar"   validate:"max=500"`
	Body        string     `json:"body"         validate:"required"`
	BodyAr      string     `json:"body_ar"`
	CoverImage  string     `json:"cover_image"  validate:"max=255"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at"`
}

// PageInput creates or replaces a static page.
type PageInput struct {
	Slug      string `json:"slug"      validate:"omitempty,slug"`
	Title     string `json:"title"     validate:"required,max=200"`
	TitleAr   string `json:"title_ar"  validate:"max=200"`
	Body      string `json:"body"      validate:"required"`
	BodyAr    string `json:"body_ar"`
	Published bool   `json:"published"`
}

// JobInput creates or replaces a job offer.
type JobInput struct {
	Slug           string     `json:"slug"            validate:"omitempty,slug"`
	Title          string     `json:"title"           validate:"required,max=200"`
	TitleAr        string     `json:"title_ar"        validate:"max=200"`
	Location       string     `json:"location"        validate:"max=200"`
	LocationAr     string     `json:"location_ar"     validate:"max=200"`
	EmploymentType string     `json:"employment_type" validate:"omitempty,oneof=full-time part-time contract internship seasonal"`
	Description    string     `json:"description"     validate:"required"`
	DescriptionAr  string     `json:"description_ar"`
	Published      bool       `json:"published"`
	ClosesAt       *time.Time `json:"closes_at"`
}

// ApplicationInput is decoded from the public careers form.
type ApplicationInput struct {
	FullName    string `json:"full_name"    validate:"required,max=200"`
	Email       string `json:"email"        validate:"required,email,max=254"`
	Phone       string `json:"phone"        validate:"required,max=40"`
	CoverLetter string `json:"cover_letter" validate:"max=5000"`
}

// StatusInput overwrites an application's status label.
type StatusInput struct {
	Status string `json:"status" validate:"required,oneof=new reviewed shortlisted rejected hired"`
}

// ContactInput is decoded from the public contact form.
type ContactInput struct {
	Name    string `json:"name"    validate:"required,max=200"`
	Email   string `json:"email"   validate:"required,email,max=254"`
	Phone   string `json:"phone"   validate:"max=40"`
	Company string `json:"company" validate:"max=200"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ContactMeta is what the request pipeline knows about the submitter.
type ContactMeta struct {
	IP        string
	Country   string
	UserAgent string
}

// ReadInput toggles a contact submission's read flag.
type ReadInput struct {
	Read bool `json:"read"`
}

// CertificateInput creates or replaces a certificate.
type CertificateInput struct {
	Title    string `json:"title"    validate:"required,max=200"`
	TitleAr  string `json:"title_ar" validate:"max=200"`
	Issuer   string `json:"issuer"   validate:"max=200"`
	Image    string `json:"image"    validate:"required,max=255"`
	Position int    `json:"position"`
}

// AwardInput creates or replaces an award.
type AwardInput struct {
	Title         string `json:"title"          validate:"required,max=200"`
	TitleAr       string `json:"title_ar"       validate:"max=200"`
	Description   string `json:"description"`
	DescriptionAr string `json:"description_ar"`
	Year          int    `json:"year"           validate:"omitempty,gte=1900,lte=2100"`
	Image         string `json:"image"          validate:"max=255"`
	Position      int    `json:"position"`
}

// CompanyInput replaces the company singleton.
type CompanyInput struct {
	Name      string `json:"name"       validate:"required,max=200"`
	NameAr    string `json:"name_ar"    validate:"max=200"`
	Tagline   string `json:"tagline"    validate:"max=300"`
	TaglineAr string `json:"tagline_ar" validate:"max=300"`
	About     string `json:"about"`
	AboutAr   string `json:"about_ar"`
	Email     string `json:"email"      validate:"omitempty,email"`
	Phone     string `json:"phone"      validate:"max=40"`
	WhatsApp  string `json:"whatsapp"   validate:"max=40"`
	Facebook  string `json:"facebook"   validate:"omitempty,url"`
	Instagram string `json:"instagram"  validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin"   validate:"omitempty,url"`
	Logo      string `json:"logo"       validate:"max=255"`
}

// HeadquarterInput creates or replaces an office.  Latitude and longitude
// travel as decimal strings ("30.0444") so no precision is lost.
type HeadquarterInput struct {
	Name      string `json:"name"       validate:"required,max=200"`
	NameAr    string `json:"name_ar"    validate:"max=200"`
	Address   string `json:"address"    validate:"required,max=500"`
	AddressAr string `json:"address_ar" validate:"max=500"`
	Phone     string `json:"phone"      validate:"max=40"`
	Email     string `json:"email"      validate:"omitempty,email"`
	MapURL    string `json:"map_url"    validate:"omitempty,url"`
	Latitude  string `json:"latitude"   validate:"omitempty,latitude"`
	Longitude string `json:"longitude"  validate:"omitempty,longitude"`
	IsPrimary bool   `json:"is_primary"`
	Position  int    `json:"position"`
}

// DocumentInput creates or replaces a downloadable document.  FilePath is
// the relative path returned by the upload endpoint.
type DocumentInput struct {
	Slug        string `json:"slug"         validate:"omitempty,slug"`
	Title       string `json:"title"        validate:"required,max=200"`
	TitleAr     string `json:"title_ar"     validate:"max=200"`
	FilePath    string `json:"file_path"    validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"max=120"`
	SizeBytes   int64  `json:"size_bytes"   validate:"gte=0"`
}
