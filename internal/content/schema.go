// internal/content/schema.go
//
// MySQL / MariaDB schema for every content table, applied by
// `agroctl migrate` through database.Migrate.
//
// Notes
// -----
// • Slugs carry a UNIQUE index; the service pre-check only produces the
//   friendly error, the index closes the race.
// • category.parent_id and product.category_id are ON DELETE RESTRICT so a
//   category with children can never be removed underneath them.
// • product_section and job_application cascade with their parent.
// • DSNs must carry parseTime=true so DATETIME scans into time.Time.

package content

import "github.com/yanizio/agrocms/internal/database"

const tableOpts = ` ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`

const stamps = `
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP`

// Migrations returns the ordered schema history.  Append, never edit.
func Migrations() []database.Migration {
	return []database.Migration{
		{Version: 1, Name: "admin", Statements: []string{
			`CREATE TABLE IF NOT EXISTS admin (
    id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
    email         VARCHAR(254) NOT NULL,
    name          VARCHAR(200) NOT NULL,
    password_hash VARCHAR(100) NOT NULL,
    role          ENUM('admin','editor') NOT NULL DEFAULT 'editor',
    last_login_at DATETIME NULL,` + stamps + `,
    UNIQUE KEY uq_admin_email (email)
)` + tableOpts,
		}},
		{Version: 2, Name: "catalog", Statements: []string{
			`CREATE TABLE IF NOT EXISTS category (
    id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
    parent_id      BIGINT UNSIGNED NULL,
    slug           VARCHAR(100) NOT NULL,
    name           VARCHAR(200) NOT NULL,
    name_ar        VARCHAR(200) NOT NULL DEFAULT '',
    description    TEXT NOT NULL,
    description_ar TEXT NOT NULL,
    image          VARCHAR(255) NOT NULL DEFAULT '',
    position       INT NOT NULL DEFAULT 0,
    published      TINYINT(1) NOT NULL DEFAULT 0,` + stamps + `,
    UNIQUE KEY uq_category_slug (slug),
    KEY ix_category_parent (parent_id, position),
    CONSTRAINT fk_category_parent FOREIGN KEY (parent_id)
        REFERENCES category (id) ON DELETE RESTRICT
)` + tableOpts,
			`CREATE TABLE IF NOT EXISTS product (
    id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
    category_id    BIGINT UNSIGNED NOT NULL,
    slug           VARCHAR(100) NOT NULL,
    name           VARCHAR(200) NOT NULL,
    name_ar        VARCHAR(200) NOT NULL DEFAULT '',
    summary        VARCHAR(500) NOT NULL DEFAULT '',
    summary_ar     VARCHAR(500) NOT NULL DEFAULT '',
    description    MEDIUMTEXT NOT NULL,
    description_ar MEDIUMTEXT NOT NULL,
    image          VARCHAR(255) NOT NULL DEFAULT '',
    composition    JSON NOT NULL,
    usage_info     JSON NOT NULL,
    position       INT NOT NULL DEFAULT 0,
    published      TINYINT(1) NOT NULL DEFAULT 0,` + stamps + `,
    UNIQUE KEY uq_product_slug (slug),
    KEY ix_product_category (category_id, position),
    CONSTRAINT fk_product_category FOREIGN KEY (category_id)
        REFERENCES category (id) ON DELETE RESTRICT
)` + tableOpts,
			`CREATE TABLE IF NOT EXISTS product_section (
    id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
    product_id BIGINT UNSIGNED NOT NULL,
    position   INT NOT NULL DEFAULT 0,
    title      VARCHAR(200) NOT NULL,
    title_ar   VARCHAR(200) NOT NULL DEFAULT '',
    body       MEDIUMTEXT NOT NULL,
    body_ar    MEDIUMTEXT NOT NULL,
    KEY ix_section_product (product_id, position),
    CONSTRAINT fk_section_product FOREIGN KEY (product_id)
        REFERENCES product (id) ON DELETE CASCADE
)` + tableOpts,
		}},
		{Version: 3, Name: "editorial", Statements: []string{
			`CREATE TABLE IF NOT EXISTS blog_post (
    id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
    slug         VARCHAR(100) NOT NULL,
    title        VARCHAR(200) NOT NULL,
    title_ar     VARCHAR(200) NOT NULL DEFAULT '',
    excerpt      VARCHAR(500) NOT NULL DEFAULT '',
    excerpt_ar   VARCHAR(500) NOT NULL DEFAULT '',
    body         MEDIUMTEXT NOT NULL,
    body_ar      MEDIUMTEXT NOT NULL,
    cover_image  VARCHAR(255) NOT NULL DEFAULT '',
    published    TINYINT(1) NOT NULL DEFAULT 0,
    published_at DATETIME NULL,` + stamps + `,
    UNIQUE KEY uq_blog_slug (slug),
    KEY ix_blog_published (published, published_at)
)` + tableOpts,
			`CREATE TABLE IF NOT EXISTS page (
    id        BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
    slug      VARCHAR(100) NOT NULL,
    title     VARCHAR(200) NOT NULL,
    title_ar  VARCHAR(200) NOT NULL DEFAULT '',
    body      MEDIUMTEXT NOT NULL,
    body_ar   MEDIUMTEXT NOT NULL,
    published TINYINT(1) NOT NULL DEFAULT 0,` + stamps + `,
    UNIQUE KEY uq_page_slug (slug)
)` + tableOpts,
		}},
		{Version: 4, Name: "careers", Statements: []string{
			`CREATE TABLE IF NOT EXISTS job_offer (
    id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
    slug            VARCHAR(100) NOT NULL,
    title           VARCHAR(200) NOT NULL,
    title_ar        VARCHAR(200) NOT NULL DEFAULT '',
    location        VARCHAR(200) NOT NULL DEFAULT '',
    location_ar     VARCHAR(200) NOT NULL DEFAULT '',
    employment_type VARCHAR(32) NOT NULL DEFAULT '',
    description     MEDIUMTEXT NOT NULL,
    description_ar  MEDIUMTEXT NOT NULL,
    published       TINYINT(1) NOT NULL DEFAULT 0,
    closes_at       DATETIME NULL,` + stamps + `,
    UNIQUE KEY uq_job_slug (slug)
)` + tableOpts,
			`CREATE TABLE IF NOT EXISTS job_application (
    id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
    job_offer_id BIGINT UNSIGNED NOT NULL,
    full_name    VARCHAR(200) NOT NULL,
    email        VARCHAR(254) NOT NULL,
    phone        VARCHAR(40) NOT NULL,
    cover_letter TEXT NOT NULL,
    cv_path      VARCHAR(255) NOT NULL DEFAULT '',
    status       ENUM('new','reviewed','shortlisted','rejected','hired')
                 NOT NULL DEFAULT 'new',` + stamps + `,
    KEY ix_application_job (job_offer_id, status),
    CONSTRAINT fk_application_job FOREIGN KEY (job_offer_id)
        REFERENCES job_offer (id) ON DELETE CASCADE
)` + tableOpts,
		}},
		{Version: 5, Name: "contact", Statements: []string{
			`CREATE TABLE IF NOT EXISTS contact_submission (
    id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
    name       VARCHAR(200) NOT NULL,
    email      VARCHAR(254) NOT NULL,
    phone      VARCHAR(40) NOT NULL DEFAULT '',
    company    VARCHAR(200) NOT NULL DEFAULT '',
    subject    VARCHAR(200) NOT NULL,
    message    TEXT NOT NULL,
    is_read    TINYINT(1) NOT NULL DEFAULT 0,
    ip         VARCHAR(45) NOT NULL DEFAULT '',
    country    CHAR(2) NOT NULL DEFAULT '',
    user_agent VARCHAR(255) NOT NULL DEFAULT '',` + stamps + `,
    KEY ix_contact_read (is_read, created_at)
)` + tableOpts,
		}},
		{Version: 6, Name: "company", Statements: []string{
			`CREATE TABLE IF NOT EXISTS certificate (
    id       BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
    title    VARCHAR(200) NOT NULL,
    title_ar VARCHAR(200) NOT NULL DEFAULT '',
    issuer   VARCHAR(200) NOT NULL DEFAULT '',
    image    VARCHAR(255) NOT NULL,
    position INT NOT NULL DEFAULT 0,` + stamps + `
)` + tableOpts,
			`CREATE TABLE IF NOT EXISTS award (
    id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
    title          VARCHAR(200) NOT NULL,
    title_ar       VARCHAR(200) NOT NULL DEFAULT '',
    description    TEXT NOT NULL,
    description_ar TEXT NOT NULL,
    year           SMALLINT NOT NULL DEFAULT 0,
    image          VARCHAR(255) NOT NULL DEFAULT '',
    position       INT NOT NULL DEFAULT 0,` + stamps + `
)` + tableOpts,
			`CREATE TABLE IF NOT EXISTS company_data (
    id         TINYINT UNSIGNED NOT NULL PRIMARY KEY,
    name       VARCHAR(200) NOT NULL,
    name_ar    VARCHAR(200) NOT NULL DEFAULT '',
    tagline    VARCHAR(300) NOT NULL DEFAULT '',
    tagline_ar VARCHAR(300) NOT NULL DEFAULT '',
    about      TEXT NOT NULL,
    about_ar   TEXT NOT NULL,
    email      VARCHAR(254) NOT NULL DEFAULT '',
    phone      VARCHAR(40) NOT NULL DEFAULT '',
    whatsapp   VARCHAR(40) NOT NULL DEFAULT '',
    facebook   VARCHAR(255) NOT NULL DEFAULT '',
    instagram  VARCHAR(255) NOT NULL DEFAULT '',
    linkedin   VARCHAR(255) NOT NULL DEFAULT '',
    logo       VARCHAR(255) NOT NULL DEFAULT '',
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    CONSTRAINT ck_company_singleton CHECK (id = 1)
)` + tableOpts,
			`CREATE TABLE IF NOT EXISTS headquarter (
    id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
    name       VARCHAR(200) NOT NULL,
    name_ar    VARCHAR(200) NOT NULL DEFAULT '',
    address    VARCHAR(500) NOT NULL,
    address_ar VARCHAR(500) NOT NULL DEFAULT '',
    phone      VARCHAR(40) NOT NULL DEFAULT '',
    email      VARCHAR(254) NOT NULL DEFAULT '',
    map_url    VARCHAR(500) NOT NULL DEFAULT '',
    latitude   DECIMAL(9,6) NOT NULL DEFAULT 0,
    longitude  DECIMAL(9,6) NOT NULL DEFAULT 0,
    is_primary TINYINT(1) NOT NULL DEFAULT 0,
    position   INT NOT NULL DEFAULT 0,` + stamps + `
)` + tableOpts,
		}},
		{Version: 7, Name: "documents", Statements: []string{
			`CREATE TABLE IF NOT EXISTS document (
    id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
    slug         VARCHAR(100) NOT NULL,
    title        VARCHAR(200) NOT NULL,
    title_ar     VARCHAR(200) NOT NULL DEFAULT '',
    file_path    VARCHAR(255) NOT NULL,
    content_type VARCHAR(120) NOT NULL DEFAULT '',
    size_bytes   BIGINT NOT NULL DEFAULT 0,
    downloads    BIGINT UNSIGNED NOT NULL DEFAULT 0,` + stamps + `,
    UNIQUE KEY uq_document_slug (slug)
)` + tableOpts,
		}},
		{Version: 8, Name: "route_alias", Statements: []string{
			`CREATE TABLE IF NOT EXISTS route_alias (
    alias_path  VARCHAR(255) NOT NULL PRIMARY KEY,
    target_path VARCHAR(255) NOT NULL
)` + tableOpts,
		}},
	}
}
