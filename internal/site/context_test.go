package site

import (
	"errors"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/agrocms/internal/cache"
	"github.com/yanizio/agrocms/internal/content"
	"github.com/yanizio/agrocms/internal/database"
	"github.com/yanizio/agrocms/internal/i18n"
)

func TestContext_Language(t *testing.T) {
	f := NewFactory(nil, nil, "Agro", "https://agro.example")

	r := httptest.NewRequest("GET", "/products?category=seeds&lang=en&utm_source=mail", nil)
	r = r.WithContext(i18n.WithLang(r.Context(), i18n.Arabic))
	c := f.New(r, "category")

	assert.True(t, c.IsArabic())
	assert.Equal(t, "rtl", c.Dir())
	assert.Equal(t, "بذور", c.Pick("Seeds", "بذور"))
	assert.Equal(t, "Seeds", c.Pick("Seeds", ""))
	assert.Equal(t, "/products?category=seeds&lang=en", c.LangSwitchURL())
	assert.Equal(t, "/products", c.Path)
	assert.True(t, strings.Contains(string(c.Head.Links()), `hreflang="x-default"`))
	assert.False(t, strings.Contains(string(c.Head.Links()), "utm_source"))
	assert.Equal(t, "seeds", c.Query.Get("category"))
	assert.Empty(t, c.Query.Get("utm_source"))
}

func TestContext_NilContentDegrades(t *testing.T) {
	c := NewFactory(nil, nil, "Agro", "").New(httptest.NewRequest("GET", "/", nil))

	assert.Nil(t, c.Company())
	assert.Nil(t, c.NavPages())
	assert.False(t, c.IsArabic())
	assert.Equal(t, "/assets/css/site.css", c.Asset("css/site.css"))

	assert.False(t, c.Uncacheable())
	c.MarkUncacheable()
	assert.True(t, c.Uncacheable())
}

func TestContext_FailedLayoutLookupIsUncacheable(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	svc := content.NewService(database.NewPoolFromDB(sqlx.NewDb(raw, "mysql")), cache.New())
	f := NewFactory(svc, nil, "Agro", "")

	mock.ExpectQuery(regexp.QuoteMeta(`FROM company_data`)).WillReturnError(errors.New("timeout"))
	c := f.New(httptest.NewRequest("GET", "/", nil))
	assert.Nil(t, c.Company())
	assert.True(t, c.Uncacheable())

	mock.ExpectQuery(regexp.QuoteMeta(`FROM page`)).WillReturnError(errors.New("timeout"))
	c = f.New(httptest.NewRequest("GET", "/", nil))
	assert.Nil(t, c.NavPages())
	assert.True(t, c.Uncacheable())

	// An empty footer is a valid result, not a failure.
	mock.ExpectQuery(regexp.QuoteMeta(`FROM page`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "title", "title_ar", "body",
			"body_ar", "published", "created_at", "updated_at"}))
	c = f.New(httptest.NewRequest("GET", "/", nil))
	assert.Empty(t, c.NavPages())
	assert.False(t, c.Uncacheable())
	assert.NoError(t, mock.ExpectationsWereMet())
}
