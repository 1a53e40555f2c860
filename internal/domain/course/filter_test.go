package course

import (
	"net/url"
	"testing"

	"github.com/google/uuid"
)

func TestSanitizeDefaults(t *testing.T) {
	filter, sort, pagination := Sanitize(url.Values{})

	if filter.Search != nil || filter.CategoryID != nil || filter.Platform != nil ||
		filter.Level != nil || filter.HaveCert != nil || len(filter.TagIDs) != 0 ||
		filter.CourseType != nil || filter.MinPrice != nil || filter.MaxPrice != nil {
		t.Errorf("expected empty filter, got %+v", filter)
	}
	if sort != DefaultSort {
		t.Errorf("expected default sort, got %+v", sort)
	}
	if pagination.Page != 1 || pagination.PerPage != DefaultPerPage {
		t.Errorf("expected page 1 per_page %d, got %+v", DefaultPerPage, pagination)
	}
}

func TestSanitizeDropsMalformedValues(t *testing.T) {
	query := url.Values{
		"category_id": {"not-a-uuid"},
		"level":       {"expert"},
		"have_cert":   {"maybe"},
		"tags":        {"also-not-a-uuid"},
		"course_type": {"freemium"},
		"min_price":   {"abc"},
		"max_price":   {"-5"},
		"page":        {"0"},
		"per_page":    {"9999"},
		"sort":        {"password_hash"},
	}

	filter, sort, pagination := Sanitize(query)

	if filter.CategoryID != nil {
		t.Error("malformed category_id should be dropped")
	}
	if filter.Level != nil {
		t.Error("unknown level should be dropped")
	}
	if filter.HaveCert != nil {
		t.Error("non-boolean have_cert should be dropped")
	}
	if len(filter.TagIDs) != 0 {
		t.Error("malformed tags should be dropped")
	}
	if filter.CourseType != nil {
		t.Error("unknown course_type should be dropped")
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		t.Error("non-numeric or negative prices should be dropped")
	}
	if sort != DefaultSort {
		t.Errorf("unknown sort field should fall back to default, got %+v", sort)
	}
	if pagination.Page != 1 || pagination.PerPage != DefaultPerPage {
		t.Errorf("out-of-range pagination should fall back to defaults, got %+v", pagination)
	}
}

func TestSanitizeAcceptsWellFormedValues(t *testing.T) {
	categoryID := uuid.New()
	tagA := uuid.New()
	tagB := uuid.New()
	tagC := uuid.New()

	query := url.Values{
		"search":      {"  sql basics  "},
		"category_id": {categoryID.String()},
		"platform":    {"Coursera"},
		"level":       {"intermediate"},
		"have_cert":   {"true"},
		"tags":        {tagA.String() + "," + tagB.String(), tagC.String()},
		"course_type": {"paid"},
		"min_price":   {"10"},
		"max_price":   {"49.99"},
		"page":        {"3"},
		"per_page":    {"24"},
	}

	filter, _, pagination := Sanitize(query)

	if filter.Search == nil || *filter.Search != "sql basics" {
		t.Errorf("expected trimmed search term, got %v", filter.Search)
	}
	if filter.CategoryID == nil || *filter.CategoryID != categoryID {
		t.Errorf("expected category %s, got %v", categoryID, filter.CategoryID)
	}
	if filter.Platform == nil || *filter.Platform != "Coursera" {
		t.Errorf("expected platform Coursera, got %v", filter.Platform)
	}
	if filter.Level == nil || *filter.Level != LevelIntermediate {
		t.Errorf("expected intermediate level, got %v", filter.Level)
	}
	if filter.HaveCert == nil || !*filter.HaveCert {
		t.Errorf("expected have_cert true, got %v", filter.HaveCert)
	}
	if len(filter.TagIDs) != 3 {
		t.Fatalf("expected 3 tag ids from comma list plus repeat, got %d", len(filter.TagIDs))
	}
	if filter.TagIDs[0] != tagA || filter.TagIDs[1] != tagB || filter.TagIDs[2] != tagC {
		t.Errorf("tag ids out of order: %v", filter.TagIDs)
	}
	if filter.CourseType == nil || *filter.CourseType != TypePaid {
		t.Errorf("expected paid course_type, got %v", filter.CourseType)
	}
	if filter.MinPrice == nil || *filter.MinPrice != 10 {
		t.Errorf("expected min_price 10, got %v", filter.MinPrice)
	}
	if filter.MaxPrice == nil || *filter.MaxPrice != 49.99 {
		t.Errorf("expected max_price 49.99, got %v", filter.MaxPrice)
	}
	if pagination.Page != 3 || pagination.PerPage != 24 {
		t.Errorf("expected page 3 per_page 24, got %+v", pagination)
	}
}

func TestSanitizeSortDirections(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  Sort
	}{
		{"no sort", url.Values{}, DefaultSort},
		{"title defaults asc", url.Values{"sort": {"title"}}, Sort{Field: SortTitle, Desc: false}},
		{"title desc", url.Values{"sort": {"title"}, "order": {"desc"}}, Sort{Field: SortTitle, Desc: true}},
		{"created_at defaults desc", url.Values{"sort": {"created_at"}}, Sort{Field: SortCreatedAt, Desc: true}},
		{"created_at asc", url.Values{"sort": {"created_at"}, "order": {"asc"}}, Sort{Field: SortCreatedAt, Desc: false}},
		{"price asc", url.Values{"sort": {"price"}}, Sort{Field: SortPrice, Desc: false}},
		{"garbage order treated as default", url.Values{"sort": {"price"}, "order": {"sideways"}}, Sort{Field: SortPrice, Desc: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sort, _ := Sanitize(tt.query)
			if sort != tt.want {
				t.Errorf("got %+v, want %+v", sort, tt.want)
			}
		})
	}
}
