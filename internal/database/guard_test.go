package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func TestEnsureReadOnly(t *testing.T) {
	allowed := []string{
		"SELECT id, domain, path FROM `wp_site`",
		"SELECT option_value FROM `wp_2_options` WHERE option_name = ? LIMIT 1",
		"SELECT COUNT(*) FROM `wp_2_posts` WHERE post_type IN (?, ?) AND post_status = ?",
		"SELECT blog_id FROM wp_blogs UNION SELECT id FROM wp_site",
	}
	for _, q := range allowed {
		if err := EnsureReadOnly(q); err != nil {
			t.Errorf("EnsureReadOnly(%q) = %v, expected nil", q, err)
		}
	}

	rejected := []string{
		"DELETE FROM `wp_site`",
		"UPDATE wp_2_options SET option_value = 'x' WHERE option_name = 'template'",
		"INSERT INTO wp_options VALUES (1,'blogname','Test','yes')",
		"DROP TABLE wp_blogs",
	}
	for _, q := range rejected {
		err := EnsureReadOnly(q)
		if !errors.Is(err, ErrNotReadOnly) {
			t.Errorf("EnsureReadOnly(%q) = %v, expected ErrNotReadOnly", q, err)
		}
	}
}

func TestEnsureReadOnly_ParseError(t *testing.T) {
	err := EnsureReadOnly("SELEC nonsense FROM")
	if err == nil {
		t.Fatal("Expected parse error")
	}
	if errors.Is(err, ErrNotReadOnly) {
		t.Errorf("Parse failure should not be reported as ErrNotReadOnly: %v", err)
	}
}

func TestReadOnly_BlocksBeforeReachingDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	ro := NewReadOnly(sqlx.NewDb(db, "sqlmock"))

	var out []string
	err = ro.SelectContext(context.Background(), &out, "DELETE FROM wp_site")
	if !errors.Is(err, ErrNotReadOnly) {
		t.Fatalf("Expected ErrNotReadOnly, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestReadOnly_PassesSelect(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	q := "SELECT option_value FROM `wp_2_options` WHERE option_name = ? LIMIT 1"
	mock.ExpectQuery(regexp.QuoteMeta(q)).
		WithArgs("admin_email").
		WillReturnRows(sqlmock.NewRows([]string{"option_value"}).AddRow("admin@example.com"))

	ro := NewReadOnly(sqlx.NewDb(db, "sqlmock"))

	var email string
	if err := ro.GetContext(context.Background(), &email, q, "admin_email"); err != nil {
		t.Fatalf("GetContext: %v", err)
	}
	if email != "admin@example.com" {
		t.Errorf("Expected admin@example.com, got %q", email)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
