package sitereport

import (
	"fmt"
	"strconv"
	"time"
)

// Site is one row of the network site table.
type Site struct {
	ID     int64  `db:"id"`
	Domain      string     `db:"domain"`
	Path        string     `db:"path"`
}

// Blog is one row of the network blogs table. Dates are kept as the
// strings the database returns; MySQL zero dates would not survive a
// time.Time scan.
type Blog struct {
	BlogID      int64      `db:"blog_id"`
	SiteID      int64      `db:"site_id"`
	Domain      string     `db:"domain"`
	Path        string     `db:"path"`
	Registered  StoredTime `db:"registered"`
	LastUpdated StoredTime `db:"last_updated"`
	Public      int        `db:"public"`
	Archived    int        `db:"archived"`
	Mature      int        `db:"mature"`
	Spam        int        `db:"spam"`
	Deleted     int        `db:"deleted"`
	LangID      int        `db:"lang_id"`
}

// StoredTimeLayout is how WordPress writes DATETIME columns.
const StoredTimeLayout = "2006-01-02 15:04:05"

// StoredTime is a date column as text. Drivers that decode dates
// themselves (sqlite on DATETIME columns) are formatted back with
// StoredTimeLayout; text values pass through untouched.
type StoredTime string

func (s *StoredTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = ""
	case string:
		*s = StoredTime(v)
	case []byte:
		*s = StoredTime(v)
	case time.Time:
		*s = StoredTime(v.Format(StoredTimeLayout))
	default:
		return fmt.Errorf("unsupported date value of type %T", src)
	}
	return nil
}

// URL is the blog's front-end address.
func (b Blog) URL() string {
	return SiteURL(b.Domain, b.Path)
}

// SiteURL joins domain and path the way the network stores them: path
// already carries its leading and trailing slash.
func SiteURL(domain, path string) string {
	return "http://" + domain + path
}

// Option keys read from each blog's options table.
const (
	OptionAdminEmail    = "admin_email"
	OptionActivePlugins = "active_plugins"
	OptionStylesheet    = "stylesheet"
	OptionTemplate      = "template"
)

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
