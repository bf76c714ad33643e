package database

import (
	"fmt"
	"regexp"
	"strconv"
)

// TableKind names a WordPress table family.
type TableKind string

const (
	// Network-wide tables.
	TableSite  TableKind = "site"
	TableBlogs TableKind = "blogs"

	// Per-blog tables. These carry the blog id in their name.
	TablePosts   TableKind = "posts"
	TableOptions TableKind = "options"
)

// DefaultTablePrefix is the prefix WordPress installs with.
const DefaultTablePrefix = "wp_"

// mainBlogID is the blog whose tables are unnumbered in stock multisite.
const mainBlogID = 1

var tablePrefixPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidTablePrefix reports whether prefix is safe to splice into a table name.
func ValidTablePrefix(prefix string) bool {
	return tablePrefixPattern.MatchString(prefix)
}

// Tables maps table kinds to quoted table names. It is the only place
// table names are built; identifiers never come from user input other
// than the validated prefix.
type Tables struct {
	prefix         string
	mainUnnumbered bool
}

// NewTables returns a Tables for prefix. When mainUnnumbered is set,
// blog 1 resolves to the unnumbered tables (wp_options rather than
// wp_1_options).
func NewTables(prefix string, mainUnnumbered bool) (Tables, error) {
	if !ValidTablePrefix(prefix) {
		return Tables{}, fmt.Errorf("invalid table prefix %q", prefix)
	}
	return Tables{prefix: prefix, mainUnnumbered: mainUnnumbered}, nil
}

// Prefix returns the configured table prefix.
func (t Tables) Prefix() string {
	return t.prefix
}

// Network returns the quoted name of a network-wide table such as wp_site.
func (t Tables) Network(kind TableKind) string {
	return quoteIdent(t.prefix + string(kind))
}

// TableName returns the quoted name of a blog-scoped table, e.g.
// `wp_12_options` for (TableOptions, 12).
func (t Tables) TableName(kind TableKind, blogID int64) string {
	if t.mainUnnumbered && blogID == mainBlogID {
		return t.Network(kind)
	}
	return quoteIdent(t.prefix + strconv.FormatInt(blogID, 10) + "_" + string(kind))
}

func quoteIdent(name string) string {
	return "`" + name + "`"
}
