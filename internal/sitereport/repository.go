package sitereport

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sitereport/internal/database"
)

// Repository is the read-only view of a multisite network the reports
// are built from.
type Repository interface {
	ListSites(ctx context.Context) ([]Site, error)
	// ListBlogs returns the blogs of one site, or of the whole network
	// when siteID is nil.
	ListBlogs(ctx context.Context, siteID *int64) ([]Blog, error)
	// ActivePlugins returns the blog's active plugin files. A blog with no
	// active_plugins row has no plugins.
	ActivePlugins(ctx context.Context, blogID int64) ([]string, error)
	// OptionValue returns a required option, or *MissingOptionError.
	OptionValue(ctx context.Context, blogID int64, name string) (string, error)
	// PublishedPostCount counts published posts and pages.
	PublishedPostCount(ctx context.Context, blogID int64) (int64, error)
}

const blogColumns = "blog_id, site_id, domain, path, registered, last_updated, " +
	"public, archived, mature, spam, deleted, lang_id"

// SQLRepository reads the network tables through sqlx.
type SQLRepository struct {
	db      database.Querier
	tables  database.Tables
	decoder PluginListDecoder
}

// NewSQLRepository wraps db in the read-only guard. A nil decoder selects
// PHPSerializedDecoder.
func NewSQLRepository(db database.Querier, tables database.Tables, decoder PluginListDecoder) *SQLRepository {
	if decoder == nil {
		decoder = PHPSerializedDecoder{}
	}
	return &SQLRepository{
		db:      database.NewReadOnly(db),
		tables:  tables,
		decoder: decoder,
	}
}

func (r *SQLRepository) ListSites(ctx context.Context) ([]Site, error) {
	q := "SELECT id, domain, path FROM " + r.tables.Network(database.TableSite)

	var sites []Site
	if err := r.db.SelectContext(ctx, &sites, q); err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	return sites, nil
}

func (r *SQLRepository) ListBlogs(ctx context.Context, siteID *int64) ([]Blog, error) {
	q := "SELECT " + blogColumns + " FROM " + r.tables.Network(database.TableBlogs)
	var args []interface{}
	if siteID != nil {
		q += " WHERE site_id = ?"
		args = append(args, *siteID)
	}

	var blogs []Blog
	if err := r.db.SelectContext(ctx, &blogs, q, args...); err != nil {
		if siteID != nil {
			return nil, fmt.Errorf("failed to list blogs for site %d: %w", *siteID, err)
		}
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	return blogs, nil
}

func (r *SQLRepository) ActivePlugins(ctx context.Context, blogID int64) ([]string, error) {
	raw, err := r.option(ctx, blogID, OptionActivePlugins)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	plugins, err := r.decoder.Decode([]byte(raw))
	if err != nil {
		return nil, &DecodeError{BlogID: blogID, Err: err}
	}
	return plugins, nil
}

func (r *SQLRepository) OptionValue(ctx context.Context, blogID int64, name string) (string, error) {
	value, err := r.option(ctx, blogID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &MissingOptionError{BlogID: blogID, Option: name}
	}
	return value, err
}

func (r *SQLRepository) PublishedPostCount(ctx context.Context, blogID int64) (int64, error) {
	q := "SELECT COUNT(*) FROM " + r.tables.TableName(database.TablePosts, blogID) +
		" WHERE post_type IN (?, ?) AND post_status = ?"

	var count int64
	if err := r.db.GetContext(ctx, &count, q, "post", "page", "publish"); err != nil {
		return 0, fmt.Errorf("failed to count posts for blog %d: %w", blogID, err)
	}
	return count, nil
}

// option returns sql.ErrNoRows unwrapped so callers can pick their policy.
func (r *SQLRepository) option(ctx context.Context, blogID int64, name string) (string, error) {
	q := "SELECT option_value FROM " + r.tables.TableName(database.TableOptions, blogID) +
		" WHERE option_name = ? LIMIT 1"

	var value string
	err := r.db.GetContext(ctx, &value, q, name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("failed to read option %q for blog %d: %w", name, blogID, err)
	}
	return value, nil
}
