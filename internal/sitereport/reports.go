// Package sitereport builds the network reports: sites, blogs, active
// plugins, and active themes. Each report reads everything it needs
// first and hands the finished table to the sink in a single call, so a
// failure part way through never produces partial output.
package sitereport

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"sitereport/internal/output"
)

// Report headers, in column order.
var (
	SitesHeader = []string{"id", "domain", "path"}

	BlogsHeader = []string{
		"blog_id",
		"site_id",
		"domain",
		"path",
		"registered",
		"last_updated",
		"public",
		"archived",
		"mature",
		"spam",
		"deleted",
		"lang_id",
		"calc_post_count",
		"admin_email",
	}

	PluginsHeader = []string{"site_id", "blog_id", "plugin_name", "url"}

	ThemesHeader = []string{"site_id", "blog_id", "theme_name", "template_name", "url"}
)

// Reporter runs the reports against a Repository and renders them to a Sink.
type Reporter struct {
	repo Repository
	sink output.Sink
	log  *zap.SugaredLogger
}

// NewReporter returns a Reporter. A nil logger discards log output.
func NewReporter(repo Repository, sink output.Sink, log *zap.SugaredLogger) *Reporter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Reporter{repo: repo, sink: sink, log: log}
}

// ListSites renders one row per site.
func (r *Reporter) ListSites(ctx context.Context) error {
	sites, err := r.sites(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(sites))
	for _, site := range sites {
		rows = append(rows, []string{itoa(site.ID), site.Domain, site.Path})
	}
	return r.render(SitesHeader, rows)
}

// ListBlogs renders every blog of every site with its published post and
// page count and admin email.
func (r *Reporter) ListBlogs(ctx context.Context) error {
	sites, err := r.sites(ctx)
	if err != nil {
		return err
	}

	var rows [][]string
	for _, site := range sites {
		blogs, err := r.repo.ListBlogs(ctx, &site.ID)
		if err != nil {
			return err
		}
		r.log.Debugw("scanning blogs", "site_id", site.ID, "blogs", len(blogs))

		for _, blog := range blogs {
			count, err := r.repo.PublishedPostCount(ctx, blog.BlogID)
			if err != nil {
				return err
			}
			email, err := r.repo.OptionValue(ctx, blog.BlogID, OptionAdminEmail)
			if err != nil {
				return err
			}
			rows = append(rows, blogRow(blog, count, email))
		}
	}
	return r.render(BlogsHeader, rows)
}

// ListActivePlugins renders one row per active plugin per blog. Blogs
// without active plugins contribute no rows.
func (r *Reporter) ListActivePlugins(ctx context.Context) error {
	sites, err := r.sites(ctx)
	if err != nil {
		return err
	}

	var rows [][]string
	for _, site := range sites {
		blogs, err := r.repo.ListBlogs(ctx, &site.ID)
		if err != nil {
			return err
		}

		for _, blog := range blogs {
			plugins, err := r.repo.ActivePlugins(ctx, blog.BlogID)
			if err != nil {
				return err
			}
			if len(plugins) == 0 {
				r.log.Debugw("no active plugins", "blog_id", blog.BlogID)
				continue
			}

			url := blog.URL()
			for _, plugin := range plugins {
				rows = append(rows, []string{
					itoa(blog.SiteID),
					itoa(blog.BlogID),
					PluginSlug(plugin),
					url,
				})
			}
		}
	}
	return r.render(PluginsHeader, rows)
}

// ListActiveThemes renders the stylesheet and template of every blog in
// the network.
func (r *Reporter) ListActiveThemes(ctx context.Context) error {
	blogs, err := r.repo.ListBlogs(ctx, nil)
	if err != nil {
		return err
	}
	if len(blogs) == 0 {
		return ErrNoBlogs
	}

	rows := make([][]string, 0, len(blogs))
	for _, blog := range blogs {
		theme, err := r.repo.OptionValue(ctx, blog.BlogID, OptionStylesheet)
		if err != nil {
			return err
		}
		template, err := r.repo.OptionValue(ctx, blog.BlogID, OptionTemplate)
		if err != nil {
			return err
		}
		rows = append(rows, []string{
			itoa(blog.SiteID),
			itoa(blog.BlogID),
			theme,
			template,
			blog.URL(),
		})
	}
	return r.render(ThemesHeader, rows)
}

func (r *Reporter) sites(ctx context.Context) ([]Site, error) {
	sites, err := r.repo.ListSites(ctx)
	if err != nil {
		return nil, err
	}
	if len(sites) == 0 {
		return nil, ErrNoSites
	}
	r.log.Debugw("loaded sites", "count", len(sites))
	return sites, nil
}

func (r *Reporter) render(header []string, rows [][]string) error {
	r.log.Debugw("rendering report", "columns", len(header), "rows", len(rows))
	if err := r.sink.Render(header, rows); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func blogRow(b Blog, postCount int64, adminEmail string) []string {
	return []string{
		itoa(b.BlogID),
		itoa(b.SiteID),
		b.Domain,
		b.Path,
		string(b.Registered),
		string(b.LastUpdated),
		strconv.Itoa(b.Public),
		strconv.Itoa(b.Archived),
		strconv.Itoa(b.Mature),
		strconv.Itoa(b.Spam),
		strconv.Itoa(b.Deleted),
		strconv.Itoa(b.LangID),
		itoa(postCount),
		adminEmail,
	}
}
