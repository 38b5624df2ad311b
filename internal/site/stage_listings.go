package site

import (
	"context"
	"log/slog"

	"github.com/fluxpress/theme-classic/internal/archive"
	"github.com/fluxpress/theme-classic/internal/classify"
	"github.com/fluxpress/theme-classic/internal/content"
	"github.com/fluxpress/theme-classic/internal/logfields"
	"github.com/fluxpress/theme-classic/internal/paginate"
	"github.com/fluxpress/theme-classic/internal/paths"
)

// listingJobs paginates posts into one job per page. An empty listing yields no jobs.
func (bs *BuildState) listingJobs(family paths.Family, entity, entityTitle, layout string, posts []content.Post, decorate func(*ListingPage)) []pageJob {
	pages := paginate.Paginate(posts, bs.Config.PerPage)
	jobs := make([]pageJob, 0, len(pages))
	for _, pg := range pages {
		data := newListingPage(family, entity, pg)
		if decorate != nil {
			decorate(&data)
		}
		jobs = append(jobs, pageJob{
			family: family,
			entity: entity,
			page:   pg.Index,
			layout: layout,
			title:  bs.title(family, entityTitle, pg.Index),
			data:   data,
		})
	}
	return jobs
}

// stageHome paginates every post onto the home listing.
func stageHome(ctx context.Context, bs *BuildState) error {
	return bs.renderPages(ctx, bs.listingJobs(paths.FamilyHome, "", "", LayoutHome, bs.Snapshot.Posts, nil))
}

// stageArchives writes the month-grouped archive page.
func stageArchives(ctx context.Context, bs *BuildState) error {
	buckets := archive.Buckets(archive.GroupByMonth(bs.Snapshot.Posts, bs.Config.Location()))
	slog.Debug("Archive grouped", logfields.BuildID(bs.ID), slog.Int("months", len(buckets)))
	return bs.renderPages(ctx, []pageJob{{
		family: paths.FamilyArchive,
		page:   1,
		layout: LayoutArchives,
		title:  bs.title(paths.FamilyArchive, "", 1),
		data:   newArchivePage(buckets),
	}})
}

// stageCategories writes the paginated page of every category with posts and
// the categories index. Categories without posts are dropped.
func stageCategories(ctx context.Context, bs *BuildState) error {
	res := classify.Categories(bs.Snapshot.Categories, bs.Snapshot.Posts)
	bs.Report.ActiveCategories = len(res.Active)

	var jobs []pageJob
	index := CategoriesPage{Categories: make([]Link, 0, len(res.Active))}
	for _, c := range res.Active {
		posts := res.PostsOf(string(c.ID))
		link := categoryLink(c, len(posts))
		index.Categories = append(index.Categories, link)
		jobs = append(jobs, bs.listingJobs(paths.FamilyCategoryPage, string(c.ID), c.Title, LayoutCategoryPage, posts,
			func(lp *ListingPage) { lp.Category = &link })...)
	}
	jobs = append(jobs, pageJob{
		family: paths.FamilyCategoryIndex,
		page:   1,
		layout: LayoutCategoryIndex,
		title:  bs.title(paths.FamilyCategoryIndex, "", 1),
		data:   index,
	})
	return bs.renderPages(ctx, jobs)
}

// stageTags mirrors stageCategories with multi-valued membership.
func stageTags(ctx context.Context, bs *BuildState) error {
	res := classify.Tags(bs.Snapshot.Tags, bs.Snapshot.Posts)
	bs.Report.ActiveTags = len(res.Active)

	var jobs []pageJob
	index := TagsPage{Tags: make([]Link, 0, len(res.Active))}
	for _, t := range res.Active {
		posts := res.PostsOf(string(t.ID))
		link := tagLink(t, len(posts))
		index.Tags = append(index.Tags, link)
		jobs = append(jobs, bs.listingJobs(paths.FamilyTagPage, string(t.ID), t.Title, LayoutTagPage, posts,
			func(lp *ListingPage) { lp.Tag = &link })...)
	}
	jobs = append(jobs, pageJob{
		family: paths.FamilyTagIndex,
		page:   1,
		layout: LayoutTagIndex,
		title:  bs.title(paths.FamilyTagIndex, "", 1),
		data:   index,
	})
	return bs.renderPages(ctx, jobs)
}

// stageSingles writes the about and not-found pages.
func stageSingles(ctx context.Context, bs *BuildState) error {
	return bs.renderPages(ctx, []pageJob{
		{
			family: paths.FamilyAbout,
			page:   1,
			layout: LayoutAbout,
			title:  bs.title(paths.FamilyAbout, "", 1),
			data:   AboutPage{Owner: bs.Owner, Site: bs.Config.Site},
		},
		{
			family: paths.FamilyNotFound,
			page:   1,
			layout: LayoutNotFound,
			title:  bs.title(paths.FamilyNotFound, "", 1),
			data:   NotFoundPage{Site: bs.Config.Site},
		},
	})
}
