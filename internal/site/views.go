package site

import (
	"html/template"
	"time"

	"github.com/fluxpress/theme-classic/internal/archive"
	"github.com/fluxpress/theme-classic/internal/config"
	"github.com/fluxpress/theme-classic/internal/content"
	"github.com/fluxpress/theme-classic/internal/paginate"
	"github.com/fluxpress/theme-classic/internal/paths"
)

// Link points at a category or tag page.
type Link struct {
	ID          string
	Title       string
	URL         string
	Description string
	Color       string
	Count       int
}

// PostSummary is a post as it appears in listings.
type PostSummary struct {
	ID           string
	Number       int
	Title        string
	URL          string
	CreatedAt    time.Time
	Category     *Link
	Tags         []Link
	CommentCount int
}

// CommentView is a comment with its body rendered.
type CommentView struct {
	Avatar   string
	Username string
	Content  template.HTML
}

// PostPage is the data of posts/index.html.
type PostPage struct {
	PostSummary
	Content  template.HTML
	Comments []CommentView
}

// PageLink is one entry of a pager.
type PageLink struct {
	Index   int
	URL     string
	Current bool
}

// Pager links the pages of a listing.
type Pager struct {
	Current int
	Count   int
	PrevURL string
	NextURL string
	Pages   []PageLink
}

// ListingPage is the data of page/index.html, categories/page.html and tags/page.html.
type ListingPage struct {
	Posts       []PostSummary
	PageCount   int
	CurrentPage int
	// URLPath is the root of the listing; page k > 1 lives under URLPath + "page/k/".
	URLPath  string
	Pager    Pager
	Category *Link
	Tag      *Link
}

// BucketView is one month of the archive.
type BucketView struct {
	Month string
	Posts []PostSummary
}

// ArchivePage is the data of archives/index.html.
type ArchivePage struct {
	Buckets []BucketView
	Total   int
}

// CategoriesPage is the data of categories/index.html.
type CategoriesPage struct {
	Categories []Link
}

// TagsPage is the data of tags/index.html.
type TagsPage struct {
	Tags []Link
}

// AboutPage is the data of about/index.html.
type AboutPage struct {
	Owner *content.Owner
	Site  config.Site
}

// NotFoundPage is the data of 404.html.
type NotFoundPage struct {
	Site config.Site
}

func summarize(p content.Post) PostSummary {
	s := PostSummary{
		ID:           string(p.ID),
		Number:       p.Number,
		Title:        p.Title,
		URL:          paths.Derive(paths.FamilyPost, string(p.ID), 1).URL,
		CreatedAt:    p.CreatedAt,
		CommentCount: len(p.Comments),
	}
	if p.Category != nil {
		s.Category = &Link{
			ID:    string(p.Category.ID),
			Title: p.Category.Title,
			URL:   paths.Root(paths.FamilyCategoryPage, string(p.Category.ID)),
		}
	}
	for _, t := range p.Tags {
		s.Tags = append(s.Tags, Link{ID: string(t.ID), Title: t.Title, URL: paths.Root(paths.FamilyTagPage, string(t.ID))})
	}
	return s
}

func summarizeAll(posts []content.Post) []PostSummary {
	out := make([]PostSummary, len(posts))
	for i, p := range posts {
		out[i] = summarize(p)
	}
	return out
}

func categoryLink(c content.Category, count int) Link {
	return Link{
		ID:          string(c.ID),
		Title:       c.Title,
		URL:         paths.Root(paths.FamilyCategoryPage, string(c.ID)),
		Description: c.Description,
		Count:       count,
	}
}

func tagLink(t content.Tag, count int) Link {
	return Link{
		ID:          string(t.ID),
		Title:       t.Title,
		URL:         paths.Root(paths.FamilyTagPage, string(t.ID)),
		Description: t.Description,
		Color:       t.Color,
		Count:       count,
	}
}

func newPager(family paths.Family, entity string, page paginate.Page[content.Post]) Pager {
	pg := Pager{Current: page.Index, Count: page.Count, Pages: make([]PageLink, page.Count)}
	for i := range page.Count {
		k := i + 1
		pg.Pages[i] = PageLink{Index: k, URL: paths.Derive(family, entity, k).URL, Current: k == page.Index}
	}
	if !page.IsFirst() {
		pg.PrevURL = paths.Derive(family, entity, page.Index-1).URL
	}
	if !page.IsLast() {
		pg.NextURL = paths.Derive(family, entity, page.Index+1).URL
	}
	return pg
}

func newListingPage(family paths.Family, entity string, page paginate.Page[content.Post]) ListingPage {
	return ListingPage{
		Posts:       summarizeAll(page.Items),
		PageCount:   page.Count,
		CurrentPage: page.Index,
		URLPath:     paths.Root(family, entity),
		Pager:       newPager(family, entity, page),
	}
}

func newArchivePage(buckets []archive.Bucket) ArchivePage {
	ap := ArchivePage{Buckets: make([]BucketView, len(buckets))}
	for i, b := range buckets {
		ap.Buckets[i] = BucketView{Month: b.Month, Posts: summarizeAll(b.Posts)}
		ap.Total += len(b.Posts)
	}
	return ap
}
