package site

import "github.com/fluxpress/theme-classic/internal/render"

// Layout files of each page family, relative to the theme's layout directory.
const (
	LayoutPost          = "posts/index.html"
	LayoutHome          = "page/index.html"
	LayoutArchives      = "archives/index.html"
	LayoutCategoryIndex = "categories/index.html"
	LayoutCategoryPage  = "categories/page.html"
	LayoutTagIndex      = "tags/index.html"
	LayoutTagPage       = "tags/page.html"
	LayoutAbout         = "about/index.html"
	LayoutNotFound      = "404.html"
)

// Layouts lists every layout a build needs, shell first.
func Layouts() []string {
	return []string{
		render.ShellLayout,
		LayoutPost,
		LayoutHome,
		LayoutArchives,
		LayoutCategoryIndex,
		LayoutCategoryPage,
		LayoutTagIndex,
		LayoutTagPage,
		LayoutAbout,
		LayoutNotFound,
	}
}
