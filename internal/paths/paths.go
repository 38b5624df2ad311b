// Package paths derives the canonical URL and output file of every generated page.
//
// Every page is directory-style (`/posts/42/` is written to `posts/42/index.html`)
// except the not-found page, which lives at `/404.html`. The first page of a
// paginated family is always served at the family root; page k > 1 is served at
// `{root}page/{k}/`.
package paths

import (
	"strconv"
	"strings"
)

// Family enumerates the fixed output page kinds.
type Family string

const (
	FamilyHome          Family = "home"
	FamilyPost          Family = "post"
	FamilyArchive       Family = "archive"
	FamilyCategoryIndex Family = "category-index"
	FamilyCategoryPage  Family = "category-page"
	FamilyTagIndex      Family = "tag-index"
	FamilyTagPage       Family = "tag-page"
	FamilyAbout         Family = "about"
	FamilyNotFound      Family = "notfound"
)

// Families lists every family in generation order.
func Families() []Family {
	return []Family{
		FamilyPost, FamilyHome, FamilyArchive,
		FamilyCategoryIndex, FamilyCategoryPage,
		FamilyTagIndex, FamilyTagPage,
		FamilyAbout, FamilyNotFound,
	}
}

// Paginated reports whether pages beyond the first exist for the family.
func (f Family) Paginated() bool {
	switch f {
	case FamilyHome, FamilyCategoryPage, FamilyTagPage:
		return true
	default:
		return false
	}
}

// PerEntity reports whether the family has one page set per post, category or tag.
func (f Family) PerEntity() bool {
	switch f {
	case FamilyPost, FamilyCategoryPage, FamilyTagPage:
		return true
	default:
		return false
	}
}

// ValidEntityID reports whether id can be used as a single URL path segment.
// Empty ids, dot segments and ids containing a separator are rejected.
func ValidEntityID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, "/\\\x00")
}

const (
	indexFile    = "index.html"
	notFoundFile = "404.html"
	pageSegment  = "page"
)

// Target is the derived location of one page.
type Target struct {
	URL  string // site-absolute URL path, e.g. "/tags/7/page/2/"
	File string // output-root relative, slash separated, e.g. "tags/7/page/2/index.html"
}

// Root returns the URL root of a family; entityID is used by post and per-entity families.
func Root(family Family, entityID string) string {
	switch family {
	case FamilyHome:
		return "/"
	case FamilyPost:
		return "/posts/" + entityID + "/"
	case FamilyArchive:
		return "/archives/"
	case FamilyCategoryIndex:
		return "/categories/"
	case FamilyCategoryPage:
		return "/categories/" + entityID + "/"
	case FamilyTagIndex:
		return "/tags/"
	case FamilyTagPage:
		return "/tags/" + entityID + "/"
	case FamilyAbout:
		return "/about/"
	case FamilyNotFound:
		return "/" + notFoundFile
	default:
		return "/"
	}
}

// Derive computes the target for page (1-based) of family. page <= 1 and pages of
// non-paginated families map to the family root.
func Derive(family Family, entityID string, page int) Target {
	root := Root(family, entityID)
	if family == FamilyNotFound {
		return Target{URL: root, File: notFoundFile}
	}
	url := root
	if family.Paginated() && page > 1 {
		url = root + pageSegment + "/" + strconv.Itoa(page) + "/"
	}
	return Target{URL: url, File: strings.TrimPrefix(url, "/") + indexFile}
}

// PageIndex parses the page number back out of a derived URL. URLs without a
// trailing `page/{k}/` segment are page 1.
func PageIndex(url string) (int, bool) {
	trimmed := strings.TrimSuffix(url, "/")
	parent, last, ok := cutLast(trimmed)
	if !ok {
		return 1, true
	}
	_, seg, ok := cutLast(parent)
	if !ok || seg != pageSegment {
		return 1, true
	}
	k, err := strconv.Atoi(last)
	if err != nil || k < 2 {
		return 0, false
	}
	return k, true
}

func cutLast(s string) (string, string, bool) {
	i := strings.LastIndexByte(s, '/')
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}
