package site

import (
	"strconv"
	"strings"

	"github.com/fluxpress/theme-classic/internal/config"
	"github.com/fluxpress/theme-classic/internal/paths"
)

// headTitle returns the <title> of a page. Post pages use the post title.
func headTitle(t config.Titles, family paths.Family, entityTitle string, page int) string {
	var pattern string
	switch family {
	case paths.FamilyHome:
		pattern = t.Home
		if page > 1 {
			pattern = t.HomePaged
		}
	case paths.FamilyPost:
		return entityTitle
	case paths.FamilyArchive:
		pattern = t.Archives
	case paths.FamilyCategoryIndex:
		pattern = t.Categories
	case paths.FamilyCategoryPage:
		pattern = t.Category
	case paths.FamilyTagIndex:
		pattern = t.Tags
	case paths.FamilyTagPage:
		pattern = t.Tag
	case paths.FamilyAbout:
		pattern = t.About
	case paths.FamilyNotFound:
		pattern = t.NotFound
	}
	return strings.NewReplacer("{title}", entityTitle, "{page}", strconv.Itoa(page)).Replace(pattern)
}
