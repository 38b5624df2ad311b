package site

import (
	"context"

	"github.com/fluxpress/theme-classic/internal/content"
	"github.com/fluxpress/theme-classic/internal/paths"
)

// stagePosts writes one page per post with its body and comments rendered
// from markdown.
func stagePosts(ctx context.Context, bs *BuildState) error {
	jobs := make([]pageJob, 0, len(bs.Snapshot.Posts))
	for _, p := range bs.Snapshot.Posts {
		jobs = append(jobs, pageJob{
			family: paths.FamilyPost,
			entity: string(p.ID),
			page:   1,
			layout: LayoutPost,
			title:  bs.title(paths.FamilyPost, p.Title, 1),
			load:   func() (any, error) { return bs.postPage(p) },
		})
	}
	return bs.renderPages(ctx, jobs)
}

func (bs *BuildState) postPage(p content.Post) (any, error) {
	body, err := bs.Markdown.Render(p.Body)
	if err != nil {
		return nil, err
	}
	page := PostPage{PostSummary: summarize(p), Content: body, Comments: make([]CommentView, 0, len(p.Comments))}
	for _, c := range p.Comments {
		html, err := bs.Markdown.Render(c.Body)
		if err != nil {
			return nil, err
		}
		page.Comments = append(page.Comments, CommentView{Avatar: c.AvatarURL, Username: c.Author, Content: html})
	}
	return page, nil
}
