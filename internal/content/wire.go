package content

import "time"

// JSON shapes of the data files. They follow the GitHub REST API fields the
// theme consumes and are converted into the model types right after decoding.

type wireIssues struct {
	Issues     []wireIssue     `json:"issues"`
	Milestones []wireMilestone `json:"milestones"`
	Labels     []wireLabel     `json:"labels"`
}

type wireIssue struct {
	ID        ID             `json:"id"`
	Number    int            `json:"number"`
	Title     string         `json:"title"`
	Body      *string        `json:"body"`
	CreatedAt string         `json:"created_at"`
	Milestone *wireMilestone `json:"milestone"`
	Labels    []wireLabel    `json:"labels"`
	Comments  []wireComment  `json:"comments_list"`
}

type wireMilestone struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type wireLabel struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// title prefers an explicit title over the GitHub label name.
func (l wireLabel) title() string {
	if l.Title != "" {
		return l.Title
	}
	return l.Name
}

type wireComment struct {
	User struct {
		Login     string `json:"login"`
		AvatarURL string `json:"avatar_url"`
	} `json:"user"`
	Body *string `json:"body"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (w wireIssue) toPost(loc *time.Location) Post {
	p := Post{
		ID:         w.ID,
		Number:     w.Number,
		Title:      w.Title,
		Body:       deref(w.Body),
		CreatedRaw: w.CreatedAt,
	}
	if t, ok := ParseTimestamp(w.CreatedAt, loc); ok {
		p.CreatedAt = t
	}
	if w.Milestone != nil {
		p.Category = &Ref{ID: w.Milestone.ID, Title: w.Milestone.Title}
	}
	for _, l := range w.Labels {
		p.Tags = append(p.Tags, Ref{ID: l.ID, Title: l.title()})
	}
	for _, c := range w.Comments {
		p.Comments = append(p.Comments, Comment{Author: c.User.Login, AvatarURL: c.User.AvatarURL, Body: deref(c.Body)})
	}
	return p
}

func (w wireIssues) toSnapshot(loc *time.Location) *Snapshot {
	s := &Snapshot{
		Posts:      make([]Post, 0, len(w.Issues)),
		Categories: make([]Category, 0, len(w.Milestones)),
		Tags:       make([]Tag, 0, len(w.Labels)),
	}
	for _, i := range w.Issues {
		s.Posts = append(s.Posts, i.toPost(loc))
	}
	for _, m := range w.Milestones {
		s.Categories = append(s.Categories, Category{ID: m.ID, Title: m.Title, Description: m.Description})
	}
	for _, l := range w.Labels {
		s.Tags = append(s.Tags, Tag{ID: l.ID, Title: l.title(), Color: l.Color, Description: l.Description})
	}
	return s
}
