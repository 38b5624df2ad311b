package archive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxpress/theme-classic/internal/content"
)

func post(id string, ts string) content.Post {
	return postIn(id, ts, time.UTC)
}

func postIn(id, ts string, loc *time.Location) content.Post {
	p := content.Post{ID: content.ID(id), CreatedRaw: ts}
	if t, ok := content.ParseTimestamp(ts, loc); ok {
		p.CreatedAt = t
	}
	return p
}

func ids(ps []content.Post) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p.ID)
	}
	return out
}

func TestGroupByMonthExample(t *testing.T) {
	posts := []content.Post{
		post("1", "2024-01-05T00:00:00Z"),
		post("2", "2024-01-20T00:00:00Z"),
		post("3", "2024-02-01T00:00:00Z"),
	}
	m := GroupByMonth(posts, time.UTC)
	assert.Equal(t, []string{"2024-01", "2024-02"}, m.Keys())

	jan, ok := m.Get("2024-01")
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2"}, ids(jan))
	feb, _ := m.Get("2024-02")
	assert.Equal(t, []string{"3"}, ids(feb))
}

func TestGroupByMonthFirstEncounterOrder(t *testing.T) {
	posts := []content.Post{
		post("a", "2023-11-02T00:00:00Z"),
		post("b", "2024-03-02T00:00:00Z"),
		post("c", "2023-11-28T00:00:00Z"),
		post("d", "2022-01-01T00:00:00Z"),
		post("e", "2024-03-01T00:00:00Z"),
	}
	bs := Buckets(GroupByMonth(posts, time.UTC))
	require.Len(t, bs, 3)
	assert.Equal(t, "2023-11", bs[0].Month)
	assert.Equal(t, []string{"a", "c"}, ids(bs[0].Posts))
	assert.Equal(t, "2024-03", bs[1].Month)
	assert.Equal(t, []string{"b", "e"}, ids(bs[1].Posts))
	assert.Equal(t, "2022-01", bs[2].Month)
}

func TestGroupByMonthUsesDisplayZone(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	posts := []content.Post{post("1", "2024-01-31T20:00:00Z")}

	assert.Equal(t, []string{"2024-01"}, GroupByMonth(posts, time.UTC).Keys())
	assert.Equal(t, []string{"2024-02"}, GroupByMonth(posts, shanghai).Keys())
}

func TestGroupByMonthLocalTimestamps(t *testing.T) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	tests := []struct {
		name string
		ts   string
		want string
	}{
		{"zone-less date-time is wall clock", "2024-01-31T23:00:00", "2024-01"},
		{"space separated is wall clock", "2024-01-31 23:59:59", "2024-01"},
		{"offset is converted", "2024-01-31T16:00:00Z", "2024-02"},
		{"date only is UTC midnight", "2024-01-31", "2024-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := []content.Post{postIn("1", tt.ts, shanghai)}
			assert.Equal(t, []string{tt.want}, GroupByMonth(posts, shanghai).Keys())
		})
	}
}

func TestGroupByMonthSkipsMalformed(t *testing.T) {
	posts := []content.Post{post("1", "garbage"), post("2", "2024-05-05T00:00:00Z")}
	bs := Buckets(GroupByMonth(posts, time.UTC))
	require.Len(t, bs, 1)
	assert.Equal(t, []string{"2"}, ids(bs[0].Posts))
}

func TestGroupByMonthBucketCount(t *testing.T) {
	var posts []content.Post
	distinct := map[string]struct{}{}
	start := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	for i := range 40 {
		ts := start.AddDate(0, 0, i*11)
		posts = append(posts, content.Post{ID: content.ID(ts.Format(time.DateOnly)), CreatedAt: ts})
		distinct[ts.Format(MonthLayout)] = struct{}{}
	}
	m := GroupByMonth(posts, time.UTC)
	assert.Equal(t, len(distinct), m.Len())

	total := 0
	for k, v := range m.All() {
		for _, p := range v {
			assert.Equal(t, k, MonthKey(p.CreatedAt, time.UTC))
		}
		total += len(v)
	}
	assert.Equal(t, len(posts), total)
}

func TestGroupByMonthEmpty(t *testing.T) {
	m := GroupByMonth(nil, nil)
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, Buckets(m))
}
