package domain

import (
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestTextContent(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{name: "plain text", markup: "hello", want: "hello"},
		{name: "entities decoded", markup: "<p>a &amp; b &lt;c&gt;</p>", want: "a & b <c>"},
		{name: "nested tags", markup: "<div><p>x<b>y</b></p><p>z</p></div>", want: "xyz"},
		{name: "attributes dropped", markup: `<img src="a.png" alt="pic"><a href="/x">link</a>`, want: "link"},
		{name: "empty", markup: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TextContent(tt.markup); got != tt.want {
				t.Errorf("TextContent(%q) = %q, want %q", tt.markup, got, tt.want)
			}
		})
	}
}

func TestDeriveExcerpt(t *testing.T) {
	exact := strings.Repeat("字", excerptLength)
	long := strings.Repeat("字", excerptLength+1)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "short", content: "<p> hi </p>", want: "hi"},
		{name: "exactly the limit", content: "<p>" + exact + "</p>", want: exact},
		{name: "one past the limit", content: "<p>" + long + "</p>", want: exact + ellipsis},
		{name: "markup does not count", content: "<p><b>" + exact + "</b></p>", want: exact},
		{name: "empty", content: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveExcerpt(tt.content)
			if got != tt.want {
				t.Errorf("DeriveExcerpt() = %q, want %q", got, tt.want)
			}
			if n := utf8.RuneCountInString(got); n > excerptLength+1 {
				t.Errorf("excerpt has %d runes, want at most %d", n, excerptLength+1)
			}
		})
	}
}

func TestResolveDraft(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.FixedZone("CST", 8*3600))

	p := ResolveDraft(PostDraft{
		Title:    "  ",
		Content:  "<p>正文</p>",
		Category: " 旅行 ",
	}, now)

	if p.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", p.Title, DefaultTitle)
	}
	if p.Category != "旅行" {
		t.Errorf("Category = %q, want %q", p.Category, "旅行")
	}
	if p.Excerpt != "正文" {
		t.Errorf("Excerpt = %q, want %q", p.Excerpt, "正文")
	}
	if !p.Date.Equal(now) || p.Date.Location() != time.UTC {
		t.Errorf("Date = %v, want %v in UTC", p.Date, now)
	}
	if p.Tags == nil || p.Images == nil {
		t.Errorf("Tags and Images must be non-nil, got %v and %v", p.Tags, p.Images)
	}

	blank := ResolveDraft(PostDraft{}, now)
	if blank.Category != DefaultCategory {
		t.Errorf("Category = %q, want %q", blank.Category, DefaultCategory)
	}
}

func TestResolvePatch(t *testing.T) {
	tests := []struct {
		name  string
		patch PostPatch
		want  PostPatch
	}{
		{
			name:  "absent fields stay absent",
			patch: PostPatch{Featured: ptr(true)},
			want:  PostPatch{Featured: ptr(true)},
		},
		{
			name:  "values are trimmed",
			patch: PostPatch{Title: ptr(" 标题 "), Category: ptr(" 旅行 "), Excerpt: ptr(" 摘要 ")},
			want:  PostPatch{Title: ptr("标题"), Category: ptr("旅行"), Excerpt: ptr("摘要")},
		},
		{
			name:  "blank title and category get defaults",
			patch: PostPatch{Title: ptr("   "), Category: ptr("")},
			want:  PostPatch{Title: ptr(DefaultTitle), Category: ptr(DefaultCategory)},
		},
		{
			name:  "blank excerpt is derived from patched content",
			patch: PostPatch{Content: ptr("<p>新内容</p>"), Excerpt: ptr(" ")},
			want:  PostPatch{Content: ptr("<p>新内容</p>"), Excerpt: ptr("新内容")},
		},
		{
			name:  "blank excerpt without content is dropped",
			patch: PostPatch{Excerpt: ptr("")},
			want:  PostPatch{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePatch(tt.patch); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolvePatch() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolvePatch_DoesNotMutateInput(t *testing.T) {
	title := " 标题 "
	ResolvePatch(PostPatch{Title: &title})
	if title != " 标题 " {
		t.Errorf("input title changed to %q", title)
	}
}
