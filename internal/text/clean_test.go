package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "timestamp line dropped",
			in:   "6/1/23, 4:05 PM\nActual content",
			want: "Actual content",
		},
		{
			name: "timestamp with long year dropped",
			in:   "12/31/2023, 11:59 PM\nkeep",
			want: "keep",
		},
		{
			name: "file reference dropped case insensitive",
			in:   "FILE:///tmp/x.png\nhello",
			want: "hello",
		},
		{
			name: "file reference mixed case dropped",
			in:   "see File://server/share\nhello",
			want: "hello",
		},
		{
			name: "empty lines dropped",
			in:   "a\n\n   \nb",
			want: "a\nb",
		},
		{
			name: "malformed bullet stripped",
			in:   "e@ Hello world",
			want: "Hello world",
		},
		{
			name: "bullet glyph stripped",
			in:   "• Item one",
			want: "Item one",
		},
		{
			name: "hyphen marker stripped",
			in:   "- item",
			want: "item",
		},
		{
			name: "asterisk marker stripped",
			in:   "* item",
			want: "item",
		},
		{
			name: "lone at sign stripped",
			in:   "@ item",
			want: "item",
		},
		{
			name: "marker stripped at line start only",
			in:   "price @ 5",
			want: "price @ 5",
		},
		{
			name: "whitespace collapsed",
			in:   "a    b",
			want: "a b",
		},
		{
			name: "tabs collapsed",
			in:   "a\t\tb  c",
			want: "a b c",
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "   padded line   ",
			want: "padded line",
		},
		{
			name: "line reduced to nothing dropped",
			in:   "-\ncontent",
			want: "content",
		},
		{
			name: "crlf input",
			in:   "one\r\ntwo\r\n",
			want: "one\ntwo",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "relative order preserved",
			in:   "third  word\n6/1/23, 4:05 PM\nfirst\n• second",
			want: "third word\nfirst\nsecond",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.in)
			assert.Equal(t, tt.want, got)

			// 清洗应当幂等
			assert.Equal(t, got, Clean(got))
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	sample := "6/1/23, 4:05 PM\n" +
		"file:///tmp/export/page1.png\n" +
		"e@ Meeting   notes\n" +
		"• agenda item\n" +
		"\n" +
		"closing   remarks   here\n"

	once := Clean(sample)
	twice := Clean(once)
	assert.Equal(t, once, twice)
}
