package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceAll(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		in       string
		want     string
	}{
		{"every occurrence", "foo", "baz", "/foo/bar/foo", "/baz/bar/baz"},
		{"no occurrence", "foo", "baz", "/bar/qux", "/bar/qux"},
		{"occurrence in query", "foo", "baz", "/a?x=foo", "/a?x=baz"},
		{"non-overlapping left to right", "aa", "b", "/aaa", "/ba"},
		{"empty input", "foo", "baz", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplaceAll(tt.from, tt.to).Apply(tt.in))
		})
	}
}

func TestReplaceAll_RemovesAllOccurrences(t *testing.T) {
	inputs := []string{"/foo", "/foo/foo/foo", "/x/fofoo", "/foofoo?q=foo"}
	for _, in := range inputs {
		got := ReplaceAll("foo", "baz").Apply(in)
		assert.NotContains(t, got, "foo", "input %q", in)
	}
}

func TestReplaceN(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		n        int
		in       string
		want     string
	}{
		{"first only", "foo", "baz", 1, "/foo/bar/foo", "/baz/bar/foo"},
		{"first two", "foo", "baz", 2, "/foo/foo/foo", "/baz/baz/foo"},
		{"n exceeds occurrences", "foo", "baz", 10, "/foo/foo", "/baz/baz"},
		{"zero is identity", "foo", "baz", 0, "/foo/bar/foo", "/foo/bar/foo"},
		{"negative replaces all", "foo", "baz", -1, "/foo/foo", "/baz/baz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplaceN(tt.from, tt.to, tt.n).Apply(tt.in))
		})
	}
}

func TestTrimPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		in     string
		want   string
	}{
		{"exact prefix", "/users", "/users/42", "/42"},
		{"whole input", "/users", "/users", ""},
		{"mismatch is identity", "/users", "/posts/42", "/posts/42"},
		{"partial match is identity", "/users/42", "/users", "/users"},
		{"mid-string occurrence untouched", "/users", "/api/users/42", "/api/users/42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimPrefix(tt.prefix).Apply(tt.in))
		})
	}
}

func TestTrimPrefix_StripsExactlyOnce(t *testing.T) {
	rule := TrimPrefix("/v1")
	once := rule.Apply("/v1/v1/users")
	assert.Equal(t, "/v1/users", once)

	// Applying again strips the next occurrence: the rule itself is not
	// idempotent, it removes one prefix per application.
	assert.Equal(t, "/users", rule.Apply(once))
}

func TestAppendSuffix(t *testing.T) {
	tests := []struct {
		name   string
		suffix string
		in     string
		want   string
	}{
		{"trailing slash", "/", "/posts", "/posts/"},
		{"no boundary normalization", "/x", "/posts/", "/posts//x"},
		{"empty input", "/x", "", "/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AppendSuffix(tt.suffix).Apply(tt.in))
		})
	}
}

func TestAppendSuffix_IsConcatenation(t *testing.T) {
	inputs := []string{"", "/", "/a/b", "/a?x=1"}
	for _, in := range inputs {
		assert.Equal(t, in+"/tail", AppendSuffix("/tail").Apply(in))
	}
}

func TestStatic(t *testing.T) {
	rule := Static("/fixed")
	inputs := []string{"", "/", "/anything", "/a/b/c?x=1"}
	for _, in := range inputs {
		assert.Equal(t, "/fixed", rule.Apply(in))
	}
}

func TestZeroRule_IsIdentity(t *testing.T) {
	var rule Rule
	for _, in := range []string{"", "/", "/a/b?q=1"} {
		assert.Equal(t, in, rule.Apply(in))
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		rule Rule
		want string
	}{
		{ReplaceAll("foo", "baz"), `replace_all("foo", "baz")`},
		{ReplaceN("foo", "baz", 1), `replace_n("foo", "baz", 1)`},
		{TrimPrefix("/users"), `trim_prefix("/users")`},
		{AppendSuffix("/"), `append_suffix("/")`},
		{Static("/"), `static("/")`},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.String())
		})
	}
}
