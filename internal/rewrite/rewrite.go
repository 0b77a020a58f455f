// Package rewrite implements path rewriting rules applied to a request's
// path+query before it is forwarded upstream.
package rewrite

import (
	"fmt"
	"strings"
)

// kind tags the rule variant. The set is closed: Apply switches over it
// exhaustively.
type kind int

const (
	kindReplaceAll kind = iota
	kindReplaceN
	kindTrimPrefix
	kindAppendSuffix
	kindStatic
)

// Rule rewrites a path+query string. Rules are immutable values, safe for
// concurrent use, and total: Apply always returns a string and never inspects
// anything but its input. The zero value leaves input unchanged.
type Rule struct {
	kind     kind
	from, to string
	n        int
}

// ReplaceAll returns a rule replacing every non-overlapping occurrence of the
// literal from with to.
func ReplaceAll(from, to string) Rule {
	return Rule{kind: kindReplaceAll, from: from, to: to}
}

// ReplaceN returns a rule replacing the first n non-overlapping occurrences of
// the literal from with to, left to right. n = 0 leaves input unchanged; a
// negative n replaces all occurrences.
func ReplaceN(from, to string, n int) Rule {
	return Rule{kind: kindReplaceN, from: from, to: to, n: n}
}

// TrimPrefix returns a rule removing prefix if the input starts with it
// exactly. On mismatch the input passes through unchanged. At most one
// occurrence is removed.
func TrimPrefix(prefix string) Rule {
	return Rule{kind: kindTrimPrefix, from: prefix}
}

// AppendSuffix returns a rule appending suffix to the input. No separator
// normalization is performed.
func AppendSuffix(suffix string) Rule {
	return Rule{kind: kindAppendSuffix, to: suffix}
}

// Static returns a rule that discards the input entirely and substitutes path.
func Static(path string) Rule {
	return Rule{kind: kindStatic, to: path}
}

// Apply rewrites a path+query string. Substitution is literal, never regex.
func (r Rule) Apply(s string) string {
	switch r.kind {
	case kindReplaceAll:
		return strings.ReplaceAll(s, r.from, r.to)
	case kindReplaceN:
		return strings.Replace(s, r.from, r.to, r.n)
	case kindTrimPrefix:
		return strings.TrimPrefix(s, r.from)
	case kindAppendSuffix:
		return s + r.to
	case kindStatic:
		return r.to
	}
	return s
}

// String describes the rule for logs and debug output.
func (r Rule) String() string {
	switch r.kind {
	case kindReplaceAll:
		return fmt.Sprintf("replace_all(%q, %q)", r.from, r.to)
	case kindReplaceN:
		return fmt.Sprintf("replace_n(%q, %q, %d)", r.from, r.to, r.n)
	case kindTrimPrefix:
		return fmt.Sprintf("trim_prefix(%q)", r.from)
	case kindAppendSuffix:
		return fmt.Sprintf("append_suffix(%q)", r.to)
	case kindStatic:
		return fmt.Sprintf("static(%q)", r.to)
	}
	return "identity"
}
