package rules

import (
	"regexp/syntax"
)

const maxExpansions = 64

// literals enumerates the strings a pattern can match when it is built only
// from literals, alternations, optional parts and small character classes.
// It reports false for anything open-ended such as ".*" or "\d+".
func literals(pattern string) ([]string, bool) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, false
	}
	out, ok := expand(re.Simplify())
	if !ok || len(out) == 0 {
		return nil, false
	}
	return out, true
}

func expand(re *syntax.Regexp) ([]string, bool) {
	switch re.Op {
	case syntax.OpEmptyMatch, syntax.OpBeginText, syntax.OpEndText, syntax.OpBeginLine, syntax.OpEndLine:
		return []string{""}, true
	case syntax.OpLiteral:
		return []string{string(re.Rune)}, true
	case syntax.OpCharClass:
		var out []string
		for i := 0; i+1 < len(re.Rune); i += 2 {
			for r := re.Rune[i]; r <= re.Rune[i+1]; r++ {
				out = append(out, string(r))
				if len(out) > maxExpansions {
					return nil, false
				}
			}
		}
		return out, true
	case syntax.OpCapture:
		return expand(re.Sub[0])
	case syntax.OpQuest:
		sub, ok := expand(re.Sub[0])
		if !ok {
			return nil, false
		}
		return append([]string{""}, sub...), true
	case syntax.OpAlternate:
		var out []string
		for _, s := range re.Sub {
			sub, ok := expand(s)
			if !ok {
				return nil, false
			}
			out = append(out, sub...)
			if len(out) > maxExpansions {
				return nil, false
			}
		}
		return out, true
	case syntax.OpConcat:
		out := []string{""}
		for _, s := range re.Sub {
			sub, ok := expand(s)
			if !ok {
				return nil, false
			}
			next := make([]string, 0, len(out)*len(sub))
			for _, prefix := range out {
				for _, suffix := range sub {
					next = append(next, prefix+suffix)
				}
			}
			if len(next) > maxExpansions {
				return nil, false
			}
			out = next
		}
		return out, true
	default:
		return nil, false
	}
}
