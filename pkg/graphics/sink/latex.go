package sink

import (
	"strings"
	"unicode/utf8"
)

// Longer commands come first so that prefixes never shadow them.
var symbols = strings.NewReplacer(
	"#rightarrow", "→",
	"#leftarrow", "←",
	"#sqrt", "√",
	"#minus", "−",
	"#times", "×",
	"#infty", "∞",
	"#approx", "≈",
	"#Delta", "Δ",
	"#delta", "δ",
	"#gamma", "γ",
	"#sigma", "σ",
	"#theta", "θ",
	"#alpha", "α",
	"#lambda", "λ",
	"#omega", "ω",
	"#beta", "β",
	"#geq", "≥",
	"#leq", "≤",
	"#ell", "ℓ",
	"#eta", "η",
	"#tau", "τ",
	"#phi", "φ",
	"#chi", "χ",
	"#pm", "±",
	"#mu", "μ",
	"#nu", "ν",
	"#pi", "π",
	"#bf", "",
	"#it", "",
)

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴', '5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'+': '⁺', '-': '⁻', '−': '⁻', '=': '⁼', '(': '⁽', ')': '⁾', 'n': 'ⁿ', 'i': 'ⁱ',
}

var subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄', '5': '₅', '6': '₆', '7': '₇', '8': '₈', '9': '₉',
	'+': '₊', '-': '₋', '−': '₋', '=': '₌', '(': '₍', ')': '₎',
	'a': 'ₐ', 'e': 'ₑ', 'o': 'ₒ', 'x': 'ₓ', 'h': 'ₕ', 'k': 'ₖ', 'l': 'ₗ', 'm': 'ₘ', 'n': 'ₙ', 'p': 'ₚ', 's': 'ₛ', 't': 'ₜ',
}

// plainText converts markup such as "#bf{CMS}", "fb^{-1}" or "#sqrt{s}"
// into plain Unicode text.
func plainText(s string) string {
	s = stripFontDirectives(s)
	s = symbols.Replace(s)
	s = scripts(s)
	return strings.NewReplacer("{", "", "}", "").Replace(s)
}

// stripFontDirectives removes "#font[NN]" and "#color[NN]" prefixes.
func stripFontDirectives(s string) string {
	for _, cmd := range []string{"#font[", "#color[", "#scale["} {
		for {
			i := strings.Index(s, cmd)
			if i < 0 {
				break
			}
			j := strings.IndexByte(s[i:], ']')
			if j < 0 {
				s = s[:i]
				break
			}
			s = s[:i] + s[i+j+1:]
		}
	}
	return s
}

func scripts(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		if (c == '^' || c == '_') && i+1 < len(s) {
			table := superscripts
			if c == '_' {
				table = subscripts
			}
			body, n := scriptBody(s[i+1:])
			b.WriteString(mapRunes(body, table, string(c)))
			i += 1 + n
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

// scriptBody returns the braced group or single rune at the start of s and
// the number of bytes consumed.
func scriptBody(s string) (string, int) {
	if s[0] != '{' {
		_, n := utf8.DecodeRuneInString(s)
		return s[:n], n
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[1:i], i + 1
			}
		}
	}
	return s[1:], len(s)
}

func mapRunes(body string, table map[rune]rune, marker string) string {
	out := make([]rune, 0, len(body))
	for _, r := range body {
		m, ok := table[r]
		if !ok {
			// Not representable: keep the marker so the text stays readable.
			return marker + body
		}
		out = append(out, m)
	}
	return string(out)
}
