package utilitycss

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const spacingUnit = 0.25 // rem

var classPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

var static = map[string]string{
	"block":               "display: block",
	"inline-block":        "display: inline-block",
	"flex":                "display: flex",
	"inline-flex":         "display: inline-flex",
	"grid":                "display: grid",
	"hidden":              "display: none",
	"flex-row":            "flex-direction: row",
	"flex-col":            "flex-direction: column",
	"flex-wrap":           "flex-wrap: wrap",
	"flex-1":              "flex: 1 1 0%",
	"grow":                "flex-grow: 1",
	"shrink-0":            "flex-shrink: 0",
	"items-start":         "align-items: flex-start",
	"items-center":        "align-items: center",
	"items-end":           "align-items: flex-end",
	"justify-start":       "justify-content: flex-start",
	"justify-center":      "justify-content: center",
	"justify-end":         "justify-content: flex-end",
	"justify-between":     "justify-content: space-between",
	"relative":            "position: relative",
	"absolute":            "position: absolute",
	"fixed":               "position: fixed",
	"sticky":              "position: sticky",
	"w-full":              "width: 100%",
	"w-screen":            "width: 100vw",
	"h-full":              "height: 100%",
	"h-screen":            "height: 100vh",
	"min-h-screen":        "min-height: 100vh",
	"overflow-auto":       "overflow: auto",
	"overflow-hidden":     "overflow: hidden",
	"text-left":           "text-align: left",
	"text-center":         "text-align: center",
	"text-right":          "text-align: right",
	"font-mono":           "font-family: ui-monospace, SFMono-Regular, Menlo, Monaco, Consolas, monospace",
	"font-sans":           "font-family: ui-sans-serif, system-ui, sans-serif",
	"font-medium":         "font-weight: 500",
	"font-semibold":       "font-weight: 600",
	"font-bold":           "font-weight: 700",
	"italic":              "font-style: italic",
	"underline":           "text-decoration-line: underline",
	"whitespace-pre":      "white-space: pre",
	"whitespace-pre-wrap": "white-space: pre-wrap",
	"break-all":           "word-break: break-all",
	"border":              "border-width: 1px",
	"border-0":            "border-width: 0px",
	"border-2":            "border-width: 2px",
	"rounded":             "border-radius: 0.25rem",
	"rounded-md":          "border-radius: 0.375rem",
	"rounded-lg":          "border-radius: 0.5rem",
	"rounded-full":        "border-radius: 9999px",
	"shadow":              "box-shadow: 0 1px 3px 0 rgb(0 0 0 / 0.1), 0 1px 2px -1px rgb(0 0 0 / 0.1)",
	"cursor-pointer":      "cursor: pointer",
	"select-none":         "user-select: none",
	"m-auto":              "margin: auto",
	"mx-auto":             "margin-left: auto; margin-right: auto",
}

var fontSizes = map[string][2]string{
	"xs":   {"0.75rem", "1rem"},
	"sm":   {"0.875rem", "1.25rem"},
	"base": {"1rem", "1.5rem"},
	"lg":   {"1.125rem", "1.75rem"},
	"xl":   {"1.25rem", "1.75rem"},
	"2xl":  {"1.5rem", "2rem"},
}

var spacing = map[string][]string{
	"p":   {"padding"},
	"px":  {"padding-left", "padding-right"},
	"py":  {"padding-top", "padding-bottom"},
	"pt":  {"padding-top"},
	"pr":  {"padding-right"},
	"pb":  {"padding-bottom"},
	"pl":  {"padding-left"},
	"m":   {"margin"},
	"mx":  {"margin-left", "margin-right"},
	"my":  {"margin-top", "margin-bottom"},
	"mt":  {"margin-top"},
	"mr":  {"margin-right"},
	"mb":  {"margin-bottom"},
	"ml":  {"margin-left"},
	"gap": {"gap"},
}

var palette = map[string]map[string]string{
	"gray": {
		"100": "#f3f4f6", "200": "#e5e7eb", "300": "#d1d5db", "500": "#6b7280", "700": "#374151", "900": "#111827",
	},
	"red": {
		"100": "#fee2e2", "200": "#fecaca", "300": "#fca5a5", "500": "#ef4444", "700": "#b91c1c", "900": "#7f1d1d",
	},
	"green": {
		"100": "#dcfce7", "200": "#bbf7d0", "300": "#86efac", "500": "#22c55e", "700": "#15803d", "900": "#14532d",
	},
	"blue": {
		"100": "#dbeafe", "200": "#bfdbfe", "300": "#93c5fd", "500": "#3b82f6", "700": "#1d4ed8", "900": "#1e3a8a",
	},
}

var colorProperties = map[string]string{
	"text":   "color",
	"bg":     "background-color",
	"border": "border-color",
}

var variants = map[string]string{
	"hover": ":hover",
	"focus": ":focus",
}

const preflight = `*, ::before, ::after {
  box-sizing: border-box;
  border-width: 0;
  border-style: solid;
}
`

// declarations returns the CSS declarations for a utility class, or false when the class is
// not a known utility.
func declarations(class string) (string, bool) {
	if decl, ok := static[class]; ok {
		return decl, true
	}

	prefix, value, ok := strings.Cut(class, "-")
	if !ok {
		return "", false
	}

	if prefix == "text" {
		if size, ok := fontSizes[value]; ok {
			return fmt.Sprintf("font-size: %s; line-height: %s", size[0], size[1]), true
		}
	}

	if props, ok := spacing[prefix]; ok {
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > 96 {
			return "", false
		}
		size := strconv.FormatFloat(float64(n)*spacingUnit, 'f', -1, 64) + "rem"
		if n == 0 {
			size = "0px"
		}
		decls := make([]string, 0, len(props))
		for _, prop := range props {
			decls = append(decls, prop+": "+size)
		}
		return strings.Join(decls, "; "), true
	}

	if prop, ok := colorProperties[prefix]; ok {
		switch value {
		case "white":
			return prop + ": #ffffff", true
		case "black":
			return prop + ": #000000", true
		case "transparent":
			return prop + ": transparent", true
		}
		name, shade, ok := strings.Cut(value, "-")
		if !ok {
			return "", false
		}
		if hex, ok := palette[name][shade]; ok {
			return prop + ": " + hex, true
		}
	}

	return "", false
}

// rule renders the CSS rule for a class token, handling hover: and focus: variants.
func rule(token string) (string, bool) {
	pseudo := ""
	class := token
	if variant, rest, ok := strings.Cut(token, ":"); ok {
		p, known := variants[variant]
		if !known {
			return "", false
		}
		pseudo = p
		class = rest
	}

	if !classPattern.MatchString(class) {
		return "", false
	}

	decl, ok := declarations(class)
	if !ok {
		return "", false
	}

	selector := "." + strings.ReplaceAll(token, ":", `\:`) + pseudo
	return fmt.Sprintf("%s { %s; }\n", selector, decl), true
}

// Generate returns the stylesheet for the given class tokens. Unknown tokens are skipped and
// output order is stable, plain utilities before variants.
func Generate(tokens []string) string {
	unique := slices.Clone(tokens)
	slices.SortFunc(unique, func(a, b string) int {
		av, bv := strings.Contains(a, ":"), strings.Contains(b, ":")
		if av != bv {
			if av {
				return 1
			}
			return -1
		}
		return strings.Compare(a, b)
	})
	unique = slices.Compact(unique)

	var sb strings.Builder
	sb.WriteString(preflight)
	for _, token := range unique {
		if r, ok := rule(token); ok {
			sb.WriteString(r)
		}
	}
	return sb.String()
}
