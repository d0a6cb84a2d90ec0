package surface

import (
	"regexp"
	"sort"
	"strings"

	"codeberg.org/miketth/keylive/pkg/svgdoc"
)

// The rasterizer only understands a class attribute that exactly names one
// rule, so class based rules from the document's <style> elements are
// resolved here and written as inline styles on a private copy.

var (
	commentRe  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	selectorRe = regexp.MustCompile(`^([a-zA-Z][\w-]*)?((?:\.[\w-]+)*)$`)
)

type styleRule struct {
	tag         string
	classes     []string
	decls       string
	specificity int
	order       int
}

func (r styleRule) matches(tag string, classes []string) bool {
	if r.tag != "" && r.tag != tag {
		return false
	}

	for _, c := range r.classes {
		if !contains(classes, c) {
			return false
		}
	}

	return true
}

// parseRules reads simple rules of the form "tag.class.class { ... }".
// Rules with combinators, pseudo classes or at-rules are skipped.
func parseRules(css string) []styleRule {
	css = commentRe.ReplaceAllString(css, "")

	var rules []styleRule
	for _, block := range strings.Split(css, "}") {
		selectors, decls, ok := strings.Cut(block, "{")
		if !ok {
			continue
		}
		decls = strings.TrimSpace(decls)
		if decls == "" || strings.Contains(selectors, "@") {
			continue
		}

		for _, sel := range strings.Split(selectors, ",") {
			m := selectorRe.FindStringSubmatch(strings.TrimSpace(sel))
			if m == nil || (m[1] == "" && m[2] == "") {
				continue
			}

			var classes []string
			if m[2] != "" {
				classes = strings.Split(strings.TrimPrefix(m[2], "."), ".")
			}

			spec := 10 * len(classes)
			if m[1] != "" {
				spec++
			}

			rules = append(rules, styleRule{
				tag:         m[1],
				classes:     classes,
				decls:       decls,
				specificity: spec,
				order:       len(rules),
			})
		}
	}

	return rules
}

func inlineStyles(doc *svgdoc.Document) {
	var css strings.Builder
	for _, id := range doc.Elements("style") {
		css.WriteString(doc.Text(id))
		css.WriteString("\n")
	}

	rules := parseRules(css.String())
	if len(rules) == 0 {
		return
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].specificity < rules[j].specificity
	})

	for id := 0; id < doc.Len(); id++ {
		n := doc.Node(id)
		if n.Kind != svgdoc.ElementNode {
			continue
		}

		classValue, ok := doc.Attr(id, "class")
		if !ok {
			continue
		}
		classes := strings.Fields(classValue)

		var decls []string
		for _, r := range rules {
			if r.matches(n.Name.Local, classes) {
				decls = append(decls, strings.TrimSuffix(r.decls, ";"))
			}
		}
		if own, ok := doc.Attr(id, "style"); ok && strings.TrimSpace(own) != "" {
			decls = append(decls, strings.TrimSuffix(strings.TrimSpace(own), ";"))
		}

		doc.RemoveAttr(id, "class")
		if len(decls) > 0 {
			doc.SetAttr(id, "style", strings.Join(decls, ";"))
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}
