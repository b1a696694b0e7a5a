package standings

import (
	"fmt"
	"standings/lib/textutil"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DivisionSelector matches the options of the division picker on a scope's
// index page.
const DivisionSelector = "select[name=division] option"

// ExtractCodes lists the divisions offered by a scope's index page, in page
// order. Options without a value (placeholders) and repeated codes are
// skipped.
func ExtractCodes(raw string) ([]DivisionCode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse index page: %w", err)
	}

	seen := map[string]struct{}{}
	var codes []DivisionCode
	doc.Find(DivisionSelector).Each(func(_ int, option *goquery.Selection) {
		code := strings.TrimSpace(option.AttrOr("value", ""))
		if code == "" {
			return
		}
		if _, ok := seen[code]; ok {
			return
		}
		seen[code] = struct{}{}

		title := textutil.CollapseWhitespace(option.Text())
		title = strings.TrimPrefix(title, code)
		title = strings.TrimSpace(strings.TrimLeft(title, " -:"))

		codes = append(codes, DivisionCode{Code: code, Title: title})
	})

	return codes, nil
}

// RestrictCodes keeps only the codes named in allowed (ignoring case), in
// their original order. An empty allowed list keeps everything.
func RestrictCodes(codes []DivisionCode, allowed []string) []DivisionCode {
	if len(allowed) == 0 {
		return codes
	}
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[strings.ToUpper(strings.TrimSpace(a))] = struct{}{}
	}
	var out []DivisionCode
	for _, c := range codes {
		if _, ok := set[strings.ToUpper(c.Code)]; ok {
			out = append(out, c)
		}
	}
	return out
}
