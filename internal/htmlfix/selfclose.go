package htmlfix

import (
	"regexp"
	"slices"
	"strings"
)

// selfClosedTag matches <tagname attrs/> where attrs is non-empty.
// Tags without attributes (<br/>) and tags whose attributes contain '>' are
// left alone.
var selfClosedTag = regexp.MustCompile(`<([^ >]+)\s+([^>]+)/>`)

// RepairSelfClosingTags rewrites every self-closed tag whose name is in expand
// as an explicit open/close pair, and leaves every other self-closed tag
// self-closed. Tag names are compared case-insensitively.
//
//	<div class="x"/>  ->  <div class="x"></div>
//	<img src="y"/>    ->  <img src="y"/>
//
// The result contains no self-closed tag from expand, so applying the
// function again returns the same string.
func RepairSelfClosingTags(html string, expand []string) string {
	if len(expand) == 0 {
		return html
	}

	return selfClosedTag.ReplaceAllStringFunc(html, func(match string) string {
		m := selfClosedTag.FindStringSubmatch(match)
		tag, attrs := m[1], m[2]
		if !slices.ContainsFunc(expand, func(name string) bool {
			return strings.EqualFold(name, tag)
		}) {
			return "<" + tag + " " + attrs + "/>"
		}
		return "<" + tag + " " + attrs + "></" + tag + ">"
	})
}
