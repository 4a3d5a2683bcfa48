package device

import (
	"regexp"
	"strings"
)

type browserRule struct {
	name     string
	keywords keywordSet
	excludes keywordSet
	version  *regexp.Regexp
}

func (r browserRule) match(lowerUA string) bool {
	return r.keywords.in(lowerUA) && !r.excludes.in(lowerUA)
}

// Checked in order: Chromium derivatives before Chrome, Chrome before Safari.
var browserRules = []browserRule{
	{name: BrowserEdge, keywords: keywordSet{"edg/", "edge/", "edga/", "edgios/"}, version: regexp.MustCompile(`(?:edge|edg|edga|edgios)/([\d.]+)`)},
	{name: BrowserSamsung, keywords: keywordSet{"samsungbrowser"}, version: regexp.MustCompile(`samsungbrowser/([\d.]+)`)},
	{name: BrowserOpera, keywords: keywordSet{"opr/", "opera"}, version: regexp.MustCompile(`(?:opr|version|opera)[/ ]([\d.]+)`)},
	{name: BrowserYandex, keywords: keywordSet{"yabrowser"}, version: regexp.MustCompile(`yabrowser/([\d.]+)`)},
	{name: BrowserVivaldi, keywords: keywordSet{"vivaldi"}, version: regexp.MustCompile(`vivaldi/([\d.]+)`)},
	{name: BrowserFirefox, keywords: keywordSet{"firefox/", "fxios/"}, excludes: keywordSet{"seamonkey"}, version: regexp.MustCompile(`(?:firefox|fxios)/([\d.]+)`)},
	{name: BrowserChrome, keywords: keywordSet{"chrome/", "crios/"}, excludes: keywordSet{"chromium/"}, version: regexp.MustCompile(`(?:chrome|crios)/([\d.]+)`)},
	{name: BrowserChromium, keywords: keywordSet{"chromium/"}, version: regexp.MustCompile(`chromium/([\d.]+)`)},
	{name: BrowserIE, keywords: keywordSet{"msie ", "trident/"}, version: regexp.MustCompile(`(?:msie |rv:)([\d.]+)`)},
	{name: BrowserSafari, keywords: keywordSet{"safari/"}, excludes: keywordSet{"android"}, version: regexp.MustCompile(`version/([\d.]+)`)},
	{name: BrowserAndroid, keywords: keywordSet{"android"}, version: regexp.MustCompile(`version/([\d.]+)`)},
}

const maxVersionLength = 20

func parseBrowser(lowerUA string) (name, version string) {
	for _, r := range browserRules {
		if !r.match(lowerUA) {
			continue
		}
		if m := r.version.FindStringSubmatch(lowerUA); len(m) > 1 {
			version = m[1]
			if len(version) > maxVersionLength {
				version = strings.TrimRight(version[:maxVersionLength], ".")
			}
		}
		return r.name, version
	}
	return BrowserUnknown, ""
}
