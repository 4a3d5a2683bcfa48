package sessionprops

import (
	"maps"
	"net/url"
	"strings"
)

// DirectReferrer marks traffic without a referrer.
const DirectReferrer = "$direct"

// CampaignParams are the query parameters recorded as entry properties.
var CampaignParams = []string{
	"utm_source",
	"utm_medium",
	"utm_campaign",
	"utm_content",
	"utm_term",
	"gclid",
	"fbclid",
	"msclkid",
}

// SourceFunc returns the properties describing how the current session was
// entered. It is called once per new session.
type SourceFunc func() map[string]any

// FromURL describes an entry at pageURL, reached from referrer.
// Unparsable URLs still produce the raw url and referrer.
func FromURL(pageURL, referrer string) SourceFunc {
	return func() map[string]any {
		props := map[string]any{
			"url":              pageURL,
			"referrer":         DirectReferrer,
			"referring_domain": DirectReferrer,
		}

		if u, err := url.Parse(pageURL); err == nil {
			props["host"] = u.Host
			props["pathname"] = u.Path
			query := u.Query()
			for _, name := range CampaignParams {
				if v := query.Get(name); v != "" {
					props[name] = v
				}
			}
		}

		if ref := strings.TrimSpace(referrer); ref != "" {
			props["referrer"] = ref
			if u, err := url.Parse(ref); err == nil && u.Host != "" {
				props["referring_domain"] = u.Host
			} else {
				props["referring_domain"] = ref
			}
		}

		return props
	}
}

// Static always returns a copy of props.
func Static(props map[string]any) SourceFunc {
	return func() map[string]any {
		return maps.Clone(props)
	}
}
