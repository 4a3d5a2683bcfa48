package device

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Device classes.
const (
	TypeDesktop = "desktop"
	TypeMobile  = "mobile"
	TypeTablet  = "tablet"
	TypeTV      = "tv"
	TypeConsole = "console"
	TypeBot     = "bot"
	TypeUnknown = "unknown"
)

// Operating systems.
const (
	OSWindows      = "Windows"
	OSWindowsPhone = "Windows Phone"
	OSMacOS        = "Mac OS X"
	OSiOS          = "iOS"
	OSAndroid      = "Android"
	OSChromeOS     = "Chrome OS"
	OSLinux        = "Linux"
	OSUnknown      = ""
)

// Browsers.
const (
	BrowserChrome   = "Chrome"
	BrowserChromium = "Chromium"
	BrowserFirefox  = "Firefox"
	BrowserSafari   = "Safari"
	BrowserEdge     = "Microsoft Edge"
	BrowserOpera    = "Opera"
	BrowserSamsung  = "Samsung Internet"
	BrowserYandex   = "Yandex"
	BrowserVivaldi  = "Vivaldi"
	BrowserIE       = "Internet Explorer"
	BrowserAndroid  = "Android Mobile"
	BrowserUnknown  = ""
)

// Info is what a User-Agent says about the client.
type Info struct {
	UserAgent      string
	Browser        string
	BrowserVersion string
	OS             string
	Type           string
}

// Parse inspects ua. An empty ua yields TypeUnknown and no browser or OS.
func Parse(ua string) Info {
	info := Info{UserAgent: ua, Type: TypeUnknown}

	lower := strings.ToLower(strings.TrimSpace(ua))
	if lower == "" {
		return info
	}

	info.Type = parseType(lower)
	info.OS = parseOS(lower)
	info.Browser, info.BrowserVersion = parseBrowser(lower)
	return info
}

// IsBot reports whether the client identified itself as automated.
func (i Info) IsBot() bool {
	return i.Type == TypeBot
}

// Properties returns the event properties describing the client. Unknown
// values are omitted; the device type is title cased ("Mobile").
func (i Info) Properties() map[string]any {
	props := make(map[string]any, 5)
	if i.UserAgent != "" {
		props["$raw_user_agent"] = i.UserAgent
	}
	if i.Browser != "" {
		props["$browser"] = i.Browser
	}
	if i.BrowserVersion != "" {
		props["$browser_version"] = i.BrowserVersion
	}
	if i.OS != "" {
		props["$os"] = i.OS
	}
	if i.Type != TypeUnknown && i.Type != "" {
		props["$device_type"] = cases.Title(language.English).String(i.Type)
	}
	return props
}

// parseType checks unambiguous identifiers first; Android phones carry
// "mobile" while Android tablets do not.
func parseType(lowerUA string) string {
	switch {
	case botKeywords.in(lowerUA):
		return TypeBot
	case strings.Contains(lowerUA, "ipad"):
		return TypeTablet
	case strings.Contains(lowerUA, "iphone"), strings.Contains(lowerUA, "ipod"):
		return TypeMobile
	case tvKeywords.in(lowerUA):
		return TypeTV
	case consoleKeywords.in(lowerUA):
		return TypeConsole
	case strings.Contains(lowerUA, "android"):
		if strings.Contains(lowerUA, "mobile") {
			return TypeMobile
		}
		return TypeTablet
	case tabletKeywords.in(lowerUA):
		return TypeTablet
	case mobileKeywords.in(lowerUA):
		return TypeMobile
	case desktopKeywords.in(lowerUA):
		return TypeDesktop
	default:
		return TypeUnknown
	}
}

func parseOS(lowerUA string) string {
	for _, r := range osRules {
		if r.keywords.in(lowerUA) {
			return r.name
		}
	}
	return OSUnknown
}
