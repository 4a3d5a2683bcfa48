package device

import "strings"

type keywordSet []string

func (k keywordSet) in(s string) bool {
	for _, kw := range k {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

var (
	botKeywords     = keywordSet{"bot", "spider", "crawler", "slurp", "lighthouse", "facebookexternalhit", "headlesschrome", "monitor", "scraper"}
	tvKeywords      = keywordSet{"smart-tv", "smarttv", "googletv", "appletv", "android tv", "webos", "tizen", "hbbtv"}
	consoleKeywords = keywordSet{"playstation", "xbox", "nintendo"}
	tabletKeywords  = keywordSet{"ipad", "tablet", "kindle", "silk", "playbook"}
	mobileKeywords  = keywordSet{"mobile", "iphone", "ipod", "windows phone", "iemobile", "blackberry", "opera mini"}
	desktopKeywords = keywordSet{"windows", "macintosh", "mac os x", "linux", "x11", "cros"}
)

type osRule struct {
	name     string
	keywords keywordSet
}

// Order matters: iOS user agents mention "mac os x" and Android ones "linux".
var osRules = []osRule{
	{OSWindowsPhone, keywordSet{"windows phone"}},
	{OSWindows, keywordSet{"windows"}},
	{OSiOS, keywordSet{"iphone", "ipad", "ipod"}},
	{OSAndroid, keywordSet{"android"}},
	{OSMacOS, keywordSet{"macintosh", "mac os x"}},
	{OSChromeOS, keywordSet{"cros", "chromeos"}},
	{OSLinux, keywordSet{"linux", "x11", "ubuntu", "fedora"}},
}
