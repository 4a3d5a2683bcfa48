// Package device derives the browser, operating system and device class of
// an analytics client from its User-Agent header.
//
// Detection is keyword based and intentionally shallow: it is good enough to
// segment traffic, not to fingerprint clients.
//
//	info := device.Parse(r.UserAgent())
//	props := info.Properties() // $browser, $browser_version, $os, $device_type
package device
