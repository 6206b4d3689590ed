package browser

import (
	"net/url"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// resourceTypes maps config names to protocol resource types.
var resourceTypes = map[string]proto.NetworkResourceType{
	"Image":      proto.NetworkResourceTypeImage,
	"Stylesheet": proto.NetworkResourceTypeStylesheet,
	"Font":       proto.NetworkResourceTypeFont,
	"Media":      proto.NetworkResourceTypeMedia,
	"Script":     proto.NetworkResourceTypeScript,
}

// trackerDomains are ad and analytics hosts seen on storefront result
// pages. Blocking them speeds up rendering without touching listing markup.
var trackerDomains = map[string]struct{}{
	"doubleclick.net":       {},
	"googlesyndication.com": {},
	"googleadservices.com":  {},
	"google-analytics.com":  {},
	"googletagmanager.com":  {},
	"amazon-adsystem.com":   {},
	"facebook.net":          {},
	"criteo.com":            {},
	"criteo.net":            {},
	"adnxs.com":             {},
	"adsrvr.org":            {},
	"hotjar.com":            {},
	"mmstat.com":            {},
	"scorecardresearch.com": {},
}

// hijackRules decides which requests a session drops.
type hijackRules struct {
	types    map[proto.NetworkResourceType]struct{}
	blockAds bool
}

func newHijackRules(blockedTypes []string, blockAds bool) hijackRules {
	types := make(map[proto.NetworkResourceType]struct{}, len(blockedTypes))
	for _, name := range blockedTypes {
		if rt, ok := resourceTypes[name]; ok {
			types[rt] = struct{}{}
		}
	}
	return hijackRules{types: types, blockAds: blockAds}
}

func (r hijackRules) empty() bool {
	return len(r.types) == 0 && !r.blockAds
}

// blocks reports whether a request of type rt to rawURL is dropped.
func (r hijackRules) blocks(rt proto.NetworkResourceType, rawURL string) bool {
	if _, ok := r.types[rt]; ok {
		return true
	}
	if !r.blockAds {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return isTrackerHost(u.Hostname())
}

// isTrackerHost checks host and each parent domain against trackerDomains.
func isTrackerHost(host string) bool {
	host = strings.ToLower(host)
	for host != "" {
		if _, ok := trackerDomains[host]; ok {
			return true
		}
		idx := strings.IndexByte(host, '.')
		if idx < 0 {
			break
		}
		host = host[idx+1:]
	}
	return false
}

// mountHijack installs the request filter on page. It returns nil when the
// rules block nothing; otherwise the caller must Stop the router.
func mountHijack(page *rod.Page, rules hijackRules) *rod.HijackRouter {
	if rules.empty() {
		return nil
	}

	router := page.HijackRequests()
	_ = router.Add("*", "", func(ctx *rod.Hijack) {
		if rules.blocks(ctx.Request.Type(), ctx.Request.URL().String()) {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// Run blocks until Stop.
	go router.Run()

	return router
}
