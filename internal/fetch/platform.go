package fetch

import (
	"net/url"
	"strings"
)

// Platform identifies a known job-board platform by hostname. Recognized
// platforms get extra noise selectors stripped during cleaning, since their
// application forms and disclosure sections dwarf the actual posting text.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS.
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS.
	PlatformLever Platform = "lever"
	// PlatformLinkedIn is LinkedIn's job pages.
	PlatformLinkedIn Platform = "linkedin"
	// PlatformUnknown is any unrecognized host.
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)
	switch {
	case strings.Contains(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.Contains(host, "lever.co"):
		return PlatformLever
	case strings.Contains(host, "linkedin.com"):
		return PlatformLinkedIn
	default:
		return PlatformUnknown
	}
}

// PlatformNoiseSelectors returns extra noise selectors for a platform, or
// the empty string when none apply.
func PlatformNoiseSelectors(platform Platform) string {
	switch platform {
	case PlatformGreenhouse:
		return ".application--wrapper, #application-form, .voluntary-self-id, .eeo-statement, .post-apply"
	case PlatformLever:
		return ".apply-section, .lever-application-form, .posting-apply"
	case PlatformLinkedIn:
		return ".global-nav, .sign-in-modal, .top-card-layout__cta-container, .similar-jobs"
	default:
		return ""
	}
}
