package pii

import "strings"

const placeholder = "***"

// MaskSender hides most of a sender identity so request logs never carry a
// full phone number or email address. Email addresses keep their first
// character and domain, anything else keeps its last four characters.
func MaskSender(identity string) string {
	s := strings.TrimSpace(identity)
	if s == "" {
		return ""
	}
	if at := strings.IndexByte(s, '@'); at >= 0 {
		local := s[:at]
		if len(local) <= 1 {
			return placeholder + s[at:]
		}
		return local[:1] + placeholder + s[at:]
	}
	if len(s) <= 4 {
		return placeholder
	}
	return placeholder + s[len(s)-4:]
}
