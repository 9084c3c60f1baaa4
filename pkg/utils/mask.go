package utils

// MaskSensitiveString hides the middle of a secret, keeping a short prefix and
// suffix for identification. Short secrets are fully masked.
func MaskSensitiveString(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
