package policy

// commonEnglish are short uppercase words that read as plain English, never
// as abbreviations needing a Korean gloss
var commonEnglish = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"THE", "AND", "FOR", "ARE", "BUT", "NOT", "YOU", "ALL", "CAN", "HAD",
		"HER", "WAS", "ONE", "OUR", "OUT", "HAS", "HIS", "HOW", "ITS", "MAY",
		"NEW", "NOW", "OLD", "SEE", "WAY", "BOY", "DID", "GET", "HIM", "LET",
		"PUT", "SAY", "SHE", "TOO", "USE", "TOP", "END", "SET", "ADD",
	} {
		commonEnglish[w] = struct{}{}
	}
}

// IsCommonEnglish reports whether s is on the common-English exclusion list
func IsCommonEnglish(s string) bool {
	_, ok := commonEnglish[s]
	return ok
}
