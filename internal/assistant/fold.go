package assistant

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases s and strips Vietnamese diacritics so "Tạo Tài Khoản" matches "tao tai khoan"
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		out = strings.ToLower(s)
	}
	// đ is a separate letter, not a combining mark
	return letterFolder.Replace(out)
}

var letterFolder = strings.NewReplacer("đ", "d", "₫", "d")

// bankAliases maps folded spellings to the canonical bank name
var bankAliases = map[string]string{
	"acb":         "ACB",
	"vcb":         "VIETCOMBANK",
	"vietcombank": "VIETCOMBANK",
	"tcb":         "TECHCOMBANK",
	"techcombank": "TECHCOMBANK",
	"mb":          "MB",
	"mbbank":      "MB",
	"bidv":        "BIDV",
	"vpbank":      "VPBANK",
	"vpb":         "VPBANK",
	"tpbank":      "TPBANK",
	"tpb":         "TPBANK",
	"sacombank":   "SACOMBANK",
	"stb":         "SACOMBANK",
	"agribank":    "AGRIBANK",
	"vietinbank":  "VIETINBANK",
	"ctg":         "VIETINBANK",
	"momo":        "MOMO",
	"zalopay":     "ZALOPAY",
}

// CanonicalBank returns the canonical name of a known bank, or false
func CanonicalBank(name string) (string, bool) {
	key := strings.ReplaceAll(Fold(strings.TrimSpace(name)), " ", "")
	bank, ok := bankAliases[key]
	return bank, ok
}

// words splits s into its original tokens and their folded, punctuation-free forms
func words(s string) (orig, folded []string) {
	orig = strings.Fields(s)
	folded = make([]string, len(orig))
	for i, w := range orig {
		folded[i] = strings.TrimFunc(Fold(w), func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
	}
	return orig, folded
}

// findPhrase returns the index of the first token after phrase in folded, or -1
func findPhrase(folded []string, phrase string) int {
	parts := strings.Fields(phrase)
outer:
	for i := 0; i+len(parts) <= len(folded); i++ {
		for j, p := range parts {
			if folded[i+j] != p {
				continue outer
			}
		}
		return i + len(parts)
	}
	return -1
}

// findAny returns the end index of the first phrase found, or -1
func findAny(folded []string, phrases ...string) int {
	for _, p := range phrases {
		if i := findPhrase(folded, p); i >= 0 {
			return i
		}
	}
	return -1
}
