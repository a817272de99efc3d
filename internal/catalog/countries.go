package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Country is an ISO 3166 alpha-2 code with its localized name.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// IsCountry reports whether code is an assigned ISO 3166 alpha-2 country code.
func IsCountry(code string) bool {
	if len(code) != 2 {
		return false
	}
	r, err := language.ParseRegion(code)
	if err != nil {
		return false
	}
	return r.IsCountry() && !r.IsPrivateUse() && r.String() == strings.ToUpper(code)
}

// Countries returns every country named in the given locale, sorted by name.
func Countries(locale string) []Country {
	namer := display.Regions(language.Make(locale))

	var out []Country
	for a := 'A'; a <= 'Z'; a++ {
		for b := 'A'; b <= 'Z'; b++ {
			code := string([]rune{a, b})
			if !IsCountry(code) {
				continue
			}
			name := namer.Name(language.MustParseRegion(code))
			if name == "" {
				continue
			}
			out = append(out, Country{Code: code, Name: name})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// SearchCountries filters countries whose name or code contains term,
// case-insensitively. An empty term returns the full list.
func SearchCountries(countries []Country, term string) []Country {
	value := strings.ToLower(strings.TrimSpace(term))
	if value == "" {
		return countries
	}

	var out []Country
	for _, c := range countries {
		if strings.Contains(strings.ToLower(c.Name), value) ||
			strings.Contains(strings.ToLower(c.Code), value) {
			out = append(out, c)
		}
	}
	return out
}

// Flag returns the regional indicator emoji for a country code.
func Flag(code string) string {
	if code == "" {
		return ""
	}
	var b strings.Builder
	for _, c := range strings.ToUpper(code) {
		b.WriteRune(127397 + c)
	}
	return b.String()
}
