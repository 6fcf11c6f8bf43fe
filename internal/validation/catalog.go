package validation

// Genders lists the accepted gender values in display order.
var Genders = []string{"male", "female", "other"}

// Countries lists the accepted country codes in display order.
var Countries = []string{
	"US", "CA", "UK", "AU", "DE", "FR", "JP", "CN", "IN", "BR", "MX",
	"IT", "ES", "RU", "KR", "NL", "SE", "NO", "DK", "FI", "PH",
}

// Interests lists the selectable areas of interest in display order.
var Interests = []string{
	"math", "science", "technology", "engineering", "arts", "music",
	"literature", "history", "languages", "business", "sports",
}

var (
	genderSet   = toSet(Genders)
	countrySet  = toSet(Countries)
	interestSet = toSet(Interests)
)

func toSet(values []string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

func IsGender(s string) bool {
	_, ok := genderSet[s]
	return ok
}

func IsCountry(s string) bool {
	_, ok := countrySet[s]
	return ok
}

func IsInterest(s string) bool {
	_, ok := interestSet[s]
	return ok
}
