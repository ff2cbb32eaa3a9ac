package generator

const (
	hangulFirst = 0xAC00
	hangulLast  = 0xD7A3
	// each initial consonant spans 21 vowels x 28 finals
	hangulFinals = 28
)

// Personalization is the display form of a student's name with the
// particles already attached.
type Personalization struct {
	FirstName string
	// NounForm is FirstName plus the topic particle, e.g. "주빈이는", "서아는".
	NounForm string
	// PossessiveForm is FirstName plus the possessive particle, e.g. "주빈이만의".
	PossessiveForm string
}

// Personalize strips the one-syllable surname from names of three or more
// characters and picks particles by the final consonant of what remains.
// Two-character names are treated as 1+1 and left untouched.
func Personalize(fullName string) Personalization {
	runes := []rune(fullName)
	firstName := fullName
	if len(runes) >= 3 {
		firstName = string(runes[1:])
	}

	topic, possessive := "는", "만의"
	if HasFinalConsonant(firstName) {
		topic, possessive = "이는", "이만의"
	}
	return Personalization{
		FirstName:      firstName,
		NounForm:       firstName + topic,
		PossessiveForm: firstName + possessive,
	}
}

// HasFinalConsonant reports whether the last character of s is a Hangul
// syllable with a jongseong. Anything outside the syllable block counts
// as no final consonant.
func HasFinalConsonant(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 {
		return false
	}
	last := runes[len(runes)-1]
	if last < hangulFirst || last > hangulLast {
		return false
	}
	return (last-hangulFirst)%hangulFinals != 0
}
