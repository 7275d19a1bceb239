package tts

import (
	"sort"
	"toolbox-backend/lib/countries"
)

var languageNames = map[string]string{
	"af": "Afrikaans", "am": "Amharic", "ar": "Arabic", "bg": "Bulgarian",
	"bn": "Bengali", "bs": "Bosnian", "ca": "Catalan", "cs": "Czech",
	"cy": "Welsh", "da": "Danish", "de": "German", "el": "Greek",
	"en": "English", "es": "Spanish", "et": "Estonian", "eu": "Basque",
	"fi": "Finnish", "fr": "French", "fr-CA": "French (Canada)",
	"gl": "Galician", "gu": "Gujarati", "ha": "Hausa", "hi": "Hindi",
	"hr": "Croatian", "hu": "Hungarian", "id": "Indonesian", "is": "Icelandic",
	"it": "Italian", "iw": "Hebrew", "ja": "Japanese", "jw": "Javanese",
	"km": "Khmer", "kn": "Kannada", "ko": "Korean", "la": "Latin",
	"lt": "Lithuanian", "lv": "Latvian", "ml": "Malayalam", "mr": "Marathi",
	"ms": "Malay", "my": "Myanmar (Burmese)", "ne": "Nepali", "nl": "Dutch",
	"no": "Norwegian", "pa": "Punjabi (Gurmukhi)", "pl": "Polish",
	"pt": "Portuguese (Brazil)", "pt-PT": "Portuguese (Portugal)",
	"ro": "Romanian", "ru": "Russian", "si": "Sinhala", "sk": "Slovak",
	"sq": "Albanian", "sr": "Serbian", "su": "Sundanese", "sv": "Swedish",
	"sw": "Swahili", "ta": "Tamil", "te": "Telugu", "th": "Thai",
	"tl": "Filipino", "tr": "Turkish", "uk": "Ukrainian", "ur": "Urdu",
	"vi": "Vietnamese", "yue": "Cantonese", "zh-CN": "Chinese (Simplified)",
	"zh-TW": "Chinese (Traditional)", "zh": "Chinese (Mandarin)",
}

// languageCountry picks the country whose flag represents a language.
var languageCountry = map[string]string{
	"af": "ZA", "ar": "SA", "bn": "BD", "bs": "BA", "ca": "ES",
	"cs": "CZ", "da": "DK", "de": "DE", "el": "GR", "en": "GB",
	"es": "ES", "et": "EE", "fi": "FI", "fr": "FR", "fr-CA": "CA",
	"gu": "IN", "hi": "IN", "hr": "HR", "hu": "HU", "id": "ID",
	"is": "IS", "it": "IT", "ja": "JP", "jw": "ID", "km": "KH",
	"kn": "IN", "ko": "KR", "la": "VA", "ml": "IN", "mr": "IN",
	"my": "MM", "ne": "NP", "nl": "NL", "no": "NO", "pl": "PL",
	"pt": "BR", "pt-PT": "PT", "ro": "RO", "ru": "RU", "si": "LK",
	"sk": "SK", "sq": "AL", "sr": "RS", "su": "ID", "sv": "SE",
	"sw": "KE", "ta": "IN", "te": "IN", "th": "TH", "tr": "TR",
	"uk": "UA", "ur": "PK", "vi": "VN", "zh-CN": "CN", "zh-TW": "TW",
	"zh": "CN", "yue": "HK",
}

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

type Accent struct {
	Tld  string `json:"tld"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

var accentTable = map[string][]Accent{
	"en": {
		{Tld: "com.au", Name: "English (Australia)"},
		{Tld: "co.uk", Name: "English (United Kingdom)"},
		{Tld: "us", Name: "English (United States)"},
		{Tld: "ca", Name: "English (Canada)"},
		{Tld: "co.in", Name: "English (India)"},
		{Tld: "ie", Name: "English (Ireland)"},
		{Tld: "co.za", Name: "English (South Africa)"},
		{Tld: "com.ng", Name: "English (Nigeria)"},
	},
	"fr": {
		{Tld: "ca", Name: "French (Canada)"},
		{Tld: "fr", Name: "French (France)"},
	},
	"pt": {
		{Tld: "com.br", Name: "Portuguese (Brazil)"},
		{Tld: "pt", Name: "Portuguese (Portugal)"},
	},
	"es": {
		{Tld: "com.mx", Name: "Spanish (Mexico)"},
		{Tld: "es", Name: "Spanish (Spain)"},
		{Tld: "us", Name: "Spanish (United States)"},
	},
}

var tldCountry = map[string]string{
	"com.au": "AU", "co.uk": "GB", "us": "US", "ca": "CA",
	"co.in": "IN", "ie": "IE", "co.za": "ZA", "com.ng": "NG",
	"fr": "FR", "com.br": "BR", "pt": "PT", "com.mx": "MX",
	"es": "ES", "com": "US",
}

// Languages lists every supported language sorted by code.
func Languages() []Language {
	out := make([]Language, 0, len(languageNames))
	for code, name := range languageNames {
		out = append(out, Language{
			Code: code,
			Name: name,
			Flag: countries.Flag(languageCountry[code]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Code < out[j].Code
	})
	return out
}

// Accents lists the regional voices of the languages that have them.
func Accents() map[string][]Accent {
	out := make(map[string][]Accent, len(accentTable))
	for lang, list := range accentTable {
		accents := make([]Accent, len(list))
		for i, a := range list {
			a.Flag = countries.Flag(tldCountry[a.Tld])
			accents[i] = a
		}
		out[lang] = accents
	}
	return out
}
