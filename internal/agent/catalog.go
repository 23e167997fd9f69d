package agent

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Voice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Languages lists the locales the speech provider supports.
var Languages = []Language{
	{Code: "hi-IN", Name: "Hindi (हिंदी)"},
	{Code: "en-IN", Name: "English (Indian)"},
	{Code: "ta-IN", Name: "Tamil (தமிழ்)"},
	{Code: "te-IN", Name: "Telugu (తెలుగు)"},
	{Code: "bn-IN", Name: "Bengali (বাংলা)"},
	{Code: "mr-IN", Name: "Marathi (मराठी)"},
	{Code: "gu-IN", Name: "Gujarati (ગુજરાતી)"},
	{Code: "kn-IN", Name: "Kannada (ಕನ್ನಡ)"},
	{Code: "ml-IN", Name: "Malayalam (മലയാളം)"},
	{Code: "pa-IN", Name: "Punjabi (ਪੰਜਾਬੀ)"},
	{Code: "or-IN", Name: "Odia (ଓଡ଼ିଆ)"},
	{Code: LanguageAuto, Name: "Auto-detect"},
}

// Voices lists the speakers compatible with the bulbul:v2 synthesis model.
var Voices = []Voice{
	{ID: "arya", Name: "Arya (Male)"},
	{ID: "abhilash", Name: "Abhilash (Male)"},
	{ID: "karun", Name: "Karun (Male)"},
	{ID: "hitesh", Name: "Hitesh (Male)"},
	{ID: "anushka", Name: "Anushka (Female)"},
	{ID: "manisha", Name: "Manisha (Female)"},
	{ID: "vidya", Name: "Vidya (Female)"},
}

func KnownVoice(id string) bool {
	for _, v := range Voices {
		if v.ID == id {
			return true
		}
	}
	return false
}
