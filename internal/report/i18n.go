package report

import (
	"golang.org/x/text/language"
)

// Supported report locales. The first entry is the fallback.
var supported = []language.Tag{
	language.English,
	language.Ukrainian,
	language.German,
}

var matcher = language.NewMatcher(supported)

// Messages is the localized text of a report and of the report endpoint.
type Messages struct {
	Title       string
	ChartTitle  string
	NewsList    string
	Categories  string
	Count       string
	Subject     string
	Body        string
	NoData      string
	RenderError string
	Sent        string
	SendError   string
}

var catalog = map[string]Messages{
	"en": {
		Title:       "Report for %s",
		ChartTitle:  "News distribution by category",
		NewsList:    "News list",
		Categories:  "Categories",
		Count:       "Number of news",
		Subject:     "Report for the selected date",
		Body:        "The news report for %s is attached.",
		NoData:      "No data for this date.",
		RenderError: "Failed to create PDF.",
		Sent:        "Report sent!",
		SendError:   "Failed to send the report.",
	},
	"uk": {
		Title:       "Звіт за %s",
		ChartTitle:  "Графік розподілу новин",
		NewsList:    "Список новин",
		Categories:  "Категорії",
		Count:       "Кількість новин",
		Subject:     "Звіт за обрану дату",
		Body:        "Звіт новин за %s у вкладенні.",
		NoData:      "Немає даних за цю дату.",
		RenderError: "Не вдалося створити PDF.",
		Sent:        "Звіт надіслано!",
		SendError:   "Не вдалося надіслати звіт.",
	},
	"de": {
		Title:       "Bericht für %s",
		ChartTitle:  "Verteilung der Nachrichten nach Kategorie",
		NewsList:    "Nachrichtenliste",
		Categories:  "Kategorien",
		Count:       "Anzahl der Nachrichten",
		Subject:     "Bericht für das ausgewählte Datum",
		Body:        "Der Nachrichtenbericht für %s ist angehängt.",
		NoData:      "Keine Daten für dieses Datum.",
		RenderError: "PDF konnte nicht erstellt werden.",
		Sent:        "Bericht gesendet!",
		SendError:   "Bericht konnte nicht gesendet werden.",
	},
}

// MatchLocale picks the best supported locale for an Accept-Language header.
func MatchLocale(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return "en"
	}
	_, index, _ := matcher.Match(tags...)
	base, _ := supported[index].Base()
	return base.String()
}

// Localize returns the messages of locale, falling back to English.
func Localize(locale string) Messages {
	if m, ok := catalog[locale]; ok {
		return m
	}
	return catalog["en"]
}
