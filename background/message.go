package background

import (
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/guardknight/guardknight-api/schema"
	"github.com/guardknight/guardknight-api/utils"
)

// OneSignalLanguageCode is a mapping between onesignal language code and i18n language code
var OneSignalLanguageCode = map[string]string{
	"zh-Hant": "zh_tw",
	"en":      "en",
}

var (
	volunteerAlertHeading = &i18n.Message{
		ID:    "volunteer_alert_heading",
		Other: "{{.Kind}} nearby",
	}
	volunteerAlertContent = &i18n.Message{
		ID:    "volunteer_alert_content",
		Other: "Someone {{.Distance}} km away needs help at {{.Address}}.",
	}
	volunteerAlertContentNoDistance = &i18n.Message{
		ID:    "volunteer_alert_content_no_distance",
		Other: "Someone needs help at {{.Address}}.",
	}
	crowdIssueHeading = &i18n.Message{
		ID:    "crowd_issue_heading",
		Other: "Crowd issue reported",
	}
	crowdIssueContent = &i18n.Message{
		ID:    "crowd_issue_content",
		Other: "{{.Type}} reported at {{.Latitude}}, {{.Longitude}}: {{.Description}}",
	}
)

// languageCode returns the onesignal language code closest to lang.
func languageCode(lang string) string {
	if utils.MatchLanguage(lang) == language.TraditionalChinese {
		return "zh-Hant"
	}
	return "en"
}

func localize(loc *i18n.Localizer, message *i18n.Message, data map[string]interface{}) string {
	s, err := loc.Localize(&i18n.LocalizeConfig{
		DefaultMessage: message,
		TemplateData:   data,
	})
	if err != nil {
		log.WithFields(log.Fields{
			"prefix":     logPrefix,
			"message_id": message.ID,
			"error":      err,
		}).Warn("localize message")
	}
	return s
}

func localizeKind(loc *i18n.Localizer, kind schema.AlertKind) string {
	s, err := loc.Localize(&i18n.LocalizeConfig{
		MessageID: "alert_kind_" + string(kind),
	})
	if err != nil || s == "" {
		return string(kind)
	}
	return s
}

// alertTexts builds the headings and contents of a volunteer alert for every
// supported language, keyed by onesignal language code.
func alertTexts(summary schema.AlertSummary) (map[string]string, map[string]string) {
	headings := make(map[string]string, len(OneSignalLanguageCode))
	contents := make(map[string]string, len(OneSignalLanguageCode))

	for code, lang := range OneSignalLanguageCode {
		loc := utils.NewLocalizer(lang)

		headings[code] = localize(loc, volunteerAlertHeading, map[string]interface{}{
			"Kind": localizeKind(loc, summary.Kind),
		})

		data := map[string]interface{}{
			"Address":  summary.Address,
			"Distance": fmt.Sprintf("%.1f", summary.DistanceKm),
		}
		if summary.DistanceKm > 0 {
			contents[code] = localize(loc, volunteerAlertContent, data)
		} else {
			contents[code] = localize(loc, volunteerAlertContentNoDistance, data)
		}
	}

	return headings, contents
}

func alertData(summary schema.AlertSummary) map[string]interface{} {
	return map[string]interface{}{
		"notification_type": "EMERGENCY_ALERT",
		"alert_id":          summary.AlertID,
		"type":              string(summary.Kind),
		"latitude":          summary.Latitude,
		"longitude":         summary.Longitude,
		"distance":          summary.DistanceKm,
	}
}

func crowdIssueTexts(issue schema.CrowdIssue) (map[string]string, map[string]string) {
	headings := make(map[string]string, len(OneSignalLanguageCode))
	contents := make(map[string]string, len(OneSignalLanguageCode))

	for code, lang := range OneSignalLanguageCode {
		loc := utils.NewLocalizer(lang)
		headings[code] = localize(loc, crowdIssueHeading, nil)
		contents[code] = localize(loc, crowdIssueContent, map[string]interface{}{
			"Type":        issue.Type,
			"Description": issue.Description,
			"Latitude":    fmt.Sprintf("%.4f", issue.Location.Latitude),
			"Longitude":   fmt.Sprintf("%.4f", issue.Location.Longitude),
		})
	}

	return headings, contents
}
