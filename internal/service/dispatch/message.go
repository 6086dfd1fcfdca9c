package dispatch

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strconv"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

const pushTitle = "Sunset Alert!"

var emailTemplate = template.Must(template.New("email").Parse(`<p>Hello,</p>
<p>A beautiful sunset is forecast today in <strong>{{.City}}</strong>!</p>
<p>Forecast quality score: <strong>{{.Score}}/100</strong>.</p>
<p>Sunset is at {{.SunsetTime}}. Find an open spot and enjoy it!</p>
`))

type messageData struct {
	City       string
	Score      string
	SunsetTime string
}

func formatScore(score float64) string {
	if score == math.Trunc(score) {
		return strconv.FormatFloat(score, 'f', 0, 64)
	}
	return strconv.FormatFloat(score, 'f', 1, 64)
}

func newMessageData(loc domain.Location, score float64, sunsetCivil string) messageData {
	return messageData{
		City:       loc.City,
		Score:      formatScore(score),
		SunsetTime: sunsetCivil,
	}
}

func buildEmail(to string, data messageData) (domain.EmailMessage, error) {
	var html bytes.Buffer
	if err := emailTemplate.Execute(&html, data); err != nil {
		return domain.EmailMessage{}, err
	}

	return domain.EmailMessage{
		To:       to,
		Subject:  fmt.Sprintf("Beautiful sunset coming up in %s! (%s/100)", data.City, data.Score),
		HTMLBody: html.String(),
		TextBody: fmt.Sprintf("A beautiful sunset is forecast today in %s at %s. Forecast quality score: %s/100.",
			data.City, data.SunsetTime, data.Score),
	}, nil
}

func buildPushPayload(data messageData) domain.PushPayload {
	return domain.PushPayload{
		Title: pushTitle,
		Body:  fmt.Sprintf("Sunset in %s at %s looks great (%s/100).", data.City, data.SunsetTime, data.Score),
	}
}
