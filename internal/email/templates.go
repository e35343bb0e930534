package email

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/inkpress/inkpress/internal/domain"
)

var campaignTmpl = template.Must(template.New("campaign").Parse(`<html>
<body style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>{{.Subject}}</h2>
  <div>{{.Content}}</div>
  <hr>
  <p style="color: #888; font-size: 12px;">
    You received this because you subscribed to our newsletter.
    <a href="{{.UnsubscribeURL}}">Unsubscribe</a>
  </p>
</body>
</html>`))

var digestTmpl = template.Must(template.New("digest").Parse(`<html>
<body style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Your weekly digest</h2>
  <p>Here is what was published this week:</p>
  {{range .Articles}}
  <div style="margin-bottom: 16px;">
    <h3><a href="{{$.BaseURL}}/articles/{{.Slug}}">{{.Title}}</a></h3>
    <p>{{.Excerpt}}</p>
  </div>
  {{else}}
  <p>Nothing new this week. Check back soon!</p>
  {{end}}
</body>
</html>`))

var notificationTmpl = template.Must(template.New("notification").Parse(`<html>
<body style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h3>{{.Title}}</h3>
  <p>{{.Message}}</p>
  {{if .Link}}<p><a href="{{.Link}}">View</a></p>{{end}}
</body>
</html>`))

type campaignData struct {
	Subject        string
	Content        template.HTML
	UnsubscribeURL string
}

type digestData struct {
	BaseURL  string
	Articles []domain.Article
}

// RenderCampaign produces the campaign body. Campaign content is authored
// as HTML by admins and passed through unescaped.
func RenderCampaign(campaign *domain.Campaign, unsubscribeURL string) (string, error) {
	var b strings.Builder
	err := campaignTmpl.Execute(&b, campaignData{
		Subject:        campaign.Subject,
		Content:        template.HTML(campaign.Content),
		UnsubscribeURL: unsubscribeURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render campaign: %w", err)
	}
	return b.String(), nil
}

func RenderDigest(baseURL string, articles []domain.Article) (string, error) {
	var b strings.Builder
	if err := digestTmpl.Execute(&b, digestData{BaseURL: baseURL, Articles: articles}); err != nil {
		return "", fmt.Errorf("failed to render digest: %w", err)
	}
	return b.String(), nil
}

func RenderNotification(n *domain.Notification) (string, error) {
	var b strings.Builder
	if err := notificationTmpl.Execute(&b, n); err != nil {
		return "", fmt.Errorf("failed to render notification: %w", err)
	}
	return b.String(), nil
}
