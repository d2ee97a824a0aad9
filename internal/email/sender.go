// Package email sends the scheduled-refresh digest: the top ranked rows of a
// result set as a small HTML table.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/hwangga/signal-app/internal/config"
	"github.com/hwangga/signal-app/internal/models"
)

const digestRows = 10

type Sender struct {
	config *config.EmailConfig
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{config: cfg}
}

// SendDigest mails the top of a result set. An empty set sends nothing.
func (s *Sender) SendDigest(rs *models.ResultSet) error {
	if rs == nil {
		return fmt.Errorf("result set cannot be nil")
	}
	if rs.IsEmpty() {
		return nil
	}

	subject := fmt.Sprintf("Signal digest - %d videos for %q (%s)",
		len(rs.Records), rs.Criteria.Keyword, rs.GeneratedAt.Format("Jan 2, 2006"))

	body, err := s.generateDigestBody(rs)
	if err != nil {
		return fmt.Errorf("failed to generate digest body: %w", err)
	}

	return s.sendViaSMTP(subject, body)
}

func (s *Sender) sendViaSMTP(subject, body string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, s.config.ToEmail, s.config.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.FromEmail, to, msg)
}

// The template is embedded rather than read from disk so the binary stays
// self-contained.
const digestTemplate = `<html>
<body style="font-family: sans-serif;">
<h2>Top videos for &ldquo;{{.Keyword}}&rdquo;</h2>
<table cellpadding="6" cellspacing="0" border="1" style="border-collapse: collapse;">
<tr><th>#</th><th>Title</th><th>Channel</th><th>Views</th><th>Subscribers</th><th>Performance</th><th>Grade</th></tr>
{{range .Records}}<tr>
<td>{{.Rank}}</td>
<td><a href="{{.WatchURL}}">{{.Title}}</a></td>
<td>{{.ChannelName}}</td>
<td>{{.ViewCount}}</td>
<td>{{.SubscriberCount}}</td>
<td>{{printf "%.0f%%" .PerformanceRatio}}</td>
<td>{{.GradeLabel}}</td>
</tr>{{end}}
</table>
<p>{{.Total}} videos ranked at {{.GeneratedAt}}.</p>
</body>
</html>`

func (s *Sender) generateDigestBody(rs *models.ResultSet) (string, error) {
	tmpl, err := template.New("digest").Parse(digestTemplate)
	if err != nil {
		return "", err
	}

	records := rs.Records
	if len(records) > digestRows {
		records = records[:digestRows]
	}

	data := struct {
		Keyword     string
		Records     []models.EnrichedRecord
		Total       int
		GeneratedAt string
	}{
		Keyword:     rs.Criteria.Keyword,
		Records:     records,
		Total:       len(rs.Records),
		GeneratedAt: rs.GeneratedAt.Format("Jan 2, 2006 15:04"),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
