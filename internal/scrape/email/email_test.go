package email

import (
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"h1bhunt-engine/internal/filter"
	"h1bhunt-engine/internal/scrape/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

const alertHTML = `<html><body>
<table><tr><td>
  <a href="https://www.linkedin.com/comm/jobs/view/111/?trackingId=abc"><img src="logo.png"></a>
  <a href="https://www.linkedin.com/comm/jobs/view/111/?trackingId=abc">Senior DevOps Engineer</a>
  <p>Acme Corp · Austin, TX</p>
  <p>$150K - $180K / year</p>
  <p>Actively recruiting</p>
</td></tr></table>
<table><tr><td>
  <a href="https://www.google.com/url?q=https://www.linkedin.com/jobs/view/222">Site Reliability Engineer Easy Apply</a>
  <p>Globex · Remote</p>
</td></tr></table>
<table><tr><td>
  <a href="https://www.linkedin.com/comm/jobs/view/333">See all jobs</a>
</td></tr></table>
<a href="https://www.linkedin.com/comm/jobs/alerts">Manage alerts</a>
</body></html>`

func alertMessage() []byte {
	return []byte(fmt.Sprintf(`From: LinkedIn Job Alerts <jobalerts-noreply@linkedin.com>
Subject: =?UTF-8?Q?Your_job_alert_for_devops?=
Message-Id: <abc@linkedin.com>
Content-Type: multipart/alternative; boundary="BOUNDARY"

--BOUNDARY
Content-Type: text/plain; charset=UTF-8

Senior DevOps Engineer https://www.linkedin.com/comm/jobs/view/111
--BOUNDARY
Content-Type: text/html; charset=UTF-8
Content-Transfer-Encoding: base64

%s
--BOUNDARY--
`, base64.StdEncoding.EncodeToString([]byte(alertHTML))))
}

func TestDecode(t *testing.T) {
	d := Decode(alertMessage(), "fallback")
	assert.Equal(t, "<abc@linkedin.com>", d.MessageID)
	assert.Equal(t, "Your job alert for devops", d.Subject)
	assert.Contains(t, d.From, "jobalerts-noreply@linkedin.com")
	assert.Contains(t, d.Text, "Senior DevOps Engineer")
	assert.Contains(t, d.HTML, "Globex · Remote")

	plain := Decode([]byte("not a message"), "fallback")
	assert.Equal(t, "fallback", plain.Subject)
	assert.Equal(t, "not a message", plain.Text)

	assert.Equal(t, "x", Decode(nil, "x").Subject)
}

func TestIsLinkedInAlert(t *testing.T) {
	assert.True(t, IsLinkedInAlert("jobalerts-noreply@linkedin.com", "", ""))
	assert.True(t, IsLinkedInAlert("someone@x.com", "New Job Alert", "see linkedin.com/comm/jobs/view/1"))
	assert.False(t, IsLinkedInAlert("someone@x.com", "LinkedIn digest", "no job links"))
	assert.False(t, IsLinkedInAlert("someone@x.com", "Lunch", "linkedin.com/jobs/view/1"))
}

func TestParseLinkedInAlert(t *testing.T) {
	got, err := ParseLinkedInAlert(alertHTML)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, Posting{
		JobID:    "111",
		Title:    "Senior DevOps Engineer",
		Company:  "Acme Corp",
		Location: "Austin, TX",
		Salary:   "$150K - $180K / year",
		URL:      "https://www.linkedin.com/jobs/view/111",
	}, got[0])

	assert.Equal(t, "Site Reliability Engineer", got[1].Title)
	assert.Equal(t, "Globex", got[1].Company)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/222", got[1].URL)
}

func TestJobsFromMessage(t *testing.T) {
	env := types.Env{Now: func() time.Time { return now }}
	m := Message{UID: 7, Raw: alertMessage(), Date: now.Add(-3 * time.Hour)}

	s := New(Config{SubjectAny: []string{"job alert"}}, env)
	jobs, matched := s.jobsFromMessage(m, now)
	require.True(t, matched)
	require.Len(t, jobs, 2)

	j := jobs[0]
	assert.Equal(t, Source, j.Source)
	assert.Equal(t, "3 hours ago", j.PostingDate)
	assert.True(t, filter.IsWithin24Hours(j.PostingDate, now))
	assert.Contains(t, j.Description, "Acme Corp · Austin, TX")
	assert.Equal(t, "Globex", jobs[1].Company)

	other := New(Config{SubjectAny: []string{"newsletter"}}, env)
	_, matched = other.jobsFromMessage(m, now)
	assert.False(t, matched)
}

func TestHostPort(t *testing.T) {
	assert.Equal(t, "imap.gmail.com:993", hostPort("imap.gmail.com", 0))
	assert.Equal(t, "mail.x:143", hostPort("mail.x", 143))
	assert.Equal(t, "mail.x:1993", hostPort("mail.x:1993", 0))
	assert.Equal(t, "imap.gmail.com", TLSConfigFor("imap.gmail.com:993").ServerName)
}
