package email

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
)

const maxPartBytes = 8 << 20

// Decoded is the readable content of one RFC822 message.
type Decoded struct {
	MessageID string
	Subject   string
	From      string
	Text      string
	HTML      string
}

// Decode pulls the subject and the largest text/plain and text/html parts out
// of raw. Unparseable input is returned as plain text.
func Decode(raw []byte, fallbackSubject string) Decoded {
	d := Decoded{Subject: fallbackSubject}
	if len(raw) == 0 {
		return d
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		d.Text = string(raw)
		return d
	}

	d.MessageID = strings.TrimSpace(msg.Header.Get("Message-Id"))
	if s := decodeHeader(msg.Header.Get("Subject")); s != "" {
		d.Subject = s
	}
	d.From = decodeHeader(msg.Header.Get("From"))

	body, _ := io.ReadAll(io.LimitReader(msg.Body, maxPartBytes))
	d.Text, d.HTML = textParts(msg.Header.Get("Content-Type"), msg.Header.Get("Content-Transfer-Encoding"), body)
	if d.Text == "" && d.HTML == "" {
		d.Text = string(body)
	}
	return d
}

func textParts(contentType, encoding string, body []byte) (plain, html string) {
	body = decodeBody(body, encoding)

	media, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(body), ""
	}
	media = strings.ToLower(media)

	switch {
	case strings.HasPrefix(media, "multipart/"):
		if params["boundary"] == "" {
			return string(body), ""
		}
		mr := multipart.NewReader(bytes.NewReader(body), params["boundary"])
		for {
			p, err := mr.NextPart()
			if err != nil {
				break
			}
			b, _ := io.ReadAll(io.LimitReader(p, maxPartBytes))
			pl, ht := textParts(p.Header.Get("Content-Type"), p.Header.Get("Content-Transfer-Encoding"), b)
			if len(pl) > len(plain) {
				plain = pl
			}
			if len(ht) > len(html) {
				html = ht
			}
		}
		return plain, html
	case media == "text/html":
		return "", string(body)
	case strings.HasPrefix(media, "text/"):
		return string(body), ""
	}
	return "", ""
}

func decodeBody(b []byte, encoding string) []byte {
	var r io.Reader
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, bytes.NewReader(b))
	case "quoted-printable":
		r = quotedprintable.NewReader(bytes.NewReader(b))
	default:
		return b
	}
	out, err := io.ReadAll(io.LimitReader(r, maxPartBytes))
	if err != nil && len(out) == 0 {
		return b
	}
	return out
}

// decodeHeader handles RFC 2047 encoded words.
func decodeHeader(s string) string {
	s = strings.TrimSpace(s)
	out, err := new(mime.WordDecoder).DecodeHeader(s)
	if err != nil {
		return s
	}
	return out
}
