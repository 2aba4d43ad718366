package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// Message is an unread mailbox entry. Raw holds the full RFC822 bytes,
// fetched with BODY.PEEK[] so reading does not set \Seen.
type Message struct {
	UID     imap.UID
	From    string
	Subject string
	Date    time.Time
	Raw     []byte
}

// TLSConfigFor pins the server name to the host part of addr.
func TLSConfigFor(addr string) *tls.Config {
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	return &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host}
}

// Dial connects over TLS and logs in. The connection is closed when ctx ends.
func Dial(ctx context.Context, addr, username, password string) (*imapclient.Client, error) {
	if addr == "" {
		return nil, errors.New("imap addr is required")
	}
	if username == "" || password == "" {
		return nil, errors.New("imap username/password is required")
	}

	c, err := imapclient.DialTLS(addr, &imapclient.Options{TLSConfig: TLSConfigFor(addr)})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}
	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	if err := c.Login(username, password).Wait(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("imap login: %w", err)
	}
	return c, nil
}

// FetchUnseen returns up to max unseen messages received after since,
// newest first.
func FetchUnseen(ctx context.Context, c *imapclient.Client, max int, since time.Time) ([]Message, error) {
	if max <= 0 {
		max = 50
	}

	data, err := c.UIDSearch(&imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   since,
	}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap uid search: %w", err)
	}

	uids := data.AllUIDs()
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if len(uids) > max {
		uids = uids[:max]
	}
	if len(uids) == 0 {
		return nil, nil
	}

	whole := &imap.FetchItemBodySection{Specifier: imap.PartSpecifierNone, Peek: true}
	cmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{whole},
	})
	defer func() { _ = cmd.Close() }()

	out := make([]Message, 0, len(uids))
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		md := cmd.Next()
		if md == nil {
			break
		}
		buf, err := md.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch: %w", err)
		}

		m := Message{UID: buf.UID}
		if env := buf.Envelope; env != nil {
			m.Subject = env.Subject
			m.Date = env.Date
			if len(env.From) > 0 {
				m.From = env.From[0].Addr()
			}
		}
		if b := buf.FindBodySection(whole); b != nil {
			m.Raw = append([]byte(nil), b...)
		}
		out = append(out, m)
	}

	if err := cmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}
	return out, nil
}

func MarkSeen(c *imapclient.Client, uids []imap.UID) error {
	if len(uids) == 0 {
		return nil
	}
	cmd := c.Store(imap.UIDSetNum(uids...), &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil)
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("imap store seen: %w", err)
	}
	return nil
}

func logout(c *imapclient.Client) {
	if err := c.Logout().Wait(); err != nil {
		log.Printf("[email] logout: %v", err)
	}
	_ = c.Close()
}

// hostPort appends the IMAPS port when addr has none.
func hostPort(host string, port int) string {
	if strings.Contains(host, ":") {
		return host
	}
	if port == 0 {
		port = 993
	}
	return fmt.Sprintf("%s:%d", host, port)
}
