package icspace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/seatsched/internal/domain/seat"
	"github.com/example/seatsched/internal/internaltypes"
	"github.com/sirupsen/logrus"
)

const defaultUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// sysKind 8 is the seat reservation subsystem.
const sysKindSeat = 8

// Client talks to the ic-web API of an ICSpace deployment using a browser
// session cookie captured after SSO login.
type Client struct {
	hc     *http.Client
	host   string
	cookie string
	log    *logrus.Entry
	now    func() time.Time
}

func New(host, cookie string, timeout time.Duration, logger *logrus.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		hc: &http.Client{
			Timeout: timeout,
			// a redirect means the SSO session is gone
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
		host:   strings.TrimRight(host, "/"),
		cookie: cookie,
		log:    logger.WithField("component", "icspace"),
		now:    time.Now,
	}
}

// envelope is the common ic-web response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type userInfo struct {
	AccNo    int64  `json:"accNo"`
	Token    string `json:"token"`
	TrueName string `json:"trueName"`
	PID      string `json:"pid"`
}

// UserInfo resolves the session into the account used for reservations.
func (c *Client) UserInfo(ctx context.Context) (seat.Identity, error) {
	env, err := c.call(ctx, http.MethodGet, "/ic-web/auth/userInfo", nil, nil, "")
	if err != nil {
		return seat.Identity{}, fmt.Errorf("user info: %w", err)
	}
	if env.Code != 0 {
		return seat.Identity{}, fmt.Errorf("user info: code %d: %s", env.Code, env.Message)
	}
	var u userInfo
	if err := json.Unmarshal(env.Data, &u); err != nil {
		return seat.Identity{}, fmt.Errorf("user info: parse: %w", err)
	}
	if u.Token == "" {
		return seat.Identity{}, fmt.Errorf("user info: empty token: %w", internaltypes.ErrAuthExpired)
	}
	return seat.Identity{AccountNo: u.AccNo, Token: u.Token, Name: u.TrueName, PersonID: u.PID}, nil
}

// flexID accepts ids encoded either as JSON numbers or strings.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type device struct {
	DevID    flexID `json:"devId"`
	DevName  string `json:"devName"`
	ResvInfo []struct {
		Start int64 `json:"start"`
		End   int64 `json:"end"`
	} `json:"resvInfo"`
}

// Devices returns the seats of roomID with their bookings on the day starting
// at dayStart. Booking timestamps are converted relative to dayStart.
func (c *Client) Devices(ctx context.Context, roomID string, dayStart time.Time) ([]seat.Device, error) {
	q := map[string]string{
		"roomIds":   roomID,
		"resvDates": dayStart.Format("20060102"),
		"sysKind":   strconv.Itoa(sysKindSeat),
		"_":         strconv.FormatInt(c.now().UnixMilli(), 10),
	}
	env, err := c.call(ctx, http.MethodGet, "/ic-web/reserve", q, nil, "")
	if err != nil {
		if errors.Is(err, internaltypes.ErrAuthExpired) {
			return nil, fmt.Errorf("fetch devices: %w", err)
		}
		return nil, &internaltypes.FetchError{Op: "fetch devices", Err: err}
	}
	if env.Code != 0 {
		return nil, &internaltypes.FetchError{Op: "fetch devices", Code: env.Code, Err: errors.New(env.Message)}
	}
	var raw []device
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &raw); err != nil {
			return nil, &internaltypes.FetchError{Op: "fetch devices", Err: fmt.Errorf("parse: %w", err)}
		}
	}

	out := make([]seat.Device, 0, len(raw))
	for _, d := range raw {
		dev := seat.Device{ID: string(d.DevID), DisplayName: d.DevName}
		for _, r := range d.ResvInfo {
			dev.Bookings = append(dev.Bookings, seat.Booking{
				Start: seat.MinuteOfDay(time.UnixMilli(r.Start), dayStart),
				End:   seat.MinuteOfDay(time.UnixMilli(r.End), dayStart),
			})
		}
		out = append(out, dev)
	}
	c.log.WithFields(logrus.Fields{"room": roomID, "devices": len(out)}).Debug("fetched devices")
	return out, nil
}

// ReserveRequest is the ic-web reservation payload.
type ReserveRequest struct {
	SysKind       int           `json:"sysKind"`
	AppAccNo      int64         `json:"appAccNo"`
	MemberKind    int           `json:"memberKind"`
	ResvMember    []int64       `json:"resvMember"`
	ResvBeginTime string        `json:"resvBeginTime"`
	ResvEndTime   string        `json:"resvEndTime"`
	TestName      string        `json:"testName"`
	Captcha       string        `json:"captcha"`
	ResvProperty  int           `json:"resvProperty"`
	ResvDev       []json.Number `json:"resvDev"`
	Memo          string        `json:"memo"`
}

// TimeLayout is the wall-clock layout ic-web expects for reservation bounds.
const TimeLayout = "2006-01-02 15:04:05"

// NewReserveRequest builds a single-member seat reservation.
func NewReserveRequest(accNo int64, devID string, begin, end time.Time) ReserveRequest {
	return ReserveRequest{
		SysKind:       sysKindSeat,
		AppAccNo:      accNo,
		MemberKind:    1,
		ResvMember:    []int64{accNo},
		ResvBeginTime: begin.Format(TimeLayout),
		ResvEndTime:   end.Format(TimeLayout),
		ResvDev:       []json.Number{json.Number(devID)},
	}
}

type Reply struct {
	Code    int
	Message string
}

// Reserve submits req. A non-nil error means the request did not produce a
// parseable reply; a reply with a non-zero code is returned without error.
func (c *Client) Reserve(ctx context.Context, token string, req ReserveRequest) (Reply, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return Reply{}, err
	}
	env, err := c.call(ctx, http.MethodPost, "/ic-web/reserve", nil, b, token)
	if err != nil {
		return Reply{}, fmt.Errorf("reserve: %w", err)
	}
	return Reply{Code: env.Code, Message: env.Message}, nil
}

func (c *Client) call(ctx context.Context, method, path string, query map[string]string, body []byte, token string) (envelope, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.host+path, rd)
	if err != nil {
		return envelope{}, err
	}
	req.Header.Set("user-agent", defaultUA)
	req.Header.Set("accept", "application/json, text/plain, */*")
	req.Header.Set("cache-control", "no-cache")
	if c.cookie != "" {
		req.Header.Set("cookie", c.cookie)
	}
	if token != "" {
		req.Header.Set("token", token)
	}
	if body != nil {
		req.Header.Set("content-type", "application/json")
	}
	if query != nil {
		q := req.URL.Query()
		for k, v := range query {
			q.Add(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return envelope{}, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return envelope{}, err
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return envelope{}, fmt.Errorf("http %d: %w", res.StatusCode, internaltypes.ErrAuthExpired)
	case res.StatusCode >= 300 && res.StatusCode < 400:
		return envelope{}, fmt.Errorf("redirected to %q: %w", res.Header.Get("location"), internaltypes.ErrAuthExpired)
	case res.StatusCode < 200 || res.StatusCode >= 300:
		return envelope{}, fmt.Errorf("http %d: %s", res.StatusCode, truncate(string(b), 200))
	}

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return envelope{}, fmt.Errorf("parse response: %w", err)
	}
	return env, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
