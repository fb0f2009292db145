package icspace

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/seatsched/internal/domain/seat"
	"github.com/example/seatsched/internal/internaltypes"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var cst = time.FixedZone("CST", 8*3600)

func TestDevices(t *testing.T) {
	day := time.Date(2024, 8, 20, 0, 0, 0, 0, cst)
	b1 := time.Date(2024, 8, 20, 10, 0, 0, 0, cst).UnixMilli()
	e1 := time.Date(2024, 8, 20, 11, 0, 0, 0, cst).UnixMilli()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ic-web/reserve" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("roomIds") != "100475787" || q.Get("resvDates") != "20240820" || q.Get("sysKind") != "8" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		if r.Header.Get("cookie") != "ic-cookie=abc" {
			t.Errorf("cookie = %q", r.Header.Get("cookie"))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": []map[string]any{
				{"devId": 100476001, "devName": "2F-050", "resvInfo": []map[string]any{{"start": b1, "end": e1}}},
				{"devId": "100476002", "devName": "2F-051", "resvInfo": []any{}},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "ic-cookie=abc", time.Second, quietLogger())
	devs, err := c.Devices(context.Background(), "100475787", day)
	if err != nil {
		t.Fatalf("Devices() err = %v", err)
	}
	if len(devs) != 2 {
		t.Fatalf("got %d devices", len(devs))
	}
	if devs[0].ID != "100476001" || devs[1].ID != "100476002" {
		t.Errorf("ids = %q, %q", devs[0].ID, devs[1].ID)
	}
	want := seat.Booking{Start: 600, End: 660}
	if len(devs[0].Bookings) != 1 || devs[0].Bookings[0] != want {
		t.Errorf("bookings = %v, want [%v]", devs[0].Bookings, want)
	}
}

func TestDevicesErrors(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantFetch bool
		wantAuth  bool
	}{
		{
			name: "non-zero code",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"code":1,"message":"room closed"}`))
			},
			wantFetch: true,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantFetch: true,
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			wantAuth: true,
		},
		{
			name: "redirect to login",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "https://cas.example.edu/cas/login", http.StatusFound)
			},
			wantAuth: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			c := New(srv.URL, "", time.Second, quietLogger())
			_, err := c.Devices(context.Background(), "1", time.Date(2024, 8, 20, 0, 0, 0, 0, cst))
			var fe *internaltypes.FetchError
			if got := errors.As(err, &fe); got != tt.wantFetch {
				t.Errorf("FetchError = %v, want %v (err %v)", got, tt.wantFetch, err)
			}
			if got := errors.Is(err, internaltypes.ErrAuthExpired); got != tt.wantAuth {
				t.Errorf("ErrAuthExpired = %v, want %v (err %v)", got, tt.wantAuth, err)
			}
		})
	}
}

func TestUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ic-web/auth/userInfo" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"code":0,"data":{"accNo":42,"token":"tok","trueName":"Li Hua","pid":"2021001"}}`))
	}))
	defer srv.Close()

	id, err := New(srv.URL, "", time.Second, quietLogger()).UserInfo(context.Background())
	if err != nil {
		t.Fatalf("UserInfo() err = %v", err)
	}
	want := seat.Identity{AccountNo: 42, Token: "tok", Name: "Li Hua", PersonID: "2021001"}
	if id != want {
		t.Errorf("UserInfo() = %+v, want %+v", id, want)
	}
}

func TestReserve(t *testing.T) {
	var got ReserveRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.Header.Get("token") != "tok" {
			t.Errorf("token header = %q", r.Header.Get("token"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`{"code":500,"message":"seat taken"}`))
	}))
	defer srv.Close()

	begin := time.Date(2024, 8, 20, 17, 0, 0, 0, cst)
	end := time.Date(2024, 8, 20, 22, 0, 0, 0, cst)
	req := NewReserveRequest(42, "100476001", begin, end)
	reply, err := New(srv.URL, "", time.Second, quietLogger()).Reserve(context.Background(), "tok", req)
	if err != nil {
		t.Fatalf("Reserve() err = %v", err)
	}
	if reply.Code != 500 || reply.Message != "seat taken" {
		t.Errorf("reply = %+v", reply)
	}
	if got.ResvBeginTime != "2024-08-20 17:00:00" || got.ResvEndTime != "2024-08-20 22:00:00" {
		t.Errorf("times = %q..%q", got.ResvBeginTime, got.ResvEndTime)
	}
	if len(got.ResvDev) != 1 || got.ResvDev[0].String() != "100476001" || got.AppAccNo != 42 || got.SysKind != 8 {
		t.Errorf("payload = %+v", got)
	}
}
