package epay

import (
	"context"
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"aiagents-backend/internal/payment"
)

const DriverName = "epay"

type Config struct {
	URL string
	PID string
	Key string
}

type Driver struct {
	gatewayURL string
	pid        string
	key        string
}

func New(cfg Config) (*Driver, error) {
	if cfg.URL == "" {
		return nil, errors.New("missing epay url")
	}
	if cfg.PID == "" {
		return nil, errors.New("missing epay pid")
	}
	if cfg.Key == "" {
		return nil, errors.New("missing epay key")
	}

	gateway := strings.TrimRight(cfg.URL, "/")
	if !strings.HasSuffix(gateway, "submit.php") {
		gateway += "/submit.php"
	}

	return &Driver{gatewayURL: gateway, pid: cfg.PID, key: cfg.Key}, nil
}

func (d *Driver) Name() string {
	return DriverName
}

func (d *Driver) Pay(_ context.Context, req payment.PayRequest) (string, error) {
	if req.OrderID == "" {
		return "", errors.New("order id is required")
	}

	data := map[string]string{
		"pid":          d.pid,
		"type":         "alipay",
		"out_trade_no": req.OrderID,
		"notify_url":   req.NotifyURL,
		"return_url":   req.ReturnURL,
		"name":         req.Subject,
		"money":        fmt.Sprintf("%.2f", req.Amount),
	}
	if req.Channel != "" {
		data["type"] = req.Channel
	}
	if data["name"] == "" {
		data["name"] = "Order " + req.OrderID
	}

	data["sign"] = d.Sign(data)
	data["sign_type"] = "MD5"

	q := url.Values{}
	for k, v := range data {
		q.Set(k, v)
	}

	return d.gatewayURL + "?" + q.Encode(), nil
}

func (d *Driver) Notify(params map[string]string) (payment.Notification, error) {
	n := payment.Notification{
		OrderID:    params["out_trade_no"],
		ExternalID: params["trade_no"],
		Amount:     params["money"],
		Paid:       params["trade_status"] == "" || params["trade_status"] == "TRADE_SUCCESS",
	}

	remote := params["sign"]
	local := d.Sign(params)
	if remote == "" || subtle.ConstantTimeCompare([]byte(local), []byte(remote)) != 1 {
		return n, payment.ErrSignatureMismatch
	}
	return n, nil
}

// Sign computes the gateway's MD5 signature: non-empty parameters sorted by
// key, joined as k=v with '&', with the merchant key appended.
func (d *Driver) Sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, k := range keys {
		v := params[k]
		if v == "" || k == "sign" || k == "sign_type" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("&")
		}
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(v)
	}
	builder.WriteString(d.key)

	hash := md5.Sum([]byte(builder.String()))
	return hex.EncodeToString(hash[:])
}
