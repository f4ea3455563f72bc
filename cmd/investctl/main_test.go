package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountsServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openapi/user/accounts" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"trackingId":"t","status":"Ok","payload":{"accounts":[{"brokerAccountType":"Tinkoff","brokerAccountId":"A1"}]}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRealMain_Accounts(t *testing.T) {
	srv := newAccountsServer(t)
	t.Setenv("INVEST_TOKEN", "t-secret")
	t.Setenv("INVEST_SANDBOX", "false")
	t.Setenv("INVEST_OPENAPI_HOST", srv.URL+"/openapi/")

	var stdout, stderr bytes.Buffer
	code := realMain([]string{"-cmd", "accounts"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var got struct {
		Accounts []struct {
			BrokerAccountID string `json:"brokerAccountId"`
		} `json:"accounts"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got), stdout.String())
	require.Len(t, got.Accounts, 1)
	assert.Equal(t, "A1", got.Accounts[0].BrokerAccountID)
	assert.Contains(t, stderr.String(), "客户端已关闭")
}

func TestRealMain_ErrorStillClosesClient(t *testing.T) {
	srv := newAccountsServer(t)
	t.Setenv("INVEST_TOKEN", "t-secret")
	t.Setenv("INVEST_SANDBOX", "false")
	t.Setenv("INVEST_OPENAPI_HOST", srv.URL+"/openapi/")

	var stdout, stderr bytes.Buffer
	code := realMain([]string{"-cmd", "bogus"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "未知命令")
	assert.Contains(t, stderr.String(), "客户端已关闭")
}

func TestRealMain_MissingToken(t *testing.T) {
	t.Setenv("INVEST_TOKEN", "")

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, realMain(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "创建客户端失败")
}

func TestRealMain_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, realMain([]string{"-no-such-flag"}, &stdout, &stderr))
}
