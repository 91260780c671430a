package terminal_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestWithdrawalFlowEndToEnd drives a full withdrawal through the HTTP
// surface: login, flow creation, client lookup, amount entry, dual-party OTP
// and commit, then verifies the archived receipt and its printable form.
func TestWithdrawalFlowEndToEnd(t *testing.T) {
	srv, core := setupTerminal(t)
	login(t, srv.URL)

	resp, flow := postJSON(t, srv.URL+"/v1/flows", map[string]string{"operation": "retiro"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	flowID := flow["id"].(string)
	require.NotEmpty(t, flowID)
	require.Equal(t, "find_client", flow["step"])
	t.Logf("Flow %s started", flowID)

	resp, flow = postJSON(t, srv.URL+"/v1/flows/"+flowID+"/client", map[string]string{
		"identification_type": "CC",
		"identification":      "1020304050",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "select_target", flow["step"])

	draft := flow["draft"].(map[string]any)
	require.Equal(t, "Luis Rojas", draft["client_name"])
	target := draft["target"].(map[string]any)
	require.Equal(t, "001-234", target["reference"])
	t.Logf("Client resolved, account %s pre-selected", target["reference"])

	resp, flow = postJSON(t, srv.URL+"/v1/flows/"+flowID+"/target", map[string]string{
		"reference": "001-234",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "enter_amount", flow["step"])

	resp, flow = postJSON(t, srv.URL+"/v1/flows/"+flowID+"/amount", map[string]int64{
		"amount": 25000,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "otp", flow["step"])

	draft = flow["draft"].(map[string]any)
	require.Equal(t, float64(25000), draft["amount"])
	require.Equal(t, float64(150), draft["commission"])
	require.Equal(t, float64(25150), draft["total"])

	otp := flow["otp"].(map[string]any)
	require.Len(t, otp["parties"], 2)
	t.Logf("OTP requested for both parties")

	resp, flow = postJSON(t, srv.URL+"/v1/flows/"+flowID+"/otp/verify", map[string]string{
		"client_code": "111111",
		"agent_code":  "222222",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "commit", flow["step"])

	resp, flow = postJSON(t, srv.URL+"/v1/flows/"+flowID+"/commit", map[string]string{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "receipt", flow["step"])
	require.Equal(t, int64(1), core.commitCalls.Load())

	result := flow["result"].(map[string]any)
	require.Equal(t, "TX-9001", result["transaction_ref"])
	require.Equal(t, float64(25000), result["amount"])

	receiptID := flow["receipt_id"].(string)
	require.NotEmpty(t, receiptID)
	t.Logf("Committed, receipt %s archived", receiptID)

	resp, receipt := getJSON(t, srv.URL+"/v1/receipts/"+receiptID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "retiro", receipt["operation"])
	require.Equal(t, float64(1), receipt["sequence"])
	require.Equal(t, float64(25150), receipt["total"])

	printResp, err := http.Get(srv.URL + "/v1/receipts/" + receiptID + "/print")
	require.NoError(t, err)
	defer printResp.Body.Close()
	require.Equal(t, http.StatusOK, printResp.StatusCode)
	require.Equal(t, "application/octet-stream", printResp.Header.Get("Content-Type"))

	raw, err := io.ReadAll(printResp.Body)
	require.NoError(t, err)
	require.Equal(t, []byte{0x1B, 0x40}, raw[:2])
	require.Equal(t, []byte{0x1D, 0x56, 0x00}, raw[len(raw)-3:])
	require.Contains(t, string(raw), "RETIRO")
	require.Contains(t, string(raw), "TX-9001")
	t.Logf("Printable receipt is %d bytes of ESC/POS", len(raw))
}

// TestHistorySources verifies the remote ledger and the local receipt archive
// are served from the same endpoint.
func TestHistorySources(t *testing.T) {
	srv, _ := setupTerminal(t)
	login(t, srv.URL)

	resp, body := getJSON(t, srv.URL+"/v1/history")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "remote", body["source"])
	entries := body["entries"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	require.Equal(t, "TX-9001", entry["transaction_ref"])
	require.Equal(t, float64(25000), entry["amount"])

	resp, body = getJSON(t, srv.URL+"/v1/history?source=local")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "local", body["source"])
}

func TestCatalogsServedAfterLogin(t *testing.T) {
	srv, _ := setupTerminal(t)
	login(t, srv.URL)

	resp, body := getJSON(t, srv.URL+"/v1/catalogs")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	idTypes := body["identification_types"].([]any)
	require.Len(t, idTypes, 1)
	require.Equal(t, "CC", idTypes[0].(map[string]any)["code"])
}
