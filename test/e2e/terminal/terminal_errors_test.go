package terminal_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// startWithdrawalAtCommit walks a flow up to the commit step.
func startWithdrawalAtCommit(t *testing.T, baseURL string) string {
	t.Helper()

	_, flow := postJSON(t, baseURL+"/v1/flows", map[string]string{"operation": "retiro"})
	flowID := flow["id"].(string)

	postJSON(t, baseURL+"/v1/flows/"+flowID+"/client", map[string]string{
		"identification_type": "CC",
		"identification":      "1020304050",
	})
	postJSON(t, baseURL+"/v1/flows/"+flowID+"/target", map[string]string{
		"reference": "001-234",
	})
	postJSON(t, baseURL+"/v1/flows/"+flowID+"/amount", map[string]int64{"amount": 25000})

	resp, flow := postJSON(t, baseURL+"/v1/flows/"+flowID+"/otp/verify", map[string]string{
		"client_code": "111111",
		"agent_code":  "222222",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "commit", flow["step"])
	return flowID
}

func TestLoginRejectionPassesCoreMessageThrough(t *testing.T) {
	srv, _ := setupTerminal(t)

	resp, body := postJSON(t, srv.URL+"/v1/session/login", map[string]string{
		"username": "agent1",
		"password": "wrong",
	})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Equal(t, "Usuario o clave incorrectos", body["error"])
}

// TestCommitFailureSurfacesCoreMessage verifies a core rejection at commit
// time reaches the UI verbatim and leaves the flow ready for retry.
func TestCommitFailureSurfacesCoreMessage(t *testing.T) {
	srv, core := setupTerminal(t)
	login(t, srv.URL)

	flowID := startWithdrawalAtCommit(t, srv.URL)

	core.withdrawalStatus = http.StatusServiceUnavailable
	core.withdrawalBody = `{"mensaje":"Servicio no disponible, intente mas tarde"}`

	resp, body := postJSON(t, srv.URL+"/v1/flows/"+flowID+"/commit", map[string]string{})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Equal(t, "Servicio no disponible, intente mas tarde", body["error"])

	// The flow survives the failure so the agent can retry.
	resp, flow := getJSON(t, srv.URL+"/v1/flows/"+flowID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "commit", flow["step"])

	core.withdrawalStatus = 0
	resp, flow = postJSON(t, srv.URL+"/v1/flows/"+flowID+"/commit", map[string]string{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "receipt", flow["step"])
	require.Equal(t, int64(2), core.commitCalls.Load())
	t.Logf("Commit retried successfully after core outage")
}

func TestOTPRejectionBlocksCommit(t *testing.T) {
	srv, core := setupTerminal(t)
	login(t, srv.URL)
	core.otpValid = false

	_, flow := postJSON(t, srv.URL+"/v1/flows", map[string]string{"operation": "retiro"})
	flowID := flow["id"].(string)

	postJSON(t, srv.URL+"/v1/flows/"+flowID+"/client", map[string]string{
		"identification_type": "CC",
		"identification":      "1020304050",
	})
	postJSON(t, srv.URL+"/v1/flows/"+flowID+"/target", map[string]string{
		"reference": "001-234",
	})
	postJSON(t, srv.URL+"/v1/flows/"+flowID+"/amount", map[string]int64{"amount": 25000})

	resp, _ := postJSON(t, srv.URL+"/v1/flows/"+flowID+"/otp/verify", map[string]string{
		"client_code": "111111",
		"agent_code":  "222222",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = postJSON(t, srv.URL+"/v1/flows/"+flowID+"/commit", map[string]string{})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, int64(0), core.commitCalls.Load())
}

func TestFlowRequiresSession(t *testing.T) {
	srv, _ := setupTerminal(t)

	resp, _ := postJSON(t, srv.URL+"/v1/flows", map[string]string{"operation": "retiro"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnknownOperationRejected(t *testing.T) {
	srv, _ := setupTerminal(t)
	login(t, srv.URL)

	resp, _ := postJSON(t, srv.URL+"/v1/flows", map[string]string{"operation": "transferencia"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
