package terminal_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bancosur/corresponsal/internal/terminal/app"
)

// fakeCore is an httptest stand-in for the remote core-banking API, speaking
// the Spanish wire dialect the gateway expects.
type fakeCore struct {
	mux         *http.ServeMux
	commitCalls atomic.Int64

	// Tunables per test.
	withdrawalStatus int
	withdrawalBody   string
	otpValid         bool
}

func newFakeCore() *fakeCore {
	f := &fakeCore{
		mux:      http.NewServeMux(),
		otpValid: true,
	}

	f.mux.HandleFunc("POST /v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["usuario"] != "agent1" || req["clave"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"mensaje":"Usuario o clave incorrectos"}`)
			return
		}
		fmt.Fprint(w, `{
			"token": "tok-e2e",
			"idUsuario": "agent-42",
			"nombreCompleto": "Ana Diaz",
			"minutosSesion": 15,
			"segundosReenvioOtp": 60,
			"reglasOperacion": [
				{"operacion":"retiro","comision":1.50,"otpCliente":true,"otpCorresponsal":true},
				{"operacion":"deposito","comision":1.00}
			]
		}`)
	})

	f.mux.HandleFunc("POST /v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	f.mux.HandleFunc("POST /v1/catalogs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"tiposIdentificacion": [{"codigo":"CC","nombre":"Cedula"}],
			"paises": [{"codigo":"CO","nombre":"Colombia"}],
			"estadosCiviles": [],
			"tiposAlerta": []
		}`)
	})

	f.mux.HandleFunc("POST /v1/clients/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"identificacion":"1020304050","tipoIdentificacion":"CC","nombreCompleto":"Luis Rojas"}`)
	})

	f.mux.HandleFunc("POST /v1/accounts/list", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"cuentas":[{"numeroCuenta":"001-234","tipoCuenta":"ahorros","saldoDisponible":5000.00}]}`)
	})

	f.mux.HandleFunc("POST /v1/agent/cash-balance", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"saldoDisponible":10000.00}`)
	})

	f.mux.HandleFunc("POST /v1/otp/request", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"correoEnviado":true,"smsEnviado":true}`)
	})

	f.mux.HandleFunc("POST /v1/otp/verify", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"valido":%t}`, f.otpValid)
	})

	f.mux.HandleFunc("POST /v1/transactions/withdrawal", func(w http.ResponseWriter, r *http.Request) {
		f.commitCalls.Add(1)
		if f.withdrawalStatus != 0 {
			w.WriteHeader(f.withdrawalStatus)
			fmt.Fprint(w, f.withdrawalBody)
			return
		}
		fmt.Fprint(w, `{"fecha":"2026-08-28T10:15:00Z","referencia":"001-234","numeroTransaccion":"TX-9001","valor":250.00}`)
	})

	f.mux.HandleFunc("POST /v1/transactions/history", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"movimientos":[{"fecha":"2026-08-28T10:15:00Z","operacion":"retiro","referencia":"001-234","numeroTransaccion":"TX-9001","valor":250.00}]}`)
	})

	return f
}

// setupTerminal wires a real application against the fake core and returns
// the terminal's HTTP surface.
func setupTerminal(t *testing.T) (*httptest.Server, *fakeCore) {
	t.Helper()

	core := newFakeCore()
	coreSrv := httptest.NewServer(core.mux)
	t.Cleanup(coreSrv.Close)

	application, err := app.New(app.Config{
		CoreAPIURL:   coreSrv.URL,
		DeviceID:     "terminal-e2e",
		DatabaseFile: filepath.Join(t.TempDir(), "terminal.db"),
		Env:          "dev",
		LogLevel:     "error",
		LogFormat:    "text",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Shutdown() })

	terminalSrv := httptest.NewServer(application.Handler())
	t.Cleanup(terminalSrv.Close)

	return terminalSrv, core
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func login(t *testing.T, baseURL string) {
	t.Helper()

	resp, body := postJSON(t, baseURL+"/v1/session/login", map[string]string{
		"username": "agent1",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "agent-42", body["user_id"])
}
