package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bancosur/corresponsal/internal/terminal/domain"
	"github.com/bancosur/corresponsal/internal/terminal/service"
	"github.com/bancosur/corresponsal/pkg/httpx"
)

// FlowHandler serves the /v1/flows endpoints driving the transaction flow.
type FlowHandler struct {
	FlowService *service.FlowService
}

type startFlowRequest struct {
	Operation string `json:"operation"`
}

type findClientRequest struct {
	IdentificationType string `json:"identification_type"`
	Identification     string `json:"identification"`
}

type selectTargetRequest struct {
	ServiceCode string `json:"service_code,omitempty"`
	Reference   string `json:"reference"`
}

type enterAmountRequest struct {
	Amount int64 `json:"amount"` // centavos
}

type verifyOTPRequest struct {
	ClientCode string `json:"client_code,omitempty"`
	AgentCode  string `json:"agent_code,omitempty"`
}

type flowTarget struct {
	Kind        string `json:"kind"`
	Reference   string `json:"reference"`
	ServiceCode string `json:"service_code,omitempty"`
	Description string `json:"description,omitempty"`
	Holder      string `json:"holder,omitempty"`
	Balance     int64  `json:"balance"`
}

type flowDraft struct {
	ClientName     string      `json:"client_name,omitempty"`
	Identification string      `json:"identification,omitempty"`
	Target         *flowTarget `json:"target,omitempty"`
	Amount         int64       `json:"amount"`
	Commission     int64       `json:"commission"`
	Total          int64       `json:"total"`
}

type flowCommitResult struct {
	Date           string `json:"date"`
	Reference      string `json:"reference"`
	TransactionRef string `json:"transaction_ref"`
	Amount         int64  `json:"amount"`
}

type flowResponse struct {
	ID        string             `json:"id"`
	Operation string             `json:"operation"`
	Step      string             `json:"step"`
	Draft     flowDraft          `json:"draft"`
	Targets   []flowTarget       `json:"targets,omitempty"`
	OTP       *service.OtpStatus `json:"otp,omitempty"`
	Result    *flowCommitResult  `json:"result,omitempty"`
	ReceiptID string             `json:"receipt_id,omitempty"`
}

func mapFlow(f *service.Flow) flowResponse {
	resp := flowResponse{
		ID:        f.ID.String(),
		Operation: string(f.Kind),
		Step:      string(f.Step),
		ReceiptID: f.ReceiptID,
		Draft: flowDraft{
			Amount:     f.Draft.Amount,
			Commission: f.Draft.Commission,
			Total:      f.Draft.Total(),
		},
	}

	if f.Draft.Client != nil {
		resp.Draft.ClientName = f.Draft.Client.FullName
		resp.Draft.Identification = f.Draft.Client.Identification
	}
	if f.Draft.Target != nil {
		t := mapTarget(*f.Draft.Target)
		resp.Draft.Target = &t
	}
	for _, t := range f.Targets {
		resp.Targets = append(resp.Targets, mapTarget(t))
	}
	resp.OTP = f.OTP
	if f.Result != nil {
		resp.Result = &flowCommitResult{
			Date:           f.Result.Date.Format(time.RFC3339),
			Reference:      f.Result.Reference,
			TransactionRef: f.Result.TransactionRef,
			Amount:         f.Result.Amount,
		}
	}
	return resp
}

func mapTarget(t domain.Target) flowTarget {
	return flowTarget{
		Kind:        t.Kind,
		Reference:   t.Reference,
		ServiceCode: t.ServiceCode,
		Description: t.Description,
		Holder:      t.Holder,
		Balance:     t.Balance,
	}
}

// HandleStart godoc
//
//	@Summary		Start Transaction Flow
//	@Description	Opens a flow for the operation kind, superseding any active flow.
//	@Tags			Flows
//	@Accept			json
//	@Produce		json
//	@Param			body	body		startFlowRequest	true	"Operation kind"
//	@Success		201		{object}	flowResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{object}	map[string]string
//	@Router			/v1/flows [post].
func (h *FlowHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req startFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flow, err := h.FlowService.Start(r.Context(), domain.OperationKind(req.Operation))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, mapFlow(flow))
}

// HandleGet godoc
//
//	@Summary	Flow State
//	@Tags		Flows
//	@Produce	json
//	@Param		id	path		string	true	"Flow id"
//	@Success	200	{object}	flowResponse
//	@Failure	404	{object}	map[string]string
//	@Failure	410	{object}	map[string]string
//	@Router		/v1/flows/{id} [get].
func (h *FlowHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	flow, err := h.FlowService.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapFlow(flow))
}

// HandleAbandon godoc
//
//	@Summary		Abandon Flow
//	@Description	Drops the flow and its draft.
//	@Tags			Flows
//	@Param			id	path	string	true	"Flow id"
//	@Success		204	"abandoned"
//	@Failure		404	{object}	map[string]string
//	@Router			/v1/flows/{id} [delete].
func (h *FlowHandler) HandleAbandon(w http.ResponseWriter, r *http.Request) {
	if err := h.FlowService.Abandon(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClient godoc
//
//	@Summary		Find Client
//	@Description	Resolves the client and fetches the operation's targets. The first target is auto-selected.
//	@Tags			Flows
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Flow id"
//	@Param			body	body		findClientRequest	true	"Client identification"
//	@Success		200		{object}	flowResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		422		{object}	map[string]string	"client has no targets"
//	@Failure		502		{object}	map[string]string
//	@Router			/v1/flows/{id}/client [post].
func (h *FlowHandler) HandleClient(w http.ResponseWriter, r *http.Request) {
	var req findClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flow, err := h.FlowService.FindClient(r.Context(), r.PathValue("id"), req.IdentificationType, req.Identification)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapFlow(flow))
}

// HandleTarget godoc
//
//	@Summary		Select Target
//	@Description	Fixes the account, loan, receivable or bill the transaction runs against.
//	@Tags			Flows
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Flow id"
//	@Param			body	body		selectTargetRequest	true	"Target reference"
//	@Success		200		{object}	flowResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		502		{object}	map[string]string
//	@Router			/v1/flows/{id}/target [post].
func (h *FlowHandler) HandleTarget(w http.ResponseWriter, r *http.Request) {
	var req selectTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flow, err := h.FlowService.SelectTarget(r.Context(), r.PathValue("id"), req.ServiceCode, req.Reference)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapFlow(flow))
}

// HandleAmount godoc
//
//	@Summary		Enter Amount
//	@Description	Validates the amount in centavos, runs withdrawal prechecks and advances to OTP or commit.
//	@Tags			Flows
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Flow id"
//	@Param			body	body		enterAmountRequest	true	"Amount in centavos"
//	@Success		200		{object}	flowResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		422		{object}	map[string]string	"insufficient funds or agent cash"
//	@Router			/v1/flows/{id}/amount [post].
func (h *FlowHandler) HandleAmount(w http.ResponseWriter, r *http.Request) {
	var req enterAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flow, err := h.FlowService.EnterAmount(r.Context(), r.PathValue("id"), req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapFlow(flow))
}

// HandleOTPResend godoc
//
//	@Summary		Resend OTP Codes
//	@Description	Regenerates codes for all required parties. Locked while the countdown runs.
//	@Tags			Flows
//	@Produce		json
//	@Param			id	path		string	true	"Flow id"
//	@Success		200	{object}	flowResponse
//	@Failure		422	{object}	map[string]string	"resend locked"
//	@Router			/v1/flows/{id}/otp/resend [post].
func (h *FlowHandler) HandleOTPResend(w http.ResponseWriter, r *http.Request) {
	flow, err := h.FlowService.ResendOTP(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapFlow(flow))
}

// HandleOTPVerify godoc
//
//	@Summary		Verify OTP Codes
//	@Description	Enters the provided codes and verifies all required parties, client first then agent.
//	@Tags			Flows
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Flow id"
//	@Param			body	body		verifyOTPRequest	true	"Entered codes"
//	@Success		200		{object}	flowResponse
//	@Failure		422		{object}	map[string]string	"incomplete entry or rejected code"
//	@Router			/v1/flows/{id}/otp/verify [post].
func (h *FlowHandler) HandleOTPVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := r.PathValue("id")
	if req.ClientCode != "" {
		if _, err := h.FlowService.EnterOTP(r.Context(), id, domain.OtpPartyClient, req.ClientCode); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if req.AgentCode != "" {
		if _, err := h.FlowService.EnterOTP(r.Context(), id, domain.OtpPartyAgent, req.AgentCode); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	flow, err := h.FlowService.VerifyOTP(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapFlow(flow))
}

// HandleCommit godoc
//
//	@Summary		Commit Transaction
//	@Description	Executes the operation through the core. Failure keeps the draft for retry; success archives a receipt.
//	@Tags			Flows
//	@Produce		json
//	@Param			id	path		string	true	"Flow id"
//	@Success		200	{object}	flowResponse
//	@Failure		409	{object}	map[string]string	"call already in flight"
//	@Failure		502	{object}	map[string]string
//	@Router			/v1/flows/{id}/commit [post].
func (h *FlowHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	flow, err := h.FlowService.Commit(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapFlow(flow))
}
