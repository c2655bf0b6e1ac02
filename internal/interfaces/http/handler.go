package httpinterface

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"

	"github.com/fundme-network/fundme-daemon/internal/core/application"
	"github.com/fundme-network/fundme-daemon/internal/core/application/pubsub"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/fundme-network/fundme-daemon/pkg/ethunit"
)

// WebhookService manages the webhooks notified of FundMe events.
type WebhookService interface {
	AddWebhook(ctx context.Context, topic, endpoint, secret string) (string, error)
	RemoveWebhook(ctx context.Context, id string) error
	ListWebhooks(ctx context.Context, topic string) ([]pubsub.WebhookInfo, error)
}

type handler struct {
	nodeSvc    application.NodeService
	deploySvc  application.DeployService
	fundMeSvc  application.FundMeService
	priceSvc   application.PriceService
	webhookSvc WebhookService
}

func (h *handler) getInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.nodeSvc.GetInfo(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newNodeInfo(info))
}

func (h *handler) getAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.nodeSvc.GetAccounts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": newAccounts(accounts),
	})
}

func (h *handler) getBalance(w http.ResponseWriter, r *http.Request) {
	address, err := parseAddress(mux.Vars(r)["address"])
	if err != nil {
		writeError(w, err)
		return
	}
	balance, err := h.nodeSvc.GetBalance(r.Context(), address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"address": address.Hex(),
		"balance": newAmount(balance),
	})
}

func (h *handler) rejectPayments(w http.ResponseWriter, r *http.Request) {
	address, err := parseAddress(mux.Vars(r)["address"])
	if err != nil {
		writeError(w, err)
		return
	}
	var req rejectPaymentsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.nodeSvc.SetRejectPayments(r.Context(), address, req.Reject); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"address":          address.Hex(),
		"rejects_payments": req.Reject,
	})
}

func (h *handler) deploy(w http.ResponseWriter, r *http.Request) {
	var req deployRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.deploySvc.Deploy(r.Context(), req.Tags)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deployResult{
		Deployments: newDeployments(result.Deployments),
		Receipts:    newReceipts(result.Receipts),
	})
}

func (h *handler) listDeployments(w http.ResponseWriter, r *http.Request) {
	deployments, err := h.deploySvc.ListDeployments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deployments": newDeployments(deployments),
	})
}

func (h *handler) getDeployment(w http.ResponseWriter, r *http.Request) {
	deployment, err := h.deploySvc.GetDeployment(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDeployment(*deployment))
}

func (h *handler) fund(w http.ResponseWriter, r *http.Request) {
	from, value, _, err := h.parseTxRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	receipt, err := h.fundMeSvc.Fund(r.Context(), from, value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newReceipt(*receipt))
}

func (h *handler) send(w http.ResponseWriter, r *http.Request) {
	from, value, data, err := h.parseTxRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	receipt, err := h.fundMeSvc.Send(r.Context(), from, value, data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newReceipt(*receipt))
}

func (h *handler) withdraw(w http.ResponseWriter, r *http.Request) {
	h.doWithdraw(w, r, h.fundMeSvc.Withdraw)
}

func (h *handler) cheaperWithdraw(w http.ResponseWriter, r *http.Request) {
	h.doWithdraw(w, r, h.fundMeSvc.CheaperWithdraw)
}

func (h *handler) doWithdraw(
	w http.ResponseWriter, r *http.Request,
	withdrawFn func(context.Context, common.Address) (*domain.Receipt, error),
) {
	from, _, _, err := h.parseTxRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	receipt, err := withdrawFn(r.Context(), from)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newReceipt(*receipt))
}

func (h *handler) getFundMe(w http.ResponseWriter, r *http.Request) {
	info, err := h.fundMeSvc.GetInfo(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newFundMeInfo(info))
}

func (h *handler) getOwner(w http.ResponseWriter, r *http.Request) {
	owner, err := h.fundMeSvc.GetOwner(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"owner": owner.Hex()})
}

func (h *handler) getPriceFeed(w http.ResponseWriter, r *http.Request) {
	priceFeed, err := h.fundMeSvc.GetPriceFeed(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"price_feed": priceFeed.Hex()})
}

func (h *handler) getFunders(w http.ResponseWriter, r *http.Request) {
	funders, err := h.fundMeSvc.GetFunders(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"funders": newFunders(funders),
	})
}

func (h *handler) getFunder(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid funder index", ErrBadRequest))
		return
	}
	funder, err := h.fundMeSvc.GetFunder(r.Context(), index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"index":  index,
		"funder": funder.Hex(),
	})
}

func (h *handler) getAmountFunded(w http.ResponseWriter, r *http.Request) {
	address, err := parseAddress(mux.Vars(r)["address"])
	if err != nil {
		writeError(w, err)
		return
	}
	funded, err := h.fundMeSvc.GetAddressToAmountFunded(r.Context(), address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"address": address.Hex(),
		"amount":  newAmount(funded),
	})
}

func (h *handler) getContractBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.fundMeSvc.GetContractBalance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"balance": newAmount(balance),
	})
}

func (h *handler) getPrice(w http.ResponseWriter, r *http.Request) {
	price, err := h.priceSvc.LatestPrice(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPriceInfo(price))
}

func (h *handler) updatePrice(w http.ResponseWriter, r *http.Request) {
	var req updatePriceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var from common.Address
	if req.From != "" {
		addr, err := parseAddress(req.From)
		if err != nil {
			writeError(w, err)
			return
		}
		from = addr
	}
	answer, ok := new(big.Int).SetString(req.Answer, 10)
	if !ok {
		writeError(w, fmt.Errorf("%w: invalid answer", ErrBadRequest))
		return
	}

	receipt, err := h.priceSvc.UpdateMockPrice(r.Context(), from, answer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newReceipt(*receipt))
}

func (h *handler) listReceipts(w http.ResponseWriter, r *http.Request) {
	var page *domain.Page
	query := r.URL.Query()
	if query.Get("page") != "" || query.Get("size") != "" {
		number, _ := strconv.Atoi(query.Get("page"))
		size, _ := strconv.Atoi(query.Get("size"))
		p := domain.NewPage(number, size)
		page = &p
	}
	receipts, err := h.nodeSvc.ListReceipts(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"receipts": newReceipts(receipts),
	})
}

func (h *handler) getReceipt(w http.ResponseWriter, r *http.Request) {
	hash := mux.Vars(r)["hash"]
	buf, err := hexutil.Decode(hash)
	if err != nil || len(buf) != common.HashLength {
		writeError(w, fmt.Errorf("%w: invalid tx hash", ErrBadRequest))
		return
	}
	receipt, err := h.nodeSvc.GetReceipt(r.Context(), common.BytesToHash(buf))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newReceipt(*receipt))
}

func (h *handler) addWebhook(w http.ResponseWriter, r *http.Request) {
	var req addWebhookRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	id, err := h.webhookSvc.AddWebhook(r.Context(), req.Topic, req.Endpoint, req.Secret)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *handler) removeWebhook(w http.ResponseWriter, r *http.Request) {
	if err := h.webhookSvc.RemoveWebhook(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}

func (h *handler) listWebhooks(w http.ResponseWriter, r *http.Request) {
	webhooks, err := h.webhookSvc.ListWebhooks(r.Context(), r.URL.Query().Get("topic"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"webhooks": webhooks})
}

// parseTxRequest returns the sender, defaulting to the first signer, the
// value in wei and the call data of the request body.
func (h *handler) parseTxRequest(
	r *http.Request,
) (common.Address, *big.Int, []byte, error) {
	var req txRequest
	if err := decode(r, &req); err != nil {
		return common.Address{}, nil, nil, err
	}

	from := common.Address{}
	if req.From != "" {
		addr, err := parseAddress(req.From)
		if err != nil {
			return common.Address{}, nil, nil, err
		}
		from = addr
	} else if signers := h.nodeSvc.Signers(); len(signers) > 0 {
		from = signers[0]
	}

	value := big.NewInt(0)
	if req.Amount != "" {
		wei, err := ethunit.ParseEther(req.Amount)
		if err != nil {
			return common.Address{}, nil, nil, fmt.Errorf("%w: %s", ErrBadRequest, err)
		}
		value = wei
	}

	var data []byte
	if req.Data != "" {
		buf, err := hexutil.Decode(req.Data)
		if err != nil {
			return common.Address{}, nil, nil, fmt.Errorf(
				"%w: data must be 0x prefixed hex", ErrBadRequest,
			)
		}
		data = buf
	}
	return from, value, data, nil
}

func parseAddress(address string) (common.Address, error) {
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("%w: invalid address %s", ErrBadRequest, address)
	}
	return common.HexToAddress(address), nil
}

// decode parses the JSON body, if any, into req.
func decode(r *http.Request, req interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return fmt.Errorf("%w: %s", ErrBadRequest, err)
	}
	return nil
}
