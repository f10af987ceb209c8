package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/catalog"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/http/handler"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/http/router"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/kvstore"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/memory"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/metrics"
	"github.com/artepuradesign/xapipainel-sub004/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticBonus struct {
	amount int64
	err    error
}

func (s staticBonus) FetchBonusAmount(context.Context) (int64, error) { return s.amount, s.err }

type staticRegistry struct{}

func (staticRegistry) Register(_ context.Context, req gateway.RegisterRequest) (*gateway.RegisterResult, error) {
	return &gateway.RegisterResult{
		User:          gateway.RegisteredUser{ID: "novo", Email: req.Email, UserRole: req.UserRole},
		ReferralBonus: 500,
	}, nil
}

type testAPI struct {
	handler  http.Handler
	balances *usecase.BalanceService
}

func newTestAPI(t *testing.T, bonus gateway.BonusSource) *testAPI {
	t.Helper()
	store := memory.NewStore()
	repo := kvstore.NewLedgerRepository(store)
	uow := memory.NewUow(store)
	locker := memory.NewKeyedLocker()
	cat, err := catalog.Load("")
	require.NoError(t, err)
	m := metrics.New()
	events := usecase.NewEventDispatcher(nil, nil)

	balances := usecase.NewBalanceService(repo, uow, locker, events, m)
	purchase := usecase.NewPurchasePlanUseCase(repo, uow, locker, cat, events, m, 0)
	bonusSvc := usecase.NewBonusConfigService(bonus, time.Minute, 500, m, nil)

	h := router.New(router.Deps{
		Wallets:     handler.NewWalletHandler(balances),
		Plans:       handler.NewPlanHandler(usecase.NewQuotePlanUseCase(cat), purchase),
		Bonus:       handler.NewBonusHandler(bonusSvc),
		Auth:        handler.NewAuthHandler(usecase.NewRegisterUserUseCase(staticRegistry{}, balances)),
		Idempotency: memory.NewIdempotencyRepository(),
		Metrics:     m,
	})
	return &testAPI{handler: h, balances: balances}
}

func (a *testAPI) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t, staticBonus{amount: 700})
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health", "").Code)

	api.do(http.MethodGet, "/bonus", "")
	rec := api.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "apipainel_bonus_cache_total")
}

func TestDepositAndBalance(t *testing.T) {
	api := newTestAPI(t, staticBonus{amount: 700})

	rec := api.do(http.MethodPost, "/wallets/u1/deposits", `{"amount":10000}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodGet, "/wallets/u1/balance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 10000, body["saldo"])
	assert.EqualValues(t, 0, body["saldo_plano"])
	assert.Equal(t, "R$ 100,00", body["total_formatado"])
}

func TestDeposit_Errors(t *testing.T) {
	api := newTestAPI(t, staticBonus{})

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/wallets/u1/deposits", `{"amount":0}`).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/wallets/u1/deposits", `{"valor":1}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, api.do(http.MethodPost, "/wallets/u1/consumptions", `{"amount":100}`).Code)
}

func TestDeposit_IdempotencyKey(t *testing.T) {
	api := newTestAPI(t, staticBonus{})

	api.do(http.MethodPost, "/wallets/u1/deposits", `{"amount":1000}`, "Idempotency-Key", "dep-1")
	rec := api.do(http.MethodPost, "/wallets/u1/deposits", `{"amount":1000}`, "Idempotency-Key", "dep-1")
	assert.Equal(t, "true", rec.Header().Get("X-Idempotency-Hit"))

	wallet, err := api.balances.GetWalletBalance(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), wallet)
}

func TestPlanPurchaseFlow(t *testing.T) {
	api := newTestAPI(t, staticBonus{})
	api.do(http.MethodPost, "/wallets/u1/deposits", `{"amount":10000}`)

	rec := api.do(http.MethodPost, "/wallets/u1/plan/purchase", `{"plan_name":"Pré-Pago"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "done", body["state"])
	assert.EqualValues(t, 5000, body["saldo"])
	assert.EqualValues(t, 5000, body["saldo_plano"])

	rec = api.do(http.MethodGet, "/wallets/u1/plan", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/wallets/u1/transactions", "")
	txs := decode(t, rec)["transactions"].([]any)
	assert.Len(t, txs, 3)

	rec = api.do(http.MethodPost, "/wallets/u1/plan/purchase", `{"plan_name":"Rei de Espadas"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do(http.MethodPost, "/wallets/u1/plan/purchase", `{"plan_name":"Coringa"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlanPurchase_IdempotencyKeyIsPerUser(t *testing.T) {
	api := newTestAPI(t, staticBonus{})
	api.do(http.MethodPost, "/wallets/u1/deposits", `{"amount":10000}`)
	api.do(http.MethodPost, "/wallets/u2/deposits", `{"amount":10000}`)

	rec := api.do(http.MethodPost, "/wallets/u1/plan/purchase", `{"plan_name":"Pré-Pago"}`, "Idempotency-Key", "compra-1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(http.MethodPost, "/wallets/u2/plan/purchase", `{"plan_name":"Pré-Pago"}`, "Idempotency-Key", "compra-1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Idempotency-Hit"))

	for _, userID := range []string{"u1", "u2"} {
		wallet, err := api.balances.GetWalletBalance(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), wallet, userID)
	}

	rec = api.do(http.MethodPost, "/wallets/u1/plan/purchase", `{"plan_name":"Pré-Pago"}`, "Idempotency-Key", "compra-1")
	assert.Equal(t, "true", rec.Header().Get("X-Idempotency-Hit"))
	wallet, err := api.balances.GetWalletBalance(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), wallet)
}

func TestPlansAndQuote(t *testing.T) {
	api := newTestAPI(t, staticBonus{})

	rec := api.do(http.MethodGet, "/plans", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["plans"].([]any), 9)

	rec = api.do(http.MethodGet, "/plans/quote?plan=Rainha%20de%20Ouros&tier=Rei%20de%20Espadas", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 5000, body["discounted_price"])
	assert.Equal(t, "R$ 50,00", body["formatted_discounted"])

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/plans/quote", "").Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/wallets/u1/plan", "").Code)
}

func TestBonusFallback(t *testing.T) {
	api := newTestAPI(t, staticBonus{err: assert.AnError})

	rec := api.do(http.MethodGet, "/bonus", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 500, body["referral_bonus_amount"])
	assert.Equal(t, "R$ 5,00", body["formatted"])

	assert.Equal(t, http.StatusOK, api.do(http.MethodPost, "/bonus/refresh", "").Code)
}

func TestDocuments(t *testing.T) {
	api := newTestAPI(t, staticBonus{})

	body := decode(t, api.do(http.MethodGet, "/documents/cpf/52998224725", ""))
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, "529.982.247-25", body["formatted"])

	body = decode(t, api.do(http.MethodGet, "/documents/cpf/11111111111", ""))
	assert.Equal(t, false, body["valid"])

	body = decode(t, api.do(http.MethodGet, "/documents/cnpj/11444777000161", ""))
	assert.Equal(t, true, body["valid"])
}

func TestRegisterCreditsBonus(t *testing.T) {
	api := newTestAPI(t, staticBonus{})

	rec := api.do(http.MethodPost, "/auth/register", `{"email":"a@b.com","password":"123456","full_name":"Ana","aceite_termos":true,"referralCode":"X"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode(t, rec)["bonus_credited"])

	wallet, _ := api.balances.GetWalletBalance(context.Background(), "novo")
	assert.Equal(t, int64(500), wallet)

	rec = api.do(http.MethodPost, "/auth/register", `{"email":"a@b.com","password":"1","full_name":"Ana","aceite_termos":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
