//go:build integration

package e2e

// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Covered flows:
//   - comanda completa: abrir caixa → lançar itens → fechar comanda → conferir razão
//   - referências de mesa equivalentes ("7" vs "07")
//   - caixa único: segunda abertura rejeitada pelo índice parcial
//   - fechamento com conferência cega e classificação da diferença

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/config"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/infra"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("restaurenteos_test"),
		tcPostgres.WithUsername("restaurenteos"),
		tcPostgres.WithPassword("restaurenteos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	require.NoError(t, infra.RunMigrations(db))

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("senha-e2e"), 12)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO usuarios (id, username, nome, password_hash, papel, ativo, created_at, updated_at)
		VALUES (gen_random_uuid(), 'admin@e2e.test', 'Admin E2E', ?, 'administrador', true, NOW(), NOW())
		ON CONFLICT DO NOTHING`, string(hash)).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin@e2e.test", "password": "senha-e2e"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func criarProduto(t *testing.T, env *testEnv, nome string, preco float64) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/produtos",
		jsonBody(t, map[string]any{"nome": nome, "preco": preco}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CicloComandaCompleto(t *testing.T) {
	env := setupTestEnv(t)

	prodID := criarProduto(t, env, "X-Burger", 25.00)

	// abre o caixa com troco inicial
	abrirResp := do(t, env.server, "POST", "/v1/caixa/abrir",
		jsonBody(t, map[string]any{"troco_inicial": 100.00}), env.token)
	require.Equal(t, http.StatusCreated, abrirResp.StatusCode)
	abrirResp.Body.Close()

	// lança 2 itens na mesa 7 (sem zero à esquerda)
	itensResp := do(t, env.server, "PUT", "/v1/mesas/7/comanda/itens",
		jsonBody(t, map[string]any{
			"itens_nao_salvos": []map[string]any{
				{"produto_id": prodID, "quantidade": 2},
			},
		}), env.token)
	require.Equal(t, http.StatusOK, itensResp.StatusCode)
	var comanda struct {
		ID        string `json:"id"`
		ChaveMesa string `json:"chave_mesa"`
		Total     string `json:"total"`
	}
	decodeJSON(t, itensResp, &comanda)
	assert.Equal(t, "07", comanda.ChaveMesa)
	assert.Equal(t, "50", comanda.Total)

	// a mesma comanda responde pela grafia canônica
	obterResp := do(t, env.server, "GET", "/v1/mesas/07/comanda", nil, env.token)
	require.Equal(t, http.StatusOK, obterResp.StatusCode)
	var mesma struct {
		ID string `json:"id"`
	}
	decodeJSON(t, obterResp, &mesma)
	assert.Equal(t, comanda.ID, mesma.ID)

	// fecha a comanda: vira movimento de venda e some
	fecharResp := do(t, env.server, "POST", "/v1/mesas/7/comanda/fechar", nil, env.token)
	require.Equal(t, http.StatusOK, fecharResp.StatusCode)
	var fechamento struct {
		MovimentoID string `json:"movimento_id"`
		Total       string `json:"total"`
	}
	decodeJSON(t, fecharResp, &fechamento)
	assert.Equal(t, comanda.ID, fechamento.MovimentoID)

	goneResp := do(t, env.server, "GET", "/v1/mesas/7/comanda", nil, env.token)
	assert.Equal(t, http.StatusNotFound, goneResp.StatusCode)
	goneResp.Body.Close()

	// o razão do caixa reflete a venda
	aberta := do(t, env.server, "GET", "/v1/caixa/aberta", nil, env.token)
	require.Equal(t, http.StatusOK, aberta.StatusCode)
	var sessao struct {
		Totais struct {
			TotalVendas string `json:"total_vendas"`
			SaldoAtual  string `json:"saldo_atual"`
		} `json:"totais"`
		Movimentos []struct {
			Tipo  string `json:"tipo"`
			Itens []struct {
				Nome       string `json:"nome"`
				Quantidade int    `json:"quantidade"`
			} `json:"itens"`
		} `json:"movimentos"`
	}
	decodeJSON(t, aberta, &sessao)
	assert.Equal(t, "50", sessao.Totais.TotalVendas)
	assert.Equal(t, "150", sessao.Totais.SaldoAtual)
	require.Len(t, sessao.Movimentos, 1)
	assert.Equal(t, "venda", sessao.Movimentos[0].Tipo)

	// o movimento de venda carrega o snapshot das linhas vendidas
	require.Len(t, sessao.Movimentos[0].Itens, 1)
	assert.Equal(t, "X-Burger", sessao.Movimentos[0].Itens[0].Nome)
	assert.Equal(t, 2, sessao.Movimentos[0].Itens[0].Quantidade)
}

func TestE2E_CaixaUnico(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/caixa/abrir",
		jsonBody(t, map[string]any{"troco_inicial": 50.00}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// segunda abertura bate no índice único parcial
	dup := do(t, env.server, "POST", "/v1/caixa/abrir",
		jsonBody(t, map[string]any{"troco_inicial": 10.00}), env.token)
	assert.Equal(t, http.StatusConflict, dup.StatusCode)
	dup.Body.Close()
}

func TestE2E_FechamentoComConferencia(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/caixa/abrir",
		jsonBody(t, map[string]any{"troco_inicial": 100.00}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	movResp := do(t, env.server, "POST", "/v1/caixa/movimentos",
		jsonBody(t, map[string]any{
			"tipo": "saida_manual", "valor": 10.00, "descricao": "Pagamento motoboy",
		}), env.token)
	require.Equal(t, http.StatusCreated, movResp.StatusCode)
	movResp.Body.Close()

	// esperado = 100 - 10 = 90; contado 89.50 → falta
	fecharResp := do(t, env.server, "POST", "/v1/caixa/fechar",
		jsonBody(t, map[string]any{"valor_contado": 89.50}), env.token)
	require.Equal(t, http.StatusOK, fecharResp.StatusCode)
	var fechada struct {
		Estado     string `json:"estado"`
		Fechamento struct {
			ValorEsperado   string `json:"valor_esperado"`
			Diferenca       string `json:"diferenca"`
			StatusDiferenca string `json:"status_diferenca"`
		} `json:"fechamento"`
	}
	decodeJSON(t, fecharResp, &fechada)
	assert.Equal(t, "fechada", fechada.Estado)
	assert.Equal(t, "90", fechada.Fechamento.ValorEsperado)
	assert.Equal(t, "-0.5", fechada.Fechamento.Diferenca)
	assert.Equal(t, "falta", fechada.Fechamento.StatusDiferenca)

	// segundo fechamento é rejeitado
	again := do(t, env.server, "POST", "/v1/caixa/fechar",
		jsonBody(t, map[string]any{"valor_contado": 0}), env.token)
	assert.Equal(t, http.StatusConflict, again.StatusCode)
	again.Body.Close()
}
