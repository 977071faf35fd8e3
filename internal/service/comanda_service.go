package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/dto"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/model"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ComandaService interface {
	// Obter resolves the table reference and returns its open comanda.
	Obter(ctx context.Context, referencia string) (*dto.ComandaResponse, error)
	// SalvarItens merges the client's item lists into the canonical list and
	// persists it, creating the comanda on first save.
	SalvarItens(ctx context.Context, referencia string, req dto.SalvarItensRequest) (*dto.ComandaResponse, error)
	// Fechar folds the comanda into the caixa ledger: freeze items and total,
	// append the venda movement, then delete the comanda. The movement uses
	// the comanda id as its logical id, so a retry after a partial failure
	// never double-counts the sale.
	Fechar(ctx context.Context, operador, referencia string) (*dto.FecharComandaResponse, error)
}

type comandaService struct {
	repo        repository.ComandaRepository
	produtoRepo repository.ProdutoRepository
	caixa       CaixaService
}

func NewComandaService(repo repository.ComandaRepository, produtoRepo repository.ProdutoRepository, caixa CaixaService) ComandaService {
	return &comandaService{repo: repo, produtoRepo: produtoRepo, caixa: caixa}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Obter ─────────────────────────────────────────────────────────────────────

func (s *comandaService) Obter(ctx context.Context, referencia string) (*dto.ComandaResponse, error) {
	chave, err := ResolverReferenciaMesa(referencia)
	if err != nil {
		return nil, err
	}
	comanda, err := s.repo.FindAberta(ctx, AliasesMesa(chave))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, fmt.Errorf("buscar comanda: %w", err)
	}
	return mapComanda(comanda), nil
}

// ── SalvarItens ───────────────────────────────────────────────────────────────

func (s *comandaService) SalvarItens(ctx context.Context, referencia string, req dto.SalvarItensRequest) (*dto.ComandaResponse, error) {
	chave, err := ResolverReferenciaMesa(referencia)
	if err != nil {
		return nil, err
	}

	naoSalvos, err := s.resolverItens(ctx, req.ItensNaoSalvos)
	if err != nil {
		return nil, err
	}
	persistidosCliente, err := s.resolverItens(ctx, req.ItensPersistidos)
	if err != nil {
		return nil, err
	}

	var out *model.Comanda
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		comanda, err := s.repo.FindAbertaTx(tx, AliasesMesa(chave))
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// The merge base is the store's own item list, read under the row
		// lock — never the client's possibly stale copy. The client list
		// only seeds a comanda that does not exist yet.
		base := persistidosCliente
		if comanda != nil {
			base = comanda.Itens
		} else {
			comanda = &model.Comanda{
				ChaveMesa: chave,
				Estado:    model.ComandaAberta,
				CriadaEm:  time.Now(),
			}
			if err := s.repo.CriarTx(tx, comanda); err != nil {
				return fmt.Errorf("criar comanda: %w", err)
			}
		}

		mesclados := MesclarItens(base, naoSalvos)
		comanda.Total = TotalItens(mesclados)
		if err := s.repo.SubstituirItensTx(tx, comanda, mesclados); err != nil {
			return fmt.Errorf("salvar itens: %w", err)
		}
		out = comanda
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mapComanda(out), nil
}

// resolverItens converts payload lines to model lines, snapshotting nome and
// preço from the catalog only when the client did not send them. A line whose
// product is gone from the catalog is kept as-is with its frozen data.
func (s *comandaService) resolverItens(ctx context.Context, payload []dto.ItemComandaPayload) ([]model.ItemComanda, error) {
	itens := make([]model.ItemComanda, 0, len(payload))
	for _, p := range payload {
		pid, err := uuid.Parse(p.ProdutoID)
		if err != nil {
			return nil, fmt.Errorf("produto_id inválido: %w", err)
		}
		item := model.ItemComanda{
			ProdutoID:  pid,
			Nome:       p.Nome,
			Quantidade: p.Quantidade,
			Observacao: p.Observacao,
		}
		if p.PrecoUnitario != nil {
			item.PrecoUnitario = *p.PrecoUnitario
		}
		if p.Nome == "" || p.PrecoUnitario == nil {
			produto, err := s.produtoRepo.FindByID(ctx, pid)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, fmt.Errorf("produto %s: %w", p.ProdutoID, ErrNaoEncontrado)
				}
				return nil, fmt.Errorf("buscar produto: %w", err)
			}
			if item.Nome == "" {
				item.Nome = produto.Nome
			}
			if p.PrecoUnitario == nil {
				item.PrecoUnitario = produto.Preco
			}
		}
		itens = append(itens, item)
	}
	return itens, nil
}

// ── Fechar ────────────────────────────────────────────────────────────────────

func (s *comandaService) Fechar(ctx context.Context, operador, referencia string) (*dto.FecharComandaResponse, error) {
	chave, err := ResolverReferenciaMesa(referencia)
	if err != nil {
		return nil, err
	}

	// Step 1 — finalize: freeze the items and total.
	comanda, err := s.repo.FindAberta(ctx, AliasesMesa(chave))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, fmt.Errorf("buscar comanda: %w", err)
	}

	// Step 2 — append the venda movement. A failure here leaves the comanda
	// untouched and is surfaced distinctly from the finalize step; the caixa
	// being closed must never silently drop the sale.
	if err := s.caixa.RegistrarVenda(ctx, operador, comanda.ChaveMesa, comanda.ID, comanda.Total, comanda.Itens); err != nil {
		return nil, fmt.Errorf("lançar venda no caixa: %w", err)
	}

	// Step 3 — delete the comanda. If this fails the venda movement already
	// exists; a retry re-runs steps 1–2 as no-ops (same logical movement id)
	// and tries the delete again.
	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.DeletarTx(tx, comanda.ID)
	}); err != nil {
		return nil, fmt.Errorf("remover comanda: %w", err)
	}

	log.Info().Str("chave_mesa", comanda.ChaveMesa).Str("operador", operador).
		Str("total", comanda.Total.StringFixed(2)).Msg("comanda fechada")

	resp := &dto.FecharComandaResponse{
		ChaveMesa:   comanda.ChaveMesa,
		Total:       comanda.Total,
		MovimentoID: comanda.ID.String(),
	}
	for _, it := range comanda.Itens {
		resp.Itens = append(resp.Itens, mapItem(it))
	}
	return resp, nil
}

// ── Mapping helpers ───────────────────────────────────────────────────────────

func mapComanda(c *model.Comanda) *dto.ComandaResponse {
	resp := &dto.ComandaResponse{
		ID:        c.ID.String(),
		ChaveMesa: c.ChaveMesa,
		Total:     c.Total,
		CriadaEm:  c.CriadaEm.Format(time.RFC3339),
		Itens:     make([]dto.ItemComandaResponse, 0, len(c.Itens)),
	}
	for _, it := range c.Itens {
		resp.Itens = append(resp.Itens, mapItem(it))
	}
	return resp
}

func mapItem(it model.ItemComanda) dto.ItemComandaResponse {
	return dto.ItemComandaResponse{
		ProdutoID:     it.ProdutoID.String(),
		Nome:          it.Nome,
		Quantidade:    it.Quantidade,
		PrecoUnitario: it.PrecoUnitario,
		Subtotal:      it.Subtotal(),
		Observacao:    it.Observacao,
	}
}
