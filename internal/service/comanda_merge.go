package service

import (
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/model"

	"github.com/shopspring/decimal"
)

// chaveItem identifies an order line for merge purposes: same product with a
// different observação ("sem sal") is a different line.
type chaveItem struct {
	produtoID  string
	observacao string
}

// MesclarItens reconciles the persisted item list of a comanda with the
// not-yet-saved items collected on the client into one canonical list.
//
// Lines are grouped by (produto, observação); quantities are summed and the
// most recently seen unit price wins. Lines whose resulting quantity drops to
// zero or below are removed. Output keeps first-seen order, and merging an
// already-merged list with nothing new returns the same list, so the
// operation is idempotent. The catalog is never consulted here: a line whose
// product no longer exists keeps its frozen name and price.
func MesclarItens(persistidos, naoSalvos []model.ItemComanda) []model.ItemComanda {
	todos := make([]model.ItemComanda, 0, len(persistidos)+len(naoSalvos))
	todos = append(todos, persistidos...)
	todos = append(todos, naoSalvos...)

	grupos := make(map[chaveItem]*model.ItemComanda, len(todos))
	ordem := make([]chaveItem, 0, len(todos))

	for _, it := range todos {
		k := chaveItem{produtoID: it.ProdutoID.String(), observacao: it.Observacao}
		g, ok := grupos[k]
		if !ok {
			copia := it
			grupos[k] = &copia
			ordem = append(ordem, k)
			continue
		}
		g.Quantidade += it.Quantidade
		// last-write-wins on price: not expected to change mid-session, but
		// if it does the newest snapshot is the one kept
		g.PrecoUnitario = it.PrecoUnitario
		if it.Nome != "" {
			g.Nome = it.Nome
		}
	}

	resultado := make([]model.ItemComanda, 0, len(ordem))
	for _, k := range ordem {
		if grupos[k].Quantidade <= 0 {
			continue
		}
		resultado = append(resultado, *grupos[k])
	}
	return resultado
}

// TotalItens sums Quantidade × PrecoUnitario over the list.
func TotalItens(itens []model.ItemComanda) decimal.Decimal {
	total := decimal.Zero
	for _, it := range itens {
		total = total.Add(it.Subtotal())
	}
	return total
}
