package service

import "errors"

// Caller-logic errors. Handlers map these to HTTP statuses; none of them is
// retried automatically. Store failures are wrapped and propagated as-is —
// a failed ledger append is NEVER reported as success.
var (
	// ErrReferenciaInvalida: malformed table/order reference (empty string).
	ErrReferenciaInvalida = errors.New("referência de mesa inválida")
	// ErrNaoEncontrado: absence, not necessarily a failure — callers decide
	// whether to create.
	ErrNaoEncontrado  = errors.New("registro não encontrado")
	ErrCaixaJaAberto  = errors.New("já existe um caixa aberto")
	ErrCaixaNaoAberto = errors.New("não há caixa aberto")
	ErrValorInvalido  = errors.New("valor inválido")
)
