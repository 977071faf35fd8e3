package repository

import (
	"context"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FormaPagamentoRepository interface {
	Criar(ctx context.Context, f *model.FormaPagamento) error
	Listar(ctx context.Context) ([]model.FormaPagamento, error)
	Atualizar(ctx context.Context, id uuid.UUID, nome *string, ativo *bool) (*model.FormaPagamento, error)
	Deletar(ctx context.Context, id uuid.UUID) error
}

type formaPagamentoRepo struct{ db *gorm.DB }

func NewFormaPagamentoRepository(db *gorm.DB) FormaPagamentoRepository {
	return &formaPagamentoRepo{db: db}
}

func (r *formaPagamentoRepo) Criar(ctx context.Context, f *model.FormaPagamento) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *formaPagamentoRepo) Listar(ctx context.Context) ([]model.FormaPagamento, error) {
	var list []model.FormaPagamento
	err := r.db.WithContext(ctx).Order("nome asc").Find(&list).Error
	return list, err
}

func (r *formaPagamentoRepo) Atualizar(ctx context.Context, id uuid.UUID, nome *string, ativo *bool) (*model.FormaPagamento, error) {
	var f model.FormaPagamento
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if nome != nil {
		f.Nome = *nome
	}
	if ativo != nil {
		f.Ativo = *ativo
	}
	if err := r.db.WithContext(ctx).Save(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *formaPagamentoRepo) Deletar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.FormaPagamento{}, "id = ?", id).Error
}
