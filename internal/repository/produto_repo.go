package repository

import (
	"context"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProdutoRepository interface {
	Criar(ctx context.Context, p *model.Produto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error)
	Listar(ctx context.Context, incluirInativos bool) ([]model.Produto, error)
	Atualizar(ctx context.Context, p *model.Produto) error
	Desativar(ctx context.Context, id uuid.UUID) error
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) Criar(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *produtoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).Preload("Categoria").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoRepo) Listar(ctx context.Context, incluirInativos bool) ([]model.Produto, error) {
	q := r.db.WithContext(ctx).Preload("Categoria").Order("nome asc")
	if !incluirInativos {
		q = q.Where("ativo = true")
	}
	var list []model.Produto
	err := q.Find(&list).Error
	return list, err
}

func (r *produtoRepo) Atualizar(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *produtoRepo) Desativar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Produto{}).Where("id = ?", id).Update("ativo", false).Error
}
