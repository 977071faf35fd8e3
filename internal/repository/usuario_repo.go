package repository

import (
	"context"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Criar(ctx context.Context, u *model.Usuario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
	Listar(ctx context.Context, incluirInativos bool) ([]model.Usuario, error)
	Atualizar(ctx context.Context, u *model.Usuario) error
	SetAtivo(ctx context.Context, id uuid.UUID, ativo bool) error
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Criar(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	var u model.Usuario
	if err := r.db.WithContext(ctx).Where("username = ? AND ativo = true", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) Listar(ctx context.Context, incluirInativos bool) ([]model.Usuario, error) {
	q := r.db.WithContext(ctx).Order("username asc")
	if !incluirInativos {
		q = q.Where("ativo = true")
	}
	var list []model.Usuario
	err := q.Find(&list).Error
	return list, err
}

func (r *usuarioRepo) Atualizar(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *usuarioRepo) SetAtivo(ctx context.Context, id uuid.UUID, ativo bool) error {
	return r.db.WithContext(ctx).Model(&model.Usuario{}).Where("id = ?", id).Update("ativo", ativo).Error
}
