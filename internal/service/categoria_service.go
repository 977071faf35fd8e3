package service

import (
	"context"
	"errors"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/dto"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/model"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoriaService interface {
	Criar(ctx context.Context, req dto.CriarCategoriaRequest) (dto.CategoriaResponse, error)
	Listar(ctx context.Context) ([]dto.CategoriaResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarCategoriaRequest) (dto.CategoriaResponse, error)
	Desativar(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:        c.ID,
		Nome:      c.Nome,
		Descricao: c.Descricao,
		Ativo:     c.Ativo,
	}
}

func (s *categoriaService) Criar(ctx context.Context, req dto.CriarCategoriaRequest) (dto.CategoriaResponse, error) {
	existing, err := s.repo.FindByNome(ctx, req.Nome)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CategoriaResponse{}, err
	}
	if existing != nil {
		return dto.CategoriaResponse{}, errors.New("já existe uma categoria com esse nome")
	}

	c := &model.Categoria{
		Nome:      req.Nome,
		Descricao: req.Descricao,
		Ativo:     true,
	}
	if err := s.repo.Criar(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Listar(ctx context.Context) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *categoriaService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarCategoriaRequest) (dto.CategoriaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoriaResponse{}, ErrNaoEncontrado
		}
		return dto.CategoriaResponse{}, err
	}

	if req.Nome != nil {
		if *req.Nome != c.Nome {
			existing, err := s.repo.FindByNome(ctx, *req.Nome)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.CategoriaResponse{}, err
			}
			if existing != nil && existing.ID != id {
				return dto.CategoriaResponse{}, errors.New("já existe uma categoria com esse nome")
			}
		}
		c.Nome = *req.Nome
	}
	if req.Descricao != nil {
		c.Descricao = req.Descricao
	}
	if req.Ativo != nil {
		c.Ativo = *req.Ativo
	}

	if err := s.repo.Atualizar(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Desativar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNaoEncontrado
		}
		return err
	}
	return s.repo.Desativar(ctx, id)
}
