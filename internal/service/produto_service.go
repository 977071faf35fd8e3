package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/dto"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/model"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const produtoCacheTTL = 10 * time.Minute

type ProdutoService interface {
	Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error)
	Listar(ctx context.Context, incluirInativos bool) ([]dto.ProdutoResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)
	Desativar(ctx context.Context, id uuid.UUID) error
}

type produtoService struct {
	repo repository.ProdutoRepository
	rdb  *redis.Client // nil disables the read cache
}

func NewProdutoService(repo repository.ProdutoRepository, rdb *redis.Client) ProdutoService {
	return &produtoService{repo: repo, rdb: rdb}
}

func (s *produtoService) Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	p := &model.Produto{
		Nome:      req.Nome,
		Descricao: req.Descricao,
		Preco:     req.Preco,
		Ativo:     true,
	}
	if req.CategoriaID != nil {
		cid, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, fmt.Errorf("categoria_id inválido: %w", err)
		}
		p.CategoriaID = &cid
	}
	if err := s.repo.Criar(ctx, p); err != nil {
		return nil, err
	}
	return mapProduto(p), nil
}

func (s *produtoService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error) {
	cacheKey := "produto:" + id.String()
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.ProdutoResponse
			if json.Unmarshal(cached, &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, err
	}
	resp := mapProduto(p)

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.rdb.Set(ctx, cacheKey, data, produtoCacheTTL)
		}
	}
	return resp, nil
}

func (s *produtoService) Listar(ctx context.Context, incluirInativos bool) ([]dto.ProdutoResponse, error) {
	list, err := s.repo.Listar(ctx, incluirInativos)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProdutoResponse, 0, len(list))
	for i := range list {
		out = append(out, *mapProduto(&list[i]))
	}
	return out, nil
}

func (s *produtoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, err
	}

	if req.Nome != nil {
		p.Nome = *req.Nome
	}
	if req.Descricao != nil {
		p.Descricao = req.Descricao
	}
	if req.CategoriaID != nil {
		cid, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, fmt.Errorf("categoria_id inválido: %w", err)
		}
		p.CategoriaID = &cid
	}
	if req.Preco != nil {
		p.Preco = *req.Preco
	}
	if req.Ativo != nil {
		p.Ativo = *req.Ativo
	}

	if err := s.repo.Atualizar(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return mapProduto(p), nil
}

func (s *produtoService) Desativar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNaoEncontrado
		}
		return err
	}
	if err := s.repo.Desativar(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *produtoService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.rdb != nil {
		s.rdb.Del(ctx, "produto:"+id.String())
	}
}

func mapProduto(p *model.Produto) *dto.ProdutoResponse {
	resp := &dto.ProdutoResponse{
		ID:        p.ID.String(),
		Nome:      p.Nome,
		Descricao: p.Descricao,
		Preco:     p.Preco,
		Ativo:     p.Ativo,
	}
	if p.Categoria != nil {
		resp.Categoria = &p.Categoria.Nome
	}
	return resp
}
