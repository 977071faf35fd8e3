package handler

import (
	"errors"
	"net/http"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/apierror"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/dto"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/model"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FormasPagamentoHandler is thin enough to talk straight to the repository —
// there is no business logic between the CRUD surface and the table.
type FormasPagamentoHandler struct{ repo repository.FormaPagamentoRepository }

func NewFormasPagamentoHandler(repo repository.FormaPagamentoRepository) *FormasPagamentoHandler {
	return &FormasPagamentoHandler{repo: repo}
}

func (h *FormasPagamentoHandler) Criar(c *gin.Context) {
	var req dto.CriarFormaPagamentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	f := &model.FormaPagamento{Nome: req.Nome, Ativo: true}
	if err := h.repo.Criar(c.Request.Context(), f); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, apierror.New("Já existe uma forma de pagamento com esse nome"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, mapFormaPagamento(f))
}

func (h *FormasPagamentoHandler) Listar(c *gin.Context) {
	list, err := h.repo.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar formas de pagamento"))
		return
	}
	resp := make([]dto.FormaPagamentoResponse, 0, len(list))
	for i := range list {
		resp = append(resp, mapFormaPagamento(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FormasPagamentoHandler) Atualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarFormaPagamentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	f, err := h.repo.Atualizar(c.Request.Context(), id, req.Nome, req.Ativo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Forma de pagamento não encontrada"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, mapFormaPagamento(f))
}

func (h *FormasPagamentoHandler) Deletar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.repo.Deletar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func mapFormaPagamento(f *model.FormaPagamento) dto.FormaPagamentoResponse {
	return dto.FormaPagamentoResponse{ID: f.ID.String(), Nome: f.Nome, Ativo: f.Ativo}
}
