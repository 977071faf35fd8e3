package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/apierror"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/dto"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/infra"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/middleware"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/repository"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CaixaHandler struct {
	svc     service.CaixaService
	repo    repository.CaixaRepository
	pdfPath string
}

func NewCaixaHandler(svc service.CaixaService, repo repository.CaixaRepository, pdfPath string) *CaixaHandler {
	return &CaixaHandler{svc: svc, repo: repo, pdfPath: pdfPath}
}

// Abrir godoc
// @Summary Abre uma nova sessão de caixa
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCaixaRequest true "Dados de abertura"
// @Success 201 {object} dto.SessaoCaixaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/abrir [post]
func (h *CaixaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), middleware.Operador(c), req)
	if err != nil {
		writeCaixaErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Aberta godoc
// @Summary Retorna a sessão de caixa aberta no momento
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessaoCaixaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caixa/aberta [get]
func (h *CaixaHandler) Aberta(c *gin.Context) {
	resp, err := h.svc.SessaoAberta(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrCaixaNaoAberto) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movimento godoc
// @Summary Registra uma entrada ou saída manual no caixa
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimentoManualRequest true "Movimento manual"
// @Success 201 {object} dto.MovimentoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/movimentos [post]
func (h *CaixaHandler) Movimento(c *gin.Context) {
	var req dto.MovimentoManualRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarMovimento(c.Request.Context(), middleware.Operador(c), req)
	if err != nil {
		writeCaixaErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Fechar godoc
// @Summary Fecha a sessão de caixa com conferência cega
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.FecharCaixaRequest true "Valor contado"
// @Success 200 {object} dto.SessaoCaixaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/fechar [post]
func (h *CaixaHandler) Fechar(c *gin.Context) {
	var req dto.FecharCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Fechar(c.Request.Context(), middleware.Operador(c), req)
	if err != nil {
		writeCaixaErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Relatorio godoc
// @Summary Retorna o relatório de uma sessão de caixa
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da sessão"
// @Success 200 {object} dto.SessaoCaixaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caixa/{id}/relatorio [get]
func (h *CaixaHandler) Relatorio(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Relatorio(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNaoEncontrado) {
			c.JSON(http.StatusNotFound, apierror.New("Sessão não encontrada"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RelatorioPDF serves the thermal-format PDF for a session, generating it on
// demand when the worker has not produced it yet.
func (h *CaixaHandler) RelatorioPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	sessao, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Sessão não encontrada"))
		return
	}
	path, err := infra.GerarRelatorioPDF(sessao, h.pdfPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Falha ao gerar PDF"))
		return
	}
	c.FileAttachment(path, fmt.Sprintf("caixa-%s.pdf", id))
}

// Historico godoc
// @Summary Lista paginada de sessões fechadas
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /v1/caixa/historico [get]
func (h *CaixaHandler) Historico(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	resp, total, err := h.svc.Historico(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": total, "page": page, "limit": limit})
}

// writeCaixaErr maps the service sentinels onto HTTP statuses. Anything not
// recognized is a store failure and surfaces as 500.
func writeCaixaErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCaixaJaAberto),
		errors.Is(err, service.ErrCaixaNaoAberto):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrValorInvalido):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
	}
}
