package handler

import (
	"errors"
	"net/http"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/apierror"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/dto"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/middleware"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type ComandasHandler struct{ svc service.ComandaService }

func NewComandasHandler(svc service.ComandaService) *ComandasHandler {
	return &ComandasHandler{svc: svc}
}

// Obter godoc
// @Summary Retorna a comanda aberta de uma mesa
// @Tags comandas
// @Produce json
// @Security BearerAuth
// @Param ref path string true "Número da mesa ou id da comanda"
// @Success 200 {object} dto.ComandaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/mesas/{ref}/comanda [get]
func (h *ComandasHandler) Obter(c *gin.Context) {
	resp, err := h.svc.Obter(c.Request.Context(), c.Param("ref"))
	if err != nil {
		writeComandaErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SalvarItens godoc
// @Summary Mescla e persiste os itens de uma comanda
// @Tags comandas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ref path string true "Número da mesa ou id da comanda"
// @Param body body dto.SalvarItensRequest true "Itens do cliente"
// @Success 200 {object} dto.ComandaResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/mesas/{ref}/comanda/itens [put]
func (h *ComandasHandler) SalvarItens(c *gin.Context) {
	var req dto.SalvarItensRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SalvarItens(c.Request.Context(), c.Param("ref"), req)
	if err != nil {
		writeComandaErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Fechar godoc
// @Summary Fecha a comanda e lança a venda no caixa
// @Tags comandas
// @Produce json
// @Security BearerAuth
// @Param ref path string true "Número da mesa ou id da comanda"
// @Success 200 {object} dto.FecharComandaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/mesas/{ref}/comanda/fechar [post]
func (h *ComandasHandler) Fechar(c *gin.Context) {
	resp, err := h.svc.Fechar(c.Request.Context(), middleware.Operador(c), c.Param("ref"))
	if err != nil {
		writeComandaErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func writeComandaErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReferenciaInvalida):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrNaoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCaixaNaoAberto):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
	}
}
