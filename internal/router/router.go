package router

import (
	"time"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/config"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/handler"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/middleware"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/repository"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/service"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min por IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	caixaRepo := repository.NewCaixaRepository(db)
	comandaRepo := repository.NewComandaRepository(db)
	formaPagamentoRepo := repository.NewFormaPagamentoRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	produtoSvc := service.NewProdutoService(produtoRepo, rdb)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	caixaSvc := service.NewCaixaService(caixaRepo, dispatcher)
	comandaSvc := service.NewComandaService(comandaRepo, produtoRepo, caixaSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	produtosH := handler.NewProdutosHandler(produtoSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	caixaH := handler.NewCaixaHandler(caixaSvc, caixaRepo, cfg.PDFStoragePath)
	comandasH := handler.NewComandasHandler(comandaSvc)
	formasH := handler.NewFormasPagamentoHandler(formaPagamentoRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Comandas — garçom lança itens, só caixa/administrador fecham
		mesas := v1.Group("/mesas")
		{
			mesas.GET("/:ref/comanda", middleware.RequireRole("garcom", "caixa", "administrador"), comandasH.Obter)
			mesas.PUT("/:ref/comanda/itens", middleware.RequireRole("garcom", "caixa", "administrador"), comandasH.SalvarItens)
			mesas.POST("/:ref/comanda/fechar", middleware.RequireRole("caixa", "administrador"), comandasH.Fechar)
		}

		caixa := v1.Group("/caixa")
		{
			caixa.POST("/abrir", middleware.RequireRole("caixa", "administrador"), caixaH.Abrir)
			caixa.GET("/aberta", middleware.RequireRole("caixa", "administrador"), caixaH.Aberta)
			caixa.POST("/movimentos", middleware.RequireRole("caixa", "administrador"), caixaH.Movimento)
			caixa.POST("/fechar", middleware.RequireRole("caixa", "administrador"), caixaH.Fechar)
			caixa.GET("/:id/relatorio", middleware.RequireRole("caixa", "administrador"), caixaH.Relatorio)
			caixa.GET("/:id/relatorio/pdf", middleware.RequireRole("caixa", "administrador"), caixaH.RelatorioPDF)
			caixa.GET("/historico", middleware.RequireRole("administrador"), caixaH.Historico)
		}

		// Produtos — leitura para todos os papéis, escrita só administrador
		v1.GET("/produtos", middleware.RequireRole("garcom", "caixa", "administrador"), produtosH.Listar)
		v1.GET("/produtos/:id", middleware.RequireRole("garcom", "caixa", "administrador"), produtosH.ObterPorID)
		prods := v1.Group("/produtos", middleware.RequireRole("administrador"))
		{
			prods.POST("", produtosH.Criar)
			prods.PUT("/:id", produtosH.Atualizar)
			prods.DELETE("/:id", produtosH.Desativar)
		}

		v1.GET("/categorias", middleware.RequireRole("garcom", "caixa", "administrador"), categoriasH.Listar)
		categorias := v1.Group("/categorias", middleware.RequireRole("administrador"))
		{
			categorias.POST("", categoriasH.Criar)
			categorias.PUT("/:id", categoriasH.Atualizar)
			categorias.DELETE("/:id", categoriasH.Desativar)
		}

		v1.GET("/formas-pagamento", middleware.RequireRole("garcom", "caixa", "administrador"), formasH.Listar)
		formas := v1.Group("/formas-pagamento", middleware.RequireRole("administrador"))
		{
			formas.POST("", formasH.Criar)
			formas.PUT("/:id", formasH.Atualizar)
			formas.DELETE("/:id", formasH.Deletar)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", usuariosH.Criar)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Atualizar)
			usuarios.DELETE("/:id", usuariosH.Desativar)
			usuarios.PATCH("/:id/reativar", usuariosH.Reativar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
