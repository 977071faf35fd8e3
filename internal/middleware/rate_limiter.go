package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// limiter is a fixed-window per-IP request counter. Windows reset lazily on
// the first request after expiry; a background sweep drops idle IPs so the
// map does not grow without bound.
type limiter struct {
	mu       sync.Mutex
	seen     map[string]*janela
	limite   int
	periodo  time.Duration
	mensagem string
}

type janela struct {
	count int
	ate   time.Time
}

func newLimiter(limite int, periodo time.Duration, mensagem string) *limiter {
	l := &limiter{
		seen:     make(map[string]*janela),
		limite:   limite,
		periodo:  periodo,
		mensagem: mensagem,
	}
	go l.sweep()
	return l
}

func (l *limiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	j, ok := l.seen[ip]
	if !ok || now.After(j.ate) {
		j = &janela{ate: now.Add(l.periodo)}
		l.seen[ip] = j
	}
	j.count++
	return j.count <= l.limite, j.ate
}

func (l *limiter) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		removidos := 0
		for ip, j := range l.seen {
			if now.After(j.ate) {
				delete(l.seen, ip)
				removidos++
			}
		}
		restantes := len(l.seen)
		l.mu.Unlock()

		if removidos > 0 {
			log.Debug().Int("removidos", removidos).Int("restantes", restantes).
				Msg("rate limiter: janelas expiradas removidas")
		}
	}
}

func (l *limiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, ate := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(time.Until(ate).Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.mensagem))
			return
		}
		c.Next()
	}
}

// RateLimiter bounds overall API traffic per client IP.
func RateLimiter(limite int, periodo time.Duration) gin.HandlerFunc {
	return newLimiter(limite, periodo, "Muitas solicitações. Tente novamente em instantes.").handler()
}

// LoginRateLimiter slows credential stuffing: 20 tentativas por minuto por IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newLimiter(20, time.Minute, "Muitas tentativas de login. Tente novamente em 1 minuto.").handler()
}
