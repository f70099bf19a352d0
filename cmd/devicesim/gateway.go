package main

import (
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const metersPerDegree = 111320

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password"`
}

// gateway imitates the GPS status API of the vessel's cellular router.
type gateway struct {
	username string
	password string
	tokenTTL time.Duration
	now      func() time.Time

	mu       sync.Mutex
	token    string
	issuedAt time.Time
	lat      float64
	lon      float64
	heading  float64
	speed    float64 // knots
	lastStep time.Time
}

func newGateway(username, password string, tokenTTL time.Duration, lat, lon float64) *gateway {
	return &gateway{
		username: username,
		password: password,
		tokenTTL: tokenTTL,
		now:      time.Now,
		lat:      lat,
		lon:      lon,
		heading:  rand.Float64() * 360,
		speed:    8 + rand.Float64()*6,
	}
}

func (g *gateway) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.POST("/api/login", g.login)
	r.GET("/api/gps/position/status", g.position)
	return r
}

func (g *gateway) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": []gin.H{{"code": 100, "error": err.Error()}}})
		return
	}
	if req.Username != g.username || req.Password != g.password {
		log.Warn().Str("username", req.Username).Msg("rejected login")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "errors": []gin.H{{"code": 120, "error": "invalid credentials"}}})
		return
	}

	g.mu.Lock()
	g.token = uuid.NewString()
	g.issuedAt = g.now()
	token := g.token
	g.mu.Unlock()

	log.Info().Msg("issued session token")
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"token": token, "username": req.Username}})
}

func (g *gateway) position(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

	g.mu.Lock()
	defer g.mu.Unlock()

	if token == "" || token != g.token || g.expiredLocked() {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "errors": []gin.H{{"code": 121, "error": "session expired"}}})
		return
	}

	g.stepLocked()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"latitude":   strconv.FormatFloat(g.lat, 'f', 6, 64),
			"longitude":  strconv.FormatFloat(g.lon, 'f', 6, 64),
			"angle":      strconv.FormatFloat(g.heading, 'f', 0, 64),
			"speed":      strconv.FormatFloat(g.speed, 'f', 1, 64),
			"satellites": strconv.Itoa(7 + rand.Intn(6)),
		},
	})
}

func (g *gateway) expiredLocked() bool {
	return g.tokenTTL > 0 && g.now().Sub(g.issuedAt) > g.tokenTTL
}

// stepLocked advances the vessel along its heading for the time since the
// last read, with a small random course change.
func (g *gateway) stepLocked() {
	now := g.now()
	if g.lastStep.IsZero() {
		g.lastStep = now
		return
	}
	elapsed := now.Sub(g.lastStep).Seconds()
	g.lastStep = now

	meters := g.speed * 0.514444 * elapsed
	rad := g.heading * math.Pi / 180
	g.lat += meters * math.Cos(rad) / metersPerDegree
	g.lon += meters * math.Sin(rad) / (metersPerDegree * math.Cos(g.lat*math.Pi/180))

	g.heading = math.Mod(g.heading+(rand.Float64()-0.5)*10+360, 360)
}
