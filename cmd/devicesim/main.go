// Command devicesim serves a stand-in for the vessel's GPS gateway over HTTPS
// so the server can be run without the real router.
//
// Generate a throwaway certificate first:
//
//	openssl req -x509 -newkey rsa:2048 -nodes -days 365 \
//	  -keyout key.pem -out cert.pem -subj /CN=localhost
package main

import (
	"flag"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/egebilir/ship-display/config"
)

func main() {
	var (
		addr     = flag.String("addr", ":8443", "listen address")
		certFile = flag.String("cert", "cert.pem", "TLS certificate")
		keyFile  = flag.String("key", "key.pem", "TLS private key")
		username = flag.String("user", "admin", "login username")
		password = flag.String("pass", "admin", "login password")
		tokenTTL = flag.Duration("token-ttl", 0, "session lifetime before reads return 401 (0 = never)")
		lat      = flag.Float64("lat", 35.05, "starting latitude")
		lon      = flag.Float64("lon", 129.10, "starting longitude")
		logLevel = flag.String("log-level", "info", "debug|info|warn|error")
	)
	flag.Parse()

	config.InitLogger(config.LoggingConfig{Level: *logLevel, Format: "console"})

	if _, err := os.Stat(*certFile); err != nil {
		log.Fatal().Err(err).Msg("certificate not found, see package doc for how to generate one")
	}

	gin.SetMode(gin.ReleaseMode)
	g := newGateway(*username, *password, *tokenTTL, *lat, *lon)

	log.Info().
		Str("addr", *addr).
		Dur("token_ttl", *tokenTTL).
		Float64("latitude", *lat).
		Float64("longitude", *lon).
		Msg("device simulator listening")
	if err := g.routes().RunTLS(*addr, *certFile, *keyFile); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}
