package realtime

import (
	"net/http"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/blogchat/backend/internal/common/constants"
	commonhttp "github.com/blogchat/backend/internal/common/http"
	"github.com/blogchat/backend/internal/common/jwtverify"
	"github.com/blogchat/backend/internal/common/logger"
)

type Handler struct {
	hub       *Hub
	jwtSecret []byte
	cfg       ClientConfig
	upgrader  gorillaWS.Upgrader
	log       *logger.Logger
}

func NewHandler(hub *Hub, jwtSecret string, cfg ClientConfig, log *logger.Logger) *Handler {
	return &Handler{
		hub:       hub,
		jwtSecret: []byte(jwtSecret),
		cfg:       cfg,
		log:       log,
		upgrader: gorillaWS.Upgrader{
			ReadBufferSize:  constants.WebSocketReadBufferSize,
			WriteBufferSize: constants.WebSocketWriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				host := r.Host
				if host == "" {
					host = r.URL.Host
				}
				return origin == "http://"+host || origin == "https://"+host
			},
		},
	}
}

// ServeHTTP authenticates the handshake (Authorization header, or a token
// query parameter for browser websocket clients that cannot set headers)
// and hands the connection to the hub.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tokenString, ok := jwtverify.ExtractTokenFromHeader(r)
	if !ok {
		tokenString = r.URL.Query().Get("token")
	}
	if tokenString == "" {
		commonhttp.WriteError(w, http.StatusUnauthorized, "authorization header missing or malformed")
		return
	}

	claims, err := jwtverify.ParseToken(tokenString, h.jwtSecret)
	if err != nil {
		h.log.Warnf("websocket auth failed: %v", err)
		commonhttp.WriteError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorf("websocket upgrade failed: %v", err)
		return
	}

	client := NewClient(h.hub, conn, claims.UserID, h.cfg, h.log)
	h.hub.Register(client)
	client.Start()
}
