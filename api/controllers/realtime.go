package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/agroconnect/agroconnect-backend/api/responses"
	"github.com/agroconnect/agroconnect-backend/pkg/config"
	pkgerrors "github.com/agroconnect/agroconnect-backend/pkg/errors"
	"github.com/agroconnect/agroconnect-backend/pkg/logger"
	"github.com/agroconnect/agroconnect-backend/pkg/realtime"
)

// RealtimeParams bundles what the websocket endpoint needs.
type RealtimeParams struct {
	Hub            *realtime.Hub
	Publisher      realtime.Publisher
	Presence       presenceTracker
	Config         config.RealtimeConfig
	AllowedOrigins []string
	Logger         *logger.Logger
}

// RealtimeSocket upgrades an authenticated request to a websocket attached to
// the hub. Connecting marks the user online and heartbeats and pongs keep the
// entry fresh. Closing the user's last socket on this instance marks them
// offline. Both transitions are broadcast as presence.updated.
func RealtimeSocket(params RealtimeParams) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(params.AllowedOrigins),
	}
	logg := params.Logger

	return func(w http.ResponseWriter, r *http.Request) {
		if params.Hub == nil || params.Presence == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "realtime unavailable"))
			return
		}
		principal, ok := requirePrincipal(w, r, logg)
		if !ok {
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error.
			if logg != nil {
				logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "websocket upgrade failed")
			}
			return
		}

		ctx := r.Context()
		user := presenceUser(principal)
		owner := strings.ToLower(strings.TrimSpace(user.Email))
		params.Hub.Join(owner)

		client := realtime.NewClient(params.Hub, conn, params.Config, func(hbCtx context.Context) {
			if err := params.Presence.MarkOnline(hbCtx, user); err != nil && logg != nil {
				logg.Warn(logg.WithField(hbCtx, "error", err.Error()), "presence heartbeat failed")
			}
		})
		client.OnConnect(func(connCtx context.Context) {
			if err := params.Presence.MarkOnline(connCtx, user); err != nil && logg != nil {
				logg.Error(connCtx, "mark online on connect", err)
			}
			_, _ = broadcastPresence(connCtx, params.Presence, params.Publisher, logg)
		})
		client.Serve(ctx)

		if params.Hub.Leave(owner) > 0 {
			return
		}
		cleanup := context.WithoutCancel(ctx)
		if err := params.Presence.MarkOffline(cleanup, user.Email); err != nil && logg != nil {
			logg.Error(cleanup, "mark offline on disconnect", err)
		}
		_, _ = broadcastPresence(cleanup, params.Presence, params.Publisher, logg)
	}
}

// originChecker accepts same-host requests, requests without an Origin header
// and anything listed in the CORS allow list. "*" allows every origin.
func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	wildcard := false
	for _, origin := range allowed {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			wildcard = true
		}
		set[strings.ToLower(origin)] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || wildcard {
			return true
		}
		if _, ok := set[strings.ToLower(origin)]; ok {
			return true
		}
		host := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(origin), "https://"), "http://")
		return host == strings.ToLower(r.Host)
	}
}
