package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/agroconnect/agroconnect-backend/api/middleware"
	"github.com/agroconnect/agroconnect-backend/api/responses"
	"github.com/agroconnect/agroconnect-backend/internal/presence"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	pkgerrors "github.com/agroconnect/agroconnect-backend/pkg/errors"
	"github.com/agroconnect/agroconnect-backend/pkg/logger"
	"github.com/agroconnect/agroconnect-backend/pkg/realtime"
)

type presenceTracker interface {
	MarkOnline(ctx context.Context, user presence.User) error
	MarkOffline(ctx context.Context, email string) error
	LoadOnline(ctx context.Context) ([]presence.Entry, error)
}

type presenceResponse struct {
	Online         []presence.Entry `json:"online"`
	Count          int              `json:"count"`
	PollIntervalMS int64            `json:"poll_interval_ms"`
}

// PresenceHeartbeat marks the caller online and returns who else is around.
func PresenceHeartbeat(tracker presenceTracker, publisher realtime.Publisher, pollInterval time.Duration, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tracker == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "presence service unavailable"))
			return
		}
		principal, ok := requirePrincipal(w, r, logg)
		if !ok {
			return
		}
		if err := tracker.MarkOnline(r.Context(), presenceUser(principal)); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark online"))
			return
		}
		online, err := broadcastPresence(r.Context(), tracker, publisher, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newPresenceResponse(online, pollInterval))
	}
}

func PresenceList(tracker presenceTracker, pollInterval time.Duration, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tracker == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "presence service unavailable"))
			return
		}
		online, err := tracker.LoadOnline(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load presence"))
			return
		}
		responses.WriteSuccess(w, newPresenceResponse(online, pollInterval))
	}
}

// PresenceLeave marks the caller offline, typically from the logout flow.
func PresenceLeave(tracker presenceTracker, publisher realtime.Publisher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tracker == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "presence service unavailable"))
			return
		}
		principal, ok := requirePrincipal(w, r, logg)
		if !ok {
			return
		}
		if err := tracker.MarkOffline(r.Context(), principal.Email); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark offline"))
			return
		}
		if _, err := broadcastPresence(r.Context(), tracker, publisher, logg); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// broadcastPresence reloads the online list and pushes it to every socket.
// Publish failures are logged; the caller still gets the list.
func broadcastPresence(ctx context.Context, tracker presenceTracker, publisher realtime.Publisher, logg *logger.Logger) ([]presence.Entry, error) {
	online, err := tracker.LoadOnline(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load presence")
	}
	if publisher != nil {
		if err := publisher.Publish(ctx, enums.RealtimePresenceUpdated, presence.Snapshot{Online: online}); err != nil && logg != nil {
			logg.Error(ctx, "broadcast presence", err)
		}
	}
	return online, nil
}

func presenceUser(p middleware.Principal) presence.User {
	return presence.User{Email: p.Email, FullName: p.FullName, UserType: p.UserType}
}

func newPresenceResponse(online []presence.Entry, pollInterval time.Duration) presenceResponse {
	if online == nil {
		online = []presence.Entry{}
	}
	return presenceResponse{
		Online:         online,
		Count:          len(online),
		PollIntervalMS: pollInterval.Milliseconds(),
	}
}
