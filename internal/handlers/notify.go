// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"slugpress/internal/events"
)

// Notify accepts a change event over HTTP and forwards it to the event
// channel. Hosts that cannot reach Valkey use this instead of
// publishing directly.
func (a *API) Notify(w http.ResponseWriter, r *http.Request) {
	var e events.Event
	if !decodeBody(w, r, &e) {
		return
	}
	if err := e.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := a.publisher.Publish(r.Context(), e); err != nil {
		writeError(w, http.StatusBadGateway, "event publish failed")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
