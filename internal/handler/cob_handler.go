package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"cob-tracker/internal/duration"
	"cob-tracker/internal/events"
	"cob-tracker/internal/export"
	"cob-tracker/internal/middleware"
	"cob-tracker/internal/model"
	"cob-tracker/internal/stats"
)

func (h *Handler) ListCobs(w http.ResponseWriter, r *http.Request) {
	cobs, err := h.store.ListCobs(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cobs)
}

// readInput decodes and validates a create/update body. When both clock
// times parse, the duration text is recomputed server side.
func (h *Handler) readInput(w http.ResponseWriter, r *http.Request) (model.CobInput, bool) {
	var in model.CobInput
	if !decode(w, r, &in) {
		return in, false
	}
	if in.Date == "" || in.StartTime == "" || in.EndTime == "" || in.DurationText == "" {
		writeError(w, http.StatusBadRequest, "date, startTime, endTime and durationText are required")
		return in, false
	}
	if text, err := duration.Text(in.StartTime, in.EndTime); err == nil {
		if text != in.DurationText {
			h.log.Warn("duration text mismatch",
				"start", in.StartTime, "end", in.EndTime,
				"sent", in.DurationText, "computed", text)
		}
		in.DurationText = text
	}
	return in, true
}

func (h *Handler) publish(action, id string) {
	h.broker.Publish(events.Event{Kind: events.KindCobs, Action: action, ID: id})
}

func (h *Handler) CreateCob(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}
	c, err := h.store.CreateCob(r.Context(), in)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.log.Debug("cob created", "id", c.ID, "by", middleware.AdminID(r.Context()))
	h.publish("created", c.ID)
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateCob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}
	c, err := h.store.UpdateCob(r.Context(), id, in)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.log.Debug("cob updated", "id", id, "by", middleware.AdminID(r.Context()))
	h.publish("updated", id)
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.store.DeleteCob(r.Context(), id); err != nil {
		h.storeError(w, r, err)
		return
	}
	h.log.Debug("cob deleted", "id", id, "by", middleware.AdminID(r.Context()))
	h.publish("deleted", id)
	writeJSON(w, http.StatusOK, message{"COB deleted"})
}

// ExportCobs renders every entry as an attachment (?format=json|csv|xlsx,
// default csv).
func (h *Handler) ExportCobs(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	f, err := export.Normalize(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unsupported export format")
		return
	}

	cobs, err := h.store.ListCobs(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, f, cobs); err != nil {
		h.log.Error("export", "format", f, "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	name := fmt.Sprintf("cobs-%s.%s", time.Now().UTC().Format("20060102"), f)
	w.Header().Set("Content-Type", export.ContentType(f))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := stats.ParseRange(q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "from and to must be YYYY-MM-DD")
		return
	}
	cobs, err := h.store.ListCobs(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	_, sum := stats.Dashboard(cobs, rng)
	writeJSON(w, http.StatusOK, sum)
}

const heartbeat = 25 * time.Second

// Events streams change hints as Server-Sent Events until the client leaves.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ch, cancel := h.broker.Subscribe()
	defer cancel()

	fmt.Fprint(w, ": connected\n\n")
	if err := rc.Flush(); err != nil {
		h.log.Warn("event stream cannot flush", "err", err)
		return
	}

	t := time.NewTicker(heartbeat)
	defer t.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-t.C:
			fmt.Fprint(w, ": ping\n\n")
		case e, ok := <-ch:
			if !ok {
				return
			}
			data, _ := json.Marshal(e)
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Kind, data)
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

type healthBody struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	var up bool
	if h.opts.Health != nil {
		up = h.opts.Health.Up()
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		up = h.store.Ping(ctx) == nil
		cancel()
	}
	if !up {
		writeJSON(w, http.StatusServiceUnavailable, healthBody{"degraded", "down"})
		return
	}
	writeJSON(w, http.StatusOK, healthBody{"ok", "up"})
}
