package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/eonil4/kingdom-clash-planner-sub000/internal/catalog"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/codec"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/engine"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/hub"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/linkstore"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/lobby"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/metrics"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/types"
)

const maxCodeAttempts = 8

// Deps are the collaborators the HTTP surface routes into.
type Deps struct {
	Hub         *hub.Hub
	Catalog     *catalog.Catalog
	Links       linkstore.Store
	Metrics     *metrics.Metrics
	Log         *zap.Logger
	HistorySize int
}

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// CreateSession starts a planning session, seeded from share-link query
// values when the request carries any.
func CreateSession(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			if d.Hub.Get(c) == nil {
				code = c
				break
			}
			d.Log.Debug("collision on session code, regenerating", zap.String("code", c))
		}

		p := engine.NewPlanner(d.Catalog, engine.WithHistorySize(d.HistorySize))
		q := codec.LinkQuery(r.URL.RawQuery)
		if q.Has(codec.QueryUnits) || q.Has(codec.QueryFormation) {
			p.Load(q.Get(codec.QueryUnits), q.Get(codec.QueryFormation))
		}
		state := p.State()

		reply := make(chan *lobby.Lobby, 1)
		if !d.Hub.Send(hub.EnsureLobby{Code: code, Planner: p, Reply: reply}) || <-reply == nil {
			http.Error(w, "failed to create session", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, types.SessionResponse{Code: code, State: &state})
	}
}

func GetSession(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		lb := d.Hub.Get(code)
		if lb == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		reply := make(chan lobby.View, 1)
		if !lb.Send(lobby.GetState{Reply: reply}) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		select {
		case v := <-reply:
			writeJSON(w, http.StatusOK, types.SessionResponse{Code: code, State: &v.State})
		case <-lb.Done():
			http.Error(w, "session not found", http.StatusNotFound)
		case <-r.Context().Done():
		}
	}
}

func DeleteSession(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Hub.Send(hub.RemoveLobby{Code: chi.URLParam(r, "code")})
		w.WriteHeader(http.StatusNoContent)
	}
}

// CreateLink stores a share link under a short code. The blobs are decoded
// and re-encoded first so stored links are canonical.
func CreateLink(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.LinkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		link := Canonical(codec.New(d.Catalog), req.Units, req.Formation)
		for attempt := 0; ; attempt++ {
			if attempt == maxCodeAttempts {
				http.Error(w, "failed to allocate link code", http.StatusServiceUnavailable)
				return
			}
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			link.Code = c
			err = d.Links.Save(r.Context(), link)
			if err == nil {
				break
			}
			if !errors.Is(err, linkstore.ErrCodeTaken) {
				d.Log.Error("save link", zap.Error(err))
				http.Error(w, "failed to save link", http.StatusInternalServerError)
				return
			}
		}
		d.Metrics.Link("save")

		writeJSON(w, http.StatusCreated, linkResponse(link))
	}
}

func GetLink(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link, err := d.Links.Get(r.Context(), chi.URLParam(r, "code"))
		if errors.Is(err, linkstore.ErrLinkNotFound) {
			http.Error(w, "link not found", http.StatusNotFound)
			return
		}
		if err != nil {
			d.Log.Error("get link", zap.Error(err))
			http.Error(w, "failed to load link", http.StatusInternalServerError)
			return
		}
		d.Metrics.Link("get")
		writeJSON(w, http.StatusOK, linkResponse(link))
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Canonical re-encodes both blobs. An empty blob stays empty.
func Canonical(c *codec.Codec, units, formationText string) linkstore.Link {
	q := url.Values{}
	q.Set(codec.QueryUnits, units)
	q.Set(codec.QueryFormation, formationText)
	q = c.Normalize(q)
	return linkstore.Link{
		Units:     q.Get(codec.QueryUnits),
		Formation: q.Get(codec.QueryFormation),
	}
}

func linkResponse(link linkstore.Link) types.LinkResponse {
	q := url.Values{}
	if link.Formation != "" {
		q.Set(codec.QueryFormation, link.Formation)
	}
	if link.Units != "" {
		q.Set(codec.QueryUnits, link.Units)
	}
	return types.LinkResponse{
		Code:      link.Code,
		Units:     link.Units,
		Formation: link.Formation,
		Query:     q.Encode(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
