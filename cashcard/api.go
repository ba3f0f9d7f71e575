package cashcard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Laieb786/tutorial-spring-boot/cashcard/models"
	"github.com/Laieb786/tutorial-spring-boot/internal/auth"
	"github.com/go-chi/chi/v5"
)

// API is the HTTP surface of the cash card service.
type API struct {
	service *Service
}

func NewAPI(service *Service) *API {
	return &API{
		service: service,
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Route("/cashcards", func(r chi.Router) {
		r.Get("/", a.findPage)
		r.Post("/", a.createCashCard)
		r.Get("/{id}", a.findByID)
	})
}

func (a *API) findByID(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	// A non-numeric id cannot name any record; it gets the same empty 404
	// as an absent one.
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	card, err := a.service.FindByID(r.Context(), id, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(card)
}

func (a *API) findPage(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	page, err := models.ParsePageRequest(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := a.service.FindPage(r.Context(), ownerID, page)
	if err != nil {
		if errors.Is(err, models.ErrInvalidArgument) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Total-Count", strconv.Itoa(result.TotalCount))
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result.Items)
}

func (a *API) createCashCard(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	// CreateCashCard only has an amount field; an id or owner in the body is
	// dropped by the decoder rather than trusted.
	create := models.CreateCashCard{}
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	card, err := a.service.Create(r.Context(), create, ownerID)
	if err != nil {
		if errors.Is(err, models.ErrInvalidArgument) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", fmt.Sprintf("/cashcards/%d", card.ID))
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(card)
}
