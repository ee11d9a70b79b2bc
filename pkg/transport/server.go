package transport

import (
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	catalogservice "storefront/pkg/catalog/domain/service"
	cartmodel "storefront/pkg/cart/domain/model"
	"storefront/pkg/common/domain"
	"storefront/pkg/common/notify"
	quotationservice "storefront/pkg/quotation/domain/service"
)

type Server struct {
	catalog    catalogservice.CatalogService
	carts      cartmodel.Repository
	dispatcher domain.EventDispatcher
	notifier   notify.Notifier
	exporter   quotationservice.Exporter
}

func NewServer(
	catalog catalogservice.CatalogService,
	carts cartmodel.Repository,
	dispatcher domain.EventDispatcher,
	notifier notify.Notifier,
	exporter quotationservice.Exporter,
) *Server {
	return &Server{
		catalog:    catalog,
		carts:      carts,
		dispatcher: dispatcher,
		notifier:   notifier,
		exporter:   exporter,
	}
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/products", s.listProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", s.getProduct).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}/price", s.priceProduct).Methods(http.MethodGet)
	api.HandleFunc("/facets", s.getFacets).Methods(http.MethodGet)

	api.HandleFunc("/carts", s.createCart).Methods(http.MethodPost)
	api.HandleFunc("/carts/{cartID}", s.getCart).Methods(http.MethodGet)
	api.HandleFunc("/carts/{cartID}", s.clearCart).Methods(http.MethodDelete)
	api.HandleFunc("/carts/{cartID}/lines", s.addLine).Methods(http.MethodPost)
	api.HandleFunc("/carts/{cartID}/lines/{id}", s.removeLine).Methods(http.MethodDelete)

	api.HandleFunc("/quotations/export", s.exportQuotation).Methods(http.MethodPost)

	return logMiddleware(r)
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}
