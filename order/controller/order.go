package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/printforge/storefront/internal/errors"
	commonHttp "github.com/printforge/storefront/internal/http"
	"github.com/printforge/storefront/internal/log"
	"github.com/printforge/storefront/internal/otel"
	"github.com/printforge/storefront/order/service"
)

// OrderController is the shopper-facing order surface: lookup of a single
// order by the identifier handed out at checkout. Mutations live behind the
// admin gate.
type OrderController struct {
	service *service.OrderService
}

func AttachOrderController(router *mux.Router, svc *service.OrderService) {
	controller := OrderController{service: svc}

	sub := router.PathPrefix("/orders").Subrouter()
	sub.HandleFunc("/{orderId}", controller.FindOrderById).Methods(http.MethodGet)
}

func (t OrderController) FindOrderById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrderById")
	defer span.End()

	orderID := mux.Vars(r)["orderId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindOrderById").
		Str(log.KeyOrderID, orderID).
		Logger()

	c = logger.WithContext(c)
	order, err := t.service.FindOrderById(c, orderID)
	if err != nil {
		err = fmt.Errorf("failed finding order with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": commonHttp.ErrorStatusCode(err),
			"message":    err.Error(),
		})
		return
	}

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found order",
		"data":       map[string]interface{}{"order": order},
	})
}
