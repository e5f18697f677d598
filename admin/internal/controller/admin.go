package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	adminService "github.com/printforge/storefront/admin/internal/service"
	adminRequest "github.com/printforge/storefront/admin/pkg/request"
	"github.com/printforge/storefront/internal/common"
	inErrors "github.com/printforge/storefront/internal/errors"
	commonHttp "github.com/printforge/storefront/internal/http"
	"github.com/printforge/storefront/internal/log"
	"github.com/printforge/storefront/internal/middleware"
	"github.com/printforge/storefront/internal/model"
	"github.com/printforge/storefront/internal/otel"
	"github.com/printforge/storefront/internal/session"
	"github.com/printforge/storefront/internal/validation"
	orderRequest "github.com/printforge/storefront/order/pkg/request"
	orderService "github.com/printforge/storefront/order/service"
)

type AdminController struct {
	admins   *adminService.AdminService
	orders   *orderService.OrderService
	validate *validation.Validator
	secret   string
}

func AttachAdminController(
	router *mux.Router,
	admins *adminService.AdminService,
	orders *orderService.OrderService,
	validate *validation.Validator,
	secret string,
) {
	controller := AdminController{
		admins:   admins,
		orders:   orders,
		validate: validate,
		secret:   secret,
	}

	sub := router.PathPrefix("/admin").Subrouter()
	sub.Use(middleware.AdminSessionGate(secret))
	sub.HandleFunc("/login", controller.Login).Methods(http.MethodPost)
	sub.HandleFunc("/logout", controller.Logout).Methods(http.MethodPost)
	sub.HandleFunc("/session", controller.Session).Methods(http.MethodGet)
	sub.HandleFunc("/orders", controller.FindOrders).Methods(http.MethodGet)
	sub.HandleFunc("/orders/{orderId}/status", controller.UpdateOrderStatus).
		Methods(http.MethodPatch)
	sub.HandleFunc("/revalidate", controller.Revalidate).Methods(http.MethodPost)
}

func (t AdminController) Login(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AdminController Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminController Login").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := adminRequest.Login{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	if err := t.validate.Struct(c, reqBody); err != nil {
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().
		Str(log.KeyProcess, "logging in").
		Str(log.KeyEmail, reqBody.Email).
		Logger()
	logger.Info().Msg("logging in")
	c = logger.WithContext(c)
	token, err := t.admins.Login(c, reqBody.Email, reqBody.Password)
	if err != nil {
		err = fmt.Errorf("failed logging in with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("logged in")

	http.SetCookie(w, session.NewCookie(token, t.admins.SessionTTL()))
	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "logged in",
		"data":       map[string]interface{}{"email": reqBody.Email},
	})
}

func (t AdminController) Logout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AdminController Logout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminController Logout").
		Logger()
	logger.Info().Msg("logging out")

	http.SetCookie(w, session.ExpiredCookie())
	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "logged out",
	})
}

// Session reports whether the caller holds a valid session. It always answers
// 200 so the storefront can poll it without tripping the redirecting gate.
func (t AdminController) Session(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AdminController Session")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminController Session").
		Logger()
	c = logger.WithContext(c)

	authenticated := false
	email := ""
	if cookie, err := r.Cookie(common.AdminSessionCookie); err == nil {
		if subject, err := session.VerifyToken(c, cookie.Value, t.secret); err == nil {
			authenticated = true
			email = subject
		}
	}
	logger.Info().Bool("authenticated", authenticated).Msg("checked session")

	data := map[string]interface{}{"authenticated": authenticated}
	if authenticated {
		data["email"] = email
	}
	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "checked session",
		"data":       data,
	})
}

func (t AdminController) FindOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AdminController FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminController FindOrders").
		Logger()

	param := orderRequest.FindOrders{
		Status: model.OrderStatus(r.URL.Query().Get("status")),
	}
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil {
			err = fmt.Errorf("failed parsing limit=%s with error=%w", rawLimit, err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusBadRequest,
				"message":    err.Error(),
			})
			return
		}
		param.Limit = limit
	}

	logger = logger.With().Str(log.KeyProcess, "finding orders").Logger()
	logger.Info().Msg("finding orders")
	c = logger.WithContext(c)
	orders, err := t.orders.FindOrders(c, param)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msgf("found %d orders", len(orders))

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found orders",
		"data":       map[string]interface{}{"orders": orders},
	})
}

func (t AdminController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AdminController UpdateOrderStatus")
	defer span.End()

	orderID := mux.Vars(r)["orderId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminController UpdateOrderStatus").
		Str(log.KeyOrderID, orderID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := orderRequest.UpdateOrderStatus{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	if err := t.validate.Struct(c, reqBody); err != nil {
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().
		Str(log.KeyProcess, "transitioning order status").
		Str(log.KeyOrderStatus, string(reqBody.Status)).
		Logger()
	logger.Info().Msg("transitioning order status")
	c = logger.WithContext(c)
	order, err := t.orders.Transition(c, orderID, reqBody.Status)
	if err != nil {
		err = fmt.Errorf("failed transitioning order status with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("transitioned order status")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "updated order status",
		"data":       map[string]interface{}{"order": order},
	})
}

func (t AdminController) Revalidate(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AdminController Revalidate")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminController Revalidate").
		Logger()
	c = logger.WithContext(c)

	cookie, err := r.Cookie(common.AdminSessionCookie)
	if err != nil {
		inErrors.HandleError(inErrors.ErrUnauthorized, span)
		logger.Warn().Err(inErrors.ErrUnauthorized).Msg("missing admin session credential")
		writeError(c, w, inErrors.ErrUnauthorized)
		return
	}
	email, err := session.VerifyToken(c, cookie.Value, t.secret)
	if err != nil {
		inErrors.HandleError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := adminRequest.Revalidate{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	if err := t.validate.Struct(c, reqBody); err != nil {
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().
		Str(log.KeyProcess, "revalidating path").
		Str(log.KeyEmail, email).
		Logger()
	logger.Info().Msg("revalidating path")
	c = logger.WithContext(c)
	if err := t.admins.Revalidate(c, email, reqBody.Path); err != nil {
		err = fmt.Errorf("failed revalidating path with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("revalidated path")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "revalidated path",
		"data":       map[string]interface{}{"path": reqBody.Path},
	})
}

func writeError(c context.Context, w http.ResponseWriter, err error) {
	body := map[string]interface{}{
		"status":     "failed",
		"statusCode": commonHttp.ErrorStatusCode(err),
		"message":    err.Error(),
	}
	if validationErrors, ok := inErrors.AsValidationErrors(err); ok {
		body["errors"] = validationErrors
	}
	commonHttp.WriteJsonResponse(c, w, map[string]string{}, body)
}
