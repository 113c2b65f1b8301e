// Package server hosts registered functions behind a gin HTTP server. It
// speaks the Lambda runtime interface emulator invoke protocol and forwards
// every other request to the default function as a proxy event.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/gin-swagger/swaggerFiles"

	"github.com/Eventual-Inc/pdfagent/pkg/function"
	"github.com/Eventual-Inc/pdfagent/pkg/function/registry"
	_ "github.com/Eventual-Inc/pdfagent/pkg/server/docs"
)

// InvocationsPath is the emulator's invoke route. The function segment
// "function" addresses the default function.
const InvocationsPath = "/2015-03-31/functions/:function/invocations"

const defaultFunctionAlias = "function"

var ErrRegistryNil = errors.New("server requires a function registry")

type Config struct {
	Addr string

	Functions registry.FunctionRegistry

	// DefaultFunction serves the invoke alias and proxied requests.
	// Defaults to lambda_handler.
	DefaultFunction string

	Log *logrus.Entry
}

type Server struct {
	functions       registry.FunctionRegistry
	defaultFunction string
	engine          *gin.Engine
	httpServer      *http.Server
	log             *logrus.Entry
}

func New(config Config) (*Server, error) {
	if config.Functions == nil {
		return nil, ErrRegistryNil
	}
	s := &Server{
		functions:       config.Functions,
		defaultFunction: config.DefaultFunction,
		log:             config.Log,
	}
	if s.defaultFunction == "" {
		s.defaultFunction = function.DefaultEntrypoint
	}
	if s.log == nil {
		s.log = logrus.NewEntry(logrus.StandardLogger())
	}
	if _, err := s.functions.Lookup(s.defaultFunction); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger(s.log))
	r.POST(InvocationsPath, s.InvokeHandler)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.NoRoute(s.ProxyHandler)
	s.engine = r

	s.httpServer = &http.Server{Addr: config.Addr, Handler: r}
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe blocks until the server stops. It returns nil after a
// graceful Shutdown.
func (s *Server) ListenAndServe() error {
	s.log.WithFields(logrus.Fields{"addr": s.httpServer.Addr, "function": s.defaultFunction}).Info("listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) functionName(ctx *gin.Context) string {
	name := ctx.Param("function")
	if name == "" || name == defaultFunctionAlias {
		return s.defaultFunction
	}
	return name
}

// InvokeHandler godoc
// @Summary      Invoke a function
// @Description  Runs the function once with the JSON payload as its request and returns its response
// @Tags         invocations
// @Accept       json
// @Produce      json
// @Param        function  path      string  true  "function name, or \"function\" for the default"
// @Success      200       {object}  map[string]interface{}
// @Failure      400       {object}  model.InvocationError
// @Failure      404       {object}  HTTPError
// @Failure      500       {object}  model.InvocationError
// @Router       /2015-03-31/functions/{function}/invocations [post]
func (s *Server) InvokeHandler(ctx *gin.Context) {
	adapter, err := s.functions.Lookup(s.functionName(ctx))
	if err != nil {
		NewError(ctx, http.StatusNotFound, err)
		return
	}
	payload, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		NewError(ctx, http.StatusBadRequest, err)
		return
	}

	out, err := adapter.HandleJSON(ctx.Request.Context(), payload)
	if err != nil {
		requestLog(ctx, s.log).WithError(err).Warn("invocation failed")
		_ = ctx.Error(err)
		NewInvocationError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "application/json", out)
}

// ProxyHandler godoc
// @Summary      Proxy a request to the default function
// @Description  Any request that matches no other route is wrapped as an API Gateway proxy event and handled by the default function
// @Tags         proxy
// @Produce      json
// @Success      200  {object}  model.ProxyResponse
// @Failure      500  {object}  model.InvocationError
// @Router       /{path} [get]
func (s *Server) ProxyHandler(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		NewError(ctx, http.StatusBadRequest, err)
		return
	}
	event := proxyEvent(ctx.Request, ctx.GetString(requestIDKey), body)

	resp, err := s.functions.InvokeFunction(ctx.Request.Context(), s.defaultFunction, event)
	if err != nil {
		requestLog(ctx, s.log).WithError(err).Warn("proxied invocation failed")
		_ = ctx.Error(err)
		NewInvocationError(ctx, err)
		return
	}
	if err := writeProxyResponse(ctx, resp); err != nil {
		_ = ctx.Error(err)
		NewError(ctx, http.StatusBadGateway, err)
	}
}

// Routes lists the gin routes, in registration order.
func (s *Server) Routes() gin.RoutesInfo { return s.engine.Routes() }
