package observability

import (
	"context"
	"net"

	"github.com/signalsfoundry/mostlyharmless/internal/logging"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// SamplerService is the health-check service name reported by the sampler.
const SamplerService = "mostlyharmless.Sampler"

// HealthServer is a gRPC server exposing the standard health protocol so an
// operator can probe whether a sampling run is live.
type HealthServer struct {
	grpc   *grpc.Server
	health *health.Server
	log    logging.Logger
}

// NewHealthServer builds the server. The sampler service starts NOT_SERVING
// until SetServing(true) is called.
func NewHealthServer(log logging.Logger) *HealthServer {
	if log == nil {
		log = logging.Noop()
	}
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(loggingUnaryServerInterceptor(log)),
	)
	hs := health.NewServer()
	hs.SetServingStatus(SamplerService, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return &HealthServer{grpc: srv, health: hs, log: log}
}

// SetServing flips both the overall and the sampler service status.
func (h *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(SamplerService, status)
}

// Serve accepts connections on lis until Stop is called.
func (h *HealthServer) Serve(lis net.Listener) error {
	h.log.Info(context.Background(), "serving gRPC health", logging.String("addr", lis.Addr().String()))
	return h.grpc.Serve(lis)
}

// ListenAndServe listens on addr and serves in a background goroutine.
func (h *HealthServer) ListenAndServe(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	go func() {
		if err := h.Serve(lis); err != nil {
			h.log.Warn(context.Background(), "health server exited", logging.Err(err))
		}
	}()
	return nil
}

// Stop marks every service NOT_SERVING and drains the server.
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.grpc.GracefulStop()
}

func loggingUnaryServerInterceptor(base logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		reqLog := base.With(logging.String("method", info.FullMethod))
		ctx = logging.ContextWithLogger(ctx, reqLog)
		resp, err := handler(ctx, req)
		if err != nil {
			reqLog.Debug(ctx, "rpc failed", logging.Err(err))
		}
		return resp, err
	}
}
