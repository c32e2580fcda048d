package payment

import (
	"context"

	"go-payday/internal/shared/contextutil"

	"go.uber.org/zap"
)

// bestEffort menjalankan side effect pembukuan yang sengaja tidak boleh
// menggagalkan transisi status yang sudah commit. Error ditelan tapi
// selalu dilog dengan konteks terstruktur.
func bestEffort(ctx context.Context, logger *zap.Logger, action string, fn func() error, fields ...zap.Field) {
	if err := fn(); err != nil {
		fields = append(fields,
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Error(err),
		)
		logger.Error("best-effort side effect failed: "+action, fields...)
	}
}
