// app/bootstrap.go
package app

import (
	"context"
	"errors"
	"fmt"

	"Gin_postgres_redis_device_rental/booking"
	"Gin_postgres_redis_device_rental/config"

	"go.uber.org/zap"
)

// BootstrapInventory registers the configured seed devices. Serials already present are
// skipped, so it is safe to run at every start.
func BootstrapInventory(ctx context.Context, seeds []config.DeviceSeed, devices *booking.Devices, log *zap.Logger) (int, error) {
	created := 0
	for _, s := range seeds {
		_, err := devices.Register(ctx, booking.DeviceInput{
			Name:         s.Name,
			Type:         s.Type,
			SerialNumber: s.SerialNumber,
			Location:     s.Location,
		})
		switch {
		case err == nil:
			created++
		case errors.Is(err, booking.ErrDuplicateSerial):
			// 已存在，跳过
		default:
			return created, fmt.Errorf("seed device %q: %w", s.SerialNumber, err)
		}
	}
	if len(seeds) > 0 {
		log.Info("inventory bootstrapped", zap.Int("seeds", len(seeds)), zap.Int("created", created))
	}
	return created, nil
}
