package persistent

import (
	"errors"
	"fmt"

	"postboard/internal/entity"

	"gorm.io/gorm"
)

func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.NotFound(format, args...)
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
