package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"postboard/internal/entity"
	"postboard/pkg/logger"
	"postboard/pkg/payment"

	"github.com/go-playground/validator/v10"
)

type FileStorage interface {
	UploadFile(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, payload interface{}) error
}

type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (*payment.Session, error)
	GetSession(ctx context.Context, sessionID string) (*payment.Session, error)
}

type TokenIssuer interface {
	GenerateToken(userID, role string) (string, error)
}

// Upload is a file received from a client, fully buffered.
type Upload struct {
	Filename string
	Data     []byte
}

var validate = validator.New()

func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return entity.NewError(entity.ErrValidation, "invalid input", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
	}
	return entity.NewError(entity.ErrValidation, strings.Join(msgs, "; "), err)
}

// publish sends an event when a publisher is configured. Failures are logged only.
func publish(ctx context.Context, pub EventPublisher, log *logger.Logger, eventType string, payload interface{}) {
	if pub == nil {
		return
	}
	if err := pub.PublishEvent(ctx, eventType, payload); err != nil {
		log.Warn("Failed to publish %s event: %v", eventType, err)
	}
}
