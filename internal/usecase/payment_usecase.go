package usecase

import (
	"context"

	"postboard/internal/entity"
	"postboard/internal/repo/persistent"
	"postboard/pkg/logger"
	"postboard/pkg/payment"
)

type PaymentUseCase interface {
	Initiate(ctx context.Context, postID, buyerID string) (*entity.CheckoutSession, error)
	Confirm(ctx context.Context, sessionID, postID, buyerID string) error
}

type paymentUseCase struct {
	postRepo persistent.PostRepository
	userRepo persistent.UserRepository
	provider CheckoutProvider
	logger   *logger.Logger
}

func NewPaymentUseCase(postRepo persistent.PostRepository, userRepo persistent.UserRepository, provider CheckoutProvider, logger *logger.Logger) PaymentUseCase {
	return &paymentUseCase{
		postRepo: postRepo,
		userRepo: userRepo,
		provider: provider,
		logger:   logger,
	}
}

func (uc *paymentUseCase) Initiate(ctx context.Context, postID, buyerID string) (*entity.CheckoutSession, error) {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsPaid {
		return nil, entity.Validation("post %s is not a paid post", postID)
	}

	session, err := uc.provider.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		PostID:      post.ID,
		BuyerID:     buyerID,
		Title:       post.Title,
		AmountMinor: post.PriceMinorUnits(),
	})
	if err != nil {
		return nil, entity.Upstream("failed to create checkout session", err)
	}

	uc.logger.Info("Checkout session %s created for post %s by %s", session.ID, postID, buyerID)
	return &entity.CheckoutSession{SessionID: session.ID, URL: session.URL}, nil
}

func (uc *paymentUseCase) Confirm(ctx context.Context, sessionID, postID, buyerID string) error {
	if sessionID == "" || postID == "" {
		return entity.Validation("sessionId and postId are required")
	}

	session, err := uc.provider.GetSession(ctx, sessionID)
	if err != nil {
		return entity.Upstream("failed to verify payment", err)
	}
	if session.PaymentStatus != payment.StatusPaid {
		return entity.Upstream("payment not completed", nil)
	}
	if session.PostID != postID || session.BuyerID != buyerID {
		return entity.Validation("payment session %s was not issued for this purchase", sessionID)
	}

	if _, err := uc.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}

	if err := uc.userRepo.AddPaidPost(ctx, buyerID, postID); err != nil {
		return err
	}

	uc.logger.Info("Payment %s confirmed: user %s unlocked post %s", sessionID, buyerID, postID)
	return nil
}
